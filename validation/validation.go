package validation

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the storage format of cash-flow dates.
const DateLayout = "2006-01-02"

type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Basic validators
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
	}
}

func PositiveFloat(field string, val float64, v Violations) {
	if val <= 0 {
		v[field] = "must_be_positive"
	}
}

func PositiveInt(field string, val int, v Violations) {
	if val <= 0 {
		v[field] = "must_be_positive"
	}
}

// Integer parses raw as a base-10 int. On failure the field is flagged and 0 returned.
func Integer(field, raw string, v Violations) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		v[field] = "required"
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		v[field] = "not_an_integer"
		return 0
	}
	return n
}

// NonNegativeInt is Integer plus a lower bound of zero.
func NonNegativeInt(field, raw string, v Violations) int {
	n := Integer(field, raw, v)
	if _, bad := v[field]; !bad && n < 0 {
		v[field] = "must_not_be_negative"
	}
	return n
}

// Decimal parses raw as a decimal number. A comma is accepted as decimal separator.
func Decimal(field, raw string, v Violations) decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		v[field] = "required"
		return decimal.Zero
	}
	if strings.Count(raw, ",") == 1 && !strings.Contains(raw, ".") {
		raw = strings.Replace(raw, ",", ".", 1)
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		v[field] = "not_a_number"
		return decimal.Zero
	}
	return d
}

func NonNegativeDecimal(field string, val decimal.Decimal, v Violations) {
	if val.IsNegative() {
		v[field] = "must_not_be_negative"
	}
}

func PositiveDecimal(field string, val decimal.Decimal, v Violations) {
	if !val.IsPositive() {
		v[field] = "must_be_positive"
	}
}

// Date checks that raw is a calendar date in DateLayout and returns it normalised.
func Date(field, raw string, v Violations) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		v[field] = "required"
		return ""
	}
	t, err := time.Parse(DateLayout, raw)
	if err != nil {
		v[field] = "invalid_date"
		return ""
	}
	return t.Format(DateLayout)
}
