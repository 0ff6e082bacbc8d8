package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/diewo77/go-stock/i18n"
	"github.com/diewo77/go-stock/internal/models"
	"github.com/diewo77/go-stock/validation"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Report is the cash statement of one day.
type Report struct {
	Date     string          `json:"date"`
	Sales    decimal.Decimal `json:"sales"`
	Expenses decimal.Decimal `json:"expenses"`
	Balance  decimal.Decimal `json:"balance"`
	Entries  []ReportEntry   `json:"entries"`
}

// ReportEntry is a cash-flow entry, with the customer and items of the
// order for sales that came from one.
type ReportEntry struct {
	ID       uint            `json:"id"`
	Type     string          `json:"type"`
	Amount   decimal.Decimal `json:"amount"`
	OrderID  *uint           `json:"order_id,omitempty"`
	Customer string          `json:"customer,omitempty"`
	Items    string          `json:"items,omitempty"`
}

type ReportService struct {
	db *gorm.DB
	options
}

func NewReportService(db *gorm.DB, opts ...Option) *ReportService {
	return &ReportService{db: db, options: newOptions(opts)}
}

// DailyReport totals sales and expenses of date. Balance is always
// Sales minus Expenses.
func (s *ReportService) DailyReport(ctx context.Context, date string) (*Report, error) {
	v := validation.Violations{}
	date = validation.Date("date", date, v)
	if err := invalid(v); err != nil {
		return nil, err
	}

	var entries []models.CashFlowEntry
	err := s.db.WithContext(ctx).
		Preload("Order").
		Where("date = ?", date).
		Order("id").
		Find(&entries).Error
	if err != nil {
		return nil, storageErr("daily report", err)
	}

	r := &Report{
		Date:     date,
		Sales:    decimal.Zero,
		Expenses: decimal.Zero,
		Entries:  make([]ReportEntry, 0, len(entries)),
	}
	for _, e := range entries {
		switch {
		case e.IsSale():
			r.Sales = r.Sales.Add(e.Amount)
		case e.IsExpense():
			r.Expenses = r.Expenses.Add(e.Amount)
		}
		re := ReportEntry{ID: e.ID, Type: e.Type, Amount: e.Amount, OrderID: e.OrderID}
		if e.Order != nil {
			re.Customer = e.Order.Customer
			re.Items = e.Order.Items
		}
		r.Entries = append(r.Entries, re)
	}
	r.Balance = r.Sales.Sub(r.Expenses)
	return r, nil
}

// Render formats the report as a plain-text statement.
func (r *Report) Render(lang, currency string) string {
	money := func(d decimal.Decimal) string {
		return currency + " " + d.StringFixed(2)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s - %s\n\n", i18n.T(lang, "report.title"), r.Date)
	fmt.Fprintf(&b, "%s: %s\n", i18n.T(lang, "report.sales"), money(r.Sales))
	fmt.Fprintf(&b, "%s: %s\n", i18n.T(lang, "report.expenses"), money(r.Expenses))
	fmt.Fprintf(&b, "%s: %s\n\n", i18n.T(lang, "report.balance"), money(r.Balance))
	fmt.Fprintf(&b, "%s:\n", i18n.T(lang, "report.details"))
	for _, e := range r.Entries {
		if e.Type == models.EntryTypeSale && e.OrderID != nil && e.Customer != "" {
			fmt.Fprintf(&b, "%s #%d - %s: %s - %s\n",
				i18n.T(lang, "report.sale"), *e.OrderID,
				i18n.T(lang, "report.customer"), e.Customer, money(e.Amount))
			fmt.Fprintf(&b, "  %s: %s\n", i18n.T(lang, "report.items"), e.Items)
			continue
		}
		fmt.Fprintf(&b, "%s: %s\n", e.Type, money(e.Amount))
	}
	return b.String()
}
