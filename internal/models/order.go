package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// TimestampLayout is the storage format of order timestamps.
const TimestampLayout = "2006-01-02 15:04:05"

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusOpen       OrderStatus = "open"
	OrderStatusInProgress OrderStatus = "in_progress"
	OrderStatusFinalized  OrderStatus = "finalized"
	OrderStatusCompleted  OrderStatus = "completed"
)

// Valid reports whether s is one of the known states.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusOpen, OrderStatusInProgress, OrderStatusFinalized, OrderStatusCompleted:
		return true
	}
	return false
}

// Next returns the state reached by advancing s. Finalized orders are
// not advanced, they are completed.
func (s OrderStatus) Next() (OrderStatus, bool) {
	switch s {
	case OrderStatusOpen:
		return OrderStatusInProgress, true
	case OrderStatusInProgress:
		return OrderStatusFinalized, true
	}
	return "", false
}

// Order is a customer sale tracked through the status lifecycle.
// Items keeps the flattened "3x Widget, 1x Gadget" summary; Lines are the
// normalized rows the summary was built from.
type Order struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	Customer  string      `gorm:"size:255;not null" json:"customer"`
	Status    OrderStatus `gorm:"size:20;not null;index" json:"status"`
	Timestamp string      `gorm:"column:timestamp;size:19" json:"timestamp"`
	Items     string      `gorm:"type:text;not null" json:"items"`
	Lines     []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"lines,omitempty"`
}

// IsActive returns true until the order is completed.
func (o *Order) IsActive() bool {
	return o.Status != OrderStatusCompleted
}

// CanAdvance returns true if Advance is defined for the current state.
func (o *Order) CanAdvance() bool {
	_, ok := o.Status.Next()
	return ok
}

// CanComplete returns true only for finalized orders.
func (o *Order) CanComplete() bool {
	return o.Status == OrderStatusFinalized
}

// Date is the calendar day part of Timestamp.
func (o *Order) Date() string {
	if len(o.Timestamp) < 10 {
		return o.Timestamp
	}
	return o.Timestamp[:10]
}

// Total sums the line totals.
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for i := range o.Lines {
		total = total.Add(o.Lines[i].Total())
	}
	return total
}

// OrderItem is one product line of an order with the name and price
// captured at sale time.
type OrderItem struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	OrderID     uint            `gorm:"index;not null" json:"order_id"`
	ProductID   uint            `gorm:"index;not null" json:"product_id"`
	ProductName string          `gorm:"size:255;not null" json:"product_name"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
}

// Total is quantity × unit price.
func (i *OrderItem) Total() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Label renders the line as "<qty>x <name>".
func (i *OrderItem) Label() string {
	return fmt.Sprintf("%dx %s", i.Quantity, i.ProductName)
}

// SummarizeItems joins line labels with ", ".
func SummarizeItems(lines []OrderItem) string {
	parts := make([]string, 0, len(lines))
	for i := range lines {
		parts = append(parts, lines[i].Label())
	}
	return strings.Join(parts, ", ")
}
