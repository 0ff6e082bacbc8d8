// Package events carries shop state changes to interested parties.
package events

import (
	"errors"

	"github.com/diewo77/go-stock/internal/models"
	"github.com/shopspring/decimal"
)

// Event type names.
const (
	TypeOrderCreated     = "order.created"
	TypeOrderAdvanced    = "order.advanced"
	TypeOrderCompleted   = "order.completed"
	TypeExpenseRecorded  = "expense.recorded"
	TypeSaleRecorded     = "sale.recorded"
	TypeStockDecremented = "product.stock_decremented"
)

type Event interface{ Type() string }

type Dispatcher interface{ Dispatch(event Event) error }

type OrderCreated struct {
	OrderID   uint            `json:"order_id"`
	Customer  string          `json:"customer"`
	Items     string          `json:"items"`
	Total     decimal.Decimal `json:"total"`
	Timestamp string          `json:"timestamp"`
}

func (OrderCreated) Type() string { return TypeOrderCreated }

type OrderAdvanced struct {
	OrderID uint               `json:"order_id"`
	From    models.OrderStatus `json:"from"`
	To      models.OrderStatus `json:"to"`
}

func (OrderAdvanced) Type() string { return TypeOrderAdvanced }

type OrderCompleted struct {
	OrderID uint `json:"order_id"`
}

func (OrderCompleted) Type() string { return TypeOrderCompleted }

type ExpenseRecorded struct {
	EntryID     uint            `json:"entry_id"`
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

func (ExpenseRecorded) Type() string { return TypeExpenseRecorded }

// SaleRecorded is emitted for sales entered directly, not through an order.
type SaleRecorded struct {
	EntryID uint            `json:"entry_id"`
	Date    string          `json:"date"`
	Amount  decimal.Decimal `json:"amount"`
}

func (SaleRecorded) Type() string { return TypeSaleRecorded }

type StockDecremented struct {
	ProductID uint   `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Remaining int    `json:"remaining"`
	OrderID   *uint  `json:"order_id,omitempty"`
}

func (StockDecremented) Type() string { return TypeStockDecremented }

// Multi fans an event out to every dispatcher, joining their errors.
type Multi []Dispatcher

func (m Multi) Dispatch(event Event) error {
	var errs []error
	for _, d := range m {
		if err := d.Dispatch(event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Nop drops every event.
type Nop struct{}

func (Nop) Dispatch(Event) error { return nil }
