package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Entry types. Expenses are stored as "Despesa: <description>".
const (
	EntryTypeSale    = "Venda"
	EntryTypeExpense = "Despesa"
)

// ExpenseType builds the type tag of an expense entry.
func ExpenseType(description string) string {
	description = strings.TrimSpace(description)
	if description == "" {
		return EntryTypeExpense
	}
	return EntryTypeExpense + ": " + description
}

// CashFlowEntry is an append-only dated money movement.
// OrderID references the order a sale entry was generated by.
type CashFlowEntry struct {
	ID      uint            `gorm:"primaryKey" json:"id"`
	Date    string          `gorm:"size:10;not null;index" json:"date"`
	Type    string          `gorm:"size:255;not null" json:"type"`
	Amount  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	OrderID *uint           `gorm:"index" json:"order_id,omitempty"`
	Order   *Order          `gorm:"foreignKey:OrderID" json:"order,omitempty"`
}

func (CashFlowEntry) TableName() string { return "cash_flow" }

func (e *CashFlowEntry) IsSale() bool {
	return e.Type == EntryTypeSale
}

func (e *CashFlowEntry) IsExpense() bool {
	return strings.HasPrefix(e.Type, EntryTypeExpense)
}

// Description returns the free text of an expense entry.
func (e *CashFlowEntry) Description() string {
	if !e.IsExpense() {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(e.Type, EntryTypeExpense), ":"))
}
