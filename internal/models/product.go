package models

import "github.com/shopspring/decimal"

// Product is a stock-keeping unit with its current quantity on hand.
type Product struct {
	ID       uint            `gorm:"primaryKey" json:"id"`
	Name     string          `gorm:"size:255;not null" json:"name"`
	Quantity int             `gorm:"not null;default:0" json:"quantity"`
	Price    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
}

// Has reports whether n units can be taken from stock.
func (p *Product) Has(n int) bool {
	return n > 0 && p.Quantity >= n
}

// Subtotal is the price of n units.
func (p *Product) Subtotal(n int) decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(n)))
}
