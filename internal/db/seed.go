package db

import (
	"github.com/diewo77/go-stock/internal/models"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Seed creates a starter catalogue. Products are matched by name, so
// running it again neither duplicates them nor resets their stock.
func Seed(db *gorm.DB) error {
	catalogue := []models.Product{
		{Name: "Café 500g", Quantity: 20, Price: decimal.RequireFromString("18.90")},
		{Name: "Pão de queijo (kg)", Quantity: 15, Price: decimal.RequireFromString("32.00")},
		{Name: "Suco de laranja 1L", Quantity: 30, Price: decimal.RequireFromString("9.50")},
		{Name: "Bolo de fubá", Quantity: 8, Price: decimal.RequireFromString("25.00")},
	}
	for _, p := range catalogue {
		var existing models.Product
		err := db.Where("name = ?", p.Name).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.Wrapf(err, "look up %q", p.Name)
		}
		if err := db.Create(&p).Error; err != nil {
			return errors.Wrapf(err, "create %q", p.Name)
		}
	}
	return nil
}
