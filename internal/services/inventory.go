package services

import (
	"context"
	"strings"

	"github.com/diewo77/go-stock/internal/events"
	"github.com/diewo77/go-stock/internal/models"
	"github.com/diewo77/go-stock/validation"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ProductInput is the raw product form. Fields are strings so that
// both the HTTP and CLI adapters pass user input through unchanged.
type ProductInput struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Price    string `json:"price"`
}

func (in ProductInput) product() (models.Product, error) {
	v := validation.Violations{}
	validation.Required("name", in.Name, v)
	qty := validation.NonNegativeInt("quantity", in.Quantity, v)
	price := validation.Decimal("price", in.Price, v).Round(2)
	if _, bad := v["price"]; !bad {
		validation.NonNegativeDecimal("price", price, v)
	}
	if err := invalid(v); err != nil {
		return models.Product{}, err
	}
	return models.Product{Name: strings.TrimSpace(in.Name), Quantity: qty, Price: price}, nil
}

type InventoryService struct {
	db *gorm.DB
	options
}

func NewInventoryService(db *gorm.DB, opts ...Option) *InventoryService {
	return &InventoryService{db: db, options: newOptions(opts)}
}

func (s *InventoryService) AddProduct(ctx context.Context, in ProductInput) (*models.Product, error) {
	p, err := in.product()
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(&p).Error; err != nil {
		return nil, storageErr("add product", err)
	}
	s.log.WithFields(logrus.Fields{"product_id": p.ID, "name": p.Name}).Info("product added")
	return &p, nil
}

func (s *InventoryService) UpdateProduct(ctx context.Context, id uint, in ProductInput) (*models.Product, error) {
	next, err := in.product()
	if err != nil {
		return nil, err
	}

	var p models.Product
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&p, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("product", id)
			}
			return err
		}
		p.Name, p.Quantity, p.Price = next.Name, next.Quantity, next.Price
		return tx.Save(&p).Error
	})
	if err != nil {
		return nil, storageErr("update product", err)
	}
	s.log.WithField("product_id", id).Info("product updated")
	return &p, nil
}

// DeleteProduct removes a product. Deleting an unknown id is not an error.
// Order lines keep their own copy of the name and price.
func (s *InventoryService) DeleteProduct(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Product{}, id)
	if res.Error != nil {
		return storageErr("delete product", res.Error)
	}
	if res.RowsAffected > 0 {
		s.log.WithField("product_id", id).Info("product deleted")
	}
	return nil
}

func (s *InventoryService) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := s.db.WithContext(ctx).Order("id").Find(&products).Error; err != nil {
		return nil, storageErr("list products", err)
	}
	return products, nil
}

func (s *InventoryService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	p, err := findProduct(s.db.WithContext(ctx), id)
	if err != nil {
		return nil, storageErr("get product", err)
	}
	return p, nil
}

// CheckStock returns the product if n units are available, or an
// *OutOfStockError carrying the quantity on hand.
func (s *InventoryService) CheckStock(ctx context.Context, id uint, n int) (*models.Product, error) {
	if err := positiveQuantity(n); err != nil {
		return nil, err
	}
	p, err := findProduct(s.db.WithContext(ctx), id)
	if err != nil {
		return nil, storageErr("check stock", err)
	}
	if !p.Has(n) {
		return nil, &OutOfStockError{ProductID: p.ID, Name: p.Name, Requested: n, Available: p.Quantity}
	}
	return p, nil
}

// DecrementStock takes n units out of stock. It fails with ErrOutOfStock
// rather than letting the quantity go negative.
func (s *InventoryService) DecrementStock(ctx context.Context, id uint, n int) (*models.Product, error) {
	if err := positiveQuantity(n); err != nil {
		return nil, err
	}
	var p *models.Product
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		p, err = decrementStock(tx, id, n)
		return err
	})
	if err != nil {
		return nil, storageErr("decrement stock", err)
	}
	s.dispatch(events.StockDecremented{ProductID: p.ID, Name: p.Name, Quantity: n, Remaining: p.Quantity})
	return p, nil
}

func positiveQuantity(n int) error {
	v := validation.Violations{}
	validation.PositiveInt("quantity", n, v)
	return invalid(v)
}

func findProduct(db *gorm.DB, id uint) (*models.Product, error) {
	var p models.Product
	if err := db.First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("product", id)
		}
		return nil, err
	}
	return &p, nil
}

// decrementStock must run inside tx. The update is conditional on the
// quantity still covering n, so concurrent sales cannot oversell.
// It returns the product as it is after the decrement.
func decrementStock(tx *gorm.DB, id uint, n int) (*models.Product, error) {
	p, err := findProduct(tx, id)
	if err != nil {
		return nil, err
	}
	if !p.Has(n) {
		return nil, &OutOfStockError{ProductID: p.ID, Name: p.Name, Requested: n, Available: p.Quantity}
	}

	res := tx.Model(&models.Product{}).
		Where("id = ? AND quantity >= ?", id, n).
		UpdateColumn("quantity", gorm.Expr("quantity - ?", n))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		current, err := findProduct(tx, id)
		if err != nil {
			return nil, err
		}
		return nil, &OutOfStockError{ProductID: id, Name: current.Name, Requested: n, Available: current.Quantity}
	}
	p.Quantity -= n
	return p, nil
}
