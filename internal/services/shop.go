// Package services implements the shop operations on top of GORM.
package services

import (
	"context"

	"github.com/diewo77/go-stock/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Shop is every operation the HTTP server and the CLI need.
type Shop interface {
	AddProduct(ctx context.Context, in ProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, id uint, in ProductInput) (*models.Product, error)
	DeleteProduct(ctx context.Context, id uint) error
	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, id uint) (*models.Product, error)
	CheckStock(ctx context.Context, id uint, n int) (*models.Product, error)
	DecrementStock(ctx context.Context, id uint, n int) (*models.Product, error)

	CreateOrder(ctx context.Context, customer string, lines []OrderLine) (*models.Order, error)
	Advance(ctx context.Context, id uint) (*models.Order, error)
	Complete(ctx context.Context, id uint) (*models.Order, error)
	GetOrder(ctx context.Context, id uint) (*models.Order, error)
	ListActiveOrders(ctx context.Context) (*ActiveOrders, error)
	ListAllOrders(ctx context.Context) ([]models.Order, error)

	RecordExpense(ctx context.Context, amount decimal.Decimal, description string) (*models.CashFlowEntry, error)
	RecordSale(ctx context.Context, amount decimal.Decimal, date string) (*models.CashFlowEntry, error)
	EntriesOn(ctx context.Context, date string) ([]models.CashFlowEntry, error)

	DailyReport(ctx context.Context, date string) (*Report, error)
}

// Service is the Shop backed by one database.
type Service struct {
	*InventoryService
	*OrderService
	*CashFlowService
	*ReportService
}

var _ Shop = (*Service)(nil)

// NewService builds every sub-service over db with the same options.
func NewService(db *gorm.DB, opts ...Option) *Service {
	return &Service{
		InventoryService: NewInventoryService(db, opts...),
		OrderService:     NewOrderService(db, opts...),
		CashFlowService:  NewCashFlowService(db, opts...),
		ReportService:    NewReportService(db, opts...),
	}
}
