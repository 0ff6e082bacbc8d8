package services

import (
	"context"

	"github.com/diewo77/go-stock/internal/events"
	"github.com/diewo77/go-stock/internal/models"
	"github.com/diewo77/go-stock/validation"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type CashFlowService struct {
	db *gorm.DB
	options
}

func NewCashFlowService(db *gorm.DB, opts ...Option) *CashFlowService {
	return &CashFlowService{db: db, options: newOptions(opts)}
}

// RecordExpense books an expense dated today as "Despesa: <description>".
func (s *CashFlowService) RecordExpense(ctx context.Context, amount decimal.Decimal, description string) (*models.CashFlowEntry, error) {
	amount = amount.Round(2)
	v := validation.Violations{}
	validation.PositiveDecimal("amount", amount, v)
	if err := invalid(v); err != nil {
		return nil, err
	}

	entry := models.CashFlowEntry{
		Date:   s.now().Format(validation.DateLayout),
		Type:   models.ExpenseType(description),
		Amount: amount,
	}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return nil, storageErr("record expense", err)
	}

	s.log.WithFields(logrus.Fields{"entry_id": entry.ID, "amount": entry.Amount.StringFixed(2)}).Info("expense recorded")
	s.dispatch(events.ExpenseRecorded{
		EntryID:     entry.ID,
		Date:        entry.Date,
		Description: entry.Description(),
		Amount:      entry.Amount,
	})
	return &entry, nil
}

// RecordSale books a sale on date without an order, for takings entered
// by hand. Orders book their own sale entries.
func (s *CashFlowService) RecordSale(ctx context.Context, amount decimal.Decimal, date string) (*models.CashFlowEntry, error) {
	amount = amount.Round(2)
	v := validation.Violations{}
	date = validation.Date("date", date, v)
	validation.NonNegativeDecimal("amount", amount, v)
	if err := invalid(v); err != nil {
		return nil, err
	}

	entry := models.CashFlowEntry{
		Date:   date,
		Type:   models.EntryTypeSale,
		Amount: amount,
	}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return nil, storageErr("record sale", err)
	}

	s.log.WithFields(logrus.Fields{"entry_id": entry.ID, "date": date}).Info("sale recorded")
	s.dispatch(events.SaleRecorded{EntryID: entry.ID, Date: entry.Date, Amount: entry.Amount})
	return &entry, nil
}

// EntriesOn lists the cash-flow entries of date in insertion order.
func (s *CashFlowService) EntriesOn(ctx context.Context, date string) ([]models.CashFlowEntry, error) {
	v := validation.Violations{}
	date = validation.Date("date", date, v)
	if err := invalid(v); err != nil {
		return nil, err
	}
	return s.entriesOn(s.db.WithContext(ctx), date)
}

func (s *CashFlowService) entriesOn(db *gorm.DB, date string) ([]models.CashFlowEntry, error) {
	var entries []models.CashFlowEntry
	if err := db.Where("date = ?", date).Order("id").Find(&entries).Error; err != nil {
		return nil, storageErr("list cash flow", err)
	}
	return entries, nil
}
