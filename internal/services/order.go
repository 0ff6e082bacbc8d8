package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/diewo77/go-stock/internal/events"
	"github.com/diewo77/go-stock/internal/models"
	"github.com/diewo77/go-stock/validation"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// OrderLine is one requested product and quantity.
type OrderLine struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

// ActiveOrders groups unfinished orders by lane, newest first in each.
type ActiveOrders struct {
	Open       []models.Order `json:"open"`
	InProgress []models.Order `json:"in_progress"`
	Finalized  []models.Order `json:"finalized"`
}

// Count is the number of orders across all lanes.
func (a *ActiveOrders) Count() int {
	return len(a.Open) + len(a.InProgress) + len(a.Finalized)
}

type OrderService struct {
	db *gorm.DB
	options
}

func NewOrderService(db *gorm.DB, opts ...Option) *OrderService {
	return &OrderService{db: db, options: newOptions(opts)}
}

// CreateOrder records a sale. In one transaction it takes every line out
// of stock, stores the order with its lines, and books a "Venda"
// cash-flow entry for the total. Any failing line aborts all of it.
func (s *OrderService) CreateOrder(ctx context.Context, customer string, lines []OrderLine) (*models.Order, error) {
	customer = strings.TrimSpace(customer)
	merged, err := validateOrder(customer, lines)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var (
		order   models.Order
		changes []events.StockDecremented
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		items := make([]models.OrderItem, 0, len(merged))
		changes = changes[:0]
		for _, l := range merged {
			p, err := decrementStock(tx, l.ProductID, l.Quantity)
			if err != nil {
				return err
			}
			items = append(items, models.OrderItem{
				ProductID:   p.ID,
				ProductName: p.Name,
				Quantity:    l.Quantity,
				UnitPrice:   p.Price,
			})
			changes = append(changes, events.StockDecremented{
				ProductID: p.ID, Name: p.Name, Quantity: l.Quantity, Remaining: p.Quantity,
			})
		}

		order = models.Order{
			Customer:  customer,
			Status:    models.OrderStatusOpen,
			Timestamp: now.Format(models.TimestampLayout),
			Items:     models.SummarizeItems(items),
			Lines:     items,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		entry := models.CashFlowEntry{
			Date:    now.Format(validation.DateLayout),
			Type:    models.EntryTypeSale,
			Amount:  order.Total(),
			OrderID: &order.ID,
		}
		return tx.Create(&entry).Error
	})
	if err != nil {
		return nil, storageErr("create order", err)
	}

	s.log.WithFields(logrus.Fields{
		"order_id": order.ID,
		"customer": order.Customer,
		"total":    order.Total().StringFixed(2),
	}).Info("order created")
	for _, c := range changes {
		c.OrderID = &order.ID
		s.dispatch(c)
	}
	s.dispatch(events.OrderCreated{
		OrderID:   order.ID,
		Customer:  order.Customer,
		Items:     order.Items,
		Total:     order.Total(),
		Timestamp: order.Timestamp,
	})
	return &order, nil
}

// validateOrder checks the input and folds repeated products into one line,
// keeping first-seen order.
func validateOrder(customer string, lines []OrderLine) ([]OrderLine, error) {
	v := validation.Violations{}
	validation.Required("customer", customer, v)
	if len(lines) == 0 {
		v["items"] = "required"
	}

	merged := make([]OrderLine, 0, len(lines))
	index := map[uint]int{}
	for i, l := range lines {
		if l.ProductID == 0 {
			v[fmt.Sprintf("items[%d].product_id", i)] = "required"
		}
		validation.PositiveInt(fmt.Sprintf("items[%d].quantity", i), l.Quantity, v)
		if j, seen := index[l.ProductID]; seen {
			sum := merged[j].Quantity + l.Quantity
			if merged[j].Quantity > 0 && l.Quantity > 0 && sum < l.Quantity {
				v[fmt.Sprintf("items[%d].quantity", i)] = "too_large"
			}
			merged[j].Quantity = sum
			continue
		}
		index[l.ProductID] = len(merged)
		merged = append(merged, l)
	}
	if err := invalid(v); err != nil {
		return nil, err
	}
	return merged, nil
}

// Advance moves an order one step: open to in_progress, in_progress to
// finalized. Any other state yields ErrInvalidTransition.
func (s *OrderService) Advance(ctx context.Context, id uint) (*models.Order, error) {
	return s.transition(ctx, id, "advance", func(o *models.Order) (models.OrderStatus, bool) {
		return o.Status.Next()
	})
}

// Complete closes a finalized order.
func (s *OrderService) Complete(ctx context.Context, id uint) (*models.Order, error) {
	return s.transition(ctx, id, "complete", func(o *models.Order) (models.OrderStatus, bool) {
		return models.OrderStatusCompleted, o.CanComplete()
	})
}

func (s *OrderService) transition(ctx context.Context, id uint, action string, next func(*models.Order) (models.OrderStatus, bool)) (*models.Order, error) {
	db := s.db.WithContext(ctx)

	var o models.Order
	if err := db.First(&o, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("order", id)
		}
		return nil, storageErr(action+" order", err)
	}

	from := o.Status
	to, ok := next(&o)
	if !ok {
		return nil, errors.Wrapf(ErrInvalidTransition, "cannot %s order #%d in status %s", action, id, from)
	}

	// a concurrent transition leaves RowsAffected at zero
	res := db.Model(&models.Order{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return nil, storageErr(action+" order", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, errors.Wrapf(ErrInvalidTransition, "order #%d changed while trying to %s it", id, action)
	}
	o.Status = to

	s.log.WithFields(logrus.Fields{"order_id": id, "from": from, "to": to}).Info("order status changed")
	if to == models.OrderStatusCompleted {
		s.dispatch(events.OrderCompleted{OrderID: id})
	} else {
		s.dispatch(events.OrderAdvanced{OrderID: id, From: from, To: to})
	}
	return &o, nil
}

func (s *OrderService) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	var o models.Order
	err := s.db.WithContext(ctx).Preload("Lines", orderLines).First(&o, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("order", id)
		}
		return nil, storageErr("get order", err)
	}
	return &o, nil
}

// ListActiveOrders returns every order that is not completed, split by lane.
func (s *OrderService) ListActiveOrders(ctx context.Context) (*ActiveOrders, error) {
	var orders []models.Order
	err := s.db.WithContext(ctx).
		Preload("Lines", orderLines).
		Where("status <> ?", models.OrderStatusCompleted).
		Order("timestamp DESC, id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, storageErr("list active orders", err)
	}

	active := &ActiveOrders{
		Open:       []models.Order{},
		InProgress: []models.Order{},
		Finalized:  []models.Order{},
	}
	for _, o := range orders {
		switch o.Status {
		case models.OrderStatusOpen:
			active.Open = append(active.Open, o)
		case models.OrderStatusInProgress:
			active.InProgress = append(active.InProgress, o)
		case models.OrderStatusFinalized:
			active.Finalized = append(active.Finalized, o)
		}
	}
	return active, nil
}

// ListAllOrders is the full order history, newest first.
func (s *OrderService) ListAllOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.WithContext(ctx).
		Preload("Lines", orderLines).
		Order("timestamp DESC, id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, storageErr("list orders", err)
	}
	return orders, nil
}

func orderLines(db *gorm.DB) *gorm.DB {
	return db.Order("id")
}
