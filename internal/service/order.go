package service

import (
	"context"
	"fmt"

	"storefront/internal/model"
)

type OrderStore interface {
	Create(ctx context.Context, o *model.Order) error
	GetByID(ctx context.Context, id string) (*model.Order, error)
	ListByCustomer(ctx context.Context, customerID string) ([]model.Order, error)
}

type OrderService struct {
	orders OrderStore
}

func NewOrderService(orders OrderStore) *OrderService {
	return &OrderService{orders: orders}
}

// Checkout creates a pending order. The reconciliation core is the only
// code allowed to move it to confirmed or cancelled afterwards.
func (s *OrderService) Checkout(ctx context.Context, customerID string, total float64, currency, discountCode string) (*model.Order, error) {
	if total <= 0 {
		return nil, &ValidationError{Msg: "total must be positive"}
	}
	if currency == "" {
		currency = defaultCurrency
	}

	order := &model.Order{
		CustomerID:   customerID,
		Total:        total,
		Currency:     currency,
		Status:       model.OrderPending,
		DiscountCode: discountCode,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	return order, nil
}

func (s *OrderService) ListByCustomer(ctx context.Context, customerID string) ([]model.Order, error) {
	return s.orders.ListByCustomer(ctx, customerID)
}
