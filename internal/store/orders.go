package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"storefront/internal/model"
)

type OrderStore struct {
	db *sql.DB
}

func NewOrderStore(db *sql.DB) *OrderStore {
	return &OrderStore{db: db}
}

func (s *OrderStore) Create(ctx context.Context, o *model.Order) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO orders (customer_id, total, currency, status, discount_code)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''))
		RETURNING id, created_at, updated_at
	`, o.CustomerID, o.Total, o.Currency, o.Status, o.DiscountCode).
		Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (s *OrderStore) GetByID(ctx context.Context, id string) (*model.Order, error) {
	var o model.Order
	var discount sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT id, customer_id, total, currency, status, discount_code, created_at, updated_at
		FROM orders WHERE id = $1
	`, id).Scan(&o.ID, &o.CustomerID, &o.Total, &o.Currency, &o.Status, &discount, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	if discount.Valid {
		o.DiscountCode = discount.String
	}
	return &o, nil
}

func (s *OrderStore) ListByCustomer(ctx context.Context, customerID string) ([]model.Order, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, customer_id, total, currency, status, discount_code, created_at, updated_at
		FROM orders
		WHERE customer_id = $1
		ORDER BY created_at DESC
	`, customerID)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		var o model.Order
		var discount sql.NullString
		if err := rows.Scan(&o.ID, &o.CustomerID, &o.Total, &o.Currency, &o.Status, &discount, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		if discount.Valid {
			o.DiscountCode = discount.String
		}
		orders = append(orders, o)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return orders, nil
}

// SetConfirmed marks an order as paid. Applies only from pending or
// cancelled: a late success may rescue a prematurely cancelled order, but
// fulfillment stages are never rewound.
func (s *OrderStore) SetConfirmed(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE orders SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status IN ($3, $4)
	`, model.OrderConfirmed, id, model.OrderPending, model.OrderCancelled)
	if err != nil {
		return fmt.Errorf("confirm order: %w", err)
	}
	return nil
}

// SetCancelled applies only from pending, so a stale failure signal can
// never downgrade an order already confirmed by the other reconciliation
// path.
func (s *OrderStore) SetCancelled(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE orders SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`, model.OrderCancelled, id, model.OrderPending)
	if err != nil {
		return fmt.Errorf("cancel order: %w", err)
	}
	return nil
}
