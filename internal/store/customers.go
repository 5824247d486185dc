package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"storefront/internal/model"
)

type CustomerStore struct {
	db *sql.DB
}

func NewCustomerStore(db *sql.DB) *CustomerStore {
	return &CustomerStore{db: db}
}

func (s *CustomerStore) Create(ctx context.Context, email string, passwordHash []byte) (*model.Customer, error) {
	var c model.Customer
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO customers (email, password_hash) VALUES ($1, $2)
		RETURNING id, email, created_at
	`, email, passwordHash).Scan(&c.ID, &c.Email, &c.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("insert customer: %w", err)
	}
	c.PasswordHash = passwordHash
	return &c, nil
}

func (s *CustomerStore) GetByEmail(ctx context.Context, email string) (*model.Customer, error) {
	var c model.Customer
	err := s.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, created_at FROM customers WHERE email = $1`,
		email,
	).Scan(&c.ID, &c.Email, &c.PasswordHash, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return &c, nil
}
