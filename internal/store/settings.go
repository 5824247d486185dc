package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"storefront/internal/model"
)

// Setting keys the reconciliation core reads.
const (
	SettingStripeSecretKey     = "stripe_secret_key"
	SettingStripeWebhookSecret = "stripe_webhook_secret"
	SettingStripeTestMode      = "stripe_test_mode"
)

type SettingsStore struct {
	db *sql.DB
}

func NewSettingsStore(db *sql.DB) *SettingsStore {
	return &SettingsStore{db: db}
}

func (s *SettingsStore) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = $1`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("get setting %s: %w", key, err)
	}
	return value, nil
}

func (s *SettingsStore) ProcessorByName(ctx context.Context, name string) (*model.PaymentProcessor, error) {
	var p model.PaymentProcessor
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, active, created_at FROM payment_processors WHERE name = $1`,
		name,
	).Scan(&p.ID, &p.Name, &p.Active, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get processor %s: %w", name, err)
	}
	return &p, nil
}
