package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"storefront/internal/model"
	"storefront/internal/store"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type CustomerStore interface {
	Create(ctx context.Context, email string, passwordHash []byte) (*model.Customer, error)
	GetByEmail(ctx context.Context, email string) (*model.Customer, error)
}

type AuthService struct {
	customers CustomerStore
}

func NewAuthService(customers CustomerStore) *AuthService {
	return &AuthService{customers: customers}
}

func (s *AuthService) Register(ctx context.Context, email, password string) (*model.Customer, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	customer, err := s.customers.Create(ctx, email, hash)
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create customer: %w", err)
	}

	return customer, nil
}

func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*model.Customer, error) {
	customer, err := s.customers.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(customer.PasswordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return customer, nil
}
