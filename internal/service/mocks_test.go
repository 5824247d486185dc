package service

import (
	"context"
	"time"

	"storefront/internal/model"
	"storefront/internal/processor"
	"storefront/internal/store"
)

type mockSettings struct {
	GetFunc             func(ctx context.Context, key string) (string, error)
	ProcessorByNameFunc func(ctx context.Context, name string) (*model.PaymentProcessor, error)
}

func (m *mockSettings) Get(ctx context.Context, key string) (string, error) {
	return m.GetFunc(ctx, key)
}

func (m *mockSettings) ProcessorByName(ctx context.Context, name string) (*model.PaymentProcessor, error) {
	if m.ProcessorByNameFunc != nil {
		return m.ProcessorByNameFunc(ctx, name)
	}
	return &model.PaymentProcessor{ID: "proc-1", Name: name, Active: true}, nil
}

type mockTxns struct {
	CreateFunc               func(ctx context.Context, t *model.PaymentTransaction) error
	GetByIntentIDFunc        func(ctx context.Context, intentID string) (*model.PaymentTransaction, error)
	ApplyProcessorResultFunc func(ctx context.Context, id string, status model.TransactionStatus, raw []byte, failureReason string, processedAt, failedAt *time.Time) error
}

func (m *mockTxns) Create(ctx context.Context, t *model.PaymentTransaction) error {
	return m.CreateFunc(ctx, t)
}

func (m *mockTxns) GetByIntentID(ctx context.Context, intentID string) (*model.PaymentTransaction, error) {
	return m.GetByIntentIDFunc(ctx, intentID)
}

func (m *mockTxns) ApplyProcessorResult(ctx context.Context, id string, status model.TransactionStatus, raw []byte, failureReason string, processedAt, failedAt *time.Time) error {
	return m.ApplyProcessorResultFunc(ctx, id, status, raw, failureReason, processedAt, failedAt)
}

type mockOrders struct {
	SetConfirmedFunc func(ctx context.Context, id string) error
	SetCancelledFunc func(ctx context.Context, id string) error
}

func (m *mockOrders) SetConfirmed(ctx context.Context, id string) error {
	if m.SetConfirmedFunc != nil {
		return m.SetConfirmedFunc(ctx, id)
	}
	return nil
}

func (m *mockOrders) SetCancelled(ctx context.Context, id string) error {
	if m.SetCancelledFunc != nil {
		return m.SetCancelledFunc(ctx, id)
	}
	return nil
}

type mockWebhooks struct {
	InsertFunc        func(ctx context.Context, ev *model.WebhookEvent) error
	MarkProcessedFunc func(ctx context.Context, id, transactionID string) error
	RecordFailureFunc func(ctx context.Context, id, lastError string) error
}

func (m *mockWebhooks) Insert(ctx context.Context, ev *model.WebhookEvent) error {
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, ev)
	}
	ev.ID = "audit-1"
	return nil
}

func (m *mockWebhooks) MarkProcessed(ctx context.Context, id, transactionID string) error {
	if m.MarkProcessedFunc != nil {
		return m.MarkProcessedFunc(ctx, id, transactionID)
	}
	return nil
}

func (m *mockWebhooks) RecordFailure(ctx context.Context, id, lastError string) error {
	if m.RecordFailureFunc != nil {
		return m.RecordFailureFunc(ctx, id, lastError)
	}
	return nil
}

type mockClient struct {
	CreateIntentFunc   func(ctx context.Context, in processor.CreateIntentInput) (*processor.Intent, error)
	RetrieveIntentFunc func(ctx context.Context, intentID string) (*processor.Intent, error)
}

func (m *mockClient) CreateIntent(ctx context.Context, in processor.CreateIntentInput) (*processor.Intent, error) {
	return m.CreateIntentFunc(ctx, in)
}

func (m *mockClient) RetrieveIntent(ctx context.Context, intentID string) (*processor.Intent, error) {
	return m.RetrieveIntentFunc(ctx, intentID)
}

func factoryFor(c processor.Client) processor.ClientFactory {
	return func(string) processor.Client { return c }
}

func settingsWith(values map[string]string) *mockSettings {
	return &mockSettings{
		GetFunc: func(_ context.Context, key string) (string, error) {
			if v, ok := values[key]; ok {
				return v, nil
			}
			return "", store.ErrNotFound
		},
	}
}
