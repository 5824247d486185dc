package service

import (
	"context"
	"time"

	"storefront/internal/model"
	"storefront/internal/processor"
	"storefront/internal/store"
)

const (
	processorName   = "stripe"
	defaultCurrency = "usd"
)

// SettingsStore resolves processor credentials and registry rows per
// request.
type SettingsStore interface {
	Get(ctx context.Context, key string) (string, error)
	ProcessorByName(ctx context.Context, name string) (*model.PaymentProcessor, error)
}

type TransactionStore interface {
	Create(ctx context.Context, t *model.PaymentTransaction) error
	GetByIntentID(ctx context.Context, intentID string) (*model.PaymentTransaction, error)
	ApplyProcessorResult(ctx context.Context, id string, status model.TransactionStatus, raw []byte, failureReason string, processedAt, failedAt *time.Time) error
}

type OrderUpdater interface {
	SetConfirmed(ctx context.Context, id string) error
	SetCancelled(ctx context.Context, id string) error
}

type PaymentService struct {
	settings  SettingsStore
	txns      TransactionStore
	newClient processor.ClientFactory
}

func NewPaymentService(settings SettingsStore, txns TransactionStore, newClient processor.ClientFactory) *PaymentService {
	return &PaymentService{settings: settings, txns: txns, newClient: newClient}
}

type IntentInput struct {
	Amount            float64
	Currency          string
	OrderID           string
	CustomerID        string
	PaymentMethodType string
}

type IntentResult struct {
	ClientSecret    string `json:"clientSecret"`
	PaymentIntentID string `json:"paymentIntentId"`
	TransactionID   string `json:"transactionId"`
	IsTestMode      bool   `json:"isTestMode"`
}

// InitiateIntent creates a payment intent at the processor and records the
// local transaction. The transaction row is written only after the create
// call succeeds, so a processor rejection leaves no orphaned record.
func (s *PaymentService) InitiateIntent(ctx context.Context, in IntentInput) (*IntentResult, error) {
	if in.Amount <= 0 {
		return nil, &ValidationError{Msg: "amount is required"}
	}
	if in.OrderID == "" {
		return nil, &ValidationError{Msg: "orderId is required"}
	}
	if in.CustomerID == "" {
		return nil, &ValidationError{Msg: "userId is required"}
	}
	if in.Currency == "" {
		in.Currency = defaultCurrency
	}

	secretKey, err := s.settings.Get(ctx, store.SettingStripeSecretKey)
	if err != nil || secretKey == "" {
		return nil, &ConfigurationError{Msg: "payment processor secret key is not configured"}
	}
	testMode := s.readTestMode(ctx)

	proc, err := s.settings.ProcessorByName(ctx, processorName)
	if err != nil {
		return nil, &ConfigurationError{Msg: "payment processor is not registered"}
	}

	intent, err := s.newClient(secretKey).CreateIntent(ctx, processor.CreateIntentInput{
		AmountMinor:       processor.MinorUnits(in.Amount),
		Currency:          processor.NormalizeCurrency(in.Currency),
		OrderID:           in.OrderID,
		CustomerID:        in.CustomerID,
		PaymentMethodType: in.PaymentMethodType,
	})
	if err != nil {
		return nil, &ProcessorError{Msg: err.Error()}
	}

	txn := &model.PaymentTransaction{
		OrderID:     in.OrderID,
		ProcessorID: proc.ID,
		IntentID:    intent.ID,
		Amount:      in.Amount,
		Currency:    in.Currency,
		Status:      model.TransactionProcessing,
		RawResponse: intent.Raw,
	}
	if err := s.txns.Create(ctx, txn); err != nil {
		return nil, &PersistenceError{Msg: "record payment transaction", Err: err}
	}

	return &IntentResult{
		ClientSecret:    intent.ClientSecret,
		PaymentIntentID: intent.ID,
		TransactionID:   txn.ID,
		IsTestMode:      testMode,
	}, nil
}

// readTestMode defaults to live mode when the flag is unset.
func (s *PaymentService) readTestMode(ctx context.Context) bool {
	v, err := s.settings.Get(ctx, store.SettingStripeTestMode)
	return err == nil && v == "true"
}
