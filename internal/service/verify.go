package service

import (
	"context"
	"log/slog"
	"time"

	"storefront/internal/model"
	"storefront/internal/processor"
	"storefront/internal/store"
)

type VerifyService struct {
	settings  SettingsStore
	txns      TransactionStore
	orders    OrderUpdater
	newClient processor.ClientFactory
}

func NewVerifyService(settings SettingsStore, txns TransactionStore, orders OrderUpdater, newClient processor.ClientFactory) *VerifyService {
	return &VerifyService{settings: settings, txns: txns, orders: orders, newClient: newClient}
}

type VerifyInput struct {
	PaymentIntentID string
	TransactionID   string
	OrderID         string
}

type VerifyResult struct {
	Status  string `json:"status"`
	Success bool   `json:"success"`
	Message string `json:"message"`
	OrderID string `json:"orderId"`
}

// VerifyPayment re-fetches the intent directly from the processor and
// reconciles local state. Client-reported outcomes are never trusted; this
// is the pull half of reconciliation.
func (s *VerifyService) VerifyPayment(ctx context.Context, in VerifyInput) (*VerifyResult, error) {
	if in.PaymentIntentID == "" {
		return nil, &ValidationError{Msg: "paymentIntentId is required"}
	}
	if in.OrderID == "" {
		return nil, &ValidationError{Msg: "orderId is required"}
	}

	secretKey, err := s.settings.Get(ctx, store.SettingStripeSecretKey)
	if err != nil || secretKey == "" {
		return nil, &ConfigurationError{Msg: "payment processor secret key is not configured"}
	}

	intent, err := s.newClient(secretKey).RetrieveIntent(ctx, in.PaymentIntentID)
	if err != nil {
		return nil, &ProcessorError{Msg: err.Error()}
	}

	mapped := processor.MapStatus(intent.Status)

	// Transaction update is audit-only; a failure here is logged but does
	// not abort order reconciliation.
	if in.TransactionID != "" {
		now := time.Now()
		var processedAt, failedAt *time.Time
		if mapped == model.TransactionSucceeded {
			processedAt = &now
		}
		if mapped == model.TransactionCancelled || intent.Status == processor.StatusRequiresPaymentMethod {
			failedAt = &now
		}
		if err := s.txns.ApplyProcessorResult(ctx, in.TransactionID, mapped, intent.Raw, intent.FailureReason, processedAt, failedAt); err != nil {
			slog.Error("failed to update transaction during verification",
				"transaction_id", in.TransactionID, "error", err)
		}
	}

	// The order is the record of truth the caller depends on, so its update
	// is fatal on failure.
	switch {
	case mapped == model.TransactionSucceeded || intent.Status == processor.StatusRequiresCapture:
		if err := s.orders.SetConfirmed(ctx, in.OrderID); err != nil {
			return nil, &PersistenceError{Msg: "confirm order", Err: err}
		}
	case intent.Status == processor.StatusCanceled || intent.Status == processor.StatusRequiresPaymentMethod:
		if err := s.orders.SetCancelled(ctx, in.OrderID); err != nil {
			return nil, &PersistenceError{Msg: "cancel order", Err: err}
		}
	}

	return &VerifyResult{
		Status:  intent.Status,
		Success: verifySuccess(intent.Status),
		Message: verifyMessage(intent.Status),
		OrderID: in.OrderID,
	}, nil
}

// verifySuccess deliberately counts "processing" as provisional success so
// asynchronous payment methods do not block the user mid-checkout.
func verifySuccess(raw string) bool {
	switch raw {
	case processor.StatusSucceeded, processor.StatusProcessing, processor.StatusRequiresCapture:
		return true
	}
	return false
}

func verifyMessage(raw string) string {
	switch raw {
	case processor.StatusSucceeded:
		return "Payment confirmed"
	case processor.StatusProcessing:
		return "Payment is processing"
	case processor.StatusRequiresCapture:
		return "Payment authorized, awaiting capture"
	case processor.StatusCanceled:
		return "Payment was canceled"
	case processor.StatusRequiresPaymentMethod:
		return "Payment failed, a new payment method is required"
	default:
		return "Payment could not be confirmed"
	}
}
