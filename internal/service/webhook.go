package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"storefront/internal/model"
	"storefront/internal/processor"
	"storefront/internal/store"
)

type WebhookStore interface {
	Insert(ctx context.Context, ev *model.WebhookEvent) error
	MarkProcessed(ctx context.Context, id, transactionID string) error
	RecordFailure(ctx context.Context, id, lastError string) error
}

type WebhookService struct {
	settings SettingsStore
	txns     TransactionStore
	orders   OrderUpdater
	events   WebhookStore
	verify   processor.EventVerifier
}

func NewWebhookService(settings SettingsStore, txns TransactionStore, orders OrderUpdater, events WebhookStore, verify processor.EventVerifier) *WebhookService {
	return &WebhookService{settings: settings, txns: txns, orders: orders, events: events, verify: verify}
}

// HandleEvent is the push half of reconciliation. The processor delivers
// events at least once; the unique (processor, event id) audit row makes
// replays an idempotent no-op. Any returned error tells the processor to
// redeliver.
func (s *WebhookService) HandleEvent(ctx context.Context, payload []byte, sigHeader string) error {
	proc, err := s.settings.ProcessorByName(ctx, processorName)
	if err != nil {
		return &ConfigurationError{Msg: "payment processor is not registered"}
	}

	secret, err := s.settings.Get(ctx, store.SettingStripeWebhookSecret)
	if err != nil || secret == "" {
		return &ConfigurationError{Msg: "webhook secret is not configured"}
	}

	ev, err := s.verify(payload, sigHeader, secret)
	if err != nil {
		return &ValidationError{Msg: err.Error()}
	}

	audit := &model.WebhookEvent{
		ProcessorID: proc.ID,
		EventID:     ev.ID,
		EventType:   ev.Type,
		Payload:     ev.Raw,
	}
	if err := s.events.Insert(ctx, audit); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			slog.Info("duplicate webhook delivery, skipping", "event_id", ev.ID, "type", ev.Type)
			return nil
		}
		// Reconciliation must not be blocked by an audit-trail failure.
		slog.Error("failed to record webhook event", "event_id", ev.ID, "error", err)
		audit.ID = ""
	}

	transactionID, err := s.dispatch(ctx, ev)
	if err != nil {
		if audit.ID != "" {
			if ferr := s.events.RecordFailure(ctx, audit.ID, err.Error()); ferr != nil {
				slog.Error("failed to record webhook failure", "event_id", ev.ID, "error", ferr)
			}
		}
		return err
	}

	if audit.ID != "" {
		if err := s.events.MarkProcessed(ctx, audit.ID, transactionID); err != nil {
			slog.Error("failed to mark webhook processed", "event_id", ev.ID, "error", err)
		}
	}

	return nil
}

// dispatch applies the state transition for one event. Both sub-updates of
// the intent kinds are mandatory; a failure in either propagates so the
// processor retries the whole event.
func (s *WebhookService) dispatch(ctx context.Context, ev *processor.Event) (string, error) {
	switch ev.Kind {
	case processor.KindIntentSucceeded:
		return s.applySucceeded(ctx, ev)
	case processor.KindIntentFailed:
		return s.applyFailed(ctx, ev)
	default:
		// Unrecognized types are stored and acknowledged without any state
		// transition.
		slog.Info("unhandled webhook event type", "type", ev.Type)
		return "", nil
	}
}

func (s *WebhookService) applySucceeded(ctx context.Context, ev *processor.Event) (string, error) {
	txn, err := s.findTransaction(ctx, ev.Intent.ID)
	if err != nil {
		return "", err
	}

	now := time.Now()
	if err := s.txns.ApplyProcessorResult(ctx, txn.ID, model.TransactionSucceeded, ev.Intent.Raw, "", &now, nil); err != nil {
		return "", &PersistenceError{Msg: "update transaction from webhook", Err: err}
	}
	if err := s.orders.SetConfirmed(ctx, txn.OrderID); err != nil {
		return "", &PersistenceError{Msg: "confirm order from webhook", Err: err}
	}

	slog.Info("payment succeeded via webhook", "transaction_id", txn.ID, "order_id", txn.OrderID)
	return txn.ID, nil
}

func (s *WebhookService) applyFailed(ctx context.Context, ev *processor.Event) (string, error) {
	txn, err := s.findTransaction(ctx, ev.Intent.ID)
	if err != nil {
		return "", err
	}

	reason := ev.Intent.FailureReason
	if reason == "" {
		reason = "Payment failed"
	}

	now := time.Now()
	if err := s.txns.ApplyProcessorResult(ctx, txn.ID, model.TransactionFailed, ev.Intent.Raw, reason, nil, &now); err != nil {
		return "", &PersistenceError{Msg: "update transaction from webhook", Err: err}
	}
	if err := s.orders.SetCancelled(ctx, txn.OrderID); err != nil {
		return "", &PersistenceError{Msg: "cancel order from webhook", Err: err}
	}

	slog.Info("payment failed via webhook", "transaction_id", txn.ID, "order_id", txn.OrderID, "reason", reason)
	return txn.ID, nil
}

// findTransaction treats a missing row as fatal: a webhook for an intent we
// never recorded indicates a consistency bug, not a user error.
func (s *WebhookService) findTransaction(ctx context.Context, intentID string) (*model.PaymentTransaction, error) {
	txn, err := s.txns.GetByIntentID(ctx, intentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, &NotFoundError{Msg: "no transaction for intent " + intentID}
		}
		return nil, &PersistenceError{Msg: "lookup transaction", Err: err}
	}
	return txn, nil
}
