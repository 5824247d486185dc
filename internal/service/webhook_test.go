package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"storefront/internal/model"
	"storefront/internal/processor"
	"storefront/internal/store"
)

func webhookSettings() *mockSettings {
	return settingsWith(map[string]string{store.SettingStripeWebhookSecret: "whsec_123"})
}

func verifierReturning(ev *processor.Event) processor.EventVerifier {
	return func(payload []byte, sigHeader, secret string) (*processor.Event, error) {
		return ev, nil
	}
}

func succeededEvent() *processor.Event {
	return &processor.Event{
		ID:     "evt_1",
		Type:   "payment_intent.succeeded",
		Kind:   processor.KindIntentSucceeded,
		Intent: &processor.Intent{ID: "pi_1", Status: processor.StatusSucceeded, Raw: []byte(`{"id":"pi_1"}`)},
		Raw:    []byte(`{"id":"evt_1"}`),
	}
}

func txnsReturning(txn *model.PaymentTransaction) *mockTxns {
	return &mockTxns{
		GetByIntentIDFunc: func(_ context.Context, intentID string) (*model.PaymentTransaction, error) {
			if txn == nil || txn.IntentID != intentID {
				return nil, store.ErrNotFound
			}
			return txn, nil
		},
		ApplyProcessorResultFunc: func(context.Context, string, model.TransactionStatus, []byte, string, *time.Time, *time.Time) error {
			return nil
		},
	}
}

func TestHandleEventMissingSecret(t *testing.T) {
	svc := NewWebhookService(settingsWith(nil), &mockTxns{}, &mockOrders{}, &mockWebhooks{}, nil)

	err := svc.HandleEvent(context.Background(), []byte(`{}`), "sig")

	var ce *ConfigurationError
	require.ErrorAs(t, err, &ce)
}

func TestHandleEventBadSignature(t *testing.T) {
	verifier := func([]byte, string, string) (*processor.Event, error) {
		return nil, errors.New("verify webhook signature: no valid signature")
	}
	inserted := false
	events := &mockWebhooks{
		InsertFunc: func(context.Context, *model.WebhookEvent) error {
			inserted = true
			return nil
		},
	}
	svc := NewWebhookService(webhookSettings(), &mockTxns{}, &mockOrders{}, events, verifier)

	err := svc.HandleEvent(context.Background(), []byte(`{}`), "bad-sig")

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.False(t, inserted, "unverified payloads must not be stored")
}

func TestHandleEventSucceeded(t *testing.T) {
	txn := &model.PaymentTransaction{ID: "txn-1", OrderID: "order-1", IntentID: "pi_1"}
	txns := txnsReturning(txn)

	var gotStatus model.TransactionStatus
	var gotProcessedAt *time.Time
	txns.ApplyProcessorResultFunc = func(_ context.Context, id string, status model.TransactionStatus, _ []byte, _ string, processedAt, _ *time.Time) error {
		require.Equal(t, "txn-1", id)
		gotStatus, gotProcessedAt = status, processedAt
		return nil
	}

	var confirmedOrder string
	orders := &mockOrders{
		SetConfirmedFunc: func(_ context.Context, id string) error {
			confirmedOrder = id
			return nil
		},
	}

	var processedAudit, processedTxn string
	events := &mockWebhooks{
		MarkProcessedFunc: func(_ context.Context, id, transactionID string) error {
			processedAudit, processedTxn = id, transactionID
			return nil
		},
	}

	svc := NewWebhookService(webhookSettings(), txns, orders, events, verifierReturning(succeededEvent()))

	err := svc.HandleEvent(context.Background(), []byte(`{}`), "sig")

	require.NoError(t, err)
	require.Equal(t, model.TransactionSucceeded, gotStatus)
	require.NotNil(t, gotProcessedAt)
	require.Equal(t, "order-1", confirmedOrder)
	require.Equal(t, "audit-1", processedAudit)
	require.Equal(t, "txn-1", processedTxn)
}

func TestHandleEventDuplicateIsIdempotentNoOp(t *testing.T) {
	events := &mockWebhooks{
		InsertFunc: func(context.Context, *model.WebhookEvent) error {
			return store.ErrDuplicate
		},
	}
	txns := &mockTxns{
		GetByIntentIDFunc: func(context.Context, string) (*model.PaymentTransaction, error) {
			t.Fatal("duplicate deliveries must not re-run reconciliation")
			return nil, nil
		},
	}
	svc := NewWebhookService(webhookSettings(), txns, &mockOrders{}, events, verifierReturning(succeededEvent()))

	err := svc.HandleEvent(context.Background(), []byte(`{}`), "sig")

	require.NoError(t, err, "the second delivery is acknowledged as success")
}

func TestHandleEventFailedWithReason(t *testing.T) {
	ev := succeededEvent()
	ev.Type = "payment_intent.payment_failed"
	ev.Kind = processor.KindIntentFailed
	ev.Intent.FailureReason = "Your card has insufficient funds."

	txn := &model.PaymentTransaction{ID: "txn-1", OrderID: "order-1", IntentID: "pi_1"}
	txns := txnsReturning(txn)

	var gotStatus model.TransactionStatus
	var gotReason string
	var gotFailedAt *time.Time
	txns.ApplyProcessorResultFunc = func(_ context.Context, _ string, status model.TransactionStatus, _ []byte, reason string, _, failedAt *time.Time) error {
		gotStatus, gotReason, gotFailedAt = status, reason, failedAt
		return nil
	}

	var cancelledOrder string
	orders := &mockOrders{
		SetCancelledFunc: func(_ context.Context, id string) error {
			cancelledOrder = id
			return nil
		},
	}

	svc := NewWebhookService(webhookSettings(), txns, orders, &mockWebhooks{}, verifierReturning(ev))

	err := svc.HandleEvent(context.Background(), []byte(`{}`), "sig")

	require.NoError(t, err)
	require.Equal(t, model.TransactionFailed, gotStatus)
	require.Equal(t, "Your card has insufficient funds.", gotReason)
	require.NotNil(t, gotFailedAt)
	require.Equal(t, "order-1", cancelledOrder)
}

func TestHandleEventFailedFallbackReason(t *testing.T) {
	ev := succeededEvent()
	ev.Kind = processor.KindIntentFailed
	ev.Intent.FailureReason = ""

	txns := txnsReturning(&model.PaymentTransaction{ID: "txn-1", OrderID: "order-1", IntentID: "pi_1"})
	var gotReason string
	txns.ApplyProcessorResultFunc = func(_ context.Context, _ string, _ model.TransactionStatus, _ []byte, reason string, _, _ *time.Time) error {
		gotReason = reason
		return nil
	}

	svc := NewWebhookService(webhookSettings(), txns, &mockOrders{}, &mockWebhooks{}, verifierReturning(ev))

	require.NoError(t, svc.HandleEvent(context.Background(), []byte(`{}`), "sig"))
	require.Equal(t, "Payment failed", gotReason)
}

func TestHandleEventUnknownTypeStoredWithoutTransition(t *testing.T) {
	ev := &processor.Event{
		ID:   "evt_2",
		Type: "charge.refunded",
		Kind: processor.KindUnknown,
		Raw:  []byte(`{"id":"evt_2"}`),
	}
	var insertedType string
	events := &mockWebhooks{
		InsertFunc: func(_ context.Context, audit *model.WebhookEvent) error {
			insertedType = audit.EventType
			audit.ID = "audit-2"
			return nil
		},
	}
	txns := &mockTxns{
		GetByIntentIDFunc: func(context.Context, string) (*model.PaymentTransaction, error) {
			t.Fatal("unknown event types must not touch transactions")
			return nil, nil
		},
	}

	svc := NewWebhookService(webhookSettings(), txns, &mockOrders{}, events, verifierReturning(ev))

	require.NoError(t, svc.HandleEvent(context.Background(), []byte(`{}`), "sig"))
	require.Equal(t, "charge.refunded", insertedType)
}

func TestHandleEventMissingTransactionIsFatal(t *testing.T) {
	txns := txnsReturning(nil)
	var recordedErr string
	events := &mockWebhooks{
		RecordFailureFunc: func(_ context.Context, _, lastError string) error {
			recordedErr = lastError
			return nil
		},
	}

	svc := NewWebhookService(webhookSettings(), txns, &mockOrders{}, events, verifierReturning(succeededEvent()))

	err := svc.HandleEvent(context.Background(), []byte(`{}`), "sig")

	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	require.NotEmpty(t, recordedErr)
}

func TestHandleEventOrderUpdateFailurePropagates(t *testing.T) {
	txns := txnsReturning(&model.PaymentTransaction{ID: "txn-1", OrderID: "order-1", IntentID: "pi_1"})
	orders := &mockOrders{
		SetConfirmedFunc: func(context.Context, string) error {
			return errors.New("store unavailable")
		},
	}
	marked := false
	events := &mockWebhooks{
		MarkProcessedFunc: func(context.Context, string, string) error {
			marked = true
			return nil
		},
	}

	svc := NewWebhookService(webhookSettings(), txns, orders, events, verifierReturning(succeededEvent()))

	err := svc.HandleEvent(context.Background(), []byte(`{}`), "sig")

	var pe *PersistenceError
	require.ErrorAs(t, err, &pe)
	require.False(t, marked, "a failed dispatch must not be marked processed")
}

func TestHandleEventAuditInsertFailureDoesNotBlockReconciliation(t *testing.T) {
	events := &mockWebhooks{
		InsertFunc: func(context.Context, *model.WebhookEvent) error {
			return errors.New("audit table unavailable")
		},
	}
	txns := txnsReturning(&model.PaymentTransaction{ID: "txn-1", OrderID: "order-1", IntentID: "pi_1"})
	var confirmedOrder string
	orders := &mockOrders{
		SetConfirmedFunc: func(_ context.Context, id string) error {
			confirmedOrder = id
			return nil
		},
	}

	svc := NewWebhookService(webhookSettings(), txns, orders, events, verifierReturning(succeededEvent()))

	require.NoError(t, svc.HandleEvent(context.Background(), []byte(`{}`), "sig"))
	require.Equal(t, "order-1", confirmedOrder)
}
