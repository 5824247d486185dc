package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"storefront/internal/model"
	"storefront/internal/service"
)

type StaleTransactionLister interface {
	ListStaleProcessing(ctx context.Context, cutoff time.Time, limit int) ([]model.PaymentTransaction, error)
}

type Verifier interface {
	VerifyPayment(ctx context.Context, in service.VerifyInput) (*service.VerifyResult, error)
}

// ReconcileWorker is the pull-path safety net: the services themselves never
// retry, so transactions left in processing (lost webhooks, clients that
// never came back from a redirect) are re-verified here.
type ReconcileWorker struct {
	txns      StaleTransactionLister
	verifier  Verifier
	interval  time.Duration
	staleAge  time.Duration
	batchSize int
}

func NewReconcileWorker(txns StaleTransactionLister, verifier Verifier) *ReconcileWorker {
	return &ReconcileWorker{
		txns:      txns,
		verifier:  verifier,
		interval:  time.Minute,
		staleAge:  5 * time.Minute,
		batchSize: 10,
	}
}

func (w *ReconcileWorker) Start(ctx context.Context) {
	slog.Info("starting reconcile worker")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("reconcile worker stopped")
			return
		case <-ticker.C:
			if err := w.processBatch(ctx); err != nil {
				slog.Error("reconcile batch failed", "error", err)
			}
		}
	}
}

func (w *ReconcileWorker) processBatch(ctx context.Context) error {
	txns, err := w.txns.ListStaleProcessing(ctx, time.Now().Add(-w.staleAge), w.batchSize)
	if err != nil {
		return fmt.Errorf("list stale transactions: %w", err)
	}

	for _, txn := range txns {
		result, err := w.verifier.VerifyPayment(ctx, service.VerifyInput{
			PaymentIntentID: txn.IntentID,
			TransactionID:   txn.ID,
			OrderID:         txn.OrderID,
		})
		if err != nil {
			slog.Error("failed to re-verify transaction", "transaction_id", txn.ID, "error", err)
			continue
		}
		slog.Info("re-verified stale transaction",
			"transaction_id", txn.ID, "order_id", txn.OrderID, "status", result.Status)
	}

	return nil
}
