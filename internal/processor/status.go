package processor

import (
	"math"
	"strings"

	"storefront/internal/model"
)

// Raw intent statuses as the processor reports them.
const (
	StatusSucceeded             = "succeeded"
	StatusProcessing            = "processing"
	StatusCanceled              = "canceled"
	StatusRequiresCapture       = "requires_capture"
	StatusRequiresPaymentMethod = "requires_payment_method"
)

// MapStatus is the single mapping from a processor-reported intent status to
// the local transaction status. No other code path may derive a transaction
// status from processor state.
func MapStatus(raw string) model.TransactionStatus {
	switch raw {
	case StatusSucceeded:
		return model.TransactionSucceeded
	case StatusCanceled:
		return model.TransactionCancelled
	case StatusProcessing:
		return model.TransactionProcessing
	default:
		return model.TransactionFailed
	}
}

// MinorUnits converts a decimal amount to the processor's integer minor-unit
// representation, rounding to the nearest cent.
func MinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// NormalizeCurrency returns the uppercase ISO code expected by the processor.
func NormalizeCurrency(currency string) string {
	return strings.ToUpper(strings.TrimSpace(currency))
}
