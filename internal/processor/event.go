package processor

import (
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/webhook"
)

type EventKind string

const (
	KindIntentSucceeded EventKind = "payment_intent.succeeded"
	KindIntentFailed    EventKind = "payment_intent.payment_failed"
	// KindUnknown covers every event type we accept but do not act on.
	KindUnknown EventKind = "unknown"
)

// Event is the decoded webhook envelope. Intent is set only for the two
// intent kinds; unknown kinds carry the raw payload and nothing else.
type Event struct {
	ID     string
	Type   string
	Kind   EventKind
	Intent *Intent
	Raw    []byte
}

// EventVerifier checks a webhook payload against the processor's signature
// header and decodes it. Matches VerifyAndDecode.
type EventVerifier func(payload []byte, sigHeader, secret string) (*Event, error)

// VerifyAndDecode rejects payloads whose signature does not match the
// configured webhook secret. Verification is mandatory; there is no
// development-mode bypass.
func VerifyAndDecode(payload []byte, sigHeader, secret string) (*Event, error) {
	sev, err := webhook.ConstructEvent(payload, sigHeader, secret)
	if err != nil {
		return nil, fmt.Errorf("verify webhook signature: %w", err)
	}
	return decodeEvent(sev, payload)
}

func decodeEvent(sev stripe.Event, payload []byte) (*Event, error) {
	ev := &Event{
		ID:   sev.ID,
		Type: string(sev.Type),
		Kind: KindUnknown,
		Raw:  payload,
	}

	switch sev.Type {
	case string(KindIntentSucceeded), string(KindIntentFailed):
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(sev.Data.Raw, &pi); err != nil {
			return nil, fmt.Errorf("decode intent payload: %w", err)
		}
		ev.Kind = EventKind(sev.Type)
		ev.Intent = intentFrom(&pi)
	}

	return ev, nil
}
