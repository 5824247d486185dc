package processor

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/client"
)

// Intent is the normalized view of a processor-side payment intent. Raw holds
// the processor's payload verbatim for audit.
type Intent struct {
	ID            string
	ClientSecret  string
	Status        string
	FailureReason string
	Raw           []byte
}

type CreateIntentInput struct {
	AmountMinor       int64
	Currency          string
	OrderID           string
	CustomerID        string
	PaymentMethodType string
}

// Client issues create/retrieve calls against the payment processor.
type Client interface {
	CreateIntent(ctx context.Context, in CreateIntentInput) (*Intent, error)
	RetrieveIntent(ctx context.Context, intentID string) (*Intent, error)
}

// ClientFactory builds a Client bound to a secret key. Credentials are
// resolved from settings per request, never held process-wide.
type ClientFactory func(secretKey string) Client

type StripeClient struct {
	api *client.API
}

func NewStripeClient(secretKey string) Client {
	return &StripeClient{api: client.New(secretKey, nil)}
}

func (c *StripeClient) CreateIntent(ctx context.Context, in CreateIntentInput) (*Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(in.AmountMinor),
		Currency: stripe.String(in.Currency),
	}
	params.Context = ctx
	params.AddMetadata("order_id", in.OrderID)
	params.AddMetadata("customer_id", in.CustomerID)

	if in.PaymentMethodType != "" {
		params.PaymentMethodTypes = stripe.StringSlice([]string{in.PaymentMethodType})
	} else {
		params.AutomaticPaymentMethods = &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		}
	}

	pi, err := c.api.PaymentIntents.New(params)
	if err != nil {
		return nil, translateErr(err)
	}
	return intentFrom(pi), nil
}

func (c *StripeClient) RetrieveIntent(ctx context.Context, intentID string) (*Intent, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	pi, err := c.api.PaymentIntents.Get(intentID, params)
	if err != nil {
		return nil, translateErr(err)
	}
	return intentFrom(pi), nil
}

// translateErr surfaces the processor's own message when one exists.
func translateErr(err error) error {
	var sErr *stripe.Error
	if errors.As(err, &sErr) && sErr.Msg != "" {
		return errors.New(sErr.Msg)
	}
	return err
}

func intentFrom(pi *stripe.PaymentIntent) *Intent {
	raw, _ := json.Marshal(pi)
	in := &Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Status:       string(pi.Status),
		Raw:          raw,
	}
	if pi.LastPaymentError != nil {
		in.FailureReason = pi.LastPaymentError.Msg
	}
	return in
}
