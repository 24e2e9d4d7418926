package gateway

import (
	"context"
	"fmt"
	"net/http"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

type Stripe struct {
	api *client.API
}

// NewStripe builds a client on the default Stripe API backend.
func NewStripe(secretKey string) *Stripe {
	return &Stripe{api: client.New(secretKey, nil)}
}

// NewStripeWithBackend points the client at baseURL, for sandboxes and tests.
func NewStripeWithBackend(secretKey, baseURL string, httpClient *http.Client) *Stripe {
	backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		URL:               stripe.String(baseURL),
		HTTPClient:        httpClient,
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelNull},
	})
	return &Stripe{api: client.New(secretKey, &stripe.Backends{
		API:     backend,
		Connect: backend,
		Uploads: backend,
	})}
}

func (s *Stripe) CreateIntent(ctx context.Context, req IntentRequest) (Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(req.Amount),
		Currency:           stripe.String(req.Currency),
		PaymentMethodTypes: stripe.StringSlice(req.PaymentMethodTypes),
	}
	if req.Email != "" {
		params.ReceiptEmail = stripe.String(req.Email)
	}
	if req.BookingID != "" {
		params.AddMetadata("booking_id", req.BookingID)
	}
	params.Context = ctx

	pi, err := s.api.PaymentIntents.New(params)
	if err != nil {
		return Intent{}, fmt.Errorf("%w: stripe: %v", ErrUpstream, err)
	}
	return Intent{ID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}
