package gateway

import (
	"context"
	"fmt"
	"net/http"

	"github.com/omise/omise-go"
	"github.com/omise/omise-go/operations"
)

// Omise charges a card the browser already tokenized with Omise.js. Omise
// has no intent object: the charge is created up front and its id is handed
// back as the client secret, which the client then posts as the transaction.
type Omise struct {
	publicKey  string
	secretKey  string
	httpClient *http.Client
}

func NewOmise(publicKey, secretKey string) (*Omise, error) {
	c, err := omise.NewClient(publicKey, secretKey)
	if err != nil {
		return nil, fmt.Errorf("omise client: %w", err)
	}
	return &Omise{publicKey: publicKey, secretKey: secretKey, httpClient: c.Client}, nil
}

// client returns a client bound to ctx. omise.Client keeps the context on
// the struct, so one is built per call.
func (o *Omise) client(ctx context.Context) (*omise.Client, error) {
	c, err := omise.NewClient(o.publicKey, o.secretKey)
	if err != nil {
		return nil, err
	}
	c.Client = o.httpClient
	c.WithContext(ctx)
	return c, nil
}

func (o *Omise) CreateIntent(ctx context.Context, req IntentRequest) (Intent, error) {
	if !onlyCard(req.PaymentMethodTypes) {
		return Intent{}, fmt.Errorf("%w: omise: %v", ErrUnsupportedMethod, req.PaymentMethodTypes)
	}
	if req.CardToken == "" {
		return Intent{}, ErrCardTokenRequired
	}

	c, err := o.client(ctx)
	if err != nil {
		return Intent{}, fmt.Errorf("%w: omise: %v", ErrUpstream, err)
	}

	ch := &omise.Charge{}
	op := &operations.CreateCharge{
		Amount:   req.Amount,
		Currency: req.Currency,
		Card:     req.CardToken,
		Metadata: map[string]interface{}{"booking_id": req.BookingID},
	}
	if req.Email != "" {
		op.Description = "booking " + req.BookingID + " for " + req.Email
	}
	if err := c.Do(ch, op); err != nil {
		return Intent{}, fmt.Errorf("%w: omise: %v", ErrUpstream, err)
	}

	if ch.Status == omise.ChargeFailed {
		code := ""
		if ch.FailureCode != nil {
			code = *ch.FailureCode
		}
		return Intent{}, fmt.Errorf("%w: omise charge %s failed: %s", ErrUpstream, ch.ID, code)
	}
	return Intent{ID: ch.ID, ClientSecret: ch.ID}, nil
}

func onlyCard(types []string) bool {
	if len(types) == 0 {
		return false
	}
	for _, t := range types {
		if t != "card" {
			return false
		}
	}
	return true
}
