// Package gateway creates payment intents with an external payment provider.
package gateway

import (
	"context"
	"errors"
)

var (
	// ErrUpstream wraps every provider failure.
	ErrUpstream = errors.New("payment gateway failure")
	// ErrUnsupportedMethod is returned for payment method types the provider
	// cannot charge.
	ErrUnsupportedMethod = errors.New("unsupported payment method")
	// ErrCardTokenRequired is returned by providers that charge a
	// client-side card token.
	ErrCardTokenRequired = errors.New("card token is required")
)

// IntentRequest asks the provider to prepare a charge of Amount minor units.
type IntentRequest struct {
	BookingID          string
	Email              string
	Amount             int64
	Currency           string
	PaymentMethodTypes []string
	// CardToken is a provider token for a card tokenized in the browser.
	// Only providers without an intent object use it.
	CardToken string
}

// Intent is what the client needs to complete the payment on its side.
type Intent struct {
	ID           string
	ClientSecret string
}

type Gateway interface {
	CreateIntent(ctx context.Context, req IntentRequest) (Intent, error)
}
