package payments

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
)

var ErrInvalidAmount = errors.New("invalid amount")

// IntentClient creates a payment intent with the external processor and
// returns the opaque client secret the browser needs to complete the
// charge. Nothing is persisted locally.
type IntentClient interface {
	CreateIntent(ctx context.Context, amountMinor int64) (string, error)
}

type StripeClient struct {
	api      *client.API
	currency string
}

func NewStripeClient(secretKey, currency string) *StripeClient {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeClient{api: api, currency: currency}
}

func (c *StripeClient) CreateIntent(ctx context.Context, amountMinor int64) (string, error) {
	if amountMinor <= 0 {
		return "", ErrInvalidAmount
	}

	params := &stripe.PaymentIntentParams{
		Params:             stripe.Params{Context: ctx},
		Amount:             stripe.Int64(amountMinor),
		Currency:           stripe.String(c.currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}

	intent, err := c.api.PaymentIntents.New(params)
	if err != nil {
		return "", fmt.Errorf("create payment intent: %w", err)
	}
	return intent.ClientSecret, nil
}

// MinorUnits converts a decimal amount in major currency units to minor
// units (cents), so "10" becomes 1000.
func MinorUnits(amount string) (int64, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return 0, ErrInvalidAmount
	}

	value, err := strconv.ParseFloat(amount, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	if value <= 0 || math.IsInf(value, 0) || math.IsNaN(value) {
		return 0, ErrInvalidAmount
	}
	return int64(math.Round(value * 100)), nil
}
