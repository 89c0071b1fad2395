package service

import (
	"context"

	"doctorsportal/pkg/config"
	apperrors "doctorsportal/pkg/errors"
	"doctorsportal/pkg/logger"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

type PaymentGateway interface {
	CreatePaymentIntent(ctx context.Context, price float64) (string, error)
}

// intentCreator is the slice of the Stripe API the gateway uses.
type intentCreator interface {
	New(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
}

type stripeGateway struct {
	intents  intentCreator
	currency string
	log      *logger.Logger
}

// NewStripeGateway returns a gateway that answers 503 for every call when no
// secret key is configured.
func NewStripeGateway(cfg *config.Config) PaymentGateway {
	var intents intentCreator
	if cfg.StripeSecretKey != "" {
		api := &client.API{}
		api.Init(cfg.StripeSecretKey, nil)
		intents = api.PaymentIntents
	}
	return newGateway(intents, cfg.PaymentCurrency, cfg.Log)
}

func newGateway(intents intentCreator, currency string, log *logger.Logger) *stripeGateway {
	return &stripeGateway{
		intents:  intents,
		currency: currency,
		log:      log,
	}
}

// MinorUnits converts a price to integer cents, truncating fractions of a cent.
func MinorUnits(price float64) int64 {
	return decimal.NewFromFloat(price).Shift(2).Truncate(0).IntPart()
}

func (g *stripeGateway) CreatePaymentIntent(ctx context.Context, price float64) (string, error) {
	amount := MinorUnits(price)
	if amount <= 0 {
		return "", apperrors.InvalidInput("price must be greater than zero")
	}
	if g.intents == nil {
		return "", apperrors.Unavailable("Payment provider")
	}

	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(amount),
		Currency:           stripe.String(g.currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Context = ctx

	intent, err := g.intents.New(params)
	if err != nil {
		g.log.Error("Failed to create payment intent", "amount", amount, "currency", g.currency, "error", err)
		return "", apperrors.Internal("Failed to create payment intent", err)
	}

	g.log.Info("Payment intent created", "intent_id", intent.ID, "amount", amount, "currency", g.currency)
	return intent.ClientSecret, nil
}
