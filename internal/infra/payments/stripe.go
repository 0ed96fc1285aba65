package payments

import (
	"context"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
)

type Stripe struct {
	api      *client.API
	currency string
}

// NewStripe returns nil when no secret key is configured.
func NewStripe(secretKey, currency string) *Stripe {
	if secretKey == "" {
		return nil
	}

	api := &client.API{}
	api.Init(secretKey, nil)

	currency = strings.ToLower(strings.TrimSpace(currency))
	if currency == "" {
		currency = "usd"
	}
	return &Stripe{api: api, currency: currency}
}

func (s *Stripe) CreateCheckout(ctx context.Context, in CheckoutInput) (Checkout, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:        stripe.String(in.SuccessURL),
		CancelURL:         stripe.String(in.CancelURL),
		ClientReferenceID: stripe.String(in.Reference),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(s.currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(in.Title),
					},
					UnitAmount: stripe.Int64(ToCents(in.Amount)),
				},
				Quantity: stripe.Int64(1),
			},
		},
		Metadata: map[string]string{
			"reference": in.Reference,
		},
	}
	if in.PayerEmail != "" {
		params.CustomerEmail = stripe.String(in.PayerEmail)
	}
	params.Context = ctx
	params.IdempotencyKey = stripe.String("checkout-" + in.Reference)

	sess, err := s.api.CheckoutSessions.New(params)
	if err != nil {
		return Checkout{}, fmt.Errorf("stripe checkout session: %w", err)
	}
	return Checkout{ID: sess.ID, URL: sess.URL}, nil
}
