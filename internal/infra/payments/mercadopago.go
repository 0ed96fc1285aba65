package payments

import (
	"context"
	"fmt"
	"strconv"

	mpconfig "github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/mercadopago/sdk-go/pkg/preference"
)

const StatusApproved = "approved"

type MercadoPago struct {
	preferences preference.Client
	payments    payment.Client
}

// NewMercadoPago returns nil when no access token is configured.
func NewMercadoPago(accessToken string) (*MercadoPago, error) {
	if accessToken == "" {
		return nil, nil
	}

	cfg, err := mpconfig.New(accessToken)
	if err != nil {
		return nil, fmt.Errorf("mercadopago config: %w", err)
	}

	return &MercadoPago{
		preferences: preference.NewClient(cfg),
		payments:    payment.NewClient(cfg),
	}, nil
}

func (m *MercadoPago) CreateCheckout(ctx context.Context, in CheckoutInput) (Checkout, error) {
	req := preference.Request{
		Items: []preference.ItemRequest{
			{
				ID:          in.Reference,
				Title:       in.Title,
				Description: in.Description,
				Quantity:    1,
				UnitPrice:   in.Amount.InexactFloat64(),
			},
		},
		Payer: &preference.PayerRequest{
			Name:  in.PayerName,
			Email: in.PayerEmail,
		},
		BackURLs: &preference.BackURLsRequest{
			Success: in.SuccessURL,
			Pending: in.SuccessURL,
			Failure: in.CancelURL,
		},
		ExternalReference: in.Reference,
		NotificationURL:   in.NotifyURL,
	}

	res, err := m.preferences.Create(ctx, req)
	if err != nil {
		return Checkout{}, fmt.Errorf("mercadopago preference: %w", err)
	}
	return Checkout{ID: res.ID, URL: res.InitPoint}, nil
}

func (m *MercadoPago) Lookup(ctx context.Context, paymentID string) (string, string, error) {
	id, err := strconv.Atoi(paymentID)
	if err != nil {
		return "", "", fmt.Errorf("invalid payment id %q", paymentID)
	}

	res, err := m.payments.Get(ctx, id)
	if err != nil {
		return "", "", fmt.Errorf("mercadopago payment %d: %w", id, err)
	}
	return res.Status, res.ExternalReference, nil
}
