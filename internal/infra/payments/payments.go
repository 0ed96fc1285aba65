package payments

import (
	"context"

	"github.com/shopspring/decimal"
)

type Checkout struct {
	ID  string
	URL string
}

type CheckoutInput struct {
	Reference   string
	Title       string
	Amount      decimal.Decimal
	PayerName   string
	PayerEmail  string
	SuccessURL  string
	CancelURL   string
	NotifyURL   string
	Description string
}

// AppointmentGateway takes care seekers' appointment payments.
type AppointmentGateway interface {
	CreateCheckout(ctx context.Context, in CheckoutInput) (Checkout, error)
	// Lookup returns the provider status and our reference for a payment id.
	Lookup(ctx context.Context, paymentID string) (status string, reference string, err error)
}

// InvoiceGateway produces hosted payment links for invoices.
type InvoiceGateway interface {
	CreateCheckout(ctx context.Context, in CheckoutInput) (Checkout, error)
}

// ToCents converts a 2-place decimal amount to the smallest currency unit.
func ToCents(amount decimal.Decimal) int64 {
	return amount.Round(2).Shift(2).IntPart()
}
