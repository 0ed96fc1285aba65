package invoice

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/BruksfildServices01/care-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/care-scheduler/internal/domain/invoice"
	notifdomain "github.com/BruksfildServices01/care-scheduler/internal/domain/notification"
	"github.com/BruksfildServices01/care-scheduler/internal/httperr"
	"github.com/BruksfildServices01/care-scheduler/internal/infra/mailer"
	"github.com/BruksfildServices01/care-scheduler/internal/infra/payments"
	"github.com/BruksfildServices01/care-scheduler/internal/logger"
	"github.com/BruksfildServices01/care-scheduler/internal/models"
	"github.com/BruksfildServices01/care-scheduler/internal/notify"
)

type SendInvoice struct {
	repo     domain.Repository
	mail     *mailer.Async
	notifier notify.Notifier
	audit    *audit.Dispatcher
	now      func() time.Time
}

func NewSendInvoice(
	repo domain.Repository,
	mail *mailer.Async,
	notifier notify.Notifier,
	audit *audit.Dispatcher,
) *SendInvoice {
	return &SendInvoice{repo: repo, mail: mail, notifier: notifier, audit: audit, now: time.Now}
}

// Execute marks the invoice sent and mails the client. Mail delivery is
// fire-and-forget: the status change stands even if the mail fails.
func (uc *SendInvoice) Execute(ctx context.Context, orgID, userID, invoiceID uint) (*models.Invoice, error) {
	inv, err := uc.repo.GetInvoice(ctx, orgID, invoiceID)
	if err != nil {
		return nil, err
	}
	if err := domain.CanSend(domain.Status(inv.Status)); err != nil {
		return nil, err
	}
	if !inv.Total.Equal(domain.Sum(inv.LineItems)) {
		logger.LogError("invoice", "SendInvoice", "Sum", inv.ID, fmt.Errorf("total %s does not match line items", inv.Total.StringFixed(2)))
		return nil, httperr.ErrBusiness("invoice_total_mismatch")
	}

	org, err := uc.repo.GetOrganization(ctx, orgID)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	if domain.Status(inv.Status) == domain.StatusDraft {
		inv.Status = string(domain.StatusSent)
	}
	inv.SentAt = &now

	if err := uc.repo.UpdateInvoice(ctx, inv); err != nil {
		return nil, err
	}

	uc.mail.Send(inv.Client.Email, fmt.Sprintf("Invoice %s from %s", inv.Number, org.Name), EmailBody(org, inv))

	if inv.Client.UserID != nil {
		_ = uc.notifier.Notify(ctx, *inv.Client.UserID, notify.Message{
			OrganizationID: orgID,
			Type:           notifdomain.TypeInvoiceSent,
			Title:          "Invoice " + inv.Number,
			Message:        fmt.Sprintf("Total %s due %s.", inv.Total.StringFixed(2), inv.DueDate.Format("2006-01-02")),
			Link:           fmt.Sprintf("/invoices/%d", inv.ID),
		})
	}

	uc.audit.Dispatch(audit.Event{
		OrganizationID: orgID,
		UserID:         &userID,
		Action:         "invoice_sent",
		Entity:         "invoice",
		EntityID:       &inv.ID,
	})

	return inv, nil
}

func EmailBody(org *models.Organization, inv *models.Invoice) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\n", inv.Client.Name)
	fmt.Fprintf(&b, "%s has issued invoice %s for %s to %s.\n\n",
		org.Name, inv.Number, inv.PeriodStart.Format("2006-01-02"), inv.PeriodEnd.Format("2006-01-02"))
	for _, it := range inv.LineItems {
		fmt.Fprintf(&b, "  %s: %s h x %s = %s\n", it.Description, it.Hours.StringFixed(2), it.Rate.StringFixed(2), it.Amount.StringFixed(2))
	}
	fmt.Fprintf(&b, "\nTotal: %s\nDue: %s\n", inv.Total.StringFixed(2), inv.DueDate.Format("2006-01-02"))
	if inv.PaymentURL != "" {
		fmt.Fprintf(&b, "Pay online: %s\n", inv.PaymentURL)
	}
	return b.String()
}

// ======================================================
// Payment link
// ======================================================

type CreatePaymentLink struct {
	repo    domain.Repository
	gateway payments.InvoiceGateway
	audit   *audit.Dispatcher
	baseURL string
}

func NewCreatePaymentLink(
	repo domain.Repository,
	gateway payments.InvoiceGateway,
	audit *audit.Dispatcher,
	baseURL string,
) *CreatePaymentLink {
	return &CreatePaymentLink{repo: repo, gateway: gateway, audit: audit, baseURL: strings.TrimRight(baseURL, "/")}
}

func (uc *CreatePaymentLink) Execute(ctx context.Context, orgID, userID, invoiceID uint) (*models.Invoice, error) {
	if uc.gateway == nil {
		return nil, httperr.ErrBusiness("payments_disabled")
	}

	inv, err := uc.repo.GetInvoice(ctx, orgID, invoiceID)
	if err != nil {
		return nil, err
	}
	if err := domain.CanMarkPaid(domain.Status(inv.Status)); err != nil {
		return nil, err
	}

	checkout, err := uc.gateway.CreateCheckout(ctx, payments.CheckoutInput{
		Reference:  fmt.Sprintf("inv-%d", inv.ID),
		Title:      "Invoice " + inv.Number,
		Amount:     inv.Total,
		PayerName:  inv.Client.Name,
		PayerEmail: inv.Client.Email,
		SuccessURL: fmt.Sprintf("%s/invoices/%d?paid=1", uc.baseURL, inv.ID),
		CancelURL:  fmt.Sprintf("%s/invoices/%d", uc.baseURL, inv.ID),
	})
	if err != nil {
		logger.LogError("invoice", "CreatePaymentLink", "checkout", inv.ID, err)
		return nil, err
	}

	inv.PaymentURL = checkout.URL
	if err := uc.repo.UpdateInvoice(ctx, inv); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		OrganizationID: orgID,
		UserID:         &userID,
		Action:         "invoice_payment_link",
		Entity:         "invoice",
		EntityID:       &inv.ID,
		Metadata:       map[string]any{"checkout_id": checkout.ID},
	})

	return inv, nil
}
