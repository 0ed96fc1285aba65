package appointment

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/BruksfildServices01/care-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/care-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/care-scheduler/internal/httperr"
	"github.com/BruksfildServices01/care-scheduler/internal/infra/payments"
	"github.com/BruksfildServices01/care-scheduler/internal/logger"
	"github.com/BruksfildServices01/care-scheduler/internal/models"
)

const referencePrefix = "appt-"

func Reference(id uint) string {
	return referencePrefix + strconv.FormatUint(uint64(id), 10)
}

// ======================================================
// Checkout
// ======================================================

type PayAppointment struct {
	repo    domain.Repository
	gateway payments.AppointmentGateway
	audit   *audit.Dispatcher
	baseURL string
}

// NewPayAppointment accepts a nil gateway; Execute then reports payments_disabled.
func NewPayAppointment(
	repo domain.Repository,
	gateway payments.AppointmentGateway,
	audit *audit.Dispatcher,
	baseURL string,
) *PayAppointment {
	return &PayAppointment{repo: repo, gateway: gateway, audit: audit, baseURL: strings.TrimRight(baseURL, "/")}
}

func (uc *PayAppointment) Execute(ctx context.Context, appointmentID uint) (*models.Appointment, error) {
	if uc.gateway == nil {
		return nil, httperr.ErrBusiness("payments_disabled")
	}

	ap, err := uc.repo.GetAppointmentByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	if err := domain.CanPay(domain.Status(ap.Status), domain.PaymentStatus(ap.PaymentStatus)); err != nil {
		return nil, err
	}
	if !ap.Price.IsPositive() {
		return nil, httperr.ErrBusiness("nothing_to_pay")
	}

	ref := Reference(ap.ID)
	checkout, err := uc.gateway.CreateCheckout(ctx, payments.CheckoutInput{
		Reference:   ref,
		Title:       serviceTitle(ap),
		Amount:      ap.Price,
		PayerName:   ap.SeekerName,
		PayerEmail:  ap.SeekerEmail,
		SuccessURL:  fmt.Sprintf("%s/appointments/%d/paid", uc.baseURL, ap.ID),
		CancelURL:   fmt.Sprintf("%s/appointments/%d", uc.baseURL, ap.ID),
		NotifyURL:   uc.baseURL + "/api/public/payments/webhook",
		Description: ap.StartTime.Format("2006-01-02 15:04"),
	})
	if err != nil {
		return nil, err
	}

	ap.PaymentStatus = string(domain.PaymentPending)
	ap.PaymentReference = ref
	ap.PaymentURL = checkout.URL

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		OrganizationID: ap.OrganizationID,
		Action:         "appointment_payment_started",
		Entity:         "appointment",
		EntityID:       &ap.ID,
		Metadata:       map[string]any{"checkout_id": checkout.ID},
	})

	return ap, nil
}

func serviceTitle(ap *models.Appointment) string {
	if ap.Service != "" {
		return ap.Service
	}
	return "Care appointment"
}

// ======================================================
// Webhook
// ======================================================

type ConfirmPayment struct {
	repo    domain.Repository
	gateway payments.AppointmentGateway
	audit   *audit.Dispatcher
}

func NewConfirmPayment(
	repo domain.Repository,
	gateway payments.AppointmentGateway,
	audit *audit.Dispatcher,
) *ConfirmPayment {
	return &ConfirmPayment{repo: repo, gateway: gateway, audit: audit}
}

// Execute asks the provider for the payment's state instead of trusting
// the webhook body. Non-approved payments are acknowledged and ignored.
func (uc *ConfirmPayment) Execute(ctx context.Context, paymentID string) (*models.Appointment, error) {
	if uc.gateway == nil {
		return nil, httperr.ErrBusiness("payments_disabled")
	}

	status, ref, err := uc.gateway.Lookup(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if status != payments.StatusApproved {
		logger.Get().WithField("payment_id", paymentID).WithField("status", status).Info("payment not approved yet")
		return nil, nil
	}
	if !strings.HasPrefix(ref, referencePrefix) {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}

	ap, err := uc.repo.GetAppointmentByPaymentReference(ctx, ref)
	if err != nil {
		return nil, err
	}
	if domain.PaymentStatus(ap.PaymentStatus) == domain.PaymentPaid {
		return ap, nil
	}

	domain.MarkPaid(ap, ref)
	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		OrganizationID: ap.OrganizationID,
		Action:         "appointment_paid",
		Entity:         "appointment",
		EntityID:       &ap.ID,
		Metadata:       map[string]any{"payment_id": paymentID},
	})

	return ap, nil
}
