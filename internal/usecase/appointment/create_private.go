package appointment

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/care-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/care-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/care-scheduler/internal/httperr"
	"github.com/BruksfildServices01/care-scheduler/internal/models"
	"github.com/BruksfildServices01/care-scheduler/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type CreatePrivateAppointmentInput struct {
	OrganizationID uint
	UserID         uint

	ClientName  string
	ClientPhone string
	ClientEmail string

	Service     string
	DurationMin int
	Price       decimal.Decimal

	Date  string
	Time  string
	Notes string
}

// ======================================================
// USE CASE
// ======================================================

type CreatePrivateAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCreatePrivateAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *CreatePrivateAppointment {
	return &CreatePrivateAppointment{
		repo:  repo,
		audit: audit,
	}
}

// ======================================================
// EXECUTE
// ======================================================

// Execute books on behalf of a client. Staff may book outside opening hours.
func (uc *CreatePrivateAppointment) Execute(
	ctx context.Context,
	in CreatePrivateAppointmentInput,
) (*models.Appointment, error) {

	org, err := uc.repo.GetOrganizationByID(ctx, in.OrganizationID)
	if err != nil {
		return nil, err
	}

	start, err := parseStart(org, in.Date, in.Time)
	if err != nil {
		return nil, err
	}

	if in.DurationMin <= 0 {
		in.DurationMin = 60
	}
	end := start.Add(time.Duration(in.DurationMin) * time.Minute)

	if in.Price.IsNegative() {
		return nil, httperr.ErrBusiness("invalid_price")
	}

	client, err := uc.repo.GetOrCreateClient(
		ctx,
		in.OrganizationID,
		strings.TrimSpace(in.ClientName),
		strings.TrimSpace(in.ClientPhone),
		strings.TrimSpace(in.ClientEmail),
	)
	if err != nil {
		return nil, err
	}

	ap := &models.Appointment{
		OrganizationID: in.OrganizationID,
		ClientID:       &client.ID,
		SeekerName:     client.Name,
		SeekerPhone:    client.Phone,
		SeekerEmail:    client.Email,
		Service:        in.Service,
		StartTime:      start,
		EndTime:        end,
		Status:         string(domain.InitialStatus()),
		Price:          in.Price.Round(2),
		PaymentStatus:  string(domain.PaymentUnpaid),
		Notes:          in.Notes,
	}

	if err := uc.repo.CreateIfFree(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		OrganizationID: in.OrganizationID,
		UserID:         &in.UserID,
		Action:         "appointment_created",
		Entity:         "appointment",
		EntityID:       &ap.ID,
	})

	return ap, nil
}

func parseStart(org *models.Organization, date, clock string) (time.Time, error) {
	start, err := time.ParseInLocation(
		"2006-01-02 15:04",
		strings.TrimSpace(date)+" "+strings.TrimSpace(clock),
		timezone.Location(org.Timezone),
	)
	if err != nil {
		return time.Time{}, httperr.ErrBusiness("invalid_date_or_time")
	}
	return start, nil
}
