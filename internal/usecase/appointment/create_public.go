package appointment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/care-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/care-scheduler/internal/domain/appointment"
	notifdomain "github.com/BruksfildServices01/care-scheduler/internal/domain/notification"
	"github.com/BruksfildServices01/care-scheduler/internal/httperr"
	"github.com/BruksfildServices01/care-scheduler/internal/models"
	"github.com/BruksfildServices01/care-scheduler/internal/notify"
)

type CreatePublicAppointmentInput struct {
	Slug string

	Name  string
	Phone string
	Email string

	Service string
	Date    string
	Time    string
	Notes   string
	Price   decimal.Decimal
}

type CreatePublicAppointment struct {
	repo     domain.Repository
	audit    *audit.Dispatcher
	notifier notify.Notifier
	now      func() time.Time
}

func NewCreatePublicAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	notifier notify.Notifier,
) *CreatePublicAppointment {
	return &CreatePublicAppointment{
		repo:     repo,
		audit:    audit,
		notifier: notifier,
		now:      time.Now,
	}
}

// Execute books a slot for a care seeker. The slot must sit inside the
// organization's opening hours and respect its minimum notice.
func (uc *CreatePublicAppointment) Execute(
	ctx context.Context,
	in CreatePublicAppointmentInput,
) (*models.Appointment, error) {

	// --------------------------------------------------
	// Organization
	// --------------------------------------------------
	org, err := uc.repo.GetOrganizationBySlug(ctx, in.Slug)
	if err != nil {
		return nil, err
	}

	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	if in.Name == "" || in.Phone == "" {
		return nil, httperr.ErrBusiness("name_and_phone_required")
	}

	// --------------------------------------------------
	// Date / time in the organization's timezone
	// --------------------------------------------------
	start, err := parseStart(org, in.Date, in.Time)
	if err != nil {
		return nil, err
	}

	if start.Before(uc.now().Add(minAdvance(org.MinAdvanceMinutes))) {
		return nil, httperr.ErrBusiness("too_soon")
	}

	// --------------------------------------------------
	// Opening hours
	// --------------------------------------------------
	oh, err := uc.repo.GetOpeningHours(ctx, org.ID, int(start.Weekday()))
	if err != nil {
		return nil, err
	}
	if oh == nil {
		return nil, httperr.ErrBusiness("outside_opening_hours")
	}

	slot := oh.SlotMin
	if slot <= 0 {
		slot = 60
	}
	end := start.Add(time.Duration(slot) * time.Minute)

	if !domain.WithinOpeningHours(oh, start, end) {
		return nil, httperr.ErrBusiness("outside_opening_hours")
	}

	// --------------------------------------------------
	// Client (get or create by phone)
	// --------------------------------------------------
	client, err := uc.repo.GetOrCreateClient(ctx, org.ID, in.Name, in.Phone, strings.TrimSpace(in.Email))
	if err != nil {
		return nil, err
	}

	ap := &models.Appointment{
		OrganizationID: org.ID,
		ClientID:       &client.ID,
		SeekerName:     in.Name,
		SeekerPhone:    in.Phone,
		SeekerEmail:    strings.TrimSpace(in.Email),
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

	// --------------------------------------------------
	// Side effects
	// --------------------------------------------------
	uc.audit.Dispatch(audit.Event{
		OrganizationID: org.ID,
		Action:         "appointment_booked",
		Entity:         "appointment",
		EntityID:       &ap.ID,
		Metadata:       map[string]any{"phone": in.Phone},
	})

	if admins, err := uc.repo.ListAdminUserIDs(ctx, org.ID); err == nil {
		uc.notifier.NotifyMany(ctx, admins, notify.Message{
			OrganizationID: org.ID,
			Type:           notifdomain.TypeAppointmentBooked,
			Title:          "New appointment",
			Message:        fmt.Sprintf("%s booked %s at %s.", in.Name, in.Date, in.Time),
			Link:           fmt.Sprintf("/appointments/%d", ap.ID),
		})
	}

	return ap, nil
}
