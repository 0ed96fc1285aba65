package appointment

import (
	"context"

	"github.com/BruksfildServices01/care-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/care-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/care-scheduler/internal/models"
)

type ConfirmAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewConfirmAppointment(repo domain.Repository, audit *audit.Dispatcher) *ConfirmAppointment {
	return &ConfirmAppointment{repo: repo, audit: audit}
}

func (uc *ConfirmAppointment) Execute(
	ctx context.Context,
	orgID uint,
	userID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointment(ctx, orgID, appointmentID)
	if err != nil {
		return nil, err
	}

	if err := domain.Confirm(ap); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		OrganizationID: orgID,
		UserID:         &userID,
		Action:         "appointment_confirmed",
		Entity:         "appointment",
		EntityID:       &ap.ID,
	})

	return ap, nil
}
