package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/care-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/care-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/care-scheduler/internal/httperr"
	"github.com/BruksfildServices01/care-scheduler/internal/models"
	"github.com/BruksfildServices01/care-scheduler/internal/timezone"
)

type Transition string

const (
	TransitionCancel   Transition = "cancel"
	TransitionComplete Transition = "complete"
)

var transitions = map[Transition]struct {
	apply  func(*models.Appointment, time.Time) error
	action string
}{
	TransitionCancel:   {domain.Cancel, "appointment_cancelled"},
	TransitionComplete: {domain.Complete, "appointment_completed"},
}

// ChangeAppointmentStatus cancels or completes an appointment. The
// transition timestamp is taken in the organization's timezone.
type ChangeAppointmentStatus struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewChangeAppointmentStatus(repo domain.Repository, audit *audit.Dispatcher) *ChangeAppointmentStatus {
	return &ChangeAppointmentStatus{repo: repo, audit: audit}
}

func (uc *ChangeAppointmentStatus) Execute(
	ctx context.Context,
	orgID uint,
	userID uint,
	appointmentID uint,
	t Transition,
) (*models.Appointment, error) {

	tr, ok := transitions[t]
	if !ok {
		return nil, httperr.ErrBusiness("invalid_transition")
	}

	org, err := uc.repo.GetOrganizationByID(ctx, orgID)
	if err != nil {
		return nil, err
	}

	ap, err := uc.repo.GetAppointment(ctx, orgID, appointmentID)
	if err != nil {
		return nil, err
	}

	if err := tr.apply(ap, timezone.NowIn(org.Timezone)); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		OrganizationID: orgID,
		UserID:         &userID,
		Action:         tr.action,
		Entity:         "appointment",
		EntityID:       &ap.ID,
	})

	return ap, nil
}
