package shift

import (
	"context"

	"github.com/BruksfildServices01/care-scheduler/internal/audit"
	notifdomain "github.com/BruksfildServices01/care-scheduler/internal/domain/notification"
	domain "github.com/BruksfildServices01/care-scheduler/internal/domain/shift"
	"github.com/BruksfildServices01/care-scheduler/internal/models"
	"github.com/BruksfildServices01/care-scheduler/internal/notify"
)

type Transition string

const (
	TransitionCancel   Transition = "cancel"
	TransitionStart    Transition = "start"
	TransitionComplete Transition = "complete"
)

var transitions = map[Transition]struct {
	apply  func(*models.StaffShift) error
	action string
}{
	TransitionCancel:   {domain.Cancel, "shift_cancelled"},
	TransitionStart:    {domain.Start, "shift_started"},
	TransitionComplete: {domain.Complete, "shift_completed"},
}

// ChangeShiftStatus moves a shift through its lifecycle. Cancelled shifts
// stay in the table with status cancelled.
type ChangeShiftStatus struct {
	repo     domain.Repository
	audit    *audit.Dispatcher
	notifier notify.Notifier
}

func NewChangeShiftStatus(repo domain.Repository, audit *audit.Dispatcher, notifier notify.Notifier) *ChangeShiftStatus {
	return &ChangeShiftStatus{repo: repo, audit: audit, notifier: notifier}
}

func (uc *ChangeShiftStatus) Execute(
	ctx context.Context,
	orgID uint,
	userID uint,
	shiftID uint,
	t Transition,
) (*models.StaffShift, error) {

	tr, ok := transitions[t]
	if !ok {
		return nil, errUnknownTransition
	}

	sh, err := uc.repo.GetShift(ctx, orgID, shiftID)
	if err != nil {
		return nil, err
	}

	if err := tr.apply(sh); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateShift(ctx, sh); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		OrganizationID: orgID,
		UserID:         &userID,
		Action:         tr.action,
		Entity:         "shift",
		EntityID:       &sh.ID,
	})

	if t == TransitionCancel && sh.Staff.UserID != nil {
		notifyStaff(ctx, uc.notifier, sh, *sh.Staff.UserID, notifdomain.TypeShiftCancelled, "Shift cancelled")
	}

	return sh, nil
}
