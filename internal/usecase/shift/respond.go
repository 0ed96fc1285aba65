package shift

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/BruksfildServices01/care-scheduler/internal/audit"
	notifdomain "github.com/BruksfildServices01/care-scheduler/internal/domain/notification"
	domain "github.com/BruksfildServices01/care-scheduler/internal/domain/shift"
	"github.com/BruksfildServices01/care-scheduler/internal/httperr"
	"github.com/BruksfildServices01/care-scheduler/internal/logger"
	"github.com/BruksfildServices01/care-scheduler/internal/models"
	"github.com/BruksfildServices01/care-scheduler/internal/notify"
)

type RespondInput struct {
	OrganizationID uint
	UserID         uint
	ShiftID        uint
	Accept         bool
	Reason         string
}

// RespondToShift lets the assigned staff member accept or decline.
type RespondToShift struct {
	repo     domain.Repository
	audit    *audit.Dispatcher
	notifier notify.Notifier
	now      func() time.Time
}

func NewRespondToShift(
	repo domain.Repository,
	audit *audit.Dispatcher,
	notifier notify.Notifier,
) *RespondToShift {
	return &RespondToShift{repo: repo, audit: audit, notifier: notifier, now: time.Now}
}

func (uc *RespondToShift) Execute(ctx context.Context, in RespondInput) (*models.StaffShift, error) {
	staff, err := uc.repo.GetStaffByUser(ctx, in.OrganizationID, in.UserID)
	if err != nil {
		return nil, httperr.ErrBusiness("not_shift_owner")
	}

	sh, err := uc.repo.GetShift(ctx, in.OrganizationID, in.ShiftID)
	if err != nil {
		return nil, err
	}
	if sh.StaffID != staff.ID {
		return nil, httperr.ErrBusiness("not_shift_owner")
	}

	now := uc.now()
	action := "shift_accepted"
	typ := notifdomain.TypeShiftAccepted
	if in.Accept {
		err = domain.Accept(sh, now)
	} else {
		action = "shift_declined"
		typ = notifdomain.TypeShiftDeclined
		err = domain.Decline(sh, strings.TrimSpace(in.Reason), now)
	}
	if err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateShift(ctx, sh); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		OrganizationID: in.OrganizationID,
		UserID:         &in.UserID,
		Action:         action,
		Entity:         "shift",
		EntityID:       &sh.ID,
		Metadata:       map[string]any{"reason": sh.DeclineReason},
	})

	admins, err := uc.repo.ListAdminUserIDs(ctx, in.OrganizationID)
	if err != nil {
		logger.LogError("shift", "RespondToShift", "ListAdminUserIDs", sh.ID, err)
	} else {
		msg := fmt.Sprintf("%s %s the shift on %s %s-%s.",
			staff.Name, sh.Confirmation, sh.ShiftDate.Format("2006-01-02"), sh.StartTime, sh.EndTime)
		if sh.DeclineReason != "" {
			msg += " Reason: " + sh.DeclineReason
		}
		uc.notifier.NotifyMany(ctx, admins, notify.Message{
			OrganizationID: in.OrganizationID,
			Type:           typ,
			Title:          "Shift " + sh.Confirmation,
			Message:        msg,
			Link:           fmt.Sprintf("/shifts/%d", sh.ID),
		})
	}

	return sh, nil
}
