package shift

import (
	"context"
	"strings"

	"github.com/BruksfildServices01/care-scheduler/internal/audit"
	notifdomain "github.com/BruksfildServices01/care-scheduler/internal/domain/notification"
	domain "github.com/BruksfildServices01/care-scheduler/internal/domain/shift"
	"github.com/BruksfildServices01/care-scheduler/internal/httperr"
	"github.com/BruksfildServices01/care-scheduler/internal/models"
	"github.com/BruksfildServices01/care-scheduler/internal/notify"
	"github.com/BruksfildServices01/care-scheduler/internal/timezone"
)

// UpdateShiftInput carries optional fields; nil leaves the value unchanged.
type UpdateShiftInput struct {
	OrganizationID uint
	UserID         uint
	ShiftID        uint

	StaffID      *uint
	ClientID     *uint
	Date         *string
	StartTime    *string
	EndTime      *string
	BreakMinutes *int
	Notes        *string
}

type UpdateShift struct {
	repo     domain.Repository
	audit    *audit.Dispatcher
	notifier notify.Notifier
}

func NewUpdateShift(repo domain.Repository, audit *audit.Dispatcher, notifier notify.Notifier) *UpdateShift {
	return &UpdateShift{repo: repo, audit: audit, notifier: notifier}
}

// Execute applies the edit. Changing who works or when puts the shift back
// to pending confirmation and notifies the (new) staff member.
func (uc *UpdateShift) Execute(ctx context.Context, in UpdateShiftInput) (*models.StaffShift, error) {
	sh, err := uc.repo.GetShift(ctx, in.OrganizationID, in.ShiftID)
	if err != nil {
		return nil, err
	}
	if err := domain.CanEdit(domain.Status(sh.Status)); err != nil {
		return nil, err
	}
	if sh.InvoiceID != nil {
		return nil, httperr.ErrBusiness("shift_invoiced")
	}

	reassigned := false

	if in.StaffID != nil && *in.StaffID != sh.StaffID {
		staff, err := uc.repo.GetStaff(ctx, in.OrganizationID, *in.StaffID)
		if err != nil {
			return nil, err
		}
		if err := requireActive(staff); err != nil {
			return nil, err
		}
		sh.StaffID = staff.ID
		sh.Staff = *staff
		reassigned = true
	}

	if in.ClientID != nil && *in.ClientID != sh.ClientID {
		client, err := uc.repo.GetClient(ctx, in.OrganizationID, *in.ClientID)
		if err != nil {
			return nil, err
		}
		sh.ClientID = client.ID
		sh.Client = *client
	}

	if in.Date != nil {
		org, err := uc.repo.GetOrganization(ctx, in.OrganizationID)
		if err != nil {
			return nil, err
		}
		d, err := timezone.ParseDate(org.Timezone, *in.Date)
		if err != nil {
			return nil, httperr.ErrBusiness("invalid_date")
		}
		if d = timezone.DateOnly(d); !d.Equal(sh.ShiftDate) {
			sh.ShiftDate = d
			reassigned = true
		}
	}

	if in.StartTime != nil && strings.TrimSpace(*in.StartTime) != sh.StartTime {
		sh.StartTime = strings.TrimSpace(*in.StartTime)
		reassigned = true
	}
	if in.EndTime != nil && strings.TrimSpace(*in.EndTime) != sh.EndTime {
		sh.EndTime = strings.TrimSpace(*in.EndTime)
		reassigned = true
	}
	if in.BreakMinutes != nil {
		sh.BreakMinutes = *in.BreakMinutes
	}
	if in.Notes != nil {
		sh.Notes = *in.Notes
	}

	if err := validateTimes(sh.StartTime, sh.EndTime, sh.BreakMinutes); err != nil {
		return nil, err
	}

	if reassigned {
		domain.Reassign(sh)
	}

	if err := uc.repo.UpdateShift(ctx, sh); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		OrganizationID: in.OrganizationID,
		UserID:         &in.UserID,
		Action:         "shift_updated",
		Entity:         "shift",
		EntityID:       &sh.ID,
		Metadata:       map[string]any{"reconfirm": reassigned},
	})

	if reassigned && sh.Staff.UserID != nil {
		notifyStaff(ctx, uc.notifier, sh, *sh.Staff.UserID, notifdomain.TypeShiftAssigned, "Shift updated")
	}

	return sh, nil
}
