package shift

import (
	"context"
	"fmt"
	"strings"

	"github.com/BruksfildServices01/care-scheduler/internal/audit"
	notifdomain "github.com/BruksfildServices01/care-scheduler/internal/domain/notification"
	domain "github.com/BruksfildServices01/care-scheduler/internal/domain/shift"
	"github.com/BruksfildServices01/care-scheduler/internal/httperr"
	"github.com/BruksfildServices01/care-scheduler/internal/models"
	"github.com/BruksfildServices01/care-scheduler/internal/notify"
	"github.com/BruksfildServices01/care-scheduler/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type CreateShiftInput struct {
	OrganizationID uint
	UserID         uint

	StaffID  uint
	ClientID uint

	Date         string
	StartTime    string
	EndTime      string
	BreakMinutes int
	Notes        string
}

// ======================================================
// USE CASE
// ======================================================

type CreateShift struct {
	repo     domain.Repository
	audit    *audit.Dispatcher
	notifier notify.Notifier
}

func NewCreateShift(
	repo domain.Repository,
	audit *audit.Dispatcher,
	notifier notify.Notifier,
) *CreateShift {
	return &CreateShift{
		repo:     repo,
		audit:    audit,
		notifier: notifier,
	}
}

func (uc *CreateShift) Execute(
	ctx context.Context,
	in CreateShiftInput,
) (*models.StaffShift, error) {

	org, err := uc.repo.GetOrganization(ctx, in.OrganizationID)
	if err != nil {
		return nil, err
	}

	date, err := timezone.ParseDate(org.Timezone, in.Date)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date")
	}

	if err := validateTimes(in.StartTime, in.EndTime, in.BreakMinutes); err != nil {
		return nil, err
	}

	staff, err := uc.repo.GetStaff(ctx, in.OrganizationID, in.StaffID)
	if err != nil {
		return nil, err
	}
	if err := requireActive(staff); err != nil {
		return nil, err
	}

	client, err := uc.repo.GetClient(ctx, in.OrganizationID, in.ClientID)
	if err != nil {
		return nil, err
	}

	sh := &models.StaffShift{
		OrganizationID: in.OrganizationID,
		StaffID:        staff.ID,
		ClientID:       client.ID,
		ShiftDate:      timezone.DateOnly(date),
		StartTime:      strings.TrimSpace(in.StartTime),
		EndTime:        strings.TrimSpace(in.EndTime),
		BreakMinutes:   in.BreakMinutes,
		Status:         string(domain.StatusScheduled),
		Confirmation:   string(domain.ConfirmationPending),
		Notes:          in.Notes,
	}

	if err := uc.repo.CreateShift(ctx, sh); err != nil {
		return nil, err
	}
	sh.Staff = *staff
	sh.Client = *client

	uc.audit.Dispatch(audit.Event{
		OrganizationID: in.OrganizationID,
		UserID:         &in.UserID,
		Action:         "shift_created",
		Entity:         "shift",
		EntityID:       &sh.ID,
	})

	if staff.UserID != nil {
		notifyStaff(ctx, uc.notifier, sh, *staff.UserID, notifdomain.TypeShiftAssigned, "New shift assigned")
	}

	return sh, nil
}

func requireActive(staff *models.StaffMember) error {
	if staff.Status != "" && staff.Status != "active" {
		return httperr.ErrBusiness("staff_inactive")
	}
	return nil
}

// validateTimes enforces HH:MM clocks, a non-negative break and a
// non-empty span.
func validateTimes(start, end string, breakMinutes int) error {
	if breakMinutes < 0 {
		return httperr.ErrBusiness("invalid_break")
	}
	span, err := domain.Span(start, end)
	if err != nil {
		return err
	}
	if span == 0 {
		return httperr.ErrBusiness("invalid_duration")
	}
	return nil
}

func notifyStaff(ctx context.Context, n notify.Notifier, sh *models.StaffShift, userID uint, typ, title string) {
	_ = n.Notify(ctx, userID, notify.Message{
		OrganizationID: sh.OrganizationID,
		Type:           typ,
		Title:          title,
		Message: fmt.Sprintf("%s %s-%s with %s.",
			sh.ShiftDate.Format("2006-01-02"), sh.StartTime, sh.EndTime, sh.Client.Name),
		Link: fmt.Sprintf("/shifts/%d", sh.ID),
	})
}
