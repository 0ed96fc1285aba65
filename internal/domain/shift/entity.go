package shift

import (
	"time"

	"github.com/BruksfildServices01/care-scheduler/internal/models"
)

func Accept(sh *models.StaffShift, now time.Time) error {
	if err := CanRespond(Status(sh.Status), Confirmation(sh.Confirmation)); err != nil {
		return err
	}
	sh.Confirmation = string(ConfirmationAccepted)
	sh.DeclineReason = ""
	sh.RespondedAt = &now
	return nil
}

func Decline(sh *models.StaffShift, reason string, now time.Time) error {
	if err := CanRespond(Status(sh.Status), Confirmation(sh.Confirmation)); err != nil {
		return err
	}
	sh.Confirmation = string(ConfirmationDeclined)
	sh.DeclineReason = reason
	sh.RespondedAt = &now
	return nil
}

// Cancel is the only way a shift leaves the schedule; rows are never deleted.
func Cancel(sh *models.StaffShift) error {
	if err := CanCancel(Status(sh.Status)); err != nil {
		return err
	}
	sh.Status = string(StatusCancelled)
	return nil
}

func Start(sh *models.StaffShift) error {
	if err := CanStart(Status(sh.Status), Confirmation(sh.Confirmation)); err != nil {
		return err
	}
	sh.Status = string(StatusInProgress)
	return nil
}

func Complete(sh *models.StaffShift) error {
	if err := CanComplete(Status(sh.Status)); err != nil {
		return err
	}
	sh.Status = string(StatusCompleted)
	return nil
}

// Reassign puts the shift back to pending when who or when changes.
func Reassign(sh *models.StaffShift) {
	sh.Confirmation = string(ConfirmationPending)
	sh.DeclineReason = ""
	sh.RespondedAt = nil
}

// Billable reports whether a shift may appear on an invoice: not cancelled
// and not already invoiced. The confirmation answer does not matter.
func Billable(sh *models.StaffShift) bool {
	return sh.InvoiceID == nil && sh.Status != string(StatusCancelled)
}
