package reminder

import (
	"time"

	"github.com/BruksfildServices01/care-scheduler/internal/httperr"
	"github.com/BruksfildServices01/care-scheduler/internal/models"
)

const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
)

var priorities = map[string]bool{"low": true, "normal": true, "high": true}

func ValidPriority(p string) bool {
	return priorities[p]
}

// Complete marks the reminder done and stamps completed_at.
func Complete(r *models.ClientReminder, now time.Time) error {
	if r.Status == StatusCompleted {
		return httperr.ErrBusiness("invalid_state")
	}
	r.Status = StatusCompleted
	r.CompletedAt = &now
	return nil
}

// Reopen undoes Complete.
func Reopen(r *models.ClientReminder) {
	r.Status = StatusPending
	r.CompletedAt = nil
}

// Overdue reports a pending reminder whose due time has passed.
func Overdue(r *models.ClientReminder, now time.Time) bool {
	return r.Status == StatusPending && r.DueAt.Before(now)
}
