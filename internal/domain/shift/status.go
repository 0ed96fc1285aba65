package shift

import "github.com/BruksfildServices01/care-scheduler/internal/httperr"

type Status string

const (
	StatusScheduled  Status = "scheduled"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

type Confirmation string

const (
	ConfirmationPending  Confirmation = "pending"
	ConfirmationAccepted Confirmation = "accepted"
	ConfirmationDeclined Confirmation = "declined"
)

func ParseStatus(s string) (Status, bool) {
	switch st := Status(s); st {
	case StatusScheduled, StatusInProgress, StatusCompleted, StatusCancelled:
		return st, true
	}
	return "", false
}

func ParseConfirmation(s string) (Confirmation, bool) {
	switch c := Confirmation(s); c {
	case ConfirmationPending, ConfirmationAccepted, ConfirmationDeclined:
		return c, true
	}
	return "", false
}

// CanRespond reports whether staff may still accept or decline.
func CanRespond(status Status, confirmation Confirmation) error {
	if status == StatusCancelled || status == StatusCompleted {
		return httperr.ErrBusiness("invalid_state")
	}
	if confirmation != ConfirmationPending {
		return httperr.ErrBusiness("already_responded")
	}
	return nil
}

func CanCancel(current Status) error {
	if current != StatusScheduled && current != StatusInProgress {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

func CanStart(current Status, confirmation Confirmation) error {
	if current != StatusScheduled || confirmation == ConfirmationDeclined {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

func CanComplete(current Status) error {
	if current != StatusScheduled && current != StatusInProgress {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

func CanEdit(current Status) error {
	if current != StatusScheduled {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}
