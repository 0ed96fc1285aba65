package invoice

import "github.com/BruksfildServices01/care-scheduler/internal/httperr"

type Status string

const (
	StatusDraft     Status = "draft"
	StatusSent      Status = "sent"
	StatusPaid      Status = "paid"
	StatusOverdue   Status = "overdue"
	StatusCancelled Status = "cancelled"
)

func ParseStatus(s string) (Status, bool) {
	switch st := Status(s); st {
	case StatusDraft, StatusSent, StatusPaid, StatusOverdue, StatusCancelled:
		return st, true
	}
	return "", false
}

// CanSend allows resending a sent or overdue invoice.
func CanSend(current Status) error {
	switch current {
	case StatusDraft, StatusSent, StatusOverdue:
		return nil
	}
	return httperr.ErrBusiness("invalid_state")
}

func CanMarkPaid(current Status) error {
	switch current {
	case StatusDraft, StatusSent, StatusOverdue:
		return nil
	}
	return httperr.ErrBusiness("invalid_state")
}

func CanCancel(current Status) error {
	switch current {
	case StatusDraft, StatusSent, StatusOverdue:
		return nil
	}
	return httperr.ErrBusiness("invalid_state")
}
