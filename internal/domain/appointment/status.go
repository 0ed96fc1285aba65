package appointment

import "github.com/BruksfildServices01/care-scheduler/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "unpaid"
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// ===============================
// Validations
// ===============================

func open(current Status) bool {
	return current == StatusScheduled || current == StatusConfirmed
}

func CanConfirm(current Status) error {
	if current != StatusScheduled {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

func CanCancel(current Status) error {
	if !open(current) {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

func CanComplete(current Status) error {
	if !open(current) {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

func CanPay(current Status, payment PaymentStatus) error {
	if !open(current) {
		return httperr.ErrBusiness("invalid_state")
	}
	if payment == PaymentPaid || payment == PaymentRefunded {
		return httperr.ErrBusiness("already_paid")
	}
	return nil
}

func InitialStatus() Status {
	return StatusScheduled
}
