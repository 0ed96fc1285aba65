package notification

import (
	"time"

	"github.com/BruksfildServices01/care-scheduler/internal/models"
)

const (
	TypeShiftAssigned      = "shift_assigned"
	TypeShiftAccepted      = "shift_accepted"
	TypeShiftDeclined      = "shift_declined"
	TypeShiftCancelled     = "shift_cancelled"
	TypeInvoiceSent        = "invoice_sent"
	TypeNewMessage         = "new_message"
	TypeInvitationAccepted = "invitation_accepted"
	TypeAppointmentBooked  = "appointment_booked"
)

// MarkRead flips an unread notification. It reports whether anything changed,
// so callers decrement unread counters at most once per notification.
func MarkRead(n *models.Notification, now time.Time) bool {
	if n.Read {
		return false
	}
	n.Read = true
	n.ReadAt = &now
	return true
}

// Decrement lowers an unread counter when a read actually happened, never below zero.
func Decrement(unread int64, changed bool) int64 {
	if !changed || unread <= 0 {
		if unread < 0 {
			return 0
		}
		return unread
	}
	return unread - 1
}
