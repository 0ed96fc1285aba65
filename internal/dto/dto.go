package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type AppointmentListDTO struct {
	ID            uint            `json:"id"`
	StartTime     time.Time       `json:"start_time"`
	EndTime       time.Time       `json:"end_time"`
	Status        string          `json:"status"`
	PaymentStatus string          `json:"payment_status"`
	Price         decimal.Decimal `json:"price"`
	Service       string          `json:"service"`
	ClientName    string          `json:"client_name"`
	SeekerName    string          `json:"seeker_name"`
}

type ShiftDTO struct {
	ID            uint            `json:"id"`
	ShiftDate     string          `json:"shift_date"`
	StartTime     string          `json:"start_time"`
	EndTime       string          `json:"end_time"`
	BreakMinutes  int             `json:"break_minutes"`
	Hours         decimal.Decimal `json:"hours"`
	Overnight     bool            `json:"overnight"`
	Status        string          `json:"status"`
	Confirmation  string          `json:"confirmation"`
	DeclineReason string          `json:"decline_reason,omitempty"`
	StaffID       uint            `json:"staff_id"`
	StaffName     string          `json:"staff_name"`
	ClientID      uint            `json:"client_id"`
	ClientName    string          `json:"client_name"`
	Notes         string          `json:"notes,omitempty"`
	Invoiced      bool            `json:"invoiced"`
}

type InvoiceSummaryDTO struct {
	ID         uint            `json:"id"`
	Number     string          `json:"number"`
	ClientID   uint            `json:"client_id"`
	ClientName string          `json:"client_name"`
	IssueDate  string          `json:"issue_date"`
	DueDate    string          `json:"due_date"`
	Status     string          `json:"status"`
	Total      decimal.Decimal `json:"total"`
}

type ConversationDTO struct {
	ID            uint       `json:"id"`
	Subject       string     `json:"subject"`
	Participants  []UserDTO  `json:"participants"`
	LastMessageAt *time.Time `json:"last_message_at"`
	Unread        int64      `json:"unread"`
}

type UserDTO struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

type AuthResponse struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}

type InvitationPreviewDTO struct {
	Kind             string    `json:"kind"`
	Email            string    `json:"email"`
	Name             string    `json:"name"`
	OrganizationName string    `json:"organization_name"`
	ExpiresAt        time.Time `json:"expires_at"`
}

type StaffHoursDTO struct {
	StaffID   uint            `json:"staff_id"`
	StaffName string          `json:"staff_name"`
	Shifts    int             `json:"shifts"`
	Hours     decimal.Decimal `json:"hours"`
}
