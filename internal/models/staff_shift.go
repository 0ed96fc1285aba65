package models

import "time"

type StaffShift struct {
	ID             uint `gorm:"primaryKey" json:"id"`
	OrganizationID uint `gorm:"index" json:"organization_id"`

	StaffID uint        `gorm:"index" json:"staff_id"`
	Staff   StaffMember `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"staff"`

	ClientID uint   `gorm:"index" json:"client_id"`
	Client   Client `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"client"`

	ShiftDate    time.Time `gorm:"type:date;index" json:"shift_date"`
	StartTime    string    `gorm:"size:5" json:"start_time"`
	EndTime      string    `gorm:"size:5" json:"end_time"`
	BreakMinutes int       `json:"break_minutes"`

	Status        string     `gorm:"size:20;default:'scheduled'" json:"status"`
	Confirmation  string     `gorm:"size:20;default:'pending'" json:"confirmation"`
	DeclineReason string     `gorm:"size:255" json:"decline_reason"`
	RespondedAt   *time.Time `json:"responded_at"`

	Notes     string `gorm:"size:500" json:"notes"`
	InvoiceID *uint  `gorm:"index" json:"invoice_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
