package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	OrganizationID uint         `gorm:"index" json:"organization_id"`
	Organization   Organization `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	ClientID *uint  `gorm:"index" json:"client_id"`
	Client   Client `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"client"`

	SeekerName  string `gorm:"size:100" json:"seeker_name"`
	SeekerEmail string `gorm:"size:100" json:"seeker_email"`
	SeekerPhone string `gorm:"size:20" json:"seeker_phone"`

	Service   string    `gorm:"size:100" json:"service"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`

	Status string `gorm:"size:20;default:'scheduled'" json:"status"`

	Price            decimal.Decimal `gorm:"type:numeric(12,2)" json:"price"`
	PaymentStatus    string          `gorm:"size:20;default:'unpaid'" json:"payment_status"`
	PaymentReference string          `gorm:"size:100" json:"payment_reference"`
	PaymentURL       string          `gorm:"size:500" json:"payment_url"`

	Notes       string     `gorm:"size:255" json:"notes"`
	CancelledAt *time.Time `json:"cancelled_at"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
