package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type StaffMember struct {
	ID             uint  `gorm:"primaryKey" json:"id"`
	OrganizationID uint  `gorm:"index" json:"organization_id"`
	UserID         *uint `gorm:"index" json:"user_id"`

	Name       string           `gorm:"size:100;not null" json:"name"`
	Email      string           `gorm:"size:100" json:"email"`
	Phone      string           `gorm:"size:20" json:"phone"`
	Position   string           `gorm:"size:50" json:"position"`
	HourlyRate *decimal.Decimal `gorm:"type:numeric(12,2)" json:"hourly_rate"`
	Status     string           `gorm:"size:20;default:'active'" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
