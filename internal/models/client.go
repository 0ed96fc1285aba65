package models

import "time"

// Client is a care recipient. UserID is set once they accept an invitation.
type Client struct {
	ID             uint  `gorm:"primaryKey" json:"id"`
	OrganizationID uint  `gorm:"index" json:"organization_id"`
	UserID         *uint `gorm:"index" json:"user_id"`

	Name             string     `gorm:"size:100;not null" json:"name"`
	Phone            string     `gorm:"size:20" json:"phone"`
	Email            string     `gorm:"size:100" json:"email"`
	Address          string     `gorm:"size:255" json:"address"`
	DateOfBirth      *time.Time `gorm:"type:date" json:"date_of_birth"`
	EmergencyContact string     `gorm:"size:255" json:"emergency_contact"`
	Status           string     `gorm:"size:20;default:'active'" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
