package models

import "time"

type Notification struct {
	ID             uint `gorm:"primaryKey" json:"id"`
	OrganizationID uint `gorm:"index" json:"organization_id"`
	UserID         uint `gorm:"index" json:"user_id"`

	Type    string `gorm:"size:50" json:"type"`
	Title   string `gorm:"size:150" json:"title"`
	Message string `gorm:"size:500" json:"message"`
	Link    string `gorm:"size:255" json:"link"`

	Read   bool       `gorm:"default:false;index" json:"read"`
	ReadAt *time.Time `json:"read_at"`

	CreatedAt time.Time `json:"created_at"`
}
