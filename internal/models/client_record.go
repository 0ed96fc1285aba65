package models

import "time"

type ClientNote struct {
	ID             uint `gorm:"primaryKey" json:"id"`
	OrganizationID uint `gorm:"index" json:"organization_id"`
	ClientID       uint `gorm:"index" json:"client_id"`
	AuthorID       uint `json:"author_id"`

	Title    string `gorm:"size:150" json:"title"`
	Content  string `gorm:"type:text" json:"content"`
	Category string `gorm:"size:50" json:"category"`
	Pinned   bool   `json:"pinned"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ClientReminder struct {
	ID             uint `gorm:"primaryKey" json:"id"`
	OrganizationID uint `gorm:"index" json:"organization_id"`
	ClientID       uint `gorm:"index" json:"client_id"`
	CreatedBy      uint `json:"created_by"`

	Title       string     `gorm:"size:150;not null" json:"title"`
	Description string     `gorm:"size:500" json:"description"`
	DueAt       time.Time  `json:"due_at"`
	Priority    string     `gorm:"size:10;default:'normal'" json:"priority"`
	Status      string     `gorm:"size:20;default:'pending'" json:"status"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CarePlan struct {
	ID             uint `gorm:"primaryKey" json:"id"`
	OrganizationID uint `gorm:"index" json:"organization_id"`
	ClientID       uint `gorm:"index" json:"client_id"`

	Title         string     `gorm:"size:150;not null" json:"title"`
	Goals         string     `gorm:"type:text" json:"goals"`
	Interventions string     `gorm:"type:text" json:"interventions"`
	StartDate     time.Time  `gorm:"type:date" json:"start_date"`
	ReviewDate    *time.Time `gorm:"type:date" json:"review_date"`
	Status        string     `gorm:"size:20;default:'active'" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CareLog struct {
	ID             uint  `gorm:"primaryKey" json:"id"`
	OrganizationID uint  `gorm:"index" json:"organization_id"`
	ClientID       uint  `gorm:"index" json:"client_id"`
	StaffID        *uint `json:"staff_id"`
	ShiftID        *uint `json:"shift_id"`

	LoggedAt      time.Time `json:"logged_at"`
	Mood          string    `gorm:"size:30" json:"mood"`
	Activities    string    `gorm:"type:text" json:"activities"`
	Notes         string    `gorm:"type:text" json:"notes"`
	AttachmentKey string    `gorm:"size:255" json:"attachment_key"`

	CreatedAt time.Time `json:"created_at"`
}
