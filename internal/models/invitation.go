package models

import "time"

type Invitation struct {
	ID             uint `gorm:"primaryKey" json:"id"`
	OrganizationID uint `gorm:"index" json:"organization_id"`

	Kind      string `gorm:"size:10;not null" json:"kind"`
	Email     string `gorm:"size:100;index;not null" json:"email"`
	Name      string `gorm:"size:100" json:"name"`
	TokenHash string `gorm:"size:64;uniqueIndex;not null" json:"-"`
	Status    string `gorm:"size:20;default:'pending'" json:"status"`

	// TargetID points at the staff_members/clients row the invite binds to.
	TargetID  *uint `json:"target_id"`
	InvitedBy uint  `json:"invited_by"`

	ExpiresAt  time.Time  `json:"expires_at"`
	AcceptedAt *time.Time `json:"accepted_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
