package models

import "time"

type Conversation struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	OrganizationID uint   `gorm:"index" json:"organization_id"`
	Subject        string `gorm:"size:150" json:"subject"`
	CreatedBy      uint   `json:"created_by"`

	Participants []ConversationParticipant `json:"participants,omitempty"`

	LastMessageAt *time.Time `json:"last_message_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type ConversationParticipant struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	ConversationID uint       `gorm:"uniqueIndex:idx_conv_user" json:"conversation_id"`
	UserID         uint       `gorm:"uniqueIndex:idx_conv_user" json:"user_id"`
	User           User       `gorm:"constraint:OnDelete:CASCADE;" json:"user"`
	LastReadAt     *time.Time `json:"last_read_at"`
	CreatedAt      time.Time  `json:"created_at"`
}

type Message struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	ConversationID uint   `gorm:"index" json:"conversation_id"`
	SenderID       uint   `json:"sender_id"`
	Body           string `gorm:"type:text;not null" json:"body"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
