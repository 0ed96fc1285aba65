package models

import "time"

type StoredFile struct {
	ID             uint `gorm:"primaryKey" json:"id"`
	OrganizationID uint `gorm:"index" json:"organization_id"`

	Bucket      string `gorm:"size:50;not null" json:"bucket"`
	Key         string `gorm:"size:255;uniqueIndex;not null" json:"key"`
	FileName    string `gorm:"size:255" json:"file_name"`
	ContentType string `gorm:"size:100" json:"content_type"`
	Size        int64  `json:"size"`

	Entity     string `gorm:"size:50" json:"entity"`
	EntityID   *uint  `json:"entity_id"`
	UploadedBy uint   `json:"uploaded_by"`

	CreatedAt time.Time `json:"created_at"`
}
