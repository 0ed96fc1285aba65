package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Organization is the nurse agency tenant. Every other row hangs off one.
type Organization struct {
	ID                uint            `gorm:"primaryKey" json:"id"`
	Name              string          `gorm:"size:100;not null" json:"name"`
	Slug              string          `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Phone             string          `gorm:"size:20" json:"phone"`
	Email             string          `gorm:"size:100" json:"email"`
	Address           string          `gorm:"size:255" json:"address"`
	Timezone          string          `gorm:"size:64" json:"timezone"`
	DefaultHourlyRate decimal.Decimal `gorm:"type:numeric(12,2);default:30" json:"default_hourly_rate"`
	MinAdvanceMinutes int             `gorm:"default:120" json:"min_advance_minutes"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}
