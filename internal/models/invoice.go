package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Invoice struct {
	ID             uint `gorm:"primaryKey" json:"id"`
	OrganizationID uint `gorm:"index;uniqueIndex:idx_invoice_org_number" json:"organization_id"`

	ClientID uint   `gorm:"index" json:"client_id"`
	Client   Client `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"client"`

	Number      string    `gorm:"size:30;uniqueIndex:idx_invoice_org_number" json:"number"`
	PeriodStart time.Time `gorm:"type:date" json:"period_start"`
	PeriodEnd   time.Time `gorm:"type:date" json:"period_end"`
	IssueDate   time.Time `gorm:"type:date" json:"issue_date"`
	DueDate     time.Time `gorm:"type:date" json:"due_date"`

	Status     string          `gorm:"size:20;default:'draft'" json:"status"`
	HourlyRate decimal.Decimal `gorm:"type:numeric(12,2)" json:"hourly_rate"`
	Subtotal   decimal.Decimal `gorm:"type:numeric(12,2)" json:"subtotal"`
	Total      decimal.Decimal `gorm:"type:numeric(12,2)" json:"total"`
	Notes      string          `gorm:"size:500" json:"notes"`
	PaymentURL string          `gorm:"size:500" json:"payment_url"`

	SentAt *time.Time `json:"sent_at"`
	PaidAt *time.Time `json:"paid_at"`

	LineItems []InvoiceLineItem `gorm:"constraint:OnDelete:CASCADE;" json:"line_items,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type InvoiceLineItem struct {
	ID        uint  `gorm:"primaryKey" json:"id"`
	InvoiceID uint  `gorm:"index" json:"invoice_id"`
	ShiftID   *uint `json:"shift_id"`

	Description string          `gorm:"size:255" json:"description"`
	Hours       decimal.Decimal `gorm:"type:numeric(8,2)" json:"hours"`
	Rate        decimal.Decimal `gorm:"type:numeric(12,2)" json:"rate"`
	Amount      decimal.Decimal `gorm:"type:numeric(12,2)" json:"amount"`

	CreatedAt time.Time `json:"created_at"`
}
