package audit

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/care-scheduler/internal/models"
)

// Logger writes events to the audit_logs table.
type Logger struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Logger {
	return &Logger{db: db}
}

func (l *Logger) Write(ctx context.Context, ev Event) error {
	var metaJSON string
	if ev.Metadata != nil {
		if b, err := json.Marshal(ev.Metadata); err == nil {
			metaJSON = string(b)
		}
	}

	log := models.AuditLog{
		OrganizationID: ev.OrganizationID,
		UserID:         ev.UserID,
		Action:         ev.Action,
		Entity:         ev.Entity,
		EntityID:       ev.EntityID,
		Metadata:       metaJSON,
	}

	return l.db.WithContext(ctx).Create(&log).Error
}

// Publisher is the subset of the event bus the audit trail needs.
type Publisher interface {
	Publish(ctx context.Context, eventType, key string, payload any) error
}

type publisherSink struct {
	pub Publisher
}

// NewPublisherSink forwards audit events to the event bus as "audit.<action>".
func NewPublisherSink(pub Publisher) Sink {
	return publisherSink{pub: pub}
}

func (s publisherSink) Write(ctx context.Context, ev Event) error {
	key := ev.Entity
	if ev.EntityID != nil {
		b, _ := json.Marshal(*ev.EntityID)
		key = ev.Entity + ":" + string(b)
	}
	return s.pub.Publish(ctx, "audit."+ev.Action, key, ev)
}

// Ptr is a small helper for optional ids.
func Ptr(id uint) *uint {
	return &id
}
