package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/care-scheduler/internal/domain/notification"
	"github.com/BruksfildServices01/care-scheduler/internal/infra/mailer"
	"github.com/BruksfildServices01/care-scheduler/internal/logger"
	"github.com/BruksfildServices01/care-scheduler/internal/models"
)

// emailed lists the notification types that also go out by mail.
var emailed = map[string]bool{
	domain.TypeShiftAssigned:      true,
	domain.TypeShiftCancelled:     true,
	domain.TypeInvoiceSent:        true,
	domain.TypeInvitationAccepted: true,
}

type Message struct {
	OrganizationID uint
	Type           string
	Title          string
	Message        string
	Link           string
}

// Notifier is what usecases depend on.
type Notifier interface {
	Notify(ctx context.Context, userID uint, msg Message) error
	NotifyMany(ctx context.Context, userIDs []uint, msg Message)
}

type Service struct {
	db   *gorm.DB
	hub  Hub
	mail *mailer.Async
	now  func() time.Time
}

func NewService(db *gorm.DB, hub Hub, mail *mailer.Async) *Service {
	return &Service{db: db, hub: hub, mail: mail, now: time.Now}
}

type event struct {
	Type string `json:"type"`
	ID   uint   `json:"id,omitempty"`
}

func (s *Service) Notify(ctx context.Context, userID uint, msg Message) error {
	n := models.Notification{
		OrganizationID: msg.OrganizationID,
		UserID:         userID,
		Type:           msg.Type,
		Title:          msg.Title,
		Message:        msg.Message,
		Link:           msg.Link,
	}
	if err := s.db.WithContext(ctx).Create(&n).Error; err != nil {
		return fmt.Errorf("create notification: %w", err)
	}

	s.push(ctx, userID, event{Type: "notification", ID: n.ID})

	if emailed[msg.Type] && s.mail != nil {
		var u models.User
		if err := s.db.WithContext(ctx).Select("email").First(&u, userID).Error; err == nil {
			s.mail.Send(u.Email, msg.Title, msg.Message)
		}
	}
	return nil
}

// NotifyMany never fails the caller; individual errors are logged.
func (s *Service) NotifyMany(ctx context.Context, userIDs []uint, msg Message) {
	for _, id := range userIDs {
		if err := s.Notify(ctx, id, msg); err != nil {
			logger.LogError("notify", "NotifyMany", msg.Type, id, err)
		}
	}
}

func (s *Service) push(ctx context.Context, userID uint, ev event) {
	if s.hub == nil {
		return
	}
	b, _ := json.Marshal(ev)
	if err := s.hub.Publish(ctx, userID, b); err != nil {
		logger.LogError("notify", "push", ev.Type, userID, err)
	}
}

// ------------------------------------------------------------
// Inbox
// ------------------------------------------------------------

func (s *Service) List(ctx context.Context, userID uint, unreadOnly bool, page, limit int) ([]models.Notification, int64, error) {
	q := s.db.WithContext(ctx).Model(&models.Notification{}).Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("read = ?", false)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []models.Notification
	err := q.Order("created_at DESC, id DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&list).Error
	return list, total, err
}

func (s *Service) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&n).Error
	return n, err
}

// MarkRead flips one notification and returns the new unread count. The
// update is conditional on read = false so a repeat call changes nothing.
func (s *Service) MarkRead(ctx context.Context, userID, id uint) (int64, error) {
	var n models.Notification
	if err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&n).Error; err != nil {
		return 0, err
	}

	before, err := s.UnreadCount(ctx, userID)
	if err != nil {
		return 0, err
	}

	now := s.now()
	changed := false
	if domain.MarkRead(&n, now) {
		res := s.db.WithContext(ctx).
			Model(&models.Notification{}).
			Where("id = ? AND read = ?", id, false).
			Updates(map[string]any{"read": true, "read_at": now})
		if res.Error != nil {
			return 0, res.Error
		}
		changed = res.RowsAffected == 1
	}

	if changed {
		s.push(ctx, userID, event{Type: "read", ID: id})
	}
	return domain.Decrement(before, changed), nil
}

func (s *Service) MarkAllRead(ctx context.Context, userID uint) (int64, error) {
	res := s.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Updates(map[string]any{"read": true, "read_at": s.now()})
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected > 0 {
		s.push(ctx, userID, event{Type: "read_all"})
	}
	return res.RowsAffected, nil
}

func (s *Service) Delete(ctx context.Context, userID, id uint) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Notification{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *Service) Subscribe(ctx context.Context, userID uint) <-chan []byte {
	return s.hub.Subscribe(ctx, userID)
}

var _ Notifier = (*Service)(nil)
