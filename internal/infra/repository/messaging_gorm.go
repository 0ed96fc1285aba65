package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/care-scheduler/internal/domain/messaging"
	"github.com/BruksfildServices01/care-scheduler/internal/httperr"
	"github.com/BruksfildServices01/care-scheduler/internal/models"
)

type MessagingGormRepository struct {
	db *gorm.DB
}

func NewMessagingGormRepository(db *gorm.DB) *MessagingGormRepository {
	return &MessagingGormRepository{db: db}
}

func (r *MessagingGormRepository) CountUsers(ctx context.Context, orgID uint, ids []uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("organization_id = ? AND id IN ?", orgID, ids).
		Count(&n).Error
	return n, err
}

// --------------------------------------------------
// Conversations
// --------------------------------------------------

func (r *MessagingGormRepository) CreateConversation(ctx context.Context, conv *models.Conversation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		parts := conv.Participants
		conv.Participants = nil
		if err := tx.Create(conv).Error; err != nil {
			return err
		}
		for i := range parts {
			parts[i].ConversationID = conv.ID
		}
		if err := tx.Omit("User").Create(&parts).Error; err != nil {
			return err
		}
		conv.Participants = parts
		return nil
	})
}

func (r *MessagingGormRepository) ListConversations(ctx context.Context, orgID, userID uint) ([]models.Conversation, error) {
	var list []models.Conversation
	err := r.db.WithContext(ctx).
		Preload("Participants.User").
		Where("organization_id = ? AND id IN (?)", orgID,
			r.db.Model(&models.ConversationParticipant{}).Select("conversation_id").Where("user_id = ?", userID),
		).
		Order("COALESCE(last_message_at, created_at) DESC, id DESC").
		Find(&list).Error
	return list, err
}

func (r *MessagingGormRepository) Participant(ctx context.Context, orgID, convID, userID uint) (*models.ConversationParticipant, error) {
	var p models.ConversationParticipant
	err := r.db.WithContext(ctx).
		Joins("JOIN conversations ON conversations.id = conversation_participants.conversation_id").
		Where("conversations.organization_id = ? AND conversation_participants.conversation_id = ? AND conversation_participants.user_id = ?",
			orgID, convID, userID).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.ErrBusiness("not_participant")
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *MessagingGormRepository) ParticipantIDs(ctx context.Context, convID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.ConversationParticipant{}).
		Where("conversation_id = ?", convID).
		Order("user_id").
		Pluck("user_id", &ids).Error
	return ids, err
}

// --------------------------------------------------
// Messages
// --------------------------------------------------

func (r *MessagingGormRepository) ListMessages(ctx context.Context, convID uint, page, limit int) ([]models.Message, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Message{}).Where("conversation_id = ?", convID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []models.Message
	err := q.Order("created_at DESC, id DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&list).Error
	return list, total, err
}

// AddMessage stores the message, bumps the conversation and marks it read
// for the sender.
func (r *MessagingGormRepository) AddMessage(ctx context.Context, msg *models.Message) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Conversation{}).
			Where("id = ?", msg.ConversationID).
			Update("last_message_at", msg.CreatedAt).Error; err != nil {
			return err
		}
		return tx.Model(&models.ConversationParticipant{}).
			Where("conversation_id = ? AND user_id = ?", msg.ConversationID, msg.SenderID).
			Update("last_read_at", msg.CreatedAt).Error
	})
}

func (r *MessagingGormRepository) UnreadCount(ctx context.Context, convID, userID uint, since *time.Time) (int64, error) {
	q := r.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("conversation_id = ? AND sender_id <> ?", convID, userID)
	if since != nil {
		q = q.Where("created_at > ?", *since)
	}

	var n int64
	err := q.Count(&n).Error
	return n, err
}

func (r *MessagingGormRepository) MarkRead(ctx context.Context, convID, userID uint, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.ConversationParticipant{}).
		Where("conversation_id = ? AND user_id = ?", convID, userID).
		Update("last_read_at", at).Error
}

var _ domain.Repository = (*MessagingGormRepository)(nil)
