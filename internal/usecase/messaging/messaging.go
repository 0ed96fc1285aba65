package messaging

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	domain "github.com/BruksfildServices01/care-scheduler/internal/domain/messaging"
	notifdomain "github.com/BruksfildServices01/care-scheduler/internal/domain/notification"
	"github.com/BruksfildServices01/care-scheduler/internal/dto"
	"github.com/BruksfildServices01/care-scheduler/internal/httperr"
	"github.com/BruksfildServices01/care-scheduler/internal/logger"
	"github.com/BruksfildServices01/care-scheduler/internal/models"
	"github.com/BruksfildServices01/care-scheduler/internal/notify"
)

const previewLength = 80

type Service struct {
	repo     domain.Repository
	notifier notify.Notifier
	now      func() time.Time
}

func NewService(repo domain.Repository, notifier notify.Notifier) *Service {
	return &Service{
		repo:     repo,
		notifier: notifier,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// ======================================================
// Conversations
// ======================================================

type StartInput struct {
	OrganizationID uint
	UserID         uint
	Subject        string
	Participants   []uint
	Body           string
}

// Start opens a conversation between users of the same organization and
// optionally posts the first message.
func (s *Service) Start(ctx context.Context, in StartInput) (*models.Conversation, error) {
	ids, err := domain.Participants(in.UserID, in.Participants)
	if err != nil {
		return nil, err
	}

	n, err := s.repo.CountUsers(ctx, in.OrganizationID, ids)
	if err != nil {
		return nil, err
	}
	if n != int64(len(ids)) {
		return nil, httperr.ErrBusiness("user_not_found")
	}

	conv := &models.Conversation{
		OrganizationID: in.OrganizationID,
		Subject:        strings.TrimSpace(in.Subject),
		CreatedBy:      in.UserID,
	}
	for _, id := range ids {
		conv.Participants = append(conv.Participants, models.ConversationParticipant{UserID: id})
	}

	if err := s.repo.CreateConversation(ctx, conv); err != nil {
		return nil, err
	}

	if strings.TrimSpace(in.Body) != "" {
		msg, err := s.Send(ctx, in.OrganizationID, in.UserID, conv.ID, in.Body)
		if err != nil {
			return nil, err
		}
		conv.LastMessageAt = &msg.CreatedAt
	}

	return conv, nil
}

// List returns the user's conversations, newest activity first, with the
// number of messages they have not read.
func (s *Service) List(ctx context.Context, orgID, userID uint) ([]dto.ConversationDTO, error) {
	list, err := s.repo.ListConversations(ctx, orgID, userID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.ConversationDTO, 0, len(list))
	for _, conv := range list {
		item := dto.ConversationDTO{
			ID:            conv.ID,
			Subject:       conv.Subject,
			LastMessageAt: conv.LastMessageAt,
		}

		var lastRead *time.Time
		for _, p := range conv.Participants {
			item.Participants = append(item.Participants, dto.UserDTO{ID: p.UserID, Name: p.User.Name, Role: p.User.Role})
			if p.UserID == userID {
				lastRead = p.LastReadAt
			}
		}

		item.Unread, err = s.repo.UnreadCount(ctx, conv.ID, userID, lastRead)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

// ======================================================
// Messages
// ======================================================

func (s *Service) Messages(ctx context.Context, orgID, userID, convID uint, page, limit int) ([]models.Message, int64, error) {
	if _, err := s.repo.Participant(ctx, orgID, convID, userID); err != nil {
		return nil, 0, err
	}
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.repo.ListMessages(ctx, convID, page, limit)
}

func (s *Service) Send(ctx context.Context, orgID, userID, convID uint, raw string) (*models.Message, error) {
	body, err := domain.Body(raw)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.Participant(ctx, orgID, convID, userID); err != nil {
		return nil, err
	}

	msg := &models.Message{
		ConversationID: convID,
		SenderID:       userID,
		Body:           body,
		CreatedAt:      s.now(),
	}
	if err := s.repo.AddMessage(ctx, msg); err != nil {
		return nil, err
	}

	s.fanOut(ctx, orgID, msg)
	return msg, nil
}

func (s *Service) MarkRead(ctx context.Context, orgID, userID, convID uint) error {
	if _, err := s.repo.Participant(ctx, orgID, convID, userID); err != nil {
		return err
	}
	return s.repo.MarkRead(ctx, convID, userID, s.now())
}

func (s *Service) fanOut(ctx context.Context, orgID uint, msg *models.Message) {
	ids, err := s.repo.ParticipantIDs(ctx, msg.ConversationID)
	if err != nil {
		logger.LogError("messaging", "Send", "ParticipantIDs", msg.ConversationID, err)
		return
	}

	s.notifier.NotifyMany(ctx, domain.Recipients(ids, msg.SenderID), notify.Message{
		OrganizationID: orgID,
		Type:           notifdomain.TypeNewMessage,
		Title:          "New message",
		Message:        preview(msg.Body),
		Link:           fmt.Sprintf("/messages/%d", msg.ConversationID),
	})
}

func preview(body string) string {
	if utf8.RuneCountInString(body) <= previewLength {
		return body
	}
	r := []rune(body)
	return string(r[:previewLength]) + "…"
}
