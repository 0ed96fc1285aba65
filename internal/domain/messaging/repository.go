package messaging

import (
	"context"
	"time"

	"github.com/BruksfildServices01/care-scheduler/internal/models"
)

type Repository interface {
	// CountUsers counts how many of ids belong to the organization.
	CountUsers(ctx context.Context, orgID uint, ids []uint) (int64, error)

	CreateConversation(ctx context.Context, conv *models.Conversation) error
	ListConversations(ctx context.Context, orgID, userID uint) ([]models.Conversation, error)

	// Participant returns not_participant when the user is not in the conversation.
	Participant(ctx context.Context, orgID, convID, userID uint) (*models.ConversationParticipant, error)
	ParticipantIDs(ctx context.Context, convID uint) ([]uint, error)

	ListMessages(ctx context.Context, convID uint, page, limit int) ([]models.Message, int64, error)
	AddMessage(ctx context.Context, msg *models.Message) error
	UnreadCount(ctx context.Context, convID, userID uint, since *time.Time) (int64, error)
	MarkRead(ctx context.Context, convID, userID uint, at time.Time) error
}
