package invitation

import (
	"context"
	"time"

	"github.com/BruksfildServices01/care-scheduler/internal/models"
)

// AcceptInput is everything written when an invitation is redeemed.
type AcceptInput struct {
	Invitation *models.Invitation
	User       *models.User
}

type Repository interface {
	GetOrganization(ctx context.Context, id uint) (*models.Organization, error)
	ListAdminUserIDs(ctx context.Context, orgID uint) ([]uint, error)
	EmailInUse(ctx context.Context, email string) (bool, error)

	CreateInvitation(ctx context.Context, inv *models.Invitation) error
	GetByTokenHash(ctx context.Context, hash string) (*models.Invitation, error)
	GetInvitation(ctx context.Context, orgID, id uint) (*models.Invitation, error)
	UpdateInvitation(ctx context.Context, inv *models.Invitation) error
	RevokePending(ctx context.Context, orgID uint, email string, kind string) error
	ListInvitations(ctx context.Context, orgID uint, kind, status string) ([]models.Invitation, error)
	ExpireBefore(ctx context.Context, now time.Time) (int64, error)

	// Accept creates the user, links or creates the staff/client record and
	// marks the invitation accepted, atomically.
	Accept(ctx context.Context, in AcceptInput) error
}
