package invitation

import (
	"context"
	"time"

	"github.com/BruksfildServices01/care-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/care-scheduler/internal/domain/invitation"
	"github.com/BruksfildServices01/care-scheduler/internal/httperr"
	"github.com/BruksfildServices01/care-scheduler/internal/models"
)

// Resend replaces the invitation with a new token and a fresh expiry.
func (uc *SendInvitation) Resend(ctx context.Context, orgID, userID, id uint) (*models.Invitation, error) {
	inv, err := uc.repo.GetInvitation(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if domain.Status(inv.Status) == domain.StatusAccepted {
		return nil, httperr.ErrBusiness("invitation_accepted")
	}

	return uc.Execute(ctx, SendInput{
		OrganizationID: orgID,
		UserID:         userID,
		Kind:           inv.Kind,
		Email:          inv.Email,
		Name:           inv.Name,
		TargetID:       inv.TargetID,
	})
}

type ManageInvitations struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	now   func() time.Time
}

func NewManageInvitations(repo domain.Repository, audit *audit.Dispatcher) *ManageInvitations {
	return &ManageInvitations{repo: repo, audit: audit, now: time.Now}
}

func (uc *ManageInvitations) List(ctx context.Context, orgID uint, kind, status string) ([]models.Invitation, error) {
	if kind != "" {
		k, ok := domain.ParseKind(kind)
		if !ok {
			return nil, httperr.ErrBusiness("invalid_kind")
		}
		kind = string(k)
	}
	return uc.repo.ListInvitations(ctx, orgID, kind, status)
}

func (uc *ManageInvitations) Revoke(ctx context.Context, orgID, userID, id uint) (*models.Invitation, error) {
	inv, err := uc.repo.GetInvitation(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if err := domain.Revoke(inv); err != nil {
		return nil, err
	}
	if err := uc.repo.UpdateInvitation(ctx, inv); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		OrganizationID: orgID,
		UserID:         &userID,
		Action:         "invitation_revoked",
		Entity:         "invitation",
		EntityID:       &inv.ID,
	})
	return inv, nil
}

// ExpireStale flips every pending invitation past its expiry.
func (uc *ManageInvitations) ExpireStale(ctx context.Context) (int64, error) {
	return uc.repo.ExpireBefore(ctx, uc.now())
}
