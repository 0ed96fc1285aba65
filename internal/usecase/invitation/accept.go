package invitation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/BruksfildServices01/care-scheduler/internal/audit"
	"github.com/BruksfildServices01/care-scheduler/internal/auth"
	domain "github.com/BruksfildServices01/care-scheduler/internal/domain/invitation"
	notifdomain "github.com/BruksfildServices01/care-scheduler/internal/domain/notification"
	"github.com/BruksfildServices01/care-scheduler/internal/dto"
	"github.com/BruksfildServices01/care-scheduler/internal/httperr"
	"github.com/BruksfildServices01/care-scheduler/internal/logger"
	"github.com/BruksfildServices01/care-scheduler/internal/models"
	"github.com/BruksfildServices01/care-scheduler/internal/notify"
)

// ------------------------------------------------------------
// Validate
// ------------------------------------------------------------

type ValidateInvitation struct {
	repo domain.Repository
	now  func() time.Time
}

func NewValidateInvitation(repo domain.Repository) *ValidateInvitation {
	return &ValidateInvitation{repo: repo, now: time.Now}
}

func (uc *ValidateInvitation) Execute(ctx context.Context, token string) (*dto.InvitationPreviewDTO, error) {
	inv, org, err := load(ctx, uc.repo, token, uc.now())
	if err != nil {
		return nil, err
	}

	return &dto.InvitationPreviewDTO{
		Kind:             inv.Kind,
		Email:            inv.Email,
		Name:             inv.Name,
		OrganizationName: org.Name,
		ExpiresAt:        inv.ExpiresAt,
	}, nil
}

// load resolves a raw token to a redeemable invitation. A pending invitation
// found past its expiry is persisted as expired before the error is returned.
func load(ctx context.Context, repo domain.Repository, token string, now time.Time) (*models.Invitation, *models.Organization, error) {
	if strings.TrimSpace(token) == "" {
		return nil, nil, httperr.ErrBusiness("invitation_not_found")
	}

	inv, err := repo.GetByTokenHash(ctx, domain.Fingerprint(token))
	if err != nil {
		return nil, nil, err
	}

	if domain.ExpireIfStale(inv, now) {
		if err := repo.UpdateInvitation(ctx, inv); err != nil {
			return nil, nil, err
		}
	}
	if err := domain.Check(inv, now); err != nil {
		return nil, nil, err
	}

	org, err := repo.GetOrganization(ctx, inv.OrganizationID)
	if err != nil {
		return nil, nil, err
	}
	return inv, org, nil
}

// ------------------------------------------------------------
// Accept
// ------------------------------------------------------------

type AcceptInput struct {
	Token    string
	Name     string
	Password string
	Phone    string
}

type AcceptInvitation struct {
	repo     domain.Repository
	issuer   *auth.Issuer
	notifier notify.Notifier
	audit    *audit.Dispatcher
	now      func() time.Time
}

func NewAcceptInvitation(
	repo domain.Repository,
	issuer *auth.Issuer,
	notifier notify.Notifier,
	audit *audit.Dispatcher,
) *AcceptInvitation {
	return &AcceptInvitation{repo: repo, issuer: issuer, notifier: notifier, audit: audit, now: time.Now}
}

func (uc *AcceptInvitation) Execute(ctx context.Context, in AcceptInput) (*dto.AuthResponse, error) {
	if len(in.Password) < auth.MinPasswordLength {
		return nil, httperr.ErrBusiness("password_too_short")
	}

	now := uc.now()
	inv, _, err := load(ctx, uc.repo, in.Token, now)
	if err != nil {
		return nil, err
	}

	inUse, err := uc.repo.EmailInUse(ctx, inv.Email)
	if err != nil {
		return nil, err
	}
	if inUse {
		return nil, httperr.ErrBusiness("email_already_in_use")
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = inv.Name
	}
	if name == "" {
		return nil, httperr.ErrBusiness("name_required")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	if err := domain.Accept(inv, now); err != nil {
		return nil, err
	}

	user := &models.User{
		OrganizationID: inv.OrganizationID,
		Name:           name,
		Email:          inv.Email,
		PasswordHash:   hash,
		Phone:          strings.TrimSpace(in.Phone),
		Role:           domain.RoleFor(domain.Kind(inv.Kind)),
	}

	if err := uc.repo.Accept(ctx, domain.AcceptInput{Invitation: inv, User: user}); err != nil {
		return nil, err
	}

	token, err := uc.issuer.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	uc.notifyAdmins(ctx, inv, user)

	uc.audit.Dispatch(audit.Event{
		OrganizationID: inv.OrganizationID,
		UserID:         &user.ID,
		Action:         "invitation_accepted",
		Entity:         "invitation",
		EntityID:       &inv.ID,
		Metadata:       map[string]any{"kind": inv.Kind, "target_id": inv.TargetID},
	})

	return &dto.AuthResponse{
		Token: token,
		User:  dto.UserDTO{ID: user.ID, Name: user.Name, Email: user.Email, Role: user.Role},
	}, nil
}

func (uc *AcceptInvitation) notifyAdmins(ctx context.Context, inv *models.Invitation, user *models.User) {
	ids, err := uc.repo.ListAdminUserIDs(ctx, inv.OrganizationID)
	if err != nil {
		logger.LogError("invitation", "AcceptInvitation", "ListAdminUserIDs", inv.ID, err)
		return
	}

	link := "/clients"
	if domain.Kind(inv.Kind) == domain.KindStaff {
		link = "/staff"
	}
	if inv.TargetID != nil {
		link = fmt.Sprintf("%s/%d", link, *inv.TargetID)
	}

	uc.notifier.NotifyMany(ctx, ids, notify.Message{
		OrganizationID: inv.OrganizationID,
		Type:           notifdomain.TypeInvitationAccepted,
		Title:          "Invitation accepted",
		Message:        fmt.Sprintf("%s joined as %s.", user.Name, inv.Kind),
		Link:           link,
	})
}
