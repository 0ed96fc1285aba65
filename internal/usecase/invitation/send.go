package invitation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/BruksfildServices01/care-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/care-scheduler/internal/domain/invitation"
	"github.com/BruksfildServices01/care-scheduler/internal/httperr"
	"github.com/BruksfildServices01/care-scheduler/internal/infra/mailer"
	"github.com/BruksfildServices01/care-scheduler/internal/models"
	"github.com/BruksfildServices01/care-scheduler/internal/validators"
)

// ======================================================
// INPUT
// ======================================================

type SendInput struct {
	OrganizationID uint
	UserID         uint
	Kind           string
	Email          string
	Name           string
	TargetID       *uint
}

// ======================================================
// USE CASE
// ======================================================

type SendInvitation struct {
	repo    domain.Repository
	mail    *mailer.Async
	audit   *audit.Dispatcher
	baseURL string
	ttl     time.Duration
	now     func() time.Time
}

func NewSendInvitation(
	repo domain.Repository,
	mail *mailer.Async,
	audit *audit.Dispatcher,
	baseURL string,
	ttl time.Duration,
) *SendInvitation {
	if ttl <= 0 {
		ttl = domain.DefaultTTL
	}
	return &SendInvitation{
		repo:    repo,
		mail:    mail,
		audit:   audit,
		baseURL: strings.TrimRight(baseURL, "/"),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Execute issues a fresh invitation, revoking any pending one for the same
// address. The raw token only leaves this function inside the email.
func (uc *SendInvitation) Execute(ctx context.Context, in SendInput) (*models.Invitation, error) {
	kind, ok := domain.ParseKind(in.Kind)
	if !ok {
		return nil, httperr.ErrBusiness("invalid_kind")
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	if !validators.IsEmail(email) {
		return nil, httperr.ErrBusiness("invalid_email")
	}

	inUse, err := uc.repo.EmailInUse(ctx, email)
	if err != nil {
		return nil, err
	}
	if inUse {
		return nil, httperr.ErrBusiness("email_already_in_use")
	}

	org, err := uc.repo.GetOrganization(ctx, in.OrganizationID)
	if err != nil {
		return nil, err
	}

	if err := uc.repo.RevokePending(ctx, in.OrganizationID, email, string(kind)); err != nil {
		return nil, err
	}

	token, hash := domain.NewToken()
	inv := &models.Invitation{
		OrganizationID: in.OrganizationID,
		Kind:           string(kind),
		Email:          email,
		Name:           strings.TrimSpace(in.Name),
		TokenHash:      hash,
		Status:         string(domain.StatusPending),
		TargetID:       in.TargetID,
		InvitedBy:      in.UserID,
		ExpiresAt:      uc.now().Add(uc.ttl),
	}
	if err := uc.repo.CreateInvitation(ctx, inv); err != nil {
		return nil, err
	}

	uc.deliver(org, inv, token)

	uc.audit.Dispatch(audit.Event{
		OrganizationID: in.OrganizationID,
		UserID:         &in.UserID,
		Action:         "invitation_sent",
		Entity:         "invitation",
		EntityID:       &inv.ID,
		Metadata:       map[string]any{"kind": inv.Kind, "email": inv.Email},
	})

	return inv, nil
}

func (uc *SendInvitation) deliver(org *models.Organization, inv *models.Invitation, token string) {
	link := fmt.Sprintf("%s/invite/%s", uc.baseURL, token)

	role := "a client"
	if domain.Kind(inv.Kind) == domain.KindStaff {
		role = "a staff member"
	}

	greeting := "Hello"
	if inv.Name != "" {
		greeting += " " + inv.Name
	}

	body := fmt.Sprintf(
		"%s,\n\n%s has invited you to join as %s.\n\nAccept the invitation: %s\n\nThis link expires on %s.\n",
		greeting, org.Name, role, link, inv.ExpiresAt.UTC().Format("2006-01-02 15:04 MST"),
	)
	uc.mail.Send(inv.Email, "You're invited to "+org.Name, body)
}
