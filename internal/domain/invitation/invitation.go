package invitation

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/care-scheduler/internal/httperr"
	"github.com/BruksfildServices01/care-scheduler/internal/models"
)

type Kind string

const (
	KindClient Kind = "client"
	KindStaff  Kind = "staff"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusExpired  Status = "expired"
	StatusRevoked  Status = "revoked"
)

const DefaultTTL = 7 * 24 * time.Hour

func ParseKind(s string) (Kind, bool) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindClient, KindStaff:
		return k, true
	}
	return "", false
}

// NewToken returns a random token and the fingerprint stored in its place.
func NewToken() (token string, hash string) {
	token = uuid.NewString()
	return token, Fingerprint(token)
}

// Fingerprint is the hex SHA-256 of the token; raw tokens are never stored.
func Fingerprint(token string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(token)))
	return hex.EncodeToString(sum[:])
}

// Check rejects invitations that can no longer be redeemed.
func Check(inv *models.Invitation, now time.Time) error {
	switch Status(inv.Status) {
	case StatusAccepted:
		return httperr.ErrBusiness("invitation_accepted")
	case StatusRevoked:
		return httperr.ErrBusiness("invitation_revoked")
	case StatusExpired:
		return httperr.ErrBusiness("invitation_expired")
	}
	if inv.ExpiresAt.Before(now) {
		return httperr.ErrBusiness("invitation_expired")
	}
	return nil
}

// Accept marks a redeemable invitation as used.
func Accept(inv *models.Invitation, now time.Time) error {
	if err := Check(inv, now); err != nil {
		return err
	}
	inv.Status = string(StatusAccepted)
	inv.AcceptedAt = &now
	return nil
}

// ExpireIfStale flips a pending, past-due invitation to expired.
func ExpireIfStale(inv *models.Invitation, now time.Time) bool {
	if Status(inv.Status) == StatusPending && inv.ExpiresAt.Before(now) {
		inv.Status = string(StatusExpired)
		return true
	}
	return false
}

func Revoke(inv *models.Invitation) error {
	if Status(inv.Status) != StatusPending {
		return httperr.ErrBusiness("invalid_state")
	}
	inv.Status = string(StatusRevoked)
	return nil
}

// RoleFor maps the invitation kind to the user role created on acceptance.
func RoleFor(k Kind) string {
	if k == KindStaff {
		return models.RoleStaff
	}
	return models.RoleClient
}
