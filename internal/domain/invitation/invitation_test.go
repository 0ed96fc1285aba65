package invitation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/care-scheduler/internal/httperr"
	"github.com/BruksfildServices01/care-scheduler/internal/models"
)

func TestCheck(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		inv     models.Invitation
		wantErr string
	}{
		{"pending and fresh", models.Invitation{Status: "pending", ExpiresAt: now.Add(time.Hour)}, ""},
		{"expires exactly now", models.Invitation{Status: "pending", ExpiresAt: now}, ""},
		{"expired by timestamp", models.Invitation{Status: "pending", ExpiresAt: now.Add(-time.Second)}, "invitation_expired"},
		{"already accepted", models.Invitation{Status: "accepted", ExpiresAt: now.Add(time.Hour)}, "invitation_accepted"},
		{"revoked", models.Invitation{Status: "revoked", ExpiresAt: now.Add(time.Hour)}, "invitation_revoked"},
		{"marked expired", models.Invitation{Status: "expired", ExpiresAt: now.Add(time.Hour)}, "invitation_expired"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Check(&tt.inv, now)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.True(t, httperr.IsBusiness(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestAcceptOnlyOnce(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	inv := &models.Invitation{Status: "pending", ExpiresAt: now.Add(DefaultTTL)}

	require.NoError(t, Accept(inv, now))
	require.Equal(t, "accepted", inv.Status)
	require.Equal(t, now, *inv.AcceptedAt)

	require.True(t, httperr.IsBusiness(Accept(inv, now), "invitation_accepted"))
}

func TestTokenFingerprint(t *testing.T) {
	token, hash := NewToken()
	require.Len(t, token, 36)
	require.Len(t, hash, 64)
	require.Equal(t, hash, Fingerprint(" "+token+" "))

	other, otherHash := NewToken()
	require.NotEqual(t, token, other)
	require.NotEqual(t, hash, otherHash)
}

func TestExpireIfStaleAndRevoke(t *testing.T) {
	now := time.Now()
	inv := &models.Invitation{Status: "pending", ExpiresAt: now.Add(-time.Minute)}
	require.True(t, ExpireIfStale(inv, now))
	require.Equal(t, "expired", inv.Status)
	require.False(t, ExpireIfStale(inv, now))
	require.Error(t, Revoke(inv))

	fresh := &models.Invitation{Status: "pending", ExpiresAt: now.Add(time.Hour)}
	require.NoError(t, Revoke(fresh))
	require.Equal(t, "revoked", fresh.Status)
}

func TestKindAndRole(t *testing.T) {
	k, ok := ParseKind(" Staff ")
	require.True(t, ok)
	require.Equal(t, "staff", RoleFor(k))
	require.Equal(t, "client", RoleFor(KindClient))

	_, ok = ParseKind("admin")
	require.False(t, ok)
}
