package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/care-scheduler/internal/models"
)

func TestIssueAndParse(t *testing.T) {
	iss := NewIssuer("secret")
	user := &models.User{ID: 7, OrganizationID: 3, Role: models.RoleStaff}

	raw, err := iss.Issue(user)
	require.NoError(t, err)

	claims, err := iss.Parse(raw)
	require.NoError(t, err)
	require.Equal(t, &Claims{UserID: 7, OrganizationID: 3, Role: "staff"}, claims)

	_, err = NewIssuer("other").Parse(raw)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsExpired(t *testing.T) {
	iss := NewIssuer("secret")
	iss.now = func() time.Time { return time.Now().Add(-48 * time.Hour) }

	raw, err := iss.Issue(&models.User{ID: 1, OrganizationID: 1})
	require.NoError(t, err)

	_, err = NewIssuer("secret").Parse(raw)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswords(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)
	require.True(t, CheckPassword(hash, "hunter22"))
	require.False(t, CheckPassword(hash, "hunter23"))
}
