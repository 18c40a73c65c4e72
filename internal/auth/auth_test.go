package auth

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"volunteerhub/pkg/types"
)

func init() {
	Cost = bcrypt.MinCost
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", hash)

	assert.NoError(t, CheckPassword("secret123", hash))
	assert.ErrorIs(t, CheckPassword("secret124", hash), types.ErrInvalidCredentials)
	assert.Error(t, CheckPassword("secret123", "not-a-hash"))
}

func newIssuer(t *testing.T) *TokenIssuer {
	t.Helper()
	issuer, err := NewTokenIssuer(bytes.Repeat([]byte("k"), 32), "volunteerhub", time.Hour)
	require.NoError(t, err)
	return issuer
}

func TestNewTokenIssuerShortKey(t *testing.T) {
	_, err := NewTokenIssuer([]byte("short"), "volunteerhub", time.Hour)
	assert.Error(t, err)
}

func TestTokenRoundTrip(t *testing.T) {
	issuer := newIssuer(t)
	user := &types.User{ID: "u1", Username: "coord", Role: types.RoleCoordinator}

	raw, err := issuer.Issue(user)
	require.NoError(t, err)

	claims, err := issuer.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, types.RoleCoordinator, claims.Role)
	assert.Equal(t, "coord", claims.Username)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt, 5*time.Second)
}

func TestTokenExpired(t *testing.T) {
	issuer := newIssuer(t)
	issued := time.Now().Add(-2 * time.Hour)
	issuer.now = func() time.Time { return issued }

	raw, err := issuer.Issue(&types.User{ID: "u1", Role: types.RoleDonor})
	require.NoError(t, err)

	issuer.now = time.Now
	_, err = issuer.Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenWrongKey(t *testing.T) {
	raw, err := newIssuer(t).Issue(&types.User{ID: "u1", Role: types.RoleDonor})
	require.NoError(t, err)

	other, err := NewTokenIssuer(bytes.Repeat([]byte("x"), 32), "volunteerhub", time.Hour)
	require.NoError(t, err)

	_, err = other.Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = other.Parse("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
