package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Esayas077/Backend/internal/apperr"
	"github.com/Esayas077/Backend/internal/models"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := NewTokenService("test-secret")
	user := &models.User{Email: "alice@example.com", Role: models.RoleStaff}
	user.ID = 7

	token, err := svc.Issue(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, models.RoleStaff, claims.Role)
	assert.NotEmpty(t, claims.ID)
}

func TestTokenExpiry(t *testing.T) {
	svc := NewTokenService("test-secret")
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	user := &models.User{Email: "alice@example.com", Role: models.RoleRequester}
	user.ID = 1

	token, err := svc.Issue(user)
	require.NoError(t, err)

	_, err = svc.Verify(token)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindAuth))
}

func TestTokenWrongSecret(t *testing.T) {
	issuer := NewTokenService("secret-a")
	verifier := NewTokenService("secret-b")

	user := &models.User{Email: "bob@example.com", Role: models.RoleRequester}
	user.ID = 2

	token, err := issuer.Issue(user)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindAuth))
}
