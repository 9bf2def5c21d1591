package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/complaint-desk/complaint-service/internal/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", 60)

	token, expiresAt, err := tm.GenerateToken("acc-1", domain.RoleTechnician)
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	require.Equal(t, "acc-1", claims.SubjectID())
	require.Equal(t, domain.RoleTechnician, claims.Role)
}

func TestTokenExpiry(t *testing.T) {
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	now := issued
	tm := NewTokenManager("secret", 60, WithClock(func() time.Time { return now }))

	token, _, err := tm.GenerateToken("acc-1", domain.RoleCustomer)
	require.NoError(t, err)

	now = issued.Add(59 * time.Minute)
	_, err = tm.ParseToken(token)
	require.NoError(t, err)

	now = issued.Add(61 * time.Minute)
	_, err = tm.ParseToken(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenRejectsForeignSignature(t *testing.T) {
	token, _, err := NewTokenManager("other-secret", 60).GenerateToken("acc-1", domain.RoleAdmin)
	require.NoError(t, err)

	_, err = NewTokenManager("secret", 60).ParseToken(token)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = NewTokenManager("secret", 60).ParseToken("not.a.jwt")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenRejectsUnknownRole(t *testing.T) {
	tm := NewTokenManager("secret", 60)
	token, _, err := tm.GenerateToken("acc-1", domain.Role("owner"))
	require.NoError(t, err)

	_, err = tm.ParseToken(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}
