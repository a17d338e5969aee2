package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *TokenManager {
	t.Helper()
	m, err := NewTokenManager(TokenManagerOptions{
		Secret:     "test-secret",
		Issuer:     "smartpdf-test",
		AccessTTL:  time.Minute,
		RefreshTTL: time.Hour,
	})
	require.NoError(t, err)
	return m
}

func testSession() Session {
	return Session{
		ID:        "sess-1",
		UserID:    42,
		Name:      "Test User",
		Email:     "user@example.com",
		Role:      RoleUser,
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func TestNewTokenManager_Validation(t *testing.T) {
	_, err := NewTokenManager(TokenManagerOptions{Issuer: "x", AccessTTL: time.Minute, RefreshTTL: time.Minute})
	assert.Error(t, err, "missing secret")

	_, err = NewTokenManager(TokenManagerOptions{Secret: "s", AccessTTL: 0, RefreshTTL: time.Minute})
	assert.Error(t, err, "non-positive TTL")
}

func TestTokenManager_IssueAndVerify(t *testing.T) {
	m := newTestManager(t)
	pair, err := m.Issue(testSession())
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	claims, err := m.VerifyAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Equal(t, RoleUser, claims.Role)
	assert.Equal(t, "sess-1", claims.SessionID)

	refreshClaims, err := m.VerifyRefresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "sess-1", refreshClaims.SessionID)
}

func TestTokenManager_WrongUse(t *testing.T) {
	m := newTestManager(t)
	pair, err := m.Issue(testSession())
	require.NoError(t, err)

	_, err = m.VerifyAccess(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrWrongTokenUse)

	_, err = m.VerifyRefresh(pair.AccessToken)
	assert.ErrorIs(t, err, ErrWrongTokenUse)
}

func TestTokenManager_RejectsForeignSignature(t *testing.T) {
	m := newTestManager(t)
	other, err := NewTokenManager(TokenManagerOptions{
		Secret:     "other-secret",
		Issuer:     "smartpdf-test",
		AccessTTL:  time.Minute,
		RefreshTTL: time.Hour,
	})
	require.NoError(t, err)

	pair, err := other.Issue(testSession())
	require.NoError(t, err)

	_, err = m.VerifyAccess(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_RejectsExpired(t *testing.T) {
	m, err := NewTokenManager(TokenManagerOptions{
		Secret:     "test-secret",
		Issuer:     "smartpdf-test",
		AccessTTL:  time.Nanosecond,
		RefreshTTL: time.Hour,
	})
	require.NoError(t, err)

	pair, err := m.Issue(testSession())
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	_, err = m.VerifyAccess(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_RejectsGarbage(t *testing.T) {
	m := newTestManager(t)
	_, err := m.VerifyAccess("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
