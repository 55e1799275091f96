package jwt

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssuePair_TokensAreNotInterchangeable(t *testing.T) {
	s := NewHMACService("access-secret", "refresh-secret", time.Minute, time.Hour)
	id := uuid.New()

	pair, err := s.IssuePair(id, "ops@example.com")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Minute), pair.AccessExpiresAt, 5*time.Second)

	got, err := s.VerifyAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, id, got)

	got, err = s.VerifyRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = s.VerifyAccessToken(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenInvalid)
	_, err = s.VerifyRefreshToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestIssuePair_SameSecretStillSplitByAudience(t *testing.T) {
	s := NewHMACService("shared", "shared", time.Minute, time.Hour)
	pair, err := s.IssuePair(uuid.New(), "")
	require.NoError(t, err)

	_, err = s.VerifyAccessToken(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerify_ExpiredAndGarbage(t *testing.T) {
	s := NewHMACService("a", "r", time.Minute, time.Hour)
	s.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	pair, err := s.IssuePair(uuid.New(), "")
	require.NoError(t, err)

	s.now = time.Now
	_, err = s.VerifyAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrTokenExpired)

	_, err = s.VerifyAccessToken("not-a-token")
	assert.ErrorIs(t, err, ErrTokenInvalid)

	other := NewHMACService("other", "r", time.Minute, time.Hour)
	fresh, err := other.IssuePair(uuid.New(), "")
	require.NoError(t, err)
	_, err = s.VerifyAccessToken(fresh.AccessToken)
	assert.ErrorIs(t, err, ErrTokenInvalid, "wrong secret")
}

func TestIssuePair_Misconfigured(t *testing.T) {
	_, err := NewHMACService("", "r", time.Minute, time.Hour).IssuePair(uuid.New(), "")
	assert.ErrorIs(t, err, ErrTokenInvalid)
	_, err = NewHMACService("a", "r", time.Minute, time.Hour).IssuePair(uuid.Nil, "")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
