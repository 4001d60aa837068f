package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/descripto-api/internal/domain"
)

func newTestManager() *TokenManager {
	return NewTokenManager("test-secret", time.Hour, 24*time.Hour, 0)
}

func TestTokenRoundTrip(t *testing.T) {
	tm := newTestManager()

	for _, kind := range []domain.TokenKind{domain.TokenKindAccess, domain.TokenKindRefresh} {
		token, expiresAt, err := tm.Generate("user@example.com", []string{domain.RoleUser}, kind)
		require.NoError(t, err)
		require.NotEmpty(t, token)
		assert.True(t, expiresAt.After(time.Now()))

		claims, err := tm.Parse(token)
		require.NoError(t, err)
		assert.Equal(t, "user@example.com", claims.Subject)
		assert.Equal(t, kind, claims.Kind)
		assert.NotEmpty(t, claims.ID)
		assert.True(t, claims.ExpiresAt.After(claims.IssuedAt.Time))
	}
}

func TestRolesOnlyOnAccessTokens(t *testing.T) {
	tm := newTestManager()

	access, _, err := tm.Generate("user@example.com", []string{domain.RoleAdmin}, domain.TokenKindAccess)
	require.NoError(t, err)
	refresh, _, err := tm.Generate("user@example.com", []string{domain.RoleAdmin}, domain.TokenKindRefresh)
	require.NoError(t, err)

	accessClaims, err := tm.Parse(access)
	require.NoError(t, err)
	assert.Equal(t, []string{domain.RoleAdmin}, accessClaims.Roles)

	refreshClaims, err := tm.Parse(refresh)
	require.NoError(t, err)
	assert.Empty(t, refreshClaims.Roles)
}

func TestParseExpiredToken(t *testing.T) {
	tm := &TokenManager{
		secret:     []byte("test-secret"),
		accessTTL:  -time.Minute,
		refreshTTL: -time.Minute,
	}

	token, _, err := tm.Generate("user@example.com", nil, domain.TokenKindAccess)
	require.NoError(t, err)

	_, err = tm.Parse(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestClockSkewLeeway(t *testing.T) {
	// Expired thirty seconds ago but within a one minute leeway.
	issuer := &TokenManager{
		secret:    []byte("test-secret"),
		accessTTL: -30 * time.Second,
	}
	token, _, err := issuer.Generate("user@example.com", nil, domain.TokenKindAccess)
	require.NoError(t, err)

	strict := &TokenManager{secret: []byte("test-secret")}
	_, err = strict.Parse(token)
	assert.ErrorIs(t, err, ErrTokenExpired)

	lenient := &TokenManager{secret: []byte("test-secret"), leeway: time.Minute}
	claims, err := lenient.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", claims.Subject)
}

func TestParseWrongSecret(t *testing.T) {
	tm := newTestManager()
	token, _, err := tm.Generate("user@example.com", nil, domain.TokenKindAccess)
	require.NoError(t, err)

	other := NewTokenManager("other-secret", time.Hour, 24*time.Hour, 0)
	_, err = other.Parse(token)
	assert.ErrorIs(t, err, ErrTokenSignature)
}

func TestParseMalformedToken(t *testing.T) {
	tm := newTestManager()

	for _, garbage := range []string{"", "garbage", "a.b", "a.b.c.d"} {
		_, err := tm.Parse(garbage)
		assert.ErrorIs(t, err, ErrTokenMalformed, "input %q", garbage)
	}
}

func TestTamperedTokenRejected(t *testing.T) {
	tm := newTestManager()
	token, _, err := tm.Generate("user@example.com", []string{domain.RoleUser}, domain.TokenKindAccess)
	require.NoError(t, err)

	// Flip one bit at sampled positions across header, payload and
	// signature; every mutation must fail validation and none may be
	// misreported as an expiry.
	for i := 0; i < len(token); i += 7 {
		if token[i] == '.' {
			continue
		}
		// Skip segment-final characters: their low bits are discarded
		// by base64 decoding, so a flip there is not a payload change.
		if i+1 == len(token) || token[i+1] == '.' {
			continue
		}
		mutated := []byte(token)
		mutated[i] ^= 0x01
		if string(mutated) == token {
			continue
		}

		_, err := tm.Parse(string(mutated))
		require.Error(t, err, "bit flip at %d accepted", i)
		assert.False(t, errors.Is(err, ErrTokenExpired), "bit flip at %d reported as expiry", i)
	}
}
