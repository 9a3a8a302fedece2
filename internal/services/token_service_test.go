package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenService() *TokenService {
	return NewTokenService("test-secret", 15*time.Minute, 7*24*time.Hour, 24*time.Hour)
}

func TestIssueVerifyRoundtrip(t *testing.T) {
	svc := newTestTokenService()

	for _, scope := range []string{ScopeAccess, ScopeRefresh, ScopeEmail} {
		token, err := svc.Issue("user@x.com", scope, time.Minute)
		require.NoError(t, err)

		subject, err := svc.Verify(token, scope)
		require.NoError(t, err, "scope %s", scope)
		assert.Equal(t, "user@x.com", subject)
	}
}

func TestVerifyScopeMismatch(t *testing.T) {
	svc := newTestTokenService()

	token, err := svc.Issue("user@x.com", ScopeRefresh, time.Minute)
	require.NoError(t, err)

	_, err = svc.Verify(token, ScopeAccess)
	assert.ErrorIs(t, err, ErrScopeMismatch)

	_, err = svc.Verify(token, ScopeEmail)
	assert.ErrorIs(t, err, ErrScopeMismatch)
}

func TestVerifyExpired(t *testing.T) {
	svc := newTestTokenService()

	token, err := svc.Issue("user@x.com", ScopeAccess, -time.Second)
	require.NoError(t, err)

	_, err = svc.Verify(token, ScopeAccess)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerifyTampered(t *testing.T) {
	svc := newTestTokenService()

	token, err := svc.Issue("user@x.com", ScopeAccess, time.Minute)
	require.NoError(t, err)

	// flip the last signature byte
	last := token[len(token)-1]
	flipped := byte('A')
	if last == flipped {
		flipped = 'B'
	}
	_, err = svc.Verify(token[:len(token)-1]+string(flipped), ScopeAccess)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifyWrongSecret(t *testing.T) {
	other := NewTokenService("other-secret", 15*time.Minute, 7*24*time.Hour, 24*time.Hour)
	token, err := other.Issue("user@x.com", ScopeAccess, time.Minute)
	require.NoError(t, err)

	svc := newTestTokenService()
	_, err = svc.Verify(token, ScopeAccess)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifyGarbage(t *testing.T) {
	svc := newTestTokenService()

	_, err := svc.Verify("definitely.not.a.jwt", ScopeAccess)
	assert.ErrorIs(t, err, ErrInvalidSignature)

	_, err = svc.Verify("", ScopeAccess)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}
