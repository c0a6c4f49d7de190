package token

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	svc := NewService([]byte("test-secret"), time.Hour)

	raw, err := svc.Issue(42)
	require.NoError(t, err)
	assert.Equal(t, 3, len(strings.Split(raw, ".")))

	userID, err := svc.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, 42, userID)
}

func TestVerifyWrongSecret(t *testing.T) {
	svc := NewService([]byte("test-secret"), time.Hour)
	other := NewService([]byte("test-secret-but-longer"), time.Hour)

	raw, err := svc.Issue(42)
	require.NoError(t, err)

	_, err = other.Verify(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyExpired(t *testing.T) {
	svc := NewService([]byte("test-secret"), -time.Minute)

	raw, err := svc.Issue(42)
	require.NoError(t, err)

	_, err = svc.Verify(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyMalformed(t *testing.T) {
	svc := NewService([]byte("test-secret"), time.Hour)

	for _, raw := range []string{"", "garbage", "a.b.c", "a.b"} {
		_, err := svc.Verify(raw)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", raw)
	}
}

func TestVerifyTampered(t *testing.T) {
	svc := NewService([]byte("test-secret"), time.Hour)

	raw, err := svc.Issue(42)
	require.NoError(t, err)

	parts := strings.Split(raw, ".")
	require.Len(t, parts, 3)
	// swap the payload for another token's payload; signature no longer matches
	other, err := svc.Issue(7)
	require.NoError(t, err)
	tampered := parts[0] + "." + strings.Split(other, ".")[1] + "." + parts[2]

	_, err = svc.Verify(tampered)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyNeedsNoStore(t *testing.T) {
	// Verification is a pure function of token content and secret; two
	// services with the same secret agree without sharing any state.
	a := NewService([]byte("shared"), time.Hour)
	b := NewService([]byte("shared"), time.Hour)

	raw, err := a.Issue(9)
	require.NoError(t, err)

	userID, err := b.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, 9, userID)
}
