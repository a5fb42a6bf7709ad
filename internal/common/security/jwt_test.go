package security

import (
	"errors"
	"testing"
	"time"

	"inkpress/internal/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager([]byte("test-secret"), time.Hour)

	token, err := tm.Issue(Identity{ID: "u1", Role: "user"})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	identity, err := tm.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, Identity{ID: "u1", Role: "user"}, identity)
}

func TestTokenExpiry(t *testing.T) {
	tm := NewTokenManager([]byte("test-secret"), time.Millisecond)

	token, err := tm.Issue(Identity{ID: "u1", Role: "user"})
	require.NoError(t, err)

	time.Sleep(1100 * time.Millisecond) // exp has one-second resolution

	_, err = tm.Verify(token)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrInvalidToken))
}

func TestTokenSignatureMismatch(t *testing.T) {
	issuer := NewTokenManager([]byte("secret-a"), time.Hour)
	verifier := NewTokenManager([]byte("secret-b"), time.Hour)

	token, err := issuer.Issue(Identity{ID: "u1", Role: "admin"})
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrInvalidToken))
}

func TestTokenMalformed(t *testing.T) {
	tm := NewTokenManager([]byte("test-secret"), time.Hour)
	for _, garbage := range []string{"", "not-a-token", "a.b.c", "eyJhbGciOiJIUzI1NiJ9.e30."} {
		_, err := tm.Verify(garbage)
		require.Error(t, err, "token %q", garbage)
		assert.True(t, errors.Is(err, common.ErrInvalidToken))
	}
}

func TestTokenDefaultExpiry(t *testing.T) {
	tm := NewTokenManager([]byte("test-secret"), 0)
	assert.Equal(t, DefaultTokenExpiry, tm.Expiry())
}

func TestTokenRoleNotRechecked(t *testing.T) {
	// A role change after issuance is not reflected until a new token is
	// issued; the old token keeps its embedded role.
	tm := NewTokenManager([]byte("test-secret"), time.Hour)
	token, err := tm.Issue(Identity{ID: "u1", Role: "user"})
	require.NoError(t, err)

	identity, err := tm.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user", identity.Role)
}
