package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHasher_HashAndVerify(t *testing.T) {
	h := NewPasswordHasher(1 << 10)
	salt := h.NewSalt()

	hash, err := h.Hash("hunter2", salt)
	require.NoError(t, err)
	assert.Len(t, hash, scryptKeyLen*2)

	again, err := h.Hash("hunter2", salt)
	require.NoError(t, err)
	assert.Equal(t, hash, again)

	ok, err := h.Verify("hunter2", salt, hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify("hunter3", salt, hash)
	require.NoError(t, err)
	assert.False(t, ok)

	other, err := h.Hash("hunter2", h.NewSalt())
	require.NoError(t, err)
	assert.NotEqual(t, hash, other)
}

func TestPasswordHasher_SaltsAreUnique(t *testing.T) {
	h := NewPasswordHasher(DefaultScryptN)
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		salt := h.NewSalt()
		_, dup := seen[salt]
		require.False(t, dup)
		seen[salt] = struct{}{}
	}
}

func TestNewPasswordHasher_RejectsBadWorkFactor(t *testing.T) {
	assert.Equal(t, DefaultScryptN, NewPasswordHasher(1000).n)
	assert.Equal(t, DefaultScryptN, NewPasswordHasher(0).n)
	assert.Equal(t, 1<<14, NewPasswordHasher(1<<14).n)
}

func TestTokenManager_RoundTrip(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)

	token, err := m.Issue("user-1", "alice")
	require.NoError(t, err)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "alice", claims.Username)
}

func TestTokenManager_Rejects(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)
	token, err := m.Issue("user-1", "alice")
	require.NoError(t, err)

	_, err = NewTokenManager("other", time.Hour).Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.Parse(strings.TrimSuffix(token, token[len(token)-2:]))
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := NewTokenManager("secret", time.Nanosecond)
	token, err = expired.Issue("user-1", "alice")
	require.NoError(t, err)
	time.Sleep(1100 * time.Millisecond)
	_, err = expired.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
