package services

import (
	"context"
	"testing"

	"github.com/mbtmi/mbtmi/internal/events"
	"github.com/mbtmi/mbtmi/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentialService_RegisterThenAuthenticate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := f.services.Credential()

	user, err := svc.Register(ctx, &RegisterRequest{Username: "alice", Password: "s3cret"})
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Len(t, user.Password, 128)
	assert.NotEqual(t, "s3cret", user.Password)

	id, err := svc.Authenticate(ctx, &LoginRequest{Username: "alice", Password: "s3cret"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)

	assert.Equal(t, []events.EventType{events.EventUserRegistered}, f.eventTypes())
}

func TestCredentialService_Authenticate_Failures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := f.services.Credential()

	_, err := svc.Register(ctx, &RegisterRequest{Username: "alice", Password: "s3cret"})
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, &LoginRequest{Username: "alice", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.True(t, IsUnauthorized(err))

	_, err = svc.Authenticate(ctx, &LoginRequest{Username: "bob", Password: "s3cret"})
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.True(t, IsNotFound(err))
}

func TestCredentialService_Register_DuplicateUsername(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := f.services.Credential()

	_, err := svc.Register(ctx, &RegisterRequest{Username: "alice", Password: "one"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, &RegisterRequest{Username: "alice", Password: "two"})
	assert.ErrorIs(t, err, ErrUsernameTaken)
	assert.True(t, IsConflict(err))

	var count int64
	require.NoError(t, f.db.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCredentialService_Register_RejectsBlankInput(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := f.services.Credential()

	for _, req := range []*RegisterRequest{
		{Username: "", Password: "pw"},
		{Username: "   ", Password: "pw"},
		{Username: "carol", Password: ""},
	} {
		_, err := svc.Register(ctx, req)
		assert.True(t, IsValidation(err), "request %+v", req)
	}

	var count int64
	require.NoError(t, f.db.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)
	assert.Empty(t, f.publisher.GetPublishedEvents())
}

func TestCredentialService_FreshSaltPerUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := f.services.Credential()

	first, err := svc.Register(ctx, &RegisterRequest{Username: "alice", Password: "same"})
	require.NoError(t, err)
	second, err := svc.Register(ctx, &RegisterRequest{Username: "bob", Password: "same"})
	require.NoError(t, err)

	assert.NotEqual(t, first.PasswordSalt, second.PasswordSalt)
	assert.NotEqual(t, first.Password, second.Password)
}
