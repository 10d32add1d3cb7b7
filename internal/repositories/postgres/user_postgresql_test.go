package postgres_test

import (
	"context"
	"testing"

	"github.com/mbtmi/mbtmi/internal/models"
	"github.com/mbtmi/mbtmi/internal/repositories"
	"github.com/mbtmi/mbtmi/internal/repositories/postgres"
	"github.com/mbtmi/mbtmi/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postgresRepo(t *testing.T) repositories.Repository {
	return postgres.NewRepository(testdb.New(t))
}

func TestUserPostgreSQL_UniqueUsername(t *testing.T) {
	repo := postgresRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.User().Create(ctx, nil, &models.User{ID: "u-1", Username: "alice", Password: "h", PasswordSalt: "s"}))

	err := repo.User().Create(ctx, nil, &models.User{ID: "u-2", Username: "alice", Password: "h", PasswordSalt: "s"})
	require.Error(t, err)
	assert.True(t, repositories.IsDuplicateKeyError(err))

	exists, err := repo.User().ExistsByUsername(ctx, nil, "alice")
	require.NoError(t, err)
	assert.True(t, exists)

	user, err := repo.User().GetByUsername(ctx, nil, "alice")
	require.NoError(t, err)
	assert.Equal(t, "u-1", user.ID)

	_, err = repo.User().GetByID(ctx, nil, "u-2")
	assert.True(t, repositories.IsNotFoundError(err))
}
