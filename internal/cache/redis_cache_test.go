package cache

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedisCache_NilClientIsNoop(t *testing.T) {
	c := NewRedisCache(nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, TestListKey(), []int{1, 2}, time.Minute))

	var out []int
	assert.ErrorIs(t, c.Get(ctx, TestListKey(), &out), ErrCacheMiss)
	assert.NoError(t, c.Delete(ctx, TestListKey()))
	assert.NoError(t, c.DeletePattern(ctx, TestsPattern))
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "tests:list", TestListKey())
	assert.Equal(t, "tests:7", TestKey(7, false))
	assert.Equal(t, "tests:7:full", TestKey(7, true))
	assert.Equal(t, "tests:7:count", QuestionCountKey(7))
}

// Runs against a live Redis when REDIS_TEST_URL is set
func TestRedisCache_Integration(t *testing.T) {
	url := os.Getenv("REDIS_TEST_URL")
	if url == "" || testing.Short() {
		t.Skip("Skipping integration test")
	}

	opt, err := redis.ParseURL(url)
	require.NoError(t, err)
	client := redis.NewClient(opt)
	defer client.Close()

	c := NewRedisCache(client, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx := context.Background()

	type entry struct {
		Title string `json:"title"`
	}
	require.NoError(t, c.Set(ctx, TestKey(1, false), entry{Title: "A"}, time.Minute))
	require.NoError(t, c.Set(ctx, TestKey(2, false), entry{Title: "B"}, time.Minute))

	var got entry
	require.NoError(t, c.Get(ctx, TestKey(1, false), &got))
	assert.Equal(t, "A", got.Title)

	require.NoError(t, c.DeletePattern(ctx, TestsPattern))
	assert.ErrorIs(t, c.Get(ctx, TestKey(2, false), &got), ErrCacheMiss)
}
