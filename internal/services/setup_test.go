package services

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mbtmi/mbtmi/internal/auth"
	"github.com/mbtmi/mbtmi/internal/cache"
	"github.com/mbtmi/mbtmi/internal/events"
	"github.com/mbtmi/mbtmi/internal/repositories"
	"github.com/mbtmi/mbtmi/internal/repositories/postgres"
	"github.com/mbtmi/mbtmi/internal/testdb"
	"github.com/mbtmi/mbtmi/internal/validator"
	"gorm.io/gorm"
)

type fixture struct {
	db        *gorm.DB
	repo      repositories.Repository
	publisher *events.MockEventPublisher
	cache     *memoryCache
	services  ServiceManager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testdb.New(t)
	testdb.Seed(t, db)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f := &fixture{
		db:        db,
		repo:      postgres.NewRepository(db),
		publisher: events.NewMockEventPublisher(logger),
		cache:     newMemoryCache(),
	}
	f.services = NewServiceManager(Dependencies{
		Repo:      f.repo,
		Cache:     f.cache,
		CacheTTL:  time.Minute,
		Publisher: f.publisher,
		Hasher:    auth.NewPasswordHasher(1 << 4),
		Validator: validator.New(),
		Logger:    logger,
	})
	return f
}

func (f *fixture) eventTypes() []events.EventType {
	var types []events.EventType
	for _, event := range f.publisher.GetPublishedEvents() {
		types = append(types, event.Type)
	}
	return types
}

// memoryCache is an in-process CacheService with the same JSON semantics as redis
type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	hits    int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]byte)}
}

func (c *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = payload
	return nil
}

func (c *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	payload, ok := c.entries[key]
	if !ok {
		return cache.ErrCacheMiss
	}
	c.hits++
	return json.Unmarshal(payload, dest)
}

func (c *memoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

func (c *memoryCache) DeletePattern(ctx context.Context, pattern string) error {
	prefix := strings.TrimSuffix(pattern, "*")
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
	return nil
}

func (c *memoryCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
