package services

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/mbtmi/mbtmi/internal/cache"
	"github.com/mbtmi/mbtmi/internal/models"
	"github.com/mbtmi/mbtmi/internal/repositories"
)

const DefaultCacheTTL = 5 * time.Minute

type testService struct {
	repo   repositories.Repository
	cache  cache.CacheService
	ttl    time.Duration
	logger *ServiceLogger
}

func NewTestService(repo repositories.Repository, cacheService cache.CacheService, ttl time.Duration, logger *slog.Logger) TestService {
	if cacheService == nil {
		cacheService = cache.NoopCache{}
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &testService{
		repo:   repo,
		cache:  cacheService,
		ttl:    ttl,
		logger: NewServiceLogger(logger, LogConfig{Service: "mbtmi", Component: "tests"}),
	}
}

// ListTests returns every test ordered by id, without questions. An empty
// catalogue is an empty slice.
func (s *testService) ListTests(ctx context.Context) ([]*models.Test, error) {
	var tests []*models.Test
	if s.fromCache(ctx, cache.TestListKey(), &tests) {
		return tests, nil
	}

	tests, err := s.repo.Test().List(ctx, nil)
	if err != nil {
		err = classify(err, ErrNotFound)
		s.logger.LogOperation(ctx, "list_tests", "", "test", 0, err)
		return nil, err
	}

	s.toCache(ctx, cache.TestListKey(), tests)
	return tests, nil
}

func (s *testService) GetTest(ctx context.Context, testID uint, includeQuestions bool) (*models.Test, error) {
	key := cache.TestKey(testID, includeQuestions)

	var test models.Test
	if s.fromCache(ctx, key, &test) {
		return &test, nil
	}

	var (
		found *models.Test
		err   error
	)
	if includeQuestions {
		found, err = s.repo.Test().GetByIDWithQuestions(ctx, nil, testID)
	} else {
		found, err = s.repo.Test().GetByID(ctx, nil, testID)
	}
	if err != nil {
		err = classify(err, ErrTestNotFound)
		if !IsNotFound(err) {
			s.logger.LogOperation(ctx, "get_test", strconv.FormatUint(uint64(testID), 10), "test", 0, err)
		}
		return nil, err
	}

	s.toCache(ctx, key, found)
	return found, nil
}

func (s *testService) CountQuestions(ctx context.Context, testID uint) (int64, error) {
	key := cache.QuestionCountKey(testID)

	var count int64
	if s.fromCache(ctx, key, &count) {
		return count, nil
	}

	if _, err := s.repo.Test().GetByID(ctx, nil, testID); err != nil {
		return 0, classify(err, ErrTestNotFound)
	}

	count, err := s.repo.Test().CountQuestions(ctx, nil, testID)
	if err != nil {
		return 0, classify(err, ErrTestNotFound)
	}

	s.toCache(ctx, key, count)
	return count, nil
}

// Cache failures degrade to a store read.
func (s *testService) fromCache(ctx context.Context, key string, dest interface{}) bool {
	err := s.cache.Get(ctx, key, dest)
	if err == nil {
		return true
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Logger().WarnContext(ctx, "Cache read failed", "key", key, "error", err)
	}
	return false
}

func (s *testService) toCache(ctx context.Context, key string, value interface{}) {
	if err := s.cache.Set(ctx, key, value, s.ttl); err != nil {
		s.logger.Logger().WarnContext(ctx, "Cache write failed", "key", key, "error", err)
	}
}
