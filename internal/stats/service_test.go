package stats

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"gatherly/internal/cache"
	"gatherly/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// repoStub is a stub for Repository.
type repoStub struct {
	saveHitFn   func(context.Context, string, string, string, time.Time) error
	aggregateFn func(context.Context, time.Time, time.Time, []string, bool) ([]ViewStats, error)
}

func (s *repoStub) SaveHit(ctx context.Context, appName, uri, ip string, timestamp time.Time) error {
	return s.saveHitFn(ctx, appName, uri, ip, timestamp)
}
func (s *repoStub) Aggregate(ctx context.Context, start, end time.Time, uris []string, unique bool) ([]ViewStats, error) {
	return s.aggregateFn(ctx, start, end, uris, unique)
}

func noopRepo() *repoStub {
	return &repoStub{
		saveHitFn: func(_ context.Context, _, _, _ string, _ time.Time) error { return nil },
		aggregateFn: func(_ context.Context, _, _ time.Time, _ []string, _ bool) ([]ViewStats, error) {
			return nil, nil
		},
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestService_RecordHit_RequiredFields(t *testing.T) {
	svc := NewService(noopRepo(), testLogger())
	ctx := context.Background()
	now := time.Now()

	for _, tc := range []struct{ app, uri, ip string }{
		{"", "/events/1", "10.0.0.1"},
		{"gatherly-api", "", "10.0.0.1"},
		{"gatherly-api", "/events/1", ""},
	} {
		err := svc.RecordHit(ctx, tc.app, tc.uri, tc.ip, now)
		require.Error(t, err)
		appErr, ok := err.(*models.AppError)
		require.True(t, ok)
		assert.Equal(t, models.CodeValidation, appErr.Code)
	}

	require.NoError(t, svc.RecordHit(ctx, "gatherly-api", "/events/1", "10.0.0.1", now))
}

func TestService_Aggregate_RejectsInvertedRange(t *testing.T) {
	svc := NewService(noopRepo(), testLogger())

	now := time.Now()
	_, err := svc.Aggregate(context.Background(), now, now.Add(-time.Hour), nil, false)
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, models.CodeValidation, appErr.Code)
}

func TestService_Aggregate_CachesResult(t *testing.T) {
	mr := miniredis.RunT(t)
	cache.Client = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { cache.Client = nil }()

	calls := 0
	repo := noopRepo()
	repo.aggregateFn = func(_ context.Context, _, _ time.Time, _ []string, _ bool) ([]ViewStats, error) {
		calls++
		return []ViewStats{{App: "gatherly-api", URI: "/events/1", Hits: 3}}, nil
	}
	svc := NewService(repo, testLogger())

	start := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC)

	first, err := svc.Aggregate(context.Background(), start, end, []string{"/events/1"}, false)
	require.NoError(t, err)
	second, err := svc.Aggregate(context.Background(), start, end, []string{"/events/1"}, false)
	require.NoError(t, err)

	assert.Equal(t, 1, calls, "second read must come from the cache")
	assert.Equal(t, first, second)
}

func TestService_Aggregate_DistinctWindowsGetDistinctKeys(t *testing.T) {
	mr := miniredis.RunT(t)
	cache.Client = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { cache.Client = nil }()

	calls := 0
	repo := noopRepo()
	repo.aggregateFn = func(_ context.Context, _, _ time.Time, _ []string, _ bool) ([]ViewStats, error) {
		calls++
		return []ViewStats{}, nil
	}
	svc := NewService(repo, testLogger())

	start := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC)

	_, err := svc.Aggregate(context.Background(), start, end, nil, false)
	require.NoError(t, err)
	_, err = svc.Aggregate(context.Background(), start, end, nil, true)
	require.NoError(t, err)
	assert.Equal(t, 2, calls, "unique and non-unique windows are cached separately")
}

func TestService_Aggregate_WorksWithoutRedis(t *testing.T) {
	cache.Client = nil

	repo := noopRepo()
	repo.aggregateFn = func(_ context.Context, _, _ time.Time, _ []string, _ bool) ([]ViewStats, error) {
		return []ViewStats{{URI: "/events/1", Hits: 2}}, nil
	}
	svc := NewService(repo, testLogger())

	result, err := svc.Aggregate(context.Background(), time.Now().Add(-time.Hour), time.Now(), nil, false)
	require.NoError(t, err)
	require.Len(t, result, 1)
}
