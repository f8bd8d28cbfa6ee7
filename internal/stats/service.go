package stats

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gatherly/internal/cache"
	"gatherly/internal/models"
)

// statsCacheTTL keeps aggregate responses briefly: counts change with every
// recorded hit, so anything longer serves visibly stale numbers.
const statsCacheTTL = 30 * time.Second

// Service validates and serves the collector's two operations.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// NewService creates a new stats service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, log: logger}
}

// RecordHit stores one endpoint visit.
func (s *Service) RecordHit(ctx context.Context, appName, uri, ip string, timestamp time.Time) error {
	if appName == "" || uri == "" || ip == "" {
		return models.NewValidationError("app, uri and ip are required")
	}
	return s.repo.SaveHit(ctx, appName, uri, ip, timestamp)
}

// Aggregate returns hit counts per (app, uri) over [start, end], optionally
// deduplicated by IP. Results are cached briefly in Redis.
func (s *Service) Aggregate(ctx context.Context, start, end time.Time, uris []string, unique bool) ([]ViewStats, error) {
	if end.Before(start) {
		return nil, models.NewValidationError("rangeEnd must not precede rangeStart")
	}

	key := statsCacheKey(start, end, uris, unique)
	var result []ViewStats
	err := cache.CacheAside(ctx, key, &result, statsCacheTTL, func() error {
		var err error
		result, err = s.repo.Aggregate(ctx, start, end, uris, unique)
		return err
	})
	if err != nil {
		return nil, err
	}
	if result == nil {
		result = []ViewStats{}
	}
	return result, nil
}

func statsCacheKey(start, end time.Time, uris []string, unique bool) string {
	return fmt.Sprintf("stats:%d:%d:%t:%s", start.Unix(), end.Unix(), unique, strings.Join(uris, ","))
}
