// Package service contains the transactional business services of the
// events API.
package service

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"gatherly/internal/models"
	"gatherly/internal/repository"
	"gatherly/internal/statsclient"
)

// StatsService merges the two view signals of an event: the confirmed
// participation counts from the request store and the hit aggregates from
// the external stats collector.
type StatsService struct {
	client      statsclient.StatsClient
	requestRepo repository.RequestRepository
	log         *slog.Logger
}

// NewStatsService creates a new stats aggregation service.
func NewStatsService(client statsclient.StatsClient, requestRepo repository.RequestRepository, logger *slog.Logger) *StatsService {
	return &StatsService{
		client:      client,
		requestRepo: requestRepo,
		log:         logger,
	}
}

// RecordHit registers a visit to a public endpoint, fire-and-forget.
func (s *StatsService) RecordHit(ctx context.Context, uri, ip string) {
	s.client.AddHit(ctx, uri, ip)
}

// Views returns the externally aggregated hit count per event id. Only
// published events are queried; the window spans from the earliest
// publication among them through now.
func (s *StatsService) Views(ctx context.Context, events []models.Event) map[uint]int64 {
	views := make(map[uint]int64)

	var start *time.Time
	uris := make([]string, 0, len(events))
	for _, event := range events {
		if event.PublishedOn == nil {
			continue
		}
		if start == nil || event.PublishedOn.Before(*start) {
			start = event.PublishedOn
		}
		uris = append(uris, eventURI(event.ID))
	}
	if start == nil {
		return views
	}

	stats, err := s.client.Stats(ctx, *start, time.Now(), uris, false)
	if err != nil {
		// External views are an enrichment; a collector outage must not
		// fail the read serving them.
		s.log.Warn("stats collector unavailable", slog.String("error", err.Error()))
		return views
	}

	for _, stat := range stats {
		id, ok := eventIDFromURI(stat.URI)
		if !ok {
			continue
		}
		views[id] += stat.Hits
	}
	return views
}

// ConfirmedCounts returns the confirmed-request count per event id, scoped
// to published events.
func (s *StatsService) ConfirmedCounts(ctx context.Context, events []models.Event) (map[uint]int64, error) {
	ids := make([]uint, 0, len(events))
	for _, event := range events {
		if event.PublishedOn != nil {
			ids = append(ids, event.ID)
		}
	}
	if len(ids) == 0 {
		return map[uint]int64{}, nil
	}
	return s.requestRepo.ConfirmedCounts(ctx, ids)
}

// EventURI renders the public URI under which an event's hits are recorded.
func EventURI(eventID uint) string {
	return eventURI(eventID)
}

func eventURI(eventID uint) string {
	return "/events/" + strconv.FormatUint(uint64(eventID), 10)
}

func eventIDFromURI(uri string) (uint, bool) {
	idx := strings.LastIndex(uri, "/")
	if idx < 0 || idx == len(uri)-1 {
		return 0, false
	}
	id, err := strconv.ParseUint(uri[idx+1:], 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}
