package service

import (
	"context"
	"sort"
	"time"

	"gatherly/internal/models"
	"gatherly/internal/repository"
)

// Lead times required between an edit and the event start, per role.
const (
	adminEditLeadTime = 1 * time.Hour
	ownerEditLeadTime = 2 * time.Hour
)

// EventService owns the event lifecycle: creation, role-scoped updates with
// state transitions, and the admin/public search shapes.
type EventService struct {
	eventRepo    repository.EventRepository
	locationRepo repository.LocationRepository
	categoryRepo repository.CategoryRepository
	userRepo     repository.UserRepository
	stats        *StatsService
}

// NewEventService creates a new event service.
func NewEventService(
	eventRepo repository.EventRepository,
	locationRepo repository.LocationRepository,
	categoryRepo repository.CategoryRepository,
	userRepo repository.UserRepository,
	stats *StatsService,
) *EventService {
	return &EventService{
		eventRepo:    eventRepo,
		locationRepo: locationRepo,
		categoryRepo: categoryRepo,
		userRepo:     userRepo,
		stats:        stats,
	}
}

// LocationInput is a coordinate pair from a request payload.
type LocationInput struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// CreateEventInput is the payload for creating a new event.
type CreateEventInput struct {
	InitiatorID       uint
	Title             string
	Annotation        string
	Description       string
	CategoryID        uint
	Location          LocationInput
	EventDate         time.Time
	Paid              bool
	ParticipantLimit  int
	RequestModeration *bool
}

// UpdateEventInput carries the optional fields of a role-scoped event
// update. Admin and owner updates share the field set; the state action is
// interpreted per role.
type UpdateEventInput struct {
	Title             *string
	Annotation        *string
	Description       *string
	CategoryID        *uint
	Location          *LocationInput
	EventDate         *time.Time
	Paid              *bool
	ParticipantLimit  *int
	RequestModeration *bool
	StateAction       models.EventStateAction
}

// AdminSearchInput filters the admin event search.
type AdminSearchInput struct {
	Users      []uint
	States     []models.EventState
	Categories []uint
	RangeStart *time.Time
	RangeEnd   *time.Time
	From       int
	Size       int
}

// PublicSearchInput filters the public event search.
type PublicSearchInput struct {
	Text          string
	Categories    []uint
	Paid          *bool
	RangeStart    *time.Time
	RangeEnd      *time.Time
	OnlyAvailable bool
	Sort          models.EventSort
	From          int
	Size          int
	IP            string
	URI           string
}

// SearchByAdmin lists events matching the optional admin filters, enriched
// with confirmed-request counts. No implicit state restriction applies.
func (s *EventService) SearchByAdmin(ctx context.Context, in AdminSearchInput) ([]models.EventDetail, error) {
	if err := checkRange(in.RangeStart, in.RangeEnd); err != nil {
		return nil, err
	}

	events, err := s.eventRepo.AdminSearch(ctx, repository.AdminEventFilter{
		Users:      in.Users,
		States:     in.States,
		Categories: in.Categories,
		RangeStart: in.RangeStart,
		RangeEnd:   in.RangeEnd,
		From:       in.From,
		Size:       in.Size,
	})
	if err != nil {
		return nil, err
	}

	return s.toDetails(ctx, events)
}

// UpdateByAdmin applies an administrative event update. Publication and
// rejection are only legal while the event is PENDING.
func (s *EventService) UpdateByAdmin(ctx context.Context, eventID uint, in UpdateEventInput) (*models.EventDetail, error) {
	if err := checkEventDate(in.EventDate, adminEditLeadTime); err != nil {
		return nil, err
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if err := s.applyUpdate(ctx, event, in); err != nil {
		return nil, err
	}

	switch in.StateAction {
	case "":
	case models.StateActionPublishEvent:
		if event.State != models.EventStatePending {
			return nil, models.NewForbiddenError("Only pending events can be published")
		}
		now := time.Now()
		event.State = models.EventStatePublished
		event.PublishedOn = &now
	case models.StateActionRejectEvent:
		if event.State != models.EventStatePending {
			return nil, models.NewForbiddenError("Only pending events can be rejected")
		}
		event.State = models.EventStateRejected
	default:
		return nil, models.NewValidationError("Unknown state action: " + string(in.StateAction))
	}

	if err := s.eventRepo.Save(ctx, event); err != nil {
		return nil, err
	}
	return s.toDetail(ctx, event)
}

// ListByInitiator lists a user's own events.
func (s *EventService) ListByInitiator(ctx context.Context, userID uint, from, size int) ([]models.EventSummary, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	events, err := s.eventRepo.ListByInitiator(ctx, userID, size, pageOffset(from, size))
	if err != nil {
		return nil, err
	}
	return s.Summaries(ctx, events)
}

// Create registers a new event in PENDING state. The event date must be at
// least two hours away.
func (s *EventService) Create(ctx context.Context, in CreateEventInput) (*models.EventDetail, error) {
	if err := validateEventFields(in.Title, in.Annotation, in.Description); err != nil {
		return nil, err
	}
	if err := checkEventDate(&in.EventDate, ownerEditLeadTime); err != nil {
		return nil, err
	}
	if in.ParticipantLimit < 0 {
		return nil, models.NewValidationError("Participant limit must not be negative")
	}

	initiator, err := s.userRepo.GetByID(ctx, in.InitiatorID)
	if err != nil {
		return nil, err
	}
	category, err := s.categoryRepo.GetByID(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}
	location, err := s.locationRepo.GetOrCreate(ctx, in.Location.Lat, in.Location.Lon)
	if err != nil {
		return nil, err
	}

	moderation := true
	if in.RequestModeration != nil {
		moderation = *in.RequestModeration
	}

	event := &models.Event{
		Title:             in.Title,
		Annotation:        in.Annotation,
		Description:       in.Description,
		CategoryID:        category.ID,
		Category:          *category,
		InitiatorID:       initiator.ID,
		Initiator:         *initiator,
		LocationID:        location.ID,
		Location:          *location,
		EventDate:         in.EventDate,
		Paid:              in.Paid,
		ParticipantLimit:  in.ParticipantLimit,
		RequestModeration: moderation,
		State:             models.EventStatePending,
		CreatedOn:         time.Now(),
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}
	return s.toDetail(ctx, event)
}

// GetByInitiator returns one of the user's own events.
func (s *EventService) GetByInitiator(ctx context.Context, userID, eventID uint) (*models.EventDetail, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	event, err := s.eventRepo.GetByIDAndInitiator(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}
	return s.toDetail(ctx, event)
}

// UpdateByInitiator applies an owner update. Published events are not
// editable by their owner; the owner may resubmit for review or cancel.
func (s *EventService) UpdateByInitiator(ctx context.Context, userID, eventID uint, in UpdateEventInput) (*models.EventDetail, error) {
	if err := checkEventDate(in.EventDate, ownerEditLeadTime); err != nil {
		return nil, err
	}
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	event, err := s.eventRepo.GetByIDAndInitiator(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}

	if event.State == models.EventStatePublished {
		return nil, models.NewForbiddenError("Only unpublished or canceled events can be changed")
	}

	if err := s.applyUpdate(ctx, event, in); err != nil {
		return nil, err
	}

	switch in.StateAction {
	case "":
	case models.StateActionSendToReview:
		event.State = models.EventStatePending
	case models.StateActionCancelReview:
		event.State = models.EventStateCanceled
	default:
		return nil, models.NewValidationError("Unknown state action: " + string(in.StateAction))
	}

	if err := s.eventRepo.Save(ctx, event); err != nil {
		return nil, err
	}
	return s.toDetail(ctx, event)
}

// SearchPublic lists published events matching the public filters, records
// a hit, and bumps each returned event's local view counter.
func (s *EventService) SearchPublic(ctx context.Context, in PublicSearchInput) ([]models.EventSummary, error) {
	if err := checkRange(in.RangeStart, in.RangeEnd); err != nil {
		return nil, err
	}

	s.stats.RecordHit(ctx, in.URI, in.IP)

	events, err := s.eventRepo.PublicSearch(ctx, repository.PublicEventFilter{
		Text:       in.Text,
		Categories: in.Categories,
		Paid:       in.Paid,
		RangeStart: in.RangeStart,
		RangeEnd:   in.RangeEnd,
		From:       in.From,
		Size:       in.Size,
	})
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return []models.EventSummary{}, nil
	}

	ids := make([]uint, len(events))
	for i := range events {
		ids[i] = events[i].ID
		events[i].Views++
	}
	if err := s.eventRepo.BumpViews(ctx, ids); err != nil {
		return nil, err
	}

	summaries, err := s.Summaries(ctx, events)
	if err != nil {
		return nil, err
	}

	if in.OnlyAvailable {
		available := summaries[:0]
		for _, summary := range summaries {
			if summary.ParticipantLimit == 0 || int64(summary.ParticipantLimit) > summary.ConfirmedRequests {
				available = append(available, summary)
			}
		}
		summaries = available
	}

	switch in.Sort {
	case models.EventSortViews:
		sort.SliceStable(summaries, func(i, j int) bool {
			return summaries[i].Views < summaries[j].Views
		})
	case models.EventSortEventDate:
		sort.SliceStable(summaries, func(i, j int) bool {
			return summaries[i].EventDate.Before(summaries[j].EventDate)
		})
	}

	return summaries, nil
}

// GetPublic returns a published event by id, recording a hit and bumping
// the local view counter. Unpublished events are reported as not found.
func (s *EventService) GetPublic(ctx context.Context, eventID uint, ip string) (*models.EventDetail, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if event.State != models.EventStatePublished {
		return nil, models.NewNotFoundError("Published event", eventID)
	}

	s.stats.RecordHit(ctx, eventURI(eventID), ip)

	if err := s.eventRepo.BumpViews(ctx, []uint{eventID}); err != nil {
		return nil, err
	}
	event.Views++

	detail, err := s.toDetail(ctx, event)
	if err != nil {
		return nil, err
	}

	// Second view signal: the externally aggregated hit count. It is served
	// alongside the local counter, not reconciled with it.
	detail.Hits = s.stats.Views(ctx, []models.Event{*event})[eventID]

	return detail, nil
}

// GetByID returns a bare event for other services.
func (s *EventService) GetByID(ctx context.Context, eventID uint) (*models.Event, error) {
	return s.eventRepo.GetByID(ctx, eventID)
}

// EventsByIDs resolves a set of event ids, failing with NotFound when any
// id does not resolve.
func (s *EventService) EventsByIDs(ctx context.Context, ids []uint) ([]models.Event, error) {
	events, err := s.eventRepo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(events) != len(ids) {
		return nil, models.NewNotFoundError("Event", "in list")
	}
	return events, nil
}

// Summaries enriches events with their confirmed-request counts, ordered by
// ascending id.
func (s *EventService) Summaries(ctx context.Context, events []models.Event) ([]models.EventSummary, error) {
	confirmed, err := s.stats.ConfirmedCounts(ctx, events)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.EventSummary, 0, len(events))
	for _, event := range events {
		summaries = append(summaries, models.EventSummary{
			Event:             event,
			ConfirmedRequests: confirmed[event.ID],
		})
	}
	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].ID < summaries[j].ID
	})
	return summaries, nil
}

func (s *EventService) toDetails(ctx context.Context, events []models.Event) ([]models.EventDetail, error) {
	confirmed, err := s.stats.ConfirmedCounts(ctx, events)
	if err != nil {
		return nil, err
	}

	details := make([]models.EventDetail, 0, len(events))
	for _, event := range events {
		details = append(details, models.EventDetail{
			Event:             event,
			ConfirmedRequests: confirmed[event.ID],
		})
	}
	sort.SliceStable(details, func(i, j int) bool {
		return details[i].ID < details[j].ID
	})
	return details, nil
}

func (s *EventService) toDetail(ctx context.Context, event *models.Event) (*models.EventDetail, error) {
	details, err := s.toDetails(ctx, []models.Event{*event})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

// applyUpdate copies the optional update fields onto the event. Raising the
// participant limit below the current confirmed count is rejected.
func (s *EventService) applyUpdate(ctx context.Context, event *models.Event, in UpdateEventInput) error {
	if in.Title != nil {
		if err := checkLength("Title", *in.Title, minTitleLen, maxTitleLen); err != nil {
			return err
		}
		event.Title = *in.Title
	}
	if in.Annotation != nil {
		if err := checkLength("Annotation", *in.Annotation, minAnnotationLen, maxAnnotationLen); err != nil {
			return err
		}
		event.Annotation = *in.Annotation
	}
	if in.Description != nil {
		if err := checkLength("Description", *in.Description, minDescriptionLen, maxDescriptionLen); err != nil {
			return err
		}
		event.Description = *in.Description
	}
	if in.CategoryID != nil {
		category, err := s.categoryRepo.GetByID(ctx, *in.CategoryID)
		if err != nil {
			return err
		}
		event.CategoryID = category.ID
		event.Category = *category
	}
	if in.Location != nil {
		location, err := s.locationRepo.GetOrCreate(ctx, in.Location.Lat, in.Location.Lon)
		if err != nil {
			return err
		}
		event.LocationID = location.ID
		event.Location = *location
	}
	if in.EventDate != nil {
		event.EventDate = *in.EventDate
	}
	if in.Paid != nil {
		event.Paid = *in.Paid
	}
	if in.ParticipantLimit != nil {
		if *in.ParticipantLimit < 0 {
			return models.NewValidationError("Participant limit must not be negative")
		}
		confirmed, err := s.stats.ConfirmedCounts(ctx, []models.Event{*event})
		if err != nil {
			return err
		}
		if *in.ParticipantLimit != 0 && int64(*in.ParticipantLimit) < confirmed[event.ID] {
			return models.NewForbiddenError("New participant limit is below the confirmed request count")
		}
		event.ParticipantLimit = *in.ParticipantLimit
	}
	if in.RequestModeration != nil {
		event.RequestModeration = *in.RequestModeration
	}
	return nil
}

func checkRange(start, end *time.Time) error {
	if start != nil && end != nil && start.After(*end) {
		return models.NewValidationError("Range start must not be after range end")
	}
	return nil
}

func checkEventDate(eventDate *time.Time, leadTime time.Duration) error {
	if eventDate != nil && eventDate.Before(time.Now().Add(leadTime)) {
		return models.NewValidationError("Event date leaves too little time for preparation")
	}
	return nil
}
