package service

import (
	"context"
	"time"

	"gatherly/internal/models"
	"gatherly/internal/repository"
)

// RequestService is the admission engine for participation requests:
// creation against published events, requester-side cancellation, and the
// owner's batch confirm/reject workflow under the participant limit.
type RequestService struct {
	requestRepo repository.RequestRepository
	eventRepo   repository.EventRepository
	userRepo    repository.UserRepository
	stats       *StatsService
}

// NewRequestService creates a new participation request service.
func NewRequestService(
	requestRepo repository.RequestRepository,
	eventRepo repository.EventRepository,
	userRepo repository.UserRepository,
	stats *StatsService,
) *RequestService {
	return &RequestService{
		requestRepo: requestRepo,
		eventRepo:   eventRepo,
		userRepo:    userRepo,
		stats:       stats,
	}
}

// ListByRequester lists a user's requests to participate in other users'
// events.
func (s *RequestService) ListByRequester(ctx context.Context, userID uint) ([]models.Request, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.requestRepo.ListByRequester(ctx, userID)
}

// Create files a participation request. The requester must not be the
// initiator, the event must be published, no live duplicate may exist, and
// a non-zero participant limit must not be exhausted. The request is
// auto-confirmed when moderation is off or the limit is zero.
func (s *RequestService) Create(ctx context.Context, userID, eventID uint) (*models.Request, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if event.InitiatorID == userID {
		return nil, models.NewForbiddenError("You cannot request participation in your own event")
	}
	if event.State != models.EventStatePublished {
		return nil, models.NewForbiddenError("You cannot request participation in an unpublished event")
	}

	existing, err := s.requestRepo.FindLiveByEventAndRequester(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewForbiddenError("A request for this event already exists")
	}

	confirmed, err := s.stats.ConfirmedCounts(ctx, []models.Event{*event})
	if err != nil {
		return nil, err
	}
	if err := checkLimit(confirmed[eventID]+1, event.ParticipantLimit); err != nil {
		return nil, err
	}

	request := &models.Request{
		EventID:     event.ID,
		RequesterID: user.ID,
		Created:     time.Now(),
		Status:      models.RequestStatusPending,
	}
	if !event.RequestModeration || event.ParticipantLimit == 0 {
		request.Status = models.RequestStatusConfirmed
	}

	if err := s.requestRepo.Create(ctx, request); err != nil {
		return nil, err
	}
	return request, nil
}

// Cancel sets the requester's own request to CANCELED. Only ownership is
// checked; a confirmed request may be canceled as well.
func (s *RequestService) Cancel(ctx context.Context, userID, requestID uint) (*models.Request, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.RequesterID != userID {
		return nil, models.NewForbiddenError("User is not the owner of the request")
	}

	request.Status = models.RequestStatusCanceled
	if err := s.requestRepo.Save(ctx, request); err != nil {
		return nil, err
	}
	return request, nil
}

// ListByEventOwner lists all requests for one of the owner's events.
func (s *RequestService) ListByEventOwner(ctx context.Context, userID, eventID uint) ([]models.Request, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.InitiatorID != userID {
		return nil, models.NewForbiddenError("User is not the owner of the event")
	}

	return s.requestRepo.ListByEvent(ctx, eventID)
}

// UpdateStatuses applies the owner's batch confirm/reject decision. The
// whole batch is validated before anything is written: every id must
// resolve and every resolved request must still be PENDING. Confirming up
// to the participant limit auto-rejects every remaining pending request.
func (s *RequestService) UpdateStatuses(ctx context.Context, userID, eventID uint, in models.RequestStatusUpdate) (*models.RequestStatusResult, error) {
	if in.Status != models.RequestStatusConfirmed && in.Status != models.RequestStatusRejected {
		return nil, models.NewValidationError("Status must be CONFIRMED or REJECTED")
	}

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.InitiatorID != userID {
		return nil, models.NewForbiddenError("User is not the owner of the event")
	}

	result := &models.RequestStatusResult{
		ConfirmedRequests: []models.Request{},
		RejectedRequests:  []models.Request{},
	}

	// Without moderation or a limit every request was auto-confirmed at
	// creation; there is nothing to decide.
	if !event.RequestModeration || event.ParticipantLimit == 0 || len(in.RequestIDs) == 0 {
		return result, nil
	}

	requests, err := s.requestRepo.ListByIDs(ctx, in.RequestIDs)
	if err != nil {
		return nil, err
	}
	if len(requests) != len(in.RequestIDs) {
		return nil, models.NewNotFoundError("Request", "in list")
	}
	for _, request := range requests {
		if request.Status != models.RequestStatusPending {
			return nil, models.NewForbiddenError("Only pending requests can be updated")
		}
	}

	if in.Status == models.RequestStatusRejected {
		rejected, err := s.transition(ctx, requests, models.RequestStatusRejected)
		if err != nil {
			return nil, err
		}
		result.RejectedRequests = rejected
		return result, nil
	}

	confirmed, err := s.stats.ConfirmedCounts(ctx, []models.Event{*event})
	if err != nil {
		return nil, err
	}
	newConfirmed := confirmed[eventID] + int64(len(in.RequestIDs))
	if err := checkLimit(newConfirmed, event.ParticipantLimit); err != nil {
		return nil, err
	}

	confirmedRequests, err := s.transition(ctx, requests, models.RequestStatusConfirmed)
	if err != nil {
		return nil, err
	}
	result.ConfirmedRequests = confirmedRequests

	// Cascade rejection: once the limit is reached there is no room left
	// for any still-pending request.
	if newConfirmed >= int64(event.ParticipantLimit) {
		pending, err := s.requestRepo.ListByEventAndStatus(ctx, eventID, models.RequestStatusPending)
		if err != nil {
			return nil, err
		}
		rejected, err := s.transition(ctx, pending, models.RequestStatusRejected)
		if err != nil {
			return nil, err
		}
		result.RejectedRequests = rejected
	}

	return result, nil
}

func (s *RequestService) transition(ctx context.Context, requests []models.Request, status models.RequestStatus) ([]models.Request, error) {
	if len(requests) == 0 {
		return []models.Request{}, nil
	}

	ids := make([]uint, len(requests))
	for i := range requests {
		ids[i] = requests[i].ID
		requests[i].Status = status
	}
	if err := s.requestRepo.UpdateStatuses(ctx, ids, status); err != nil {
		return nil, err
	}
	return requests, nil
}

func checkLimit(newConfirmed int64, participantLimit int) error {
	if participantLimit != 0 && newConfirmed > int64(participantLimit) {
		return models.NewForbiddenError("The confirmed participation request limit has been reached")
	}
	return nil
}
