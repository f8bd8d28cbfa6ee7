package repository

import (
	"context"
	"errors"

	"gatherly/internal/models"

	"gorm.io/gorm"
)

// RequestRepository defines the interface for participation request data
// operations.
type RequestRepository interface {
	Create(ctx context.Context, request *models.Request) error
	Save(ctx context.Context, request *models.Request) error
	GetByID(ctx context.Context, id uint) (*models.Request, error)
	ListByRequester(ctx context.Context, requesterID uint) ([]models.Request, error)
	ListByEvent(ctx context.Context, eventID uint) ([]models.Request, error)
	ListByIDs(ctx context.Context, ids []uint) ([]models.Request, error)
	ListByEventAndStatus(ctx context.Context, eventID uint, status models.RequestStatus) ([]models.Request, error)
	FindLiveByEventAndRequester(ctx context.Context, eventID, requesterID uint) (*models.Request, error)
	UpdateStatuses(ctx context.Context, ids []uint, status models.RequestStatus) error
	ConfirmedCounts(ctx context.Context, eventIDs []uint) (map[uint]int64, error)
}

type requestRepository struct {
	db *gorm.DB
}

// NewRequestRepository creates a new participation request repository
func NewRequestRepository(db *gorm.DB) RequestRepository {
	return &requestRepository{db: db}
}

func (r *requestRepository) Create(ctx context.Context, request *models.Request) error {
	if err := r.db.WithContext(ctx).Create(request).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *requestRepository) Save(ctx context.Context, request *models.Request) error {
	if err := r.db.WithContext(ctx).Save(request).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *requestRepository) GetByID(ctx context.Context, id uint) (*models.Request, error) {
	var request models.Request
	if err := r.db.WithContext(ctx).First(&request, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Request", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &request, nil
}

func (r *requestRepository) ListByRequester(ctx context.Context, requesterID uint) ([]models.Request, error) {
	var requests []models.Request
	err := r.db.WithContext(ctx).
		Where("requester_id = ?", requesterID).
		Order("id asc").
		Find(&requests).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return requests, nil
}

func (r *requestRepository) ListByEvent(ctx context.Context, eventID uint) ([]models.Request, error) {
	var requests []models.Request
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("id asc").
		Find(&requests).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return requests, nil
}

func (r *requestRepository) ListByIDs(ctx context.Context, ids []uint) ([]models.Request, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var requests []models.Request
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&requests).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return requests, nil
}

func (r *requestRepository) ListByEventAndStatus(ctx context.Context, eventID uint, status models.RequestStatus) ([]models.Request, error) {
	var requests []models.Request
	err := r.db.WithContext(ctx).
		Where("event_id = ? AND status = ?", eventID, status).
		Order("id asc").
		Find(&requests).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return requests, nil
}

// FindLiveByEventAndRequester returns the requester's non-canceled request
// for the event, or nil when none exists.
func (r *requestRepository) FindLiveByEventAndRequester(ctx context.Context, eventID, requesterID uint) (*models.Request, error) {
	var request models.Request
	err := r.db.WithContext(ctx).
		Where("event_id = ? AND requester_id = ? AND status <> ?", eventID, requesterID, models.RequestStatusCanceled).
		First(&request).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &request, nil
}

func (r *requestRepository) UpdateStatuses(ctx context.Context, ids []uint, status models.RequestStatus) error {
	if len(ids) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).
		Model(&models.Request{}).
		Where("id IN ?", ids).
		UpdateColumn("status", status).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// ConfirmedCounts returns the number of CONFIRMED requests per event for
// the given event ids. Events without confirmed requests are absent from
// the result.
func (r *requestRepository) ConfirmedCounts(ctx context.Context, eventIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64)
	if len(eventIDs) == 0 {
		return counts, nil
	}

	type row struct {
		EventID uint
		Total   int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&models.Request{}).
		Select("event_id, COUNT(*) AS total").
		Where("event_id IN ? AND status = ?", eventIDs, models.RequestStatusConfirmed).
		Group("event_id").
		Scan(&rows).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	for _, r := range rows {
		counts[r.EventID] = r.Total
	}
	return counts, nil
}
