package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gatherly/internal/models"

	"gorm.io/gorm"
)

// AdminEventFilter is the optional-predicate filter for the admin event
// search. Every zero/nil field is simply left out of the query; there is no
// implicit state restriction.
type AdminEventFilter struct {
	Users      []uint
	States     []models.EventState
	Categories []uint
	RangeStart *time.Time
	RangeEnd   *time.Time
	From       int
	Size       int
}

// PublicEventFilter is the optional-predicate filter for the public event
// search. The query always restricts to PUBLISHED events; when both range
// bounds are absent it defaults to events starting from now.
type PublicEventFilter struct {
	Text       string
	Categories []uint
	Paid       *bool
	RangeStart *time.Time
	RangeEnd   *time.Time
	From       int
	Size       int
}

// EventRepository defines the interface for event data operations
type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	Save(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id uint) (*models.Event, error)
	GetByIDAndInitiator(ctx context.Context, id, initiatorID uint) (*models.Event, error)
	ListByInitiator(ctx context.Context, initiatorID uint, limit, offset int) ([]models.Event, error)
	ListByIDs(ctx context.Context, ids []uint) ([]models.Event, error)
	AdminSearch(ctx context.Context, filter AdminEventFilter) ([]models.Event, error)
	PublicSearch(ctx context.Context, filter PublicEventFilter) ([]models.Event, error)
	BumpViews(ctx context.Context, ids []uint) error
}

type eventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) withAssociations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Category").
		Preload("Initiator").
		Preload("Location")
}

func (r *eventRepository) Create(ctx context.Context, event *models.Event) error {
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *eventRepository) Save(ctx context.Context, event *models.Event) error {
	if err := r.db.WithContext(ctx).Save(event).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id uint) (*models.Event, error) {
	var event models.Event
	if err := r.withAssociations(ctx).First(&event, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Event", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &event, nil
}

func (r *eventRepository) GetByIDAndInitiator(ctx context.Context, id, initiatorID uint) (*models.Event, error) {
	var event models.Event
	err := r.withAssociations(ctx).
		Where("initiator_id = ?", initiatorID).
		First(&event, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Event", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &event, nil
}

func (r *eventRepository) ListByInitiator(ctx context.Context, initiatorID uint, limit, offset int) ([]models.Event, error) {
	var events []models.Event
	err := r.withAssociations(ctx).
		Where("initiator_id = ?", initiatorID).
		Order("id asc").
		Limit(limit).
		Offset(offset).
		Find(&events).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return events, nil
}

func (r *eventRepository) ListByIDs(ctx context.Context, ids []uint) ([]models.Event, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var events []models.Event
	if err := r.withAssociations(ctx).Where("id IN ?", ids).Find(&events).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return events, nil
}

func (r *eventRepository) AdminSearch(ctx context.Context, filter AdminEventFilter) ([]models.Event, error) {
	q := r.withAssociations(ctx)

	if len(filter.Users) > 0 {
		q = q.Where("initiator_id IN ?", filter.Users)
	}
	if len(filter.States) > 0 {
		q = q.Where("state IN ?", filter.States)
	}
	if len(filter.Categories) > 0 {
		q = q.Where("category_id IN ?", filter.Categories)
	}
	if filter.RangeStart != nil {
		q = q.Where("event_date >= ?", *filter.RangeStart)
	}
	if filter.RangeEnd != nil {
		q = q.Where("event_date <= ?", *filter.RangeEnd)
	}

	var events []models.Event
	err := q.Order("id asc").
		Offset(filter.From).
		Limit(filter.Size).
		Find(&events).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return events, nil
}

func (r *eventRepository) PublicSearch(ctx context.Context, filter PublicEventFilter) ([]models.Event, error) {
	q := r.withAssociations(ctx).Where("state = ?", models.EventStatePublished)

	if text := strings.TrimSpace(filter.Text); text != "" {
		pattern := "%" + strings.ToLower(text) + "%"
		q = q.Where("(LOWER(annotation) LIKE ? OR LOWER(description) LIKE ?)", pattern, pattern)
	}
	if len(filter.Categories) > 0 {
		q = q.Where("category_id IN ?", filter.Categories)
	}
	if filter.Paid != nil {
		q = q.Where("paid = ?", *filter.Paid)
	}
	if filter.RangeStart == nil && filter.RangeEnd == nil {
		q = q.Where("event_date >= ?", time.Now())
	} else {
		if filter.RangeStart != nil {
			q = q.Where("event_date >= ?", *filter.RangeStart)
		}
		if filter.RangeEnd != nil {
			q = q.Where("event_date <= ?", *filter.RangeEnd)
		}
	}

	var events []models.Event
	err := q.Order("id asc").
		Offset(filter.From).
		Limit(filter.Size).
		Find(&events).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return events, nil
}

// BumpViews increments the local view counter of every listed event in one
// statement. Reads of public endpoints call this as a deliberate
// write-on-read side effect.
func (r *eventRepository) BumpViews(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).
		Model(&models.Event{}).
		Where("id IN ?", ids).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
