package repository

import (
	"context"
	"errors"

	"gatherly/internal/models"

	"gorm.io/gorm"
)

// CompilationRepository defines the interface for curated event compilation
// data operations.
type CompilationRepository interface {
	Create(ctx context.Context, compilation *models.Compilation) error
	Save(ctx context.Context, compilation *models.Compilation) error
	ReplaceEvents(ctx context.Context, compilation *models.Compilation, events []models.Event) error
	GetByID(ctx context.Context, id uint) (*models.Compilation, error)
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, pinned *bool, limit, offset int) ([]models.Compilation, error)
}

type compilationRepository struct {
	db *gorm.DB
}

// NewCompilationRepository creates a new compilation repository
func NewCompilationRepository(db *gorm.DB) CompilationRepository {
	return &compilationRepository{db: db}
}

func (r *compilationRepository) withEvents(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Events").
		Preload("Events.Category").
		Preload("Events.Initiator").
		Preload("Events.Location")
}

func (r *compilationRepository) Create(ctx context.Context, compilation *models.Compilation) error {
	if err := r.db.WithContext(ctx).Create(compilation).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *compilationRepository) Save(ctx context.Context, compilation *models.Compilation) error {
	if err := r.db.WithContext(ctx).Omit("Events").Save(compilation).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *compilationRepository) ReplaceEvents(ctx context.Context, compilation *models.Compilation, events []models.Event) error {
	err := r.db.WithContext(ctx).
		Model(compilation).
		Association("Events").
		Replace(events)
	if err != nil {
		return models.NewInternalError(err)
	}
	compilation.Events = events
	return nil
}

func (r *compilationRepository) GetByID(ctx context.Context, id uint) (*models.Compilation, error) {
	var compilation models.Compilation
	if err := r.withEvents(ctx).First(&compilation, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Compilation", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &compilation, nil
}

func (r *compilationRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Select("Events").Delete(&models.Compilation{ID: id}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *compilationRepository) List(ctx context.Context, pinned *bool, limit, offset int) ([]models.Compilation, error) {
	q := r.withEvents(ctx).Order("id asc").Limit(limit).Offset(offset)
	if pinned != nil {
		q = q.Where("pinned = ?", *pinned)
	}

	var compilations []models.Compilation
	if err := q.Find(&compilations).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return compilations, nil
}
