package repository

import (
	"context"
	"errors"

	"gatherly/internal/models"

	"gorm.io/gorm"
)

// LocationRepository deduplicates event locations by coordinate pair.
type LocationRepository interface {
	GetOrCreate(ctx context.Context, lat, lon float64) (*models.Location, error)
}

type locationRepository struct {
	db *gorm.DB
}

// NewLocationRepository creates a new location repository
func NewLocationRepository(db *gorm.DB) LocationRepository {
	return &locationRepository{db: db}
}

func (r *locationRepository) GetOrCreate(ctx context.Context, lat, lon float64) (*models.Location, error) {
	var location models.Location
	err := r.db.WithContext(ctx).Where("lat = ? AND lon = ?", lat, lon).First(&location).Error
	if err == nil {
		return &location, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewInternalError(err)
	}

	location = models.Location{Lat: lat, Lon: lon}
	if err := r.db.WithContext(ctx).Create(&location).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return &location, nil
}
