package stats

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Repository persists hits and serves aggregate counts.
type Repository interface {
	SaveHit(ctx context.Context, appName, uri, ip string, timestamp time.Time) error
	Aggregate(ctx context.Context, start, end time.Time, uris []string, unique bool) ([]ViewStats, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a new stats repository.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// Migrate creates the collector's tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&App{}, &Hit{}); err != nil {
		return fmt.Errorf("failed to migrate stats schema: %w", err)
	}
	return nil
}

func (r *gormRepository) SaveHit(ctx context.Context, appName, uri, ip string, timestamp time.Time) error {
	app := App{Name: appName}
	if err := r.db.WithContext(ctx).Where("name = ?", appName).FirstOrCreate(&app).Error; err != nil {
		return err
	}

	hit := Hit{
		AppID:     app.ID,
		URI:       uri,
		IP:        ip,
		Timestamp: timestamp,
	}
	return r.db.WithContext(ctx).Create(&hit).Error
}

func (r *gormRepository) Aggregate(ctx context.Context, start, end time.Time, uris []string, unique bool) ([]ViewStats, error) {
	countExpr := "COUNT(hits.ip)"
	if unique {
		countExpr = "COUNT(DISTINCT hits.ip)"
	}

	q := r.db.WithContext(ctx).
		Model(&Hit{}).
		Select("apps.name AS app, hits.uri AS uri, "+countExpr+" AS hits").
		Joins("JOIN apps ON apps.id = hits.app_id").
		Where("hits.timestamp BETWEEN ? AND ?", start, end).
		Group("apps.name, hits.uri").
		Order("hits DESC")
	if len(uris) > 0 {
		q = q.Where("hits.uri IN ?", uris)
	}

	var result []ViewStats
	if err := q.Scan(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}
