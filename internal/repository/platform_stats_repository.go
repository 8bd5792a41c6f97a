package repository

import (
	"errors"

	"coding-profile-api/internal/models"

	"gorm.io/gorm"
)

type PlatformStatsRepository interface {
	GetByPlatform(platform string) (*models.PlatformStats, error)
	ListAll() ([]*models.PlatformStats, error)
	Upsert(stats *models.PlatformStats) error
	GetLastFetched() (*models.PlatformStats, error)
}

type platformStatsRepository struct {
	db *gorm.DB
}

func NewPlatformStatsRepository(db *gorm.DB) PlatformStatsRepository {
	return &platformStatsRepository{db: db}
}

func (r *platformStatsRepository) GetByPlatform(platform string) (*models.PlatformStats, error) {
	var stats models.PlatformStats
	err := r.db.Where("platform = ?", platform).First(&stats).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &stats, nil
}

func (r *platformStatsRepository) ListAll() ([]*models.PlatformStats, error) {
	var stats []*models.PlatformStats
	err := r.db.Order("platform ASC").Find(&stats).Error
	return stats, err
}

// Upsert writes the record for its platform key, replacing any existing
// row. Exactly one row per platform at any time.
func (r *platformStatsRepository) Upsert(stats *models.PlatformStats) error {
	existing, err := r.GetByPlatform(stats.Platform)
	if err != nil {
		return err
	}

	if existing == nil {
		return r.db.Create(stats).Error
	}

	stats.ID = existing.ID
	stats.CreatedAt = existing.CreatedAt
	return r.db.Save(stats).Error
}

// GetLastFetched returns the most recently fetched record, used by the
// health endpoint to report data freshness.
func (r *platformStatsRepository) GetLastFetched() (*models.PlatformStats, error) {
	var stats models.PlatformStats
	err := r.db.Order("last_fetched DESC").First(&stats).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &stats, nil
}
