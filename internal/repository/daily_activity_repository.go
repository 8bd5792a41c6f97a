package repository

import (
	"errors"
	"time"

	"coding-profile-api/internal/models"

	"gorm.io/gorm"
)

type DailyActivityRepository interface {
	GetByDate(date time.Time) (*models.DailyActivity, error)
	Upsert(activity *models.DailyActivity) error
	ListSince(from time.Time) ([]*models.DailyActivity, error)
	ListRange(from, to time.Time) ([]*models.DailyActivity, error)
}

type dailyActivityRepository struct {
	db *gorm.DB
}

func NewDailyActivityRepository(db *gorm.DB) DailyActivityRepository {
	return &dailyActivityRepository{db: db}
}

func (r *dailyActivityRepository) GetByDate(date time.Time) (*models.DailyActivity, error) {
	var activity models.DailyActivity
	err := r.db.Where("date = ?", models.DateOnly(date)).First(&activity).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &activity, nil
}

// Upsert writes the record for its date key, replacing any existing row.
// The intensity level is recomputed by the model's BeforeSave hook.
func (r *dailyActivityRepository) Upsert(activity *models.DailyActivity) error {
	activity.Date = models.DateOnly(activity.Date)

	existing, err := r.GetByDate(activity.Date)
	if err != nil {
		return err
	}

	if existing == nil {
		return r.db.Create(activity).Error
	}

	activity.ID = existing.ID
	activity.CreatedAt = existing.CreatedAt
	return r.db.Save(activity).Error
}

func (r *dailyActivityRepository) ListSince(from time.Time) ([]*models.DailyActivity, error) {
	var activities []*models.DailyActivity
	err := r.db.
		Where("date >= ?", from).
		Order("date ASC").
		Find(&activities).Error

	return activities, err
}

func (r *dailyActivityRepository) ListRange(from, to time.Time) ([]*models.DailyActivity, error) {
	var activities []*models.DailyActivity
	err := r.db.
		Where("date >= ? AND date <= ?", from, to).
		Order("date ASC").
		Find(&activities).Error

	return activities, err
}
