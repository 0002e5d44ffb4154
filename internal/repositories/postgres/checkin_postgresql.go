package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/NutriFlow-2025/coaching-service/internal/cache"
	"github.com/NutriFlow-2025/coaching-service/internal/models"
	"github.com/NutriFlow-2025/coaching-service/internal/repositories"
)

type CheckinPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewCheckinPostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.CheckinRepository {
	return &CheckinPostgreSQL{db: db, cacheManager: cacheManager}
}

func (r *CheckinPostgreSQL) Create(ctx context.Context, checkin *models.Checkin) error {
	checkin.SubmissionDate = DateOnly(checkin.SubmissionDate)
	if err := r.db.WithContext(ctx).Create(checkin).Error; err != nil {
		return fmt.Errorf("failed to create check-in: %w", err)
	}
	cache.InvalidateCheckinCache(ctx, r.cacheManager, checkin.Username)
	return nil
}

func (r *CheckinPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Checkin, error) {
	var checkin models.Checkin
	if err := r.db.WithContext(ctx).First(&checkin, id).Error; err != nil {
		return nil, err
	}
	return &checkin, nil
}

func (r *CheckinPostgreSQL) GetByUserAndDate(ctx context.Context, username string, date time.Time) (*models.Checkin, error) {
	var checkin models.Checkin
	err := r.db.WithContext(ctx).
		Where("username = ? AND submission_date = ?", username, DateOnly(date)).
		First(&checkin).Error
	if err != nil {
		return nil, err
	}
	return &checkin, nil
}

func (r *CheckinPostgreSQL) Update(ctx context.Context, checkin *models.Checkin) error {
	if err := r.db.WithContext(ctx).Save(checkin).Error; err != nil {
		return fmt.Errorf("failed to update check-in: %w", err)
	}
	cache.InvalidateCheckinCache(ctx, r.cacheManager, checkin.Username)
	return nil
}

func (r *CheckinPostgreSQL) ListByUser(ctx context.Context, username string, filters repositories.CheckinFilters) ([]*models.Checkin, error) {
	var checkins []*models.Checkin
	query := r.db.WithContext(ctx).Where("username = ?", username)
	query = ApplyCheckinFilters(query, filters)
	if err := query.Order("submission_date").Find(&checkins).Error; err != nil {
		return nil, fmt.Errorf("failed to list check-ins: %w", err)
	}
	return checkins, nil
}

func (r *CheckinPostgreSQL) ListPending(ctx context.Context, username string) ([]*models.Checkin, error) {
	var checkins []*models.Checkin
	query := r.db.WithContext(ctx).Where("status = ?", models.StatusPending)
	if username != "" {
		query = query.Where("username = ?", username)
	}
	if err := query.Order("submission_date").Find(&checkins).Error; err != nil {
		return nil, fmt.Errorf("failed to list pending check-ins: %w", err)
	}
	return checkins, nil
}

func (r *CheckinPostgreSQL) LastSubmissionDate(ctx context.Context, username string) (*time.Time, error) {
	var checkin models.Checkin
	err := r.db.WithContext(ctx).
		Where("username = ?", username).
		Order("submission_date DESC").
		First(&checkin).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get last submission date: %w", err)
	}
	date := checkin.SubmissionDate
	return &date, nil
}

func (r *CheckinPostgreSQL) UpdateStatus(ctx context.Context, id uint, status models.ReviewStatus) error {
	result := r.db.WithContext(ctx).
		Model(&models.Checkin{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update check-in status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *CheckinPostgreSQL) UpdateStatusByKey(ctx context.Context, username string, date time.Time, status models.ReviewStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Checkin{}).
		Where("username = ? AND submission_date = ?", username, DateOnly(date)).
		Update("status", status).Error
}
