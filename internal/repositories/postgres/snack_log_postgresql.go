package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/NutriFlow-2025/coaching-service/internal/models"
	"github.com/NutriFlow-2025/coaching-service/internal/repositories"
)

type SnackLogPostgreSQL struct {
	db *gorm.DB
}

func NewSnackLogPostgreSQL(db *gorm.DB) repositories.SnackLogRepository {
	return &SnackLogPostgreSQL{db: db}
}

func (r *SnackLogPostgreSQL) Create(ctx context.Context, log *models.SnackLog) error {
	log.Date = DateOnly(log.Date)
	if err := r.db.WithContext(ctx).Create(log).Error; err != nil {
		return fmt.Errorf("failed to create snack log: %w", err)
	}
	return nil
}

func (r *SnackLogPostgreSQL) GetByID(ctx context.Context, id uint) (*models.SnackLog, error) {
	var log models.SnackLog
	if err := r.db.WithContext(ctx).First(&log, id).Error; err != nil {
		return nil, err
	}
	return &log, nil
}

func (r *SnackLogPostgreSQL) ListByUser(ctx context.Context, username string) ([]*models.SnackLog, error) {
	var logs []*models.SnackLog
	err := r.db.WithContext(ctx).
		Where("username = ?", username).
		Order("date DESC, id DESC").
		Find(&logs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list snack logs: %w", err)
	}
	return logs, nil
}

func (r *SnackLogPostgreSQL) ListPending(ctx context.Context, username string) ([]*models.SnackLog, error) {
	var logs []*models.SnackLog
	query := r.db.WithContext(ctx).Where("status = ?", models.StatusPending)
	if username != "" {
		query = query.Where("username = ?", username)
	}
	if err := query.Order("date, id").Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("failed to list pending snack logs: %w", err)
	}
	return logs, nil
}

func (r *SnackLogPostgreSQL) PendingUsernames(ctx context.Context) ([]string, error) {
	var usernames []string
	err := r.db.WithContext(ctx).
		Model(&models.SnackLog{}).
		Where("status = ?", models.StatusPending).
		Distinct("username").
		Order("username").
		Pluck("username", &usernames).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list pending usernames: %w", err)
	}
	return usernames, nil
}

// MarkAllReviewed flips every pending row for the user in one statement.
// Returns the number of rows changed; zero when nothing was pending.
func (r *SnackLogPostgreSQL) MarkAllReviewed(ctx context.Context, username string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.SnackLog{}).
		Where("username = ? AND status = ?", username, models.StatusPending).
		Update("status", models.StatusReviewed)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to mark snack logs reviewed: %w", result.Error)
	}
	return result.RowsAffected, nil
}
