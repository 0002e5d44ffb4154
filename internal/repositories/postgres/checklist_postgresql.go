package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/NutriFlow-2025/coaching-service/internal/models"
	"github.com/NutriFlow-2025/coaching-service/internal/repositories"
)

type ChecklistPostgreSQL struct {
	db *gorm.DB
}

func NewChecklistPostgreSQL(db *gorm.DB) repositories.ChecklistRepository {
	return &ChecklistPostgreSQL{db: db}
}

// Upsert writes the day's habits keyed by (username, date)
func (r *ChecklistPostgreSQL) Upsert(ctx context.Context, entry *models.ChecklistEntry) error {
	entry.Date = DateOnly(entry.Date)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "username"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"water", "cardio", "workout", "diet", "sleep", "updated_at"}),
		}).
		Create(entry).Error
	if err != nil {
		return fmt.Errorf("failed to upsert checklist entry: %w", err)
	}
	return nil
}

func (r *ChecklistPostgreSQL) GetByUserAndDate(ctx context.Context, username string, date time.Time) (*models.ChecklistEntry, error) {
	var entry models.ChecklistEntry
	err := r.db.WithContext(ctx).
		Where("username = ? AND date = ?", username, DateOnly(date)).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *ChecklistPostgreSQL) ListRecent(ctx context.Context, username string, since time.Time) ([]*models.ChecklistEntry, error) {
	var entries []*models.ChecklistEntry
	err := r.db.WithContext(ctx).
		Where("username = ? AND date >= ?", username, DateOnly(since)).
		Order("date DESC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list checklist entries: %w", err)
	}
	return entries, nil
}
