package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/NutriFlow-2025/coaching-service/internal/models"
	"github.com/NutriFlow-2025/coaching-service/internal/repositories"
)

type FinancialPostgreSQL struct {
	db *gorm.DB
}

func NewFinancialPostgreSQL(db *gorm.DB) repositories.FinancialRepository {
	return &FinancialPostgreSQL{db: db}
}

func (r *FinancialPostgreSQL) Create(ctx context.Context, entry *models.FinancialEntry) error {
	entry.Date = DateOnly(entry.Date)
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to create financial entry: %w", err)
	}
	return nil
}

func (r *FinancialPostgreSQL) GetByID(ctx context.Context, id uint) (*models.FinancialEntry, error) {
	var entry models.FinancialEntry
	if err := r.db.WithContext(ctx).First(&entry, id).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *FinancialPostgreSQL) Update(ctx context.Context, entry *models.FinancialEntry) error {
	if err := r.db.WithContext(ctx).Save(entry).Error; err != nil {
		return fmt.Errorf("failed to update financial entry: %w", err)
	}
	return nil
}

func (r *FinancialPostgreSQL) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.FinancialEntry{}, id).Error
}

func (r *FinancialPostgreSQL) List(ctx context.Context, filters repositories.FinancialFilters) ([]*models.FinancialEntry, error) {
	var entries []*models.FinancialEntry
	query := ApplyFinancialFilters(r.db.WithContext(ctx).Model(&models.FinancialEntry{}), filters)
	if err := query.Order("date DESC, id DESC").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to list financial entries: %w", err)
	}
	return entries, nil
}

func (r *FinancialPostgreSQL) SumByType(ctx context.Context, entryType models.EntryType, filters repositories.FinancialFilters) (float64, error) {
	filters.Type = &entryType
	var total float64
	query := ApplyFinancialFilters(r.db.WithContext(ctx).Model(&models.FinancialEntry{}), filters)
	err := query.Select("COALESCE(SUM(amount), 0)").Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum financial entries: %w", err)
	}
	return total, nil
}

func (r *FinancialPostgreSQL) SumByCategory(ctx context.Context, entryType models.EntryType, category string, filters repositories.FinancialFilters) (float64, error) {
	filters.Type = &entryType
	var total float64
	query := ApplyFinancialFilters(r.db.WithContext(ctx).Model(&models.FinancialEntry{}), filters)
	err := query.Where("category = ?", category).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum category: %w", err)
	}
	return total, nil
}
