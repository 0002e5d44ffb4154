package postgres

import (
	"time"

	"gorm.io/gorm"

	"github.com/NutriFlow-2025/coaching-service/internal/repositories"
)

// DateOnly truncates a timestamp to its calendar day in local time
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ApplyCheckinFilters applies common filters to check-in queries
func ApplyCheckinFilters(query *gorm.DB, filters repositories.CheckinFilters) *gorm.DB {
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.DateFrom != nil {
		query = query.Where("submission_date >= ?", DateOnly(*filters.DateFrom))
	}
	if filters.DateTo != nil {
		query = query.Where("submission_date <= ?", DateOnly(*filters.DateTo))
	}
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}
	return query
}

// ApplyFinancialFilters applies year/month/type filters to financial queries
func ApplyFinancialFilters(query *gorm.DB, filters repositories.FinancialFilters) *gorm.DB {
	if filters.Type != nil {
		query = query.Where("type = ?", *filters.Type)
	}
	if filters.Year != nil {
		query = query.Where("EXTRACT(YEAR FROM date) = ?", *filters.Year)
	}
	if filters.Month != nil {
		query = query.Where("EXTRACT(MONTH FROM date) = ?", *filters.Month)
	}
	return query
}

// ApplyUserFilters applies common filters to user queries
func ApplyUserFilters(query *gorm.DB, filters repositories.UserFilters) *gorm.DB {
	if filters.Role != nil {
		query = query.Where("role = ?", *filters.Role)
	}
	if filters.Active != nil {
		query = query.Where("active = ?", *filters.Active)
	}
	if filters.Query != "" {
		like := "%" + filters.Query + "%"
		query = query.Where("username ILIKE ? OR name ILIKE ?", like, like)
	}
	return query
}
