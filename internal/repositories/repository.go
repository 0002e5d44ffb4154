package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// Repository aggregates all repository interfaces
type Repository interface {
	// People
	User() UserRepository

	// Check-in domain
	Checkin() CheckinRepository
	SnackLog() SnackLogRepository
	Question() QuestionRepository

	// Supporting domains
	Financial() FinancialRepository
	Notice() NoticeRepository
	Video() VideoRepository
	Partner() PartnerRepository
	Checklist() ChecklistRepository

	// Transaction support
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}

// IsNotFound reports whether err is a missing-record error
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// RepositoryManager interface for managing repository lifecycle
type RepositoryManager interface {
	// Initialize repositories with database connections
	Initialize() error

	// Get repository instance
	GetRepository() Repository

	// Health check for all repositories
	HealthCheck(ctx context.Context) error

	// Graceful shutdown
	Shutdown(ctx context.Context) error
}
