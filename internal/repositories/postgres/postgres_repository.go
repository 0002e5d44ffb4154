package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/NutriFlow-2025/coaching-service/internal/cache"
	"github.com/NutriFlow-2025/coaching-service/internal/repositories"
)

// PostgreSQLRepository implements the main Repository interface
type PostgreSQLRepository struct {
	db           *gorm.DB
	redisClient  *redis.Client
	cacheManager *cache.CacheManager

	// Repository instances
	user      repositories.UserRepository
	checkin   repositories.CheckinRepository
	snackLog  repositories.SnackLogRepository
	question  repositories.QuestionRepository
	financial repositories.FinancialRepository
	notice    repositories.NoticeRepository
	video     repositories.VideoRepository
	partner   repositories.PartnerRepository
	checklist repositories.ChecklistRepository
}

// RepositoryConfig holds configuration for repository initialization
type RepositoryConfig struct {
	DB          *gorm.DB
	RedisClient *redis.Client
}

// NewPostgreSQLRepository creates a new repository with all sub-repositories
func NewPostgreSQLRepository(config RepositoryConfig) repositories.Repository {
	cacheManager := cache.NewCacheManager(config.RedisClient)

	repo := &PostgreSQLRepository{
		db:           config.DB,
		redisClient:  config.RedisClient,
		cacheManager: cacheManager,
	}

	repo.user = NewUserPostgreSQL(config.DB, cacheManager)
	repo.checkin = NewCheckinPostgreSQL(config.DB, cacheManager)
	repo.snackLog = NewSnackLogPostgreSQL(config.DB)
	repo.question = NewQuestionPostgreSQL(config.DB, cacheManager)
	repo.financial = NewFinancialPostgreSQL(config.DB)
	repo.notice = NewNoticePostgreSQL(config.DB)
	repo.video = NewVideoPostgreSQL(config.DB)
	repo.partner = NewPartnerPostgreSQL(config.DB)
	repo.checklist = NewChecklistPostgreSQL(config.DB)

	return repo
}

func (r *PostgreSQLRepository) User() repositories.UserRepository           { return r.user }
func (r *PostgreSQLRepository) Checkin() repositories.CheckinRepository     { return r.checkin }
func (r *PostgreSQLRepository) SnackLog() repositories.SnackLogRepository   { return r.snackLog }
func (r *PostgreSQLRepository) Question() repositories.QuestionRepository   { return r.question }
func (r *PostgreSQLRepository) Financial() repositories.FinancialRepository { return r.financial }
func (r *PostgreSQLRepository) Notice() repositories.NoticeRepository       { return r.notice }
func (r *PostgreSQLRepository) Video() repositories.VideoRepository         { return r.video }
func (r *PostgreSQLRepository) Partner() repositories.PartnerRepository     { return r.partner }
func (r *PostgreSQLRepository) Checklist() repositories.ChecklistRepository { return r.checklist }

// WithTransaction executes a function within a database transaction
func (r *PostgreSQLRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &PostgreSQLRepository{
			db:           tx,
			redisClient:  r.redisClient,
			cacheManager: r.cacheManager,
		}

		txRepo.user = NewUserPostgreSQL(tx, r.cacheManager)
		txRepo.checkin = NewCheckinPostgreSQL(tx, r.cacheManager)
		txRepo.snackLog = NewSnackLogPostgreSQL(tx)
		txRepo.question = NewQuestionPostgreSQL(tx, r.cacheManager)
		txRepo.financial = NewFinancialPostgreSQL(tx)
		txRepo.notice = NewNoticePostgreSQL(tx)
		txRepo.video = NewVideoPostgreSQL(tx)
		txRepo.partner = NewPartnerPostgreSQL(tx)
		txRepo.checklist = NewChecklistPostgreSQL(tx)

		return fn(txRepo)
	})
}

// Ping checks the health of database and cache connections
func (r *PostgreSQLRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	if r.redisClient != nil {
		if err := r.cacheManager.HealthCheck(ctx); err != nil {
			return fmt.Errorf("cache ping failed: %w", err)
		}
	}

	return nil
}

// Close closes all connections
func (r *PostgreSQLRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	if r.redisClient != nil {
		if err := r.redisClient.Close(); err != nil {
			return fmt.Errorf("failed to close Redis: %w", err)
		}
	}

	return nil
}

// RepositoryManager implements the RepositoryManager interface
type RepositoryManager struct {
	config RepositoryConfig
	repo   repositories.Repository
}

// NewRepositoryManager creates a new repository manager
func NewRepositoryManager(config RepositoryConfig) repositories.RepositoryManager {
	return &RepositoryManager{
		config: config,
	}
}

// Initialize initializes all repositories and connections
func (rm *RepositoryManager) Initialize() error {
	if rm.config.DB == nil {
		return fmt.Errorf("database connection is required")
	}

	sqlDB, err := rm.config.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}

	if rm.config.RedisClient != nil {
		if _, err := rm.config.RedisClient.Ping(ctx).Result(); err != nil {
			return fmt.Errorf("Redis connection failed: %w", err)
		}
	}

	rm.repo = NewPostgreSQLRepository(rm.config)

	return nil
}

// GetRepository returns the repository instance
func (rm *RepositoryManager) GetRepository() repositories.Repository {
	return rm.repo
}

// HealthCheck checks the health of all repository connections
func (rm *RepositoryManager) HealthCheck(ctx context.Context) error {
	if rm.repo == nil {
		return fmt.Errorf("repository not initialized")
	}

	return rm.repo.Ping(ctx)
}

// Shutdown gracefully shuts down all repository connections
func (rm *RepositoryManager) Shutdown(ctx context.Context) error {
	if rm.repo == nil {
		return nil
	}

	return rm.repo.Close()
}
