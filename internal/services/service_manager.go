package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/NutriFlow-2025/coaching-service/internal/cache"
	"github.com/NutriFlow-2025/coaching-service/internal/events"
	"github.com/NutriFlow-2025/coaching-service/internal/messaging"
	"github.com/NutriFlow-2025/coaching-service/internal/repositories"
	"github.com/NutriFlow-2025/coaching-service/internal/validator"
)

// ServiceManager wires and owns all domain services
type ServiceManager interface {
	Cadence() CadenceService
	Checkin() CheckinService
	SnackLog() SnackLogService
	Review() ReviewService
	Outreach() OutreachService
	User() UserService
	Question() QuestionService
	Content() ContentService
	Checklist() ChecklistService
	Financial() FinancialService
	Substitution() SubstitutionService

	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// ServiceManagerConfig holds the cross-service settings
type ServiceManagerConfig struct {
	DefaultTimeout time.Duration
	FoodTablePath  string

	// SeedQuestions installs the default question schema on first boot
	SeedQuestions bool
}

type serviceManager struct {
	db        *gorm.DB
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
	whatsapp  messaging.WhatsAppClient
	caches    *cache.CacheManager
	config    ServiceManagerConfig

	cadenceService      CadenceService
	checkinService      CheckinService
	snackLogService     SnackLogService
	reviewService       ReviewService
	outreachService     OutreachService
	userService         UserService
	questionService     QuestionService
	contentService      ContentService
	checklistService    ChecklistService
	financialService    FinancialService
	substitutionService SubstitutionService

	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

// NewServiceManager creates a service manager with explicit configuration
func NewServiceManager(db *gorm.DB, repo repositories.Repository, logger *slog.Logger, v *validator.Validator, publisher events.EventPublisher, whatsapp messaging.WhatsAppClient, caches *cache.CacheManager, config ServiceManagerConfig) ServiceManager {
	return &serviceManager{
		db:        db,
		repo:      repo,
		logger:    logger,
		validator: v,
		publisher: publisher,
		whatsapp:  whatsapp,
		caches:    caches,
		config:    config,
	}
}

// NewDefaultServiceManager creates a service manager with default configuration
func NewDefaultServiceManager(db *gorm.DB, repo repositories.Repository, logger *slog.Logger, v *validator.Validator, publisher events.EventPublisher, whatsapp messaging.WhatsAppClient, caches *cache.CacheManager, foodTablePath string) ServiceManager {
	config := ServiceManagerConfig{
		DefaultTimeout: 30 * time.Second,
		FoodTablePath:  foodTablePath,
		SeedQuestions:  true,
	}
	return NewServiceManager(db, repo, logger, v, publisher, whatsapp, caches, config)
}

// Initialize builds all services and seeds the question schema when empty
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	sm.logger.Info("Initializing service manager")

	sm.cadenceService = NewCadenceService(sm.repo, sm.logger)
	sm.checkinService = NewCheckinService(sm.repo, sm.db, sm.logger, sm.validator, sm.publisher, sm.caches)
	sm.snackLogService = NewSnackLogService(sm.repo, sm.logger, sm.validator, sm.publisher)
	sm.reviewService = NewReviewService(sm.repo, sm.logger, sm.publisher)
	sm.outreachService = NewOutreachService(sm.repo, sm.logger, sm.whatsapp, sm.publisher, sm.caches)
	sm.userService = NewUserService(sm.repo, sm.logger, sm.validator, sm.publisher, sm.caches)
	sm.questionService = NewQuestionService(sm.repo, sm.logger, sm.validator)
	sm.contentService = NewContentService(sm.repo, sm.logger, sm.validator)
	sm.checklistService = NewChecklistService(sm.repo, sm.logger)
	sm.financialService = NewFinancialService(sm.repo, sm.logger, sm.validator)
	sm.substitutionService = NewSubstitutionService(sm.logger, sm.validator, sm.config.FoodTablePath)

	if sm.config.SeedQuestions {
		if err := sm.questionService.SeedDefaults(ctx); err != nil {
			return fmt.Errorf("failed to seed question schema: %w", err)
		}
	}

	sm.initialized = true
	sm.logger.Info("Service manager initialized successfully")

	return nil
}

func (sm *serviceManager) get(name string, ready bool) {
	if !sm.initialized {
		panic("service manager not initialized")
	}
	if !ready {
		panic(name + " service not initialized")
	}
}

func (sm *serviceManager) Cadence() CadenceService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.get("cadence", sm.cadenceService != nil)
	return sm.cadenceService
}

func (sm *serviceManager) Checkin() CheckinService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.get("checkin", sm.checkinService != nil)
	return sm.checkinService
}

func (sm *serviceManager) SnackLog() SnackLogService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.get("snack log", sm.snackLogService != nil)
	return sm.snackLogService
}

func (sm *serviceManager) Review() ReviewService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.get("review", sm.reviewService != nil)
	return sm.reviewService
}

func (sm *serviceManager) Outreach() OutreachService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.get("outreach", sm.outreachService != nil)
	return sm.outreachService
}

func (sm *serviceManager) User() UserService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.get("user", sm.userService != nil)
	return sm.userService
}

func (sm *serviceManager) Question() QuestionService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.get("question", sm.questionService != nil)
	return sm.questionService
}

func (sm *serviceManager) Content() ContentService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.get("content", sm.contentService != nil)
	return sm.contentService
}

func (sm *serviceManager) Checklist() ChecklistService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.get("checklist", sm.checklistService != nil)
	return sm.checklistService
}

func (sm *serviceManager) Financial() FinancialService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.get("financial", sm.financialService != nil)
	return sm.financialService
}

func (sm *serviceManager) Substitution() SubstitutionService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.get("substitution", sm.substitutionService != nil)
	return sm.substitutionService
}

func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return fmt.Errorf("service manager not initialized")
	}
	if sm.shutdown {
		return fmt.Errorf("service manager is shut down")
	}

	if err := sm.repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository health check failed: %w", err)
	}

	return nil
}

func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}

	sm.logger.Info("Shutting down service manager")

	if sm.publisher != nil {
		if err := sm.publisher.Close(); err != nil {
			sm.logger.Error("Failed to close event publisher", "error", err)
		}
	}

	sm.shutdown = true
	sm.logger.Info("Service manager shut down completed")

	return nil
}
