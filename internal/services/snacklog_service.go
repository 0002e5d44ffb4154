package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/NutriFlow-2025/coaching-service/internal/events"
	"github.com/NutriFlow-2025/coaching-service/internal/models"
	"github.com/NutriFlow-2025/coaching-service/internal/repositories"
	"github.com/NutriFlow-2025/coaching-service/internal/validator"
)

// ===== SERVICE INTERFACE =====

// SnackLogService records off-plan eating episodes. Unlike check-ins, snack
// logs have no cadence gate: a patient can log any number per day.
type SnackLogService interface {
	Submit(ctx context.Context, username string, req *validator.SnackLogCreateRequest, today time.Time) (*models.SnackLog, error)
	History(ctx context.Context, username string) ([]*models.SnackLog, error)
}

// ===== SERVICE IMPLEMENTATION =====

type snackLogService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
}

func NewSnackLogService(repo repositories.Repository, logger *slog.Logger, v *validator.Validator, publisher events.EventPublisher) SnackLogService {
	return &snackLogService{
		repo:      repo,
		logger:    logger,
		validator: v,
		publisher: publisher,
	}
}

func (s *snackLogService) Submit(ctx context.Context, username string, req *validator.SnackLogCreateRequest, today time.Time) (*models.SnackLog, error) {
	if errs := s.validator.Validate(req); errs.HasErrors() {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, errs.Error())
	}

	logTime := req.Time
	if logTime == "" {
		logTime = today.Format("15:04")
	}

	log := &models.SnackLog{
		Username:   username,
		Date:       today,
		Time:       logTime,
		Food:       req.Food,
		Trigger:    req.Trigger,
		Feeling:    req.Feeling,
		Reason:     req.Reason,
		FuturePlan: req.FuturePlan,
		Status:     models.StatusPending,
	}

	if err := s.repo.SnackLog().Create(ctx, log); err != nil {
		return nil, fmt.Errorf("failed to persist snack log: %w", err)
	}

	s.publishEvent(ctx, events.TypeSnackLogSubmitted, map[string]any{
		"username":     username,
		"snack_log_id": log.ID,
		"date":         log.Date.Format("2006-01-02"),
	})

	s.logger.Info("Snack log submitted", "username", username, "snack_log_id", log.ID)
	return log, nil
}

func (s *snackLogService) History(ctx context.Context, username string) ([]*models.SnackLog, error) {
	logs, err := s.repo.SnackLog().ListByUser(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to load snack logs: %w", err)
	}
	return logs, nil
}

func (s *snackLogService) publishEvent(ctx context.Context, eventType string, data map[string]any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, events.TopicCheckins, events.NewEvent(eventType, data)); err != nil {
		s.logger.Warn("Failed to publish event", "event_type", eventType, "error", err)
	}
}
