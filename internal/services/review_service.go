package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/NutriFlow-2025/coaching-service/internal/events"
	"github.com/NutriFlow-2025/coaching-service/internal/models"
	"github.com/NutriFlow-2025/coaching-service/internal/repositories"
)

// ===== RESPONSE DTOs =====

// ReviewQueue groups everything awaiting the coach's attention
type ReviewQueue struct {
	Checkins  []*models.Checkin  `json:"checkins"`
	SnackLogs []*models.SnackLog `json:"snack_logs"`
}

// ===== SERVICE INTERFACE =====

type ReviewService interface {
	// PendingQueue lists pending check-ins and snack logs, optionally for a
	// single patient (empty username means all)
	PendingQueue(ctx context.Context, username string) (*ReviewQueue, error)

	// PendingUsernames lists patients with at least one unreviewed snack log
	PendingUsernames(ctx context.Context) ([]string, error)

	// MarkCheckinReviewed flips one check-in to reviewed. Idempotent.
	MarkCheckinReviewed(ctx context.Context, id uint) error

	// MarkCheckinReviewedByKey addresses a check-in by patient and date, for
	// callers that predate the numeric id
	MarkCheckinReviewedByKey(ctx context.Context, username string, date time.Time) error

	// MarkAllSnackLogsReviewed clears a patient's snack-log queue in one
	// statement and reports how many rows changed
	MarkAllSnackLogsReviewed(ctx context.Context, username string) (int64, error)
}

// ===== SERVICE IMPLEMENTATION =====

type reviewService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	publisher events.EventPublisher
}

func NewReviewService(repo repositories.Repository, logger *slog.Logger, publisher events.EventPublisher) ReviewService {
	return &reviewService{
		repo:      repo,
		logger:    logger,
		publisher: publisher,
	}
}

func (s *reviewService) PendingQueue(ctx context.Context, username string) (*ReviewQueue, error) {
	checkins, err := s.repo.Checkin().ListPending(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending check-ins: %w", err)
	}

	snackLogs, err := s.repo.SnackLog().ListPending(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending snack logs: %w", err)
	}

	return &ReviewQueue{
		Checkins:  checkins,
		SnackLogs: snackLogs,
	}, nil
}

func (s *reviewService) PendingUsernames(ctx context.Context) ([]string, error) {
	usernames, err := s.repo.SnackLog().PendingUsernames(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending usernames: %w", err)
	}
	return usernames, nil
}

func (s *reviewService) MarkCheckinReviewed(ctx context.Context, id uint) error {
	checkin, err := s.repo.Checkin().GetByID(ctx, id)
	if err != nil {
		return NewNotFoundError("checkin", fmt.Sprintf("%d", id))
	}

	// Re-reviewing is a no-op, not an error
	if checkin.Status == models.StatusReviewed {
		return nil
	}

	if err := s.repo.Checkin().UpdateStatus(ctx, id, models.StatusReviewed); err != nil {
		return fmt.Errorf("failed to mark check-in reviewed: %w", err)
	}

	s.publishEvent(ctx, events.TypeCheckinReviewed, map[string]any{
		"checkin_id": checkin.ID,
		"username":   checkin.Username,
		"date":       checkin.SubmissionDate.Format("2006-01-02"),
	})

	s.logger.Info("Check-in reviewed", "checkin_id", id, "username", checkin.Username)
	return nil
}

func (s *reviewService) MarkCheckinReviewedByKey(ctx context.Context, username string, date time.Time) error {
	checkin, err := s.repo.Checkin().GetByUserAndDate(ctx, username, date)
	if err != nil {
		return NewNotFoundError("checkin", fmt.Sprintf("%s/%s", username, date.Format("2006-01-02")))
	}
	return s.MarkCheckinReviewed(ctx, checkin.ID)
}

func (s *reviewService) MarkAllSnackLogsReviewed(ctx context.Context, username string) (int64, error) {
	updated, err := s.repo.SnackLog().MarkAllReviewed(ctx, username)
	if err != nil {
		return 0, fmt.Errorf("failed to mark snack logs reviewed: %w", err)
	}

	s.logger.Info("Snack logs reviewed", "username", username, "updated", updated)
	return updated, nil
}

func (s *reviewService) publishEvent(ctx context.Context, eventType string, data map[string]any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, events.TopicCheckins, events.NewEvent(eventType, data)); err != nil {
		s.logger.Warn("Failed to publish event", "event_type", eventType, "error", err)
	}
}
