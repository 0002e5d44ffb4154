package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/NutriFlow-2025/coaching-service/internal/cache"
	"github.com/NutriFlow-2025/coaching-service/internal/events"
	"github.com/NutriFlow-2025/coaching-service/internal/models"
	"github.com/NutriFlow-2025/coaching-service/internal/repositories"
	"github.com/NutriFlow-2025/coaching-service/internal/validator"
)

// ===== RESPONSE DTOs =====

// HeatmapRow is one check-in rendered as traffic-light cells for the coach's
// history table
type HeatmapRow struct {
	Date         string       `json:"date"`
	Weight       float64      `json:"weight"`
	Adherence    TrafficLight `json:"adherence"`
	Dedication   TrafficLight `json:"dedication"`
	Sleep        TrafficLight `json:"sleep"`
	Routine      TrafficLight `json:"routine"`
	Disposition  TrafficLight `json:"disposition"`
	Stress       TrafficLight `json:"stress"`
	Anxiety      TrafficLight `json:"anxiety"`
	MealsOutside TrafficLight `json:"meals_outside"`
	Alcohol      TrafficLight `json:"alcohol"`
	Training     TrafficLight `json:"training"`
	Overall      float64      `json:"overall"`
}

// GateResponse is the patient-facing form gate decision
type GateResponse struct {
	Cadence CadenceResult `json:"cadence"`
	Open    bool          `json:"open"`
}

// ===== SERVICE INTERFACE =====

type CheckinService interface {
	// Gate decides whether the form is open for the patient today
	Gate(ctx context.Context, username string, today time.Time) (*GateResponse, error)

	// Submit gates, validates, scores and persists a check-in
	Submit(ctx context.Context, username string, req *validator.CheckinSubmitRequest, today time.Time) (*models.Checkin, error)

	History(ctx context.Context, username string, filters repositories.CheckinFilters) ([]*models.Checkin, error)
	Heatmap(ctx context.Context, username string) ([]HeatmapRow, error)

	// RescoreUser recomputes derived scores from stored answers
	RescoreUser(ctx context.Context, username string) (int, error)
}

// ===== SERVICE IMPLEMENTATION =====

type checkinService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	cadence   CadenceService
	publisher events.EventPublisher
	caches    *cache.CacheManager
}

func NewCheckinService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, v *validator.Validator, publisher events.EventPublisher, caches *cache.CacheManager) CheckinService {
	return &checkinService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: v,
		cadence:   NewCadenceService(repo, logger),
		publisher: publisher,
		caches:    caches,
	}
}

func (s *checkinService) Gate(ctx context.Context, username string, today time.Time) (*GateResponse, error) {
	result, err := s.cadence.EvaluateForUser(ctx, username, today)
	if err != nil {
		return nil, err
	}
	return &GateResponse{
		Cadence: *result,
		Open:    result.Status == CadenceOpen,
	}, nil
}

func (s *checkinService) Submit(ctx context.Context, username string, req *validator.CheckinSubmitRequest, today time.Time) (*models.Checkin, error) {
	s.logger.Info("Submitting check-in", "username", username)

	// A row submitted earlier today stays editable; the cadence gate applies
	// only to the first submission of the day.
	resubmission := false
	if _, err := s.repo.Checkin().GetByUserAndDate(ctx, username, today); err == nil {
		resubmission = true
	} else if !repositories.IsNotFound(err) {
		return nil, fmt.Errorf("failed to load check-in: %w", err)
	}

	if !resubmission {
		result, err := s.cadence.EvaluateForUser(ctx, username, today)
		if err != nil {
			return nil, err
		}
		if result.Status != CadenceOpen {
			return nil, NewLockedError(result.Status)
		}
	}

	if errs := s.validator.ValidateCheckinSubmit(req); errs.HasErrors() {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, errs.Error())
	}

	var extra []byte
	if len(req.Extra) > 0 {
		data, err := json.Marshal(req.Extra)
		if err != nil {
			return nil, NewValidationError("extra answers are not serializable")
		}
		extra = data
	}

	checkin := &models.Checkin{
		Username:       username,
		SubmissionDate: today,
		Status:         models.StatusPending,
		Answers:        req.Answers,
		Extra:          datatypes.JSON(extra),
		Scores:         Score(req.Answers),
	}

	// A same-day resubmission updates the existing row instead of creating
	// an ambiguous duplicate
	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		existing, err := tx.Checkin().GetByUserAndDate(ctx, username, today)
		if err == nil {
			checkin.ID = existing.ID
			checkin.Status = existing.Status
			return tx.Checkin().Update(ctx, checkin)
		}
		return tx.Checkin().Create(ctx, checkin)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to persist check-in: %w", err)
	}

	s.publishEvent(ctx, events.TypeCheckinSubmitted, map[string]any{
		"username":   username,
		"checkin_id": checkin.ID,
		"date":       checkin.SubmissionDate.Format("2006-01-02"),
		"overall":    checkin.Scores.Overall,
	})

	s.logger.Info("Check-in submitted",
		"username", username,
		"checkin_id", checkin.ID,
		"overall", checkin.Scores.Overall)

	return checkin, nil
}

func (s *checkinService) History(ctx context.Context, username string, filters repositories.CheckinFilters) ([]*models.Checkin, error) {
	checkins, err := s.repo.Checkin().ListByUser(ctx, username, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to load check-in history: %w", err)
	}
	return checkins, nil
}

func (s *checkinService) Heatmap(ctx context.Context, username string) ([]HeatmapRow, error) {
	var rows []HeatmapRow

	cacheKey := fmt.Sprintf("user:%s", username)
	if s.caches != nil {
		if err := s.caches.Heatmap.Get(ctx, cacheKey, &rows); err == nil {
			return rows, nil
		}
	}

	checkins, err := s.repo.Checkin().ListByUser(ctx, username, repositories.CheckinFilters{})
	if err != nil {
		return nil, fmt.Errorf("failed to load check-in history: %w", err)
	}

	rows = make([]HeatmapRow, len(checkins))
	for i, c := range checkins {
		rows[i] = buildHeatmapRow(c)
	}

	if s.caches != nil {
		_ = s.caches.Heatmap.Set(ctx, cacheKey, rows, cache.HeatmapCacheConfig.TTL)
	}

	return rows, nil
}

func buildHeatmapRow(c *models.Checkin) HeatmapRow {
	return HeatmapRow{
		Date:         c.SubmissionDate.Format("02/01/2006"),
		Weight:       NumericValue(c.Answers.Weight),
		Adherence:    ScoreLight(c.Scores.Adherence),
		Dedication:   ScoreLight(c.Scores.Dedication),
		Sleep:        ScoreLight(c.Scores.SleepQuality),
		Routine:      ScoreLight(c.Scores.Routine),
		Disposition:  ScoreLight(c.Scores.Disposition),
		Stress:       InvertedScoreLight(c.Scores.Stress),
		Anxiety:      InvertedScoreLight(c.Scores.Anxiety),
		MealsOutside: MealsOutsideLight(NumericValue(c.Answers.MealsOutsidePlan)),
		Alcohol:      AlcoholLight(NumericValue(c.Answers.AlcoholDays)),
		Training:     TrainingLight(NumericValue(c.Answers.StrengthDays)),
		Overall:      c.Scores.Overall,
	}
}

// RescoreUser recomputes every stored check-in's derived scores. Scoring is
// a pure recompute, so running it twice changes nothing.
func (s *checkinService) RescoreUser(ctx context.Context, username string) (int, error) {
	checkins, err := s.repo.Checkin().ListByUser(ctx, username, repositories.CheckinFilters{})
	if err != nil {
		return 0, fmt.Errorf("failed to load check-ins: %w", err)
	}

	updated := 0
	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		for _, c := range checkins {
			recomputed := Score(c.Answers)
			if recomputed == c.Scores {
				continue
			}
			c.Scores = recomputed
			if err := tx.Checkin().Update(ctx, c); err != nil {
				return err
			}
			updated++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to rescore check-ins: %w", err)
	}

	s.logger.Info("Rescored check-ins", "username", username, "updated", updated)
	return updated, nil
}

func (s *checkinService) publishEvent(ctx context.Context, eventType string, data map[string]any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, events.TopicCheckins, events.NewEvent(eventType, data)); err != nil {
		s.logger.Warn("Failed to publish event", "event_type", eventType, "error", err)
	}
}
