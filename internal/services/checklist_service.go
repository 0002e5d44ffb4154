package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/NutriFlow-2025/coaching-service/internal/models"
	"github.com/NutriFlow-2025/coaching-service/internal/repositories"
	"github.com/NutriFlow-2025/coaching-service/internal/validator"
)

// streakLookbackDays bounds the streak query window
const streakLookbackDays = 90

// ===== RESPONSE DTOs =====

// ChecklistToday is the patient's habit state plus their current streak
type ChecklistToday struct {
	Entry  *models.ChecklistEntry `json:"entry"`
	Streak int                    `json:"streak"`
}

// ===== SERVICE INTERFACE =====

// ChecklistService tracks the five daily habits and the activity streak
type ChecklistService interface {
	Save(ctx context.Context, username string, req *validator.ChecklistRequest, today time.Time) (*ChecklistToday, error)
	Today(ctx context.Context, username string, today time.Time) (*ChecklistToday, error)
	Streak(ctx context.Context, username string, today time.Time) (int, error)
}

// ===== SERVICE IMPLEMENTATION =====

type checklistService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewChecklistService(repo repositories.Repository, logger *slog.Logger) ChecklistService {
	return &checklistService{
		repo:   repo,
		logger: logger,
	}
}

func (s *checklistService) Save(ctx context.Context, username string, req *validator.ChecklistRequest, today time.Time) (*ChecklistToday, error) {
	entry := &models.ChecklistEntry{
		Username: username,
		Date:     dateOnly(today),
		Water:    req.Water,
		Cardio:   req.Cardio,
		Workout:  req.Workout,
		Diet:     req.Diet,
		Sleep:    req.Sleep,
	}

	if err := s.repo.Checklist().Upsert(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to save checklist: %w", err)
	}

	streak, err := s.Streak(ctx, username, today)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Checklist saved", "username", username, "all_done", entry.AllDone(), "streak", streak)
	return &ChecklistToday{Entry: entry, Streak: streak}, nil
}

func (s *checklistService) Today(ctx context.Context, username string, today time.Time) (*ChecklistToday, error) {
	entry, err := s.repo.Checklist().GetByUserAndDate(ctx, username, dateOnly(today))
	if err != nil {
		if !repositories.IsNotFound(err) {
			return nil, fmt.Errorf("failed to load checklist: %w", err)
		}
		// No entry yet today is a blank slate, not an error
		entry = &models.ChecklistEntry{Username: username, Date: dateOnly(today)}
	}

	streak, err := s.Streak(ctx, username, today)
	if err != nil {
		return nil, err
	}

	return &ChecklistToday{Entry: entry, Streak: streak}, nil
}

// Streak counts consecutive active days (any habit checked) ending today.
// An untouched today doesn't break the run; the count then starts from
// yesterday.
func (s *checklistService) Streak(ctx context.Context, username string, today time.Time) (int, error) {
	since := dateOnly(today).AddDate(0, 0, -streakLookbackDays)
	entries, err := s.repo.Checklist().ListRecent(ctx, username, since)
	if err != nil {
		return 0, fmt.Errorf("failed to load checklist history: %w", err)
	}

	doneByDate := make(map[string]bool, len(entries))
	for _, e := range entries {
		doneByDate[e.Date.Format("2006-01-02")] = e.AnyDone()
	}

	day := dateOnly(today)
	if !doneByDate[day.Format("2006-01-02")] {
		day = day.AddDate(0, 0, -1)
	}

	streak := 0
	for doneByDate[day.Format("2006-01-02")] {
		streak++
		day = day.AddDate(0, 0, -1)
	}

	return streak, nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
