package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/NutriFlow-2025/coaching-service/internal/models"
	"github.com/NutriFlow-2025/coaching-service/internal/repositories"
)

// CadenceStatus is the result of evaluating a patient's check-in gate
type CadenceStatus string

const (
	CadenceOpen              CadenceStatus = "OPEN"
	CadenceLockedWrongDay    CadenceStatus = "LOCKED_WRONG_DAY"
	CadenceLockedTooEarly    CadenceStatus = "LOCKED_TOO_EARLY"
	CadenceLockedAlreadyDone CadenceStatus = "LOCKED_ALREADY_DONE"
)

// DaysNeverCheckedIn is the sentinel for patients with no parseable history
const DaysNeverCheckedIn = 999

// ReminderRecencyDays is the popup/reminder dedup window. It is deliberately
// distinct from the 6/13-day lockout gap and the two must never be unified.
const ReminderRecencyDays = 4

// CadenceResult carries the gate decision and the numbers behind it
type CadenceResult struct {
	Status        CadenceStatus `json:"status"`
	DaysOnPlan    int           `json:"days_on_plan"`
	DaysSinceLast int           `json:"days_since_last"`
	HasHistory    bool          `json:"has_history"`
	RequiredDays  int           `json:"required_days"`
}

// Evaluate decides whether a patient's check-in form is open today.
// lastSubmission nil means no valid history; an unparseable stored date is
// treated the same way upstream, which biases toward re-opening the form.
func Evaluate(user *models.User, lastSubmission *time.Time, today time.Time) CadenceResult {
	result := CadenceResult{Status: CadenceOpen}

	if models.WeekdayName(today) != user.CheckinWeekday {
		result.Status = CadenceLockedWrongDay
		return result
	}

	if lastSubmission == nil {
		result.RequiredDays = user.CheckinFrequency.CycleDays()
		result.DaysOnPlan = daysOnPlan(user, today)
		result.DaysSinceLast = DaysNeverCheckedIn
		if result.DaysOnPlan < result.RequiredDays {
			result.Status = CadenceLockedTooEarly
		}
		return result
	}

	result.HasHistory = true
	result.RequiredDays = user.CheckinFrequency.LockoutDays()
	result.DaysOnPlan = daysOnPlan(user, today)
	result.DaysSinceLast = daysBetween(*lastSubmission, today)
	if result.DaysSinceLast < result.RequiredDays {
		result.Status = CadenceLockedAlreadyDone
	}
	return result
}

// RecentlyCheckedIn reports whether the last submission falls inside the
// 4-day reminder dedup window. Independent of the form-lock gate.
func RecentlyCheckedIn(lastSubmission *time.Time, today time.Time) bool {
	if lastSubmission == nil {
		return false
	}
	return daysBetween(*lastSubmission, today) < ReminderRecencyDays
}

// daysOnPlan floors at zero so a future start date never yields negatives
func daysOnPlan(user *models.User, today time.Time) int {
	if user.PlanStartDate == nil {
		return 0
	}
	days := daysBetween(*user.PlanStartDate, today)
	if days < 0 {
		return 0
	}
	return days
}

func daysBetween(from, to time.Time) int {
	fromDay := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	toDay := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(toDay.Sub(fromDay).Hours() / 24)
}

// ===== SERVICE INTERFACE =====

// CadenceService evaluates the gate against stored history. The check-in
// form, the outreach selector and the home reminder all go through here so
// the three call sites agree on every decision.
type CadenceService interface {
	EvaluateForUser(ctx context.Context, username string, today time.Time) (*CadenceResult, error)
	// DaysSinceLast returns the 999 sentinel and false when no history exists
	DaysSinceLast(ctx context.Context, username string, today time.Time) (int, bool, error)
	RecentlyCheckedIn(ctx context.Context, username string, today time.Time) (bool, error)
}

// ===== SERVICE IMPLEMENTATION =====

type cadenceService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewCadenceService(repo repositories.Repository, logger *slog.Logger) CadenceService {
	return &cadenceService{
		repo:   repo,
		logger: logger,
	}
}

func (s *cadenceService) EvaluateForUser(ctx context.Context, username string, today time.Time) (*CadenceResult, error) {
	user, err := s.repo.User().GetByUsername(ctx, username)
	if err != nil {
		return nil, NewNotFoundError("user", username)
	}

	last, err := s.repo.Checkin().LastSubmissionDate(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to load check-in history: %w", err)
	}

	result := Evaluate(user, last, today)

	s.logger.Debug("Cadence evaluated",
		"username", username,
		"status", result.Status,
		"days_on_plan", result.DaysOnPlan,
		"days_since_last", result.DaysSinceLast)

	return &result, nil
}

func (s *cadenceService) DaysSinceLast(ctx context.Context, username string, today time.Time) (int, bool, error) {
	last, err := s.repo.Checkin().LastSubmissionDate(ctx, username)
	if err != nil {
		return 0, false, fmt.Errorf("failed to load check-in history: %w", err)
	}
	if last == nil {
		return DaysNeverCheckedIn, false, nil
	}
	return daysBetween(*last, today), true, nil
}

func (s *cadenceService) RecentlyCheckedIn(ctx context.Context, username string, today time.Time) (bool, error) {
	last, err := s.repo.Checkin().LastSubmissionDate(ctx, username)
	if err != nil {
		return false, fmt.Errorf("failed to load check-in history: %w", err)
	}
	return RecentlyCheckedIn(last, today), nil
}
