package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/NutriFlow-2025/coaching-service/internal/cache"
	"github.com/NutriFlow-2025/coaching-service/internal/events"
	"github.com/NutriFlow-2025/coaching-service/internal/messaging"
	"github.com/NutriFlow-2025/coaching-service/internal/models"
	"github.com/NutriFlow-2025/coaching-service/internal/repositories"
)

// ===== RESPONSE DTOs =====

// DuePatient is a patient selected for today's reminder
type DuePatient struct {
	Username       string `json:"username"`
	Name           string `json:"name"`
	Phone          string `json:"phone"`
	DaysSinceLast  int    `json:"days_since_last"`
	NeverCheckedIn bool   `json:"never_checked_in"`
}

// DispatchReport summarizes a bulk reminder run
type DispatchReport struct {
	Total   int                     `json:"total"`
	Sent    int                     `json:"sent"`
	Skipped int                     `json:"skipped"`
	Results []*messaging.SendResult `json:"results"`
}

// ===== SERVICE INTERFACE =====

type OutreachService interface {
	// SelectDue lists patients due for a reminder today, in table order.
	// Side-effect free.
	SelectDue(ctx context.Context, today time.Time) ([]DuePatient, error)

	// DispatchReminders sends a reminder to every due patient with a phone
	DispatchReminders(ctx context.Context, today time.Time) (*DispatchReport, error)

	// ShouldShowReminder drives the home-dashboard popup: scheduled today,
	// past the first cycle, and not inside the 4-day recency window
	ShouldShowReminder(ctx context.Context, username string, today time.Time) (bool, error)
}

// ===== SERVICE IMPLEMENTATION =====

type outreachService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	cadence   CadenceService
	whatsapp  messaging.WhatsAppClient
	publisher events.EventPublisher
	caches    *cache.CacheManager
}

func NewOutreachService(repo repositories.Repository, logger *slog.Logger, whatsapp messaging.WhatsAppClient, publisher events.EventPublisher, caches *cache.CacheManager) OutreachService {
	return &outreachService{
		repo:      repo,
		logger:    logger,
		cadence:   NewCadenceService(repo, logger),
		whatsapp:  whatsapp,
		publisher: publisher,
		caches:    caches,
	}
}

func (s *outreachService) SelectDue(ctx context.Context, today time.Time) ([]DuePatient, error) {
	var due []DuePatient

	cacheKey := fmt.Sprintf("due:%s", today.Format("2006-01-02"))
	if s.caches != nil {
		if err := s.caches.Outreach.Get(ctx, cacheKey, &due); err == nil {
			return due, nil
		}
	}

	patients, err := s.repo.User().ListActivePatients(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}

	weekday := models.WeekdayName(today)
	due = []DuePatient{}
	for _, patient := range patients {
		if patient.CheckinWeekday != weekday {
			continue
		}

		daysSince, hasHistory, err := s.cadence.DaysSinceLast(ctx, patient.Username, today)
		if err != nil {
			return nil, err
		}

		if !s.isDue(patient, daysSince, hasHistory, today) {
			continue
		}

		due = append(due, DuePatient{
			Username:       patient.Username,
			Name:           patient.Name,
			Phone:          patient.Phone,
			DaysSinceLast:  daysSince,
			NeverCheckedIn: !hasHistory,
		})
	}

	if s.caches != nil {
		_ = s.caches.Outreach.Set(ctx, cacheKey, due, cache.OutreachCacheConfig.TTL)
	}

	return due, nil
}

// isDue applies the reminder condition. A patient who never checked in is
// due once the first cycle (7/15 days) has elapsed; afterwards the lockout
// gap (6/13 days) must have passed.
func (s *outreachService) isDue(patient *models.User, daysSince int, hasHistory bool, today time.Time) bool {
	if !hasHistory {
		start := patient.PlanStartDate
		if start == nil {
			return false
		}
		return daysBetween(*start, today) >= patient.CheckinFrequency.CycleDays()
	}
	return daysSince >= patient.CheckinFrequency.LockoutDays()
}

func (s *outreachService) DispatchReminders(ctx context.Context, today time.Time) (*DispatchReport, error) {
	s.logger.Info("Dispatching check-in reminders", "date", today.Format("2006-01-02"))

	due, err := s.SelectDue(ctx, today)
	if err != nil {
		return nil, err
	}

	report := &DispatchReport{Total: len(due)}
	for _, patient := range due {
		if messaging.NormalizePhone(patient.Phone) == "" {
			report.Skipped++
			continue
		}

		text := fmt.Sprintf("Olá %s! Hoje é dia do seu check-in. Acesse o portal para responder. 💪", patient.Name)
		result, err := s.whatsapp.SendMessage(ctx, patient.Phone, text)
		if err != nil {
			s.logger.Warn("Reminder dispatch failed", "username", patient.Username, "error", err)
			report.Skipped++
			continue
		}

		report.Sent++
		report.Results = append(report.Results, result)

		s.publishEvent(ctx, events.TypeReminderSent, map[string]any{
			"username":        patient.Username,
			"days_since_last": patient.DaysSinceLast,
			"delivered":       result.Delivered,
		})
	}

	s.logger.Info("Reminder dispatch finished",
		"total", report.Total,
		"sent", report.Sent,
		"skipped", report.Skipped)

	return report, nil
}

// ShouldShowReminder uses the 4-day recency window, not the lockout gap.
// A patient can be outside the popup window while the form is still open.
// Before the first check-in the popup waits out the first cycle, same as
// the reminder list.
func (s *outreachService) ShouldShowReminder(ctx context.Context, username string, today time.Time) (bool, error) {
	user, err := s.repo.User().GetByUsername(ctx, username)
	if err != nil {
		return false, NewNotFoundError("user", username)
	}

	if user.CheckinWeekday != models.WeekdayName(today) {
		return false, nil
	}

	daysSince, hasHistory, err := s.cadence.DaysSinceLast(ctx, username, today)
	if err != nil {
		return false, err
	}
	if !hasHistory {
		return s.isDue(user, daysSince, false, today), nil
	}

	recent, err := s.cadence.RecentlyCheckedIn(ctx, username, today)
	if err != nil {
		return false, err
	}
	return !recent, nil
}

func (s *outreachService) publishEvent(ctx context.Context, eventType string, data map[string]any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, events.TopicOutreach, events.NewEvent(eventType, data)); err != nil {
		s.logger.Warn("Failed to publish event", "event_type", eventType, "error", err)
	}
}
