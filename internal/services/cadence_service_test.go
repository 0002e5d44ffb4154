package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/NutriFlow-2025/coaching-service/internal/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

func weeklyMondayUser() *models.User {
	return &models.User{
		Username:         "ana",
		Name:             "Ana",
		Role:             models.RolePatient,
		Active:           true,
		CheckinWeekday:   "Segunda",
		CheckinFrequency: models.FrequencyWeekly,
		PlanStartDate:    datePtr(2025, time.January, 1),
	}
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name           string
		user           *models.User
		lastSubmission *time.Time
		today          time.Time
		wantStatus     CadenceStatus
		wantDaysSince  int
	}{
		{
			name:          "wrong weekday locks regardless of history",
			user:          weeklyMondayUser(),
			today:         date(2025, time.January, 7), // Tuesday
			wantStatus:    CadenceLockedWrongDay,
			wantDaysSince: 0,
		},
		{
			name:          "first check-in too early",
			user:          weeklyMondayUser(),
			today:         date(2025, time.January, 6), // Monday, 5 days on plan
			wantStatus:    CadenceLockedTooEarly,
			wantDaysSince: DaysNeverCheckedIn,
		},
		{
			name:          "first check-in opens after the cycle",
			user:          weeklyMondayUser(),
			today:         date(2025, time.January, 13), // Monday, 12 days on plan
			wantStatus:    CadenceOpen,
			wantDaysSince: DaysNeverCheckedIn,
		},
		{
			name: "biweekly first check-in waits fifteen days",
			user: func() *models.User {
				u := weeklyMondayUser()
				u.CheckinFrequency = models.FrequencyBiweekly
				return u
			}(),
			today:         date(2025, time.January, 13), // 12 days on plan < 15
			wantStatus:    CadenceLockedTooEarly,
			wantDaysSince: DaysNeverCheckedIn,
		},
		{
			name: "biweekly first check-in opens",
			user: func() *models.User {
				u := weeklyMondayUser()
				u.CheckinFrequency = models.FrequencyBiweekly
				return u
			}(),
			today:         date(2025, time.January, 20), // 19 days on plan
			wantStatus:    CadenceOpen,
			wantDaysSince: DaysNeverCheckedIn,
		},
		{
			name:           "weekly lockout blocks within six days",
			user:           weeklyMondayUser(),
			lastSubmission: datePtr(2025, time.January, 17),
			today:          date(2025, time.January, 20), // 3 days since last
			wantStatus:     CadenceLockedAlreadyDone,
			wantDaysSince:  3,
		},
		{
			name:           "weekly lockout opens on the seventh day",
			user:           weeklyMondayUser(),
			lastSubmission: datePtr(2025, time.January, 13),
			today:          date(2025, time.January, 20),
			wantStatus:     CadenceOpen,
			wantDaysSince:  7,
		},
		{
			name: "biweekly lockout blocks a seven-day gap",
			user: func() *models.User {
				u := weeklyMondayUser()
				u.CheckinFrequency = models.FrequencyBiweekly
				return u
			}(),
			lastSubmission: datePtr(2025, time.January, 6),
			today:          date(2025, time.January, 13),
			wantStatus:     CadenceLockedAlreadyDone,
			wantDaysSince:  7,
		},
		{
			name: "biweekly lockout opens after fourteen days",
			user: func() *models.User {
				u := weeklyMondayUser()
				u.CheckinFrequency = models.FrequencyBiweekly
				return u
			}(),
			lastSubmission: datePtr(2025, time.January, 6),
			today:          date(2025, time.January, 20),
			wantStatus:     CadenceOpen,
			wantDaysSince:  14,
		},
		{
			name: "no plan start date keeps the first check-in locked",
			user: func() *models.User {
				u := weeklyMondayUser()
				u.PlanStartDate = nil
				return u
			}(),
			today:         date(2025, time.January, 13),
			wantStatus:    CadenceLockedTooEarly,
			wantDaysSince: DaysNeverCheckedIn,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Evaluate(tt.user, tt.lastSubmission, tt.today)
			if result.Status != tt.wantStatus {
				t.Errorf("Evaluate() status = %s, want %s", result.Status, tt.wantStatus)
			}
			if result.Status != CadenceLockedWrongDay && result.DaysSinceLast != tt.wantDaysSince {
				t.Errorf("Evaluate() days since last = %d, want %d", result.DaysSinceLast, tt.wantDaysSince)
			}
		})
	}
}

func TestEvaluateIgnoresTimeOfDay(t *testing.T) {
	user := weeklyMondayUser()
	last := time.Date(2025, time.January, 13, 23, 50, 0, 0, time.UTC)
	today := time.Date(2025, time.January, 20, 0, 5, 0, 0, time.UTC)

	result := Evaluate(user, &last, today)
	if result.DaysSinceLast != 7 {
		t.Errorf("days since last = %d, want 7", result.DaysSinceLast)
	}
	if result.Status != CadenceOpen {
		t.Errorf("status = %s, want %s", result.Status, CadenceOpen)
	}
}

func TestRecentlyCheckedIn(t *testing.T) {
	today := date(2025, time.January, 20)

	tests := []struct {
		name string
		last *time.Time
		want bool
	}{
		{"no history", nil, false},
		{"three days ago is recent", datePtr(2025, time.January, 17), true},
		{"exactly four days ago is not", datePtr(2025, time.January, 16), false},
		{"same day is recent", datePtr(2025, time.January, 20), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RecentlyCheckedIn(tt.last, today); got != tt.want {
				t.Errorf("RecentlyCheckedIn() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCadenceServiceEvaluateForUser(t *testing.T) {
	repo := NewMockRepository()
	repo.Users["ana"] = weeklyMondayUser()
	repo.Checkins = append(repo.Checkins, &models.Checkin{
		ID:             1,
		Username:       "ana",
		SubmissionDate: date(2025, time.January, 13),
		Status:         models.StatusPending,
	})

	service := NewCadenceService(repo, testLogger())
	ctx := context.Background()

	result, err := service.EvaluateForUser(ctx, "ana", date(2025, time.January, 20))
	if err != nil {
		t.Fatalf("EvaluateForUser() error = %v", err)
	}
	if result.Status != CadenceOpen {
		t.Errorf("status = %s, want %s", result.Status, CadenceOpen)
	}
	if !result.HasHistory {
		t.Error("expected HasHistory")
	}

	if _, err := service.EvaluateForUser(ctx, "nobody", date(2025, time.January, 20)); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown user, got %v", err)
	}
}

func TestCadenceServiceDaysSinceLastSentinel(t *testing.T) {
	repo := NewMockRepository()
	repo.Users["ana"] = weeklyMondayUser()

	service := NewCadenceService(repo, testLogger())

	days, hasHistory, err := service.DaysSinceLast(context.Background(), "ana", date(2025, time.January, 20))
	if err != nil {
		t.Fatalf("DaysSinceLast() error = %v", err)
	}
	if hasHistory {
		t.Error("expected no history")
	}
	if days != DaysNeverCheckedIn {
		t.Errorf("days = %d, want the %d sentinel", days, DaysNeverCheckedIn)
	}
}
