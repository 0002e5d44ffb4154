package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/NutriFlow-2025/coaching-service/internal/events"
	"github.com/NutriFlow-2025/coaching-service/internal/models"
	"github.com/NutriFlow-2025/coaching-service/internal/validator"
)

func TestSnackLogSubmit(t *testing.T) {
	repo := NewMockRepository()
	publisher := events.NewMockEventPublisher(testLogger())
	service := NewSnackLogService(repo, testLogger(), validator.New(), publisher)
	ctx := context.Background()

	now := time.Date(2025, time.January, 14, 16, 30, 0, 0, time.UTC)

	log, err := service.Submit(ctx, "ana", &validator.SnackLogCreateRequest{
		Food:    "Chocolate",
		Trigger: "Ansiedade no trabalho",
		Feeling: "Culpa",
	}, now)
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	if log.Status != models.StatusPending {
		t.Errorf("status = %s, want %s", log.Status, models.StatusPending)
	}
	if log.Time != "16:30" {
		t.Errorf("time = %s, want defaulted 16:30", log.Time)
	}
	if got := publisher.GetPublishedEvents(); len(got) != 1 || got[0].Type != events.TypeSnackLogSubmitted {
		t.Errorf("expected one %s event, got %+v", events.TypeSnackLogSubmitted, got)
	}

	t.Run("explicit time wins", func(t *testing.T) {
		log, err := service.Submit(ctx, "ana", &validator.SnackLogCreateRequest{
			Food: "Sorvete",
			Time: "21:00",
		}, now)
		if err != nil {
			t.Fatalf("Submit() error = %v", err)
		}
		if log.Time != "21:00" {
			t.Errorf("time = %s, want 21:00", log.Time)
		}
	})

	t.Run("no daily limit", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			if _, err := service.Submit(ctx, "ana", &validator.SnackLogCreateRequest{Food: "Bolacha"}, now); err != nil {
				t.Fatalf("Submit() #%d error = %v", i, err)
			}
		}
		history, err := service.History(ctx, "ana")
		if err != nil {
			t.Fatalf("History() error = %v", err)
		}
		if len(history) != 5 {
			t.Errorf("got %d logs, want 5", len(history))
		}
	})

	t.Run("food is required", func(t *testing.T) {
		if _, err := service.Submit(ctx, "ana", &validator.SnackLogCreateRequest{}, now); !errors.Is(err, ErrValidationFailed) {
			t.Errorf("expected ErrValidationFailed, got %v", err)
		}
	})
}
