package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/NutriFlow-2025/coaching-service/internal/events"
	"github.com/NutriFlow-2025/coaching-service/internal/models"
)

func newReviewFixture() (*MockRepository, *events.MockEventPublisher, ReviewService) {
	repo := NewMockRepository()
	publisher := events.NewMockEventPublisher(testLogger())
	service := NewReviewService(repo, testLogger(), publisher)
	return repo, publisher, service
}

func TestPendingQueue(t *testing.T) {
	repo, _, service := newReviewFixture()
	ctx := context.Background()

	repo.Checkins = []*models.Checkin{
		{ID: 1, Username: "ana", SubmissionDate: date(2025, time.January, 13), Status: models.StatusPending},
		{ID: 2, Username: "bia", SubmissionDate: date(2025, time.January, 13), Status: models.StatusPending},
		{ID: 3, Username: "ana", SubmissionDate: date(2025, time.January, 6), Status: models.StatusReviewed},
	}
	repo.SnackLogs = []*models.SnackLog{
		{ID: 4, Username: "ana", Date: date(2025, time.January, 14), Status: models.StatusPending},
		{ID: 5, Username: "bia", Date: date(2025, time.January, 14), Status: models.StatusReviewed},
	}

	t.Run("all patients", func(t *testing.T) {
		queue, err := service.PendingQueue(ctx, "")
		if err != nil {
			t.Fatalf("PendingQueue() error = %v", err)
		}
		if len(queue.Checkins) != 2 {
			t.Errorf("got %d pending check-ins, want 2", len(queue.Checkins))
		}
		if len(queue.SnackLogs) != 1 {
			t.Errorf("got %d pending snack logs, want 1", len(queue.SnackLogs))
		}
	})

	t.Run("single patient", func(t *testing.T) {
		queue, err := service.PendingQueue(ctx, "ana")
		if err != nil {
			t.Fatalf("PendingQueue() error = %v", err)
		}
		if len(queue.Checkins) != 1 || queue.Checkins[0].Username != "ana" {
			t.Errorf("unexpected check-ins: %+v", queue.Checkins)
		}
	})
}

func TestMarkCheckinReviewed(t *testing.T) {
	repo, publisher, service := newReviewFixture()
	ctx := context.Background()

	repo.Checkins = []*models.Checkin{
		{ID: 1, Username: "ana", SubmissionDate: date(2025, time.January, 13), Status: models.StatusPending},
	}

	if err := service.MarkCheckinReviewed(ctx, 1); err != nil {
		t.Fatalf("MarkCheckinReviewed() error = %v", err)
	}
	if repo.Checkins[0].Status != models.StatusReviewed {
		t.Errorf("status = %s, want %s", repo.Checkins[0].Status, models.StatusReviewed)
	}
	if got := publisher.GetPublishedEvents(); len(got) != 1 || got[0].Type != events.TypeCheckinReviewed {
		t.Errorf("expected one %s event, got %+v", events.TypeCheckinReviewed, got)
	}

	// Re-reviewing is a silent no-op and publishes nothing new
	publisher.ClearEvents()
	if err := service.MarkCheckinReviewed(ctx, 1); err != nil {
		t.Fatalf("second MarkCheckinReviewed() error = %v", err)
	}
	if got := publisher.GetPublishedEvents(); len(got) != 0 {
		t.Errorf("re-review published %d events, want 0", len(got))
	}

	if err := service.MarkCheckinReviewed(ctx, 99); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMarkCheckinReviewedByKey(t *testing.T) {
	repo, _, service := newReviewFixture()
	ctx := context.Background()

	repo.Checkins = []*models.Checkin{
		{ID: 7, Username: "ana", SubmissionDate: date(2025, time.January, 13), Status: models.StatusPending},
	}

	if err := service.MarkCheckinReviewedByKey(ctx, "ana", date(2025, time.January, 13)); err != nil {
		t.Fatalf("MarkCheckinReviewedByKey() error = %v", err)
	}
	if repo.Checkins[0].Status != models.StatusReviewed {
		t.Errorf("status = %s, want %s", repo.Checkins[0].Status, models.StatusReviewed)
	}

	err := service.MarkCheckinReviewedByKey(ctx, "ana", date(2025, time.January, 20))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing date, got %v", err)
	}
}

func TestMarkAllSnackLogsReviewed(t *testing.T) {
	repo, _, service := newReviewFixture()
	ctx := context.Background()

	repo.SnackLogs = []*models.SnackLog{
		{ID: 1, Username: "ana", Status: models.StatusPending},
		{ID: 2, Username: "ana", Status: models.StatusPending},
		{ID: 3, Username: "bia", Status: models.StatusPending},
	}

	updated, err := service.MarkAllSnackLogsReviewed(ctx, "ana")
	if err != nil {
		t.Fatalf("MarkAllSnackLogsReviewed() error = %v", err)
	}
	if updated != 2 {
		t.Errorf("updated = %d, want 2", updated)
	}
	if repo.SnackLogs[2].Status != models.StatusPending {
		t.Error("other patients' logs must stay pending")
	}

	usernames, err := service.PendingUsernames(ctx)
	if err != nil {
		t.Fatalf("PendingUsernames() error = %v", err)
	}
	if len(usernames) != 1 || usernames[0] != "bia" {
		t.Errorf("pending usernames = %v, want [bia]", usernames)
	}
}
