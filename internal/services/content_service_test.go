package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/NutriFlow-2025/coaching-service/internal/validator"
)

func newContentFixture() (*MockRepository, ContentService) {
	repo := NewMockRepository()
	service := NewContentService(repo, testLogger(), validator.New())
	return repo, service
}

func TestNotices(t *testing.T) {
	_, service := newContentFixture()
	ctx := context.Background()

	notice, err := service.PublishNotice(ctx, &validator.NoticeCreateRequest{
		Message:     "Consultas suspensas na sexta-feira",
		HoursActive: 48,
	})
	if err != nil {
		t.Fatalf("PublishNotice() error = %v", err)
	}

	t.Run("active before expiry", func(t *testing.T) {
		active, err := service.ActiveNotices(ctx, time.Now())
		if err != nil {
			t.Fatalf("ActiveNotices() error = %v", err)
		}
		if len(active) != 1 {
			t.Errorf("got %d notices, want 1", len(active))
		}
	})

	t.Run("hidden after expiry", func(t *testing.T) {
		active, err := service.ActiveNotices(ctx, notice.ExpiresAt.Add(time.Hour))
		if err != nil {
			t.Fatalf("ActiveNotices() error = %v", err)
		}
		if len(active) != 0 {
			t.Errorf("got %d notices after expiry, want 0", len(active))
		}
	})

	t.Run("missing hours rejected", func(t *testing.T) {
		_, err := service.PublishNotice(ctx, &validator.NoticeCreateRequest{Message: "x"})
		if !errors.Is(err, ErrValidationFailed) {
			t.Errorf("expected ErrValidationFailed, got %v", err)
		}
	})

	t.Run("clear removes everything", func(t *testing.T) {
		if err := service.ClearNotices(ctx); err != nil {
			t.Fatalf("ClearNotices() error = %v", err)
		}
		active, _ := service.ActiveNotices(ctx, time.Now())
		if len(active) != 0 {
			t.Errorf("got %d notices after clear, want 0", len(active))
		}
	})
}

func TestCourseProgress(t *testing.T) {
	repo, service := newContentFixture()
	ctx := context.Background()

	for _, title := range []string{"Boas-vindas", "Leitura de rótulos", "Planejamento de refeições", "Reeducação alimentar"} {
		if _, err := service.CreateVideo(ctx, &validator.VideoRequest{
			Title: title,
			Link:  "https://videos.example.com/" + title,
		}); err != nil {
			t.Fatalf("CreateVideo() error = %v", err)
		}
	}

	if err := service.SetLessonCompleted(ctx, "ana", repo.Videos[0].ID, true); err != nil {
		t.Fatalf("SetLessonCompleted() error = %v", err)
	}

	progress, err := service.Progress(ctx, "ana")
	if err != nil {
		t.Fatalf("Progress() error = %v", err)
	}
	if progress.Total != 4 || progress.Completed != 1 {
		t.Errorf("progress = %d/%d, want 1/4", progress.Completed, progress.Total)
	}
	if progress.Percent != 25 {
		t.Errorf("percent = %v, want 25", progress.Percent)
	}

	t.Run("unchecking a lesson", func(t *testing.T) {
		if err := service.SetLessonCompleted(ctx, "ana", repo.Videos[0].ID, false); err != nil {
			t.Fatalf("SetLessonCompleted() error = %v", err)
		}
		progress, _ := service.Progress(ctx, "ana")
		if progress.Completed != 0 {
			t.Errorf("completed = %d, want 0", progress.Completed)
		}
	})

	t.Run("unknown video", func(t *testing.T) {
		if err := service.SetLessonCompleted(ctx, "ana", 999, true); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestPartners(t *testing.T) {
	repo, service := newContentFixture()
	ctx := context.Background()

	created, err := service.CreatePartner(ctx, &validator.PartnerRequest{
		Name:     "Suplementos XYZ",
		Discount: "15%",
		Coupon:   "NUTRI15",
	})
	if err != nil {
		t.Fatalf("CreatePartner() error = %v", err)
	}
	if !created.Active {
		t.Error("partners default to active")
	}

	inactive := false
	if _, err := service.UpdatePartner(ctx, created.ID, &validator.PartnerRequest{
		Name:   "Suplementos XYZ",
		Active: &inactive,
	}); err != nil {
		t.Fatalf("UpdatePartner() error = %v", err)
	}

	activeOnly, err := service.ListPartners(ctx, true)
	if err != nil {
		t.Fatalf("ListPartners() error = %v", err)
	}
	if len(activeOnly) != 0 {
		t.Errorf("got %d active partners, want 0", len(activeOnly))
	}

	all, err := service.ListPartners(ctx, false)
	if err != nil {
		t.Fatalf("ListPartners() error = %v", err)
	}
	if len(all) != 1 {
		t.Errorf("got %d partners, want 1", len(all))
	}

	if err := service.DeletePartner(ctx, created.ID); err != nil {
		t.Fatalf("DeletePartner() error = %v", err)
	}
	if len(repo.Partners) != 0 {
		t.Error("partner still stored after delete")
	}
}
