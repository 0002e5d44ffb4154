package services

import (
	"context"
	"errors"
	"testing"

	"github.com/NutriFlow-2025/coaching-service/internal/models"
	"github.com/NutriFlow-2025/coaching-service/internal/validator"
)

func newQuestionFixture() (*MockRepository, QuestionService) {
	repo := NewMockRepository()
	service := NewQuestionService(repo, testLogger(), validator.New())
	return repo, service
}

func TestSeedDefaults(t *testing.T) {
	repo, service := newQuestionFixture()
	ctx := context.Background()

	if err := service.SeedDefaults(ctx); err != nil {
		t.Fatalf("SeedDefaults() error = %v", err)
	}

	if len(repo.Questions) != 18 {
		t.Fatalf("seeded %d questions, want 18", len(repo.Questions))
	}

	for i, q := range repo.Questions {
		if q.Position != i+1 {
			t.Errorf("question %s position = %d, want %d", q.ID, q.Position, i+1)
		}
		if !q.Active {
			t.Errorf("question %s should be active", q.ID)
		}
	}

	if repo.Questions[0].ID != "peso" || repo.Questions[0].Kind != models.KindNumber {
		t.Errorf("first question = %+v, want the weight field", repo.Questions[0])
	}
	if repo.Questions[1].ID != "aderencia" || repo.Questions[1].Kind != models.KindRadio {
		t.Errorf("second question = %+v, want the adherence radio", repo.Questions[1])
	}

	// Seeding a populated schema is a no-op
	extra := &models.Question{ID: "extra", Position: 19, Prompt: "x", Kind: models.KindShortText, Active: true}
	repo.Questions = append(repo.Questions, extra)
	if err := service.SeedDefaults(ctx); err != nil {
		t.Fatalf("second SeedDefaults() error = %v", err)
	}
	if len(repo.Questions) != 19 {
		t.Errorf("second seed changed the schema: %d questions", len(repo.Questions))
	}
}

func TestQuestionCreate(t *testing.T) {
	_, service := newQuestionFixture()
	ctx := context.Background()

	created, err := service.Create(ctx, &validator.QuestionCreateRequest{
		ID:      "agua_litros",
		Prompt:  "Litros de água por dia:",
		Kind:    "slider",
		Options: []string{"0-6"},
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.Position != 1 {
		t.Errorf("position = %d, want appended at 1", created.Position)
	}
	if !created.Active {
		t.Error("new questions start active")
	}

	t.Run("duplicate id", func(t *testing.T) {
		_, err := service.Create(ctx, &validator.QuestionCreateRequest{
			ID: "agua_litros", Prompt: "x", Kind: "short_text",
		})
		if !errors.Is(err, ErrConflict) {
			t.Errorf("expected ErrConflict, got %v", err)
		}
	})

	t.Run("radio needs two options", func(t *testing.T) {
		_, err := service.Create(ctx, &validator.QuestionCreateRequest{
			ID: "humor", Prompt: "Humor:", Kind: "radio", Options: []string{"Bom"},
		})
		if !errors.Is(err, ErrValidationFailed) {
			t.Errorf("expected ErrValidationFailed, got %v", err)
		}
	})

	t.Run("slider needs a range option", func(t *testing.T) {
		_, err := service.Create(ctx, &validator.QuestionCreateRequest{
			ID: "passos", Prompt: "Passos:", Kind: "slider", Options: []string{"muitos"},
		})
		if !errors.Is(err, ErrValidationFailed) {
			t.Errorf("expected ErrValidationFailed, got %v", err)
		}
	})

	t.Run("text kinds cannot carry options", func(t *testing.T) {
		_, err := service.Create(ctx, &validator.QuestionCreateRequest{
			ID: "obs", Prompt: "Observações:", Kind: "long_text", Options: []string{"a", "b"},
		})
		if !errors.Is(err, ErrValidationFailed) {
			t.Errorf("expected ErrValidationFailed, got %v", err)
		}
	})
}

func TestQuestionUpdate(t *testing.T) {
	repo, service := newQuestionFixture()
	ctx := context.Background()

	repo.Questions = append(repo.Questions, &models.Question{
		ID: "peso", Position: 1, Prompt: "Peso Atual (kg)", Kind: models.KindNumber, Active: true,
	})

	updated, err := service.Update(ctx, "peso", &validator.QuestionUpdateRequest{
		Prompt: strPtr("Peso atual em kg:"),
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Prompt != "Peso atual em kg:" {
		t.Errorf("prompt = %s", updated.Prompt)
	}
	if updated.Kind != models.KindNumber {
		t.Errorf("kind changed unexpectedly to %s", updated.Kind)
	}

	if _, err := service.Update(ctx, "missing", &validator.QuestionUpdateRequest{}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestQuestionReorder(t *testing.T) {
	repo, service := newQuestionFixture()
	ctx := context.Background()

	if err := service.SeedDefaults(ctx); err != nil {
		t.Fatalf("SeedDefaults() error = %v", err)
	}

	t.Run("must list every question exactly once", func(t *testing.T) {
		if err := service.Reorder(ctx, []string{"peso", "aderencia"}); !errors.Is(err, ErrValidationFailed) {
			t.Errorf("expected ErrValidationFailed for partial id list, got %v", err)
		}
	})

	t.Run("unknown id rejected", func(t *testing.T) {
		ids := make([]string, len(repo.Questions))
		for i, q := range repo.Questions {
			ids[i] = q.ID
		}
		ids[0] = "invented"
		if err := service.Reorder(ctx, ids); !errors.Is(err, ErrValidationFailed) {
			t.Errorf("expected ErrValidationFailed for unknown id, got %v", err)
		}
	})

	t.Run("reorder moves a question without touching ids", func(t *testing.T) {
		ids := make([]string, len(repo.Questions))
		for i, q := range repo.Questions {
			ids[i] = q.ID
		}
		// Move the last question to the front
		ids = append([]string{ids[len(ids)-1]}, ids[:len(ids)-1]...)

		if err := service.Reorder(ctx, ids); err != nil {
			t.Fatalf("Reorder() error = %v", err)
		}

		questions, err := service.List(ctx)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if questions[0].ID != "avaliacao_atend" {
			t.Errorf("first question = %s, want avaliacao_atend", questions[0].ID)
		}
		if questions[0].Position != 1 {
			t.Errorf("position = %d, want 1", questions[0].Position)
		}
	})
}

func TestQuestionDeactivate(t *testing.T) {
	repo, service := newQuestionFixture()
	ctx := context.Background()

	repo.Questions = append(repo.Questions, &models.Question{
		ID: "peso", Position: 1, Prompt: "Peso Atual (kg)", Kind: models.KindNumber, Active: true,
	})

	if err := service.Deactivate(ctx, "peso"); err != nil {
		t.Fatalf("Deactivate() error = %v", err)
	}

	active, err := service.ListActive(ctx)
	if err != nil {
		t.Fatalf("ListActive() error = %v", err)
	}
	if len(active) != 0 {
		t.Errorf("got %d active questions, want 0", len(active))
	}

	all, err := service.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != 1 {
		t.Errorf("deactivation must not delete the row")
	}

	if err := service.Deactivate(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
