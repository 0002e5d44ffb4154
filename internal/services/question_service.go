package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"gorm.io/datatypes"

	"github.com/NutriFlow-2025/coaching-service/internal/models"
	"github.com/NutriFlow-2025/coaching-service/internal/repositories"
	"github.com/NutriFlow-2025/coaching-service/internal/validator"
)

// ===== SERVICE INTERFACE =====

// QuestionService manages the check-in question schema the coach edits
type QuestionService interface {
	ListActive(ctx context.Context) ([]*models.Question, error)
	List(ctx context.Context) ([]*models.Question, error)
	Create(ctx context.Context, req *validator.QuestionCreateRequest) (*models.Question, error)
	Update(ctx context.Context, id string, req *validator.QuestionUpdateRequest) (*models.Question, error)
	Deactivate(ctx context.Context, id string) error

	// Reorder rewrites the whole schema in the given id order
	Reorder(ctx context.Context, ids []string) error

	// SeedDefaults installs the default question set when the schema is empty
	SeedDefaults(ctx context.Context) error
}

// ===== SERVICE IMPLEMENTATION =====

type questionService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewQuestionService(repo repositories.Repository, logger *slog.Logger, v *validator.Validator) QuestionService {
	return &questionService{
		repo:      repo,
		logger:    logger,
		validator: v,
	}
}

func (s *questionService) ListActive(ctx context.Context) ([]*models.Question, error) {
	questions, err := s.repo.Question().ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active questions: %w", err)
	}
	return questions, nil
}

func (s *questionService) List(ctx context.Context) ([]*models.Question, error) {
	questions, err := s.repo.Question().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	return questions, nil
}

func (s *questionService) Create(ctx context.Context, req *validator.QuestionCreateRequest) (*models.Question, error) {
	if errs := s.validator.ValidateQuestionCreate(req); errs.HasErrors() {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, errs.Error())
	}

	if _, err := s.repo.Question().GetByID(ctx, req.ID); err == nil {
		return nil, fmt.Errorf("%w: question %s already exists", ErrConflict, req.ID)
	}

	existing, err := s.repo.Question().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}

	question := &models.Question{
		ID:       req.ID,
		Position: len(existing) + 1,
		Prompt:   req.Prompt,
		Kind:     models.QuestionKind(req.Kind),
		Options:  optionsJSON(req.Options),
		Category: req.Category,
		Active:   true,
	}

	if err := s.repo.Question().Create(ctx, question); err != nil {
		return nil, fmt.Errorf("failed to create question: %w", err)
	}

	s.logger.Info("Question created", "question_id", question.ID, "kind", question.Kind)
	return question, nil
}

func (s *questionService) Update(ctx context.Context, id string, req *validator.QuestionUpdateRequest) (*models.Question, error) {
	if errs := s.validator.Validate(req); errs.HasErrors() {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, errs.Error())
	}

	question, err := s.repo.Question().GetByID(ctx, id)
	if err != nil {
		return nil, NewNotFoundError("question", id)
	}

	if req.Prompt != nil {
		question.Prompt = *req.Prompt
	}
	if req.Kind != nil {
		question.Kind = models.QuestionKind(*req.Kind)
	}
	if req.Options != nil {
		question.Options = optionsJSON(req.Options)
	}
	if req.Category != nil {
		question.Category = *req.Category
	}
	if req.Active != nil {
		question.Active = *req.Active
	}

	if err := s.repo.Question().Update(ctx, question); err != nil {
		return nil, fmt.Errorf("failed to update question: %w", err)
	}

	s.logger.Info("Question updated", "question_id", id)
	return question, nil
}

func (s *questionService) Deactivate(ctx context.Context, id string) error {
	if err := s.repo.Question().Deactivate(ctx, id); err != nil {
		if repositories.IsNotFound(err) {
			return NewNotFoundError("question", id)
		}
		return fmt.Errorf("failed to deactivate question: %w", err)
	}

	s.logger.Info("Question deactivated", "question_id", id)
	return nil
}

// Reorder rewrites the schema in one transaction. Stored answers key on the
// question id, so reordering never touches submitted check-ins.
func (s *questionService) Reorder(ctx context.Context, ids []string) error {
	existing, err := s.repo.Question().List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list questions: %w", err)
	}

	byID := make(map[string]*models.Question, len(existing))
	for _, q := range existing {
		byID[q.ID] = q
	}

	if len(ids) != len(existing) {
		return NewValidationError("reorder must list every question exactly once")
	}

	ordered := make([]*models.Question, 0, len(ids))
	for _, id := range ids {
		q, ok := byID[id]
		if !ok {
			return NewValidationError(fmt.Sprintf("unknown question id %s", id))
		}
		ordered = append(ordered, q)
	}

	if err := s.repo.Question().ReplaceAll(ctx, ordered); err != nil {
		return fmt.Errorf("failed to reorder questions: %w", err)
	}

	s.logger.Info("Question schema reordered", "count", len(ordered))
	return nil
}

func (s *questionService) SeedDefaults(ctx context.Context) error {
	existing, err := s.repo.Question().List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list questions: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	defaults := DefaultQuestions()
	if err := s.repo.Question().ReplaceAll(ctx, defaults); err != nil {
		return fmt.Errorf("failed to seed default questions: %w", err)
	}

	s.logger.Info("Default question schema seeded", "count", len(defaults))
	return nil
}

func optionsJSON(options []string) datatypes.JSON {
	if len(options) == 0 {
		return nil
	}
	raw, _ := json.Marshal(options)
	return datatypes.JSON(raw)
}

// DefaultQuestions is the stock check-in form. Scoring and the heatmap key on
// these ids; renaming one orphans the stored answers under the old key.
func DefaultQuestions() []*models.Question {
	defaults := []*models.Question{
		{ID: "peso", Prompt: "Peso Atual (kg)", Kind: models.KindNumber, Category: "0. Dados Iniciais"},
		{ID: "aderencia", Prompt: "3. Aderência ao plano alimentar:", Kind: models.KindRadio, Category: "1. Comportamento",
			Options: optionsJSON([]string{
				"Estou conseguindo seguir tudo tranquilamente",
				"Consigo seguir tudo, mas às vezes passo por alguma dificuldade",
				"Não consigo realizar tudo",
				"Não estou conseguindo realizar nada",
			})},
		{ID: "aderencia_expl", Prompt: "Explicação (se houver dificuldade):", Kind: models.KindLongText, Category: "1. Comportamento"},
		{ID: "dedicacao", Prompt: "4. Nível de dedicação geral (dieta e hábitos):", Kind: models.KindRadio, Category: "1. Comportamento",
			Options: optionsJSON([]string{"Dei o meu melhor", "Me dediquei", "Neutro", "Poderia ter feito mais", "Não me dediquei nada"})},
		{ID: "refeicoes_fora", Prompt: "5. Refeições fora do plano (última semana):", Kind: models.KindSlider, Category: "1. Comportamento",
			Options: optionsJSON([]string{"0-10"})},
		{ID: "dias_alcool", Prompt: "6. Dias com consumo de álcool:", Kind: models.KindSlider, Category: "1. Comportamento",
			Options: optionsJSON([]string{"0-7"})},
		{ID: "treino_forca", Prompt: "7. Treinos de força realizados (ex: musculação):", Kind: models.KindSlider, Category: "2. Treinos",
			Options: optionsJSON([]string{"0-7"})},
		{ID: "treino_cardio", Prompt: "8. Treinos aeróbicos realizados (ex: cardio):", Kind: models.KindSlider, Category: "2. Treinos",
			Options: optionsJSON([]string{"0-7"})},
		{ID: "disposicao", Prompt: "9. Disposição durante o dia:", Kind: models.KindRadio, Category: "3. Bem-estar",
			Options: optionsJSON([]string{"Muito disposto(a)", "Geralmente disposto(a)", "Depende do dia", "Geralmente indisposto(a)", "Zero disposição"})},
		{ID: "estresse", Prompt: "10. Nível de estresse:", Kind: models.KindRadio, Category: "3. Bem-estar",
			Options: optionsJSON([]string{"Não estive estressado(a)", "Um pouco estressado(a)", "Constantemente estressado(a)"})},
		{ID: "ansiedade", Prompt: "11. Nível de ansiedade:", Kind: models.KindRadio, Category: "3. Bem-estar",
			Options: optionsJSON([]string{"Não senti ansiedade", "Senti ansiedade em momentos específicos", "Senti ansiedade de forma constante"})},
		{ID: "rotina", Prompt: "12. Avaliação da rotina diária:", Kind: models.KindRadio, Category: "4. Rotina e Corpo",
			Options: optionsJSON([]string{"Bem estruturada e equilibrada", "Um pouco desorganizada, mas consigo lidar", "Muito desorganizada e me sinto sobrecarregado"})},
		{ID: "evolucao", Prompt: "13. Percepção de evolução corporal:", Kind: models.KindRadio, Category: "4. Rotina e Corpo",
			Options: optionsJSON([]string{"Bastante evolução", "Consigo notar evolução", "Não noto evolução", "Talvez esteja regredindo", "Estou regredindo"})},
		{ID: "sono_qualidade", Prompt: "14. Qualidade do sono:", Kind: models.KindRadio, Category: "5. Sono",
			Options: optionsJSON([]string{"Ótimo", "Bom", "Neutro", "Ruim", "Terrível"})},
		{ID: "sono_horas", Prompt: "15. Horas de sono (média):", Kind: models.KindSlider, Category: "5. Sono",
			Options: optionsJSON([]string{"0-12"})},
		{ID: "alteracoes", Prompt: "16. Deseja alterações no cardápio?", Kind: models.KindLongText, Category: "6. Finalização"},
		{ID: "nps", Prompt: "17. Probabilidade de recomendação:", Kind: models.KindRadio, Category: "6. Finalização",
			Options: optionsJSON([]string{"Muito provável", "Provável", "Neutro", "Improvável", "Muito improvável"})},
		{ID: "avaliacao_atend", Prompt: "18. Avaliação do atendimento (0-10):", Kind: models.KindSlider, Category: "6. Finalização",
			Options: optionsJSON([]string{"0-10"})},
	}

	for i, q := range defaults {
		q.Position = i + 1
		q.Active = true
	}
	return defaults
}
