package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/NutriFlow-2025/coaching-service/internal/cache"
	"github.com/NutriFlow-2025/coaching-service/internal/models"
	"github.com/NutriFlow-2025/coaching-service/internal/repositories"
)

type QuestionPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewQuestionPostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.QuestionRepository {
	return &QuestionPostgreSQL{db: db, cacheManager: cacheManager}
}

func (r *QuestionPostgreSQL) Create(ctx context.Context, question *models.Question) error {
	if err := r.db.WithContext(ctx).Create(question).Error; err != nil {
		return fmt.Errorf("failed to create question: %w", err)
	}
	cache.InvalidateQuestionCache(ctx, r.cacheManager)
	return nil
}

func (r *QuestionPostgreSQL) GetByID(ctx context.Context, id string) (*models.Question, error) {
	var question models.Question
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&question).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *QuestionPostgreSQL) Update(ctx context.Context, question *models.Question) error {
	if err := r.db.WithContext(ctx).Save(question).Error; err != nil {
		return fmt.Errorf("failed to update question: %w", err)
	}
	cache.InvalidateQuestionCache(ctx, r.cacheManager)
	return nil
}

func (r *QuestionPostgreSQL) Deactivate(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Model(&models.Question{}).
		Where("id = ?", id).
		Update("active", false)
	if result.Error != nil {
		return fmt.Errorf("failed to deactivate question: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	cache.InvalidateQuestionCache(ctx, r.cacheManager)
	return nil
}

func (r *QuestionPostgreSQL) ListActive(ctx context.Context) ([]*models.Question, error) {
	var questions []*models.Question

	cacheKey := "schema:active"
	if err := r.cacheManager.Question.Get(ctx, cacheKey, &questions); err == nil {
		return questions, nil
	}

	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("position").
		Find(&questions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list active questions: %w", err)
	}

	// cache write failures never fail the read
	_ = r.cacheManager.Question.Set(ctx, cacheKey, questions, cache.QuestionCacheConfig.TTL)

	return questions, nil
}

func (r *QuestionPostgreSQL) List(ctx context.Context) ([]*models.Question, error) {
	var questions []*models.Question
	if err := r.db.WithContext(ctx).Order("position").Find(&questions).Error; err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	return questions, nil
}

// ReplaceAll swaps the whole ordered schema atomically. Used by the schema
// editor when questions are reordered.
func (r *QuestionPostgreSQL) ReplaceAll(ctx context.Context, questions []*models.Question) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.Question{}).Error; err != nil {
			return err
		}
		for i, q := range questions {
			q.Position = i + 1
			if err := tx.Create(q).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to replace question schema: %w", err)
	}
	cache.InvalidateQuestionCache(ctx, r.cacheManager)
	return nil
}
