package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/NutriFlow-2025/coaching-service/internal/models"
	"github.com/NutriFlow-2025/coaching-service/internal/repositories"
)

// ===== NOTICES =====

type NoticePostgreSQL struct {
	db *gorm.DB
}

func NewNoticePostgreSQL(db *gorm.DB) repositories.NoticeRepository {
	return &NoticePostgreSQL{db: db}
}

func (r *NoticePostgreSQL) Create(ctx context.Context, notice *models.Notice) error {
	if err := r.db.WithContext(ctx).Create(notice).Error; err != nil {
		return fmt.Errorf("failed to create notice: %w", err)
	}
	return nil
}

func (r *NoticePostgreSQL) ListActive(ctx context.Context, now time.Time) ([]*models.Notice, error) {
	var notices []*models.Notice
	err := r.db.WithContext(ctx).
		Where("expires_at > ?", now).
		Order("created_at DESC").
		Find(&notices).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list active notices: %w", err)
	}
	return notices, nil
}

func (r *NoticePostgreSQL) List(ctx context.Context) ([]*models.Notice, error) {
	var notices []*models.Notice
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&notices).Error; err != nil {
		return nil, fmt.Errorf("failed to list notices: %w", err)
	}
	return notices, nil
}

func (r *NoticePostgreSQL) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Where("1 = 1").Delete(&models.Notice{}).Error
}

// ===== VIDEOS =====

type VideoPostgreSQL struct {
	db *gorm.DB
}

func NewVideoPostgreSQL(db *gorm.DB) repositories.VideoRepository {
	return &VideoPostgreSQL{db: db}
}

func (r *VideoPostgreSQL) Create(ctx context.Context, video *models.Video) error {
	if err := r.db.WithContext(ctx).Create(video).Error; err != nil {
		return fmt.Errorf("failed to create video: %w", err)
	}
	return nil
}

func (r *VideoPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Video, error) {
	var video models.Video
	if err := r.db.WithContext(ctx).First(&video, id).Error; err != nil {
		return nil, err
	}
	return &video, nil
}

func (r *VideoPostgreSQL) Update(ctx context.Context, video *models.Video) error {
	if err := r.db.WithContext(ctx).Save(video).Error; err != nil {
		return fmt.Errorf("failed to update video: %w", err)
	}
	return nil
}

func (r *VideoPostgreSQL) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Video{}, id).Error
}

func (r *VideoPostgreSQL) List(ctx context.Context) ([]*models.Video, error) {
	var videos []*models.Video
	err := r.db.WithContext(ctx).Order("module, position, id").Find(&videos).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}
	return videos, nil
}

func (r *VideoPostgreSQL) ListByModule(ctx context.Context, module string) ([]*models.Video, error) {
	var videos []*models.Video
	err := r.db.WithContext(ctx).
		Where("module = ?", module).
		Order("position, id").
		Find(&videos).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list videos by module: %w", err)
	}
	return videos, nil
}

func (r *VideoPostgreSQL) SetCompleted(ctx context.Context, username string, videoID uint, completed bool) error {
	if !completed {
		return r.db.WithContext(ctx).
			Where("username = ? AND video_id = ?", username, videoID).
			Delete(&models.LessonCompletion{}).Error
	}

	completion := models.LessonCompletion{
		Username:    username,
		VideoID:     videoID,
		CompletedAt: time.Now(),
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "username"}, {Name: "video_id"}},
			DoNothing: true,
		}).
		Create(&completion).Error
	if err != nil {
		return fmt.Errorf("failed to record lesson completion: %w", err)
	}
	return nil
}

func (r *VideoPostgreSQL) ListCompletedIDs(ctx context.Context, username string) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.LessonCompletion{}).
		Where("username = ?", username).
		Pluck("video_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list completed lessons: %w", err)
	}
	return ids, nil
}

func (r *VideoPostgreSQL) CountVideos(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Video{}).Count(&count).Error
	return count, err
}

// ===== PARTNERS =====

type PartnerPostgreSQL struct {
	db *gorm.DB
}

func NewPartnerPostgreSQL(db *gorm.DB) repositories.PartnerRepository {
	return &PartnerPostgreSQL{db: db}
}

func (r *PartnerPostgreSQL) Create(ctx context.Context, partner *models.Partner) error {
	if err := r.db.WithContext(ctx).Create(partner).Error; err != nil {
		return fmt.Errorf("failed to create partner: %w", err)
	}
	return nil
}

func (r *PartnerPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Partner, error) {
	var partner models.Partner
	if err := r.db.WithContext(ctx).First(&partner, id).Error; err != nil {
		return nil, err
	}
	return &partner, nil
}

func (r *PartnerPostgreSQL) Update(ctx context.Context, partner *models.Partner) error {
	if err := r.db.WithContext(ctx).Save(partner).Error; err != nil {
		return fmt.Errorf("failed to update partner: %w", err)
	}
	return nil
}

func (r *PartnerPostgreSQL) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Partner{}, id).Error
}

func (r *PartnerPostgreSQL) List(ctx context.Context, activeOnly bool) ([]*models.Partner, error) {
	var partners []*models.Partner
	query := r.db.WithContext(ctx)
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	if err := query.Order("name").Find(&partners).Error; err != nil {
		return nil, fmt.Errorf("failed to list partners: %w", err)
	}
	return partners, nil
}
