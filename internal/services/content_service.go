package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/NutriFlow-2025/coaching-service/internal/models"
	"github.com/NutriFlow-2025/coaching-service/internal/repositories"
	"github.com/NutriFlow-2025/coaching-service/internal/validator"
)

// ===== RESPONSE DTOs =====

// CourseProgress is a patient's standing in the video course
type CourseProgress struct {
	Videos       []*models.Video `json:"videos"`
	CompletedIDs []uint          `json:"completed_ids"`
	Total        int64           `json:"total"`
	Completed    int             `json:"completed"`
	Percent      float64         `json:"percent"`
}

// ===== SERVICE INTERFACE =====

// ContentService covers the coach-published content surfaces: notice banner,
// video course and partner catalog.
type ContentService interface {
	// Notices
	PublishNotice(ctx context.Context, req *validator.NoticeCreateRequest) (*models.Notice, error)
	ActiveNotices(ctx context.Context, now time.Time) ([]*models.Notice, error)
	ClearNotices(ctx context.Context) error

	// Videos and lesson completion
	CreateVideo(ctx context.Context, req *validator.VideoRequest) (*models.Video, error)
	UpdateVideo(ctx context.Context, id uint, req *validator.VideoRequest) (*models.Video, error)
	DeleteVideo(ctx context.Context, id uint) error
	ListVideos(ctx context.Context) ([]*models.Video, error)
	SetLessonCompleted(ctx context.Context, username string, videoID uint, completed bool) error
	Progress(ctx context.Context, username string) (*CourseProgress, error)

	// Partners
	CreatePartner(ctx context.Context, req *validator.PartnerRequest) (*models.Partner, error)
	UpdatePartner(ctx context.Context, id uint, req *validator.PartnerRequest) (*models.Partner, error)
	DeletePartner(ctx context.Context, id uint) error
	ListPartners(ctx context.Context, activeOnly bool) ([]*models.Partner, error)
}

// ===== SERVICE IMPLEMENTATION =====

type contentService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewContentService(repo repositories.Repository, logger *slog.Logger, v *validator.Validator) ContentService {
	return &contentService{
		repo:      repo,
		logger:    logger,
		validator: v,
	}
}

// ===== NOTICES =====

func (s *contentService) PublishNotice(ctx context.Context, req *validator.NoticeCreateRequest) (*models.Notice, error) {
	if errs := s.validator.Validate(req); errs.HasErrors() {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, errs.Error())
	}

	notice := &models.Notice{
		Message:   req.Message,
		ExpiresAt: time.Now().Add(time.Duration(req.HoursActive) * time.Hour),
	}

	if err := s.repo.Notice().Create(ctx, notice); err != nil {
		return nil, fmt.Errorf("failed to publish notice: %w", err)
	}

	s.logger.Info("Notice published", "notice_id", notice.ID, "hours_active", req.HoursActive)
	return notice, nil
}

// ActiveNotices filters by expiry; expired rows stay until the next clear
func (s *contentService) ActiveNotices(ctx context.Context, now time.Time) ([]*models.Notice, error) {
	notices, err := s.repo.Notice().ListActive(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list notices: %w", err)
	}
	return notices, nil
}

func (s *contentService) ClearNotices(ctx context.Context) error {
	if err := s.repo.Notice().DeleteAll(ctx); err != nil {
		return fmt.Errorf("failed to clear notices: %w", err)
	}

	s.logger.Info("Notices cleared")
	return nil
}

// ===== VIDEOS =====

func (s *contentService) CreateVideo(ctx context.Context, req *validator.VideoRequest) (*models.Video, error) {
	if errs := s.validator.Validate(req); errs.HasErrors() {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, errs.Error())
	}

	video := &models.Video{
		Title:       req.Title,
		Module:      req.Module,
		Link:        req.Link,
		Description: req.Description,
		Position:    req.Position,
	}

	if err := s.repo.Video().Create(ctx, video); err != nil {
		return nil, fmt.Errorf("failed to create video: %w", err)
	}

	s.logger.Info("Video created", "video_id", video.ID, "title", video.Title)
	return video, nil
}

func (s *contentService) UpdateVideo(ctx context.Context, id uint, req *validator.VideoRequest) (*models.Video, error) {
	if errs := s.validator.Validate(req); errs.HasErrors() {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, errs.Error())
	}

	video, err := s.repo.Video().GetByID(ctx, id)
	if err != nil {
		return nil, NewNotFoundError("video", fmt.Sprintf("%d", id))
	}

	video.Title = req.Title
	video.Module = req.Module
	video.Link = req.Link
	video.Description = req.Description
	video.Position = req.Position

	if err := s.repo.Video().Update(ctx, video); err != nil {
		return nil, fmt.Errorf("failed to update video: %w", err)
	}

	return video, nil
}

func (s *contentService) DeleteVideo(ctx context.Context, id uint) error {
	if _, err := s.repo.Video().GetByID(ctx, id); err != nil {
		return NewNotFoundError("video", fmt.Sprintf("%d", id))
	}

	if err := s.repo.Video().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete video: %w", err)
	}

	s.logger.Info("Video deleted", "video_id", id)
	return nil
}

func (s *contentService) ListVideos(ctx context.Context) ([]*models.Video, error) {
	videos, err := s.repo.Video().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}
	return videos, nil
}

func (s *contentService) SetLessonCompleted(ctx context.Context, username string, videoID uint, completed bool) error {
	if _, err := s.repo.Video().GetByID(ctx, videoID); err != nil {
		return NewNotFoundError("video", fmt.Sprintf("%d", videoID))
	}

	if err := s.repo.Video().SetCompleted(ctx, username, videoID, completed); err != nil {
		return fmt.Errorf("failed to set lesson completion: %w", err)
	}

	return nil
}

func (s *contentService) Progress(ctx context.Context, username string) (*CourseProgress, error) {
	videos, err := s.repo.Video().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}

	completedIDs, err := s.repo.Video().ListCompletedIDs(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to list completions: %w", err)
	}

	progress := &CourseProgress{
		Videos:       videos,
		CompletedIDs: completedIDs,
		Total:        int64(len(videos)),
		Completed:    len(completedIDs),
	}
	if progress.Total > 0 {
		progress.Percent = float64(progress.Completed) / float64(progress.Total) * 100
	}

	return progress, nil
}

// ===== PARTNERS =====

func (s *contentService) CreatePartner(ctx context.Context, req *validator.PartnerRequest) (*models.Partner, error) {
	if errs := s.validator.Validate(req); errs.HasErrors() {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, errs.Error())
	}

	partner := &models.Partner{
		Name:     req.Name,
		Discount: req.Discount,
		Coupon:   req.Coupon,
		Link:     req.Link,
		Active:   true,
	}
	if req.Active != nil {
		partner.Active = *req.Active
	}

	if err := s.repo.Partner().Create(ctx, partner); err != nil {
		return nil, fmt.Errorf("failed to create partner: %w", err)
	}

	s.logger.Info("Partner created", "partner_id", partner.ID, "name", partner.Name)
	return partner, nil
}

func (s *contentService) UpdatePartner(ctx context.Context, id uint, req *validator.PartnerRequest) (*models.Partner, error) {
	if errs := s.validator.Validate(req); errs.HasErrors() {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, errs.Error())
	}

	partner, err := s.repo.Partner().GetByID(ctx, id)
	if err != nil {
		return nil, NewNotFoundError("partner", fmt.Sprintf("%d", id))
	}

	partner.Name = req.Name
	partner.Discount = req.Discount
	partner.Coupon = req.Coupon
	partner.Link = req.Link
	if req.Active != nil {
		partner.Active = *req.Active
	}

	if err := s.repo.Partner().Update(ctx, partner); err != nil {
		return nil, fmt.Errorf("failed to update partner: %w", err)
	}

	return partner, nil
}

func (s *contentService) DeletePartner(ctx context.Context, id uint) error {
	if _, err := s.repo.Partner().GetByID(ctx, id); err != nil {
		return NewNotFoundError("partner", fmt.Sprintf("%d", id))
	}

	if err := s.repo.Partner().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete partner: %w", err)
	}

	s.logger.Info("Partner deleted", "partner_id", id)
	return nil
}

func (s *contentService) ListPartners(ctx context.Context, activeOnly bool) ([]*models.Partner, error) {
	partners, err := s.repo.Partner().List(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list partners: %w", err)
	}
	return partners, nil
}
