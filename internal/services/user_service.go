package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/NutriFlow-2025/coaching-service/internal/cache"
	"github.com/NutriFlow-2025/coaching-service/internal/events"
	"github.com/NutriFlow-2025/coaching-service/internal/models"
	"github.com/NutriFlow-2025/coaching-service/internal/repositories"
	"github.com/NutriFlow-2025/coaching-service/internal/validator"
)

// ===== SERVICE INTERFACE =====

type UserService interface {
	// Authenticate checks credentials and returns the user on success
	Authenticate(ctx context.Context, username, password string) (*models.User, error)

	// Register creates a patient account
	Register(ctx context.Context, req *validator.UserCreateRequest) (*models.User, error)

	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Update(ctx context.Context, username string, req *validator.UserUpdateRequest) (*models.User, error)
	SetActive(ctx context.Context, username string, active bool) error
	Delete(ctx context.Context, username string) error
	List(ctx context.Context, filters repositories.UserFilters) ([]*models.User, int64, error)

	// ChangePassword verifies the current password before replacing it
	ChangePassword(ctx context.Context, username string, req *validator.PasswordChangeRequest) error
}

// ===== SERVICE IMPLEMENTATION =====

type userService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
	caches    *cache.CacheManager
}

func NewUserService(repo repositories.Repository, logger *slog.Logger, v *validator.Validator, publisher events.EventPublisher, caches *cache.CacheManager) UserService {
	return &userService{
		repo:      repo,
		logger:    logger,
		validator: v,
		publisher: publisher,
		caches:    caches,
	}
}

// Authenticate compares the stored password directly. Credentials are
// provisioned by the coach and exchanged out of band.
func (s *userService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.repo.User().GetByUsername(ctx, username)
	if err != nil {
		return nil, ErrUnauthorized
	}

	if !user.Active || user.Password != password {
		return nil, ErrUnauthorized
	}

	s.logger.Info("User authenticated", "username", username, "role", user.Role)
	return user, nil
}

func (s *userService) Register(ctx context.Context, req *validator.UserCreateRequest) (*models.User, error) {
	if errs := s.validator.ValidateUserCreate(req); errs.HasErrors() {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, errs.Error())
	}

	exists, err := s.repo.User().ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("%w: username %s already taken", ErrConflict, req.Username)
	}

	user := &models.User{
		Username:         req.Username,
		Password:         req.Password,
		Name:             req.Name,
		Role:             models.RolePatient,
		Active:           true,
		Phone:            req.Phone,
		CheckinWeekday:   req.CheckinWeekday,
		CheckinFrequency: models.CheckinFrequency(req.CheckinFrequency),
	}

	if req.PlanStartDate != nil {
		start, err := time.Parse(validator.PlanDateLayout, *req.PlanStartDate)
		if err != nil {
			return nil, NewValidationError("plan start date is not parseable")
		}
		user.PlanStartDate = &start
	} else {
		// The first-check-in wait counts from registration when no explicit
		// start date is given
		now := time.Now()
		start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		user.PlanStartDate = &start
	}

	if err := s.repo.User().Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.publishEvent(ctx, events.TypePatientRegistered, map[string]any{
		"username":          user.Username,
		"checkin_weekday":   user.CheckinWeekday,
		"checkin_frequency": string(user.CheckinFrequency),
	})

	s.logger.Info("Patient registered", "username", user.Username)
	return user, nil
}

func (s *userService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := s.repo.User().GetByUsername(ctx, username)
	if err != nil {
		return nil, NewNotFoundError("user", username)
	}
	return user, nil
}

func (s *userService) Update(ctx context.Context, username string, req *validator.UserUpdateRequest) (*models.User, error) {
	if errs := s.validator.Validate(req); errs.HasErrors() {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, errs.Error())
	}

	user, err := s.repo.User().GetByUsername(ctx, username)
	if err != nil {
		return nil, NewNotFoundError("user", username)
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Active != nil {
		user.Active = *req.Active
	}
	if req.CheckinWeekday != nil {
		user.CheckinWeekday = *req.CheckinWeekday
	}
	if req.CheckinFrequency != nil {
		user.CheckinFrequency = models.CheckinFrequency(*req.CheckinFrequency)
	}
	if req.PlanStartDate != nil {
		if *req.PlanStartDate == "" {
			user.PlanStartDate = nil
		} else {
			start, err := time.Parse(validator.PlanDateLayout, *req.PlanStartDate)
			if err != nil {
				return nil, NewValidationError("plan start date is not parseable")
			}
			user.PlanStartDate = &start
		}
	}

	if err := s.repo.User().Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.logger.Info("User updated", "username", username)
	return user, nil
}

func (s *userService) SetActive(ctx context.Context, username string, active bool) error {
	if err := s.repo.User().SetActive(ctx, username, active); err != nil {
		if repositories.IsNotFound(err) {
			return NewNotFoundError("user", username)
		}
		return fmt.Errorf("failed to set active flag: %w", err)
	}

	s.logger.Info("User active flag changed", "username", username, "active", active)
	return nil
}

func (s *userService) Delete(ctx context.Context, username string) error {
	user, err := s.repo.User().GetByUsername(ctx, username)
	if err != nil {
		return NewNotFoundError("user", username)
	}

	if err := s.repo.User().Delete(ctx, user.ID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.logger.Info("User deleted", "username", username)
	return nil
}

func (s *userService) List(ctx context.Context, filters repositories.UserFilters) ([]*models.User, int64, error) {
	users, total, err := s.repo.User().List(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}

func (s *userService) ChangePassword(ctx context.Context, username string, req *validator.PasswordChangeRequest) error {
	if errs := s.validator.Validate(req); errs.HasErrors() {
		return fmt.Errorf("%w: %s", ErrValidationFailed, errs.Error())
	}

	user, err := s.repo.User().GetByUsername(ctx, username)
	if err != nil {
		return NewNotFoundError("user", username)
	}

	if user.Password != req.CurrentPassword {
		return fmt.Errorf("%w: current password does not match", ErrUnauthorized)
	}

	if err := s.repo.User().UpdatePassword(ctx, username, req.NewPassword); err != nil {
		return fmt.Errorf("failed to change password: %w", err)
	}

	s.logger.Info("Password changed", "username", username)
	return nil
}

func (s *userService) publishEvent(ctx context.Context, eventType string, data map[string]any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, events.TopicPatients, events.NewEvent(eventType, data)); err != nil {
		s.logger.Warn("Failed to publish event", "event_type", eventType, "error", err)
	}
}
