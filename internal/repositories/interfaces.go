package repositories

import (
	"context"
	"time"

	"github.com/NutriFlow-2025/coaching-service/internal/models"
)

// UserFilters defines filters for user queries
type UserFilters struct {
	Role   *models.UserRole
	Active *bool
	Query  string // Search query for username or name
	Limit  int
	Offset int
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, username, password string) error
	SetActive(ctx context.Context, username string, active bool) error
	Delete(ctx context.Context, id uint) error

	List(ctx context.Context, filters UserFilters) ([]*models.User, int64, error)
	// ListActivePatients returns active patients in table order
	ListActivePatients(ctx context.Context) ([]*models.User, error)
	CountPatients(ctx context.Context) (int64, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}

// CheckinFilters defines filters for check-in queries
type CheckinFilters struct {
	Status   *models.ReviewStatus
	DateFrom *time.Time
	DateTo   *time.Time
	Limit    int
	Offset   int
}

type CheckinRepository interface {
	Create(ctx context.Context, checkin *models.Checkin) error
	GetByID(ctx context.Context, id uint) (*models.Checkin, error)
	GetByUserAndDate(ctx context.Context, username string, date time.Time) (*models.Checkin, error)
	Update(ctx context.Context, checkin *models.Checkin) error

	ListByUser(ctx context.Context, username string, filters CheckinFilters) ([]*models.Checkin, error)
	ListPending(ctx context.Context, username string) ([]*models.Checkin, error)

	// LastSubmissionDate returns nil when the user has never checked in
	LastSubmissionDate(ctx context.Context, username string) (*time.Time, error)

	UpdateStatus(ctx context.Context, id uint, status models.ReviewStatus) error
	UpdateStatusByKey(ctx context.Context, username string, date time.Time, status models.ReviewStatus) error
}

type SnackLogRepository interface {
	Create(ctx context.Context, log *models.SnackLog) error
	GetByID(ctx context.Context, id uint) (*models.SnackLog, error)
	ListByUser(ctx context.Context, username string) ([]*models.SnackLog, error)
	ListPending(ctx context.Context, username string) ([]*models.SnackLog, error)
	PendingUsernames(ctx context.Context) ([]string, error)
	MarkAllReviewed(ctx context.Context, username string) (int64, error)
}

type QuestionRepository interface {
	Create(ctx context.Context, question *models.Question) error
	GetByID(ctx context.Context, id string) (*models.Question, error)
	Update(ctx context.Context, question *models.Question) error
	Deactivate(ctx context.Context, id string) error

	// ListActive returns active questions ordered by position
	ListActive(ctx context.Context) ([]*models.Question, error)
	List(ctx context.Context) ([]*models.Question, error)

	// ReplaceAll swaps the whole ordered schema in one transaction
	ReplaceAll(ctx context.Context, questions []*models.Question) error
}

// FinancialFilters defines filters for financial entry queries
type FinancialFilters struct {
	Year  *int
	Month *int
	Type  *models.EntryType
}

type FinancialRepository interface {
	Create(ctx context.Context, entry *models.FinancialEntry) error
	GetByID(ctx context.Context, id uint) (*models.FinancialEntry, error)
	Update(ctx context.Context, entry *models.FinancialEntry) error
	Delete(ctx context.Context, id uint) error

	List(ctx context.Context, filters FinancialFilters) ([]*models.FinancialEntry, error)
	SumByType(ctx context.Context, entryType models.EntryType, filters FinancialFilters) (float64, error)
	SumByCategory(ctx context.Context, entryType models.EntryType, category string, filters FinancialFilters) (float64, error)
}

type NoticeRepository interface {
	Create(ctx context.Context, notice *models.Notice) error
	ListActive(ctx context.Context, now time.Time) ([]*models.Notice, error)
	List(ctx context.Context) ([]*models.Notice, error)
	DeleteAll(ctx context.Context) error
}

type VideoRepository interface {
	Create(ctx context.Context, video *models.Video) error
	GetByID(ctx context.Context, id uint) (*models.Video, error)
	Update(ctx context.Context, video *models.Video) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context) ([]*models.Video, error)
	ListByModule(ctx context.Context, module string) ([]*models.Video, error)

	// Lesson completion tracking
	SetCompleted(ctx context.Context, username string, videoID uint, completed bool) error
	ListCompletedIDs(ctx context.Context, username string) ([]uint, error)
	CountVideos(ctx context.Context) (int64, error)
}

type PartnerRepository interface {
	Create(ctx context.Context, partner *models.Partner) error
	GetByID(ctx context.Context, id uint) (*models.Partner, error)
	Update(ctx context.Context, partner *models.Partner) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, activeOnly bool) ([]*models.Partner, error)
}

type ChecklistRepository interface {
	// Upsert writes the day's habits keyed by (username, date)
	Upsert(ctx context.Context, entry *models.ChecklistEntry) error
	GetByUserAndDate(ctx context.Context, username string, date time.Time) (*models.ChecklistEntry, error)
	// ListRecent returns entries within the window, newest first
	ListRecent(ctx context.Context, username string, since time.Time) ([]*models.ChecklistEntry, error)
}
