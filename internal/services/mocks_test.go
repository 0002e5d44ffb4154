package services

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/NutriFlow-2025/coaching-service/internal/models"
	"github.com/NutriFlow-2025/coaching-service/internal/repositories"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// MockRepository is an in-memory Repository for service tests
type MockRepository struct {
	Users         map[string]*models.User
	Checkins      []*models.Checkin
	SnackLogs     []*models.SnackLog
	Questions     []*models.Question
	Entries       []*models.FinancialEntry
	Notices       []*models.Notice
	Videos        []*models.Video
	Partners      []*models.Partner
	ChecklistRows []*models.ChecklistEntry
	Completed     map[string]map[uint]bool

	nextID uint
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		Users:     make(map[string]*models.User),
		Completed: make(map[string]map[uint]bool),
	}
}

func (m *MockRepository) id() uint {
	m.nextID++
	return m.nextID
}

func (m *MockRepository) User() repositories.UserRepository           { return &mockUserRepo{m} }
func (m *MockRepository) Checkin() repositories.CheckinRepository     { return &mockCheckinRepo{m} }
func (m *MockRepository) SnackLog() repositories.SnackLogRepository   { return &mockSnackLogRepo{m} }
func (m *MockRepository) Question() repositories.QuestionRepository   { return &mockQuestionRepo{m} }
func (m *MockRepository) Financial() repositories.FinancialRepository { return &mockFinancialRepo{m} }
func (m *MockRepository) Notice() repositories.NoticeRepository       { return &mockNoticeRepo{m} }
func (m *MockRepository) Video() repositories.VideoRepository         { return &mockVideoRepo{m} }
func (m *MockRepository) Partner() repositories.PartnerRepository     { return &mockPartnerRepo{m} }
func (m *MockRepository) Checklist() repositories.ChecklistRepository { return &mockChecklistRepo{m} }

func (m *MockRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(m)
}

func (m *MockRepository) Ping(ctx context.Context) error { return nil }
func (m *MockRepository) Close() error                   { return nil }

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// ===== USER =====

type mockUserRepo struct{ m *MockRepository }

func (r *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	user.ID = r.m.id()
	r.m.Users[user.Username] = user
	return nil
}

func (r *mockUserRepo) GetByID(ctx context.Context, id uint) (*models.User, error) {
	for _, u := range r.m.Users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if u, ok := r.m.Users[username]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockUserRepo) Update(ctx context.Context, user *models.User) error {
	r.m.Users[user.Username] = user
	return nil
}

func (r *mockUserRepo) UpdatePassword(ctx context.Context, username, password string) error {
	u, ok := r.m.Users[username]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Password = password
	return nil
}

func (r *mockUserRepo) SetActive(ctx context.Context, username string, active bool) error {
	u, ok := r.m.Users[username]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Active = active
	return nil
}

func (r *mockUserRepo) Delete(ctx context.Context, id uint) error {
	for username, u := range r.m.Users {
		if u.ID == id {
			delete(r.m.Users, username)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *mockUserRepo) List(ctx context.Context, filters repositories.UserFilters) ([]*models.User, int64, error) {
	var users []*models.User
	for _, u := range r.m.Users {
		if filters.Role != nil && u.Role != *filters.Role {
			continue
		}
		if filters.Active != nil && u.Active != *filters.Active {
			continue
		}
		if filters.Query != "" && !strings.Contains(u.Username, filters.Query) && !strings.Contains(u.Name, filters.Query) {
			continue
		}
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, int64(len(users)), nil
}

func (r *mockUserRepo) ListActivePatients(ctx context.Context) ([]*models.User, error) {
	var users []*models.User
	for _, u := range r.m.Users {
		if u.Role == models.RolePatient && u.Active {
			users = append(users, u)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (r *mockUserRepo) CountPatients(ctx context.Context) (int64, error) {
	var count int64
	for _, u := range r.m.Users {
		if u.Role == models.RolePatient {
			count++
		}
	}
	return count, nil
}

func (r *mockUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, ok := r.m.Users[username]
	return ok, nil
}

// ===== CHECKIN =====

type mockCheckinRepo struct{ m *MockRepository }

func (r *mockCheckinRepo) Create(ctx context.Context, checkin *models.Checkin) error {
	checkin.ID = r.m.id()
	r.m.Checkins = append(r.m.Checkins, checkin)
	return nil
}

func (r *mockCheckinRepo) GetByID(ctx context.Context, id uint) (*models.Checkin, error) {
	for _, c := range r.m.Checkins {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockCheckinRepo) GetByUserAndDate(ctx context.Context, username string, date time.Time) (*models.Checkin, error) {
	for _, c := range r.m.Checkins {
		if c.Username == username && sameDay(c.SubmissionDate, date) {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockCheckinRepo) Update(ctx context.Context, checkin *models.Checkin) error {
	for i, c := range r.m.Checkins {
		if c.ID == checkin.ID {
			r.m.Checkins[i] = checkin
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *mockCheckinRepo) ListByUser(ctx context.Context, username string, filters repositories.CheckinFilters) ([]*models.Checkin, error) {
	var out []*models.Checkin
	for _, c := range r.m.Checkins {
		if c.Username != username {
			continue
		}
		if filters.Status != nil && c.Status != *filters.Status {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubmissionDate.After(out[j].SubmissionDate) })
	return out, nil
}

func (r *mockCheckinRepo) ListPending(ctx context.Context, username string) ([]*models.Checkin, error) {
	var out []*models.Checkin
	for _, c := range r.m.Checkins {
		if c.Status != models.StatusPending {
			continue
		}
		if username != "" && c.Username != username {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *mockCheckinRepo) LastSubmissionDate(ctx context.Context, username string) (*time.Time, error) {
	var last *time.Time
	for _, c := range r.m.Checkins {
		if c.Username != username {
			continue
		}
		d := c.SubmissionDate
		if last == nil || d.After(*last) {
			last = &d
		}
	}
	return last, nil
}

func (r *mockCheckinRepo) UpdateStatus(ctx context.Context, id uint, status models.ReviewStatus) error {
	for _, c := range r.m.Checkins {
		if c.ID == id {
			c.Status = status
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *mockCheckinRepo) UpdateStatusByKey(ctx context.Context, username string, date time.Time, status models.ReviewStatus) error {
	for _, c := range r.m.Checkins {
		if c.Username == username && sameDay(c.SubmissionDate, date) {
			c.Status = status
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

// ===== SNACK LOG =====

type mockSnackLogRepo struct{ m *MockRepository }

func (r *mockSnackLogRepo) Create(ctx context.Context, log *models.SnackLog) error {
	log.ID = r.m.id()
	r.m.SnackLogs = append(r.m.SnackLogs, log)
	return nil
}

func (r *mockSnackLogRepo) GetByID(ctx context.Context, id uint) (*models.SnackLog, error) {
	for _, l := range r.m.SnackLogs {
		if l.ID == id {
			return l, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockSnackLogRepo) ListByUser(ctx context.Context, username string) ([]*models.SnackLog, error) {
	var out []*models.SnackLog
	for _, l := range r.m.SnackLogs {
		if l.Username == username {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *mockSnackLogRepo) ListPending(ctx context.Context, username string) ([]*models.SnackLog, error) {
	var out []*models.SnackLog
	for _, l := range r.m.SnackLogs {
		if l.Status != models.StatusPending {
			continue
		}
		if username != "" && l.Username != username {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

func (r *mockSnackLogRepo) PendingUsernames(ctx context.Context) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, l := range r.m.SnackLogs {
		if l.Status == models.StatusPending && !seen[l.Username] {
			seen[l.Username] = true
			out = append(out, l.Username)
		}
	}
	return out, nil
}

func (r *mockSnackLogRepo) MarkAllReviewed(ctx context.Context, username string) (int64, error) {
	var updated int64
	for _, l := range r.m.SnackLogs {
		if l.Username == username && l.Status == models.StatusPending {
			l.Status = models.StatusReviewed
			updated++
		}
	}
	return updated, nil
}

// ===== QUESTION =====

type mockQuestionRepo struct{ m *MockRepository }

func (r *mockQuestionRepo) Create(ctx context.Context, question *models.Question) error {
	r.m.Questions = append(r.m.Questions, question)
	return nil
}

func (r *mockQuestionRepo) GetByID(ctx context.Context, id string) (*models.Question, error) {
	for _, q := range r.m.Questions {
		if q.ID == id {
			return q, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockQuestionRepo) Update(ctx context.Context, question *models.Question) error {
	for i, q := range r.m.Questions {
		if q.ID == question.ID {
			r.m.Questions[i] = question
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *mockQuestionRepo) Deactivate(ctx context.Context, id string) error {
	for _, q := range r.m.Questions {
		if q.ID == id {
			q.Active = false
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *mockQuestionRepo) ListActive(ctx context.Context) ([]*models.Question, error) {
	var out []*models.Question
	for _, q := range r.m.Questions {
		if q.Active {
			out = append(out, q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (r *mockQuestionRepo) List(ctx context.Context) ([]*models.Question, error) {
	out := make([]*models.Question, len(r.m.Questions))
	copy(out, r.m.Questions)
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (r *mockQuestionRepo) ReplaceAll(ctx context.Context, questions []*models.Question) error {
	replaced := make([]*models.Question, len(questions))
	for i, q := range questions {
		q.Position = i + 1
		replaced[i] = q
	}
	r.m.Questions = replaced
	return nil
}

// ===== FINANCIAL =====

type mockFinancialRepo struct{ m *MockRepository }

func matchEntry(e *models.FinancialEntry, filters repositories.FinancialFilters) bool {
	if filters.Year != nil && e.Date.Year() != *filters.Year {
		return false
	}
	if filters.Month != nil && int(e.Date.Month()) != *filters.Month {
		return false
	}
	if filters.Type != nil && e.Type != *filters.Type {
		return false
	}
	return true
}

func (r *mockFinancialRepo) Create(ctx context.Context, entry *models.FinancialEntry) error {
	entry.ID = r.m.id()
	r.m.Entries = append(r.m.Entries, entry)
	return nil
}

func (r *mockFinancialRepo) GetByID(ctx context.Context, id uint) (*models.FinancialEntry, error) {
	for _, e := range r.m.Entries {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockFinancialRepo) Update(ctx context.Context, entry *models.FinancialEntry) error {
	for i, e := range r.m.Entries {
		if e.ID == entry.ID {
			r.m.Entries[i] = entry
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *mockFinancialRepo) Delete(ctx context.Context, id uint) error {
	for i, e := range r.m.Entries {
		if e.ID == id {
			r.m.Entries = append(r.m.Entries[:i], r.m.Entries[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *mockFinancialRepo) List(ctx context.Context, filters repositories.FinancialFilters) ([]*models.FinancialEntry, error) {
	var out []*models.FinancialEntry
	for _, e := range r.m.Entries {
		if matchEntry(e, filters) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *mockFinancialRepo) SumByType(ctx context.Context, entryType models.EntryType, filters repositories.FinancialFilters) (float64, error) {
	var sum float64
	for _, e := range r.m.Entries {
		if e.Type == entryType && matchEntry(e, filters) {
			sum += e.Amount
		}
	}
	return sum, nil
}

func (r *mockFinancialRepo) SumByCategory(ctx context.Context, entryType models.EntryType, category string, filters repositories.FinancialFilters) (float64, error) {
	var sum float64
	for _, e := range r.m.Entries {
		if e.Type == entryType && e.Category == category && matchEntry(e, filters) {
			sum += e.Amount
		}
	}
	return sum, nil
}

// ===== NOTICE =====

type mockNoticeRepo struct{ m *MockRepository }

func (r *mockNoticeRepo) Create(ctx context.Context, notice *models.Notice) error {
	notice.ID = r.m.id()
	r.m.Notices = append(r.m.Notices, notice)
	return nil
}

func (r *mockNoticeRepo) ListActive(ctx context.Context, now time.Time) ([]*models.Notice, error) {
	var out []*models.Notice
	for _, n := range r.m.Notices {
		if n.ExpiresAt.After(now) {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *mockNoticeRepo) List(ctx context.Context) ([]*models.Notice, error) {
	return r.m.Notices, nil
}

func (r *mockNoticeRepo) DeleteAll(ctx context.Context) error {
	r.m.Notices = nil
	return nil
}

// ===== VIDEO =====

type mockVideoRepo struct{ m *MockRepository }

func (r *mockVideoRepo) Create(ctx context.Context, video *models.Video) error {
	video.ID = r.m.id()
	r.m.Videos = append(r.m.Videos, video)
	return nil
}

func (r *mockVideoRepo) GetByID(ctx context.Context, id uint) (*models.Video, error) {
	for _, v := range r.m.Videos {
		if v.ID == id {
			return v, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockVideoRepo) Update(ctx context.Context, video *models.Video) error {
	for i, v := range r.m.Videos {
		if v.ID == video.ID {
			r.m.Videos[i] = video
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *mockVideoRepo) Delete(ctx context.Context, id uint) error {
	for i, v := range r.m.Videos {
		if v.ID == id {
			r.m.Videos = append(r.m.Videos[:i], r.m.Videos[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *mockVideoRepo) List(ctx context.Context) ([]*models.Video, error) {
	return r.m.Videos, nil
}

func (r *mockVideoRepo) ListByModule(ctx context.Context, module string) ([]*models.Video, error) {
	var out []*models.Video
	for _, v := range r.m.Videos {
		if v.Module == module {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *mockVideoRepo) SetCompleted(ctx context.Context, username string, videoID uint, completed bool) error {
	if r.m.Completed[username] == nil {
		r.m.Completed[username] = make(map[uint]bool)
	}
	if completed {
		r.m.Completed[username][videoID] = true
	} else {
		delete(r.m.Completed[username], videoID)
	}
	return nil
}

func (r *mockVideoRepo) ListCompletedIDs(ctx context.Context, username string) ([]uint, error) {
	var out []uint
	for id := range r.m.Completed[username] {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func (r *mockVideoRepo) CountVideos(ctx context.Context) (int64, error) {
	return int64(len(r.m.Videos)), nil
}

// ===== PARTNER =====

type mockPartnerRepo struct{ m *MockRepository }

func (r *mockPartnerRepo) Create(ctx context.Context, partner *models.Partner) error {
	partner.ID = r.m.id()
	r.m.Partners = append(r.m.Partners, partner)
	return nil
}

func (r *mockPartnerRepo) GetByID(ctx context.Context, id uint) (*models.Partner, error) {
	for _, p := range r.m.Partners {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockPartnerRepo) Update(ctx context.Context, partner *models.Partner) error {
	for i, p := range r.m.Partners {
		if p.ID == partner.ID {
			r.m.Partners[i] = partner
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *mockPartnerRepo) Delete(ctx context.Context, id uint) error {
	for i, p := range r.m.Partners {
		if p.ID == id {
			r.m.Partners = append(r.m.Partners[:i], r.m.Partners[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *mockPartnerRepo) List(ctx context.Context, activeOnly bool) ([]*models.Partner, error) {
	var out []*models.Partner
	for _, p := range r.m.Partners {
		if activeOnly && !p.Active {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// ===== CHECKLIST =====

type mockChecklistRepo struct{ m *MockRepository }

func (r *mockChecklistRepo) Upsert(ctx context.Context, entry *models.ChecklistEntry) error {
	for i, e := range r.m.ChecklistRows {
		if e.Username == entry.Username && sameDay(e.Date, entry.Date) {
			entry.ID = e.ID
			r.m.ChecklistRows[i] = entry
			return nil
		}
	}
	entry.ID = r.m.id()
	r.m.ChecklistRows = append(r.m.ChecklistRows, entry)
	return nil
}

func (r *mockChecklistRepo) GetByUserAndDate(ctx context.Context, username string, date time.Time) (*models.ChecklistEntry, error) {
	for _, e := range r.m.ChecklistRows {
		if e.Username == username && sameDay(e.Date, date) {
			return e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockChecklistRepo) ListRecent(ctx context.Context, username string, since time.Time) ([]*models.ChecklistEntry, error) {
	var out []*models.ChecklistEntry
	for _, e := range r.m.ChecklistRows {
		if e.Username == username && !e.Date.Before(since) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}
