package services

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/NutriFlow-2025/coaching-service/internal/models"
	"github.com/NutriFlow-2025/coaching-service/internal/repositories"
	"github.com/NutriFlow-2025/coaching-service/internal/validator"
)

// marketingCategory is the expense category the acquisition KPIs read
const marketingCategory = "Marketing/Ads"

// ===== RESPONSE DTOs =====

// FinancialSummary is the practice dashboard for one month plus the
// all-time acquisition KPIs
type FinancialSummary struct {
	Year    int     `json:"year"`
	Month   int     `json:"month"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Balance float64 `json:"balance"`

	Patients int64   `json:"patients"`
	LTV      float64 `json:"ltv"`
	CAC      float64 `json:"cac"`
	ROI      float64 `json:"roi"`
}

// ===== SERVICE INTERFACE =====

type FinancialService interface {
	Create(ctx context.Context, req *validator.FinancialEntryRequest) (*models.FinancialEntry, error)
	Update(ctx context.Context, id uint, req *validator.FinancialEntryRequest) (*models.FinancialEntry, error)
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filters repositories.FinancialFilters) ([]*models.FinancialEntry, error)

	// Summary computes the month's totals and the all-time LTV/CAC/ROI
	Summary(ctx context.Context, year, month int) (*FinancialSummary, error)

	// ExportXLSX renders the filtered entries as a spreadsheet
	ExportXLSX(ctx context.Context, filters repositories.FinancialFilters) ([]byte, error)
}

// ===== SERVICE IMPLEMENTATION =====

type financialService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewFinancialService(repo repositories.Repository, logger *slog.Logger, v *validator.Validator) FinancialService {
	return &financialService{
		repo:      repo,
		logger:    logger,
		validator: v,
	}
}

func (s *financialService) Create(ctx context.Context, req *validator.FinancialEntryRequest) (*models.FinancialEntry, error) {
	entry, err := s.buildEntry(req)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Financial().Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to create financial entry: %w", err)
	}

	s.logger.Info("Financial entry created", "entry_id", entry.ID, "type", entry.Type, "amount", entry.Amount)
	return entry, nil
}

func (s *financialService) Update(ctx context.Context, id uint, req *validator.FinancialEntryRequest) (*models.FinancialEntry, error) {
	updated, err := s.buildEntry(req)
	if err != nil {
		return nil, err
	}

	entry, err := s.repo.Financial().GetByID(ctx, id)
	if err != nil {
		return nil, NewNotFoundError("financial entry", fmt.Sprintf("%d", id))
	}

	entry.Date = updated.Date
	entry.Type = updated.Type
	entry.Category = updated.Category
	entry.Description = updated.Description
	entry.Amount = updated.Amount

	if err := s.repo.Financial().Update(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to update financial entry: %w", err)
	}

	return entry, nil
}

func (s *financialService) buildEntry(req *validator.FinancialEntryRequest) (*models.FinancialEntry, error) {
	if errs := s.validator.ValidateFinancialEntry(req); errs.HasErrors() {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, errs.Error())
	}

	date, err := time.Parse(validator.PlanDateLayout, req.Date)
	if err != nil {
		return nil, NewValidationError("entry date is not parseable")
	}

	return &models.FinancialEntry{
		Date:        date,
		Type:        models.EntryType(req.Type),
		Category:    req.Category,
		Description: req.Description,
		Amount:      req.Amount,
	}, nil
}

func (s *financialService) Delete(ctx context.Context, id uint) error {
	if _, err := s.repo.Financial().GetByID(ctx, id); err != nil {
		return NewNotFoundError("financial entry", fmt.Sprintf("%d", id))
	}

	if err := s.repo.Financial().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete financial entry: %w", err)
	}

	s.logger.Info("Financial entry deleted", "entry_id", id)
	return nil
}

func (s *financialService) List(ctx context.Context, filters repositories.FinancialFilters) ([]*models.FinancialEntry, error) {
	entries, err := s.repo.Financial().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list financial entries: %w", err)
	}
	return entries, nil
}

func (s *financialService) Summary(ctx context.Context, year, month int) (*FinancialSummary, error) {
	monthFilters := repositories.FinancialFilters{Year: &year, Month: &month}

	income, err := s.repo.Financial().SumByType(ctx, models.EntryIncome, monthFilters)
	if err != nil {
		return nil, fmt.Errorf("failed to sum income: %w", err)
	}

	expense, err := s.repo.Financial().SumByType(ctx, models.EntryExpense, monthFilters)
	if err != nil {
		return nil, fmt.Errorf("failed to sum expenses: %w", err)
	}

	// LTV/CAC/ROI read the whole ledger, not the selected month
	allTime := repositories.FinancialFilters{}
	totalIncome, err := s.repo.Financial().SumByType(ctx, models.EntryIncome, allTime)
	if err != nil {
		return nil, fmt.Errorf("failed to sum total income: %w", err)
	}

	marketing, err := s.repo.Financial().SumByCategory(ctx, models.EntryExpense, marketingCategory, allTime)
	if err != nil {
		return nil, fmt.Errorf("failed to sum marketing spend: %w", err)
	}

	patients, err := s.repo.User().CountPatients(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count patients: %w", err)
	}

	summary := &FinancialSummary{
		Year:     year,
		Month:    month,
		Income:   income,
		Expense:  expense,
		Balance:  income - expense,
		Patients: patients,
	}
	if patients > 0 {
		summary.LTV = totalIncome / float64(patients)
		summary.CAC = marketing / float64(patients)
	}
	if marketing > 0 {
		summary.ROI = (totalIncome - marketing) / marketing * 100
	}

	return summary, nil
}

func (s *financialService) ExportXLSX(ctx context.Context, filters repositories.FinancialFilters) ([]byte, error) {
	entries, err := s.repo.Financial().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list financial entries: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Financeiro"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Data", "Tipo", "Categoria", "Descrição", "Valor"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for row, entry := range entries {
		values := []interface{}{
			entry.Date.Format("02/01/2006"),
			string(entry.Type),
			entry.Category,
			entry.Description,
			entry.Amount,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to render spreadsheet: %w", err)
	}

	s.logger.Info("Financial export generated", "entries", len(entries))
	return buf.Bytes(), nil
}
