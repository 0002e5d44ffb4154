package services

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/NutriFlow-2025/coaching-service/internal/models"
	"github.com/NutriFlow-2025/coaching-service/internal/repositories"
	"github.com/NutriFlow-2025/coaching-service/internal/validator"
)

func newFinancialFixture() (*MockRepository, FinancialService) {
	repo := NewMockRepository()
	service := NewFinancialService(repo, testLogger(), validator.New())
	return repo, service
}

func entry(t models.EntryType, category string, amount float64, day time.Time) *models.FinancialEntry {
	return &models.FinancialEntry{Date: day, Type: t, Category: category, Amount: amount}
}

func TestFinancialCreateValidation(t *testing.T) {
	_, service := newFinancialFixture()
	ctx := context.Background()

	tests := []struct {
		name string
		req  *validator.FinancialEntryRequest
	}{
		{"bad date", &validator.FinancialEntryRequest{Date: "20/01/2025", Type: "Receita", Amount: 100}},
		{"bad type", &validator.FinancialEntryRequest{Date: "2025-01-20", Type: "Lucro", Amount: 100}},
		{"zero amount", &validator.FinancialEntryRequest{Date: "2025-01-20", Type: "Receita", Amount: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := service.Create(ctx, tt.req); !errors.Is(err, ErrValidationFailed) {
				t.Errorf("expected ErrValidationFailed, got %v", err)
			}
		})
	}
}

func TestFinancialSummary(t *testing.T) {
	repo, service := newFinancialFixture()
	ctx := context.Background()

	repo.Users["ana"] = &models.User{ID: 1, Username: "ana", Role: models.RolePatient, Active: true}
	repo.Users["bia"] = &models.User{ID: 2, Username: "bia", Role: models.RolePatient, Active: true}
	repo.Users["coach"] = &models.User{ID: 3, Username: "coach", Role: models.RoleAdmin, Active: true}

	repo.Entries = []*models.FinancialEntry{
		entry(models.EntryIncome, "Consulta", 600, date(2025, time.January, 5)),
		entry(models.EntryIncome, "Consulta", 400, date(2025, time.January, 15)),
		entry(models.EntryExpense, "Marketing/Ads", 200, date(2025, time.January, 10)),
		entry(models.EntryExpense, "Software", 50, date(2025, time.January, 12)),
		// Prior month feeds the all-time KPIs but not the month totals
		entry(models.EntryIncome, "Consulta", 1000, date(2024, time.December, 20)),
		entry(models.EntryExpense, "Marketing/Ads", 300, date(2024, time.December, 5)),
	}

	summary, err := service.Summary(ctx, 2025, 1)
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}

	if summary.Income != 1000 {
		t.Errorf("income = %v, want 1000", summary.Income)
	}
	if summary.Expense != 250 {
		t.Errorf("expense = %v, want 250", summary.Expense)
	}
	if summary.Balance != 750 {
		t.Errorf("balance = %v, want 750", summary.Balance)
	}
	if summary.Patients != 2 {
		t.Errorf("patients = %d, want 2 (admin excluded)", summary.Patients)
	}

	// All-time income 2000 across 2 patients
	if summary.LTV != 1000 {
		t.Errorf("LTV = %v, want 1000", summary.LTV)
	}
	// All-time marketing 500 across 2 patients
	if summary.CAC != 250 {
		t.Errorf("CAC = %v, want 250", summary.CAC)
	}
	// (2000 - 500) / 500 * 100
	if summary.ROI != 300 {
		t.Errorf("ROI = %v, want 300", summary.ROI)
	}
}

func TestFinancialSummaryGuardsDivisionByZero(t *testing.T) {
	repo, service := newFinancialFixture()

	repo.Entries = []*models.FinancialEntry{
		entry(models.EntryIncome, "Consulta", 500, date(2025, time.January, 5)),
	}

	summary, err := service.Summary(context.Background(), 2025, 1)
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	if summary.LTV != 0 || summary.CAC != 0 {
		t.Errorf("LTV/CAC = %v/%v, want 0/0 with no patients", summary.LTV, summary.CAC)
	}
	if summary.ROI != 0 {
		t.Errorf("ROI = %v, want 0 with no marketing spend", summary.ROI)
	}
}

func TestFinancialUpdateAndDelete(t *testing.T) {
	repo, service := newFinancialFixture()
	ctx := context.Background()

	created, err := service.Create(ctx, &validator.FinancialEntryRequest{
		Date: "2025-01-20", Type: "Despesa", Category: "Software", Amount: 80,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	updated, err := service.Update(ctx, created.ID, &validator.FinancialEntryRequest{
		Date: "2025-01-21", Type: "Despesa", Category: "Software", Amount: 95,
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Amount != 95 {
		t.Errorf("amount = %v, want 95", updated.Amount)
	}

	if err := service.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if len(repo.Entries) != 0 {
		t.Errorf("stored %d entries after delete, want 0", len(repo.Entries))
	}

	if err := service.Delete(ctx, 999); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestExportXLSX(t *testing.T) {
	repo, service := newFinancialFixture()

	repo.Entries = []*models.FinancialEntry{
		entry(models.EntryIncome, "Consulta", 600, date(2025, time.January, 5)),
		entry(models.EntryExpense, "Marketing/Ads", 200, date(2025, time.January, 10)),
	}

	data, err := service.ExportXLSX(context.Background(), repositories.FinancialFilters{})
	if err != nil {
		t.Fatalf("ExportXLSX() error = %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("export is not a readable workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Financeiro")
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header plus 2 entries", len(rows))
	}
	if rows[0][0] != "Data" || rows[0][4] != "Valor" {
		t.Errorf("unexpected header row: %v", rows[0])
	}
	if rows[1][0] != "05/01/2025" || rows[1][1] != "Receita" {
		t.Errorf("unexpected first entry row: %v", rows[1])
	}
}
