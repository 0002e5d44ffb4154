package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/NutriFlow-2025/coaching-service/internal/models"
	"github.com/NutriFlow-2025/coaching-service/internal/repositories"
	"github.com/NutriFlow-2025/coaching-service/internal/services"
	"github.com/NutriFlow-2025/coaching-service/internal/utils"
	"github.com/NutriFlow-2025/coaching-service/internal/validator"
)

type FinancialHandler struct {
	BaseHandler
	financialService services.FinancialService
}

func NewFinancialHandler(financialService services.FinancialService, logger utils.Logger) *FinancialHandler {
	return &FinancialHandler{
		BaseHandler:      NewBaseHandler(logger),
		financialService: financialService,
	}
}

func (h *FinancialHandler) Create(c *gin.Context) {
	var req validator.FinancialEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	entry, err := h.financialService.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, entry)
}

func (h *FinancialHandler) Update(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req validator.FinancialEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	entry, err := h.financialService.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

func (h *FinancialHandler) Delete(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	if err := h.financialService.Delete(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "entry deleted"})
}

func (h *FinancialHandler) List(c *gin.Context) {
	entries, err := h.financialService.List(c.Request.Context(), h.parseFilters(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"entries": entries,
		"total":   len(entries),
	})
}

// Summary returns the month's totals and the acquisition KPIs.
// Defaults to the current month.
func (h *FinancialHandler) Summary(c *gin.Context) {
	now := time.Now()
	year := now.Year()
	month := int(now.Month())

	if raw := c.Query("year"); raw != "" {
		if y, err := strconv.Atoi(raw); err == nil {
			year = y
		}
	}
	if raw := c.Query("month"); raw != "" {
		if m, err := strconv.Atoi(raw); err == nil && m >= 1 && m <= 12 {
			month = m
		}
	}

	summary, err := h.financialService.Summary(c.Request.Context(), year, month)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// Export streams the filtered ledger as a spreadsheet
func (h *FinancialHandler) Export(c *gin.Context) {
	h.LogRequest(c, "Exporting financial ledger")

	data, err := h.financialService.ExportXLSX(c.Request.Context(), h.parseFilters(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("financeiro_%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func (h *FinancialHandler) parseFilters(c *gin.Context) repositories.FinancialFilters {
	filters := repositories.FinancialFilters{}

	if raw := c.Query("year"); raw != "" {
		if y, err := strconv.Atoi(raw); err == nil {
			filters.Year = &y
		}
	}
	if raw := c.Query("month"); raw != "" {
		if m, err := strconv.Atoi(raw); err == nil && m >= 1 && m <= 12 {
			filters.Month = &m
		}
	}
	if raw := c.Query("type"); raw != "" {
		t := models.EntryType(raw)
		filters.Type = &t
	}

	return filters
}
