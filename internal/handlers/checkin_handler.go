package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/NutriFlow-2025/coaching-service/internal/models"
	"github.com/NutriFlow-2025/coaching-service/internal/repositories"
	"github.com/NutriFlow-2025/coaching-service/internal/services"
	"github.com/NutriFlow-2025/coaching-service/internal/utils"
	"github.com/NutriFlow-2025/coaching-service/internal/validator"
)

type CheckinHandler struct {
	BaseHandler
	checkinService  services.CheckinService
	snackLogService services.SnackLogService
}

func NewCheckinHandler(checkinService services.CheckinService, snackLogService services.SnackLogService, logger utils.Logger) *CheckinHandler {
	return &CheckinHandler{
		BaseHandler:     NewBaseHandler(logger),
		checkinService:  checkinService,
		snackLogService: snackLogService,
	}
}

// Gate reports whether the check-in form is open for the caller today
func (h *CheckinHandler) Gate(c *gin.Context) {
	username := CurrentUsername(c)

	gate, err := h.checkinService.Gate(c.Request.Context(), username, time.Now())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gate)
}

// Submit records today's check-in for the caller
func (h *CheckinHandler) Submit(c *gin.Context) {
	username := CurrentUsername(c)

	var req validator.CheckinSubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Submitting check-in", "username", username)

	checkin, err := h.checkinService.Submit(c.Request.Context(), username, &req, time.Now())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, checkin)
}

// History lists the caller's check-ins
func (h *CheckinHandler) History(c *gin.Context) {
	h.history(c, CurrentUsername(c))
}

// HistoryFor lists a named patient's check-ins (coach view)
func (h *CheckinHandler) HistoryFor(c *gin.Context) {
	h.history(c, c.Param("username"))
}

func (h *CheckinHandler) history(c *gin.Context, username string) {
	filters := repositories.CheckinFilters{}
	if status := c.Query("status"); status != "" {
		s := models.ReviewStatus(status)
		filters.Status = &s
	}

	checkins, err := h.checkinService.History(c.Request.Context(), username, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"checkins": checkins,
		"total":    len(checkins),
	})
}

// Heatmap renders a patient's history as traffic-light rows
func (h *CheckinHandler) Heatmap(c *gin.Context) {
	h.heatmap(c, CurrentUsername(c))
}

// HeatmapFor renders a named patient's heatmap (coach view)
func (h *CheckinHandler) HeatmapFor(c *gin.Context) {
	h.heatmap(c, c.Param("username"))
}

func (h *CheckinHandler) heatmap(c *gin.Context, username string) {
	rows, err := h.checkinService.Heatmap(c.Request.Context(), username)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"rows": rows})
}

// Rescore recomputes a patient's stored scores (coach tool)
func (h *CheckinHandler) Rescore(c *gin.Context) {
	username := c.Param("username")

	h.LogRequest(c, "Rescoring check-ins", "username", username)

	updated, err := h.checkinService.RescoreUser(c.Request.Context(), username)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": updated})
}

// SubmitSnackLog records an off-plan eating episode for the caller
func (h *CheckinHandler) SubmitSnackLog(c *gin.Context) {
	username := CurrentUsername(c)

	var req validator.SnackLogCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	log, err := h.snackLogService.Submit(c.Request.Context(), username, &req, time.Now())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, log)
}

// SnackLogHistory lists the caller's snack logs
func (h *CheckinHandler) SnackLogHistory(c *gin.Context) {
	logs, err := h.snackLogService.History(c.Request.Context(), CurrentUsername(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"snack_logs": logs,
		"total":      len(logs),
	})
}
