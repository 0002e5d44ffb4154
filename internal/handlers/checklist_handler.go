package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/NutriFlow-2025/coaching-service/internal/services"
	"github.com/NutriFlow-2025/coaching-service/internal/utils"
	"github.com/NutriFlow-2025/coaching-service/internal/validator"
)

type ChecklistHandler struct {
	BaseHandler
	checklistService services.ChecklistService
}

func NewChecklistHandler(checklistService services.ChecklistService, logger utils.Logger) *ChecklistHandler {
	return &ChecklistHandler{
		BaseHandler:      NewBaseHandler(logger),
		checklistService: checklistService,
	}
}

// Save upserts today's habits for the caller
func (h *ChecklistHandler) Save(c *gin.Context) {
	var req validator.ChecklistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	result, err := h.checklistService.Save(c.Request.Context(), CurrentUsername(c), &req, time.Now())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Today returns the caller's habit state and streak
func (h *ChecklistHandler) Today(c *gin.Context) {
	result, err := h.checklistService.Today(c.Request.Context(), CurrentUsername(c), time.Now())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
