package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/NutriFlow-2025/coaching-service/internal/services"
	"github.com/NutriFlow-2025/coaching-service/internal/utils"
	"github.com/NutriFlow-2025/coaching-service/internal/validator"
)

type OutreachHandler struct {
	BaseHandler
	outreachService services.OutreachService
}

func NewOutreachHandler(outreachService services.OutreachService, logger utils.Logger) *OutreachHandler {
	return &OutreachHandler{
		BaseHandler:     NewBaseHandler(logger),
		outreachService: outreachService,
	}
}

// DueToday lists patients due for a reminder, without sending anything
func (h *OutreachHandler) DueToday(c *gin.Context) {
	due, err := h.outreachService.SelectDue(c.Request.Context(), h.parseDate(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"due":   due,
		"total": len(due),
	})
}

// Dispatch sends a reminder to every due patient with a usable phone
func (h *OutreachHandler) Dispatch(c *gin.Context) {
	h.LogRequest(c, "Dispatching reminders")

	report, err := h.outreachService.DispatchReminders(c.Request.Context(), h.parseDate(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// Reminder drives the patient home-screen popup
func (h *OutreachHandler) Reminder(c *gin.Context) {
	show, err := h.outreachService.ShouldShowReminder(c.Request.Context(), CurrentUsername(c), time.Now())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"show_reminder": show})
}

// parseDate allows running a reminder round for another day via ?date=
func (h *OutreachHandler) parseDate(c *gin.Context) time.Time {
	if raw := c.Query("date"); raw != "" {
		if date, err := time.Parse(validator.PlanDateLayout, raw); err == nil {
			return date
		}
	}
	return time.Now()
}
