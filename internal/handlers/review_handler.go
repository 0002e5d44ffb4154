package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/NutriFlow-2025/coaching-service/internal/services"
	"github.com/NutriFlow-2025/coaching-service/internal/utils"
	"github.com/NutriFlow-2025/coaching-service/internal/validator"
)

type ReviewHandler struct {
	BaseHandler
	reviewService services.ReviewService
}

func NewReviewHandler(reviewService services.ReviewService, logger utils.Logger) *ReviewHandler {
	return &ReviewHandler{
		BaseHandler:   NewBaseHandler(logger),
		reviewService: reviewService,
	}
}

// PendingQueue lists everything awaiting review, optionally for one patient
func (h *ReviewHandler) PendingQueue(c *gin.Context) {
	queue, err := h.reviewService.PendingQueue(c.Request.Context(), c.Query("username"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, queue)
}

// PendingUsernames lists patients with unreviewed snack logs
func (h *ReviewHandler) PendingUsernames(c *gin.Context) {
	usernames, err := h.reviewService.PendingUsernames(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"usernames": usernames})
}

// MarkCheckinReviewed flips one check-in to reviewed
func (h *ReviewHandler) MarkCheckinReviewed(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Marking check-in reviewed", "checkin_id", id)

	if err := h.reviewService.MarkCheckinReviewed(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "check-in reviewed"})
}

// MarkCheckinReviewedByKey addresses a check-in by patient and date
func (h *ReviewHandler) MarkCheckinReviewedByKey(c *gin.Context) {
	username := c.Param("username")

	date, err := time.Parse(validator.PlanDateLayout, c.Param("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid date parameter",
			Details: c.Param("date"),
		})
		return
	}

	if err := h.reviewService.MarkCheckinReviewedByKey(c.Request.Context(), username, date); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "check-in reviewed"})
}

// MarkAllSnackLogsReviewed clears a patient's snack-log queue
func (h *ReviewHandler) MarkAllSnackLogsReviewed(c *gin.Context) {
	username := c.Param("username")

	h.LogRequest(c, "Reviewing snack logs", "username", username)

	updated, err := h.reviewService.MarkAllSnackLogsReviewed(c.Request.Context(), username)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": updated})
}
