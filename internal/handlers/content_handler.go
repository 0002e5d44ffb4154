package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/NutriFlow-2025/coaching-service/internal/services"
	"github.com/NutriFlow-2025/coaching-service/internal/utils"
	"github.com/NutriFlow-2025/coaching-service/internal/validator"
)

type ContentHandler struct {
	BaseHandler
	contentService services.ContentService
}

func NewContentHandler(contentService services.ContentService, logger utils.Logger) *ContentHandler {
	return &ContentHandler{
		BaseHandler:    NewBaseHandler(logger),
		contentService: contentService,
	}
}

// ===== NOTICES =====

// PublishNotice posts a banner with an expiry window
func (h *ContentHandler) PublishNotice(c *gin.Context) {
	var req validator.NoticeCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	notice, err := h.contentService.PublishNotice(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, notice)
}

// ActiveNotices lists currently visible banners
func (h *ContentHandler) ActiveNotices(c *gin.Context) {
	notices, err := h.contentService.ActiveNotices(c.Request.Context(), time.Now())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"notices": notices})
}

// ClearNotices removes every banner
func (h *ContentHandler) ClearNotices(c *gin.Context) {
	h.LogRequest(c, "Clearing notices")

	if err := h.contentService.ClearNotices(c.Request.Context()); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "notices cleared"})
}

// ===== VIDEOS =====

func (h *ContentHandler) CreateVideo(c *gin.Context) {
	var req validator.VideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	video, err := h.contentService.CreateVideo(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, video)
}

func (h *ContentHandler) UpdateVideo(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req validator.VideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	video, err := h.contentService.UpdateVideo(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, video)
}

func (h *ContentHandler) DeleteVideo(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	if err := h.contentService.DeleteVideo(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "video deleted"})
}

func (h *ContentHandler) ListVideos(c *gin.Context) {
	videos, err := h.contentService.ListVideos(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"videos": videos})
}

// SetLessonCompleted toggles the caller's completion mark on a lesson
func (h *ContentHandler) SetLessonCompleted(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req struct {
		Completed bool `json:"completed"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	if err := h.contentService.SetLessonCompleted(c.Request.Context(), CurrentUsername(c), id, req.Completed); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"video_id": id, "completed": req.Completed})
}

// Progress returns the caller's course standing
func (h *ContentHandler) Progress(c *gin.Context) {
	progress, err := h.contentService.Progress(c.Request.Context(), CurrentUsername(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, progress)
}

// ===== PARTNERS =====

func (h *ContentHandler) CreatePartner(c *gin.Context) {
	var req validator.PartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	partner, err := h.contentService.CreatePartner(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, partner)
}

func (h *ContentHandler) UpdatePartner(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req validator.PartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	partner, err := h.contentService.UpdatePartner(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, partner)
}

func (h *ContentHandler) DeletePartner(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	if err := h.contentService.DeletePartner(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "partner deleted"})
}

func (h *ContentHandler) ListPartners(c *gin.Context) {
	activeOnly := c.Query("active") == "true"

	partners, err := h.contentService.ListPartners(c.Request.Context(), activeOnly)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"partners": partners})
}
