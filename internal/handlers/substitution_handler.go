package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/NutriFlow-2025/coaching-service/internal/services"
	"github.com/NutriFlow-2025/coaching-service/internal/utils"
	"github.com/NutriFlow-2025/coaching-service/internal/validator"
)

type SubstitutionHandler struct {
	BaseHandler
	substitutionService services.SubstitutionService
}

func NewSubstitutionHandler(substitutionService services.SubstitutionService, logger utils.Logger) *SubstitutionHandler {
	return &SubstitutionHandler{
		BaseHandler:         NewBaseHandler(logger),
		substitutionService: substitutionService,
	}
}

// Groups lists the food groups present in the reference table
func (h *SubstitutionHandler) Groups(c *gin.Context) {
	groups, err := h.substitutionService.Groups(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"groups": groups})
}

// Foods lists the foods of one group, alphabetically
func (h *SubstitutionHandler) Foods(c *gin.Context) {
	group := c.Query("group")
	if group == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Query parameter 'group' is required"})
		return
	}

	foods, err := h.substitutionService.FoodsByGroup(c.Request.Context(), group)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"foods": foods})
}

// Calculate answers an isocaloric swap question
func (h *SubstitutionHandler) Calculate(c *gin.Context) {
	var req validator.SubstitutionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	result, err := h.substitutionService.Calculate(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
