package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gst-invoice-api/internal/services"
)

// SettingsHandler handles shop settings HTTP requests
type SettingsHandler struct {
	settingsService services.SettingsService
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settingsService services.SettingsService) *SettingsHandler {
	return &SettingsHandler{
		settingsService: settingsService,
	}
}

// @Summary Get shop settings
// @Description Get the shop profile used on invoices: name, address, GSTIN, UPI ID and defaults
// @Tags settings
// @Accept json
// @Produce json
// @Success 200 {object} models.ShopSettings
// @Failure 500 {object} ErrorResponse
// @Router /settings [get]
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	settings, err := h.settingsService.GetSettings(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Failed to get settings",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, settings)
}

// @Summary Update shop settings
// @Description Update the shop profile. Only the fields present in the body change.
// @Tags settings
// @Accept json
// @Produce json
// @Param settings body services.UpdateSettingsRequest true "Settings data"
// @Success 200 {object} models.ShopSettings
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /settings [put]
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var req services.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request body",
			Message: err.Error(),
		})
		return
	}

	settings, err := h.settingsService.UpdateSettings(c.Request.Context(), &req)
	if err != nil {
		if isValidationError(err) {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "Validation failed",
				Message: err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Failed to update settings",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, settings)
}
