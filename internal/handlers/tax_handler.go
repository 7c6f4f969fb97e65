package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gst-invoice-api/internal/services"
)

// TaxHandler exposes stateless GST calculation endpoints
type TaxHandler struct {
	taxService services.TaxService
}

// NewTaxHandler creates a new tax handler
func NewTaxHandler(taxService services.TaxService) *TaxHandler {
	return &TaxHandler{
		taxService: taxService,
	}
}

// @Summary Calculate GST totals
// @Description Preview per-line and invoice-level GST totals without creating an invoice
// @Tags tax
// @Accept json
// @Produce json
// @Param items body services.TaxCalculationRequest true "Line items"
// @Success 200 {object} services.TaxCalculationResult
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /tax/calculate [post]
func (h *TaxHandler) Calculate(c *gin.Context) {
	var req services.TaxCalculationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request body",
			Message: err.Error(),
		})
		return
	}

	result, err := h.taxService.Calculate(c.Request.Context(), &req)
	if err != nil {
		if isValidationError(err) {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "Validation failed",
				Message: err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Failed to calculate tax",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, result)
}

// @Summary Extract base price from a GST-inclusive total
// @Description Given a tax-inclusive amount and a GST rate, back out the base price and GST amount
// @Tags tax
// @Accept json
// @Produce json
// @Param request body services.ExtractBaseRequest true "Total and GST rate"
// @Success 200 {object} services.ExtractBaseResult
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /tax/extract-base [post]
func (h *TaxHandler) ExtractBase(c *gin.Context) {
	var req services.ExtractBaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request body",
			Message: err.Error(),
		})
		return
	}

	result, err := h.taxService.ExtractBase(c.Request.Context(), &req)
	if err != nil {
		if isValidationError(err) {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "Validation failed",
				Message: err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Failed to extract base price",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, result)
}

// @Summary List GST slabs
// @Description List the recognized GST slab rates with their descriptions
// @Tags tax
// @Accept json
// @Produce json
// @Success 200 {array} services.RateInfo
// @Router /tax/rates [get]
func (h *TaxHandler) Rates(c *gin.Context) {
	c.JSON(http.StatusOK, h.taxService.Rates(c.Request.Context()))
}
