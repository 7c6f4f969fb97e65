package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"gst-invoice-api/internal/models"
	"gst-invoice-api/internal/services"
)

// InvoiceHandler handles invoice-related HTTP requests, including PDF
// and UPI QR rendering and the sales reports.
type InvoiceHandler struct {
	invoiceService services.InvoiceService
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoiceService services.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
	}
}

// @Summary Create a new invoice
// @Description Create an invoice. The invoice number is allocated from the shop's sequence; catalog lines decrement stock.
// @Tags invoices
// @Accept json
// @Produce json
// @Param invoice body services.CreateInvoiceRequest true "Invoice data"
// @Success 201 {object} models.Invoice
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /invoices [post]
func (h *InvoiceHandler) CreateInvoice(c *gin.Context) {
	var req services.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request body",
			Message: err.Error(),
		})
		return
	}

	invoice, err := h.invoiceService.CreateInvoice(c.Request.Context(), &req)
	if err != nil {
		if isConflictError(err) {
			c.JSON(http.StatusConflict, ErrorResponse{
				Error:   "Invoice creation conflict",
				Message: err.Error(),
			})
			return
		}
		if isNotFoundError(err) || isValidationError(err) {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "Validation failed",
				Message: err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Failed to create invoice",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, invoice)
}

// @Summary List invoices
// @Description List invoices, newest first, optionally filtered by customer
// @Tags invoices
// @Accept json
// @Produce json
// @Param customer_id query string false "Filter by customer ID"
// @Param limit query int false "Limit number of results" default(100)
// @Success 200 {array} models.Invoice
// @Failure 500 {object} ErrorResponse
// @Router /invoices [get]
func (h *InvoiceHandler) ListInvoices(c *gin.Context) {
	customerID := c.Query("customer_id")

	limit := 100
	if l := c.Query("limit"); l != "" {
		if val, err := strconv.Atoi(l); err == nil && val > 0 {
			limit = val
		}
	}

	invoices, err := h.invoiceService.ListInvoices(c.Request.Context(), customerID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Failed to list invoices",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, invoices)
}

// @Summary Preview next invoice number
// @Description Show the number the next invoice would receive, without reserving it
// @Tags invoices
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 500 {object} ErrorResponse
// @Router /invoices/next-number [get]
func (h *InvoiceHandler) PreviewNextNumber(c *gin.Context) {
	number, err := h.invoiceService.PreviewNextNumber(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Failed to preview next invoice number",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"next_number": number})
}

// @Summary Get invoice by ID
// @Description Get a single invoice with its line items
// @Tags invoices
// @Accept json
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {object} models.Invoice
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /invoices/{id} [get]
func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	id := c.Param("id")

	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), id)
	if err != nil {
		h.respondInvoiceError(c, err, "Failed to get invoice")
		return
	}

	c.JSON(http.StatusOK, invoice)
}

// @Summary Get invoice by number
// @Description Look up an invoice by its printed invoice number
// @Tags invoices
// @Accept json
// @Produce json
// @Param number path string true "Invoice number"
// @Success 200 {object} models.Invoice
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /invoices/number/{number} [get]
func (h *InvoiceHandler) GetInvoiceByNumber(c *gin.Context) {
	number := c.Param("number")

	invoice, err := h.invoiceService.GetInvoiceByNumber(c.Request.Context(), number)
	if err != nil {
		h.respondInvoiceError(c, err, "Failed to get invoice")
		return
	}

	c.JSON(http.StatusOK, invoice)
}

// @Summary Update invoice payment
// @Description Update an invoice's payment method and status
// @Tags invoices
// @Accept json
// @Produce json
// @Param id path string true "Invoice ID"
// @Param payment body services.UpdatePaymentRequest true "Payment data"
// @Success 200 {object} models.Invoice
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /invoices/{id}/payment [put]
func (h *InvoiceHandler) UpdatePayment(c *gin.Context) {
	id := c.Param("id")

	var req services.UpdatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request body",
			Message: err.Error(),
		})
		return
	}

	invoice, err := h.invoiceService.UpdatePayment(c.Request.Context(), id, &req)
	if err != nil {
		if isValidationError(err) {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "Validation failed",
				Message: err.Error(),
			})
			return
		}
		h.respondInvoiceError(c, err, "Failed to update payment")
		return
	}

	c.JSON(http.StatusOK, invoice)
}

// @Summary Delete invoice
// @Description Delete an invoice and restore stock for its catalog lines. The invoice number stays reserved and is never reissued.
// @Tags invoices
// @Accept json
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 204 "No Content"
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /invoices/{id} [delete]
func (h *InvoiceHandler) DeleteInvoice(c *gin.Context) {
	id := c.Param("id")

	if err := h.invoiceService.DeleteInvoice(c.Request.Context(), id); err != nil {
		h.respondInvoiceError(c, err, "Failed to delete invoice")
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Render invoice PDF
// @Description Render the invoice as a PDF using one of the built-in templates
// @Tags invoices
// @Accept json
// @Produce application/pdf
// @Param id path string true "Invoice ID"
// @Param template query string false "Template name" Enums(classic, modern, minimal)
// @Success 200 {file} binary
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /invoices/{id}/pdf [get]
func (h *InvoiceHandler) GeneratePDF(c *gin.Context) {
	id := c.Param("id")
	template := models.InvoiceTemplate(c.Query("template"))

	pdfBytes, err := h.invoiceService.GenerateInvoicePDF(c.Request.Context(), id, template)
	if err != nil {
		if isValidationError(err) {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "Invalid template",
				Message: err.Error(),
			})
			return
		}
		h.respondInvoiceError(c, err, "Failed to generate PDF")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=invoice-%s.pdf", id))
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

// @Summary UPI payment QR code
// @Description Render a UPI deep-link QR code for the invoice's grand total as a PNG
// @Tags invoices
// @Accept json
// @Produce image/png
// @Param id path string true "Invoice ID"
// @Success 200 {file} binary
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /invoices/{id}/upi-qr [get]
func (h *InvoiceHandler) GenerateUPIQR(c *gin.Context) {
	id := c.Param("id")

	png, err := h.invoiceService.GenerateUPIQR(c.Request.Context(), id)
	if err != nil {
		if isValidationError(err) {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "Cannot generate UPI QR",
				Message: err.Error(),
			})
			return
		}
		h.respondInvoiceError(c, err, "Failed to generate UPI QR")
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}

// @Summary Sales summary report
// @Description Invoice count, sales total and GST total for a date range
// @Tags reports
// @Accept json
// @Produce json
// @Param start_date query string false "Start date (YYYY-MM-DD)"
// @Param end_date query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} repositories.SalesSummary
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /reports/sales [get]
func (h *InvoiceHandler) GetSalesReport(c *gin.Context) {
	start, end, err := parseDateRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid date range",
			Message: err.Error(),
		})
		return
	}

	summary, err := h.invoiceService.GetSalesReport(c.Request.Context(), start, end)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Failed to generate sales report",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// @Summary Top selling products
// @Description Products ranked by quantity sold in a date range
// @Tags reports
// @Accept json
// @Produce json
// @Param start_date query string false "Start date (YYYY-MM-DD)"
// @Param end_date query string false "End date (YYYY-MM-DD)"
// @Param limit query int false "Limit number of results" default(10)
// @Success 200 {array} repositories.ProductSales
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /reports/top-products [get]
func (h *InvoiceHandler) GetTopProducts(c *gin.Context) {
	start, end, err := parseDateRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid date range",
			Message: err.Error(),
		})
		return
	}

	products, err := h.invoiceService.GetTopProducts(c.Request.Context(), parseLimit(c, 10), start, end)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Failed to generate top products report",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, products)
}

// @Summary Top customers
// @Description Customers ranked by total spend in a date range. Walk-in sales are excluded.
// @Tags reports
// @Accept json
// @Produce json
// @Param start_date query string false "Start date (YYYY-MM-DD)"
// @Param end_date query string false "End date (YYYY-MM-DD)"
// @Param limit query int false "Limit number of results" default(10)
// @Success 200 {array} repositories.CustomerSales
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /reports/top-customers [get]
func (h *InvoiceHandler) GetTopCustomers(c *gin.Context) {
	start, end, err := parseDateRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid date range",
			Message: err.Error(),
		})
		return
	}

	customers, err := h.invoiceService.GetTopCustomers(c.Request.Context(), parseLimit(c, 10), start, end)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Failed to generate top customers report",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, customers)
}

// respondInvoiceError maps common invoice lookup errors to HTTP status codes
func (h *InvoiceHandler) respondInvoiceError(c *gin.Context, err error, fallback string) {
	if isNotFoundError(err) {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "Invoice not found",
			Message: err.Error(),
		})
		return
	}
	if isValidationError(err) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid invoice ID",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:   fallback,
		Message: err.Error(),
	})
}

// parseDateRange reads optional start_date and end_date query params.
// The end date is inclusive, so it is pushed to the end of its day.
func parseDateRange(c *gin.Context) (*time.Time, *time.Time, error) {
	var start, end *time.Time

	if s := c.Query("start_date"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return nil, nil, fmt.Errorf("start_date must be in YYYY-MM-DD format")
		}
		start = &t
	}

	if e := c.Query("end_date"); e != "" {
		t, err := time.Parse("2006-01-02", e)
		if err != nil {
			return nil, nil, fmt.Errorf("end_date must be in YYYY-MM-DD format")
		}
		t = t.Add(24*time.Hour - time.Nanosecond)
		end = &t
	}

	if start != nil && end != nil && end.Before(*start) {
		return nil, nil, fmt.Errorf("end_date must not be before start_date")
	}

	return start, end, nil
}

func parseLimit(c *gin.Context, fallback int) int {
	if l := c.Query("limit"); l != "" {
		if val, err := strconv.Atoi(l); err == nil && val > 0 {
			return val
		}
	}
	return fallback
}
