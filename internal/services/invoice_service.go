package services

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"gst-invoice-api/internal/models"
	"gst-invoice-api/internal/numbering"
	"gst-invoice-api/internal/pdf"
	"gst-invoice-api/internal/qr"
	"gst-invoice-api/internal/repositories"
)

// invoiceService implements the InvoiceService interface. It owns the
// invoice lifecycle: number allocation, per-line tax calculation,
// stock adjustment, and rendering.
type invoiceService struct {
	invoiceRepo  repositories.InvoiceRepository
	customerRepo repositories.CustomerRepository
	productRepo  repositories.ProductRepository
	settingsRepo repositories.SettingsRepository
	allocator    *numbering.Allocator
	renderer     *pdf.Renderer
	validator    *validator.Validate
	logger       *logrus.Logger
}

// NewInvoiceService creates a new invoice service instance
func NewInvoiceService(
	invoiceRepo repositories.InvoiceRepository,
	customerRepo repositories.CustomerRepository,
	productRepo repositories.ProductRepository,
	settingsRepo repositories.SettingsRepository,
	logger *logrus.Logger,
) InvoiceService {
	return &invoiceService{
		invoiceRepo:  invoiceRepo,
		customerRepo: customerRepo,
		productRepo:  productRepo,
		settingsRepo: settingsRepo,
		allocator:    numbering.NewAllocator(invoiceRepo, logger),
		renderer:     pdf.NewRenderer(logger),
		validator:    validator.New(),
		logger:       logger,
	}
}

// CreateInvoice builds and persists an invoice. Line amounts are
// calculated per line and the invoice number is reserved before the
// write; a reserved number is consumed even if the write then fails.
func (s *invoiceService) CreateInvoice(ctx context.Context, req *CreateInvoiceRequest) (*models.Invoice, error) {
	if req == nil {
		return nil, fmt.Errorf("create invoice request cannot be nil")
	}

	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load shop settings: %w", err)
	}

	if req.CustomerID != nil && *req.CustomerID != "" {
		if _, err := s.customerRepo.GetByID(ctx, *req.CustomerID); err != nil {
			return nil, fmt.Errorf("failed to resolve customer: %w", err)
		}
	} else {
		req.CustomerID = nil
	}

	invoice := models.NewInvoice(req.CustomerID)
	if req.PaymentMethod != "" {
		invoice.PaymentMethod = req.PaymentMethod
	}
	if req.PaymentStatus != "" {
		invoice.PaymentStatus = req.PaymentStatus
	}
	invoice.SetNotes(req.Notes)

	for i, itemReq := range req.LineItems {
		item, err := s.buildLineItem(ctx, invoice.ID, i, itemReq, settings)
		if err != nil {
			return nil, err
		}
		invoice.LineItems = append(invoice.LineItems, *item)
	}

	invoice.CalculateTotals()

	number, err := s.allocator.Allocate(ctx, settings.InvoicePrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate invoice number: %w", err)
	}
	invoice.InvoiceNumber = number

	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"invoice_number": invoice.InvoiceNumber,
		"grand_total":    invoice.GrandTotal.StringFixed(2),
		"line_items":     len(invoice.LineItems),
	}).Info("Invoice created")

	return invoice, nil
}

// buildLineItem resolves a line request against the catalog when a
// product is referenced, otherwise uses the ad-hoc name and price.
func (s *invoiceService) buildLineItem(ctx context.Context, invoiceID string, index int, req CreateLineItemRequest, settings *models.ShopSettings) (*models.LineItem, error) {
	name := req.ProductName
	unitPrice := req.UnitPrice
	gstPercent := req.GSTPercent

	if req.ProductID != nil && *req.ProductID != "" {
		product, err := s.productRepo.GetByID(ctx, *req.ProductID)
		if err != nil {
			return nil, fmt.Errorf("line %d: failed to resolve product: %w", index+1, err)
		}
		if product.StockQuantity < req.Quantity {
			return nil, fmt.Errorf("line %d: insufficient stock for %s (have %d, need %d)",
				index+1, product.Name, product.StockQuantity, req.Quantity)
		}
		if name == "" {
			name = product.Name
		}
		if unitPrice == nil {
			unitPrice = &product.Price
		}
		if gstPercent == nil {
			gstPercent = &product.GSTPercent
		}
	}

	if name == "" {
		return nil, fmt.Errorf("line %d: product name is required", index+1)
	}
	if unitPrice == nil {
		return nil, fmt.Errorf("line %d: unit price is required", index+1)
	}
	if gstPercent == nil {
		gstPercent = &settings.DefaultGST
	}

	item, err := models.NewLineItem(invoiceID, name, req.Quantity, *unitPrice, req.DiscountPercent, *gstPercent, index)
	if err != nil {
		return nil, fmt.Errorf("line %d: %w", index+1, err)
	}
	item.ProductID = req.ProductID

	return item, nil
}

// GetInvoice retrieves an invoice with its line items
func (s *invoiceService) GetInvoice(ctx context.Context, id string) (*models.Invoice, error) {
	if id == "" {
		return nil, fmt.Errorf("invoice ID cannot be empty")
	}

	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("invalid invoice ID format: %w", err)
	}

	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}

	return invoice, nil
}

// GetInvoiceByNumber retrieves an invoice by its invoice number
func (s *invoiceService) GetInvoiceByNumber(ctx context.Context, number string) (*models.Invoice, error) {
	if number == "" {
		return nil, fmt.Errorf("invoice number cannot be empty")
	}

	invoice, err := s.invoiceRepo.GetByNumber(ctx, number)
	if err != nil {
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}

	return invoice, nil
}

// ListInvoices retrieves recent invoices, optionally for one customer
func (s *invoiceService) ListInvoices(ctx context.Context, customerID string, limit int) ([]*models.Invoice, error) {
	invoices, err := s.invoiceRepo.List(ctx, customerID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}

	return invoices, nil
}

// DeleteInvoice deletes an invoice and restores stock. The invoice
// number stays reserved permanently.
func (s *invoiceService) DeleteInvoice(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("invoice ID cannot be empty")
	}

	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("invalid invoice ID format: %w", err)
	}

	if err := s.invoiceRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete invoice: %w", err)
	}

	s.logger.WithField("invoice_id", id).Info("Invoice deleted")
	return nil
}

// UpdatePayment updates the payment method and status of an invoice
func (s *invoiceService) UpdatePayment(ctx context.Context, id string, req *UpdatePaymentRequest) (*models.Invoice, error) {
	if req == nil {
		return nil, fmt.Errorf("update payment request cannot be nil")
	}

	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	switch req.PaymentStatus {
	case models.PaymentStatusPending, models.PaymentStatusPaid, models.PaymentStatusPartial:
	default:
		return nil, fmt.Errorf("invalid payment status: %s", req.PaymentStatus)
	}

	switch req.PaymentMethod {
	case models.PaymentMethodCash, models.PaymentMethodCard, models.PaymentMethodUPI, models.PaymentMethodBank:
	default:
		return nil, fmt.Errorf("invalid payment method: %s", req.PaymentMethod)
	}

	if err := s.invoiceRepo.UpdatePayment(ctx, id, req.PaymentMethod, req.PaymentStatus); err != nil {
		return nil, fmt.Errorf("failed to update payment: %w", err)
	}

	return s.GetInvoice(ctx, id)
}

// PreviewNextNumber returns the number the next invoice would get
// without reserving it.
func (s *invoiceService) PreviewNextNumber(ctx context.Context) (string, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load shop settings: %w", err)
	}

	number, err := s.allocator.Next(ctx, settings.InvoicePrefix)
	if err != nil {
		return "", fmt.Errorf("failed to preview invoice number: %w", err)
	}

	return number, nil
}

// GenerateInvoicePDF renders the invoice with the requested template,
// falling back to the shop default when template is empty.
func (s *invoiceService) GenerateInvoicePDF(ctx context.Context, id string, template models.InvoiceTemplate) ([]byte, error) {
	invoice, err := s.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}

	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load shop settings: %w", err)
	}

	var customer *models.Customer
	if !invoice.IsWalkIn() {
		customer, err = s.customerRepo.GetByID(ctx, *invoice.CustomerID)
		if err != nil && !repositories.IsNotFound(err) {
			return nil, fmt.Errorf("failed to resolve customer: %w", err)
		}
	}

	return s.renderer.Render(pdf.RenderInput{
		Invoice:  invoice,
		Customer: customer,
		Settings: settings,
	}, template)
}

// GenerateUPIQR renders the payment QR for an invoice as PNG.
func (s *invoiceService) GenerateUPIQR(ctx context.Context, id string) ([]byte, error) {
	invoice, err := s.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}

	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load shop settings: %w", err)
	}

	if settings.UPIID == nil || *settings.UPIID == "" {
		return nil, fmt.Errorf("shop has no UPI ID configured")
	}

	link, err := qr.BuildUPILink(qr.PaymentRequest{
		UPIID:     *settings.UPIID,
		PayeeName: settings.ShopName,
		Amount:    invoice.GrandTotal,
		Note:      "Invoice " + invoice.InvoiceNumber,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build UPI link: %w", err)
	}

	return qr.EncodePNG(link, qr.DefaultImageSize)
}

// GetSalesReport aggregates invoice counts and totals over a date range
func (s *invoiceService) GetSalesReport(ctx context.Context, start, end *time.Time) (*repositories.SalesSummary, error) {
	summary, err := s.invoiceRepo.GetSalesSummary(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to get sales report: %w", err)
	}

	return summary, nil
}

// GetTopProducts retrieves the best-selling products by quantity
func (s *invoiceService) GetTopProducts(ctx context.Context, limit int, start, end *time.Time) ([]*repositories.ProductSales, error) {
	products, err := s.invoiceRepo.GetTopProducts(ctx, limit, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to get top products: %w", err)
	}

	return products, nil
}

// GetTopCustomers retrieves customers ranked by total spend
func (s *invoiceService) GetTopCustomers(ctx context.Context, limit int, start, end *time.Time) ([]*repositories.CustomerSales, error) {
	customers, err := s.invoiceRepo.GetTopCustomers(ctx, limit, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to get top customers: %w", err)
	}

	return customers, nil
}
