package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"gst-invoice-api/internal/models"
	"gst-invoice-api/internal/repositories"
	"gst-invoice-api/internal/tax"
)

// CustomerService defines the interface for customer business logic.
type CustomerService interface {
	CreateCustomer(ctx context.Context, req *CreateCustomerRequest) (*models.Customer, error)
	GetCustomer(ctx context.Context, id string) (*models.Customer, error)
	UpdateCustomer(ctx context.Context, id string, req *UpdateCustomerRequest) (*models.Customer, error)
	DeleteCustomer(ctx context.Context, id string) error
	SearchCustomers(ctx context.Context, query string, limit int) ([]*models.Customer, error)
}

// ProductService defines the interface for product catalog logic.
type ProductService interface {
	CreateProduct(ctx context.Context, req *CreateProductRequest) (*models.Product, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	UpdateProduct(ctx context.Context, id string, req *UpdateProductRequest) (*models.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	SearchProducts(ctx context.Context, query, category string, limit int) ([]*models.Product, error)
	GetLowStockProducts(ctx context.Context) ([]*models.Product, error)
}

// InvoiceService defines the interface for invoice business logic,
// including PDF and UPI QR rendering and sales reporting.
type InvoiceService interface {
	CreateInvoice(ctx context.Context, req *CreateInvoiceRequest) (*models.Invoice, error)
	GetInvoice(ctx context.Context, id string) (*models.Invoice, error)
	GetInvoiceByNumber(ctx context.Context, number string) (*models.Invoice, error)
	ListInvoices(ctx context.Context, customerID string, limit int) ([]*models.Invoice, error)
	DeleteInvoice(ctx context.Context, id string) error
	UpdatePayment(ctx context.Context, id string, req *UpdatePaymentRequest) (*models.Invoice, error)
	PreviewNextNumber(ctx context.Context) (string, error)

	GenerateInvoicePDF(ctx context.Context, id string, template models.InvoiceTemplate) ([]byte, error)
	GenerateUPIQR(ctx context.Context, id string) ([]byte, error)

	GetSalesReport(ctx context.Context, start, end *time.Time) (*repositories.SalesSummary, error)
	GetTopProducts(ctx context.Context, limit int, start, end *time.Time) ([]*repositories.ProductSales, error)
	GetTopCustomers(ctx context.Context, limit int, start, end *time.Time) ([]*repositories.CustomerSales, error)
}

// TaxService exposes stateless tax previews backed by the calculation
// engine, so clients can show totals before committing an invoice.
type TaxService interface {
	Calculate(ctx context.Context, req *TaxCalculationRequest) (*TaxCalculationResult, error)
	ExtractBase(ctx context.Context, req *ExtractBaseRequest) (*ExtractBaseResult, error)
	Rates(ctx context.Context) []RateInfo
}

// SettingsService manages the singleton shop settings.
type SettingsService interface {
	GetSettings(ctx context.Context) (*models.ShopSettings, error)
	UpdateSettings(ctx context.Context, req *UpdateSettingsRequest) (*models.ShopSettings, error)
}

// Customer request types.

type CreateCustomerRequest struct {
	Name    string  `json:"name" validate:"required,min=1,max=255"`
	Phone   *string `json:"phone,omitempty"`
	Email   *string `json:"email,omitempty" validate:"omitempty,email"`
	Address *string `json:"address,omitempty"`
	GSTIN   *string `json:"gstin,omitempty"`
}

type UpdateCustomerRequest struct {
	Name    *string `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Phone   *string `json:"phone,omitempty"`
	Email   *string `json:"email,omitempty" validate:"omitempty,email"`
	Address *string `json:"address,omitempty"`
	GSTIN   *string `json:"gstin,omitempty"`
}

// Product request types.

type CreateProductRequest struct {
	Name          string          `json:"name" validate:"required,min=1,max=255"`
	Description   *string         `json:"description,omitempty"`
	Price         decimal.Decimal `json:"price"`
	GSTPercent    *decimal.Decimal `json:"gst_percent,omitempty"`
	Barcode       *string         `json:"barcode,omitempty"`
	Category      *string         `json:"category,omitempty"`
	StockQuantity int             `json:"stock_quantity" validate:"min=0"`
	MinStockAlert *int            `json:"min_stock_alert,omitempty"`
}

type UpdateProductRequest struct {
	Name          *string          `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Description   *string          `json:"description,omitempty"`
	Price         *decimal.Decimal `json:"price,omitempty"`
	GSTPercent    *decimal.Decimal `json:"gst_percent,omitempty"`
	Barcode       *string          `json:"barcode,omitempty"`
	Category      *string          `json:"category,omitempty"`
	StockQuantity *int             `json:"stock_quantity,omitempty"`
	MinStockAlert *int             `json:"min_stock_alert,omitempty"`
}

// Invoice request types. A line may reference a catalog product, in
// which case price and GST rate default from the product and stock is
// decremented, or carry a free-form name and price for ad-hoc sales.

type CreateInvoiceRequest struct {
	CustomerID    *string                 `json:"customer_id,omitempty"` // nil for walk-in
	LineItems     []CreateLineItemRequest `json:"line_items" validate:"required,min=1,dive"`
	PaymentMethod models.PaymentMethod    `json:"payment_method,omitempty"`
	PaymentStatus models.PaymentStatus    `json:"payment_status,omitempty"`
	Notes         string                  `json:"notes,omitempty"`
}

type CreateLineItemRequest struct {
	ProductID       *string          `json:"product_id,omitempty"`
	ProductName     string           `json:"product_name,omitempty"`
	Quantity        int              `json:"quantity" validate:"required,min=1"`
	UnitPrice       *decimal.Decimal `json:"unit_price,omitempty"`
	DiscountPercent decimal.Decimal  `json:"discount_percent"`
	GSTPercent      *decimal.Decimal `json:"gst_percent,omitempty"`
}

type UpdatePaymentRequest struct {
	PaymentMethod models.PaymentMethod `json:"payment_method" validate:"required"`
	PaymentStatus models.PaymentStatus `json:"payment_status" validate:"required"`
}

// Tax preview types.

type TaxCalculationRequest struct {
	Items []TaxCalculationItem `json:"items" validate:"required,min=1,dive"`
}

type TaxCalculationItem struct {
	Quantity        int             `json:"quantity" validate:"required,min=1"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	GSTPercent      decimal.Decimal `json:"gst_percent"`
}

type TaxCalculationResult struct {
	Items  []tax.LineBreakdown `json:"items"`
	Totals tax.Totals          `json:"totals"`
	Slabs  []tax.SlabBreakdown `json:"slabs"`
}

type ExtractBaseRequest struct {
	Total      decimal.Decimal `json:"total"`
	GSTPercent decimal.Decimal `json:"gst_percent"`
}

type ExtractBaseResult struct {
	Base       decimal.Decimal `json:"base"`
	GSTAmount  decimal.Decimal `json:"gst_amount"`
	SGSTAmount decimal.Decimal `json:"sgst_amount"`
	CGSTAmount decimal.Decimal `json:"cgst_amount"`
	Total      decimal.Decimal `json:"total"`
	GSTPercent decimal.Decimal `json:"gst_percent"`
}

type RateInfo struct {
	Percent     decimal.Decimal `json:"percent"`
	Description string          `json:"description"`
}

// Settings request types. Pointer fields update only when present.

type UpdateSettingsRequest struct {
	ShopName        *string                 `json:"shop_name,omitempty" validate:"omitempty,min=1,max=255"`
	Address         *string                 `json:"address,omitempty"`
	Phone           *string                 `json:"phone,omitempty"`
	Email           *string                 `json:"email,omitempty" validate:"omitempty,email"`
	GSTIN           *string                 `json:"gstin,omitempty"`
	LogoPath        *string                 `json:"logo_path,omitempty"`
	InvoicePrefix   *string                 `json:"invoice_prefix,omitempty" validate:"omitempty,min=1,max=10"`
	DefaultGST      *decimal.Decimal        `json:"default_gst,omitempty"`
	DefaultTemplate *models.InvoiceTemplate `json:"default_template,omitempty"`
	UPIID           *string                 `json:"upi_id,omitempty"`
}
