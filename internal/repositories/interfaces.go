package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"gst-invoice-api/internal/models"
)

// CustomerRepository defines operations for customer management.
type CustomerRepository interface {
	Create(ctx context.Context, customer *models.Customer) error
	GetByID(ctx context.Context, id string) (*models.Customer, error)
	Update(ctx context.Context, customer *models.Customer) error
	Delete(ctx context.Context, id string) error

	// Search matches name, phone, or email; empty query lists all,
	// ordered by name.
	Search(ctx context.Context, query string, limit int) ([]*models.Customer, error)
}

// ProductRepository defines operations for the product catalog.
type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id string) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id string) error

	// Search matches name or barcode; category further filters when
	// non-empty.
	Search(ctx context.Context, query, category string, limit int) ([]*models.Product, error)

	// GetLowStock retrieves products at or below their alert level,
	// lowest stock first.
	GetLowStock(ctx context.Context) ([]*models.Product, error)

	// AdjustStock applies a stock delta and records the movement.
	AdjustStock(ctx context.Context, productID string, delta int, txType models.StockTransactionType, referenceID, notes string) error
}

// InvoiceRepository defines operations for invoice management.
// Create persists the invoice and its line items atomically. It also
// implements numbering.SequenceStore: reserved numbers survive invoice
// deletion so a number is never issued twice.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *models.Invoice) error
	GetByID(ctx context.Context, id string) (*models.Invoice, error)
	GetByNumber(ctx context.Context, number string) (*models.Invoice, error)
	Delete(ctx context.Context, id string) error

	// List retrieves recent invoices, newest first. customerID filters
	// when non-empty.
	List(ctx context.Context, customerID string, limit int) ([]*models.Invoice, error)

	// UpdatePayment changes the payment method/status of an invoice.
	UpdatePayment(ctx context.Context, id string, method models.PaymentMethod, status models.PaymentStatus) error

	// Sequence store contract for the number allocator.
	LastNumber(ctx context.Context, prefix string) (string, error)
	Reserve(ctx context.Context, number string) error

	// Reporting.
	GetSalesSummary(ctx context.Context, start, end *time.Time) (*SalesSummary, error)
	GetTopProducts(ctx context.Context, limit int, start, end *time.Time) ([]*ProductSales, error)
	GetTopCustomers(ctx context.Context, limit int, start, end *time.Time) ([]*CustomerSales, error)
}

// SettingsRepository manages the singleton shop settings row.
type SettingsRepository interface {
	Get(ctx context.Context) (*models.ShopSettings, error)
	Update(ctx context.Context, settings *models.ShopSettings) error
}

// RepositoryContainer bundles all repositories for dependency injection.
type RepositoryContainer struct {
	CustomerRepo CustomerRepository
	ProductRepo  ProductRepository
	InvoiceRepo  InvoiceRepository
	SettingsRepo SettingsRepository
}

// SalesSummary represents aggregated sales for a date range.
type SalesSummary struct {
	TotalInvoices int64           `json:"total_invoices"`
	TotalSales    decimal.Decimal `json:"total_sales"`
	TotalGST      decimal.Decimal `json:"total_gst"`
}

// ProductSales represents sales data for a product.
type ProductSales struct {
	ProductName  string          `json:"product_name"`
	QuantitySold int64           `json:"quantity_sold"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
}

// CustomerSales represents revenue data for a customer.
type CustomerSales struct {
	CustomerName string          `json:"customer_name"`
	Phone        *string         `json:"phone,omitempty"`
	InvoiceCount int64           `json:"invoice_count"`
	TotalSpent   decimal.Decimal `json:"total_spent"`
}
