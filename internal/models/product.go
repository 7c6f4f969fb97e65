package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockTransactionType classifies a stock movement.
type StockTransactionType string

const (
	StockTransactionSale       StockTransactionType = "sale"
	StockTransactionPurchase   StockTransactionType = "purchase"
	StockTransactionAdjustment StockTransactionType = "adjustment"
)

// DefaultMinStockAlert is the low-stock threshold applied when a product
// does not set its own.
const DefaultMinStockAlert = 5

// Product represents a product in the catalog. Each product carries its
// own GST rate so mixed-slab invoices compute per line.
type Product struct {
	ID            string          `json:"id" db:"id" validate:"required,uuid"`
	Name          string          `json:"name" db:"name" validate:"required,min=1,max=255"`
	Description   *string         `json:"description,omitempty" db:"description"`
	Price         decimal.Decimal `json:"price" db:"price"`
	GSTPercent    decimal.Decimal `json:"gst_percent" db:"gst_percent"`
	Barcode       *string         `json:"barcode,omitempty" db:"barcode"`
	Category      *string         `json:"category,omitempty" db:"category"`
	StockQuantity int             `json:"stock_quantity" db:"stock_quantity"`
	MinStockAlert int             `json:"min_stock_alert" db:"min_stock_alert"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`
}

// NewProduct creates a new product with generated ID and timestamps.
func NewProduct(name string, price, gstPercent decimal.Decimal) *Product {
	now := time.Now()
	return &Product{
		ID:            uuid.New().String(),
		Name:          name,
		Price:         price,
		GSTPercent:    gstPercent,
		MinStockAlert: DefaultMinStockAlert,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Validate validates the product data.
func (p *Product) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("product ID is required")
	}

	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("product name is required")
	}

	if len(p.Name) > 255 {
		return fmt.Errorf("product name cannot exceed 255 characters")
	}

	if p.Price.IsNegative() {
		return fmt.Errorf("product price cannot be negative")
	}

	if p.GSTPercent.IsNegative() {
		return fmt.Errorf("product GST percent cannot be negative")
	}

	if p.MinStockAlert < 0 {
		return fmt.Errorf("minimum stock alert cannot be negative")
	}

	return nil
}

// IsLowStock reports whether the product is at or below its alert level.
func (p *Product) IsLowStock() bool {
	return p.StockQuantity <= p.MinStockAlert
}

// UpdateTimestamp refreshes the updated_at timestamp.
func (p *Product) UpdateTimestamp() {
	p.UpdatedAt = time.Now()
}

// StockTransaction records a single stock movement against a product.
type StockTransaction struct {
	ID          string               `json:"id" db:"id"`
	ProductID   string               `json:"product_id" db:"product_id"`
	Type        StockTransactionType `json:"type" db:"transaction_type"`
	Quantity    int                  `json:"quantity" db:"quantity"`
	ReferenceID *string              `json:"reference_id,omitempty" db:"reference_id"`
	Notes       *string              `json:"notes,omitempty" db:"notes"`
	CreatedAt   time.Time            `json:"created_at" db:"created_at"`
}

// NewStockTransaction creates a stock movement record.
func NewStockTransaction(productID string, txType StockTransactionType, quantity int) *StockTransaction {
	return &StockTransaction{
		ID:        uuid.New().String(),
		ProductID: productID,
		Type:      txType,
		Quantity:  quantity,
		CreatedAt: time.Now(),
	}
}
