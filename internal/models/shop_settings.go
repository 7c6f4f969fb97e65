package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceTemplate identifies one of the built-in PDF layouts.
type InvoiceTemplate string

const (
	TemplateClassic InvoiceTemplate = "classic"
	TemplateModern  InvoiceTemplate = "modern"
	TemplateMinimal InvoiceTemplate = "minimal"
)

// ShopSettings is the singleton shop configuration (row id 1). It is
// read on every invoice and mutated only through the settings update
// operation.
type ShopSettings struct {
	ID              int             `json:"id" db:"id"`
	ShopName        string          `json:"shop_name" db:"shop_name" validate:"required,min=1,max=255"`
	Address         *string         `json:"address,omitempty" db:"address"`
	Phone           *string         `json:"phone,omitempty" db:"phone"`
	Email           *string         `json:"email,omitempty" db:"email"`
	GSTIN           *string         `json:"gstin,omitempty" db:"gstin"`
	LogoPath        *string         `json:"logo_path,omitempty" db:"logo_path"`
	InvoicePrefix   string          `json:"invoice_prefix" db:"invoice_prefix" validate:"required,max=10"`
	DefaultGST      decimal.Decimal `json:"default_gst" db:"default_gst"`
	DefaultTemplate InvoiceTemplate `json:"default_template" db:"default_template"`
	UPIID           *string         `json:"upi_id,omitempty" db:"upi_id"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`
}

// DefaultShopSettings returns the settings used before the shop is
// configured.
func DefaultShopSettings() *ShopSettings {
	return &ShopSettings{
		ID:              1,
		ShopName:        "My Shop",
		InvoicePrefix:   "INV",
		DefaultGST:      decimal.NewFromInt(18),
		DefaultTemplate: TemplateClassic,
		UpdatedAt:       time.Now(),
	}
}

// Validate validates the shop settings.
func (s *ShopSettings) Validate() error {
	if strings.TrimSpace(s.ShopName) == "" {
		return fmt.Errorf("shop name is required")
	}

	if strings.TrimSpace(s.InvoicePrefix) == "" {
		return fmt.Errorf("invoice prefix is required")
	}

	if len(s.InvoicePrefix) > 10 {
		return fmt.Errorf("invoice prefix cannot exceed 10 characters")
	}

	if s.DefaultGST.IsNegative() {
		return fmt.Errorf("default GST rate cannot be negative")
	}

	if s.GSTIN != nil && *s.GSTIN != "" && !IsValidGSTIN(*s.GSTIN) {
		return fmt.Errorf("invalid GSTIN format: %s", *s.GSTIN)
	}

	if s.Email != nil && *s.Email != "" && !IsValidEmail(*s.Email) {
		return fmt.Errorf("invalid email format: %s", *s.Email)
	}

	if s.UPIID != nil && *s.UPIID != "" && !IsValidUPIID(*s.UPIID) {
		return fmt.Errorf("invalid UPI ID format: %s", *s.UPIID)
	}

	switch s.DefaultTemplate {
	case TemplateClassic, TemplateModern, TemplateMinimal, "":
	default:
		return fmt.Errorf("unknown invoice template: %s", s.DefaultTemplate)
	}

	return nil
}

// UpdateTimestamp refreshes the updated_at timestamp.
func (s *ShopSettings) UpdateTimestamp() {
	s.UpdatedAt = time.Now()
}
