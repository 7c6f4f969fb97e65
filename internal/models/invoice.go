package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"gst-invoice-api/internal/tax"
)

// PaymentMethod represents the payment method used.
type PaymentMethod string

const (
	PaymentMethodCash PaymentMethod = "cash"
	PaymentMethodCard PaymentMethod = "card"
	PaymentMethodUPI  PaymentMethod = "upi"
	PaymentMethodBank PaymentMethod = "bank_transfer"
)

// PaymentStatus represents the settlement state of an invoice.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusPartial PaymentStatus = "partial"
)

// Invoice represents an issued invoice. The invoice number is globally
// unique and, once issued, never reused even if the invoice is deleted.
type Invoice struct {
	ID            string          `json:"id" db:"id" validate:"required,uuid"`
	InvoiceNumber string          `json:"invoice_number" db:"invoice_number" validate:"required"`
	CustomerID    *string         `json:"customer_id,omitempty" db:"customer_id"` // nil for walk-in
	Subtotal      decimal.Decimal `json:"subtotal" db:"subtotal"`
	TotalDiscount decimal.Decimal `json:"total_discount" db:"total_discount"`
	TotalGST      decimal.Decimal `json:"total_gst" db:"total_gst"`
	TotalSGST     decimal.Decimal `json:"total_sgst" db:"total_sgst"`
	TotalCGST     decimal.Decimal `json:"total_cgst" db:"total_cgst"`
	GrandTotal    decimal.Decimal `json:"grand_total" db:"grand_total"`
	PaymentMethod PaymentMethod   `json:"payment_method" db:"payment_method"`
	PaymentStatus PaymentStatus   `json:"payment_status" db:"payment_status"`
	Notes         *string         `json:"notes,omitempty" db:"notes"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`

	// Loaded separately, not stored on the invoices row.
	LineItems []LineItem `json:"line_items,omitempty"`
}

// NewInvoice creates an invoice shell with generated ID and timestamps.
// The invoice number is assigned by the allocator before persisting.
func NewInvoice(customerID *string) *Invoice {
	now := time.Now()
	return &Invoice{
		ID:            uuid.New().String(),
		CustomerID:    customerID,
		PaymentMethod: PaymentMethodCash,
		PaymentStatus: PaymentStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// IsWalkIn reports whether the invoice has no customer reference.
func (i *Invoice) IsWalkIn() bool {
	return i.CustomerID == nil || *i.CustomerID == ""
}

// CalculateTotals recomputes the totals snapshot from the line items.
// Totals are sums of per-line rounded values; recomputing on unchanged
// items is idempotent.
func (i *Invoice) CalculateTotals() {
	breakdowns := make([]tax.LineBreakdown, len(i.LineItems))
	for idx, item := range i.LineItems {
		breakdowns[idx] = item.Breakdown()
	}

	totals := tax.AggregateInvoice(breakdowns)
	i.Subtotal = totals.Subtotal
	i.TotalDiscount = totals.TotalDiscount
	i.TotalGST = totals.TotalGST
	i.TotalSGST = totals.TotalSGST
	i.TotalCGST = totals.TotalCGST
	i.GrandTotal = totals.GrandTotal
}

// SlabBreakdown returns the per-rate tax grouping for rendering.
func (i *Invoice) SlabBreakdown() []tax.SlabBreakdown {
	breakdowns := make([]tax.LineBreakdown, len(i.LineItems))
	for idx, item := range i.LineItems {
		breakdowns[idx] = item.Breakdown()
	}
	return tax.GroupedBreakdown(breakdowns)
}

// SetNotes sets the invoice notes, clearing them when empty.
func (i *Invoice) SetNotes(notes string) {
	if notes == "" {
		i.Notes = nil
	} else {
		i.Notes = &notes
	}
}

// GetNotes returns the invoice notes or empty string.
func (i *Invoice) GetNotes() string {
	if i.Notes == nil {
		return ""
	}
	return *i.Notes
}

// Validate validates the invoice data and its totals invariants.
func (i *Invoice) Validate() error {
	if i.ID == "" {
		return fmt.Errorf("invoice ID is required")
	}

	if i.InvoiceNumber == "" {
		return fmt.Errorf("invoice number is required")
	}

	if i.GrandTotal.IsNegative() {
		return fmt.Errorf("grand total cannot be negative")
	}

	if !i.GrandTotal.Equal(i.Subtotal.Add(i.TotalGST)) {
		return fmt.Errorf("grand total does not equal subtotal + GST")
	}

	if !i.TotalSGST.Add(i.TotalCGST).Equal(i.TotalGST) {
		return fmt.Errorf("SGST + CGST totals do not equal GST total")
	}

	switch i.PaymentStatus {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusPartial:
	default:
		return fmt.Errorf("invalid payment status: %s", i.PaymentStatus)
	}

	return nil
}

// UpdateTimestamp refreshes the updated_at timestamp.
func (i *Invoice) UpdateTimestamp() {
	i.UpdatedAt = time.Now()
}
