package models

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"gst-invoice-api/internal/tax"
)

// LineItem represents a line item on an invoice. Derived amounts are
// computed by the tax engine when the invoice is composed and frozen
// once the invoice is persisted.
type LineItem struct {
	ID              string          `json:"id" db:"id" validate:"required,uuid"`
	InvoiceID       string          `json:"invoice_id" db:"invoice_id" validate:"required,uuid"`
	ProductID       *string         `json:"product_id,omitempty" db:"product_id"`
	ProductName     string          `json:"product_name" db:"product_name" validate:"required,min=1,max=255"`
	Quantity        int             `json:"quantity" db:"quantity" validate:"required,min=1"`
	UnitPrice       decimal.Decimal `json:"unit_price" db:"unit_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent" db:"discount_percent"`
	GSTPercent      decimal.Decimal `json:"gst_percent" db:"gst_percent"`
	BaseAmount      decimal.Decimal `json:"base_amount" db:"base_amount"`
	DiscountAmount  decimal.Decimal `json:"discount_amount" db:"discount_amount"`
	TaxableAmount   decimal.Decimal `json:"taxable_amount" db:"taxable_amount"`
	GSTAmount       decimal.Decimal `json:"gst_amount" db:"gst_amount"`
	SGSTAmount      decimal.Decimal `json:"sgst_amount" db:"sgst_amount"`
	CGSTAmount      decimal.Decimal `json:"cgst_amount" db:"cgst_amount"`
	LineTotal       decimal.Decimal `json:"line_total" db:"line_total"`
	SortOrder       int             `json:"sort_order" db:"sort_order"`
}

// NewLineItem creates a line item and computes its tax breakdown.
func NewLineItem(invoiceID, productName string, quantity int, unitPrice, discountPercent, gstPercent decimal.Decimal, sortOrder int) (*LineItem, error) {
	breakdown, err := tax.CalculateLineItem(quantity, unitPrice, discountPercent, gstPercent)
	if err != nil {
		return nil, err
	}

	item := &LineItem{
		ID:          uuid.New().String(),
		InvoiceID:   invoiceID,
		ProductName: productName,
		SortOrder:   sortOrder,
	}
	item.applyBreakdown(breakdown)
	return item, nil
}

// Recalculate re-derives every amount from the stored inputs. Calling it
// on an unchanged item is idempotent.
func (li *LineItem) Recalculate() error {
	breakdown, err := tax.CalculateLineItem(li.Quantity, li.UnitPrice, li.DiscountPercent, li.GSTPercent)
	if err != nil {
		return err
	}
	li.applyBreakdown(breakdown)
	return nil
}

func (li *LineItem) applyBreakdown(b tax.LineBreakdown) {
	li.Quantity = b.Quantity
	li.UnitPrice = b.UnitPrice
	li.DiscountPercent = b.DiscountPercent
	li.GSTPercent = b.GSTPercent
	li.BaseAmount = b.BaseAmount
	li.DiscountAmount = b.DiscountAmount
	li.TaxableAmount = b.TaxableAmount
	li.GSTAmount = b.GSTAmount
	li.SGSTAmount = b.SGSTAmount
	li.CGSTAmount = b.CGSTAmount
	li.LineTotal = b.LineTotal
}

// Breakdown returns the line item's amounts as a tax.LineBreakdown for
// aggregation and slab grouping.
func (li *LineItem) Breakdown() tax.LineBreakdown {
	return tax.LineBreakdown{
		Quantity:        li.Quantity,
		UnitPrice:       li.UnitPrice,
		DiscountPercent: li.DiscountPercent,
		GSTPercent:      li.GSTPercent,
		BaseAmount:      li.BaseAmount,
		DiscountAmount:  li.DiscountAmount,
		TaxableAmount:   li.TaxableAmount,
		GSTAmount:       li.GSTAmount,
		SGSTAmount:      li.SGSTAmount,
		CGSTAmount:      li.CGSTAmount,
		LineTotal:       li.LineTotal,
	}
}

// Validate validates the line item data, including the arithmetic
// invariants between its derived amounts.
func (li *LineItem) Validate() error {
	if li.ID == "" {
		return fmt.Errorf("line item ID is required")
	}

	if li.InvoiceID == "" {
		return fmt.Errorf("invoice ID is required")
	}

	if strings.TrimSpace(li.ProductName) == "" {
		return fmt.Errorf("product name is required")
	}

	if li.Quantity <= 0 {
		return fmt.Errorf("quantity must be greater than 0")
	}

	if li.UnitPrice.IsNegative() {
		return fmt.Errorf("unit price cannot be negative")
	}

	if !li.SGSTAmount.Add(li.CGSTAmount).Equal(li.GSTAmount) {
		return fmt.Errorf("SGST + CGST does not equal GST amount")
	}

	if !li.LineTotal.Equal(li.TaxableAmount.Add(li.GSTAmount)) {
		return fmt.Errorf("line total does not equal taxable amount + GST")
	}

	return nil
}
