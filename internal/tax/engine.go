// Package tax implements GST calculations for the Indian tax system.
//
// All monetary results are rounded to 2 decimal places using round half
// away from zero (decimal.Round). Rounding is applied strictly per line
// item; invoice totals are sums of already-rounded line values, never a
// rounding of summed raw values. This keeps totals reproducible against
// printed invoices.
package tax

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// GST slabs published for India.
var GSTRates = []decimal.Decimal{
	decimal.NewFromInt(0),
	decimal.NewFromInt(5),
	decimal.NewFromInt(12),
	decimal.NewFromInt(18),
	decimal.NewFromInt(28),
}

var (
	hundred = decimal.NewFromInt(100)
	two     = decimal.NewFromInt(2)
)

// InvalidInputError is returned when a calculation input violates its
// precondition. Inputs are rejected, never clamped.
type InvalidInputError struct {
	Field   string
	Message string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input %s: %s", e.Field, e.Message)
}

func invalidInput(field, message string) error {
	return &InvalidInputError{Field: field, Message: message}
}

// LineBreakdown holds the derived amounts for a single line item.
type LineBreakdown struct {
	Quantity        int             `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	GSTPercent      decimal.Decimal `json:"gst_percent"`
	BaseAmount      decimal.Decimal `json:"base_amount"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	TaxableAmount   decimal.Decimal `json:"taxable_amount"`
	GSTAmount       decimal.Decimal `json:"gst_amount"`
	SGSTAmount      decimal.Decimal `json:"sgst_amount"`
	CGSTAmount      decimal.Decimal `json:"cgst_amount"`
	LineTotal       decimal.Decimal `json:"line_total"`
}

// Totals holds invoice-level aggregates across line items.
type Totals struct {
	Subtotal      decimal.Decimal `json:"subtotal"`
	TotalDiscount decimal.Decimal `json:"total_discount"`
	TotalGST      decimal.Decimal `json:"total_gst"`
	TotalSGST     decimal.Decimal `json:"total_sgst"`
	TotalCGST     decimal.Decimal `json:"total_cgst"`
	GrandTotal    decimal.Decimal `json:"grand_total"`
}

// CalculateLineItem computes the full tax breakdown for one line item.
// Discount is always applied before GST. SGST and CGST split the GST
// amount exactly; when the rounded GST amount has an odd minor unit the
// extra paisa goes to SGST, so SGSTAmount + CGSTAmount == GSTAmount
// always holds.
func CalculateLineItem(quantity int, unitPrice, discountPercent, gstPercent decimal.Decimal) (LineBreakdown, error) {
	if quantity <= 0 {
		return LineBreakdown{}, invalidInput("quantity", "must be positive")
	}
	if unitPrice.IsNegative() {
		return LineBreakdown{}, invalidInput("unit_price", "cannot be negative")
	}
	if discountPercent.IsNegative() || discountPercent.GreaterThan(hundred) {
		return LineBreakdown{}, invalidInput("discount_percent", "must be between 0 and 100")
	}
	if gstPercent.IsNegative() {
		return LineBreakdown{}, invalidInput("gst_percent", "cannot be negative")
	}

	base := unitPrice.Mul(decimal.NewFromInt(int64(quantity))).Round(2)
	discount := base.Mul(discountPercent).Div(hundred).Round(2)
	taxable := base.Sub(discount)
	gst := taxable.Mul(gstPercent).Div(hundred).Round(2)
	cgst := gst.Div(two).RoundDown(2)
	sgst := gst.Sub(cgst)

	return LineBreakdown{
		Quantity:        quantity,
		UnitPrice:       unitPrice,
		DiscountPercent: discountPercent,
		GSTPercent:      gstPercent,
		BaseAmount:      base,
		DiscountAmount:  discount,
		TaxableAmount:   taxable,
		GSTAmount:       gst,
		SGSTAmount:      sgst,
		CGSTAmount:      cgst,
		LineTotal:       taxable.Add(gst),
	}, nil
}

// AggregateInvoice sums the derived fields of already-rounded line items.
// An empty slice yields all-zero totals.
func AggregateInvoice(items []LineBreakdown) Totals {
	totals := Totals{
		Subtotal:      decimal.Zero,
		TotalDiscount: decimal.Zero,
		TotalGST:      decimal.Zero,
		TotalSGST:     decimal.Zero,
		TotalCGST:     decimal.Zero,
		GrandTotal:    decimal.Zero,
	}

	for _, item := range items {
		totals.Subtotal = totals.Subtotal.Add(item.TaxableAmount)
		totals.TotalDiscount = totals.TotalDiscount.Add(item.DiscountAmount)
		totals.TotalGST = totals.TotalGST.Add(item.GSTAmount)
		totals.TotalSGST = totals.TotalSGST.Add(item.SGSTAmount)
		totals.TotalCGST = totals.TotalCGST.Add(item.CGSTAmount)
		totals.GrandTotal = totals.GrandTotal.Add(item.LineTotal)
	}

	return totals
}

// ExtractBaseFromTotal recovers the pre-tax base from a tax-inclusive
// total, then re-derives the GST split from that base. Because forward
// rounding is not invertible this does not round-trip exactly against a
// total produced by CalculateLineItem; callers use it for "price includes
// tax" entry, not reconciliation.
func ExtractBaseFromTotal(totalAmount, gstPercent decimal.Decimal) (base, gst, sgst, cgst decimal.Decimal, err error) {
	if totalAmount.IsNegative() {
		return decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero, invalidInput("total_amount", "cannot be negative")
	}
	if gstPercent.IsNegative() {
		return decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero, invalidInput("gst_percent", "cannot be negative")
	}

	divisor := decimal.NewFromInt(1).Add(gstPercent.Div(hundred))
	base = totalAmount.DivRound(divisor, 2)
	gst = base.Mul(gstPercent).Div(hundred).Round(2)
	cgst = gst.Div(two).RoundDown(2)
	sgst = gst.Sub(cgst)
	return base, gst, sgst, cgst, nil
}

// ValidateRate reports whether gstPercent is one of the published slabs.
// Advisory only; CalculateLineItem accepts any non-negative rate.
func ValidateRate(gstPercent decimal.Decimal) bool {
	for _, rate := range GSTRates {
		if gstPercent.Equal(rate) {
			return true
		}
	}
	return false
}
