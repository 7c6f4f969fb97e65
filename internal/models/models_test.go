package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestNewLineItem(t *testing.T) {
	item, err := NewLineItem("inv-1", "Soap", 3, dec("100.00"), dec("10"), dec("18"), 0)
	if err != nil {
		t.Fatalf("NewLineItem() error = %v", err)
	}

	if !item.TaxableAmount.Equal(dec("270.00")) {
		t.Errorf("taxable = %s, want 270.00", item.TaxableAmount)
	}
	if !item.LineTotal.Equal(dec("318.60")) {
		t.Errorf("line total = %s, want 318.60", item.LineTotal)
	}
	if err := item.Validate(); err != nil {
		t.Errorf("Validate() failed: %v", err)
	}
}

func TestNewLineItem_InvalidInput(t *testing.T) {
	if _, err := NewLineItem("inv-1", "Soap", 0, dec("100"), dec("0"), dec("18"), 0); err == nil {
		t.Error("expected error for zero quantity")
	}
	if _, err := NewLineItem("inv-1", "Soap", 1, dec("100"), dec("101"), dec("18"), 0); err == nil {
		t.Error("expected error for discount over 100")
	}
}

func TestLineItem_RecalculateIdempotent(t *testing.T) {
	item, err := NewLineItem("inv-1", "Soap", 3, dec("100.00"), dec("10"), dec("18"), 0)
	if err != nil {
		t.Fatal(err)
	}

	before := item.LineTotal
	if err := item.Recalculate(); err != nil {
		t.Fatalf("Recalculate() error = %v", err)
	}
	if !item.LineTotal.Equal(before) {
		t.Errorf("recalculation changed line total: %s -> %s", before, item.LineTotal)
	}
}

func TestInvoice_CalculateTotals(t *testing.T) {
	invoice := NewInvoice(nil)
	for i := 0; i < 2; i++ {
		item, err := NewLineItem(invoice.ID, "Soap", 3, dec("100.00"), dec("10"), dec("18"), i)
		if err != nil {
			t.Fatal(err)
		}
		invoice.LineItems = append(invoice.LineItems, *item)
	}

	invoice.CalculateTotals()

	if !invoice.Subtotal.Equal(dec("540.00")) {
		t.Errorf("subtotal = %s, want 540.00", invoice.Subtotal)
	}
	if !invoice.TotalGST.Equal(dec("97.20")) {
		t.Errorf("total gst = %s, want 97.20", invoice.TotalGST)
	}
	if !invoice.GrandTotal.Equal(dec("637.20")) {
		t.Errorf("grand total = %s, want 637.20", invoice.GrandTotal)
	}

	invoice.InvoiceNumber = "INV000001"
	if err := invoice.Validate(); err != nil {
		t.Errorf("Validate() failed: %v", err)
	}
}

func TestInvoice_EmptyTotals(t *testing.T) {
	invoice := NewInvoice(nil)
	invoice.CalculateTotals()

	if !invoice.GrandTotal.IsZero() {
		t.Errorf("grand total = %s, want 0", invoice.GrandTotal)
	}
	if !invoice.IsWalkIn() {
		t.Error("invoice without customer should be walk-in")
	}
}

func TestInvoice_ValidateRejectsDrift(t *testing.T) {
	invoice := NewInvoice(nil)
	invoice.InvoiceNumber = "INV000001"
	invoice.Subtotal = dec("100.00")
	invoice.TotalGST = dec("18.00")
	invoice.TotalSGST = dec("9.00")
	invoice.TotalCGST = dec("9.00")
	invoice.GrandTotal = dec("117.99") // tampered

	if err := invoice.Validate(); err == nil {
		t.Error("expected validation failure for inconsistent totals")
	}
}

func TestCustomer_Validate(t *testing.T) {
	customer := NewCustomer("Ravi Traders")
	if err := customer.Validate(); err != nil {
		t.Errorf("Validate() failed: %v", err)
	}

	badEmail := "not-an-email"
	customer.Email = &badEmail
	if err := customer.Validate(); err == nil {
		t.Error("expected error for invalid email")
	}
}

func TestProduct_Validate(t *testing.T) {
	product := NewProduct("Soap", dec("25.00"), dec("18"))
	if err := product.Validate(); err != nil {
		t.Errorf("Validate() failed: %v", err)
	}

	product.Price = dec("-1")
	if err := product.Validate(); err == nil {
		t.Error("expected error for negative price")
	}
}

func TestProduct_IsLowStock(t *testing.T) {
	product := NewProduct("Soap", dec("25.00"), dec("18"))
	product.StockQuantity = 5
	product.MinStockAlert = 5
	if !product.IsLowStock() {
		t.Error("stock at alert level should be low")
	}

	product.StockQuantity = 6
	if product.IsLowStock() {
		t.Error("stock above alert level should not be low")
	}
}

func TestShopSettings_Validate(t *testing.T) {
	settings := DefaultShopSettings()
	if err := settings.Validate(); err != nil {
		t.Errorf("Validate() failed: %v", err)
	}

	badGSTIN := "INVALID"
	settings.GSTIN = &badGSTIN
	if err := settings.Validate(); err == nil {
		t.Error("expected error for invalid GSTIN")
	}

	goodGSTIN := "29ABCDE1234F1Z5"
	settings.GSTIN = &goodGSTIN
	if err := settings.Validate(); err != nil {
		t.Errorf("Validate() failed for valid GSTIN: %v", err)
	}
}

func TestValidationHelpers(t *testing.T) {
	if !IsValidGSTIN("29ABCDE1234F1Z5") {
		t.Error("valid GSTIN rejected")
	}
	if IsValidGSTIN("29ABCDE1234F1X5") {
		t.Error("GSTIN without Z accepted")
	}

	if !IsValidPhone("+919876543210") || !IsValidPhone("98765 43210") {
		t.Error("valid Indian phone rejected")
	}
	if IsValidPhone("12345") {
		t.Error("invalid phone accepted")
	}

	if !IsValidUPIID("shop@upi") {
		t.Error("valid UPI ID rejected")
	}
	if IsValidUPIID("no-at-sign") {
		t.Error("invalid UPI ID accepted")
	}
}
