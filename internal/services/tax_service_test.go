package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
)

func TestTaxService_Calculate(t *testing.T) {
	svc := NewTaxService()
	ctx := context.Background()

	result, err := svc.Calculate(ctx, &TaxCalculationRequest{
		Items: []TaxCalculationItem{
			{
				Quantity:        3,
				UnitPrice:       decimal.RequireFromString("100.00"),
				DiscountPercent: decimal.NewFromInt(10),
				GSTPercent:      decimal.NewFromInt(18),
			},
			{
				Quantity:   2,
				UnitPrice:  decimal.RequireFromString("150.00"),
				GSTPercent: decimal.NewFromInt(12),
			},
		},
	})
	if err != nil {
		t.Fatalf("Calculate() failed: %v", err)
	}

	if len(result.Items) != 2 {
		t.Fatalf("Items = %d, want 2", len(result.Items))
	}
	if !result.Items[0].LineTotal.Equal(decimal.RequireFromString("318.60")) {
		t.Errorf("first line total = %s, want 318.60", result.Items[0].LineTotal)
	}
	if !result.Totals.GrandTotal.Equal(decimal.RequireFromString("654.60")) {
		t.Errorf("GrandTotal = %s, want 654.60", result.Totals.GrandTotal)
	}
	if len(result.Slabs) != 2 {
		t.Errorf("Slabs = %d, want 2", len(result.Slabs))
	}
}

func TestTaxService_CalculateRejectsBadItem(t *testing.T) {
	svc := NewTaxService()
	ctx := context.Background()

	_, err := svc.Calculate(ctx, &TaxCalculationRequest{
		Items: []TaxCalculationItem{{
			Quantity:   1,
			UnitPrice:  decimal.NewFromInt(-5),
			GSTPercent: decimal.NewFromInt(18),
		}},
	})
	if err == nil {
		t.Error("Calculate() with negative price succeeded, want error")
	}
}

func TestTaxService_ExtractBase(t *testing.T) {
	svc := NewTaxService()
	ctx := context.Background()

	result, err := svc.ExtractBase(ctx, &ExtractBaseRequest{
		Total:      decimal.RequireFromString("118.00"),
		GSTPercent: decimal.NewFromInt(18),
	})
	if err != nil {
		t.Fatalf("ExtractBase() failed: %v", err)
	}

	if !result.Base.Equal(decimal.RequireFromString("100.00")) {
		t.Errorf("Base = %s, want 100.00", result.Base)
	}
	if !result.GSTAmount.Equal(decimal.RequireFromString("18.00")) {
		t.Errorf("GSTAmount = %s, want 18.00", result.GSTAmount)
	}
	if !result.SGSTAmount.Equal(decimal.RequireFromString("9.00")) {
		t.Errorf("SGSTAmount = %s, want 9.00", result.SGSTAmount)
	}
	if !result.CGSTAmount.Equal(decimal.RequireFromString("9.00")) {
		t.Errorf("CGSTAmount = %s, want 9.00", result.CGSTAmount)
	}
}

func TestTaxService_ExtractBaseOddPaisa(t *testing.T) {
	svc := NewTaxService()

	// 111 / 1.12 = 99.11, GST 11.89; the odd paisa lands on SGST.
	result, err := svc.ExtractBase(context.Background(), &ExtractBaseRequest{
		Total:      decimal.RequireFromString("111.00"),
		GSTPercent: decimal.NewFromInt(12),
	})
	if err != nil {
		t.Fatalf("ExtractBase() failed: %v", err)
	}

	if !result.Base.Equal(decimal.RequireFromString("99.11")) {
		t.Errorf("Base = %s, want 99.11", result.Base)
	}
	if !result.GSTAmount.Equal(decimal.RequireFromString("11.89")) {
		t.Errorf("GSTAmount = %s, want 11.89", result.GSTAmount)
	}
	if !result.CGSTAmount.Equal(decimal.RequireFromString("5.94")) {
		t.Errorf("CGSTAmount = %s, want 5.94", result.CGSTAmount)
	}
	if !result.SGSTAmount.Equal(decimal.RequireFromString("5.95")) {
		t.Errorf("SGSTAmount = %s, want 5.95", result.SGSTAmount)
	}
	if !result.SGSTAmount.Add(result.CGSTAmount).Equal(result.GSTAmount) {
		t.Errorf("SGST %s + CGST %s != GST %s", result.SGSTAmount, result.CGSTAmount, result.GSTAmount)
	}
}

func TestTaxService_Rates(t *testing.T) {
	svc := NewTaxService()

	rates := svc.Rates(context.Background())
	if len(rates) != 5 {
		t.Fatalf("Rates() = %d entries, want 5", len(rates))
	}
	if !rates[0].Percent.IsZero() || rates[0].Description != "Exempt" {
		t.Errorf("first rate = %s %s, want 0 Exempt", rates[0].Percent, rates[0].Description)
	}
	if !rates[4].Percent.Equal(decimal.NewFromInt(28)) {
		t.Errorf("last rate = %s, want 28", rates[4].Percent)
	}
}
