package services

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	"gst-invoice-api/internal/tax"
)

// taxService implements the TaxService interface. It is a thin,
// stateless wrapper over the calculation engine used for previews.
type taxService struct {
	validator *validator.Validate
}

// NewTaxService creates a new tax service instance
func NewTaxService() TaxService {
	return &taxService{
		validator: validator.New(),
	}
}

// Calculate computes per-line breakdowns, the aggregate totals, and the
// per-slab grouping for a prospective invoice.
func (s *taxService) Calculate(ctx context.Context, req *TaxCalculationRequest) (*TaxCalculationResult, error) {
	if req == nil {
		return nil, fmt.Errorf("tax calculation request cannot be nil")
	}

	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	items := make([]tax.LineBreakdown, 0, len(req.Items))
	for i, item := range req.Items {
		breakdown, err := tax.CalculateLineItem(item.Quantity, item.UnitPrice, item.DiscountPercent, item.GSTPercent)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i+1, err)
		}
		items = append(items, breakdown)
	}

	return &TaxCalculationResult{
		Items:  items,
		Totals: tax.AggregateInvoice(items),
		Slabs:  tax.GroupedBreakdown(items),
	}, nil
}

// ExtractBase derives the pre-tax base from a GST-inclusive total.
func (s *taxService) ExtractBase(ctx context.Context, req *ExtractBaseRequest) (*ExtractBaseResult, error) {
	if req == nil {
		return nil, fmt.Errorf("extract base request cannot be nil")
	}

	base, gst, sgst, cgst, err := tax.ExtractBaseFromTotal(req.Total, req.GSTPercent)
	if err != nil {
		return nil, err
	}

	return &ExtractBaseResult{
		Base:       base,
		GSTAmount:  gst,
		SGSTAmount: sgst,
		CGSTAmount: cgst,
		Total:      req.Total,
		GSTPercent: req.GSTPercent,
	}, nil
}

// Rates lists the recognized GST slabs with display labels.
func (s *taxService) Rates(ctx context.Context) []RateInfo {
	rates := make([]RateInfo, 0, len(tax.GSTRates))
	for _, rate := range tax.GSTRates {
		rates = append(rates, RateInfo{
			Percent:     rate,
			Description: tax.SlabDescription(rate),
		})
	}

	return rates
}
