package tax

import (
	"sort"

	"github.com/shopspring/decimal"
)

// SlabBreakdown holds per-rate sums for the tax-slab section of an invoice.
type SlabBreakdown struct {
	GSTPercent    decimal.Decimal `json:"gst_percent"`
	Label         string          `json:"label"`
	TaxableAmount decimal.Decimal `json:"taxable_amount"`
	GSTAmount     decimal.Decimal `json:"gst_amount"`
	SGSTAmount    decimal.Decimal `json:"sgst_amount"`
	CGSTAmount    decimal.Decimal `json:"cgst_amount"`
}

// GroupedBreakdown groups line items by GST rate and sums each field per
// group, ordered by ascending rate. The zero-rate group is labeled
// "Exempt" rather than shown as a zero tax line.
func GroupedBreakdown(items []LineBreakdown) []SlabBreakdown {
	groups := make(map[string]*SlabBreakdown)

	for _, item := range items {
		key := item.GSTPercent.String()
		group, ok := groups[key]
		if !ok {
			group = &SlabBreakdown{
				GSTPercent:    item.GSTPercent,
				Label:         SlabDescription(item.GSTPercent),
				TaxableAmount: decimal.Zero,
				GSTAmount:     decimal.Zero,
				SGSTAmount:    decimal.Zero,
				CGSTAmount:    decimal.Zero,
			}
			groups[key] = group
		}
		group.TaxableAmount = group.TaxableAmount.Add(item.TaxableAmount)
		group.GSTAmount = group.GSTAmount.Add(item.GSTAmount)
		group.SGSTAmount = group.SGSTAmount.Add(item.SGSTAmount)
		group.CGSTAmount = group.CGSTAmount.Add(item.CGSTAmount)
	}

	breakdown := make([]SlabBreakdown, 0, len(groups))
	for _, group := range groups {
		breakdown = append(breakdown, *group)
	}

	sort.Slice(breakdown, func(i, j int) bool {
		return breakdown[i].GSTPercent.LessThan(breakdown[j].GSTPercent)
	})

	return breakdown
}

// SlabDescription returns the display label for a GST slab.
func SlabDescription(gstPercent decimal.Decimal) string {
	switch {
	case gstPercent.IsZero():
		return "Exempt"
	case gstPercent.Equal(decimal.NewFromInt(5)):
		return "Essential Goods"
	case gstPercent.Equal(decimal.NewFromInt(12)), gstPercent.Equal(decimal.NewFromInt(18)):
		return "Standard Rate"
	case gstPercent.Equal(decimal.NewFromInt(28)):
		return "Luxury/Sin Goods"
	default:
		return "Unknown Rate"
	}
}
