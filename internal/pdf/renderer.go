// Package pdf renders invoices as A4 PDF documents in one of three
// layouts: classic, modern, and minimal.
package pdf

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"gst-invoice-api/internal/models"
	"gst-invoice-api/internal/qr"
)

// RenderInput bundles everything a template needs to draw an invoice.
// Customer is nil for walk-in sales.
type RenderInput struct {
	Invoice  *models.Invoice
	Customer *models.Customer
	Settings *models.ShopSettings
}

// Renderer draws invoices with gofpdf.
type Renderer struct {
	logger *logrus.Logger
}

// NewRenderer creates a new PDF renderer.
func NewRenderer(logger *logrus.Logger) *Renderer {
	return &Renderer{logger: logger}
}

// Render produces the PDF bytes for the invoice using the requested
// template. An empty template falls back to the shop default, then to
// classic.
func (r *Renderer) Render(input RenderInput, template models.InvoiceTemplate) ([]byte, error) {
	if input.Invoice == nil {
		return nil, fmt.Errorf("invoice is required")
	}
	if input.Settings == nil {
		input.Settings = models.DefaultShopSettings()
	}

	if template == "" {
		template = input.Settings.DefaultTemplate
	}
	if template == "" {
		template = models.TemplateClassic
	}

	r.logger.WithFields(logrus.Fields{
		"invoice_number": input.Invoice.InvoiceNumber,
		"template":       template,
	}).Info("Rendering invoice PDF")

	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetAutoPageBreak(true, 20)
	doc.AddPage()

	switch template {
	case models.TemplateClassic:
		r.renderClassic(doc, input)
	case models.TemplateModern:
		r.renderModern(doc, input)
	case models.TemplateMinimal:
		r.renderMinimal(doc, input)
	default:
		return nil, fmt.Errorf("unknown invoice template: %s", template)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return buf.Bytes(), nil
}

// renderClassic draws the traditional bordered layout with a centered
// header.
func (r *Renderer) renderClassic(doc *gofpdf.Fpdf, input RenderInput) {
	s := input.Settings
	inv := input.Invoice

	doc.SetFont("Arial", "B", 18)
	doc.CellFormat(0, 10, s.ShopName, "", 1, "C", false, 0, "")

	doc.SetFont("Arial", "", 9)
	if s.Address != nil {
		doc.CellFormat(0, 5, *s.Address, "", 1, "C", false, 0, "")
	}
	contact := joinNonEmpty(deref(s.Phone), deref(s.Email))
	if contact != "" {
		doc.CellFormat(0, 5, contact, "", 1, "C", false, 0, "")
	}
	if s.GSTIN != nil {
		doc.CellFormat(0, 5, "GSTIN: "+*s.GSTIN, "", 1, "C", false, 0, "")
	}

	doc.Ln(3)
	doc.SetFont("Arial", "B", 12)
	doc.CellFormat(0, 8, "TAX INVOICE", "T B", 1, "C", false, 0, "")
	doc.Ln(3)

	r.drawMeta(doc, input, "L")
	doc.Ln(4)
	r.drawItemsTable(doc, inv, true)
	doc.Ln(2)
	r.drawTotals(doc, inv)
	doc.Ln(4)
	r.drawSlabBreakdown(doc, inv)
	r.drawNotesAndQR(doc, input)
}

// renderModern draws the layout with a filled header band and zebra
// item rows.
func (r *Renderer) renderModern(doc *gofpdf.Fpdf, input RenderInput) {
	s := input.Settings
	inv := input.Invoice

	doc.SetFillColor(41, 73, 115)
	doc.SetTextColor(255, 255, 255)
	doc.SetFont("Arial", "B", 20)
	doc.CellFormat(0, 16, "  "+s.ShopName, "", 1, "L", true, 0, "")

	doc.SetFont("Arial", "", 9)
	sub := joinNonEmpty(deref(s.Address), deref(s.Phone))
	if s.GSTIN != nil {
		sub = joinNonEmpty(sub, "GSTIN "+*s.GSTIN)
	}
	if sub != "" {
		doc.CellFormat(0, 8, "  "+sub, "", 1, "L", true, 0, "")
	}
	doc.SetTextColor(0, 0, 0)

	doc.Ln(5)
	r.drawMeta(doc, input, "L")
	doc.Ln(4)
	r.drawItemsTable(doc, inv, false)
	doc.Ln(2)
	r.drawTotals(doc, inv)
	doc.Ln(4)
	r.drawSlabBreakdown(doc, inv)
	r.drawNotesAndQR(doc, input)
}

// renderMinimal draws a sparse receipt-like layout without borders.
func (r *Renderer) renderMinimal(doc *gofpdf.Fpdf, input RenderInput) {
	s := input.Settings
	inv := input.Invoice

	doc.SetFont("Arial", "B", 14)
	doc.CellFormat(0, 8, s.ShopName, "", 1, "L", false, 0, "")
	doc.SetFont("Arial", "", 9)
	doc.CellFormat(0, 5, inv.InvoiceNumber+"  "+inv.CreatedAt.Format("02 Jan 2006 15:04"), "", 1, "L", false, 0, "")
	if input.Customer != nil {
		doc.CellFormat(0, 5, "Billed to: "+input.Customer.Name, "", 1, "L", false, 0, "")
	}
	doc.Ln(4)

	doc.SetFont("Arial", "", 9)
	for _, item := range inv.LineItems {
		doc.CellFormat(100, 5, fmt.Sprintf("%s x%d", item.ProductName, item.Quantity), "", 0, "L", false, 0, "")
		doc.CellFormat(0, 5, item.LineTotal.StringFixed(2), "", 1, "R", false, 0, "")
	}

	doc.Ln(2)
	doc.SetFont("Arial", "B", 10)
	doc.CellFormat(100, 6, "Total", "T", 0, "L", false, 0, "")
	doc.CellFormat(0, 6, "Rs. "+inv.GrandTotal.StringFixed(2), "T", 1, "R", false, 0, "")
	doc.SetFont("Arial", "", 8)
	doc.CellFormat(0, 5, fmt.Sprintf("Incl. GST %s (SGST %s + CGST %s)",
		inv.TotalGST.StringFixed(2), inv.TotalSGST.StringFixed(2), inv.TotalCGST.StringFixed(2)),
		"", 1, "L", false, 0, "")

	r.drawNotesAndQR(doc, input)
}

// drawMeta writes the invoice number, date, and billing block.
func (r *Renderer) drawMeta(doc *gofpdf.Fpdf, input RenderInput, align string) {
	inv := input.Invoice

	doc.SetFont("Arial", "B", 10)
	doc.CellFormat(95, 6, "Invoice No: "+inv.InvoiceNumber, "", 0, align, false, 0, "")
	doc.SetFont("Arial", "", 10)
	doc.CellFormat(0, 6, "Date: "+inv.CreatedAt.Format("02 Jan 2006"), "", 1, "R", false, 0, "")

	doc.SetFont("Arial", "", 10)
	if input.Customer != nil {
		c := input.Customer
		doc.CellFormat(0, 6, "Bill To: "+c.Name, "", 1, align, false, 0, "")
		if c.Address != nil {
			doc.CellFormat(0, 5, *c.Address, "", 1, align, false, 0, "")
		}
		detail := joinNonEmpty(deref(c.Phone), deref(c.Email))
		if c.GSTIN != nil {
			detail = joinNonEmpty(detail, "GSTIN "+*c.GSTIN)
		}
		if detail != "" {
			doc.CellFormat(0, 5, detail, "", 1, align, false, 0, "")
		}
	} else {
		doc.CellFormat(0, 6, "Bill To: Walk-in Customer", "", 1, align, false, 0, "")
	}

	doc.CellFormat(0, 6,
		fmt.Sprintf("Payment: %s (%s)", inv.PaymentMethod, inv.PaymentStatus),
		"", 1, align, false, 0, "")
}

// drawItemsTable writes the line item table. bordered selects the
// classic full-grid look over zebra striping.
func (r *Renderer) drawItemsTable(doc *gofpdf.Fpdf, inv *models.Invoice, bordered bool) {
	headers := []string{"#", "Item", "Qty", "Rate", "Disc", "Taxable", "GST", "Total"}
	widths := []float64{8, 62, 12, 20, 16, 24, 24, 24}

	border := ""
	if bordered {
		border = "1"
	}

	doc.SetFont("Arial", "B", 9)
	doc.SetFillColor(230, 230, 230)
	for i, h := range headers {
		doc.CellFormat(widths[i], 7, h, border, 0, "C", true, 0, "")
	}
	doc.Ln(-1)

	doc.SetFont("Arial", "", 9)
	doc.SetFillColor(245, 245, 245)
	for idx, item := range inv.LineItems {
		fill := !bordered && idx%2 == 1
		cells := []string{
			fmt.Sprintf("%d", idx+1),
			item.ProductName,
			fmt.Sprintf("%d", item.Quantity),
			item.UnitPrice.StringFixed(2),
			item.DiscountPercent.StringFixed(0) + "%",
			item.TaxableAmount.StringFixed(2),
			item.GSTAmount.StringFixed(2) + " @" + item.GSTPercent.StringFixed(0) + "%",
			item.LineTotal.StringFixed(2),
		}
		aligns := []string{"C", "L", "C", "R", "C", "R", "R", "R"}
		for i, cell := range cells {
			doc.CellFormat(widths[i], 6, cell, border, 0, aligns[i], fill, 0, "")
		}
		doc.Ln(-1)
	}
}

// drawTotals writes the right-aligned totals block.
func (r *Renderer) drawTotals(doc *gofpdf.Fpdf, inv *models.Invoice) {
	rows := []struct {
		label string
		value decimal.Decimal
		bold  bool
	}{
		{"Subtotal", inv.Subtotal, false},
		{"Discount", inv.TotalDiscount, false},
		{"SGST", inv.TotalSGST, false},
		{"CGST", inv.TotalCGST, false},
		{"Grand Total", inv.GrandTotal, true},
	}

	for _, row := range rows {
		if row.bold {
			doc.SetFont("Arial", "B", 10)
		} else {
			doc.SetFont("Arial", "", 9)
		}
		doc.CellFormat(138, 6, "", "", 0, "L", false, 0, "")
		doc.CellFormat(28, 6, row.label, "", 0, "L", false, 0, "")
		doc.CellFormat(24, 6, row.value.StringFixed(2), "", 1, "R", false, 0, "")
	}
}

// drawSlabBreakdown writes the per-rate GST summary table.
func (r *Renderer) drawSlabBreakdown(doc *gofpdf.Fpdf, inv *models.Invoice) {
	slabs := inv.SlabBreakdown()
	if len(slabs) == 0 {
		return
	}

	doc.SetFont("Arial", "B", 9)
	doc.CellFormat(0, 6, "GST Summary", "", 1, "L", false, 0, "")

	doc.SetFont("Arial", "", 9)
	for _, slab := range slabs {
		doc.CellFormat(90, 5,
			fmt.Sprintf("%s%% (%s)", slab.GSTPercent.StringFixed(0), slab.Label),
			"", 0, "L", false, 0, "")
		doc.CellFormat(40, 5, "Taxable "+slab.TaxableAmount.StringFixed(2), "", 0, "R", false, 0, "")
		doc.CellFormat(0, 5, "GST "+slab.GSTAmount.StringFixed(2), "", 1, "R", false, 0, "")
	}
	doc.Ln(2)
}

// drawNotesAndQR writes the notes and, when the shop has a UPI ID, the
// payment QR in the bottom left corner.
func (r *Renderer) drawNotesAndQR(doc *gofpdf.Fpdf, input RenderInput) {
	inv := input.Invoice
	s := input.Settings

	if notes := inv.GetNotes(); notes != "" {
		doc.Ln(2)
		doc.SetFont("Arial", "I", 9)
		doc.MultiCell(0, 5, "Notes: "+notes, "", "L", false)
	}

	if s.UPIID == nil || *s.UPIID == "" {
		return
	}

	link, err := qr.BuildUPILink(qr.PaymentRequest{
		UPIID:     *s.UPIID,
		PayeeName: s.ShopName,
		Amount:    inv.GrandTotal,
		Note:      "Invoice " + inv.InvoiceNumber,
	})
	if err != nil {
		r.logger.WithError(err).Warn("Skipping UPI QR on PDF")
		return
	}

	png, err := qr.EncodePNG(link, qr.DefaultImageSize)
	if err != nil {
		r.logger.WithError(err).Warn("Failed to encode UPI QR for PDF")
		return
	}

	name := "upi-" + inv.InvoiceNumber
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	doc.RegisterImageOptionsReader(name, opts, bytes.NewReader(png))

	doc.Ln(4)
	y := doc.GetY()
	doc.ImageOptions(name, 10, y, 30, 30, false, opts, 0, "")
	doc.SetXY(44, y+12)
	doc.SetFont("Arial", "", 8)
	doc.CellFormat(0, 5, "Scan to pay "+inv.GrandTotal.StringFixed(2)+" via UPI", "", 1, "L", false, 0, "")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func joinNonEmpty(parts ...string) string {
	out := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if out != "" {
			out += " | "
		}
		out += p
	}
	return out
}
