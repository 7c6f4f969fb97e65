package pdf

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"gst-invoice-api/internal/models"
)

func renderInput(t *testing.T) RenderInput {
	t.Helper()

	invoice := models.NewInvoice(nil)
	invoice.InvoiceNumber = "INV000001"
	item, err := models.NewLineItem(invoice.ID, "Masala Chai", 3,
		decimal.RequireFromString("100.00"),
		decimal.RequireFromString("10"),
		decimal.RequireFromString("18"), 0)
	if err != nil {
		t.Fatalf("NewLineItem() failed: %v", err)
	}
	invoice.LineItems = []models.LineItem{*item}
	invoice.CalculateTotals()
	invoice.SetNotes("Thank you for your business")

	settings := models.DefaultShopSettings()
	settings.ShopName = "Sharma General Store"
	upi := "sharma@upi"
	settings.UPIID = &upi

	customer := models.NewCustomer("Ravi Kumar")

	return RenderInput{Invoice: invoice, Customer: customer, Settings: settings}
}

func TestRenderer_AllTemplates(t *testing.T) {
	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	renderer := NewRenderer(logger)
	input := renderInput(t)

	templates := []models.InvoiceTemplate{
		models.TemplateClassic,
		models.TemplateModern,
		models.TemplateMinimal,
	}

	for _, tmpl := range templates {
		t.Run(string(tmpl), func(t *testing.T) {
			pdf, err := renderer.Render(input, tmpl)
			if err != nil {
				t.Fatalf("Render(%s) failed: %v", tmpl, err)
			}
			if !strings.HasPrefix(string(pdf), "%PDF") {
				t.Errorf("Render(%s) did not produce a PDF document", tmpl)
			}
		})
	}
}

func TestRenderer_DefaultsToShopTemplate(t *testing.T) {
	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	renderer := NewRenderer(logger)

	input := renderInput(t)
	input.Settings.DefaultTemplate = models.TemplateModern

	pdf, err := renderer.Render(input, "")
	if err != nil {
		t.Fatalf("Render() failed: %v", err)
	}
	if len(pdf) == 0 {
		t.Error("Render() returned empty document")
	}
}

func TestRenderer_UnknownTemplate(t *testing.T) {
	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	renderer := NewRenderer(logger)

	if _, err := renderer.Render(renderInput(t), "fancy"); err == nil {
		t.Error("Render(unknown template) succeeded, want error")
	}
}

func TestRenderer_WalkInWithoutCustomer(t *testing.T) {
	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	renderer := NewRenderer(logger)

	input := renderInput(t)
	input.Customer = nil

	pdf, err := renderer.Render(input, models.TemplateClassic)
	if err != nil {
		t.Fatalf("Render() failed: %v", err)
	}
	if len(pdf) == 0 {
		t.Error("Render() returned empty document")
	}
}
