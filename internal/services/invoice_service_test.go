package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"gst-invoice-api/internal/models"
	"gst-invoice-api/internal/numbering"
	"gst-invoice-api/internal/repositories"
)

// In-memory repository fakes. Only the behavior the services exercise
// is implemented.

type fakeCustomerRepo struct {
	customers map[string]*models.Customer
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: make(map[string]*models.Customer)}
}

func (f *fakeCustomerRepo) Create(ctx context.Context, c *models.Customer) error {
	f.customers[c.ID] = c
	return nil
}

func (f *fakeCustomerRepo) GetByID(ctx context.Context, id string) (*models.Customer, error) {
	c, ok := f.customers[id]
	if !ok {
		return nil, repositories.NotFoundError("customer", id)
	}
	return c, nil
}

func (f *fakeCustomerRepo) Update(ctx context.Context, c *models.Customer) error {
	if _, ok := f.customers[c.ID]; !ok {
		return repositories.NotFoundError("customer", c.ID)
	}
	f.customers[c.ID] = c
	return nil
}

func (f *fakeCustomerRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.customers[id]; !ok {
		return repositories.NotFoundError("customer", id)
	}
	delete(f.customers, id)
	return nil
}

func (f *fakeCustomerRepo) Search(ctx context.Context, query string, limit int) ([]*models.Customer, error) {
	var out []*models.Customer
	for _, c := range f.customers {
		if query == "" || strings.Contains(strings.ToLower(c.Name), strings.ToLower(query)) {
			out = append(out, c)
		}
	}
	return out, nil
}

type fakeProductRepo struct {
	products map[string]*models.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[string]*models.Product)}
}

func (f *fakeProductRepo) Create(ctx context.Context, p *models.Product) error {
	f.products[p.ID] = p
	return nil
}

func (f *fakeProductRepo) GetByID(ctx context.Context, id string) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, repositories.NotFoundError("product", id)
	}
	return p, nil
}

func (f *fakeProductRepo) Update(ctx context.Context, p *models.Product) error {
	f.products[p.ID] = p
	return nil
}

func (f *fakeProductRepo) Delete(ctx context.Context, id string) error {
	delete(f.products, id)
	return nil
}

func (f *fakeProductRepo) Search(ctx context.Context, query, category string, limit int) ([]*models.Product, error) {
	var out []*models.Product
	for _, p := range f.products {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeProductRepo) GetLowStock(ctx context.Context) ([]*models.Product, error) {
	var out []*models.Product
	for _, p := range f.products {
		if p.IsLowStock() {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProductRepo) AdjustStock(ctx context.Context, productID string, delta int, txType models.StockTransactionType, referenceID, notes string) error {
	p, ok := f.products[productID]
	if !ok {
		return repositories.NotFoundError("product", productID)
	}
	p.StockQuantity += delta
	return nil
}

type fakeInvoiceRepo struct {
	invoices map[string]*models.Invoice
	reserved map[string]bool
	last     string
	products *fakeProductRepo
}

func newFakeInvoiceRepo(products *fakeProductRepo) *fakeInvoiceRepo {
	return &fakeInvoiceRepo{
		invoices: make(map[string]*models.Invoice),
		reserved: make(map[string]bool),
		products: products,
	}
}

func (f *fakeInvoiceRepo) Create(ctx context.Context, inv *models.Invoice) error {
	f.invoices[inv.ID] = inv
	for _, item := range inv.LineItems {
		if item.ProductID != nil && f.products != nil {
			if err := f.products.AdjustStock(ctx, *item.ProductID, -item.Quantity, models.StockTransactionSale, inv.ID, ""); err != nil {
				return err
			}
		}
	}
	return nil
}

func (f *fakeInvoiceRepo) GetByID(ctx context.Context, id string) (*models.Invoice, error) {
	inv, ok := f.invoices[id]
	if !ok {
		return nil, repositories.NotFoundError("invoice", id)
	}
	return inv, nil
}

func (f *fakeInvoiceRepo) GetByNumber(ctx context.Context, number string) (*models.Invoice, error) {
	for _, inv := range f.invoices {
		if inv.InvoiceNumber == number {
			return inv, nil
		}
	}
	return nil, repositories.NotFoundError("invoice", number)
}

func (f *fakeInvoiceRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.invoices[id]; !ok {
		return repositories.NotFoundError("invoice", id)
	}
	delete(f.invoices, id)
	return nil
}

func (f *fakeInvoiceRepo) List(ctx context.Context, customerID string, limit int) ([]*models.Invoice, error) {
	var out []*models.Invoice
	for _, inv := range f.invoices {
		out = append(out, inv)
	}
	return out, nil
}

func (f *fakeInvoiceRepo) UpdatePayment(ctx context.Context, id string, method models.PaymentMethod, status models.PaymentStatus) error {
	inv, ok := f.invoices[id]
	if !ok {
		return repositories.NotFoundError("invoice", id)
	}
	inv.PaymentMethod = method
	inv.PaymentStatus = status
	return nil
}

func (f *fakeInvoiceRepo) LastNumber(ctx context.Context, prefix string) (string, error) {
	return f.last, nil
}

func (f *fakeInvoiceRepo) Reserve(ctx context.Context, number string) error {
	if f.reserved[number] {
		return numbering.ErrSequenceConflict
	}
	f.reserved[number] = true
	f.last = number
	return nil
}

func (f *fakeInvoiceRepo) GetSalesSummary(ctx context.Context, start, end *time.Time) (*repositories.SalesSummary, error) {
	summary := &repositories.SalesSummary{TotalSales: decimal.Zero, TotalGST: decimal.Zero}
	for _, inv := range f.invoices {
		summary.TotalInvoices++
		summary.TotalSales = summary.TotalSales.Add(inv.GrandTotal)
		summary.TotalGST = summary.TotalGST.Add(inv.TotalGST)
	}
	return summary, nil
}

func (f *fakeInvoiceRepo) GetTopProducts(ctx context.Context, limit int, start, end *time.Time) ([]*repositories.ProductSales, error) {
	return nil, nil
}

func (f *fakeInvoiceRepo) GetTopCustomers(ctx context.Context, limit int, start, end *time.Time) ([]*repositories.CustomerSales, error) {
	return nil, nil
}

type fakeSettingsRepo struct {
	settings *models.ShopSettings
}

func (f *fakeSettingsRepo) Get(ctx context.Context) (*models.ShopSettings, error) {
	if f.settings == nil {
		f.settings = models.DefaultShopSettings()
	}
	return f.settings, nil
}

func (f *fakeSettingsRepo) Update(ctx context.Context, s *models.ShopSettings) error {
	f.settings = s
	return nil
}

func newTestInvoiceService() (InvoiceService, *fakeProductRepo, *fakeCustomerRepo, *fakeSettingsRepo) {
	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)

	customers := newFakeCustomerRepo()
	products := newFakeProductRepo()
	settings := &fakeSettingsRepo{}
	invoices := newFakeInvoiceRepo(products)

	svc := NewInvoiceService(invoices, customers, products, settings, logger)
	return svc, products, customers, settings
}

func TestInvoiceService_CreateWalkIn(t *testing.T) {
	svc, _, _, _ := newTestInvoiceService()
	ctx := context.Background()

	price := decimal.RequireFromString("100.00")
	gst := decimal.NewFromInt(18)
	invoice, err := svc.CreateInvoice(ctx, &CreateInvoiceRequest{
		LineItems: []CreateLineItemRequest{{
			ProductName:     "Masala Chai",
			Quantity:        3,
			UnitPrice:       &price,
			DiscountPercent: decimal.NewFromInt(10),
			GSTPercent:      &gst,
		}},
	})
	if err != nil {
		t.Fatalf("CreateInvoice() failed: %v", err)
	}

	if invoice.InvoiceNumber != "INV000001" {
		t.Errorf("InvoiceNumber = %s, want INV000001", invoice.InvoiceNumber)
	}
	if !invoice.IsWalkIn() {
		t.Error("invoice should be walk-in")
	}
	if !invoice.GrandTotal.Equal(decimal.RequireFromString("318.60")) {
		t.Errorf("GrandTotal = %s, want 318.60", invoice.GrandTotal)
	}
	if !invoice.TotalSGST.Equal(decimal.RequireFromString("24.30")) {
		t.Errorf("TotalSGST = %s, want 24.30", invoice.TotalSGST)
	}
}

func TestInvoiceService_SequentialNumbers(t *testing.T) {
	svc, _, _, _ := newTestInvoiceService()
	ctx := context.Background()

	price := decimal.NewFromInt(50)
	gst := decimal.NewFromInt(5)
	req := &CreateInvoiceRequest{
		LineItems: []CreateLineItemRequest{{
			ProductName: "Biscuits",
			Quantity:    1,
			UnitPrice:   &price,
			GSTPercent:  &gst,
		}},
	}

	want := []string{"INV000001", "INV000002", "INV000003"}
	for _, expected := range want {
		invoice, err := svc.CreateInvoice(ctx, req)
		if err != nil {
			t.Fatalf("CreateInvoice() failed: %v", err)
		}
		if invoice.InvoiceNumber != expected {
			t.Errorf("InvoiceNumber = %s, want %s", invoice.InvoiceNumber, expected)
		}
	}
}

func TestInvoiceService_CreateFromCatalog(t *testing.T) {
	svc, products, _, _ := newTestInvoiceService()
	ctx := context.Background()

	product := models.NewProduct("Filter Coffee", decimal.NewFromInt(30), decimal.NewFromInt(5))
	product.StockQuantity = 10
	products.products[product.ID] = product

	invoice, err := svc.CreateInvoice(ctx, &CreateInvoiceRequest{
		LineItems: []CreateLineItemRequest{{
			ProductID: &product.ID,
			Quantity:  4,
		}},
	})
	if err != nil {
		t.Fatalf("CreateInvoice() failed: %v", err)
	}

	// Price, name and rate come from the catalog.
	item := invoice.LineItems[0]
	if item.ProductName != "Filter Coffee" {
		t.Errorf("ProductName = %s, want Filter Coffee", item.ProductName)
	}
	if !item.UnitPrice.Equal(decimal.NewFromInt(30)) {
		t.Errorf("UnitPrice = %s, want 30", item.UnitPrice)
	}
	if !item.GSTPercent.Equal(decimal.NewFromInt(5)) {
		t.Errorf("GSTPercent = %s, want 5", item.GSTPercent)
	}
	if product.StockQuantity != 6 {
		t.Errorf("StockQuantity = %d, want 6", product.StockQuantity)
	}
}

func TestInvoiceService_InsufficientStock(t *testing.T) {
	svc, products, _, _ := newTestInvoiceService()
	ctx := context.Background()

	product := models.NewProduct("Filter Coffee", decimal.NewFromInt(30), decimal.NewFromInt(5))
	product.StockQuantity = 2
	products.products[product.ID] = product

	_, err := svc.CreateInvoice(ctx, &CreateInvoiceRequest{
		LineItems: []CreateLineItemRequest{{
			ProductID: &product.ID,
			Quantity:  5,
		}},
	})
	if err == nil || !strings.Contains(err.Error(), "insufficient stock") {
		t.Errorf("CreateInvoice() error = %v, want insufficient stock", err)
	}
}

func TestInvoiceService_DefaultGSTFromSettings(t *testing.T) {
	svc, _, _, settings := newTestInvoiceService()
	ctx := context.Background()

	s, _ := settings.Get(ctx)
	s.DefaultGST = decimal.NewFromInt(12)

	price := decimal.NewFromInt(100)
	invoice, err := svc.CreateInvoice(ctx, &CreateInvoiceRequest{
		LineItems: []CreateLineItemRequest{{
			ProductName: "Custom Item",
			Quantity:    1,
			UnitPrice:   &price,
		}},
	})
	if err != nil {
		t.Fatalf("CreateInvoice() failed: %v", err)
	}

	if !invoice.LineItems[0].GSTPercent.Equal(decimal.NewFromInt(12)) {
		t.Errorf("GSTPercent = %s, want shop default 12", invoice.LineItems[0].GSTPercent)
	}
}

func TestInvoiceService_UnknownCustomer(t *testing.T) {
	svc, _, _, _ := newTestInvoiceService()
	ctx := context.Background()

	missing := "0b3906ad-cafe-4f00-9a54-5f7b4b8e2f01"
	price := decimal.NewFromInt(10)
	gst := decimal.NewFromInt(5)
	_, err := svc.CreateInvoice(ctx, &CreateInvoiceRequest{
		CustomerID: &missing,
		LineItems: []CreateLineItemRequest{{
			ProductName: "Item",
			Quantity:    1,
			UnitPrice:   &price,
			GSTPercent:  &gst,
		}},
	})
	if err == nil {
		t.Error("CreateInvoice() with unknown customer succeeded, want error")
	}
}

func TestInvoiceService_PreviewNextNumber(t *testing.T) {
	svc, _, _, _ := newTestInvoiceService()
	ctx := context.Background()

	number, err := svc.PreviewNextNumber(ctx)
	if err != nil {
		t.Fatalf("PreviewNextNumber() failed: %v", err)
	}
	if number != "INV000001" {
		t.Errorf("PreviewNextNumber() = %s, want INV000001", number)
	}

	// Preview does not reserve.
	number, err = svc.PreviewNextNumber(ctx)
	if err != nil {
		t.Fatalf("PreviewNextNumber() failed: %v", err)
	}
	if number != "INV000001" {
		t.Errorf("second PreviewNextNumber() = %s, want INV000001", number)
	}
}

func TestInvoiceService_UpdatePaymentValidation(t *testing.T) {
	svc, _, _, _ := newTestInvoiceService()
	ctx := context.Background()

	price := decimal.NewFromInt(10)
	gst := decimal.NewFromInt(5)
	invoice, err := svc.CreateInvoice(ctx, &CreateInvoiceRequest{
		LineItems: []CreateLineItemRequest{{
			ProductName: "Item",
			Quantity:    1,
			UnitPrice:   &price,
			GSTPercent:  &gst,
		}},
	})
	if err != nil {
		t.Fatalf("CreateInvoice() failed: %v", err)
	}

	updated, err := svc.UpdatePayment(ctx, invoice.ID, &UpdatePaymentRequest{
		PaymentMethod: models.PaymentMethodUPI,
		PaymentStatus: models.PaymentStatusPaid,
	})
	if err != nil {
		t.Fatalf("UpdatePayment() failed: %v", err)
	}
	if updated.PaymentMethod != models.PaymentMethodUPI {
		t.Errorf("PaymentMethod = %s, want upi", updated.PaymentMethod)
	}

	if _, err := svc.UpdatePayment(ctx, invoice.ID, &UpdatePaymentRequest{
		PaymentMethod: "cheque",
		PaymentStatus: models.PaymentStatusPaid,
	}); err == nil {
		t.Error("UpdatePayment() with unknown method succeeded, want error")
	}
}
