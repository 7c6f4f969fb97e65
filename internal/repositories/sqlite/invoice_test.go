package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"gst-invoice-api/internal/models"
	"gst-invoice-api/internal/numbering"
	"gst-invoice-api/internal/repositories"
)

func buildInvoice(t *testing.T, number string, customerID, productID *string) *models.Invoice {
	t.Helper()

	invoice := models.NewInvoice(customerID)
	invoice.InvoiceNumber = number

	item, err := models.NewLineItem(invoice.ID, "Masala Chai", 3,
		decimal.RequireFromString("100.00"),
		decimal.RequireFromString("10"),
		decimal.RequireFromString("18"), 0)
	if err != nil {
		t.Fatalf("NewLineItem() failed: %v", err)
	}
	item.ProductID = productID
	invoice.LineItems = []models.LineItem{*item}
	invoice.CalculateTotals()

	return invoice
}

func TestInvoiceRepository_CreateAndGet(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	logger := testLogger()
	repo := NewInvoiceRepository(db, logger)
	productRepo := NewProductRepository(db, logger)
	ctx := context.Background()

	product := models.NewProduct("Masala Chai", decimal.RequireFromString("100.00"), decimal.NewFromInt(18))
	product.StockQuantity = 10
	if err := productRepo.Create(ctx, product); err != nil {
		t.Fatalf("Create(product) failed: %v", err)
	}

	invoice := buildInvoice(t, "INV000001", nil, &product.ID)
	if err := repo.Create(ctx, invoice); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	retrieved, err := repo.GetByID(ctx, invoice.ID)
	if err != nil {
		t.Fatalf("GetByID() failed: %v", err)
	}

	if retrieved.InvoiceNumber != "INV000001" {
		t.Errorf("InvoiceNumber = %s, want INV000001", retrieved.InvoiceNumber)
	}
	if !retrieved.GrandTotal.Equal(decimal.RequireFromString("318.60")) {
		t.Errorf("GrandTotal = %s, want 318.60", retrieved.GrandTotal)
	}
	if len(retrieved.LineItems) != 1 {
		t.Fatalf("LineItems = %d, want 1", len(retrieved.LineItems))
	}
	if !retrieved.LineItems[0].SGSTAmount.Equal(decimal.RequireFromString("24.30")) {
		t.Errorf("SGSTAmount = %s, want 24.30", retrieved.LineItems[0].SGSTAmount)
	}

	// Sale decrements catalog stock.
	p, err := productRepo.GetByID(ctx, product.ID)
	if err != nil {
		t.Fatalf("GetByID(product) failed: %v", err)
	}
	if p.StockQuantity != 7 {
		t.Errorf("StockQuantity = %d, want 7", p.StockQuantity)
	}
}

func TestInvoiceRepository_GetByNumber(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewInvoiceRepository(db, testLogger())
	ctx := context.Background()

	invoice := buildInvoice(t, "INV000042", nil, nil)
	if err := repo.Create(ctx, invoice); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	retrieved, err := repo.GetByNumber(ctx, "INV000042")
	if err != nil {
		t.Fatalf("GetByNumber() failed: %v", err)
	}
	if retrieved.ID != invoice.ID {
		t.Errorf("ID = %s, want %s", retrieved.ID, invoice.ID)
	}

	if _, err := repo.GetByNumber(ctx, "INV999999"); !repositories.IsNotFound(err) {
		t.Errorf("GetByNumber(missing) error = %v, want not found", err)
	}
}

func TestInvoiceRepository_DuplicateNumber(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewInvoiceRepository(db, testLogger())
	ctx := context.Background()

	first := buildInvoice(t, "INV000007", nil, nil)
	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	second := buildInvoice(t, "INV000007", nil, nil)
	err := repo.Create(ctx, second)
	if !repositories.IsDuplicate(err) {
		t.Errorf("Create(duplicate number) error = %v, want duplicate", err)
	}
}

func TestInvoiceRepository_DeleteRestoresStock(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	logger := testLogger()
	repo := NewInvoiceRepository(db, logger)
	productRepo := NewProductRepository(db, logger)
	ctx := context.Background()

	product := models.NewProduct("Masala Chai", decimal.RequireFromString("100.00"), decimal.NewFromInt(18))
	product.StockQuantity = 10
	if err := productRepo.Create(ctx, product); err != nil {
		t.Fatalf("Create(product) failed: %v", err)
	}

	invoice := buildInvoice(t, "INV000001", nil, &product.ID)
	if err := repo.Create(ctx, invoice); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	if err := repo.Delete(ctx, invoice.ID); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}

	if _, err := repo.GetByID(ctx, invoice.ID); !repositories.IsNotFound(err) {
		t.Errorf("GetByID() after delete error = %v, want not found", err)
	}

	p, err := productRepo.GetByID(ctx, product.ID)
	if err != nil {
		t.Fatalf("GetByID(product) failed: %v", err)
	}
	if p.StockQuantity != 10 {
		t.Errorf("StockQuantity after delete = %d, want 10", p.StockQuantity)
	}
}

func TestInvoiceRepository_ReserveConflict(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewInvoiceRepository(db, testLogger())
	ctx := context.Background()

	if err := repo.Reserve(ctx, "INV000001"); err != nil {
		t.Fatalf("Reserve() failed: %v", err)
	}

	err := repo.Reserve(ctx, "INV000001")
	if !errors.Is(err, numbering.ErrSequenceConflict) {
		t.Errorf("Reserve(duplicate) error = %v, want ErrSequenceConflict", err)
	}
}

func TestInvoiceRepository_NumberSurvivesDeletion(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewInvoiceRepository(db, testLogger())
	ctx := context.Background()

	if err := repo.Reserve(ctx, "INV000001"); err != nil {
		t.Fatalf("Reserve() failed: %v", err)
	}

	invoice := buildInvoice(t, "INV000001", nil, nil)
	if err := repo.Create(ctx, invoice); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	if err := repo.Delete(ctx, invoice.ID); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}

	// The reservation outlives the invoice.
	last, err := repo.LastNumber(ctx, "INV")
	if err != nil {
		t.Fatalf("LastNumber() failed: %v", err)
	}
	if last != "INV000001" {
		t.Errorf("LastNumber() after delete = %s, want INV000001", last)
	}

	if err := repo.Reserve(ctx, "INV000001"); !errors.Is(err, numbering.ErrSequenceConflict) {
		t.Errorf("Reserve(deleted number) error = %v, want ErrSequenceConflict", err)
	}
}

func TestInvoiceRepository_LastNumberEmpty(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewInvoiceRepository(db, testLogger())

	last, err := repo.LastNumber(context.Background(), "INV")
	if err != nil {
		t.Fatalf("LastNumber() failed: %v", err)
	}
	if last != "" {
		t.Errorf("LastNumber() on empty table = %q, want empty", last)
	}
}

func TestInvoiceRepository_LastNumberLiteralPrefix(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewInvoiceRepository(db, testLogger())
	ctx := context.Background()

	// An underscore in the prefix must match literally, not as a
	// single-character wildcard that would swallow INV numbers.
	if err := repo.Reserve(ctx, "IN_000001"); err != nil {
		t.Fatalf("Reserve() failed: %v", err)
	}
	if err := repo.Reserve(ctx, "INV000005"); err != nil {
		t.Fatalf("Reserve() failed: %v", err)
	}

	last, err := repo.LastNumber(ctx, "IN_")
	if err != nil {
		t.Fatalf("LastNumber() failed: %v", err)
	}
	if last != "IN_000001" {
		t.Errorf("LastNumber(IN_) = %q, want IN_000001", last)
	}

	last, err = repo.LastNumber(ctx, "SGS")
	if err != nil {
		t.Fatalf("LastNumber() failed: %v", err)
	}
	if last != "" {
		t.Errorf("LastNumber(SGS) = %q, want empty", last)
	}
}

func TestInvoiceSchema_PaymentStatusDefault(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	// The schema default must agree with models.NewInvoice.
	_, err := db.Exec(`
		INSERT INTO invoices (id, invoice_number, subtotal, total_discount,
			total_gst, total_sgst, total_cgst, grand_total)
		VALUES ('schema-default-check', 'INV999999', '0', '0', '0', '0', '0', '0')`)
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	var status string
	if err := db.QueryRow(
		"SELECT payment_status FROM invoices WHERE id = 'schema-default-check'").Scan(&status); err != nil {
		t.Fatalf("select failed: %v", err)
	}
	if status != string(models.NewInvoice(nil).PaymentStatus) {
		t.Errorf("schema payment_status default = %q, model default = %q",
			status, models.NewInvoice(nil).PaymentStatus)
	}
}

func TestInvoiceRepository_List(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewInvoiceRepository(db, testLogger())
	ctx := context.Background()

	for _, number := range []string{"INV000001", "INV000002", "INV000003"} {
		if err := repo.Create(ctx, buildInvoice(t, number, nil, nil)); err != nil {
			t.Fatalf("Create(%s) failed: %v", number, err)
		}
	}

	invoices, err := repo.List(ctx, "", 2)
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(invoices) != 2 {
		t.Errorf("List(limit=2) = %d invoices, want 2", len(invoices))
	}
}

func TestInvoiceRepository_UpdatePayment(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewInvoiceRepository(db, testLogger())
	ctx := context.Background()

	invoice := buildInvoice(t, "INV000001", nil, nil)
	if err := repo.Create(ctx, invoice); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	if err := repo.UpdatePayment(ctx, invoice.ID, models.PaymentMethodUPI, models.PaymentStatusPaid); err != nil {
		t.Fatalf("UpdatePayment() failed: %v", err)
	}

	retrieved, err := repo.GetByID(ctx, invoice.ID)
	if err != nil {
		t.Fatalf("GetByID() failed: %v", err)
	}
	if retrieved.PaymentMethod != models.PaymentMethodUPI {
		t.Errorf("PaymentMethod = %s, want upi", retrieved.PaymentMethod)
	}
	if retrieved.PaymentStatus != models.PaymentStatusPaid {
		t.Errorf("PaymentStatus = %s, want paid", retrieved.PaymentStatus)
	}
}

func TestInvoiceRepository_SalesSummary(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewInvoiceRepository(db, testLogger())
	ctx := context.Background()

	for _, number := range []string{"INV000001", "INV000002"} {
		if err := repo.Create(ctx, buildInvoice(t, number, nil, nil)); err != nil {
			t.Fatalf("Create(%s) failed: %v", number, err)
		}
	}

	summary, err := repo.GetSalesSummary(ctx, nil, nil)
	if err != nil {
		t.Fatalf("GetSalesSummary() failed: %v", err)
	}
	if summary.TotalInvoices != 2 {
		t.Errorf("TotalInvoices = %d, want 2", summary.TotalInvoices)
	}
	if !summary.TotalSales.Equal(decimal.RequireFromString("637.20")) {
		t.Errorf("TotalSales = %s, want 637.20", summary.TotalSales)
	}
	if !summary.TotalGST.Equal(decimal.RequireFromString("97.20")) {
		t.Errorf("TotalGST = %s, want 97.20", summary.TotalGST)
	}
}

func TestInvoiceRepository_TopProducts(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewInvoiceRepository(db, testLogger())
	ctx := context.Background()

	if err := repo.Create(ctx, buildInvoice(t, "INV000001", nil, nil)); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	top, err := repo.GetTopProducts(ctx, 5, nil, nil)
	if err != nil {
		t.Fatalf("GetTopProducts() failed: %v", err)
	}
	if len(top) != 1 {
		t.Fatalf("GetTopProducts() = %d rows, want 1", len(top))
	}
	if top[0].ProductName != "Masala Chai" || top[0].QuantitySold != 3 {
		t.Errorf("top product = %s x%d, want Masala Chai x3", top[0].ProductName, top[0].QuantitySold)
	}
}

func TestInvoiceRepository_TopCustomers(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	logger := testLogger()
	repo := NewInvoiceRepository(db, logger)
	customerRepo := NewCustomerRepository(db, logger)
	ctx := context.Background()

	customer := models.NewCustomer("Ravi Kumar")
	if err := customerRepo.Create(ctx, customer); err != nil {
		t.Fatalf("Create(customer) failed: %v", err)
	}

	if err := repo.Create(ctx, buildInvoice(t, "INV000001", &customer.ID, nil)); err != nil {
		t.Fatalf("Create(invoice) failed: %v", err)
	}
	// Walk-in invoices never appear in customer rankings.
	if err := repo.Create(ctx, buildInvoice(t, "INV000002", nil, nil)); err != nil {
		t.Fatalf("Create(walk-in) failed: %v", err)
	}

	top, err := repo.GetTopCustomers(ctx, 5, nil, nil)
	if err != nil {
		t.Fatalf("GetTopCustomers() failed: %v", err)
	}
	if len(top) != 1 {
		t.Fatalf("GetTopCustomers() = %d rows, want 1", len(top))
	}
	if top[0].CustomerName != "Ravi Kumar" || top[0].InvoiceCount != 1 {
		t.Errorf("top customer = %s (%d invoices), want Ravi Kumar (1)", top[0].CustomerName, top[0].InvoiceCount)
	}
	if !top[0].TotalSpent.Equal(decimal.RequireFromString("318.60")) {
		t.Errorf("TotalSpent = %s, want 318.60", top[0].TotalSpent)
	}
}
