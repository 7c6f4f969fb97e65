package sqlite

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"gst-invoice-api/internal/models"
	"gst-invoice-api/internal/repositories"
)

func TestProductRepository_CreateAndGet(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewProductRepository(db, testLogger())
	ctx := context.Background()

	product := models.NewProduct("Masala Chai", decimal.NewFromInt(20), decimal.NewFromInt(5))
	product.Category = stringPtr("beverages")
	product.StockQuantity = 50

	if err := repo.Create(ctx, product); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	retrieved, err := repo.GetByID(ctx, product.ID)
	if err != nil {
		t.Fatalf("GetByID() failed: %v", err)
	}

	if retrieved.Name != "Masala Chai" {
		t.Errorf("Name = %s, want Masala Chai", retrieved.Name)
	}
	if !retrieved.Price.Equal(decimal.NewFromInt(20)) {
		t.Errorf("Price = %s, want 20", retrieved.Price)
	}
	if !retrieved.GSTPercent.Equal(decimal.NewFromInt(5)) {
		t.Errorf("GSTPercent = %s, want 5", retrieved.GSTPercent)
	}
	if retrieved.StockQuantity != 50 {
		t.Errorf("StockQuantity = %d, want 50", retrieved.StockQuantity)
	}
}

func TestProductRepository_Search(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewProductRepository(db, testLogger())
	ctx := context.Background()

	chai := models.NewProduct("Masala Chai", decimal.NewFromInt(20), decimal.NewFromInt(5))
	chai.Category = stringPtr("beverages")
	coffee := models.NewProduct("Filter Coffee", decimal.NewFromInt(30), decimal.NewFromInt(5))
	coffee.Category = stringPtr("beverages")
	soap := models.NewProduct("Bath Soap", decimal.NewFromInt(45), decimal.NewFromInt(18))
	soap.Category = stringPtr("toiletries")

	for _, p := range []*models.Product{chai, coffee, soap} {
		if err := repo.Create(ctx, p); err != nil {
			t.Fatalf("Create(%s) failed: %v", p.Name, err)
		}
	}

	results, err := repo.Search(ctx, "cha", "", 10)
	if err != nil {
		t.Fatalf("Search() failed: %v", err)
	}
	if len(results) != 1 || results[0].Name != "Masala Chai" {
		t.Errorf("Search('cha') = %d results, want Masala Chai only", len(results))
	}

	beverages, err := repo.Search(ctx, "", "beverages", 10)
	if err != nil {
		t.Fatalf("Search(category) failed: %v", err)
	}
	if len(beverages) != 2 {
		t.Errorf("Search(category=beverages) = %d results, want 2", len(beverages))
	}
}

func TestProductRepository_AdjustStock(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewProductRepository(db, testLogger())
	ctx := context.Background()

	product := models.NewProduct("Notebook", decimal.NewFromInt(60), decimal.NewFromInt(12))
	product.StockQuantity = 10
	if err := repo.Create(ctx, product); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	if err := repo.AdjustStock(ctx, product.ID, -3, models.StockTransactionSale, "ref-1", ""); err != nil {
		t.Fatalf("AdjustStock() failed: %v", err)
	}

	retrieved, err := repo.GetByID(ctx, product.ID)
	if err != nil {
		t.Fatalf("GetByID() failed: %v", err)
	}
	if retrieved.StockQuantity != 7 {
		t.Errorf("StockQuantity = %d, want 7", retrieved.StockQuantity)
	}

	// Movement recorded alongside the quantity change.
	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM stock_transactions WHERE product_id = ?", product.ID).Scan(&count)
	if err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	if count != 1 {
		t.Errorf("stock_transactions count = %d, want 1", count)
	}
}

func TestProductRepository_AdjustStock_NotFound(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewProductRepository(db, testLogger())

	err := repo.AdjustStock(context.Background(), "missing-id", 5, models.StockTransactionPurchase, "", "")
	if !repositories.IsNotFound(err) {
		t.Errorf("AdjustStock() error = %v, want not found", err)
	}
}

func TestProductRepository_GetLowStock(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewProductRepository(db, testLogger())
	ctx := context.Background()

	low := models.NewProduct("Pen", decimal.NewFromInt(10), decimal.NewFromInt(12))
	low.StockQuantity = 2
	low.MinStockAlert = 5
	ok := models.NewProduct("Pencil", decimal.NewFromInt(5), decimal.NewFromInt(12))
	ok.StockQuantity = 100
	ok.MinStockAlert = 5

	for _, p := range []*models.Product{low, ok} {
		if err := repo.Create(ctx, p); err != nil {
			t.Fatalf("Create(%s) failed: %v", p.Name, err)
		}
	}

	results, err := repo.GetLowStock(ctx)
	if err != nil {
		t.Fatalf("GetLowStock() failed: %v", err)
	}
	if len(results) != 1 || results[0].Name != "Pen" {
		t.Errorf("GetLowStock() = %d results, want Pen only", len(results))
	}
}
