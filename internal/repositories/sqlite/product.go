package sqlite

import (
	"context"
	"database/sql"

	"github.com/sirupsen/logrus"

	"gst-invoice-api/internal/models"
	"gst-invoice-api/internal/repositories"
)

// ProductRepository implements repositories.ProductRepository for SQLite.
type ProductRepository struct {
	baseRepository
}

// NewProductRepository creates a new SQLite product repository.
func NewProductRepository(db *sql.DB, logger *logrus.Logger) repositories.ProductRepository {
	return &ProductRepository{
		baseRepository: newBaseRepository(db, "products", logger),
	}
}

// Create creates a new product.
func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	if err := product.Validate(); err != nil {
		return repositories.ValidationError("product", product.ID, err)
	}

	query := `
		INSERT INTO products (id, name, description, price, gst_percent, barcode,
			category, stock_quantity, min_stock_alert, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.executeExec(ctx, "create", query,
		product.ID,
		product.Name,
		product.Description,
		product.Price,
		product.GSTPercent,
		product.Barcode,
		product.Category,
		product.StockQuantity,
		product.MinStockAlert,
		product.CreatedAt,
		product.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return repositories.DuplicateError("product", "id", product.ID)
		}
		return err
	}

	return nil
}

// GetByID retrieves a product by ID.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	if err := r.validateID(id); err != nil {
		return nil, err
	}

	row := r.db.QueryRowContext(ctx, selectProduct+" WHERE id = ?", id)
	product, err := scanProduct(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, repositories.NotFoundError("product", id)
		}
		return nil, repositories.NewRepositoryError("get", "products", id, err)
	}

	return product, nil
}

// Update updates an existing product.
func (r *ProductRepository) Update(ctx context.Context, product *models.Product) error {
	if err := product.Validate(); err != nil {
		return repositories.ValidationError("product", product.ID, err)
	}

	product.UpdateTimestamp()

	query := `
		UPDATE products
		SET name = ?, description = ?, price = ?, gst_percent = ?, barcode = ?,
			category = ?, stock_quantity = ?, min_stock_alert = ?, updated_at = ?
		WHERE id = ?`

	result, err := r.executeExec(ctx, "update", query,
		product.Name,
		product.Description,
		product.Price,
		product.GSTPercent,
		product.Barcode,
		product.Category,
		product.StockQuantity,
		product.MinStockAlert,
		product.UpdatedAt,
		product.ID,
	)
	if err != nil {
		return err
	}

	return r.checkRowsAffected(result, "update", product.ID)
}

// Delete deletes a product by ID.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	if err := r.validateID(id); err != nil {
		return err
	}

	result, err := r.executeExec(ctx, "delete", "DELETE FROM products WHERE id = ?", id)
	if err != nil {
		return err
	}

	return r.checkRowsAffected(result, "delete", id)
}

// Search matches name or barcode, optionally filtered by category.
func (r *ProductRepository) Search(ctx context.Context, query, category string, limit int) ([]*models.Product, error) {
	if limit <= 0 {
		limit = 100
	}

	sqlQuery := selectProduct
	var args []interface{}
	var conditions []string

	if query != "" {
		pattern := "%" + query + "%"
		conditions = append(conditions, "(name LIKE ? OR barcode LIKE ?)")
		args = append(args, pattern, pattern)
	}
	if category != "" {
		conditions = append(conditions, "category = ?")
		args = append(args, category)
	}

	for i, cond := range conditions {
		if i == 0 {
			sqlQuery += " WHERE " + cond
		} else {
			sqlQuery += " AND " + cond
		}
	}
	sqlQuery += " ORDER BY name LIMIT ?"
	args = append(args, limit)

	rows, err := r.executeQuery(ctx, "search", sqlQuery, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectProducts(rows)
}

// GetLowStock retrieves products at or below their alert level.
func (r *ProductRepository) GetLowStock(ctx context.Context) ([]*models.Product, error) {
	rows, err := r.executeQuery(ctx, "low_stock",
		selectProduct+" WHERE stock_quantity <= min_stock_alert ORDER BY stock_quantity ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectProducts(rows)
}

// AdjustStock applies a stock delta and records the movement in the same
// transaction.
func (r *ProductRepository) AdjustStock(ctx context.Context, productID string, delta int, txType models.StockTransactionType, referenceID, notes string) error {
	if err := r.validateID(productID); err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return repositories.TransactionError("begin", err)
	}
	defer tx.Rollback()

	if err := adjustStockTx(ctx, tx, productID, delta, txType, referenceID, notes); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return repositories.TransactionError("commit", err)
	}

	return nil
}

// adjustStockTx performs the stock update inside an existing transaction
// so invoice creation can combine it with its own writes.
func adjustStockTx(ctx context.Context, tx *sql.Tx, productID string, delta int, txType models.StockTransactionType, referenceID, notes string) error {
	result, err := tx.ExecContext(ctx, `
		UPDATE products SET stock_quantity = stock_quantity + ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`, delta, productID)
	if err != nil {
		return repositories.NewRepositoryError("adjust_stock", "products", productID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return repositories.NewRepositoryError("adjust_stock", "products", productID, err)
	}
	if rowsAffected == 0 {
		return repositories.NotFoundError("product", productID)
	}

	stockTx := models.NewStockTransaction(productID, txType, delta)
	var refID, noteVal interface{}
	if referenceID != "" {
		refID = referenceID
	}
	if notes != "" {
		noteVal = notes
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO stock_transactions (id, product_id, transaction_type, quantity, reference_id, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		stockTx.ID, stockTx.ProductID, stockTx.Type, stockTx.Quantity, refID, noteVal, stockTx.CreatedAt)
	if err != nil {
		return repositories.NewRepositoryError("adjust_stock", "stock_transactions", productID, err)
	}

	return nil
}

const selectProduct = `
	SELECT id, name, description, price, gst_percent, barcode, category,
		   stock_quantity, min_stock_alert, created_at, updated_at
	FROM products`

func scanProduct(s scanner) (*models.Product, error) {
	product := &models.Product{}
	err := s.Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.Price,
		&product.GSTPercent,
		&product.Barcode,
		&product.Category,
		&product.StockQuantity,
		&product.MinStockAlert,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return product, nil
}

func collectProducts(rows *sql.Rows) ([]*models.Product, error) {
	var products []*models.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, repositories.NewRepositoryError("scan", "products", "", err)
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, repositories.NewRepositoryError("scan", "products", "", err)
	}

	return products, nil
}
