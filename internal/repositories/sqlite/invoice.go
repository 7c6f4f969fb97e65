package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"gst-invoice-api/internal/models"
	"gst-invoice-api/internal/numbering"
	"gst-invoice-api/internal/repositories"
)

// InvoiceRepository implements repositories.InvoiceRepository for SQLite.
//
// Issued invoice numbers live in their own invoice_numbers table with a
// UNIQUE constraint. Deleting an invoice leaves its reservation row in
// place, so a number can never be issued twice.
type InvoiceRepository struct {
	baseRepository
}

// NewInvoiceRepository creates a new SQLite invoice repository.
func NewInvoiceRepository(db *sql.DB, logger *logrus.Logger) repositories.InvoiceRepository {
	return &InvoiceRepository{
		baseRepository: newBaseRepository(db, "invoices", logger),
	}
}

// Create persists the invoice, its line items, and the stock decrement
// for catalog-backed items in one transaction.
func (r *InvoiceRepository) Create(ctx context.Context, invoice *models.Invoice) error {
	if err := invoice.Validate(); err != nil {
		return repositories.ValidationError("invoice", invoice.ID, err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return repositories.TransactionError("begin", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO invoices (id, invoice_number, customer_id, subtotal, total_discount,
			total_gst, total_sgst, total_cgst, grand_total, payment_method, payment_status,
			notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		invoice.ID,
		invoice.InvoiceNumber,
		invoice.CustomerID,
		invoice.Subtotal,
		invoice.TotalDiscount,
		invoice.TotalGST,
		invoice.TotalSGST,
		invoice.TotalCGST,
		invoice.GrandTotal,
		invoice.PaymentMethod,
		invoice.PaymentStatus,
		invoice.Notes,
		invoice.CreatedAt,
		invoice.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repositories.DuplicateError("invoice", "invoice_number", invoice.InvoiceNumber)
		}
		return repositories.NewRepositoryError("create", "invoices", invoice.ID, err)
	}

	for _, item := range invoice.LineItems {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO invoice_items (id, invoice_id, product_id, product_name, quantity,
				unit_price, discount_percent, gst_percent, base_amount, discount_amount,
				taxable_amount, gst_amount, sgst_amount, cgst_amount, line_total, sort_order)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			item.ID,
			item.InvoiceID,
			item.ProductID,
			item.ProductName,
			item.Quantity,
			item.UnitPrice,
			item.DiscountPercent,
			item.GSTPercent,
			item.BaseAmount,
			item.DiscountAmount,
			item.TaxableAmount,
			item.GSTAmount,
			item.SGSTAmount,
			item.CGSTAmount,
			item.LineTotal,
			item.SortOrder,
		)
		if err != nil {
			return repositories.NewRepositoryError("create", "invoice_items", item.ID, err)
		}

		if item.ProductID != nil {
			note := fmt.Sprintf("Invoice %s", invoice.InvoiceNumber)
			if err := adjustStockTx(ctx, tx, *item.ProductID, -item.Quantity, models.StockTransactionSale, invoice.ID, note); err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return repositories.TransactionError("commit", err)
	}

	return nil
}

// GetByID retrieves an invoice with its line items.
func (r *InvoiceRepository) GetByID(ctx context.Context, id string) (*models.Invoice, error) {
	if err := r.validateID(id); err != nil {
		return nil, err
	}
	return r.getOne(ctx, selectInvoice+" WHERE id = ?", id)
}

// GetByNumber retrieves an invoice by its invoice number.
func (r *InvoiceRepository) GetByNumber(ctx context.Context, number string) (*models.Invoice, error) {
	if err := r.validateID(number); err != nil {
		return nil, err
	}
	return r.getOne(ctx, selectInvoice+" WHERE invoice_number = ?", number)
}

func (r *InvoiceRepository) getOne(ctx context.Context, query, key string) (*models.Invoice, error) {
	row := r.db.QueryRowContext(ctx, query, key)
	invoice, err := scanInvoice(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, repositories.NotFoundError("invoice", key)
		}
		return nil, repositories.NewRepositoryError("get", "invoices", key, err)
	}

	items, err := r.getLineItems(ctx, invoice.ID)
	if err != nil {
		return nil, err
	}
	invoice.LineItems = items

	return invoice, nil
}

func (r *InvoiceRepository) getLineItems(ctx context.Context, invoiceID string) ([]models.LineItem, error) {
	rows, err := r.executeQuery(ctx, "get_items", `
		SELECT id, invoice_id, product_id, product_name, quantity, unit_price,
			   discount_percent, gst_percent, base_amount, discount_amount,
			   taxable_amount, gst_amount, sgst_amount, cgst_amount, line_total, sort_order
		FROM invoice_items WHERE invoice_id = ? ORDER BY sort_order`, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.LineItem
	for rows.Next() {
		item := models.LineItem{}
		err := rows.Scan(
			&item.ID,
			&item.InvoiceID,
			&item.ProductID,
			&item.ProductName,
			&item.Quantity,
			&item.UnitPrice,
			&item.DiscountPercent,
			&item.GSTPercent,
			&item.BaseAmount,
			&item.DiscountAmount,
			&item.TaxableAmount,
			&item.GSTAmount,
			&item.SGSTAmount,
			&item.CGSTAmount,
			&item.LineTotal,
			&item.SortOrder,
		)
		if err != nil {
			return nil, repositories.NewRepositoryError("scan", "invoice_items", invoiceID, err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, repositories.NewRepositoryError("scan", "invoice_items", invoiceID, err)
	}

	return items, nil
}

// List retrieves recent invoices without line items, newest first.
func (r *InvoiceRepository) List(ctx context.Context, customerID string, limit int) ([]*models.Invoice, error) {
	if limit <= 0 {
		limit = 100
	}

	query := selectInvoice
	var args []interface{}
	if customerID != "" {
		query += " WHERE customer_id = ?"
		args = append(args, customerID)
	}
	query += " ORDER BY created_at DESC LIMIT ?"
	args = append(args, limit)

	rows, err := r.executeQuery(ctx, "list", query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []*models.Invoice
	for rows.Next() {
		invoice, err := scanInvoice(rows)
		if err != nil {
			return nil, repositories.NewRepositoryError("scan", "invoices", "", err)
		}
		invoices = append(invoices, invoice)
	}

	if err := rows.Err(); err != nil {
		return nil, repositories.NewRepositoryError("scan", "invoices", "", err)
	}

	return invoices, nil
}

// UpdatePayment changes the payment method and status of an invoice.
func (r *InvoiceRepository) UpdatePayment(ctx context.Context, id string, method models.PaymentMethod, status models.PaymentStatus) error {
	if err := r.validateID(id); err != nil {
		return err
	}

	result, err := r.executeExec(ctx, "update_payment", `
		UPDATE invoices SET payment_method = ?, payment_status = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`, method, status, id)
	if err != nil {
		return err
	}

	return r.checkRowsAffected(result, "update_payment", id)
}

// Delete removes an invoice and restores stock for catalog-backed items.
// The number reservation stays: deleted numbers are never reissued.
func (r *InvoiceRepository) Delete(ctx context.Context, id string) error {
	if err := r.validateID(id); err != nil {
		return err
	}

	items, err := r.getLineItems(ctx, id)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return repositories.TransactionError("begin", err)
	}
	defer tx.Rollback()

	for _, item := range items {
		if item.ProductID != nil {
			note := fmt.Sprintf("Deleted invoice %s", id)
			if err := adjustStockTx(ctx, tx, *item.ProductID, item.Quantity, models.StockTransactionAdjustment, id, note); err != nil {
				return err
			}
		}
	}

	// invoice_items cascade on invoice delete.
	result, err := tx.ExecContext(ctx, "DELETE FROM invoices WHERE id = ?", id)
	if err != nil {
		return repositories.NewRepositoryError("delete", "invoices", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return repositories.NewRepositoryError("delete", "invoices", id, err)
	}
	if rowsAffected == 0 {
		return repositories.NotFoundError("invoice", id)
	}

	if err := tx.Commit(); err != nil {
		return repositories.TransactionError("commit", err)
	}

	return nil
}

// LastNumber returns the most recently reserved number under the prefix,
// or "" when none exists.
func (r *InvoiceRepository) LastNumber(ctx context.Context, prefix string) (string, error) {
	// substr comparison instead of LIKE so prefixes containing % or _
	// are matched literally.
	var number string
	err := r.db.QueryRowContext(ctx, `
		SELECT number FROM invoice_numbers
		WHERE substr(number, 1, length(?)) = ?
		ORDER BY reserved_at DESC, rowid DESC LIMIT 1`, prefix, prefix).Scan(&number)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		return "", repositories.NewRepositoryError("last_number", "invoice_numbers", prefix, err)
	}
	return number, nil
}

// Reserve atomically claims an invoice number. A UNIQUE violation maps
// to numbering.ErrSequenceConflict so the allocator retries.
func (r *InvoiceRepository) Reserve(ctx context.Context, number string) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO invoice_numbers (number, reserved_at) VALUES (?, ?)",
		number, time.Now())
	if err != nil {
		if isUniqueViolation(err) {
			return numbering.ErrSequenceConflict
		}
		return repositories.NewRepositoryError("reserve", "invoice_numbers", number, err)
	}
	return nil
}

// GetSalesSummary aggregates invoice counts and sales over a date range.
func (r *InvoiceRepository) GetSalesSummary(ctx context.Context, start, end *time.Time) (*repositories.SalesSummary, error) {
	query := `SELECT COUNT(*), COALESCE(SUM(grand_total), 0), COALESCE(SUM(total_gst), 0) FROM invoices`
	conditions, args := dateRangeFilter("created_at", start, end)
	query += conditions

	summary := &repositories.SalesSummary{
		TotalSales: decimal.Zero,
		TotalGST:   decimal.Zero,
	}
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&summary.TotalInvoices, &summary.TotalSales, &summary.TotalGST)
	if err != nil {
		return nil, repositories.NewRepositoryError("sales_summary", "invoices", "", err)
	}

	return summary, nil
}

// GetTopProducts retrieves the best-selling products by quantity.
func (r *InvoiceRepository) GetTopProducts(ctx context.Context, limit int, start, end *time.Time) ([]*repositories.ProductSales, error) {
	if limit <= 0 {
		limit = 10
	}

	query := `
		SELECT ii.product_name, SUM(ii.quantity), COALESCE(SUM(ii.line_total), 0)
		FROM invoice_items ii
		JOIN invoices i ON ii.invoice_id = i.id`
	conditions, args := dateRangeFilter("i.created_at", start, end)
	query += conditions + `
		GROUP BY ii.product_name
		ORDER BY SUM(ii.quantity) DESC
		LIMIT ?`
	args = append(args, limit)

	rows, err := r.executeQuery(ctx, "top_products", query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*repositories.ProductSales
	for rows.Next() {
		ps := &repositories.ProductSales{TotalRevenue: decimal.Zero}
		if err := rows.Scan(&ps.ProductName, &ps.QuantitySold, &ps.TotalRevenue); err != nil {
			return nil, repositories.NewRepositoryError("scan", "invoice_items", "", err)
		}
		results = append(results, ps)
	}

	if err := rows.Err(); err != nil {
		return nil, repositories.NewRepositoryError("scan", "invoice_items", "", err)
	}

	return results, nil
}

// GetTopCustomers retrieves customers ordered by total spend.
func (r *InvoiceRepository) GetTopCustomers(ctx context.Context, limit int, start, end *time.Time) ([]*repositories.CustomerSales, error) {
	if limit <= 0 {
		limit = 10
	}

	query := `
		SELECT c.name, c.phone, COUNT(i.id), COALESCE(SUM(i.grand_total), 0)
		FROM customers c
		JOIN invoices i ON c.id = i.customer_id`
	conditions, args := dateRangeFilter("i.created_at", start, end)
	query += conditions + `
		GROUP BY c.id
		ORDER BY SUM(i.grand_total) DESC
		LIMIT ?`
	args = append(args, limit)

	rows, err := r.executeQuery(ctx, "top_customers", query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*repositories.CustomerSales
	for rows.Next() {
		cs := &repositories.CustomerSales{TotalSpent: decimal.Zero}
		if err := rows.Scan(&cs.CustomerName, &cs.Phone, &cs.InvoiceCount, &cs.TotalSpent); err != nil {
			return nil, repositories.NewRepositoryError("scan", "invoices", "", err)
		}
		results = append(results, cs)
	}

	if err := rows.Err(); err != nil {
		return nil, repositories.NewRepositoryError("scan", "invoices", "", err)
	}

	return results, nil
}

func dateRangeFilter(column string, start, end *time.Time) (string, []interface{}) {
	var clause string
	var args []interface{}

	if start != nil {
		clause = " WHERE " + column + " >= ?"
		args = append(args, *start)
	}
	if end != nil {
		if clause == "" {
			clause = " WHERE " + column + " <= ?"
		} else {
			clause += " AND " + column + " <= ?"
		}
		args = append(args, *end)
	}

	return clause, args
}

const selectInvoice = `
	SELECT id, invoice_number, customer_id, subtotal, total_discount, total_gst,
		   total_sgst, total_cgst, grand_total, payment_method, payment_status,
		   notes, created_at, updated_at
	FROM invoices`

func scanInvoice(s scanner) (*models.Invoice, error) {
	invoice := &models.Invoice{}
	err := s.Scan(
		&invoice.ID,
		&invoice.InvoiceNumber,
		&invoice.CustomerID,
		&invoice.Subtotal,
		&invoice.TotalDiscount,
		&invoice.TotalGST,
		&invoice.TotalSGST,
		&invoice.TotalCGST,
		&invoice.GrandTotal,
		&invoice.PaymentMethod,
		&invoice.PaymentStatus,
		&invoice.Notes,
		&invoice.CreatedAt,
		&invoice.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return invoice, nil
}
