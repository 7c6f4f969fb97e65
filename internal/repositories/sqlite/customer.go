package sqlite

import (
	"context"
	"database/sql"

	"github.com/sirupsen/logrus"

	"gst-invoice-api/internal/models"
	"gst-invoice-api/internal/repositories"
)

// CustomerRepository implements repositories.CustomerRepository for SQLite.
type CustomerRepository struct {
	baseRepository
}

// NewCustomerRepository creates a new SQLite customer repository.
func NewCustomerRepository(db *sql.DB, logger *logrus.Logger) repositories.CustomerRepository {
	return &CustomerRepository{
		baseRepository: newBaseRepository(db, "customers", logger),
	}
}

// Create creates a new customer.
func (r *CustomerRepository) Create(ctx context.Context, customer *models.Customer) error {
	if err := customer.Validate(); err != nil {
		return repositories.ValidationError("customer", customer.ID, err)
	}

	query := `
		INSERT INTO customers (id, name, phone, address, email, gstin, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.executeExec(ctx, "create", query,
		customer.ID,
		customer.Name,
		customer.Phone,
		customer.Address,
		customer.Email,
		customer.GSTIN,
		customer.CreatedAt,
		customer.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return repositories.DuplicateError("customer", "id", customer.ID)
		}
		return err
	}

	return nil
}

// GetByID retrieves a customer by ID.
func (r *CustomerRepository) GetByID(ctx context.Context, id string) (*models.Customer, error) {
	if err := r.validateID(id); err != nil {
		return nil, err
	}

	query := `
		SELECT id, name, phone, address, email, gstin, created_at, updated_at
		FROM customers WHERE id = ?`

	row := r.db.QueryRowContext(ctx, query, id)
	customer, err := scanCustomer(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, repositories.NotFoundError("customer", id)
		}
		return nil, repositories.NewRepositoryError("get", "customers", id, err)
	}

	return customer, nil
}

// Update updates an existing customer.
func (r *CustomerRepository) Update(ctx context.Context, customer *models.Customer) error {
	if err := customer.Validate(); err != nil {
		return repositories.ValidationError("customer", customer.ID, err)
	}

	customer.UpdateTimestamp()

	query := `
		UPDATE customers
		SET name = ?, phone = ?, address = ?, email = ?, gstin = ?, updated_at = ?
		WHERE id = ?`

	result, err := r.executeExec(ctx, "update", query,
		customer.Name,
		customer.Phone,
		customer.Address,
		customer.Email,
		customer.GSTIN,
		customer.UpdatedAt,
		customer.ID,
	)
	if err != nil {
		return err
	}

	return r.checkRowsAffected(result, "update", customer.ID)
}

// Delete deletes a customer by ID. Invoices keep their customer_id as a
// dangling reference is prevented by the FK's ON DELETE SET NULL.
func (r *CustomerRepository) Delete(ctx context.Context, id string) error {
	if err := r.validateID(id); err != nil {
		return err
	}

	result, err := r.executeExec(ctx, "delete", "DELETE FROM customers WHERE id = ?", id)
	if err != nil {
		return err
	}

	return r.checkRowsAffected(result, "delete", id)
}

// Search matches name, phone, or email; empty query lists all.
func (r *CustomerRepository) Search(ctx context.Context, query string, limit int) ([]*models.Customer, error) {
	if limit <= 0 {
		limit = 100
	}

	var rows *sql.Rows
	var err error

	if query == "" {
		rows, err = r.executeQuery(ctx, "search", `
			SELECT id, name, phone, address, email, gstin, created_at, updated_at
			FROM customers ORDER BY name LIMIT ?`, limit)
	} else {
		pattern := "%" + query + "%"
		rows, err = r.executeQuery(ctx, "search", `
			SELECT id, name, phone, address, email, gstin, created_at, updated_at
			FROM customers
			WHERE name LIKE ? OR phone LIKE ? OR email LIKE ?
			ORDER BY name LIMIT ?`, pattern, pattern, pattern, limit)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []*models.Customer
	for rows.Next() {
		customer, err := scanCustomer(rows)
		if err != nil {
			return nil, repositories.NewRepositoryError("search", "customers", "", err)
		}
		customers = append(customers, customer)
	}

	if err := rows.Err(); err != nil {
		return nil, repositories.NewRepositoryError("search", "customers", "", err)
	}

	return customers, nil
}

// scanner abstracts sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanCustomer(s scanner) (*models.Customer, error) {
	customer := &models.Customer{}
	err := s.Scan(
		&customer.ID,
		&customer.Name,
		&customer.Phone,
		&customer.Address,
		&customer.Email,
		&customer.GSTIN,
		&customer.CreatedAt,
		&customer.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return customer, nil
}
