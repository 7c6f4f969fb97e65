package services

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"gst-invoice-api/internal/models"
	"gst-invoice-api/internal/repositories"
)

// customerService implements the CustomerService interface
type customerService struct {
	customerRepo repositories.CustomerRepository
	validator    *validator.Validate
}

// NewCustomerService creates a new customer service instance
func NewCustomerService(customerRepo repositories.CustomerRepository) CustomerService {
	return &customerService{
		customerRepo: customerRepo,
		validator:    validator.New(),
	}
}

// CreateCustomer creates a new customer
func (s *customerService) CreateCustomer(ctx context.Context, req *CreateCustomerRequest) (*models.Customer, error) {
	if req == nil {
		return nil, fmt.Errorf("create customer request cannot be nil")
	}

	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	customer := models.NewCustomer(req.Name)
	customer.Phone = req.Phone
	customer.Email = req.Email
	customer.Address = req.Address
	customer.GSTIN = req.GSTIN

	if err := customer.Validate(); err != nil {
		return nil, fmt.Errorf("customer validation failed: %w", err)
	}

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}

	return customer, nil
}

// GetCustomer retrieves a customer by ID
func (s *customerService) GetCustomer(ctx context.Context, id string) (*models.Customer, error) {
	if id == "" {
		return nil, fmt.Errorf("customer ID cannot be empty")
	}

	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("invalid customer ID format: %w", err)
	}

	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	return customer, nil
}

// UpdateCustomer updates an existing customer
func (s *customerService) UpdateCustomer(ctx context.Context, id string, req *UpdateCustomerRequest) (*models.Customer, error) {
	if req == nil {
		return nil, fmt.Errorf("update customer request cannot be nil")
	}

	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	customer, err := s.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		customer.Name = *req.Name
	}
	if req.Phone != nil {
		customer.Phone = req.Phone
	}
	if req.Email != nil {
		customer.Email = req.Email
	}
	if req.Address != nil {
		customer.Address = req.Address
	}
	if req.GSTIN != nil {
		customer.GSTIN = req.GSTIN
	}

	if err := customer.Validate(); err != nil {
		return nil, fmt.Errorf("customer validation failed: %w", err)
	}

	customer.UpdateTimestamp()
	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}

	return customer, nil
}

// DeleteCustomer deletes a customer. Existing invoices keep their
// customer_id cleared by the schema's ON DELETE SET NULL.
func (s *customerService) DeleteCustomer(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("customer ID cannot be empty")
	}

	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("invalid customer ID format: %w", err)
	}

	if err := s.customerRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}

	return nil
}

// SearchCustomers searches customers by name, phone, or email
func (s *customerService) SearchCustomers(ctx context.Context, query string, limit int) ([]*models.Customer, error) {
	customers, err := s.customerRepo.Search(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search customers: %w", err)
	}

	return customers, nil
}
