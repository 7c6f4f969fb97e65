package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Customer represents a customer in the system. Invoices may reference a
// customer or be issued to a walk-in (no customer record).
type Customer struct {
	ID        string    `json:"id" db:"id" validate:"required,uuid"`
	Name      string    `json:"name" db:"name" validate:"required,min=1,max=255"`
	Phone     *string   `json:"phone,omitempty" db:"phone"`
	Address   *string   `json:"address,omitempty" db:"address"`
	Email     *string   `json:"email,omitempty" db:"email"`
	GSTIN     *string   `json:"gstin,omitempty" db:"gstin"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// NewCustomer creates a new customer with generated ID and timestamps.
func NewCustomer(name string) *Customer {
	now := time.Now()
	return &Customer{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate validates the customer data.
func (c *Customer) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("customer ID is required")
	}

	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("customer name is required")
	}

	if len(c.Name) > 255 {
		return fmt.Errorf("customer name cannot exceed 255 characters")
	}

	if c.Email != nil && *c.Email != "" && !IsValidEmail(*c.Email) {
		return fmt.Errorf("invalid email format: %s", *c.Email)
	}

	if c.Phone != nil && !IsValidPhone(*c.Phone) {
		return fmt.Errorf("invalid phone number format: %s", *c.Phone)
	}

	if c.GSTIN != nil && *c.GSTIN != "" && !IsValidGSTIN(*c.GSTIN) {
		return fmt.Errorf("invalid GSTIN format: %s", *c.GSTIN)
	}

	return nil
}

// UpdateTimestamp refreshes the updated_at timestamp.
func (c *Customer) UpdateTimestamp() {
	c.UpdatedAt = time.Now()
}
