package services

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"gst-invoice-api/internal/repositories"
)

// ServiceContainer holds all service instances
type ServiceContainer struct {
	CustomerService CustomerService
	ProductService  ProductService
	InvoiceService  InvoiceService
	TaxService      TaxService
	SettingsService SettingsService
}

// NewServiceContainer creates a new service container with all services
func NewServiceContainer(repos *repositories.RepositoryContainer, logger *logrus.Logger) (*ServiceContainer, error) {
	if repos == nil {
		return nil, fmt.Errorf("repository container cannot be nil")
	}
	if logger == nil {
		logger = logrus.New()
	}

	return &ServiceContainer{
		CustomerService: NewCustomerService(repos.CustomerRepo),
		ProductService:  NewProductService(repos.ProductRepo, repos.SettingsRepo),
		InvoiceService: NewInvoiceService(
			repos.InvoiceRepo,
			repos.CustomerRepo,
			repos.ProductRepo,
			repos.SettingsRepo,
			logger,
		),
		TaxService:      NewTaxService(),
		SettingsService: NewSettingsService(repos.SettingsRepo, logger),
	}, nil
}

// Validate validates that all services are properly initialized
func (sc *ServiceContainer) Validate() error {
	if sc.CustomerService == nil {
		return fmt.Errorf("customer service is nil")
	}
	if sc.ProductService == nil {
		return fmt.Errorf("product service is nil")
	}
	if sc.InvoiceService == nil {
		return fmt.Errorf("invoice service is nil")
	}
	if sc.TaxService == nil {
		return fmt.Errorf("tax service is nil")
	}
	if sc.SettingsService == nil {
		return fmt.Errorf("settings service is nil")
	}

	return nil
}
