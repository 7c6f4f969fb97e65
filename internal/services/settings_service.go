package services

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"gst-invoice-api/internal/models"
	"gst-invoice-api/internal/repositories"
)

// settingsService implements the SettingsService interface
type settingsService struct {
	settingsRepo repositories.SettingsRepository
	validator    *validator.Validate
	logger       *logrus.Logger
}

// NewSettingsService creates a new settings service instance
func NewSettingsService(settingsRepo repositories.SettingsRepository, logger *logrus.Logger) SettingsService {
	return &settingsService{
		settingsRepo: settingsRepo,
		validator:    validator.New(),
		logger:       logger,
	}
}

// GetSettings retrieves the shop settings
func (s *settingsService) GetSettings(ctx context.Context) (*models.ShopSettings, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}

	return settings, nil
}

// UpdateSettings applies the provided fields over the current settings.
// Changing the invoice prefix starts a fresh sequence for the new
// prefix; numbers already issued under the old prefix stay reserved.
func (s *settingsService) UpdateSettings(ctx context.Context, req *UpdateSettingsRequest) (*models.ShopSettings, error) {
	if req == nil {
		return nil, fmt.Errorf("update settings request cannot be nil")
	}

	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}

	if req.ShopName != nil {
		settings.ShopName = *req.ShopName
	}
	if req.Address != nil {
		settings.Address = req.Address
	}
	if req.Phone != nil {
		settings.Phone = req.Phone
	}
	if req.Email != nil {
		settings.Email = req.Email
	}
	if req.GSTIN != nil {
		settings.GSTIN = req.GSTIN
	}
	if req.LogoPath != nil {
		settings.LogoPath = req.LogoPath
	}
	if req.InvoicePrefix != nil {
		settings.InvoicePrefix = *req.InvoicePrefix
	}
	if req.DefaultGST != nil {
		settings.DefaultGST = *req.DefaultGST
	}
	if req.DefaultTemplate != nil {
		settings.DefaultTemplate = *req.DefaultTemplate
	}
	if req.UPIID != nil {
		settings.UPIID = req.UPIID
	}

	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("settings validation failed: %w", err)
	}

	if err := s.settingsRepo.Update(ctx, settings); err != nil {
		return nil, fmt.Errorf("failed to update settings: %w", err)
	}

	s.logger.WithField("shop_name", settings.ShopName).Info("Shop settings updated")
	return settings, nil
}
