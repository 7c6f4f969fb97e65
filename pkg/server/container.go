package server

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"gst-invoice-api/internal/config"
	"gst-invoice-api/internal/database"
	"gst-invoice-api/internal/middleware"
	"gst-invoice-api/internal/repositories"
	"gst-invoice-api/internal/repositories/sqlite"
	"gst-invoice-api/internal/services"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *logrus.Logger
	Services    *services.ServiceContainer
	AuthService *middleware.AuthService

	connectionManager *database.ConnectionManager
}

// NewContainer creates a new dependency injection container: it opens
// the database, runs migrations, and wires repositories into services.
func NewContainer(cfg *config.Config) (*Container, error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	if cfg.Environment == "development" {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		logger.SetLevel(logrus.DebugLevel)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	connectionManager := database.NewConnectionManager(&database.ConnectionConfig{
		DatabasePath:    cfg.Database.Path,
		MigrationsPath:  cfg.Database.MigrationsPath,
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Hour,
		Logger:          logger,
	})
	if err := connectionManager.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db := connectionManager.GetDB()
	repos := &repositories.RepositoryContainer{
		CustomerRepo: sqlite.NewCustomerRepository(db, logger),
		ProductRepo:  sqlite.NewProductRepository(db, logger),
		InvoiceRepo:  sqlite.NewInvoiceRepository(db, logger),
		SettingsRepo: sqlite.NewSettingsRepository(db, logger),
	}

	serviceContainer, err := services.NewServiceContainer(repos, logger)
	if err != nil {
		connectionManager.Close()
		return nil, fmt.Errorf("failed to create service container: %w", err)
	}

	authService := middleware.NewAuthService(&middleware.AuthConfig{
		JWTSecret:     cfg.JWT.Secret,
		TokenDuration: time.Duration(cfg.JWT.ExpiryHours) * time.Hour,
	})

	return &Container{
		Config:            cfg,
		Logger:            logger,
		Services:          serviceContainer,
		AuthService:       authService,
		connectionManager: connectionManager,
	}, nil
}

// HealthCheck verifies the database connection is alive
func (c *Container) HealthCheck() error {
	return c.connectionManager.HealthCheck()
}

// Close cleans up all resources
func (c *Container) Close() error {
	if c.connectionManager != nil {
		if err := c.connectionManager.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
	}
	return nil
}
