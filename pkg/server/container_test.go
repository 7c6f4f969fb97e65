package server

import (
	"context"
	"path/filepath"
	"testing"

	"gst-invoice-api/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg := &config.Config{
		Environment: "development",
		Port:        "8080",
	}
	cfg.Database.Path = filepath.Join(t.TempDir(), "test.db")
	cfg.Database.MigrationsPath = filepath.Join("..", "..", "migrations")
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpiryHours = 1
	cfg.Admin.Username = "admin"
	cfg.Admin.Password = "admin"
	return cfg
}

// TestNewContainer verifies that the container wires the full stack
// against a real database file.
func TestNewContainer(t *testing.T) {
	container, err := NewContainer(testConfig(t))
	if err != nil {
		t.Fatalf("Failed to create container: %v", err)
	}

	if container.Services == nil {
		t.Fatal("Services is nil")
	}
	if err := container.Services.Validate(); err != nil {
		t.Errorf("service container validation failed: %v", err)
	}
	if container.AuthService == nil {
		t.Error("AuthService is nil")
	}

	if err := container.HealthCheck(); err != nil {
		t.Errorf("health check failed: %v", err)
	}

	if err := container.Close(); err != nil {
		t.Errorf("Failed to close container: %v", err)
	}
}

// TestContainerEndToEnd creates an invoice through the wired services.
func TestContainerEndToEnd(t *testing.T) {
	container, err := NewContainer(testConfig(t))
	if err != nil {
		t.Fatalf("Failed to create container: %v", err)
	}
	defer container.Close()

	settings, err := container.Services.SettingsService.GetSettings(context.Background())
	if err != nil {
		t.Fatalf("GetSettings failed: %v", err)
	}
	if settings.InvoicePrefix == "" {
		t.Error("expected a default invoice prefix")
	}

	number, err := container.Services.InvoiceService.PreviewNextNumber(context.Background())
	if err != nil {
		t.Fatalf("PreviewNextNumber failed: %v", err)
	}
	if number != settings.InvoicePrefix+"000001" {
		t.Errorf("unexpected first invoice number: %s", number)
	}
}
