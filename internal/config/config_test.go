package config

import (
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != "8081" {
		t.Errorf("expected default port 8081, got %s", cfg.Port)
	}
	if cfg.Environment != "development" {
		t.Errorf("expected default environment development, got %s", cfg.Environment)
	}
	if cfg.Database.Path != "./data/gst-invoice.db" {
		t.Errorf("unexpected default database path: %s", cfg.Database.Path)
	}
	if cfg.Admin.Username != "admin" {
		t.Errorf("unexpected default admin username: %s", cfg.Admin.Username)
	}
	if cfg.JWT.ExpiryHours != 24 {
		t.Errorf("unexpected default JWT expiry: %d", cfg.JWT.ExpiryHours)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_PATH", "/tmp/test.db")
	t.Setenv("ADMIN_USERNAME", "shopkeeper")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Port)
	}
	if cfg.Database.Path != "/tmp/test.db" {
		t.Errorf("expected overridden database path, got %s", cfg.Database.Path)
	}
	if cfg.Admin.Username != "shopkeeper" {
		t.Errorf("expected overridden admin username, got %s", cfg.Admin.Username)
	}
}

func TestValidateDevelopmentDefaults(t *testing.T) {
	cfg := &Config{Environment: "development"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if cfg.JWT.Secret == "" {
		t.Error("expected a development JWT secret to be filled in")
	}
	if cfg.Admin.Password == "" {
		t.Error("expected a development admin password to be filled in")
	}
}

func TestValidateProductionRequiresSecrets(t *testing.T) {
	cfg := &Config{Environment: "production"}
	if err := cfg.Validate(); err == nil {
		t.Error("expected an error when JWT_SECRET is missing in production")
	}

	cfg = &Config{Environment: "production"}
	cfg.JWT.Secret = "s3cret"
	if err := cfg.Validate(); err == nil {
		t.Error("expected an error when ADMIN_PASSWORD is missing in production")
	}

	cfg.Admin.Password = "p4ssword"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate failed with all secrets set: %v", err)
	}
}
