package sqlite

import (
	"context"
	"database/sql"

	"github.com/sirupsen/logrus"

	"gst-invoice-api/internal/models"
	"gst-invoice-api/internal/repositories"
)

// SettingsRepository implements repositories.SettingsRepository for
// SQLite. Shop settings are a singleton row with id 1.
type SettingsRepository struct {
	baseRepository
}

// NewSettingsRepository creates a new SQLite settings repository.
func NewSettingsRepository(db *sql.DB, logger *logrus.Logger) repositories.SettingsRepository {
	return &SettingsRepository{
		baseRepository: newBaseRepository(db, "shop_settings", logger),
	}
}

// Get retrieves the shop settings, falling back to defaults when the
// shop has not been configured yet.
func (r *SettingsRepository) Get(ctx context.Context) (*models.ShopSettings, error) {
	settings := &models.ShopSettings{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, shop_name, address, phone, email, gstin, logo_path,
			   invoice_prefix, default_gst, default_template, upi_id, updated_at
		FROM shop_settings WHERE id = 1`).Scan(
		&settings.ID,
		&settings.ShopName,
		&settings.Address,
		&settings.Phone,
		&settings.Email,
		&settings.GSTIN,
		&settings.LogoPath,
		&settings.InvoicePrefix,
		&settings.DefaultGST,
		&settings.DefaultTemplate,
		&settings.UPIID,
		&settings.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.DefaultShopSettings(), nil
		}
		return nil, repositories.NewRepositoryError("get", "shop_settings", "1", err)
	}

	return settings, nil
}

// Update writes the settings, inserting the singleton row if it does
// not exist yet.
func (r *SettingsRepository) Update(ctx context.Context, settings *models.ShopSettings) error {
	if err := settings.Validate(); err != nil {
		return repositories.ValidationError("shop_settings", "1", err)
	}

	settings.ID = 1
	settings.UpdateTimestamp()

	result, err := r.executeExec(ctx, "update", `
		UPDATE shop_settings
		SET shop_name = ?, address = ?, phone = ?, email = ?, gstin = ?,
			logo_path = ?, invoice_prefix = ?, default_gst = ?,
			default_template = ?, upi_id = ?, updated_at = ?
		WHERE id = 1`,
		settings.ShopName,
		settings.Address,
		settings.Phone,
		settings.Email,
		settings.GSTIN,
		settings.LogoPath,
		settings.InvoicePrefix,
		settings.DefaultGST,
		settings.DefaultTemplate,
		settings.UPIID,
		settings.UpdatedAt,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return repositories.NewRepositoryError("update", "shop_settings", "1", err)
	}
	if rowsAffected > 0 {
		return nil
	}

	_, err = r.executeExec(ctx, "insert", `
		INSERT INTO shop_settings (id, shop_name, address, phone, email, gstin,
			logo_path, invoice_prefix, default_gst, default_template, upi_id, updated_at)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		settings.ShopName,
		settings.Address,
		settings.Phone,
		settings.Email,
		settings.GSTIN,
		settings.LogoPath,
		settings.InvoicePrefix,
		settings.DefaultGST,
		settings.DefaultTemplate,
		settings.UPIID,
		settings.UpdatedAt,
	)
	return err
}
