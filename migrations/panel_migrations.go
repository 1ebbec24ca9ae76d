package migrations

import "gorm.io/gorm"

func GetPanelMigrations() []MigrationDefinition {
	return []MigrationDefinition{
		{
			Name: "2024_01_01_000000_create_panels_table",
			Up: func(db *gorm.DB) error {
				return db.Exec(`
					CREATE TABLE IF NOT EXISTS panels (
						id SERIAL PRIMARY KEY,
						name VARCHAR(255) UNIQUE NOT NULL,
						pin_hash VARCHAR(255) NOT NULL,
						enabled BOOLEAN DEFAULT true,
						roles JSONB DEFAULT '["referee"]'::jsonb,
						last_login TIMESTAMP NULL,
						created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
						updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
						deleted_at TIMESTAMP NULL
					);
					CREATE INDEX IF NOT EXISTS idx_panels_deleted_at ON panels(deleted_at);
					CREATE INDEX IF NOT EXISTS idx_panels_roles ON panels USING GIN (roles);
				`).Error
			},
			Down: func(db *gorm.DB) error {
				return db.Exec("DROP TABLE IF EXISTS panels CASCADE").Error
			},
		},
		{
			Name: "2024_01_02_000000_create_session_tokens_table",
			Up: func(db *gorm.DB) error {
				return db.Exec(`
					CREATE TABLE IF NOT EXISTS session_tokens (
						id SERIAL PRIMARY KEY,
						panel_id INTEGER NOT NULL REFERENCES panels(id) ON DELETE CASCADE,
						token VARCHAR(255) UNIQUE NOT NULL,
						expires_at TIMESTAMP NOT NULL,
						created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
						updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
						deleted_at TIMESTAMP NULL
					);
					CREATE INDEX IF NOT EXISTS idx_session_tokens_panel_id ON session_tokens(panel_id);
					CREATE INDEX IF NOT EXISTS idx_session_tokens_token ON session_tokens(token);
					CREATE INDEX IF NOT EXISTS idx_session_tokens_expires_at ON session_tokens(expires_at);
					CREATE INDEX IF NOT EXISTS idx_session_tokens_deleted_at ON session_tokens(deleted_at);
				`).Error
			},
			Down: func(db *gorm.DB) error {
				return db.Exec("DROP TABLE IF EXISTS session_tokens CASCADE").Error
			},
		},
	}
}
