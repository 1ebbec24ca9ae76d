package migrations

import "gorm.io/gorm"

func GetScoringMigrations() []MigrationDefinition {
	return []MigrationDefinition{
		{
			Name: "2024_01_03_000000_create_scoring_tables",
			Up: func(db *gorm.DB) error {
				// Create courts table
				if err := db.Exec(`
					CREATE TABLE IF NOT EXISTS courts (
						id SERIAL PRIMARY KEY,
						public_id UUID UNIQUE NOT NULL,
						name VARCHAR(100) UNIQUE NOT NULL,
						active BOOLEAN DEFAULT true,
						created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
						updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
						deleted_at TIMESTAMP NULL
					);
					CREATE INDEX IF NOT EXISTS idx_courts_deleted_at ON courts(deleted_at);
				`).Error; err != nil {
					return err
				}

				// Create matches table
				if err := db.Exec(`
					CREATE TABLE IF NOT EXISTS matches (
						id SERIAL PRIMARY KEY,
						public_id UUID UNIQUE NOT NULL,
						court_id INTEGER NOT NULL REFERENCES courts(id) ON DELETE CASCADE,
						version INTEGER NOT NULL DEFAULT 1,
						deuce_policy VARCHAR(20) NOT NULL DEFAULT 'traditional',
						sets_to_win INTEGER NOT NULL DEFAULT 2,
						tiebreak_at INTEGER NOT NULL DEFAULT 6,
						team_a_players JSONB DEFAULT '[]'::jsonb,
						team_b_players JSONB DEFAULT '[]'::jsonb,
						points_a INTEGER NOT NULL DEFAULT 0,
						points_b INTEGER NOT NULL DEFAULT 0,
						games_a INTEGER NOT NULL DEFAULT 0,
						games_b INTEGER NOT NULL DEFAULT 0,
						set_scores JSONB DEFAULT '[]'::jsonb,
						current_set INTEGER NOT NULL DEFAULT 1,
						tiebreak_active BOOLEAN NOT NULL DEFAULT false,
						tiebreak_points_a INTEGER NULL,
						tiebreak_points_b INTEGER NULL,
						tiebreak_server VARCHAR(10) NULL,
						deuce_count INTEGER NOT NULL DEFAULT 0,
						serving VARCHAR(10) NULL,
						winner VARCHAR(10) NULL,
						status VARCHAR(20) NOT NULL DEFAULT 'setup',
						started_at TIMESTAMP NULL,
						completed_at TIMESTAMP NULL,
						created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
						updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
						deleted_at TIMESTAMP NULL
					);
					CREATE INDEX IF NOT EXISTS idx_matches_court_id ON matches(court_id);
					CREATE INDEX IF NOT EXISTS idx_matches_status ON matches(status);
					CREATE INDEX IF NOT EXISTS idx_matches_deleted_at ON matches(deleted_at);
				`).Error; err != nil {
					return err
				}

				// Create undo_entries table
				if err := db.Exec(`
					CREATE TABLE IF NOT EXISTS undo_entries (
						id SERIAL PRIMARY KEY,
						match_id INTEGER NOT NULL REFERENCES matches(id) ON DELETE CASCADE,
						snapshot JSONB NOT NULL,
						idempotency_key VARCHAR(64) NULL,
						source VARCHAR(20) NOT NULL DEFAULT 'button',
						created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
					);
					CREATE INDEX IF NOT EXISTS idx_undo_entries_match_id ON undo_entries(match_id);
					CREATE INDEX IF NOT EXISTS idx_undo_entries_idempotency_key ON undo_entries(idempotency_key);
					CREATE INDEX IF NOT EXISTS idx_undo_entries_created_at ON undo_entries(created_at);
				`).Error; err != nil {
					return err
				}

				return nil
			},
			Down: func(db *gorm.DB) error {
				// Drop tables in reverse order (because of foreign keys)
				if err := db.Exec("DROP TABLE IF EXISTS undo_entries CASCADE").Error; err != nil {
					return err
				}
				if err := db.Exec("DROP TABLE IF EXISTS matches CASCADE").Error; err != nil {
					return err
				}
				if err := db.Exec("DROP TABLE IF EXISTS courts CASCADE").Error; err != nil {
					return err
				}
				return nil
			},
		},
	}
}
