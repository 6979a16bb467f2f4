package storage

import (
	"database/sql"
	"fmt"
)

const currentSchemaVersion = 1

// initializeSchema creates all tables for a new database
func (db *DB) initializeSchema() error {
	return db.WithTx(func(tx *sql.Tx) error {
		if err := createSchemaVersionTable(tx); err != nil {
			return err
		}
		if err := createProjectsTable(tx); err != nil {
			return err
		}
		if err := createInvestorsTable(tx); err != nil {
			return err
		}
		if err := createFundingRoundsTable(tx); err != nil {
			return err
		}
		if err := createRoundInvestorsTable(tx); err != nil {
			return err
		}
		if err := createSyncRunsTable(tx); err != nil {
			return err
		}
		if err := setSchemaVersion(tx, currentSchemaVersion); err != nil {
			return err
		}

		db.logger.Info("Database schema initialized", map[string]interface{}{
			"version": currentSchemaVersion,
		})
		return nil
	})
}

// runMigrations runs any pending schema migrations
func (db *DB) runMigrations() error {
	version, err := db.schemaVersion()
	if err != nil {
		return err
	}
	if version == currentSchemaVersion {
		return nil
	}
	if version > currentSchemaVersion {
		return fmt.Errorf("database schema version %d is newer than supported version %d", version, currentSchemaVersion)
	}

	db.logger.Info("Running database migrations", map[string]interface{}{
		"from_version": version,
		"to_version":   currentSchemaVersion,
	})

	// Migration functions are appended here as the schema evolves.
	return nil
}

func (db *DB) schemaVersion() (int, error) {
	var version int
	err := db.conn.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}

func createSchemaVersionTable(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER NOT NULL
		)
	`)
	return err
}

func setSchemaVersion(tx *sql.Tx, version int) error {
	if _, err := tx.Exec("DELETE FROM schema_version"); err != nil {
		return err
	}
	_, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", version)
	return err
}

func createProjectsTable(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS projects (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE COLLATE NOCASE,
			slug TEXT NOT NULL UNIQUE,
			description TEXT NOT NULL DEFAULT '',
			website TEXT NOT NULL DEFAULT '',
			sector TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL DEFAULT '',
			stage TEXT NOT NULL DEFAULT '',
			social_handle TEXT NOT NULL DEFAULT '',
			social_followers INTEGER NOT NULL DEFAULT 0,
			repo_url TEXT NOT NULL DEFAULT '',
			discord_url TEXT NOT NULL DEFAULT '',
			telegram_url TEXT NOT NULL DEFAULT '',
			has_token INTEGER NOT NULL DEFAULT 0,
			token_symbol TEXT NOT NULL DEFAULT '',
			secondary_id TEXT NOT NULL DEFAULT '',
			repo_stars INTEGER NOT NULL DEFAULT 0,
			repo_forks INTEGER NOT NULL DEFAULT 0,
			repo_contributors INTEGER NOT NULL DEFAULT 0,
			tvl REAL NOT NULL DEFAULT 0,
			tvl_known INTEGER NOT NULL DEFAULT 0,
			tvl_30d_change REAL NOT NULL DEFAULT 0,
			dau INTEGER NOT NULL DEFAULT 0,
			revenue_24h REAL NOT NULL DEFAULT 0,
			revenue_known INTEGER NOT NULL DEFAULT 0,
			grade_score REAL NOT NULL DEFAULT 0,
			grade_letter TEXT NOT NULL DEFAULT '',
			data_confidence REAL NOT NULL DEFAULT 0,
			verified INTEGER NOT NULL DEFAULT 0,
			verify_source TEXT NOT NULL DEFAULT '',
			breakdown_json TEXT NOT NULL DEFAULT '',
			risks_json TEXT NOT NULL DEFAULT '',
			last_graded TEXT NOT NULL DEFAULT '',
			first_seen TEXT NOT NULL,
			last_updated TEXT NOT NULL,
			provenance_json TEXT NOT NULL DEFAULT ''
		)
	`)
	if err != nil {
		return err
	}
	_, err = tx.Exec(`CREATE INDEX IF NOT EXISTS idx_projects_sector ON projects(sector)`)
	return err
}

func createInvestorsTable(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS investors (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE COLLATE NOCASE,
			slug TEXT NOT NULL UNIQUE,
			tier INTEGER NOT NULL DEFAULT 3,
			type TEXT NOT NULL DEFAULT '',
			website TEXT NOT NULL DEFAULT ''
		)
	`)
	return err
}

func createFundingRoundsTable(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS funding_rounds (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			project_id INTEGER NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
			kind TEXT NOT NULL,
			amount_usd REAL NOT NULL DEFAULT 0,
			valuation REAL NOT NULL DEFAULT 0,
			valuation_basis TEXT NOT NULL DEFAULT '',
			announced_at TEXT NOT NULL,
			lead_investor_id INTEGER NOT NULL DEFAULT 0,
			source_url TEXT NOT NULL DEFAULT '',
			source TEXT NOT NULL DEFAULT '',
			UNIQUE(project_id, announced_at, amount_usd)
		)
	`)
	if err != nil {
		return err
	}
	_, err = tx.Exec(`CREATE INDEX IF NOT EXISTS idx_rounds_announced ON funding_rounds(announced_at)`)
	return err
}

func createRoundInvestorsTable(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS round_investors (
			round_id INTEGER NOT NULL REFERENCES funding_rounds(id) ON DELETE CASCADE,
			investor_id INTEGER NOT NULL REFERENCES investors(id),
			PRIMARY KEY (round_id, investor_id)
		)
	`)
	return err
}

func createSyncRunsTable(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS sync_runs (
			id TEXT PRIMARY KEY,
			project_id INTEGER NOT NULL DEFAULT 0,
			started_at TEXT NOT NULL,
			completed_at TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'running',
			adapters_json TEXT NOT NULL DEFAULT ''
		)
	`)
	return err
}
