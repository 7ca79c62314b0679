package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE TABLE IF NOT EXISTS tenders (
		id VARCHAR(64) PRIMARY KEY,
		ocid VARCHAR(128) NOT NULL DEFAULT '',
		title TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		buyer TEXT NOT NULL DEFAULT '',
		category VARCHAR(64) NOT NULL DEFAULT '',
		procedure_type VARCHAR(128) NOT NULL DEFAULT '',
		estimated_amount NUMERIC(18,2) NOT NULL DEFAULT 0,
		currency VARCHAR(8) NOT NULL DEFAULT 'PEN',
		publication_date DATE,
		process_status VARCHAR(64) NOT NULL DEFAULT '',
		full_location TEXT NOT NULL DEFAULT '',
		department VARCHAR(64) NOT NULL DEFAULT '',
		province VARCHAR(64) NOT NULL DEFAULT '',
		district VARCHAR(64) NOT NULL DEFAULT '',
		origin VARCHAR(16) NOT NULL DEFAULT 'ETL',
		source_file TEXT NOT NULL DEFAULT '',
		last_updated TIMESTAMPTZ
	);`,
	`CREATE TABLE IF NOT EXISTS awards (
		id VARCHAR(64) PRIMARY KEY,
		tender_id VARCHAR(64) NOT NULL REFERENCES tenders(id) ON DELETE CASCADE,
		contract_id VARCHAR(64) NOT NULL DEFAULT '',
		winner_name TEXT NOT NULL DEFAULT '',
		winner_tax_id VARCHAR(32) NOT NULL DEFAULT '',
		awarded_amount NUMERIC(18,2) NOT NULL DEFAULT 0,
		award_date DATE,
		item_status VARCHAR(64) NOT NULL DEFAULT '',
		financial_entity TEXT NOT NULL DEFAULT '',
		guarantee_type TEXT NOT NULL DEFAULT ''
	);`,
	`CREATE TABLE IF NOT EXISTS consortium_members (
		id BIGSERIAL PRIMARY KEY,
		contract_id VARCHAR(64) NOT NULL,
		member_name TEXT NOT NULL DEFAULT '',
		member_tax_id VARCHAR(32) NOT NULL DEFAULT '',
		participation_pct NUMERIC(6,3) NOT NULL DEFAULT 0
	);`,
	`CREATE INDEX IF NOT EXISTS idx_tenders_publication_date ON tenders (publication_date DESC);`,
	`CREATE INDEX IF NOT EXISTS idx_tenders_department ON tenders (department);`,
	`CREATE INDEX IF NOT EXISTS idx_tenders_process_status ON tenders (process_status);`,
	`CREATE INDEX IF NOT EXISTS idx_awards_tender_id ON awards (tender_id);`,
	`CREATE INDEX IF NOT EXISTS idx_awards_winner_tax_id ON awards (winner_tax_id);`,
	`CREATE INDEX IF NOT EXISTS idx_consortium_contract_id ON consortium_members (contract_id);`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
