// Package repository is the MySQL implementation of the record store.
// Data access logic lives here, separated from HTTP handlers; each
// collection's queries sit in their own file, all as methods on one
// Store so the whole thing satisfies the store.Store contract.
package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/library-shelving/internal/store"
)

// Store encapsulates every database query of the service. It depends on
// a sql.DB connection pool which should be configured elsewhere.
type Store struct {
	db *sql.DB // db is the underlying database connection pool
}

var _ store.Store = (*Store)(nil)

// New constructs a Store with the provided DB handle. This allows
// dependency injection of the database in tests and at startup.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// schema holds the DDL for all four collections. MySQL DATETIME columns
// are scanned as strings, so the DSN must not enable parseTime.
// "group" and "rows" are reserved words, hence group_name/row_count.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS sections (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		code VARCHAR(64) NOT NULL UNIQUE,
		name VARCHAR(255) NOT NULL,
		group_name VARCHAR(128) NOT NULL DEFAULT '',
		daily_cap INT NULL,
		order_index INT NOT NULL,
		UNIQUE KEY uq_sections_order (order_index)
	)`,
	`CREATE TABLE IF NOT EXISTS entries (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		section_id BIGINT UNSIGNED NOT NULL,
		entry_date CHAR(10) NOT NULL,
		row_count INT NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_entries_section_date (section_id, entry_date),
		KEY ix_entries_date (entry_date)
	)`,
	`CREATE TABLE IF NOT EXISTS carts (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		cart_date CHAR(10) NOT NULL,
		group_name VARCHAR(128) NOT NULL,
		initials VARCHAR(16) NOT NULL,
		row_count INT NOT NULL,
		shelved TINYINT(1) NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		KEY ix_carts_date (cart_date)
	)`,
	`CREATE TABLE IF NOT EXISTS loadout_snapshots (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		snap_date CHAR(10) NOT NULL,
		initials VARCHAR(16) NOT NULL,
		cart_size INT NOT NULL,
		group_name VARCHAR(128) NOT NULL DEFAULT '',
		carts_json JSON NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		KEY ix_snapshots_date (snap_date)
	)`,
}

// EnsureSchema creates the tables when they do not exist yet and seeds
// the default sections into an empty sections table.
func (r *Store) EnsureSchema(ctx context.Context) error {
	for _, ddl := range schema {
		if _, err := r.db.ExecContext(ctx, ddl); err != nil {
			return err
		}
	}

	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sections`).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	const q = `INSERT INTO sections (id, code, name, group_name, daily_cap, order_index) VALUES (?, ?, ?, ?, ?, ?)`
	for _, s := range store.SeedSections() {
		if _, err := r.db.ExecContext(ctx, q, s.ID, s.Code, s.Name, s.Group, s.DailyCap, s.OrderIndex); err != nil {
			return err
		}
	}
	return nil
}
