package repository // entry queries for the MySQL record store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/library-shelving/internal/model"
	"github.com/iliyamo/library-shelving/internal/store"
)

// UpsertEntry creates or replaces the row count for (sectionID, date).
// The section's daily cap is checked inside the same transaction as the
// write, so a cap violation leaves the store untouched.
func (r *Store) UpsertEntry(ctx context.Context, sectionID uint64, date string, rows int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	var dailyCap sql.NullInt64
	err = tx.QueryRowContext(ctx, `SELECT daily_cap FROM sections WHERE id = ?`, sectionID).Scan(&dailyCap)
	if errors.Is(err, sql.ErrNoRows) {
		err = store.ErrSectionNotFound
		return err
	}
	if err != nil {
		return err
	}
	if dailyCap.Valid && rows > int(dailyCap.Int64) {
		err = store.ErrRowCapExceeded
		return err
	}

	// The unique key on (section_id, entry_date) turns this into the
	// create-or-replace the logging workflow expects.
	const q = `INSERT INTO entries (section_id, entry_date, row_count) VALUES (?, ?, ?)
	           ON DUPLICATE KEY UPDATE row_count = VALUES(row_count), updated_at = CURRENT_TIMESTAMP`
	_, err = tx.ExecContext(ctx, q, sectionID, date, rows)
	return err
}

// ListEntriesForDate returns the entries logged on one date.
func (r *Store) ListEntriesForDate(ctx context.Context, date string) ([]model.Entry, error) {
	const q = `SELECT id, section_id, entry_date, row_count, created_at, updated_at
	           FROM entries WHERE entry_date = ? ORDER BY id`
	return r.queryEntries(ctx, q, date)
}

// ListEntriesBetween returns entries with from <= date <= to inclusive.
func (r *Store) ListEntriesBetween(ctx context.Context, from, to string) ([]model.Entry, error) {
	const q = `SELECT id, section_id, entry_date, row_count, created_at, updated_at
	           FROM entries WHERE entry_date BETWEEN ? AND ? ORDER BY entry_date, id`
	return r.queryEntries(ctx, q, from, to)
}

func (r *Store) queryEntries(ctx context.Context, q string, args ...any) ([]model.Entry, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Entry{}
	for rows.Next() {
		var e model.Entry
		if err := rows.Scan(&e.ID, &e.SectionID, &e.Date, &e.Rows, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
