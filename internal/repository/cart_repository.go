package repository // manual cart record queries for the MySQL record store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/library-shelving/internal/model"
	"github.com/iliyamo/library-shelving/internal/store"
)

// CreateCart inserts a manual cart record. On success the record's ID
// field is populated and a follow-up SELECT fills the timestamp fields
// so callers receive a fully populated record.
func (r *Store) CreateCart(ctx context.Context, c *model.CartRecord) error {
	const qInsert = `INSERT INTO carts (cart_date, group_name, initials, row_count, shelved)
	                 VALUES (?, ?, ?, ?, 0)`
	res, err := r.db.ExecContext(ctx, qInsert, c.Date, c.Group, c.Initials, c.Rows)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	c.Shelved = false

	const qSelect = `SELECT created_at, updated_at FROM carts WHERE id = ?`
	return r.db.QueryRowContext(ctx, qSelect, c.ID).Scan(&c.CreatedAt, &c.UpdatedAt)
}

// UpdateCart patches row count and/or the shelved flag (nil leaves the
// field as is) and returns the updated record. It returns
// store.ErrCartNotFound when the id does not exist.
func (r *Store) UpdateCart(ctx context.Context, id uint64, rows *int, shelved *bool) (*model.CartRecord, error) {
	set := ""
	args := []any{}
	if rows != nil {
		set += "row_count = ?"
		args = append(args, *rows)
	}
	if shelved != nil {
		if set != "" {
			set += ", "
		}
		set += "shelved = ?"
		args = append(args, *shelved)
	}
	if set != "" {
		args = append(args, id)
		// RowsAffected is 0 both for a missing id and for a no-op update,
		// so the follow-up SELECT decides between record and not-found.
		if _, err := r.db.ExecContext(ctx, `UPDATE carts SET `+set+`, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, args...); err != nil {
			return nil, err
		}
	}
	return r.getCart(ctx, id)
}

// DeleteCart removes a cart record by id.
func (r *Store) DeleteCart(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM carts WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrCartNotFound
	}
	return nil
}

// ListCarts returns cart records, restricted to one date when date is
// non-empty.
func (r *Store) ListCarts(ctx context.Context, date string) ([]model.CartRecord, error) {
	if date == "" {
		return r.queryCarts(ctx, `SELECT id, cart_date, group_name, initials, row_count, shelved, created_at, updated_at
		                          FROM carts ORDER BY id`)
	}
	return r.queryCarts(ctx, `SELECT id, cart_date, group_name, initials, row_count, shelved, created_at, updated_at
	                          FROM carts WHERE cart_date = ? ORDER BY id`, date)
}

// ListCartsBetween returns cart records with from <= date <= to.
func (r *Store) ListCartsBetween(ctx context.Context, from, to string) ([]model.CartRecord, error) {
	return r.queryCarts(ctx, `SELECT id, cart_date, group_name, initials, row_count, shelved, created_at, updated_at
	                          FROM carts WHERE cart_date BETWEEN ? AND ? ORDER BY cart_date, id`, from, to)
}

func (r *Store) getCart(ctx context.Context, id uint64) (*model.CartRecord, error) {
	const q = `SELECT id, cart_date, group_name, initials, row_count, shelved, created_at, updated_at
	           FROM carts WHERE id = ?`
	var c model.CartRecord
	err := r.db.QueryRowContext(ctx, q, id).Scan(&c.ID, &c.Date, &c.Group, &c.Initials, &c.Rows, &c.Shelved, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrCartNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Store) queryCarts(ctx context.Context, q string, args ...any) ([]model.CartRecord, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.CartRecord{}
	for rows.Next() {
		var c model.CartRecord
		if err := rows.Scan(&c.ID, &c.Date, &c.Group, &c.Initials, &c.Rows, &c.Shelved, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
