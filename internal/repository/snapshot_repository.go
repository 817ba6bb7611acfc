package repository // loadout snapshot queries for the MySQL record store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/iliyamo/library-shelving/internal/model"
	"github.com/iliyamo/library-shelving/internal/store"
)

// CreateSnapshot freezes a loadout result. The carts with their row
// units are stored as one JSON document: they are written once and only
// their shelved flags ever change, so there is nothing to join on.
func (r *Store) CreateSnapshot(ctx context.Context, s *model.LoadoutSnapshot) error {
	carts, err := json.Marshal(s.Carts)
	if err != nil {
		return err
	}
	const qInsert = `INSERT INTO loadout_snapshots (snap_date, initials, cart_size, group_name, carts_json)
	                 VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert, s.Date, s.Initials, s.CartSize, s.Group, carts)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)

	const qSelect = `SELECT created_at FROM loadout_snapshots WHERE id = ?`
	return r.db.QueryRowContext(ctx, qSelect, s.ID).Scan(&s.CreatedAt)
}

// ListSnapshots returns snapshots, restricted to one date when date is
// non-empty.
func (r *Store) ListSnapshots(ctx context.Context, date string) ([]model.LoadoutSnapshot, error) {
	q := `SELECT id, snap_date, initials, cart_size, group_name, carts_json, created_at
	      FROM loadout_snapshots`
	args := []any{}
	if date != "" {
		q += ` WHERE snap_date = ?`
		args = append(args, date)
	}
	q += ` ORDER BY id`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.LoadoutSnapshot{}
	for rows.Next() {
		var s model.LoadoutSnapshot
		var carts []byte
		if err := rows.Scan(&s.ID, &s.Date, &s.Initials, &s.CartSize, &s.Group, &carts, &s.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(carts, &s.Carts); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// SetSnapshotCartShelved toggles the shelved flag of one cart inside a
// snapshot. The carts document is read, patched and written back inside
// a transaction so the row contents are carried over untouched.
func (r *Store) SetSnapshotCartShelved(ctx context.Context, id uint64, cart int, shelved bool) error {
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

	var raw []byte
	err = tx.QueryRowContext(ctx, `SELECT carts_json FROM loadout_snapshots WHERE id = ? FOR UPDATE`, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		err = store.ErrSnapshotNotFound
		return err
	}
	if err != nil {
		return err
	}

	var carts []model.SnapshotCart
	if err = json.Unmarshal(raw, &carts); err != nil {
		return err
	}
	found := false
	for i := range carts {
		if carts[i].Cart == cart {
			carts[i].Shelved = shelved
			found = true
			break
		}
	}
	if !found {
		err = store.ErrSnapshotCartNotFound
		return err
	}

	raw, err = json.Marshal(carts)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `UPDATE loadout_snapshots SET carts_json = ? WHERE id = ?`, raw, id)
	return err
}
