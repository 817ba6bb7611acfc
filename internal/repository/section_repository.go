package repository // section queries for the MySQL record store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/library-shelving/internal/model"
	"github.com/iliyamo/library-shelving/internal/store"
)

// ListSections returns every section ordered by ascending order_index,
// which is the allocation and display order everywhere in the service.
func (r *Store) ListSections(ctx context.Context) ([]model.Section, error) {
	const q = `SELECT id, code, name, group_name, daily_cap, order_index
	           FROM sections ORDER BY order_index`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Section{}
	for rows.Next() {
		var s model.Section
		var dailyCap sql.NullInt64
		if err := rows.Scan(&s.ID, &s.Code, &s.Name, &s.Group, &dailyCap, &s.OrderIndex); err != nil {
			return nil, err
		}
		if dailyCap.Valid {
			v := int(dailyCap.Int64)
			s.DailyCap = &v
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetSection fetches one section by id. It returns
// store.ErrSectionNotFound when no row exists.
func (r *Store) GetSection(ctx context.Context, id uint64) (*model.Section, error) {
	const q = `SELECT id, code, name, group_name, daily_cap, order_index FROM sections WHERE id = ?`
	var s model.Section
	var dailyCap sql.NullInt64
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&s.ID, &s.Code, &s.Name, &s.Group, &dailyCap, &s.OrderIndex); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrSectionNotFound
		}
		return nil, err
	}
	if dailyCap.Valid {
		v := int(dailyCap.Int64)
		s.DailyCap = &v
	}
	return &s, nil
}

// Normalize backfills group_name for legacy rows that predate location
// groups. It is the one-time startup migration; no getter migrates
// inline.
func (r *Store) Normalize(ctx context.Context) error {
	const q = `UPDATE sections SET group_name = code WHERE group_name = ''`
	_, err := r.db.ExecContext(ctx, q)
	return err
}
