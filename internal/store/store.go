// Package store defines the record-store contract the handlers consume
// and provides the JSON-file implementation of it. The four record
// collections (sections, entries, carts, loadout snapshots) are owned
// exclusively by the store; the engines only ever see read-only copies.
//
// Two implementations exist: the file store in this package, which keeps
// the whole dataset in memory and rewrites one JSON document after every
// mutation, and the MySQL-backed store in internal/repository. Both are
// selected at startup via STORE_DRIVER.
package store

import (
	"context"
	"errors"

	"github.com/iliyamo/library-shelving/internal/model"
)

// ErrSectionNotFound is returned when a section id does not exist.
var ErrSectionNotFound = errors.New("section not found")

// ErrCartNotFound is returned when a cart record id does not exist.
var ErrCartNotFound = errors.New("cart not found")

// ErrSnapshotNotFound is returned when a loadout snapshot id does not exist.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// ErrSnapshotCartNotFound is returned when a snapshot exists but has no
// cart with the requested number.
var ErrSnapshotCartNotFound = errors.New("snapshot cart not found")

// ErrRowCapExceeded is returned when an entry upsert would exceed the
// owning section's daily cap. The store is left unchanged.
var ErrRowCapExceeded = errors.New("rows exceed section daily cap")

// Store is the full record-store contract. Mutations are synchronous
// read-modify-persist cycles; implementations serialize them so callers
// get single-writer semantics without their own locking. Reads return
// consistent copies that callers may retain.
type Store interface {
	// ListSections returns all sections ordered by ascending order_index.
	ListSections(ctx context.Context) ([]model.Section, error)
	// GetSection returns one section or ErrSectionNotFound.
	GetSection(ctx context.Context, id uint64) (*model.Section, error)

	// UpsertEntry creates or replaces the entry for (sectionID, date).
	// It fails with ErrSectionNotFound for an unknown section and with
	// ErrRowCapExceeded when rows is above the section's daily cap,
	// leaving the store untouched in both cases.
	UpsertEntry(ctx context.Context, sectionID uint64, date string, rows int) error
	// ListEntriesForDate returns the entries logged on one date.
	ListEntriesForDate(ctx context.Context, date string) ([]model.Entry, error)
	// ListEntriesBetween returns entries with from <= date <= to.
	ListEntriesBetween(ctx context.Context, from, to string) ([]model.Entry, error)

	// CreateCart inserts a manual cart record and fills in its id and
	// audit timestamps.
	CreateCart(ctx context.Context, c *model.CartRecord) error
	// UpdateCart patches rows and/or shelved (nil means leave as is) and
	// returns the updated record, or ErrCartNotFound.
	UpdateCart(ctx context.Context, id uint64, rows *int, shelved *bool) (*model.CartRecord, error)
	// DeleteCart removes a cart record, or returns ErrCartNotFound.
	DeleteCart(ctx context.Context, id uint64) error
	// ListCarts returns cart records, restricted to one date when date is
	// non-empty.
	ListCarts(ctx context.Context, date string) ([]model.CartRecord, error)
	// ListCartsBetween returns cart records with from <= date <= to.
	ListCartsBetween(ctx context.Context, from, to string) ([]model.CartRecord, error)

	// CreateSnapshot freezes a loadout result, filling in id and
	// created_at. The carts' row contents are immutable afterwards.
	CreateSnapshot(ctx context.Context, s *model.LoadoutSnapshot) error
	// ListSnapshots returns snapshots, restricted to one date when date
	// is non-empty.
	ListSnapshots(ctx context.Context, date string) ([]model.LoadoutSnapshot, error)
	// SetSnapshotCartShelved toggles the shelved flag of one cart inside
	// a snapshot.
	SetSnapshotCartShelved(ctx context.Context, id uint64, cart int, shelved bool) error

	// Normalize runs the one-time migration for historical naming
	// schemes: sections without a group get group = code. It runs at
	// startup, before any engine sees the data.
	Normalize(ctx context.Context) error
}
