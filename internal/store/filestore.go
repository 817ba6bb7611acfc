package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/iliyamo/library-shelving/internal/model"
)

// fileData is the on-disk shape: one JSON document holding every
// collection plus the monotonic id counters.
type fileData struct {
	Sections    []model.Section         `json:"sections"`
	Entries     []model.Entry           `json:"entries"`
	Carts       []model.CartRecord      `json:"carts"`
	Snapshots   []model.LoadoutSnapshot `json:"snapshots"`
	EntrySeq    uint64                  `json:"_entrySeq"`
	CartSeq     uint64                  `json:"_cartSeq"`
	SnapshotSeq uint64                  `json:"_snapshotSeq"`
}

// FileStore keeps the whole dataset in memory and rewrites the backing
// JSON file after every mutation. One mutex serializes mutations, which
// is exactly the implicit exclusive-lock contract callers assume; reads
// take the same lock and hand out copies.
type FileStore struct {
	mu   sync.Mutex
	path string
	data fileData
}

var _ Store = (*FileStore)(nil)

// Open loads the store from path, creating and seeding it when the file
// does not exist yet. A store that loads with zero sections is seeded
// with the default layout and persisted immediately.
func Open(path string) (*FileStore, error) {
	fs := &FileStore{path: path}
	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(raw, &fs.data); err != nil {
			return nil, fmt.Errorf("store: decode %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// fresh store
	default:
		return nil, fmt.Errorf("store: read %s: %w", path, err)
	}

	if fs.data.EntrySeq == 0 {
		fs.data.EntrySeq = 1
	}
	if fs.data.CartSeq == 0 {
		fs.data.CartSeq = 1
	}
	if fs.data.SnapshotSeq == 0 {
		fs.data.SnapshotSeq = 1
	}
	if len(fs.data.Sections) == 0 {
		fs.data.Sections = SeedSections()
	}
	if err := fs.persist(); err != nil {
		return nil, err
	}
	return fs, nil
}

// persist rewrites the backing file. Callers must hold the mutex (or be
// the only goroutine with a reference, as during Open).
func (fs *FileStore) persist() error {
	raw, err := json.MarshalIndent(&fs.data, "", "  ")
	if err != nil {
		return fmt.Errorf("store: encode: %w", err)
	}
	if err := os.WriteFile(fs.path, raw, 0o644); err != nil {
		return fmt.Errorf("store: write %s: %w", fs.path, err)
	}
	return nil
}

// ListSections returns every section ordered by ascending order_index.
func (fs *FileStore) ListSections(_ context.Context) ([]model.Section, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	out := make([]model.Section, len(fs.data.Sections))
	copy(out, fs.data.Sections)
	sort.Slice(out, func(i, j int) bool { return out[i].OrderIndex < out[j].OrderIndex })
	return out, nil
}

// GetSection returns one section by id or ErrSectionNotFound.
func (fs *FileStore) GetSection(_ context.Context, id uint64) (*model.Section, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	for _, s := range fs.data.Sections {
		if s.ID == id {
			cp := s
			return &cp, nil
		}
	}
	return nil, ErrSectionNotFound
}

// UpsertEntry creates or replaces the entry for (sectionID, date). The
// daily cap is checked before anything is touched.
func (fs *FileStore) UpsertEntry(_ context.Context, sectionID uint64, date string, rows int) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	var sec *model.Section
	for i := range fs.data.Sections {
		if fs.data.Sections[i].ID == sectionID {
			sec = &fs.data.Sections[i]
			break
		}
	}
	if sec == nil {
		return ErrSectionNotFound
	}
	if sec.DailyCap != nil && rows > *sec.DailyCap {
		return ErrRowCapExceeded
	}

	now := model.NowStamp()
	for i := range fs.data.Entries {
		e := &fs.data.Entries[i]
		if e.SectionID == sectionID && e.Date == date {
			e.Rows = rows
			e.UpdatedAt = now
			return fs.persist()
		}
	}
	fs.data.Entries = append(fs.data.Entries, model.Entry{
		ID:        fs.data.EntrySeq,
		SectionID: sectionID,
		Date:      date,
		Rows:      rows,
		CreatedAt: now,
		UpdatedAt: now,
	})
	fs.data.EntrySeq++
	return fs.persist()
}

// ListEntriesForDate returns the entries logged on one date.
func (fs *FileStore) ListEntriesForDate(_ context.Context, date string) ([]model.Entry, error) {
	return fs.entriesWhere(func(e model.Entry) bool { return e.Date == date })
}

// ListEntriesBetween returns entries with from <= date <= to. ISO dates
// compare correctly as strings.
func (fs *FileStore) ListEntriesBetween(_ context.Context, from, to string) ([]model.Entry, error) {
	return fs.entriesWhere(func(e model.Entry) bool { return e.Date >= from && e.Date <= to })
}

func (fs *FileStore) entriesWhere(keep func(model.Entry) bool) ([]model.Entry, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	out := []model.Entry{}
	for _, e := range fs.data.Entries {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out, nil
}

// CreateCart inserts a manual cart record, assigning id and timestamps.
// New carts always start unshelved.
func (fs *FileStore) CreateCart(_ context.Context, c *model.CartRecord) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	now := model.NowStamp()
	c.ID = fs.data.CartSeq
	c.Shelved = false
	c.CreatedAt = now
	c.UpdatedAt = now
	fs.data.CartSeq++
	fs.data.Carts = append(fs.data.Carts, *c)
	return fs.persist()
}

// UpdateCart patches rows and/or shelved and returns the updated record.
func (fs *FileStore) UpdateCart(_ context.Context, id uint64, rows *int, shelved *bool) (*model.CartRecord, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	for i := range fs.data.Carts {
		c := &fs.data.Carts[i]
		if c.ID != id {
			continue
		}
		if rows != nil {
			c.Rows = *rows
		}
		if shelved != nil {
			c.Shelved = *shelved
		}
		c.UpdatedAt = model.NowStamp()
		cp := *c
		return &cp, fs.persist()
	}
	return nil, ErrCartNotFound
}

// DeleteCart removes a cart record by id.
func (fs *FileStore) DeleteCart(_ context.Context, id uint64) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	for i := range fs.data.Carts {
		if fs.data.Carts[i].ID == id {
			fs.data.Carts = append(fs.data.Carts[:i], fs.data.Carts[i+1:]...)
			return fs.persist()
		}
	}
	return ErrCartNotFound
}

// ListCarts returns cart records, restricted to one date when date is
// non-empty.
func (fs *FileStore) ListCarts(_ context.Context, date string) ([]model.CartRecord, error) {
	return fs.cartsWhere(func(c model.CartRecord) bool { return date == "" || c.Date == date })
}

// ListCartsBetween returns cart records with from <= date <= to.
func (fs *FileStore) ListCartsBetween(_ context.Context, from, to string) ([]model.CartRecord, error) {
	return fs.cartsWhere(func(c model.CartRecord) bool { return c.Date >= from && c.Date <= to })
}

func (fs *FileStore) cartsWhere(keep func(model.CartRecord) bool) ([]model.CartRecord, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	out := []model.CartRecord{}
	for _, c := range fs.data.Carts {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out, nil
}

// CreateSnapshot freezes a loadout result under a new id.
func (fs *FileStore) CreateSnapshot(_ context.Context, s *model.LoadoutSnapshot) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	s.ID = fs.data.SnapshotSeq
	s.CreatedAt = model.NowStamp()
	fs.data.SnapshotSeq++
	fs.data.Snapshots = append(fs.data.Snapshots, copySnapshot(*s))
	return fs.persist()
}

// ListSnapshots returns snapshots, newest last, optionally for one date.
func (fs *FileStore) ListSnapshots(_ context.Context, date string) ([]model.LoadoutSnapshot, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	out := []model.LoadoutSnapshot{}
	for _, s := range fs.data.Snapshots {
		if date == "" || s.Date == date {
			out = append(out, copySnapshot(s))
		}
	}
	return out, nil
}

// SetSnapshotCartShelved toggles the shelved flag of one cart inside a
// snapshot. Row contents are never touched.
func (fs *FileStore) SetSnapshotCartShelved(_ context.Context, id uint64, cart int, shelved bool) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	for i := range fs.data.Snapshots {
		s := &fs.data.Snapshots[i]
		if s.ID != id {
			continue
		}
		for j := range s.Carts {
			if s.Carts[j].Cart == cart {
				s.Carts[j].Shelved = shelved
				return fs.persist()
			}
		}
		return ErrSnapshotCartNotFound
	}
	return ErrSnapshotNotFound
}

// Normalize backfills the group field for sections written before groups
// existed: a missing group becomes the section code. Runs once at
// startup so no getter ever migrates inline.
func (fs *FileStore) Normalize(_ context.Context) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	mutated := false
	for i := range fs.data.Sections {
		if fs.data.Sections[i].Group == "" {
			fs.data.Sections[i].Group = fs.data.Sections[i].Code
			mutated = true
		}
	}
	if !mutated {
		return nil
	}
	return fs.persist()
}

// copySnapshot deep-copies a snapshot so callers cannot mutate the
// store's row units through a returned slice.
func copySnapshot(s model.LoadoutSnapshot) model.LoadoutSnapshot {
	carts := make([]model.SnapshotCart, len(s.Carts))
	for i, c := range s.Carts {
		rows := make([]model.LoadoutRowUnit, len(c.Rows))
		copy(rows, c.Rows)
		carts[i] = model.SnapshotCart{Cart: c.Cart, Rows: rows, Shelved: c.Shelved}
	}
	s.Carts = carts
	return s
}
