package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/iliyamo/library-shelving/internal/model"
)

func openTestStore(t *testing.T) *FileStore {
	t.Helper()
	fs, err := Open(filepath.Join(t.TempDir(), "data.json"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	return fs
}

func TestOpen_SeedsFreshStore(t *testing.T) {
	fs := openTestStore(t)
	sections, err := fs.ListSections(context.Background())
	if err != nil {
		t.Fatalf("ListSections failed: %v", err)
	}
	if len(sections) != 8 {
		t.Fatalf("Expected 8 seeded sections, got %d", len(sections))
	}
	for i, s := range sections {
		if s.OrderIndex != i+1 {
			t.Errorf("Section %d out of order: order_index %d", i, s.OrderIndex)
		}
	}
	if sections[0].Code != "A–GV" || sections[0].Group != "3rd Floor" {
		t.Errorf("Unexpected first section: %+v", sections[0])
	}
}

func TestUpsertEntry_CreateThenReplace(t *testing.T) {
	fs := openTestStore(t)
	ctx := context.Background()

	if err := fs.UpsertEntry(ctx, 1, "2024-03-06", 4); err != nil {
		t.Fatalf("UpsertEntry failed: %v", err)
	}
	if err := fs.UpsertEntry(ctx, 1, "2024-03-06", 9); err != nil {
		t.Fatalf("UpsertEntry replace failed: %v", err)
	}

	entries, err := fs.ListEntriesForDate(ctx, "2024-03-06")
	if err != nil {
		t.Fatalf("ListEntriesForDate failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry after upsert, got %d", len(entries))
	}
	if entries[0].Rows != 9 {
		t.Errorf("Expected rows 9 after replace, got %d", entries[0].Rows)
	}
}

func TestUpsertEntry_SectionErrors(t *testing.T) {
	fs := openTestStore(t)
	ctx := context.Background()

	if err := fs.UpsertEntry(ctx, 999, "2024-03-06", 1); !errors.Is(err, ErrSectionNotFound) {
		t.Errorf("Expected ErrSectionNotFound, got %v", err)
	}
	// Section 7 (CHYAC/Ref) is seeded with a daily cap of 3.
	if err := fs.UpsertEntry(ctx, 7, "2024-03-06", 4); !errors.Is(err, ErrRowCapExceeded) {
		t.Errorf("Expected ErrRowCapExceeded, got %v", err)
	}
	if err := fs.UpsertEntry(ctx, 7, "2024-03-06", 3); err != nil {
		t.Errorf("Rows at the cap must be accepted: %v", err)
	}
}

func TestListEntriesBetween(t *testing.T) {
	fs := openTestStore(t)
	ctx := context.Background()
	for _, d := range []string{"2024-03-04", "2024-03-05", "2024-03-06", "2024-03-07"} {
		if err := fs.UpsertEntry(ctx, 1, d, 1); err != nil {
			t.Fatalf("UpsertEntry failed: %v", err)
		}
	}
	entries, err := fs.ListEntriesBetween(ctx, "2024-03-05", "2024-03-06")
	if err != nil {
		t.Fatalf("ListEntriesBetween failed: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("Expected 2 entries in range, got %d", len(entries))
	}
}

func TestCartLifecycle(t *testing.T) {
	fs := openTestStore(t)
	ctx := context.Background()

	c := &model.CartRecord{Date: "2024-03-06", Group: "3rd Floor", Initials: "mk", Rows: 5, Shelved: true}
	if err := fs.CreateCart(ctx, c); err != nil {
		t.Fatalf("CreateCart failed: %v", err)
	}
	if c.ID == 0 || c.CreatedAt == "" {
		t.Errorf("Cart not fully populated: %+v", c)
	}
	if c.Shelved {
		t.Error("New carts must start unshelved regardless of input")
	}

	rows := 8
	shelved := true
	updated, err := fs.UpdateCart(ctx, c.ID, &rows, &shelved)
	if err != nil {
		t.Fatalf("UpdateCart failed: %v", err)
	}
	if updated.Rows != 8 || !updated.Shelved {
		t.Errorf("Update not applied: %+v", updated)
	}

	// Partial patch leaves the other field alone.
	updated, err = fs.UpdateCart(ctx, c.ID, nil, boolPtr(false))
	if err != nil {
		t.Fatalf("UpdateCart partial failed: %v", err)
	}
	if updated.Rows != 8 || updated.Shelved {
		t.Errorf("Partial update touched rows: %+v", updated)
	}

	if err := fs.DeleteCart(ctx, c.ID); err != nil {
		t.Fatalf("DeleteCart failed: %v", err)
	}
	if err := fs.DeleteCart(ctx, c.ID); !errors.Is(err, ErrCartNotFound) {
		t.Errorf("Expected ErrCartNotFound on double delete, got %v", err)
	}
	if _, err := fs.UpdateCart(ctx, c.ID, &rows, nil); !errors.Is(err, ErrCartNotFound) {
		t.Errorf("Expected ErrCartNotFound on update, got %v", err)
	}
}

func TestListCarts_DateFilter(t *testing.T) {
	fs := openTestStore(t)
	ctx := context.Background()
	for _, d := range []string{"2024-03-05", "2024-03-06", "2024-03-06"} {
		if err := fs.CreateCart(ctx, &model.CartRecord{Date: d, Group: "Basement", Initials: "jp", Rows: 1}); err != nil {
			t.Fatalf("CreateCart failed: %v", err)
		}
	}
	all, _ := fs.ListCarts(ctx, "")
	if len(all) != 3 {
		t.Errorf("Expected 3 carts unfiltered, got %d", len(all))
	}
	day, _ := fs.ListCarts(ctx, "2024-03-06")
	if len(day) != 2 {
		t.Errorf("Expected 2 carts for the date, got %d", len(day))
	}
	ranged, _ := fs.ListCartsBetween(ctx, "2024-03-05", "2024-03-05")
	if len(ranged) != 1 {
		t.Errorf("Expected 1 cart in range, got %d", len(ranged))
	}
}

func TestSnapshotLifecycle(t *testing.T) {
	fs := openTestStore(t)
	ctx := context.Background()

	snap := &model.LoadoutSnapshot{
		Date:     "2024-03-06",
		Initials: "mk",
		CartSize: 6,
		Carts: []model.SnapshotCart{
			{Cart: 1, Rows: []model.LoadoutRowUnit{{Cart: 1, SectionID: 1, SectionCode: "A–GV", UnitIndexWithinSection: 1}}},
			{Cart: 2, Rows: []model.LoadoutRowUnit{{Cart: 2, SectionID: 1, SectionCode: "A–GV", UnitIndexWithinSection: 2}}},
		},
	}
	if err := fs.CreateSnapshot(ctx, snap); err != nil {
		t.Fatalf("CreateSnapshot failed: %v", err)
	}
	if snap.ID == 0 || snap.CreatedAt == "" {
		t.Errorf("Snapshot not fully populated: %+v", snap)
	}

	if err := fs.SetSnapshotCartShelved(ctx, snap.ID, 2, true); err != nil {
		t.Fatalf("SetSnapshotCartShelved failed: %v", err)
	}
	if err := fs.SetSnapshotCartShelved(ctx, snap.ID, 9, true); !errors.Is(err, ErrSnapshotCartNotFound) {
		t.Errorf("Expected ErrSnapshotCartNotFound, got %v", err)
	}
	if err := fs.SetSnapshotCartShelved(ctx, 999, 1, true); !errors.Is(err, ErrSnapshotNotFound) {
		t.Errorf("Expected ErrSnapshotNotFound, got %v", err)
	}

	snaps, err := fs.ListSnapshots(ctx, "2024-03-06")
	if err != nil {
		t.Fatalf("ListSnapshots failed: %v", err)
	}
	if len(snaps) != 1 {
		t.Fatalf("Expected 1 snapshot, got %d", len(snaps))
	}
	got := snaps[0]
	if got.Carts[0].Shelved || !got.Carts[1].Shelved {
		t.Errorf("Shelved flags wrong: %+v", got.Carts)
	}
	// Row contents stay frozen.
	if len(got.Carts[1].Rows) != 1 || got.Carts[1].Rows[0].UnitIndexWithinSection != 2 {
		t.Errorf("Snapshot rows mutated: %+v", got.Carts[1].Rows)
	}

	none, _ := fs.ListSnapshots(ctx, "2024-03-07")
	if len(none) != 0 {
		t.Errorf("Expected no snapshots for other date, got %d", len(none))
	}
}

func TestSnapshot_ReturnedCopyIsDetached(t *testing.T) {
	fs := openTestStore(t)
	ctx := context.Background()

	snap := &model.LoadoutSnapshot{
		Date:     "2024-03-06",
		Initials: "mk",
		CartSize: 6,
		Carts: []model.SnapshotCart{
			{Cart: 1, Rows: []model.LoadoutRowUnit{{Cart: 1, SectionID: 1, UnitIndexWithinSection: 1}}},
		},
	}
	if err := fs.CreateSnapshot(ctx, snap); err != nil {
		t.Fatalf("CreateSnapshot failed: %v", err)
	}

	first, _ := fs.ListSnapshots(ctx, "")
	first[0].Carts[0].Rows[0].UnitIndexWithinSection = 42

	second, _ := fs.ListSnapshots(ctx, "")
	if second[0].Carts[0].Rows[0].UnitIndexWithinSection != 1 {
		t.Error("Mutating a returned snapshot leaked into the store")
	}
}

func TestPersistenceRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.json")
	ctx := context.Background()

	fs, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := fs.UpsertEntry(ctx, 1, "2024-03-06", 4); err != nil {
		t.Fatalf("UpsertEntry failed: %v", err)
	}
	cart := &model.CartRecord{Date: "2024-03-06", Group: "3rd Floor", Initials: "mk", Rows: 5}
	if err := fs.CreateCart(ctx, cart); err != nil {
		t.Fatalf("CreateCart failed: %v", err)
	}

	// A second Open on the same path sees everything the first wrote.
	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	entries, _ := reopened.ListEntriesForDate(ctx, "2024-03-06")
	if len(entries) != 1 || entries[0].Rows != 4 {
		t.Errorf("Entries lost across reopen: %+v", entries)
	}
	carts, _ := reopened.ListCarts(ctx, "")
	if len(carts) != 1 || carts[0].ID != cart.ID {
		t.Errorf("Carts lost across reopen: %+v", carts)
	}

	// Id sequences continue instead of restarting.
	next := &model.CartRecord{Date: "2024-03-07", Group: "Basement", Initials: "jp", Rows: 1}
	if err := reopened.CreateCart(ctx, next); err != nil {
		t.Fatalf("CreateCart after reopen failed: %v", err)
	}
	if next.ID <= cart.ID {
		t.Errorf("Cart id sequence restarted: %d after %d", next.ID, cart.ID)
	}
}

func TestNormalize_BackfillsGroups(t *testing.T) {
	fs := openTestStore(t)
	ctx := context.Background()

	fs.data.Sections[0].Group = ""
	if err := fs.Normalize(ctx); err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	sections, _ := fs.ListSections(ctx)
	if sections[0].Group != sections[0].Code {
		t.Errorf("Expected group backfilled to code, got %q", sections[0].Group)
	}
}

func boolPtr(b bool) *bool { return &b }
