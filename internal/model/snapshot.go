package model

// SnapshotCart is one cart inside a frozen loadout snapshot. The row
// contents never change after the snapshot is taken; only the Shelved
// flag is mutable, toggled per cart as staff work through them.
type SnapshotCart struct {
	Cart    int              `json:"cart"`
	Rows    []LoadoutRowUnit `json:"rows"`
	Shelved bool             `json:"shelved"`
}

// LoadoutSnapshot is an immutable copy of an allocation result taken at
// a point in time, annotated with the staff initials that took it, the
// cart size used, and optionally the location group it was scoped to.
type LoadoutSnapshot struct {
	ID        uint64         `json:"id"`
	Date      string         `json:"date"` // YYYY-MM-DD the loadout was built for
	Initials  string         `json:"initials"`
	CartSize  int            `json:"cart_size"`
	CreatedAt string         `json:"created_at"`
	Carts     []SnapshotCart `json:"carts"`
	Group     string         `json:"group,omitempty"` // empty for snapshots covering all sections
}
