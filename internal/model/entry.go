package model

// Entry is the row count logged for one section on one calendar date.
// At most one entry exists per (section, date); the logging workflow
// upserts, replacing Rows in place. Entries are never deleted.
//
// CreatedAt/UpdatedAt are audit timestamps only; no engine reads them.
type Entry struct {
	ID        uint64 `json:"id"`         // entries.id
	SectionID uint64 `json:"section_id"` // entries.section_id
	Date      string `json:"date"`       // entries.entry_date, YYYY-MM-DD
	Rows      int    `json:"rows"`       // entries.row_count, non-negative
	CreatedAt string `json:"created_at"` // entries.created_at
	UpdatedAt string `json:"updated_at"` // entries.updated_at
}
