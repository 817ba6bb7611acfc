package model

// CartRecord is a manually created physical cart. It is an independent
// counter per location group and has no relationship to section entries.
//
// Lifecycle: created with Shelved=false; Rows and Shelved may each be
// updated at any time; the record may be deleted.
type CartRecord struct {
	ID        uint64 `json:"id"`         // carts.id
	Date      string `json:"date"`       // carts.cart_date, YYYY-MM-DD
	Group     string `json:"group"`      // carts.group_name, location group served
	Initials  string `json:"initials"`   // carts.initials, staff attribution
	Rows      int    `json:"rows"`       // carts.row_count, non-negative
	Shelved   bool   `json:"shelved"`    // carts.shelved, fully shelved flag
	CreatedAt string `json:"created_at"` // carts.created_at
	UpdatedAt string `json:"updated_at"` // carts.updated_at
}
