package model

// LoadoutRowUnit is a single row of materials placed on a cart. Units
// are numbered 1-based within their section and assigned to carts
// strictly in (section order_index, unit index) order.
type LoadoutRowUnit struct {
	Cart                   int    `json:"cart"`                      // 1-based cart number
	SectionID              uint64 `json:"section_id"`                // owning section
	SectionCode            string `json:"section_code"`              // denormalized for display
	UnitIndexWithinSection int    `json:"unit_index_within_section"` // nth row for that section and date
}

// LoadoutCart is one cart of a loadout with the row units assigned to it.
type LoadoutCart struct {
	Cart int              `json:"cart"`
	Rows []LoadoutRowUnit `json:"rows"`
}

// LoadoutResult is the allocation engine output for one date: every
// pending row unit partitioned into fixed-capacity carts. Carts are
// ordered ascending by cart number and the final cart may be partial.
type LoadoutResult struct {
	Date  string        `json:"date"`
	Carts []LoadoutCart `json:"carts"`
}
