// Package loadout implements the cart allocation engine. Given the row
// counts logged for a date it partitions every pending row unit into
// sequentially numbered transport carts of fixed capacity, preserving
// section order. The engine is a pure function over the records it is
// handed; it never touches the store.
package loadout

import (
	"sort"

	"github.com/iliyamo/library-shelving/internal/model"
)

// Build computes the cart loadout for one date.
//
// Sections are walked in ascending order_index (restricted to
// sectionFilter when it is non-empty; an empty or nil filter means all
// sections, never "select nothing"). Each section contributes one row
// unit per logged row, numbered 1-based within the section, and the flat
// unit sequence is cut into consecutive carts of cartSize units. The
// defining guarantee is that units are assigned in strict
// (order_index, unit index) order with no reordering or interleaving.
//
// A cartSize below 1 is clamped to 1 rather than rejected. Absent
// entries and unknown filter ids simply contribute zero rows, so the
// engine has no failure mode: a date with no rows yields zero carts.
func Build(date string, cartSize int, sectionFilter []uint64, sections []model.Section, entries []model.Entry) model.LoadoutResult {
	if cartSize <= 0 {
		cartSize = 1
	}

	ordered := make([]model.Section, len(sections))
	copy(ordered, sections)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].OrderIndex < ordered[j].OrderIndex })

	if len(sectionFilter) > 0 {
		keep := make(map[uint64]bool, len(sectionFilter))
		for _, id := range sectionFilter {
			keep[id] = true
		}
		filtered := ordered[:0]
		for _, s := range ordered {
			if keep[s.ID] {
				filtered = append(filtered, s)
			}
		}
		ordered = filtered
	}

	// Row counts for the target date only; at most one entry per section.
	rowsFor := make(map[uint64]int, len(entries))
	for _, e := range entries {
		if e.Date == date {
			rowsFor[e.SectionID] = e.Rows
		}
	}

	var units []model.LoadoutRowUnit
	for _, s := range ordered {
		for i := 1; i <= rowsFor[s.ID]; i++ {
			units = append(units, model.LoadoutRowUnit{
				Cart:                   len(units)/cartSize + 1,
				SectionID:              s.ID,
				SectionCode:            s.Code,
				UnitIndexWithinSection: i,
			})
		}
	}

	carts := []model.LoadoutCart{}
	for start := 0; start < len(units); start += cartSize {
		end := start + cartSize
		if end > len(units) {
			end = len(units)
		}
		carts = append(carts, model.LoadoutCart{
			Cart: units[start].Cart,
			Rows: units[start:end:end],
		})
	}

	return model.LoadoutResult{Date: date, Carts: carts}
}
