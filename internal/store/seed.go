package store

import "github.com/iliyamo/library-shelving/internal/model"

// intPtr is a tiny helper for optional daily caps in the seed data.
func intPtr(n int) *int { return &n }

// SeedSections is the default section layout a fresh store starts with.
// Order index doubles as the shelving walk order through the building.
func SeedSections() []model.Section {
	return []model.Section{
		{ID: 1, Code: "A–GV", Name: "A–GV (3rd floor, overflow trucks)", Group: "3rd Floor", OrderIndex: 1},
		{ID: 2, Code: "H–HX", Name: "H–HX (2nd floor, overflow trucks)", Group: "2nd Floor", OrderIndex: 2},
		{ID: 3, Code: "J–NX", Name: "J–NX (basement movable shelves)", Group: "Basement", OrderIndex: 3},
		{ID: 4, Code: "P–Z", Name: "P–Z (movable shelves near study room)", Group: "Study Area", OrderIndex: 4},
		{ID: 5, Code: "A–Z", Name: "A–Z (white stripes carts & shelves)", Group: "White Stripes", OrderIndex: 5},
		{ID: 6, Code: "Docs", Name: "Documents (movable shelves after bound journals)", Group: "Documents", OrderIndex: 6},
		{ID: 7, Code: "CHYAC/Ref", Name: "CHYAC/Reference (N10 wall, special rows)", Group: "Special", DailyCap: intPtr(3), OrderIndex: 7},
		{ID: 8, Code: "Oversize", Name: "Oversize (2nd floor rough shelving area)", Group: "Oversize", DailyCap: intPtr(2), OrderIndex: 8},
	}
}
