package model

// Section is one physical shelving location staff log rows against.
// Sections are created at seed time (or administratively) and are never
// deleted during normal operation; only the one-time migration mutates
// them.
//
// Fields:
//  ID         – primary key identifier, stable once assigned.
//  Code       – short display key, e.g. "A–GV".
//  Name       – human readable label shown in the UI.
//  Group      – logical location grouping used by every aggregation;
//               defaults to Code when a legacy record has none.
//  DailyCap   – optional upper bound on rows per day, nil = unbounded.
//  OrderIndex – total order used for allocation and display.
type Section struct {
	ID         uint64 `json:"id"`          // sections.id
	Code       string `json:"code"`        // sections.code
	Name       string `json:"name"`        // sections.name
	Group      string `json:"group"`       // sections.group_name
	DailyCap   *int   `json:"daily_cap"`   // sections.daily_cap, NULL allowed
	OrderIndex int    `json:"order_index"` // sections.order_index
}

// GroupOf returns the section's aggregation group, falling back to the
// code for records the migration has not touched yet.
func (s Section) GroupOf() string {
	if s.Group != "" {
		return s.Group
	}
	return s.Code
}
