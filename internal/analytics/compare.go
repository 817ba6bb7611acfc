package analytics

import (
	"sort"

	"github.com/iliyamo/library-shelving/internal/model"
)

// GroupComparison is the day-over-day entry-row delta for one group.
type GroupComparison struct {
	Group     string `json:"group"`
	TodayRows int    `json:"todayRows"`
	PrevRows  int    `json:"prevRows"`
	Delta     int    `json:"delta"` // signed: TodayRows - PrevRows
}

// CompareGroups sums entry rows per location group on each of the two
// dates and reports the signed delta.
//
// Every group that has at least one section appears, including groups
// with zero activity on both dates. That deliberately differs from the
// cart and period engines, which omit idle groups; callers rely on the
// full group list here to render a stable comparison table.
func CompareGroups(date, prevDate string, sections []model.Section, entries []model.Entry) ([]GroupComparison, error) {
	if _, err := model.ParseDate(date); err != nil {
		return nil, err
	}
	if _, err := model.ParseDate(prevDate); err != nil {
		return nil, err
	}

	groupBySection := make(map[uint64]string, len(sections))
	rows := make(map[string]*GroupComparison)
	for _, s := range sections {
		g := s.GroupOf()
		groupBySection[s.ID] = g
		if rows[g] == nil {
			rows[g] = &GroupComparison{Group: g}
		}
	}

	for _, e := range entries {
		g, ok := groupBySection[e.SectionID]
		if !ok {
			continue
		}
		switch e.Date {
		case date:
			rows[g].TodayRows += e.Rows
		case prevDate:
			rows[g].PrevRows += e.Rows
		}
	}

	out := make([]GroupComparison, 0, len(rows))
	for _, r := range rows {
		r.Delta = r.TodayRows - r.PrevRows
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Group < out[j].Group })
	return out, nil
}
