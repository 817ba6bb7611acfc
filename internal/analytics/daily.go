// Package analytics implements the read-only reporting engines: daily
// cart statistics, period analytics over week/month/year windows, and
// the day-over-day group comparison. Every function here is a pure
// function of the records passed in — no store access, no memoization —
// so the handlers decide what slice of the data each computation sees.
package analytics

import (
	"sort"

	"github.com/iliyamo/library-shelving/internal/model"
)

// DailyGroupStat is the per-location-group rollup of manual cart records
// for one day.
type DailyGroupStat struct {
	Group              string `json:"group"`
	TotalRows          int    `json:"totalRows"`
	CartCount          int    `json:"cartCount"`
	ShelvedRows        int    `json:"shelvedRows"`
	PendingRows        int    `json:"pendingRows"`
	ShelvedCarts       int    `json:"shelvedCarts"`
	PendingCarts       int    `json:"pendingCarts"`
	DeducedShelvedRows int    `json:"deducedShelvedRows"`
}

// DailyStatsResult is the full daily cart statistics response.
type DailyStatsResult struct {
	Date       string           `json:"date"`
	Groups     []DailyGroupStat `json:"groups"`
	TotalRows  int              `json:"totalRows"`
	TotalCarts int              `json:"totalCarts"`
}

// DailyCartStats aggregates manual cart records for a date into
// per-group shelved/pending rollups.
//
// Carts dated the target date or the calendar day immediately before it
// are considered; a cart not yet shelved stays visible one extra day.
// Groups with no carts in that window are omitted entirely, and the
// groups that do appear are sorted by name.
//
// DeducedShelvedRows is a heuristic, not a ledger: the rise in logged
// entry rows for the group's sections versus the prior day (floored at
// zero) is taken as evidence of shelving activity even when nobody
// marked a cart shelved. When that delta is zero the explicit shelved
// row count is used instead. Treat it as a best-effort signal.
func DailyCartStats(date string, sections []model.Section, entries []model.Entry, carts []model.CartRecord) (DailyStatsResult, error) {
	if _, err := model.ParseDate(date); err != nil {
		return DailyStatsResult{}, err
	}
	prev, _ := model.PrevDay(date)

	stats := make(map[string]*DailyGroupStat)
	for _, c := range carts {
		if c.Date != date && c.Date != prev {
			continue
		}
		g := stats[c.Group]
		if g == nil {
			g = &DailyGroupStat{Group: c.Group}
			stats[c.Group] = g
		}
		g.TotalRows += c.Rows
		g.CartCount++
		if c.Shelved {
			g.ShelvedRows += c.Rows
			g.ShelvedCarts++
		} else {
			g.PendingRows += c.Rows
			g.PendingCarts++
		}
	}

	// Entry-row sums per group for the target date and the prior date,
	// used only by the deduced-shelved-rows heuristic.
	groupBySection := make(map[uint64]string, len(sections))
	for _, s := range sections {
		groupBySection[s.ID] = s.GroupOf()
	}
	todayRows := make(map[string]int)
	prevRows := make(map[string]int)
	for _, e := range entries {
		g, ok := groupBySection[e.SectionID]
		if !ok {
			continue
		}
		switch e.Date {
		case date:
			todayRows[g] += e.Rows
		case prev:
			prevRows[g] += e.Rows
		}
	}

	res := DailyStatsResult{Date: date, Groups: []DailyGroupStat{}}
	for _, g := range stats {
		deduced := todayRows[g.Group] - prevRows[g.Group]
		if deduced < 0 {
			deduced = 0
		}
		if deduced == 0 {
			deduced = g.ShelvedRows
		}
		g.DeducedShelvedRows = deduced

		res.Groups = append(res.Groups, *g)
		res.TotalRows += g.TotalRows
		res.TotalCarts += g.CartCount
	}
	sort.Slice(res.Groups, func(i, j int) bool { return res.Groups[i].Group < res.Groups[j].Group })
	return res, nil
}
