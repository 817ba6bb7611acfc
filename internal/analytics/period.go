package analytics

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/iliyamo/library-shelving/internal/model"
)

// Period selects the calendar window for period analytics.
type Period string

// Supported analytics periods.
const (
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

// ErrUnknownPeriod is returned for a period other than week/month/year.
var ErrUnknownPeriod = errors.New("unknown analytics period")

// DailyPoint is one day of the daily series: total entry rows logged and
// total manual cart rows created on that exact date. Unlike the daily
// cart statistics there is no carry-over adjustment here.
type DailyPoint struct {
	Date      string `json:"date"`
	EntryRows int    `json:"entryRows"`
	CartRows  int    `json:"cartRows"`
}

// GroupPeriodStat accumulates one group's activity across the window.
type GroupPeriodStat struct {
	Group        string `json:"group"`
	EntryRows    int    `json:"entryRows"`
	CartRows     int    `json:"cartRows"`
	CartCount    int    `json:"cartCount"`
	ShelvedCarts int    `json:"shelvedCarts"`
	PendingCarts int    `json:"pendingCarts"`
}

// PeriodTotals sums the group metrics across all groups.
// TotalRowsCombined is always EntryRows + CartRows.
type PeriodTotals struct {
	EntryRows         int `json:"entryRows"`
	CartRows          int `json:"cartRows"`
	CartCount         int `json:"cartCount"`
	ShelvedCarts      int `json:"shelvedCarts"`
	PendingCarts      int `json:"pendingCarts"`
	TotalRowsCombined int `json:"totalRowsCombined"`
}

// SeriesBucket is one display bucket of the aggregated series: a day for
// week periods, an ISO week for month periods, a calendar month for year
// periods.
type SeriesBucket struct {
	Label     string `json:"label"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	EntryRows int    `json:"entryRows"`
	CartRows  int    `json:"cartRows"`
}

// PrevDaySummary is the activity on the calendar day immediately before
// the window begins, shown as the "before" baseline.
type PrevDaySummary struct {
	Date      string `json:"date"`
	EntryRows int    `json:"entryRows"`
	CartRows  int    `json:"cartRows"`
	TotalRows int    `json:"totalRows"`
}

// PeriodAnalyticsResult is the full period analytics response.
type PeriodAnalyticsResult struct {
	Period           Period            `json:"period"`
	StartDate        string            `json:"startDate"`
	EndDate          string            `json:"endDate"`
	Groups           []GroupPeriodStat `json:"groups"`
	Totals           PeriodTotals      `json:"totals"`
	DailySeries      []DailyPoint      `json:"dailySeries"`
	AggregatedSeries []SeriesBucket    `json:"aggregatedSeries"`
	PrevDay          PrevDaySummary    `json:"prevDay"`
}

// ComputePeriodAnalytics aggregates entry rows and cart rows over the
// calendar window ending at the anchor date.
//
// The window runs from the first day of the containing period (Monday
// for week, the 1st for month, January 1 for year, all UTC) through the
// anchor inclusive — it never extends past the anchor, so a Wednesday
// anchor yields a three-day week window. Groups with neither an entry
// nor a cart in-window are omitted; the ones present are sorted by name.
func ComputePeriodAnalytics(anchor string, period Period, sections []model.Section, entries []model.Entry, carts []model.CartRecord) (*PeriodAnalyticsResult, error) {
	end, err := model.ParseDate(anchor)
	if err != nil {
		return nil, err
	}

	var start time.Time
	switch period {
	case PeriodWeek:
		start = model.WeekStart(end)
	case PeriodMonth:
		start = model.MonthStart(end)
	case PeriodYear:
		start = model.YearStart(end)
	default:
		return nil, ErrUnknownPeriod
	}

	res := &PeriodAnalyticsResult{
		Period:    period,
		StartDate: model.FormatDate(start),
		EndDate:   model.FormatDate(end),
		Groups:    []GroupPeriodStat{},
	}

	groupBySection := make(map[uint64]string, len(sections))
	for _, s := range sections {
		groupBySection[s.ID] = s.GroupOf()
	}

	// Index activity by exact date once; the daily series and the prev-day
	// baseline both read from these.
	entryRowsByDate := make(map[string]int)
	cartRowsByDate := make(map[string]int)
	for _, e := range entries {
		entryRowsByDate[e.Date] += e.Rows
	}
	for _, c := range carts {
		cartRowsByDate[c.Date] += c.Rows
	}

	inWindow := func(date string) bool {
		return date >= res.StartDate && date <= res.EndDate
	}

	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		ds := model.FormatDate(d)
		res.DailySeries = append(res.DailySeries, DailyPoint{
			Date:      ds,
			EntryRows: entryRowsByDate[ds],
			CartRows:  cartRowsByDate[ds],
		})
	}

	groups := make(map[string]*GroupPeriodStat)
	groupStat := func(name string) *GroupPeriodStat {
		g := groups[name]
		if g == nil {
			g = &GroupPeriodStat{Group: name}
			groups[name] = g
		}
		return g
	}
	for _, e := range entries {
		if !inWindow(e.Date) {
			continue
		}
		if name, ok := groupBySection[e.SectionID]; ok {
			groupStat(name).EntryRows += e.Rows
		}
	}
	for _, c := range carts {
		if !inWindow(c.Date) {
			continue
		}
		g := groupStat(c.Group)
		g.CartRows += c.Rows
		g.CartCount++
		if c.Shelved {
			g.ShelvedCarts++
		} else {
			g.PendingCarts++
		}
	}
	for _, g := range groups {
		res.Groups = append(res.Groups, *g)
		res.Totals.EntryRows += g.EntryRows
		res.Totals.CartRows += g.CartRows
		res.Totals.CartCount += g.CartCount
		res.Totals.ShelvedCarts += g.ShelvedCarts
		res.Totals.PendingCarts += g.PendingCarts
	}
	sort.Slice(res.Groups, func(i, j int) bool { return res.Groups[i].Group < res.Groups[j].Group })
	res.Totals.TotalRowsCombined = res.Totals.EntryRows + res.Totals.CartRows

	prevDate := model.FormatDate(start.AddDate(0, 0, -1))
	res.PrevDay = PrevDaySummary{
		Date:      prevDate,
		EntryRows: entryRowsByDate[prevDate],
		CartRows:  cartRowsByDate[prevDate],
	}
	res.PrevDay.TotalRows = res.PrevDay.EntryRows + res.PrevDay.CartRows

	res.AggregatedSeries = aggregateSeries(period, res.DailySeries)
	return res, nil
}

// aggregateSeries re-buckets the daily series for display: week periods
// pass through one bucket per day, month periods bucket by the ISO week
// each day falls in, year periods bucket by calendar month. Bucket
// bounds are clamped to the window.
func aggregateSeries(period Period, daily []DailyPoint) []SeriesBucket {
	out := []SeriesBucket{}
	if len(daily) == 0 {
		return out
	}

	if period == PeriodWeek {
		for _, p := range daily {
			t, _ := model.ParseDate(p.Date)
			out = append(out, SeriesBucket{
				Label:     t.Format("01-02"),
				StartDate: p.Date,
				EndDate:   p.Date,
				EntryRows: p.EntryRows,
				CartRows:  p.CartRows,
			})
		}
		return out
	}

	// Key every day to the start of its bucket, preserving day order so
	// buckets come out chronological.
	var cur *SeriesBucket
	var curKey string
	for _, p := range daily {
		t, _ := model.ParseDate(p.Date)
		var key string
		switch period {
		case PeriodMonth:
			key = model.FormatDate(model.WeekStart(t))
		case PeriodYear:
			key = model.FormatDate(model.MonthStart(t))
		}
		if cur == nil || key != curKey {
			start := key
			if start < daily[0].Date {
				start = daily[0].Date // clamp to window start
			}
			label := t.Format("2006-01")
			if period == PeriodMonth {
				label = fmt.Sprintf("Week of %s", start)
			}
			out = append(out, SeriesBucket{Label: label, StartDate: start, EndDate: p.Date})
			cur = &out[len(out)-1]
			curKey = key
		}
		cur.EndDate = p.Date
		cur.EntryRows += p.EntryRows
		cur.CartRows += p.CartRows
	}
	return out
}
