package handler // statistics and analytics endpoints

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/library-shelving/internal/analytics"
	"github.com/iliyamo/library-shelving/internal/model"
)

// DailyStats handles GET /api/stats/daily?date= and returns per-group
// cart rollups for the date, including carry-over carts from the day
// before.
func (h *ShelvingHandler) DailyStats(c echo.Context) error {
	date, ok := queryDate(c)
	if !ok {
		return badDate(c)
	}
	prev, _ := model.PrevDay(date)

	ctx := c.Request().Context()
	sections, err := h.Store.ListSections(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	entries, err := h.Store.ListEntriesBetween(ctx, prev, date)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	carts, err := h.Store.ListCartsBetween(ctx, prev, date)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}

	stats, err := analytics.DailyCartStats(date, sections, entries, carts)
	if err != nil {
		return badDate(c)
	}
	return c.JSON(http.StatusOK, stats)
}

// Analytics handles GET /api/analytics?date=&period= and returns the
// period analytics for the window ending at the anchor date. An unknown
// period falls back to week rather than erroring, so old clients keep
// working.
func (h *ShelvingHandler) Analytics(c echo.Context) error {
	anchor, ok := queryDate(c)
	if !ok {
		return badDate(c)
	}
	period := analytics.Period(c.QueryParam("period"))
	switch period {
	case analytics.PeriodWeek, analytics.PeriodMonth, analytics.PeriodYear:
	default:
		period = analytics.PeriodWeek
	}

	// Fetch one day more than the window so the engine can fill the
	// prev-day baseline.
	end, _ := model.ParseDate(anchor)
	var start time.Time
	switch period {
	case analytics.PeriodMonth:
		start = model.MonthStart(end)
	case analytics.PeriodYear:
		start = model.YearStart(end)
	default:
		start = model.WeekStart(end)
	}
	from := model.FormatDate(start.AddDate(0, 0, -1))

	ctx := c.Request().Context()
	sections, err := h.Store.ListSections(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	entries, err := h.Store.ListEntriesBetween(ctx, from, anchor)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	carts, err := h.Store.ListCartsBetween(ctx, from, anchor)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}

	res, err := analytics.ComputePeriodAnalytics(anchor, period, sections, entries, carts)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "analytics failed"})
	}
	return c.JSON(http.StatusOK, res)
}

// Overview handles GET /api/overview?date= and compares each group's
// logged rows against the previous day.
func (h *ShelvingHandler) Overview(c echo.Context) error {
	date, ok := queryDate(c)
	if !ok {
		return badDate(c)
	}
	prev, _ := model.PrevDay(date)

	ctx := c.Request().Context()
	sections, err := h.Store.ListSections(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	entries, err := h.Store.ListEntriesBetween(ctx, prev, date)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}

	groups, err := analytics.CompareGroups(date, prev, sections, entries)
	if err != nil {
		return badDate(c)
	}
	return c.JSON(http.StatusOK, map[string]any{"date": date, "prevDate": prev, "groups": groups})
}
