package handler // entry logging endpoints

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/library-shelving/internal/model"
	"github.com/iliyamo/library-shelving/internal/queue"
	"github.com/iliyamo/library-shelving/internal/service"
	"github.com/iliyamo/library-shelving/internal/store"
)

// entryWithSection joins an entry with its section's display fields so
// the client does not need a second request per row.
type entryWithSection struct {
	model.Entry
	Code     string `json:"code"`
	Name     string `json:"name"`
	DailyCap *int   `json:"daily_cap"`
}

// GetEntries handles GET /api/entries?date= and returns the entries
// logged for the date (default today), each joined with the owning
// section's code, name and daily cap.
func (h *ShelvingHandler) GetEntries(c echo.Context) error {
	date, ok := queryDate(c)
	if !ok {
		return badDate(c)
	}
	ctx := c.Request().Context()
	sections, err := h.Store.ListSections(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	entries, err := h.Store.ListEntriesForDate(ctx, date)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}

	byID := make(map[uint64]model.Section, len(sections))
	for _, s := range sections {
		byID[s.ID] = s
	}
	out := []entryWithSection{}
	for _, e := range entries {
		s := byID[e.SectionID]
		out = append(out, entryWithSection{Entry: e, Code: s.Code, Name: s.Name, DailyCap: s.DailyCap})
	}
	return c.JSON(http.StatusOK, map[string]any{"date": date, "entries": out})
}

// CreateEntry handles POST /api/entries and upserts the row count for
// one section and date. Rows above the section's daily cap are rejected
// before anything is written.
func (h *ShelvingHandler) CreateEntry(c echo.Context) error {
	var body struct {
		SectionID uint64 `json:"sectionId"`
		Date      string `json:"date"`
		Rows      int    `json:"rows"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if _, err := model.ParseDate(body.Date); err != nil {
		return badDate(c)
	}
	if body.Rows < 0 || body.Rows > maxEntryRows {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("rows must be between 0 and %d", maxEntryRows)})
	}

	ctx := c.Request().Context()
	section, err := h.Store.GetSection(ctx, body.SectionID)
	if err != nil {
		if errors.Is(err, store.ErrSectionNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "section not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}

	if err := h.Store.UpsertEntry(ctx, body.SectionID, body.Date, body.Rows); err != nil {
		if errors.Is(err, store.ErrRowCapExceeded) {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": fmt.Sprintf("rows exceed cap (%d) for section %s", *section.DailyCap, section.Code),
			})
		}
		if errors.Is(err, store.ErrSectionNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "section not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not save entry"})
	}

	// Fire-and-forget activity event; a broker outage must not fail the
	// logging workflow.
	ev := queue.ActivityEvent{
		Type:        queue.ActivityEntryLogged,
		Date:        body.Date,
		Group:       section.GroupOf(),
		SectionCode: section.Code,
		Rows:        body.Rows,
		OccurredAt:  model.NowStamp(),
	}
	go func() { _ = service.PublishActivity(context.Background(), ev) }()

	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}
