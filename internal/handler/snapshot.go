package handler // loadout snapshot endpoints

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/library-shelving/internal/loadout"
	"github.com/iliyamo/library-shelving/internal/model"
	"github.com/iliyamo/library-shelving/internal/store"
)

// CreateSnapshot handles POST /api/loadout-snapshots. It builds the
// loadout for the requested date and freezes it under the given staff
// initials. When a group is supplied the loadout is scoped to that
// group's sections; explicit sectionIds are honored otherwise.
func (h *ShelvingHandler) CreateSnapshot(c echo.Context) error {
	var body struct {
		Date       string   `json:"date"`
		Initials   string   `json:"initials"`
		CartSize   int      `json:"cartSize"`
		SectionIDs []uint64 `json:"sectionIds"`
		Group      string   `json:"group"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	initials := strings.TrimSpace(body.Initials)
	if initials == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "initials required"})
	}
	date := body.Date
	if date == "" {
		date = model.Today()
	} else if _, err := model.ParseDate(date); err != nil {
		return badDate(c)
	}
	cartSize := body.CartSize
	if cartSize <= 0 || cartSize > maxCartSize {
		cartSize = defaultCartSize
	}

	ctx := c.Request().Context()
	sections, err := h.Store.ListSections(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}

	filter := body.SectionIDs
	if body.Group != "" {
		// A group scope wins over explicit ids: freeze exactly the
		// sections belonging to that location group.
		filter = nil
		for _, s := range sections {
			if s.GroupOf() == body.Group {
				filter = append(filter, s.ID)
			}
		}
	}

	entries, err := h.Store.ListEntriesForDate(ctx, date)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	result := loadout.Build(date, cartSize, filter, sections, entries)

	snap := model.LoadoutSnapshot{
		Date:     date,
		Initials: initials,
		CartSize: cartSize,
		Group:    body.Group,
		Carts:    make([]model.SnapshotCart, 0, len(result.Carts)),
	}
	for _, cart := range result.Carts {
		snap.Carts = append(snap.Carts, model.SnapshotCart{Cart: cart.Cart, Rows: cart.Rows})
	}
	if err := h.Store.CreateSnapshot(ctx, &snap); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not create snapshot"})
	}
	return c.JSON(http.StatusOK, snap)
}

// GetSnapshots handles GET /api/loadout-snapshots?date= and lists
// snapshots, optionally for one date.
func (h *ShelvingHandler) GetSnapshots(c echo.Context) error {
	date := c.QueryParam("date")
	if date != "" {
		if _, err := model.ParseDate(date); err != nil {
			return badDate(c)
		}
	}
	snaps, err := h.Store.ListSnapshots(c.Request().Context(), date)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	return c.JSON(http.StatusOK, snaps)
}

// PatchSnapshotCart handles PATCH /api/loadout-snapshots/:id/carts/:cart
// and toggles the shelved flag of one cart inside a frozen snapshot.
func (h *ShelvingHandler) PatchSnapshotCart(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	cart, err := strconv.Atoi(c.Param("cart"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid cart number"})
	}
	var body struct {
		Shelved bool `json:"shelved"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if err := h.Store.SetSnapshotCartShelved(c.Request().Context(), id, cart, body.Shelved); err != nil {
		if errors.Is(err, store.ErrSnapshotNotFound) || errors.Is(err, store.ErrSnapshotCartNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}
