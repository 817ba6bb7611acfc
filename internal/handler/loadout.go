package handler // loadout building endpoints

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/library-shelving/internal/loadout"
	"github.com/iliyamo/library-shelving/internal/model"
)

// loadoutResponse wraps an allocation result with the cart size that
// produced it, so the client can render capacity without re-deriving it.
type loadoutResponse struct {
	CartSize int `json:"cartSize"`
	model.LoadoutResult
}

// GetLoadouts handles GET /api/loadouts?date=&cartSize= and builds the
// full loadout for the date across all sections. Cart sizes outside
// 1..50 fall back to the default of 6.
func (h *ShelvingHandler) GetLoadouts(c echo.Context) error {
	date, ok := queryDate(c)
	if !ok {
		return badDate(c)
	}
	cartSize := defaultCartSize
	if raw := c.QueryParam("cartSize"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= maxCartSize {
			cartSize = n
		}
	}
	return h.respondLoadout(c, date, cartSize, nil)
}

// CustomLoadouts handles POST /api/loadouts/custom and builds a loadout
// restricted to the requested section ids. An empty sectionIds list
// means no filter, not an empty loadout.
func (h *ShelvingHandler) CustomLoadouts(c echo.Context) error {
	var body struct {
		Date       string   `json:"date"`
		CartSize   int      `json:"cartSize"`
		SectionIDs []uint64 `json:"sectionIds"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
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
	return h.respondLoadout(c, date, cartSize, body.SectionIDs)
}

// respondLoadout fetches the records the allocation engine needs, runs
// it and writes the response.
func (h *ShelvingHandler) respondLoadout(c echo.Context, date string, cartSize int, filter []uint64) error {
	ctx := c.Request().Context()
	sections, err := h.Store.ListSections(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	entries, err := h.Store.ListEntriesForDate(ctx, date)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	result := loadout.Build(date, cartSize, filter, sections, entries)
	return c.JSON(http.StatusOK, loadoutResponse{CartSize: cartSize, LoadoutResult: result})
}
