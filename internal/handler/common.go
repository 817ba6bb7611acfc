package handler // handler defines the HTTP handlers for the shelving API

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/library-shelving/internal/model"
	"github.com/iliyamo/library-shelving/internal/store"
)

// Cart size bounds for loadout building. Values outside the range fall
// back to the default rather than erroring, matching the workflow where
// staff type a size into the UI.
const (
	defaultCartSize = 6
	maxCartSize     = 50
)

// maxEntryRows is the sanity ceiling on a single day's logged rows for
// one section, independent of any per-section daily cap.
const maxEntryRows = 500

// ShelvingHandler bundles the record store behind every endpoint. The
// engines themselves are pure functions; the handler's job is to fetch
// the right slice of records, run them, and translate errors.
type ShelvingHandler struct {
	Store store.Store // Store is the record store (file or MySQL backed)
}

// NewShelvingHandler constructs a ShelvingHandler and panics if the
// store is missing, since every route needs it.
func NewShelvingHandler(st store.Store) *ShelvingHandler {
	if st == nil {
		panic("nil store passed to NewShelvingHandler")
	}
	return &ShelvingHandler{Store: st}
}

// queryDate reads the date query parameter, defaulting to today (UTC).
// The bool reports whether the value is a valid calendar date.
func queryDate(c echo.Context) (string, bool) {
	date := c.QueryParam("date")
	if date == "" {
		return model.Today(), true
	}
	if _, err := model.ParseDate(date); err != nil {
		return date, false
	}
	return date, true
}

// badDate is the shared 400 response for malformed calendar dates.
func badDate(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, map[string]string{"error": "date must be YYYY-MM-DD"})
}
