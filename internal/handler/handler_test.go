package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/library-shelving/internal/store"
)

func newTestHandler(t *testing.T) (*echo.Echo, *ShelvingHandler) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "data.json"))
	if err != nil {
		t.Fatalf("store open failed: %v", err)
	}
	return echo.New(), NewShelvingHandler(st)
}

func doJSON(t *testing.T, e *echo.Echo, method, target, body string, fn echo.HandlerFunc, params ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	var names, values []string
	for i := 0; i+1 < len(params); i += 2 {
		names = append(names, params[i])
		values = append(values, params[i+1])
	}
	if len(names) > 0 {
		c.SetParamNames(names...)
		c.SetParamValues(values...)
	}
	if err := fn(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec
}

func TestCreateEntry_Validation(t *testing.T) {
	e, h := newTestHandler(t)

	rec := doJSON(t, e, http.MethodPost, "/api/entries", `{"sectionId":1,"date":"03/06/2024","rows":2}`, h.CreateEntry)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Bad date: expected 400, got %d", rec.Code)
	}

	rec = doJSON(t, e, http.MethodPost, "/api/entries", `{"sectionId":1,"date":"2024-03-06","rows":501}`, h.CreateEntry)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Rows above ceiling: expected 400, got %d", rec.Code)
	}

	rec = doJSON(t, e, http.MethodPost, "/api/entries", `{"sectionId":999,"date":"2024-03-06","rows":1}`, h.CreateEntry)
	if rec.Code != http.StatusNotFound {
		t.Errorf("Unknown section: expected 404, got %d", rec.Code)
	}

	// Section 7 is seeded with a daily cap of 3.
	rec = doJSON(t, e, http.MethodPost, "/api/entries", `{"sectionId":7,"date":"2024-03-06","rows":4}`, h.CreateEntry)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Cap exceeded: expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "cap") {
		t.Errorf("Cap error should mention the cap: %s", rec.Body.String())
	}
}

func TestCreateEntry_ThenGetEntries(t *testing.T) {
	e, h := newTestHandler(t)

	rec := doJSON(t, e, http.MethodPost, "/api/entries", `{"sectionId":1,"date":"2024-03-06","rows":4}`, h.CreateEntry)
	if rec.Code != http.StatusOK {
		t.Fatalf("CreateEntry: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, e, http.MethodGet, "/api/entries?date=2024-03-06", "", h.GetEntries)
	if rec.Code != http.StatusOK {
		t.Fatalf("GetEntries: expected 200, got %d", rec.Code)
	}
	var resp struct {
		Date    string `json:"date"`
		Entries []struct {
			SectionID uint64 `json:"section_id"`
			Rows      int    `json:"rows"`
			Code      string `json:"code"`
		} `json:"entries"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if resp.Date != "2024-03-06" || len(resp.Entries) != 1 {
		t.Fatalf("Unexpected response: %s", rec.Body.String())
	}
	got := resp.Entries[0]
	if got.SectionID != 1 || got.Rows != 4 || got.Code != "A–GV" {
		t.Errorf("Entry join mismatch: %+v", got)
	}
}

func TestGetLoadouts(t *testing.T) {
	e, h := newTestHandler(t)

	doJSON(t, e, http.MethodPost, "/api/entries", `{"sectionId":1,"date":"2024-03-06","rows":4}`, h.CreateEntry)
	doJSON(t, e, http.MethodPost, "/api/entries", `{"sectionId":3,"date":"2024-03-06","rows":3}`, h.CreateEntry)

	rec := doJSON(t, e, http.MethodGet, "/api/loadouts?date=2024-03-06&cartSize=6", "", h.GetLoadouts)
	if rec.Code != http.StatusOK {
		t.Fatalf("GetLoadouts: expected 200, got %d", rec.Code)
	}
	var resp struct {
		CartSize int `json:"cartSize"`
		Carts    []struct {
			Cart int `json:"cart"`
			Rows []struct {
				SectionCode string `json:"section_code"`
			} `json:"rows"`
		} `json:"carts"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if resp.CartSize != 6 || len(resp.Carts) != 2 {
		t.Fatalf("Expected 2 carts of size 6, got %s", rec.Body.String())
	}
	if len(resp.Carts[0].Rows) != 6 || len(resp.Carts[1].Rows) != 1 {
		t.Errorf("Cart split mismatch: %s", rec.Body.String())
	}

	// Out-of-range cart size falls back to the default.
	rec = doJSON(t, e, http.MethodGet, "/api/loadouts?date=2024-03-06&cartSize=500", "", h.GetLoadouts)
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if resp.CartSize != defaultCartSize {
		t.Errorf("Expected fallback cart size %d, got %d", defaultCartSize, resp.CartSize)
	}
}

func TestCustomLoadouts_FilterAndEmptyFilter(t *testing.T) {
	e, h := newTestHandler(t)

	doJSON(t, e, http.MethodPost, "/api/entries", `{"sectionId":1,"date":"2024-03-06","rows":2}`, h.CreateEntry)
	doJSON(t, e, http.MethodPost, "/api/entries", `{"sectionId":3,"date":"2024-03-06","rows":2}`, h.CreateEntry)

	rec := doJSON(t, e, http.MethodPost, "/api/loadouts/custom", `{"date":"2024-03-06","cartSize":6,"sectionIds":[3]}`, h.CustomLoadouts)
	var resp struct {
		Carts []struct {
			Rows []struct {
				SectionID uint64 `json:"section_id"`
			} `json:"rows"`
		} `json:"carts"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(resp.Carts) != 1 || len(resp.Carts[0].Rows) != 2 {
		t.Fatalf("Filtered loadout mismatch: %s", rec.Body.String())
	}
	for _, r := range resp.Carts[0].Rows {
		if r.SectionID != 3 {
			t.Errorf("Unexpected section in filtered loadout: %d", r.SectionID)
		}
	}

	rec = doJSON(t, e, http.MethodPost, "/api/loadouts/custom", `{"date":"2024-03-06","cartSize":6,"sectionIds":[]}`, h.CustomLoadouts)
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(resp.Carts) != 1 || len(resp.Carts[0].Rows) != 4 {
		t.Errorf("Empty filter should cover all sections: %s", rec.Body.String())
	}
}

func TestSnapshotEndpoints(t *testing.T) {
	e, h := newTestHandler(t)

	doJSON(t, e, http.MethodPost, "/api/entries", `{"sectionId":1,"date":"2024-03-06","rows":2}`, h.CreateEntry)
	doJSON(t, e, http.MethodPost, "/api/entries", `{"sectionId":2,"date":"2024-03-06","rows":2}`, h.CreateEntry)

	rec := doJSON(t, e, http.MethodPost, "/api/loadout-snapshots", `{"date":"2024-03-06","cartSize":6}`, h.CreateSnapshot)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Missing initials: expected 400, got %d", rec.Code)
	}

	// Group scope restricts the frozen loadout to that group's sections.
	rec = doJSON(t, e, http.MethodPost, "/api/loadout-snapshots", `{"date":"2024-03-06","initials":"mk","cartSize":6,"group":"3rd Floor"}`, h.CreateSnapshot)
	if rec.Code != http.StatusOK {
		t.Fatalf("CreateSnapshot: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var snap struct {
		ID    uint64 `json:"id"`
		Group string `json:"group"`
		Carts []struct {
			Cart    int  `json:"cart"`
			Shelved bool `json:"shelved"`
			Rows    []struct {
				SectionID uint64 `json:"section_id"`
			} `json:"rows"`
		} `json:"carts"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if snap.ID == 0 || snap.Group != "3rd Floor" || len(snap.Carts) != 1 {
		t.Fatalf("Snapshot mismatch: %s", rec.Body.String())
	}
	for _, r := range snap.Carts[0].Rows {
		if r.SectionID != 1 {
			t.Errorf("Group scope leaked section %d", r.SectionID)
		}
	}

	rec = doJSON(t, e, http.MethodPatch, "/api/loadout-snapshots/1/carts/1", `{"shelved":true}`, h.PatchSnapshotCart, "id", "1", "cart", "1")
	if rec.Code != http.StatusOK {
		t.Fatalf("PatchSnapshotCart: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	rec = doJSON(t, e, http.MethodPatch, "/api/loadout-snapshots/1/carts/9", `{"shelved":true}`, h.PatchSnapshotCart, "id", "1", "cart", "9")
	if rec.Code != http.StatusNotFound {
		t.Errorf("Unknown cart: expected 404, got %d", rec.Code)
	}

	rec = doJSON(t, e, http.MethodGet, "/api/loadout-snapshots?date=2024-03-06", "", h.GetSnapshots)
	var snaps []json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &snaps); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(snaps) != 1 {
		t.Errorf("Expected 1 snapshot, got %d", len(snaps))
	}
}

func TestCartEndpoints(t *testing.T) {
	e, h := newTestHandler(t)

	rec := doJSON(t, e, http.MethodPost, "/api/carts", `{"date":"2024-03-06","group":"","initials":"mk","rows":5}`, h.CreateCart)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Missing group: expected 400, got %d", rec.Code)
	}

	rec = doJSON(t, e, http.MethodPost, "/api/carts", `{"date":"2024-03-06","group":"3rd Floor","initials":"mk","rows":5}`, h.CreateCart)
	if rec.Code != http.StatusOK {
		t.Fatalf("CreateCart: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var cart struct {
		ID      uint64 `json:"id"`
		Shelved bool   `json:"shelved"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &cart); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if cart.ID == 0 || cart.Shelved {
		t.Errorf("Cart mismatch: %s", rec.Body.String())
	}

	rec = doJSON(t, e, http.MethodPatch, "/api/carts/1", `{"shelved":true}`, h.UpdateCart, "id", "1")
	if rec.Code != http.StatusOK {
		t.Fatalf("UpdateCart: expected 200, got %d", rec.Code)
	}
	var updated struct {
		Rows    int  `json:"rows"`
		Shelved bool `json:"shelved"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !updated.Shelved || updated.Rows != 5 {
		t.Errorf("Partial patch mismatch: %s", rec.Body.String())
	}

	rec = doJSON(t, e, http.MethodDelete, "/api/carts/1", "", h.DeleteCart, "id", "1")
	if rec.Code != http.StatusOK {
		t.Fatalf("DeleteCart: expected 200, got %d", rec.Code)
	}
	rec = doJSON(t, e, http.MethodDelete, "/api/carts/1", "", h.DeleteCart, "id", "1")
	if rec.Code != http.StatusNotFound {
		t.Errorf("Double delete: expected 404, got %d", rec.Code)
	}
}

func TestStatsAndOverviewEndpoints(t *testing.T) {
	e, h := newTestHandler(t)

	doJSON(t, e, http.MethodPost, "/api/entries", `{"sectionId":1,"date":"2024-03-05","rows":2}`, h.CreateEntry)
	doJSON(t, e, http.MethodPost, "/api/entries", `{"sectionId":1,"date":"2024-03-06","rows":6}`, h.CreateEntry)
	doJSON(t, e, http.MethodPost, "/api/carts", `{"date":"2024-03-06","group":"3rd Floor","initials":"mk","rows":4}`, h.CreateCart)

	rec := doJSON(t, e, http.MethodGet, "/api/stats/daily?date=2024-03-06", "", h.DailyStats)
	if rec.Code != http.StatusOK {
		t.Fatalf("DailyStats: expected 200, got %d", rec.Code)
	}
	var stats struct {
		Groups []struct {
			Group              string `json:"group"`
			DeducedShelvedRows int    `json:"deducedShelvedRows"`
		} `json:"groups"`
		TotalRows int `json:"totalRows"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(stats.Groups) != 1 || stats.Groups[0].Group != "3rd Floor" || stats.TotalRows != 4 {
		t.Errorf("Daily stats mismatch: %s", rec.Body.String())
	}
	if stats.Groups[0].DeducedShelvedRows != 4 {
		t.Errorf("Expected deduced 4 from the entry delta, got %d", stats.Groups[0].DeducedShelvedRows)
	}

	rec = doJSON(t, e, http.MethodGet, "/api/analytics?date=2024-03-06&period=week", "", h.Analytics)
	if rec.Code != http.StatusOK {
		t.Fatalf("Analytics: expected 200, got %d", rec.Code)
	}
	var period struct {
		StartDate   string            `json:"startDate"`
		EndDate     string            `json:"endDate"`
		DailySeries []json.RawMessage `json:"dailySeries"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &period); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if period.StartDate != "2024-03-04" || period.EndDate != "2024-03-06" || len(period.DailySeries) != 3 {
		t.Errorf("Week window mismatch: %s", rec.Body.String())
	}

	// Unknown period falls back to week.
	rec = doJSON(t, e, http.MethodGet, "/api/analytics?date=2024-03-06&period=decade", "", h.Analytics)
	if rec.Code != http.StatusOK {
		t.Errorf("Unknown period should fall back, got %d", rec.Code)
	}

	rec = doJSON(t, e, http.MethodGet, "/api/overview?date=2024-03-06", "", h.Overview)
	if rec.Code != http.StatusOK {
		t.Fatalf("Overview: expected 200, got %d", rec.Code)
	}
	var overview struct {
		PrevDate string `json:"prevDate"`
		Groups   []struct {
			Group string `json:"group"`
			Delta int    `json:"delta"`
		} `json:"groups"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &overview); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if overview.PrevDate != "2024-03-05" {
		t.Errorf("Expected prev date 2024-03-05, got %s", overview.PrevDate)
	}
	// Every seeded group appears even with zero activity.
	if len(overview.Groups) != 8 {
		t.Fatalf("Expected all 8 groups, got %d", len(overview.Groups))
	}
	found := false
	for _, g := range overview.Groups {
		if g.Group == "3rd Floor" {
			found = true
			if g.Delta != 4 {
				t.Errorf("Expected delta 4, got %d", g.Delta)
			}
		}
	}
	if !found {
		t.Error("3rd Floor group missing from overview")
	}
}

func TestGetSections(t *testing.T) {
	e, h := newTestHandler(t)
	rec := doJSON(t, e, http.MethodGet, "/api/sections", "", h.GetSections)
	if rec.Code != http.StatusOK {
		t.Fatalf("GetSections: expected 200, got %d", rec.Code)
	}
	var sections []struct {
		Code       string `json:"code"`
		OrderIndex int    `json:"order_index"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &sections); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(sections) != 8 || sections[0].Code != "A–GV" {
		t.Errorf("Seeded sections mismatch: %s", rec.Body.String())
	}
}
