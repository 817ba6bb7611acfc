package handler // manual cart record endpoints

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/library-shelving/internal/model"
	"github.com/iliyamo/library-shelving/internal/queue"
	"github.com/iliyamo/library-shelving/internal/service"
	"github.com/iliyamo/library-shelving/internal/store"
)

// ListCarts handles GET /api/carts?date= and lists manual cart records,
// optionally for one date.
func (h *ShelvingHandler) ListCarts(c echo.Context) error {
	date := c.QueryParam("date")
	if date != "" {
		if _, err := model.ParseDate(date); err != nil {
			return badDate(c)
		}
	}
	carts, err := h.Store.ListCarts(c.Request().Context(), date)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	return c.JSON(http.StatusOK, carts)
}

// CreateCart handles POST /api/carts and creates a manual cart record.
// New carts always start unshelved.
func (h *ShelvingHandler) CreateCart(c echo.Context) error {
	var body struct {
		Date     string `json:"date"`
		Group    string `json:"group"`
		Initials string `json:"initials"`
		Rows     int    `json:"rows"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if strings.TrimSpace(body.Group) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "group required"})
	}
	if strings.TrimSpace(body.Initials) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "initials required"})
	}
	date := body.Date
	if date == "" {
		date = model.Today()
	} else if _, err := model.ParseDate(date); err != nil {
		return badDate(c)
	}
	if body.Rows < 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "rows must be >= 0"})
	}

	cart := model.CartRecord{
		Date:     date,
		Group:    strings.TrimSpace(body.Group),
		Initials: strings.TrimSpace(body.Initials),
		Rows:     body.Rows,
	}
	if err := h.Store.CreateCart(c.Request().Context(), &cart); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not create cart"})
	}
	return c.JSON(http.StatusOK, cart)
}

// UpdateCart handles PATCH /api/carts/:id and updates rows and/or the
// shelved flag. Omitted fields stay as they are.
func (h *ShelvingHandler) UpdateCart(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	var body struct {
		Rows    *int  `json:"rows"`
		Shelved *bool `json:"shelved"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if body.Rows != nil && *body.Rows < 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "rows must be >= 0"})
	}

	updated, err := h.Store.UpdateCart(c.Request().Context(), id, body.Rows, body.Shelved)
	if err != nil {
		if errors.Is(err, store.ErrCartNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "update failed"})
	}

	// Marking a cart shelved is the one cart mutation worth broadcasting.
	if body.Shelved != nil && *body.Shelved {
		ev := queue.ActivityEvent{
			Type:       queue.ActivityCartShelved,
			Date:       updated.Date,
			Group:      updated.Group,
			Rows:       updated.Rows,
			Initials:   updated.Initials,
			OccurredAt: model.NowStamp(),
		}
		go func() { _ = service.PublishActivity(context.Background(), ev) }()
	}
	return c.JSON(http.StatusOK, updated)
}

// DeleteCart handles DELETE /api/carts/:id.
func (h *ShelvingHandler) DeleteCart(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	if err := h.Store.DeleteCart(c.Request().Context(), id); err != nil {
		if errors.Is(err, store.ErrCartNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "delete failed"})
	}
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}
