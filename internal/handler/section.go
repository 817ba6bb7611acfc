package handler // section endpoints

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// GetSections handles GET /api/sections and returns every section in
// allocation order. The list is seeded at startup and effectively
// static, which is why the response cache is safe to sit in front.
func (h *ShelvingHandler) GetSections(c echo.Context) error {
	sections, err := h.Store.ListSections(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	return c.JSON(http.StatusOK, sections)
}
