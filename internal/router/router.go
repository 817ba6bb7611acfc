package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/library-shelving/internal/handler"
)

// RegisterRoutes wires the health check and the /api surface onto the
// provided Echo instance. The optional middleware (response cache, rate
// limiter) is applied to the /api group only, so /healthz stays cheap
// and unthrottled for load balancers.
func RegisterRoutes(e *echo.Echo, h *handler.ShelvingHandler, mw ...echo.MiddlewareFunc) {
	e.GET("/healthz", handler.Health)

	api := e.Group("/api", mw...)

	// Sections and daily row entries.
	api.GET("/sections", h.GetSections)
	api.GET("/entries", h.GetEntries)
	api.POST("/entries", h.CreateEntry)

	// Cart loadout allocation, preview and custom.
	api.GET("/loadouts", h.GetLoadouts)
	api.POST("/loadouts/custom", h.CustomLoadouts)

	// Frozen loadout snapshots and per-cart shelved toggles.
	api.GET("/loadout-snapshots", h.GetSnapshots)
	api.POST("/loadout-snapshots", h.CreateSnapshot)
	api.PATCH("/loadout-snapshots/:id/carts/:cart", h.PatchSnapshotCart)

	// Manual cart records.
	api.GET("/carts", h.ListCarts)
	api.POST("/carts", h.CreateCart)
	api.PATCH("/carts/:id", h.UpdateCart)
	api.DELETE("/carts/:id", h.DeleteCart)

	// Aggregations.
	api.GET("/stats/daily", h.DailyStats)
	api.GET("/analytics", h.Analytics)
	api.GET("/overview", h.Overview)
}
