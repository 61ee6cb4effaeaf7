// Package routes wires HTTP routes to their handlers.
package routes

import (
	"net/http"

	"beamscan/internal/handlers"
	"beamscan/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
)

// Handlers groups everything SetupRoutes mounts. Auth is nil when the API
// runs without authentication.
type Handlers struct {
	Health    *handlers.HealthHandler
	Scans     *handlers.ScanHandler
	Sessions  *handlers.SessionHandler
	Addresses *handlers.AddressHandler
	Auth      *middleware.AuthMiddleware
	Metrics   http.Handler
}

// SetupRoutes configures all application routes.
func SetupRoutes(app *fiber.App, h Handlers) {
	app.Get("/health", h.Health.Check)
	if h.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(h.Metrics))
	}

	api := app.Group("/api")
	if h.Auth != nil {
		api.Use(h.Auth.Handler)
	}

	api.Post("/resolve", h.Scans.Resolve)
	api.Get("/scans", h.Scans.ListScans)

	sessions := api.Group("/sessions")
	sessions.Post("/", h.Sessions.Open)
	sessions.Get("/:id", h.Sessions.Get)
	sessions.Post("/:id/permission", h.Sessions.AnswerPermission)
	sessions.Post("/:id/frames", h.Sessions.PushFrame)
	sessions.Get("/:id/result", h.Sessions.Result)
	sessions.Delete("/:id", h.Sessions.Cancel)

	addresses := api.Group("/addresses")
	addresses.Get("/", h.Addresses.List)
	addresses.Post("/", h.Addresses.Create)
}
