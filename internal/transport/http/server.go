// Package http provides the HTTP server implementation for the chat backend.
package http

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/gibsondevhouse/obsidian-cobra/internal/service"
	v1 "github.com/gibsondevhouse/obsidian-cobra/internal/transport/http/v1"
)

// NewServer creates and configures the HTTP server serving the browser
// client: thread CRUD, the SSE chat stream, and model discovery.
func NewServer(svc *service.Service) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Handlers
	v1Handler := v1.NewHandler(svc)
	v1Handler.RegisterRoutes(e)

	return e
}
