// Package v1 provides the HTTP handlers for the chat backend API.
package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gibsondevhouse/obsidian-cobra/internal/service"
)

// Handler handles HTTP requests.
type Handler struct {
	service *service.Service
}

// NewHandler creates a new handler.
func NewHandler(service *service.Service) *Handler {
	return &Handler{
		service: service,
	}
}

// RegisterRoutes registers routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	// Thread API
	e.POST("/api/v1/threads", h.CreateThread)
	e.GET("/api/v1/threads", h.ListThreads)
	e.GET("/api/v1/threads/:id", h.GetThread)
	e.DELETE("/api/v1/threads/:id", h.DeleteThread)
	e.GET("/api/v1/threads/:id/messages", h.GetThreadMessages)

	// Chat API
	e.POST("/api/v1/chat/stream", h.StreamChat)
	e.GET("/api/v1/chat/models", h.ListModels)

	// Memory API
	e.GET("/api/v1/memory", h.ListMemory)
	e.PUT("/api/v1/memory", h.SetMemory)

	e.GET("/health", h.Health)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "0.1.0",
	})
}
