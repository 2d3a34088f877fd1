package v1

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gibsondevhouse/obsidian-cobra/internal/domain"
)

// CreateThread creates a new conversation thread.
// POST /api/v1/threads
func (h *Handler) CreateThread(c echo.Context) error {
	var req domain.CreateThreadRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.Mode != "" && !req.Mode.Valid() {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid mode"})
	}

	ctx := c.Request().Context()
	thread, err := h.service.CreateThread(ctx, req.Title, req.Mode)
	if err != nil {
		if errors.Is(err, domain.ErrThreadExists) {
			return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"id":    thread.ID,
		"title": thread.Title,
		"mode":  thread.Mode,
	})
}

// ListThreads lists all threads, most recently updated first.
// GET /api/v1/threads
func (h *Handler) ListThreads(c echo.Context) error {
	ctx := c.Request().Context()
	threads, err := h.service.ListThreads(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if threads == nil {
		threads = []domain.Thread{}
	}
	return c.JSON(http.StatusOK, threads)
}

// GetThread retrieves a single thread.
// GET /api/v1/threads/:id
func (h *Handler) GetThread(c echo.Context) error {
	ctx := c.Request().Context()
	thread, err := h.service.GetThread(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrThreadNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Thread not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, thread)
}

// DeleteThread removes a thread and its messages.
// DELETE /api/v1/threads/:id
func (h *Handler) DeleteThread(c echo.Context) error {
	ctx := c.Request().Context()
	if err := h.service.DeleteThread(ctx, c.Param("id")); err != nil {
		if errors.Is(err, domain.ErrThreadNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Thread not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}

// GetThreadMessages retrieves the full chronological history of a thread.
// GET /api/v1/threads/:id/messages
func (h *Handler) GetThreadMessages(c echo.Context) error {
	ctx := c.Request().Context()
	messages, totalTokens, err := h.service.GetThreadMessages(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrThreadNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Thread not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if messages == nil {
		messages = []domain.Message{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"messages":     messages,
		"total_tokens": totalTokens,
	})
}
