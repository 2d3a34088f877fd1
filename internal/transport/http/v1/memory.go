package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gibsondevhouse/obsidian-cobra/internal/domain"
)

// ListMemory lists all global memory fragments.
// GET /api/v1/memory
func (h *Handler) ListMemory(c echo.Context) error {
	ctx := c.Request().Context()
	fragments, err := h.service.ListMemory(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if fragments == nil {
		fragments = []domain.MemoryFragment{}
	}
	return c.JSON(http.StatusOK, fragments)
}

// SetMemory stores or replaces a global memory fragment.
// PUT /api/v1/memory
func (h *Handler) SetMemory(c echo.Context) error {
	var req domain.SetMemoryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.Key == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "key is required"})
	}

	ctx := c.Request().Context()
	if err := h.service.SetMemory(ctx, req.Key, req.Value, req.Kind); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}
