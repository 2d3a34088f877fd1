package v1

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gibsondevhouse/obsidian-cobra/internal/domain"
)

// endOfStreamMarker is the literal sentinel closing a chat stream,
// distinct from the JSON payloads preceding it.
const endOfStreamMarker = "[DONE]"

// StreamChat runs one chat turn and relays the model's tokens to the
// client as Server-Sent Events. Errors before the first event surface
// as a structured JSON response; errors after that become an in-band
// error event so the connection always terminates cleanly.
// POST /api/v1/chat/stream
func (h *Handler) StreamChat(c echo.Context) error {
	var req domain.ChatStreamRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.ThreadID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "threadId is required"})
	}
	if req.Message == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "message is required"})
	}
	if req.Mode != "" && !req.Mode.Valid() {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid mode"})
	}

	res := c.Response()
	flusher, ok := res.Writer.(http.Flusher)
	if !ok {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "streaming not supported"})
	}

	// Headers go out lazily on the first event so validation failures
	// inside the service still get a proper status code.
	headersSent := false
	emit := func(event domain.StreamEvent) error {
		if !headersSent {
			res.Header().Set("Content-Type", "text/event-stream")
			res.Header().Set("Cache-Control", "no-cache")
			res.Header().Set("Connection", "keep-alive")
			res.Header().Set("X-Accel-Buffering", "no")
			res.WriteHeader(http.StatusOK)
			headersSent = true
		}

		payload := endOfStreamMarker
		if !event.Done {
			data, err := json.Marshal(event)
			if err != nil {
				return err
			}
			payload = string(data)
		}
		if _, err := fmt.Fprintf(res.Writer, "data: %s\n\n", payload); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	}

	ctx := c.Request().Context()
	err := h.service.StreamChat(ctx, &req, emit)
	if err != nil {
		if !headersSent {
			if errors.Is(err, domain.ErrThreadNotFound) {
				return c.JSON(http.StatusNotFound, map[string]string{"error": "Thread not found"})
			}
			log.Printf("ERROR: chat stream failed before headers: %v", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
		if ctx.Err() == nil {
			log.Printf("ERROR: chat stream failed mid-stream: %v", err)
			// Best effort: the connection may already be gone.
			_ = emit(domain.ErrorEvent(err.Error()))
		}
	}
	return nil
}

// ListModels lists the models available on the upstream generation
// service. An unreachable upstream yields an empty list.
// GET /api/v1/chat/models
func (h *Handler) ListModels(c echo.Context) error {
	ctx := c.Request().Context()
	return c.JSON(http.StatusOK, h.service.ListModels(ctx))
}
