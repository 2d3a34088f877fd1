package v1_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/gibsondevhouse/obsidian-cobra/internal/domain"
)

func TestCreateThread(t *testing.T) {
	handler, _ := newTestHandler(t, nil)
	e := echo.New()

	t.Run("Defaults Applied", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/threads", bytes.NewReader([]byte(`{}`)))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		assert.NoError(t, handler.CreateThread(c))
		assert.Equal(t, http.StatusCreated, rec.Code)

		var resp map[string]string
		json.Unmarshal(rec.Body.Bytes(), &resp)
		assert.NotEmpty(t, resp["id"])
		assert.Equal(t, domain.DefaultThreadTitle, resp["title"])
		assert.Equal(t, "chat", resp["mode"])
	})

	t.Run("Explicit Title And Mode", func(t *testing.T) {
		body, _ := json.Marshal(domain.CreateThreadRequest{Title: "Research Notes", Mode: domain.ModeResearch})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/threads", bytes.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		assert.NoError(t, handler.CreateThread(c))
		assert.Equal(t, http.StatusCreated, rec.Code)

		var resp map[string]string
		json.Unmarshal(rec.Body.Bytes(), &resp)
		assert.Equal(t, "Research Notes", resp["title"])
		assert.Equal(t, "research", resp["mode"])
	})

	t.Run("Invalid Mode Rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/threads", bytes.NewReader([]byte(`{"mode":"turbo"}`)))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		assert.NoError(t, handler.CreateThread(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestListThreads(t *testing.T) {
	handler, st := newTestHandler(t, nil)
	e := echo.New()

	t.Run("Empty List Is An Array", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/threads", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		assert.NoError(t, handler.ListThreads(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "[]\n", rec.Body.String())
	})

	t.Run("Most Recently Updated First", func(t *testing.T) {
		ctx := context.Background()
		for _, id := range []string{"t1", "t2"} {
			now := time.Now()
			st.CreateThread(ctx, &domain.Thread{ID: id, Title: domain.DefaultThreadTitle, Mode: domain.ModeChat, CreatedAt: now, UpdatedAt: now})
		}
		st.AddMessage(ctx, &domain.Message{ID: "m1", ThreadID: "t1", Role: domain.RoleUser, Content: "bump", CreatedAt: time.Now()})

		req := httptest.NewRequest(http.MethodGet, "/api/v1/threads", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		assert.NoError(t, handler.ListThreads(c))

		var threads []domain.Thread
		json.Unmarshal(rec.Body.Bytes(), &threads)
		assert.Len(t, threads, 2)
		assert.Equal(t, "t1", threads[0].ID)
	})
}

func TestGetThread(t *testing.T) {
	handler, st := newTestHandler(t, nil)
	e := echo.New()

	ctx := context.Background()
	now := time.Now()
	st.CreateThread(ctx, &domain.Thread{ID: "t1", Title: "Known", Mode: domain.ModeChat, CreatedAt: now, UpdatedAt: now})

	t.Run("Found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/threads/t1", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetPath("/api/v1/threads/:id")
		c.SetParamNames("id")
		c.SetParamValues("t1")

		assert.NoError(t, handler.GetThread(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		var thread domain.Thread
		json.Unmarshal(rec.Body.Bytes(), &thread)
		assert.Equal(t, "Known", thread.Title)
	})

	t.Run("Not Found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/threads/absent", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetPath("/api/v1/threads/:id")
		c.SetParamNames("id")
		c.SetParamValues("absent")

		assert.NoError(t, handler.GetThread(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestDeleteThread(t *testing.T) {
	handler, st := newTestHandler(t, nil)
	e := echo.New()

	ctx := context.Background()
	now := time.Now()
	st.CreateThread(ctx, &domain.Thread{ID: "t1", Title: domain.DefaultThreadTitle, Mode: domain.ModeChat, CreatedAt: now, UpdatedAt: now})
	st.AddMessage(ctx, &domain.Message{ID: "m1", ThreadID: "t1", Role: domain.RoleUser, Content: "hello", CreatedAt: now})

	t.Run("Deletes With Messages", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/api/v1/threads/t1", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetPath("/api/v1/threads/:id")
		c.SetParamNames("id")
		c.SetParamValues("t1")

		assert.NoError(t, handler.DeleteThread(c))
		assert.Equal(t, http.StatusNoContent, rec.Code)

		messages, err := st.GetMessages(ctx, "t1")
		assert.NoError(t, err)
		assert.Empty(t, messages)
	})

	t.Run("Not Found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/api/v1/threads/t1", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetPath("/api/v1/threads/:id")
		c.SetParamNames("id")
		c.SetParamValues("t1")

		assert.NoError(t, handler.DeleteThread(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestGetThreadMessages(t *testing.T) {
	handler, st := newTestHandler(t, nil)
	e := echo.New()

	ctx := context.Background()
	now := time.Now()
	st.CreateThread(ctx, &domain.Thread{ID: "t1", Title: domain.DefaultThreadTitle, Mode: domain.ModeChat, CreatedAt: now, UpdatedAt: now})
	st.AddMessage(ctx, &domain.Message{ID: "m1", ThreadID: "t1", Role: domain.RoleUser, Content: "hello", Tokens: 2, CreatedAt: now})
	st.AddMessage(ctx, &domain.Message{ID: "m2", ThreadID: "t1", Role: domain.RoleAssistant, Content: "hi there", Tokens: 3, CreatedAt: now.Add(time.Second)})

	t.Run("Full History With Token Total", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/threads/t1/messages", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetPath("/api/v1/threads/:id/messages")
		c.SetParamNames("id")
		c.SetParamValues("t1")

		assert.NoError(t, handler.GetThreadMessages(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Messages    []domain.Message `json:"messages"`
			TotalTokens int              `json:"total_tokens"`
		}
		json.Unmarshal(rec.Body.Bytes(), &resp)
		assert.Len(t, resp.Messages, 2)
		assert.Equal(t, "m1", resp.Messages[0].ID)
		assert.Equal(t, 5, resp.TotalTokens)
	})

	t.Run("Unknown Thread", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/threads/absent/messages", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetPath("/api/v1/threads/:id/messages")
		c.SetParamNames("id")
		c.SetParamValues("absent")

		assert.NoError(t, handler.GetThreadMessages(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
