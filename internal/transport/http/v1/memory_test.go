package v1_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/gibsondevhouse/obsidian-cobra/internal/domain"
)

func TestMemory(t *testing.T) {
	handler, _ := newTestHandler(t, nil)
	e := echo.New()

	t.Run("Empty List Is An Array", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/memory", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		assert.NoError(t, handler.ListMemory(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "[]\n", rec.Body.String())
	})

	t.Run("Set Then List", func(t *testing.T) {
		body, _ := json.Marshal(domain.SetMemoryRequest{Key: "tone", Value: "formal", Kind: "style"})
		req := httptest.NewRequest(http.MethodPut, "/api/v1/memory", bytes.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		assert.NoError(t, handler.SetMemory(c))
		assert.Equal(t, http.StatusNoContent, rec.Code)

		req = httptest.NewRequest(http.MethodGet, "/api/v1/memory", nil)
		rec = httptest.NewRecorder()
		c = e.NewContext(req, rec)

		assert.NoError(t, handler.ListMemory(c))

		var fragments []domain.MemoryFragment
		json.Unmarshal(rec.Body.Bytes(), &fragments)
		assert.Len(t, fragments, 1)
		assert.Equal(t, "formal", fragments[0].Value)
		assert.Equal(t, "style", fragments[0].Kind)
	})

	t.Run("Missing Key Rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/api/v1/memory", bytes.NewReader([]byte(`{"value":"x"}`)))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		assert.NoError(t, handler.SetMemory(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
