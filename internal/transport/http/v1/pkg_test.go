package v1_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gibsondevhouse/obsidian-cobra/internal/adapter/ollama"
	"github.com/gibsondevhouse/obsidian-cobra/internal/adapter/tavily"
	"github.com/gibsondevhouse/obsidian-cobra/internal/config"
	store "github.com/gibsondevhouse/obsidian-cobra/internal/repository"
	"github.com/gibsondevhouse/obsidian-cobra/internal/service"
	v1 "github.com/gibsondevhouse/obsidian-cobra/internal/transport/http/v1"
	"github.com/gibsondevhouse/obsidian-cobra/tests/helpers"
)

// newTestHandler wires a handler against an in-memory store and a stub
// upstream generation server.
func newTestHandler(t *testing.T, ollamaHandler http.HandlerFunc) (*v1.Handler, *store.SQLiteStore) {
	t.Helper()
	if ollamaHandler == nil {
		ollamaHandler = func(w http.ResponseWriter, r *http.Request) {
			t.Errorf("unexpected upstream call: %s %s", r.Method, r.URL.Path)
		}
	}
	upstream := httptest.NewServer(ollamaHandler)
	t.Cleanup(upstream.Close)

	st := helpers.NewTestSQLiteStore(t)
	cfg := &config.Config{
		DefaultModel:     "gemma3:4b",
		ContextCharLimit: 15000,
		LLMTimeout:       5 * time.Second,
		TitleTimeout:     5 * time.Second,
	}
	svc := service.New(st, ollama.NewClient(upstream.URL, cfg.LLMTimeout), tavily.NewClient("http://unused", "", time.Second), cfg)
	return v1.NewHandler(svc), st
}
