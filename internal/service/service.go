// Package service implements the chat backend's business logic: thread
// management, context window assembly, and the streaming chat turn.
package service

import (
	"github.com/gibsondevhouse/obsidian-cobra/internal/adapter/ollama"
	"github.com/gibsondevhouse/obsidian-cobra/internal/adapter/tavily"
	"github.com/gibsondevhouse/obsidian-cobra/internal/config"
	store "github.com/gibsondevhouse/obsidian-cobra/internal/repository"
)

type Service struct {
	store  store.Store
	ollama *ollama.Client
	search *tavily.Client
	config *config.Config
}

func New(store store.Store, ollamaClient *ollama.Client, searchClient *tavily.Client, cfg *config.Config) *Service {
	return &Service{
		store:  store,
		ollama: ollamaClient,
		search: searchClient,
		config: cfg,
	}
}
