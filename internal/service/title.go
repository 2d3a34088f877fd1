package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/gibsondevhouse/obsidian-cobra/internal/adapter/ollama"
)

const titlePromptFormat = "Generate a concise 3-5 word title for a conversation that starts with the following message. " +
	"Respond with only the title, nothing else.\n\nMessage: %s"

// generateTitle asks the model for a short thread title derived from
// the opening user message. It runs detached from the request that
// triggered it, on its own deadline; failures are logged and otherwise
// invisible to the user, and the sentinel title stays in place so a
// later turn retries.
func (s *Service) generateTitle(threadID, userMessage, model string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.TitleTimeout)
	defer cancel()

	prompt := fmt.Sprintf(titlePromptFormat, userMessage)
	title, err := s.ollama.Chat(ctx, model, []ollama.Message{{Role: "user", Content: prompt}})
	if err != nil {
		log.Printf("WARN: title generation failed for thread %s: %v", threadID, err)
		return
	}
	if strings.TrimSpace(title) == "" {
		return
	}

	// Shares the normal title-update path, so a concurrent user rename
	// resolves as last write wins.
	if err := s.store.UpdateThreadTitle(ctx, threadID, title); err != nil {
		log.Printf("WARN: failed to update title for thread %s: %v", threadID, err)
	}
}
