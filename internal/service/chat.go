package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gibsondevhouse/obsidian-cobra/internal/adapter/ollama"
	"github.com/gibsondevhouse/obsidian-cobra/internal/domain"
)

// consultativeSystemPrompt establishes the assistant's persona for
// every mode: clarify vague writing requests before producing
// long-form content.
const consultativeSystemPrompt = `You are a Senior Editor and Writing Consultant.
YOUR GOAL: Produce world-class, high-impact content.
CRITICAL BEHAVIOR:
1. INTERCEPT: If the user asks you to "write" something (an article, code, email) but provides vague instructions, DO NOT generate content yet.
2. CLARIFY: Ask 3-4 specific bulleted questions to define the Tone, Audience, and Core Idea.
3. EXECUTE: Only generate the full content AFTER the user answers.`

const researchModePrompt = "You are now in RESEARCH mode. Provide a deep, structured analysis with citations. " +
	"Maintain your Senior Editor persona while conducting this research."

const searchModePrompt = "You are now in SEARCH mode. Focus on factual, up-to-date information. " +
	"Maintain your Senior Editor persona while searching."

const researchStatusChunk = "> [!NOTE]\n> **Initiating Research Phase...**\n" +
	"> 1. Analyzing query scope...\n" +
	"> 2. Identifying key domains...\n" +
	"> 3. Synthesizing multi-perspective insights...\n\n---\n\n"

const searchStatusChunk = "> [!NOTE]\n> **Searching the web...**\n\n"

// StreamEmitter receives outbound stream events in order. A non-nil
// return stops the turn (typically a closed client connection).
type StreamEmitter func(event domain.StreamEvent) error

// StreamChat runs one chat turn: persist the user message, assemble
// the context window, optionally augment with search, relay the
// upstream token stream through emit, and persist the final assistant
// message. The thread is validated before any side effect, so a bad
// thread id leaves the store untouched. Context cancellation (client
// disconnect) aborts the upstream request and is a normal, silent
// termination path.
func (s *Service) StreamChat(ctx context.Context, req *domain.ChatStreamRequest, emit StreamEmitter) error {
	thread, err := s.store.GetThread(ctx, req.ThreadID)
	if err != nil {
		return err
	}
	if thread == nil {
		return domain.ErrThreadNotFound
	}

	mode := req.Mode
	if mode == "" {
		mode = thread.Mode
	}
	model := req.Model
	if model == "" {
		model = s.config.DefaultModel
	}

	userMsg := &domain.Message{
		ID:        uuid.New().String(),
		ThreadID:  thread.ID,
		Role:      domain.RoleUser,
		Content:   req.Message,
		CreatedAt: time.Now(),
	}
	if err := s.store.AddMessage(ctx, userMsg); err != nil {
		return err
	}

	// The just-persisted user message is part of the candidates, so it
	// is always the newest entry the window builder sees.
	candidates, err := s.store.GetRecentMessages(ctx, thread.ID, contextCandidateLimit)
	if err != nil {
		return err
	}
	window := BuildContextWindow(candidates, s.config.ContextCharLimit)

	messages := make([]ollama.Message, 0, len(window)+3)
	messages = append(messages, ollama.Message{Role: string(domain.RoleSystem), Content: consultativeSystemPrompt})
	for _, msg := range window {
		messages = append(messages, ollama.Message{Role: string(msg.Role), Content: msg.Content})
	}

	switch mode {
	case domain.ModeResearch:
		messages = append(messages, ollama.Message{Role: string(domain.RoleSystem), Content: researchModePrompt})
		if err := emit(domain.ContentEvent(researchStatusChunk)); err != nil {
			return err
		}
	case domain.ModeSearch:
		messages = append(messages, ollama.Message{Role: string(domain.RoleSystem), Content: searchModePrompt})
		if err := emit(domain.ContentEvent(searchStatusChunk)); err != nil {
			return err
		}
	}

	if mode == domain.ModeSearch || mode == domain.ModeResearch {
		// Execute never fails: missing keys and API errors come back
		// as text the model can explain to the user.
		searchContext := s.search.Execute(ctx, req.Message)
		messages = append(messages, ollama.Message{Role: string(domain.RoleSystem), Content: searchContext})
	}

	var full strings.Builder
	finished := false

	err = s.ollama.ChatStream(ctx, model, messages, func(chunk *ollama.ChatChunk) error {
		if chunk.Message != nil && chunk.Message.Content != "" {
			full.WriteString(chunk.Message.Content)
			if err := emit(domain.ContentEvent(chunk.Message.Content)); err != nil {
				return err
			}
		}
		if chunk.Done {
			assistantMsg := &domain.Message{
				ID:        uuid.New().String(),
				ThreadID:  thread.ID,
				Role:      domain.RoleAssistant,
				Content:   full.String(),
				Tokens:    chunk.EvalCount,
				CreatedAt: time.Now(),
			}
			if err := s.store.AddMessage(ctx, assistantMsg); err != nil {
				return err
			}
			finished = true
			return emit(domain.DoneEvent())
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			// Client went away: upstream already aborted, nothing to report.
			return nil
		}
		return err
	}

	if finished && thread.Title == domain.DefaultThreadTitle {
		go s.generateTitle(thread.ID, req.Message, model)
	}
	return nil
}

// ListModels retrieves available models from the upstream service. An
// unreachable upstream degrades to an empty list rather than an error.
func (s *Service) ListModels(ctx context.Context) []ollama.Model {
	models, err := s.ollama.ListModels(ctx)
	if err != nil {
		log.Printf("WARN: failed to list models: %v", err)
		return []ollama.Model{}
	}
	return models
}
