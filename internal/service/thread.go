package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/gibsondevhouse/obsidian-cobra/internal/domain"
)

// CreateThread creates a new thread with defaults applied.
func (s *Service) CreateThread(ctx context.Context, title string, mode domain.Mode) (*domain.Thread, error) {
	if title == "" {
		title = domain.DefaultThreadTitle
	}
	if mode == "" {
		mode = domain.ModeChat
	}

	now := time.Now()
	thread := &domain.Thread{
		ID:        uuid.New().String(),
		Title:     title,
		Mode:      mode,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateThread(ctx, thread); err != nil {
		return nil, err
	}
	return thread, nil
}

// GetThread retrieves a thread, or ErrThreadNotFound.
func (s *Service) GetThread(ctx context.Context, id string) (*domain.Thread, error) {
	thread, err := s.store.GetThread(ctx, id)
	if err != nil {
		return nil, err
	}
	if thread == nil {
		return nil, domain.ErrThreadNotFound
	}
	return thread, nil
}

// ListThreads lists all threads, most recently updated first.
func (s *Service) ListThreads(ctx context.Context) ([]domain.Thread, error) {
	return s.store.ListThreads(ctx)
}

// DeleteThread removes a thread and, via cascade, its messages.
func (s *Service) DeleteThread(ctx context.Context, id string) error {
	return s.store.DeleteThread(ctx, id)
}

// GetThreadMessages returns the full chronological history of a thread
// along with its accumulated token total for the UI context gauge.
func (s *Service) GetThreadMessages(ctx context.Context, threadID string) ([]domain.Message, int, error) {
	thread, err := s.store.GetThread(ctx, threadID)
	if err != nil {
		return nil, 0, err
	}
	if thread == nil {
		return nil, 0, domain.ErrThreadNotFound
	}

	messages, err := s.store.GetMessages(ctx, threadID)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.store.ThreadTokenCount(ctx, threadID)
	if err != nil {
		return nil, 0, err
	}
	return messages, total, nil
}

// SetMemory stores a global memory fragment.
func (s *Service) SetMemory(ctx context.Context, key, value, kind string) error {
	return s.store.SetMemory(ctx, key, value, kind)
}

// ListMemory lists all global memory fragments.
func (s *Service) ListMemory(ctx context.Context) ([]domain.MemoryFragment, error) {
	return s.store.ListMemory(ctx)
}
