// Package store defines the storage interface and implementations.
package store

import (
	"context"

	"github.com/gibsondevhouse/obsidian-cobra/internal/domain"
)

// Store defines the interface for data persistence.
type Store interface {
	// Thread operations
	CreateThread(ctx context.Context, thread *domain.Thread) error
	GetThread(ctx context.Context, id string) (*domain.Thread, error)
	ListThreads(ctx context.Context) ([]domain.Thread, error)
	UpdateThreadTitle(ctx context.Context, id, title string) error
	DeleteThread(ctx context.Context, id string) error

	// Message operations
	AddMessage(ctx context.Context, message *domain.Message) error
	GetMessages(ctx context.Context, threadID string) ([]domain.Message, error)
	GetRecentMessages(ctx context.Context, threadID string, limit int) ([]domain.Message, error)
	ThreadTokenCount(ctx context.Context, threadID string) (int, error)

	// Memory fragment operations
	SetMemory(ctx context.Context, key, value, kind string) error
	GetMemory(ctx context.Context, key string) (*domain.MemoryFragment, error)
	ListMemory(ctx context.Context) ([]domain.MemoryFragment, error)

	// Lifecycle
	Close() error
}
