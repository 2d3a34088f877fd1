package domain

import "time"

// DefaultThreadTitle is the title assigned to new threads until the
// first successful auto-title run replaces it.
const DefaultThreadTitle = "New Chat"

// Thread represents a persisted conversation.
type Thread struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Mode      Mode      `json:"mode"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Message represents a single immutable message within a thread.
// Ordering is by creation time, ties broken by insertion order.
type Message struct {
	ID        string    `json:"id"`
	ThreadID  string    `json:"thread_id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Tokens    int       `json:"tokens"`
	CreatedAt time.Time `json:"created_at"`
}

// EstimateTokens approximates a token count for content when the
// upstream model did not report one (roughly 4 characters per token).
func EstimateTokens(content string) int {
	return (len(content) + 3) / 4
}

// MemoryFragment is a global key/value setting persisted alongside the
// conversation history.
type MemoryFragment struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	Kind      string    `json:"kind"`
	CreatedAt time.Time `json:"created_at"`
}
