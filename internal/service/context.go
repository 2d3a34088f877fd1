package service

import "github.com/gibsondevhouse/obsidian-cobra/internal/domain"

// contextCandidateLimit caps how many recent messages are even
// considered for the context window.
const contextCandidateLimit = 100

// BuildContextWindow selects the longest suffix of a thread's history
// that fits the character budget. Candidates arrive most-recent-first;
// accumulation stops at the first message that would overflow the
// budget (that message is excluded, never truncated). The selection is
// returned in chronological order. An empty window is valid: callers
// must tolerate a single oversized latest message pushing everything
// out.
func BuildContextWindow(recentFirst []domain.Message, charBudget int) []domain.Message {
	var selected []domain.Message
	currentChars := 0

	for _, msg := range recentFirst {
		msgLen := len(msg.Content)
		if currentChars+msgLen > charBudget {
			break
		}
		selected = append(selected, msg)
		currentChars += msgLen
	}

	// Reverse back to chronological order for the model
	for i, j := 0, len(selected)-1; i < j; i, j = i+1, j-1 {
		selected[i], selected[j] = selected[j], selected[i]
	}
	return selected
}
