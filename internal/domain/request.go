package domain

// CreateThreadRequest represents the request to create a thread.
type CreateThreadRequest struct {
	Title string `json:"title"`
	Mode  Mode   `json:"mode"`
}

// ChatStreamRequest represents the request to start a streamed chat turn.
type ChatStreamRequest struct {
	ThreadID string `json:"threadId"`
	Message  string `json:"message"`
	Model    string `json:"model,omitempty"`
	Mode     Mode   `json:"mode,omitempty"`
}

// SetMemoryRequest represents the request to store a memory fragment.
type SetMemoryRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
	Kind  string `json:"kind,omitempty"`
}
