package domain

// StreamEvent is one outbound event on a chat stream. Exactly one of
// the fields is meaningful: Content carries incremental token text,
// Error carries a fatal mid-stream failure, and Done marks the end of
// the stream (serialized as a literal sentinel, not JSON).
type StreamEvent struct {
	Content string `json:"content,omitempty"`
	Error   string `json:"error,omitempty"`
	Done    bool   `json:"-"`
}

// ContentEvent builds a content-carrying stream event.
func ContentEvent(text string) StreamEvent {
	return StreamEvent{Content: text}
}

// ErrorEvent builds an error-carrying stream event.
func ErrorEvent(msg string) StreamEvent {
	return StreamEvent{Error: msg}
}

// DoneEvent builds the terminal stream event.
func DoneEvent() StreamEvent {
	return StreamEvent{Done: true}
}
