// Package domain defines the core domain models for the chat backend.
package domain

// Mode represents the behavioral variant of a thread.
type Mode string

const (
	ModeChat     Mode = "chat"
	ModeSearch   Mode = "search"
	ModeResearch Mode = "research"
)

// Valid reports whether the mode is one of the known variants.
func (m Mode) Valid() bool {
	switch m {
	case ModeChat, ModeSearch, ModeResearch:
		return true
	}
	return false
}

// Role represents the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem:
		return true
	}
	return false
}
