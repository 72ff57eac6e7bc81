// Package models holds the wire-shaped data types shared across the
// conversational core: sessions, messages, tool calls, and the static
// descriptors for experts and tools.
package models

import (
	"encoding/json"
	"time"
)

// Role identifies who authored a Message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
	RoleTool      Role = "tool"
)

// Message is one entry in a session's append-only transcript.
type Message struct {
	Role       Role            `json:"role"`
	Content    string          `json:"content"`
	ToolCalls  []ToolCall      `json:"tool_calls,omitempty"`
	ToolCallID string          `json:"tool_call_id,omitempty"`
	Name       string          `json:"name,omitempty"`
	Timestamp  time.Time       `json:"timestamp"`
	Metadata   json.RawMessage `json:"metadata,omitempty"`
}

// Handoff records a single-turn transition between experts.
type Handoff struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Reason string `json:"reason"`
}

// Session is the persistent conversational state for one session_id.
//
// Invariants (spec §3):
//  1. Messages is append-only within a turn; pruning may trim the oldest
//     entries between turns but the final assistant reply of every prior
//     turn is retained.
//  2. Every tool Message references a prior assistant Message's tool call
//     by ToolCallID.
//  3. CurrentExpert, once set, persists until an explicit handoff updates
//     it.
//  4. IterationCount never exceeds the configured per-turn maximum.
//  5. Total message bytes are kept under the configured ceiling.
type Session struct {
	SessionID      string                     `json:"session_id"`
	UserID         string                     `json:"user_id"`
	Workspace      string                     `json:"workspace"`
	Messages       []Message                  `json:"messages"`
	CurrentExpert  string                     `json:"current_expert,omitempty"`
	DomainContexts map[string]json.RawMessage `json:"domain_contexts,omitempty"`
	Handoff        *Handoff                   `json:"handoff,omitempty"`
	IterationCount int                        `json:"iteration_count"`
	CreatedAt      time.Time                  `json:"created_at"`
	UpdatedAt      time.Time                  `json:"updated_at"`
}

// Clone returns a deep copy of the session safe for independent mutation.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	out := *s
	out.Messages = append([]Message(nil), s.Messages...)
	if s.DomainContexts != nil {
		out.DomainContexts = make(map[string]json.RawMessage, len(s.DomainContexts))
		for k, v := range s.DomainContexts {
			out.DomainContexts[k] = append(json.RawMessage(nil), v...)
		}
	}
	if s.Handoff != nil {
		h := *s.Handoff
		out.Handoff = &h
	}
	return &out
}

// NewSession creates an empty session ready for its first turn.
func NewSession(sessionID, userID, workspace string) *Session {
	now := time.Now()
	if workspace == "" {
		workspace = "default"
	}
	return &Session{
		SessionID:      sessionID,
		UserID:         userID,
		Workspace:      workspace,
		DomainContexts: make(map[string]json.RawMessage),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// SessionDescription is the metadata-only view returned by describe().
type SessionDescription struct {
	SessionID     string    `json:"session_id"`
	MessageCount  int       `json:"message_count"`
	CurrentExpert string    `json:"current_expert,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Describe builds the metadata-only view of a session (spec §6.3).
func (s *Session) Describe() SessionDescription {
	return SessionDescription{
		SessionID:     s.SessionID,
		MessageCount:  len(s.Messages),
		CurrentExpert: s.CurrentExpert,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}
