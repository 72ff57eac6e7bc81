package models

import (
	"encoding/json"
	"testing"
)

func TestNewSessionDefaults(t *testing.T) {
	s := NewSession("sess-1", "user-1", "")
	if s.Workspace != "default" {
		t.Errorf("Workspace = %q, want %q", s.Workspace, "default")
	}
	if s.CurrentExpert != "" {
		t.Errorf("CurrentExpert should be unset on a new session, got %q", s.CurrentExpert)
	}
	if s.DomainContexts == nil {
		t.Error("DomainContexts should be initialized, not nil")
	}
}

func TestSessionCloneIsIndependent(t *testing.T) {
	s := NewSession("sess-1", "user-1", "ws")
	s.Messages = append(s.Messages, Message{Role: RoleUser, Content: "hi"})
	s.DomainContexts["food"] = json.RawMessage(`{"a":1}`)
	s.Handoff = &Handoff{Source: "food", Target: "tasks", Reason: "domain shift"}

	clone := s.Clone()
	clone.Messages[0].Content = "mutated"
	clone.DomainContexts["food"] = json.RawMessage(`{"a":2}`)
	clone.Handoff.Reason = "mutated reason"

	if s.Messages[0].Content != "hi" {
		t.Error("mutating clone's Messages affected the original")
	}
	if string(s.DomainContexts["food"]) != `{"a":1}` {
		t.Error("mutating clone's DomainContexts affected the original")
	}
	if s.Handoff.Reason != "domain shift" {
		t.Error("mutating clone's Handoff affected the original")
	}
}

func TestSessionCloneNil(t *testing.T) {
	var s *Session
	if s.Clone() != nil {
		t.Error("Clone of a nil session should return nil")
	}
}

func TestSessionDescribe(t *testing.T) {
	s := NewSession("sess-1", "user-1", "ws")
	s.Messages = append(s.Messages, Message{Role: RoleUser, Content: "hi"}, Message{Role: RoleAssistant, Content: "hello"})
	s.CurrentExpert = "food"

	desc := s.Describe()
	if desc.SessionID != "sess-1" {
		t.Errorf("SessionID = %q, want %q", desc.SessionID, "sess-1")
	}
	if desc.MessageCount != 2 {
		t.Errorf("MessageCount = %d, want 2", desc.MessageCount)
	}
	if desc.CurrentExpert != "food" {
		t.Errorf("CurrentExpert = %q, want %q", desc.CurrentExpert, "food")
	}
}

func TestPreferencePositive(t *testing.T) {
	tests := map[Preference]bool{
		PreferenceFavorite: true,
		PreferenceLiked:    true,
		PreferenceNeutral:  false,
		PreferenceDisliked: false,
	}
	for pref, want := range tests {
		if got := pref.Positive(); got != want {
			t.Errorf("Preference(%s).Positive() = %v, want %v", pref, got, want)
		}
	}
}

func TestExpertDescriptorHasTool(t *testing.T) {
	e := &ExpertDescriptor{AllowedTools: map[string]struct{}{"food_entry_create": {}}}
	if !e.HasTool("food_entry_create") {
		t.Error("HasTool should be true for an allowed tool")
	}
	if e.HasTool("task_create") {
		t.Error("HasTool should be false for a tool not in AllowedTools")
	}

	var nilExpert *ExpertDescriptor
	if nilExpert.HasTool("anything") {
		t.Error("HasTool on a nil descriptor should be false")
	}
}
