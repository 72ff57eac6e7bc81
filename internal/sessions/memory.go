package sessions

import (
	"context"
	"sync"

	"github.com/sulaljuhani/ai-assistant-local-stack-sub001/pkg/models"
)

// MemoryStore is an in-memory Store, mirroring the teacher's
// internal/sessions/memory.go: suitable for dev/test, not for durability
// across process restarts.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*models.Session
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*models.Session)}
}

func (m *MemoryStore) Load(ctx context.Context, sessionID, userID, workspace string) (*models.Session, error) {
	m.mu.RLock()
	existing, ok := m.sessions[sessionID]
	m.mu.RUnlock()
	if ok {
		return existing.Clone(), nil
	}
	return models.NewSession(sessionID, userID, workspace), nil
}

func (m *MemoryStore) Save(ctx context.Context, session *models.Session) error {
	if session == nil {
		return nil
	}
	m.mu.Lock()
	m.sessions[session.SessionID] = session.Clone()
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Clear(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	delete(m.sessions, sessionID)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Describe(ctx context.Context, sessionID string) (models.SessionDescription, bool, error) {
	m.mu.RLock()
	s, ok := m.sessions[sessionID]
	m.mu.RUnlock()
	if !ok {
		return models.SessionDescription{}, false, nil
	}
	return s.Describe(), true, nil
}
