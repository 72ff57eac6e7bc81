package sessions

import (
	"context"
	"sync"
	"time"

	"github.com/sulaljuhani/ai-assistant-local-stack-sub001/internal/coreerrors"
)

// Locker serializes turns for the same session_id (spec §5: "turns for the
// same session_id are serialized"), mirroring the teacher's
// internal/agent/tool_registry.go lockSession helper and
// internal/sessions/locker.go's Locker interface.
type Locker interface {
	// Lock blocks (bounded by the busy-wait cap) or fails fast with
	// coreerrors.KindBusy, depending on policy, until the session's lock
	// is acquired.
	Lock(ctx context.Context, sessionID string) (unlock func(), err error)
}

type refCountedMutex struct {
	mu   sync.Mutex
	refs int
}

// LocalLocker is an in-memory, per-process Locker keyed by session id.
type LocalLocker struct {
	policy  BusyPolicyFunc
	waitCap time.Duration
	reject  bool

	mapMu sync.Mutex
	locks map[string]*refCountedMutex
}

// BusyPolicyFunc is an alias of string. LocalLocker does not consult a
// value of this type: its busy policy is fixed by the reject flag passed
// to NewLocalLocker.
type BusyPolicyFunc = string

// NewLocalLocker builds a Locker. reject=true implements
// config.BusyReject (fail fast with KindBusy); reject=false implements
// config.BusyWait (block up to waitCap).
func NewLocalLocker(reject bool, waitCap time.Duration) *LocalLocker {
	if waitCap <= 0 {
		waitCap = 30 * time.Second
	}
	return &LocalLocker{
		reject:  reject,
		waitCap: waitCap,
		locks:   make(map[string]*refCountedMutex),
	}
}

func (l *LocalLocker) acquire(sessionID string) *refCountedMutex {
	l.mapMu.Lock()
	defer l.mapMu.Unlock()
	m := l.locks[sessionID]
	if m == nil {
		m = &refCountedMutex{}
		l.locks[sessionID] = m
	}
	m.refs++
	return m
}

func (l *LocalLocker) release(sessionID string, m *refCountedMutex) {
	l.mapMu.Lock()
	defer l.mapMu.Unlock()
	m.refs--
	if m.refs <= 0 {
		delete(l.locks, sessionID)
	}
}

// Lock acquires the per-session lock according to the configured busy
// policy.
func (l *LocalLocker) Lock(ctx context.Context, sessionID string) (func(), error) {
	if sessionID == "" {
		return func() {}, nil
	}
	m := l.acquire(sessionID)

	if l.reject {
		if !m.mu.TryLock() {
			l.release(sessionID, m)
			return nil, coreerrors.New(coreerrors.KindBusy, "session %s is busy", sessionID)
		}
		return func() {
			m.mu.Unlock()
			l.release(sessionID, m)
		}, nil
	}

	waitCtx, cancel := context.WithTimeout(ctx, l.waitCap)
	defer cancel()

	acquired := make(chan struct{})
	go func() {
		m.mu.Lock()
		close(acquired)
	}()

	select {
	case <-acquired:
		return func() {
			m.mu.Unlock()
			l.release(sessionID, m)
		}, nil
	case <-waitCtx.Done():
		// The background goroutine above still owns the pending Lock()
		// call and this acquire()'s ref; once it eventually succeeds it
		// immediately unlocks and releases, so the ref is never leaked —
		// just held a little longer than this call waited.
		go func() {
			<-acquired
			m.mu.Unlock()
			l.release(sessionID, m)
		}()
		return nil, coreerrors.New(coreerrors.KindBusy, "timed out waiting for session %s", sessionID)
	}
}
