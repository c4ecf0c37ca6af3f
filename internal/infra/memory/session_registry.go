package memory

import (
	"sync"

	"cppquiz-service/internal/quiz"
)

// SessionRegistry is an in-memory implementation of quiz.SessionRegistry.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*quiz.Session
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[string]*quiz.Session),
	}
}

func (r *SessionRegistry) Put(regNumber string, session *quiz.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[regNumber] = session
}

func (r *SessionRegistry) Get(regNumber string) (*quiz.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	session, ok := r.sessions[regNumber]
	return session, ok
}

// Delete removes the entry only when it still holds the given session.
func (r *SessionRegistry) Delete(regNumber string, session *quiz.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if current, ok := r.sessions[regNumber]; ok && current == session {
		delete(r.sessions, regNumber)
	}
}
