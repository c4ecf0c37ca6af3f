package redis

import (
	"context"
	"sync"
	"time"

	"cppquiz-service/internal/quiz"
	"github.com/redis/go-redis/v9"
)

// SessionRegistry is a Redis-aware session registry. Notes:
//   - Live sessions stay in a local in-memory map so the in-process timer and
//     broadcast logic keep working.
//   - Redis marks which registration number holds an active attempt, so sibling
//     instances can refuse or take over a login (single-device rule).
//   - For true distribution you'd pair this with a pub/sub projector that fans
//     out session events.
type SessionRegistry struct {
	client   *redis.Client
	ttl      time.Duration
	mu       sync.RWMutex
	sessions map[string]*quiz.Session
}

func NewSessionRegistry(client *redis.Client, ttl time.Duration) *SessionRegistry {
	return &SessionRegistry{
		client:   client,
		ttl:      ttl,
		sessions: make(map[string]*quiz.Session),
	}
}

func (r *SessionRegistry) Put(regNumber string, session *quiz.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[regNumber] = session
	// best-effort liveness marker
	_ = r.client.Set(context.Background(), r.key(regNumber), "1", r.ttl).Err()
}

func (r *SessionRegistry) Get(regNumber string) (*quiz.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	session, ok := r.sessions[regNumber]
	return session, ok
}

// Delete removes the mapping only if it still points at the given session, so
// a finished attempt cannot evict its replacement.
func (r *SessionRegistry) Delete(regNumber string, session *quiz.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.sessions[regNumber]
	if !ok || current != session {
		return
	}
	delete(r.sessions, regNumber)
	_ = r.client.Del(context.Background(), r.key(regNumber)).Err()
}

func (r *SessionRegistry) key(regNumber string) string {
	return "cppquiz:session:" + regNumber
}
