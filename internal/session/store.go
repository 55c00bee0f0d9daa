// Package session holds the authenticated identity for the running
// client. The store is the single writer of the token: the fetch and
// mutation layers only ever read it. Every state transition is written
// through to the auth-storage namespace so a restart restores the
// session exactly as it was left.
package session

import (
	"encoding/json"
	"errors"
	"log"
	"sync"

	"github.com/iliyamo/hotel-guest-client/internal/model"
	"github.com/iliyamo/hotel-guest-client/internal/storage"
)

// Session is the persisted session document. The three fields are
// written together on every transition; IsAuthenticated must equal
// "token is present" once InitializeAuth has reconciled the state.
type Session struct {
	User            *model.User `json:"user"`
	Token           string      `json:"token"`
	IsAuthenticated bool        `json:"isAuthenticated"`
}

// ErrPartialCredentials is returned by Login when either the user or
// the token is missing. The store is left untouched in that case.
var ErrPartialCredentials = errors.New("session: login requires both user and token")

// Store owns the session state. It is safe for concurrent use; all
// mutation goes through Login, Logout and InitializeAuth.
type Store struct {
	mu   sync.RWMutex
	kv   storage.KV
	cur  Session
	subs map[int]func(Session)
	next int
}

// New restores the persisted session from kv, starting empty when
// nothing was persisted yet. A corrupt document is discarded rather
// than wedging the client at startup.
func New(kv storage.KV) *Store {
	s := &Store{kv: kv, subs: make(map[int]func(Session))}
	data, err := kv.Get(storage.SessionNamespace)
	if err == nil {
		if err := json.Unmarshal(data, &s.cur); err != nil {
			log.Printf("session: discarding corrupt persisted state: %v", err)
			s.cur = Session{}
		}
	}
	return s
}

// Login stores the authenticated identity and marks the session
// authenticated. Both fields must be present; partial credentials
// leave the store unchanged.
func (s *Store) Login(user model.User, token string) error {
	if token == "" || user.ID == 0 {
		return ErrPartialCredentials
	}
	s.mu.Lock()
	u := user
	s.cur = Session{User: &u, Token: token, IsAuthenticated: true}
	s.persistLocked()
	cur := s.cur
	subs := s.snapshotSubsLocked()
	s.mu.Unlock()
	notify(subs, cur)
	return nil
}

// Logout clears the identity, the token and the authenticated flag. It
// does not navigate; callers decide where to go next.
func (s *Store) Logout() {
	s.mu.Lock()
	s.cur = Session{}
	s.persistLocked()
	cur := s.cur
	subs := s.snapshotSubsLocked()
	s.mu.Unlock()
	notify(subs, cur)
}

// InitializeAuth reconciles restored state once per process start: a
// persisted token with a false IsAuthenticated flag is healed to true.
// The token itself is never inspected for validity or expiry; an
// expired token simply fails at the API and the user signs in again.
func (s *Store) InitializeAuth() {
	s.mu.Lock()
	if s.cur.Token != "" && !s.cur.IsAuthenticated {
		s.cur.IsAuthenticated = true
		s.persistLocked()
	}
	cur := s.cur
	subs := s.snapshotSubsLocked()
	s.mu.Unlock()
	notify(subs, cur)
}

// Token returns the current bearer token, empty when signed out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur.Token
}

// User returns the current user, or nil when signed out.
func (s *Store) User() *model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cur.User == nil {
		return nil
	}
	u := *s.cur.User
	return &u
}

// IsAuthenticated reports whether a session is active.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur.IsAuthenticated
}

// Snapshot returns a copy of the full session state.
func (s *Store) Snapshot() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cur := s.cur
	if cur.User != nil {
		u := *cur.User
		cur.User = &u
	}
	return cur
}

// Subscribe registers fn to run after every state transition. The
// returned function removes the subscription.
func (s *Store) Subscribe(fn func(Session)) func() {
	s.mu.Lock()
	id := s.next
	s.next++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// persistLocked writes the current state through to the auth-storage
// namespace. Persistence failures are logged, not fatal: the in-memory
// session stays authoritative for the running process.
func (s *Store) persistLocked() {
	data, err := json.Marshal(s.cur)
	if err != nil {
		log.Printf("session: marshal state: %v", err)
		return
	}
	if err := s.kv.Put(storage.SessionNamespace, data); err != nil {
		log.Printf("session: persist state: %v", err)
	}
}

func (s *Store) snapshotSubsLocked() []func(Session) {
	out := make([]func(Session), 0, len(s.subs))
	for _, fn := range s.subs {
		out = append(out, fn)
	}
	return out
}

// notify runs outside the store lock so subscribers may call back into
// the store.
func notify(subs []func(Session), cur Session) {
	for _, fn := range subs {
		fn(cur)
	}
}
