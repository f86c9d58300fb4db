// Package session holds the per-user study state of a logged-in user: the
// card store, the theme and the quiz in progress.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vytor/flashstudy/internal/cardstore"
	"github.com/vytor/flashstudy/internal/models"
	"github.com/vytor/flashstudy/internal/quiz"
)

// Session is the state of one logged-in user. Callers hold the session
// lock through Do while touching Cards, Theme or Quiz.
type Session struct {
	ID        string
	Username  string
	CreatedAt time.Time

	Cards *cardstore.Store
	Theme models.Theme
	Quiz  *quiz.Engine
	// Unrecorded holds a finished quiz result whose score history write
	// failed, until it is recorded or the quiz is abandoned.
	Unrecorded *quiz.Result

	mu sync.Mutex
}

// New creates an empty session for username.
func New(username string, opts ...quiz.Option) *Session {
	return &Session{
		ID:        uuid.NewString(),
		Username:  username,
		CreatedAt: time.Now(),
		Cards:     cardstore.New(),
		Theme:     models.DefaultTheme(),
		Quiz:      quiz.NewEngine(opts...),
	}
}

// Do runs fn with the session locked.
func (s *Session) Do(fn func(s *Session) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s)
}

// clear drops the cards and any running quiz.
func (s *Session) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Cards.Clear()
	s.Quiz.Abandon()
	s.Unrecorded = nil
}

// Manager keeps at most one active session per user.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	quizOpts []quiz.Option
}

// NewManager creates an empty manager. quizOpts configure the quiz engine
// of every new session.
func NewManager(quizOpts ...quiz.Option) *Manager {
	return &Manager{sessions: make(map[string]*Session), quizOpts: quizOpts}
}

// Open starts a new session for username, closing the previous one.
func (m *Manager) Open(username string) *Session {
	s := New(username, m.quizOpts...)

	m.mu.Lock()
	old := m.sessions[username]
	m.sessions[username] = s
	m.mu.Unlock()

	if old != nil {
		old.clear()
	}
	return s
}

// Get returns the session with the given user and ID, or nil when it has
// been closed or replaced.
func (m *Manager) Get(username, id string) *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := m.sessions[username]
	if s == nil || s.ID != id {
		return nil
	}
	return s
}

// Close ends the session with the given ID. It reports whether a session
// was removed.
func (m *Manager) Close(username, id string) bool {
	m.mu.Lock()
	s := m.sessions[username]
	if s == nil || s.ID != id {
		m.mu.Unlock()
		return false
	}
	delete(m.sessions, username)
	m.mu.Unlock()

	s.clear()
	return true
}

// Len returns the number of active sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Expire closes every session created before cutoff and returns how many
// were removed.
func (m *Manager) Expire(cutoff time.Time) int {
	m.mu.Lock()
	var expired []*Session
	for username, s := range m.sessions {
		if s.CreatedAt.Before(cutoff) {
			expired = append(expired, s)
			delete(m.sessions, username)
		}
	}
	m.mu.Unlock()

	for _, s := range expired {
		s.clear()
	}
	return len(expired)
}
