package server

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// SessionManager tracks live sessions and enforces the session limit.
type SessionManager struct {
	sessions    map[string]*Session
	mu          sync.RWMutex
	maxSessions int
	observers   []SessionObserver
	logger      *slog.Logger
}

// NewSessionManager creates a manager. maxSessions <= 0 means unlimited.
func NewSessionManager(maxSessions int, logger *slog.Logger) *SessionManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionManager{
		sessions:    make(map[string]*Session),
		maxSessions: maxSessions,
		logger:      logger.With("component", "session_manager"),
	}
}

// Observe registers observers for session lifecycle. Call before sessions
// are added.
func (m *SessionManager) Observe(observers ...SessionObserver) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observers = append(m.observers, observers...)
}

// Add registers a session, or returns ErrMaxSessionsReached.
func (m *SessionManager) Add(s *Session) error {
	m.mu.Lock()
	if m.maxSessions > 0 && len(m.sessions) >= m.maxSessions {
		m.mu.Unlock()
		m.logger.Warn("session limit reached", "max", m.maxSessions)
		return ErrMaxSessionsReached
	}
	m.sessions[s.ID] = s
	observers := m.observers
	count := len(m.sessions)
	m.mu.Unlock()

	for _, o := range observers {
		o.SessionOpened(s)
	}
	m.logger.Debug("session added", "session_id", s.ID, "sessions", count)
	return nil
}

// Remove unregisters a session. Removing an unknown session is a no-op.
func (m *SessionManager) Remove(id string) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	observers := m.observers
	m.mu.Unlock()

	if !ok {
		return
	}
	for _, o := range observers {
		o.SessionClosed(s)
	}
	st := s.Stats()
	m.logger.Debug("session removed",
		"session_id", id,
		"events", st.Events,
		"renders", st.Renders,
		"duration", time.Since(st.CreatedAt),
	)
}

// Get returns a session by ID.
func (m *SessionManager) Get(id string) *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[id]
}

// Count returns the number of live sessions.
func (m *SessionManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Shutdown closes every session. Their Serve calls return and remove them.
func (m *SessionManager) Shutdown() {
	m.mu.RLock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.RUnlock()

	for _, s := range sessions {
		s.closeWith(websocket.CloseGoingAway, "server shutting down")
	}
	m.logger.Info("sessions closed", "count", len(sessions))
}
