package trainer

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Manager keeps one trainer session per player
type Manager struct {
	cfg         Config
	idleTimeout time.Duration

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates a session manager. Sessions idle for longer than
// idleTimeout are removed by EvictIdle; zero disables eviction.
func NewManager(cfg Config, idleTimeout time.Duration) *Manager {
	return &Manager{
		cfg:         cfg.withDefaults(),
		idleTimeout: idleTimeout,
		sessions:    make(map[string]*Session),
	}
}

// Start returns the player's session, creating it if needed. The bool
// reports whether a new session was created.
func (m *Manager) Start(ctx context.Context, playerID string) (*Session, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if session, exists := m.sessions[playerID]; exists {
		return session, false, nil
	}

	session, err := NewSession(ctx, playerID, m.cfg)
	if err != nil {
		return nil, false, err
	}
	m.sessions[playerID] = session
	return session, true, nil
}

// Get returns the player's session
func (m *Manager) Get(playerID string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, exists := m.sessions[playerID]
	if !exists {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// End closes and removes the player's session
func (m *Manager) End(ctx context.Context, playerID string) error {
	m.mu.Lock()
	session, exists := m.sessions[playerID]
	delete(m.sessions, playerID)
	m.mu.Unlock()

	if !exists {
		return ErrSessionNotFound
	}
	session.Close(ctx)
	return nil
}

// EvictIdle closes every session whose player has not acted within the
// idle timeout and returns how many were closed
func (m *Manager) EvictIdle(ctx context.Context) int {
	if m.idleTimeout <= 0 {
		return 0
	}
	cutoff := m.cfg.Now().Add(-m.idleTimeout)

	m.mu.Lock()
	var idle []*Session
	for playerID, session := range m.sessions {
		if session.LastActive().Before(cutoff) {
			idle = append(idle, session)
			delete(m.sessions, playerID)
		}
	}
	m.mu.Unlock()

	for _, session := range idle {
		m.cfg.Logger.Info("Evicting idle trainer session %s for player %s", session.ID, session.PlayerID)
		session.Close(ctx)
	}
	return len(idle)
}

// Players returns the IDs of players with an open session, sorted
func (m *Manager) Players() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	players := make([]string, 0, len(m.sessions))
	for playerID := range m.sessions {
		players = append(players, playerID)
	}
	sort.Strings(players)
	return players
}

// Shutdown closes every open session
func (m *Manager) Shutdown(ctx context.Context) {
	for _, playerID := range m.Players() {
		if err := m.End(ctx, playerID); err != nil {
			m.cfg.Logger.Warn("Error ending session for player %s: %v", playerID, err)
		}
	}
}
