// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package session

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

// Manager owns the running sessions, at most one per user.
type Manager struct {
	ctx  context.Context
	deps Deps
	cfg  Config

	mu       sync.Mutex
	sessions map[string]*Session
	// closed once the user's session has been started and registered
	starting map[string]chan struct{}
}

// NewManager creates a manager whose sessions live at most as long as ctx.
func NewManager(ctx context.Context, deps Deps, cfg Config) *Manager {
	return &Manager{
		ctx:      ctx,
		deps:     deps.withDefaults(),
		cfg:      cfg.withDefaults(),
		sessions: make(map[string]*Session),
		starting: make(map[string]chan struct{}),
	}
}

// Start returns the user's running session, starting one if needed.
// The bool result reports whether a new session was started. Loading the
// session happens outside the lock; concurrent starts for the same user
// wait for the first one.
func (m *Manager) Start(userID string) (*Session, bool) {
	m.mu.Lock()
	m.awaitStart(userID)

	if s, ok := m.sessions[userID]; ok {
		select {
		case <-s.Done():
			// loop ended with the parent context; replace it
			delete(m.sessions, userID)
			defer s.Stop()
		default:
			m.mu.Unlock()
			return s, false
		}
	}

	started := make(chan struct{})
	m.starting[userID] = started
	m.mu.Unlock()

	s := Start(m.ctx, userID, m.deps, m.cfg)

	m.mu.Lock()
	delete(m.starting, userID)
	m.sessions[userID] = s
	m.mu.Unlock()
	close(started)
	return s, true
}

// awaitStart blocks until no start is in progress for userID. m.mu must be
// held; it is released while waiting.
func (m *Manager) awaitStart(userID string) {
	for {
		started, ok := m.starting[userID]
		if !ok {
			return
		}
		m.mu.Unlock()
		<-started
		m.mu.Lock()
	}
}

// Get returns the user's running session.
func (m *Manager) Get(userID string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[userID]
	return s, ok
}

// Stop ends the user's session. Returns false if none was running.
func (m *Manager) Stop(userID string) bool {
	m.mu.Lock()
	m.awaitStart(userID)
	s, ok := m.sessions[userID]
	delete(m.sessions, userID)
	m.mu.Unlock()

	if !ok {
		return false
	}
	s.Stop()
	return true
}

// StopAll ends every session, used on shutdown.
func (m *Manager) StopAll() {
	m.mu.Lock()
	for len(m.starting) > 0 {
		for userID := range m.starting {
			m.awaitStart(userID)
			break
		}
	}
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	var wg sync.WaitGroup
	for _, s := range sessions {
		wg.Add(1)
		go func(s *Session) {
			defer wg.Done()
			s.Stop()
		}(s)
	}
	wg.Wait()

	logrus.Infof("stopped %d sessions", len(sessions))
}

// Count returns the number of running sessions.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
