// Package session tracks the authenticated user. The tracker holds a single
// slot per instance: logging in replaces whoever was there before.
package session

import (
	"sync"

	"fintrack/internal/core"
)

// Manager is a concurrency-safe single-slot session holder.
type Manager struct {
	mu   sync.RWMutex
	user *core.User
}

func NewManager() *Manager {
	return &Manager{}
}

// Login stores u as the active user, replacing any previous session.
func (m *Manager) Login(u core.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.user = &u
}

// Logout clears the active session. Safe to call when nobody is logged in.
func (m *Manager) Logout() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.user = nil
}

// Clear drops any active session.
func (m *Manager) Clear() {
	m.Logout()
}

// CurrentUser returns the active user, or false when no session exists.
func (m *Manager) CurrentUser() (core.User, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return core.User{}, false
	}
	return *m.user, true
}

// UserID returns the active user's ID, or 0 when no session exists.
func (m *Manager) UserID() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return 0
	}
	return m.user.ID
}

// Authenticated reports whether a session is active.
func (m *Manager) Authenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user != nil
}
