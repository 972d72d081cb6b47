package session

import (
	"sync"
	"testing"

	"fintrack/internal/core"
)

func TestManagerLifecycle(t *testing.T) {
	m := NewManager()

	if m.Authenticated() {
		t.Error("fresh manager should have no session")
	}
	if _, ok := m.CurrentUser(); ok {
		t.Error("CurrentUser() should report no user")
	}
	if m.UserID() != 0 {
		t.Errorf("UserID() = %d, want 0", m.UserID())
	}

	m.Login(core.User{ID: 7, Username: "ada"})

	if !m.Authenticated() {
		t.Error("Authenticated() = false after Login")
	}
	if u, ok := m.CurrentUser(); !ok || u.ID != 7 {
		t.Errorf("CurrentUser() = %+v, %v; want user 7", u, ok)
	}
	if m.UserID() != 7 {
		t.Errorf("UserID() = %d, want 7", m.UserID())
	}

	m.Logout()
	if m.Authenticated() {
		t.Error("Authenticated() = true after Logout")
	}
}

func TestManagerLoginReplaces(t *testing.T) {
	m := NewManager()
	m.Login(core.User{ID: 1, Username: "first"})
	m.Login(core.User{ID: 2, Username: "second"})

	u, ok := m.CurrentUser()
	if !ok || u.ID != 2 {
		t.Errorf("CurrentUser() = %+v, want user 2", u)
	}
}

func TestManagerLogoutIdempotent(t *testing.T) {
	m := NewManager()
	m.Logout()
	m.Logout()
	if m.Authenticated() {
		t.Error("manager should stay logged out")
	}
}

func TestManagerConcurrentAccess(t *testing.T) {
	m := NewManager()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(id int64) {
			defer wg.Done()
			m.Login(core.User{ID: id})
		}(int64(i + 1))
		go func() {
			defer wg.Done()
			m.UserID()
			m.Authenticated()
		}()
	}
	wg.Wait()

	if !m.Authenticated() {
		t.Error("expected some session to survive concurrent logins")
	}
}
