package session

import "sync"

// MemoryStore keeps the session in process memory. It is the default
// backend and the one tests use.
type MemoryStore struct {
	mu      sync.RWMutex
	session Session
	present bool
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Save(accessToken, tokenType string, rememberMe bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.session = Session{
		AccessToken: accessToken,
		TokenType:   tokenType,
		RememberMe:  rememberMe,
	}
	m.present = true
	return nil
}

func (m *MemoryStore) Read() (Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.present {
		return Session{}, false
	}
	return m.session, true
}

func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.session = Session{}
	m.present = false
	return nil
}
