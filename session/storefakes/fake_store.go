package storefakes

import (
	"sync"

	"github.com/quaybank/teller/session"
)

var _ session.Store = (*FakeStore)(nil)

// FakeStore is an in-memory session.Store that records calls for
// assertions and can be primed to fail.
type FakeStore struct {
	lock    sync.Mutex
	session session.Session
	present bool

	SaveCalls  int
	ClearCalls int
	SaveErr    error
	ClearErr   error
}

func NewFakeStore() *FakeStore {
	return &FakeStore{}
}

func (f *FakeStore) Save(accessToken, tokenType string, rememberMe bool) error {
	f.lock.Lock()
	defer f.lock.Unlock()

	f.SaveCalls++
	if f.SaveErr != nil {
		return f.SaveErr
	}
	f.session = session.Session{
		AccessToken: accessToken,
		TokenType:   tokenType,
		RememberMe:  rememberMe,
	}
	f.present = true
	return nil
}

func (f *FakeStore) Read() (session.Session, bool) {
	f.lock.Lock()
	defer f.lock.Unlock()

	if !f.present {
		return session.Session{}, false
	}
	return f.session, true
}

func (f *FakeStore) Clear() error {
	f.lock.Lock()
	defer f.lock.Unlock()

	f.ClearCalls++
	if f.ClearErr != nil {
		return f.ClearErr
	}
	f.session = session.Session{}
	f.present = false
	return nil
}
