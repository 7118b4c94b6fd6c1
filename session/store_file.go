package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
)

// FileStore persists the session as a single JSON document on disk, the
// durable equivalent of browser local storage. The document holds both
// fixed keys, so the pair can never be written or removed separately.
type FileStore struct {
	mu   sync.Mutex
	path string
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates a store writing to dir/session.json. The
// directory is created if missing.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("[NewFileStore] dir is required")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, errors.Wrap(err, "[NewFileStore] MkdirAll")
	}
	return &FileStore{path: filepath.Join(dir, "session.json")}, nil
}

func (f *FileStore) Save(accessToken, tokenType string, rememberMe bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := json.Marshal(Session{
		AccessToken: accessToken,
		TokenType:   tokenType,
		RememberMe:  rememberMe,
	})
	if err != nil {
		return errors.Wrap(err, "[FileStore.Save] Marshal")
	}

	// Write-then-rename keeps the pair atomic on disk.
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return errors.Wrap(err, "[FileStore.Save] WriteFile")
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return errors.Wrap(err, "[FileStore.Save] Rename")
	}
	return nil
}

func (f *FileStore) Read() (Session, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if err != nil {
		return Session{}, false
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return Session{}, false
	}
	if !sess.Valid() {
		return Session{}, false
	}
	return sess, true
}

func (f *FileStore) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "[FileStore.Clear] Remove")
	}
	return nil
}
