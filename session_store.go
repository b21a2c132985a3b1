package usermgmt

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	goerrors "github.com/goliatone/go-errors"
)

const (
	tokenFileName  = "token"
	claimsFileName = "claims.json"
)

// FileStore persists the session under two independent entries in a
// directory, one holding the raw bearer credential and one the serialized
// claims. A reload reconstructs both without a network round trip.
type FileStore struct {
	mu  sync.Mutex
	dir string
}

var _ SessionStore = (*FileStore)(nil)

// NewFileStore creates a durable session store rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// DefaultStoreDir resolves the conventional per-user session directory.
func DefaultStoreDir(appName string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryOperation, "failed to resolve home directory")
	}
	return filepath.Join(home, ".config", appName), nil
}

func (s *FileStore) Set(token string, claims Claims) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "failed to create session directory")
	}

	raw, err := json.MarshalIndent(claims, "", "  ")
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to encode session claims")
	}

	// Claims land before the credential so a crash in between still reads
	// back as unauthenticated.
	if err := os.WriteFile(filepath.Join(s.dir, claimsFileName), raw, 0o600); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "failed to persist session claims")
	}
	if err := os.WriteFile(filepath.Join(s.dir, tokenFileName), []byte(token), 0o600); err != nil {
		_ = os.Remove(filepath.Join(s.dir, claimsFileName))
		return goerrors.Wrap(err, goerrors.CategoryOperation, "failed to persist session credential")
	}

	return nil
}

func (s *FileStore) Get() (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, err := os.ReadFile(filepath.Join(s.dir, tokenFileName))
	if err != nil {
		return Session{}, false
	}

	raw, err := os.ReadFile(filepath.Join(s.dir, claimsFileName))
	if err != nil {
		return Session{}, false
	}

	var claims Claims
	if err := json.Unmarshal(raw, &claims); err != nil {
		return Session{}, false
	}

	if len(token) == 0 {
		return Session{}, false
	}

	return Session{Token: string(token), Claims: claims}, true
}

func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Credential goes first: a failure halfway leaves no usable session.
	if err := removeIfPresent(filepath.Join(s.dir, tokenFileName)); err != nil {
		return err
	}
	return removeIfPresent(filepath.Join(s.dir, claimsFileName))
}

func removeIfPresent(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "failed to remove session entry")
	}
	return nil
}

// MemoryStore keeps the session in process memory. It backs tests and
// short-lived programs that have no use for durable state.
type MemoryStore struct {
	mu      sync.Mutex
	session Session
	active  bool
}

var _ SessionStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Set(token string, claims Claims) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = Session{Token: token, Claims: claims}
	s.active = true
	return nil
}

func (s *MemoryStore) Get() (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return Session{}, false
	}
	return s.session, true
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = Session{}
	s.active = false
	return nil
}
