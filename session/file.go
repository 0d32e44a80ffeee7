package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/rosepay/client-go/domain"
)

// sessionFile is the fixed name the credential lives under, deliberately
// distinct from any preference file in the same directory.
const sessionFile = "session.json"

// FileStore persists the credential as a JSON file so a login survives a
// process restart. Writes are atomic (write to temp, rename) and the file is
// owner-readable only.
type FileStore struct {
	mu  sync.Mutex
	dir string
}

// NewFileStore creates a FileStore rooted at dir. An empty dir resolves to
// <user config dir>/rosepay.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolve config dir: %w", err)
		}
		dir = filepath.Join(base, "rosepay")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path() string {
	return filepath.Join(s.dir, sessionFile)
}

func (s *FileStore) Set(cred domain.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(cred)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	tmp := s.path() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	if err := os.Rename(tmp, s.path()); err != nil {
		return fmt.Errorf("commit session: %w", err)
	}
	return nil
}

func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (s *FileStore) Get() (domain.Credential, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path())
	if err != nil {
		return domain.Credential{}, false
	}

	var cred domain.Credential
	if err := json.Unmarshal(data, &cred); err != nil || cred.Token == "" {
		// A corrupt session file is the same as no session.
		return domain.Credential{}, false
	}
	return cred, true
}

func (s *FileStore) IsAuthenticated() bool {
	_, ok := s.Get()
	return ok
}
