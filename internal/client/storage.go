package client

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// Persisted state keys, one JSON-serialized value each.
const (
	KeyCart  = "moden_kate_cart"
	KeyUser  = "moden_kate_user"
	KeyToken = "admin_token"
	KeyAdmin = "admin_user"
)

// Storage is the persistence abstraction the Store writes through on every
// mutation. Implementations must be safe for concurrent use.
type Storage interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
	Delete(key string)
}

// MemoryStorage is an in-memory Storage, used in tests and as a fallback
// when no state directory is configured.
type MemoryStorage struct {
	mu   sync.Mutex
	data map[string][]byte
}

// NewMemoryStorage returns an empty MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{data: make(map[string][]byte)}
}

func (s *MemoryStorage) Get(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	return v, ok
}

func (s *MemoryStorage) Set(key string, value []byte) {
	s.mu.Lock()
	s.data[key] = append([]byte(nil), value...)
	s.mu.Unlock()
}

func (s *MemoryStorage) Delete(key string) {
	s.mu.Lock()
	delete(s.data, key)
	s.mu.Unlock()
}

// FileStorage persists all keys into a single JSON file, rewritten on every
// mutation. Load failures leave the store empty rather than failing
// construction.
type FileStorage struct {
	path string

	mu   sync.Mutex
	data map[string][]byte
}

// NewFileStorage opens (or initializes) the state file at path.
func NewFileStorage(path string) (*FileStorage, error) {
	s := &FileStorage{path: path, data: make(map[string][]byte)}
	raw, err := os.ReadFile(path)
	if err == nil {
		var m map[string]json.RawMessage
		if err := json.Unmarshal(raw, &m); err == nil {
			for k, v := range m {
				s.data[k] = v
			}
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}
	return s, nil
}

func (s *FileStorage) Get(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	return v, ok
}

func (s *FileStorage) Set(key string, value []byte) {
	s.mu.Lock()
	s.data[key] = append([]byte(nil), value...)
	s.flush()
	s.mu.Unlock()
}

func (s *FileStorage) Delete(key string) {
	s.mu.Lock()
	delete(s.data, key)
	s.flush()
	s.mu.Unlock()
}

// flush writes the state file. Must be called with mu held. Write errors
// are swallowed: persistence is best-effort, like browser local storage.
func (s *FileStorage) flush() {
	m := make(map[string]json.RawMessage, len(s.data))
	for k, v := range s.data {
		m[k] = v
	}
	b, err := json.Marshal(m)
	if err != nil {
		return
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return
	}
	_ = os.Rename(tmp, s.path)
}

// DefaultStatePath returns the conventional state file location under the
// user config directory.
func DefaultStatePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "storefront-state.json"
	}
	return filepath.Join(dir, "modenkate", "state.json")
}
