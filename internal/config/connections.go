package config

import (
	"crypto/sha256"
	"fmt"
	"log"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/devlink-io/devlink/internal/models"
)

// Store reads and writes the durable device record. The zero value is not
// usable; create one with NewStore (default path) or NewStoreAt (tests,
// alternate roots).
type Store struct {
	path string

	mu       sync.Mutex
	lastSave [sha256.Size]byte
	saved    bool
}

// NewStore returns a store backed by ~/.devlink/connections.yaml.
func NewStore() (*Store, error) {
	path, err := ConnectionsFile()
	if err != nil {
		return nil, err
	}
	return &Store{path: path}, nil
}

// NewStoreAt returns a store backed by an explicit file path.
func NewStoreAt(path string) *Store {
	return &Store{path: path}
}

// Path returns the file the store reads and writes.
func (s *Store) Path() string {
	return s.path
}

// Load reads the device record from disk. Loading never fails observably:
// a missing or unparseable file yields the default record with a log line,
// matching the rule that the worst startup outcome is an empty device list.
func (s *Store) Load() models.Connections {
	if !FileExists(s.path) {
		return models.NewConnections()
	}
	var c models.Connections
	if err := LoadYAML(s.path, &c); err != nil {
		log.Printf("Warning: ignoring unreadable connections file: %v", err)
		return models.NewConnections()
	}
	if c.Version == 0 {
		c.Version = 1
	}
	return c
}

// Save writes the record to disk. Last writer wins; there is no merge.
// The written content is fingerprinted so ChangedExternally can tell this
// store's own saves apart from edits by other processes.
func (s *Store) Save(c models.Connections) error {
	data, err := yaml.Marshal(&c)
	if err != nil {
		return fmt.Errorf("failed to marshal connections: %w", err)
	}
	if err := writeFileAtomic(s.path, data); err != nil {
		return err
	}

	s.mu.Lock()
	s.lastSave = sha256.Sum256(data)
	s.saved = true
	s.mu.Unlock()
	return nil
}

// ChangedExternally reports whether the file's current content differs from
// this store's most recent write. A store that has never saved treats any
// content as external.
func (s *Store) ChangedExternally() bool {
	s.mu.Lock()
	saved, last := s.saved, s.lastSave
	s.mu.Unlock()

	if !saved {
		return true
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return true
	}
	return sha256.Sum256(data) != last
}
