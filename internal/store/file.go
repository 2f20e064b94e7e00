package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"
)

// FileStore keeps all countdowns in a single JSON file that is rewritten
// wholesale on every mutation. A mutex serializes access; this is the
// only coordination the single-process design needs.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// OpenFile creates the data directory if needed and returns a store
// backed by the given JSON file. The file itself is created lazily on
// the first write.
func OpenFile(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileStore{path: path}, nil
}

func (s *FileStore) Close() error { return nil }

func (s *FileStore) LoadAll() (map[string]Countdown, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(), nil
}

func (s *FileStore) Get(id string) (Countdown, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.loadLocked()[id]
	if !ok {
		return Countdown{}, ErrNotFound
	}
	return c, nil
}

func (s *FileStore) Upsert(c Countdown) error {
	if c.ID == "" {
		return fmt.Errorf("countdown id required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	all := s.loadLocked()
	all[c.ID] = c
	return s.saveLocked(all)
}

func (s *FileStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := s.loadLocked()
	if _, ok := all[id]; !ok {
		return nil
	}
	delete(all, id)
	return s.saveLocked(all)
}

// loadLocked reads the whole file. A missing file means no countdowns. A
// corrupt file is logged and also treated as empty so one bad write never
// takes the process down; the next save overwrites it.
func (s *FileStore) loadLocked() map[string]Countdown {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Error().Err(err).Str("path", s.path).Msg("failed to read countdown database, starting empty")
		}
		return map[string]Countdown{}
	}
	var all map[string]Countdown
	if err := json.Unmarshal(data, &all); err != nil {
		log.Error().Err(err).Str("path", s.path).Msg("countdown database is corrupt, starting empty")
		return map[string]Countdown{}
	}
	if all == nil {
		all = map[string]Countdown{}
	}
	return all
}

func (s *FileStore) saveLocked(all map[string]Countdown) error {
	data, err := json.Marshal(all)
	if err != nil {
		return fmt.Errorf("marshal countdowns: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write countdowns: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace countdowns: %w", err)
	}
	return nil
}
