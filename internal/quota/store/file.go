package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/appfit/quotad/internal/quota/domain"
)

// fileRecord is the persisted shape: only the current day and count are
// kept per identity, matching the single-document layout a browser
// keeps under one storage key.
type fileRecord struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

// FileStore is the device-scoped counter adapter. It holds one JSON
// document mapping identity to {day, count} and serializes access
// through a process mutex. Unreadable or corrupted state is treated as
// an empty store: the device counter exists for instant feedback, so
// losing it must never surface as an error.
type FileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load(ctx context.Context, identity, day string) (domain.DailyUsage, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.read()
	record, ok := records[identity]
	if !ok || record.Day != day {
		return domain.DailyUsage{}, false, nil
	}
	return domain.DailyUsage{Identity: identity, Day: day, Count: record.Count}, true, nil
}

func (s *FileStore) IncrementBelow(ctx context.Context, identity, day string, limit int) (int, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.read()
	record := records[identity]
	if record.Day != day {
		record = fileRecord{Day: day}
	}
	if record.Count >= limit {
		return record.Count, false, nil
	}
	record.Count++
	records[identity] = record
	if err := s.write(records); err != nil {
		return 0, false, err
	}
	return record.Count, true, nil
}

// read returns the decoded store contents, falling back to an empty map
// on any read or parse failure.
func (s *FileStore) read() map[string]fileRecord {
	records := make(map[string]fileRecord)
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return records
	}
	if err := json.Unmarshal(raw, &records); err != nil {
		return make(map[string]fileRecord)
	}
	return records
}

func (s *FileStore) write(records map[string]fileRecord) error {
	raw, err := json.Marshal(records)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(s.path, raw, 0o644)
}
