package reminder

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

const markersFile = "reminders.json"

// MarkerStore persists which task+day reminders have already fired, so a
// restart does not re-send the whole day's reminders.
type MarkerStore struct {
	mu   sync.Mutex
	path string
	seen map[string]bool
}

func NewMarkerStore(dataDir string) (*MarkerStore, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}
	m := &MarkerStore{
		path: filepath.Join(dataDir, markersFile),
		seen: map[string]bool{},
	}

	b, err := os.ReadFile(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			return m, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(b, &m.seen); err != nil {
		// Corrupt marker file: start over, worst case a duplicate reminder.
		m.seen = map[string]bool{}
	}
	return m, nil
}

func (m *MarkerStore) Seen(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.seen[key]
}

func (m *MarkerStore) Mark(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seen[key] = true
	b, err := json.MarshalIndent(m.seen, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(m.path, b, 0o644)
}
