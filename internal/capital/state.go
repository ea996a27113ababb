package capital

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/schmidb/AI-crypto-bot-sub000/internal/types"
)

// StateStore persists the CapitalState snapshot with write-then-rename
// discipline. Single writer per cycle; the engine serializes access.
type StateStore struct {
	mu   sync.Mutex
	path string
}

func NewStateStore(path string) *StateStore {
	return &StateStore{path: path}
}

// Load reads the snapshot. The second return is false when no snapshot
// exists yet; the caller seeds and saves an initial state at bootstrap.
func (s *StateStore) Load() (types.CapitalState, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return types.CapitalState{}, false, nil
	}
	if err != nil {
		return types.CapitalState{}, false, fmt.Errorf("read capital state: %w", err)
	}
	var state types.CapitalState
	if err := json.Unmarshal(b, &state); err != nil {
		return types.CapitalState{}, false, fmt.Errorf("decode capital state: %w", err)
	}
	if state.SchemaVersion > types.CapitalStateSchemaVersion {
		return types.CapitalState{}, false, fmt.Errorf("capital state schema %d newer than supported %d", state.SchemaVersion, types.CapitalStateSchemaVersion)
	}
	return normalize(state), true, nil
}

// Save atomically replaces the snapshot.
func (s *StateStore) Save(state types.CapitalState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state = normalize(state)
	b, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("encode capital state: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create capital state dir: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("write capital state: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace capital state: %w", err)
	}
	return nil
}

func normalize(state types.CapitalState) types.CapitalState {
	if state.SchemaVersion == 0 {
		state.SchemaVersion = types.CapitalStateSchemaVersion
	}
	if state.Exposure == nil {
		state.Exposure = map[string]float64{}
	}
	return state
}
