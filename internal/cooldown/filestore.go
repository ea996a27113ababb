package cooldown

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const schemaVersion = 1

type snapshot struct {
	SchemaVersion int                  `json:"schema_version"`
	Records       map[string]time.Time `json:"records"`
}

// FileStore keeps cooldown records in a single JSON file. Writes go through
// a temp file and os.Rename so a crash mid-write cannot corrupt the
// snapshot.
type FileStore struct {
	mu      sync.Mutex
	path    string
	records map[string]time.Time
}

// OpenFileStore loads the snapshot at path, creating an empty store when the
// file does not exist yet.
func OpenFileStore(path string) (*FileStore, error) {
	fs := &FileStore{path: path, records: map[string]time.Time{}}
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return fs, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cooldown store: %w", err)
	}
	var snap snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return nil, fmt.Errorf("decode cooldown store: %w", err)
	}
	if snap.SchemaVersion > schemaVersion {
		return nil, fmt.Errorf("cooldown store schema %d newer than supported %d", snap.SchemaVersion, schemaVersion)
	}
	if snap.Records != nil {
		fs.records = snap.Records
	}
	return fs, nil
}

func (fs *FileStore) LastTrade(assetID string) (time.Time, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.records[assetID], nil
}

func (fs *FileStore) SetLastTrade(assetID string, at time.Time) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	prev, had := fs.records[assetID]
	fs.records[assetID] = at
	if err := fs.flushLocked(); err != nil {
		// Roll back the in-memory mutation so memory and disk stay in step.
		if had {
			fs.records[assetID] = prev
		} else {
			delete(fs.records, assetID)
		}
		return err
	}
	return nil
}

func (fs *FileStore) flushLocked() error {
	b, err := json.MarshalIndent(snapshot{SchemaVersion: schemaVersion, Records: fs.records}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode cooldown store: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(fs.path), 0o755); err != nil {
		return fmt.Errorf("create cooldown store dir: %w", err)
	}
	tmp := fs.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("write cooldown store: %w", err)
	}
	if err := os.Rename(tmp, fs.path); err != nil {
		return fmt.Errorf("replace cooldown store: %w", err)
	}
	return nil
}
