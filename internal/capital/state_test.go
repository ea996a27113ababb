package capital

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/schmidb/AI-crypto-bot-sub000/internal/types"
)

func TestStateStoreRoundTrip(t *testing.T) {
	store := NewStateStore(filepath.Join(t.TempDir(), "capital.json"))

	if _, ok, err := store.Load(); err != nil || ok {
		t.Fatalf("Load on empty store = ok=%v err=%v, want absent", ok, err)
	}

	in := types.CapitalState{
		SchemaVersion:    types.CapitalStateSchemaVersion,
		TotalCapital:     1000,
		AvailableCapital: 850,
		Exposure:         map[string]float64{"BTC-EUR": 150},
	}
	if err := store.Save(in); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, ok, err := store.Load()
	if err != nil || !ok {
		t.Fatalf("Load = ok=%v err=%v, want present", ok, err)
	}
	if got.TotalCapital != 1000 || got.AvailableCapital != 850 {
		t.Errorf("Load = %+v, want %+v", got, in)
	}
	if got.Exposure["BTC-EUR"] != 150 {
		t.Errorf("exposure = %.1f, want 150", got.Exposure["BTC-EUR"])
	}
}

func TestStateStoreNormalizes(t *testing.T) {
	store := NewStateStore(filepath.Join(t.TempDir(), "capital.json"))
	if err := store.Save(types.CapitalState{TotalCapital: 500, AvailableCapital: 500}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got, _, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got.SchemaVersion != types.CapitalStateSchemaVersion {
		t.Errorf("schema version = %d, want %d", got.SchemaVersion, types.CapitalStateSchemaVersion)
	}
	if got.Exposure == nil {
		t.Error("exposure map must be non-nil after load")
	}
}

func TestStateStoreRejectsNewerSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capital.json")
	raw := []byte(`{"schema_version": 99, "total_capital": 1, "available_capital": 1}`)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("write snapshot: %v", err)
	}
	if _, _, err := NewStateStore(path).Load(); err == nil {
		t.Error("expected Load to reject a newer schema version")
	}
}

func TestStateStoreLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	store := NewStateStore(filepath.Join(dir, "capital.json"))
	if err := store.Save(types.CapitalState{TotalCapital: 100, AvailableCapital: 100}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "capital.json.tmp")); !os.IsNotExist(err) {
		t.Error("temp file left behind after atomic save")
	}
}
