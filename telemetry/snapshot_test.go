package telemetry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/lattice/engine"
)

func TestSnapshotSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()

	snapshot := &Snapshot{
		Version:    SnapshotVersion,
		RNGSeed:    42,
		Rule:       "445",
		Size:       64,
		Generation: 1000,
		Cells: []engine.CellState{
			{X: 10, Y: 20, Z: 30, Value: 5},
			{X: 11, Y: 20, Z: 30, Value: 2},
		},
	}

	path, err := SaveSnapshot(snapshot, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("Snapshot file not created at %s", path)
	}

	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}

	if loaded.Version != snapshot.Version {
		t.Errorf("Version mismatch: got %d, want %d", loaded.Version, snapshot.Version)
	}
	if loaded.RNGSeed != snapshot.RNGSeed {
		t.Errorf("RNGSeed mismatch: got %d, want %d", loaded.RNGSeed, snapshot.RNGSeed)
	}
	if loaded.Rule != snapshot.Rule {
		t.Errorf("Rule mismatch: got %s, want %s", loaded.Rule, snapshot.Rule)
	}
	if loaded.Generation != snapshot.Generation {
		t.Errorf("Generation mismatch: got %d, want %d", loaded.Generation, snapshot.Generation)
	}
	if len(loaded.Cells) != len(snapshot.Cells) {
		t.Fatalf("Cell count mismatch: got %d, want %d", len(loaded.Cells), len(snapshot.Cells))
	}
	if loaded.Cells[1] != snapshot.Cells[1] {
		t.Errorf("Cell mismatch: got %+v, want %+v", loaded.Cells[1], snapshot.Cells[1])
	}
}

func TestSnapshotFilename(t *testing.T) {
	tmpDir := t.TempDir()

	snapshot := &Snapshot{
		Version:    SnapshotVersion,
		Generation: 5000,
	}

	path, err := SaveSnapshot(snapshot, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}

	expected := filepath.Join(tmpDir, "snapshot_5000.json")
	if path != expected {
		t.Errorf("Path mismatch: got %s, want %s", path, expected)
	}
}

func TestLoadSnapshotRejectsUnknownVersion(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "snapshot.json")
	if err := os.WriteFile(path, []byte(`{"version": 99}`), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadSnapshot(path); err == nil {
		t.Error("expected error for unknown snapshot version")
	}
}
