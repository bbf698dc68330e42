package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Rule.Preset != "445" {
		t.Errorf("default preset = %q, want 445", cfg.Rule.Preset)
	}
	if cfg.Noise.Generator != "simplex" {
		t.Errorf("default generator = %q, want simplex", cfg.Noise.Generator)
	}
	if cfg.Derived.Workers < 1 {
		t.Errorf("derived workers = %d, want >= 1", cfg.Derived.Workers)
	}
	if cfg.Telemetry.StatsWindow < 1 {
		t.Errorf("stats window = %d, want >= 1", cfg.Telemetry.StatsWindow)
	}
}

func TestLoadMergesUserFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	user := []byte("world:\n  size: 96\nengine:\n  workers: 3\n")
	if err := os.WriteFile(path, user, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.World.Size != 96 {
		t.Errorf("world size = %d, want 96", cfg.World.Size)
	}
	if cfg.Derived.Workers != 3 {
		t.Errorf("derived workers = %d, want 3", cfg.Derived.Workers)
	}
	// Untouched fields keep their defaults.
	if cfg.Rule.Preset != "445" {
		t.Errorf("preset = %q, want default 445", cfg.Rule.Preset)
	}
}

func TestBuildRuleFromPreset(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	r, err := cfg.BuildRule()
	if err != nil {
		t.Fatalf("BuildRule: %v", err)
	}
	if r.States != 5 {
		t.Errorf("445 states = %d, want 5", r.States)
	}

	cfg.World.Size = 128
	r, err = cfg.BuildRule()
	if err != nil {
		t.Fatalf("BuildRule with size override: %v", err)
	}
	if r.BoundingSize != 128 {
		t.Errorf("bounding = %d, want 128", r.BoundingSize)
	}
}

func TestBuildRuleCustomNotation(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Rule.Notation = "4-7/6-8/10/M"
	cfg.Rule.ColorMethod = "dist-to-center"
	cfg.Rule.Colors = []string{"#ff9800", "#212121"}

	r, err := cfg.BuildRule()
	if err != nil {
		t.Fatalf("BuildRule: %v", err)
	}
	if r.States != 10 {
		t.Errorf("states = %d, want 10", r.States)
	}

	cfg.Rule.Colors = []string{"#ff9800"}
	if _, err := cfg.BuildRule(); err == nil {
		t.Error("BuildRule accepted a single color")
	}
}

func TestBuildGenerator(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := cfg.BuildGenerator(1); err != nil {
		t.Errorf("simplex generator: %v", err)
	}

	cfg.Noise.Generator = "scatter"
	if _, err := cfg.BuildGenerator(1); err != nil {
		t.Errorf("scatter generator: %v", err)
	}

	cfg.Noise.Generator = "perlin"
	if _, err := cfg.BuildGenerator(1); err == nil {
		t.Error("unknown generator accepted")
	}
}
