package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Grid.Shape != "infer" {
		t.Errorf("expected infer shape, got %s", cfg.Grid.Shape)
	}
	if cfg.OutputEvery <= 0 {
		t.Error("output_every should be positive")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flowviz.yaml")

	cfg := DefaultConfig()
	cfg.Grid.Shape = "fixed"
	cfg.Grid.NX = 81
	cfg.Grid.NY = 81
	cfg.Render.HeatmapColormap = "jet"
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Grid.NX != 81 || loaded.Grid.Shape != "fixed" {
		t.Errorf("unexpected grid %+v", loaded.Grid)
	}
	if loaded.Render.HeatmapColormap != "jet" {
		t.Errorf("expected jet, got %s", loaded.Render.HeatmapColormap)
	}
}

func TestLoad_PartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("output_every: 50\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.OutputEvery != 50 {
		t.Errorf("expected 50, got %d", cfg.OutputEvery)
	}
	if cfg.Animation.FPS != DefaultFPS {
		t.Errorf("expected default fps, got %d", cfg.Animation.FPS)
	}
}

func TestLoadInto_KeepsBase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fps.yaml")
	if err := os.WriteFile(path, []byte("animation:\n  fps: 7\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg := GetPreset("burgers81")
	if err := LoadInto(path, cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.Animation.FPS != 7 {
		t.Errorf("expected fps 7, got %d", cfg.Animation.FPS)
	}
	if cfg.Grid.Shape != "fixed" || cfg.Grid.NX != 81 || cfg.Grid.NY != 81 {
		t.Errorf("preset grid lost: %+v", cfg.Grid)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("FLOWVIZ_NX", "64")
	t.Setenv("FLOWVIZ_SHAPE", "fixed")
	t.Setenv("FLOWVIZ_FPS", "10")

	cfg := DefaultConfig()
	if err := ApplyEnv(cfg); err != nil {
		t.Fatalf("apply env failed: %v", err)
	}
	if cfg.Grid.NX != 64 || cfg.Grid.Shape != "fixed" {
		t.Errorf("unexpected grid %+v", cfg.Grid)
	}
	if cfg.Animation.FPS != 10 {
		t.Errorf("expected fps 10, got %d", cfg.Animation.FPS)
	}
	if cfg.Grid.NY != DefaultNY {
		t.Errorf("unset variable should keep default, got %d", cfg.Grid.NY)
	}
}

func TestApplyEnv_BadValue(t *testing.T) {
	t.Setenv("FLOWVIZ_NX", "lots")
	if err := ApplyEnv(DefaultConfig()); err == nil {
		t.Error("expected error for non-integer FLOWVIZ_NX")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown shape", func(c *Config) { c.Grid.Shape = "guess" }},
		{"fixed without size", func(c *Config) { c.Grid.Shape = "fixed"; c.Grid.NX = 0 }},
		{"zero interval", func(c *Config) { c.OutputEvery = 0 }},
		{"zero arrow scale", func(c *Config) { c.Render.ArrowScale = 0 }},
		{"zero stride", func(c *Config) { c.Render.SurfaceStride = 0 }},
		{"inverted fixed scale", func(c *Config) { c.Render.FixedScale = true; c.Render.Min = 2; c.Render.Max = 1 }},
		{"zero fps", func(c *Config) { c.Animation.FPS = 0 }},
		{"empty final domain", func(c *Config) { c.Final.XMax = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("serial")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.OutputEvery != 50 || cfg.Grid.Shape != "fixed" {
		t.Errorf("unexpected preset %+v", cfg)
	}
	if cfg.Render.Width != DefaultWidth {
		t.Error("preset should keep render defaults")
	}
	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets()
	if len(presets) != len(Presets) {
		t.Errorf("expected %d presets, got %d", len(Presets), len(presets))
	}
}
