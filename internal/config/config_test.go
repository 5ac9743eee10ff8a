package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Store.Backend != BackendFile || cfg.Motion.FloorY != -9 {
		t.Errorf("Expected defaults, got %+v", cfg)
	}
}

func TestLoadInvalidFileReturnsDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "explore.yaml")
	if err := os.WriteFile(path, []byte("window: [unterminated"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if !errors.Is(err, ErrInvalidFile) {
		t.Errorf("Expected ErrInvalidFile, got %v", err)
	}
	if cfg.Window.Width != 1280 {
		t.Errorf("Expected defaults, got %+v", cfg.Window)
	}
}

func TestLoadOverlaysFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "explore.yaml")
	doc := `
locale: de
motion:
  floor_y: -20
  portrait:
    run_speed: 3
trigger:
  interval: 500ms
camera:
  camera_offset: {x: 0, y: 1, z: -2}
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Locale != "de" || cfg.Motion.FloorY != -20 {
		t.Errorf("Expected file values, got %q %v", cfg.Locale, cfg.Motion.FloorY)
	}
	if cfg.Motion.Portrait.RunSpeed != 3 || cfg.Motion.Portrait.WalkSpeed != 0.8 {
		t.Errorf("Expected partial override of the portrait profile, got %+v", cfg.Motion.Portrait)
	}
	if cfg.Trigger.Interval != 500*time.Millisecond || cfg.Trigger.Countdown != 5 {
		t.Errorf("Unexpected trigger config %+v", cfg.Trigger)
	}
	if cfg.Camera.CameraOffset.Y != 1 || cfg.Camera.CameraOffset.Z != -2 {
		t.Errorf("Unexpected camera offset %+v", cfg.Camera.CameraOffset)
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	err := ApplyEnv(&cfg, map[string]string{
		"EXPLORE_STORE_BACKEND":              "sqlite",
		"EXPLORE_STORE_PATH":                 "progress.db",
		"EXPLORE_MOTION_FLOOR_Y":             "-12",
		"EXPLORE_MOTION_LANDSCAPE_RUN_SPEED": "2",
		"EXPLORE_TRIGGER_COUNTDOWN":          "3",
		"EXPLORE_INPUT_JUMP_PULSE":           "250ms",
		"EXPLORE_TERRAIN_SEED":               "99",
		"STORE_BACKEND":                      "memory",
	})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Store.Backend != BackendSQLite || cfg.Store.Path != "progress.db" {
		t.Errorf("Unexpected store %+v", cfg.Store)
	}
	if cfg.Motion.FloorY != -12 || cfg.Motion.Landscape.RunSpeed != 2 {
		t.Errorf("Unexpected motion %+v", cfg.Motion)
	}
	if cfg.Trigger.Countdown != 3 || cfg.Input.JumpPulse != 250*time.Millisecond || cfg.Terrain.Seed != 99 {
		t.Errorf("Unexpected overrides %+v %+v %+v", cfg.Trigger, cfg.Input, cfg.Terrain.Seed)
	}
	if cfg.Locale != "en" {
		t.Errorf("Expected unset keys to keep their value, got %q", cfg.Locale)
	}
}

func TestApplyEnvRejectsBadValue(t *testing.T) {
	cfg := Default()
	if err := ApplyEnv(&cfg, map[string]string{"EXPLORE_WINDOW_WIDTH": "wide"}); err == nil {
		t.Error("Expected a parse error")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "explore.yaml")
	cfg := Default()
	cfg.Store.Backend = BackendMemory
	cfg.Trigger.Interval = 2 * time.Second
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Store.Backend != BackendMemory || got.Trigger.Interval != 2*time.Second {
		t.Errorf("Expected saved values back, got %+v %+v", got.Store, got.Trigger)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"memory needs no path", func(c *Config) { c.Store.Backend, c.Store.Path = BackendMemory, "" }, false},
		{"unknown backend", func(c *Config) { c.Store.Backend = "redis" }, true},
		{"missing path", func(c *Config) { c.Store.Path = "" }, true},
		{"zero window", func(c *Config) { c.Window.Width = 0 }, true},
		{"zero interval", func(c *Config) { c.Trigger.Interval = 0 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestControllerConfig(t *testing.T) {
	cfg := Default()
	cfg.Store.Key = ""
	cfg.Proximity.DiscoveryRadius = 0.75
	cc := cfg.ControllerConfig()
	if cc.StoreKey != "stoneVisibility" || cc.DiscoveryRadius != 0.75 || cc.JumpPulse != 100*time.Millisecond {
		t.Errorf("Unexpected controller config %+v", cc)
	}
}
