// Package config loads the explorer's settings: a YAML file, then dotenv values, then the
// process environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"explore-engine/internal/camera"
	"explore-engine/internal/controller"
	"explore-engine/internal/input"
	"explore-engine/internal/mapgen"
	"explore-engine/internal/motion"
	"explore-engine/internal/proximity"
	"explore-engine/internal/trigger"
	"explore-engine/internal/visibility"
)

// DefaultPath is the config file, relative to the process working directory.
const DefaultPath = "config/explore.yaml"

// EnvPrefix prefixes every environment override, e.g. EXPLORE_STORE_BACKEND.
const EnvPrefix = "EXPLORE_"

// ErrInvalidFile is returned, together with Default(), when the config file cannot be parsed.
var ErrInvalidFile = errors.New("invalid config file")

// Store backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Window configures the raylib window and the overlay toggles.
type Window struct {
	Width       int    `yaml:"width" env:"WIDTH"`
	Height      int    `yaml:"height" env:"HEIGHT"`
	Title       string `yaml:"title" env:"TITLE"`
	TargetFPS   int    `yaml:"target_fps" env:"TARGET_FPS"`
	ShowFPS     bool   `yaml:"show_fps" env:"SHOW_FPS"`
	GridVisible bool   `yaml:"grid_visible" env:"GRID_VISIBLE"`
	TouchPad    bool   `yaml:"touch_pad" env:"TOUCH_PAD"`
}

// Log sets the level (debug, info, warn, error) and the log file path.
type Log struct {
	Level string `yaml:"level" env:"LEVEL"`
	Path  string `yaml:"path" env:"PATH"`
}

// Store selects where progress is kept. Path is a directory for the file backend and a
// database file for sqlite.
type Store struct {
	Backend string `yaml:"backend" env:"BACKEND"`
	Path    string `yaml:"path" env:"PATH"`
	Key     string `yaml:"key" env:"KEY"`
}

// Proximity holds the collectible discovery radius.
type Proximity struct {
	DiscoveryRadius float32 `yaml:"discovery_radius" env:"DISCOVERY_RADIUS"`
}

// Input holds the length of a synthetic jump tap.
type Input struct {
	JumpPulse time.Duration `yaml:"jump_pulse" env:"JUMP_PULSE"`
}

// Config holds every tunable of the explorer.
type Config struct {
	Locale  string `yaml:"locale" env:"LOCALE"`
	Dataset string `yaml:"dataset" env:"DATASET"`

	Window    Window         `yaml:"window" envPrefix:"WINDOW_"`
	Log       Log            `yaml:"log" envPrefix:"LOG_"`
	Store     Store          `yaml:"store" envPrefix:"STORE_"`
	Motion    motion.Config  `yaml:"motion" envPrefix:"MOTION_"`
	Proximity Proximity      `yaml:"proximity" envPrefix:"PROXIMITY_"`
	Trigger   trigger.Config `yaml:"trigger" envPrefix:"TRIGGER_"`
	Camera    camera.Config  `yaml:"camera" envPrefix:"CAMERA_"`
	Input     Input          `yaml:"input" envPrefix:"INPUT_"`
	Terrain   mapgen.Options `yaml:"terrain" envPrefix:"TERRAIN_"`
}

// Default returns the tuned defaults: a 1280x720 window, file storage under data/progress
// and English messages.
func Default() Config {
	return Config{
		Locale:  "en",
		Dataset: "data/data.json",
		Window: Window{
			Width:       1280,
			Height:      720,
			Title:       "explore",
			TargetFPS:   60,
			GridVisible: true,
		},
		Log: Log{Level: "info", Path: "logs/explore.txt"},
		Store: Store{
			Backend: BackendFile,
			Path:    "data/progress",
			Key:     visibility.DefaultKey,
		},
		Motion:    motion.DefaultConfig(),
		Proximity: Proximity{DiscoveryRadius: proximity.DefaultRadius},
		Trigger:   trigger.DefaultConfig(),
		Camera:    camera.DefaultConfig(),
		Input:     Input{JumpPulse: input.DefaultJumpPulse},
		Terrain:   mapgen.DefaultOptions(),
	}
}

// Load reads the YAML file at path over Default(). A missing file is not an error. A file
// that cannot be parsed yields Default() and an error wrapping ErrInvalidFile, so callers
// can warn and carry on.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("%w: %s: %v", ErrInvalidFile, path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides cfg from environ, a KEY=VALUE map, using EXPLORE_-prefixed names.
func ApplyEnv(cfg *Config, environ map[string]string) error {
	if err := env.ParseWithOptions(cfg, env.Options{
		Prefix:      EnvPrefix,
		Environment: environ,
	}); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}
	return nil
}

// Save writes cfg as YAML to path, creating the directory if needed.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate rejects settings the engine cannot run with.
func (c Config) Validate() error {
	switch c.Store.Backend {
	case BackendFile, BackendSQLite, BackendMemory:
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	if c.Store.Backend != BackendMemory && c.Store.Path == "" {
		return fmt.Errorf("store path is required for the %s backend", c.Store.Backend)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Trigger.Interval <= 0 {
		return fmt.Errorf("trigger interval must be positive, got %s", c.Trigger.Interval)
	}
	if c.Proximity.DiscoveryRadius < 0 || c.Trigger.Radius < 0 {
		return errors.New("radii must not be negative")
	}
	return nil
}

// ControllerConfig extracts the core controller settings.
func (c Config) ControllerConfig() controller.Config {
	key := c.Store.Key
	if key == "" {
		key = visibility.DefaultKey
	}
	return controller.Config{
		Motion:          c.Motion,
		Camera:          c.Camera,
		Trigger:         c.Trigger,
		DiscoveryRadius: c.Proximity.DiscoveryRadius,
		JumpPulse:       c.Input.JumpPulse,
		StoreKey:        key,
	}
}
