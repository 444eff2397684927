// Package config loads the application configuration from YAML with
// built-in defaults and environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the main application configuration, loaded from YAML.
type Config struct {
	DataDir    string         `yaml:"data_dir"`    // directory for the sqlite database
	SoundDir   string         `yaml:"sound_dir"`   // base directory the catalog sample paths resolve against
	ListenAddr string         `yaml:"listen_addr"` // HTTP control surface address
	StaticDir  string         `yaml:"static_dir"`  // overlay UI files, optional
	Camera     CameraConfig   `yaml:"camera"`
	Detector   DetectorConfig `yaml:"detector"`
	Startup    StartupConfig  `yaml:"startup"`
}

// CameraConfig holds camera capture settings.
type CameraConfig struct {
	DeviceID        int     `yaml:"device_id"`        // video device index
	MotionThreshold float64 `yaml:"motion_threshold"` // percent of changed pixels to wake the pipeline
}

// DetectorConfig holds hand detection settings.
type DetectorConfig struct {
	MaxHands        int     `yaml:"max_hands"`
	MinConfidence   float64 `yaml:"min_confidence"`
	MinTrackingConf float64 `yaml:"min_tracking_confidence"`
}

// StartupConfig holds the initial engine state used when the database
// has no persisted settings yet.
type StartupConfig struct {
	Mode       string `yaml:"mode"`
	SkillLevel int    `yaml:"skill_level"`
	Enabled    bool   `yaml:"enabled"`
}

// Load reads configuration from the YAML file at path. With an empty
// path it searches default locations; with no file found it returns the
// built-in defaults. Environment overrides apply after file loading.
func Load(path string) (*Config, error) {
	cfg := Config{
		DataDir:    defaultDataDir(),
		SoundDir:   ".",
		ListenAddr: ":8080",
		Camera: CameraConfig{
			DeviceID:        0,
			MotionThreshold: 1.0,
		},
		Detector: DetectorConfig{
			MaxHands:        2,
			MinConfidence:   0.7,
			MinTrackingConf: 0.7,
		},
		Startup: StartupConfig{
			Mode:       "Training",
			SkillLevel: 1,
			Enabled:    true,
		},
	}

	if path == "" {
		candidates := []string{
			"config.yaml",
			filepath.Join(defaultDataDir(), "config.yaml"),
		}
		for _, candidate := range candidates {
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
		if path == "" {
			cfg.applyEnvOverrides()
			if err := cfg.Validate(); err != nil {
				return nil, fmt.Errorf("invalid default configuration: %w", err)
			}
			return &cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks the loaded configuration for values the rest of the
// system cannot recover from.
func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("listen_addr must not be empty")
	}
	if c.Detector.MaxHands < 1 || c.Detector.MaxHands > 2 {
		return fmt.Errorf("detector.max_hands must be 1 or 2, got %d", c.Detector.MaxHands)
	}
	if c.Startup.SkillLevel < 1 || c.Startup.SkillLevel > 3 {
		return fmt.Errorf("startup.skill_level must be 1-3, got %d", c.Startup.SkillLevel)
	}
	return nil
}

// applyEnvOverrides lets deployment environments override the most
// common knobs without editing the config file.
func (c *Config) applyEnvOverrides() {
	if val, ok := os.LookupEnv("MRIDANGAM_LISTEN_ADDR"); ok {
		c.ListenAddr = val
	}
	if val, ok := os.LookupEnv("MRIDANGAM_SOUND_DIR"); ok {
		c.SoundDir = val
	}
	if val, ok := os.LookupEnv("MRIDANGAM_DATA_DIR"); ok {
		c.DataDir = val
	}
	if val, ok := os.LookupEnv("MRIDANGAM_CAMERA_ID"); ok {
		if id, err := strconv.Atoi(val); err == nil {
			c.Camera.DeviceID = id
		}
	}
}

// defaultDataDir returns ~/.mridangam, falling back to the working
// directory when the home directory cannot be resolved.
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".mridangam"
	}
	return filepath.Join(home, ".mridangam")
}
