// Package config handles reading and writing .moodlens/config.yaml, plus the
// .env files and MOODLENS_* environment overrides layered on top of it.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the top-level structure for .moodlens/config.yaml.
type Config struct {
	Version  int            `yaml:"version"`
	Profile  string         `yaml:"profile"`
	LogLevel string         `yaml:"log_level"` // debug | info | warn | error
	Tracking TrackingConfig `yaml:"tracking"`
	Capture  CaptureConfig  `yaml:"capture"`
	Output   OutputConfig   `yaml:"output"`
}

// TrackingConfig controls the detection loop and the derived views.
type TrackingConfig struct {
	TickMS          int    `yaml:"tick_ms"`
	HistoryCapacity int    `yaml:"history_capacity"`
	TrendDays       int    `yaml:"trend_days"`
	TimeZone        string `yaml:"time_zone"` // IANA name; "" or "Local" = system zone
}

// CaptureConfig selects the frame source.
type CaptureConfig struct {
	Frames string `yaml:"frames"` // JSONL frame file
	Follow bool   `yaml:"follow"` // tail the file instead of stopping at EOF
}

// OutputConfig controls files written besides the database.
type OutputConfig struct {
	DBPath     string `yaml:"db_path"` // "" = .moodlens/moodlens.db
	StatusFile bool   `yaml:"status_file"`
	ExportPath string `yaml:"export_path"` // "" = ./mood-tracking-data.json
}

const (
	configDir  = ".moodlens"
	configFile = "config.yaml"
)

// Environment overrides.
const (
	EnvDB       = "MOODLENS_DB"
	EnvTickMS   = "MOODLENS_TICK_MS"
	EnvFrames   = "MOODLENS_FRAMES"
	EnvFollow   = "MOODLENS_FOLLOW"
	EnvLogLevel = "MOODLENS_LOG_LEVEL"
	EnvTZ       = "MOODLENS_TZ"
	EnvProfile  = "MOODLENS_PROFILE"
	EnvDotEnv   = "MOODLENS_DOTENV"
)

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version:  1,
		Profile:  "default",
		LogLevel: "info",
		Tracking: TrackingConfig{
			TickMS:          100,
			HistoryCapacity: 10,
			TrendDays:       7,
		},
		Capture: CaptureConfig{
			Frames: "frames.jsonl",
		},
		Output: OutputConfig{
			StatusFile: true,
		},
	}
}

// Path returns the config file path under dir.
func Path(dir string) string {
	return filepath.Join(dir, configDir, configFile)
}

// ReadConfig reads .moodlens/config.yaml from dir. Fields missing from the
// file keep their defaults.
// Returns an error if the file is not found or YAML is malformed.
func ReadConfig(dir string) (*Config, error) {
	data, err := os.ReadFile(Path(dir))
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// WriteConfig writes cfg to .moodlens/config.yaml in dir.
// Creates the .moodlens/ directory if it does not exist.
func WriteConfig(dir string, cfg *Config) error {
	dirPath := filepath.Join(dir, configDir)
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	if err := os.WriteFile(Path(dir), data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Load resolves the effective configuration for dir: defaults, then the
// config file if present, then .env files, then MOODLENS_* variables.
func Load(dir string) (*Config, error) {
	cfg, err := ReadConfig(dir)
	if errors.Is(err, fs.ErrNotExist) {
		cfg, err = DefaultConfig(), nil
	}
	if err != nil {
		return nil, err
	}
	if err := LoadDotEnv(dir); err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDotEnv loads .env.local and .env from the working directory and from
// dir/.moodlens/. Variables already set are left alone. Missing files are
// skipped. MOODLENS_DOTENV=0 disables loading.
func LoadDotEnv(dir string) error {
	if dotEnvDisabled() {
		return nil
	}
	paths := []string{
		".env.local",
		".env",
		filepath.Join(dir, configDir, ".env.local"),
		filepath.Join(dir, configDir, ".env"),
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("loading %s: %w", p, err)
		}
	}
	return nil
}

// ApplyEnv overlays MOODLENS_* variables. Unparseable values are ignored.
func (c *Config) ApplyEnv() {
	c.Output.DBPath = getEnv(EnvDB, c.Output.DBPath)
	c.Tracking.TickMS = getEnvInt(EnvTickMS, c.Tracking.TickMS)
	c.Capture.Frames = getEnv(EnvFrames, c.Capture.Frames)
	c.Capture.Follow = getEnvBool(EnvFollow, c.Capture.Follow)
	c.LogLevel = getEnv(EnvLogLevel, c.LogLevel)
	c.Tracking.TimeZone = getEnv(EnvTZ, c.Tracking.TimeZone)
	c.Profile = getEnv(EnvProfile, c.Profile)
}

// Validate rejects values the tracker cannot run with.
func (c *Config) Validate() error {
	if c.Tracking.TickMS <= 0 {
		return fmt.Errorf("tracking.tick_ms must be positive, got %d", c.Tracking.TickMS)
	}
	if c.Tracking.HistoryCapacity <= 0 {
		return fmt.Errorf("tracking.history_capacity must be positive, got %d", c.Tracking.HistoryCapacity)
	}
	if c.Tracking.TrendDays <= 0 {
		return fmt.Errorf("tracking.trend_days must be positive, got %d", c.Tracking.TrendDays)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// TickPeriod returns the detection loop period.
func (c *Config) TickPeriod() time.Duration {
	return time.Duration(c.Tracking.TickMS) * time.Millisecond
}

// TrendWindow returns the trailing trend window.
func (c *Config) TrendWindow() time.Duration {
	return time.Duration(c.Tracking.TrendDays) * 24 * time.Hour
}

// Location resolves the configured time zone for day bucketing.
func (c *Config) Location() (*time.Location, error) {
	tz := strings.TrimSpace(c.Tracking.TimeZone)
	if tz == "" || strings.EqualFold(tz, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("tracking.time_zone: %w", err)
	}
	return loc, nil
}

// Level parses log_level.
func (c *Config) Level() (slog.Level, error) {
	name := strings.TrimSpace(c.LogLevel)
	if name == "" {
		return slog.LevelInfo, nil
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log_level: %w", err)
	}
	return lvl, nil
}

func getEnv(key, defaultVal string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return b
		}
	}
	return defaultVal
}

func dotEnvDisabled() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(EnvDotEnv))) {
	case "0", "false", "off", "no":
		return true
	default:
		return false
	}
}
