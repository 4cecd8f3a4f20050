package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config mirrors the YAML schema. Values not present in the file are filled in
// by ApplyDefaults so the TUI can run from an empty config.
type Config struct {
	Version  int       `yaml:"version"`
	General  General   `yaml:"general"`
	Browse   Browse    `yaml:"browse"`
	Features Features  `yaml:"features"`
	Logging  Logging   `yaml:"logging"`
	UI       UIOptions `yaml:"ui"`
}

type General struct {
	// DataRoot holds the catalog database (catalog.db).
	DataRoot string `yaml:"data_root"`
}

type Browse struct {
	// PageSize is the limit applied to every catalog query.
	PageSize int `yaml:"page_size"`
	// DebounceMS is the quiescence window for re-querying after filter changes.
	DebounceMS int `yaml:"debounce_ms"`
}

type Features struct {
	// Popular enables the popular-repacks page and its slot in the tab cycle.
	Popular bool `yaml:"popular"`
	// Downloads enables the download-status page and its slot in the tab cycle.
	Downloads bool `yaml:"downloads"`
}

type Logging struct {
	Level string `yaml:"level"` // debug|info|warn|error
	JSON  bool   `yaml:"json"`
}

type UIOptions struct {
	// Theme selects a preset: dark | light
	Theme string `yaml:"theme"`
}

// Load reads, parses, expands, and validates a YAML config file.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}
	expanded, err := expandTilde(path)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(expanded)
	if err != nil {
		return nil, err
	}
	// Expand ${ENV} placeholders before unmarshalling
	b = []byte(os.ExpandEnv(string(b)))
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	if c.General.DataRoot, err = expandTilde(c.General.DataRoot); err != nil {
		return nil, err
	}
	c.ApplyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Default returns a config usable without any file on disk.
func Default() *Config {
	c := &Config{Version: 1}
	if root, err := expandTilde("~/.local/share/repackdex"); err == nil {
		c.General.DataRoot = root
	}
	c.Features.Popular = true
	c.Features.Downloads = true
	c.ApplyDefaults()
	return c
}

// DefaultPath returns the conventional config location.
func DefaultPath() string {
	if p := os.Getenv("REPACKDEX_CONFIG"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(home, ".config", "repackdex", "config.yaml")
}

func (c *Config) ApplyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.Browse.PageSize <= 0 {
		c.Browse.PageSize = 100
	}
	if c.Browse.DebounceMS <= 0 {
		c.Browse.DebounceMS = 200
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.UI.Theme == "" {
		c.UI.Theme = "dark"
	}
}

func (c *Config) Validate() error {
	if c.Version != 1 {
		return fmt.Errorf("unsupported config version: %d", c.Version)
	}
	if c.General.DataRoot == "" {
		return errors.New("general.data_root is required")
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug|info|warn|error, got %q", c.Logging.Level)
	}
	switch c.UI.Theme {
	case "dark", "light":
	default:
		return fmt.Errorf("ui.theme must be dark or light, got %q", c.UI.Theme)
	}
	if c.Browse.DebounceMS > 5000 {
		return fmt.Errorf("browse.debounce_ms too large: %d", c.Browse.DebounceMS)
	}
	return nil
}

func expandTilde(p string) (string, error) {
	if p == "" || !strings.HasPrefix(p, "~") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	if p == "~" {
		return home, nil
	}
	if strings.HasPrefix(p, "~/") {
		return filepath.Join(home, p[2:]), nil
	}
	return "", fmt.Errorf("unsupported tilde expansion in path: %s", p)
}
