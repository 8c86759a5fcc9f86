// Package config loads glossmark configuration from a TOML file with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

// Config holds the full glossmark configuration.
type Config struct {
	General General `toml:"general"`
	Catalog Catalog `toml:"catalog"`
	Session Session `toml:"session"`
	Plugins Plugins `toml:"plugins"`
}

// General covers interface and logging settings.
type General struct {
	// Interface selects the renderer: "console" or "minimal".
	Interface string `toml:"interface"`
	// LightMode switches the console palette for light terminals.
	LightMode bool   `toml:"light_mode"`
	LogLevel  string `toml:"log_level"`
	LogFile   string `toml:"log_file"`
}

// Catalog points at the verbalization source.
type Catalog struct {
	// Source is the path to a JSON or NDJSON catalog file.
	Source string `toml:"source"`
}

// Session configures state persistence.
type Session struct {
	// Store is the path to the session database. Empty disables persistence.
	Store string `toml:"store"`
	// Resume reopens the most recent session on startup.
	Resume bool `toml:"resume"`
}

// Plugins configures user command scripts.
type Plugins struct {
	// Dir is scanned for *.lua command scripts.
	Dir string `toml:"dir"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		General: General{
			Interface: "console",
			LogLevel:  "info",
		},
		Session: Session{
			Resume: true,
		},
	}
}

// DefaultPath returns the standard config file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "glossmark", "config.toml")
}

// Load reads configuration from path, falling back to defaults when the
// file does not exist. Environment variables override file values.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := toml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parsing %s: %w", path, err)
			}
		case os.IsNotExist(err):
			// Missing config is not an error.
		default:
			return cfg, fmt.Errorf("reading %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("GLOSSMARK_INTERFACE"); v != "" {
		cfg.General.Interface = v
	}
	if v := os.Getenv("GLOSSMARK_LIGHT_MODE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.General.LightMode = b
		}
	}
	if v := os.Getenv("GLOSSMARK_LOG_LEVEL"); v != "" {
		cfg.General.LogLevel = v
	}
	if v := os.Getenv("GLOSSMARK_LOG_FILE"); v != "" {
		cfg.General.LogFile = v
	}
	if v := os.Getenv("GLOSSMARK_CATALOG"); v != "" {
		cfg.Catalog.Source = v
	}
	if v := os.Getenv("GLOSSMARK_SESSION_STORE"); v != "" {
		cfg.Session.Store = v
	}
	if v := os.Getenv("GLOSSMARK_PLUGIN_DIR"); v != "" {
		cfg.Plugins.Dir = v
	}
}

func (c Config) validate() error {
	switch c.General.Interface {
	case "console", "minimal":
	default:
		return fmt.Errorf("unknown interface %q", c.General.Interface)
	}
	return nil
}
