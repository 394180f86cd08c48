package config

import (
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Load reads configuration from the standard config path.
// Search order:
//  1. $XDG_CONFIG_HOME/dotstatus/config.toml
//  2. ~/.config/dotstatus/config.toml
//
// If no file exists, returns Default().
func Load() (*Config, error) {
	for _, p := range configSearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return LoadFromFile(p)
		}
	}
	return Default(), nil
}

// LoadFromFile reads configuration from a specific file path. A missing file
// is an error: the caller named the path explicitly, so falling back to
// defaults would hide a typo. Load handles the optional search-path case.
func LoadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadFromReader(f)
}

// LoadFromReader reads configuration from an io.Reader. Fields absent from
// the document keep their defaults.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := Default()
	if _, err := toml.NewDecoder(r).Decode(cfg); err != nil {
		return nil, err
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

// applyEnvOverrides lets the environment override select settings without
// editing the config file.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DOTSTATUS_LOG_FILE"); v != "" {
		cfg.General.LogFile = v
	}
}

// LogFile returns the debug log path: the configured override, or
// $XDG_DATA_HOME/dotstatus/dotstatus.log.
func (c *Config) LogFile() string {
	if c.General.LogFile != "" {
		return c.General.LogFile
	}
	return filepath.Join(xdgDataHome(), "dotstatus", "dotstatus.log")
}

func configSearchPaths() []string {
	var paths []string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, "dotstatus", "config.toml"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "dotstatus", "config.toml"))
	}
	return paths
}

func xdgDataHome() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return xdg
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share")
}
