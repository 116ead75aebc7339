// Package config loads the optional bundlewright.toml that supplies default
// values for command flags.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const FileName = "bundlewright.toml"

// Defaults are the values used when a flag is not given.
type Defaults struct {
	Vendor      string `toml:"vendor,omitempty"`
	Version     string `toml:"version,omitempty"`
	Platform    string `toml:"platform,omitempty"`
	MultiModule *bool  `toml:"multi_module,omitempty"`
	Feature     *bool  `toml:"feature,omitempty"`
	UI          *bool  `toml:"ui,omitempty"`
}

// Config is the content of bundlewright.toml.
type Config struct {
	Defaults Defaults `toml:"defaults"`

	// Source is the file the configuration was read from, or "".
	Source string `toml:"-"`
}

// UserPath is the per-user configuration file:
// $XDG_CONFIG_HOME/bundlewright/config.toml or the platform equivalent.
func UserPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		var err error
		if dir, err = os.UserConfigDir(); err != nil {
			return ""
		}
	}
	return filepath.Join(dir, "bundlewright", "config.toml")
}

// Load reads dir/bundlewright.toml, falling back to the user configuration.
// When neither exists an empty Config is returned.
func Load(dir string) (*Config, error) {
	candidates := []string{filepath.Join(dir, FileName)}
	if user := UserPath(); user != "" {
		candidates = append(candidates, user)
	}
	for _, path := range candidates {
		cfg, err := LoadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		return cfg, err
	}
	return &Config{}, nil
}

// LoadFile reads one configuration file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	cfg.Source = path
	return &cfg, nil
}

// Write stores cfg as dir/bundlewright.toml, overwriting an existing file.
func Write(dir string, cfg *Config) error {
	buf := new(bytes.Buffer)
	if err := toml.NewEncoder(buf).Encode(cfg); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, FileName), buf.Bytes(), 0o644)
}

// Bool dereferences an optional flag default.
func Bool(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
