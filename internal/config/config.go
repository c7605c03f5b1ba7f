// Package config manages the persistent CLI defaults file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/SeamusWaldron/rubikscube"
)

// Settings are the persistent defaults. Zero values mean "use the built-in
// default".
type Settings struct {
	DBPath        string  `json:"db_path,omitempty"`
	Metric        string  `json:"metric,omitempty"`
	ScrambleMoves int     `json:"scramble_moves,omitempty"`
	Seed          *uint64 `json:"seed,omitempty"`
	ServeAddr     string  `json:"serve_addr,omitempty"`
}

// File manages the config file.
type File struct {
	path     string
	settings Settings
}

// DefaultPath returns the default config file path.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".rubikscube", "config.json"), nil
}

// Open loads the config file at path. A missing file yields empty settings.
func Open(path string) (*File, error) {
	f := &File{path: path}
	if err := f.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	return f, nil
}

// Load loads the settings from disk.
func (f *File) Load() error {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return err
	}

	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", f.path, err)
	}
	if err := s.Validate(); err != nil {
		return fmt.Errorf("invalid config %s: %w", f.path, err)
	}
	f.settings = s
	return nil
}

// Save saves the settings to disk.
func (f *File) Save() error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(f.settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(f.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Path returns the config file path.
func (f *File) Path() string { return f.path }

// Settings returns the current settings.
func (f *File) Settings() Settings { return f.settings }

// Validate checks values that the CLI would otherwise reject later.
func (s Settings) Validate() error {
	if s.Metric != "" {
		if _, err := rubikscube.ParseMetricKind(s.Metric); err != nil {
			return err
		}
	}
	if s.ScrambleMoves < 0 {
		return fmt.Errorf("%w: scramble_moves must not be negative", rubikscube.ErrInvalidConfiguration)
	}
	return nil
}

// setters maps config keys to parsers.
var setters = map[string]func(s *Settings, value string) error{
	"db_path": func(s *Settings, v string) error {
		s.DBPath = v
		return nil
	},
	"metric": func(s *Settings, v string) error {
		kind, err := rubikscube.ParseMetricKind(v)
		if err != nil {
			return err
		}
		s.Metric = kind.String()
		return nil
	},
	"scramble_moves": func(s *Settings, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("%w: scramble_moves must be a positive integer, got %q", rubikscube.ErrInvalidConfiguration, v)
		}
		s.ScrambleMoves = n
		return nil
	},
	"seed": func(s *Settings, v string) error {
		if v == "" {
			s.Seed = nil
			return nil
		}
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: seed must be an unsigned integer, got %q", rubikscube.ErrInvalidConfiguration, v)
		}
		s.Seed = &n
		return nil
	},
	"serve_addr": func(s *Settings, v string) error {
		s.ServeAddr = v
		return nil
	},
}

// Keys returns the settable keys in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(setters))
	for k := range setters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Set parses value into key and saves the file.
func (f *File) Set(key, value string) error {
	set, ok := setters[key]
	if !ok {
		return fmt.Errorf("%w: unknown config key %q", rubikscube.ErrInvalidConfiguration, key)
	}

	s := f.settings
	if err := set(&s, value); err != nil {
		return err
	}
	f.settings = s
	return f.Save()
}
