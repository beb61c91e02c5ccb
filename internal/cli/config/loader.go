package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "go.yaml.in/yaml/v3"
)

// Dir returns the directory holding CLI files.
func Dir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	return filepath.Join(homeDir, ".awareness")
}

// DefaultConfigPath returns the default CLI config file path.
func DefaultConfigPath() string {
	return filepath.Join(Dir(), "cli.yaml")
}

// DefaultStatePath returns the default session state file path.
func DefaultStatePath() string {
	return filepath.Join(Dir(), "session.yaml")
}

// Load loads CLI configuration from path over the defaults.
// A missing file yields the defaults.
func Load(path string) (*CLIConfig, error) {
	if path == "" {
		path = DefaultConfigPath()
	}

	cfg := Default()
	if err := loadYAML(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadState reads the saved session state. A missing file yields an empty
// state.
func LoadState(path string) (*State, error) {
	if path == "" {
		path = DefaultStatePath()
	}

	st := &State{}
	if err := loadYAML(path, st); err != nil {
		return nil, err
	}
	return st, nil
}

// SaveState writes st to path with owner-only permissions, since it holds
// a live token.
func SaveState(st *State, path string) error {
	if path == "" {
		path = DefaultStatePath()
	}
	return saveYAML(st, path)
}

// ClearState removes the state file. A missing file is not an error.
func ClearState(path string) error {
	if path == "" {
		path = DefaultStatePath()
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Save saves CLI configuration to path.
func Save(cfg *CLIConfig, path string) error {
	if path == "" {
		path = DefaultConfigPath()
	}
	return saveYAML(cfg, path)
}

func loadYAML(path string, target any) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := k.Unmarshal("", target); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func saveYAML(v any, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}

	data, err := yamlv3.Marshal(v)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
