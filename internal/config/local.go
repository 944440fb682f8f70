package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LocalConfig holds configuration for local single-node mode, where the
// server runs on embedded SQLite without a broker.
type LocalConfig struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
}

// ServerConfig holds local server settings
type ServerConfig struct {
	Port     int    `yaml:"port"`
	Bind     string `yaml:"bind"`
	LogLevel string `yaml:"log_level"`
}

// StorageConfig holds local storage settings
type StorageConfig struct {
	Path string `yaml:"path"` // SQLite database file
}

// ObiDir returns the path to ~/.obi
func ObiDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".obi"), nil
}

// DefaultLocalConfig returns sensible defaults for local mode
func DefaultLocalConfig() *LocalConfig {
	return &LocalConfig{
		Server: ServerConfig{
			Port:     8080,
			Bind:     "127.0.0.1",
			LogLevel: "info",
		},
		Storage: StorageConfig{
			Path: "obi.db",
		},
	}
}

// LoadLocalConfig reads config.yaml from ~/.obi, falling back to defaults
// when the file does not exist.
func LoadLocalConfig() (*LocalConfig, error) {
	dir, err := ObiDir()
	if err != nil {
		return nil, err
	}

	cfg := DefaultLocalConfig()
	cfg.Storage.Path = filepath.Join(dir, "obi.db")

	data, err := os.ReadFile(filepath.Join(dir, "config.yaml"))
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config.yaml: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config.yaml: %w", err)
	}
	return cfg, nil
}
