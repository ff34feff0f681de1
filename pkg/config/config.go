// Package config loads the vocanote YAML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// EnvBaseURL overrides the configured backend URL.
const EnvBaseURL = "VOCANOTE_BASE_URL"

type Config struct {
	BaseURL    string        `yaml:"base_url"`
	Database   string        `yaml:"database"`
	Dictionary string        `yaml:"dictionary"`
	Workers    int           `yaml:"workers"`
	Timeout    time.Duration `yaml:"timeout"`
}

// DefaultPath returns the config file location under the XDG config home.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, "vocanote", "config.yaml")
}

// DefaultDataDir returns the directory for the database and dictionary.
func DefaultDataDir() string {
	return filepath.Join(xdg.DataHome, "vocanote")
}

// Default returns the configuration written on first run.
func Default() Config {
	dataDir := DefaultDataDir()
	return Config{
		BaseURL:    "http://localhost:8080",
		Database:   filepath.Join(dataDir, "vocanote.db"),
		Dictionary: filepath.Join(dataDir, "jmdict-eng-common.json"),
		Workers:    4,
		Timeout:    30 * time.Second,
	}
}

type initConfigErr struct {
	s string
}

func (e *initConfigErr) Error() string {
	return e.s
}

func newInitConfigErr(err error) error {
	return &initConfigErr{
		s: fmt.Sprintf("init config error: %s", err.Error()),
	}
}

// createDefaultFile writes the default config to path if nothing is there yet.
func createDefaultFile(fs afero.Fs, path string) error {
	if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	exist, err := afero.Exists(fs, path)
	if err != nil || exist {
		return err
	}

	handle, err := fs.Create(path)
	if err != nil {
		return err
	}
	defer handle.Close()
	def := Default()
	return yaml.NewEncoder(handle).Encode(&def)
}

// Load reads the config at path. An empty path means DefaultPath, which is
// created with defaults when missing; an explicit path must exist. Unset
// fields fall back to defaults and EnvBaseURL wins over the file.
func Load(fs afero.Fs, path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultPath()
		if err := createDefaultFile(fs, path); err != nil {
			return cfg, newInitConfigErr(err)
		}
	} else {
		exist, err := afero.Exists(fs, path)
		if err != nil {
			return cfg, newInitConfigErr(err)
		}
		if !exist {
			return cfg, &initConfigErr{s: fmt.Sprintf("init config error: %s not exist", path)}
		}
	}

	handle, err := fs.Open(path)
	if err != nil {
		return cfg, newInitConfigErr(err)
	}
	defer handle.Close()

	var file Config
	if err := yaml.NewDecoder(handle).Decode(&file); err != nil {
		return cfg, newInitConfigErr(err)
	}
	cfg.merge(file)

	if v := os.Getenv(EnvBaseURL); v != "" {
		cfg.BaseURL = v
	}
	return cfg, nil
}

func (c *Config) merge(o Config) {
	if o.BaseURL != "" {
		c.BaseURL = o.BaseURL
	}
	if o.Database != "" {
		c.Database = o.Database
	}
	if o.Dictionary != "" {
		c.Dictionary = o.Dictionary
	}
	if o.Workers > 0 {
		c.Workers = o.Workers
	}
	if o.Timeout > 0 {
		c.Timeout = o.Timeout
	}
}
