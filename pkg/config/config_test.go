package config

import (
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCreatesDefaultFile(t *testing.T) {
	t.Setenv(EnvBaseURL, "")
	fs := afero.NewMemMapFs()

	cfg, err := Load(fs, "")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	exist, err := afero.Exists(fs, DefaultPath())
	require.NoError(t, err)
	assert.True(t, exist)
}

func TestLoadExplicitPathMerges(t *testing.T) {
	t.Setenv(EnvBaseURL, "")
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/etc/vocanote.yaml", []byte("base_url: https://api.example.com\nworkers: 8\ntimeout: 5s\n"), 0644))

	cfg, err := Load(fs, "/etc/vocanote.yaml")
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com", cfg.BaseURL)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, Default().Database, cfg.Database)
}

func TestLoadMissingExplicitPath(t *testing.T) {
	_, err := Load(afero.NewMemMapFs(), "/nope.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not exist")
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv(EnvBaseURL, "https://env.example.com")
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/c.yaml", []byte("base_url: https://file.example.com\n"), 0644))

	cfg, err := Load(fs, "/c.yaml")
	require.NoError(t, err)
	assert.Equal(t, "https://env.example.com", cfg.BaseURL)
}

func TestLoadBadYAML(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/c.yaml", []byte("workers: [1"), 0644))
	_, err := Load(fs, "/c.yaml")
	require.Error(t, err)
}
