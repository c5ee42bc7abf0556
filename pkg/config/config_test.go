package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/histbin/bvget/pkg/errors"
	"github.com/histbin/bvget/pkg/fsutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, DefaultListingURL, cfg.Settings.ListingURL)
	assert.Equal(t, DefaultDownloadURL, cfg.Settings.DownloadURL)
	assert.Equal(t, "data/", cfg.Settings.RootPrefix)
	assert.Equal(t, ".CHECKSUM", cfg.Settings.ChecksumSuffix)
	assert.Equal(t, "downloads", cfg.Settings.OutputDir)
	assert.Equal(t, 5, cfg.Settings.Concurrency)
	assert.Equal(t, 3, cfg.Settings.Retries)
	assert.Equal(t, 30*time.Second, cfg.Settings.HTTPTimeout)
	assert.True(t, cfg.Settings.VerifyChecksum)
	assert.False(t, cfg.Settings.Extract)
	assert.Equal(t, "info", cfg.Settings.LogLevel)

	require.NoError(t, cfg.Validate())
}

func TestLoadConfig(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.yaml")

	configContent := `settings:
  listing_url: https://listing.example.com/bucket
  output_dir: /tmp/archives
  concurrency: 8
  http_timeout: 2m
  verify_checksum: false
  log_level: debug`

	err := os.WriteFile(configPath, []byte(configContent), fsutil.FileModeDefault)
	require.NoError(t, err)

	cfg, err := LoadConfig(configPath)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "https://listing.example.com/bucket", cfg.Settings.ListingURL)
	assert.Equal(t, "/tmp/archives", cfg.Settings.OutputDir)
	assert.Equal(t, 8, cfg.Settings.Concurrency)
	assert.Equal(t, 2*time.Minute, cfg.Settings.HTTPTimeout)
	assert.False(t, cfg.Settings.VerifyChecksum)
	assert.Equal(t, "debug", cfg.Settings.LogLevel)

	// Keys absent from the file keep their defaults.
	assert.Equal(t, DefaultDownloadURL, cfg.Settings.DownloadURL)
	assert.Equal(t, 3, cfg.Settings.Retries)
}

func TestLoadConfigMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Settings, cfg.Settings)
}

func TestLoadConfigEmptyPath(t *testing.T) {
	_, err := LoadConfig("")
	assert.ErrorIs(t, err, errors.ErrEmptyConfigPath)
}

func TestLoadConfigMalformedYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("settings: ["), fsutil.FileModeDefault))

	_, err := LoadConfig(configPath)
	assert.ErrorIs(t, err, errors.ErrConfigParse)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	configContent := `settings:
  output_dir: from_file
  concurrency: 2`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), fsutil.FileModeDefault))

	t.Setenv("BVGET_OUTPUT_DIR", "from_env")
	t.Setenv("BVGET_CONCURRENCY", "7")
	t.Setenv("BVGET_PROXY", "http://proxy.example.com:8080")
	t.Setenv("BVGET_VERIFY_CHECKSUM", "false")

	cfg, err := LoadConfig(configPath)
	require.NoError(t, err)

	assert.Equal(t, "from_env", cfg.Settings.OutputDir)
	assert.Equal(t, 7, cfg.Settings.Concurrency)
	assert.Equal(t, "http://proxy.example.com:8080", cfg.Settings.Proxy)
	assert.False(t, cfg.Settings.VerifyChecksum)
}

func TestLoadConfigIgnoresMalformedEnvValues(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	t.Setenv("BVGET_CONCURRENCY", "lots")
	t.Setenv("BVGET_EXTRACT", "maybe")

	cfg, err := LoadConfig(configPath)
	require.NoError(t, err)
	assert.Equal(t, DefaultConcurrency, cfg.Settings.Concurrency)
	assert.False(t, cfg.Settings.Extract)
}

func TestSaveConfig(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Settings.OutputDir = "/data/archives"
	cfg.Settings.Retries = 9
	require.NoError(t, cfg.SaveConfig(configPath))

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "output_dir: /data/archives")
	assert.Contains(t, string(data), "retries: 9")

	// No temp artifact is left after the atomic rename.
	matches, err := filepath.Glob(configPath + ".tmp")
	require.NoError(t, err)
	assert.Empty(t, matches)

	loaded, err := LoadConfig(configPath)
	require.NoError(t, err)
	assert.Equal(t, cfg.Settings, loaded.Settings)
}

func TestSaveConfigEmptyPath(t *testing.T) {
	err := DefaultConfig().SaveConfig("")
	assert.ErrorIs(t, err, errors.ErrEmptyConfigPath)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults are valid", mutate: func(*Config) {}},
		{
			name:    "empty listing url",
			mutate:  func(c *Config) { c.Settings.ListingURL = "" },
			wantErr: "listing_url",
		},
		{
			name:    "empty download url",
			mutate:  func(c *Config) { c.Settings.DownloadURL = "" },
			wantErr: "download_url",
		},
		{
			name:    "empty output dir",
			mutate:  func(c *Config) { c.Settings.OutputDir = "" },
			wantErr: "output_dir",
		},
		{
			name:    "zero concurrency",
			mutate:  func(c *Config) { c.Settings.Concurrency = 0 },
			wantErr: "concurrency",
		},
		{
			name:    "negative retries",
			mutate:  func(c *Config) { c.Settings.Retries = -1 },
			wantErr: "retries",
		},
		{
			name:    "negative timeout",
			mutate:  func(c *Config) { c.Settings.HTTPTimeout = -time.Second },
			wantErr: "http_timeout",
		},
		{
			name:    "bad output format",
			mutate:  func(c *Config) { c.Settings.OutputFormat = "xml" },
			wantErr: "output format",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Settings.LogLevel = "loud" },
			wantErr: "log level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, errors.ErrConfigValidation)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGetDefaultConfigPath(t *testing.T) {
	path, err := GetDefaultConfigPath()
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, filepath.Join("bvget", "config.yaml")))
}
