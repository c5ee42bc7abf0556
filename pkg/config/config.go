// Package config provides configuration management for bvget. It handles
// loading, validating, and persisting application settings from a YAML file,
// with a .env / environment-variable overlay so values like a proxy URL can
// stay out of the config file.
package config

import (
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/histbin/bvget/internal/logger"
	"github.com/histbin/bvget/pkg/errors"
	"github.com/histbin/bvget/pkg/fsutil"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Default settings values.
const (
	DefaultListingURL     = "https://s3-ap-northeast-1.amazonaws.com/data.binance.vision"
	DefaultDownloadURL    = "https://data.binance.vision"
	DefaultRootPrefix     = "data/"
	DefaultChecksumSuffix = ".CHECKSUM"
	DefaultOutputDir      = "downloads"
	DefaultConcurrency    = 5
	DefaultRetries        = 3
	DefaultHTTPTimeout    = 30 * time.Second

	// EnvPrefix is prepended to setting names for environment overrides,
	// e.g. BVGET_PROXY.
	EnvPrefix = "BVGET_"

	yamlIndent = 2
)

// Config represents the application configuration.
type Config struct {
	Settings Settings `yaml:"settings"`
}

// Settings represents general application settings.
type Settings struct {
	// Remote endpoints
	ListingURL     string `yaml:"listing_url"`
	DownloadURL    string `yaml:"download_url"`
	RootPrefix     string `yaml:"root_prefix"`
	ChecksumSuffix string `yaml:"checksum_suffix"`

	// Local layout
	OutputDir  string `yaml:"output_dir"`
	ExtractDir string `yaml:"extract_dir,omitempty"`

	// Transfer policy
	Concurrency    int           `yaml:"concurrency"`
	Retries        int           `yaml:"retries"`
	HTTPTimeout    time.Duration `yaml:"http_timeout"`
	Proxy          string        `yaml:"proxy,omitempty"`
	VerifyChecksum bool          `yaml:"verify_checksum"`
	Extract        bool          `yaml:"extract"`

	// Output settings
	LogLevel     string `yaml:"log_level"`
	OutputFormat string `yaml:"output_format"`
	ColorOutput  bool   `yaml:"color_output"`
}

// DefaultConfig returns a configuration populated with defaults.
func DefaultConfig() *Config {
	return &Config{
		Settings: Settings{
			ListingURL:     DefaultListingURL,
			DownloadURL:    DefaultDownloadURL,
			RootPrefix:     DefaultRootPrefix,
			ChecksumSuffix: DefaultChecksumSuffix,
			OutputDir:      DefaultOutputDir,
			Concurrency:    DefaultConcurrency,
			Retries:        DefaultRetries,
			HTTPTimeout:    DefaultHTTPTimeout,
			VerifyChecksum: true,
			Extract:        false,
			LogLevel:       "info",
			OutputFormat:   "text",
			ColorOutput:    true,
		},
	}
}

// LoadConfig loads configuration from a file. A missing file yields the
// defaults. Environment variables (after an optional .env load) override
// whatever the file sets.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, errors.ErrEmptyConfigPath
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidConfigPath, err.Error())
	}

	config := DefaultConfig()
	file, err := os.Open(absPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "failed to open config file: %s", path)
		}
	} else {
		defer func() { _ = file.Close() }()
		if config, err = loadConfigFromReader(file); err != nil {
			return nil, err
		}
	}

	config.applyEnvOverrides()

	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrConfigValidation, err.Error())
	}
	return config, nil
}

// loadConfigFromReader decodes YAML over a default-populated config, so keys
// absent from the file keep their default values.
func loadConfigFromReader(reader io.Reader) (*Config, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config data")
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, errors.Wrap(errors.ErrConfigParse, err.Error())
	}
	return config, nil
}

// applyEnvOverrides loads .env when present and overrides settings from
// BVGET_-prefixed environment variables.
func (c *Config) applyEnvOverrides() {
	if err := godotenv.Load(); err != nil {
		logger.Debug(".env file not found, using environment variables only")
	}

	overrideString(&c.Settings.ListingURL, "LISTING_URL")
	overrideString(&c.Settings.DownloadURL, "DOWNLOAD_URL")
	overrideString(&c.Settings.RootPrefix, "ROOT_PREFIX")
	overrideString(&c.Settings.ChecksumSuffix, "CHECKSUM_SUFFIX")
	overrideString(&c.Settings.OutputDir, "OUTPUT_DIR")
	overrideString(&c.Settings.ExtractDir, "EXTRACT_DIR")
	overrideString(&c.Settings.Proxy, "PROXY")
	overrideString(&c.Settings.LogLevel, "LOG_LEVEL")
	overrideInt(&c.Settings.Concurrency, "CONCURRENCY")
	overrideInt(&c.Settings.Retries, "RETRIES")
	overrideBool(&c.Settings.VerifyChecksum, "VERIFY_CHECKSUM")
	overrideBool(&c.Settings.Extract, "EXTRACT")
}

func overrideString(dst *string, name string) {
	if value := os.Getenv(EnvPrefix + name); value != "" {
		*dst = value
	}
}

func overrideInt(dst *int, name string) {
	value := os.Getenv(EnvPrefix + name)
	if value == "" {
		return
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		logger.Warnf("ignoring %s%s: %v", EnvPrefix, name, err)
		return
	}
	*dst = parsed
}

func overrideBool(dst *bool, name string) {
	value := os.Getenv(EnvPrefix + name)
	if value == "" {
		return
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		logger.Warnf("ignoring %s%s: %v", EnvPrefix, name, err)
		return
	}
	*dst = parsed
}

// SaveConfig saves configuration to a file atomically.
func (c *Config) SaveConfig(path string) error {
	if path == "" {
		return errors.ErrEmptyConfigPath
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrap(errors.ErrInvalidConfigPath, err.Error())
	}

	if err := os.MkdirAll(filepath.Dir(absPath), fsutil.DirModeDefault); err != nil {
		return errors.Wrap(errors.ErrConfigDirectory, err.Error())
	}

	tempPath := absPath + ".tmp"
	file, err := os.OpenFile(tempPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, fsutil.FileModeDefault)
	if err != nil {
		return errors.Wrap(errors.ErrConfigFileCreate, err.Error())
	}

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(yamlIndent)
	if err := encoder.Encode(c); err != nil {
		_ = file.Close()
		_ = os.Remove(tempPath)
		return errors.Wrap(errors.ErrConfigEncode, err.Error())
	}
	_ = encoder.Close()
	_ = file.Close()

	if err := os.Rename(tempPath, absPath); err != nil {
		_ = os.Remove(tempPath)
		return errors.Wrap(errors.ErrConfigFileCreate, err.Error())
	}
	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c == nil {
		return errors.ErrConfigValidation
	}
	s := c.Settings
	if s.ListingURL == "" {
		return errors.Wrap(errors.ErrConfigValidation, "listing_url cannot be empty")
	}
	if s.DownloadURL == "" {
		return errors.Wrap(errors.ErrConfigValidation, "download_url cannot be empty")
	}
	if s.OutputDir == "" {
		return errors.Wrap(errors.ErrConfigValidation, "output_dir cannot be empty")
	}
	if s.Concurrency < 1 {
		return errors.Wrap(errors.ErrConfigValidation, "concurrency must be at least 1")
	}
	if s.Retries < 0 {
		return errors.Wrap(errors.ErrConfigValidation, "retries cannot be negative")
	}
	if s.HTTPTimeout < 0 {
		return errors.Wrap(errors.ErrConfigValidation, "http_timeout cannot be negative")
	}
	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[s.OutputFormat] {
		return errors.Wrapf(errors.ErrConfigValidation, "invalid output format %q", s.OutputFormat)
	}
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[s.LogLevel] {
		return errors.Wrapf(errors.ErrConfigValidation, "invalid log level %q", s.LogLevel)
	}
	return nil
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get user config directory")
	}
	return filepath.Join(configDir, "bvget", "config.yaml"), nil
}
