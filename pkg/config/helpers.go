package config

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// SetValue sets a configuration value by key. Keys use the yaml names of the
// settings fields, e.g. "output_dir" or "concurrency".
func (c *Config) SetValue(key, value string) error {
	switch key {
	case "listing_url":
		c.Settings.ListingURL = value
	case "download_url":
		c.Settings.DownloadURL = value
	case "root_prefix":
		c.Settings.RootPrefix = value
	case "checksum_suffix":
		c.Settings.ChecksumSuffix = value
	case "output_dir":
		c.Settings.OutputDir = value
	case "extract_dir":
		c.Settings.ExtractDir = value
	case "proxy":
		c.Settings.Proxy = value
	case "log_level":
		c.Settings.LogLevel = value
	case "output_format":
		c.Settings.OutputFormat = value
	case "concurrency":
		intVal, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer value for %s: %s", key, value)
		}
		c.Settings.Concurrency = intVal
	case "retries":
		intVal, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer value for %s: %s", key, value)
		}
		c.Settings.Retries = intVal
	case "http_timeout":
		duration, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration value for %s: %s", key, value)
		}
		c.Settings.HTTPTimeout = duration
	case "verify_checksum":
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean value for %s: %s", key, value)
		}
		c.Settings.VerifyChecksum = boolVal
	case "extract":
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean value for %s: %s", key, value)
		}
		c.Settings.Extract = boolVal
	case "color_output":
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean value for %s: %s", key, value)
		}
		c.Settings.ColorOutput = boolVal
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	return nil
}

// GetValue returns a configuration value by key as a string.
func (c *Config) GetValue(key string) (string, error) {
	values := c.ToMap()
	if value, ok := values[key]; ok {
		return value, nil
	}
	return "", fmt.Errorf("unknown configuration key: %s", key)
}

// ToMap converts the settings to a map keyed by yaml field names. This is
// useful for displaying the configuration.
func (c *Config) ToMap() map[string]string {
	result := make(map[string]string)

	settingsValue := reflect.ValueOf(c.Settings)
	settingsType := settingsValue.Type()

	for i := 0; i < settingsValue.NumField(); i++ {
		field := settingsType.Field(i)
		yamlTag := field.Tag.Get("yaml")
		if yamlTag == "" || yamlTag == "-" {
			continue
		}
		yamlKey := strings.Split(yamlTag, ",")[0]

		fieldValue := settingsValue.Field(i)
		var strValue string
		switch value := fieldValue.Interface().(type) {
		case time.Duration:
			strValue = value.String()
		case string:
			strValue = value
		case int:
			strValue = strconv.Itoa(value)
		case bool:
			strValue = strconv.FormatBool(value)
		default:
			strValue = fmt.Sprintf("%v", value)
		}

		result[yamlKey] = strValue
	}

	return result
}
