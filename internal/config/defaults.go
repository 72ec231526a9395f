package config

import (
	"os"
	"path/filepath"
	"time"
)

// Default values
const (
	// Output defaults
	DefaultOutputDir = "./pages"

	// Fetcher defaults
	DefaultTimeout    = 30 * time.Second
	DefaultMaxRetries = 3

	// Encoding defaults
	DefaultEnableIRI = true

	// Logging defaults
	DefaultLogLevel  = "info"
	DefaultLogFormat = "pretty"
)

// ConfigDir returns the config directory path
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".webfetch"
	}
	return filepath.Join(home, ".webfetch")
}

// ConfigFilePath returns the config file path
func ConfigFilePath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Encoding: EncodingConfig{
			EnableIRI: DefaultEnableIRI,
		},
		Fetcher: FetcherConfig{
			Timeout:    DefaultTimeout,
			MaxRetries: DefaultMaxRetries,
		},
		Output: OutputConfig{
			Directory: DefaultOutputDir,
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
