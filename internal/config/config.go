package config

import (
	"fmt"
	"time"
)

// Config represents the application configuration
type Config struct {
	Encoding EncodingConfig `mapstructure:"encoding" yaml:"encoding"`
	Fetcher  FetcherConfig  `mapstructure:"fetcher" yaml:"fetcher"`
	Output   OutputConfig   `mapstructure:"output" yaml:"output"`
	Logging  LoggingConfig  `mapstructure:"logging" yaml:"logging"`
}

// EncodingConfig contains charset negotiation settings
type EncodingConfig struct {
	// Local is the encoding of locally authored strings (command-line
	// arguments and the like). Derived from the locale when empty.
	Local string `mapstructure:"local" yaml:"local"`

	// Remote forces the source encoding of remote content, overriding
	// whatever a response declares.
	Remote string `mapstructure:"remote" yaml:"remote"`

	// EnableIRI turns on internationalized URL handling.
	EnableIRI bool `mapstructure:"enable_iri" yaml:"enable_iri"`
}

// FetcherConfig contains HTTP client settings
type FetcherConfig struct {
	Timeout    time.Duration `mapstructure:"timeout" yaml:"timeout"`
	MaxRetries int           `mapstructure:"max_retries" yaml:"max_retries"`
	UserAgent  string        `mapstructure:"user_agent" yaml:"user_agent"`
	ProxyURL   string        `mapstructure:"proxy_url" yaml:"proxy_url"`
}

// OutputConfig contains output-related settings
type OutputConfig struct {
	Directory    string `mapstructure:"directory" yaml:"directory"`
	JSONMetadata bool   `mapstructure:"json_metadata" yaml:"json_metadata"`
	Overwrite    bool   `mapstructure:"overwrite" yaml:"overwrite"`
	DryRun       bool   `mapstructure:"dry_run" yaml:"dry_run"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Validate validates the configuration and applies defaults for invalid
// values
func (c *Config) Validate() error {
	if c.Fetcher.Timeout < time.Second {
		c.Fetcher.Timeout = DefaultTimeout
	}
	if c.Fetcher.MaxRetries < 0 {
		c.Fetcher.MaxRetries = DefaultMaxRetries
	}
	if c.Output.Directory == "" {
		c.Output.Directory = DefaultOutputDir
	}
	if c.Encoding.Local != "" && !validEncodingToken(c.Encoding.Local) {
		return fmt.Errorf("invalid encoding.local: %q", c.Encoding.Local)
	}
	if c.Encoding.Remote != "" && !validEncodingToken(c.Encoding.Remote) {
		return fmt.Errorf("invalid encoding.remote: %q", c.Encoding.Remote)
	}
	return nil
}

// validEncodingToken mirrors the charset parser's plausibility check:
// ASCII, no whitespace.
func validEncodingToken(name string) bool {
	for i := 0; i < len(name); i++ {
		b := name[i]
		if b > 0x7f || b == ' ' || b == '\t' || b == '\n' || b == '\v' || b == '\f' || b == '\r' {
			return false
		}
	}
	return true
}
