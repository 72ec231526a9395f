package config

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, DefaultOutputDir, cfg.Output.Directory)
	assert.Equal(t, DefaultTimeout, cfg.Fetcher.Timeout)
	assert.Equal(t, DefaultMaxRetries, cfg.Fetcher.MaxRetries)
	assert.True(t, cfg.Encoding.EnableIRI)
	assert.Empty(t, cfg.Encoding.Local)
	assert.Empty(t, cfg.Encoding.Remote)
	assert.Equal(t, DefaultLogLevel, cfg.Logging.Level)
}

func TestConfigFilePath(t *testing.T) {
	assert.True(t, strings.HasSuffix(ConfigFilePath(), filepath.Join(".webfetch", "config.yaml")))
}

func TestValidateAppliesDefaults(t *testing.T) {
	cfg := &Config{}

	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultTimeout, cfg.Fetcher.Timeout)
	assert.Equal(t, DefaultOutputDir, cfg.Output.Directory)
}

func TestValidateKeepsExplicitValues(t *testing.T) {
	cfg := Default()
	cfg.Fetcher.Timeout = 2 * time.Minute
	cfg.Output.Directory = "/tmp/pages"

	require.NoError(t, cfg.Validate())
	assert.Equal(t, 2*time.Minute, cfg.Fetcher.Timeout)
	assert.Equal(t, "/tmp/pages", cfg.Output.Directory)
}

func TestValidateRejectsBadEncodingNames(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid local encoding",
			mutate:  func(c *Config) { c.Encoding.Local = "ISO-8859-1" },
			wantErr: false,
		},
		{
			name:    "local encoding with space",
			mutate:  func(c *Config) { c.Encoding.Local = "UTF 8" },
			wantErr: true,
		},
		{
			name:    "remote encoding with non-ascii",
			mutate:  func(c *Config) { c.Encoding.Remote = "\xfctf-8" },
			wantErr: true,
		},
		{
			name:    "empty encodings ok",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
