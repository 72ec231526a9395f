package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Load loads configuration from file, environment, and defaults.
// Uses the global viper instance to access CLI flag bindings.
func Load() (*Config, error) {
	v := viper.GetViper()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(ConfigDir())
	v.AddConfigPath(".")

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	// Environment variables (WEBFETCH_*)
	v.SetEnvPrefix("WEBFETCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults sets default values in viper
func setDefaults(v *viper.Viper) {
	v.SetDefault("encoding.local", "")
	v.SetDefault("encoding.remote", "")
	v.SetDefault("encoding.enable_iri", DefaultEnableIRI)

	v.SetDefault("fetcher.timeout", DefaultTimeout)
	v.SetDefault("fetcher.max_retries", DefaultMaxRetries)
	v.SetDefault("fetcher.user_agent", "")
	v.SetDefault("fetcher.proxy_url", "")

	v.SetDefault("output.directory", DefaultOutputDir)
	v.SetDefault("output.json_metadata", false)
	v.SetDefault("output.overwrite", false)
	v.SetDefault("output.dry_run", false)

	v.SetDefault("logging.level", DefaultLogLevel)
	v.SetDefault("logging.format", DefaultLogFormat)
}
