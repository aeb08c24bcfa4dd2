// Package config provides configuration loading, defaults, and validation
// for the EPO-data extractor.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix used by all settings.
const envPrefix = "EPODATA"

// newViper builds a pre-configured Viper instance with the extractor's
// standard settings: YAML file type, EPODATA_ env prefix, automatic env
// binding, and a key replacer that maps "." → "_" so that nested keys like
// "auth.client_id" resolve to "EPODATA_AUTH_CLIENT_ID".
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

// Load reads the YAML file at configPath, merges any EPODATA_* environment
// variable overrides, applies defaults for unset fields, and validates the
// result. It returns a fully-populated *Config or a descriptive error.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}

	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config entirely from EPODATA_* environment variables,
// with no config file required. Credentials are expected via
// EPODATA_AUTH_CLIENT_ID / EPODATA_AUTH_CLIENT_SECRET so they never land in
// a file or shell history.
func LoadFromEnv() (*Config, error) {
	v := newViper()
	bindKeys(v)
	return unmarshalAndFinalize(v)
}

// bindKeys registers every config key with viper so AutomaticEnv can see
// them even without a config file. Viper only consults the environment for
// keys it knows about.
func bindKeys(v *viper.Viper) {
	for _, key := range []string{
		"auth.client_id", "auth.client_secret",
		"ops.base_url", "ops.register_base_url", "ops.request_timeout",
		"ops.call_delay", "ops.window_delay", "ops.retry_after_limit",
		"extraction.year", "extraction.record_limit", "extraction.window_size",
		"extraction.title_keywords", "extraction.abstract_keywords",
		"extraction.applicant", "extraction.inventor",
		"extraction.ipc", "extraction.cpc", "extraction.country",
		"output.path",
		"metrics.enabled", "metrics.listen_addr",
		"log.level", "log.format", "log.output_paths",
	} {
		_ = v.BindEnv(key)
	}
}

// unmarshalAndFinalize unmarshals viper state into a Config struct, applies
// defaults, and validates the result.
func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	return cfg, nil
}
