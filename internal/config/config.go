// Package config loads justifier settings with viper.
//
// Precedence, lowest to highest: built-in defaults, the config file
// (explicit path or ~/.justifier/config.yaml), JUSTIFIER_* environment
// variables.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g.
// JUSTIFIER_EXPLANATION_LIMIT.
const EnvPrefix = "JUSTIFIER"

// Config is the resolved runtime configuration.
type Config struct {
	DataDir     string            `mapstructure:"data_dir"`
	Explanation ExplanationConfig `mapstructure:"explanation"`
	Search      SearchConfig      `mapstructure:"search"`
	Log         LogConfig         `mapstructure:"log"`
	Metrics     MetricsConfig     `mapstructure:"metrics"`
	KB          KBConfig          `mapstructure:"kb"`
}

type ExplanationConfig struct {
	Limit        int  `mapstructure:"limit"`
	FindAll      bool `mapstructure:"find_all"`
	CacheResults bool `mapstructure:"cache_results"`
}

type SearchConfig struct {
	Workers      int           `mapstructure:"workers"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

// MetricsConfig enables the prometheus endpoint when Addr is non-empty.
type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// KBConfig lists YAML documents imported at startup and watched for edits.
type KBConfig struct {
	Files []string `mapstructure:"files"`
}

// DefaultDataDir returns ~/.justifier, falling back to a relative
// directory when the home directory cannot be resolved.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".justifier"
	}
	return filepath.Join(home, ".justifier")
}

// SetDefaults registers the default value of every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", DefaultDataDir())

	v.SetDefault("explanation.limit", 2)
	v.SetDefault("explanation.find_all", true)
	v.SetDefault("explanation.cache_results", false)

	v.SetDefault("search.workers", 4)
	v.SetDefault("search.poll_interval", 250*time.Microsecond)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)

	v.SetDefault("metrics.addr", "")
	v.SetDefault("kb.files", []string{})
}

// New returns a viper instance wired with defaults and environment
// bindings but no config file.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// Load resolves the configuration. An empty path looks for
// config.yaml in the default data directory and tolerates its absence;
// an explicit path must exist.
func Load(path string) (*Config, error) {
	v := New()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config %s", path)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(DefaultDataDir())
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, errors.Wrap(err, "read config")
			}
		}
	}
	return LoadWithViper(v)
}

// LoadWithViper decodes and validates an already populated viper instance.
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings no component can honour.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return errors.New("data_dir must not be empty")
	}
	if c.Explanation.Limit < 0 {
		return errors.Newf("explanation.limit must be >= 0, got %d", c.Explanation.Limit)
	}
	if c.Search.Workers < 1 {
		return errors.Newf("search.workers must be >= 1, got %d", c.Search.Workers)
	}
	if c.Search.PollInterval < 0 {
		return errors.Newf("search.poll_interval must be >= 0, got %s", c.Search.PollInterval)
	}
	return nil
}
