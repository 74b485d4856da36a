// Package config loads run settings from flags, environment, an optional YAML
// file and a .env file.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/napolitain/solver-geode/internal/solver/geode"
)

// EnvPrefix is prepended to every environment variable, e.g. GEODE_HORIZON
const EnvPrefix = "GEODE"

// Config holds every setting of a run
type Config struct {
	// Input is the blueprint file; "-" reads stdin
	Input string `mapstructure:"input"`

	Horizon         int `mapstructure:"horizon" validate:"min=1,max=64"`
	ExtendedHorizon int `mapstructure:"extended-horizon" validate:"min=1,max=64"`
	TopN            int `mapstructure:"top" validate:"min=1"`

	// Workers bounds concurrent searches; 0 uses every CPU
	Workers  int    `mapstructure:"workers" validate:"min=0"`
	Ordering string `mapstructure:"ordering" validate:"oneof=current bound"`
	MaxNodes int    `mapstructure:"max-nodes" validate:"min=0"`

	CachePath   string `mapstructure:"cache"`
	MetricsFile string `mapstructure:"metrics-file"`

	LogLevel  string `mapstructure:"log-level" validate:"oneof=debug info warn error"`
	LogFormat string `mapstructure:"log-format" validate:"oneof=text json"`

	// Solver service only
	Listen      string  `mapstructure:"listen" validate:"required"`
	Rate        float64 `mapstructure:"rate" validate:"min=0"`
	Burst       int     `mapstructure:"burst" validate:"min=1"`
	MetricsAddr string  `mapstructure:"metrics-addr"`
}

// Load merges, lowest priority first: defaults, the config file, the environment,
// then flags the user actually set. A missing config file is not an error unless
// configPath names it explicitly.
func Load(configPath string, flags *pflag.FlagSet) (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	v := viper.New()
	SetDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("geodes")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("failed to bind flags: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := ValidateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// SetDefaults registers the default of every key
func SetDefaults(v *viper.Viper) {
	v.SetDefault("input", "")
	v.SetDefault("horizon", geode.DefaultHorizon)
	v.SetDefault("extended-horizon", geode.ExtendedHorizon)
	v.SetDefault("top", geode.DefaultTopN)
	v.SetDefault("workers", 0)
	v.SetDefault("ordering", geode.OrderByCurrent.String())
	v.SetDefault("max-nodes", 0)
	v.SetDefault("cache", "")
	v.SetDefault("metrics-file", "")
	v.SetDefault("log-level", "warn")
	v.SetDefault("log-format", "text")
	v.SetDefault("listen", ":50051")
	v.SetDefault("rate", 0)
	v.SetDefault("burst", 4)
	v.SetDefault("metrics-addr", "")
}

// SolverOptions converts the search settings into solver options
func (c *Config) SolverOptions() ([]geode.Option, error) {
	ordering, err := geode.ParseOrdering(c.Ordering)
	if err != nil {
		return nil, err
	}
	return []geode.Option{geode.WithOrdering(ordering), geode.WithMaxNodes(c.MaxNodes)}, nil
}
