// Package config loads embedworld settings from a YAML file and EMBEDWORLD_*
// environment variables and checks them before an engine is built.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/TFMV/embedworld/pkg/engine"
	"github.com/TFMV/embedworld/pkg/graph"
)

// EnvPrefix prefixes environment overrides, e.g. EMBEDWORLD_GRAPH_THRESHOLD.
const EnvPrefix = "EMBEDWORLD"

// Config holds every tunable of the layout engine and the CLI around it.
type Config struct {
	Layout  LayoutConfig  `mapstructure:"layout"`
	Graph   GraphConfig   `mapstructure:"graph"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Log     LogConfig     `mapstructure:"log"`
}

// LayoutConfig selects the default strategy and its switches.
type LayoutConfig struct {
	Strategy    string `mapstructure:"strategy"`
	TierLock    bool   `mapstructure:"tier_lock"`
	UseRanks    bool   `mapstructure:"use_ranks"`
	ScatterSeed uint64 `mapstructure:"scatter_seed"`
}

// GraphConfig tunes the similarity graph.
type GraphConfig struct {
	Threshold        float64   `mapstructure:"threshold"`
	BucketThresholds []float64 `mapstructure:"bucket_thresholds"`
}

// MetricsConfig toggles Prometheus collection.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// LogConfig sets the log level.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// SetDefaults registers the default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("layout.strategy", engine.GlobalProjection.String())
	v.SetDefault("layout.tier_lock", false)
	v.SetDefault("layout.use_ranks", false)
	v.SetDefault("layout.scatter_seed", 1)
	v.SetDefault("graph.threshold", graph.DefaultThreshold)
	v.SetDefault("graph.bucket_thresholds", graph.DefaultBucketThresholds[:])
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("log.level", "info")
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	v := viper.New()
	SetDefaults(v)
	cfg, err := decode(v)
	if err != nil {
		// defaults always decode
		panic(err)
	}
	return cfg
}

// Load reads path (when non-empty) on top of the defaults and applies
// environment overrides. An empty path searches ./embedworld.yaml and
// $HOME/.embedworld.yaml and tolerates neither existing.
func Load(path string) (Config, *viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName("embedworld")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	cfg, err := decode(v)
	if err != nil {
		return Config{}, nil, err
	}
	return cfg, v, nil
}

func decode(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// EngineOptions converts the graph and layout settings into engine options.
// The logger and metrics collector are left for the caller to attach.
func (c Config) EngineOptions() (engine.Options, error) {
	opts := engine.DefaultOptions()
	opts.Threshold = c.Graph.Threshold
	opts.ScatterSeed = c.Layout.ScatterSeed

	if len(c.Graph.BucketThresholds) != 2 {
		return opts, fmt.Errorf("graph.bucket_thresholds needs 2 values, got %d", len(c.Graph.BucketThresholds))
	}
	opts.BucketThresholds = [2]float64{c.Graph.BucketThresholds[0], c.Graph.BucketThresholds[1]}
	return opts, nil
}

// Strategy parses the configured default strategy.
func (c Config) Strategy() (engine.Strategy, error) {
	return engine.ParseStrategy(c.Layout.Strategy)
}
