// Package config holds the kclust command-line configuration file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/hupe1980/kclust"
	"github.com/hupe1980/kclust/codec"
	"github.com/hupe1980/kclust/internal/compress"
	"gopkg.in/yaml.v3"
)

// Scaling modes applied to features before clustering.
const (
	ScaleNone   = "none"
	ScaleZScore = "zscore"
	ScaleMinMax = "minmax"
)

// UnboundedRetries disables the per-trial retry cap.
const UnboundedRetries = -1

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config is the root of the configuration file.
type Config struct {
	Input      InputConfig      `yaml:"input"`
	Clustering ClusteringConfig `yaml:"clustering"`
	Store      StoreConfig      `yaml:"store"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// InputConfig describes the CSV input.
type InputConfig struct {
	Path        string   `yaml:"path"`
	NameColumn  string   `yaml:"name_column"`
	LabelColumn string   `yaml:"label_column"`
	Features    []string `yaml:"features,omitempty"`
	Delimiter   string   `yaml:"delimiter"`
}

// ClusteringConfig maps onto kclust options.
type ClusteringConfig struct {
	K      int `yaml:"k"`
	Trials int `yaml:"trials"`

	// Seed is the master seed. Nil picks a time-based seed.
	Seed *int64 `yaml:"seed"`

	MaxIterations int `yaml:"max_iterations"`

	// MaxRetries of -1 retries without limit.
	MaxRetries  int    `yaml:"max_retries"`
	Parallelism int    `yaml:"parallelism"`
	Scale       string `yaml:"scale"`
}

// StoreConfig controls snapshot persistence. An empty URI disables it.
type StoreConfig struct {
	URI         string `yaml:"uri"`
	Codec       string `yaml:"codec"`
	Compression string `yaml:"compression"`
	IOLimit     int64  `yaml:"io_limit_bytes_per_sec"`
	CacheBytes  int64  `yaml:"cache_bytes"`

	// Keep prunes all but the newest Keep snapshots after a save. Zero keeps all.
	Keep int `yaml:"keep"`
}

// LoggingConfig selects the slog handler.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Input: InputConfig{
			NameColumn: "name",
			Delimiter:  ",",
		},
		Clustering: ClusteringConfig{
			K:             2,
			Trials:        10,
			MaxIterations: kclust.DefaultMaxIterations,
			MaxRetries:    kclust.DefaultMaxRetries,
			Scale:         ScaleNone,
		},
		Store: StoreConfig{
			Codec:       codec.Default.Name(),
			Compression: compress.None.String(),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads path on top of the defaults, expands environment variables in
// paths and URIs, and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.Input.Path = os.ExpandEnv(cfg.Input.Path)
	cfg.Store.URI = os.ExpandEnv(cfg.Store.URI)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var errs []error
	invalid := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	if len([]rune(c.Input.Delimiter)) != 1 {
		invalid("input.delimiter must be a single character, got %q", c.Input.Delimiter)
	}

	if c.Clustering.K < 1 {
		invalid("clustering.k must be positive, got %d", c.Clustering.K)
	}
	if c.Clustering.Trials < 1 {
		invalid("clustering.trials must be positive, got %d", c.Clustering.Trials)
	}
	if c.Clustering.MaxIterations < 0 {
		invalid("clustering.max_iterations must not be negative, got %d", c.Clustering.MaxIterations)
	}
	if c.Clustering.MaxRetries < UnboundedRetries {
		invalid("clustering.max_retries must be -1 or more, got %d", c.Clustering.MaxRetries)
	}
	if c.Clustering.Parallelism < 0 {
		invalid("clustering.parallelism must not be negative, got %d", c.Clustering.Parallelism)
	}
	if !slices.Contains([]string{ScaleNone, ScaleZScore, ScaleMinMax}, c.Clustering.Scale) {
		invalid("clustering.scale must be one of none, zscore, minmax, got %q", c.Clustering.Scale)
	}

	if _, ok := codec.ByName(c.Store.Codec); !ok {
		invalid("store.codec must be one of %s, got %q", strings.Join(codec.Names(), ", "), c.Store.Codec)
	}
	if _, err := compress.ParseType(c.Store.Compression); err != nil {
		invalid("store.compression: %v", err)
	}
	if c.Store.IOLimit < 0 {
		invalid("store.io_limit_bytes_per_sec must not be negative")
	}
	if c.Store.CacheBytes < 0 {
		invalid("store.cache_bytes must not be negative")
	}
	if c.Store.Keep < 0 {
		invalid("store.keep must not be negative")
	}

	if _, err := c.Logging.SlogLevel(); err != nil {
		invalid("logging.level: %v", err)
	}
	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		invalid("logging.format must be text or json, got %q", c.Logging.Format)
	}

	return errors.Join(errs...)
}

// Comma returns the input delimiter as a rune.
func (c *InputConfig) Comma() rune {
	r := []rune(c.Delimiter)
	if len(r) == 0 {
		return ','
	}
	return r[0]
}

// SlogLevel parses Level.
func (c *LoggingConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		return 0, err
	}
	return level, nil
}

// Options returns the kclust options described by c.
func (c *ClusteringConfig) Options() []kclust.Option {
	opts := []kclust.Option{
		kclust.WithMaxIterations(c.MaxIterations),
	}
	if c.MaxRetries == UnboundedRetries {
		opts = append(opts, kclust.WithUnboundedRetries())
	} else {
		opts = append(opts, kclust.WithMaxRetries(c.MaxRetries))
	}
	if c.Parallelism > 0 {
		opts = append(opts, kclust.WithParallelism(c.Parallelism))
	}
	if c.Seed != nil {
		opts = append(opts, kclust.WithSeed(*c.Seed))
	}
	return opts
}
