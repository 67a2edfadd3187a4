// Package config holds the configuration of the namingc command.
// It is loaded from namingc.yaml with NAMINGC_* environment overrides.
package config

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/syssam/naming"
	"github.com/syssam/naming/metadata"
)

// Config is the complete namingc configuration.
type Config struct {
	Naming  NamingConfig `yaml:"naming" mapstructure:"naming"`
	Output  OutputConfig `yaml:"output" mapstructure:"output"`
	Log     LogConfig    `yaml:"log" mapstructure:"log"`
	Workers int          `yaml:"workers" mapstructure:"workers"` // models built concurrently
}

// NamingConfig configures the naming convention.
type NamingConfig struct {
	Style           string   `yaml:"style" mapstructure:"style"`                       // e.g. "snake-case"
	Culture         string   `yaml:"culture" mapstructure:"culture"`                   // BCP 47, empty is invariant
	StripSuffixes   []string `yaml:"strip_suffixes" mapstructure:"strip_suffixes"`     // removed before the style applies
	PluralizeTables bool     `yaml:"pluralize_tables" mapstructure:"pluralize_tables"` // pluralize type names without a set
}

// OutputConfig configures what namingc writes.
type OutputConfig struct {
	Format  string `yaml:"format" mapstructure:"format"`   // json, yaml or msgpack
	Package string `yaml:"package" mapstructure:"package"` // package of generated constants
	Dir     string `yaml:"dir" mapstructure:"dir"`         // output directory, empty for stdout
}

// LogConfig configures logging.
type LogConfig struct {
	Level       string `yaml:"level" mapstructure:"level"`
	Development bool   `yaml:"development" mapstructure:"development"`
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Naming: NamingConfig{
			Style: naming.SnakeCase.String(),
		},
		Output: OutputConfig{
			Format:  "yaml",
			Package: "names",
		},
		Log: LogConfig{
			Level: "info",
		},
		Workers: 4,
	}
}

// Options returns the registrar options described by c.
func (c *Config) Options(logger *zap.Logger) []naming.Option {
	opts := []naming.Option{
		naming.WithStyleName(c.Naming.Style),
		naming.WithCultureName(c.Naming.Culture),
		naming.WithLogger(logger),
	}
	if len(c.Naming.StripSuffixes) > 0 {
		opts = append(opts, naming.WithStripSuffix(c.Naming.StripSuffixes...))
	}
	return opts
}

// Conventions returns a fresh host convention set with the naming convention
// registered.
func (c *Config) Conventions(logger *zap.Logger) (*metadata.ConventionSet, error) {
	var hostOpts []metadata.HostOption
	if c.Naming.PluralizeTables {
		hostOpts = append(hostOpts, metadata.WithPluralizedTables())
	}
	set := metadata.DefaultConventions(hostOpts...)
	if err := naming.Register(set, c.Options(logger)...); err != nil {
		return nil, err
	}
	return set, nil
}

// Logger builds the zap logger described by c.Log.
func (c *Config) Logger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	if c.Log.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}
