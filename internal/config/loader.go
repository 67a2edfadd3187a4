package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// FileName is the base name of the configuration file.
const FileName = "namingc"

// EnvPrefix prefixes the environment overrides, e.g. NAMINGC_NAMING_STYLE.
const EnvPrefix = "NAMINGC"

// Loader loads configuration.
type Loader interface {
	// Load loads configuration from file and environment variables.
	// Priority: defaults, then config file, then environment variables.
	Load() (*Config, error)
}

type loader struct {
	rootDir string
	file    string
}

// NewLoader creates a loader searching rootDir for namingc.yaml or
// namingc.yml.
func NewLoader(rootDir string) Loader {
	return &loader{rootDir: rootDir}
}

// NewFileLoader creates a loader reading the given configuration file.
func NewFileLoader(path string) Loader {
	return &loader{file: path}
}

func (l *loader) Load() (*Config, error) {
	v := viper.New()
	if l.file != "" {
		v.SetConfigFile(l.file)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(l.rootDir)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range []string{
		"naming.style",
		"naming.culture",
		"naming.strip_suffixes",
		"naming.pluralize_tables",
		"output.format",
		"output.package",
		"output.dir",
		"log.level",
		"log.development",
		"workers",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if l.file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("naming.style", d.Naming.Style)
	v.SetDefault("naming.culture", d.Naming.Culture)
	v.SetDefault("naming.strip_suffixes", d.Naming.StripSuffixes)
	v.SetDefault("naming.pluralize_tables", d.Naming.PluralizeTables)
	v.SetDefault("output.format", d.Output.Format)
	v.SetDefault("output.package", d.Output.Package)
	v.SetDefault("output.dir", d.Output.Dir)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.development", d.Log.Development)
	v.SetDefault("workers", d.Workers)
}

// LoadConfig loads configuration from the current working directory.
func LoadConfig() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return NewLoader(wd).Load()
}
