package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/syssam/naming/metadata"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "snake-case", cfg.Naming.Style)
	assert.Empty(t, cfg.Naming.Culture)
	assert.Equal(t, "yaml", cfg.Output.Format)
	assert.Equal(t, "names", cfg.Output.Package)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 4, cfg.Workers)
	assert.NoError(t, Validate(cfg))
}

func TestLoad(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		cfg, err := NewLoader(t.TempDir()).Load()
		require.NoError(t, err)
		d := Default()
		assert.Equal(t, d.Naming.Style, cfg.Naming.Style)
		assert.Equal(t, d.Output, cfg.Output)
		assert.Equal(t, d.Log, cfg.Log)
		assert.Equal(t, d.Workers, cfg.Workers)
		assert.Empty(t, cfg.Naming.StripSuffixes)
	})

	t.Run("File", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, "namingc.yaml", `
naming:
  style: upper-snake-case
  culture: tr-TR
  strip_suffixes: [Entity]
output:
  format: json
`)
		cfg, err := NewLoader(dir).Load()
		require.NoError(t, err)
		assert.Equal(t, "upper-snake-case", cfg.Naming.Style)
		assert.Equal(t, "tr-TR", cfg.Naming.Culture)
		assert.Equal(t, []string{"Entity"}, cfg.Naming.StripSuffixes)
		assert.Equal(t, "json", cfg.Output.Format)
		assert.Equal(t, "names", cfg.Output.Package)
	})

	t.Run("YML", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, "namingc.yml", "naming:\n  style: kebab-case\n")
		cfg, err := NewLoader(dir).Load()
		require.NoError(t, err)
		assert.Equal(t, "kebab-case", cfg.Naming.Style)
	})

	t.Run("EnvOverridesFile", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, "namingc.yaml", "naming:\n  style: kebab-case\nworkers: 2\n")
		t.Setenv("NAMINGC_NAMING_STYLE", "camel-case")
		t.Setenv("NAMINGC_WORKERS", "8")
		cfg, err := NewLoader(dir).Load()
		require.NoError(t, err)
		assert.Equal(t, "camel-case", cfg.Naming.Style)
		assert.Equal(t, 8, cfg.Workers)
	})

	t.Run("ExplicitFile", func(t *testing.T) {
		path := writeConfig(t, t.TempDir(), "custom.yaml", "output:\n  package: dbnames\n")
		cfg, err := NewFileLoader(path).Load()
		require.NoError(t, err)
		assert.Equal(t, "dbnames", cfg.Output.Package)
	})

	t.Run("MissingExplicitFile", func(t *testing.T) {
		_, err := NewFileLoader(filepath.Join(t.TempDir(), "missing.yaml")).Load()
		require.Error(t, err)
	})

	t.Run("Malformed", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, "namingc.yaml", "naming: [style\n")
		_, err := NewLoader(dir).Load()
		require.Error(t, err)
	})

	t.Run("Invalid", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, "namingc.yaml", "naming:\n  style: shouting\n")
		_, err := NewLoader(dir).Load()
		require.ErrorIs(t, err, ErrInvalidStyle)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   []error
	}{
		{name: "custom style", modify: func(c *Config) { c.Naming.Style = "custom" }, want: []error{ErrInvalidStyle}},
		{name: "unknown style", modify: func(c *Config) { c.Naming.Style = "title" }, want: []error{ErrInvalidStyle}},
		{name: "empty suffix", modify: func(c *Config) { c.Naming.StripSuffixes = []string{""} }, want: []error{ErrInvalidStyle}},
		{name: "culture", modify: func(c *Config) { c.Naming.Culture = "not a culture!" }, want: []error{ErrInvalidCulture}},
		{name: "format", modify: func(c *Config) { c.Output.Format = "xml" }, want: []error{ErrInvalidFormat}},
		{name: "package", modify: func(c *Config) { c.Output.Package = "" }, want: []error{ErrInvalidPackage}},
		{name: "log level", modify: func(c *Config) { c.Log.Level = "loud" }, want: []error{ErrInvalidLogLevel}},
		{name: "workers", modify: func(c *Config) { c.Workers = 0 }, want: []error{ErrInvalidWorkers}},
		{
			name: "several",
			modify: func(c *Config) {
				c.Output.Format = "xml"
				c.Workers = -1
			},
			want: []error{ErrInvalidFormat, ErrInvalidWorkers},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := Validate(cfg)
			require.Error(t, err)
			for _, want := range tt.want {
				assert.ErrorIs(t, err, want)
			}
		})
	}
}

func TestConventions(t *testing.T) {
	cfg := Default()
	cfg.Naming.PluralizeTables = true
	cfg.Naming.StripSuffixes = []string{"Entity"}
	set, err := cfg.Conventions(zap.NewNop())
	require.NoError(t, err)

	m := metadata.New(set)
	code := m.Entity("BlogPost").Properties("Id").Property("CodeEntity").ID()
	require.NoError(t, m.Finalize())
	blog, ok := m.Lookup("BlogPost")
	require.True(t, ok)
	name, ok := m.TableName(blog)
	require.True(t, ok)
	assert.Equal(t, "blog_posts", name)
	name, ok = m.ColumnName(code)
	require.True(t, ok)
	assert.Equal(t, "code", name)

	cfg.Naming.Style = "bogus"
	_, err = cfg.Conventions(zap.NewNop())
	require.Error(t, err)
}

func TestLogger(t *testing.T) {
	cfg := Default()
	cfg.Log.Level = "debug"
	cfg.Log.Development = true
	logger, err := cfg.Logger()
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zap.DebugLevel))

	cfg.Log.Level = "warn"
	cfg.Log.Development = false
	logger, err = cfg.Logger()
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zap.InfoLevel))

	cfg.Log.Level = "loud"
	_, err = cfg.Logger()
	require.Error(t, err)
}
