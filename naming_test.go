package naming_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/syssam/naming"
	"github.com/syssam/naming/convention"
	"github.com/syssam/naming/metadata"
	"github.com/syssam/naming/rewrite"
)

func TestParseStyle(t *testing.T) {
	tests := []struct {
		in      string
		want    naming.Style
		wantErr bool
	}{
		{in: "snake", want: naming.SnakeCase},
		{in: "snake_case", want: naming.SnakeCase},
		{in: "SnakeCase", want: naming.SnakeCase},
		{in: "upper-snake-case", want: naming.UpperSnakeCase},
		{in: "UPPER_SNAKE", want: naming.UpperSnakeCase},
		{in: "camel", want: naming.CamelCase},
		{in: "lower", want: naming.LowerCase},
		{in: "upper", want: naming.UpperCase},
		{in: "proper-snake", want: naming.ProperSnakeCase},
		{in: "kebab-case", want: naming.KebabCase},
		{in: "upper-kebab", want: naming.UpperKebabCase},
		{in: "none", want: naming.None},
		{in: "pascal", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := naming.ParseStyle(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, naming.IsUnknownStyle(err))
				assert.True(t, naming.IsConfigError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStyleString(t *testing.T) {
	for _, s := range naming.Styles() {
		parsed, err := naming.ParseStyle(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}
	assert.Equal(t, "unknown", naming.Style(200).String())
	assert.False(t, naming.Style(200).IsValid())

	var s naming.Style
	require.NoError(t, s.UnmarshalText([]byte("upper_snake_case")))
	assert.Equal(t, naming.UpperSnakeCase, s)
	text, err := s.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "upper-snake-case", string(text))
}

func TestOptions(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		c, err := naming.NewConfig()
		require.NoError(t, err)
		assert.Equal(t, naming.SnakeCase, c.Style)
		assert.True(t, c.Culture.IsInvariant())
		assert.Equal(t, metadata.PhaseRewrite, c.Phase)
		assert.NotNil(t, c.Logger)
	})

	t.Run("invalid", func(t *testing.T) {
		tests := []struct {
			name string
			opt  naming.Option
		}{
			{"style", naming.WithStyle(naming.Style(99))},
			{"style name", naming.WithStyleName("screaming")},
			{"culture", naming.WithCultureName("not a culture!")},
			{"rewriter", naming.WithRewriter(nil)},
			{"suffix", naming.WithStripSuffix("")},
			{"phase", naming.WithPhase(metadata.PhaseHost)},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := naming.NewConfig(tt.opt)
				require.Error(t, err)
				assert.True(t, naming.IsConfigError(err))
			})
		}
	})

	t.Run("custom without rewriter", func(t *testing.T) {
		_, err := naming.NewConfig(naming.WithStyle(naming.Custom))
		require.Error(t, err)
		assert.True(t, naming.IsConfigError(err))
	})

	t.Run("describe", func(t *testing.T) {
		c, err := naming.NewConfig(naming.WithStyle(naming.SnakeCase), naming.WithCultureName("tr-TR"))
		require.NoError(t, err)
		assert.Equal(t, "using snake-case naming (culture=tr-TR)", c.Describe())

		c, err = naming.NewConfig(naming.WithStyleName("upper"))
		require.NoError(t, err)
		assert.Equal(t, "using upper-case naming", c.Describe())

		c, err = naming.NewConfig(naming.WithStyle(naming.None))
		require.NoError(t, err)
		assert.Equal(t, "naming convention disabled", c.Describe())
	})
}

func TestNewRewriter(t *testing.T) {
	tests := []struct {
		name string
		opts []naming.Option
		in   string
		want string
	}{
		{"snake", nil, "SampleEntity", "sample_entity"},
		{"strip suffix", []naming.Option{naming.WithStripSuffix("Entity")}, "SampleEntity", "sample"},
		{"upper snake tr", []naming.Option{naming.WithStyle(naming.UpperSnakeCase), naming.WithCultureName("tr-TR")}, "SimpleBlog", "SİMPLE_BLOG"},
		{"camel", []naming.Option{naming.WithStyle(naming.CamelCase)}, "FullName", "fullName"},
		{"none", []naming.Option{naming.WithStyle(naming.None)}, "FullName", "FullName"},
		{"custom", []naming.Option{naming.WithRewriter(rewrite.Custom(func(s string) string { return "x_" + s }))}, "Blog", "x_Blog"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := naming.NewConfig(tt.opts...)
			require.NoError(t, err)
			r, err := naming.NewRewriter(c)
			require.NoError(t, err)
			assert.Equal(t, tt.want, r.Rewrite(tt.in))
		})
	}
}

func TestRegister(t *testing.T) {
	t.Run("after host conventions", func(t *testing.T) {
		set := metadata.DefaultConventions()
		require.NoError(t, naming.Register(set))
		assert.Equal(t, []string{metadata.TableNameFromContextName, convention.Name}, set.Names(metadata.KindEntityTypeAdded))
		assert.Equal(t, []string{metadata.SharedTableName, convention.Name}, set.Names(metadata.KindModelFinalizing))
		for _, k := range metadata.EventKinds {
			assert.Contains(t, set.Names(k), convention.Name, k.String())
		}
	})

	t.Run("none registers nothing", func(t *testing.T) {
		set := metadata.DefaultConventions()
		before := set.Len()
		require.NoError(t, naming.Register(set, naming.WithStyle(naming.None)))
		assert.Equal(t, before, set.Len())
		assert.False(t, set.Has(convention.Name))
	})

	t.Run("unknown style fails fast", func(t *testing.T) {
		set := metadata.DefaultConventions()
		err := naming.Register(set, naming.WithStyleName("wiggly"))
		require.ErrorIs(t, err, naming.ErrUnknownStyle)
		assert.False(t, set.Has(convention.Name))
	})

	t.Run("twice", func(t *testing.T) {
		set := metadata.DefaultConventions()
		require.NoError(t, naming.Register(set))
		require.ErrorIs(t, naming.Register(set), naming.ErrInvalidConfig)
	})

	t.Run("nil set", func(t *testing.T) {
		assert.True(t, naming.IsConfigError(naming.Register(nil)))
		assert.Panics(t, func() { naming.MustRegister(nil) })
	})

	t.Run("logs registration", func(t *testing.T) {
		core, logs := observer.New(zapcore.InfoLevel)
		require.NoError(t, naming.Register(metadata.DefaultConventions(),
			naming.WithStyle(naming.KebabCase),
			naming.WithLogger(zap.New(core)),
		))
		entries := logs.FilterMessage("naming convention registered").All()
		require.Len(t, entries, 1)
		assert.Equal(t, "kebab-case", entries[0].ContextMap()["style"])
	})
}

func TestSimpleBlog(t *testing.T) {
	tests := []struct {
		name   string
		opts   []naming.Option
		table  string
		id     string
		column string
		pk     string
		ak     string
		index  string
	}{
		{
			name:   "snake",
			opts:   []naming.Option{naming.WithStyle(naming.SnakeCase)},
			table:  "simple_blog",
			id:     "id",
			column: "full_name",
			pk:     "pk_simple_blog",
			ak:     "ak_simple_blog_some_alternative_key",
			index:  "ix_simple_blog_full_name",
		},
		{
			name:   "lower",
			opts:   []naming.Option{naming.WithStyle(naming.LowerCase)},
			table:  "simpleblog",
			id:     "id",
			column: "fullname",
			pk:     "pk_simpleblog",
			ak:     "ak_simpleblog_somealternativekey",
			index:  "ix_simpleblog_fullname",
		},
		{
			name:   "camel",
			opts:   []naming.Option{naming.WithStyle(naming.CamelCase)},
			table:  "simpleBlog",
			id:     "id",
			column: "fullName",
			pk:     "pK_simpleBlog",
			ak:     "aK_simpleBlog_someAlternativeKey",
			index:  "iX_simpleBlog_fullName",
		},
		{
			name:   "kebab",
			opts:   []naming.Option{naming.WithStyle(naming.KebabCase)},
			table:  "simple-blog",
			id:     "id",
			column: "full-name",
			pk:     "pk-simple-blog",
			ak:     "ak-simple-blog-some-alternative-key",
			index:  "ix-simple-blog-full-name",
		},
		{
			name:   "none",
			opts:   []naming.Option{naming.WithStyle(naming.None)},
			table:  "SimpleBlog",
			id:     "Id",
			column: "FullName",
			pk:     "PK_SimpleBlog",
			ak:     "AK_SimpleBlog_SomeAlternativeKey",
			index:  "IX_SimpleBlog_FullName",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			set := metadata.DefaultConventions()
			require.NoError(naming.Register(set, tt.opts...))
			m := metadata.New(set)
			blog := m.Entity("SimpleBlog")
			blog.Properties("Id", "FullName", "SomeAlternativeKey")
			ak := blog.HasAlternateKey("SomeAlternativeKey").ID()
			ix := blog.HasIndex("FullName").ID()
			require.NoError(m.Finalize())

			so, ok := m.StoreObjectOf(blog.ID(), metadata.Table)
			require.True(ok)
			require.Equal(tt.table, so.Name)
			column := func(name string) string {
				p, ok := m.FindProperty(blog.ID(), name)
				require.True(ok)
				v, ok := m.ColumnNameAt(p, so)
				require.True(ok)
				return v
			}
			require.Equal(tt.id, column("Id"))
			require.Equal(tt.column, column("FullName"))
			pk, ok := m.PrimaryKey(blog.ID())
			require.True(ok)
			name, _ := m.KeyName(pk)
			require.Equal(tt.pk, name)
			name, _ = m.KeyName(ak)
			require.Equal(tt.ak, name)
			name, _ = m.IndexName(ix)
			require.Equal(tt.index, name)
		})
	}
}

// Two models registered with different styles never share a rewriter.
func TestRegisterIsolation(t *testing.T) {
	build := func(style naming.Style) string {
		set := metadata.DefaultConventions()
		require.NoError(t, naming.Register(set, naming.WithStyle(style)))
		m := metadata.New(set)
		m.Entity("BlogPost").Property("Id")
		require.NoError(t, m.Finalize())
		id, _ := m.Lookup("BlogPost")
		name, _ := m.TableName(id)
		return name
	}
	assert.Equal(t, "blog_post", build(naming.SnakeCase))
	assert.Equal(t, "BLOGPOST", build(naming.UpperCase))
	assert.Equal(t, "blog_post", build(naming.SnakeCase))
}
