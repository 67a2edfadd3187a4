// Package naming applies a database naming convention, such as snake_case,
// to a relational model. It instantiates a name rewriter for the chosen style
// and culture and registers the name-rewriting convention on a convention
// set, after the host conventions that assign default names.
//
//	set := metadata.DefaultConventions()
//	if err := naming.Register(set, naming.WithStyle(naming.SnakeCase)); err != nil {
//		return err
//	}
//	m := metadata.New(set)
package naming

import (
	"go.uber.org/zap"

	"github.com/syssam/naming/convention"
	"github.com/syssam/naming/metadata"
	"github.com/syssam/naming/rewrite"
)

// Config holds the naming convention settings.
type Config struct {
	// Style selects the rewriter. The default is SnakeCase.
	Style Style
	// Culture governs case changes. The default is rewrite.Invariant.
	Culture rewrite.Culture
	// Rewriter is the rewriter of the Custom style.
	Rewriter rewrite.Rewriter
	// StripSuffixes are removed from names before the style is applied.
	StripSuffixes []string
	// Phase is the convention phase the rewriter runs in. It must come after
	// metadata.PhaseHost.
	Phase metadata.Phase
	// Logger receives registration and rewrite traces.
	Logger *zap.Logger
}

// Option configures a naming convention.
type Option func(*Config) error

// WithStyle sets the naming style.
func WithStyle(s Style) Option {
	return func(c *Config) error {
		if !s.IsValid() {
			return WrapConfigError("Style", int(s), "unrecognized style", ErrUnknownStyle)
		}
		c.Style = s
		return nil
	}
}

// WithStyleName sets the naming style by name, see ParseStyle.
func WithStyleName(name string) Option {
	return func(c *Config) error {
		s, err := ParseStyle(name)
		if err != nil {
			return err
		}
		c.Style = s
		return nil
	}
}

// WithCulture sets the culture used for case changes.
func WithCulture(culture rewrite.Culture) Option {
	return func(c *Config) error {
		c.Culture = culture
		return nil
	}
}

// WithCultureName sets the culture by BCP 47 name, e.g. "tr-TR".
func WithCultureName(name string) Option {
	return func(c *Config) error {
		culture, err := rewrite.ParseCulture(name)
		if err != nil {
			return WrapConfigError("Culture", name, "invalid culture", err)
		}
		c.Culture = culture
		return nil
	}
}

// WithRewriter selects the Custom style with the given rewriter.
func WithRewriter(r rewrite.Rewriter) Option {
	return func(c *Config) error {
		if r == nil {
			return NewConfigError("Rewriter", nil, "rewriter cannot be nil")
		}
		c.Style = Custom
		c.Rewriter = r
		return nil
	}
}

// WithStripSuffix removes the given suffixes from names before the style is
// applied, e.g. WithStripSuffix("Entity") maps SampleEntity to sample.
func WithStripSuffix(suffixes ...string) Option {
	return func(c *Config) error {
		for _, s := range suffixes {
			if s == "" {
				return NewConfigError("StripSuffix", nil, "suffix cannot be empty")
			}
		}
		c.StripSuffixes = append(c.StripSuffixes, suffixes...)
		return nil
	}
}

// WithLogger sets the logger. A nil logger discards logs.
func WithLogger(l *zap.Logger) Option {
	return func(c *Config) error {
		if l == nil {
			l = zap.NewNop()
		}
		c.Logger = l
		return nil
	}
}

// WithPhase sets the convention phase of the rewriter.
func WithPhase(p metadata.Phase) Option {
	return func(c *Config) error {
		if p <= metadata.PhaseHost {
			return NewConfigError("Phase", int(p), "the rewriter must run after the host conventions")
		}
		c.Phase = p
		return nil
	}
}

// NewConfig returns the configuration built from opts.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{
		Style:   SnakeCase,
		Culture: rewrite.Invariant,
		Phase:   metadata.PhaseRewrite,
		Logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.Style == Custom && c.Rewriter == nil {
		return nil, NewConfigError("Rewriter", nil, "the custom style requires a rewriter")
	}
	return c, nil
}

// NewRewriter returns the rewriter described by c: the suffixes to strip,
// then the style.
func NewRewriter(c *Config) (rewrite.Rewriter, error) {
	style := c.Rewriter
	if c.Style != Custom {
		r, ok := c.Style.rewriter(c.Culture)
		if !ok {
			return nil, WrapConfigError("Style", int(c.Style), "unrecognized style", ErrUnknownStyle)
		}
		style = r
	}
	if style == nil {
		return nil, NewConfigError("Rewriter", nil, "the custom style requires a rewriter")
	}
	chain := make([]rewrite.Rewriter, 0, len(c.StripSuffixes)+1)
	for _, s := range c.StripSuffixes {
		chain = append(chain, rewrite.StripSuffix(s))
	}
	return rewrite.Chain(append(chain, style)...), nil
}

// Describe returns a short description of c for logs, such as
// "using snake-case naming (culture=tr-TR)".
func (c *Config) Describe() string {
	if c.Style == None {
		return "naming convention disabled"
	}
	s := "using " + c.Style.String() + " naming"
	if !c.Culture.IsInvariant() {
		s += " (culture=" + c.Culture.String() + ")"
	}
	return s
}

// Register subscribes a new name-rewriting convention configured by opts to
// every model event of set. The None style registers nothing. Each call builds
// its own rewriter and convention, so sets never share state.
func Register(set *metadata.ConventionSet, opts ...Option) error {
	if set == nil {
		return NewConfigError("ConventionSet", nil, "convention set cannot be nil")
	}
	c, err := NewConfig(opts...)
	if err != nil {
		return err
	}
	if c.Style == None {
		c.Logger.Debug(c.Describe())
		return nil
	}
	if set.Has(convention.Name) {
		return NewConfigError("ConventionSet", nil, "a naming convention is already registered")
	}
	r, err := NewRewriter(c)
	if err != nil {
		return err
	}
	engine := convention.New(r, convention.WithLogger(c.Logger))
	set.Add(c.Phase, convention.Name, engine, convention.Kinds()...)
	c.Logger.Info("naming convention registered",
		zap.Stringer("style", c.Style),
		zap.Stringer("culture", c.Culture),
		zap.Strings("strip_suffixes", c.StripSuffixes),
	)
	return nil
}

// MustRegister is like Register but panics on error.
func MustRegister(set *metadata.ConventionSet, opts ...Option) {
	if err := Register(set, opts...); err != nil {
		panic(err)
	}
}
