package naming

import (
	"strings"

	"github.com/syssam/naming/rewrite"
)

// Style is a naming convention applied to every database object name.
type Style uint8

// Naming styles.
const (
	// None leaves the names computed by the model untouched.
	None Style = iota
	// SnakeCase produces full_name.
	SnakeCase
	// LowerCase produces fullname.
	LowerCase
	// CamelCase produces fullName.
	CamelCase
	// UpperCase produces FULLNAME.
	UpperCase
	// UpperSnakeCase produces FULL_NAME.
	UpperSnakeCase
	// ProperSnakeCase produces Full_Name.
	ProperSnakeCase
	// KebabCase produces full-name.
	KebabCase
	// UpperKebabCase produces FULL-NAME.
	UpperKebabCase
	// Custom applies the rewriter given with WithRewriter.
	Custom
)

var styleNames = [...]string{
	None:            "none",
	SnakeCase:       "snake-case",
	LowerCase:       "lower-case",
	CamelCase:       "camel-case",
	UpperCase:       "upper-case",
	UpperSnakeCase:  "upper-snake-case",
	ProperSnakeCase: "proper-snake-case",
	KebabCase:       "kebab-case",
	UpperKebabCase:  "upper-kebab-case",
	Custom:          "custom",
}

// Styles lists the built-in styles, in declaration order.
func Styles() []Style {
	out := make([]Style, 0, len(styleNames))
	for s := range styleNames {
		out = append(out, Style(s))
	}
	return out
}

// String implements fmt.Stringer.
func (s Style) String() string {
	if s.IsValid() {
		return styleNames[s]
	}
	return "unknown"
}

// IsValid reports whether s is a known style.
func (s Style) IsValid() bool {
	return int(s) < len(styleNames)
}

// MarshalText implements encoding.TextMarshaler.
func (s Style) MarshalText() ([]byte, error) {
	if !s.IsValid() {
		return nil, NewConfigError("Style", int(s), "unknown style")
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Style) UnmarshalText(text []byte) error {
	v, err := ParseStyle(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseStyle parses a style name. Names are case-insensitive, "_" and "-"
// are interchangeable and the "-case" suffix is optional, so "snake",
// "snake_case" and "SnakeCase" all select SnakeCase.
func ParseStyle(name string) (Style, error) {
	key := normalizeStyle(name)
	for s, n := range styleNames {
		if normalizeStyle(n) == key {
			return Style(s), nil
		}
	}
	return None, WrapConfigError("Style", name, "unrecognized style", ErrUnknownStyle)
}

func normalizeStyle(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.NewReplacer("_", "", "-", "", " ", "").Replace(key)
	return strings.TrimSuffix(key, "case")
}

// rewriter returns the rewriter implementing s under culture. Custom and
// unknown styles have none.
func (s Style) rewriter(culture rewrite.Culture) (rewrite.Rewriter, bool) {
	switch s {
	case None:
		return rewrite.Identity, true
	case SnakeCase:
		return rewrite.Snake(culture), true
	case LowerCase:
		return rewrite.Lower(culture), true
	case CamelCase:
		return rewrite.Camel(culture), true
	case UpperCase:
		return rewrite.Upper(culture), true
	case UpperSnakeCase:
		return rewrite.UpperSnake(culture), true
	case ProperSnakeCase:
		return rewrite.ProperSnake(culture), true
	case KebabCase:
		return rewrite.Kebab(culture), true
	case UpperKebabCase:
		return rewrite.UpperKebab(culture), true
	}
	return nil, false
}
