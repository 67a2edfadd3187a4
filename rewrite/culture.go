package rewrite

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Culture selects the casing rules used when changing the case of names.
// The zero value is the invariant culture.
type Culture struct {
	tag language.Tag
}

// Invariant is the culture-neutral casing.
var Invariant = Culture{tag: language.Und}

// NewCulture returns the culture of tag.
func NewCulture(tag language.Tag) Culture {
	return Culture{tag: tag}
}

// ParseCulture parses a BCP 47 culture name such as "tr-TR" or "en_US".
// The empty string and "invariant" select Invariant.
func ParseCulture(name string) (Culture, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "invariant":
		return Invariant, nil
	}
	tag, err := language.Parse(strings.ReplaceAll(name, "_", "-"))
	if err != nil {
		return Invariant, fmt.Errorf("rewrite: parse culture %q: %w", name, err)
	}
	return NewCulture(tag), nil
}

// Tag returns the language tag of c.
func (c Culture) Tag() language.Tag { return c.tag }

// IsInvariant reports whether c is the invariant culture.
func (c Culture) IsInvariant() bool { return c.tag == language.Und }

// String returns the BCP 47 name of c, or "invariant".
func (c Culture) String() string {
	if c.IsInvariant() {
		return "invariant"
	}
	return c.tag.String()
}

// Lower returns s in lower case under c. Casers are stateful, so a new one is
// used per call.
func (c Culture) Lower(s string) string {
	return cases.Lower(c.tag).String(s)
}

// Upper returns s in upper case under c.
func (c Culture) Upper(s string) string {
	return cases.Upper(c.tag).String(s)
}
