// Package rewrite provides the name rewriters applied to database object
// names: pure string transformations such as snake_case or UPPERCASE, each
// bound to the culture that governs its casing.
package rewrite

import (
	"strings"
	"unicode/utf8"
)

// Rewriter transforms an identifier into its final database form.
// Implementations are pure and safe for concurrent use.
type Rewriter interface {
	Rewrite(name string) string
}

// The RewriterFunc type is an adapter to allow the use of ordinary functions
// as rewriters.
type RewriterFunc func(string) string

// Rewrite calls f(name).
func (f RewriterFunc) Rewrite(name string) string { return f(name) }

// Identity returns names unchanged.
var Identity Rewriter = RewriterFunc(func(name string) string { return name })

type lower struct{ culture Culture }

// Lower returns a rewriter that lower-cases the whole name under culture.
func Lower(culture Culture) Rewriter { return lower{culture} }

func (r lower) Rewrite(name string) string { return r.culture.Lower(name) }

type upper struct{ culture Culture }

// Upper returns a rewriter that upper-cases the whole name under culture.
func Upper(culture Culture) Rewriter { return upper{culture} }

func (r upper) Rewrite(name string) string { return r.culture.Upper(name) }

type camel struct{ culture Culture }

// Camel returns a rewriter that lower-cases the first character of the name
// under culture, turning PascalCase into camelCase.
func Camel(culture Culture) Rewriter { return camel{culture} }

func (r camel) Rewrite(name string) string {
	if name == "" {
		return name
	}
	_, n := utf8.DecodeRuneInString(name)
	return r.culture.Lower(name[:n]) + name[n:]
}

type upperSnake struct{ snake snake }

// UpperSnake returns a rewriter producing UPPER_SNAKE_CASE.
func UpperSnake(culture Culture) Rewriter { return upperSnake{snake{culture}} }

func (r upperSnake) Rewrite(name string) string {
	return r.snake.culture.Upper(r.snake.Rewrite(name))
}

type kebab struct{ snake Rewriter }

// Kebab returns a rewriter producing kebab-case: snake_case with hyphens.
func Kebab(culture Culture) Rewriter { return kebab{Snake(culture)} }

func (r kebab) Rewrite(name string) string {
	return strings.ReplaceAll(r.snake.Rewrite(name), "_", "-")
}

// UpperKebab returns a rewriter producing UPPER-KEBAB-CASE.
func UpperKebab(culture Culture) Rewriter {
	return Chain(Kebab(culture), Upper(culture))
}

type stripSuffix struct{ suffix string }

// StripSuffix returns a rewriter removing a trailing suffix (case-sensitive)
// when something remains after removal.
func StripSuffix(suffix string) Rewriter { return stripSuffix{suffix} }

// StripEntitySuffix removes a trailing "Entity", so that SampleEntity
// becomes Sample.
func StripEntitySuffix() Rewriter { return stripSuffix{"Entity"} }

func (r stripSuffix) Rewrite(name string) string {
	if r.suffix != "" && len(name) > len(r.suffix) && strings.HasSuffix(name, r.suffix) {
		return name[:len(name)-len(r.suffix)]
	}
	return name
}

// Custom wraps a user-supplied function. A nil function rewrites nothing.
func Custom(fn func(string) string) Rewriter {
	if fn == nil {
		return Identity
	}
	return RewriterFunc(fn)
}

type chain []Rewriter

// Chain applies rewriters left to right. Nil rewriters are skipped.
func Chain(rewriters ...Rewriter) Rewriter {
	var c chain
	for _, r := range rewriters {
		switch r := r.(type) {
		case nil:
		case chain:
			c = append(c, r...)
		default:
			c = append(c, r)
		}
	}
	switch len(c) {
	case 0:
		return Identity
	case 1:
		return c[0]
	}
	return c
}

func (c chain) Rewrite(name string) string {
	for _, r := range c {
		name = r.Rewrite(name)
	}
	return name
}
