package rewrite

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type category uint8

const (
	catNone category = iota
	catUpper
	catLower
	catDigit
	catSeparator
)

func categorize(r rune) category {
	switch {
	case unicode.IsUpper(r), unicode.IsTitle(r):
		return catUpper
	case unicode.IsLower(r), unicode.IsLetter(r):
		// Letters without case (e.g. CJK) behave like lower-case letters.
		return catLower
	case unicode.IsDigit(r):
		return catDigit
	default:
		return catSeparator
	}
}

type snake struct{ culture Culture }

// Snake returns a rewriter producing snake_case: an underscore is inserted at
// every word boundary, runs of other punctuation collapse into a single
// underscore and upper-case letters are lowered under culture.
//
//	FullName   -> full_name
//	XMLParser  -> xml_parser
//	PK_Blog    -> pk_blog
func Snake(culture Culture) Rewriter { return snake{culture} }

func (r snake) Rewrite(name string) string {
	if name == "" {
		return name
	}
	runes := []rune(name)
	var b strings.Builder
	b.Grow(len(name) + min(2, len(name)/5))
	prev := catNone
	for i, c := range runes {
		if c == '_' {
			b.WriteByte('_')
			prev = catNone
			continue
		}
		cur := categorize(c)
		switch cur {
		case catUpper:
			if prev == catSeparator || prev == catLower ||
				prev != catDigit && prev != catNone && i+1 < len(runes) && unicode.IsLower(runes[i+1]) {
				b.WriteByte('_')
			}
			b.WriteString(r.culture.Lower(string(c)))
		case catLower, catDigit:
			if prev == catSeparator {
				b.WriteByte('_')
			}
			b.WriteRune(c)
		default:
			if prev != catNone {
				prev = catSeparator
			}
			continue
		}
		prev = cur
	}
	return b.String()
}

type properSnake struct{ snake snake }

// ProperSnake returns a rewriter producing Proper_Snake_Case: snake_case with
// the first letter of every word upper-cased.
func ProperSnake(culture Culture) Rewriter { return properSnake{snake{culture}} }

func (r properSnake) Rewrite(name string) string {
	words := strings.Split(r.snake.Rewrite(name), "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		_, n := utf8.DecodeRuneInString(w)
		words[i] = r.snake.culture.Upper(w[:n]) + w[n:]
	}
	return strings.Join(words, "_")
}
