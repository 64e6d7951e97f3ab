// Package template parses the {name} placeholder patterns used for file
// naming and folder hierarchies. A pattern is validated and tokenized once;
// rendering is a single pass over the token list, so a substituted value
// that happens to contain {name}-shaped text is never substituted again.
package template

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidTemplate is returned when a pattern cannot be parsed.
var ErrInvalidTemplate = errors.New("invalid template")

type tokenKind int

const (
	literalToken tokenKind = iota
	placeholderToken
)

type token struct {
	kind  tokenKind
	value string // literal text, or placeholder name without braces
}

// Template is an immutable, pre-parsed placeholder pattern.
type Template struct {
	pattern string
	tokens  []token
}

// Parse validates and tokenizes a pattern in a single pass.
// A pattern is invalid when it is empty, braces are unbalanced or nested,
// a placeholder name is empty, or a name contains a non-word character.
func Parse(pattern string) (*Template, error) {
	if pattern == "" {
		return nil, fmt.Errorf("%w: pattern is empty", ErrInvalidTemplate)
	}

	var (
		tokens  []token
		literal strings.Builder
		name    strings.Builder
		open    bool
	)

	for _, r := range pattern {
		switch {
		case r == '{':
			if open {
				return nil, fmt.Errorf("%w: nested brace in %q", ErrInvalidTemplate, pattern)
			}
			if literal.Len() > 0 {
				tokens = append(tokens, token{kind: literalToken, value: literal.String()})
				literal.Reset()
			}
			open = true
		case r == '}':
			if !open {
				return nil, fmt.Errorf("%w: unmatched %q in %q", ErrInvalidTemplate, "}", pattern)
			}
			if name.Len() == 0 {
				return nil, fmt.Errorf("%w: empty placeholder name in %q", ErrInvalidTemplate, pattern)
			}
			tokens = append(tokens, token{kind: placeholderToken, value: name.String()})
			name.Reset()
			open = false
		case open:
			if !isWordChar(r) {
				return nil, fmt.Errorf("%w: placeholder name contains %q in %q", ErrInvalidTemplate, r, pattern)
			}
			name.WriteRune(r)
		default:
			literal.WriteRune(r)
		}
	}

	if open {
		return nil, fmt.Errorf("%w: unbalanced braces in %q", ErrInvalidTemplate, pattern)
	}
	if literal.Len() > 0 {
		tokens = append(tokens, token{kind: literalToken, value: literal.String()})
	}

	return &Template{pattern: pattern, tokens: tokens}, nil
}

func isWordChar(r rune) bool {
	return r == '_' ||
		(r >= '0' && r <= '9') ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z')
}

// Pattern returns the original pattern string.
func (t *Template) Pattern() string {
	return t.pattern
}

// Placeholders returns the placeholder names referenced by the template in
// order of appearance. Duplicates are preserved.
func (t *Template) Placeholders() []string {
	var names []string
	for _, tok := range t.tokens {
		if tok.kind == placeholderToken {
			names = append(names, tok.value)
		}
	}
	return names
}

// Render concatenates literals and substituted placeholder values in token
// order. The lookup function supplies the value for each placeholder name.
func (t *Template) Render(lookup func(name string) string) string {
	var b strings.Builder
	b.Grow(len(t.pattern))

	for _, tok := range t.tokens {
		switch tok.kind {
		case literalToken:
			b.WriteString(tok.value)
		case placeholderToken:
			b.WriteString(lookup(tok.value))
		}
	}

	return b.String()
}
