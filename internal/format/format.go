// Package format turns example values into the text placed after a field
// label.
//
// A [Registry] maps variable names to formatters. Variables without an entry
// fall back to [Normalize], which only accepts text.
package format

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotText is returned when a value needs a formatter but is not a string.
	ErrNotText = errors.New("format: value is not text")

	// ErrNoAnswers is returned by Answers for an empty answer list.
	ErrNoAnswers = errors.New("format: no answers found")
)

// Formatter renders one value as text.
type Formatter func(value any) (string, error)

// Registry maps variable names to formatters. It is read-only once built.
type Registry map[string]Formatter

// Default returns the built-in registry: passage lists for "passages" and
// "context", answer normalization for "answer" and "answers".
func Default() Registry {
	return Registry{
		"passages": Passages,
		"context":  Passages,
		"answer":   Answers,
		"answers":  Answers,
	}
}

// Lookup returns the formatter registered for name, or Normalize.
func (r Registry) Lookup(name string) Formatter {
	if f, ok := r[name]; ok && f != nil {
		return f
	}
	return Normalize
}

// Normalize collapses every whitespace run in a string to a single space.
func Normalize(value any) (string, error) {
	s, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("%w: got %T", ErrNotText, value)
	}
	return strings.Join(strings.Fields(s), " "), nil
}

// Passages renders a passage list as «quoted» entries, numbered when there
// is more than one. A plain string is returned unchanged.
func Passages(value any) (string, error) {
	if s, ok := value.(string); ok {
		return s, nil
	}

	items, err := toStrings(value)
	if err != nil {
		return "", err
	}

	switch len(items) {
	case 0:
		return "N/A", nil
	case 1:
		return "«" + items[0] + "»", nil
	}

	lines := make([]string, len(items))
	for i, txt := range items {
		lines[i] = fmt.Sprintf("[%d] «%s»", i+1, txt)
	}
	return strings.Join(lines, "\n"), nil
}

// Answers returns a string unchanged, or the first entry of a list trimmed.
func Answers(value any) (string, error) {
	if s, ok := value.(string); ok {
		return s, nil
	}

	items, err := toStrings(value)
	if err != nil {
		return "", err
	}
	if len(items) == 0 {
		return "", ErrNoAnswers
	}
	return strings.TrimSpace(items[0]), nil
}

// toStrings accepts the list shapes that arrive from Go callers and from
// decoded YAML.
func toStrings(value any) ([]string, error) {
	switch v := value.(type) {
	case []string:
		return v, nil
	case []any:
		out := make([]string, len(v))
		for i, item := range v {
			out[i] = fmt.Sprint(item)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: got %T", ErrNotText, value)
	}
}
