// Package redact masks sensitive values in prompt text before it leaves the
// machine.
//
// Each distinct value is replaced by a stable placeholder such as
// [EMAIL:1a2b], so a model can still tell that two messages mention the same
// address without seeing it.
package redact

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"

	"github.com/bimmerbailey/fieldprompt/internal/llm"
)

// ErrUnknownPattern is returned by New for a pattern name that is not built in.
var ErrUnknownPattern = errors.New("redact: unknown pattern")

// Redactor replaces matches of its patterns with placeholders. It is safe for
// concurrent use.
type Redactor struct {
	patterns []Pattern

	mu     sync.RWMutex
	values map[string]string // original value -> placeholder
}

// New returns a Redactor for the named patterns, or for DefaultPatterns when
// names is empty.
func New(names []string) (*Redactor, error) {
	if len(names) == 0 {
		names = DefaultPatterns()
	}
	patterns, err := lookup(names)
	if err != nil {
		return nil, err
	}
	return &Redactor{
		patterns: patterns,
		values:   make(map[string]string),
	}, nil
}

// Redact returns text with every match replaced by its placeholder.
func (r *Redactor) Redact(text string) string {
	for _, p := range r.patterns {
		text = p.Regex.ReplaceAllStringFunc(text, func(match string) string {
			return r.placeholder(match, p.Kind)
		})
	}
	return text
}

// Messages returns redacted copies of msgs. The input slice is not modified.
func (r *Redactor) Messages(msgs []llm.Message) []llm.Message {
	out := make([]llm.Message, len(msgs))
	for i, m := range msgs {
		out[i] = llm.Message{Role: m.Role, Content: r.Redact(m.Content)}
	}
	return out
}

// Count returns how many distinct values have been redacted so far.
func (r *Redactor) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.values)
}

func (r *Redactor) placeholder(value, kind string) string {
	r.mu.RLock()
	p, ok := r.values[value]
	r.mu.RUnlock()
	if ok {
		return p
	}

	sum := sha256.Sum256([]byte(value))
	p = fmt.Sprintf("[%s:%s]", kind, hex.EncodeToString(sum[:2]))

	r.mu.Lock()
	r.values[value] = p
	r.mu.Unlock()
	return p
}
