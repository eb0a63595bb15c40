package template

import (
	"fmt"
	"strings"

	"github.com/bimmerbailey/fieldprompt/internal/example"
	"github.com/bimmerbailey/fieldprompt/internal/llm"
)

const (
	// Acknowledgment is the assistant turn that follows the instruction block.
	Acknowledgment = "OK, I'm ready."

	partSeparator = "\n\n---\n\n"
)

// Assemble builds the full message list for ex: an instruction block, the
// assistant acknowledgment, any augmented demonstrations, then the live
// query.
//
// Assemble deletes the target field from ex and may set ex.Augmented. Demos
// are read from ex.Demos and are not modified. With QueryOnly set only the
// live query is returned and ex is left untouched.
func (t *Template) Assemble(ex *example.Example, showGuidelines bool) ([]llm.Message, error) {
	if t.settings.QueryOnly {
		return t.Query(ex, false)
	}

	targetVar := t.target().InputVariable
	ex.Delete(targetVar)

	var raw []string
	var augmented [][]llm.Message
	var promoted [][]llm.Message
	for i, demo := range ex.Demos {
		if demo == nil {
			continue
		}
		// Plain demos without the target are dropped before they are rendered.
		if _, ok := demo.Get(targetVar); !ok && !demo.Augmented {
			continue
		}
		msgs, err := t.Query(demo, true)
		if err != nil {
			return nil, fmt.Errorf("demo %d: %w", i, err)
		}

		if demo.Augmented {
			augmented = append(augmented, msgs)
			continue
		}

		content := joinContents(msgs)
		if t.showsLiveFields(ex, content) {
			promoted = append(promoted, msgs)
		} else {
			raw = append(raw, content)
		}
	}
	augmented = append(promoted, augmented...)

	longQuery := t.Verbose()
	if longQuery {
		ex.Augmented = true
	}
	query, err := t.Query(ex, false)
	if err != nil {
		return nil, err
	}
	if len(query) > len(t.fields) {
		longQuery = true
		if !ex.Augmented {
			ex.Augmented = true
			if query, err = t.Query(ex, false); err != nil {
				return nil, err
			}
		}
	}

	guidelines, err := t.Guidelines(showGuidelines)
	if err != nil {
		return nil, fmt.Errorf("guidelines: %w", err)
	}

	parts := []string{t.Instructions}
	if len(raw) > 0 && (len(augmented) > 0 || longQuery) {
		parts = append(parts, strings.Join(raw, "\n\n"))
	}
	parts = append(parts, guidelines)

	t.logger.Debug("assembled prompt",
		"raw_demos", len(raw),
		"augmented_demos", len(augmented),
		"long_query", longQuery,
	)

	msgs := []llm.Message{
		{Role: llm.RoleUser, Content: joinParts(parts)},
		{Role: llm.RoleAssistant, Content: Acknowledgment},
	}
	for _, demo := range augmented {
		msgs = append(msgs, demo...)
	}
	return append(msgs, query...), nil
}

// showsLiveFields reports whether content mentions the name of every field
// the live example provides.
func (t *Template) showsLiveFields(ex *example.Example, content string) bool {
	for _, f := range t.fields {
		if ex.Has(f.InputVariable) && !strings.Contains(content, f.Name) {
			return false
		}
	}
	return true
}

func joinParts(parts []string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, partSeparator)
}
