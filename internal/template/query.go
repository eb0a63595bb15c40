package template

import (
	"fmt"
	"slices"
	"strings"

	"github.com/bimmerbailey/fieldprompt/internal/example"
	"github.com/bimmerbailey/fieldprompt/internal/llm"
)

// Query renders ex as role-tagged messages: at most one user message
// followed by at most one assistant message.
//
// With isDemo false every field goes to the user message and the first empty
// field after the filled prefix is opened with an empty value, so the prompt
// ends on that field's label. With isDemo true only fields marked Input go to
// the user message and the rest form the assistant reply. ex is not
// modified.
func (t *Template) Query(ex *example.Example, isDemo bool) ([]llm.Message, error) {
	ex = ex.Clone()
	if !isDemo {
		t.openField(ex)
	}

	var user, assistant []string
	for _, f := range t.fields {
		value, ok := ex.Get(f.InputVariable)
		if !ok {
			continue
		}
		formatted, err := t.formatters.Lookup(f.InputVariable)(value)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.InputVariable, err)
		}

		sep := f.Separator
		if sep == " " && strings.Contains(formatted, "\n") {
			sep = "\n"
		}
		content := f.Name + sep + formatted

		if f.Input || !isDemo {
			user = append(user, content)
		} else {
			assistant = append(assistant, content)
		}
	}

	var msgs []llm.Message
	if len(user) > 0 {
		msgs = append(msgs, llm.Message{Role: llm.RoleUser, Content: strings.Join(user, "\n\n")})
	}
	if len(assistant) > 0 {
		msgs = append(msgs, llm.Message{Role: llm.RoleAssistant, Content: strings.Join(assistant, "\n\n")})
	}
	return msgs, nil
}

// openField sets the next field to be answered to "". With nothing filled
// that is the first field; otherwise it is the first field after a filled
// one with nothing filled from there on. When the last field is filled no
// field is opened.
func (t *Template) openField(ex *example.Example) {
	filled := make([]bool, len(t.fields))
	for i, f := range t.fields {
		v, ok := ex.Get(f.InputVariable)
		filled[i] = ok && v != ""
	}

	if !slices.Contains(filled, true) {
		ex.Set(t.fields[0].InputVariable, "")
		return
	}
	for i := 1; i < len(filled); i++ {
		if filled[i-1] && !slices.Contains(filled[i:], true) {
			ex.Set(t.fields[i].InputVariable, "")
			return
		}
	}
}

// joinContents concatenates message contents with blank lines between them.
func joinContents(msgs []llm.Message) string {
	parts := make([]string, len(msgs))
	for i, m := range msgs {
		parts[i] = m.Content
	}
	return strings.Join(parts, "\n\n")
}
