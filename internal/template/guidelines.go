package template

import (
	"strings"

	"github.com/bimmerbailey/fieldprompt/internal/example"
)

const guidelinesHeader = "Follow the following format.\n\n"

// Guidelines renders the format-description block: every field with its
// description as the value, rendered in live mode. It returns "" when show is
// false or the template's ShowGuidelines setting is off.
func (t *Template) Guidelines(show bool) (string, error) {
	if !show || !t.settings.ShowGuidelines {
		return "", nil
	}

	ex := example.New()
	for _, f := range t.fields {
		if f.HasDescription {
			ex.Set(f.InputVariable, f.Description)
		} else {
			ex.Set(f.InputVariable, nil)
		}
	}
	ex.Augmented = t.Verbose()

	msgs, err := t.Query(ex, false)
	if err != nil {
		return "", err
	}
	return guidelinesHeader + joinContents(msgs), nil
}

// Verbose reports whether the template needs long-form rendering: more than
// three fields, or a newline in any separator or description.
func (t *Template) Verbose() bool {
	if len(t.fields) > 3 {
		return true
	}
	for _, f := range t.fields {
		if strings.Contains(f.Separator, "\n") || strings.Contains(f.Description, "\n") {
			return true
		}
	}
	return false
}
