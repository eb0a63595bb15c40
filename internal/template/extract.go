package template

import (
	"strings"

	"github.com/bimmerbailey/fieldprompt/internal/example"
)

// Extract parses a raw completion into ex and returns it.
//
// The completion is read as the continuation of the first field whose input
// variable has no value in ex (the last field when all are set). Each
// following field's label, at the start of a line, ends the previous value.
// The last field reached takes the rest of the text. Values are trimmed and,
// with StripTrailingDashes, lose any trailing "-" run. Extraction stops at
// the first label that does not occur in the remaining text, or when no text
// is left; later fields stay unset. A completion that is only a "---" run
// still sets the open field, to "".
func (t *Template) Extract(ex *example.Example, completion string) *example.Example {
	start := len(t.fields) - 1
	for i, f := range t.fields {
		if _, ok := ex.Get(f.InputVariable); !ok {
			start = i
			break
		}
	}

	rest := strings.TrimSpace(completion)
	for i := start; i < len(t.fields) && rest != ""; i++ {
		f := t.fields[i]
		if i == len(t.fields)-1 {
			ex.Set(f.OutputVariable, t.clean(rest))
			break
		}

		marker := "\n" + t.fields[i+1].Name
		head, tail, found := strings.Cut(rest, marker)
		if !found {
			ex.Set(f.OutputVariable, t.clean(rest))
			break
		}
		ex.Set(f.OutputVariable, t.clean(head))
		rest = t.clean(tail)
	}

	t.logger.Debug("extracted completion", "start", t.fields[start].OutputVariable, "values", ex.Len())
	return ex
}

func (t *Template) clean(s string) string {
	s = strings.TrimSpace(s)
	if t.settings.StripTrailingDashes {
		s = strings.TrimSpace(strings.TrimRight(s, "-"))
	}
	return s
}
