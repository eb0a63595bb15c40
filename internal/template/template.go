package template

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/bimmerbailey/fieldprompt/internal/format"
)

var (
	// ErrSyntax is returned by Compile for malformed template text.
	ErrSyntax = errors.New("template: syntax error")

	// ErrNoFields is returned, together with ErrSyntax, when the template has
	// an instruction line but no field lines.
	ErrNoFields = errors.New("template: no fields")
)

// Field is one compiled prompt slot. Fields are created by Compile and never
// modified afterwards.
type Field struct {
	// Name is the literal label, e.g. "Question:".
	Name string

	// Separator is the whitespace between the label and the value. A newline
	// separator places the value on its own line.
	Separator string

	// InputVariable is the example key the rendered value is read from.
	InputVariable string

	// OutputVariable is the example key an extracted value is written to.
	// It differs from InputVariable only for "{a -> b}" slots.
	OutputVariable string

	// Description is the placeholder text shown in the guidelines block.
	Description string

	// HasDescription distinguishes an absent description from an empty one.
	HasDescription bool

	// Input marks a field that is always rendered as a user turn, even when
	// rendering a demonstration.
	Input bool
}

// Settings are the behaviour toggles a host application controls.
type Settings struct {
	// ShowGuidelines enables the "Follow the following format." block.
	ShowGuidelines bool

	// StripTrailingDashes removes trailing "-" runs from extracted values.
	StripTrailingDashes bool

	// QueryOnly makes Assemble return only the live query.
	QueryOnly bool
}

// DefaultSettings returns the settings used when Compile gets none.
func DefaultSettings() Settings {
	return Settings{
		ShowGuidelines:      true,
		StripTrailingDashes: true,
	}
}

// Template is a compiled template. It is safe for concurrent use; every
// method works on the example passed to it.
type Template struct {
	// Instructions is the first line of the template text.
	Instructions string

	fields      []Field
	formatters  format.Registry
	settings    Settings
	inputFields []string
	logger      *slog.Logger
}

// Option configures a Template at compile time.
type Option func(*Template)

// WithFormatters replaces the default formatter registry.
func WithFormatters(r format.Registry) Option {
	return func(t *Template) {
		t.formatters = r
	}
}

// WithSettings replaces the default settings.
func WithSettings(s Settings) Option {
	return func(t *Template) {
		t.settings = s
	}
}

// WithInputFields marks the fields bound to the named input variables as
// always-user turns.
func WithInputFields(names ...string) Option {
	return func(t *Template) {
		t.inputFields = append(t.inputFields, names...)
	}
}

// WithLogger sets the logger used for debug output. Nil is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(t *Template) {
		if l != nil {
			t.logger = l
		}
	}
}

// Fields returns a copy of the compiled fields in template order.
func (t *Template) Fields() []Field {
	return slices.Clone(t.fields)
}

// Settings returns the settings the template was compiled with.
func (t *Template) Settings() Settings {
	return t.settings
}

// target is the field whose value the prompt asks the model to produce.
func (t *Template) target() Field {
	return t.fields[len(t.fields)-1]
}

func syntaxError(line int, msg string, args ...any) error {
	return fmt.Errorf("%w: line %d: %s", ErrSyntax, line, fmt.Sprintf(msg, args...))
}
