package template

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/bimmerbailey/fieldprompt/internal/example"
	"github.com/bimmerbailey/fieldprompt/internal/format"
)

// templateLexer splits template text into slots, line breaks, single
// whitespace characters and literal text.
var templateLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Placeholder", Pattern: `\$\{[^{}\n]*\}`},
	{Name: "Variable", Pattern: `\{[^{}\n]*\}`},
	{Name: "Newline", Pattern: `\r?\n`},
	{Name: "Space", Pattern: `[ \t\f\v\r]`},
	{Name: "Text", Pattern: `[^\s{}$]+`},
	{Name: "Punct", Pattern: `[{}$]`},
})

var (
	tokPlaceholder = templateLexer.Symbols()["Placeholder"]
	tokVariable    = templateLexer.Symbols()["Variable"]
	tokNewline     = templateLexer.Symbols()["Newline"]
	tokSpace       = templateLexer.Symbols()["Space"]
)

// Compile parses template text into a Template.
//
// The first line is the instruction text. Every following non-blank line
// declares a field as "<Name><ws>{variable}" with an optional description
// containing a "${...}" placeholder either after a space on the same line or
// at the start of the next line. A line holding only the name, followed by a
// line starting with the slot, declares a field with a newline separator.
func Compile(text string, opts ...Option) (*Template, error) {
	t := &Template{
		formatters: format.Default(),
		settings:   DefaultSettings(),
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(t)
	}

	toks, err := tokenize(strings.TrimSpace(text))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}

	p := &parser{toks: toks}
	nl := p.lineEnd(0)
	if nl == len(toks) {
		return nil, fmt.Errorf("%w: %w: template has only an instruction line", ErrSyntax, ErrNoFields)
	}
	t.Instructions = p.text(0, nl)
	p.pos = nl + 1

	for {
		p.skipBlank()
		if p.pos >= len(toks) {
			break
		}
		f, err := p.field()
		if err != nil {
			return nil, err
		}
		t.fields = append(t.fields, f)
	}
	if len(t.fields) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrSyntax, ErrNoFields)
	}

	for i := range t.fields {
		if slices.Contains(t.inputFields, t.fields[i].InputVariable) {
			t.fields[i].Input = true
		}
	}

	t.logger.Debug("compiled template", "fields", len(t.fields), "verbose", t.Verbose())
	return t, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(text string, opts ...Option) *Template {
	t, err := Compile(text, opts...)
	if err != nil {
		panic(err)
	}
	return t
}

func tokenize(text string) ([]lexer.Token, error) {
	lex, err := templateLexer.LexString("", text)
	if err != nil {
		return nil, err
	}
	toks, err := lexer.ConsumeAll(lex)
	if err != nil {
		return nil, err
	}
	if n := len(toks); n > 0 && toks[n-1].EOF() {
		toks = toks[:n-1]
	}
	return toks, nil
}

type parser struct {
	toks []lexer.Token
	pos  int
}

// lineEnd returns the index of the first newline token at or after i, or
// len(p.toks) when the text ends first.
func (p *parser) lineEnd(i int) int {
	for ; i < len(p.toks); i++ {
		if p.toks[i].Type == tokNewline {
			return i
		}
	}
	return i
}

func (p *parser) text(from, to int) string {
	var b strings.Builder
	for _, tok := range p.toks[from:to] {
		b.WriteString(tok.Value)
	}
	return b.String()
}

func (p *parser) line(i int) int {
	if i < len(p.toks) {
		return p.toks[i].Pos.Line
	}
	if len(p.toks) > 0 {
		return p.toks[len(p.toks)-1].Pos.Line
	}
	return 1
}

func (p *parser) isSlot(i int) bool {
	if i < 0 || i >= len(p.toks) {
		return false
	}
	return p.toks[i].Type == tokVariable || p.toks[i].Type == tokPlaceholder
}

// skipBlank advances past whitespace-only lines.
func (p *parser) skipBlank() {
	for p.pos < len(p.toks) {
		typ := p.toks[p.pos].Type
		if typ != tokSpace && typ != tokNewline {
			return
		}
		p.pos++
	}
}

func (p *parser) field() (Field, error) {
	start := p.pos
	end := p.lineEnd(start)
	line := p.line(start)

	var f Field
	slot := -1
	for i := start + 2; i < end; i++ {
		if p.isSlot(i) && p.toks[i-1].Type == tokSpace {
			slot = i
			break
		}
	}
	switch {
	case slot >= 0:
		f.Name = p.text(start, slot-1)
		f.Separator = p.toks[slot-1].Value
	case end < len(p.toks) && p.isSlot(end+1):
		f.Name = p.text(start, end)
		f.Separator = p.toks[end].Value
		slot = end + 1
	default:
		return Field{}, syntaxError(line, "field %q has no {variable}", strings.TrimSpace(p.text(start, end)))
	}

	in, out, err := parseVariable(p.toks[slot].Value)
	if err != nil {
		return Field{}, syntaxError(p.line(slot), "%v", err)
	}
	f.InputVariable, f.OutputVariable = in, out

	after := slot + 1
	end = p.lineEnd(after)
	switch {
	case after < end:
		if p.toks[after].Type != tokSpace {
			return Field{}, syntaxError(p.line(after), "unexpected %q after %s", p.toks[after].Value, p.toks[slot].Value)
		}
		rest := strings.TrimSpace(p.text(after+1, end))
		if rest != "" {
			if !p.hasPlaceholder(after+1, end) {
				return Field{}, syntaxError(p.line(after), "description %q needs a ${...} placeholder", rest)
			}
			f.Description, f.HasDescription = rest, true
		}
		p.pos = end
	case end < len(p.toks) && end+1 < len(p.toks) && p.toks[end+1].Type == tokPlaceholder:
		descEnd := p.lineEnd(end + 1)
		f.Description, f.HasDescription = strings.TrimSpace(p.text(end+1, descEnd)), true
		p.pos = descEnd
	default:
		p.pos = end
	}
	return f, nil
}

func (p *parser) hasPlaceholder(from, to int) bool {
	for _, tok := range p.toks[from:to] {
		if tok.Type == tokPlaceholder {
			return true
		}
	}
	return false
}

// parseVariable reads "{in}", "{in -> out}" or the "${...}" forms. The
// arrow split happens at the last " -> ".
func parseVariable(slot string) (in, out string, err error) {
	inner := strings.TrimPrefix(slot, "$")
	inner = inner[1 : len(inner)-1]

	in, out = inner, inner
	if i := strings.LastIndex(inner, " -> "); i >= 0 {
		in, out = inner[:i], inner[i+len(" -> "):]
	}
	in, out = strings.TrimSpace(in), strings.TrimSpace(out)

	for _, name := range []string{in, out} {
		if name == "" {
			return "", "", fmt.Errorf("empty variable in %s", slot)
		}
		if example.IsReserved(name) {
			return "", "", fmt.Errorf("variable %q is reserved", name)
		}
	}
	return in, out, nil
}
