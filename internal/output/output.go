// Package output renders prompts, compiled fields and examples for the
// terminal. It supports text, JSON, and table formats.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/bimmerbailey/fieldprompt/internal/example"
	"github.com/bimmerbailey/fieldprompt/internal/llm"
	"github.com/bimmerbailey/fieldprompt/internal/template"
)

// Format represents an output format type.
type Format string

const (
	FormatText  Format = "text"
	FormatJSON  Format = "json"
	FormatTable Format = "table"
)

// maxCellWidth bounds table cells; longer values are cut with "...".
const maxCellWidth = 80

// ParseFormat converts a string to a Format, defaulting to text.
func ParseFormat(s string) Format {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON
	case "table":
		return FormatTable
	default:
		return FormatText
	}
}

// Writer handles writing formatted output.
type Writer struct {
	w      io.Writer
	format Format
	color  ColorMode
}

// New creates a new output Writer. Colors are used only when w is a terminal;
// see SetColorMode.
func New(w io.Writer, format Format) *Writer {
	return &Writer{w: w, format: format, color: ColorAuto}
}

// SetColorMode overrides terminal detection for role headers.
func (wr *Writer) SetColorMode(mode ColorMode) {
	wr.color = mode
}

// WriteJSON outputs any value as indented JSON.
func (wr *Writer) WriteJSON(v any) error {
	enc := json.NewEncoder(wr.w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// WriteMessages outputs a rendered prompt in the configured format.
func (wr *Writer) WriteMessages(msgs []llm.Message) error {
	switch wr.format {
	case FormatJSON:
		if msgs == nil {
			msgs = []llm.Message{}
		}
		return wr.WriteJSON(msgs)
	case FormatTable:
		tw := tabwriter.NewWriter(wr.w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "#\tROLE\tCONTENT")
		fmt.Fprintln(tw, "-\t----\t-------")
		for i, m := range msgs {
			fmt.Fprintf(tw, "%d\t%s\t%s\n", i+1, m.Role, cell(m.Content))
		}
		return tw.Flush()
	default:
		colorize := shouldColorize(wr.color, wr.w)
		for i, m := range msgs {
			if i > 0 {
				fmt.Fprintln(wr.w)
			}
			fmt.Fprintln(wr.w, FormatRoleHeader(m.Role, colorize))
			fmt.Fprintln(wr.w, m.Content)
		}
		return nil
	}
}

// fieldView is the JSON shape of a compiled field.
type fieldView struct {
	Name           string `json:"name"`
	Separator      string `json:"separator"`
	InputVariable  string `json:"input_variable"`
	OutputVariable string `json:"output_variable"`
	Description    string `json:"description,omitempty"`
	Input          bool   `json:"input,omitempty"`
}

// WriteTemplate outputs a compiled template's instructions and fields.
func (wr *Writer) WriteTemplate(t *template.Template) error {
	fields := t.Fields()

	switch wr.format {
	case FormatJSON:
		views := make([]fieldView, len(fields))
		for i, f := range fields {
			views[i] = fieldView{
				Name:           f.Name,
				Separator:      f.Separator,
				InputVariable:  f.InputVariable,
				OutputVariable: f.OutputVariable,
				Description:    f.Description,
				Input:          f.Input,
			}
		}
		return wr.WriteJSON(struct {
			Instructions string      `json:"instructions"`
			Verbose      bool        `json:"verbose"`
			Fields       []fieldView `json:"fields"`
		}{t.Instructions, t.Verbose(), views})
	case FormatTable:
		tw := tabwriter.NewWriter(wr.w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "#\tNAME\tSEP\tINPUT\tOUTPUT\tDESCRIPTION")
		fmt.Fprintln(tw, "-\t----\t---\t-----\t------\t-----------")
		for i, f := range fields {
			fmt.Fprintf(tw, "%d\t%s\t%q\t%s\t%s\t%s\n",
				i+1, f.Name, f.Separator, f.InputVariable, f.OutputVariable, cell(f.Description))
		}
		return tw.Flush()
	default:
		fmt.Fprintln(wr.w, t.Instructions)
		for _, f := range fields {
			fmt.Fprintln(wr.w, describeField(f))
		}
		if t.Verbose() {
			fmt.Fprintln(wr.w, "(verbose)")
		}
		return nil
	}
}

// describeField writes a field back in template syntax.
func describeField(f template.Field) string {
	slot := f.InputVariable
	if f.OutputVariable != f.InputVariable {
		slot += " -> " + f.OutputVariable
	}
	line := f.Name + f.Separator + "{" + slot + "}"
	if f.HasDescription {
		line += " " + f.Description
	}
	if f.Input {
		line += "  [input]"
	}
	return line
}

// WriteExample outputs an example: YAML for text, ordered JSON for json and a
// key/value listing for table.
func (wr *Writer) WriteExample(ex *example.Example) error {
	switch wr.format {
	case FormatJSON:
		return wr.WriteJSON(ex)
	case FormatTable:
		tw := tabwriter.NewWriter(wr.w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "KEY\tVALUE")
		fmt.Fprintln(tw, "---\t-----")
		for _, key := range ex.Keys() {
			v, _ := ex.Get(key)
			fmt.Fprintf(tw, "%s\t%s\n", key, cell(fmt.Sprint(v)))
		}
		return tw.Flush()
	default:
		enc := yaml.NewEncoder(wr.w)
		enc.SetIndent(2)
		if err := enc.Encode(ex); err != nil {
			return err
		}
		return enc.Close()
	}
}

// cell flattens s onto one line and truncates it for table output.
func cell(s string) string {
	s = strings.ReplaceAll(s, "\n", `\n`)
	if len(s) > maxCellWidth {
		s = s[:maxCellWidth-3] + "..."
	}
	return s
}
