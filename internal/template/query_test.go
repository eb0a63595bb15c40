package template_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/bimmerbailey/fieldprompt/internal/example"
	"github.com/bimmerbailey/fieldprompt/internal/format"
	"github.com/bimmerbailey/fieldprompt/internal/llm"
	"github.com/bimmerbailey/fieldprompt/internal/template"
)

func user(content string) llm.Message { return llm.Message{Role: llm.RoleUser, Content: content} }
func assistant(content string) llm.Message {
	return llm.Message{Role: llm.RoleAssistant, Content: content}
}

// TestQuery_OpensAnswer covers the basic live query: the question is shown and
// the empty answer label ends the prompt.
func TestQuery_OpensAnswer(t *testing.T) {
	tmpl := template.MustCompile(qaTemplate)
	ex := example.New("question", "What is 2+2?")

	got, err := tmpl.Query(ex, false)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}

	want := []llm.Message{user("Question: What is 2+2?\n\nAnswer: ")}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Query() mismatch (-want +got):\n%s", diff)
	}
	if ex.Has("answer") {
		t.Error("Query() must not add the open field to the caller's example")
	}
}

func TestQuery_SingleOpenField(t *testing.T) {
	tmpl := template.MustCompile("Inst.\nA: {a}\nB: {b}\nC: {c}")

	tests := []struct {
		name string
		kv   []any
		want string
	}{
		{"nothing filled opens the first", nil, "A: "},
		{"empty string counts as unfilled", []any{"a", ""}, "A: "},
		{"nil counts as unfilled", []any{"a", nil, "b", nil}, "A: "},
		{"first filled opens the second", []any{"a", "x"}, "A: x\n\nB: "},
		{"prefix filled opens the next", []any{"a", "x", "b", "y"}, "A: x\n\nB: y\n\nC: "},
		{"trailing empty value is replaced", []any{"a", "x", "b", ""}, "A: x\n\nB: "},
		{"gap with a later value opens nothing", []any{"a", "x", "c", "z"}, "A: x\n\nC: z"},
		{"all filled opens nothing", []any{"a", "x", "b", "y", "c", "z"}, "A: x\n\nB: y\n\nC: z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tmpl.Query(example.New(tt.kv...), false)
			if err != nil {
				t.Fatalf("Query() error = %v", err)
			}
			if diff := cmp.Diff([]llm.Message{user(tt.want)}, got); diff != "" {
				t.Errorf("Query() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestQuery_DemoRoles(t *testing.T) {
	ex := example.New("question", "What is 2+2?", "answer", "4")

	tests := []struct {
		name string
		opts []template.Option
		want []llm.Message
	}{
		{
			name: "all fields are assistant turns",
			want: []llm.Message{assistant("Question: What is 2+2?\n\nAnswer: 4")},
		},
		{
			name: "input field is a user turn",
			opts: []template.Option{template.WithInputFields("question")},
			want: []llm.Message{user("Question: What is 2+2?"), assistant("Answer: 4")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl := template.MustCompile(qaTemplate, tt.opts...)
			got, err := tmpl.Query(ex, true)
			if err != nil {
				t.Fatalf("Query() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Query() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestQuery_DemoDoesNotOpenFields(t *testing.T) {
	tmpl := template.MustCompile(qaTemplate)

	got, err := tmpl.Query(example.New("question", "q"), true)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if diff := cmp.Diff([]llm.Message{assistant("Question: q")}, got); diff != "" {
		t.Errorf("Query() mismatch (-want +got):\n%s", diff)
	}
}

func TestQuery_Formatting(t *testing.T) {
	tmpl := template.MustCompile("Inst.\nContext: {context}\nQuestion: {question}\nAnswer: {answer}")
	ex := example.New(
		"context", []string{"Paris is in France.", "Berlin is in Germany."},
		"question", "  Where   is\tParis? ",
		"answer", []any{" France ", "Europe"},
	)

	got, err := tmpl.Query(ex, false)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}

	want := "Context:\n[1] «Paris is in France.»\n[2] «Berlin is in Germany.»" +
		"\n\nQuestion: Where is Paris?" +
		"\n\nAnswer: France"
	if diff := cmp.Diff([]llm.Message{user(want)}, got); diff != "" {
		t.Errorf("Query() mismatch (-want +got):\n%s", diff)
	}
}

func TestQuery_CustomFormatters(t *testing.T) {
	registry := format.Registry{
		"score": func(v any) (string, error) {
			n, ok := v.(int)
			if !ok {
				return "", format.ErrNotText
			}
			if n > 5 {
				return "high", nil
			}
			return "low", nil
		},
	}
	tmpl := template.MustCompile("Rate.\nScore: {score}\nVerdict: {verdict}", template.WithFormatters(registry))

	got, err := tmpl.Query(example.New("score", 9), false)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if diff := cmp.Diff([]llm.Message{user("Score: high\n\nVerdict: ")}, got); diff != "" {
		t.Errorf("Query() mismatch (-want +got):\n%s", diff)
	}
}

func TestQuery_NonTextWithoutFormatter(t *testing.T) {
	tmpl := template.MustCompile(qaTemplate)

	_, err := tmpl.Query(example.New("question", 42), false)
	if !errors.Is(err, format.ErrNotText) {
		t.Errorf("expected ErrNotText, got %v", err)
	}
}

func TestGuidelines(t *testing.T) {
	described := "Answer questions.\nQuestion: {question} ${the question}\nAnswer: {answer} ${often a number}"

	tests := []struct {
		name     string
		text     string
		settings template.Settings
		show     bool
		want     string
	}{
		{
			name:     "descriptions become values",
			text:     described,
			settings: template.DefaultSettings(),
			show:     true,
			want:     "Follow the following format.\n\nQuestion: ${the question}\n\nAnswer: ${often a number}",
		},
		{
			name:     "no descriptions opens the first field",
			text:     qaTemplate,
			settings: template.DefaultSettings(),
			show:     true,
			want:     "Follow the following format.\n\nQuestion: ",
		},
		{
			name:     "missing description stops at the open field",
			text:     "Inst.\nQuestion: {question} ${the question}\nAnswer: {answer}",
			settings: template.DefaultSettings(),
			show:     true,
			want:     "Follow the following format.\n\nQuestion: ${the question}\n\nAnswer: ",
		},
		{
			name:     "hidden by caller",
			text:     described,
			settings: template.DefaultSettings(),
			show:     false,
			want:     "",
		},
		{
			name:     "hidden by settings",
			text:     described,
			settings: template.Settings{StripTrailingDashes: true},
			show:     true,
			want:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl := template.MustCompile(tt.text, template.WithSettings(tt.settings))
			got, err := tmpl.Guidelines(tt.show)
			if err != nil {
				t.Fatalf("Guidelines() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Guidelines() = %q, want %q", got, tt.want)
			}
		})
	}
}
