package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/bimmerbailey/fieldprompt/internal/example"
	"github.com/bimmerbailey/fieldprompt/internal/llm"
	"github.com/bimmerbailey/fieldprompt/internal/template"
)

var testMessages = []llm.Message{
	{Role: llm.RoleUser, Content: "Answer questions.\n\n---\n\nFollow the following format."},
	{Role: llm.RoleAssistant, Content: "OK, I'm ready."},
	{Role: llm.RoleUser, Content: "Question: What is 2+2?\n\nAnswer: "},
}

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{
		"json":  FormatJSON,
		"JSON":  FormatJSON,
		"table": FormatTable,
		"text":  FormatText,
		"":      FormatText,
		"xml":   FormatText,
	}
	for in, want := range tests {
		if got := ParseFormat(in); got != want {
			t.Errorf("ParseFormat(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestWriteMessages_Text(t *testing.T) {
	buf := &bytes.Buffer{}
	wr := New(buf, FormatText)
	wr.SetColorMode(ColorNever)

	if err := wr.WriteMessages(testMessages); err != nil {
		t.Fatalf("WriteMessages() error = %v", err)
	}

	want := "=== user ===\nAnswer questions.\n\n---\n\nFollow the following format.\n" +
		"\n=== assistant ===\nOK, I'm ready.\n" +
		"\n=== user ===\nQuestion: What is 2+2?\n\nAnswer: \n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("text output mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteMessages_TextColor(t *testing.T) {
	buf := &bytes.Buffer{}
	wr := New(buf, FormatText)
	wr.SetColorMode(ColorAlways)

	if err := wr.WriteMessages(testMessages[:1]); err != nil {
		t.Fatalf("WriteMessages() error = %v", err)
	}
	if !strings.Contains(buf.String(), colorCyan) {
		t.Errorf("expected colored role header, got %q", buf.String())
	}
}

func TestWriteMessages_JSON(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := New(buf, FormatJSON).WriteMessages(testMessages); err != nil {
		t.Fatalf("WriteMessages() error = %v", err)
	}

	var got []llm.Message
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	if diff := cmp.Diff(testMessages, got); diff != "" {
		t.Errorf("JSON output mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteMessages_JSONEmpty(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := New(buf, FormatJSON).WriteMessages(nil); err != nil {
		t.Fatalf("WriteMessages() error = %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "[]" {
		t.Errorf("empty message list = %q, want []", got)
	}
}

func TestWriteMessages_Table(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := New(buf, FormatTable).WriteMessages(testMessages); err != nil {
		t.Fatalf("WriteMessages() error = %v", err)
	}

	out := buf.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected header, rule and 3 rows, got %d lines:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], "ROLE") || !strings.Contains(lines[0], "CONTENT") {
		t.Errorf("missing table header: %q", lines[0])
	}
	if !strings.Contains(lines[4], `Question: What is 2+2?\n\nAnswer:`) {
		t.Errorf("content should be flattened onto one line: %q", lines[4])
	}
}

func TestCell(t *testing.T) {
	long := strings.Repeat("x", 100)
	got := cell(long)
	if len(got) != maxCellWidth || !strings.HasSuffix(got, "...") {
		t.Errorf("cell() = %q (len %d)", got, len(got))
	}
	if got := cell("a\nb"); got != `a\nb` {
		t.Errorf("cell() = %q", got)
	}
}

func TestWriteTemplate(t *testing.T) {
	tmpl := template.MustCompile(
		"Answer questions.\nQuestion: {question} ${the question}\nAnswer:\n{answer -> prediction}",
		template.WithInputFields("question"),
	)

	t.Run("text", func(t *testing.T) {
		buf := &bytes.Buffer{}
		if err := New(buf, FormatText).WriteTemplate(tmpl); err != nil {
			t.Fatalf("WriteTemplate() error = %v", err)
		}
		want := "Answer questions.\n" +
			"Question: {question} ${the question}  [input]\n" +
			"Answer:\n{answer -> prediction}\n" +
			"(verbose)\n"
		if diff := cmp.Diff(want, buf.String()); diff != "" {
			t.Errorf("text output mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("json", func(t *testing.T) {
		buf := &bytes.Buffer{}
		if err := New(buf, FormatJSON).WriteTemplate(tmpl); err != nil {
			t.Fatalf("WriteTemplate() error = %v", err)
		}
		var got struct {
			Instructions string      `json:"instructions"`
			Verbose      bool        `json:"verbose"`
			Fields       []fieldView `json:"fields"`
		}
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if got.Instructions != "Answer questions." || !got.Verbose || len(got.Fields) != 2 {
			t.Fatalf("unexpected template JSON: %+v", got)
		}
		want := fieldView{Name: "Answer:", Separator: "\n", InputVariable: "answer", OutputVariable: "prediction"}
		if diff := cmp.Diff(want, got.Fields[1]); diff != "" {
			t.Errorf("field mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("table", func(t *testing.T) {
		buf := &bytes.Buffer{}
		if err := New(buf, FormatTable).WriteTemplate(tmpl); err != nil {
			t.Fatalf("WriteTemplate() error = %v", err)
		}
		if !strings.Contains(buf.String(), "prediction") || !strings.Contains(buf.String(), `"\n"`) {
			t.Errorf("table output missing columns:\n%s", buf.String())
		}
	})
}

func TestWriteExample(t *testing.T) {
	ex := example.New("question", "What is 2+2?", "answer", "4")

	tests := []struct {
		format Format
		want   string
	}{
		{FormatText, "question: What is 2+2?\nanswer: \"4\"\n"},
		{FormatJSON, "{\n  \"question\": \"What is 2+2?\",\n  \"answer\": \"4\"\n}\n"},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			buf := &bytes.Buffer{}
			if err := New(buf, tt.format).WriteExample(ex); err != nil {
				t.Fatalf("WriteExample() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, buf.String()); diff != "" {
				t.Errorf("output mismatch (-want +got):\n%s", diff)
			}
		})
	}

	t.Run("table", func(t *testing.T) {
		buf := &bytes.Buffer{}
		if err := New(buf, FormatTable).WriteExample(ex); err != nil {
			t.Fatalf("WriteExample() error = %v", err)
		}
		if !strings.Contains(buf.String(), "question") || !strings.Contains(buf.String(), "What is 2+2?") {
			t.Errorf("table output missing values:\n%s", buf.String())
		}
	})
}
