package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

// Helper function to create a file in a fresh temp directory
func createTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	return path
}

// recorder collects change notifications (thread-safe)
type recorder struct {
	mu    sync.Mutex
	paths []string
	ch    chan string
}

func newRecorder() *recorder {
	return &recorder{ch: make(chan string, 16)}
}

func (r *recorder) onChange(ctx context.Context, path string) error {
	r.mu.Lock()
	r.paths = append(r.paths, path)
	r.mu.Unlock()
	r.ch <- path
	return nil
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.paths)
}

func (r *recorder) wait(t *testing.T) string {
	t.Helper()
	select {
	case p := <-r.ch:
		return p
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for change notification")
		return ""
	}
}

func startWatcher(t *testing.T, w *Watcher) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})
}

func TestWatcher_DetectsWrite(t *testing.T) {
	path := createTempFile(t, "template.txt", "Answer questions.\nQuestion: {question}\n")
	rec := newRecorder()

	w, err := New([]string{path}, rec.onChange, WithDebounce(20*time.Millisecond))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	startWatcher(t, w)

	if err := os.WriteFile(path, []byte("Changed.\nQuestion: {question}\n"), 0644); err != nil {
		t.Fatal(err)
	}

	got := rec.wait(t)
	want, _ := filepath.Abs(path)
	if got != want {
		t.Errorf("changed path = %q, want %q", got, want)
	}
}

func TestWatcher_CoalescesBursts(t *testing.T) {
	path := createTempFile(t, "values.yaml", "question: one\n")
	rec := newRecorder()

	w, err := New([]string{path}, rec.onChange, WithDebounce(300*time.Millisecond))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	startWatcher(t, w)

	for _, content := range []string{"question: two\n", "question: three\n", "question: four\n"} {
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	rec.wait(t)
	time.Sleep(500 * time.Millisecond)
	if n := rec.count(); n != 1 {
		t.Errorf("expected 1 notification for a burst of writes, got %d", n)
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	path := createTempFile(t, "template.txt", "x")
	other := filepath.Join(filepath.Dir(path), "other.txt")
	rec := newRecorder()

	w, err := New([]string{path}, rec.onChange, WithDebounce(20*time.Millisecond))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	startWatcher(t, w)

	if err := os.WriteFile(other, []byte("noise"), 0644); err != nil {
		t.Fatal(err)
	}
	select {
	case p := <-rec.ch:
		t.Fatalf("unexpected notification for %s", p)
	case <-time.After(200 * time.Millisecond):
	}

	if err := os.WriteFile(path, []byte("y"), 0644); err != nil {
		t.Fatal(err)
	}
	if got := rec.wait(t); filepath.Base(got) != "template.txt" {
		t.Errorf("changed path = %q", got)
	}
}

func TestWatcher_ChangeErrorStopsRun(t *testing.T) {
	path := createTempFile(t, "template.txt", "x")
	boom := errors.New("boom")

	w, err := New([]string{path}, func(ctx context.Context, p string) error { return boom },
		WithDebounce(10*time.Millisecond))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	if err := os.WriteFile(path, []byte("y"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case err := <-done:
		if !errors.Is(err, boom) {
			t.Errorf("Run() error = %v, want %v", err, boom)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not stop after the change function failed")
	}
}

func TestWatcher_StopsOnCancel(t *testing.T) {
	path := createTempFile(t, "template.txt", "x")

	w, err := New([]string{path}, newRecorder().onChange)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}
}

func TestNew_Errors(t *testing.T) {
	path := createTempFile(t, "template.txt", "x")

	tests := []struct {
		name     string
		paths    []string
		onChange Func
	}{
		{"nil change function", []string{path}, nil},
		{"no paths", nil, newRecorder().onChange},
		{"missing directory", []string{filepath.Join(t.TempDir(), "nope", "t.txt")}, newRecorder().onChange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.paths, tt.onChange); err == nil {
				t.Error("New() should fail")
			}
		})
	}
}
