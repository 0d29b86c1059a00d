package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestIgnored(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir, []string{"*.log", "build"}, 10*time.Millisecond, func([]string) {})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { w.watcher.Close() })

	tests := []struct {
		rel  string
		want bool
	}{
		{".git/HEAD", true},
		{"node_modules/pkg/index.js", true},
		{"debug.log", true},
		{"build/out.bin", true},
		{"src/main.go", false},
		{"README.md", false},
	}
	for _, tt := range tests {
		if got := w.ignored(tt.rel); got != tt.want {
			t.Errorf("ignored(%q) = %v, want %v", tt.rel, got, tt.want)
		}
	}
}

func TestWatcherBatchesChanges(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "src"), 0755); err != nil {
		t.Fatal(err)
	}

	var mu sync.Mutex
	var batches [][]string
	w, err := New(dir, nil, 100*time.Millisecond, func(paths []string) {
		mu.Lock()
		defer mu.Unlock()
		batches = append(batches, paths)
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Run(ctx)
	}()

	// Writes in quick succession should land in one batch. They happen in
	// reverse name order; the batch must still come out sorted.
	for _, name := range []string{"c.go", "b.go", "a.go"} {
		if err := os.WriteFile(filepath.Join(dir, "src", name), []byte("package x\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	deadline := time.After(5 * time.Second)
	for {
		mu.Lock()
		n := len(batches)
		mu.Unlock()
		if n > 0 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("no change batch arrived")
		case <-time.After(20 * time.Millisecond):
		}
	}

	cancel()
	<-done

	mu.Lock()
	defer mu.Unlock()
	got := batches[0]
	want := []string{"src/a.go", "src/b.go", "src/c.go"}
	if len(got) != len(want) {
		t.Fatalf("batch = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("batch = %v, want %v in sorted order", got, want)
		}
	}
}
