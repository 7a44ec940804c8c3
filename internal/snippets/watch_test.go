package snippets

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatch_ReseedsOnWrite(t *testing.T) {
	store := newTestStore(t)
	dir := t.TempDir()
	seedPath := filepath.Join(dir, "seed.yaml")
	if err := os.WriteFile(seedPath, []byte("snippets: []\n"), 0644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	type reload struct {
		n   int
		err error
	}
	reloads := make(chan reload, 10)
	done := make(chan error, 1)
	go func() {
		done <- store.Watch(ctx, seedPath, func(n int, err error) { reloads <- reload{n, err} })
	}()

	// Give the watcher time to register.
	time.Sleep(100 * time.Millisecond)

	data := "snippets:\n  - title: a\n    language: go\n    category: c\n    code: x\n  - title: b\n    language: go\n    category: c\n    code: y\n"
	if err := os.WriteFile(seedPath, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case r := <-reloads:
		if r.err != nil || r.n != 2 {
			t.Fatalf("reload = %d, %v", r.n, r.err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no reload after write")
	}

	n, err := store.Count(context.Background())
	if err != nil || n != 2 {
		t.Errorf("Count() = %d, %v; want 2", n, err)
	}

	// A broken file is reported and leaves the store alone.
	if err := os.WriteFile(seedPath, []byte("snippets: [\n"), 0644); err != nil {
		t.Fatal(err)
	}
	select {
	case r := <-reloads:
		if r.err == nil {
			t.Error("expected parse error")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no reload after bad write")
	}
	if n, _ := store.Count(context.Background()); n != 2 {
		t.Errorf("Count() = %d after bad seed, want 2", n)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Watch() did not stop")
	}
}

func TestWatch_MissingDir(t *testing.T) {
	store := newTestStore(t)
	err := store.Watch(context.Background(), filepath.Join(t.TempDir(), "nope", "seed.yaml"), nil)
	if err == nil {
		t.Error("Watch() on a missing directory should fail")
	}
}
