package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	skema "github.com/reoring/skema"
)

// eventually polls fn every tick until it returns true or timeout elapses.
func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

type recorder struct {
	mu   sync.Mutex
	last map[string]error
	seen map[string]int
}

func (r *recorder) cb(path string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.last[filepath.Base(path)] = err
	r.seen[filepath.Base(path)]++
}

func (r *recorder) state(name string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.seen[name], r.last[name]
}

func TestWatch_RevalidatesOnChange(t *testing.T) {
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "schema.json")
	docPath := filepath.Join(dir, "doc.json")
	if err := os.WriteFile(schemaPath, []byte(`{"type":"object","properties":{"n":{"type":"number"}},"required":["n"]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(docPath, []byte(`{"n": 1}`), 0o644); err != nil {
		t.Fatal(err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rec := &recorder{last: map[string]error{}, seen: map[string]int{}}
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, skema.New(skema.Config{}), Options{
			SchemaPath: schemaPath,
			Docs:       []string{docPath},
			Debounce:   20 * time.Millisecond,
		}, logger, rec.cb)
	}()

	eventually(t, 2*time.Second, 20*time.Millisecond, func() bool {
		n, err := rec.state("doc.json")
		return n == 1 && err == nil
	}, "initial validation not reported")

	time.Sleep(100 * time.Millisecond)
	_ = os.WriteFile(docPath, []byte(`{"n": "one"}`), 0o644)

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		_, err := rec.state("doc.json")
		return skema.HasCode(err, skema.CodeInvalidType)
	}, "document change not re-validated")

	_ = os.WriteFile(schemaPath, []byte(`{"type":"object","properties":{"n":{"type":"string"}}}`), 0o644)

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		_, err := rec.state("doc.json")
		return err == nil
	}, "schema change did not re-validate documents")

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("watch returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestWatch_MissingSchema(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	err := Watch(context.Background(), skema.New(skema.Config{}), Options{
		SchemaPath: filepath.Join(t.TempDir(), "none.json"),
	}, logger, nil)
	if err == nil {
		t.Fatal("expected load error")
	}
}
