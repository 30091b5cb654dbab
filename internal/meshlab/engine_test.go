package meshlab

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

// fakeEngineBinary writes an executable shell script standing in for
// meshlabserver.
func fakeEngineBinary(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("relies on shell scripts")
	}
	path := filepath.Join(t.TempDir(), "fake-engine.sh")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestEngineErrorMessage(t *testing.T) {
	err := &EngineError{ExitCode: 139, Stderr: "segfault in filter"}
	msg := err.Error()
	for _, want := range []string{"139", "segfault in filter"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q missing %q", msg, want)
		}
	}
}

func TestEngineSuccess(t *testing.T) {
	e := NewEngine(nil)
	e.Command = fakeEngineBinary(t, "exit 0\n")

	if err := e.Invoke(context.Background(), "in.stl", "out.stl", "s.mlx"); err != nil {
		t.Fatalf("Invoke: %v", err)
	}
}

func TestEngineNonzeroExit(t *testing.T) {
	e := NewEngine(nil)
	e.Command = fakeEngineBinary(t, "echo 'filter failed' >&2\nexit 3\n")

	err := e.Invoke(context.Background(), "in.stl", "out.stl", "s.mlx")
	var ee *EngineError
	if !errors.As(err, &ee) {
		t.Fatalf("error: got %v, want EngineError", err)
	}
	if ee.ExitCode != 3 {
		t.Errorf("exit code: got %d, want 3", ee.ExitCode)
	}
	if !strings.Contains(ee.Stderr, "filter failed") {
		t.Errorf("stderr excerpt: got %q", ee.Stderr)
	}
}

func TestEngineMissingBinary(t *testing.T) {
	e := NewEngine(nil)
	e.Command = "definitely-not-a-mesh-engine"

	err := e.Invoke(context.Background(), "in.stl", "out.stl", "s.mlx")
	if err == nil {
		t.Fatal("expected start failure for missing binary")
	}
	var ee *EngineError
	if errors.As(err, &ee) {
		t.Errorf("start failure should not be an EngineError, got %v", err)
	}
}

func TestEngineTimeout(t *testing.T) {
	e := NewEngine(nil)
	e.Command = fakeEngineBinary(t, "sleep 5\n")
	e.Timeout = 50 * time.Millisecond

	start := time.Now()
	err := e.Invoke(context.Background(), "in.stl", "out.stl", "s.mlx")
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if elapsed := time.Since(start); elapsed > 3*time.Second {
		t.Errorf("timeout not enforced, took %v", elapsed)
	}
}

func TestExcerptTruncates(t *testing.T) {
	long := strings.Repeat("x", 2*stderrExcerptLen)
	if got := excerpt(long); len(got) != stderrExcerptLen {
		t.Errorf("excerpt length: got %d, want %d", len(got), stderrExcerptLen)
	}
}
