package meshlab

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// fakeInvoker records every invocation and can fail on a chosen call.
type fakeInvoker struct {
	calls  []call
	failOn int // 1-based call number to fail on; 0 never fails
	err    error
}

type call struct {
	in, out, script string
}

func (f *fakeInvoker) Invoke(_ context.Context, in, out, script string) error {
	f.calls = append(f.calls, call{in, out, script})
	if f.failOn > 0 && len(f.calls) == f.failOn {
		return f.err
	}
	return nil
}

func TestSimplifyZeroIterationsIsNoOp(t *testing.T) {
	fake := &fakeInvoker{}
	r := NewReducer(fake, nil)

	dir := t.TempDir()
	in := filepath.Join(dir, "full.stl")

	out, err := r.Simplify(context.Background(), in, 0, "simplify.mlx", "")
	if err != nil {
		t.Fatalf("Simplify: %v", err)
	}
	if out != in {
		t.Errorf("output path: got %q, want input %q", out, in)
	}
	if len(fake.calls) != 0 {
		t.Errorf("engine invocations: got %d, want 0", len(fake.calls))
	}
	if _, err := os.Stat(filepath.Join(dir, "simplified.stl")); !os.IsNotExist(err) {
		t.Error("no-op simplify should not create a file")
	}
}

func TestSimplifyPathDiscipline(t *testing.T) {
	fake := &fakeInvoker{}
	r := NewReducer(fake, nil)

	in := "/work/Bolt/full.stl"
	out, err := r.Simplify(context.Background(), in, 3, "s.mlx", "")
	if err != nil {
		t.Fatalf("Simplify: %v", err)
	}

	want := filepath.Join("/work/Bolt", "simplified.stl")
	if out != want {
		t.Errorf("output path: got %q, want %q", out, want)
	}
	if len(fake.calls) != 3 {
		t.Fatalf("engine invocations: got %d, want 3", len(fake.calls))
	}
	if fake.calls[0].in != in || fake.calls[0].out != want {
		t.Errorf("first call: got %+v", fake.calls[0])
	}
	for i := 1; i < 3; i++ {
		if fake.calls[i].in != want || fake.calls[i].out != want {
			t.Errorf("call %d should refine in place, got %+v", i+1, fake.calls[i])
		}
	}
}

func TestSimplifyExplicitOutput(t *testing.T) {
	fake := &fakeInvoker{}
	r := NewReducer(fake, nil)

	out, err := r.Simplify(context.Background(), "/m/full.stl", 1, "s.mlx", "/m/chull.stl")
	if err != nil {
		t.Fatalf("Simplify: %v", err)
	}
	if out != "/m/chull.stl" {
		t.Errorf("output path: got %q, want /m/chull.stl", out)
	}
	if fake.calls[0].out != "/m/chull.stl" {
		t.Errorf("engine output: got %q", fake.calls[0].out)
	}
}

func TestSimplifyPropagatesEngineError(t *testing.T) {
	engineErr := &EngineError{ExitCode: 2, Stderr: "boom"}
	fake := &fakeInvoker{failOn: 2, err: engineErr}
	r := NewReducer(fake, nil)

	_, err := r.Simplify(context.Background(), "/m/full.stl", 5, "s.mlx", "")
	var ee *EngineError
	if !errors.As(err, &ee) {
		t.Fatalf("error: got %v, want EngineError", err)
	}
	if ee.ExitCode != 2 {
		t.Errorf("exit code: got %d, want 2", ee.ExitCode)
	}
	if len(fake.calls) != 2 {
		t.Errorf("invocations before failure: got %d, want 2", len(fake.calls))
	}
}

func TestConvexHullDefaultPath(t *testing.T) {
	fake := &fakeInvoker{}
	r := NewReducer(fake, nil)

	out, err := r.ConvexHull(context.Background(), "/m/Bolt/full.stl", "c.mlx", "")
	if err != nil {
		t.Fatalf("ConvexHull: %v", err)
	}
	want := filepath.Join("/m/Bolt", "chull.stl")
	if out != want {
		t.Errorf("output path: got %q, want %q", out, want)
	}
	if len(fake.calls) != 1 {
		t.Errorf("engine invocations: got %d, want 1", len(fake.calls))
	}
	if fake.calls[0].script != "c.mlx" {
		t.Errorf("script: got %q, want c.mlx", fake.calls[0].script)
	}
}

func TestEnsureScriptPrefersConfigured(t *testing.T) {
	path, err := EnsureScript("/etc/custom.mlx", t.TempDir(), SimplifyScript)
	if err != nil {
		t.Fatalf("EnsureScript: %v", err)
	}
	if path != "/etc/custom.mlx" {
		t.Errorf("path: got %q, want configured path", path)
	}
}

func TestEnsureScriptMaterializesDefault(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{SimplifyScript, CHullScript} {
		path, err := EnsureScript("", dir, name)
		if err != nil {
			t.Fatalf("EnsureScript(%s): %v", name, err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read %s: %v", path, err)
		}
		if len(data) == 0 {
			t.Errorf("%s is empty", path)
		}
	}
}
