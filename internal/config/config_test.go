package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	if cfg.Pipeline.NumSimplify != 10 || cfg.Pipeline.NumCHull != 10 {
		t.Errorf("iteration defaults: got %d/%d, want 10/10",
			cfg.Pipeline.NumSimplify, cfg.Pipeline.NumCHull)
	}
	if cfg.Pipeline.FileExtension != ".stl" {
		t.Errorf("extension default: got %q, want .stl", cfg.Pipeline.FileExtension)
	}
	if cfg.Engine.Command != "meshlabserver" {
		t.Errorf("engine default: got %q", cfg.Engine.Command)
	}
}

func TestLoadMissingDefaultFileIsFine(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Pipeline.OutputDir != "meshes" {
		t.Errorf("output dir: got %q, want meshes", cfg.Pipeline.OutputDir)
	}
}

func TestLoadExplicitMissingFileFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing explicit config")
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	content := `
pipeline:
  num_simplify: 3
  file_extension: .obj
engine:
  command: meshlab.meshlabserver
  timeout: 2m
logging:
  level: debug
`
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Pipeline.NumSimplify != 3 {
		t.Errorf("num_simplify: got %d, want 3", cfg.Pipeline.NumSimplify)
	}
	if cfg.Pipeline.NumCHull != 10 {
		t.Errorf("num_chull should keep default 10, got %d", cfg.Pipeline.NumCHull)
	}
	if cfg.Pipeline.FileExtension != ".obj" {
		t.Errorf("file_extension: got %q", cfg.Pipeline.FileExtension)
	}
	if cfg.Engine.Command != "meshlab.meshlabserver" {
		t.Errorf("engine command: got %q", cfg.Engine.Command)
	}
	if cfg.Engine.Timeout != Duration(2*time.Minute) {
		t.Errorf("timeout: got %v, want 2m", cfg.Engine.Timeout)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("level: got %q", cfg.Logging.Level)
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	if err := os.WriteFile(path, []byte("pipeline: ["), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}
