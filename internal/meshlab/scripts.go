package meshlab

import (
	"embed"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

//go:embed scripts/simplify.mlx scripts/chull.mlx
var scriptFS embed.FS

// Default transform script names, materialized on demand when the caller
// configures no script paths of its own.
const (
	SimplifyScript = "simplify.mlx"
	CHullScript    = "chull.mlx"
)

// EnsureScript resolves the transform script to use. A non-empty configured
// path wins unchanged; otherwise the embedded default with the given name is
// written into dir (created if needed) and its path returned. Rewriting an
// existing materialized copy keeps it in sync with the binary.
func EnsureScript(configured, dir, name string) (string, error) {
	if configured != "" {
		return configured, nil
	}
	data, err := scriptFS.ReadFile("scripts/" + name)
	if err != nil {
		return "", errors.Wrapf(err, "meshlab: embedded script %q", name)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errors.Wrapf(err, "meshlab: create script directory %q", dir)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", errors.Wrapf(err, "meshlab: write script %q", path)
	}
	return path, nil
}
