package meshlab

import (
	"context"
	"path/filepath"

	"go.uber.org/zap"
)

// Reducer derives simplified and convex-hull meshes by invoking the engine.
type Reducer struct {
	engine Invoker
	log    *zap.Logger
}

// NewReducer returns a Reducer using the given engine.
func NewReducer(engine Invoker, log *zap.Logger) *Reducer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Reducer{engine: engine, log: log}
}

// Simplify decimates a mesh by applying the transform script iterations
// times. The first pass writes a new file (outPath, or a sibling named
// simplified.<ext> when empty); every later pass reads and overwrites that
// same file, because the engine's per-pass reduction ratio is fixed and
// reaching a polygon budget takes repeated application. iterations <= 0 is a
// no-op: the input path is returned and no file is created.
func (r *Reducer) Simplify(ctx context.Context, inPath string, iterations int, scriptPath, outPath string) (string, error) {
	if iterations <= 0 {
		return inPath, nil
	}
	if outPath == "" {
		outPath = siblingPath(inPath, "simplified")
	}

	r.log.Debug("simplifying mesh",
		zap.String("input", inPath),
		zap.String("output", outPath),
		zap.Int("iterations", iterations))

	if err := r.engine.Invoke(ctx, inPath, outPath, scriptPath); err != nil {
		return "", err
	}
	for i := 1; i < iterations; i++ {
		if err := r.engine.Invoke(ctx, outPath, outPath, scriptPath); err != nil {
			return "", err
		}
	}
	return outPath, nil
}

// ConvexHull derives the convex hull of a mesh in a single engine pass. The
// default output is a sibling named chull.<ext>.
func (r *Reducer) ConvexHull(ctx context.Context, inPath, scriptPath, outPath string) (string, error) {
	if outPath == "" {
		outPath = siblingPath(inPath, "chull")
	}

	r.log.Debug("deriving convex hull",
		zap.String("input", inPath),
		zap.String("output", outPath))

	if err := r.engine.Invoke(ctx, inPath, outPath, scriptPath); err != nil {
		return "", err
	}
	return outPath, nil
}

// siblingPath keeps the input's directory and extension, swapping the stem.
func siblingPath(inPath, stem string) string {
	return filepath.Join(filepath.Dir(inPath), stem+filepath.Ext(inPath))
}
