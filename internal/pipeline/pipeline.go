// Package pipeline drives the per-part mesh derivation flow: deduplicate,
// export, decimate, hull, decimate hull, and write placement records.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/mahaarbo/step-to-meshes/internal/cad"
	"github.com/mahaarbo/step-to-meshes/internal/dedupe"
	"github.com/mahaarbo/step-to-meshes/internal/export"
	"github.com/mahaarbo/step-to-meshes/internal/meshlab"
	"github.com/mahaarbo/step-to-meshes/internal/placement"
)

// PlacementsFile is the per-group placement record file name.
const PlacementsFile = "placements.csv"

// Options configure one conversion run.
type Options struct {
	// OutputDir is the root mesh folder; one subdirectory per unique part.
	OutputDir string
	// Format of every produced mesh file.
	Format export.Format
	// NumSimplify is the decimation iteration count for the full mesh.
	// Zero or negative skips the stage.
	NumSimplify int
	// NumCHull is the decimation iteration count for the hull mesh,
	// applied in place.
	NumCHull int
	// UseGlobalOrigin exports meshes in the assembly's global frame instead
	// of each part's local frame.
	UseGlobalOrigin bool
	// SimplifyScript and CHullScript name the engine transform scripts.
	SimplifyScript string
	CHullScript    string
}

// GroupError records one unique part whose pipeline failed, and at which
// stage. The remaining stages of that part are skipped; the run continues.
type GroupError struct {
	Label string
	Stage string
	Err   error
}

func (e GroupError) Error() string {
	return fmt.Sprintf("part %q: stage %s: %v", e.Label, e.Stage, e.Err)
}

// Result summarizes a conversion run.
type Result struct {
	Occurrences int
	UniqueParts int
	Failed      []GroupError
}

// Pipeline is the per-group mesh derivation orchestrator. Groups are
// processed strictly sequentially; every engine invocation blocks until the
// subprocess exits.
type Pipeline struct {
	exporter *export.Exporter
	reducer  *meshlab.Reducer
	opts     Options
	log      *zap.Logger
}

// New returns a Pipeline over the given collaborators.
func New(exporter *export.Exporter, reducer *meshlab.Reducer, opts Options, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{exporter: exporter, reducer: reducer, opts: opts, log: log}
}

// Run converts every unique part of the document. Per-group failures are
// collected in the result, not returned as the error; the error is reserved
// for conditions that invalidate the whole run.
func (p *Pipeline) Run(ctx context.Context, doc cad.Document) (*Result, error) {
	groups := dedupe.Dedupe(doc)

	res := &Result{UniqueParts: len(groups)}
	for _, g := range groups {
		res.Occurrences += len(g.Occurrences)
	}
	p.log.Info("deduplicated document",
		zap.Int("occurrences", res.Occurrences),
		zap.Int("unique", res.UniqueParts))

	for _, g := range groups {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		label := placement.SanitizeLabel(g.Representative.Label())
		if stage, err := p.runGroup(ctx, doc, g, label); err != nil {
			p.log.Error("part failed",
				zap.String("label", label),
				zap.String("stage", stage),
				zap.Error(err))
			res.Failed = append(res.Failed, GroupError{Label: label, Stage: stage, Err: err})
			continue
		}
		p.log.Info("completed part", zap.String("label", label))
	}

	// Decimation is lossy: hulls and simplified meshes can self-intersect or
	// fall apart without the engine reporting it, and nothing here validates
	// mesh soundness.
	p.log.Info("run finished; inspect simplified and hull meshes manually for degenerate geometry",
		zap.Int("failed", len(res.Failed)))
	return res, nil
}

// runGroup executes the linear stage sequence for one unique part. It
// returns the failing stage name alongside the error.
func (p *Pipeline) runGroup(ctx context.Context, doc cad.Document, g dedupe.Group, label string) (string, error) {
	groupDir := filepath.Join(p.opts.OutputDir, label)
	frame := export.Local()
	if p.opts.UseGlobalOrigin {
		frame = export.Global()
	}

	full, err := p.exporter.Export(doc, g.Representative, groupDir, p.opts.Format, frame)
	if err != nil {
		return "export", err
	}
	p.log.Debug("stage done", zap.String("stage", "export"), zap.String("path", full.Path))

	if p.opts.NumSimplify > 0 {
		simplified, err := p.reducer.Simplify(ctx, full.Path, p.opts.NumSimplify, p.opts.SimplifyScript, "")
		if err != nil {
			return "simplify", err
		}
		p.log.Debug("stage done", zap.String("stage", "simplify"), zap.String("path", simplified))
	}

	// The hull is derived from the full-resolution mesh, not the simplified
	// one, so hull quality does not depend on the decimation budget.
	hull, err := p.reducer.ConvexHull(ctx, full.Path, p.opts.CHullScript, "")
	if err != nil {
		return "convex-hull", err
	}
	p.log.Debug("stage done", zap.String("stage", "convex-hull"), zap.String("path", hull))

	if _, err := p.reducer.Simplify(ctx, hull, p.opts.NumCHull, p.opts.SimplifyScript, hull); err != nil {
		return "simplify-hull", err
	}

	rows := make([]placement.Row, 0, len(g.Occurrences))
	for _, occ := range g.Occurrences {
		rows = append(rows, placement.Row{
			Label:     placement.SanitizeLabel(occ.Label()),
			Placement: occ.Placement(),
		})
	}
	if err := placement.WriteBatch(filepath.Join(groupDir, PlacementsFile), rows); err != nil {
		return "placements", err
	}

	return "", nil
}
