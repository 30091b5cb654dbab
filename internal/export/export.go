// Package export writes a CAD object's tessellation to a mesh file in a
// chosen format and frame of reference.
package export

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/mahaarbo/step-to-meshes/internal/cad"
	"github.com/mahaarbo/step-to-meshes/pkg/mesh"
	"github.com/mahaarbo/step-to-meshes/pkg/spatial"
)

// ErrUnsupportedFormat indicates a mesh format with no registered writer.
var ErrUnsupportedFormat = errors.New("export: unsupported mesh format")

// Format is a supported mesh file format.
type Format int

const (
	STL Format = iota
	OBJ
	DAE
	AMF
)

// writers maps each format to its stream writer.
var writers = map[Format]func(io.Writer, *mesh.Triangles) error{
	STL: func(w io.Writer, m *mesh.Triangles) error { return mesh.WriteSTL(w, m, "step-to-meshes") },
	OBJ: mesh.WriteOBJ,
	DAE: mesh.WriteDAE,
	AMF: mesh.WriteAMF,
}

// Ext returns the file extension, including the dot.
func (f Format) Ext() string {
	switch f {
	case STL:
		return ".stl"
	case OBJ:
		return ".obj"
	case DAE:
		return ".dae"
	case AMF:
		return ".amf"
	default:
		return ""
	}
}

// String returns the format name.
func (f Format) String() string {
	if ext := f.Ext(); ext != "" {
		return strings.ToUpper(ext[1:])
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// ParseFormat resolves a file extension like ".stl" (case-insensitive, dot
// optional) to a Format. Unknown extensions return ErrUnsupportedFormat.
func ParseFormat(ext string) (Format, error) {
	e := strings.ToLower(strings.TrimPrefix(ext, "."))
	switch e {
	case "stl":
		return STL, nil
	case "obj":
		return OBJ, nil
	case "dae":
		return DAE, nil
	case "amf":
		return AMF, nil
	default:
		return 0, fmt.Errorf("%w: %q (supported: .stl .obj .dae .amf)", ErrUnsupportedFormat, ext)
	}
}

// frameKind tags the FrameMode variant.
type frameKind int

const (
	frameLocal frameKind = iota
	frameGlobal
	frameExplicit
)

// FrameMode selects the frame of reference embedded in exported files.
type FrameMode struct {
	kind      frameKind
	placement spatial.Placement
}

// Local places the file origin at the part's own frame: the effective
// transform is global placement inverse composed with the current placement.
func Local() FrameMode { return FrameMode{kind: frameLocal} }

// Global places the file origin at the assembly's global frame: vertices are
// exported with the current placement applied.
func Global() FrameMode { return FrameMode{kind: frameGlobal} }

// Explicit exports with the given placement applied, ignoring the object's
// own transform.
func Explicit(p spatial.Placement) FrameMode { return FrameMode{kind: frameExplicit, placement: p} }

// ArtifactKind classifies the meshes produced for one unique part.
type ArtifactKind int

const (
	KindFull ArtifactKind = iota
	KindSimplified
	KindConvexHull
	KindSimplifiedHull
)

// String returns the artifact kind name.
func (k ArtifactKind) String() string {
	switch k {
	case KindFull:
		return "full"
	case KindSimplified:
		return "simplified"
	case KindConvexHull:
		return "convex-hull"
	case KindSimplifiedHull:
		return "simplified-hull"
	default:
		return "unknown"
	}
}

// Artifact is a produced mesh file.
type Artifact struct {
	Path   string
	Kind   ArtifactKind
	Format Format
}

// Exporter writes full-resolution meshes for document objects.
type Exporter struct {
	log *zap.Logger
}

// New returns an Exporter logging through the given logger.
func New(log *zap.Logger) *Exporter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Exporter{log: log}
}

// Export writes the object's full-resolution mesh to dir/full.<ext>,
// creating the directory tree. The object's stored placement is never
// mutated: the effective transform for the requested frame is applied to a
// copy of the tessellation, so the placement observed after the call equals
// the one before it on every exit path.
func (e *Exporter) Export(doc cad.Document, obj cad.Object, dir string, format Format, frame FrameMode) (Artifact, error) {
	ext := format.Ext()
	if ext == "" {
		return Artifact{}, fmt.Errorf("%w: %d", ErrUnsupportedFormat, int(format))
	}
	return e.ExportFile(doc, obj, filepath.Join(dir, "full"+ext), format, frame)
}

// ExportFile is Export with an explicit output path.
func (e *Exporter) ExportFile(doc cad.Document, obj cad.Object, path string, format Format, frame FrameMode) (Artifact, error) {
	writer, ok := writers[format]
	if !ok {
		return Artifact{}, fmt.Errorf("%w: %d", ErrUnsupportedFormat, int(format))
	}

	tris, err := obj.Tessellate()
	if err != nil {
		return Artifact{}, fmt.Errorf("export: tessellate %q: %w", obj.Label(), err)
	}

	effective := e.effectivePlacement(doc, obj, frame)
	out := tris.Clone()
	out.Transform(effective.Mat4())

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return Artifact{}, fmt.Errorf("export: create directory for %q: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return Artifact{}, fmt.Errorf("export: create %q: %w", path, err)
	}
	defer f.Close()

	if err := writer(f, out); err != nil {
		return Artifact{}, fmt.Errorf("export: write %q: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return Artifact{}, fmt.Errorf("export: close %q: %w", path, err)
	}

	e.log.Debug("exported mesh",
		zap.String("label", obj.Label()),
		zap.String("path", path),
		zap.Stringer("format", format),
		zap.Int("triangles", len(out.Tris)))

	return Artifact{Path: path, Kind: KindFull, Format: format}, nil
}

// effectivePlacement resolves the transform applied to exported vertices.
func (e *Exporter) effectivePlacement(doc cad.Document, obj cad.Object, frame FrameMode) spatial.Placement {
	switch frame.kind {
	case frameGlobal:
		return obj.Placement()
	case frameExplicit:
		return frame.placement
	default:
		return doc.GlobalPlacement(obj).Inverse().Compose(obj.Placement())
	}
}
