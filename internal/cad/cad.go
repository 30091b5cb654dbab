// Package cad defines the consumer contract for CAD document providers: an
// ordered tree of placed objects with opaque geometry, a geometry-equality
// predicate, and a global-placement accessor. Parsing STEP or native CAD
// files is the job of an external kernel binding implementing Document; the
// package ships an in-memory provider and a YAML assembly-manifest provider.
package cad

import (
	"github.com/mahaarbo/step-to-meshes/pkg/mesh"
	"github.com/mahaarbo/step-to-meshes/pkg/spatial"
)

// Kind classifies document objects. Only solids carry exportable geometry;
// groups are structural nodes (assemblies, folders) and are skipped by the
// deduplicator.
type Kind int

const (
	KindSolid Kind = iota
	KindGroup
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindSolid:
		return "solid"
	case KindGroup:
		return "group"
	default:
		return "unknown"
	}
}

// Object is one placed entity in a document. Labels are not unique: the same
// label may occur at several placements.
type Object interface {
	Label() string
	Kind() Kind
	// Placement is the object's current transform relative to its parent.
	Placement() spatial.Placement
	// Tessellate returns the object's surface triangulation in the object's
	// local frame, without the placement applied.
	Tessellate() (*mesh.Triangles, error)
}

// Document is a loaded CAD assembly. Objects appear in document order, which
// is the order all downstream processing preserves.
type Document interface {
	Objects() []Object
	// SameGeometry reports whether two objects reference identical underlying
	// geometry. Symmetry and transitivity are assumed but not enforced; a
	// provider with an only-approximately-transitive predicate makes grouping
	// order-dependent.
	SameGeometry(a, b Object) bool
	// GlobalPlacement returns the accumulated placement of the object's
	// ancestors, i.e. the transform from the object's parent frame to the
	// document's global frame.
	GlobalPlacement(o Object) spatial.Placement
}
