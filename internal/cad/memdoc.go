package cad

import (
	"github.com/mahaarbo/step-to-meshes/pkg/mesh"
	"github.com/mahaarbo/step-to-meshes/pkg/spatial"
)

// MemObject is an in-memory document object.
type MemObject struct {
	ObjLabel  string
	ObjKind   Kind
	Place     spatial.Placement
	Global    spatial.Placement
	GeomKey   string
	Triangles *mesh.Triangles
	TessErr   error
}

// Label returns the object's label.
func (o *MemObject) Label() string { return o.ObjLabel }

// Kind returns the object's kind.
func (o *MemObject) Kind() Kind { return o.ObjKind }

// Placement returns the object's current placement.
func (o *MemObject) Placement() spatial.Placement { return o.Place }

// Tessellate returns the stored triangulation or the configured error.
func (o *MemObject) Tessellate() (*mesh.Triangles, error) {
	if o.TessErr != nil {
		return nil, o.TessErr
	}
	return o.Triangles, nil
}

// MemDocument is an in-memory Document. Geometry equality is string identity
// of the objects' geometry keys.
type MemDocument struct {
	objs []Object
}

// NewMemDocument returns an empty document.
func NewMemDocument() *MemDocument {
	return &MemDocument{}
}

// Add appends an object in document order.
func (d *MemDocument) Add(o *MemObject) {
	if o.ObjKind == KindSolid && o.Global == (spatial.Placement{}) {
		o.Global = spatial.IdentityPlacement()
	}
	d.objs = append(d.objs, o)
}

// Objects returns the objects in document order.
func (d *MemDocument) Objects() []Object { return d.objs }

// SameGeometry compares geometry keys. Objects without a key never match.
func (d *MemDocument) SameGeometry(a, b Object) bool {
	ma, ok := a.(*MemObject)
	if !ok {
		return false
	}
	mb, ok := b.(*MemObject)
	if !ok {
		return false
	}
	return ma.GeomKey != "" && ma.GeomKey == mb.GeomKey
}

// GlobalPlacement returns the stored ancestor placement.
func (d *MemDocument) GlobalPlacement(o Object) spatial.Placement {
	if mo, ok := o.(*MemObject); ok {
		return mo.Global
	}
	return spatial.IdentityPlacement()
}
