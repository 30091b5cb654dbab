// Package mesh provides an indexed triangle mesh model and writers for the
// mesh file formats used by robotics visualization toolchains.
package mesh

import "github.com/mahaarbo/step-to-meshes/pkg/spatial"

// Triangles is an indexed triangle mesh. Tris holds indices into Verts.
type Triangles struct {
	Verts []spatial.Vec3
	Tris  [][3]int
}

// Clone returns a deep copy of the mesh.
func (m *Triangles) Clone() *Triangles {
	c := &Triangles{
		Verts: make([]spatial.Vec3, len(m.Verts)),
		Tris:  make([][3]int, len(m.Tris)),
	}
	copy(c.Verts, m.Verts)
	copy(c.Tris, m.Tris)
	return c
}

// Transform applies a homogeneous transform to every vertex in place.
func (m *Triangles) Transform(t spatial.Mat4) {
	for i, v := range m.Verts {
		m.Verts[i] = t.TransformPoint(v)
	}
}

// normal returns the unnormalized face normal of triangle i.
func (m *Triangles) normal(i int) spatial.Vec3 {
	tri := m.Tris[i]
	a, b, c := m.Verts[tri[0]], m.Verts[tri[1]], m.Verts[tri[2]]
	return b.Sub(a).Cross(c.Sub(a))
}
