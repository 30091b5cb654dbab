package cad

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/mahaarbo/step-to-meshes/pkg/mesh"
	"github.com/mahaarbo/step-to-meshes/pkg/spatial"
)

// assemblyManifest is the YAML schema of a .assembly.yaml document: a flat
// list of placed parts whose geometry lives in sibling STL files. Units are
// millimeters, matching CAD source conventions.
type assemblyManifest struct {
	Name   string          `yaml:"name"`
	Origin *placementYAML  `yaml:"origin,omitempty"`
	Parts  []assemblyEntry `yaml:"parts"`
}

type assemblyEntry struct {
	Label     string         `yaml:"label"`
	Geometry  string         `yaml:"geometry"`
	Group     bool           `yaml:"group,omitempty"`
	Placement *placementYAML `yaml:"placement,omitempty"`
}

type placementYAML struct {
	X     float64    `yaml:"x"`
	Y     float64    `yaml:"y"`
	Z     float64    `yaml:"z"`
	Axis  [3]float64 `yaml:"axis"`
	Angle float64    `yaml:"angle"`
}

func (p *placementYAML) placement() spatial.Placement {
	if p == nil {
		return spatial.IdentityPlacement()
	}
	axis := spatial.Vec3{X: p.Axis[0], Y: p.Axis[1], Z: p.Axis[2]}
	if axis.Length() == 0 {
		axis = spatial.Vec3{Y: 1}
	}
	return spatial.Placement{
		Base:  spatial.Vec3{X: p.X, Y: p.Y, Z: p.Z},
		Axis:  axis.Normalize(),
		Angle: p.Angle,
	}
}

// LoadAssembly reads a YAML assembly manifest and returns a Document backed
// by the referenced STL geometry files. Geometry paths are resolved relative
// to the manifest. Two parts referencing byte-identical geometry files are
// the same geometry for deduplication purposes.
func LoadAssembly(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "cad: read assembly manifest")
	}
	var man assemblyManifest
	if err := yaml.Unmarshal(data, &man); err != nil {
		return nil, errors.Wrapf(err, "cad: parse assembly manifest %q", path)
	}

	doc := NewMemDocument()
	origin := man.Origin.placement()
	baseDir := filepath.Dir(path)
	geomCache := map[string]*geomEntry{}

	for i, part := range man.Parts {
		if part.Label == "" {
			return nil, fmt.Errorf("cad: part %d in %q has no label", i, path)
		}
		if part.Group {
			doc.Add(&MemObject{
				ObjLabel: part.Label,
				ObjKind:  KindGroup,
				Place:    part.Placement.placement(),
			})
			continue
		}
		geomPath := part.Geometry
		if geomPath == "" {
			return nil, fmt.Errorf("cad: part %q in %q has no geometry", part.Label, path)
		}
		if !filepath.IsAbs(geomPath) {
			geomPath = filepath.Join(baseDir, geomPath)
		}
		geom, ok := geomCache[geomPath]
		if !ok {
			geom, err = loadGeometry(geomPath)
			if err != nil {
				return nil, errors.Wrapf(err, "cad: part %q", part.Label)
			}
			geomCache[geomPath] = geom
		}
		doc.Add(&MemObject{
			ObjLabel:  part.Label,
			ObjKind:   KindSolid,
			Place:     part.Placement.placement(),
			Global:    origin,
			GeomKey:   geom.key,
			Triangles: geom.tris,
		})
	}
	return doc, nil
}

type geomEntry struct {
	key  string
	tris *mesh.Triangles
}

// loadGeometry reads an STL geometry file and keys it by content hash, so
// parts pointing at distinct but byte-identical files still deduplicate.
func loadGeometry(path string) (*geomEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read geometry")
	}
	tris, err := mesh.ReadSTL(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrapf(err, "parse geometry %q", path)
	}
	sum := sha256.Sum256(data)
	return &geomEntry{key: hex.EncodeToString(sum[:]), tris: tris}, nil
}
