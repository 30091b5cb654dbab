package mesh

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/mahaarbo/step-to-meshes/pkg/spatial"
)

// stlHeaderLen is the fixed length of the binary STL comment header.
const stlHeaderLen = 80

// ReadSTL reads a binary STL stream into an indexed mesh. Vertices shared
// between triangles are merged by exact coordinate equality.
func ReadSTL(r io.Reader) (*Triangles, error) {
	var header struct {
		H    [stlHeaderLen]byte
		NTri uint32
	}
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("stl: read header: %w", err)
	}

	m := new(Triangles)
	vertMap := make(map[[3]float32]int)

	var tri [3]int
	triBuf := make([]byte, 4*3*4+2)
	for i := 0; i < int(header.NTri); i++ {
		if _, err := io.ReadFull(r, triBuf); err != nil {
			return nil, fmt.Errorf("stl: read triangle %d: %w", i, err)
		}
		for v := range tri {
			var vert [3]float32
			for c := range vert {
				const start = 3 * 4 // skip normal
				vert[c] = math.Float32frombits(binary.LittleEndian.Uint32(triBuf[start+12*v+4*c:]))
			}
			vertIndex, ok := vertMap[vert]
			if !ok {
				vertIndex = len(m.Verts)
				m.Verts = append(m.Verts, spatial.Vec3{
					X: float64(vert[0]),
					Y: float64(vert[1]),
					Z: float64(vert[2]),
				})
				vertMap[vert] = vertIndex
			}
			tri[v] = vertIndex
		}
		m.Tris = append(m.Tris, tri)
	}

	return m, nil
}

// WriteSTL writes the mesh as binary STL. The header comment is truncated or
// space-padded to the fixed 80 bytes.
func WriteSTL(w io.Writer, m *Triangles, comment string) error {
	var header struct {
		H    [stlHeaderLen]byte
		NTri uint32
	}
	if len(comment) > stlHeaderLen {
		comment = comment[:stlHeaderLen]
	}
	copy(header.H[:], comment+strings.Repeat(" ", stlHeaderLen-len(comment)))
	header.NTri = uint32(len(m.Tris))
	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("stl: write header: %w", err)
	}

	triBuf := make([]byte, 4*3*4+2)
	for i, tri := range m.Tris {
		n := m.normal(i).Normalize()
		putVec(triBuf[0:], n)
		for v := range tri {
			putVec(triBuf[12+12*v:], m.Verts[tri[v]])
		}
		if _, err := w.Write(triBuf); err != nil {
			return fmt.Errorf("stl: write triangle %d: %w", i, err)
		}
	}
	return nil
}

func putVec(buf []byte, v spatial.Vec3) {
	binary.LittleEndian.PutUint32(buf[0:], math.Float32bits(float32(v.X)))
	binary.LittleEndian.PutUint32(buf[4:], math.Float32bits(float32(v.Y)))
	binary.LittleEndian.PutUint32(buf[8:], math.Float32bits(float32(v.Z)))
}
