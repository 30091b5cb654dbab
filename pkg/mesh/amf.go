package mesh

import (
	"bufio"
	"fmt"
	"io"
)

// WriteAMF writes the mesh as an Additive Manufacturing Format document with
// a single object volume.
func WriteAMF(w io.Writer, m *Triangles) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "<?xml version=\"1.0\" encoding=\"utf-8\"?>\n")
	fmt.Fprintf(bw, "<amf unit=\"millimeter\" version=\"1.1\">\n")
	fmt.Fprintf(bw, "  <object id=\"0\">\n")
	fmt.Fprintf(bw, "    <mesh>\n")
	fmt.Fprintf(bw, "      <vertices>\n")
	for _, v := range m.Verts {
		fmt.Fprintf(bw, "        <vertex><coordinates><x>%g</x><y>%g</y><z>%g</z></coordinates></vertex>\n",
			v.X, v.Y, v.Z)
	}
	fmt.Fprintf(bw, "      </vertices>\n")
	fmt.Fprintf(bw, "      <volume>\n")
	for _, tri := range m.Tris {
		fmt.Fprintf(bw, "        <triangle><v1>%d</v1><v2>%d</v2><v3>%d</v3></triangle>\n",
			tri[0], tri[1], tri[2])
	}
	fmt.Fprintf(bw, "      </volume>\n")
	fmt.Fprintf(bw, "    </mesh>\n")
	fmt.Fprintf(bw, "  </object>\n")
	fmt.Fprintf(bw, "</amf>\n")
	return bw.Flush()
}
