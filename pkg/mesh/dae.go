package mesh

import (
	"bufio"
	"fmt"
	"io"
	"time"
)

// WriteDAE writes the mesh as a minimal COLLADA 1.4.1 document containing a
// single geometry node instanced in one visual scene.
func WriteDAE(w io.Writer, m *Triangles) error {
	bw := bufio.NewWriter(w)
	now := time.Now().UTC().Format(time.RFC3339)

	fmt.Fprintf(bw, "<?xml version=\"1.0\" encoding=\"utf-8\"?>\n")
	fmt.Fprintf(bw, "<COLLADA xmlns=\"http://www.collada.org/2005/11/COLLADASchema\" version=\"1.4.1\">\n")
	fmt.Fprintf(bw, "  <asset>\n")
	fmt.Fprintf(bw, "    <created>%s</created>\n", now)
	fmt.Fprintf(bw, "    <modified>%s</modified>\n", now)
	fmt.Fprintf(bw, "    <unit name=\"millimeter\" meter=\"0.001\"/>\n")
	fmt.Fprintf(bw, "    <up_axis>Z_UP</up_axis>\n")
	fmt.Fprintf(bw, "  </asset>\n")
	fmt.Fprintf(bw, "  <library_geometries>\n")
	fmt.Fprintf(bw, "    <geometry id=\"mesh\" name=\"mesh\">\n")
	fmt.Fprintf(bw, "      <mesh>\n")
	fmt.Fprintf(bw, "        <source id=\"positions\">\n")
	fmt.Fprintf(bw, "          <float_array id=\"positions-array\" count=\"%d\">", 3*len(m.Verts))
	for i, v := range m.Verts {
		if i > 0 {
			fmt.Fprint(bw, " ")
		}
		fmt.Fprintf(bw, "%g %g %g", v.X, v.Y, v.Z)
	}
	fmt.Fprintf(bw, "</float_array>\n")
	fmt.Fprintf(bw, "          <technique_common>\n")
	fmt.Fprintf(bw, "            <accessor source=\"#positions-array\" count=\"%d\" stride=\"3\">\n", len(m.Verts))
	fmt.Fprintf(bw, "              <param name=\"X\" type=\"float\"/>\n")
	fmt.Fprintf(bw, "              <param name=\"Y\" type=\"float\"/>\n")
	fmt.Fprintf(bw, "              <param name=\"Z\" type=\"float\"/>\n")
	fmt.Fprintf(bw, "            </accessor>\n")
	fmt.Fprintf(bw, "          </technique_common>\n")
	fmt.Fprintf(bw, "        </source>\n")
	fmt.Fprintf(bw, "        <vertices id=\"vertices\">\n")
	fmt.Fprintf(bw, "          <input semantic=\"POSITION\" source=\"#positions\"/>\n")
	fmt.Fprintf(bw, "        </vertices>\n")
	fmt.Fprintf(bw, "        <triangles count=\"%d\">\n", len(m.Tris))
	fmt.Fprintf(bw, "          <input semantic=\"VERTEX\" source=\"#vertices\" offset=\"0\"/>\n")
	fmt.Fprintf(bw, "          <p>")
	for i, tri := range m.Tris {
		if i > 0 {
			fmt.Fprint(bw, " ")
		}
		fmt.Fprintf(bw, "%d %d %d", tri[0], tri[1], tri[2])
	}
	fmt.Fprintf(bw, "</p>\n")
	fmt.Fprintf(bw, "        </triangles>\n")
	fmt.Fprintf(bw, "      </mesh>\n")
	fmt.Fprintf(bw, "    </geometry>\n")
	fmt.Fprintf(bw, "  </library_geometries>\n")
	fmt.Fprintf(bw, "  <library_visual_scenes>\n")
	fmt.Fprintf(bw, "    <visual_scene id=\"scene\">\n")
	fmt.Fprintf(bw, "      <node id=\"node\">\n")
	fmt.Fprintf(bw, "        <instance_geometry url=\"#mesh\"/>\n")
	fmt.Fprintf(bw, "      </node>\n")
	fmt.Fprintf(bw, "    </visual_scene>\n")
	fmt.Fprintf(bw, "  </library_visual_scenes>\n")
	fmt.Fprintf(bw, "  <scene>\n")
	fmt.Fprintf(bw, "    <instance_visual_scene url=\"#scene\"/>\n")
	fmt.Fprintf(bw, "  </scene>\n")
	fmt.Fprintf(bw, "</COLLADA>\n")
	return bw.Flush()
}
