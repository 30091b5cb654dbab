// Package dedupe groups document occurrences that share identical geometry.
package dedupe

import "github.com/mahaarbo/step-to-meshes/internal/cad"

// Group is one unique part: a representative object plus every occurrence of
// the same geometry, in document order. The representative is the first
// occurrence seen.
type Group struct {
	Representative cad.Object
	Occurrences    []cad.Object
}

// Dedupe partitions the document's solid objects into unique-geometry groups.
// Occurrences are visited in document order, and each is tested against the
// existing groups' representatives in group-creation order, joining the first
// match. The result is deterministic for a deterministic provider; groups are
// kept in a slice, never a map, so ordering survives re-runs.
//
// The provider's equality predicate is trusted to be symmetric and
// transitive. If it is only approximately transitive, grouping depends on
// document order; that matches the behavior of the predicate's upstream
// kernels and is not corrected here.
func Dedupe(doc cad.Document) []Group {
	var groups []Group
	for _, obj := range doc.Objects() {
		if obj.Kind() != cad.KindSolid {
			continue
		}
		found := false
		for i := range groups {
			if doc.SameGeometry(groups[i].Representative, obj) {
				groups[i].Occurrences = append(groups[i].Occurrences, obj)
				found = true
				break
			}
		}
		if !found {
			groups = append(groups, Group{
				Representative: obj,
				Occurrences:    []cad.Object{obj},
			})
		}
	}
	return groups
}
