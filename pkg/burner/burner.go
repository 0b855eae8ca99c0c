// Package burner iteratively burns the perimeter of a mesh, similar to
// the grassfire transform used on rasters to extract the medial axis.
// Each burn front, the ring of faces touching the current naked boundary,
// is emitted as its own mesh.
package burner

import "github.com/AndersDeleuran/MeshAnalysis/pkg/mesh"

// BurnFronts peels a mesh from its naked boundary inward and returns one
// compacted mesh per burn front, outermost first. A closed mesh has no
// naked boundary to ignite, so it burns in a single front.
func BurnFronts(m *mesh.Mesh) []*mesh.Mesh {
	var fronts []*mesh.Mesh
	cur := m
	for cur.FaceCount() > 0 {
		burning := nakedFaceIDs(cur)
		if len(burning) == 0 {
			fronts = append(fronts, cur)
			break
		}
		if len(burning) == cur.FaceCount() {
			fronts = append(fronts, cur.Submesh(burning))
			break
		}

		remaining := make([]int, 0, cur.FaceCount()-len(burning))
		burnSet := make(map[int]struct{}, len(burning))
		for _, fi := range burning {
			burnSet[fi] = struct{}{}
		}
		for fi := 0; fi < cur.FaceCount(); fi++ {
			if _, burns := burnSet[fi]; !burns {
				remaining = append(remaining, fi)
			}
		}

		fronts = append(fronts, cur.Submesh(burning))
		cur = cur.Submesh(remaining)
	}
	return fronts
}

// nakedFaceIDs returns the indices of every face with at least one vertex
// on a naked edge.
func nakedFaceIDs(m *mesh.Mesh) []int {
	var ids []int
	for fi, f := range m.Faces {
		if m.NakedVertex(f[0]) || m.NakedVertex(f[1]) || m.NakedVertex(f[2]) {
			ids = append(ids, fi)
		}
	}
	return ids
}
