// Package mesh implements a triangle mesh with the topology and
// closest-point queries the analysis components consume. A Mesh satisfies
// the surface.Oracle contract and additionally exposes the vertex and face
// adjacency needed by the burner, curvature and paths components.
package mesh

import (
	"sort"
	"sync"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Mesh is a triangle mesh. Vertices and Faces may be set directly before
// first use; all derived data (normals, adjacency, the spatial index) is
// built lazily on first query and the mesh must not be mutated afterwards.
type Mesh struct {
	Vertices []v3.Vec
	Faces    [][3]int

	// MaxDistance is the closest-point tolerance: query points farther
	// than this from the mesh produce no projection. Zero means unlimited.
	MaxDistance float64

	once      sync.Once
	faceNorms []v3.Vec
	vertNorms []v3.Vec
	vertAdj   [][]int
	faceAdj   [][]int
	naked     []bool
	index     *triIndex
}

// New returns a mesh over the given vertices and faces. The slices are
// retained, not copied.
func New(vertices []v3.Vec, faces [][3]int) *Mesh {
	return &Mesh{Vertices: vertices, Faces: faces}
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int { return len(m.Vertices) }

// FaceCount returns the number of triangles.
func (m *Mesh) FaceCount() int { return len(m.Faces) }

// IsEmpty returns true if the mesh has no faces.
func (m *Mesh) IsEmpty() bool { return len(m.Faces) == 0 }

// FaceCenter returns the centroid of face i.
func (m *Mesh) FaceCenter(i int) v3.Vec {
	f := m.Faces[i]
	return m.Vertices[f[0]].Add(m.Vertices[f[1]]).Add(m.Vertices[f[2]]).DivScalar(3)
}

// FaceNormal returns the unit normal of face i.
func (m *Mesh) FaceNormal(i int) v3.Vec {
	m.build()
	return m.faceNorms[i]
}

// VertexNormal returns the area-weighted unit vertex normal of vertex i.
func (m *Mesh) VertexNormal(i int) v3.Vec {
	m.build()
	return m.vertNorms[i]
}

// ConnectedVertices returns the indices of the vertices sharing an edge
// with vertex i. The returned slice is shared and must not be modified.
func (m *Mesh) ConnectedVertices(i int) []int {
	m.build()
	return m.vertAdj[i]
}

// AdjacentFaces returns the indices of the faces sharing an edge with
// face i. The returned slice is shared and must not be modified.
func (m *Mesh) AdjacentFaces(i int) []int {
	m.build()
	return m.faceAdj[i]
}

// NakedVertex reports whether vertex i lies on a naked edge, an edge
// used by fewer than two faces.
func (m *Mesh) NakedVertex(i int) bool {
	m.build()
	return m.naked[i]
}

// Area returns the total surface area of the mesh.
func (m *Mesh) Area() float64 {
	var sum float64
	for _, f := range m.Faces {
		ab := m.Vertices[f[1]].Sub(m.Vertices[f[0]])
		ac := m.Vertices[f[2]].Sub(m.Vertices[f[0]])
		sum += ab.Cross(ac).Length() / 2
	}
	return sum
}

// Submesh returns a new compacted mesh containing only the given faces.
// Vertices not referenced by those faces are dropped and indices remapped.
func (m *Mesh) Submesh(faceIDs []int) *Mesh {
	remap := make(map[int]int)
	var vertices []v3.Vec
	faces := make([][3]int, 0, len(faceIDs))
	for _, fi := range faceIDs {
		var nf [3]int
		for c, vi := range m.Faces[fi] {
			ni, seen := remap[vi]
			if !seen {
				ni = len(vertices)
				vertices = append(vertices, m.Vertices[vi])
				remap[vi] = ni
			}
			nf[c] = ni
		}
		faces = append(faces, nf)
	}
	return &Mesh{Vertices: vertices, Faces: faces, MaxDistance: m.MaxDistance}
}

// build computes all derived data exactly once. Queries may run
// concurrently after the first one completes.
func (m *Mesh) build() {
	m.once.Do(func() {
		m.buildNormals()
		m.buildAdjacency()
		m.index = newTriIndex(m)
	})
}

func (m *Mesh) buildNormals() {
	m.faceNorms = make([]v3.Vec, len(m.Faces))
	acc := make([]v3.Vec, len(m.Vertices))
	for i, f := range m.Faces {
		ab := m.Vertices[f[1]].Sub(m.Vertices[f[0]])
		ac := m.Vertices[f[2]].Sub(m.Vertices[f[0]])
		// Cross product length is twice the face area, so accumulating
		// the raw cross products area-weights the vertex normals.
		cross := ab.Cross(ac)
		if cross.Length2() > 0 {
			m.faceNorms[i] = cross.Normalize()
		}
		for _, vi := range f {
			acc[vi] = acc[vi].Add(cross)
		}
	}
	m.vertNorms = make([]v3.Vec, len(m.Vertices))
	for i, n := range acc {
		if n.Length2() > 0 {
			m.vertNorms[i] = n.Normalize()
		} else {
			m.vertNorms[i] = v3.Vec{Z: 1}
		}
	}
}

// edgeKey identifies an undirected edge by its sorted vertex indices.
type edgeKey struct{ a, b int }

func newEdgeKey(a, b int) edgeKey {
	if a > b {
		a, b = b, a
	}
	return edgeKey{a, b}
}

func (m *Mesh) buildAdjacency() {
	edgeFaces := make(map[edgeKey][]int)
	for fi, f := range m.Faces {
		for c := 0; c < 3; c++ {
			k := newEdgeKey(f[c], f[(c+1)%3])
			edgeFaces[k] = append(edgeFaces[k], fi)
		}
	}

	vertSets := make([]map[int]struct{}, len(m.Vertices))
	for i := range vertSets {
		vertSets[i] = make(map[int]struct{})
	}
	faceSets := make([]map[int]struct{}, len(m.Faces))
	for i := range faceSets {
		faceSets[i] = make(map[int]struct{})
	}
	m.naked = make([]bool, len(m.Vertices))

	for k, faces := range edgeFaces {
		vertSets[k.a][k.b] = struct{}{}
		vertSets[k.b][k.a] = struct{}{}
		if len(faces) < 2 {
			m.naked[k.a] = true
			m.naked[k.b] = true
		}
		for _, fa := range faces {
			for _, fb := range faces {
				if fa != fb {
					faceSets[fa][fb] = struct{}{}
				}
			}
		}
	}

	m.vertAdj = setsToSlices(vertSets)
	m.faceAdj = setsToSlices(faceSets)
}

// setsToSlices converts adjacency sets to sorted slices so that iteration
// order is deterministic across runs.
func setsToSlices(sets []map[int]struct{}) [][]int {
	out := make([][]int, len(sets))
	for i, set := range sets {
		s := make([]int, 0, len(set))
		for j := range set {
			s = append(s, j)
		}
		sort.Ints(s)
		out[i] = s
	}
	return out
}
