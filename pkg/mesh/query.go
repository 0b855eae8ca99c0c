package mesh

import (
	"math"

	"github.com/dhconnelly/rtreego"

	"github.com/AndersDeleuran/MeshAnalysis/pkg/surface"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Compile-time interface check.
var _ surface.Oracle = (*Mesh)(nil)

// nearestCandidates is the initial candidate window pulled from the
// spatial index per query. The R-tree ranks by bounding-box distance,
// which only lower-bounds the true triangle distance, so the window grows
// until the best exact distance is provably unbeatable.
const nearestCandidates = 8

// rectPad inflates triangle bounding boxes so degenerate extents (axis
// aligned triangles) still form valid R-tree rectangles.
const rectPad = 1e-9

// triEntry is one triangle in the R-tree. min and max are the unpadded
// triangle bounds, kept for box-distance lower bounds during queries.
type triEntry struct {
	face     int
	min, max v3.Vec
	rect     rtreego.Rect
}

func (t *triEntry) Bounds() rtreego.Rect { return t.rect }

// boxDist2 is the squared distance from p to the entry's bounding box,
// zero inside. It lower-bounds the distance to the triangle itself.
func (t *triEntry) boxDist2(p v3.Vec) float64 {
	d := p.Max(t.min).Min(t.max).Sub(p)
	return d.Length2()
}

// triIndex accelerates closest-triangle lookups with an R-tree over
// triangle bounding boxes.
type triIndex struct {
	tree *rtreego.Rtree
}

func newTriIndex(m *Mesh) *triIndex {
	entries := make([]rtreego.Spatial, 0, len(m.Faces))
	for fi, f := range m.Faces {
		a, b, c := m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]
		min := a.Min(b).Min(c)
		max := a.Max(b).Max(c)
		rect, err := rtreego.NewRect(
			rtreego.Point{min.X - rectPad, min.Y - rectPad, min.Z - rectPad},
			[]float64{
				max.X - min.X + 2*rectPad,
				max.Y - min.Y + 2*rectPad,
				max.Z - min.Z + 2*rectPad,
			})
		if err != nil {
			continue
		}
		entries = append(entries, &triEntry{face: fi, min: min, max: max, rect: rect})
	}
	return &triIndex{tree: rtreego.NewTree(3, 8, 32, entries...)}
}

// MeshPoint is the result of a closest-point query.
type MeshPoint struct {
	Point  v3.Vec
	Normal v3.Vec // vertex normals interpolated at Point
	Face   int
	Bary   [3]float64
}

// ClosestPoint returns the point on the mesh closest to p. ok is false
// for an empty mesh or when p is farther than MaxDistance from the mesh.
func (m *Mesh) ClosestPoint(p v3.Vec) (MeshPoint, bool) {
	m.build()
	if len(m.Faces) == 0 {
		return MeshPoint{}, false
	}

	query := rtreego.Point{p.X, p.Y, p.Z}
	best := MeshPoint{Face: -1}
	bestDist := math.Inf(1)

	// The k nearest rectangles carry the k smallest box distances, so every
	// unexamined triangle is at least as far as the widest returned box.
	// Grow the window until the best exact distance beats that bound.
	for k := nearestCandidates; ; k *= 2 {
		if k > len(m.Faces) {
			k = len(m.Faces)
		}
		cands := m.index.tree.NearestNeighbors(k, query)

		bound := 0.0
		for _, c := range cands {
			entry, ok := c.(*triEntry)
			if !ok {
				continue
			}
			if bd := entry.boxDist2(p); bd > bound {
				bound = bd
			}
			f := m.Faces[entry.face]
			q, bary := closestOnTriangle(p, m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]])
			d := q.Sub(p).Length2()
			if d < bestDist {
				bestDist = d
				best = MeshPoint{Point: q, Face: entry.face, Bary: bary}
			}
		}
		if len(cands) < k || k == len(m.Faces) || bestDist <= bound {
			break
		}
	}
	if best.Face < 0 {
		return MeshPoint{}, false
	}
	if m.MaxDistance > 0 && math.Sqrt(bestDist) > m.MaxDistance {
		return MeshPoint{}, false
	}

	f := m.Faces[best.Face]
	n := m.vertNorms[f[0]].MulScalar(best.Bary[0]).
		Add(m.vertNorms[f[1]].MulScalar(best.Bary[1])).
		Add(m.vertNorms[f[2]].MulScalar(best.Bary[2]))
	if n.Length2() > 0 {
		best.Normal = n.Normalize()
	} else {
		best.Normal = m.faceNorms[best.Face]
	}
	return best, true
}

// Project implements surface.Oracle.
func (m *Mesh) Project(p v3.Vec) (point, normal v3.Vec, ok bool) {
	mp, ok := m.ClosestPoint(p)
	if !ok {
		return v3.Vec{}, v3.Vec{}, false
	}
	return mp.Point, mp.Normal, true
}

// closestOnTriangle returns the point on triangle abc closest to p and its
// barycentric coordinates. Standard region classification over the
// triangle's Voronoi features (vertices, edges, interior).
func closestOnTriangle(p, a, b, c v3.Vec) (v3.Vec, [3]float64) {
	ab := b.Sub(a)
	ac := c.Sub(a)
	ap := p.Sub(a)

	d1 := ab.Dot(ap)
	d2 := ac.Dot(ap)
	if d1 <= 0 && d2 <= 0 {
		return a, [3]float64{1, 0, 0}
	}

	bp := p.Sub(b)
	d3 := ab.Dot(bp)
	d4 := ac.Dot(bp)
	if d3 >= 0 && d4 <= d3 {
		return b, [3]float64{0, 1, 0}
	}

	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		v := d1 / (d1 - d3)
		return a.Add(ab.MulScalar(v)), [3]float64{1 - v, v, 0}
	}

	cp := p.Sub(c)
	d5 := ab.Dot(cp)
	d6 := ac.Dot(cp)
	if d6 >= 0 && d5 <= d6 {
		return c, [3]float64{0, 0, 1}
	}

	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		w := d2 / (d2 - d6)
		return a.Add(ac.MulScalar(w)), [3]float64{1 - w, 0, w}
	}

	va := d3*d6 - d5*d4
	if va <= 0 && d4-d3 >= 0 && d5-d6 >= 0 {
		w := (d4 - d3) / ((d4 - d3) + (d5 - d6))
		return b.Add(c.Sub(b).MulScalar(w)), [3]float64{0, 1 - w, w}
	}

	denom := 1 / (va + vb + vc)
	v := vb * denom
	w := vc * denom
	return a.Add(ab.MulScalar(v)).Add(ac.MulScalar(w)), [3]float64{1 - v - w, v, w}
}
