package paths_test

import (
	"errors"
	"testing"

	"github.com/AndersDeleuran/MeshAnalysis/pkg/mesh"
	"github.com/AndersDeleuran/MeshAnalysis/pkg/paths"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

func flatGrid(n int) *mesh.Mesh {
	return mesh.NewGrid(n, n, 1.0, func(x, y float64) float64 { return 0 })
}

// spikeGrid is a flat grid with its center vertex pulled far upward, so
// metric-weighted walks route around the middle while hop-counted walks
// cut straight across it.
func spikeGrid() *mesh.Mesh {
	return mesh.NewGrid(5, 5, 1.0, func(x, y float64) float64 {
		if x == 2 && y == 2 {
			return 10
		}
		return 0
	})
}

func TestGraphStats(t *testing.T) {
	m := flatGrid(4)

	// A 4x4 grid has 12 horizontal, 12 vertical and 9 diagonal edges.
	nodes, edges := paths.NewGraph(m, paths.VertexGraph, paths.EdgeLength).Stats()
	if nodes != 16 || edges != 33 {
		t.Errorf("vertex graph stats = (%d, %d), want (16, 33)", nodes, edges)
	}

	// 18 faces joined across the 21 interior mesh edges.
	nodes, edges = paths.NewGraph(m, paths.FaceGraph, paths.EdgeLength).Stats()
	if nodes != 18 || edges != 21 {
		t.Errorf("face graph stats = (%d, %d), want (18, 21)", nodes, edges)
	}
}

func TestShortestWalkAcrossGrid(t *testing.T) {
	g := paths.NewGraph(flatGrid(4), paths.VertexGraph, paths.EdgeLength)

	walk, err := g.ShortestWalk(v3.Vec{}, v3.Vec{X: 3, Y: 3})
	if err != nil {
		t.Fatalf("ShortestWalk: %v", err)
	}
	// The cell diagonals run corner to corner, so three diagonal hops beat
	// any mix of axis-aligned edges.
	if len(walk) != 4 {
		t.Fatalf("walk has %d points, want 4: %v", len(walk), walk)
	}
	if walk[0] != (v3.Vec{}) {
		t.Errorf("walk starts at %+v, want origin", walk[0])
	}
	if walk[3] != (v3.Vec{X: 3, Y: 3}) {
		t.Errorf("walk ends at %+v, want far corner", walk[3])
	}
}

func TestShortestWalkWeighting(t *testing.T) {
	m := spikeGrid()
	from := v3.Vec{}
	to := v3.Vec{X: 4, Y: 4}

	// With metric weights every edge into the spike costs at least its
	// 10-unit height, so the walk stays on the flat ring around it.
	metric, err := paths.NewGraph(m, paths.VertexGraph, paths.EdgeLength).ShortestWalk(from, to)
	if err != nil {
		t.Fatalf("ShortestWalk(EdgeLength): %v", err)
	}
	for _, p := range metric {
		if p.Z > 1 {
			t.Errorf("metric walk climbs the spike at %+v", p)
		}
	}

	// Hop counting forces the four-diagonal route over the spike.
	uniform, err := paths.NewGraph(m, paths.VertexGraph, paths.Uniform).ShortestWalk(from, to)
	if err != nil {
		t.Fatalf("ShortestWalk(Uniform): %v", err)
	}
	if len(uniform) != 5 {
		t.Fatalf("uniform walk has %d points, want 5: %v", len(uniform), uniform)
	}
	if uniform[2].Z != 10 {
		t.Errorf("uniform walk midpoint = %+v, want the spike top", uniform[2])
	}
}

func TestShortestWalkFaceGraph(t *testing.T) {
	g := paths.NewGraph(flatGrid(4), paths.FaceGraph, paths.EdgeLength)

	walk, err := g.ShortestWalk(v3.Vec{}, v3.Vec{X: 3, Y: 3})
	if err != nil {
		t.Fatalf("ShortestWalk: %v", err)
	}
	if len(walk) < 2 {
		t.Fatalf("walk has %d points, want at least 2", len(walk))
	}
	// Face-graph nodes are centroids, never grid vertices.
	for _, p := range walk {
		if p.X == float64(int(p.X)) && p.Y == float64(int(p.Y)) {
			t.Errorf("walk point %+v is not a face center", p)
		}
	}
}

func TestShortestWalkSameNode(t *testing.T) {
	g := paths.NewGraph(flatGrid(3), paths.VertexGraph, paths.EdgeLength)
	_, err := g.ShortestWalk(v3.Vec{X: 0.1}, v3.Vec{Y: 0.1})
	if !errors.Is(err, paths.ErrSameNode) {
		t.Errorf("err = %v, want ErrSameNode", err)
	}
}

func TestShortestWalkDisconnected(t *testing.T) {
	// Two triangles far apart in one mesh share no edges.
	m := mesh.New(
		[]v3.Vec{
			{}, {X: 1}, {Y: 1},
			{X: 100}, {X: 101}, {X: 100, Y: 1},
		},
		[][3]int{{0, 1, 2}, {3, 4, 5}},
	)
	g := paths.NewGraph(m, paths.VertexGraph, paths.EdgeLength)
	_, err := g.ShortestWalk(v3.Vec{}, v3.Vec{X: 100})
	if !errors.Is(err, paths.ErrNoPath) {
		t.Errorf("err = %v, want ErrNoPath", err)
	}
}

func TestShortestWalkEmptyGraph(t *testing.T) {
	g := paths.NewGraph(mesh.New(nil, nil), paths.VertexGraph, paths.EdgeLength)
	if g.ClosestNode(v3.Vec{}) != -1 {
		t.Error("ClosestNode on empty graph did not return -1")
	}
	if _, err := g.ShortestWalk(v3.Vec{}, v3.Vec{X: 1}); !errors.Is(err, paths.ErrNoPath) {
		t.Errorf("err = %v, want ErrNoPath", err)
	}
}
