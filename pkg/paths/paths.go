// Package paths computes shortest walks over the graph of a mesh. The
// graph nodes are either the mesh vertices connected by mesh edges, or the
// face centers connected by face adjacency; edges are weighted by metric
// length or uniformly.
package paths

import (
	"errors"

	"github.com/AndersDeleuran/MeshAnalysis/pkg/mesh"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Kind selects which mesh elements become graph nodes.
type Kind int

const (
	// VertexGraph uses mesh vertices as nodes and mesh edges as edges.
	VertexGraph Kind = iota
	// FaceGraph uses face centers as nodes and face adjacency as edges.
	FaceGraph
)

// Weighting selects the edge weight.
type Weighting int

const (
	// EdgeLength weights each edge by its metric length.
	EdgeLength Weighting = iota
	// Uniform gives every edge weight 1.
	Uniform
)

var (
	// ErrSameNode means source and target resolve to the same graph node.
	ErrSameNode = errors.New("paths: start and end node are the same")
	// ErrNoPath means no walk connects the two nodes.
	ErrNoPath = errors.New("paths: no path between nodes")
)

type edge struct {
	to     int
	weight float64
}

// Graph is a weighted undirected graph over a mesh.
type Graph struct {
	points []v3.Vec
	adj    [][]edge
	edges  int
}

// NewGraph builds the graph of m per the given kind and weighting.
func NewGraph(m *mesh.Mesh, kind Kind, weighting Weighting) *Graph {
	g := &Graph{}
	switch kind {
	case FaceGraph:
		g.points = make([]v3.Vec, m.FaceCount())
		for i := range g.points {
			g.points[i] = m.FaceCenter(i)
		}
		g.adj = make([][]edge, m.FaceCount())
		for i := 0; i < m.FaceCount(); i++ {
			g.addEdges(i, m.AdjacentFaces(i), weighting)
		}
	default:
		g.points = append([]v3.Vec(nil), m.Vertices...)
		g.adj = make([][]edge, m.VertexCount())
		for i := 0; i < m.VertexCount(); i++ {
			g.addEdges(i, m.ConnectedVertices(i), weighting)
		}
	}
	return g
}

// addEdges adds the edges from node i to each higher-numbered neighbour,
// in both directions. Restricting to n > i counts each undirected edge
// exactly once.
func (g *Graph) addEdges(i int, neighbours []int, weighting Weighting) {
	for _, n := range neighbours {
		if n <= i {
			continue
		}
		w := 1.0
		if weighting == EdgeLength {
			w = g.points[n].Sub(g.points[i]).Length()
		}
		g.adj[i] = append(g.adj[i], edge{to: n, weight: w})
		g.adj[n] = append(g.adj[n], edge{to: i, weight: w})
		g.edges++
	}
}

// Stats returns the node and edge counts.
func (g *Graph) Stats() (nodes, edges int) {
	return len(g.points), g.edges
}

// Node returns the position of node i.
func (g *Graph) Node(i int) v3.Vec { return g.points[i] }

// ClosestNode returns the index of the node nearest to p, or -1 for an
// empty graph.
func (g *Graph) ClosestNode(p v3.Vec) int {
	best := -1
	bestDist := 0.0
	for i, q := range g.points {
		d := q.Sub(p).Length2()
		if best < 0 || d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}

// ShortestWalk returns the polyline of the shortest walk from the node
// nearest from to the node nearest to. It fails with ErrSameNode when both
// resolve to one node and ErrNoPath when the nodes are disconnected.
func (g *Graph) ShortestWalk(from, to v3.Vec) ([]v3.Vec, error) {
	start := g.ClosestNode(from)
	end := g.ClosestNode(to)
	if start < 0 || end < 0 {
		return nil, ErrNoPath
	}
	if start == end {
		return nil, ErrSameNode
	}

	nodes := g.dijkstra(start, end)
	if nodes == nil {
		return nil, ErrNoPath
	}
	walk := make([]v3.Vec, len(nodes))
	for i, n := range nodes {
		walk[i] = g.points[n]
	}
	return walk, nil
}
