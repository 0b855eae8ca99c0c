package paths

import (
	"container/heap"
	"math"
)

// dijkstra returns the node sequence of the shortest walk from start to
// end, or nil when end is unreachable.
func (g *Graph) dijkstra(start, end int) []int {
	dist := make([]float64, len(g.points))
	prev := make([]int, len(g.points))
	done := make([]bool, len(g.points))
	for i := range dist {
		dist[i] = math.Inf(1)
		prev[i] = -1
	}
	dist[start] = 0

	pq := &nodeQueue{{node: start, dist: 0}}
	for pq.Len() > 0 {
		item := heap.Pop(pq).(queueItem)
		if done[item.node] {
			continue
		}
		done[item.node] = true
		if item.node == end {
			break
		}
		for _, e := range g.adj[item.node] {
			alt := dist[item.node] + e.weight
			if alt < dist[e.to] {
				dist[e.to] = alt
				prev[e.to] = item.node
				heap.Push(pq, queueItem{node: e.to, dist: alt})
			}
		}
	}

	if !done[end] {
		return nil
	}
	var nodes []int
	for n := end; n >= 0; n = prev[n] {
		nodes = append(nodes, n)
	}
	for i, j := 0, len(nodes)-1; i < j; i, j = i+1, j-1 {
		nodes[i], nodes[j] = nodes[j], nodes[i]
	}
	return nodes
}

type queueItem struct {
	node int
	dist float64
}

// nodeQueue is a min-heap of queue items keyed by distance.
type nodeQueue []queueItem

func (q nodeQueue) Len() int            { return len(q) }
func (q nodeQueue) Less(i, j int) bool  { return q[i].dist < q[j].dist }
func (q nodeQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *nodeQueue) Push(x interface{}) { *q = append(*q, x.(queueItem)) }
func (q *nodeQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}
