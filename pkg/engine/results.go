package engine

import (
	"github.com/AndersDeleuran/MeshAnalysis/pkg/curvature"
	"github.com/AndersDeleuran/MeshAnalysis/pkg/mesh"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Results accumulates everything the analysis builtins produce during one
// evaluation. Builtins append to the receiver for the host to pick up
// after Evaluate returns, mirroring how the components publish their
// outputs to a host pipeline.
type Results struct {
	// DrainagePaths holds one point sequence per emitted drainage path,
	// in sampling order, materialized as polylines or curves per the
	// script's output choice.
	DrainagePaths [][]v3.Vec

	// BurnFronts holds the burn front meshes, outermost first.
	BurnFronts []*mesh.Mesh

	// Curvature holds the result of the last curvature call.
	Curvature *curvature.Result

	// Walks holds one polyline per shortest-walk call, in call order.
	Walks [][]v3.Vec
}
