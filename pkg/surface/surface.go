// Package surface defines the query contract the analysis components use
// to interrogate a surface, along with tangent frame construction.
// Implementations (mesh, sdf3) provide closest-point and normal queries
// behind this interface. The oracle abstraction allows swapping surface
// representations without changing the analysis code.
package surface

import v3 "github.com/deadsy/sdfx/vec/v3"

// Oracle answers closest-point queries against a surface.
//
// Project returns the point on the surface closest to p and the unit
// surface normal at that point. ok is false when the surface cannot
// produce a projection for p, for example when p lies outside an
// implementation-defined tolerance distance.
//
// Implementations must be read-only: Project may be called concurrently
// from multiple goroutines.
type Oracle interface {
	Project(p v3.Vec) (point, normal v3.Vec, ok bool)
}
