package mesh

import (
	"math"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// weldEps is the vertex welding resolution used by FromTriangles.
const weldEps = 1e-9

// FromTriangles builds a mesh from a triangle soup, welding coincident
// vertices so the result has usable topology.
func FromTriangles(tris []*sdf.Triangle3) *Mesh {
	type key [3]int64
	quantize := func(v v3.Vec) key {
		return key{
			int64(math.Round(v.X / weldEps)),
			int64(math.Round(v.Y / weldEps)),
			int64(math.Round(v.Z / weldEps)),
		}
	}

	lookup := make(map[key]int)
	var vertices []v3.Vec
	faces := make([][3]int, 0, len(tris))
	for _, t := range tris {
		var f [3]int
		for c := 0; c < 3; c++ {
			k := quantize(t[c])
			vi, seen := lookup[k]
			if !seen {
				vi = len(vertices)
				vertices = append(vertices, t[c])
				lookup[k] = vi
			}
			f[c] = vi
		}
		// Welding can collapse slivers to a point or line; drop those.
		if f[0] == f[1] || f[1] == f[2] || f[2] == f[0] {
			continue
		}
		faces = append(faces, f)
	}
	return &Mesh{Vertices: vertices, Faces: faces}
}

// FromSDF tessellates a signed distance field into a mesh using marching
// cubes at the given cell resolution.
func FromSDF(s sdf.SDF3, cells int) *Mesh {
	renderer := render.NewMarchingCubesUniform(cells)
	return FromTriangles(render.ToTriangles(s, renderer))
}

// NewGrid builds a height-field mesh: an nx by ny vertex grid in the XY
// plane with spacing dx, elevated by height(x, y). Each grid cell becomes
// two triangles.
func NewGrid(nx, ny int, dx float64, height func(x, y float64) float64) *Mesh {
	if nx < 1 || ny < 1 {
		return &Mesh{}
	}
	vertices := make([]v3.Vec, 0, nx*ny)
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			x := float64(i) * dx
			y := float64(j) * dx
			vertices = append(vertices, v3.Vec{X: x, Y: y, Z: height(x, y)})
		}
	}
	faces := make([][3]int, 0, 2*(nx-1)*(ny-1))
	for j := 0; j < ny-1; j++ {
		for i := 0; i < nx-1; i++ {
			a := j*nx + i
			b := a + 1
			c := a + nx
			d := c + 1
			faces = append(faces, [3]int{a, b, d}, [3]int{a, d, c})
		}
	}
	return &Mesh{Vertices: vertices, Faces: faces}
}
