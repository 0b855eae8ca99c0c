// Package curvature estimates per-vertex mesh curvature from the angles
// between each vertex normal and the vectors to its connected neighbours.
// A flat neighbourhood puts those angles at 90 degrees, so curvature is
// reported as the angle minus 90: negative in valleys, positive on ridges.
package curvature

import (
	"fmt"
	"image/color"
	"math"
	"sort"

	"github.com/AndersDeleuran/MeshAnalysis/pkg/mesh"
)

// Mode selects how the per-neighbour angles are aggregated at a vertex.
type Mode int

const (
	Min Mode = iota
	Max
	Mean
)

func (m Mode) String() string {
	switch m {
	case Min:
		return "min"
	case Max:
		return "max"
	case Mean:
		return "mean"
	}
	return "unknown"
}

// Options configures an analysis run.
type Options struct {
	Mode Mode

	// Absolute treats negative curvature as positive.
	Absolute bool
}

// Result is the outcome of a curvature analysis.
type Result struct {
	// Values is the curvature per vertex, in degrees offset from flat.
	Values []float64
	// Colors maps each vertex onto a red-to-blue ramp over the value range.
	Colors []color.RGBA
	Sum    float64
	Min    float64
	Max    float64
	// Area is the total mesh area, reported alongside the curvature so
	// hosts can normalize across meshes.
	Area float64
}

// Sorted returns the curvature values in ascending order, for graphing
// value distributions. The receiver is not modified.
func (r *Result) Sorted() []float64 {
	s := append([]float64(nil), r.Values...)
	sort.Float64s(s)
	return s
}

// Analyze computes per-vertex curvature for the mesh.
func Analyze(m *mesh.Mesh, opts Options) (*Result, error) {
	if opts.Mode < Min || opts.Mode > Mean {
		return nil, fmt.Errorf("curvature: unknown mode %d", opts.Mode)
	}
	if m.VertexCount() == 0 {
		return nil, fmt.Errorf("curvature: empty mesh")
	}

	values := make([]float64, m.VertexCount())
	for i := 0; i < m.VertexCount(); i++ {
		normal := m.VertexNormal(i)

		var angles []float64
		for _, j := range m.ConnectedVertices(i) {
			dir := m.Vertices[j].Sub(m.Vertices[i])
			if dir.Length2() == 0 {
				continue
			}
			dir = dir.Normalize()
			a := math.Acos(clamp(normal.Dot(dir), -1, 1))*180/math.Pi - 90
			if opts.Absolute {
				a = math.Abs(a)
			}
			angles = append(angles, a)
		}
		if len(angles) == 0 {
			continue
		}

		switch opts.Mode {
		case Min:
			values[i] = minOf(angles)
		case Max:
			values[i] = maxOf(angles)
		case Mean:
			values[i] = meanOf(angles)
		}
	}

	res := &Result{
		Values: values,
		Colors: mapValuesAsColors(values),
		Min:    minOf(values),
		Max:    maxOf(values),
		Area:   m.Area(),
	}
	for _, v := range values {
		res.Sum += v
	}
	return res, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func minOf(vals []float64) float64 {
	m := vals[0]
	for _, v := range vals[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func maxOf(vals []float64) float64 {
	m := vals[0]
	for _, v := range vals[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

func meanOf(vals []float64) float64 {
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}
