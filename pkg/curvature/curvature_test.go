package curvature_test

import (
	"image/color"
	"math"
	"sort"
	"testing"

	"github.com/AndersDeleuran/MeshAnalysis/pkg/curvature"
	"github.com/AndersDeleuran/MeshAnalysis/pkg/mesh"
)

func flatGrid(n int) *mesh.Mesh {
	return mesh.NewGrid(n, n, 1.0, func(x, y float64) float64 { return 0 })
}

// bumpGrid raises a smooth hill in the middle of a flat grid.
func bumpGrid(n int) *mesh.Mesh {
	c := float64(n-1) / 2
	return mesh.NewGrid(n, n, 1.0, func(x, y float64) float64 {
		d2 := (x-c)*(x-c) + (y-c)*(y-c)
		return 2 * math.Exp(-d2/3)
	})
}

func TestAnalyzeFlatGridIsZero(t *testing.T) {
	res, err := curvature.Analyze(flatGrid(5), curvature.Options{Mode: curvature.Mean})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	for i, v := range res.Values {
		if math.Abs(v) > 1e-9 {
			t.Errorf("vertex %d: curvature %g, want 0 on a flat grid", i, v)
		}
	}
	if math.Abs(res.Sum) > 1e-9 {
		t.Errorf("Sum = %g, want 0", res.Sum)
	}
	if want := 16.0; math.Abs(res.Area-want) > 1e-9 {
		t.Errorf("Area = %g, want %g", res.Area, want)
	}
}

func TestAnalyzePeakIsPositive(t *testing.T) {
	m := bumpGrid(7)
	res, err := curvature.Analyze(m, curvature.Options{Mode: curvature.Mean})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	// Vertex 24 is the grid center, the top of the hill: every neighbour
	// lies below it, so the mean angle exceeds flat.
	center := 3*7 + 3
	if res.Values[center] <= 0 {
		t.Errorf("center curvature = %g, want > 0 at a peak", res.Values[center])
	}
	if res.Max <= 0 {
		t.Errorf("Max = %g, want > 0", res.Max)
	}
}

func TestAnalyzeModeOrdering(t *testing.T) {
	m := bumpGrid(7)

	results := make(map[curvature.Mode]*curvature.Result)
	for _, mode := range []curvature.Mode{curvature.Min, curvature.Mean, curvature.Max} {
		res, err := curvature.Analyze(m, curvature.Options{Mode: mode})
		if err != nil {
			t.Fatalf("Analyze(%v): %v", mode, err)
		}
		results[mode] = res
	}

	for i := range results[curvature.Mean].Values {
		lo := results[curvature.Min].Values[i]
		mid := results[curvature.Mean].Values[i]
		hi := results[curvature.Max].Values[i]
		if lo > mid || mid > hi {
			t.Errorf("vertex %d: min %g, mean %g, max %g out of order", i, lo, mid, hi)
		}
	}
}

func TestAnalyzeAbsolute(t *testing.T) {
	m := bumpGrid(7)
	res, err := curvature.Analyze(m, curvature.Options{Mode: curvature.Min, Absolute: true})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	for i, v := range res.Values {
		if v < 0 {
			t.Errorf("vertex %d: curvature %g, want >= 0 with Absolute", i, v)
		}
	}
}

func TestAnalyzeErrors(t *testing.T) {
	if _, err := curvature.Analyze(flatGrid(3), curvature.Options{Mode: curvature.Mode(9)}); err == nil {
		t.Error("unknown mode accepted")
	}
	if _, err := curvature.Analyze(mesh.New(nil, nil), curvature.Options{}); err == nil {
		t.Error("empty mesh accepted")
	}
}

func TestAnalyzeFlatColorsDegenerate(t *testing.T) {
	// With every value equal there is no range to remap over, so every
	// vertex lands at the bottom of the hue ramp: pure red.
	res, err := curvature.Analyze(flatGrid(4), curvature.Options{Mode: curvature.Mean})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	want := color.RGBA{R: 255, A: 255}
	for i, c := range res.Colors {
		if c != want {
			t.Errorf("vertex %d: color %+v, want %+v", i, c, want)
		}
	}
}

func TestAnalyzeColorRamp(t *testing.T) {
	m := bumpGrid(7)
	res, err := curvature.Analyze(m, curvature.Options{Mode: curvature.Mean})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(res.Colors) != len(res.Values) {
		t.Fatalf("got %d colors for %d values", len(res.Colors), len(res.Values))
	}

	// The lowest value maps to red, the highest to blue.
	lo, hi := 0, 0
	for i, v := range res.Values {
		if v < res.Values[lo] {
			lo = i
		}
		if v > res.Values[hi] {
			hi = i
		}
	}
	if c := res.Colors[lo]; c.R <= c.B {
		t.Errorf("lowest value color %+v, want red dominant", c)
	}
	if c := res.Colors[hi]; c.B <= c.R {
		t.Errorf("highest value color %+v, want blue dominant", c)
	}
}

func TestResultSorted(t *testing.T) {
	res, err := curvature.Analyze(bumpGrid(5), curvature.Options{Mode: curvature.Mean})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	original := append([]float64(nil), res.Values...)

	s := res.Sorted()
	if !sort.Float64sAreSorted(s) {
		t.Error("Sorted output is not ascending")
	}
	for i, v := range res.Values {
		if v != original[i] {
			t.Fatal("Sorted mutated the receiver values")
		}
	}
}
