package drainage

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AndersDeleuran/MeshAnalysis/pkg/mesh"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// slopedGrid is a 10x10 height field descending toward +x.
func slopedGrid() *mesh.Mesh {
	return mesh.NewGrid(10, 10, 1.0, func(x, y float64) float64 {
		return -0.5 * x
	})
}

func testConfig() Config {
	return Config{
		ParticleCount: 12,
		MaxSteps:      25,
		StepLength:    0.4,
		Seed:          7,
	}
}

// polylines flattens paths for output comparisons.
func polylines(paths []Path) [][]v3.Vec {
	out := make([][]v3.Vec, len(paths))
	for i, p := range paths {
		out[i] = p.Polyline()
	}
	return out
}

func TestSimulateSlopedGrid(t *testing.T) {
	m := slopedGrid()
	paths, err := Simulate(m, m.Vertices, testConfig())
	require.NoError(t, err)
	require.NotEmpty(t, paths)
	assert.LessOrEqual(t, len(paths), 12)

	for _, p := range paths {
		pts := p.Polyline()
		require.GreaterOrEqual(t, len(pts), 2, "paths shorter than 2 points must be dropped")
		for i := 1; i < len(pts); i++ {
			assert.Less(t, pts[i].Z, pts[i-1].Z, "recorded elevations must strictly descend")
		}
	}
}

func TestSimulateDeterministic(t *testing.T) {
	m := slopedGrid()
	first, err := Simulate(m, m.Vertices, testConfig())
	require.NoError(t, err)
	second, err := Simulate(m, m.Vertices, testConfig())
	require.NoError(t, err)
	assert.Equal(t, polylines(first), polylines(second))
}

func TestSimulateParallelMatchesSequential(t *testing.T) {
	m := slopedGrid()
	cfg := testConfig()

	sequential, err := Simulate(m, m.Vertices, cfg)
	require.NoError(t, err)

	cfg.Parallel = true
	for run := 0; run < 3; run++ {
		parallel, err := Simulate(m, m.Vertices, cfg)
		require.NoError(t, err)
		assert.Equal(t, polylines(sequential), polylines(parallel),
			"parallel output must match sequential output in order and content")
	}
}

func TestSimulateClampsParticleCount(t *testing.T) {
	m := slopedGrid()
	cfg := testConfig()
	cfg.ParticleCount = 100000

	paths, err := Simulate(m, m.Vertices, cfg)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(paths), m.VertexCount())
}

func TestSimulateFlatGridProducesNoPaths(t *testing.T) {
	m := mesh.NewGrid(6, 6, 1.0, func(x, y float64) float64 { return 0 })
	paths, err := Simulate(m, m.Vertices, testConfig())
	require.NoError(t, err)
	assert.Empty(t, paths, "flat surfaces drop every one-point trail")
}

func TestSimulateEmptyCandidates(t *testing.T) {
	paths, err := Simulate(slopedGrid(), nil, testConfig())
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestSimulateNilOracle(t *testing.T) {
	_, err := Simulate(nil, candidateRow(3), testConfig())
	assert.Error(t, err)
}

func TestSimulateInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero particles", func(c *Config) { c.ParticleCount = 0 }},
		{"negative particles", func(c *Config) { c.ParticleCount = -4 }},
		{"zero steps", func(c *Config) { c.MaxSteps = 0 }},
		{"zero step length", func(c *Config) { c.StepLength = 0 }},
		{"negative step length", func(c *Config) { c.StepLength = -1 }},
	}
	m := slopedGrid()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)
			_, err := Simulate(m, m.Vertices, cfg)
			assert.True(t, errors.Is(err, ErrInvalidConfig), "err = %v", err)
		})
	}
}

func TestPathCurveInterpolates(t *testing.T) {
	p := Path{points: []v3.Vec{{}, {X: 1, Z: -1}, {X: 2, Z: -2}}}

	curve := p.Curve(4)
	require.Len(t, curve, 9, "2 spans * 4 segments + 1")
	assert.Equal(t, p.points[0], curve[0])
	assert.Equal(t, p.points[1], curve[4])
	assert.Equal(t, p.points[2], curve[8])

	// One segment per span degenerates to the polyline.
	assert.Equal(t, p.points, p.Curve(1))
}
