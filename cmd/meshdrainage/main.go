// meshdrainage runs the drainage-path simulation over a mesh from the
// command line: it reads a Wavefront OBJ mesh, seeds particles at sampled
// vertices, and writes the resulting drainage paths as OBJ line elements.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"gopkg.in/gcfg.v1"

	"github.com/AndersDeleuran/MeshAnalysis/pkg/drainage"
	"github.com/AndersDeleuran/MeshAnalysis/pkg/mesh"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// exampleConfig is printed by -example-config as a starting point.
const exampleConfig = `[Drainage]

# Input mesh (Wavefront OBJ) and output path file (OBJ line elements).
MeshFile = terrain.obj
OutputFile = paths.obj

# Amount of particles randomly picked from the mesh vertices.
ParticleCount = 64

# Amount of steps to iteratively move the particles, and the distance by
# which they are moved at each step.
MaxSteps = 150
StepLength = 0.5

# Random seed for the start point sampling.
Seed = 7

# Fan particle traces out across CPUs. Output is identical either way.
Parallel = true

# When positive, emit smoothed curves with this many samples per span
# instead of raw polylines.
CurveSegments = 0

# Closest-point tolerance; particles farther than this from the mesh
# terminate. Zero means unlimited.
MaxDistance = 0
`

// config mirrors the [Drainage] section of the run file.
type config struct {
	Drainage struct {
		MeshFile      string
		OutputFile    string
		ParticleCount int
		MaxSteps      int
		StepLength    float64
		Seed          int64
		Parallel      bool
		CurveSegments int
		MaxDistance   float64
	}
}

func main() {
	var (
		configFile   string
		printExample bool
	)
	flag.StringVar(&configFile, "config", "", "Configuration file with a [Drainage] section.")
	flag.BoolVar(&printExample, "example-config", false, "Print an example configuration file and exit.")
	flag.Parse()

	if printExample {
		fmt.Print(exampleConfig)
		return
	}
	if configFile == "" {
		log.Fatal("no -config file given (try -example-config)")
	}

	var cfg config
	if err := gcfg.ReadFileInto(&cfg, configFile); err != nil {
		log.Fatalf("reading %s: %v", configFile, err)
	}
	if err := run(cfg); err != nil {
		log.Fatal(err)
	}
}

func run(cfg config) error {
	d := cfg.Drainage

	f, err := os.Open(d.MeshFile)
	if err != nil {
		return err
	}
	m, err := mesh.ReadOBJ(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("%s: %w", d.MeshFile, err)
	}
	m.MaxDistance = d.MaxDistance
	log.Printf("Loaded %s: %d vertices, %d faces", d.MeshFile, m.VertexCount(), m.FaceCount())

	paths, err := drainage.Simulate(m, m.Vertices, drainage.Config{
		ParticleCount: d.ParticleCount,
		MaxSteps:      d.MaxSteps,
		StepLength:    d.StepLength,
		Seed:          d.Seed,
		Parallel:      d.Parallel,
	})
	if err != nil {
		return err
	}
	log.Printf("Traced %d drainage paths", len(paths))

	lines := make([][]v3.Vec, len(paths))
	for i, p := range paths {
		if d.CurveSegments > 0 {
			lines[i] = p.Curve(d.CurveSegments)
		} else {
			lines[i] = p.Polyline()
		}
	}

	out, err := os.Create(d.OutputFile)
	if err != nil {
		return err
	}
	defer out.Close()
	if err := mesh.WriteOBJLines(out, lines); err != nil {
		return fmt.Errorf("%s: %w", d.OutputFile, err)
	}
	log.Printf("Wrote %s", d.OutputFile)
	return nil
}
