package engine

import (
	"fmt"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/AndersDeleuran/MeshAnalysis/pkg/burner"
	"github.com/AndersDeleuran/MeshAnalysis/pkg/curvature"
	"github.com/AndersDeleuran/MeshAnalysis/pkg/drainage"
	"github.com/AndersDeleuran/MeshAnalysis/pkg/mesh"
	"github.com/AndersDeleuran/MeshAnalysis/pkg/paths"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms analysis script source before it reaches
// zygomys:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal),
//     with hyphens normalized to underscores. This avoids registering
//     keyword symbols as globals.
//
//  2. Kebab-case to underscore: burn-fronts -> burn_fronts. zygomys does
//     not allow hyphens in identifiers (it reads them as subtraction).
//
//  3. ; line comments become // comments, which is what zygomys parses.
//
// All transformations respect string literal boundaries.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Copy double-quoted string literals untouched.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to //.
		if b[i] == ';' {
			result = append(result, '/', '/')
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) && isLetter(b[i+1]) {
			j := i + 1
			for j < len(b) && isKWChar(b[j]) {
				j++
			}
			result = append(result, '"')
			result = append(result, []byte(kwPrefix)...)
			for _, c := range b[i+1 : j] {
				if c == '-' {
					c = '_'
				}
				result = append(result, c)
			}
			result = append(result, '"')
			i = j
			continue
		}
		// Kebab-case identifiers: alpha-alpha -> alpha_alpha. Only when
		// the hyphen sits between identifier characters, so minus
		// expressions survive.
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isLetter(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isIdentChar(c) || c == '-'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

// ---------------------------------------------------------------------------
// Custom Sexp types
// ---------------------------------------------------------------------------

// sexpVec wraps a 3D point so scripts can pass positions to builtins.
type sexpVec struct {
	vec v3.Vec
}

func (v *sexpVec) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec %.3f %.3f %.3f)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string and returns the
// keyword name without the prefix.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds a parsed mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a SexpInt or SexpFloat.
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toInt extracts an int from a SexpInt.
func toInt(s zygo.Sexp) (int, error) {
	if v, ok := s.(*zygo.SexpInt); ok {
		return int(v.Val), nil
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toBool extracts a bool from a SexpBool.
func toBool(s zygo.Sexp) (bool, error) {
	if v, ok := s.(*zygo.SexpBool); ok {
		return v.Val, nil
	}
	return false, fmt.Errorf("expected bool, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp,
// handling both preprocessed keywords (__kw_mean) and plain strings.
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	return strings.TrimPrefix(str.S, kwPrefix), nil
}

// toVec extracts a point from a sexpVec.
func toVec(s zygo.Sexp) (v3.Vec, error) {
	if v, ok := s.(*sexpVec); ok {
		return v.vec, nil
	}
	return v3.Vec{}, fmt.Errorf("expected vec, got %T (%s)", s, s.SexpString(nil))
}

// meshArg resolves the first positional argument to a registered mesh.
func meshArg(e *Engine, builtin string, pa kwArgs) (*meshRef, error) {
	if len(pa.positional) < 1 {
		return nil, fmt.Errorf("%s: requires a mesh name argument", builtin)
	}
	name, err := toString(pa.positional[0])
	if err != nil {
		return nil, fmt.Errorf("%s: mesh name: %w", builtin, err)
	}
	m, ok := e.lookupMesh(name)
	if !ok {
		return nil, fmt.Errorf("%s: no mesh registered as %q", builtin, name)
	}
	return &meshRef{name: name, mesh: m}, nil
}

type meshRef struct {
	name string
	mesh *mesh.Mesh
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the analysis builtins into a zygomys
// environment. The builtins read meshes from the engine registry and
// publish their outputs into results.
//
// Source code must be preprocessed with preprocessSource before
// evaluation so that :keyword tokens become recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, e *Engine, results *Results) {

	// -----------------------------------------------------------------------
	// (vec 1.0 2.0 3.0)
	// -----------------------------------------------------------------------
	env.AddFunction("vec", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec: requires 3 coordinates")
		}
		var coords [3]float64
		for i, a := range args {
			f, err := toFloat64(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("vec: %w", err)
			}
			coords[i] = f
		}
		return &sexpVec{vec: v3.Vec{X: coords[0], Y: coords[1], Z: coords[2]}}, nil
	})

	// -----------------------------------------------------------------------
	// (drainage "terrain" :particle-count 64 :max-steps 100 :step-length 0.5
	//           :seed 7 :parallel true :curve 8)
	// -----------------------------------------------------------------------
	env.AddFunction("drainage", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		ref, err := meshArg(e, "drainage", pa)
		if err != nil {
			return zygo.SexpNull, err
		}

		cfg := drainage.Config{ParticleCount: 32, MaxSteps: 100, StepLength: 1}
		if v, ok := pa.kw["particle_count"]; ok {
			if cfg.ParticleCount, err = toInt(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("drainage: particle-count: %w", err)
			}
		}
		if v, ok := pa.kw["max_steps"]; ok {
			if cfg.MaxSteps, err = toInt(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("drainage: max-steps: %w", err)
			}
		}
		if v, ok := pa.kw["step_length"]; ok {
			if cfg.StepLength, err = toFloat64(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("drainage: step-length: %w", err)
			}
		}
		if v, ok := pa.kw["seed"]; ok {
			seed, err := toInt(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("drainage: seed: %w", err)
			}
			cfg.Seed = int64(seed)
		}
		if v, ok := pa.kw["parallel"]; ok {
			if cfg.Parallel, err = toBool(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("drainage: parallel: %w", err)
			}
		}
		curveSegments := 0
		if v, ok := pa.kw["curve"]; ok {
			if curveSegments, err = toInt(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("drainage: curve: %w", err)
			}
		}

		drainPaths, err := drainage.Simulate(ref.mesh, ref.mesh.Vertices, cfg)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("drainage: %w", err)
		}
		for _, p := range drainPaths {
			if curveSegments > 0 {
				results.DrainagePaths = append(results.DrainagePaths, p.Curve(curveSegments))
			} else {
				results.DrainagePaths = append(results.DrainagePaths, p.Polyline())
			}
		}
		return &zygo.SexpInt{Val: int64(len(drainPaths))}, nil
	})

	// -----------------------------------------------------------------------
	// (burn-fronts "terrain")
	// -----------------------------------------------------------------------
	env.AddFunction("burn_fronts", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		ref, err := meshArg(e, "burn-fronts", pa)
		if err != nil {
			return zygo.SexpNull, err
		}
		fronts := burner.BurnFronts(ref.mesh)
		results.BurnFronts = append(results.BurnFronts, fronts...)
		return &zygo.SexpInt{Val: int64(len(fronts))}, nil
	})

	// -----------------------------------------------------------------------
	// (curvature "terrain" :mode :mean :absolute true)
	// -----------------------------------------------------------------------
	env.AddFunction("curvature", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		ref, err := meshArg(e, "curvature", pa)
		if err != nil {
			return zygo.SexpNull, err
		}

		opts := curvature.Options{Mode: curvature.Mean}
		if v, ok := pa.kw["mode"]; ok {
			modeName, err := toKeywordString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("curvature: mode: %w", err)
			}
			switch modeName {
			case "min":
				opts.Mode = curvature.Min
			case "max":
				opts.Mode = curvature.Max
			case "mean":
				opts.Mode = curvature.Mean
			default:
				return zygo.SexpNull, fmt.Errorf("curvature: invalid mode %q, expected min, max or mean", modeName)
			}
		}
		if v, ok := pa.kw["absolute"]; ok {
			if opts.Absolute, err = toBool(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("curvature: absolute: %w", err)
			}
		}

		res, err := curvature.Analyze(ref.mesh, opts)
		if err != nil {
			return zygo.SexpNull, err
		}
		results.Curvature = res
		return &zygo.SexpFloat{Val: res.Sum}, nil
	})

	// -----------------------------------------------------------------------
	// (shortest-walk "terrain" :from (vec 0 0 0) :to (vec 9 9 0)
	//                :graph :vertices :weight :length)
	// -----------------------------------------------------------------------
	env.AddFunction("shortest_walk", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		ref, err := meshArg(e, "shortest-walk", pa)
		if err != nil {
			return zygo.SexpNull, err
		}

		kind := paths.VertexGraph
		if v, ok := pa.kw["graph"]; ok {
			kindName, err := toKeywordString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("shortest-walk: graph: %w", err)
			}
			switch kindName {
			case "vertices":
				kind = paths.VertexGraph
			case "faces":
				kind = paths.FaceGraph
			default:
				return zygo.SexpNull, fmt.Errorf("shortest-walk: invalid graph %q, expected vertices or faces", kindName)
			}
		}
		weighting := paths.EdgeLength
		if v, ok := pa.kw["weight"]; ok {
			weightName, err := toKeywordString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("shortest-walk: weight: %w", err)
			}
			switch weightName {
			case "length":
				weighting = paths.EdgeLength
			case "uniform":
				weighting = paths.Uniform
			default:
				return zygo.SexpNull, fmt.Errorf("shortest-walk: invalid weight %q, expected length or uniform", weightName)
			}
		}

		fromSexp, ok := pa.kw["from"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("shortest-walk: missing :from point")
		}
		from, err := toVec(fromSexp)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("shortest-walk: from: %w", err)
		}
		toSexp, ok := pa.kw["to"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("shortest-walk: missing :to point")
		}
		to, err := toVec(toSexp)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("shortest-walk: to: %w", err)
		}

		g := paths.NewGraph(ref.mesh, kind, weighting)
		walk, err := g.ShortestWalk(from, to)
		if err != nil {
			return zygo.SexpNull, err
		}
		results.Walks = append(results.Walks, walk)
		return &zygo.SexpInt{Val: int64(len(walk))}, nil
	})

	// -----------------------------------------------------------------------
	// (mesh-stats "terrain")
	// -----------------------------------------------------------------------
	env.AddFunction("mesh_stats", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		ref, err := meshArg(e, "mesh-stats", pa)
		if err != nil {
			return zygo.SexpNull, err
		}
		stats := fmt.Sprintf("Vertices: %d\nFaces: %d\nArea: %.3f",
			ref.mesh.VertexCount(), ref.mesh.FaceCount(), ref.mesh.Area())
		return &zygo.SexpStr{S: stats}, nil
	})
}
