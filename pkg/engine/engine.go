// Package engine provides the scripting surface of the analysis suite.
// It wraps zygomys in a sandboxed environment so a host can drive the
// drainage, burner, curvature and paths components from short scripts,
// the way the components sit inside a visual-programming environment.
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/AndersDeleuran/MeshAnalysis/pkg/mesh"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in script code.
type EvalError struct {
	Line    int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Engine evaluates analysis scripts against a registry of named meshes
// supplied by the host. It is safe for concurrent use; each call to
// Evaluate creates a fresh sandboxed environment for determinism.
type Engine struct {
	mu         sync.Mutex
	generation uint64
	meshes     map[string]*mesh.Mesh
}

// NewEngine creates a new Engine with an empty mesh registry.
func NewEngine() *Engine {
	return &Engine{meshes: make(map[string]*mesh.Mesh)}
}

// RegisterMesh makes m available to scripts under the given name,
// replacing any previous mesh of that name.
func (e *Engine) RegisterMesh(name string, m *mesh.Mesh) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.meshes[name] = m
}

// lookupMesh returns the registered mesh of that name.
func (e *Engine) lookupMesh(name string) (*mesh.Mesh, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	m, ok := e.meshes[name]
	return m, ok
}

// Evaluate runs an analysis script and collects everything the script's
// analysis calls produced.
//
// Return semantics:
//   - On success: results + nil errors + nil error
//   - On parse/eval failure: nil results + eval errors + nil error
//   - On fatal failure (timeout, panic): nil + nil + error
func (e *Engine) Evaluate(source string) (*Results, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan evalOutcome, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalOutcome{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		res, evalErrs := e.evaluate(source)
		ch <- evalOutcome{results: res, errors: evalErrs}
	}()

	return waitWithTimeout(ch, gen, &e.mu, &e.generation)
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func (e *Engine) evaluate(source string) (*Results, []EvalError) {
	results := &Results{}

	// Empty source is a valid program that produces nothing.
	if strings.TrimSpace(source) == "" {
		return results, nil
	}

	// Sandbox mode keeps script code away from the filesystem and syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	registerBuiltins(env, e, results)

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return nil, parseZygomysError(err)
	}
	if _, err := env.Run(); err != nil {
		return nil, parseZygomysError(err)
	}
	return results, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into an EvalError, pulling a
// line number out of the message when one is present.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()
	if m := linePattern.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
	}
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
