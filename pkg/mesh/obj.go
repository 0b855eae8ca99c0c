package mesh

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ReadOBJ parses a Wavefront OBJ stream. Only vertex (v) and face (f)
// records are used; faces with more than three corners are fan
// triangulated. Texture and normal references in face corners are ignored.
func ReadOBJ(r io.Reader) (*Mesh, error) {
	m := &Mesh{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, fmt.Errorf("obj: line %d: vertex needs 3 coordinates", lineNo)
			}
			var coords [3]float64
			for i := 0; i < 3; i++ {
				c, err := strconv.ParseFloat(fields[i+1], 64)
				if err != nil {
					return nil, fmt.Errorf("obj: line %d: %w", lineNo, err)
				}
				coords[i] = c
			}
			m.Vertices = append(m.Vertices, v3.Vec{X: coords[0], Y: coords[1], Z: coords[2]})
		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("obj: line %d: face needs at least 3 corners", lineNo)
			}
			corners := make([]int, 0, len(fields)-1)
			for _, fld := range fields[1:] {
				vi, err := parseOBJIndex(fld, len(m.Vertices))
				if err != nil {
					return nil, fmt.Errorf("obj: line %d: %w", lineNo, err)
				}
				corners = append(corners, vi)
			}
			for i := 1; i < len(corners)-1; i++ {
				m.Faces = append(m.Faces, [3]int{corners[0], corners[i], corners[i+1]})
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("obj: %w", err)
	}
	return m, nil
}

// parseOBJIndex resolves a face corner like "3", "3/1" or "3//2" to a
// zero-based vertex index. OBJ indices are one-based; negative indices
// count back from the current vertex count.
func parseOBJIndex(field string, vertexCount int) (int, error) {
	if i := strings.IndexByte(field, '/'); i >= 0 {
		field = field[:i]
	}
	vi, err := strconv.Atoi(field)
	if err != nil {
		return 0, err
	}
	switch {
	case vi > 0 && vi <= vertexCount:
		return vi - 1, nil
	case vi < 0 && -vi <= vertexCount:
		return vertexCount + vi, nil
	}
	return 0, fmt.Errorf("vertex index %d out of range", vi)
}

// WriteOBJ writes the mesh as Wavefront OBJ.
func WriteOBJ(w io.Writer, m *Mesh) error {
	bw := bufio.NewWriter(w)
	for _, v := range m.Vertices {
		fmt.Fprintf(bw, "v %g %g %g\n", v.X, v.Y, v.Z)
	}
	for _, f := range m.Faces {
		fmt.Fprintf(bw, "f %d %d %d\n", f[0]+1, f[1]+1, f[2]+1)
	}
	return bw.Flush()
}

// WriteOBJLines writes a set of polylines as OBJ line (l) elements, one
// element per polyline.
func WriteOBJLines(w io.Writer, lines [][]v3.Vec) error {
	bw := bufio.NewWriter(w)
	base := 1
	for _, line := range lines {
		for _, p := range line {
			fmt.Fprintf(bw, "v %g %g %g\n", p.X, p.Y, p.Z)
		}
		fmt.Fprint(bw, "l")
		for i := range line {
			fmt.Fprintf(bw, " %d", base+i)
		}
		fmt.Fprintln(bw)
		base += len(line)
	}
	return bw.Flush()
}
