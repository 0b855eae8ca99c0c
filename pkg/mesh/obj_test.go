package mesh

import (
	"bytes"
	"strings"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

func TestReadOBJ(t *testing.T) {
	src := `
# comment
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
f 1 2 3 4
`
	m, err := ReadOBJ(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ReadOBJ: %v", err)
	}
	if got := m.VertexCount(); got != 4 {
		t.Errorf("VertexCount() = %d, want 4", got)
	}
	// The quad is fan triangulated.
	if got := m.FaceCount(); got != 2 {
		t.Errorf("FaceCount() = %d, want 2", got)
	}
}

func TestReadOBJCornerFormats(t *testing.T) {
	tests := []struct {
		name string
		face string
	}{
		{"plain", "f 1 2 3"},
		{"with texture", "f 1/1 2/2 3/3"},
		{"with normals", "f 1//1 2//1 3//1"},
		{"negative", "f -3 -2 -1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := "v 0 0 0\nv 1 0 0\nv 0 1 0\n" + tt.face + "\n"
			m, err := ReadOBJ(strings.NewReader(src))
			if err != nil {
				t.Fatalf("ReadOBJ: %v", err)
			}
			if m.FaceCount() != 1 || m.Faces[0] != [3]int{0, 1, 2} {
				t.Errorf("Faces = %v, want [[0 1 2]]", m.Faces)
			}
		})
	}
}

func TestReadOBJErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"short vertex", "v 1 2\n"},
		{"bad coordinate", "v 1 2 x\n"},
		{"short face", "v 0 0 0\nf 1 1\n"},
		{"index out of range", "v 0 0 0\nf 1 2 3\n"},
		{"zero index", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 0 1 2\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadOBJ(strings.NewReader(tt.src)); err == nil {
				t.Error("ReadOBJ succeeded, want error")
			}
		})
	}
}

func TestWriteOBJRoundTrip(t *testing.T) {
	m := flatGrid(3)

	var buf bytes.Buffer
	if err := WriteOBJ(&buf, m); err != nil {
		t.Fatalf("WriteOBJ: %v", err)
	}
	back, err := ReadOBJ(&buf)
	if err != nil {
		t.Fatalf("ReadOBJ: %v", err)
	}
	if back.VertexCount() != m.VertexCount() || back.FaceCount() != m.FaceCount() {
		t.Errorf("round trip: %d/%d vertices, %d/%d faces",
			back.VertexCount(), m.VertexCount(), back.FaceCount(), m.FaceCount())
	}
	for i, v := range back.Vertices {
		if v.Sub(m.Vertices[i]).Length() > 1e-12 {
			t.Errorf("vertex %d = %+v, want %+v", i, v, m.Vertices[i])
		}
	}
}

func TestWriteOBJLines(t *testing.T) {
	lines := [][]v3.Vec{
		{{X: 0}, {X: 1}, {X: 2}},
		{{Y: 0}, {Y: 1}},
	}
	var buf bytes.Buffer
	if err := WriteOBJLines(&buf, lines); err != nil {
		t.Fatalf("WriteOBJLines: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "l 1 2 3") {
		t.Errorf("missing first line element in:\n%s", out)
	}
	if !strings.Contains(out, "l 4 5") {
		t.Errorf("missing second line element (indices must continue across polylines) in:\n%s", out)
	}
}
