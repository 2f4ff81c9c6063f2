package wgpu

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/gogpu/zdraw"
)

func TestBatchMatches(t *testing.T) {
	clipA := zdraw.NewRect(0, 0, 10, 10)
	clipB := zdraw.NewRect(5, 5, 10, 10)

	tests := []struct {
		name string
		bt   *batch
		mode zdraw.AlphaMode
		clip *zdraw.Rect
		want bool
	}{
		{"same state", &batch{mode: zdraw.AlphaDefault}, zdraw.AlphaDefault, nil, true},
		{"mode differs", &batch{mode: zdraw.AlphaDefault}, zdraw.AlphaAdditive, nil, false},
		{"clip appears", &batch{mode: zdraw.AlphaDefault}, zdraw.AlphaDefault, &clipA, false},
		{"clip equal", &batch{mode: zdraw.AlphaDefault, clip: &clipA}, zdraw.AlphaDefault, &clipA, true},
		{"clip differs", &batch{mode: zdraw.AlphaDefault, clip: &clipA}, zdraw.AlphaDefault, &clipB, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.bt.matches(nil, tt.mode, tt.clip); got != tt.want {
				t.Errorf("matches = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBatchVertexPacking(t *testing.T) {
	bt := &batch{}
	bt.pushTriangle(
		zdraw.Vertex{X: 1, Y: 2, U: 0.25, V: 0.5, Color: zdraw.RGBA(0.1, 0.2, 0.3, 0.4)},
		zdraw.Vertex{X: 3, Y: 4, Color: zdraw.White},
		zdraw.Vertex{X: 5, Y: 6, Color: zdraw.White},
	)
	if bt.tris != 1 {
		t.Fatalf("tris = %d, want 1", bt.tris)
	}
	if len(bt.verts) != 3*floatsPerVert {
		t.Fatalf("verts = %d floats, want %d", len(bt.verts), 3*floatsPerVert)
	}

	raw := bt.vertexBytes()
	if len(raw) != len(bt.verts)*4 {
		t.Fatalf("vertexBytes = %d bytes, want %d", len(raw), len(bt.verts)*4)
	}
	// First vertex round-trips little-endian.
	want := []float32{1, 2, 0.25, 0.5, 0.1, 0.2, 0.3, 0.4}
	for i, w := range want {
		got := math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4:]))
		if got != w {
			t.Errorf("float %d = %g, want %g", i, got, w)
		}
	}
}

func TestBatchQuadIsTwoTriangles(t *testing.T) {
	bt := &batch{}
	bt.pushQuad([4]zdraw.Vertex{
		{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10},
	})
	if bt.tris != 2 {
		t.Errorf("tris = %d, want 2", bt.tris)
	}
}

func TestBatchLineExpansion(t *testing.T) {
	bt := &batch{}
	bt.pushLine(zdraw.Vertex{X: 0, Y: 0, Color: zdraw.White}, zdraw.Vertex{X: 10, Y: 0, Color: zdraw.White})
	if bt.tris != 2 {
		t.Errorf("line expanded to %d triangles, want 2", bt.tris)
	}
	// Degenerate lines produce nothing.
	empty := &batch{}
	empty.pushLine(zdraw.Vertex{X: 5, Y: 5}, zdraw.Vertex{X: 5, Y: 5})
	if empty.tris != 0 {
		t.Errorf("zero-length line produced %d triangles", empty.tris)
	}
}

func TestBatchParamBytes(t *testing.T) {
	clip := zdraw.NewRect(2.2, 3.7, 10, 10)
	bt := &batch{mode: zdraw.AlphaAdditive, clip: &clip, tris: 7}

	raw := bt.paramBytes(640, 480)
	if len(raw) != 48 {
		t.Fatalf("paramBytes = %d bytes, want 48", len(raw))
	}
	le := binary.LittleEndian
	if got := le.Uint32(raw[0:]); got != 640 {
		t.Errorf("width = %d, want 640", got)
	}
	if got := le.Uint32(raw[8:]); got != uint32(zdraw.AlphaAdditive) {
		t.Errorf("mode = %d, want %d", got, zdraw.AlphaAdditive)
	}
	if got := le.Uint32(raw[12:]); got != 0 {
		t.Errorf("has_tex = %d, want 0", got)
	}
	// Clip is outset to whole pixels.
	if got := int32(le.Uint32(raw[16:])); got != 2 {
		t.Errorf("clip_x0 = %d, want 2", got)
	}
	if got := int32(le.Uint32(raw[20:])); got != 3 {
		t.Errorf("clip_y0 = %d, want 3", got)
	}
	if got := int32(le.Uint32(raw[24:])); got != 13 {
		t.Errorf("clip_x1 = %d, want 13", got)
	}
	if got := int32(le.Uint32(raw[28:])); got != 14 {
		t.Errorf("clip_y1 = %d, want 14", got)
	}
	if got := le.Uint32(raw[32:]); got != 7 {
		t.Errorf("tri_count = %d, want 7", got)
	}
}

func TestBatchParamBytesUnclipped(t *testing.T) {
	bt := &batch{tris: 1}
	raw := bt.paramBytes(320, 240)
	le := binary.LittleEndian
	// No clip means the scissor covers the whole target.
	if got := int32(le.Uint32(raw[24:])); got != 320 {
		t.Errorf("clip_x1 = %d, want 320", got)
	}
	if got := int32(le.Uint32(raw[28:])); got != 240 {
		t.Errorf("clip_y1 = %d, want 240", got)
	}
}

func TestCompositeShaderNotEmpty(t *testing.T) {
	if compositeShaderWGSL == "" {
		t.Fatal("composite shader source is empty")
	}
}
