package wgpu

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/zdraw"
)

// floatsPerVert must match FLOATS_PER_VERT in the shader:
// x, y, u, v, r, g, b, a.
const floatsPerVert = 8

// batch is a run of consecutive submissions sharing texture, alpha mode
// and clip rectangle. Each batch becomes one compute pass; pass order
// preserves submission order across state changes.
type batch struct {
	tex   *texture
	mode  zdraw.AlphaMode
	clip  *zdraw.Rect
	verts []float32 // triangle list, floatsPerVert floats per vertex
	tris  int
}

// matches reports whether a submission can join the batch.
func (bt *batch) matches(tex *texture, mode zdraw.AlphaMode, clip *zdraw.Rect) bool {
	if bt.tex != tex || bt.mode != mode {
		return false
	}
	if (bt.clip == nil) != (clip == nil) {
		return false
	}
	return clip == nil || *bt.clip == *clip
}

// currentBatch returns the open batch for the given state, starting a new
// one when the state differs from the last submission.
func (b *Backend) currentBatch(tex *texture, mode zdraw.AlphaMode, clip *zdraw.Rect) *batch {
	if n := len(b.batches); n > 0 && b.batches[n-1].matches(tex, mode, clip) {
		return b.batches[n-1]
	}
	bt := &batch{tex: tex, mode: mode}
	if clip != nil {
		c := *clip
		bt.clip = &c
	}
	b.batches = append(b.batches, bt)
	return bt
}

func (bt *batch) pushVert(v zdraw.Vertex) {
	bt.verts = append(bt.verts,
		float32(v.X), float32(v.Y),
		float32(v.U), float32(v.V),
		float32(v.Color.R), float32(v.Color.G), float32(v.Color.B), float32(v.Color.A),
	)
}

func (bt *batch) pushTriangle(v0, v1, v2 zdraw.Vertex) {
	bt.pushVert(v0)
	bt.pushVert(v1)
	bt.pushVert(v2)
	bt.tris++
}

func (bt *batch) pushQuad(v [4]zdraw.Vertex) {
	bt.pushTriangle(v[0], v[1], v[2])
	bt.pushTriangle(v[0], v[2], v[3])
}

// pushLine expands a line into a quad one pixel wide. Compute
// rasterization has no line primitive; a thin quad renders the same
// pixels and keeps the whole batch a triangle list.
func (bt *batch) pushLine(a, b zdraw.Vertex) {
	dx, dy := b.X-a.X, b.Y-a.Y
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}
	nx, ny := -dy/length*0.5, dx/length*0.5
	v0, v1, v2, v3 := a, b, b, a
	v0.X, v0.Y = a.X+nx, a.Y+ny
	v1.X, v1.Y = b.X+nx, b.Y+ny
	v2.X, v2.Y = b.X-nx, b.Y-ny
	v3.X, v3.Y = a.X-nx, a.Y-ny
	bt.pushQuad([4]zdraw.Vertex{v0, v1, v2, v3})
}

// vertexBytes serializes the triangle list little-endian for the storage
// buffer upload.
func (bt *batch) vertexBytes() []byte {
	out := make([]byte, len(bt.verts)*4)
	for i, f := range bt.verts {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(f))
	}
	return out
}

// batchParams is the uniform block of one compute pass. Layout must match
// the Params struct in the shader: 48 bytes, 16-byte aligned.
type batchParams struct {
	width, height uint32
	mode, hasTex  uint32
	clipX0        int32
	clipY0        int32
	clipX1        int32
	clipY1        int32
	triCount      uint32
	texW, texH    uint32
	_pad          uint32
}

// paramBytes builds the uniform contents for a batch against a
// width x height target.
func (bt *batch) paramBytes(width, height int) []byte {
	p := batchParams{
		width:    uint32(width),
		height:   uint32(height),
		mode:     uint32(bt.mode),
		triCount: uint32(bt.tris),
		clipX1:   int32(width),
		clipY1:   int32(height),
	}
	if bt.clip != nil {
		p.clipX0 = int32(math.Floor(bt.clip.X))
		p.clipY0 = int32(math.Floor(bt.clip.Y))
		p.clipX1 = int32(math.Ceil(bt.clip.Right()))
		p.clipY1 = int32(math.Ceil(bt.clip.Bottom()))
	}
	if bt.tex != nil {
		p.hasTex = 1
		p.texW = uint32(bt.tex.width)
		p.texH = uint32(bt.tex.height)
	}

	out := make([]byte, 48)
	le := binary.LittleEndian
	le.PutUint32(out[0:], p.width)
	le.PutUint32(out[4:], p.height)
	le.PutUint32(out[8:], p.mode)
	le.PutUint32(out[12:], p.hasTex)
	le.PutUint32(out[16:], uint32(p.clipX0))
	le.PutUint32(out[20:], uint32(p.clipY0))
	le.PutUint32(out[24:], uint32(p.clipX1))
	le.PutUint32(out[28:], uint32(p.clipY1))
	le.PutUint32(out[32:], p.triCount)
	le.PutUint32(out[36:], p.texW)
	le.PutUint32(out[40:], p.texH)
	return out
}
