package zdraw

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/fixed"
)

// SoftwareBackend is a pure-CPU RenderBackend compositing into a Bitmap.
// It is the fallback backend and the reference implementation of the
// submission semantics: strict submission order, scissor clipping,
// Gouraud-shaded primitives and UV-interpolated textured quads.
//
// Its native context is the target *Bitmap itself.
type SoftwareBackend struct {
	target *Bitmap
}

var _ RenderBackend = (*SoftwareBackend)(nil)

// NewSoftwareBackend creates a software backend rendering into target.
func NewSoftwareBackend(target *Bitmap) *SoftwareBackend {
	return &SoftwareBackend{target: target}
}

// Target returns the bitmap the backend composites into.
func (s *SoftwareBackend) Target() *Bitmap {
	return s.target
}

// Clear implements RenderBackend.
func (s *SoftwareBackend) Clear(c Color) error {
	s.target.Clear(c)
	return nil
}

// SubmitPrimitive implements RenderBackend.
func (s *SoftwareBackend) SubmitPrimitive(verts []Vertex, mode AlphaMode, clip *Rect) error {
	switch len(verts) {
	case 2:
		s.line(verts[0], verts[1], mode, clip)
	case 3:
		s.triangle(verts[0], verts[1], verts[2], nil, mode, clip)
	case 4:
		s.triangle(verts[0], verts[1], verts[2], nil, mode, clip)
		s.triangle(verts[0], verts[2], verts[3], nil, mode, clip)
	default:
		return ErrBadPrimitive
	}
	return nil
}

// SubmitTexturedQuad implements RenderBackend.
func (s *SoftwareBackend) SubmitTexturedQuad(tex Texture, verts [4]Vertex, mode AlphaMode, clip *Rect) error {
	st, ok := tex.(*softwareTexture)
	if !ok || st.released {
		return ErrForeignTexture
	}
	if st.opaque && mode == AlphaDefault && axisAlignedWhite(verts) {
		s.blitScaled(st, verts, clip)
		return nil
	}
	s.triangle(verts[0], verts[1], verts[2], st, mode, clip)
	s.triangle(verts[0], verts[2], verts[3], st, mode, clip)
	return nil
}

// WithNativeContext implements RenderBackend. The callback receives the
// target bitmap for direct pixel access.
func (s *SoftwareBackend) WithNativeContext(fn func(ctx any) error) error {
	return fn(s.target)
}

// NativeContext implements RenderBackend.
func (s *SoftwareBackend) NativeContext() any {
	return s.target
}

// CreateTexture implements RenderBackend. The software texture limit is
// MaxTextureSize per side.
func (s *SoftwareBackend) CreateTexture(src *Bitmap, flags BorderFlags) (Texture, error) {
	if src.Width() > MaxTextureSize || src.Height() > MaxTextureSize {
		return nil, ErrTextureTooLarge
	}
	return &softwareTexture{
		pixels: src,
		flags:  flags,
		opaque: bitmapOpaque(src),
	}, nil
}

// Flush implements RenderBackend. All software work is immediate.
func (s *SoftwareBackend) Flush() error {
	return nil
}

// softwareTexture is a CPU texture region: the carved-out pixels plus the
// border flags controlling edge sampling.
type softwareTexture struct {
	pixels   *Bitmap
	flags    BorderFlags
	opaque   bool
	released bool
}

func (t *softwareTexture) Width() int  { return t.pixels.Width() }
func (t *softwareTexture) Height() int { return t.pixels.Height() }

func (t *softwareTexture) Release() {
	t.released = true
	t.pixels = nil
}

// sample reads the texel containing (u, v) in [0, 1] region coordinates.
// Taps outside the region are clamped on tileable edges and transparent
// on non-tileable ones, so scaled drawing does not bleed pixels across a
// hard border.
func (t *softwareTexture) sample(u, v float64) Color {
	w, h := t.pixels.Width(), t.pixels.Height()
	x := int(math.Floor(u * float64(w)))
	y := int(math.Floor(v * float64(h)))
	if x < 0 {
		if t.flags&BorderTileableLeft == 0 && u < 0 {
			return Transparent
		}
		x = 0
	}
	if x >= w {
		if t.flags&BorderTileableRight == 0 && u > 1 {
			return Transparent
		}
		x = w - 1
	}
	if y < 0 {
		if t.flags&BorderTileableTop == 0 && v < 0 {
			return Transparent
		}
		y = 0
	}
	if y >= h {
		if t.flags&BorderTileableBottom == 0 && v > 1 {
			return Transparent
		}
		y = h - 1
	}
	return t.pixels.GetPixel(x, y)
}

// clipBounds intersects the target bounds with an optional clip rect and
// returns integer pixel bounds.
func (s *SoftwareBackend) clipBounds(clip *Rect) (x0, y0, x1, y1 int) {
	bounds := NewRect(0, 0, float64(s.target.Width()), float64(s.target.Height()))
	if clip != nil {
		bounds = bounds.Intersect(*clip)
	}
	x0 = int(math.Floor(bounds.X))
	y0 = int(math.Floor(bounds.Y))
	x1 = int(math.Ceil(bounds.Right()))
	y1 = int(math.Ceil(bounds.Bottom()))
	return
}

// line steps from a to b in 26.6 fixed point, writing one pixel per major
// step with linearly interpolated color. The end pixel is exclusive.
func (s *SoftwareBackend) line(a, b Vertex, mode AlphaMode, clip *Rect) {
	cx0, cy0, cx1, cy1 := s.clipBounds(clip)
	dx, dy := b.X-a.X, b.Y-a.Y
	steps := int(math.Max(math.Abs(dx), math.Abs(dy)))
	if steps == 0 {
		return
	}
	x := fixed.Int26_6(a.X * 64)
	y := fixed.Int26_6(a.Y * 64)
	stepX := fixed.Int26_6(dx * 64 / float64(steps))
	stepY := fixed.Int26_6(dy * 64 / float64(steps))
	for i := 0; i < steps; i++ {
		px, py := int(x>>6), int(y>>6)
		if px >= cx0 && px < cx1 && py >= cy0 && py < cy1 {
			t := float64(i) / float64(steps)
			s.blend(px, py, lerpColor(a.Color, b.Color, t), mode)
		}
		x += stepX
		y += stepY
	}
}

// triangle fills a triangle by edge functions, interpolating color and,
// when tex is non-nil, texture coordinates barycentrically.
func (s *SoftwareBackend) triangle(v0, v1, v2 Vertex, tex *softwareTexture, mode AlphaMode, clip *Rect) {
	area := (v1.X-v0.X)*(v2.Y-v0.Y) - (v2.X-v0.X)*(v1.Y-v0.Y)
	if area == 0 {
		return
	}
	if area < 0 {
		v1, v2 = v2, v1
		area = -area
	}

	cx0, cy0, cx1, cy1 := s.clipBounds(clip)
	x0 := int(math.Floor(math.Min(v0.X, math.Min(v1.X, v2.X))))
	y0 := int(math.Floor(math.Min(v0.Y, math.Min(v1.Y, v2.Y))))
	x1 := int(math.Ceil(math.Max(v0.X, math.Max(v1.X, v2.X))))
	y1 := int(math.Ceil(math.Max(v0.Y, math.Max(v1.Y, v2.Y))))
	x0, y0 = max(x0, cx0), max(y0, cy0)
	x1, y1 = min(x1, cx1), min(y1, cy1)

	for py := y0; py < y1; py++ {
		for px := x0; px < x1; px++ {
			fx, fy := float64(px)+0.5, float64(py)+0.5
			w0 := (v1.X-fx)*(v2.Y-fy) - (v2.X-fx)*(v1.Y-fy)
			w1 := (v2.X-fx)*(v0.Y-fy) - (v0.X-fx)*(v2.Y-fy)
			w2 := (v0.X-fx)*(v1.Y-fy) - (v1.X-fx)*(v0.Y-fy)
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}
			// Top-left fill rule: a pixel center exactly on a shared
			// edge belongs to one triangle only, so the two halves of a
			// quad never blend the diagonal twice.
			if (w0 == 0 && !topLeftEdge(v1, v2)) ||
				(w1 == 0 && !topLeftEdge(v2, v0)) ||
				(w2 == 0 && !topLeftEdge(v0, v1)) {
				continue
			}
			b0, b1, b2 := w0/area, w1/area, w2/area
			c := Color{
				R: b0*v0.Color.R + b1*v1.Color.R + b2*v2.Color.R,
				G: b0*v0.Color.G + b1*v1.Color.G + b2*v2.Color.G,
				B: b0*v0.Color.B + b1*v1.Color.B + b2*v2.Color.B,
				A: b0*v0.Color.A + b1*v1.Color.A + b2*v2.Color.A,
			}
			if tex != nil {
				u := b0*v0.U + b1*v1.U + b2*v2.U
				v := b0*v0.V + b1*v1.V + b2*v2.V
				c = tex.sample(u, v).Modulate(c)
			}
			s.blend(px, py, c, mode)
		}
	}
}

// topLeftEdge reports whether the directed edge a->b owns pixel centers
// lying exactly on it. Triangles here wind clockwise in screen space, so
// top edges run left to right and left edges run upward.
func topLeftEdge(a, b Vertex) bool {
	if a.Y == b.Y {
		return b.X > a.X
	}
	return b.Y < a.Y
}

// blitScaled is the fast path for opaque, unmodulated, axis-aligned
// textured quads: a bilinear scaling blit through x/image/draw.
func (s *SoftwareBackend) blitScaled(tex *softwareTexture, verts [4]Vertex, clip *Rect) {
	dst := &image.RGBA{
		Pix:    s.target.Data(),
		Stride: s.target.Width() * 4,
		Rect:   image.Rect(0, 0, s.target.Width(), s.target.Height()),
	}
	src := &image.RGBA{
		Pix:    tex.pixels.Data(),
		Stride: tex.pixels.Width() * 4,
		Rect:   image.Rect(0, 0, tex.pixels.Width(), tex.pixels.Height()),
	}
	dstRect := image.Rect(
		int(math.Round(verts[0].X)), int(math.Round(verts[0].Y)),
		int(math.Round(verts[2].X)), int(math.Round(verts[2].Y)),
	)
	cx0, cy0, cx1, cy1 := s.clipBounds(clip)
	clipped := dstRect.Intersect(image.Rect(cx0, cy0, cx1, cy1))
	if clipped.Empty() {
		return
	}
	if !clipped.Eq(dstRect) {
		draw.BiLinear.Scale(&clippedRGBA{dst, clipped}, dstRect, src, src.Rect, draw.Src, nil)
		return
	}
	draw.BiLinear.Scale(dst, dstRect, src, src.Rect, draw.Src, nil)
}

// clippedRGBA restricts writes to a sub-rectangle of an RGBA image.
type clippedRGBA struct {
	*image.RGBA
	clip image.Rectangle
}

func (c *clippedRGBA) Set(x, y int, col color.Color) {
	if image.Pt(x, y).In(c.clip) {
		c.RGBA.Set(x, y, col)
	}
}

// blend writes one pixel under the given alpha mode.
func (s *SoftwareBackend) blend(x, y int, src Color, mode AlphaMode) {
	dst := s.target.GetPixel(x, y)
	var out Color
	switch mode {
	case AlphaAdditive:
		out = Color{
			R: clamp01(dst.R + src.R*src.A),
			G: clamp01(dst.G + src.G*src.A),
			B: clamp01(dst.B + src.B*src.A),
			A: dst.A,
		}
	case AlphaMultiply:
		out = dst.Modulate(src)
	default:
		a := src.A
		out = Color{
			R: src.R*a + dst.R*(1-a),
			G: src.G*a + dst.G*(1-a),
			B: src.B*a + dst.B*(1-a),
			A: a + dst.A*(1-a),
		}
	}
	s.target.SetPixel(x, y, out)
}

// axisAlignedWhite reports whether the quad is an axis-aligned rectangle
// with all corners unmodulated.
func axisAlignedWhite(verts [4]Vertex) bool {
	for _, v := range verts {
		if v.Color != White {
			return false
		}
	}
	return verts[0].Y == verts[1].Y && verts[2].Y == verts[3].Y &&
		verts[0].X == verts[3].X && verts[1].X == verts[2].X &&
		verts[2].X > verts[0].X && verts[2].Y > verts[0].Y
}

// bitmapOpaque reports whether every pixel has full alpha.
func bitmapOpaque(b *Bitmap) bool {
	data := b.Data()
	for i := 3; i < len(data); i += 4 {
		if data[i] != 0xFF {
			return false
		}
	}
	return true
}

func lerpColor(a, b Color, t float64) Color {
	return Color{
		R: a.R + (b.R-a.R)*t,
		G: a.G + (b.G-a.G)*t,
		B: a.B + (b.B-a.B)*t,
		A: a.A + (b.A-a.A)*t,
	}
}
