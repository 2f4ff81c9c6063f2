package zdraw

// Image is the drawable handle returned by CreateImage: a backend-owned
// texture region carved out of a source bitmap. Higher-level sprite-like
// constructs are expected to wrap it.
type Image struct {
	graphics *Graphics
	tex      Texture
	width    int
	height   int
}

var _ Drawable = (*Image)(nil)

// Width returns the image width in pixels.
func (im *Image) Width() int { return im.width }

// Height returns the image height in pixels.
func (im *Image) Height() int { return im.height }

// Draw draws the image with its top-left corner at (x, y), unit scale,
// unmodulated, at depth z.
func (im *Image) Draw(x, y float64, z ZPos) error {
	w, h := float64(im.width), float64(im.height)
	return im.DrawQuad(
		x, y, White,
		x+w, y, White,
		x+w, y+h, White,
		x, y+h, White,
		z, AlphaDefault,
	)
}

// DrawQuad draws the image onto an arbitrary quad with per-corner color
// modulation. Corners are given in order top-left, top-right,
// bottom-right, bottom-left of the texture region.
func (im *Image) DrawQuad(x1, y1 float64, c1 Color, x2, y2 float64, c2 Color, x3, y3 float64, c3 Color, x4, y4 float64, c4 Color, z ZPos, mode AlphaMode) error {
	return im.graphics.enqueue(drawCommand{
		kind: kindImage,
		verts: [4]Vertex{
			{X: x1, Y: y1, Color: c1, U: 0, V: 0},
			{X: x2, Y: y2, Color: c2, U: 1, V: 0},
			{X: x3, Y: y3, Color: c3, U: 1, V: 1},
			{X: x4, Y: y4, Color: c4, U: 0, V: 1},
		},
		vertCount: 4,
		mode:      mode,
		tex:       im.tex,
		z:         z,
	})
}

// Release frees the backend texture behind the image. The image must not
// be drawn afterwards.
func (im *Image) Release() {
	if im.tex != nil {
		im.tex.Release()
	}
}
