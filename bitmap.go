package zdraw

import (
	"image"
	"image/color"
	"image/png"
	"os"

	_ "image/gif"
	_ "image/jpeg"
)

// Bitmap is a rectangular pixel buffer, RGBA format, 4 bytes per pixel.
// It is the pixel source consumed by CreateImage and the render target of
// the software backend. Decoding image files into a Bitmap is the caller's
// concern; use FromImage for stdlib interop.
type Bitmap struct {
	width  int
	height int
	data   []uint8
}

// NewBitmap creates a new bitmap with the given dimensions.
func NewBitmap(width, height int) *Bitmap {
	return &Bitmap{
		width:  width,
		height: height,
		data:   make([]uint8, width*height*4),
	}
}

// Width returns the width of the bitmap.
func (b *Bitmap) Width() int {
	return b.width
}

// Height returns the height of the bitmap.
func (b *Bitmap) Height() int {
	return b.height
}

// Data returns the raw pixel data (RGBA format).
func (b *Bitmap) Data() []uint8 {
	return b.data
}

// SetPixel sets the color of a single pixel.
func (b *Bitmap) SetPixel(x, y int, c Color) {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return
	}
	i := (y*b.width + x) * 4
	b.data[i+0] = uint8(clamp255(c.R * 255))
	b.data[i+1] = uint8(clamp255(c.G * 255))
	b.data[i+2] = uint8(clamp255(c.B * 255))
	b.data[i+3] = uint8(clamp255(c.A * 255))
}

// GetPixel returns the color of a single pixel.
func (b *Bitmap) GetPixel(x, y int) Color {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return Transparent
	}
	i := (y*b.width + x) * 4
	return Color{
		R: float64(b.data[i+0]) / 255,
		G: float64(b.data[i+1]) / 255,
		B: float64(b.data[i+2]) / 255,
		A: float64(b.data[i+3]) / 255,
	}
}

// Clear fills the entire bitmap with a color.
func (b *Bitmap) Clear(c Color) {
	r := uint8(clamp255(c.R * 255))
	g := uint8(clamp255(c.G * 255))
	bl := uint8(clamp255(c.B * 255))
	a := uint8(clamp255(c.A * 255))

	for i := 0; i < len(b.data); i += 4 {
		b.data[i+0] = r
		b.data[i+1] = g
		b.data[i+2] = bl
		b.data[i+3] = a
	}
}

// SubBitmap copies the pixels of the rectangle (x, y, w, h) into a new
// bitmap. The rectangle must lie entirely within the source bounds;
// ErrOutOfBounds is returned otherwise and no bitmap is created.
func (b *Bitmap) SubBitmap(x, y, w, h int) (*Bitmap, error) {
	if x < 0 || y < 0 || w <= 0 || h <= 0 || x+w > b.width || y+h > b.height {
		return nil, ErrOutOfBounds
	}
	sub := NewBitmap(w, h)
	for row := 0; row < h; row++ {
		src := ((y+row)*b.width + x) * 4
		dst := row * w * 4
		copy(sub.data[dst:dst+w*4], b.data[src:src+w*4])
	}
	return sub, nil
}

// ToImage converts the bitmap to an image.RGBA.
func (b *Bitmap) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, b.width, b.height))
	copy(img.Pix, b.data)
	return img
}

// SavePNG saves the bitmap to a PNG file.
func (b *Bitmap) SavePNG(path string) error {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()

	return png.Encode(f, b.ToImage())
}

// LoadBitmap loads an image file into a bitmap. PNG, JPEG and GIF are
// supported.
func LoadBitmap(path string) (*Bitmap, error) {
	f, err := os.Open(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, err
	}
	return FromImage(img), nil
}

// FromImage creates a bitmap from an image.
func FromImage(img image.Image) *Bitmap {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	bm := NewBitmap(width, height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := img.At(bounds.Min.X+x, bounds.Min.Y+y)
			bm.SetPixel(x, y, FromColor(c))
		}
	}

	return bm
}

// At implements the image.Image interface.
func (b *Bitmap) At(x, y int) color.Color {
	return b.GetPixel(x, y).NRGBA()
}

// Bounds implements the image.Image interface.
func (b *Bitmap) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.width, b.height)
}

// ColorModel implements the image.Image interface.
func (b *Bitmap) ColorModel() color.Model {
	return color.NRGBAModel
}
