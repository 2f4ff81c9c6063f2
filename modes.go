package zdraw

// ZPos is the depth key controlling paint order among queued commands.
// Lower values render first and are painted over by higher ones.
// Commands sharing a ZPos render in submission order.
type ZPos float64

// MaxTextureSize is the maximum width or height, in pixels, of a texture
// allocated by a backend. CreateImage reports an error for larger requests
// rather than downsampling.
const MaxTextureSize = 1024

// AlphaMode is the compositing rule applied per primitive.
type AlphaMode uint8

const (
	// AlphaDefault interpolates between the destination and the source
	// using the source alpha.
	AlphaDefault AlphaMode = iota

	// AlphaAdditive adds the source, scaled by its alpha, to the destination.
	AlphaAdditive

	// AlphaMultiply multiplies the destination by the source.
	AlphaMultiply
)

// alphaModeNames maps AlphaMode values to their string representation.
var alphaModeNames = [...]string{
	AlphaDefault:  "Default",
	AlphaAdditive: "Additive",
	AlphaMultiply: "Multiply",
}

// String returns the string representation of an AlphaMode.
func (m AlphaMode) String() string {
	if int(m) < len(alphaModeNames) {
		return alphaModeNames[m]
	}
	return "Unknown"
}

// BorderFlags is a bitmask controlling edge-sampling behavior when a
// sub-rectangle is carved out of a larger bitmap. A tileable edge is
// sampled with clamping so that scaled drawing does not bleed in pixels
// from outside the sub-rectangle.
type BorderFlags uint32

const (
	BorderTileableLeft BorderFlags = 1 << iota
	BorderTileableTop
	BorderTileableRight
	BorderTileableBottom

	// BorderTileable marks all four edges tileable.
	BorderTileable = BorderTileableLeft | BorderTileableTop | BorderTileableRight | BorderTileableBottom

	// BorderDefault leaves all edges non-tileable.
	BorderDefault BorderFlags = 0
)
