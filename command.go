package zdraw

// commandKind identifies the variant of a queued command.
// Each draw command carries a common header (depth, captured transform,
// captured clip) and is dispatched by kind at drain time.
type commandKind uint8

const (
	kindLine commandKind = iota
	kindTriangle
	kindQuad
	kindImage
	kindNative
)

// commandKindNames maps commandKind values to their string representation.
var commandKindNames = [...]string{
	kindLine:     "Line",
	kindTriangle: "Triangle",
	kindQuad:     "Quad",
	kindImage:    "Image",
	kindNative:   "Native",
}

// String returns the string representation of a commandKind.
func (k commandKind) String() string {
	if int(k) < len(commandKindNames) {
		return commandKindNames[k]
	}
	return "Unknown"
}

// drawCommand is one entry of the draw queue: a primitive, a textured quad
// or a scheduled native call, together with the state captured when it was
// submitted. Transform and clip are copied at enqueue time so that later
// stack mutations cannot affect an already-queued command.
type drawCommand struct {
	kind      commandKind
	verts     [4]Vertex
	vertCount int
	mode      AlphaMode
	tex       Texture
	transform Transform
	clip      Rect
	clipped   bool
	z         ZPos

	// native is the scheduled callback for kindNative entries. It receives
	// the backend's native context and must not issue zdraw drawing calls.
	native func(ctx any) error
}

// transformedVerts applies the captured transform, pre-composed with extra,
// and returns the vertices in surface space. Pass Identity() for extra when
// replay composition is not needed.
func (c *drawCommand) transformedVerts(extra Transform) []Vertex {
	t := extra.Concat(c.transform)
	out := make([]Vertex, c.vertCount)
	for i := 0; i < c.vertCount; i++ {
		v := c.verts[i]
		p := t.Apply(Point{v.X, v.Y})
		v.X, v.Y = p.X, p.Y
		out[i] = v
	}
	return out
}
