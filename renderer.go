package zdraw

// Texture is an opaque handle to a backend-owned texture region.
type Texture interface {
	// Width returns the region width in pixels.
	Width() int

	// Height returns the region height in pixels.
	Height() int

	// Release frees the backend resources behind the handle.
	// Release is idempotent.
	Release()
}

// RenderBackend abstracts batched native draw submission. The core issues
// no native calls except through this interface, and vertices arrive
// already transformed into surface space with their capture-time clip
// attached (nil means unclipped).
//
// Submissions arrive in strict depth-then-FIFO order. A backend may batch
// consecutive submissions that share texture, clip and alpha mode, but it
// must preserve the submission order of visually overlapping primitives.
type RenderBackend interface {
	// Clear fills the whole target with a color.
	Clear(c Color) error

	// SubmitPrimitive draws a colored primitive: 2 vertices for a line,
	// 3 for a triangle, 4 for a quad.
	SubmitPrimitive(verts []Vertex, mode AlphaMode, clip *Rect) error

	// SubmitTexturedQuad draws a textured quad. Vertex U/V coordinates
	// address the texture region in [0, 1].
	SubmitTexturedQuad(tex Texture, verts [4]Vertex, mode AlphaMode, clip *Rect) error

	// WithNativeContext gives fn exclusive scoped access to the backend's
	// native rendering context. The context value is backend-specific:
	// the software backend passes its *Bitmap target, the wgpu backend a
	// gpucontext.DeviceProvider. Pending batches are flushed before fn
	// runs and internal state is restored afterwards.
	WithNativeContext(fn func(ctx any) error) error

	// NativeContext returns the same backend-specific context value that
	// WithNativeContext passes to its callback. Used by the BeginGL/EndGL
	// bracket, which flushes before handing the context out and restores
	// state when the bracket closes.
	NativeContext() any

	// CreateTexture uploads a bitmap as a new texture region.
	// Backends return ErrTextureTooLarge for requests above their limit
	// (at most MaxTextureSize).
	CreateTexture(src *Bitmap, flags BorderFlags) (Texture, error)

	// Flush completes all pending native work.
	Flush() error
}

// SizeProvider reports the physical size of the rendering surface.
// It is consulted at construction and on resolution changes, never during
// drawing.
type SizeProvider interface {
	SurfaceWidth() int
	SurfaceHeight() int
	Fullscreen() bool
}

// fixedSize is a static SizeProvider.
type fixedSize struct {
	w, h       int
	fullscreen bool
}

func (f fixedSize) SurfaceWidth() int  { return f.w }
func (f fixedSize) SurfaceHeight() int { return f.h }
func (f fixedSize) Fullscreen() bool   { return f.fullscreen }

// FixedSize returns a SizeProvider for a surface whose size never changes.
func FixedSize(width, height int, fullscreen bool) SizeProvider {
	return fixedSize{w: width, h: height, fullscreen: fullscreen}
}

// Drawable is a replayable drawing artifact: the object returned by
// EndRecording, and the image handles returned by CreateImage. Width and
// Height are metadata; Draw re-emits content into the owning Graphics'
// active queue.
type Drawable interface {
	Width() int
	Height() int
	Draw(x, y float64, z ZPos) error
}
