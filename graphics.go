package zdraw

import "fmt"

// Graphics is a deferred drawing surface. Drawing calls may arrive in any
// order during a frame; each is tagged with a ZPos depth key, captured
// together with the active transform and clip rectangle, and composited in
// depth order when the frame ends.
//
// One Graphics is created per rendering surface and lives for the
// surface's lifetime. It owns one transform stack, one clip stack and one
// command queue; all operations must run on the goroutine owning the
// surface.
type Graphics struct {
	backend RenderBackend

	physWidth  int
	physHeight int
	virtWidth  int
	virtHeight int
	fullscreen bool

	transforms *transformStack
	clips      *clipStack
	frame      *drawQueue

	// queue is the current enqueue target: the frame queue, or the
	// recording queue while a macro recording is active.
	queue     *drawQueue
	recording *drawQueue

	inFrame  bool
	inNative bool
}

// New creates a Graphics for the surface described by size, compositing
// through backend. The size provider is consulted here and on
// SetResolution, never during drawing.
func New(size SizeProvider, backend RenderBackend) (*Graphics, error) {
	if size == nil {
		return nil, fmt.Errorf("zdraw: nil size provider")
	}
	if backend == nil {
		return nil, fmt.Errorf("zdraw: nil backend")
	}
	w, h := size.SurfaceWidth(), size.SurfaceHeight()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("zdraw: invalid surface size %dx%d", w, h)
	}
	g := &Graphics{
		backend:    backend,
		physWidth:  w,
		physHeight: h,
		virtWidth:  w,
		virtHeight: h,
		fullscreen: size.Fullscreen(),
		clips:      newClipStack(),
		frame:      newDrawQueue(),
	}
	g.transforms = newTransformStack(g.baseTransform())
	g.queue = g.frame
	return g, nil
}

// Width returns the virtual width of the drawing surface.
func (g *Graphics) Width() int { return g.virtWidth }

// Height returns the virtual height of the drawing surface.
func (g *Graphics) Height() int { return g.virtHeight }

// Fullscreen reports whether the surface covers the whole screen.
func (g *Graphics) Fullscreen() bool { return g.fullscreen }

// SetResolution changes the virtual resolution. Drawing coordinates are
// scaled from the virtual to the physical size by the base transform.
// The resolution cannot change while a frame is open.
func (g *Graphics) SetResolution(virtualWidth, virtualHeight int) error {
	if g.inFrame {
		return ErrFrameOpen
	}
	if virtualWidth <= 0 || virtualHeight <= 0 {
		return fmt.Errorf("zdraw: invalid resolution %dx%d", virtualWidth, virtualHeight)
	}
	g.virtWidth = virtualWidth
	g.virtHeight = virtualHeight
	g.transforms.reset(g.baseTransform())
	return nil
}

// baseTransform maps virtual coordinates to physical surface pixels.
func (g *Graphics) baseTransform() Transform {
	if g.virtWidth == g.physWidth && g.virtHeight == g.physHeight {
		return Identity()
	}
	return ScaleXY(
		float64(g.physWidth)/float64(g.virtWidth),
		float64(g.physHeight)/float64(g.virtHeight),
		0, 0,
	)
}

// Begin opens a frame: it resets the transform stack to the base
// transform, empties the clip stack and the command queue, and clears the
// target to clearColor. Reentrant Begin is an error.
func (g *Graphics) Begin(clearColor Color) error {
	if g.inFrame {
		return ErrFrameOpen
	}
	if g.recording != nil {
		return ErrRecordingActive
	}
	g.transforms.reset(g.baseTransform())
	g.clips.reset()
	g.frame.reset()
	g.inFrame = true
	if err := g.backend.Clear(clearColor); err != nil {
		g.inFrame = false
		return fmt.Errorf("zdraw: clear: %w", err)
	}
	return nil
}

// End drains the command queue to the backend in depth order and closes
// the frame. Every Begin must have a matching End.
func (g *Graphics) End() error {
	if !g.inFrame {
		return ErrNotBegun
	}
	if g.recording != nil {
		return ErrRecordingActive
	}
	if g.inNative {
		return ErrNativeActive
	}
	g.inFrame = false
	if err := g.frame.drain(g.backend); err != nil {
		return err
	}
	return g.backend.Flush()
}

// Flush drains the command queue exactly as End would, but leaves the
// frame open. The transform and clip stacks are not reset, only the
// queue. Useful for very composite scenes such as split-screen drawing.
func (g *Graphics) Flush() error {
	if !g.inFrame {
		return ErrNotBegun
	}
	if g.recording != nil {
		return ErrRecordingActive
	}
	return g.frame.drain(g.backend)
}

// drawState reports whether a drawing call is currently legal.
func (g *Graphics) drawState() error {
	if g.frame.draining || (g.recording != nil && g.recording.draining) {
		return ErrDrawInCallback
	}
	if g.inNative {
		return ErrNativeActive
	}
	if !g.inFrame && g.recording == nil {
		return ErrNotBegun
	}
	return nil
}

// enqueue captures the active transform and clip into cmd and appends it
// to the current queue.
func (g *Graphics) enqueue(cmd drawCommand) error {
	if err := g.drawState(); err != nil {
		return err
	}
	cmd.transform = g.transforms.active()
	cmd.clip, cmd.clipped = g.clips.current()
	g.queue.enqueue(cmd)
	return nil
}

// PushTransform pushes one transformation onto the transformation stack,
// nesting it inside the current coordinate frame: the new transform is
// applied to points first, then the enclosing frames.
func (g *Graphics) PushTransform(t Transform) error {
	if err := g.drawState(); err != nil {
		return err
	}
	g.transforms.push(t)
	return nil
}

// PopTransform pops one transformation from the transformation stack.
func (g *Graphics) PopTransform() error {
	if err := g.drawState(); err != nil {
		return err
	}
	return g.transforms.pop()
}

// Translate pushes a translation by (x, y). Balance with PopTransform.
func (g *Graphics) Translate(x, y float64) error {
	return g.PushTransform(Translate(x, y))
}

// Rotate pushes a rotation by angle degrees around the pivot
// (aroundX, aroundY). Balance with PopTransform.
func (g *Graphics) Rotate(angleDeg, aroundX, aroundY float64) error {
	return g.PushTransform(Rotate(angleDeg, aroundX, aroundY))
}

// Scale pushes a uniform scale around the origin. Balance with
// PopTransform.
func (g *Graphics) Scale(factor float64) error {
	return g.PushTransform(Scale(factor))
}

// BeginClipping enables clipping to the rectangle (x, y, w, h), given in
// the current transformed space. The rectangle is mapped into surface
// space and intersected with any enclosing clip rectangle; an empty
// intersection is legal and suppresses all geometry until EndClipping.
func (g *Graphics) BeginClipping(x, y, w, h float64) error {
	if err := g.drawState(); err != nil {
		return err
	}
	g.clips.push(g.transforms.active().ApplyRect(NewRect(x, y, w, h)))
	return nil
}

// EndClipping disables the innermost clip rectangle.
func (g *Graphics) EndClipping() error {
	if err := g.drawState(); err != nil {
		return err
	}
	return g.clips.pop()
}

// DrawLine draws a line from one point to another (last pixel exclusive)
// at depth z.
func (g *Graphics) DrawLine(x1, y1 float64, c1 Color, x2, y2 float64, c2 Color, z ZPos, mode AlphaMode) error {
	return g.enqueue(drawCommand{
		kind: kindLine,
		verts: [4]Vertex{
			{X: x1, Y: y1, Color: c1},
			{X: x2, Y: y2, Color: c2},
		},
		vertCount: 2,
		mode:      mode,
		z:         z,
	})
}

// DrawTriangle draws a triangle with per-vertex colors at depth z.
func (g *Graphics) DrawTriangle(x1, y1 float64, c1 Color, x2, y2 float64, c2 Color, x3, y3 float64, c3 Color, z ZPos, mode AlphaMode) error {
	return g.enqueue(drawCommand{
		kind: kindTriangle,
		verts: [4]Vertex{
			{X: x1, Y: y1, Color: c1},
			{X: x2, Y: y2, Color: c2},
			{X: x3, Y: y3, Color: c3},
		},
		vertCount: 3,
		mode:      mode,
		z:         z,
	})
}

// DrawQuad draws a quad with per-vertex colors at depth z. Vertices are
// given in clockwise or counter-clockwise order.
func (g *Graphics) DrawQuad(x1, y1 float64, c1 Color, x2, y2 float64, c2 Color, x3, y3 float64, c3 Color, x4, y4 float64, c4 Color, z ZPos, mode AlphaMode) error {
	return g.enqueue(drawCommand{
		kind: kindQuad,
		verts: [4]Vertex{
			{X: x1, Y: y1, Color: c1},
			{X: x2, Y: y2, Color: c2},
			{X: x3, Y: y3, Color: c3},
			{X: x4, Y: y4, Color: c4},
		},
		vertCount: 4,
		mode:      mode,
		z:         z,
	})
}

// ScheduleGL schedules a custom native callback to be executed at depth z,
// interleaved with draw commands by the usual depth-then-FIFO order. The
// callback runs with scoped native-context access during the drain; zdraw
// drawing calls issued from inside it fail with ErrDrawInCallback.
func (g *Graphics) ScheduleGL(fn func(ctx any) error, z ZPos) error {
	if fn == nil {
		return fmt.Errorf("zdraw: nil native callback")
	}
	return g.enqueue(drawCommand{
		kind:   kindNative,
		native: fn,
		z:      z,
	})
}

// BeginGL finishes all pending drawing operations and hands out the
// backend's native context for immediate custom rendering. The returned
// value is backend-specific; see RenderBackend.NativeContext. Every
// BeginGL must be matched by EndGL.
func (g *Graphics) BeginGL() (any, error) {
	if !g.inFrame {
		return nil, ErrNotBegun
	}
	if g.recording != nil {
		return nil, ErrRecordingActive
	}
	if g.inNative {
		return nil, ErrNativeActive
	}
	if err := g.frame.drain(g.backend); err != nil {
		return nil, err
	}
	if err := g.backend.Flush(); err != nil {
		return nil, err
	}
	g.inNative = true
	return g.backend.NativeContext(), nil
}

// EndGL closes the BeginGL bracket and restores the default rendering
// state.
func (g *Graphics) EndGL() error {
	if !g.inNative {
		return ErrNotInNative
	}
	g.inNative = false
	return g.backend.Flush()
}

// WithGL is the scoped form of BeginGL/EndGL: it flushes pending drawing,
// runs fn with the native context, and restores state on every exit path.
func (g *Graphics) WithGL(fn func(ctx any) error) error {
	ctx, err := g.BeginGL()
	if err != nil {
		return err
	}
	fnErr := fn(ctx)
	if err := g.EndGL(); err != nil {
		return err
	}
	return fnErr
}

// BeginRecording starts recording a macro: subsequent drawing calls are
// collected instead of composited. Recordings cannot be nested, and the
// frame cannot be drained (End, Flush, BeginGL) while one is active.
func (g *Graphics) BeginRecording() error {
	if g.recording != nil {
		return ErrRecordingActive
	}
	if g.frame.draining {
		return ErrDrawInCallback
	}
	g.recording = newDrawQueue()
	g.queue = g.recording
	return nil
}

// EndRecording seals the recording into an immutable Macro. The width and
// height affect nothing about the recorded content; the macro simply
// reports them from Width and Height.
func (g *Graphics) EndRecording(width, height int) (*Macro, error) {
	if g.recording == nil {
		return nil, ErrNoRecording
	}
	cmds := g.recording.ordered()
	g.recording = nil
	g.queue = g.frame
	return &Macro{
		graphics: g,
		width:    width,
		height:   height,
		commands: cmds,
	}, nil
}

// CreateImage turns the sub-rectangle (x, y, w, h) of a bitmap into a
// drawable image backed by a backend texture region. borderFlags controls
// edge sampling at the sub-rectangle boundary. The rectangle must lie
// inside the bitmap and fit the backend's texture limit.
func (g *Graphics) CreateImage(src *Bitmap, x, y, w, h int, borderFlags BorderFlags) (*Image, error) {
	if src == nil {
		return nil, fmt.Errorf("zdraw: nil source bitmap")
	}
	sub, err := src.SubBitmap(x, y, w, h)
	if err != nil {
		return nil, err
	}
	tex, err := g.backend.CreateTexture(sub, borderFlags)
	if err != nil {
		return nil, fmt.Errorf("zdraw: create image %dx%d: %w", w, h, err)
	}
	return &Image{
		graphics: g,
		tex:      tex,
		width:    w,
		height:   h,
	}, nil
}
