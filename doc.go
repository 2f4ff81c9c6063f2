// Package zdraw provides a deferred, Z-ordered 2D drawing surface.
//
// # Overview
//
// zdraw accumulates drawing commands (lines, triangles, quads, images)
// submitted in arbitrary order during a frame, tags each with a depth key
// (ZPos), and composites them in depth order onto a rendering backend.
// Commands at equal depth render in submission order, so layered 2D
// drawing is deterministic: the painter's algorithm with an explicit
// depth override.
//
// # Quick Start
//
//	target := zdraw.NewBitmap(640, 480)
//	g, _ := zdraw.New(zdraw.FixedSize(640, 480, false), zdraw.NewSoftwareBackend(target))
//
//	g.Begin(zdraw.Black)
//	g.DrawQuad(0, 0, zdraw.Red, 100, 0, zdraw.Red, 100, 100, zdraw.Red, 0, 100, zdraw.Red, 1, zdraw.AlphaDefault)
//	g.DrawLine(0, 0, zdraw.White, 100, 100, zdraw.White, 2, zdraw.AlphaDefault)
//	g.End()
//
// # Transforms and Clipping
//
// PushTransform nests a coordinate frame inside the current one; pops must
// balance pushes. BeginClipping intersects nested clip rectangles in
// surface space. Both states are captured per command at submission time,
// so later stack changes never affect already-queued commands.
//
// # Macros
//
// BeginRecording diverts drawing into a private buffer; EndRecording seals
// it into an immutable Macro that can be replayed any number of times with
// a fresh transform and depth offset.
//
// # Custom Native Rendering
//
// ScheduleGL queues a native callback at a depth, interleaved with draw
// commands. BeginGL/EndGL (or the scoped WithGL) flush pending drawing and
// hand out the backend's native context for immediate custom rendering.
//
// # Backends
//
// The software backend composites on the CPU into a Bitmap. The wgpu
// backend (backend/wgpu) runs on the GoGPU stack. Backends register in
// the backend package and are selected by priority via backend.Default.
package zdraw
