// Package backend provides the render-backend registry for zdraw.
//
// Backends implement zdraw.RenderBackend and register a Factory under a
// well-known name, typically from an init() function:
//
//	import _ "github.com/gogpu/zdraw/backend/wgpu" // enables the GPU backend
//
//	b, err := backend.Default(640, 480)
//	g, err := zdraw.New(zdraw.FixedSize(640, 480, false), b)
//
// The software backend is always registered; Default falls back to it
// when no GPU backend is available.
package backend
