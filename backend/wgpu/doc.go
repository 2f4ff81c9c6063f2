// Package wgpu provides a GPU rendering backend for zdraw built on
// gogpu/wgpu compute shaders.
//
// Importing the package registers the backend under the name "wgpu":
//
//	import _ "github.com/gogpu/zdraw/backend/wgpu"
//
//	b, err := backend.New(backend.BackendWgpu, 640, 480)
//
// Submissions accumulate into batches that share texture, alpha mode
// and clip rectangle. Flush composites every batch into a storage
// buffer with one compute pass per batch and reads the result back;
// ReadPixels copies it into a zdraw.Bitmap.
//
// Construction fails when no Vulkan adapter is usable, so
// backend.Default falls through to the software backend on machines
// without a GPU.
package wgpu
