package backend

import (
	"errors"

	"github.com/gogpu/zdraw"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not available.
	ErrBackendNotAvailable = errors.New("backend: not available")
)

// Well-known backend names.
const (
	// BackendWgpu is the GPU backend on gogpu/wgpu (backend/wgpu).
	BackendWgpu = "wgpu"

	// BackendSoftware is the CPU fallback backend.
	BackendSoftware = "software"
)

// Factory creates a backend instance sized for a rendering surface.
type Factory func(width, height int) (zdraw.RenderBackend, error)

func init() {
	Register(BackendSoftware, func(width, height int) (zdraw.RenderBackend, error) {
		return zdraw.NewSoftwareBackend(zdraw.NewBitmap(width, height)), nil
	})
}
