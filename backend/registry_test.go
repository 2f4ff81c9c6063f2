package backend

import (
	"errors"
	"testing"

	"github.com/gogpu/zdraw"
)

func TestSoftwareRegisteredByDefault(t *testing.T) {
	if !IsRegistered(BackendSoftware) {
		t.Fatal("software backend not registered")
	}
	b, err := New(BackendSoftware, 64, 64)
	if err != nil {
		t.Fatalf("New(software): %v", err)
	}
	if _, ok := b.(*zdraw.SoftwareBackend); !ok {
		t.Errorf("New(software) returned %T", b)
	}
}

func TestNewUnknownBackend(t *testing.T) {
	if _, err := New("no-such-backend", 64, 64); !errors.Is(err, ErrBackendNotAvailable) {
		t.Errorf("New(unknown) = %v, want ErrBackendNotAvailable", err)
	}
}

func TestRegisterUnregister(t *testing.T) {
	name := "test-backend"
	Register(name, func(width, height int) (zdraw.RenderBackend, error) {
		return zdraw.NewSoftwareBackend(zdraw.NewBitmap(width, height)), nil
	})
	defer Unregister(name)

	if !IsRegistered(name) {
		t.Fatal("registered backend not found")
	}
	Unregister(name)
	if IsRegistered(name) {
		t.Error("unregistered backend still found")
	}
}

func TestAvailableContainsSoftware(t *testing.T) {
	for _, name := range Available() {
		if name == BackendSoftware {
			return
		}
	}
	t.Errorf("Available() = %v, missing %q", Available(), BackendSoftware)
}

func TestDefaultFallsThroughFailingFactory(t *testing.T) {
	// A failing wgpu factory must not prevent selection of software.
	Register(BackendWgpu, func(width, height int) (zdraw.RenderBackend, error) {
		return nil, errors.New("no adapter")
	})
	defer Unregister(BackendWgpu)

	b, err := Default(64, 64)
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	if _, ok := b.(*zdraw.SoftwareBackend); !ok {
		t.Errorf("Default selected %T, want software fallback", b)
	}
}

func TestDefaultPrefersWgpu(t *testing.T) {
	stub := zdraw.NewSoftwareBackend(zdraw.NewBitmap(1, 1))
	Register(BackendWgpu, func(width, height int) (zdraw.RenderBackend, error) {
		return stub, nil
	})
	defer Unregister(BackendWgpu)

	b, err := Default(64, 64)
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	if b != zdraw.RenderBackend(stub) {
		t.Error("Default did not prefer the wgpu factory")
	}
}
