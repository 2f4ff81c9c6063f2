package zdraw

import (
	"errors"
	"testing"
)

func newSoftware(w, h int) (*SoftwareBackend, *Bitmap) {
	target := NewBitmap(w, h)
	return NewSoftwareBackend(target), target
}

func TestSoftwareClear(t *testing.T) {
	s, target := newSoftware(4, 4)
	if err := s.Clear(Red); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if got := target.GetPixel(2, 2); got.R != 1 || got.A != 1 {
		t.Errorf("pixel after Clear = %+v, want red", got)
	}
}

func TestSoftwareTriangleFill(t *testing.T) {
	s, target := newSoftware(16, 16)
	verts := []Vertex{
		{X: 0, Y: 0, Color: White},
		{X: 16, Y: 0, Color: White},
		{X: 0, Y: 16, Color: White},
	}
	if err := s.SubmitPrimitive(verts, AlphaDefault, nil); err != nil {
		t.Fatalf("SubmitPrimitive: %v", err)
	}
	// Inside the triangle.
	if got := target.GetPixel(3, 3); got.A != 1 {
		t.Errorf("interior pixel = %+v, want opaque white", got)
	}
	// The far corner stays untouched.
	if got := target.GetPixel(15, 15); got.A != 0 {
		t.Errorf("exterior pixel = %+v, want transparent", got)
	}
}

func TestSoftwareQuadWindingInsensitive(t *testing.T) {
	// Clockwise and counter-clockwise vertex orders fill the same area.
	for _, verts := range [][]Vertex{
		{{X: 2, Y: 2, Color: White}, {X: 10, Y: 2, Color: White}, {X: 10, Y: 10, Color: White}, {X: 2, Y: 10, Color: White}},
		{{X: 2, Y: 2, Color: White}, {X: 2, Y: 10, Color: White}, {X: 10, Y: 10, Color: White}, {X: 10, Y: 2, Color: White}},
	} {
		s, target := newSoftware(16, 16)
		if err := s.SubmitPrimitive(verts, AlphaDefault, nil); err != nil {
			t.Fatalf("SubmitPrimitive: %v", err)
		}
		if got := target.GetPixel(5, 5); got.A != 1 {
			t.Errorf("quad interior = %+v, want opaque", got)
		}
	}
}

func TestSoftwareLineEndExclusive(t *testing.T) {
	s, target := newSoftware(16, 16)
	verts := []Vertex{
		{X: 2, Y: 5, Color: White},
		{X: 10, Y: 5, Color: White},
	}
	if err := s.SubmitPrimitive(verts, AlphaDefault, nil); err != nil {
		t.Fatalf("SubmitPrimitive: %v", err)
	}
	if got := target.GetPixel(2, 5); got.A != 1 {
		t.Error("line start pixel not drawn")
	}
	if got := target.GetPixel(9, 5); got.A != 1 {
		t.Error("pixel before end not drawn")
	}
	if got := target.GetPixel(10, 5); got.A != 0 {
		t.Error("end pixel drawn, want last pixel exclusive")
	}
}

func TestSoftwareBadPrimitive(t *testing.T) {
	s, _ := newSoftware(4, 4)
	err := s.SubmitPrimitive([]Vertex{{X: 0, Y: 0}}, AlphaDefault, nil)
	if !errors.Is(err, ErrBadPrimitive) {
		t.Errorf("1-vertex primitive = %v, want ErrBadPrimitive", err)
	}
}

func TestSoftwareScissorClip(t *testing.T) {
	s, target := newSoftware(16, 16)
	clip := NewRect(4, 4, 4, 4)
	verts := []Vertex{
		{X: 0, Y: 0, Color: White},
		{X: 16, Y: 0, Color: White},
		{X: 16, Y: 16, Color: White},
		{X: 0, Y: 16, Color: White},
	}
	if err := s.SubmitPrimitive(verts, AlphaDefault, &clip); err != nil {
		t.Fatalf("SubmitPrimitive: %v", err)
	}
	if got := target.GetPixel(5, 5); got.A != 1 {
		t.Error("pixel inside clip not drawn")
	}
	if got := target.GetPixel(2, 2); got.A != 0 {
		t.Error("pixel outside clip drawn")
	}
	if got := target.GetPixel(9, 9); got.A != 0 {
		t.Error("pixel past clip edge drawn")
	}
}

func TestSoftwareBlendDefault(t *testing.T) {
	s, target := newSoftware(4, 4)
	if err := s.Clear(Black); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	// 50% white over black gives mid grey.
	verts := []Vertex{
		{X: 0, Y: 0, Color: RGBA(1, 1, 1, 0.5)},
		{X: 4, Y: 0, Color: RGBA(1, 1, 1, 0.5)},
		{X: 4, Y: 4, Color: RGBA(1, 1, 1, 0.5)},
		{X: 0, Y: 4, Color: RGBA(1, 1, 1, 0.5)},
	}
	if err := s.SubmitPrimitive(verts, AlphaDefault, nil); err != nil {
		t.Fatalf("SubmitPrimitive: %v", err)
	}
	got := target.GetPixel(2, 2)
	if got.R < 0.45 || got.R > 0.55 {
		t.Errorf("blended R = %g, want about 0.5", got.R)
	}
}

func TestSoftwareBlendAdditive(t *testing.T) {
	s, target := newSoftware(4, 4)
	if err := s.Clear(RGB(0.5, 0, 0)); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	verts := []Vertex{
		{X: 0, Y: 0, Color: RGB(0.75, 0, 0)},
		{X: 4, Y: 0, Color: RGB(0.75, 0, 0)},
		{X: 4, Y: 4, Color: RGB(0.75, 0, 0)},
		{X: 0, Y: 4, Color: RGB(0.75, 0, 0)},
	}
	if err := s.SubmitPrimitive(verts, AlphaAdditive, nil); err != nil {
		t.Fatalf("SubmitPrimitive: %v", err)
	}
	// 0.5 + 0.75 clamps to 1.
	if got := target.GetPixel(2, 2); got.R < 0.99 {
		t.Errorf("additive R = %g, want clamped to 1", got.R)
	}
}

func TestSoftwareBlendMultiply(t *testing.T) {
	s, target := newSoftware(4, 4)
	if err := s.Clear(White); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	verts := []Vertex{
		{X: 0, Y: 0, Color: RGB(0.5, 0.5, 0.5)},
		{X: 4, Y: 0, Color: RGB(0.5, 0.5, 0.5)},
		{X: 4, Y: 4, Color: RGB(0.5, 0.5, 0.5)},
		{X: 0, Y: 4, Color: RGB(0.5, 0.5, 0.5)},
	}
	if err := s.SubmitPrimitive(verts, AlphaMultiply, nil); err != nil {
		t.Fatalf("SubmitPrimitive: %v", err)
	}
	got := target.GetPixel(2, 2)
	if got.R < 0.45 || got.R > 0.55 {
		t.Errorf("multiplied R = %g, want about 0.5", got.R)
	}
}

func TestSoftwareTexturedQuad(t *testing.T) {
	s, target := newSoftware(8, 8)

	src := NewBitmap(2, 2)
	src.Clear(Green)
	tex, err := s.CreateTexture(src, BorderDefault)
	if err != nil {
		t.Fatalf("CreateTexture: %v", err)
	}

	verts := [4]Vertex{
		{X: 0, Y: 0, Color: White, U: 0, V: 0},
		{X: 8, Y: 0, Color: White, U: 1, V: 0},
		{X: 8, Y: 8, Color: White, U: 1, V: 1},
		{X: 0, Y: 8, Color: White, U: 0, V: 1},
	}
	if err := s.SubmitTexturedQuad(tex, verts, AlphaDefault, nil); err != nil {
		t.Fatalf("SubmitTexturedQuad: %v", err)
	}
	if got := target.GetPixel(4, 4); got.G < 0.99 {
		t.Errorf("textured pixel = %+v, want green", got)
	}
}

func TestSoftwareTexturedQuadModulated(t *testing.T) {
	s, target := newSoftware(4, 4)

	src := NewBitmap(1, 1)
	src.Clear(White)
	tex, err := s.CreateTexture(src, BorderDefault)
	if err != nil {
		t.Fatalf("CreateTexture: %v", err)
	}

	half := RGBA(0.5, 0.5, 0.5, 1)
	verts := [4]Vertex{
		{X: 0, Y: 0, Color: half, U: 0, V: 0},
		{X: 4, Y: 0, Color: half, U: 1, V: 0},
		{X: 4, Y: 4, Color: half, U: 1, V: 1},
		{X: 0, Y: 4, Color: half, U: 0, V: 1},
	}
	if err := s.SubmitTexturedQuad(tex, verts, AlphaDefault, nil); err != nil {
		t.Fatalf("SubmitTexturedQuad: %v", err)
	}
	got := target.GetPixel(2, 2)
	if got.R < 0.45 || got.R > 0.55 {
		t.Errorf("modulated R = %g, want about 0.5", got.R)
	}
}

func TestSoftwareCreateTextureTooLarge(t *testing.T) {
	s, _ := newSoftware(4, 4)
	big := NewBitmap(MaxTextureSize+1, 1)
	if _, err := s.CreateTexture(big, BorderDefault); !errors.Is(err, ErrTextureTooLarge) {
		t.Errorf("oversized CreateTexture = %v, want ErrTextureTooLarge", err)
	}
	// MaxTextureSize exactly is fine.
	ok := NewBitmap(MaxTextureSize, 1)
	if _, err := s.CreateTexture(ok, BorderDefault); err != nil {
		t.Errorf("CreateTexture at limit: %v", err)
	}
}

func TestSoftwareForeignTexture(t *testing.T) {
	s, _ := newSoftware(4, 4)
	var verts [4]Vertex
	err := s.SubmitTexturedQuad(&spyTexture{w: 1, h: 1}, verts, AlphaDefault, nil)
	if !errors.Is(err, ErrForeignTexture) {
		t.Errorf("foreign texture = %v, want ErrForeignTexture", err)
	}
}

func TestSoftwareReleasedTexture(t *testing.T) {
	s, _ := newSoftware(4, 4)
	src := NewBitmap(1, 1)
	tex, err := s.CreateTexture(src, BorderDefault)
	if err != nil {
		t.Fatalf("CreateTexture: %v", err)
	}
	tex.Release()
	var verts [4]Vertex
	if err := s.SubmitTexturedQuad(tex, verts, AlphaDefault, nil); !errors.Is(err, ErrForeignTexture) {
		t.Errorf("released texture = %v, want ErrForeignTexture", err)
	}
}

func TestSoftwareBorderSampling(t *testing.T) {
	src := NewBitmap(2, 2)
	src.Clear(Red)

	tests := []struct {
		name  string
		flags BorderFlags
		wantA float64
		u, v  float64
	}{
		{"hard left edge", BorderDefault, 0, -0.1, 0.5},
		{"tileable left edge", BorderTileableLeft, 1, -0.1, 0.5},
		{"hard bottom edge", BorderDefault, 0, 0.5, 1.1},
		{"tileable everything", BorderTileable, 1, 1.1, 1.1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newSoftware(4, 4)
			tex, err := s.CreateTexture(src, tt.flags)
			if err != nil {
				t.Fatalf("CreateTexture: %v", err)
			}
			got := tex.(*softwareTexture).sample(tt.u, tt.v)
			if got.A != tt.wantA {
				t.Errorf("sample(%g,%g) alpha = %g, want %g", tt.u, tt.v, got.A, tt.wantA)
			}
		})
	}
}

func TestSoftwareNativeContext(t *testing.T) {
	s, target := newSoftware(4, 4)
	if s.NativeContext() != any(target) {
		t.Error("NativeContext is not the target bitmap")
	}
	err := s.WithNativeContext(func(ctx any) error {
		bmp, ok := ctx.(*Bitmap)
		if !ok {
			t.Fatal("native context is not a *Bitmap")
		}
		bmp.SetPixel(1, 1, Blue)
		return nil
	})
	if err != nil {
		t.Fatalf("WithNativeContext: %v", err)
	}
	if got := target.GetPixel(1, 1); got.B != 1 {
		t.Error("native pixel write lost")
	}
}
