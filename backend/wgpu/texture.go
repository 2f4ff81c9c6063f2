package wgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/zdraw"
)

// texture is a GPU texture region: a sampleable pixel storage buffer for
// the compute compositor plus a hal texture for native interop.
type texture struct {
	backend *Backend
	width   int
	height  int
	flags   zdraw.BorderFlags

	halTexture hal.Texture
	pixelBuf   hal.Buffer

	released bool
}

var _ zdraw.Texture = (*texture)(nil)

func (t *texture) Width() int  { return t.width }
func (t *texture) Height() int { return t.height }

// Release implements zdraw.Texture. Idempotent.
func (t *texture) Release() {
	if t.released {
		return
	}
	t.released = true
	if t.pixelBuf != nil {
		t.backend.device.DestroyBuffer(t.pixelBuf)
		t.pixelBuf = nil
	}
	if t.halTexture != nil {
		t.backend.device.DestroyTexture(t.halTexture)
		t.halTexture = nil
	}
}

// createTexture uploads src both as a hal texture (for native interop)
// and as a storage buffer the compute compositor samples from.
func (b *Backend) createTexture(src *zdraw.Bitmap, flags zdraw.BorderFlags) (*texture, error) {
	w, h := src.Width(), src.Height()
	if w > zdraw.MaxTextureSize || h > zdraw.MaxTextureSize {
		return nil, zdraw.ErrTextureTooLarge
	}

	halTex, err := b.device.CreateTexture(&hal.TextureDescriptor{
		Label: "zdraw_image",
		Size: hal.Extent3D{
			Width:              uint32(w),
			Height:             uint32(h),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage:         gputypes.TextureUsageCopySrc | gputypes.TextureUsageCopyDst | gputypes.TextureUsageTextureBinding,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create texture: %w", err)
	}

	b.queue.WriteTexture(
		&hal.ImageCopyTexture{
			Texture:  halTex,
			MipLevel: 0,
			Origin:   hal.Origin3D{X: 0, Y: 0, Z: 0},
			Aspect:   gputypes.TextureAspectAll,
		},
		src.Data(),
		&hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  uint32(w * 4),
			RowsPerImage: uint32(h),
		},
		&hal.Extent3D{
			Width:              uint32(w),
			Height:             uint32(h),
			DepthOrArrayLayers: 1,
		},
	)

	pixelBuf, err := b.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "zdraw_image_pixels",
		Size:  uint64(w * h * 4),
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		b.device.DestroyTexture(halTex)
		return nil, fmt.Errorf("wgpu: create texture pixel buffer: %w", err)
	}
	b.queue.WriteBuffer(pixelBuf, 0, src.Data())

	return &texture{
		backend:    b,
		width:      w,
		height:     h,
		flags:      flags,
		halTexture: halTex,
		pixelBuf:   pixelBuf,
	}, nil
}
