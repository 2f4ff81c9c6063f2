package wgpu

import (
	"encoding/binary"
	"fmt"
	"sync"
	"time"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/zdraw"
	zbackend "github.com/gogpu/zdraw/backend"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

func init() {
	zbackend.Register(zbackend.BackendWgpu, func(width, height int) (zdraw.RenderBackend, error) {
		return New(width, height)
	})
}

// Backend composites submissions on the GPU with a wgpu/hal compute
// shader. Submissions accumulate into batches keyed on texture, alpha
// mode and clip; Flush encodes one compute pass per batch in a single
// command buffer, relying on the implicit storage barriers between
// passes to keep depth order intact, then reads the target back.
type Backend struct {
	mu sync.Mutex

	width, height int

	instance       hal.Instance
	device         hal.Device
	queue          hal.Queue
	externalDevice bool

	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.ComputePipeline

	storageBuf hal.Buffer // composited target, array<u32>
	stagingBuf hal.Buffer // readback
	dummyTex   hal.Buffer // bound at the texture slot for untextured batches

	pixels  []byte // packed target contents, little-endian RGBA words
	batches []*batch
}

var _ zdraw.RenderBackend = (*Backend)(nil)

// New opens a GPU device and builds the compositing pipeline for a
// width x height target. It fails when no usable adapter is present,
// letting the registry fall through to the software backend.
func New(width, height int) (*Backend, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("wgpu: invalid target size %dx%d", width, height)
	}
	b := &Backend{
		width:  width,
		height: height,
		pixels: make([]byte, width*height*4),
	}
	if err := b.initGPU(); err != nil {
		b.Close()
		return nil, err
	}
	return b, nil
}

func (b *Backend) initGPU() error {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return fmt.Errorf("wgpu: vulkan backend not available")
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return fmt.Errorf("wgpu: create instance: %w", err)
	}
	b.instance = instance
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		return fmt.Errorf("wgpu: no GPU adapters found")
	}
	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		return fmt.Errorf("wgpu: open device: %w", err)
	}
	b.device = openDev.Device
	b.queue = openDev.Queue

	if err := b.createPipeline(); err != nil {
		return err
	}
	if err := b.createTargetBuffers(); err != nil {
		return err
	}
	zdraw.Logger().Info("wgpu: backend initialized",
		"adapter", selected.Info.Name, "width", b.width, "height", b.height)
	return nil
}

// SetDeviceProvider switches the backend onto a shared device, for
// embedding into a host that already owns the GPU. The provider must
// expose the underlying hal handles via HalDevice() any and
// HalQueue() any.
func (b *Backend) SetDeviceProvider(provider gpucontext.DeviceProvider) error {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return fmt.Errorf("wgpu: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return fmt.Errorf("wgpu: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return fmt.Errorf("wgpu: provider HalQueue is not hal.Queue")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.destroyPipeline()
	b.destroyTargetBuffers()
	if !b.externalDevice && b.device != nil {
		b.device.Destroy()
	}
	if b.instance != nil {
		b.instance.Destroy()
		b.instance = nil
	}

	b.device = device
	b.queue = queue
	b.externalDevice = true

	if err := b.createPipeline(); err != nil {
		return fmt.Errorf("wgpu: recreate pipeline on shared device: %w", err)
	}
	if err := b.createTargetBuffers(); err != nil {
		return fmt.Errorf("wgpu: recreate target buffers on shared device: %w", err)
	}
	zdraw.Logger().Info("wgpu: switched to shared GPU device")
	return nil
}

func (b *Backend) createPipeline() error {
	source := hal.ShaderSource{WGSL: compositeShaderWGSL}
	if spirvBytes, err := naga.Compile(compositeShaderWGSL); err == nil {
		spirv := make([]uint32, len(spirvBytes)/4)
		for i := range spirv {
			spirv[i] = binary.LittleEndian.Uint32(spirvBytes[i*4:])
		}
		source = hal.ShaderSource{SPIRV: spirv}
	} else {
		zdraw.Logger().Debug("wgpu: naga compile failed, passing WGSL to driver", "error", err)
	}

	shader, err := b.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "zdraw_composite",
		Source: source,
	})
	if err != nil {
		return fmt.Errorf("wgpu: compile composite shader: %w", err)
	}
	b.shader = shader

	bindLayout, err := b.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "zdraw_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{Binding: 0, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform}},
			{Binding: 1, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage}},
			{Binding: 2, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeStorage}},
			{Binding: 3, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage}},
		},
	})
	if err != nil {
		return fmt.Errorf("wgpu: create bind group layout: %w", err)
	}
	b.bindLayout = bindLayout

	pipeLayout, err := b.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "zdraw_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{b.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("wgpu: create pipeline layout: %w", err)
	}
	b.pipeLayout = pipeLayout

	pipeline, err := b.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label:   "zdraw_composite_pipeline",
		Layout:  b.pipeLayout,
		Compute: hal.ComputeState{Module: b.shader, EntryPoint: "main"},
	})
	if err != nil {
		return fmt.Errorf("wgpu: create compute pipeline: %w", err)
	}
	b.pipeline = pipeline
	return nil
}

func (b *Backend) createTargetBuffers() error {
	size := uint64(b.width * b.height * 4)
	storageBuf, err := b.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "zdraw_target", Size: size,
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopySrc | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("wgpu: create target buffer: %w", err)
	}
	b.storageBuf = storageBuf

	stagingBuf, err := b.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "zdraw_staging", Size: size,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("wgpu: create staging buffer: %w", err)
	}
	b.stagingBuf = stagingBuf

	dummyTex, err := b.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "zdraw_dummy_tex", Size: 4,
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("wgpu: create dummy texture buffer: %w", err)
	}
	b.dummyTex = dummyTex
	b.queue.WriteBuffer(dummyTex, 0, []byte{0, 0, 0, 0})
	return nil
}

func (b *Backend) destroyPipeline() {
	if b.device == nil {
		return
	}
	if b.pipeline != nil {
		b.device.DestroyComputePipeline(b.pipeline)
		b.pipeline = nil
	}
	if b.pipeLayout != nil {
		b.device.DestroyPipelineLayout(b.pipeLayout)
		b.pipeLayout = nil
	}
	if b.bindLayout != nil {
		b.device.DestroyBindGroupLayout(b.bindLayout)
		b.bindLayout = nil
	}
	if b.shader != nil {
		b.device.DestroyShaderModule(b.shader)
		b.shader = nil
	}
}

func (b *Backend) destroyTargetBuffers() {
	if b.device == nil {
		return
	}
	if b.dummyTex != nil {
		b.device.DestroyBuffer(b.dummyTex)
		b.dummyTex = nil
	}
	if b.stagingBuf != nil {
		b.device.DestroyBuffer(b.stagingBuf)
		b.stagingBuf = nil
	}
	if b.storageBuf != nil {
		b.device.DestroyBuffer(b.storageBuf)
		b.storageBuf = nil
	}
}

// Close releases all GPU resources. The backend must not be used after
// Close. Shared devices handed in via SetDeviceProvider are not
// destroyed.
func (b *Backend) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.batches = nil
	b.destroyPipeline()
	b.destroyTargetBuffers()
	if !b.externalDevice && b.device != nil {
		b.device.Destroy()
	}
	b.device = nil
	b.queue = nil
	if b.instance != nil {
		b.instance.Destroy()
		b.instance = nil
	}
}

// Clear implements zdraw.RenderBackend. Pending batches are dropped
// since the fill covers the whole target.
func (b *Backend) Clear(c zdraw.Color) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.batches = b.batches[:0]
	n := c.NRGBA()
	for i := 0; i < len(b.pixels); i += 4 {
		b.pixels[i] = n.R
		b.pixels[i+1] = n.G
		b.pixels[i+2] = n.B
		b.pixels[i+3] = n.A
	}
	return nil
}

// SubmitPrimitive implements zdraw.RenderBackend.
func (b *Backend) SubmitPrimitive(verts []zdraw.Vertex, mode zdraw.AlphaMode, clip *zdraw.Rect) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	bt := b.currentBatch(nil, mode, clip)
	switch len(verts) {
	case 2:
		bt.pushLine(verts[0], verts[1])
	case 3:
		bt.pushTriangle(verts[0], verts[1], verts[2])
	case 4:
		bt.pushQuad([4]zdraw.Vertex{verts[0], verts[1], verts[2], verts[3]})
	default:
		return fmt.Errorf("%w: %d vertices", zdraw.ErrBadPrimitive, len(verts))
	}
	return nil
}

// SubmitTexturedQuad implements zdraw.RenderBackend.
func (b *Backend) SubmitTexturedQuad(tex zdraw.Texture, verts [4]zdraw.Vertex, mode zdraw.AlphaMode, clip *zdraw.Rect) error {
	t, ok := tex.(*texture)
	if !ok {
		return zdraw.ErrForeignTexture
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.currentBatch(t, mode, clip).pushQuad(verts)
	return nil
}

// CreateTexture implements zdraw.RenderBackend.
func (b *Backend) CreateTexture(src *zdraw.Bitmap, flags zdraw.BorderFlags) (zdraw.Texture, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.createTexture(src, flags)
}

// Flush implements zdraw.RenderBackend: uploads the target, encodes one
// compute pass per pending batch, waits for the GPU and reads the
// composited pixels back.
func (b *Backend) Flush() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.flushLocked()
}

func (b *Backend) flushLocked() error {
	if len(b.batches) == 0 {
		return nil
	}
	batches := b.batches
	b.batches = b.batches[:0]

	size := uint64(len(b.pixels))
	b.queue.WriteBuffer(b.storageBuf, 0, b.pixels)

	// Per-batch uniform and vertex buffers live only for this dispatch.
	var scratch []hal.Buffer
	var bindGroups []hal.BindGroup
	defer func() {
		for _, bg := range bindGroups {
			if bg != nil {
				b.device.DestroyBindGroup(bg)
			}
		}
		for _, buf := range scratch {
			if buf != nil {
				b.device.DestroyBuffer(buf)
			}
		}
	}()

	for i, bt := range batches {
		if bt.tris == 0 {
			continue
		}
		paramBytes := bt.paramBytes(b.width, b.height)
		ub, err := b.device.CreateBuffer(&hal.BufferDescriptor{
			Label: "zdraw_params", Size: uint64(len(paramBytes)),
			Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
		})
		if err != nil {
			return fmt.Errorf("wgpu: create uniform buffer %d: %w", i, err)
		}
		scratch = append(scratch, ub)
		b.queue.WriteBuffer(ub, 0, paramBytes)

		vertBytes := bt.vertexBytes()
		vb, err := b.device.CreateBuffer(&hal.BufferDescriptor{
			Label: "zdraw_verts", Size: uint64(len(vertBytes)),
			Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopyDst,
		})
		if err != nil {
			return fmt.Errorf("wgpu: create vertex buffer %d: %w", i, err)
		}
		scratch = append(scratch, vb)
		b.queue.WriteBuffer(vb, 0, vertBytes)

		texBuf := b.dummyTex
		texSize := uint64(4)
		if bt.tex != nil {
			texBuf = bt.tex.pixelBuf
			texSize = uint64(bt.tex.width * bt.tex.height * 4)
		}
		bg, err := b.device.CreateBindGroup(&hal.BindGroupDescriptor{
			Label: "zdraw_bind", Layout: b.bindLayout,
			Entries: []gputypes.BindGroupEntry{
				{Binding: 0, Resource: gputypes.BufferBinding{Buffer: ub.NativeHandle(), Offset: 0, Size: uint64(len(paramBytes))}},
				{Binding: 1, Resource: gputypes.BufferBinding{Buffer: vb.NativeHandle(), Offset: 0, Size: uint64(len(vertBytes))}},
				{Binding: 2, Resource: gputypes.BufferBinding{Buffer: b.storageBuf.NativeHandle(), Offset: 0, Size: size}},
				{Binding: 3, Resource: gputypes.BufferBinding{Buffer: texBuf.NativeHandle(), Offset: 0, Size: texSize}},
			},
		})
		if err != nil {
			return fmt.Errorf("wgpu: create bind group %d: %w", i, err)
		}
		bindGroups = append(bindGroups, bg)
	}

	if len(bindGroups) == 0 {
		return nil
	}
	return b.encodePasses(bindGroups, size)
}

// encodePasses records one compute pass per bind group in a single
// command buffer. Passes over the same storage buffer are ordered by
// implicit barriers, which is what keeps earlier batches beneath later
// ones.
func (b *Backend) encodePasses(bindGroups []hal.BindGroup, size uint64) error {
	encoder, err := b.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "zdraw_encoder"})
	if err != nil {
		return fmt.Errorf("wgpu: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("zdraw_flush"); err != nil {
		return fmt.Errorf("wgpu: begin encoding: %w", err)
	}

	for _, bg := range bindGroups {
		pass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: "zdraw_pass"})
		pass.SetPipeline(b.pipeline)
		pass.SetBindGroup(0, bg, nil)
		pass.Dispatch((uint32(b.width)+7)/8, (uint32(b.height)+7)/8, 1)
		pass.End()
	}

	encoder.CopyBufferToBuffer(b.storageBuf, b.stagingBuf, []hal.BufferCopy{
		{SrcOffset: 0, DstOffset: 0, Size: size},
	})
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("wgpu: end encoding: %w", err)
	}
	defer b.device.FreeCommandBuffer(cmdBuf)

	fence, err := b.device.CreateFence()
	if err != nil {
		return fmt.Errorf("wgpu: create fence: %w", err)
	}
	defer b.device.DestroyFence(fence)
	if err := b.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("wgpu: submit: %w", err)
	}
	fenceOK, err := b.device.Wait(fence, 1, 5*time.Second)
	if err != nil || !fenceOK {
		return fmt.Errorf("wgpu: wait for GPU: ok=%v err=%w", fenceOK, err)
	}

	if err := b.queue.ReadBuffer(b.stagingBuf, 0, b.pixels); err != nil {
		return fmt.Errorf("wgpu: readback: %w", err)
	}
	return nil
}

// ReadPixels copies the composited target into dst, which must match
// the backend size. Pending batches are flushed first.
func (b *Backend) ReadPixels(dst *zdraw.Bitmap) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if dst.Width() != b.width || dst.Height() != b.height {
		return fmt.Errorf("wgpu: pixel readback into %dx%d bitmap, target is %dx%d",
			dst.Width(), dst.Height(), b.width, b.height)
	}
	if err := b.flushLocked(); err != nil {
		return err
	}
	copy(dst.Data(), b.pixels)
	return nil
}

// DeviceContext is the native context handed out by NativeContext and
// WithNativeContext. It exposes the raw hal handles the way shared
// device providers do.
type DeviceContext struct {
	device hal.Device
	queue  hal.Queue
}

// HalDevice returns the underlying hal.Device.
func (c *DeviceContext) HalDevice() any { return c.device }

// HalQueue returns the underlying hal.Queue.
func (c *DeviceContext) HalQueue() any { return c.queue }

// NativeContext implements zdraw.RenderBackend.
func (b *Backend) NativeContext() any {
	b.mu.Lock()
	defer b.mu.Unlock()
	return &DeviceContext{device: b.device, queue: b.queue}
}

// WithNativeContext implements zdraw.RenderBackend. Pending batches are
// flushed so fn sees the target up to date.
func (b *Backend) WithNativeContext(fn func(ctx any) error) error {
	b.mu.Lock()
	if err := b.flushLocked(); err != nil {
		b.mu.Unlock()
		return err
	}
	ctx := &DeviceContext{device: b.device, queue: b.queue}
	b.mu.Unlock()
	return fn(ctx)
}
