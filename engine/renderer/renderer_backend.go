package renderer

import (
	"github.com/Carmen-Shannon/oxy-cube/common"
	"github.com/Carmen-Shannon/oxy-cube/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-cube/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// MSAASampleCount controls the number of samples used for multisample anti-aliasing (MSAA).
// WebGPU guarantees support for 1 (off) and 4; higher values are adapter-dependent.
type MSAASampleCount uint32

const (
	// MSAAOff disables multisample anti-aliasing (sample count 1).
	MSAAOff MSAASampleCount = 1

	// MSAA4x enables 4x multisample anti-aliasing. This is the default.
	MSAA4x MSAASampleCount = 4

	// MSAA8x enables 8x multisample anti-aliasing. Adapter-dependent.
	MSAA8x MSAASampleCount = 8

	// MSAA16x enables 16x multisample anti-aliasing. Adapter-dependent.
	MSAA16x MSAASampleCount = 16
)

// Valid reports whether the count is one of the power-of-two values GPUs accept.
//
// Returns:
//   - bool: true for 1, 4, 8 or 16
func (c MSAASampleCount) Valid() bool {
	switch c {
	case MSAAOff, MSAA4x, MSAA8x, MSAA16x:
		return true
	default:
		return false
	}
}

// DepthStencilState is the depth test requested by the encoder. It mirrors what a pipeline is baked with.
type DepthStencilState = pipeline.DepthStencilState

// RenderTarget is an attachment set a render pass can draw into for the current frame.
type RenderTarget interface {
	// Size returns the target's pixel dimensions.
	//
	// Returns:
	//   - int: the width in pixels
	//   - int: the height in pixels
	Size() (int, int)
}

// Drawable is a presentable surface image acquired for the current frame.
type Drawable interface {
	// Label identifies the drawable in logs.
	//
	// Returns:
	//   - string: a short description of the drawable
	Label() string
}

// CommandBuffer collects the work for one frame. Commit submits it; nothing reaches the GPU before that.
type CommandBuffer interface {
	// RenderCommandEncoder starts a render pass on the target.
	//
	// Parameters:
	//   - target: the frame's render target
	//
	// Returns:
	//   - RenderCommandEncoder: the encoder for the pass
	//   - error: an error if the pass could not be started
	RenderCommandEncoder(target RenderTarget) (RenderCommandEncoder, error)

	// Present schedules the drawable to be shown once the buffer is committed.
	//
	// Parameters:
	//   - drawable: the surface image to present
	Present(drawable Drawable)

	// Commit submits the recorded work and performs any scheduled present.
	Commit()
}

// RenderCommandEncoder records the commands of a single render pass.
type RenderCommandEncoder interface {
	PushDebugGroup(label string)
	PopDebugGroup()

	// SetFrontFacing declares which winding is front facing for the following draws.
	//
	// Parameters:
	//   - winding: the front face winding
	SetFrontFacing(winding wgpu.FrontFace)

	// SetDepthStencilState declares the depth test for the following draws.
	//
	// Parameters:
	//   - state: the depth comparison and write flag
	SetDepthStencilState(state DepthStencilState)

	// SetRenderPipeline binds the compiled pipeline.
	//
	// Parameters:
	//   - p: a pipeline registered with the same backend
	SetRenderPipeline(p pipeline.Pipeline)

	// SetVertexBuffer binds a mesh provider's vertex buffer at a buffer index.
	//
	// Parameters:
	//   - mesh: the provider holding the vertex buffer
	//   - index: the vertex buffer slot
	SetVertexBuffer(mesh bind_group_provider.BindGroupProvider, index int)

	// SetVertexBytes uploads a small block of per-draw constants to a vertex buffer index.
	//
	// Parameters:
	//   - data: the bytes to upload
	//   - index: the buffer index the vertex stage reads them from
	SetVertexBytes(data []byte, index int)

	// SetFragmentTexture binds a provider's texture at a fragment texture index.
	//
	// Parameters:
	//   - material: the provider holding the texture
	//   - index: the fragment texture slot
	SetFragmentTexture(material bind_group_provider.BindGroupProvider, index int)

	// SetFragmentSampler binds a provider's sampler at a fragment sampler index.
	//
	// Parameters:
	//   - material: the provider holding the sampler
	//   - index: the fragment sampler slot
	SetFragmentSampler(material bind_group_provider.BindGroupProvider, index int)

	// DrawIndexedPrimitives draws indexed geometry from the mesh provider's index buffer.
	//
	// Parameters:
	//   - topology: the primitive topology
	//   - indexCount: the number of indices to draw
	//   - format: the index element type
	//   - mesh: the provider holding the index buffer
	DrawIndexedPrimitives(topology wgpu.PrimitiveTopology, indexCount int, format wgpu.IndexFormat, mesh bind_group_provider.BindGroupProvider)

	// EndEncoding closes the pass. The encoder must not be used afterwards.
	EndEncoding()
}

// RendererBackend is the GPU API behind the Renderer. Setup methods create resources and store them
// on bind group providers; per-frame methods hand out command buffers, targets and drawables.
type RendererBackend interface {
	// ConfigureSurface (re)creates the swap chain and the MSAA and depth attachments for a size.
	//
	// Parameters:
	//   - width: the surface width in pixels
	//   - height: the surface height in pixels
	//
	// Returns:
	//   - error: an error if the surface or attachments could not be created
	ConfigureSurface(width, height int) error

	// SetPresentMode sets how frames are delivered to the display. Takes effect on the next ConfigureSurface.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// SetClearColor sets the color the render target is cleared to at the start of every pass.
	//
	// Parameters:
	//   - color: the clear color
	SetClearColor(color wgpu.Color)

	// RegisterRenderPipeline compiles the pipeline's shaders and creates the GPU pipeline object.
	//
	// Parameters:
	//   - p: the pipeline to compile
	//
	// Returns:
	//   - error: an error if any GPU object could not be created
	RegisterRenderPipeline(p pipeline.Pipeline) error

	// InitMeshBuffers uploads vertex and index data and stores the buffers on the provider.
	//
	// Parameters:
	//   - provider: the mesh provider
	//   - vertexData: the raw vertex bytes
	//   - indexData: the raw index bytes
	//   - indexCount: the number of indices
	//   - format: the index element type
	//
	// Returns:
	//   - error: an error if the buffers could not be created
	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int, format wgpu.IndexFormat) error

	// InitTextureView uploads RGBA8 pixels to a texture and stores the texture and its view on the provider.
	//
	// Parameters:
	//   - provider: the material provider
	//   - binding: the binding index of the texture
	//   - data: the pixels and dimensions
	//
	// Returns:
	//   - error: an error if the texture could not be created
	InitTextureView(provider bind_group_provider.BindGroupProvider, binding int, data common.TextureStagingData) error

	// InitSampler creates a sampler and stores it on the provider.
	//
	// Parameters:
	//   - provider: the material provider
	//   - binding: the binding index of the sampler
	//   - data: the sampler configuration
	//
	// Returns:
	//   - error: an error if the sampler could not be created
	InitSampler(provider bind_group_provider.BindGroupProvider, binding int, data common.SamplerStagingData) error

	// InitBindGroup creates missing uniform buffers and the bind group described by the descriptor.
	// Textures and samplers must already be on the provider.
	//
	// Parameters:
	//   - provider: the provider to complete
	//   - descriptor: the layout of the group
	//   - bufferSizes: byte sizes of the uniform buffers to create, keyed by binding
	//
	// Returns:
	//   - error: an error if a resource is missing or could not be created
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferSizes map[int]uint64) error

	// BindVertexBytes routes SetVertexBytes calls for a buffer index into a uniform provider.
	//
	// Parameters:
	//   - index: the buffer index used with SetVertexBytes
	//   - provider: the provider whose buffer and bind group receive the bytes
	//   - binding: the binding of the uniform buffer inside the provider
	BindVertexBytes(index int, provider bind_group_provider.BindGroupProvider, binding int)

	// WriteBuffers queues uniform writes.
	//
	// Parameters:
	//   - writes: the writes to perform
	//
	// Returns:
	//   - error: an error if a write targets a missing buffer
	WriteBuffers(writes []bind_group_provider.BufferWrite) error

	// NewCommandBuffer starts recording a frame.
	//
	// Returns:
	//   - CommandBuffer: the new command buffer
	//   - error: an error if the device could not create an encoder
	NewCommandBuffer() (CommandBuffer, error)

	// CurrentRenderTarget returns the attachments for this frame, acquiring the next surface image
	// if needed. False when the surface is unconfigured or no image is available.
	//
	// Returns:
	//   - RenderTarget: the frame's render target
	//   - bool: whether a target is available
	CurrentRenderTarget() (RenderTarget, bool)

	// CurrentDrawable returns the surface image acquired for this frame, if any.
	//
	// Returns:
	//   - Drawable: the acquired surface image
	//   - bool: whether a drawable is available
	CurrentDrawable() (Drawable, bool)

	// Release frees every GPU object the backend created, then the device, adapter, surface and instance.
	Release()
}
