package renderer

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-cube/common"
	"github.com/Carmen-Shannon/oxy-cube/engine/clock"
	"github.com/Carmen-Shannon/oxy-cube/engine/light"
	"github.com/Carmen-Shannon/oxy-cube/engine/model"
	"github.com/Carmen-Shannon/oxy-cube/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-cube/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-cube/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-cube/engine/transform"
	"github.com/cogentcore/webgpu/wgpu"
)

//go:embed assets/cube.wgsl
var cubeShaderSource string

const (
	// CubePipelineKey labels the cube's render pipeline and its GPU objects.
	CubePipelineKey = "Cube"

	// VertexEntryPoint and FragmentEntryPoint name the cube shader's stages.
	VertexEntryPoint   = "vertex_transform"
	FragmentEntryPoint = "fragment_lit_textured"

	// ConstantsBufferIndex is the vertex buffer index the frame constants are uploaded to.
	ConstantsBufferIndex = 1

	drawDebugGroup = "Draw Cube"
)

// DefaultClearColor is opaque white.
var DefaultClearColor = wgpu.Color{R: 1, G: 1, B: 1, A: 1}

// CubeShaderSource returns the embedded WGSL used when no WithShaderSource option is given.
//
// Returns:
//   - string: the WGSL source
func CubeShaderSource() string {
	return cubeShaderSource
}

// View is the drawable area the renderer targets. window.Window implements it.
type View interface {
	// PreferredFramesPerSecond returns the rate the host schedules frames at.
	//
	// Returns:
	//   - int: frames per second, values <= 0 mean unknown
	PreferredFramesPerSecond() int

	// DrawableSize returns the size of the drawable surface in pixels.
	//
	// Returns:
	//   - int: the width in pixels
	//   - int: the height in pixels
	DrawableSize() (int, int)
}

// AssetProvider supplies the geometry and pixels uploaded at construction. loader.Assets implements it.
type AssetProvider interface {
	Mesh() (model.Mesh, error)
	Texture() (common.TextureStagingData, error)
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	view    View
	backend RendererBackend

	tick       clock.TickSource
	policy     transform.FramePolicy
	pipeline   pipeline.Pipeline
	depthState DepthStencilState
	frontFace  wgpu.FrontFace

	meshProvider      bind_group_provider.BindGroupProvider
	materialProvider  bind_group_provider.BindGroupProvider
	constantsProvider bind_group_provider.BindGroupProvider

	mesh       model.Mesh
	light      light.Light
	elapsed    float64
	transforms transform.FrameTransforms
	constants  transform.GPUConstants

	// Pre-creation config collected from builder options
	surfaceDescriptor    *wgpu.SurfaceDescriptor
	forceFallbackAdapter bool
	shaderSource         string
	presentMode          *PresentMode
	msaa                 MSAASampleCount
	clearColor           wgpu.Color
	sampler              common.SamplerStagingData
}

// Renderer draws the textured, lit, spinning cube. Each RenderFrame advances time, recomputes the
// transforms and encodes one indexed draw against the current render target.
type Renderer interface {
	// RenderFrame renders one frame. A missing render target or drawable skips the draw or the
	// present; the command buffer is committed either way. Never fails.
	RenderFrame()

	// Update advances the accumulated time by timestep and recomputes the frame transforms for the
	// view's current aspect ratio. Negative or non-finite steps count as zero.
	//
	// Parameters:
	//   - timestep: seconds to advance
	//
	// Returns:
	//   - transform.FrameTransforms: the transforms for the new time
	Update(timestep float64) transform.FrameTransforms

	// ElapsedTime returns the accumulated animation time in seconds.
	//
	// Returns:
	//   - float64: the accumulated time
	ElapsedTime() float64

	// Constants returns the constants uploaded by the most recent frame.
	//
	// Returns:
	//   - transform.GPUConstants: the MVP and normal matrix
	Constants() transform.GPUConstants

	// Transforms returns every matrix of the most recent frame.
	//
	// Returns:
	//   - transform.FrameTransforms: the frame transforms
	Transforms() transform.FrameTransforms

	// Mesh returns the mesh uploaded at construction.
	//
	// Returns:
	//   - model.Mesh: the cube mesh
	Mesh() model.Mesh

	// Pipeline returns the compiled cube pipeline.
	//
	// Returns:
	//   - pipeline.Pipeline: the render pipeline
	Pipeline() pipeline.Pipeline

	// Light returns the light currently uploaded to the GPU.
	//
	// Returns:
	//   - light.Light: the ambient light
	Light() light.Light

	// SetLight replaces the light and uploads it.
	//
	// Parameters:
	//   - l: the new light
	//
	// Returns:
	//   - error: an error if the upload failed
	SetLight(l light.Light) error

	// Resize reconfigures the surface for a new drawable size. The aspect ratio itself is read from
	// the view every frame.
	//
	// Parameters:
	//   - width: the new width in pixels
	//   - height: the new height in pixels
	//
	// Returns:
	//   - error: an error if the surface could not be reconfigured
	Resize(width, height int) error

	// Release frees every GPU resource in reverse creation order. The renderer must not be used afterwards.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer acquires a backend, configures the surface, compiles the cube pipeline and uploads the
// mesh, texture and uniforms. On failure everything created so far is released and no renderer is returned.
//
// Parameters:
//   - view: the drawable area frames are sized and scheduled for
//   - assets: the source of the mesh and texture
//   - options: functional options configuring the backend and the frame
//
// Returns:
//   - Renderer: the ready renderer
//   - error: an error wrapping ErrDeviceUnavailable, ErrPipelineCompilation, ErrMeshBuild or ErrTextureLoad
func NewRenderer(view View, assets AssetProvider, options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		mu:           &sync.Mutex{},
		view:         view,
		tick:         clock.Fixed(),
		policy:       transform.NewFramePolicy(),
		light:        light.DefaultLight(),
		shaderSource: cubeShaderSource,
		msaa:         MSAA4x,
		clearColor:   DefaultClearColor,
		depthState:   DepthStencilState{Compare: wgpu.CompareFunctionLess, WriteEnabled: true},
		frontFace:    wgpu.FrontFaceCCW,
	}
	for _, opt := range options {
		opt(r)
	}

	if err := r.setup(assets); err != nil {
		r.Release()
		return nil, err
	}

	common.Logger().Debug("renderer ready",
		"vertices", r.mesh.VertexCount(),
		"indices", r.mesh.IndexCount(),
		"msaa", uint32(r.msaa),
	)
	return r, nil
}

func (r *renderer) setup(assets AssetProvider) error {
	if r.backend == nil {
		if r.surfaceDescriptor == nil {
			return fmt.Errorf("%w: no surface descriptor or backend provided", ErrDeviceUnavailable)
		}
		backend, err := newWGPURendererBackend(r.surfaceDescriptor, r.forceFallbackAdapter, r.msaa)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrDeviceUnavailable, err)
		}
		r.backend = backend
	}

	if r.presentMode != nil {
		r.backend.SetPresentMode(*r.presentMode)
	}
	r.backend.SetClearColor(r.clearColor)
	width, height := r.view.DrawableSize()
	if err := r.backend.ConfigureSurface(width, height); err != nil {
		return fmt.Errorf("%w: %w", ErrDeviceUnavailable, err)
	}

	if err := r.buildPipeline(); err != nil {
		return fmt.Errorf("%w: %w", ErrPipelineCompilation, err)
	}
	if err := r.uploadMesh(assets); err != nil {
		return fmt.Errorf("%w: %w", ErrMeshBuild, err)
	}
	if err := r.uploadMaterial(assets); err != nil {
		return fmt.Errorf("%w: %w", ErrTextureLoad, err)
	}
	if err := r.allocateConstants(); err != nil {
		return fmt.Errorf("%w: %w", ErrDeviceUnavailable, err)
	}
	return nil
}

func (r *renderer) buildPipeline() error {
	vs, err := shader.NewShader(CubePipelineKey+" Vertex", shader.ShaderTypeVertex, r.shaderSource, shader.WithEntryPoint(VertexEntryPoint))
	if err != nil {
		return err
	}
	fs, err := shader.NewShader(CubePipelineKey+" Fragment", shader.ShaderTypeFragment, r.shaderSource, shader.WithEntryPoint(FragmentEntryPoint))
	if err != nil {
		return err
	}

	p := pipeline.NewPipeline(CubePipelineKey,
		pipeline.WithVertexShader(vs),
		pipeline.WithFragmentShader(fs),
		pipeline.WithFrontFace(r.frontFace),
		pipeline.WithCullMode(wgpu.CullModeBack),
		pipeline.WithDepthCompare(r.depthState.Compare),
		pipeline.WithDepthWriteEnabled(r.depthState.WriteEnabled),
	)
	if err := p.Validate(); err != nil {
		return err
	}
	if err := requireBindings(p); err != nil {
		return err
	}
	if err := r.backend.RegisterRenderPipeline(p); err != nil {
		return err
	}
	r.pipeline = p
	return nil
}

// cubeBindings are the shader variables the renderer binds, by stage, group and binding.
var cubeBindings = []struct {
	stage   shader.ShaderType
	group   int
	binding int
	name    string
}{
	{shader.ShaderTypeVertex, bind_group_provider.FrameGroup, bind_group_provider.ConstantsBinding, "frame"},
	{shader.ShaderTypeFragment, bind_group_provider.MaterialGroup, bind_group_provider.TextureBinding, "cube_texture"},
	{shader.ShaderTypeFragment, bind_group_provider.MaterialGroup, bind_group_provider.SamplerBinding, "cube_sampler"},
	{shader.ShaderTypeFragment, bind_group_provider.MaterialGroup, bind_group_provider.LightBinding, "light"},
}

// requireBindings checks each stage reads every resource the renderer binds, under the
// expected name and at the expected group and binding.
func requireBindings(p pipeline.Pipeline) error {
	for _, want := range cubeBindings {
		s := p.Shader(want.stage)
		if s == nil {
			return fmt.Errorf("pipeline has no %s shader", want.stage)
		}
		binding, ok := s.BindGroupFromVarName(want.group, want.name)
		if !ok {
			return fmt.Errorf("%s stage does not use %q in @group(%d)", want.stage, want.name, want.group)
		}
		if binding != want.binding {
			return fmt.Errorf("%q is at @group(%d) @binding(%d), want @binding(%d)", want.name, want.group, binding, want.binding)
		}
	}
	return nil
}

func (r *renderer) uploadMesh(assets AssetProvider) error {
	mesh, err := assets.Mesh()
	if err != nil {
		return err
	}
	if mesh == nil || mesh.IndexCount() == 0 || mesh.VertexCount() == 0 {
		return model.ErrEmptyMesh
	}
	if err := r.pipeline.CheckVertexLayout(mesh.VertexLayout()); err != nil {
		return err
	}

	provider := bind_group_provider.NewBindGroupProvider(mesh.Label())
	r.meshProvider = provider
	if err := r.backend.InitMeshBuffers(provider, mesh.VertexData(), mesh.IndexData(), mesh.IndexCount(), mesh.IndexFormat()); err != nil {
		return err
	}
	r.mesh = mesh
	return nil
}

func (r *renderer) uploadMaterial(assets AssetProvider) error {
	texture, err := assets.Texture()
	if err != nil {
		return err
	}
	if err := texture.Validate(); err != nil {
		return err
	}

	provider := bind_group_provider.NewBindGroupProvider("Cube Material",
		bind_group_provider.WithGroup(bind_group_provider.MaterialGroup))
	r.materialProvider = provider

	if err := r.backend.InitTextureView(provider, bind_group_provider.TextureBinding, texture); err != nil {
		return err
	}
	if err := r.backend.InitSampler(provider, bind_group_provider.SamplerBinding, r.sampler); err != nil {
		return err
	}
	desc := r.pipeline.BindGroupLayoutDescriptors()[bind_group_provider.MaterialGroup]
	if err := r.backend.InitBindGroup(provider, desc, map[int]uint64{
		bind_group_provider.LightBinding: uint64(r.light.Size()),
	}); err != nil {
		return err
	}
	return r.writeLight(r.light)
}

func (r *renderer) allocateConstants() error {
	provider := bind_group_provider.NewBindGroupProvider("Frame Constants",
		bind_group_provider.WithGroup(bind_group_provider.FrameGroup))
	r.constantsProvider = provider

	desc := r.pipeline.BindGroupLayoutDescriptors()[bind_group_provider.FrameGroup]
	if err := r.backend.InitBindGroup(provider, desc, map[int]uint64{
		bind_group_provider.ConstantsBinding: uint64(r.constants.Size()),
	}); err != nil {
		return err
	}
	r.backend.BindVertexBytes(ConstantsBufferIndex, provider, bind_group_provider.ConstantsBinding)
	return nil
}

func (r *renderer) writeLight(l light.Light) error {
	return r.backend.WriteBuffers([]bind_group_provider.BufferWrite{{
		Provider: r.materialProvider,
		Binding:  bind_group_provider.LightBinding,
		Data:     l.Marshal(),
	}})
}

func (r *renderer) RenderFrame() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.update(r.tick.Step(r.view.PreferredFramesPerSecond()))

	cb, err := r.backend.NewCommandBuffer()
	if err != nil {
		common.Logger().Warn("failed to create command buffer", "error", err)
		return
	}

	if target, ok := r.backend.CurrentRenderTarget(); ok {
		if enc, err := cb.RenderCommandEncoder(target); err != nil {
			common.Logger().Warn("failed to create render command encoder", "error", err)
		} else {
			r.encodeDraw(enc)
			if drawable, ok := r.backend.CurrentDrawable(); ok {
				cb.Present(drawable)
			} else {
				common.Logger().Debug("no drawable, skipping present", "time", r.elapsed)
			}
		}
	} else {
		common.Logger().Debug("no render target, skipping draw", "time", r.elapsed)
	}

	cb.Commit()
}

func (r *renderer) encodeDraw(enc RenderCommandEncoder) {
	enc.PushDebugGroup(drawDebugGroup)
	enc.SetFrontFacing(r.frontFace)
	enc.SetDepthStencilState(r.depthState)
	enc.SetRenderPipeline(r.pipeline)
	enc.SetVertexBuffer(r.meshProvider, 0)
	enc.SetVertexBytes(r.constants.Marshal(), ConstantsBufferIndex)
	enc.SetFragmentTexture(r.materialProvider, 0)
	enc.SetFragmentSampler(r.materialProvider, 0)
	enc.DrawIndexedPrimitives(r.mesh.Topology(), r.mesh.IndexCount(), r.mesh.IndexFormat(), r.meshProvider)
	enc.PopDebugGroup()
	enc.EndEncoding()
}

func (r *renderer) Update(timestep float64) transform.FrameTransforms {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.update(timestep)
}

func (r *renderer) update(timestep float64) transform.FrameTransforms {
	r.elapsed += clock.Sanitize(timestep)
	width, height := r.view.DrawableSize()
	r.transforms = r.policy.ComposeFrame(r.elapsed, transform.AspectRatio(width, height))
	r.constants = r.transforms.Constants()
	return r.transforms
}

func (r *renderer) ElapsedTime() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.elapsed
}

func (r *renderer) Constants() transform.GPUConstants {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.constants
}

func (r *renderer) Transforms() transform.FrameTransforms {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.transforms
}

func (r *renderer) Mesh() model.Mesh {
	return r.mesh
}

func (r *renderer) Pipeline() pipeline.Pipeline {
	return r.pipeline
}

func (r *renderer) Light() light.Light {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.light
}

func (r *renderer) SetLight(l light.Light) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.writeLight(l); err != nil {
		return fmt.Errorf("failed to upload light: %w", err)
	}
	r.light = l
	return nil
}

func (r *renderer) Resize(width, height int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if width <= 0 || height <= 0 {
		// minimized; keep the old swap chain until there is something to draw into
		return nil
	}
	return r.backend.ConfigureSurface(width, height)
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range []bind_group_provider.BindGroupProvider{r.constantsProvider, r.materialProvider, r.meshProvider} {
		if p != nil {
			p.Release()
		}
	}
	r.constantsProvider, r.materialProvider, r.meshProvider = nil, nil, nil

	if r.backend != nil {
		r.backend.Release()
		r.backend = nil
	}
}
