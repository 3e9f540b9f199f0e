package renderer

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-cube/common"
	"github.com/Carmen-Shannon/oxy-cube/engine/model"
	"github.com/Carmen-Shannon/oxy-cube/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-cube/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

type fakeView struct {
	fps           int
	width, height int
}

func (v *fakeView) PreferredFramesPerSecond() int { return v.fps }
func (v *fakeView) DrawableSize() (int, int) { return v.width, v.height }

type fakeAssets struct {
	mesh       model.Mesh
	meshErr    error
	texture    common.TextureStagingData
	textureErr error
}

func (a *fakeAssets) Mesh() (model.Mesh, error) { return a.mesh, a.meshErr }
func (a *fakeAssets) Texture() (common.TextureStagingData, error) { return a.texture, a.textureErr }

type fakeDraw struct {
	topology   wgpu.PrimitiveTopology
	indexCount int
	format     wgpu.IndexFormat
	mesh       string
}

// fakeBackend records every call instead of touching a GPU. It never stores GPU objects on
// providers, so releasing them is a no-op.
type fakeBackend struct {
	calls  []string
	writes []bind_group_provider.BufferWrite
	draws  []fakeDraw

	vertexBytes  map[int][]byte
	vertexTarget map[int]bind_group_provider.BindGroupProvider

	configureErr error
	pipelineErr  error
	meshErr      error
	textureErr   error
	bindGroupErr error
	commandErr   error
	encoderErr   error
	noTarget     bool
	noDrawable   bool

	releases int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		vertexBytes:  make(map[int][]byte),
		vertexTarget: make(map[int]bind_group_provider.BindGroupProvider),
	}
}

func (f *fakeBackend) record(format string, args ...any) {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

func (f *fakeBackend) ConfigureSurface(width, height int) error {
	f.record("ConfigureSurface %dx%d", width, height)
	return f.configureErr
}

func (f *fakeBackend) SetPresentMode(mode PresentMode) {
	f.record("SetPresentMode %d", mode)
}

func (f *fakeBackend) SetClearColor(color wgpu.Color) {
	f.record("SetClearColor %v", color)
}

func (f *fakeBackend) RegisterRenderPipeline(p pipeline.Pipeline) error {
	f.record("RegisterRenderPipeline %s", p.PipelineKey())
	return f.pipelineErr
}

func (f *fakeBackend) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int, format wgpu.IndexFormat) error {
	f.record("InitMeshBuffers %d %d %d", len(vertexData), len(indexData), indexCount)
	if f.meshErr != nil {
		return f.meshErr
	}
	provider.SetGeometry(nil, nil, indexCount, format)
	return nil
}

func (f *fakeBackend) InitTextureView(provider bind_group_provider.BindGroupProvider, binding int, data common.TextureStagingData) error {
	f.record("InitTextureView %d %dx%d", binding, data.Width, data.Height)
	return f.textureErr
}

func (f *fakeBackend) InitSampler(provider bind_group_provider.BindGroupProvider, binding int, data common.SamplerStagingData) error {
	f.record("InitSampler %d", binding)
	return nil
}

func (f *fakeBackend) InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferSizes map[int]uint64) error {
	f.record("InitBindGroup %s %d", provider.Label(), len(descriptor.Entries))
	return f.bindGroupErr
}

func (f *fakeBackend) BindVertexBytes(index int, provider bind_group_provider.BindGroupProvider, binding int) {
	f.record("BindVertexBytes %d %s", index, provider.Label())
	f.vertexTarget[index] = provider
}

func (f *fakeBackend) WriteBuffers(writes []bind_group_provider.BufferWrite) error {
	f.record("WriteBuffers %d", len(writes))
	f.writes = append(f.writes, writes...)
	return nil
}

func (f *fakeBackend) NewCommandBuffer() (CommandBuffer, error) {
	f.record("NewCommandBuffer")
	if f.commandErr != nil {
		return nil, f.commandErr
	}
	return &fakeCommandBuffer{backend: f}, nil
}

func (f *fakeBackend) CurrentRenderTarget() (RenderTarget, bool) {
	f.record("CurrentRenderTarget")
	if f.noTarget {
		return nil, false
	}
	return fakeTarget{}, true
}

func (f *fakeBackend) CurrentDrawable() (Drawable, bool) {
	f.record("CurrentDrawable")
	if f.noDrawable {
		return nil, false
	}
	return fakeDrawable{}, true
}

func (f *fakeBackend) Release() {
	f.releases++
}

type fakeTarget struct{}

func (fakeTarget) Size() (int, int) { return 800, 600 }

type fakeDrawable struct{}

func (fakeDrawable) Label() string { return "fake drawable" }

type fakeCommandBuffer struct {
	backend *fakeBackend
}

func (c *fakeCommandBuffer) RenderCommandEncoder(target RenderTarget) (RenderCommandEncoder, error) {
	c.backend.record("RenderCommandEncoder")
	if c.backend.encoderErr != nil {
		return nil, c.backend.encoderErr
	}
	return &fakeEncoder{backend: c.backend}, nil
}

func (c *fakeCommandBuffer) Present(drawable Drawable) {
	c.backend.record("Present %s", drawable.Label())
}

func (c *fakeCommandBuffer) Commit() {
	c.backend.record("Commit")
}

type fakeEncoder struct {
	backend *fakeBackend
}

func (e *fakeEncoder) PushDebugGroup(label string) {
	e.backend.record("PushDebugGroup %s", label)
}

func (e *fakeEncoder) PopDebugGroup() {
	e.backend.record("PopDebugGroup")
}

func (e *fakeEncoder) SetFrontFacing(winding wgpu.FrontFace) {
	e.backend.record("SetFrontFacing %d", winding)
}

func (e *fakeEncoder) SetDepthStencilState(state DepthStencilState) {
	e.backend.record("SetDepthStencilState %d %t", state.Compare, state.WriteEnabled)
}

func (e *fakeEncoder) SetRenderPipeline(p pipeline.Pipeline) {
	e.backend.record("SetRenderPipeline %s", p.PipelineKey())
}

func (e *fakeEncoder) SetVertexBuffer(mesh bind_group_provider.BindGroupProvider, index int) {
	e.backend.record("SetVertexBuffer %s %d", mesh.Label(), index)
}

func (e *fakeEncoder) SetVertexBytes(data []byte, index int) {
	e.backend.record("SetVertexBytes %d %d", len(data), index)
	e.backend.vertexBytes[index] = append([]byte(nil), data...)
}

func (e *fakeEncoder) SetFragmentTexture(material bind_group_provider.BindGroupProvider, index int) {
	e.backend.record("SetFragmentTexture %s %d", material.Label(), index)
}

func (e *fakeEncoder) SetFragmentSampler(material bind_group_provider.BindGroupProvider, index int) {
	e.backend.record("SetFragmentSampler %s %d", material.Label(), index)
}

func (e *fakeEncoder) DrawIndexedPrimitives(topology wgpu.PrimitiveTopology, indexCount int, format wgpu.IndexFormat, mesh bind_group_provider.BindGroupProvider) {
	e.backend.record("DrawIndexedPrimitives")
	e.backend.draws = append(e.backend.draws, fakeDraw{
		topology:   topology,
		indexCount: indexCount,
		format:     format,
		mesh:       mesh.Label(),
	})
}

func (e *fakeEncoder) EndEncoding() {
	e.backend.record("EndEncoding")
}
