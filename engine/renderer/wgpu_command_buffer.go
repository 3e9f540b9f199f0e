package renderer

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-cube/common"
	"github.com/Carmen-Shannon/oxy-cube/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-cube/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

type wgpuRenderTarget struct {
	descriptor    *wgpu.RenderPassDescriptor
	width, height int
}

func (t *wgpuRenderTarget) Size() (int, int) {
	return t.width, t.height
}

type wgpuDrawable struct {
	texture *wgpu.Texture
}

func (d *wgpuDrawable) Label() string {
	return "surface image"
}

// wgpuCommandBuffer wraps one frame's command encoder. The present is deferred until after submit,
// since a wgpu surface image can only be presented once its work is queued.
type wgpuCommandBuffer struct {
	backend *wgpuRendererBackendImpl
	encoder *wgpu.CommandEncoder
	present bool
}

var _ CommandBuffer = &wgpuCommandBuffer{}

func (c *wgpuCommandBuffer) RenderCommandEncoder(target RenderTarget) (RenderCommandEncoder, error) {
	t, ok := target.(*wgpuRenderTarget)
	if !ok || t.descriptor == nil {
		return nil, fmt.Errorf("render target %T does not belong to the wgpu backend", target)
	}
	pass := c.encoder.BeginRenderPass(t.descriptor)
	if pass == nil {
		return nil, fmt.Errorf("failed to begin render pass")
	}
	return &wgpuRenderEncoder{
		backend: c.backend,
		pass:    pass,
		bound:   make(map[int]bool),
	}, nil
}

func (c *wgpuCommandBuffer) Present(drawable Drawable) {
	if _, ok := drawable.(*wgpuDrawable); ok {
		c.present = true
	}
}

func (c *wgpuCommandBuffer) Commit() {
	commandBuffer, err := c.encoder.Finish(nil)
	if err != nil {
		common.Logger().Warn("failed to finish command encoder", "error", err)
	} else {
		c.backend.queue.Submit(commandBuffer)
		commandBuffer.Release()
	}
	c.encoder.Release()
	c.backend.finishFrame(c.present && err == nil)
}

// wgpuRenderEncoder maps the per-draw commands onto a wgpu render pass. Winding and depth state are
// baked into the pipeline on wgpu, so the requested values are only checked against it.
type wgpuRenderEncoder struct {
	backend  *wgpuRendererBackendImpl
	pass     *wgpu.RenderPassEncoder
	pipeline pipeline.Pipeline

	frontFace    wgpu.FrontFace
	frontFaceSet bool
	depthState   DepthStencilState
	depthSet     bool

	bound map[int]bool
}

var _ RenderCommandEncoder = &wgpuRenderEncoder{}

func (e *wgpuRenderEncoder) PushDebugGroup(label string) {
	e.pass.PushDebugGroup(label)
}

func (e *wgpuRenderEncoder) PopDebugGroup() {
	e.pass.PopDebugGroup()
}

func (e *wgpuRenderEncoder) SetFrontFacing(winding wgpu.FrontFace) {
	e.frontFace = winding
	e.frontFaceSet = true
}

func (e *wgpuRenderEncoder) SetDepthStencilState(state DepthStencilState) {
	e.depthState = state
	e.depthSet = true
}

func (e *wgpuRenderEncoder) SetRenderPipeline(p pipeline.Pipeline) {
	rp := p.RenderPipeline()
	if rp == nil {
		common.Logger().Warn("pipeline is not registered", "pipeline", p.PipelineKey())
		return
	}
	if e.frontFaceSet && e.frontFace != p.FrontFace() {
		common.Logger().Warn("front face differs from pipeline", "pipeline", p.PipelineKey(), "requested", e.frontFace, "baked", p.FrontFace())
	}
	if e.depthSet && e.depthState != p.DepthStencilState() {
		common.Logger().Warn("depth state differs from pipeline", "pipeline", p.PipelineKey())
	}
	e.pipeline = p
	e.pass.SetPipeline(rp)
	clear(e.bound)
}

func (e *wgpuRenderEncoder) SetVertexBuffer(mesh bind_group_provider.BindGroupProvider, index int) {
	buf := mesh.VertexBuffer()
	if buf == nil {
		common.Logger().Warn("mesh has no vertex buffer", "mesh", mesh.Label())
		return
	}
	e.pass.SetVertexBuffer(uint32(index), buf, 0, wgpu.WholeSize)
}

func (e *wgpuRenderEncoder) SetVertexBytes(data []byte, index int) {
	target, ok := e.backend.vertexBytesTarget(index)
	if !ok {
		common.Logger().Warn("no uniform bound for vertex bytes", "index", index)
		return
	}
	e.backend.mu.Lock()
	err := e.backend.writeBuffer(bind_group_provider.BufferWrite{
		Provider: target.provider,
		Binding:  target.binding,
		Data:     data,
	})
	e.backend.mu.Unlock()
	if err != nil {
		common.Logger().Warn("failed to upload vertex bytes", "index", index, "error", err)
		return
	}
	e.bindGroup(target.provider)
}

func (e *wgpuRenderEncoder) SetFragmentTexture(material bind_group_provider.BindGroupProvider, index int) {
	if material.TextureView(bind_group_provider.TextureBinding+index) == nil {
		common.Logger().Warn("material has no texture", "material", material.Label(), "index", index)
		return
	}
	e.bindGroup(material)
}

func (e *wgpuRenderEncoder) SetFragmentSampler(material bind_group_provider.BindGroupProvider, index int) {
	if material.Sampler(bind_group_provider.SamplerBinding+index) == nil {
		common.Logger().Warn("material has no sampler", "material", material.Label(), "index", index)
		return
	}
	e.bindGroup(material)
}

// bindGroup sets a provider's group once per pipeline binding.
func (e *wgpuRenderEncoder) bindGroup(provider bind_group_provider.BindGroupProvider) {
	group := provider.Group()
	if group < 0 || e.bound[group] {
		return
	}
	bg := provider.BindGroup()
	if bg == nil {
		common.Logger().Warn("provider has no bind group", "provider", provider.Label())
		return
	}
	e.pass.SetBindGroup(uint32(group), bg, nil)
	e.bound[group] = true
}

func (e *wgpuRenderEncoder) DrawIndexedPrimitives(topology wgpu.PrimitiveTopology, indexCount int, format wgpu.IndexFormat, mesh bind_group_provider.BindGroupProvider) {
	if e.pipeline == nil {
		common.Logger().Warn("draw without a pipeline")
		return
	}
	if !mesh.Initialized() {
		common.Logger().Warn("mesh buffers missing", "mesh", mesh.Label())
		return
	}
	if topology != e.pipeline.Topology() {
		common.Logger().Warn("topology differs from pipeline", "pipeline", e.pipeline.PipelineKey())
	}
	e.pass.SetIndexBuffer(mesh.IndexBuffer(), format, 0, wgpu.WholeSize)
	e.pass.DrawIndexed(uint32(indexCount), 1, 0, 0, 0)
}

func (e *wgpuRenderEncoder) EndEncoding() {
	e.pass.End()
	e.pass.Release()
}
