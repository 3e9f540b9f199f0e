package pipeline

import (
	"errors"
	"fmt"
	"sort"

	"github.com/Carmen-Shannon/oxy-cube/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// ErrIncompletePipeline is returned by Validate when shaders are missing or of the wrong stage.
var ErrIncompletePipeline = errors.New("incomplete render pipeline")

// ErrVertexLayoutMismatch is returned when a mesh's vertex layout does not feed the vertex shader's inputs.
var ErrVertexLayoutMismatch = errors.New("vertex layout does not match shader inputs")

// DepthStencilState is the depth test a pipeline is baked with.
type DepthStencilState struct {
	Compare      wgpu.CompareFunction
	WriteEnabled bool
}

// pipeline is the implementation of the Pipeline interface.
// It holds the underlying WebGPU render pipeline and the state it was created with.
type pipeline struct {
	// pipelineKey is the unique identifier for this pipeline, used for labels and lookups
	pipelineKey string

	// shaders are required to be set before the backend creates the GPU pipeline
	vertexShader, fragmentShader shader.Shader

	// renderPipeline is nil until the backend registers the pipeline
	renderPipeline *wgpu.RenderPipeline

	depthTestEnabled  bool
	depthWriteEnabled bool
	depthCompare      wgpu.CompareFunction
	blendEnabled      bool
	cullMode          wgpu.CullMode
	topology          wgpu.PrimitiveTopology
	frontFace         wgpu.FrontFace
	writeMask         wgpu.ColorWriteMask
	blendState        *wgpu.BlendState
}

// Pipeline describes a render pipeline: a vertex and fragment shader pair plus the fixed-function
// state (depth, cull, winding, topology, blending) the GPU pipeline object is baked with.
type Pipeline interface {
	// PipelineKey returns the unique key associated with this pipeline, used for labels and lookups.
	//
	// Returns:
	//   - string: the unique key for this pipeline
	PipelineKey() string

	// Shader retrieves the shader of the given stage, nil if not set.
	//
	// Parameters:
	//   - shaderType: the stage of the shader to retrieve (vertex or fragment)
	//
	// Returns:
	//   - shader.Shader: the shader, or nil
	Shader(shaderType shader.ShaderType) shader.Shader

	// RenderPipeline returns the GPU pipeline object, nil until registered with a backend.
	//
	// Returns:
	//   - *wgpu.RenderPipeline: the render pipeline
	RenderPipeline() *wgpu.RenderPipeline

	// DepthTestEnabled returns whether depth testing is enabled for this pipeline.
	//
	// Returns:
	//   - bool: true if depth testing is enabled, false otherwise
	DepthTestEnabled() bool

	// DepthWriteEnabled returns whether depth writing is enabled for this pipeline.
	//
	// Returns:
	//   - bool: true if depth writing is enabled, false otherwise
	DepthWriteEnabled() bool

	// DepthCompare returns the depth comparison function. Always when depth testing is disabled.
	//
	// Returns:
	//   - wgpu.CompareFunction: the comparison used by the depth test
	DepthCompare() wgpu.CompareFunction

	// DepthStencilState returns the depth comparison and write flag as one value.
	//
	// Returns:
	//   - DepthStencilState: the baked depth state
	DepthStencilState() DepthStencilState

	// BlendEnabled returns whether blending is enabled for this pipeline.
	//
	// Returns:
	//   - bool: true if blending is enabled, false otherwise
	BlendEnabled() bool

	// CullMode returns the cull mode configured for this pipeline.
	//
	// Returns:
	//   - wgpu.CullMode: the cull mode for this pipeline (e.g., wgpu.CullModeNone, wgpu.CullModeBack)
	CullMode() wgpu.CullMode

	// Topology returns the primitive topology configured for this pipeline.
	//
	// Returns:
	//   - wgpu.PrimitiveTopology: the primitive topology for this pipeline (e.g., wgpu.PrimitiveTopologyTriangleList)
	Topology() wgpu.PrimitiveTopology

	// FrontFace returns the front face winding order configured for this pipeline.
	//
	// Returns:
	//   - wgpu.FrontFace: the front face winding order for this pipeline (e.g., wgpu.FrontFaceCCW, wgpu.FrontFaceCW)
	FrontFace() wgpu.FrontFace

	// WriteMask returns the color write mask configured for this pipeline.
	//
	// Returns:
	//   - wgpu.ColorWriteMask: the color write mask for this pipeline (e.g., wgpu.ColorWriteMaskAll)
	WriteMask() wgpu.ColorWriteMask

	// BlendState returns the blend state used when blending is enabled.
	//
	// Returns:
	//   - *wgpu.BlendState: the blend state for this pipeline
	BlendState() *wgpu.BlendState

	// BindGroupLayoutDescriptors merges the bind groups of both shaders. A binding used by both
	// stages gets the union of their visibilities.
	//
	// Returns:
	//   - map[int]wgpu.BindGroupLayoutDescriptor: descriptors keyed by group index
	BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor

	// Validate reports whether the pipeline has a vertex and a fragment shader of the right stages.
	//
	// Returns:
	//   - error: an error wrapping ErrIncompletePipeline, or nil
	Validate() error

	// CheckVertexLayout verifies that every vertex shader input is present in layout with the same
	// format. Attributes in the layout that the shader ignores are allowed.
	//
	// Parameters:
	//   - layout: the vertex buffer layout of the mesh to draw
	//
	// Returns:
	//   - error: an error wrapping ErrVertexLayoutMismatch, or nil
	CheckVertexLayout(layout wgpu.VertexBufferLayout) error

	// SetRenderPipeline sets the render pipeline
	//
	// Parameters:
	//   - p: the WebGPU render pipeline to set
	SetRenderPipeline(p *wgpu.RenderPipeline)
}

var _ Pipeline = &pipeline{}

// NewPipeline creates a render Pipeline. Defaults are depth test Less with writes, no culling,
// counter-clockwise front faces, triangle lists and no blending.
//
// Parameters:
//   - pipelineKey: the unique key for this pipeline
//   - opts: a variadic list of PipelineBuilderOption functions to configure the pipeline
//
// Returns:
//   - Pipeline: a new Pipeline instance with the specified configuration
func NewPipeline(pipelineKey string, opts ...PipelineBuilderOption) Pipeline {
	p := &pipeline{
		pipelineKey:       pipelineKey,
		depthTestEnabled:  true,
		depthWriteEnabled: true,
		depthCompare:      wgpu.CompareFunctionLess,
		blendEnabled:      false,
		cullMode:          wgpu.CullModeNone,
		topology:          wgpu.PrimitiveTopologyTriangleList,
		frontFace:         wgpu.FrontFaceCCW,
		writeMask:         wgpu.ColorWriteMaskAll,
		blendState: &wgpu.BlendState{
			Color: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorSrcAlpha,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
			Alpha: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorOne,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *pipeline) PipelineKey() string {
	return p.pipelineKey
}

func (p *pipeline) RenderPipeline() *wgpu.RenderPipeline {
	return p.renderPipeline
}

func (p *pipeline) DepthTestEnabled() bool {
	return p.depthTestEnabled
}

func (p *pipeline) DepthWriteEnabled() bool {
	return p.depthWriteEnabled
}

func (p *pipeline) DepthCompare() wgpu.CompareFunction {
	if !p.depthTestEnabled {
		return wgpu.CompareFunctionAlways
	}
	return p.depthCompare
}

func (p *pipeline) DepthStencilState() DepthStencilState {
	return DepthStencilState{
		Compare:      p.DepthCompare(),
		WriteEnabled: p.depthWriteEnabled,
	}
}

func (p *pipeline) BlendEnabled() bool {
	return p.blendEnabled
}

func (p *pipeline) CullMode() wgpu.CullMode {
	return p.cullMode
}

func (p *pipeline) Topology() wgpu.PrimitiveTopology {
	return p.topology
}

func (p *pipeline) FrontFace() wgpu.FrontFace {
	return p.frontFace
}

func (p *pipeline) WriteMask() wgpu.ColorWriteMask {
	return p.writeMask
}

func (p *pipeline) BlendState() *wgpu.BlendState {
	return p.blendState
}

func (p *pipeline) Shader(shaderType shader.ShaderType) shader.Shader {
	switch shaderType {
	case shader.ShaderTypeVertex:
		return p.vertexShader
	case shader.ShaderTypeFragment:
		return p.fragmentShader
	default:
		return nil
	}
}

func (p *pipeline) SetRenderPipeline(rp *wgpu.RenderPipeline) {
	p.renderPipeline = rp
}

func (p *pipeline) Validate() error {
	if p.vertexShader == nil || p.fragmentShader == nil {
		return fmt.Errorf("%w: %s needs both a vertex and a fragment shader", ErrIncompletePipeline, p.pipelineKey)
	}
	if p.vertexShader.ShaderType() != shader.ShaderTypeVertex {
		return fmt.Errorf("%w: %s vertex slot holds a %s shader", ErrIncompletePipeline, p.pipelineKey, p.vertexShader.ShaderType())
	}
	if p.fragmentShader.ShaderType() != shader.ShaderTypeFragment {
		return fmt.Errorf("%w: %s fragment slot holds a %s shader", ErrIncompletePipeline, p.pipelineKey, p.fragmentShader.ShaderType())
	}
	return nil
}

func (p *pipeline) CheckVertexLayout(layout wgpu.VertexBufferLayout) error {
	if p.vertexShader == nil {
		return fmt.Errorf("%w: %s has no vertex shader", ErrIncompletePipeline, p.pipelineKey)
	}
	provided := make(map[uint32]wgpu.VertexFormat, len(layout.Attributes))
	for _, attr := range layout.Attributes {
		provided[attr.ShaderLocation] = attr.Format
	}
	for _, buffer := range p.vertexShader.VertexLayouts() {
		for _, want := range buffer.Attributes {
			got, ok := provided[want.ShaderLocation]
			if !ok {
				return fmt.Errorf("%w: @location(%d) not provided", ErrVertexLayoutMismatch, want.ShaderLocation)
			}
			if got != want.Format {
				return fmt.Errorf("%w: @location(%d) has format %v, shader reads %v", ErrVertexLayoutMismatch, want.ShaderLocation, got, want.Format)
			}
		}
	}
	return nil
}

func (p *pipeline) BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor {
	merged := make(map[int]map[uint32]wgpu.BindGroupLayoutEntry)
	labels := make(map[int]string)
	for _, s := range []shader.Shader{p.vertexShader, p.fragmentShader} {
		if s == nil {
			continue
		}
		for group, desc := range s.BindGroupLayoutDescriptors() {
			if merged[group] == nil {
				merged[group] = make(map[uint32]wgpu.BindGroupLayoutEntry)
				labels[group] = fmt.Sprintf("%s_group_%d", p.pipelineKey, group)
			}
			for _, entry := range desc.Entries {
				if existing, ok := merged[group][entry.Binding]; ok {
					existing.Visibility |= entry.Visibility
					merged[group][entry.Binding] = existing
					continue
				}
				merged[group][entry.Binding] = entry
			}
		}
	}

	out := make(map[int]wgpu.BindGroupLayoutDescriptor, len(merged))
	for group, entries := range merged {
		list := make([]wgpu.BindGroupLayoutEntry, 0, len(entries))
		for _, entry := range entries {
			list = append(list, entry)
		}
		sort.Slice(list, func(i, j int) bool { return list[i].Binding < list[j].Binding })
		out[group] = wgpu.BindGroupLayoutDescriptor{
			Label:   labels[group],
			Entries: list,
		}
	}
	return out
}
