package shader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	. "github.com/onsi/gomega"
)

const testSource = `
struct Params {
    scale: vec4<f32>,
}

struct VertexInput {
    @location(1) uv: vec2<f32>,
    @location(0) position: vec3<f32>,
}

struct VertexOutput {
    @builtin(position) position: vec4<f32>,
    @location(0) uv: vec2<f32>,
}

@group(0) @binding(0) var<uniform> params: Params;
@group(1) @binding(0) var albedo: texture_2d<f32>;
@group(1) @binding(1) var albedo_sampler: sampler;

@vertex
fn vs_main(vertex: VertexInput) -> VertexOutput {
    var out: VertexOutput;
    out.position = vec4<f32>(vertex.position, 1.0) * params.scale;
    out.uv = vertex.uv;
    return out;
}

@vertex
fn vs_flat(@location(0) position: vec4<f32>, @location(3) weight: f32) -> @builtin(position) vec4<f32> {
    return position * weight;
}

@fragment
fn fs_main(input: VertexOutput) -> @location(0) vec4<f32> {
    return textureSample(albedo, albedo_sampler, input.uv);
}
`

func TestVertexReflection(t *testing.T) {
	g := NewWithT(t)

	s, err := NewShader("test_vs", ShaderTypeVertex, testSource)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(s.EntryPoint()).To(Equal("vs_main"))
	g.Expect(s.ShaderType()).To(Equal(ShaderTypeVertex))

	layouts := s.VertexLayouts()
	g.Expect(layouts).To(HaveLen(1))
	g.Expect(layouts[0].ArrayStride).To(Equal(uint64(20)))
	g.Expect(layouts[0].Attributes).To(Equal([]wgpu.VertexAttribute{
		{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
		{Format: wgpu.VertexFormatFloat32x2, Offset: 12, ShaderLocation: 1},
	}))

	groups := s.BindGroupLayoutDescriptors()
	g.Expect(groups).To(HaveLen(1))
	g.Expect(groups).To(HaveKey(0))
	entries := s.BindGroupLayoutDescriptor(0).Entries
	g.Expect(entries).To(HaveLen(1))
	g.Expect(entries[0].Buffer.Type).To(Equal(wgpu.BufferBindingTypeUniform))
	g.Expect(entries[0].Visibility).To(Equal(wgpu.ShaderStageVertex))
	binding, ok := s.BindGroupFromVarName(0, "params")
	g.Expect(ok).To(BeTrue())
	g.Expect(binding).To(Equal(0))

	g.Expect(s.Module().Label).To(Equal("test_vs"))
	g.Expect(s.Module().WGSLDescriptor.Code).To(Equal(testSource))
}

func TestVertexArgumentsReflection(t *testing.T) {
	g := NewWithT(t)

	s, err := NewShader("flat", ShaderTypeVertex, testSource, WithEntryPoint("vs_flat"))
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(s.EntryPoint()).To(Equal("vs_flat"))

	attrs := s.VertexLayouts()[0].Attributes
	g.Expect(attrs).To(HaveLen(2))
	g.Expect(attrs[0].Format).To(Equal(wgpu.VertexFormatFloat32x4))
	g.Expect(attrs[1].Format).To(Equal(wgpu.VertexFormatFloat32))
	g.Expect(attrs[1].ShaderLocation).To(Equal(uint32(3)))
	g.Expect(attrs[1].Offset).To(Equal(uint64(16)))

	// vs_flat never touches params
	g.Expect(s.BindGroupLayoutDescriptors()).To(BeEmpty())
}

func TestFragmentReflection(t *testing.T) {
	g := NewWithT(t)

	s, err := NewShader("test_fs", ShaderTypeFragment, testSource)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(s.EntryPoint()).To(Equal("fs_main"))
	g.Expect(s.VertexLayouts()).To(BeEmpty())

	entries := s.BindGroupLayoutDescriptor(1).Entries
	g.Expect(entries).To(HaveLen(2))
	g.Expect(entries[0].Binding).To(Equal(uint32(0)))
	g.Expect(entries[0].Texture.SampleType).To(Equal(wgpu.TextureSampleTypeFloat))
	g.Expect(entries[0].Texture.ViewDimension).To(Equal(wgpu.TextureViewDimension2D))
	g.Expect(entries[1].Sampler.Type).To(Equal(wgpu.SamplerBindingTypeFiltering))
	g.Expect(entries[1].Visibility).To(Equal(wgpu.ShaderStageFragment))

	binding, ok := s.BindGroupFromVarName(1, "albedo_sampler")
	g.Expect(ok).To(BeTrue())
	g.Expect(binding).To(Equal(1))
	_, ok = s.BindGroupFromVarName(3, "albedo")
	g.Expect(ok).To(BeFalse())
}

func TestMissingEntryPoint(t *testing.T) {
	g := NewWithT(t)

	_, err := NewShader("unknown", ShaderType(7), testSource)
	g.Expect(err).To(MatchError(ErrMissingEntryPoint))

	_, err = NewShader("fs", ShaderTypeFragment, testSource, WithEntryPoint("vs_main"))
	g.Expect(err).To(MatchError(ErrMissingEntryPoint))

	_, err = NewShader("vs", ShaderTypeVertex, testSource, WithEntryPoint("nope"))
	g.Expect(err).To(MatchError(ErrMissingEntryPoint))
	g.Expect(err.Error()).To(ContainSubstring(`"nope"`))
}

func TestInvalidSource(t *testing.T) {
	g := NewWithT(t)

	_, err := NewShader("broken", ShaderTypeVertex, "fn vs_main( -> {")
	g.Expect(err).To(MatchError(ErrInvalidSource))
	g.Expect(err.Error()).To(ContainSubstring(`shader "broken"`))
}

func TestNewShaderFromPath(t *testing.T) {
	g := NewWithT(t)

	path := filepath.Join(t.TempDir(), "s.wgsl")
	g.Expect(os.WriteFile(path, []byte(testSource), 0o644)).To(Succeed())

	s, err := NewShaderFromPath("file", ShaderTypeFragment, path)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(s.Source()).To(Equal(testSource))

	_, err = NewShaderFromPath("file", ShaderTypeFragment, filepath.Join(t.TempDir(), "missing.wgsl"))
	g.Expect(err).To(MatchError(os.ErrNotExist))
}

func TestSPIRV(t *testing.T) {
	g := NewWithT(t)

	s, err := NewShader("spirv", ShaderTypeFragment, testSource)
	g.Expect(err).NotTo(HaveOccurred())

	spirv, err := s.SPIRV()
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(len(spirv)).To(BeNumerically(">", 20))
	// SPIR-V magic number, little-endian
	g.Expect(spirv[:4]).To(Equal([]byte{0x03, 0x02, 0x23, 0x07}))
}

func TestShaderTypeString(t *testing.T) {
	g := NewWithT(t)

	g.Expect(ShaderTypeVertex.String()).To(Equal("vertex"))
	g.Expect(ShaderTypeFragment.String()).To(Equal("fragment"))
	g.Expect(ShaderType(9).String()).To(Equal("ShaderType(9)"))
}
