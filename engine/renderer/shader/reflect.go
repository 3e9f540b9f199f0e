package shader

import (
	"fmt"
	"sort"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gogpu/naga/ir"
)

type vertexFormatInfo struct {
	format wgpu.VertexFormat
	size   uint64
}

type vertexInput struct {
	location uint32
	typ      ir.TypeHandle
	name     string
}

// vertexFormats maps a scalar kind and component count to its vertex format.
var vertexFormats = map[ir.ScalarKind]map[int]vertexFormatInfo{
	ir.ScalarFloat: {
		1: {wgpu.VertexFormatFloat32, 4},
		2: {wgpu.VertexFormatFloat32x2, 8},
		3: {wgpu.VertexFormatFloat32x3, 12},
		4: {wgpu.VertexFormatFloat32x4, 16},
	},
	ir.ScalarSint: {
		1: {wgpu.VertexFormatSint32, 4},
		2: {wgpu.VertexFormatSint32x2, 8},
		3: {wgpu.VertexFormatSint32x3, 12},
		4: {wgpu.VertexFormatSint32x4, 16},
	},
	ir.ScalarUint: {
		1: {wgpu.VertexFormatUint32, 4},
		2: {wgpu.VertexFormatUint32x2, 8},
		3: {wgpu.VertexFormatUint32x3, 12},
		4: {wgpu.VertexFormatUint32x4, 16},
	},
}

// reflectVertexLayout builds a single interleaved buffer layout from the entry point's
// @location inputs, whether declared as arguments or as members of a struct argument.
// Attributes are packed tightly in location order.
func reflectVertexLayout(module *ir.Module, entry *ir.EntryPoint) (wgpu.VertexBufferLayout, error) {
	var inputs []vertexInput
	for _, arg := range entry.Function.Arguments {
		if arg.Binding != nil {
			if loc, ok := (*arg.Binding).(ir.LocationBinding); ok {
				inputs = append(inputs, vertexInput{location: loc.Location, typ: arg.Type, name: arg.Name})
			}
			continue
		}
		st, ok := module.Types[arg.Type].Inner.(ir.StructType)
		if !ok {
			continue
		}
		for _, member := range st.Members {
			if member.Binding == nil {
				continue
			}
			if loc, ok := (*member.Binding).(ir.LocationBinding); ok {
				inputs = append(inputs, vertexInput{location: loc.Location, typ: member.Type, name: member.Name})
			}
		}
	}

	sort.Slice(inputs, func(i, j int) bool { return inputs[i].location < inputs[j].location })

	attrs := make([]wgpu.VertexAttribute, 0, len(inputs))
	var offset uint64
	for _, in := range inputs {
		info, ok := vertexFormatOf(module.Types[in.typ].Inner)
		if !ok {
			return wgpu.VertexBufferLayout{}, fmt.Errorf("%w: vertex input %q at @location(%d) has no vertex format", ErrInvalidSource, in.name, in.location)
		}
		attrs = append(attrs, wgpu.VertexAttribute{
			Format:         info.format,
			Offset:         offset,
			ShaderLocation: in.location,
		})
		offset += info.size
	}

	return wgpu.VertexBufferLayout{
		ArrayStride: offset,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes:  attrs,
	}, nil
}

func vertexFormatOf(inner ir.TypeInner) (vertexFormatInfo, bool) {
	var kind ir.ScalarKind
	var width uint8
	components := 1
	switch t := inner.(type) {
	case ir.ScalarType:
		kind, width = t.Kind, t.Width
	case ir.VectorType:
		kind, width = t.Scalar.Kind, t.Scalar.Width
		components = int(t.Size)
	default:
		return vertexFormatInfo{}, false
	}
	if width != 4 {
		return vertexFormatInfo{}, false
	}
	info, ok := vertexFormats[kind][components]
	return info, ok
}

// reflectBindGroups creates layout entries for every resource global the entry point uses.
// The visibility of each entry is the shader's own stage.
func reflectBindGroups(module *ir.Module, entry *ir.EntryPoint, visibility wgpu.ShaderStage, key string) (map[int]wgpu.BindGroupLayoutDescriptor, map[int]map[int]string) {
	used := usedGlobals(module, entry)

	entries := make(map[int][]wgpu.BindGroupLayoutEntry)
	names := make(map[int]map[int]string)
	for handle, gv := range module.GlobalVariables {
		if gv.Binding == nil || !used[ir.GlobalVariableHandle(handle)] {
			continue
		}
		group, binding := int(gv.Binding.Group), int(gv.Binding.Binding)
		layoutEntry, ok := classifyGlobal(module, gv, visibility)
		if !ok {
			continue
		}
		entries[group] = append(entries[group], layoutEntry)
		if names[group] == nil {
			names[group] = make(map[int]string)
		}
		names[group][binding] = gv.Name
	}

	descriptors := make(map[int]wgpu.BindGroupLayoutDescriptor, len(entries))
	for group, groupEntries := range entries {
		sort.Slice(groupEntries, func(i, j int) bool { return groupEntries[i].Binding < groupEntries[j].Binding })
		descriptors[group] = wgpu.BindGroupLayoutDescriptor{
			Label:   fmt.Sprintf("%s_group_%d", key, group),
			Entries: groupEntries,
		}
	}
	return descriptors, names
}

// usedGlobals collects the globals referenced by the entry point and by every module
// function, since helper calls can reach resources the entry point never names.
func usedGlobals(module *ir.Module, entry *ir.EntryPoint) map[ir.GlobalVariableHandle]bool {
	used := make(map[ir.GlobalVariableHandle]bool)
	collect := func(f *ir.Function) {
		for _, expr := range f.Expressions {
			if gv, ok := expr.Kind.(ir.ExprGlobalVariable); ok {
				used[gv.Variable] = true
			}
		}
	}
	collect(&entry.Function)
	for i := range module.Functions {
		collect(&module.Functions[i])
	}
	return used
}

func classifyGlobal(module *ir.Module, gv ir.GlobalVariable, visibility wgpu.ShaderStage) (wgpu.BindGroupLayoutEntry, bool) {
	entry := wgpu.BindGroupLayoutEntry{
		Binding:    gv.Binding.Binding,
		Visibility: visibility,
	}

	switch gv.Space {
	case ir.SpaceUniform:
		entry.Buffer.Type = wgpu.BufferBindingTypeUniform
		return entry, true
	case ir.SpaceStorage:
		if gv.Access == ir.StorageRead {
			entry.Buffer.Type = wgpu.BufferBindingTypeReadOnlyStorage
		} else {
			entry.Buffer.Type = wgpu.BufferBindingTypeStorage
		}
		return entry, true
	case ir.SpaceHandle:
	default:
		return entry, false
	}

	switch t := module.Types[gv.Type].Inner.(type) {
	case ir.SamplerType:
		if t.Comparison {
			entry.Sampler.Type = wgpu.SamplerBindingTypeComparison
		} else {
			entry.Sampler.Type = wgpu.SamplerBindingTypeFiltering
		}
	case ir.ImageType:
		if t.Class == ir.ImageClassStorage {
			// storage textures are not part of the cube pipeline
			return entry, false
		}
		entry.Texture.ViewDimension = viewDimension(t.Dim, t.Arrayed)
		entry.Texture.Multisampled = t.Multisampled
		switch {
		case t.Class == ir.ImageClassDepth:
			entry.Texture.SampleType = wgpu.TextureSampleTypeDepth
		case t.SampledKind == ir.ScalarSint:
			entry.Texture.SampleType = wgpu.TextureSampleTypeSint
		case t.SampledKind == ir.ScalarUint:
			entry.Texture.SampleType = wgpu.TextureSampleTypeUint
		case t.Multisampled:
			entry.Texture.SampleType = wgpu.TextureSampleTypeUnfilterableFloat
		default:
			entry.Texture.SampleType = wgpu.TextureSampleTypeFloat
		}
	default:
		return entry, false
	}
	return entry, true
}

func viewDimension(dim ir.ImageDimension, arrayed bool) wgpu.TextureViewDimension {
	switch dim {
	case ir.Dim1D:
		return wgpu.TextureViewDimension1D
	case ir.Dim3D:
		return wgpu.TextureViewDimension3D
	case ir.DimCube:
		if arrayed {
			return wgpu.TextureViewDimensionCubeArray
		}
		return wgpu.TextureViewDimensionCube
	default:
		if arrayed {
			return wgpu.TextureViewDimension2DArray
		}
		return wgpu.TextureViewDimension2D
	}
}
