package shader

import (
	"errors"
	"fmt"
	"os"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"
)

var (
	// ErrInvalidSource is returned when WGSL source fails to parse, lower or validate.
	ErrInvalidSource = errors.New("invalid WGSL source")

	// ErrMissingEntryPoint is returned when the source has no entry point for the requested stage or name.
	ErrMissingEntryPoint = errors.New("missing shader entry point")
)

// ShaderType identifies which pipeline stage a shader feeds.
type ShaderType int

const (
	// ShaderTypeVertex is the vertex shader type, used for vertex processing in render pipelines.
	ShaderTypeVertex ShaderType = iota

	// ShaderTypeFragment is the fragment shader type, used for fragment processing in pair with a vertex shader.
	ShaderTypeFragment
)

// String returns the WGSL attribute name of the stage.
func (t ShaderType) String() string {
	switch t {
	case ShaderTypeVertex:
		return "vertex"
	case ShaderTypeFragment:
		return "fragment"
	default:
		return fmt.Sprintf("ShaderType(%d)", int(t))
	}
}

// shader is the implementation of the Shader interface.
// It holds all of the persistent shader data required for pipeline creation and resource binding.
type shader struct {
	key                        string
	source                     string
	shaderType                 ShaderType
	entryPoint                 string
	bindGroupLayoutDescriptors map[int]wgpu.BindGroupLayoutDescriptor
	bindingVarNames            map[int]map[int]string
	vertexLayouts              []wgpu.VertexBufferLayout
	module                     *wgpu.ShaderModuleDescriptor

	ir *ir.Module
}

// Shader is a validated WGSL shader stage. The source is parsed and validated with naga when the
// shader is created; entry point, vertex inputs and resource bindings are read from the resulting IR
// so pipeline layouts always agree with the source.
type Shader interface {
	// Key retrieves the unique identifier for this shader, used for labels and lookups.
	//
	// Returns:
	//   - string: the shader's unique key
	Key() string

	// Source retrieves the WGSL shader source code.
	//
	// Returns:
	//   - string: the WGSL source code of the shader
	Source() string

	// ShaderType returns the stage this shader was created for.
	//
	// Returns:
	//   - ShaderType: ShaderTypeVertex or ShaderTypeFragment
	ShaderType() ShaderType

	// EntryPoint returns the entry point name for this shader.
	//
	// Returns:
	//   - string: the entry point name (e.g. "vertex_transform")
	EntryPoint() string

	// BindGroupLayoutDescriptor retrieves the bind group layout descriptor for a group index.
	//
	// Parameters:
	//   - group: the @group index
	//
	// Returns:
	//   - wgpu.BindGroupLayoutDescriptor: the descriptor, or an empty descriptor if the group is unused
	BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor

	// BindGroupLayoutDescriptors retrieves all reflected bind group layout descriptors, keyed by group index.
	// Only bindings referenced by this shader's entry point are included.
	//
	// Returns:
	//   - map[int]wgpu.BindGroupLayoutDescriptor: descriptors keyed by group index
	BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor

	// BindGroupFromVarName retrieves the binding index of a named variable within a group.
	//
	// Parameters:
	//   - group: the bind group index
	//   - varName: the WGSL variable name
	//
	// Returns:
	//   - int: the binding index, or -1 if not found
	//   - bool: true if the variable name was found
	BindGroupFromVarName(group int, varName string) (int, bool)

	// VertexLayouts returns the vertex buffer layouts read by a vertex entry point, one buffer
	// with attributes packed in @location order. Empty for other stages.
	//
	// Returns:
	//   - []wgpu.VertexBufferLayout: the vertex buffer layouts
	VertexLayouts() []wgpu.VertexBufferLayout

	// Module returns the wgpu.ShaderModuleDescriptor used to create the GPU shader module.
	//
	// Returns:
	//   - *wgpu.ShaderModuleDescriptor: the descriptor containing the WGSL code and label
	Module() *wgpu.ShaderModuleDescriptor

	// SPIRV compiles the source to a SPIR-V binary. The device consumes WGSL directly, so this
	// exists for diagnostics and offline inspection.
	//
	// Returns:
	//   - []byte: the SPIR-V module
	//   - error: an error wrapping ErrInvalidSource if compilation fails
	SPIRV() ([]byte, error)
}

var _ Shader = &shader{}

// NewShader parses, validates and reflects WGSL source for one pipeline stage.
// Without WithEntryPoint the first entry point of the requested stage is used.
//
// Parameters:
//   - key: a unique identifier for the shader, used for labels and lookups
//   - shaderType: the stage to select an entry point for
//   - source: the WGSL source code
//   - options: functional options for entry point selection
//
// Returns:
//   - Shader: the reflected shader
//   - error: an error wrapping ErrInvalidSource or ErrMissingEntryPoint
func NewShader(key string, shaderType ShaderType, source string, options ...ShaderBuilderOption) (Shader, error) {
	s := &shader{
		key:                        key,
		source:                     source,
		shaderType:                 shaderType,
		bindGroupLayoutDescriptors: make(map[int]wgpu.BindGroupLayoutDescriptor),
		bindingVarNames:            make(map[int]map[int]string),
	}
	for _, opt := range options {
		opt(s)
	}

	module, err := compileModule(source)
	if err != nil {
		return nil, fmt.Errorf("shader %q: %w", key, err)
	}
	s.ir = module

	entry, err := selectEntryPoint(module, shaderType, s.entryPoint)
	if err != nil {
		return nil, fmt.Errorf("shader %q: %w", key, err)
	}
	s.entryPoint = entry.Name

	if shaderType == ShaderTypeVertex {
		layout, err := reflectVertexLayout(module, entry)
		if err != nil {
			return nil, fmt.Errorf("shader %q: %w", key, err)
		}
		if len(layout.Attributes) > 0 {
			s.vertexLayouts = []wgpu.VertexBufferLayout{layout}
		}
	}

	s.bindGroupLayoutDescriptors, s.bindingVarNames = reflectBindGroups(module, entry, stageVisibility(shaderType), key)

	s.module = &wgpu.ShaderModuleDescriptor{
		Label: s.key,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: s.source,
		},
	}
	return s, nil
}

// NewShaderFromPath reads WGSL source from a file and creates a Shader with NewShader.
//
// Parameters:
//   - key: a unique identifier for the shader
//   - shaderType: the stage to select an entry point for
//   - sourcePath: the file path to read WGSL source from
//   - options: functional options for entry point selection
//
// Returns:
//   - Shader: the reflected shader
//   - error: an error if the file cannot be read or the source is invalid
func NewShaderFromPath(key string, shaderType ShaderType, sourcePath string, options ...ShaderBuilderOption) (Shader, error) {
	data, err := os.ReadFile(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("shader %q: failed to read source file %q: %w", key, sourcePath, err)
	}
	return NewShader(key, shaderType, string(data), options...)
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) ShaderType() ShaderType {
	return s.shaderType
}

func (s *shader) EntryPoint() string {
	return s.entryPoint
}

func (s *shader) BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors[group]
}

func (s *shader) BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors
}

func (s *shader) BindGroupFromVarName(group int, varName string) (int, bool) {
	if s.bindingVarNames[group] == nil {
		return -1, false
	}
	for binding, name := range s.bindingVarNames[group] {
		if name == varName {
			return binding, true
		}
	}
	return -1, false
}

func (s *shader) VertexLayouts() []wgpu.VertexBufferLayout {
	return s.vertexLayouts
}

func (s *shader) Module() *wgpu.ShaderModuleDescriptor {
	return s.module
}

func (s *shader) SPIRV() ([]byte, error) {
	spirv, err := naga.Compile(s.source)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSource, err)
	}
	return spirv, nil
}

// compileModule runs the naga front end: parse, lower to IR, validate.
func compileModule(source string) (*ir.Module, error) {
	ast, err := naga.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSource, err)
	}
	module, err := naga.LowerWithSource(ast, source)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSource, err)
	}
	validationErrors, err := naga.Validate(module)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSource, err)
	}
	if len(validationErrors) > 0 {
		errs := make([]error, len(validationErrors))
		for i := range validationErrors {
			errs[i] = validationErrors[i]
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidSource, errors.Join(errs...))
	}
	return module, nil
}

func selectEntryPoint(module *ir.Module, shaderType ShaderType, name string) (*ir.EntryPoint, error) {
	stage, ok := irStage(shaderType)
	if !ok {
		return nil, fmt.Errorf("%w: unsupported stage %s", ErrMissingEntryPoint, shaderType)
	}
	for i := range module.EntryPoints {
		ep := &module.EntryPoints[i]
		if ep.Stage != stage {
			continue
		}
		if name == "" || ep.Name == name {
			return ep, nil
		}
	}
	if name != "" {
		return nil, fmt.Errorf("%w: no @%s function named %q", ErrMissingEntryPoint, shaderType, name)
	}
	return nil, fmt.Errorf("%w: no @%s function", ErrMissingEntryPoint, shaderType)
}

func irStage(shaderType ShaderType) (ir.ShaderStage, bool) {
	switch shaderType {
	case ShaderTypeVertex:
		return ir.StageVertex, true
	case ShaderTypeFragment:
		return ir.StageFragment, true
	default:
		return 0, false
	}
}

func stageVisibility(shaderType ShaderType) wgpu.ShaderStage {
	switch shaderType {
	case ShaderTypeVertex:
		return wgpu.ShaderStageVertex
	case ShaderTypeFragment:
		return wgpu.ShaderStageFragment
	default:
		return wgpu.ShaderStageNone
	}
}
