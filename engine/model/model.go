package model

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/cogentcore/webgpu/wgpu"
)

var (
	// ErrEmptyMesh is returned when a mesh has no vertices or no indices.
	ErrEmptyMesh = errors.New("mesh has no geometry")

	// ErrIndexOutOfRange is returned when an index refers past the end of the vertex list.
	ErrIndexOutOfRange = errors.New("mesh index out of range")
)

// mesh is the implementation of the Mesh interface.
type mesh struct {
	label       string
	vertexData  []byte
	indexData   []byte
	vertexCount int
	indexCount  int
	indexFormat wgpu.IndexFormat
	topology    wgpu.PrimitiveTopology
	layout      wgpu.VertexBufferLayout
}

// Mesh is immutable, GPU-ready geometry: interleaved GPUVertex bytes, index bytes in the
// narrowest format that can address every vertex, and the layout the vertex stage reads
// them with. The counts and the format are fixed at construction.
type Mesh interface {
	// Label returns the debug label used for the mesh's GPU buffers.
	//
	// Returns:
	//   - string: the label
	Label() string

	// VertexData returns the serialized vertices.
	//
	// Returns:
	//   - []byte: VertexCount()*32 bytes
	VertexData() []byte

	// IndexData returns the serialized indices in IndexFormat().
	//
	// Returns:
	//   - []byte: the index bytes
	IndexData() []byte

	// VertexCount returns the number of vertices.
	//
	// Returns:
	//   - int: the vertex count
	VertexCount() int

	// IndexCount returns the number of indices to draw.
	//
	// Returns:
	//   - int: the index count
	IndexCount() int

	// IndexFormat returns wgpu.IndexFormatUint16 when every vertex fits a 16-bit index,
	// otherwise wgpu.IndexFormatUint32.
	//
	// Returns:
	//   - wgpu.IndexFormat: the index element format
	IndexFormat() wgpu.IndexFormat

	// Topology returns how indices are assembled into primitives.
	//
	// Returns:
	//   - wgpu.PrimitiveTopology: the primitive topology
	Topology() wgpu.PrimitiveTopology

	// VertexLayout returns the vertex buffer layout for VertexData.
	//
	// Returns:
	//   - wgpu.VertexBufferLayout: the layout
	VertexLayout() wgpu.VertexBufferLayout
}

var _ Mesh = &mesh{}

// NewMesh builds a Mesh from vertices and triangle-list indices.
//
// Parameters:
//   - vertices: the mesh vertices
//   - indices: indices into vertices, three per triangle
//   - options: functional options for the label and topology
//
// Returns:
//   - Mesh: the immutable mesh
//   - error: ErrEmptyMesh or ErrIndexOutOfRange if the geometry is unusable
func NewMesh(vertices []GPUVertex, indices []uint32, options ...MeshBuilderOption) (Mesh, error) {
	if len(vertices) == 0 || len(indices) == 0 {
		return nil, fmt.Errorf("%w: %d vertices, %d indices", ErrEmptyMesh, len(vertices), len(indices))
	}
	for i, idx := range indices {
		if int(idx) >= len(vertices) {
			return nil, fmt.Errorf("%w: index %d at position %d, %d vertices", ErrIndexOutOfRange, idx, i, len(vertices))
		}
	}

	m := &mesh{
		label:       "Mesh",
		vertexData:  MarshalVertices(vertices),
		vertexCount: len(vertices),
		indexCount:  len(indices),
		indexFormat: IndexFormatFor(len(vertices)),
		topology:    wgpu.PrimitiveTopologyTriangleList,
		layout:      GPUVertexLayout(),
	}
	for _, opt := range options {
		opt(m)
	}
	m.indexData = marshalIndices(indices, m.indexFormat)

	return m, nil
}

// IndexFormatFor picks the narrowest index format able to address vertexCount vertices.
//
// Parameters:
//   - vertexCount: the number of vertices the indices refer to
//
// Returns:
//   - wgpu.IndexFormat: Uint16 for up to 65535 vertices, Uint32 otherwise
func IndexFormatFor(vertexCount int) wgpu.IndexFormat {
	if vertexCount <= math.MaxUint16 {
		return wgpu.IndexFormatUint16
	}
	return wgpu.IndexFormatUint32
}

// IndexSize returns the byte size of one index in the given format.
//
// Parameters:
//   - format: the index format
//
// Returns:
//   - int: 2 for Uint16, 4 otherwise
func IndexSize(format wgpu.IndexFormat) int {
	if format == wgpu.IndexFormatUint16 {
		return 2
	}
	return 4
}

func marshalIndices(indices []uint32, format wgpu.IndexFormat) []byte {
	size := IndexSize(format)
	buf := make([]byte, size*len(indices))
	for i, idx := range indices {
		if size == 2 {
			binary.LittleEndian.PutUint16(buf[i*2:], uint16(idx))
		} else {
			binary.LittleEndian.PutUint32(buf[i*4:], idx)
		}
	}
	// index buffer writes must be a multiple of 4 bytes
	if len(buf)%4 != 0 {
		buf = append(buf, 0, 0)
	}
	return buf
}

func (m *mesh) Label() string {
	return m.label
}

func (m *mesh) VertexData() []byte {
	return m.vertexData
}

func (m *mesh) IndexData() []byte {
	return m.indexData
}

func (m *mesh) VertexCount() int {
	return m.vertexCount
}

func (m *mesh) IndexCount() int {
	return m.indexCount
}

func (m *mesh) IndexFormat() wgpu.IndexFormat {
	return m.indexFormat
}

func (m *mesh) Topology() wgpu.PrimitiveTopology {
	return m.topology
}

func (m *mesh) VertexLayout() wgpu.VertexBufferLayout {
	return m.layout
}
