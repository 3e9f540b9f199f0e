package model

import "github.com/cogentcore/webgpu/wgpu"

// MeshBuilderOption is a functional option for configuring a Mesh via NewMesh.
type MeshBuilderOption func(*mesh)

// WithLabel is an option builder that sets the debug label of the Mesh's GPU buffers.
//
// Parameters:
//   - label: the debug label
//
// Returns:
//   - MeshBuilderOption: a function that applies the label option to a mesh
func WithLabel(label string) MeshBuilderOption {
	return func(m *mesh) {
		m.label = label
	}
}

// WithTopology is an option builder that sets the primitive topology of the Mesh.
//
// Parameters:
//   - topology: the primitive topology (defaults to wgpu.PrimitiveTopologyTriangleList)
//
// Returns:
//   - MeshBuilderOption: a function that applies the topology option to a mesh
func WithTopology(topology wgpu.PrimitiveTopology) MeshBuilderOption {
	return func(m *mesh) {
		m.topology = topology
	}
}

// BoxBuilderOption is a functional option for configuring the box built by NewBoxMesh.
type BoxBuilderOption func(*boxConfig)

// WithSize is an option builder that sets the edge length of the box.
//
// Parameters:
//   - size: the full extent along every axis (defaults to 1)
//
// Returns:
//   - BoxBuilderOption: a function that applies the size option
func WithSize(size float32) BoxBuilderOption {
	return func(c *boxConfig) {
		c.extent = [3]float32{size, size, size}
	}
}

// WithExtent is an option builder that sets a separate extent per axis.
//
// Parameters:
//   - x, y, z: the full extent along each axis
//
// Returns:
//   - BoxBuilderOption: a function that applies the extent option
func WithExtent(x, y, z float32) BoxBuilderOption {
	return func(c *boxConfig) {
		c.extent = [3]float32{x, y, z}
	}
}

// WithSegments is an option builder that sets how many quads each face is split into along each axis.
//
// Parameters:
//   - x, y, z: the subdivisions along each axis (defaults to 10, 10, 10)
//
// Returns:
//   - BoxBuilderOption: a function that applies the segments option
func WithSegments(x, y, z uint32) BoxBuilderOption {
	return func(c *boxConfig) {
		c.segments = [3]uint32{x, y, z}
	}
}

// WithMeshOptions forwards options to the NewMesh call that finishes the box.
//
// Parameters:
//   - options: the mesh options
//
// Returns:
//   - BoxBuilderOption: a function that records the mesh options
func WithMeshOptions(options ...MeshBuilderOption) BoxBuilderOption {
	return func(c *boxConfig) {
		c.meshOptions = append(c.meshOptions, options...)
	}
}
