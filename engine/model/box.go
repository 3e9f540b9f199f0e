package model

import (
	"errors"
	"fmt"
)

// ErrInvalidBox is returned when a box has a non-positive extent or a zero segment count.
var ErrInvalidBox = errors.New("invalid box dimensions")

// Default box parameters.
const (
	DefaultBoxSize     float32 = 1
	DefaultBoxSegments uint32  = 10
)

type boxConfig struct {
	extent      [3]float32
	segments    [3]uint32
	meshOptions []MeshBuilderOption
}

// boxFace describes one side of the box. u x v points along normal, so walking
// a quad in increasing u then v winds counter-clockwise seen from outside.
type boxFace struct {
	normal [3]float32
	u, v   [3]float32
	// axes that u and v run along, used to pick extents and segment counts
	uAxis, vAxis int
}

var boxFaces = [6]boxFace{
	{normal: [3]float32{1, 0, 0}, u: [3]float32{0, 0, -1}, v: [3]float32{0, 1, 0}, uAxis: 2, vAxis: 1},
	{normal: [3]float32{-1, 0, 0}, u: [3]float32{0, 0, 1}, v: [3]float32{0, 1, 0}, uAxis: 2, vAxis: 1},
	{normal: [3]float32{0, 1, 0}, u: [3]float32{1, 0, 0}, v: [3]float32{0, 0, -1}, uAxis: 0, vAxis: 2},
	{normal: [3]float32{0, -1, 0}, u: [3]float32{1, 0, 0}, v: [3]float32{0, 0, 1}, uAxis: 0, vAxis: 2},
	{normal: [3]float32{0, 0, 1}, u: [3]float32{1, 0, 0}, v: [3]float32{0, 1, 0}, uAxis: 0, vAxis: 1},
	{normal: [3]float32{0, 0, -1}, u: [3]float32{-1, 0, 0}, v: [3]float32{0, 1, 0}, uAxis: 0, vAxis: 1},
}

// NewBoxMesh builds a subdivided box centered on the origin with outward normals and
// counter-clockwise front faces. Each face gets its own vertices so normals and UVs stay
// flat per face; every face maps the full [0,1] UV range.
//
// With the defaults (size 1, 10x10x10 segments) the box has 726 vertices and 3600 indices.
//
// Parameters:
//   - options: functional options for size, segments and the resulting mesh
//
// Returns:
//   - Mesh: the box mesh
//   - error: ErrInvalidBox if the dimensions are unusable
func NewBoxMesh(options ...BoxBuilderOption) (Mesh, error) {
	c := &boxConfig{
		extent:   [3]float32{DefaultBoxSize, DefaultBoxSize, DefaultBoxSize},
		segments: [3]uint32{DefaultBoxSegments, DefaultBoxSegments, DefaultBoxSegments},
	}
	for _, opt := range options {
		opt(c)
	}

	for i := range 3 {
		if c.extent[i] <= 0 || c.segments[i] == 0 {
			return nil, fmt.Errorf("%w: extent %v, segments %v", ErrInvalidBox, c.extent, c.segments)
		}
	}

	vertices, indices := buildBox(c.extent, c.segments)
	opts := append([]MeshBuilderOption{WithLabel("Box")}, c.meshOptions...)
	return NewMesh(vertices, indices, opts...)
}

func buildBox(extent [3]float32, segments [3]uint32) ([]GPUVertex, []uint32) {
	var vertices []GPUVertex
	var indices []uint32

	for _, f := range boxFaces {
		nu, nv := int(segments[f.uAxis]), int(segments[f.vAxis])
		eu, ev := extent[f.uAxis], extent[f.vAxis]
		// distance from the center to this face along its normal
		var depth float32
		for axis := range 3 {
			if f.normal[axis] != 0 {
				depth = extent[axis] / 2
			}
		}

		base := uint32(len(vertices))
		for j := 0; j <= nv; j++ {
			sv := float32(j) / float32(nv)
			for i := 0; i <= nu; i++ {
				su := float32(i) / float32(nu)
				var pos [3]float32
				for axis := range 3 {
					pos[axis] = f.normal[axis]*depth + f.u[axis]*(su-0.5)*eu + f.v[axis]*(sv-0.5)*ev
				}
				vertices = append(vertices, GPUVertex{
					Position: pos,
					Normal:   f.normal,
					TexCoord: [2]float32{su, 1 - sv},
				})
			}
		}

		row := uint32(nu + 1)
		for j := 0; j < nv; j++ {
			for i := 0; i < nu; i++ {
				i00 := base + uint32(j)*row + uint32(i)
				i10 := i00 + 1
				i01 := i00 + row
				i11 := i01 + 1
				indices = append(indices, i00, i10, i11, i00, i11, i01)
			}
		}
	}

	return vertices, indices
}
