package model

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	. "github.com/onsi/gomega"
)

func decodeVertices(data []byte) []GPUVertex {
	out := make([]GPUVertex, len(data)/32)
	f := func(off int) float32 { return math.Float32frombits(binary.LittleEndian.Uint32(data[off:])) }
	for i := range out {
		o := i * 32
		out[i] = GPUVertex{
			Position: [3]float32{f(o), f(o + 4), f(o + 8)},
			Normal:   [3]float32{f(o + 12), f(o + 16), f(o + 20)},
			TexCoord: [2]float32{f(o + 24), f(o + 28)},
		}
	}
	return out
}

func decodeIndices(m Mesh) []uint32 {
	out := make([]uint32, m.IndexCount())
	data := m.IndexData()
	for i := range out {
		if m.IndexFormat() == wgpu.IndexFormatUint16 {
			out[i] = uint32(binary.LittleEndian.Uint16(data[i*2:]))
		} else {
			out[i] = binary.LittleEndian.Uint32(data[i*4:])
		}
	}
	return out
}

func TestDefaultBoxCounts(t *testing.T) {
	g := NewWithT(t)

	m, err := NewBoxMesh()
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(m.VertexCount()).To(Equal(6 * 11 * 11))
	g.Expect(m.IndexCount()).To(Equal(6 * 10 * 10 * 6))
	g.Expect(m.IndexFormat()).To(Equal(wgpu.IndexFormatUint16))
	g.Expect(m.Topology()).To(Equal(wgpu.PrimitiveTopologyTriangleList))
	g.Expect(m.VertexData()).To(HaveLen(726 * 32))
	g.Expect(m.IndexData()).To(HaveLen(3600 * 2))
	g.Expect(m.Label()).To(Equal("Box"))
}

func TestBoxNormalsAndWinding(t *testing.T) {
	g := NewWithT(t)

	m, err := NewBoxMesh()
	g.Expect(err).NotTo(HaveOccurred())

	vertices := decodeVertices(m.VertexData())
	indices := decodeIndices(m)

	for _, v := range vertices {
		n := mgl32.Vec3(v.Normal)
		g.Expect(n.Len()).To(BeNumerically("~", 1, 1e-6))
		// every vertex lies on the half-unit surface its normal points out of
		g.Expect(mgl32.Vec3(v.Position).Dot(n)).To(BeNumerically("~", 0.5, 1e-6))
		g.Expect(v.TexCoord[0]).To(BeNumerically(">=", 0))
		g.Expect(v.TexCoord[1]).To(BeNumerically("<=", 1))
	}

	for tri := 0; tri < len(indices); tri += 3 {
		p0 := mgl32.Vec3(vertices[indices[tri]].Position)
		p1 := mgl32.Vec3(vertices[indices[tri+1]].Position)
		p2 := mgl32.Vec3(vertices[indices[tri+2]].Position)
		face := p1.Sub(p0).Cross(p2.Sub(p0))
		centroid := p0.Add(p1).Add(p2).Mul(1.0 / 3.0)

		g.Expect(face.Dot(centroid)).To(BeNumerically(">", 0), "triangle %d winds inward", tri/3)
		g.Expect(face.Dot(mgl32.Vec3(vertices[indices[tri]].Normal))).To(BeNumerically(">", 0))
	}
}

func TestBoxOptions(t *testing.T) {
	g := NewWithT(t)

	m, err := NewBoxMesh(WithSize(2), WithSegments(1, 2, 3), WithMeshOptions(WithLabel("Crate")))
	g.Expect(err).NotTo(HaveOccurred())
	// +-X: 4x3 grid (z by y), +-Y: 2x4 (x by z), +-Z: 2x3 (x by y)
	g.Expect(m.VertexCount()).To(Equal(2 * (12 + 8 + 6)))
	g.Expect(m.IndexCount()).To(Equal(2 * 6 * (6 + 3 + 2)))
	g.Expect(m.Label()).To(Equal("Crate"))

	for _, v := range decodeVertices(m.VertexData()) {
		for _, c := range v.Position {
			g.Expect(c).To(BeNumerically("~", 0, 1.0+1e-6))
		}
	}
}

func TestBoxRejectsDegenerateDimensions(t *testing.T) {
	g := NewWithT(t)

	_, err := NewBoxMesh(WithSize(0))
	g.Expect(err).To(MatchError(ErrInvalidBox))

	_, err = NewBoxMesh(WithSegments(10, 0, 10))
	g.Expect(err).To(MatchError(ErrInvalidBox))
}

func TestNewMeshValidation(t *testing.T) {
	g := NewWithT(t)

	_, err := NewMesh(nil, []uint32{0})
	g.Expect(err).To(MatchError(ErrEmptyMesh))

	_, err = NewMesh(make([]GPUVertex, 3), []uint32{0, 1, 3})
	g.Expect(err).To(MatchError(ErrIndexOutOfRange))

	m, err := NewMesh(make([]GPUVertex, 3), []uint32{0, 1, 2})
	g.Expect(err).NotTo(HaveOccurred())
	// three uint16 indices are padded to a 4-byte multiple
	g.Expect(m.IndexData()).To(HaveLen(8))
	g.Expect(m.IndexCount()).To(Equal(3))
}

func TestIndexFormatFor(t *testing.T) {
	g := NewWithT(t)

	g.Expect(IndexFormatFor(726)).To(Equal(wgpu.IndexFormatUint16))
	g.Expect(IndexFormatFor(65535)).To(Equal(wgpu.IndexFormatUint16))
	g.Expect(IndexFormatFor(65536)).To(Equal(wgpu.IndexFormatUint32))
	g.Expect(IndexSize(wgpu.IndexFormatUint16)).To(Equal(2))
	g.Expect(IndexSize(wgpu.IndexFormatUint32)).To(Equal(4))

	m, err := NewMesh(make([]GPUVertex, 70000), []uint32{0, 69999, 1})
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(m.IndexFormat()).To(Equal(wgpu.IndexFormatUint32))
	g.Expect(decodeIndices(m)).To(Equal([]uint32{0, 69999, 1}))
}

func TestGPUVertexLayout(t *testing.T) {
	g := NewWithT(t)

	v := GPUVertex{Position: [3]float32{1, 2, 3}, Normal: [3]float32{0, 0, 1}, TexCoord: [2]float32{0.25, 0.75}}
	g.Expect(v.Size()).To(Equal(32))
	g.Expect(decodeVertices(v.Marshal())).To(Equal([]GPUVertex{v}))

	layout := GPUVertexLayout()
	g.Expect(layout.ArrayStride).To(Equal(uint64(32)))
	g.Expect(layout.Attributes).To(HaveLen(3))
	g.Expect(layout.Attributes[2].Offset).To(Equal(uint64(24)))
	g.Expect(layout.Attributes[2].ShaderLocation).To(Equal(uint32(2)))
}
