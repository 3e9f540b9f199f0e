package transform

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// GPUConstants is the per-frame vertex constant block. It matches the WGSL FrameConstants struct
// in the cube shader: a mat4x4<f32> followed by a mat3x3<f32>, whose columns are padded to 16 bytes.
// Size: 112 bytes.
type GPUConstants struct {
	ModelViewProjection mgl32.Mat4  // offset  0: mat4x4<f32>
	Normal              [12]float32 // offset 64: mat3x3<f32>, three vec3 columns each padded to vec4
}

// Size returns the size of the GPUConstants struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (112)
func (g *GPUConstants) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUConstants struct into a little-endian byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUConstants) Marshal() []byte {
	buf := make([]byte, g.Size())
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.ModelViewProjection[i]))
	}
	for i := range 12 {
		binary.LittleEndian.PutUint32(buf[64+i*4:], math.Float32bits(g.Normal[i]))
	}
	return buf
}
