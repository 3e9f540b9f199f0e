package light

import (
	"encoding/binary"
	"math"
	"unsafe"
)

// Size returns the size of the light's GPU representation in bytes.
// It matches the WGSL Light struct: a vec3<f32> color followed by an f32 ambient intensity.
//
// Returns:
//   - int: the size in bytes (16)
func (l Light) Size() int {
	return int(unsafe.Sizeof(l))
}

// Marshal serializes the light into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 16-byte buffer ready for GPU upload
func (l Light) Marshal() []byte {
	buf := make([]byte, l.Size())
	for i, v := range l.Raw() {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}
