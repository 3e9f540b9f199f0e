package bind_group_provider

import "fmt"

// BufferWrite describes a single GPU buffer write targeting a binding on a BindGroupProvider
// at a given byte offset.
type BufferWrite struct {
	Provider BindGroupProvider
	Binding  int
	Offset   uint64
	Data     []byte
}

// Validate checks that the write fits the destination. Uniform writes must be a multiple of
// 4 bytes and the offset 4-byte aligned.
//
// Parameters:
//   - capacity: the destination buffer size in bytes
//
// Returns:
//   - error: a descriptive error, or nil
func (w BufferWrite) Validate(capacity uint64) error {
	if w.Provider == nil {
		return fmt.Errorf("buffer write has no provider")
	}
	if w.Offset%4 != 0 || len(w.Data)%4 != 0 {
		return fmt.Errorf("buffer write to %s binding %d is not 4-byte aligned (offset %d, size %d)",
			w.Provider.Label(), w.Binding, w.Offset, len(w.Data))
	}
	if w.Offset+uint64(len(w.Data)) > capacity {
		return fmt.Errorf("buffer write to %s binding %d overruns buffer: %d+%d > %d",
			w.Provider.Label(), w.Binding, w.Offset, len(w.Data), capacity)
	}
	return nil
}
