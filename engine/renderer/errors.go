package renderer

import "errors"

// Construction failures. NewRenderer wraps the underlying cause with one of these.
var (
	ErrDeviceUnavailable   = errors.New("gpu device unavailable")
	ErrPipelineCompilation = errors.New("render pipeline compilation failed")
	ErrMeshBuild           = errors.New("mesh build failed")
	ErrTextureLoad         = errors.New("texture load failed")
)
