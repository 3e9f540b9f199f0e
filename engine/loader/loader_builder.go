package loader

import (
	"github.com/Carmen-Shannon/oxy-cube/common"
	"github.com/Carmen-Shannon/oxy-cube/engine/model"
)

// AssetsBuilderOption is a functional option for configuring Assets via NewAssets.
type AssetsBuilderOption func(*assets)

// WithTexturePath is an option builder that sets the image file to texture the cube with.
// An empty path keeps the generated checkerboard.
//
// Parameters:
//   - path: a PNG, JPEG, BMP, TIFF or WebP file
//
// Returns:
//   - AssetsBuilderOption: a function that applies the texture path option
func WithTexturePath(path string) AssetsBuilderOption {
	return func(a *assets) {
		a.texturePath = path
	}
}

// WithMaxTextureSize is an option builder that caps the decoded texture's width and height.
//
// Parameters:
//   - size: the largest side in pixels, 0 to keep images at their source size
//
// Returns:
//   - AssetsBuilderOption: a function that applies the max texture size option
func WithMaxTextureSize(size int) AssetsBuilderOption {
	return func(a *assets) {
		a.maxTextureSize = max(size, 0)
	}
}

// WithBoxOptions is an option builder that forwards options to model.NewBoxMesh.
//
// Parameters:
//   - options: the box options (size, segments, mesh label)
//
// Returns:
//   - AssetsBuilderOption: a function that applies the box options
func WithBoxOptions(options ...model.BoxBuilderOption) AssetsBuilderOption {
	return func(a *assets) {
		a.boxOptions = append(a.boxOptions, options...)
	}
}

// WithFallbackTexture is an option builder that replaces the generated checkerboard used
// when no texture path is set.
//
// Parameters:
//   - data: the RGBA8 texture to use
//
// Returns:
//   - AssetsBuilderOption: a function that applies the fallback texture option
func WithFallbackTexture(data common.TextureStagingData) AssetsBuilderOption {
	return func(a *assets) {
		a.fallback = &data
	}
}

// WithWorkers is an option builder that sets the worker count of the preparation pool.
//
// Parameters:
//   - n: the number of workers (minimum 1)
//
// Returns:
//   - AssetsBuilderOption: a function that applies the worker count option
func WithWorkers(n int) AssetsBuilderOption {
	return func(a *assets) {
		a.workers = max(n, 1)
	}
}
