package transform

import "github.com/go-gl/mathgl/mgl32"

// FramePolicyBuilderOption is a functional option used to configure a FramePolicy during construction.
type FramePolicyBuilderOption func(*framePolicy)

// WithSpinAxis sets the axis the model rotates about. The axis is used as given unless
// WithNormalizedAxis is also applied.
//
// Parameters:
//   - axis: the rotation axis
//
// Returns:
//   - FramePolicyBuilderOption: a function that sets the spin axis
func WithSpinAxis(axis mgl32.Vec3) FramePolicyBuilderOption {
	return func(p *framePolicy) {
		p.spinAxis = axis
	}
}

// WithSpinRate sets the rotation speed in radians per second of accumulated time.
//
// Parameters:
//   - rate: radians per second
//
// Returns:
//   - FramePolicyBuilderOption: a function that sets the spin rate
func WithSpinRate(rate float32) FramePolicyBuilderOption {
	return func(p *framePolicy) {
		p.spinRate = rate
	}
}

// WithNormalizedAxis controls whether the spin axis is normalized before building the rotation.
// The default is false, which keeps the cube's historical motion.
//
// Parameters:
//   - normalize: true to rotate about the unit-length axis
//
// Returns:
//   - FramePolicyBuilderOption: a function that sets axis normalization
func WithNormalizedAxis(normalize bool) FramePolicyBuilderOption {
	return func(p *framePolicy) {
		p.normalizeAxis = normalize
	}
}

// WithFieldOfView sets the vertical field of view. Values <= 0 are ignored.
//
// Parameters:
//   - degrees: the vertical field of view in degrees
//
// Returns:
//   - FramePolicyBuilderOption: a function that sets the field of view
func WithFieldOfView(degrees float64) FramePolicyBuilderOption {
	return func(p *framePolicy) {
		if degrees > 0 {
			p.fovYDegrees = degrees
		}
	}
}

// WithDepthRange sets the near and far clip plane distances. Ranges with near <= 0 or
// far <= near are ignored since they make the projection degenerate.
//
// Parameters:
//   - near: the near plane distance
//   - far: the far plane distance
//
// Returns:
//   - FramePolicyBuilderOption: a function that sets the clip planes
func WithDepthRange(near, far float32) FramePolicyBuilderOption {
	return func(p *framePolicy) {
		if near > 0 && far > near {
			p.near = near
			p.far = far
		}
	}
}

// WithEye sets the camera position.
//
// Parameters:
//   - eye: the camera position in world space
//
// Returns:
//   - FramePolicyBuilderOption: a function that sets the camera position
func WithEye(eye mgl32.Vec3) FramePolicyBuilderOption {
	return func(p *framePolicy) {
		p.eye = eye
	}
}

// WithCenter sets the point the camera looks at.
//
// Parameters:
//   - center: the look-at target in world space
//
// Returns:
//   - FramePolicyBuilderOption: a function that sets the look-at target
func WithCenter(center mgl32.Vec3) FramePolicyBuilderOption {
	return func(p *framePolicy) {
		p.center = center
	}
}

// WithUp sets the camera's up direction.
//
// Parameters:
//   - up: the up direction, must not be parallel to eye-center
//
// Returns:
//   - FramePolicyBuilderOption: a function that sets the up direction
func WithUp(up mgl32.Vec3) FramePolicyBuilderOption {
	return func(p *framePolicy) {
		p.up = up
	}
}

// WithModelScale applies a per-axis scale to the model before it is rotated.
//
// Parameters:
//   - scale: the x, y and z scale factors
//
// Returns:
//   - FramePolicyBuilderOption: a function that sets the model scale
func WithModelScale(scale mgl32.Vec3) FramePolicyBuilderOption {
	return func(p *framePolicy) {
		p.modelScale = scale
	}
}

// WithModelOffset translates the model after it is rotated.
//
// Parameters:
//   - offset: the world-space offset
//
// Returns:
//   - FramePolicyBuilderOption: a function that sets the model offset
func WithModelOffset(offset mgl32.Vec3) FramePolicyBuilderOption {
	return func(p *framePolicy) {
		p.modelOffset = offset
	}
}
