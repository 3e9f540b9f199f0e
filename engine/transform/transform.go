package transform

import (
	"github.com/Carmen-Shannon/oxy-cube/common"
	"github.com/go-gl/mathgl/mgl32"
)

// Default frame policy values. They reproduce the cube's fixed spin and camera.
const (
	DefaultSpinRate    float32 = 0.5
	DefaultFieldOfView float64 = 65
	DefaultNear        float32 = 0.1
	DefaultFar         float32 = 100
	DefaultEyeDistance float32 = 2.5
)

// DefaultSpinAxis is the cube's rotation axis. It is deliberately not unit length.
var DefaultSpinAxis = mgl32.Vec3{0.7, 1, 0}

// FrameTransforms holds every matrix derived for a single frame.
type FrameTransforms struct {
	Model      mgl32.Mat4
	View       mgl32.Mat4
	Projection mgl32.Mat4
	ModelView  mgl32.Mat4
	MVP        mgl32.Mat4
	Normal     mgl32.Mat3
}

// Constants packs the transforms into the uniform layout consumed by the vertex stage.
//
// Returns:
//   - GPUConstants: the MVP and padded normal matrix
func (f FrameTransforms) Constants() GPUConstants {
	return GPUConstants{
		ModelViewProjection: f.MVP,
		Normal:              common.PaddedMat3(f.Normal),
	}
}

// framePolicy is the implementation of the FramePolicy interface.
type framePolicy struct {
	spinAxis      mgl32.Vec3
	spinRate      float32
	normalizeAxis bool

	fovYDegrees float64
	near, far   float32

	eye, center, up mgl32.Vec3

	modelScale  mgl32.Vec3
	modelOffset mgl32.Vec3
}

// FramePolicy turns elapsed time and viewport aspect ratio into the frame's transforms.
// It is pure math: no I/O, no GPU dependency, and the same inputs always give the same output.
type FramePolicy interface {
	// ComposeFrame computes the model, view and projection matrices for a frame along with their
	// compositions. The model-view is view*model, the MVP is projection*model-view, and the normal
	// matrix is derived from the model-view so normals land in view space.
	//
	// Parameters:
	//   - time: the accumulated animation time in seconds
	//   - aspect: the viewport width divided by its height
	//
	// Returns:
	//   - FrameTransforms: every matrix for the frame
	ComposeFrame(time float64, aspect float32) FrameTransforms

	// ModelMatrix returns the model matrix at the given time: offset * rotation * scale.
	//
	// Parameters:
	//   - time: the accumulated animation time in seconds
	//
	// Returns:
	//   - mgl32.Mat4: the model matrix
	ModelMatrix(time float64) mgl32.Mat4

	// ViewMatrix returns the camera's view matrix.
	//
	// Returns:
	//   - mgl32.Mat4: the view matrix
	ViewMatrix() mgl32.Mat4

	// ProjectionMatrix returns the perspective projection for the given aspect ratio.
	//
	// Parameters:
	//   - aspect: the viewport width divided by its height
	//
	// Returns:
	//   - mgl32.Mat4: the projection matrix
	ProjectionMatrix(aspect float32) mgl32.Mat4

	// SpinAngle returns the rotation angle in radians applied at the given time.
	//
	// Parameters:
	//   - time: the accumulated animation time in seconds
	//
	// Returns:
	//   - float32: the angle in radians
	SpinAngle(time float64) float32

	// SpinAxis returns the axis actually handed to the rotation, normalized only when the policy asks for it.
	//
	// Returns:
	//   - mgl32.Vec3: the rotation axis
	SpinAxis() mgl32.Vec3
}

var _ FramePolicy = &framePolicy{}

var defaultPolicy = NewFramePolicy()

// NewFramePolicy creates a FramePolicy. Without options it spins at 0.5 rad/s about the unnormalized
// axis (0.7, 1, 0), uses a 65 degree vertical field of view with planes at 0.1 and 100, and looks at
// the origin from (0, 0, 2.5).
//
// Parameters:
//   - options: functional options overriding the defaults
//
// Returns:
//   - FramePolicy: the configured policy
func NewFramePolicy(options ...FramePolicyBuilderOption) FramePolicy {
	p := &framePolicy{
		spinAxis:    DefaultSpinAxis,
		spinRate:    DefaultSpinRate,
		fovYDegrees: DefaultFieldOfView,
		near:        DefaultNear,
		far:         DefaultFar,
		eye:         mgl32.Vec3{0, 0, DefaultEyeDistance},
		center:      mgl32.Vec3{},
		up:          mgl32.Vec3{0, 1, 0},
		modelScale:  mgl32.Vec3{1, 1, 1},
	}

	for _, opt := range options {
		opt(p)
	}

	return p
}

// ComposeFrame evaluates the default FramePolicy.
//
// Parameters:
//   - time: the accumulated animation time in seconds
//   - aspect: the viewport width divided by its height
//
// Returns:
//   - FrameTransforms: every matrix for the frame
func ComposeFrame(time float64, aspect float32) FrameTransforms {
	return defaultPolicy.ComposeFrame(time, aspect)
}

// AspectRatio returns width/height, falling back to 1 for an empty viewport.
//
// Parameters:
//   - width: the viewport width in pixels
//   - height: the viewport height in pixels
//
// Returns:
//   - float32: the aspect ratio
func AspectRatio(width, height int) float32 {
	if width <= 0 || height <= 0 {
		return 1
	}
	return float32(width) / float32(height)
}

func (p *framePolicy) ComposeFrame(time float64, aspect float32) FrameTransforms {
	model := p.ModelMatrix(time)
	view := p.ViewMatrix()
	projection := p.ProjectionMatrix(aspect)

	modelView := view.Mul4(model)
	return FrameTransforms{
		Model:      model,
		View:       view,
		Projection: projection,
		ModelView:  modelView,
		MVP:        projection.Mul4(modelView),
		Normal:     common.NormalMatrix(modelView),
	}
}

func (p *framePolicy) ModelMatrix(time float64) mgl32.Mat4 {
	model := common.Rotation(p.SpinAngle(time), p.SpinAxis())
	if p.modelScale != (mgl32.Vec3{1, 1, 1}) {
		model = model.Mul4(common.ScalingVec(p.modelScale))
	}
	if p.modelOffset != (mgl32.Vec3{}) {
		model = common.Translation(p.modelOffset).Mul4(model)
	}
	return model
}

func (p *framePolicy) ViewMatrix() mgl32.Mat4 {
	return common.LookAt(p.eye, p.center, p.up)
}

func (p *framePolicy) ProjectionMatrix(aspect float32) mgl32.Mat4 {
	fovY := float32(common.RadiansFromDegrees(p.fovYDegrees))
	return common.Perspective(fovY, aspect, p.near, p.far)
}

func (p *framePolicy) SpinAngle(time float64) float32 {
	return float32(time * float64(p.spinRate))
}

func (p *framePolicy) SpinAxis() mgl32.Vec3 {
	if p.normalizeAxis {
		return p.spinAxis.Normalize()
	}
	return p.spinAxis
}
