package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// RadiansFromDegrees converts an angle in degrees to radians.
//
// Parameters:
//   - degrees: the angle in degrees
//
// Returns:
//   - float64: the angle in radians
func RadiansFromDegrees(degrees float64) float64 {
	return (degrees / 180) * math.Pi
}

// DegreesFromRadians converts an angle in radians to degrees.
//
// Parameters:
//   - radians: the angle in radians
//
// Returns:
//   - float64: the angle in degrees
func DegreesFromRadians(radians float64) float64 {
	return (radians / math.Pi) * 180
}

// Rotation builds a 4x4 rotation matrix of angle radians about axis.
//
// The axis is used as given; callers that need a true axis-angle rotation must pass a unit vector.
// The result is the transpose of mgl32.HomogRotate3D for the same inputs, which is the layout the
// cube's frame policy has always used.
//
// Parameters:
//   - angle: the rotation angle in radians
//   - axis: the rotation axis (not normalized)
//
// Returns:
//   - mgl32.Mat4: the column-major rotation matrix
func Rotation(angle float32, axis mgl32.Vec3) mgl32.Mat4 {
	ax, ay, az := axis[0], axis[1], axis[2]
	s := float32(math.Sin(float64(angle)))
	c := float32(math.Cos(float64(angle)))
	k := 1 - c

	return mgl32.Mat4FromCols(
		mgl32.Vec4{ax*ax + (1-ax*ax)*c, ax*ay*k - az*s, ax*az*k + ay*s, 0},
		mgl32.Vec4{ax*ay*k + az*s, ay*ay + (1-ay*ay)*c, ay*az*k - ax*s, 0},
		mgl32.Vec4{ax*az*k - ay*s, ay*az*k + ax*s, az*az + (1-az*az)*c, 0},
		mgl32.Vec4{0, 0, 0, 1},
	)
}

// Translation builds an affine translation matrix.
//
// Parameters:
//   - offset: the translation applied to every point
//
// Returns:
//   - mgl32.Mat4: identity with offset in the fourth column
func Translation(offset mgl32.Vec3) mgl32.Mat4 {
	return mgl32.Translate3D(offset[0], offset[1], offset[2])
}

// Scaling builds a uniform scale matrix.
//
// Parameters:
//   - factor: the scale applied on every axis
//
// Returns:
//   - mgl32.Mat4: identity with factor on the first three diagonal entries
func Scaling(factor float32) mgl32.Mat4 {
	return mgl32.Scale3D(factor, factor, factor)
}

// ScalingVec builds a per-axis scale matrix.
//
// Parameters:
//   - factors: the x, y and z scale factors
//
// Returns:
//   - mgl32.Mat4: the scale matrix
func ScalingVec(factors mgl32.Vec3) mgl32.Mat4 {
	return mgl32.Scale3D(factors[0], factors[1], factors[2])
}

// Perspective builds a right-handed perspective projection mapping view-space depth to [0, 1].
// A point at z = -near lands on depth 0 and a point at z = -far lands on depth 1.
// near == far is a precondition violation and produces a division by zero.
//
// Parameters:
//   - fovY: the vertical field of view in radians
//   - aspect: the viewport width divided by its height
//   - near: the distance to the near plane
//   - far: the distance to the far plane
//
// Returns:
//   - mgl32.Mat4: the column-major projection matrix
func Perspective(fovY, aspect, near, far float32) mgl32.Mat4 {
	ys := float32(1 / math.Tan(float64(fovY)*0.5))
	xs := ys / aspect
	zs := far / (near - far)

	return mgl32.Mat4FromCols(
		mgl32.Vec4{xs, 0, 0, 0},
		mgl32.Vec4{0, ys, 0, 0},
		mgl32.Vec4{0, 0, zs, -1},
		mgl32.Vec4{0, 0, zs * near, 0},
	)
}

// PerspectiveGL builds the OpenGL style projection that maps depth to [-1, 1].
// It is kept for tooling that consumes GL clip space; the renderer uses Perspective.
//
// Parameters:
//   - fovY: the vertical field of view in radians
//   - aspect: the viewport width divided by its height
//   - near: the distance to the near plane
//   - far: the distance to the far plane
//
// Returns:
//   - mgl32.Mat4: the column-major projection matrix
func PerspectiveGL(fovY, aspect, near, far float32) mgl32.Mat4 {
	return mgl32.Perspective(fovY, aspect, near, far)
}

// LookAt builds a right-handed view matrix for a camera at eye looking at center.
// up parallel to eye-center is a precondition violation and yields NaNs.
//
// Parameters:
//   - eye: the camera position
//   - center: the point the camera looks at
//   - up: the approximate up direction
//
// Returns:
//   - mgl32.Mat4: the column-major view matrix
func LookAt(eye, center, up mgl32.Vec3) mgl32.Mat4 {
	z := eye.Sub(center).Normalize()
	x := up.Cross(z).Normalize()
	y := z.Cross(x)

	return mgl32.Mat4FromCols(
		mgl32.Vec4{x[0], y[0], z[0], 0},
		mgl32.Vec4{x[1], y[1], z[1], 0},
		mgl32.Vec4{x[2], y[2], z[2], 0},
		mgl32.Vec4{-x.Dot(eye), -y.Dot(eye), -z.Dot(eye), 1},
	)
}

// NormalMatrix returns the inverse transpose of the upper-left 3x3 block of m.
// A singular block is not defended against; mgl32 returns the zero matrix in that case.
//
// Parameters:
//   - m: the model-view matrix
//
// Returns:
//   - mgl32.Mat3: the matrix used to transform normals
func NormalMatrix(m mgl32.Mat4) mgl32.Mat3 {
	return m.Mat3().Inv().Transpose()
}

// PaddedMat3 lays out a 3x3 matrix as three vec4 columns, the std140 layout of a WGSL mat3x3<f32>.
//
// Parameters:
//   - m: the matrix to lay out
//
// Returns:
//   - [12]float32: column-major floats with a zero pad after each column
func PaddedMat3(m mgl32.Mat3) [12]float32 {
	var out [12]float32
	for c := 0; c < 3; c++ {
		col := m.Col(c)
		out[c*4+0] = col[0]
		out[c*4+1] = col[1]
		out[c*4+2] = col[2]
	}
	return out
}
