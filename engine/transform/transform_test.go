package transform

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-cube/common"
	"github.com/go-gl/mathgl/mgl32"
	. "github.com/onsi/gomega"
)

const tolerance = 1e-5

func expectMat4Near(g *WithT, got, want mgl32.Mat4) {
	for i := range got {
		g.Expect(got[i]).To(BeNumerically("~", want[i], tolerance), "element %d", i)
	}
}

func expectMat3Near(g *WithT, got, want mgl32.Mat3) {
	for i := range got {
		g.Expect(got[i]).To(BeNumerically("~", want[i], tolerance), "element %d", i)
	}
}

func TestComposeFrameIsDeterministic(t *testing.T) {
	g := NewWithT(t)

	a := ComposeFrame(3.25, 16.0/9.0).Constants()
	b := ComposeFrame(3.25, 16.0/9.0).Constants()

	g.Expect(bytes.Equal(a.Marshal(), b.Marshal())).To(BeTrue())
}

func TestDefaultPolicy(t *testing.T) {
	g := NewWithT(t)

	p := NewFramePolicy()
	g.Expect(p.SpinAxis()).To(Equal(mgl32.Vec3{0.7, 1, 0}))
	g.Expect(p.SpinAngle(1.0 / 60.0)).To(BeNumerically("~", (1.0/60.0)*0.5, 1e-7))

	view := p.ViewMatrix()
	g.Expect(view.Col(3)).To(Equal(mgl32.Vec4{0, 0, -2.5, 1}))

	proj := p.ProjectionMatrix(1)
	f := float32(1 / math.Tan(common.RadiansFromDegrees(65)/2))
	g.Expect(proj.At(1, 1)).To(BeNumerically("~", f, tolerance))
	g.Expect(proj.At(0, 0)).To(BeNumerically("~", f, tolerance))
}

func TestComposeFrameAtTimeZero(t *testing.T) {
	g := NewWithT(t)

	frame := ComposeFrame(0, 1)

	expectMat4Near(g, frame.Model, mgl32.Ident4())
	expectMat4Near(g, frame.ModelView, frame.View)
	expectMat3Near(g, frame.Normal, mgl32.Ident3())
}

func TestComposeFrameComposition(t *testing.T) {
	g := NewWithT(t)

	p := NewFramePolicy()
	frame := p.ComposeFrame(2.75, 1.6)

	g.Expect(frame.Model).To(Equal(common.Rotation(p.SpinAngle(2.75), p.SpinAxis())))
	g.Expect(frame.ModelView).To(Equal(frame.View.Mul4(frame.Model)))
	g.Expect(frame.MVP).To(Equal(frame.Projection.Mul4(frame.View.Mul4(frame.Model))))
	g.Expect(frame.Normal).To(Equal(common.NormalMatrix(frame.ModelView)))
	g.Expect(frame.Projection).To(Equal(p.ProjectionMatrix(1.6)))
}

func TestNormalizedAxisOption(t *testing.T) {
	g := NewWithT(t)

	raw := NewFramePolicy()
	unit := NewFramePolicy(WithNormalizedAxis(true))

	g.Expect(unit.SpinAxis().Len()).To(BeNumerically("~", 1, tolerance))
	g.Expect(raw.ModelMatrix(1).ApproxEqualThreshold(unit.ModelMatrix(1), tolerance)).To(BeFalse())
	expectMat4Near(g, unit.ModelMatrix(1), mgl32.HomogRotate3D(0.5, mgl32.Vec3{0.7, 1, 0}.Normalize()).Transpose())
}

func TestModelScaleAndOffset(t *testing.T) {
	g := NewWithT(t)

	p := NewFramePolicy(
		WithSpinRate(0),
		WithModelScale(mgl32.Vec3{2, 3, 4}),
		WithModelOffset(mgl32.Vec3{1, 0, -1}),
	)

	m := p.ModelMatrix(10)
	g.Expect(m.Diag()).To(Equal(mgl32.Vec4{2, 3, 4, 1}))
	g.Expect(m.Col(3)).To(Equal(mgl32.Vec4{1, 0, -1, 1}))
}

func TestInvalidOptionsAreIgnored(t *testing.T) {
	g := NewWithT(t)

	p := NewFramePolicy(WithFieldOfView(-10), WithDepthRange(5, 1), WithDepthRange(0, 10))
	g.Expect(p.ProjectionMatrix(1)).To(Equal(NewFramePolicy().ProjectionMatrix(1)))
}

func TestCameraOptions(t *testing.T) {
	g := NewWithT(t)

	eye := mgl32.Vec3{4, 1, 3}
	center := mgl32.Vec3{0, 0.5, 0}
	up := mgl32.Vec3{0, 1, 0}
	p := NewFramePolicy(WithEye(eye), WithCenter(center), WithUp(up))

	expectMat4Near(g, p.ViewMatrix(), mgl32.LookAtV(eye, center, up))
}

func TestAspectRatio(t *testing.T) {
	g := NewWithT(t)

	g.Expect(AspectRatio(1920, 1080)).To(BeNumerically("~", 16.0/9.0, tolerance))
	g.Expect(AspectRatio(0, 1080)).To(Equal(float32(1)))
	g.Expect(AspectRatio(800, -1)).To(Equal(float32(1)))
}

func TestGPUConstantsLayout(t *testing.T) {
	g := NewWithT(t)

	c := ComposeFrame(1, 1).Constants()
	g.Expect(c.Size()).To(Equal(112))

	buf := c.Marshal()
	g.Expect(buf).To(HaveLen(112))

	// mvp[1][2] sits at column 1, row 2
	off := (1*4 + 2) * 4
	g.Expect(math.Float32frombits(binary.LittleEndian.Uint32(buf[off:]))).To(Equal(c.ModelViewProjection.At(2, 1)))

	// column padding words stay zero
	for _, pad := range []int{3, 7, 11} {
		g.Expect(binary.LittleEndian.Uint32(buf[64+pad*4:])).To(Equal(uint32(0)))
	}
}
