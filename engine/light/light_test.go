package light

import (
	"encoding/binary"
	"math"
	"testing"

	. "github.com/onsi/gomega"
)

func TestDefaultLight(t *testing.T) {
	g := NewWithT(t)

	l := New()
	g.Expect(l).To(Equal(DefaultLight()))
	g.Expect(l.Raw()).To(Equal([4]float32{1, 1, 1, 0.8}))
}

func TestLightOptions(t *testing.T) {
	g := NewWithT(t)

	l := New(WithColor(1, 0.5, 0.25), WithAmbientIntensity(0.5))
	g.Expect(l.Raw()).To(Equal([4]float32{1, 0.5, 0.25, 0.5}))

	g.Expect(New(WithAmbientIntensity(-2)).AmbientIntensity).To(Equal(float32(0)))
}

func TestLightMarshal(t *testing.T) {
	g := NewWithT(t)

	l := New(WithColor(0.2, 0.4, 0.6), WithAmbientIntensity(0.3))
	g.Expect(l.Size()).To(Equal(16))

	buf := l.Marshal()
	g.Expect(buf).To(HaveLen(16))
	for i, want := range l.Raw() {
		g.Expect(math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))).To(Equal(want))
	}
}
