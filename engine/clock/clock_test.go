package clock

import (
	"math"
	"testing"
	"time"

	. "github.com/onsi/gomega"
)

func TestFixedStep(t *testing.T) {
	g := NewWithT(t)

	src := Fixed()
	g.Expect(src.Step(60)).To(Equal(1.0 / 60.0))
	g.Expect(src.Step(120)).To(Equal(1.0 / 120.0))
	g.Expect(src.Step(0)).To(Equal(1.0 / 60.0))
	g.Expect(src.Step(-5)).To(Equal(1.0 / 60.0))
}

func TestFixedAccumulates(t *testing.T) {
	g := NewWithT(t)

	src := Fixed()
	var elapsed float64
	for range 90 {
		elapsed += src.Step(30)
	}
	g.Expect(elapsed).To(BeNumerically("~", 3, 1e-9))
}

func TestMeasuredUsesInjectedClock(t *testing.T) {
	g := NewWithT(t)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ticks := []time.Time{
		base,
		base.Add(20 * time.Millisecond),
		base.Add(50 * time.Millisecond),
		base.Add(40 * time.Millisecond), // clock stepped backwards
		base.Add(140 * time.Millisecond),
	}
	i := 0
	src := Measured(func() time.Time {
		now := ticks[i]
		i++
		return now
	})

	g.Expect(src.Step(50)).To(Equal(1.0 / 50.0))
	g.Expect(src.Step(50)).To(BeNumerically("~", 0.02, 1e-9))
	g.Expect(src.Step(50)).To(BeNumerically("~", 0.03, 1e-9))
	g.Expect(src.Step(50)).To(Equal(0.0))
	g.Expect(src.Step(50)).To(BeNumerically("~", 0.1, 1e-9))
}

func TestSanitize(t *testing.T) {
	g := NewWithT(t)

	g.Expect(Sanitize(0.5)).To(Equal(0.5))
	g.Expect(Sanitize(-0.1)).To(Equal(0.0))
	g.Expect(Sanitize(math.NaN())).To(Equal(0.0))
	g.Expect(Sanitize(math.Inf(1))).To(Equal(0.0))
}
