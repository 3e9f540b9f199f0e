package profiler

import (
	"testing"
	"time"

	. "github.com/onsi/gomega"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestTickReportsAfterInterval(t *testing.T) {
	g := NewWithT(t)

	c := &fakeClock{t: time.Unix(0, 0)}
	p := NewProfiler(WithClock(c.now), WithInterval(500*time.Millisecond))

	for range 49 {
		c.advance(10 * time.Millisecond)
		g.Expect(p.Tick()).To(BeFalse())
	}
	c.advance(10 * time.Millisecond)
	g.Expect(p.Tick()).To(BeTrue())

	stats := p.Last()
	g.Expect(stats.FramesInSpan).To(Equal(50))
	g.Expect(stats.FPS).To(BeNumerically("~", 100, 0.01))
	g.Expect(stats.SysMB).To(BeNumerically(">", 0))
}

func TestTickResetsWindow(t *testing.T) {
	g := NewWithT(t)

	c := &fakeClock{t: time.Unix(0, 0)}
	p := NewProfiler(WithClock(c.now), WithInterval(100*time.Millisecond))

	c.advance(100 * time.Millisecond)
	g.Expect(p.Tick()).To(BeTrue())

	c.advance(50 * time.Millisecond)
	g.Expect(p.Tick()).To(BeFalse())
	c.advance(50 * time.Millisecond)
	g.Expect(p.Tick()).To(BeTrue())
	g.Expect(p.Last().FramesInSpan).To(Equal(2))
	g.Expect(p.Last().FPS).To(BeNumerically("~", 20, 0.01))
}

func TestInvalidOptionsKeepDefaults(t *testing.T) {
	g := NewWithT(t)

	p := NewProfiler(WithInterval(0), WithClock(nil))
	g.Expect(p.updateInterval).To(Equal(time.Second))
	g.Expect(p.now).NotTo(BeNil())
	g.Expect(p.Last()).To(Equal(Stats{}))
}
