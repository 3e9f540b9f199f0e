package clock

import (
	"math"
	"sync"
	"time"
)

// DefaultFramesPerSecond is used when a view reports no preferred frame rate.
const DefaultFramesPerSecond = 60

// TickSource decides how much animation time passes on each frame.
type TickSource interface {
	// Step advances the source by one frame and returns the elapsed seconds to add.
	// The result is never negative and never NaN or infinite.
	//
	// Parameters:
	//   - preferredFPS: the view's preferred frames per second, <= 0 meaning unknown
	//
	// Returns:
	//   - float64: the timestep in seconds
	Step(preferredFPS int) float64
}

// fixed is the implementation of a TickSource that advances by exactly one frame period.
type fixed struct{}

// measured is the implementation of a TickSource that advances by wall-clock time.
type measured struct {
	mu   *sync.Mutex
	now  func() time.Time
	last time.Time
}

var (
	_ TickSource = fixed{}
	_ TickSource = &measured{}
)

// Fixed returns a TickSource that advances by 1/preferredFPS every step, falling back to
// 1/60 when the rate is unknown. Animation speed then tracks frames rendered, not wall time.
//
// Returns:
//   - TickSource: the fixed-step source
func Fixed() TickSource {
	return fixed{}
}

// Measured returns a TickSource that advances by the wall-clock time since its previous step.
// The first step has nothing to measure against and advances by one frame period.
//
// Parameters:
//   - now: the time source, time.Now when nil
//
// Returns:
//   - TickSource: the measured source
func Measured(now func() time.Time) TickSource {
	if now == nil {
		now = time.Now
	}
	return &measured{
		mu:  &sync.Mutex{},
		now: now,
	}
}

// FramePeriod returns the duration of one frame in seconds at the given rate.
//
// Parameters:
//   - fps: frames per second, <= 0 meaning DefaultFramesPerSecond
//
// Returns:
//   - float64: 1/fps
func FramePeriod(fps int) float64 {
	if fps <= 0 {
		fps = DefaultFramesPerSecond
	}
	return 1 / float64(fps)
}

// Sanitize clamps a timestep so accumulated time never decreases.
//
// Parameters:
//   - step: the raw timestep in seconds
//
// Returns:
//   - float64: step, or 0 if it is negative, NaN or infinite
func Sanitize(step float64) float64 {
	if step < 0 || math.IsNaN(step) || math.IsInf(step, 0) {
		return 0
	}
	return step
}

func (fixed) Step(preferredFPS int) float64 {
	return FramePeriod(preferredFPS)
}

func (m *measured) Step(preferredFPS int) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if m.last.IsZero() {
		m.last = now
		return FramePeriod(preferredFPS)
	}
	step := now.Sub(m.last).Seconds()
	m.last = now
	return Sanitize(step)
}
