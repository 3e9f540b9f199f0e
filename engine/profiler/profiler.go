package profiler

import (
	"runtime"
	"time"

	"github.com/Carmen-Shannon/oxy-cube/common"
)

// Stats is one reporting window of frame and memory statistics.
type Stats struct {
	FPS          float64
	HeapMB       float64
	AllocRateMB  float64
	GCCount      uint32
	LastPauseUs  uint64
	MaxPauseUs   uint64
	SysMB        float64
	FramesInSpan int
}

// Profiler tracks frame rate and memory statistics for performance monitoring.
// Outputs stats to the installed slog logger at a configurable interval.
type Profiler struct {
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	now            func() time.Time
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	last           Stats
}

// NewProfiler creates a new Profiler.
// Update interval defaults to 1 second.
//
// Parameters:
//   - options: functional options for interval and clock
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerBuilderOption) *Profiler {
	p := &Profiler{
		updateInterval: time.Second,
		now:            time.Now,
	}
	for _, opt := range options {
		opt(p)
	}
	p.lastTime = p.now()
	return p
}

// Tick should be called once per frame to track frame timing.
// Logs performance statistics when the update interval has elapsed.
// Statistics include: FPS, heap usage, allocation rate, GC count/pause times, total memory.
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick() bool {
	p.frameCount++
	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval || elapsed <= 0 {
		return false
	}

	runtime.ReadMemStats(&p.memStats)
	// Alloc: live heap, TotalAlloc: cumulative (tracks churn), Sys: process footprint
	stats := Stats{
		FPS:          float64(p.frameCount) / elapsed.Seconds(),
		HeapMB:       float64(p.memStats.Alloc) / 1024 / 1024,
		SysMB:        float64(p.memStats.Sys) / 1024 / 1024,
		AllocRateMB:  float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / elapsed.Seconds(),
		GCCount:      p.memStats.NumGC,
		FramesInSpan: p.frameCount,
	}
	stats.LastPauseUs, stats.MaxPauseUs = pauses(&p.memStats, p.lastGCCount)

	common.Logger().Info("profiler",
		"fps", stats.FPS,
		"heap_mb", stats.HeapMB,
		"alloc_rate_mb_s", stats.AllocRateMB,
		"gc", stats.GCCount,
		"gc_last_us", stats.LastPauseUs,
		"gc_max_us", stats.MaxPauseUs,
		"sys_mb", stats.SysMB,
	)

	p.last = stats
	p.frameCount = 0
	p.lastTime = currentTime
	p.lastGCCount = stats.GCCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}

// Last returns the statistics of the most recently completed reporting window.
//
// Returns:
//   - Stats: the last logged statistics, zero before the first report
func (p *Profiler) Last() Stats {
	return p.last
}

// pauses returns the latest GC pause and the longest pause since sinceGC, in microseconds.
func pauses(m *runtime.MemStats, sinceGC uint32) (uint64, uint64) {
	gcCount := m.NumGC
	if gcCount == 0 {
		return 0, 0
	}
	// PauseNs is a circular buffer of the last 256 pauses
	lastPause := m.PauseNs[(gcCount-1)%256] / 1000

	startIdx := sinceGC
	if gcCount-startIdx > 256 {
		startIdx = gcCount - 256
	}
	var maxPause uint64
	for i := startIdx; i < gcCount; i++ {
		maxPause = max(maxPause, m.PauseNs[i%256]/1000)
	}
	return lastPause, maxPause
}
