package engine

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-cube/common"
	"github.com/Carmen-Shannon/oxy-cube/engine/profiler"
	"github.com/Carmen-Shannon/oxy-cube/engine/renderer"
	"github.com/Carmen-Shannon/oxy-cube/engine/window"
)

var (
	// ErrNoWindow is returned by NewEngine when no window was supplied.
	ErrNoWindow = errors.New("engine requires a window")

	// ErrNoRenderer is returned by NewEngine when no renderer was supplied.
	ErrNoRenderer = errors.New("engine requires a renderer")
)

// engine implements the Engine interface.
// Drives one rendered frame per window message loop iteration on the window's thread.
type engine struct {
	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	window   window.Window
	renderer renderer.Renderer

	profiler         *profiler.Profiler
	profilingEnabled bool

	frameCallback func(frame uint64)
	frames        uint64

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
	lastRender       time.Time
	now              func() time.Time
	sleep            func(time.Duration)
}

// Engine owns the window and the renderer and runs the frame loop.
// RenderFrame is called once per window refresh from the window's update callback,
// and framebuffer resizes are forwarded to the renderer.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Renderer returns the renderer drawing into the window.
	//
	// Returns:
	//   - renderer.Renderer: the renderer instance
	Renderer() renderer.Renderer

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetRenderFrameLimit sets an optional render frame rate cap in frames per second.
	// Pass 0 to uncap the render loop (default).
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// SetFrameCallback registers a function called after each rendered frame.
	//
	// Parameters:
	//   - callback: function receiving the number of frames rendered so far
	SetFrameCallback(callback func(frame uint64))

	// Frames returns the number of frames rendered since Run started.
	//
	// Returns:
	//   - uint64: the frame count
	Frames() uint64

	// Run starts the frame loop and blocks until the window closes or Quit is called.
	// The renderer is released and the window closed before it returns.
	//
	// Returns:
	//   - error: an error if the window could not be closed cleanly
	Run() error

	// Quit asks the frame loop to stop after the current frame.
	// Safe to call multiple times and from any goroutine; subsequent calls are no-ops.
	Quit()
}

// NewEngine creates a new Engine instance with the provided options.
// A window and a renderer are required.
//
// Parameters:
//   - options: functional options for engine configuration (window, renderer, profiling, frame limit)
//
// Returns:
//   - Engine: the newly created engine
//   - error: ErrNoWindow or ErrNoRenderer if either is missing
func NewEngine(options ...EngineBuilderOption) (Engine, error) {
	e := &engine{
		quitChannel: make(chan struct{}),
		profiler:    profiler.NewProfiler(),
		now:         time.Now,
		sleep:       time.Sleep,
	}
	for _, opt := range options {
		opt(e)
	}

	if e.window == nil {
		return nil, ErrNoWindow
	}
	if e.renderer == nil {
		return nil, ErrNoRenderer
	}

	e.window.SetResizeCallback(func(width, height int) {
		if err := e.renderer.Resize(width, height); err != nil {
			common.Logger().Warn("resize failed", "width", width, "height", height, "error", err)
		}
	})

	return e, nil
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Renderer() renderer.Renderer {
	return e.renderer
}

func (e *engine) Run() error {
	e.lastRender = e.now()
	e.window.SetUpdateCallback(e.frame)
	e.window.ProcessMessages()
	e.window.SetUpdateCallback(nil)

	common.Logger().Debug("frame loop stopped", "frames", e.frames)
	e.renderer.Release()
	if err := e.window.Close(); err != nil && !errors.Is(err, window.ErrNotInitialized) {
		return fmt.Errorf("failed to close window: %w", err)
	}
	return nil
}

// Quit signals the frame loop to stop.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}

// frame is the window update callback: it renders one frame, honoring the quit signal and the frame cap.
// Panics inside the renderer are recovered and stop the loop instead of crashing the process.
func (e *engine) frame() {
	defer func() {
		if r := recover(); r != nil {
			common.Logger().Error("frame recovered from panic", "panic", r)
			e.Quit()
			e.window.RequestClose()
		}
	}()

	select {
	case <-e.quitChannel:
		e.window.RequestClose()
		return
	default:
	}

	e.renderer.RenderFrame()
	e.frames++

	if e.frameCallback != nil {
		e.frameCallback(e.frames)
	}

	if e.profilingEnabled && e.profiler != nil {
		e.profiler.Tick()
	}

	// Frame rate limiting
	if e.renderFrameLimit > 0 {
		elapsed := e.now().Sub(e.lastRender)
		if remaining := e.renderFrameLimit - elapsed; remaining > 0 {
			e.sleep(remaining)
		}
	}
	e.lastRender = e.now()
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

// SetRenderFrameLimit sets an optional render frame rate cap.
// Pass 0 to uncap the render loop.
func (e *engine) SetRenderFrameLimit(fps float64) {
	e.renderFrameLimit = frameLimit(fps)
}

func (e *engine) SetFrameCallback(callback func(frame uint64)) {
	e.frameCallback = callback
}

func (e *engine) Frames() uint64 {
	return e.frames
}

func frameLimit(fps float64) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / fps)
}
