package renderer

import (
	"github.com/Carmen-Shannon/oxy-cube/common"
	"github.com/Carmen-Shannon/oxy-cube/engine/clock"
	"github.com/Carmen-Shannon/oxy-cube/engine/light"
	"github.com/Carmen-Shannon/oxy-cube/engine/transform"
	"github.com/cogentcore/webgpu/wgpu"
)

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithBackend uses an existing backend instead of creating a WebGPU one. The renderer takes ownership
// and releases it.
//
// Parameters:
//   - backend: the backend to render with
//
// Returns:
//   - RendererBuilderOption: a function that applies the backend option to a renderer
func WithBackend(backend RendererBackend) RendererBuilderOption {
	return func(r *renderer) {
		r.backend = backend
	}
}

// WithSurfaceDescriptor sets the platform surface the WebGPU backend is created over.
// Ignored when WithBackend is also given.
//
// Parameters:
//   - descriptor: the surface descriptor, usually from window.Window
//
// Returns:
//   - RendererBuilderOption: a function that applies the surface option to a renderer
func WithSurfaceDescriptor(descriptor *wgpu.SurfaceDescriptor) RendererBuilderOption {
	return func(r *renderer) {
		r.surfaceDescriptor = descriptor
	}
}

// WithShaderSource replaces the embedded cube shader. The source must provide the vertex_transform
// and fragment_lit_textured entry points and the same bindings.
//
// Parameters:
//   - source: WGSL source code
//
// Returns:
//   - RendererBuilderOption: a function that applies the shader option to a renderer
func WithShaderSource(source string) RendererBuilderOption {
	return func(r *renderer) {
		r.shaderSource = source
	}
}

// WithPresentMode sets the surface present mode which controls how frames are delivered to the display.
//
// Parameters:
//   - mode: the PresentMode to use (VSync or Uncapped)
//
// Returns:
//   - RendererBuilderOption: a function that applies the present mode option to a renderer
func WithPresentMode(mode PresentMode) RendererBuilderOption {
	return func(r *renderer) {
		r.presentMode = &mode
	}
}

// WithMSAA sets the multisample anti-aliasing sample count for the renderer.
// When not specified, the default is MSAA4x. Invalid counts are ignored.
//
// Parameters:
//   - count: the MSAASampleCount to use (MSAAOff, MSAA4x, MSAA8x, or MSAA16x)
//
// Returns:
//   - RendererBuilderOption: a function that applies the MSAA option to a renderer
func WithMSAA(count MSAASampleCount) RendererBuilderOption {
	return func(r *renderer) {
		if count.Valid() {
			r.msaa = count
		}
	}
}

// WithForceSoftwareRenderer forces WGPU to use a CPU/software fallback adapter instead of
// hardware GPU acceleration. This requires a software Vulkan ICD to be installed on the system
// (e.g. SwiftShader or lavapipe).
//
// Parameters:
//   - force: true to force the software fallback adapter, false to use hardware (default)
//
// Returns:
//   - RendererBuilderOption: a function that applies the force software renderer option to a renderer
func WithForceSoftwareRenderer(force bool) RendererBuilderOption {
	return func(r *renderer) {
		r.forceFallbackAdapter = force
	}
}

// WithTickSource sets how much time each RenderFrame advances. The default is clock.Fixed().
//
// Parameters:
//   - tick: the tick source
//
// Returns:
//   - RendererBuilderOption: a function that applies the tick source to a renderer
func WithTickSource(tick clock.TickSource) RendererBuilderOption {
	return func(r *renderer) {
		if tick != nil {
			r.tick = tick
		}
	}
}

// WithFramePolicy sets the policy that turns time and aspect ratio into transforms.
//
// Parameters:
//   - policy: the frame policy
//
// Returns:
//   - RendererBuilderOption: a function that applies the frame policy to a renderer
func WithFramePolicy(policy transform.FramePolicy) RendererBuilderOption {
	return func(r *renderer) {
		if policy != nil {
			r.policy = policy
		}
	}
}

// WithLight sets the light uploaded at construction.
//
// Parameters:
//   - l: the ambient light
//
// Returns:
//   - RendererBuilderOption: a function that applies the light to a renderer
func WithLight(l light.Light) RendererBuilderOption {
	return func(r *renderer) {
		r.light = l
	}
}

// WithClearColor sets the color the target is cleared to each frame. Defaults to white.
//
// Parameters:
//   - color: the clear color
//
// Returns:
//   - RendererBuilderOption: a function that applies the clear color to a renderer
func WithClearColor(color wgpu.Color) RendererBuilderOption {
	return func(r *renderer) {
		r.clearColor = color
	}
}

// WithSampler overrides the texture sampler. Zero fields keep repeat addressing and linear filtering.
//
// Parameters:
//   - sampler: the sampler configuration
//
// Returns:
//   - RendererBuilderOption: a function that applies the sampler to a renderer
func WithSampler(sampler common.SamplerStagingData) RendererBuilderOption {
	return func(r *renderer) {
		r.sampler = sampler
	}
}
