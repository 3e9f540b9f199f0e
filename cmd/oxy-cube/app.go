package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/Carmen-Shannon/oxy-cube/common"
	"github.com/Carmen-Shannon/oxy-cube/engine"
	"github.com/Carmen-Shannon/oxy-cube/engine/clock"
	"github.com/Carmen-Shannon/oxy-cube/engine/config"
	"github.com/Carmen-Shannon/oxy-cube/engine/light"
	"github.com/Carmen-Shannon/oxy-cube/engine/loader"
	"github.com/Carmen-Shannon/oxy-cube/engine/model"
	"github.com/Carmen-Shannon/oxy-cube/engine/renderer"
	"github.com/Carmen-Shannon/oxy-cube/engine/transform"
	"github.com/Carmen-Shannon/oxy-cube/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/spf13/cobra"
)

const defaultConfigPath = "oxy-cube.yaml"

type runOptions struct {
	configFile    string
	logLevel      string
	width         int
	height        int
	fps           int
	texture       string
	msaa          int
	vsync         bool
	measuredClock bool
	normalizeAxis bool
	profile       bool
}

func installLogger(w io.Writer, level string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	common.SetLogger(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})))
	return nil
}

// resolveConfig loads the config file, if any, and applies the flags the user set explicitly.
func resolveConfig(cmd *cobra.Command, opts *runOptions) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if opts.configFile != "" {
		loaded, err := config.Load(opts.configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("width") {
		cfg.Window.Width = opts.width
	}
	if flags.Changed("height") {
		cfg.Window.Height = opts.height
	}
	if flags.Changed("fps") {
		cfg.Render.FPS = opts.fps
	}
	if flags.Changed("texture") {
		cfg.Scene.TexturePath = opts.texture
	}
	if flags.Changed("msaa") {
		cfg.Render.MSAA = opts.msaa
	}
	if flags.Changed("vsync") {
		vsync := opts.vsync
		cfg.Render.VSync = &vsync
	}
	if flags.Changed("measured-clock") {
		cfg.Render.MeasuredClock = opts.measuredClock
	}
	if flags.Changed("normalize-axis") {
		cfg.Scene.NormalizeAxis = opts.normalizeAxis
	}
	if flags.Changed("profile") {
		cfg.Render.Profile = opts.profile
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func framePolicy(cfg *config.Config) transform.FramePolicy {
	return transform.NewFramePolicy(
		transform.WithSpinAxis(mgl32.Vec3(cfg.Scene.SpinAxis)),
		transform.WithSpinRate(cfg.Scene.SpinRate),
		transform.WithNormalizedAxis(cfg.Scene.NormalizeAxis),
		transform.WithFieldOfView(cfg.Scene.FieldOfView),
		transform.WithDepthRange(cfg.Scene.Near, cfg.Scene.Far),
		transform.WithEye(mgl32.Vec3(cfg.Scene.Eye)),
	)
}

func sceneLight(cfg *config.Config) light.Light {
	c := cfg.Scene.LightColor
	return light.New(
		light.WithColor(c[0], c[1], c[2]),
		light.WithAmbientIntensity(cfg.Scene.AmbientIntensity),
	)
}

func assetOptions(cfg *config.Config) []loader.AssetsBuilderOption {
	segments := cfg.Mesh.Segments
	return []loader.AssetsBuilderOption{
		loader.WithTexturePath(cfg.Scene.TexturePath),
		loader.WithMaxTextureSize(cfg.Scene.MaxTextureSize),
		loader.WithBoxOptions(
			model.WithSize(cfg.Mesh.Size),
			model.WithSegments(segments, segments, segments),
		),
	}
}

func rendererOptions(cfg *config.Config, surface *wgpu.SurfaceDescriptor) []renderer.RendererBuilderOption {
	present := renderer.PresentModeVSync
	if !cfg.VSyncEnabled() {
		present = renderer.PresentModeUncapped
	}
	cc := cfg.Render.ClearColor
	options := []renderer.RendererBuilderOption{
		renderer.WithSurfaceDescriptor(surface),
		renderer.WithPresentMode(present),
		renderer.WithMSAA(renderer.MSAASampleCount(cfg.Render.MSAA)),
		renderer.WithForceSoftwareRenderer(cfg.Render.SoftwareAdapter),
		renderer.WithFramePolicy(framePolicy(cfg)),
		renderer.WithLight(sceneLight(cfg)),
		renderer.WithClearColor(wgpu.Color{R: cc[0], G: cc[1], B: cc[2], A: cc[3]}),
	}
	if cfg.Render.MeasuredClock {
		options = append(options, renderer.WithTickSource(clock.Measured(time.Now)))
	}
	return options
}

// prepareAssets builds the mesh and decodes the texture up front. Failures are only logged:
// the renderer reports them with its own error kinds when it reads the assets.
func prepareAssets(cfg *config.Config) loader.Assets {
	assets := loader.NewAssets(assetOptions(cfg)...)
	if err := assets.Prepare(); err != nil {
		common.Logger().Warn("asset preparation failed", "error", err)
	}
	return assets
}

// runCube opens the window, prepares assets, builds the renderer and blocks in the frame loop.
func runCube(cmd *cobra.Command, opts *runOptions) error {
	cfg, err := resolveConfig(cmd, opts)
	if err != nil {
		return err
	}
	log := common.Logger()

	assets := prepareAssets(cfg)

	w, err := window.NewWindow(
		window.WithTitle(cfg.Window.Title),
		window.WithWidth(cfg.Window.Width),
		window.WithHeight(cfg.Window.Height),
		window.WithFramesPerSecond(cfg.Render.FPS),
	)
	if err != nil {
		return err
	}

	r, err := renderer.NewRenderer(w, assets, rendererOptions(cfg, w.SurfaceDescriptor())...)
	if err != nil {
		_ = w.Close()
		return err
	}

	e, err := engine.NewEngine(
		engine.WithWindow(w),
		engine.WithRenderer(r),
		engine.WithProfiling(cfg.Render.Profile),
		engine.WithRenderFrameLimit(cfg.Render.FrameLimit),
	)
	if err != nil {
		r.Release()
		_ = w.Close()
		return err
	}

	width, height := w.DrawableSize()
	log.Info("rendering",
		"width", width,
		"height", height,
		"fps", w.PreferredFramesPerSecond(),
		"texture", common.Coalesce(assets.TexturePath(), "checkerboard"),
		"msaa", cfg.Render.MSAA,
	)
	return e.Run()
}

func printFrame(out io.Writer, cfg *config.Config, t float64, aspect float32) error {
	if aspect <= 0 {
		return fmt.Errorf("aspect must be positive, got %g", aspect)
	}
	frame := framePolicy(cfg).ComposeFrame(clock.Sanitize(t), aspect)
	fmt.Fprintf(out, "time %g aspect %g\n", t, aspect)
	printMatrix(out, "model", frame.Model[:], 4)
	printMatrix(out, "mvp", frame.MVP[:], 4)
	printMatrix(out, "normal", frame.Normal[:], 3)
	return nil
}

// printMatrix writes a column-major matrix row by row.
func printMatrix(out io.Writer, name string, m []float32, n int) {
	fmt.Fprintf(out, "%s:\n", name)
	for row := range n {
		fmt.Fprint(out, " ")
		for col := range n {
			fmt.Fprintf(out, " %10.5f", m[col*n+row])
		}
		fmt.Fprintln(out)
	}
}

func writeDefaultConfig(out io.Writer, path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config %q already exists", path)
	}
	if err := config.Save(path, config.DefaultConfig()); err != nil {
		return err
	}
	fmt.Fprintf(out, "wrote %s\n", path)
	return nil
}
