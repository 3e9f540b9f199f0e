package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/Carmen-Shannon/oxy-cube/engine/light"
	"github.com/Carmen-Shannon/oxy-cube/engine/loader"
	"github.com/Carmen-Shannon/oxy-cube/engine/model"
	"github.com/Carmen-Shannon/oxy-cube/engine/transform"
	"gopkg.in/yaml.v3"
)

const (
	DefaultTitle  = "oxy-cube"
	DefaultWidth  = 800
	DefaultHeight = 600
	DefaultMSAA   = 4
)

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Window WindowConfig `yaml:"window"`
	Render RenderConfig `yaml:"render"`
	Scene  SceneConfig  `yaml:"scene"`
	Mesh   MeshConfig   `yaml:"mesh"`
}

type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

type RenderConfig struct {
	// FPS overrides the monitor refresh rate; 0 uses the monitor
	FPS             int        `yaml:"fps"`
	FrameLimit      float64    `yaml:"frame_limit"`
	MSAA            int        `yaml:"msaa"`
	VSync           *bool      `yaml:"vsync"`
	ClearColor      [4]float64 `yaml:"clear_color"`
	MeasuredClock   bool       `yaml:"measured_clock"`
	SoftwareAdapter bool       `yaml:"software_adapter"`
	Profile         bool       `yaml:"profile"`
}

type SceneConfig struct {
	TexturePath      string     `yaml:"texture_path"`
	MaxTextureSize   int        `yaml:"max_texture_size"`
	SpinAxis         [3]float32 `yaml:"spin_axis"`
	SpinRate         float32    `yaml:"spin_rate"`
	NormalizeAxis    bool       `yaml:"normalize_axis"`
	FieldOfView      float64    `yaml:"fov"`
	Near             float32    `yaml:"near"`
	Far              float32    `yaml:"far"`
	Eye              [3]float32 `yaml:"eye"`
	LightColor       [3]float32 `yaml:"light_color"`
	AmbientIntensity float32    `yaml:"ambient_intensity"`
}

type MeshConfig struct {
	Size     float32 `yaml:"size"`
	Segments uint32  `yaml:"segments"`
}

func DefaultConfig() *Config {
	vsync := true
	return &Config{
		Window: WindowConfig{
			Title:  DefaultTitle,
			Width:  DefaultWidth,
			Height: DefaultHeight,
		},
		Render: RenderConfig{
			MSAA:       DefaultMSAA,
			VSync:      &vsync,
			ClearColor: [4]float64{1, 1, 1, 1},
		},
		Scene: SceneConfig{
			MaxTextureSize:   loader.DefaultMaxTextureSize,
			SpinAxis:         transform.DefaultSpinAxis,
			SpinRate:         transform.DefaultSpinRate,
			FieldOfView:      transform.DefaultFieldOfView,
			Near:             transform.DefaultNear,
			Far:              transform.DefaultFar,
			Eye:              [3]float32{0, 0, transform.DefaultEyeDistance},
			LightColor:       light.DefaultColor,
			AmbientIntensity: light.DefaultAmbientIntensity,
		},
		Mesh: MeshConfig{
			Size:     model.DefaultBoxSize,
			Segments: model.DefaultBoxSegments,
		},
	}
}

// Load reads a YAML config. Fields missing from the file keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %q: %w", path, err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %q: %w", path, err)
	}
	cfg.fillDefaults()
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config %q: %w", path, err)
	}
	return nil
}

// Validate reports the first setting the renderer cannot honor.
func (c *Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalidConfig, c.Window.Width, c.Window.Height)
	case c.Render.FPS < 0:
		return fmt.Errorf("%w: fps %d", ErrInvalidConfig, c.Render.FPS)
	case c.Render.FrameLimit < 0:
		return fmt.Errorf("%w: frame limit %g", ErrInvalidConfig, c.Render.FrameLimit)
	case c.Render.MSAA != 1 && c.Render.MSAA != 4:
		return fmt.Errorf("%w: msaa must be 1 or 4, got %d", ErrInvalidConfig, c.Render.MSAA)
	case c.Scene.FieldOfView <= 0 || c.Scene.FieldOfView >= 180:
		return fmt.Errorf("%w: fov %g", ErrInvalidConfig, c.Scene.FieldOfView)
	case c.Scene.Near <= 0 || c.Scene.Far <= c.Scene.Near:
		return fmt.Errorf("%w: depth range [%g, %g]", ErrInvalidConfig, c.Scene.Near, c.Scene.Far)
	case c.Scene.SpinAxis == [3]float32{}:
		return fmt.Errorf("%w: spin axis is zero", ErrInvalidConfig)
	case c.Scene.AmbientIntensity < 0 || c.Scene.AmbientIntensity > 1:
		return fmt.Errorf("%w: ambient intensity %g", ErrInvalidConfig, c.Scene.AmbientIntensity)
	case c.Mesh.Size <= 0 || c.Mesh.Segments == 0:
		return fmt.Errorf("%w: mesh size %g with %d segments", ErrInvalidConfig, c.Mesh.Size, c.Mesh.Segments)
	}
	return nil
}

// VSyncEnabled reports whether presentation waits for vertical blank. Unset means on.
func (c *Config) VSyncEnabled() bool {
	return c.Render.VSync == nil || *c.Render.VSync
}

// fillDefaults restores defaults for fields a file explicitly zeroed where zero is never meaningful.
func (c *Config) fillDefaults() {
	d := DefaultConfig()
	if c.Window.Title == "" {
		c.Window.Title = d.Window.Title
	}
	if c.Window.Width == 0 {
		c.Window.Width = d.Window.Width
	}
	if c.Window.Height == 0 {
		c.Window.Height = d.Window.Height
	}
	if c.Render.MSAA == 0 {
		c.Render.MSAA = d.Render.MSAA
	}
	if c.Render.VSync == nil {
		c.Render.VSync = d.Render.VSync
	}
	if c.Scene.FieldOfView == 0 {
		c.Scene.FieldOfView = d.Scene.FieldOfView
	}
	if c.Scene.Near == 0 {
		c.Scene.Near = d.Scene.Near
	}
	if c.Scene.Far == 0 {
		c.Scene.Far = d.Scene.Far
	}
	if c.Scene.SpinAxis == [3]float32{} {
		c.Scene.SpinAxis = d.Scene.SpinAxis
	}
	if c.Scene.Eye == [3]float32{} {
		c.Scene.Eye = d.Scene.Eye
	}
	if c.Scene.LightColor == [3]float32{} {
		c.Scene.LightColor = d.Scene.LightColor
	}
	if c.Mesh.Size == 0 {
		c.Mesh.Size = d.Mesh.Size
	}
	if c.Mesh.Segments == 0 {
		c.Mesh.Segments = d.Mesh.Segments
	}
}
