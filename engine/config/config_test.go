package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-cube/engine/transform"
	. "github.com/onsi/gomega"
)

func TestDefaultConfig(t *testing.T) {
	g := NewWithT(t)

	cfg := DefaultConfig()
	g.Expect(cfg.Validate()).To(Succeed())
	g.Expect(cfg.Window.Width).To(Equal(800))
	g.Expect(cfg.Render.MSAA).To(Equal(4))
	g.Expect(cfg.VSyncEnabled()).To(BeTrue())
	g.Expect(cfg.Scene.SpinAxis).To(Equal([3]float32{0.7, 1, 0}))
	g.Expect(cfg.Scene.Eye).To(Equal([3]float32{0, 0, 2.5}))
	g.Expect(cfg.Render.ClearColor).To(Equal([4]float64{1, 1, 1, 1}))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	g := NewWithT(t)

	path := filepath.Join(t.TempDir(), "cube.yaml")
	cfg := DefaultConfig()
	cfg.Window.Title = "spin"
	cfg.Render.FPS = 144
	cfg.Render.MeasuredClock = true
	cfg.Scene.TexturePath = "crate.png"
	cfg.Scene.NormalizeAxis = true
	off := false
	cfg.Render.VSync = &off

	g.Expect(Save(path, cfg)).To(Succeed())
	loaded, err := Load(path)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(loaded).To(Equal(cfg))
	g.Expect(loaded.VSyncEnabled()).To(BeFalse())
}

func TestLoadFillsDefaults(t *testing.T) {
	g := NewWithT(t)

	path := filepath.Join(t.TempDir(), "partial.yaml")
	data := []byte("window:\n  width: 1280\n  height: 0\nscene:\n  spin_rate: 2\n  near: 0\nmesh:\n  segments: 4\n")
	g.Expect(os.WriteFile(path, data, 0644)).To(Succeed())

	cfg, err := Load(path)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(cfg.Window.Width).To(Equal(1280))
	g.Expect(cfg.Window.Height).To(Equal(DefaultHeight))
	g.Expect(cfg.Window.Title).To(Equal(DefaultTitle))
	g.Expect(cfg.Scene.SpinRate).To(Equal(float32(2)))
	g.Expect(cfg.Scene.Near).To(Equal(transform.DefaultNear))
	g.Expect(cfg.Mesh.Segments).To(Equal(uint32(4)))
	g.Expect(cfg.VSyncEnabled()).To(BeTrue())
	g.Expect(cfg.Validate()).To(Succeed())
}

func TestLoadErrors(t *testing.T) {
	g := NewWithT(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	g.Expect(errors.Is(err, fs.ErrNotExist)).To(BeTrue())

	path := filepath.Join(t.TempDir(), "bad.yaml")
	g.Expect(os.WriteFile(path, []byte("window: [1, 2"), 0644)).To(Succeed())
	_, err = Load(path)
	g.Expect(err).To(MatchError(ContainSubstring("failed to parse config")))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Window.Width = 0 }},
		{"negative fps", func(c *Config) { c.Render.FPS = -1 }},
		{"negative frame limit", func(c *Config) { c.Render.FrameLimit = -30 }},
		{"msaa 2", func(c *Config) { c.Render.MSAA = 2 }},
		{"fov 180", func(c *Config) { c.Scene.FieldOfView = 180 }},
		{"far before near", func(c *Config) { c.Scene.Far = 0.05 }},
		{"zero axis", func(c *Config) { c.Scene.SpinAxis = [3]float32{} }},
		{"ambient above one", func(c *Config) { c.Scene.AmbientIntensity = 1.5 }},
		{"no segments", func(c *Config) { c.Mesh.Segments = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewWithT(t)
			cfg := DefaultConfig()
			tt.mutate(cfg)
			g.Expect(cfg.Validate()).To(MatchError(ErrInvalidConfig))
		})
	}
}
