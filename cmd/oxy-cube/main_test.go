package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-cube/common"
	"github.com/Carmen-Shannon/oxy-cube/engine/config"
	"github.com/Carmen-Shannon/oxy-cube/engine/loader"
	"github.com/Carmen-Shannon/oxy-cube/engine/transform"
	. "github.com/onsi/gomega"
	"github.com/spf13/cobra"
)

func execute(args ...string) (string, error) {
	cmd := newRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestFrameCommandAtTimeZero(t *testing.T) {
	g := NewWithT(t)

	out, err := execute("frame", "--time", "0", "--aspect", "1")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(out).To(HavePrefix("time 0 aspect 1\nmodel:\n"))
	g.Expect(out).To(MatchRegexp(`model:\n\s+1\.00000\s+-?0\.00000\s+-?0\.00000\s+-?0\.00000\n`))
	g.Expect(out).To(ContainSubstring("mvp:\n"))
	g.Expect(out).To(ContainSubstring("normal:\n"))
}

func TestFrameCommandRejectsBadAspect(t *testing.T) {
	g := NewWithT(t)

	_, err := execute("frame", "--aspect", "0")
	g.Expect(err).To(MatchError(ContainSubstring("aspect must be positive")))
}

func TestInvalidLogLevel(t *testing.T) {
	g := NewWithT(t)

	_, err := execute("--log-level", "loud", "frame")
	g.Expect(err).To(MatchError(ContainSubstring("invalid log level")))
}

func TestConfigInit(t *testing.T) {
	g := NewWithT(t)

	path := filepath.Join(t.TempDir(), "cube.yaml")
	out, err := execute("config", "init", path)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(out).To(ContainSubstring("wrote " + path))

	cfg, err := config.Load(path)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(cfg).To(Equal(config.DefaultConfig()))

	_, err = execute("config", "init", path)
	g.Expect(err).To(MatchError(ContainSubstring("already exists")))
}

func TestResolveConfigAppliesChangedFlags(t *testing.T) {
	g := NewWithT(t)

	path := filepath.Join(t.TempDir(), "cube.yaml")
	base := config.DefaultConfig()
	base.Window.Width = 1024
	base.Render.FPS = 30
	g.Expect(config.Save(path, base)).To(Succeed())

	opts := &runOptions{}
	cmd := &cobra.Command{Use: "run"}
	registerRunFlags(cmd, opts)
	g.Expect(cmd.ParseFlags([]string{"--config", path, "--fps", "120", "--vsync=false", "--msaa", "1", "--normalize-axis"})).To(Succeed())

	cfg, err := resolveConfig(cmd, opts)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(cfg.Window.Width).To(Equal(1024))
	g.Expect(cfg.Window.Height).To(Equal(config.DefaultHeight))
	g.Expect(cfg.Render.FPS).To(Equal(120))
	g.Expect(cfg.Render.MSAA).To(Equal(1))
	g.Expect(cfg.VSyncEnabled()).To(BeFalse())
	g.Expect(cfg.Scene.NormalizeAxis).To(BeTrue())
	g.Expect(cfg.Render.MeasuredClock).To(BeFalse())
}

func TestResolveConfigValidates(t *testing.T) {
	g := NewWithT(t)

	opts := &runOptions{}
	cmd := &cobra.Command{Use: "run"}
	registerRunFlags(cmd, opts)
	g.Expect(cmd.ParseFlags([]string{"--msaa", "8"})).To(Succeed())

	_, err := resolveConfig(cmd, opts)
	g.Expect(err).To(MatchError(config.ErrInvalidConfig))
}

func TestPolicyFromConfig(t *testing.T) {
	g := NewWithT(t)

	cfg := config.DefaultConfig()
	policy := framePolicy(cfg)
	g.Expect(policy.ComposeFrame(1.5, 1.25)).To(Equal(transform.ComposeFrame(1.5, 1.25)))
}

func TestPrepareAssetsLogsTextureFailure(t *testing.T) {
	g := NewWithT(t)

	logs := &bytes.Buffer{}
	g.Expect(installLogger(logs, "warn")).To(Succeed())
	t.Cleanup(func() { common.SetLogger(nil) })

	path := filepath.Join(t.TempDir(), "broken.png")
	g.Expect(os.WriteFile(path, []byte("not an image"), 0o644)).To(Succeed())
	cfg := config.DefaultConfig()
	cfg.Scene.TexturePath = path

	assets := prepareAssets(cfg)
	g.Expect(logs.String()).To(ContainSubstring("asset preparation failed"))

	// the decode failure stays on the assets for the renderer to classify
	_, err := assets.Texture()
	g.Expect(err).To(MatchError(loader.ErrTextureDecode))
	mesh, err := assets.Mesh()
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(mesh.IndexCount()).To(BeNumerically(">", 0))
}
