package loader

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-cube/common"
	"github.com/Carmen-Shannon/oxy-cube/engine/model"
	. "github.com/onsi/gomega"
)

func writePNG(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 255, A: 255})
		}
	}
	path := filepath.Join(t.TempDir(), "tex.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultAssets(t *testing.T) {
	g := NewWithT(t)

	a := NewAssets(WithMaxTextureSize(64))
	g.Expect(a.Prepare()).To(Succeed())

	m, err := a.Mesh()
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(m.VertexCount()).To(Equal(726))
	g.Expect(m.IndexCount()).To(Equal(3600))

	tex, err := a.Texture()
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(tex.Width).To(Equal(uint32(64)))
	g.Expect(tex.Validate()).To(Succeed())
	g.Expect(a.TexturePath()).To(BeEmpty())
}

func TestAssetsAreCached(t *testing.T) {
	g := NewWithT(t)

	a := NewAssets(WithFallbackTexture(common.Checkerboard(4, 2, color.RGBA{A: 255}, color.RGBA{R: 1, A: 255})))
	first, err := a.Mesh()
	g.Expect(err).NotTo(HaveOccurred())
	second, err := a.Mesh()
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(second).To(BeIdenticalTo(first))

	tex, err := a.Texture()
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(tex.Width).To(Equal(uint32(4)))
}

func TestTextureFromFile(t *testing.T) {
	g := NewWithT(t)

	path := writePNG(t, 40, 20)
	a := NewAssets(WithTexturePath(path), WithMaxTextureSize(16), WithWorkers(1))

	tex, err := a.Texture()
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(tex.Width).To(Equal(uint32(16)))
	g.Expect(tex.Height).To(Equal(uint32(8)))
	g.Expect(a.TexturePath()).To(Equal(path))
}

func TestMissingTexture(t *testing.T) {
	g := NewWithT(t)

	a := NewAssets(WithTexturePath(filepath.Join(t.TempDir(), "nope.png")))

	_, err := a.Texture()
	g.Expect(err).To(MatchError(ErrTextureDecode))
	g.Expect(err).To(MatchError(os.ErrNotExist))

	// the mesh is unaffected by a texture failure
	_, err = a.Mesh()
	g.Expect(err).NotTo(HaveOccurred())

	g.Expect(a.Prepare()).To(MatchError(ErrTextureDecode))
}

func TestCorruptTexture(t *testing.T) {
	g := NewWithT(t)

	path := filepath.Join(t.TempDir(), "bad.png")
	g.Expect(os.WriteFile(path, []byte("not a png"), 0o644)).To(Succeed())

	_, err := NewAssets(WithTexturePath(path)).Texture()
	g.Expect(err).To(MatchError(ErrTextureDecode))
}

func TestMeshBuildFailure(t *testing.T) {
	g := NewWithT(t)

	a := NewAssets(WithBoxOptions(model.WithSize(-1)), WithMaxTextureSize(8))
	_, err := a.Mesh()
	g.Expect(err).To(MatchError(ErrMeshBuild))
	g.Expect(err).To(MatchError(model.ErrInvalidBox))

	_, err = a.Texture()
	g.Expect(err).NotTo(HaveOccurred())
}
