package common

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	. "github.com/onsi/gomega"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

func testImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 10), G: uint8(y * 10), B: 200, A: 255})
		}
	}
	return img
}

func TestDecodeTextureFormats(t *testing.T) {
	g := NewWithT(t)

	encoders := map[string]func(*bytes.Buffer, image.Image) error{
		"png":  func(b *bytes.Buffer, i image.Image) error { return png.Encode(b, i) },
		"bmp":  func(b *bytes.Buffer, i image.Image) error { return bmp.Encode(b, i) },
		"tiff": func(b *bytes.Buffer, i image.Image) error { return tiff.Encode(b, i, nil) },
	}

	src := testImage(6, 4)
	for name, encode := range encoders {
		var buf bytes.Buffer
		g.Expect(encode(&buf, src)).To(Succeed(), name)

		data, err := DecodeTexture(&buf, 0)
		g.Expect(err).NotTo(HaveOccurred(), name)
		g.Expect(data.Width).To(Equal(uint32(6)), name)
		g.Expect(data.Height).To(Equal(uint32(4)), name)
		g.Expect(data.Validate()).To(Succeed(), name)
		// pixel (2,1) is R=20 G=10 B=200
		off := (1*6 + 2) * 4
		g.Expect(data.Pixels[off : off+4]).To(Equal([]byte{20, 10, 200, 255}), name)
	}
}

func TestDecodeTextureDownscales(t *testing.T) {
	g := NewWithT(t)

	var buf bytes.Buffer
	g.Expect(png.Encode(&buf, testImage(20, 10))).To(Succeed())

	data, err := DecodeTexture(&buf, 8)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(data.Width).To(Equal(uint32(8)))
	g.Expect(data.Height).To(Equal(uint32(4)))
	g.Expect(data.Pixels).To(HaveLen(8 * 4 * 4))
}

func TestDecodeTextureRejectsGarbage(t *testing.T) {
	g := NewWithT(t)

	_, err := DecodeTexture(strings.NewReader("definitely not an image"), 0)
	g.Expect(err).To(MatchError(ContainSubstring("failed to decode image")))
}

func TestLoadTexture(t *testing.T) {
	g := NewWithT(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "tex.png")
	f, err := os.Create(path)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(png.Encode(f, testImage(3, 3))).To(Succeed())
	g.Expect(f.Close()).To(Succeed())

	data, err := LoadTexture(path, 0)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(data.Width).To(Equal(uint32(3)))

	_, err = LoadTexture(filepath.Join(dir, "missing.png"), 0)
	g.Expect(err).To(MatchError(os.ErrNotExist))
}

func TestCheckerboard(t *testing.T) {
	g := NewWithT(t)

	black := color.RGBA{A: 255}
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	data := Checkerboard(8, 2, black, white)

	g.Expect(data.Validate()).To(Succeed())
	px := func(x, y int) []byte {
		off := (y*8 + x) * 4
		return data.Pixels[off : off+4]
	}
	g.Expect(px(0, 0)).To(Equal([]byte{0, 0, 0, 255}))
	g.Expect(px(4, 0)).To(Equal([]byte{255, 255, 255, 255}))
	g.Expect(px(4, 4)).To(Equal([]byte{0, 0, 0, 255}))
	g.Expect(px(3, 7)).To(Equal([]byte{255, 255, 255, 255}))
}

func TestTextureStagingDataValidate(t *testing.T) {
	g := NewWithT(t)

	g.Expect(TextureStagingData{}.Validate()).To(MatchError(ErrInvalidTexture))
	g.Expect(TextureStagingData{Width: 2, Height: 2, Pixels: make([]byte, 15)}.Validate()).To(MatchError(ErrInvalidTexture))
	g.Expect(TextureStagingData{Width: 2, Height: 2, Pixels: make([]byte, 16)}.Validate()).To(Succeed())
}

func TestCoalesce(t *testing.T) {
	g := NewWithT(t)

	g.Expect(Coalesce(0, 0, 3, 4)).To(Equal(3))
	g.Expect(Coalesce("", "x")).To(Equal("x"))
	g.Expect(Coalesce[float32]()).To(Equal(float32(0)))
}

func TestSliceToBytes(t *testing.T) {
	g := NewWithT(t)

	g.Expect(SliceToBytes([]uint16{0x0201, 0x0403})).To(Equal([]byte{1, 2, 3, 4}))
	g.Expect(SliceToBytes[uint32](nil)).To(BeNil())
}

func TestLoggerDefaultsToNop(t *testing.T) {
	g := NewWithT(t)

	g.Expect(Logger()).NotTo(BeNil())
	SetLogger(nil)
	g.Expect(Logger().Enabled(t.Context(), 12)).To(BeFalse())
}
