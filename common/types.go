package common

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	"github.com/cogentcore/webgpu/wgpu"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrInvalidTexture is returned when staging data does not describe a complete RGBA8 image.
var ErrInvalidTexture = errors.New("invalid texture staging data")

// TextureStagingData holds tightly packed RGBA8 pixels ready for upload to a 2D texture.
type TextureStagingData struct {
	Pixels []byte
	Width  uint32
	Height uint32
}

// Validate reports whether the staging data has non-zero dimensions and exactly Width*Height*4 bytes.
//
// Returns:
//   - error: ErrInvalidTexture wrapped with the offending values, or nil
func (t TextureStagingData) Validate() error {
	if t.Width == 0 || t.Height == 0 {
		return fmt.Errorf("%w: zero dimension %dx%d", ErrInvalidTexture, t.Width, t.Height)
	}
	if want := int(t.Width) * int(t.Height) * 4; len(t.Pixels) != want {
		return fmt.Errorf("%w: have %d bytes, want %d", ErrInvalidTexture, len(t.Pixels), want)
	}
	return nil
}

// SamplerStagingData describes a sampler. Zero fields fall back to repeat addressing and linear filtering.
type SamplerStagingData struct {
	AddressModeU, AddressModeV, AddressModeW wgpu.AddressMode
	MagFilter, MinFilter                     wgpu.FilterMode
	MipmapFilter                             wgpu.MipmapFilterMode
	LodMinClamp, LodMaxClamp                 float32
	Compare                                  wgpu.CompareFunction
	MaxAnisotropy                            uint16
}

// DecodeTexture decodes a PNG, JPEG, BMP, TIFF or WebP image into RGBA8 staging data.
// Images larger than maxSize on either side are downscaled with Catmull-Rom filtering,
// keeping the aspect ratio. A maxSize of 0 disables scaling.
//
// Parameters:
//   - r: the encoded image
//   - maxSize: the largest allowed width or height in pixels
//
// Returns:
//   - TextureStagingData: the decoded pixels
//   - error: an error if the image could not be decoded
func DecodeTexture(r io.Reader, maxSize int) (TextureStagingData, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return TextureStagingData{}, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	dst := image.Rect(0, 0, bounds.Dx(), bounds.Dy())
	if maxSize > 0 && (dst.Dx() > maxSize || dst.Dy() > maxSize) {
		dst = fitWithin(dst.Dx(), dst.Dy(), maxSize)
	}

	rgba := image.NewRGBA(dst)
	if dst.Dx() == bounds.Dx() && dst.Dy() == bounds.Dy() {
		draw.Draw(rgba, dst, img, bounds.Min, draw.Src)
	} else {
		draw.CatmullRom.Scale(rgba, dst, img, bounds, draw.Src, nil)
		Logger().Debug("texture downscaled", "format", format,
			"from", fmt.Sprintf("%dx%d", bounds.Dx(), bounds.Dy()),
			"to", fmt.Sprintf("%dx%d", dst.Dx(), dst.Dy()))
	}

	return TextureStagingData{
		Pixels: rgba.Pix,
		Width:  uint32(dst.Dx()),
		Height: uint32(dst.Dy()),
	}, nil
}

// LoadTexture opens path and decodes it with DecodeTexture.
//
// Parameters:
//   - path: the image file to load
//   - maxSize: the largest allowed width or height in pixels, 0 for no limit
//
// Returns:
//   - TextureStagingData: the decoded pixels
//   - error: an error if the file could not be opened or decoded
func LoadTexture(path string, maxSize int) (TextureStagingData, error) {
	file, err := os.Open(path)
	if err != nil {
		return TextureStagingData{}, fmt.Errorf("failed to open texture file %s: %w", path, err)
	}
	defer file.Close()

	data, err := DecodeTexture(file, maxSize)
	if err != nil {
		return TextureStagingData{}, fmt.Errorf("texture file %s: %w", path, err)
	}
	return data, nil
}

// Checkerboard generates a square two-tone checker texture.
//
// Parameters:
//   - size: the width and height in pixels
//   - cells: the number of cells along each side
//   - a: the color of the cell at the origin
//   - b: the alternate cell color
//
// Returns:
//   - TextureStagingData: the generated pixels
func Checkerboard(size, cells int, a, b color.RGBA) TextureStagingData {
	if size <= 0 {
		size = 1
	}
	if cells <= 0 {
		cells = 1
	}
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		cy := y * cells / size
		for x := 0; x < size; x++ {
			cx := x * cells / size
			if (cx+cy)%2 == 0 {
				img.SetRGBA(x, y, a)
			} else {
				img.SetRGBA(x, y, b)
			}
		}
	}
	return TextureStagingData{
		Pixels: img.Pix,
		Width:  uint32(size),
		Height: uint32(size),
	}
}

func fitWithin(w, h, maxSize int) image.Rectangle {
	if w >= h {
		nh := h * maxSize / w
		return image.Rect(0, 0, maxSize, max(nh, 1))
	}
	nw := w * maxSize / h
	return image.Rect(0, 0, max(nw, 1), maxSize)
}
