// Package imageio converts PNG files to and from the packed pixel buffers
// scripts operate on. Colour buffers use B,G,R(,A) byte order per pixel.
package imageio

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"

	"github.com/reglet-dev/scripthost/domain/entities"
)

// Decode reads a PNG. Grayscale images become gray8, everything else rgb32.
func Decode(r io.Reader, key string) (*entities.Image, error) {
	src, err := png.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()

	switch src.ColorModel() {
	case color.GrayModel, color.Gray16Model:
		img := &entities.Image{Key: key, Width: w, Height: h, Stride: w, Pix: make([]byte, w*h)}
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				img.Pix[y*w+x] = color.GrayModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.Gray).Y
			}
		}
		return img, nil
	}

	stride := w * 4
	img := &entities.Image{Key: key, Width: w, Height: h, Stride: stride, Pix: make([]byte, stride*h)}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBAModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			i := y*stride + x*4
			img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.B, c.G, c.R, c.A
		}
	}
	return img, nil
}

// Encode writes img as a PNG.
func Encode(w io.Writer, img *entities.Image) error {
	format, err := img.Format()
	if err != nil {
		return err
	}
	if need := img.Stride * img.Height; len(img.Pix) < need {
		return fmt.Errorf("pixel buffer holds %d bytes, %d required", len(img.Pix), need)
	}

	rect := image.Rect(0, 0, img.Width, img.Height)
	var out image.Image
	switch format {
	case entities.PixelFormatGray8:
		gray := image.NewGray(rect)
		for y := 0; y < img.Height; y++ {
			copy(gray.Pix[y*gray.Stride:], img.Pix[y*img.Stride:y*img.Stride+img.Width])
		}
		out = gray
	default:
		bpp := format.BytesPerPixel()
		rgba := image.NewNRGBA(rect)
		for y := 0; y < img.Height; y++ {
			for x := 0; x < img.Width; x++ {
				i := y*img.Stride + x*bpp
				a := byte(0xff)
				if bpp == 4 {
					a = img.Pix[i+3]
				}
				rgba.SetNRGBA(x, y, color.NRGBA{R: img.Pix[i+2], G: img.Pix[i+1], B: img.Pix[i], A: a})
			}
		}
		out = rgba
	}

	if err := png.Encode(w, out); err != nil {
		return fmt.Errorf("failed to encode %s: %w", img.Key, err)
	}
	return nil
}

// ReadFile decodes the PNG at path.
func ReadFile(path, key string) (*entities.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f, key)
}

// WriteFile encodes img to path, replacing any existing file.
func WriteFile(path string, img *entities.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(f, img); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
