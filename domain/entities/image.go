package entities

import "fmt"

// PixelFormat describes the memory layout of an image row.
type PixelFormat string

const (
	// PixelFormatGray8 is one byte per pixel.
	PixelFormatGray8 PixelFormat = "gray8"

	// PixelFormatRGB24 is three bytes per pixel.
	PixelFormatRGB24 PixelFormat = "rgb24"

	// PixelFormatRGB32 is four bytes per pixel.
	PixelFormatRGB32 PixelFormat = "rgb32"
)

// BytesPerPixel returns the pixel size of the format, or 0 if unknown.
func (f PixelFormat) BytesPerPixel() int {
	switch f {
	case PixelFormatGray8:
		return 1
	case PixelFormatRGB24:
		return 3
	case PixelFormatRGB32:
		return 4
	default:
		return 0
	}
}

// CalcFormat infers the pixel format from the ratio of stride to width.
func CalcFormat(width, stride int) (PixelFormat, error) {
	if width <= 0 {
		return "", fmt.Errorf("image width must be positive, got %d", width)
	}
	switch stride / width {
	case 1:
		return PixelFormatGray8, nil
	case 3:
		return PixelFormatRGB24, nil
	case 4:
		return PixelFormatRGB32, nil
	default:
		return "", fmt.Errorf("Image width/stride mismatch")
	}
}

// Image is an opaque pixel buffer handed to a script.
//
// Pix aliases the caller's memory: scripts mutate it in place, so images are
// always in/out parameters. The caller must keep the buffer valid and
// unshared for the duration of one execution.
type Image struct {
	Key    string `json:"key" validate:"required"`
	Pix    []byte `json:"-" validate:"required"`
	Width  int    `json:"width" validate:"gt=0"`
	Height int    `json:"height" validate:"gt=0"`
	Stride int    `json:"stride" validate:"gtefield=Width"`
}

// Format returns the pixel format of the image.
func (img *Image) Format() (PixelFormat, error) {
	return CalcFormat(img.Width, img.Stride)
}

// Info returns the image geometry without the pixel data.
func (img *Image) Info() ImageInfo {
	format, _ := img.Format()
	return ImageInfo{
		Width:  img.Width,
		Height: img.Height,
		Stride: img.Stride,
		Format: format,
	}
}

// ImageInfo describes the geometry of an image parameter.
type ImageInfo struct {
	Format PixelFormat `json:"format" jsonschema:"enum=gray8,enum=rgb24,enum=rgb32"`
	Width  int         `json:"width" jsonschema:"minimum=1"`
	Height int         `json:"height" jsonschema:"minimum=1"`
	Stride int         `json:"stride" jsonschema:"minimum=1"`
}
