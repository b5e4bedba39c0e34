package imageio

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reglet-dev/scripthost/domain/entities"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDecode_Gray(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 3, 2))
	copy(src.Pix, []byte{1, 2, 3, 4, 5, 6})

	img, err := Decode(bytes.NewReader(encodePNG(t, src)), "WorkImage")
	require.NoError(t, err)

	assert.Equal(t, "WorkImage", img.Key)
	assert.Equal(t, 3, img.Width)
	assert.Equal(t, 2, img.Height)
	assert.Equal(t, 3, img.Stride)
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6}, img.Pix)

	format, err := img.Format()
	require.NoError(t, err)
	assert.Equal(t, entities.PixelFormatGray8, format)
}

func TestDecode_ColorIsBGRA(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	src.SetNRGBA(0, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	src.SetNRGBA(1, 0, color.NRGBA{R: 40, G: 50, B: 60, A: 128})

	img, err := Decode(bytes.NewReader(encodePNG(t, src)), "in")
	require.NoError(t, err)

	assert.Equal(t, 8, img.Stride)
	assert.Equal(t, []byte{30, 20, 10, 255, 60, 50, 40, 128}, img.Pix)
}

func TestDecode_Invalid(t *testing.T) {
	_, err := Decode(strings.NewReader("not a png"), "in")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode in")
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		img  *entities.Image
	}{
		{"gray8", &entities.Image{Key: "g", Width: 2, Height: 2, Stride: 2, Pix: []byte{0, 64, 128, 255}}},
		{"rgb32", &entities.Image{Key: "c", Width: 1, Height: 2, Stride: 4, Pix: []byte{1, 2, 3, 255, 4, 5, 6, 255}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.name+".png")
			require.NoError(t, WriteFile(path, tt.img))

			got, err := ReadFile(path, tt.img.Key)
			require.NoError(t, err)
			assert.Equal(t, tt.img, got)
		})
	}
}

func TestEncode_RGB24(t *testing.T) {
	img := &entities.Image{Key: "c", Width: 1, Height: 1, Stride: 3, Pix: []byte{30, 20, 10}}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, img))

	decoded, err := png.Decode(&buf)
	require.NoError(t, err)
	r, g, b, a := decoded.At(0, 0).RGBA()
	assert.Equal(t, []uint32{10, 20, 30, 255}, []uint32{r >> 8, g >> 8, b >> 8, a >> 8})
}

func TestEncode_Errors(t *testing.T) {
	var buf bytes.Buffer

	err := Encode(&buf, &entities.Image{Key: "x", Width: 2, Height: 1, Stride: 4, Pix: make([]byte, 4)})
	assert.EqualError(t, err, "Image width/stride mismatch")

	err = Encode(&buf, &entities.Image{Key: "x", Width: 2, Height: 2, Stride: 2, Pix: make([]byte, 3)})
	assert.EqualError(t, err, "pixel buffer holds 3 bytes, 4 required")
}
