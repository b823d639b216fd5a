package common

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func testImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	img.Set(2, 1, color.NRGBA{B: 255, A: 255})
	return img
}

func TestDecodeImagePNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, testImage()))

	staging, err := DecodeImage(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, uint32(3), staging.Width)
	assert.Equal(t, uint32(2), staging.Height)
	assert.Len(t, staging.Pixels, 3*2*4)
	assert.Equal(t, []byte{255, 0, 0, 255}, staging.Pixels[0:4])
	assert.NoError(t, staging.Validate())
}

func TestDecodeImageBMP(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, bmp.Encode(&buf, testImage()))

	staging, err := DecodeImage(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, uint32(3), staging.Width)
	last := staging.Pixels[len(staging.Pixels)-4:]
	assert.Equal(t, []byte{0, 0, 255, 255}, last)
}

func TestDecodeImageRejectsCorruptData(t *testing.T) {
	_, err := DecodeImage([]byte("definitely not an image"))
	assert.Error(t, err)

	_, err = DecodeImage(nil)
	assert.ErrorIs(t, err, ErrEmptyImage)
}

func TestLoadImageFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tex.png")
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, testImage()))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	staging, err := LoadImageFile(path)
	require.NoError(t, err)
	assert.Equal(t, uint32(2), staging.Height)

	_, err = LoadImageFile(filepath.Join(dir, "missing.png"))
	assert.Error(t, err)
}

func TestTextureStagingDataValidate(t *testing.T) {
	assert.ErrorIs(t, TextureStagingData{}.Validate(), ErrEmptyImage)
	assert.Error(t, TextureStagingData{Width: 2, Height: 2, Pixels: make([]byte, 4)}.Validate())
	assert.NoError(t, TextureStagingData{Width: 1, Height: 1, Pixels: make([]byte, 4)}.Validate())
}

func TestKeyName(t *testing.T) {
	assert.Equal(t, "space", KeyName(KeySpace))
	assert.Equal(t, "unknown", KeyName(9999))
}
