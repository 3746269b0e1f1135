package pdf

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/travel-docs/internal/raster"
)

func stackedPages(t *testing.T, pages, extraRows int) raster.Image {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 210, 297*pages+extraRows))
	for y := 0; y < img.Bounds().Dy(); y += 10 {
		for x := 0; x < 210; x++ {
			img.SetGray(x, y, color.Gray{Y: 128})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return raster.Image{Data: buf.Bytes(), Format: raster.FormatPNG}
}

func TestGenerate_PageCountMatchesLogicalPages(t *testing.T) {
	for _, pages := range []int{1, 2, 3} {
		res, err := NewGenerator(0, zerolog.Nop()).Generate(stackedPages(t, pages, 0), pages)
		require.NoError(t, err)
		assert.Equal(t, pages, res.Pages)
		assert.True(t, bytes.HasPrefix(res.Content, []byte("%PDF-")))
	}
}

func TestGenerate_SinglePageNeverGrows(t *testing.T) {
	// 7px of overflow is 7mm at this width, well past the tolerance.
	res, err := NewGenerator(0, zerolog.Nop()).Generate(stackedPages(t, 1, 7), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Pages)
}

func TestGenerate_OverflowAddsPhysicalPage(t *testing.T) {
	res, err := NewGenerator(0, zerolog.Nop()).Generate(stackedPages(t, 2, 5), 2)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Pages)
}

func TestGenerate_SizeLimit(t *testing.T) {
	_, err := NewGenerator(100, zerolog.Nop()).Generate(stackedPages(t, 1, 0), 1)
	assert.ErrorIs(t, err, ErrSizeLimitExceeded)
}

func TestGenerate_InvalidImage(t *testing.T) {
	gen := NewGenerator(0, zerolog.Nop())

	_, err := gen.Generate(raster.Image{}, 1)
	assert.ErrorIs(t, err, ErrInvalidImage)

	_, err = gen.Generate(raster.Image{Data: []byte("not a png"), Format: raster.FormatPNG}, 1)
	assert.ErrorIs(t, err, ErrInvalidImage)
}

func TestCheckSize(t *testing.T) {
	assert.NoError(t, CheckSize(DefaultMaxBytes, DefaultMaxBytes))
	assert.ErrorIs(t, CheckSize(DefaultMaxBytes+1, DefaultMaxBytes), ErrSizeLimitExceeded)
	assert.Equal(t, DefaultMaxBytes, NewGenerator(-1, zerolog.Nop()).MaxBytes())
}
