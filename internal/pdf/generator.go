package pdf

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/rs/zerolog"

	"github.com/nurpe/travel-docs/internal/layout"
	"github.com/nurpe/travel-docs/internal/raster"
)

const DefaultMaxBytes int64 = 10 * 1024 * 1024

var (
	ErrSizeLimitExceeded = errors.New("pdf exceeds size limit")
	ErrInvalidImage      = errors.New("invalid raster image")
)

type Result struct {
	Content []byte
	// Pages is the physical page count, which can differ from the logical count.
	Pages int
}

type Generator struct {
	maxBytes int64
	log      zerolog.Logger
}

func NewGenerator(maxBytes int64, log zerolog.Logger) *Generator {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Generator{maxBytes: maxBytes, log: log}
}

func (g *Generator) MaxBytes() int64 {
	return g.maxBytes
}

// Generate lays one tall raster of logicalPages stacked A4 pages onto A4 PDF pages.
func (g *Generator) Generate(img raster.Image, logicalPages int) (*Result, error) {
	if len(img.Data) == 0 {
		return nil, fmt.Errorf("%w: no data", ErrInvalidImage)
	}
	imageType := img.Format
	if imageType == "" {
		imageType = raster.FormatPNG
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)

	options := gofpdf.ImageOptions{ImageType: imageType}
	info := pdf.RegisterImageOptionsReader("document", options, bytes.NewReader(img.Data))
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if info == nil || info.Width() <= 0 {
		return nil, fmt.Errorf("%w: zero width", ErrInvalidImage)
	}

	imageHeight := info.Height() * layout.A4Width / info.Width()
	placements, err := layout.DecidePageBreaks(imageHeight, layout.A4Height, logicalPages)
	if err != nil {
		return nil, err
	}

	for _, p := range placements {
		pdf.AddPage()
		pdf.ImageOptions("document", 0, p.Offset, layout.A4Width, imageHeight, false, options, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	if err := CheckSize(int64(buf.Len()), g.maxBytes); err != nil {
		return nil, err
	}

	if len(placements) != logicalPages {
		g.log.Warn().
			Int("logical_pages", logicalPages).
			Int("physical_pages", len(placements)).
			Float64("image_height_mm", imageHeight).
			Msg("physical page count differs from logical page count")
	}

	return &Result{Content: buf.Bytes(), Pages: len(placements)}, nil
}

func CheckSize(size, maxBytes int64) error {
	if size > maxBytes {
		return fmt.Errorf("%w: %d bytes, limit %d", ErrSizeLimitExceeded, size, maxBytes)
	}
	return nil
}
