package layout

import "fmt"

const (
	A4Width  = 210.0
	A4Height = 297.0

	// Tolerance absorbs sub-pixel rasterization rounding, in mm.
	Tolerance = 1.0
)

type Placement struct {
	PageIndex int
	Offset    float64
}

// DecidePageBreaks slices one tall image of renderedHeight mm into pages of pageHeight mm.
// A single logical page never grows: any overflow there is rounding noise.
func DecidePageBreaks(renderedHeight, pageHeight float64, expectedPages int) ([]Placement, error) {
	if pageHeight <= 0 {
		return nil, fmt.Errorf("page height must be positive, got %.2f", pageHeight)
	}
	if expectedPages < 1 {
		return nil, fmt.Errorf("expected page count must be at least 1, got %d", expectedPages)
	}

	placements := []Placement{{PageIndex: 0, Offset: 0}}
	if expectedPages == 1 {
		return placements, nil
	}

	heightLeft := renderedHeight - pageHeight
	for heightLeft > Tolerance {
		placements = append(placements, Placement{
			PageIndex: len(placements),
			Offset:    heightLeft - renderedHeight,
		})
		heightLeft -= pageHeight
	}
	return placements, nil
}
