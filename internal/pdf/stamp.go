package pdf

import (
	"bytes"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// Stamp appearance, matching the arXiv side stamp.
const (
	StampFont       = "Times-Roman"
	StampPoints     = 18
	StampMinPoints  = 8
	StampColor      = "#444444"
	stampLeftOffset = 5 // points between the page edge and the rotated text box

	// Average Times-Roman glyph width as a fraction of the point size.
	avgGlyphWidth = 0.5
)

// StampDateLayout formats the date shown in the stamp, e.g. "7 Jan 2025".
const StampDateLayout = "2 Jan 2006"

// StampText returns the text placed on page 1 of a published paper.
func StampText(id, category string, date time.Time) string {
	return fmt.Sprintf("corpXiv:%s [%s] %s", id, category, date.Format(StampDateLayout))
}

// ComposeStamp builds the overlay for a page of the given size: the text runs
// bottom to top along the left edge, vertically centred. The font shrinks
// when the text would not fit the page height.
func ComposeStamp(text string, page types.Dim) (*model.Watermark, error) {
	if page.Width <= 0 || page.Height <= 0 {
		return nil, fmt.Errorf("invalid page size %.0fx%.0f", page.Width, page.Height)
	}

	points := stampPoints(text, page.Height)
	desc := fmt.Sprintf(
		"fontname:%s, points:%d, fillcolor:%s, rotation:90, position:l, offset:%d 0, scalefactor:1 abs, opacity:1",
		StampFont, points, StampColor, stampLeftOffset,
	)
	wm, err := api.TextWatermark(text, desc, true, false, types.POINTS)
	if err != nil {
		return nil, fmt.Errorf("composing stamp: %w", err)
	}
	return wm, nil
}

// stampPoints returns the font size that fits text into 90% of the page
// height, between StampMinPoints and StampPoints.
func stampPoints(text string, pageHeight float64) int {
	glyphs := float64(utf8.RuneCountInString(text))
	points := StampPoints
	if width := avgGlyphWidth * float64(points) * glyphs; width > 0.9*pageHeight {
		points = int(0.9 * pageHeight / (avgGlyphWidth * glyphs))
		if points < StampMinPoints {
			points = StampMinPoints
		}
	}
	return points
}

// MergeOverlay composites wm onto page 1 of the PDF in data and returns the
// new document. Other pages are copied unchanged.
func MergeOverlay(data []byte, wm *model.Watermark) ([]byte, error) {
	var out bytes.Buffer
	if err := api.AddWatermarks(bytes.NewReader(data), &out, []string{"1"}, wm, newConfiguration()); err != nil {
		return nil, fmt.Errorf("merging stamp: %w", err)
	}
	return out.Bytes(), nil
}

// Stamp places the identifier stamp on page 1 of data.
func Stamp(data []byte, id, category string, date time.Time) ([]byte, error) {
	dims, err := api.PageDims(bytes.NewReader(data), newConfiguration())
	if err != nil {
		return nil, fmt.Errorf("reading page size: %w", err)
	}
	if len(dims) == 0 {
		return nil, ErrNoPages
	}

	wm, err := ComposeStamp(StampText(id, category, date), dims[0])
	if err != nil {
		return nil, err
	}
	return MergeOverlay(data, wm)
}

func newConfiguration() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}
