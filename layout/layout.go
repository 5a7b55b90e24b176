// Package layout computes where badges sit on the printed sheet. It is the
// single source of truth for badge placement: the PDF assembler and the 3D
// plate replicator both consume the slot centers it emits, which is what
// keeps the two artifacts physically congruent.
package layout

import (
	"math"

	"github.com/badgeforge/badgeforge/units"
)

// Config describes the sheet geometry in millimetres.
type Config struct {
	PageWidth  float64
	PageHeight float64

	SideMargin   float64 // left and right
	TopMargin    float64 // capacity calculation only
	BottomMargin float64 // capacity calculation only

	ColumnGap float64
	RowGap    float64
}

// Default returns the A4 sheet geometry used by the tool.
func Default() Config {
	return Config{
		PageWidth:    210,
		PageHeight:   297,
		SideMargin:   20,
		TopMargin:    20,
		BottomMargin: 30,
		ColumnGap:    15,
		RowGap:       10,
	}
}

// Slot is one computed badge placement. Centers are in page-space (origin
// bottom-left, Y up), in millimetres.
type Slot struct {
	Index  int
	Column int // 0 or 1
	Center units.Point
}

// Columns returns the two column center X positions. The pair of badges plus
// the column gap is horizontally centered in the usable width, so
// col2 - col1 == badgeWidth + ColumnGap exactly.
func (c Config) Columns(badgeWidth float64) (col1, col2 float64) {
	usable := c.PageWidth - 2*c.SideMargin
	startX := c.SideMargin + (usable-(2*badgeWidth+c.ColumnGap))/2
	col1 = startX + badgeWidth/2
	col2 = startX + badgeWidth + c.ColumnGap + badgeWidth/2
	return col1, col2
}

// Capacity returns the maximum badge count that fits on one sheet.
func (c Config) Capacity(badgeHeight float64) int {
	if badgeHeight <= 0 {
		return 0
	}
	usable := c.PageHeight - c.TopMargin - c.BottomMargin
	maxRows := int((usable + c.RowGap) / (badgeHeight + c.RowGap))
	if maxRows < 0 {
		maxRows = 0
	}
	return maxRows * 2
}

// Slots computes placements for n badges of the given size. Slot i goes in
// column i%2; rows fill top to bottom; the whole block is vertically centered
// on the page. If n exceeds the sheet capacity the result is truncated to
// capacity — overflow is the caller's warning to report, never an error.
func (c Config) Slots(badgeWidth, badgeHeight float64, n int) []Slot {
	if capacity := c.Capacity(badgeHeight); n > capacity {
		n = capacity
	}
	if n <= 0 {
		return nil
	}

	col1, col2 := c.Columns(badgeWidth)
	blockHeight := c.BlockHeight(badgeHeight, n)

	// First row center, with the block centered about the page middle.
	firstY := (c.PageHeight+blockHeight)/2 - badgeHeight/2

	slots := make([]Slot, 0, n)
	for i := 0; i < n; i++ {
		row := i / 2
		col := i % 2
		x := col1
		if col == 1 {
			x = col2
		}
		slots = append(slots, Slot{
			Index:  i,
			Column: col,
			Center: units.Point{
				X: x,
				Y: firstY - float64(row)*(badgeHeight+c.RowGap),
			},
		})
	}
	return slots
}

// BlockHeight returns the total height of an n-badge block.
func (c Config) BlockHeight(badgeHeight float64, n int) float64 {
	rows := int(math.Ceil(float64(n) / 2))
	if rows <= 0 {
		return 0
	}
	return float64(rows)*badgeHeight + float64(rows-1)*c.RowGap
}
