package solid

import (
	"fmt"

	"github.com/soypat/sdf"
	"github.com/soypat/sdf/form2/must2"
	"github.com/soypat/sdf/form3/must3"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/badgeforge/badgeforge/layout"
	"github.com/badgeforge/badgeforge/mesh"
	"github.com/badgeforge/badgeforge/units"
)

// Registration stop dimensions (mm).
const (
	StopArmLength = 20.0
	StopArmWidth  = 5.0
	StopHeight    = 2.0

	IndexCylinderRadius = 3.0
	IndexCylinderHeight = 2.0

	KnobDiameter = 4.5
	KnobHeight   = 2.0
)

// Empirically tuned placement offsets. These were calibrated against real
// hardware rather than derived, and the index cylinder's Y sign runs opposite
// to the L-stops'. Re-tune on a physical print before trusting them.
// TODO: recalibrate StopTopInset against the next hardware batch.
const (
	StopEdgeClearance = 6.0  // how far outside the page's vertical edges
	StopTopInset      = 14.0 // L-stop Y = page height - arm length - inset
	IndexCylinderY    = -6.0 // below the page origin, sign quirk preserved
)

// StopStyle selects which registration stop set to build.
type StopStyle string

const (
	// StopsL is a mirrored pair of L-shaped tabs plus an index cylinder.
	StopsL StopStyle = "lstops"
	// StopsKnobs is three cylinders at the PDF registration mark positions.
	StopsKnobs StopStyle = "knobs"
)

// ParseStopStyle validates a CLI style name.
func ParseStopStyle(s string) (StopStyle, error) {
	switch StopStyle(s) {
	case StopsL, StopsKnobs:
		return StopStyle(s), nil
	}
	return "", fmt.Errorf("unknown stop style %q (want %q or %q)", s, StopsL, StopsKnobs)
}

// RegistrationStops builds the merged stop set for the given page.
func RegistrationStops(style StopStyle, page layout.Config) (*mesh.Mesh, error) {
	switch style {
	case StopsKnobs:
		return knobStops(page)
	default:
		return lStops(page)
	}
}

// lStops places one L-tab just outside the page's left edge and its mirror
// outside the right edge, both near the top, plus the index cylinder centered
// below the page.
func lStops(page layout.Config) (*mesh.Mesh, error) {
	tab, err := lTab()
	if err != nil {
		return nil, err
	}

	stopY := page.PageHeight - StopArmLength - StopTopInset

	left := tab.Clone()
	left.Translate(-StopEdgeClearance, stopY, 0)

	right := tab.Clone()
	// Mirror across the tab's own corner axis so the pair brackets the sheet.
	right.TransformXY(units.Scale(-1, 1))
	right.Translate(page.PageWidth+StopEdgeClearance, stopY, 0)

	cyl, err := renderSolid(must3.Cylinder(IndexCylinderHeight, IndexCylinderRadius, 0))
	if err != nil {
		return nil, fmt.Errorf("index cylinder: %w", err)
	}
	// Center the cylinder on its placement point, base on the bed.
	c := cyl.Center()
	cyl.Translate(page.PageWidth/2-c.X, IndexCylinderY-c.Y, 0)

	return mesh.Merge(left, right, cyl), nil
}

// lTab builds one L-shaped tab with its inner corner at the origin, arms
// extending up and to the right.
func lTab() (*mesh.Mesh, error) {
	vertical := sdf.Transform2D(
		must2.Box(r2.Vec{X: StopArmWidth, Y: StopArmLength}, 0),
		sdf.Translate2D(r2.Vec{X: StopArmWidth / 2, Y: StopArmLength / 2}))
	horizontal := sdf.Transform2D(
		must2.Box(r2.Vec{X: StopArmLength, Y: StopArmWidth}, 0),
		sdf.Translate2D(r2.Vec{X: StopArmLength / 2, Y: StopArmWidth / 2}))

	m, err := renderSolid(sdf.Extrude3D(sdf.Union2D(vertical, horizontal), StopHeight))
	if err != nil {
		return nil, fmt.Errorf("l-stop: %w", err)
	}
	return m, nil
}

// knobStops is the older stop style: three cylinders matching the PDF's
// registration mark positions so a printed sheet can be pinned rather than
// butted.
func knobStops(page layout.Config) (*mesh.Mesh, error) {
	positions := []units.Point{
		{X: page.PageWidth / 2, Y: page.PageHeight - 10},
		{X: page.PageWidth/2 - page.PageWidth/3, Y: 10},
		{X: page.PageWidth/2 + page.PageWidth/3, Y: 10},
	}
	knob, err := renderSolid(must3.Cylinder(KnobHeight, KnobDiameter/2, 0))
	if err != nil {
		return nil, fmt.Errorf("knob: %w", err)
	}
	c := knob.Center()
	placed := make([]*mesh.Mesh, 0, len(positions))
	for _, p := range positions {
		k := knob.Clone()
		k.Translate(p.X-c.X, p.Y-c.Y, 0)
		placed = append(placed, k)
	}
	return mesh.Merge(placed...), nil
}
