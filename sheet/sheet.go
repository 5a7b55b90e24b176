// Package sheet assembles the printable PDF: registration marks plus one
// mirrored face image per layout slot, on a single A4 page. Placement is in
// millimetres throughout; the printer offset correction is applied to badge
// images only, so the center list handed back for the 3D plate stays on the
// logical layout.
package sheet

import (
	"fmt"
	"image"

	"github.com/fogleman/gg"
	"github.com/signintech/gopdf"

	"github.com/badgeforge/badgeforge/face"
	"github.com/badgeforge/badgeforge/layout"
	"github.com/badgeforge/badgeforge/observability"
	"github.com/badgeforge/badgeforge/units"
)

// MarkRadius is the registration mark radius in mm.
const MarkRadius = 2.5

// markEdgeDistance is how far mark centers sit from the page's top or bottom
// edge, in mm.
const markEdgeDistance = 10.0

// Assembler writes the badge sheet PDF.
type Assembler struct {
	Page        layout.Config
	BadgeWidth  float64 // mm
	BadgeHeight float64 // mm

	// Printer drift compensation, page-space mm. Applied uniformly to
	// every placed badge image and to nothing else.
	OffsetX float64
	OffsetY float64

	log observability.Logger
}

// NewAssembler returns an Assembler for badges of the given physical size.
func NewAssembler(page layout.Config, badgeWidth, badgeHeight, offsetX, offsetY float64, log observability.Logger) *Assembler {
	if log == nil {
		log = observability.NopLogger{}
	}
	return &Assembler{
		Page:        page,
		BadgeWidth:  badgeWidth,
		BadgeHeight: badgeHeight,
		OffsetX:     offsetX,
		OffsetY:     offsetY,
		log:         log,
	}
}

// MarkPositions returns the three registration mark centers in page-space:
// top center, and a bottom pair symmetric about the middle at ±pageWidth/6.
func (a *Assembler) MarkPositions() []units.Point {
	w, h := a.Page.PageWidth, a.Page.PageHeight
	return []units.Point{
		{X: w / 2, Y: h - markEdgeDistance},
		{X: w/2 - w/3, Y: markEdgeDistance},
		{X: w/2 + w/3, Y: markEdgeDistance},
	}
}

// Build writes the PDF to path, placing faces[i] at slots[i]. It returns the
// logical (pre-offset) page-space center of every placed badge, in slot
// order, for the 3D plate replicator.
func (a *Assembler) Build(path string, faces []image.Image, slots []layout.Slot) ([]units.Point, error) {
	if len(faces) != len(slots) {
		return nil, fmt.Errorf("have %d faces for %d slots", len(faces), len(slots))
	}

	pdf := gopdf.GoPdf{}
	pdf.Start(gopdf.Config{
		PageSize: gopdf.Rect{W: a.Page.PageWidth, H: a.Page.PageHeight},
		Unit:     gopdf.UnitMM,
	})
	pdf.AddPage()

	if err := a.drawMarks(&pdf); err != nil {
		return nil, err
	}

	centers := make([]units.Point, 0, len(slots))
	for i, slot := range slots {
		// gopdf addresses the image's top-left corner with Y growing
		// downward from the page top.
		x := slot.Center.X - a.BadgeWidth/2 + a.OffsetX
		y := a.Page.PageHeight - (slot.Center.Y + a.BadgeHeight/2) - a.OffsetY
		if err := pdf.ImageFrom(faces[i], x, y, &gopdf.Rect{W: a.BadgeWidth, H: a.BadgeHeight}); err != nil {
			return nil, fmt.Errorf("place badge %d: %w", i, err)
		}
		centers = append(centers, slot.Center)
		a.log.Debug("placed badge",
			observability.Int("slot", slot.Index),
			observability.Float64("x_mm", slot.Center.X),
			observability.Float64("y_mm", slot.Center.Y))
	}

	if err := pdf.WritePdf(path); err != nil {
		return nil, fmt.Errorf("write %s: %w", path, err)
	}
	return centers, nil
}

// drawMarks stamps the three filled-circle registration marks. The marks are
// fixed fiducials: the printer offset is deliberately not applied to them.
func (a *Assembler) drawMarks(pdf *gopdf.GoPdf) error {
	stamp := markStamp()
	for _, p := range a.MarkPositions() {
		x := p.X - MarkRadius
		y := a.Page.PageHeight - p.Y - MarkRadius
		if err := pdf.ImageFrom(stamp, x, y, &gopdf.Rect{W: 2 * MarkRadius, H: 2 * MarkRadius}); err != nil {
			return fmt.Errorf("place registration mark: %w", err)
		}
	}
	return nil
}

// markStamp rasterizes one filled circle on a transparent ground at print
// resolution.
func markStamp() image.Image {
	px := units.MMToPxRound(2*MarkRadius, face.DefaultDPI)
	dc := gg.NewContext(px, px)
	dc.SetRGB(0, 0, 0)
	dc.DrawCircle(float64(px)/2, float64(px)/2, float64(px)/2)
	dc.Fill()
	return dc.Image()
}
