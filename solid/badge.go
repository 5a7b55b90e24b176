// Package solid builds the 3D artifacts: the badge body, the registration
// stops, and the replicated badge plate. Shapes are modelled as signed
// distance fields and triangulated by the sdf render package; loaded STL
// templates skip the modelling step entirely.
package solid

import (
	"fmt"

	"github.com/soypat/sdf"
	"github.com/soypat/sdf/form2/must2"
	"github.com/soypat/sdf/form3/must3"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/badgeforge/badgeforge/mesh"
)

// Default parametric badge dimensions in mm.
const (
	DefaultBadgeWidth     = 75.0
	DefaultBadgeHeight    = 30.0
	DefaultBadgeThickness = 3.0
	DefaultCornerRadius   = 2.0

	// Magnet recess in the badge back, centered.
	RecessWidth  = 46.0
	RecessHeight = 14.5
	RecessDepth  = 0.6
)

// Badge is the solid badge body plus its physical bounding box. The mesh is
// a shared template: callers placing copies must Clone before transforming.
type Badge struct {
	m *mesh.Mesh

	Width  float64
	Height float64
	Depth  float64
}

// NewDefaultBadge synthesizes the parametric badge: a rounded-rectangle body
// with a rectangular magnet recess cut into the top face.
func NewDefaultBadge() (*Badge, error) {
	profile := must2.Box(r2.Vec{X: DefaultBadgeWidth, Y: DefaultBadgeHeight}, DefaultCornerRadius)
	body := sdf.Extrude3D(profile, DefaultBadgeThickness)

	// The recess box is twice the recess depth and centered on the top
	// face, so exactly RecessDepth of material is removed.
	var recess sdf.SDF3 = must3.Box(r3.Vec{X: RecessWidth, Y: RecessHeight, Z: 2 * RecessDepth}, 0)
	recess = sdf.Transform3D(recess, sdf.Translate3D(r3.Vec{Z: DefaultBadgeThickness / 2}))

	m, err := renderSolid(sdf.Difference3D(body, recess))
	if err != nil {
		return nil, fmt.Errorf("default badge: %w", err)
	}
	return newBadge(m), nil
}

// LoadBadge reads a user-supplied badge template from an STL file. The
// template's bounding box defines the badge dimensions for the whole run.
func LoadBadge(path string) (*Badge, error) {
	m, err := mesh.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("badge template: %w", err)
	}
	m.NormalizeOrigin()
	return newBadge(m), nil
}

func newBadge(m *mesh.Mesh) *Badge {
	w, h, d := m.Size()
	return &Badge{m: m, Width: w, Height: h, Depth: d}
}

// Mesh returns the shared badge mesh. Callers must not mutate it; take a
// Clone for transforms.
func (b *Badge) Mesh() *mesh.Mesh { return b.m }

// WriteSTL writes the single badge body on its own, useful for printing one
// blank or inspecting the synthesized shape.
func (b *Badge) WriteSTL(path string) error {
	return mesh.WriteFile(path, b.m)
}
