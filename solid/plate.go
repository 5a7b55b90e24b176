package solid

import (
	"github.com/badgeforge/badgeforge/mesh"
	"github.com/badgeforge/badgeforge/units"
)

// Replicate places one clone of the badge mesh at every page-space center and
// merges them into a single printable plate. Centers are the logical
// (pre-offset) badge centers reported by the PDF assembler, so the i-th 3D
// badge and the i-th printed face share a slot: page-space Y (up from the
// bottom) is flipped into mesh-space Y (down from the top) and each clone is
// moved by the delta between its own bounding-box center and the target.
func Replicate(template *mesh.Mesh, centers []units.Point, pageHeight float64) *mesh.Mesh {
	origin := template.Center()
	placed := make([]*mesh.Mesh, 0, len(centers))
	for _, center := range centers {
		target := units.PageToMesh(center, pageHeight)
		inst := template.Clone()
		inst.Translate(target.X-origin.X, target.Y-origin.Y, 0)
		placed = append(placed, inst)
	}
	return mesh.Merge(placed...)
}
