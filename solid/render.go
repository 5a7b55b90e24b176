package solid

import (
	"fmt"

	"github.com/soypat/sdf"
	"github.com/soypat/sdf/render"

	"github.com/badgeforge/badgeforge/mesh"
)

// meshCells is the octree resolution passed to the renderer. With the largest
// solid in this package around 75mm this keeps facet error well under the
// sub-millimetre assembly tolerance.
const meshCells = 300

// renderSolid triangulates an SDF into a triangle mesh and moves it so its
// bounding box minimum sits at the origin (z = 0 is the print bed).
func renderSolid(s sdf.SDF3) (*mesh.Mesh, error) {
	tris, err := render.RenderAll(render.NewOctreeRenderer(s, meshCells))
	if err != nil {
		return nil, fmt.Errorf("triangulate solid: %w", err)
	}
	m := &mesh.Mesh{Triangles: make([]mesh.Triangle, len(tris))}
	for i, t := range tris {
		for v := 0; v < 3; v++ {
			m.Triangles[i][v] = mesh.Vec{X: t[v].X, Y: t[v].Y, Z: t[v].Z}
		}
	}
	m.NormalizeOrigin()
	return m, nil
}
