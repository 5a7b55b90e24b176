// Package mesh holds the triangle geometry shared by the 3D outputs: the
// badge solid (synthesized or loaded from a template file), the replicated
// badge plate, and the registration stops. Meshes are plain triangle soup;
// transforms mutate in place, so callers replicating a shared template must
// Clone before transforming.
package mesh

import (
	"math"

	"github.com/badgeforge/badgeforge/units"
)

// Vec is a point or direction in millimetres.
type Vec struct{ X, Y, Z float64 }

// Triangle is one face, vertices in counter-clockwise order seen from outside.
type Triangle [3]Vec

// Mesh is a mutable triangle soup.
type Mesh struct {
	Triangles []Triangle
}

// Stats summarizes a mesh for diagnostics.
type Stats struct {
	Triangles int
	Vertices  int // distinct vertex positions
}

// Clone returns a deep copy sharing no storage with the receiver.
func (m *Mesh) Clone() *Mesh {
	c := &Mesh{Triangles: make([]Triangle, len(m.Triangles))}
	copy(c.Triangles, m.Triangles)
	return c
}

// Translate moves every vertex by (dx, dy, dz).
func (m *Mesh) Translate(dx, dy, dz float64) {
	for i := range m.Triangles {
		for v := range m.Triangles[i] {
			m.Triangles[i][v].X += dx
			m.Triangles[i][v].Y += dy
			m.Triangles[i][v].Z += dz
		}
	}
}

// TransformXY applies a 2D affine transform to the X/Y plane, leaving Z
// untouched. If the transform mirrors (negative determinant) the triangle
// winding is reversed so outward normals stay outward.
func (m *Mesh) TransformXY(t units.Matrix) {
	flip := t.Determinant() < 0
	for i := range m.Triangles {
		for v := range m.Triangles[i] {
			p := t.Transform(units.Point{X: m.Triangles[i][v].X, Y: m.Triangles[i][v].Y})
			m.Triangles[i][v].X = p.X
			m.Triangles[i][v].Y = p.Y
		}
		if flip {
			m.Triangles[i][1], m.Triangles[i][2] = m.Triangles[i][2], m.Triangles[i][1]
		}
	}
}

// Bounds returns the axis-aligned bounding box. An empty mesh returns two
// zero vectors.
func (m *Mesh) Bounds() (min, max Vec) {
	if len(m.Triangles) == 0 {
		return Vec{}, Vec{}
	}
	min = m.Triangles[0][0]
	max = min
	for _, tri := range m.Triangles {
		for _, v := range tri {
			min.X = math.Min(min.X, v.X)
			min.Y = math.Min(min.Y, v.Y)
			min.Z = math.Min(min.Z, v.Z)
			max.X = math.Max(max.X, v.X)
			max.Y = math.Max(max.Y, v.Y)
			max.Z = math.Max(max.Z, v.Z)
		}
	}
	return min, max
}

// Size returns the bounding box extents (width, height, depth) in mm.
func (m *Mesh) Size() (w, h, d float64) {
	min, max := m.Bounds()
	return max.X - min.X, max.Y - min.Y, max.Z - min.Z
}

// Center returns the bounding box center.
func (m *Mesh) Center() Vec {
	min, max := m.Bounds()
	return Vec{
		X: (min.X + max.X) / 2,
		Y: (min.Y + max.Y) / 2,
		Z: (min.Z + max.Z) / 2,
	}
}

// NormalizeOrigin translates the mesh so its bounding box minimum sits at the
// origin.
func (m *Mesh) NormalizeOrigin() {
	min, _ := m.Bounds()
	m.Translate(-min.X, -min.Y, -min.Z)
}

// Merge concatenates meshes into a new mesh. Inputs are not modified.
func Merge(meshes ...*Mesh) *Mesh {
	out := &Mesh{}
	for _, m := range meshes {
		if m == nil {
			continue
		}
		out.Triangles = append(out.Triangles, m.Triangles...)
	}
	return out
}

// ComputeStats counts triangles and distinct vertex positions.
func (m *Mesh) ComputeStats() Stats {
	seen := make(map[Vec]struct{}, len(m.Triangles)*2)
	for _, tri := range m.Triangles {
		for _, v := range tri {
			seen[v] = struct{}{}
		}
	}
	return Stats{Triangles: len(m.Triangles), Vertices: len(seen)}
}

// normal returns the unit face normal, or the zero vector for a degenerate
// triangle.
func (t Triangle) normal() Vec {
	ux, uy, uz := t[1].X-t[0].X, t[1].Y-t[0].Y, t[1].Z-t[0].Z
	vx, vy, vz := t[2].X-t[0].X, t[2].Y-t[0].Y, t[2].Z-t[0].Z
	n := Vec{
		X: uy*vz - uz*vy,
		Y: uz*vx - ux*vz,
		Z: ux*vy - uy*vx,
	}
	len := math.Sqrt(n.X*n.X + n.Y*n.Y + n.Z*n.Z)
	if len == 0 {
		return Vec{}
	}
	return Vec{X: n.X / len, Y: n.Y / len, Z: n.Z / len}
}
