// Package units converts between the physical coordinate systems used by the
// badge pipeline: millimetres, rasterization pixels, high-DPI print pixels,
// page-space (origin bottom-left, Y up) and mesh-space (Y down from the top
// of the page).
package units

import (
	"errors"
	"math"
)

// MMPerInch is the definition of the inch used for all DPI conversions.
const MMPerInch = 25.4

// Point is a 2D point in millimetres.
type Point struct{ X, Y float64 }

// MMToPx converts millimetres to pixels at the given resolution in DPI.
func MMToPx(mm, dpi float64) float64 { return mm * dpi / MMPerInch }

// PxToMM converts pixels at the given resolution in DPI back to millimetres.
func PxToMM(px, dpi float64) float64 { return px * MMPerInch / dpi }

// MMToPxRound converts millimetres to a whole pixel count at the given DPI.
// Rounding (not truncation) keeps the error under half a pixel, and since the
// same conversion is applied to every badge the relative alignment between
// badges is exact.
func MMToPxRound(mm, dpi float64) int { return int(math.Round(MMToPx(mm, dpi))) }

// PtToPx converts a font size in points (1/72 in) to pixels at the given DPI.
func PtToPx(pt, dpi float64) float64 { return pt * dpi / 72 }

// PageToMesh maps a page-space point (origin bottom-left, Y up) to mesh-space
// (same X axis, Y measured downward from the page's top edge). Applying it
// twice with the same page height is the identity.
func PageToMesh(p Point, pageHeight float64) Point {
	return Point{X: p.X, Y: pageHeight - p.Y}
}

// Matrix is a 2D affine transform in row-major [a b c d e f] layout, mapping
// (x, y) to (a*x + c*y + e, b*x + d*y + f).
type Matrix [6]float64

// Identity returns the identity transform.
func Identity() Matrix { return Matrix{1, 0, 0, 1, 0, 0} }

// Translate returns a translation by (tx, ty) millimetres.
func Translate(tx, ty float64) Matrix { return Matrix{1, 0, 0, 1, tx, ty} }

// Scale returns a scale by (sx, sy). Negative factors mirror: Scale(-1, 1)
// reflects across the Y axis.
func Scale(sx, sy float64) Matrix { return Matrix{sx, 0, 0, sy, 0, 0} }

// Multiply composes two transforms; the receiver is applied first.
func (m Matrix) Multiply(o Matrix) Matrix {
	return Matrix{
		m[0]*o[0] + m[1]*o[2],
		m[0]*o[1] + m[1]*o[3],
		m[2]*o[0] + m[3]*o[2],
		m[2]*o[1] + m[3]*o[3],
		m[4]*o[0] + m[5]*o[2] + o[4],
		m[4]*o[1] + m[5]*o[3] + o[5],
	}
}

// Transform applies the matrix to a point.
func (m Matrix) Transform(p Point) Point {
	return Point{
		X: m[0]*p.X + m[2]*p.Y + m[4],
		Y: m[1]*p.X + m[3]*p.Y + m[5],
	}
}

// Determinant reports the signed area scale of the transform. A negative
// determinant means the transform flips orientation (a mirror).
func (m Matrix) Determinant() float64 { return m[0]*m[3] - m[1]*m[2] }

// Inverse returns the inverse transform.
func (m Matrix) Inverse() (Matrix, error) {
	det := m.Determinant()
	if math.Abs(det) < 1e-10 {
		return Matrix{}, errors.New("matrix singular")
	}
	return Matrix{
		m[3] / det, -m[1] / det,
		-m[2] / det, m[0] / det,
		(m[2]*m[5] - m[3]*m[4]) / det,
		(m[1]*m[4] - m[0]*m[5]) / det,
	}, nil
}
