package solid

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/badgeforge/badgeforge/layout"
	"github.com/badgeforge/badgeforge/mesh"
	"github.com/badgeforge/badgeforge/units"
)

// geomTol absorbs octree facet error; assembly tolerance is sub-millimetre
// and the renderer stays well inside it.
const geomTol = 0.6

func approx(t *testing.T, what string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > geomTol {
		t.Fatalf("%s = %v, want %v±%v", what, got, want, geomTol)
	}
}

// slab builds a w*h*d box as triangle soup with its minimum corner at the
// origin.
func slab(w, h, d float64) *mesh.Mesh {
	m := &mesh.Mesh{}
	quad := func(a, b, c, dd mesh.Vec) {
		m.Triangles = append(m.Triangles, mesh.Triangle{a, b, c}, mesh.Triangle{c, dd, a})
	}
	p := func(x, y, z float64) mesh.Vec { return mesh.Vec{X: x * w, Y: y * h, Z: z * d} }
	quad(p(0, 0, 0), p(0, 1, 0), p(1, 1, 0), p(1, 0, 0))
	quad(p(0, 0, 1), p(1, 0, 1), p(1, 1, 1), p(0, 1, 1))
	quad(p(0, 0, 0), p(1, 0, 0), p(1, 0, 1), p(0, 0, 1))
	quad(p(1, 0, 0), p(1, 1, 0), p(1, 1, 1), p(1, 0, 1))
	quad(p(1, 1, 0), p(0, 1, 0), p(0, 1, 1), p(1, 1, 1))
	quad(p(0, 1, 0), p(0, 0, 0), p(0, 0, 1), p(0, 1, 1))
	return m
}

func TestDefaultBadgeDimensions(t *testing.T) {
	b, err := NewDefaultBadge()
	if err != nil {
		t.Fatalf("default badge: %v", err)
	}
	approx(t, "width", b.Width, DefaultBadgeWidth)
	approx(t, "height", b.Height, DefaultBadgeHeight)
	approx(t, "depth", b.Depth, DefaultBadgeThickness)
	if len(b.Mesh().Triangles) == 0 {
		t.Fatal("badge mesh empty")
	}
	min, _ := b.Mesh().Bounds()
	if min.X < -1e-9 || min.Y < -1e-9 || min.Z < -1e-9 {
		t.Fatalf("badge not normalized to the origin: %+v", min)
	}
}

func TestLoadBadgeFromTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blank.stl")
	if err := mesh.WriteFile(path, slab(60, 25, 4)); err != nil {
		t.Fatal(err)
	}
	b, err := LoadBadge(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if b.Width != 60 || b.Height != 25 || b.Depth != 4 {
		t.Fatalf("template dims = %v x %v x %v", b.Width, b.Height, b.Depth)
	}
}

func TestLoadBadgeMissingFile(t *testing.T) {
	if _, err := LoadBadge(filepath.Join(t.TempDir(), "absent.stl")); err == nil {
		t.Fatal("expected an error for a missing template")
	}
}

func TestBadgeWriteSTL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "single.stl")
	b := newBadge(slab(75, 30, 3))
	if err := b.WriteSTL(path); err != nil {
		t.Fatalf("write: %v", err)
	}
	m, err := mesh.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(m.Triangles) != 12 {
		t.Fatalf("triangles = %d", len(m.Triangles))
	}
}

func TestReplicateMatchesSlotOrder(t *testing.T) {
	const pageHeight = 297.0
	template := slab(10, 10, 2)
	centers := []units.Point{{X: 50, Y: 50}, {X: 140, Y: 200}, {X: 105, Y: 148.5}}

	plate := Replicate(template, centers, pageHeight)
	if len(plate.Triangles) != 3*len(template.Triangles) {
		t.Fatalf("plate has %d triangles, want %d", len(plate.Triangles), 3*len(template.Triangles))
	}
	// Merge preserves input order, so instance i owns triangles [12i, 12i+12).
	per := len(template.Triangles)
	for i, c := range centers {
		inst := &mesh.Mesh{Triangles: plate.Triangles[i*per : (i+1)*per]}
		got := inst.Center()
		want := units.PageToMesh(c, pageHeight)
		if math.Abs(got.X-want.X) > 1e-9 || math.Abs(got.Y-want.Y) > 1e-9 {
			t.Fatalf("instance %d center = (%v, %v), want (%v, %v)", i, got.X, got.Y, want.X, want.Y)
		}
	}
	// template untouched by replication
	if c := template.Center(); c != (mesh.Vec{X: 5, Y: 5, Z: 1}) {
		t.Fatalf("template mutated: %+v", c)
	}
}

func TestReplicateFlipsPageY(t *testing.T) {
	template := slab(4, 4, 1)
	plate := Replicate(template, []units.Point{{X: 10, Y: 10}}, 297)
	if c := plate.Center(); math.Abs(c.Y-287) > 1e-9 {
		t.Fatalf("mesh-space Y = %v, want 287", c.Y)
	}
}

func TestLStops(t *testing.T) {
	page := layout.Default()
	m, err := RegistrationStops(StopsL, page)
	if err != nil {
		t.Fatalf("stops: %v", err)
	}
	min, max := m.Bounds()
	approx(t, "left stop x", min.X, -StopEdgeClearance)
	approx(t, "right stop x", max.X, page.PageWidth+StopEdgeClearance)
	// index cylinder hangs below the page origin
	approx(t, "cylinder bottom y", min.Y, IndexCylinderY-IndexCylinderRadius)
	// L-stops sit near the top, below page height - inset
	approx(t, "stop top y", max.Y, page.PageHeight-StopTopInset)
	approx(t, "stop height", max.Z-min.Z, StopHeight)
}

func TestKnobStops(t *testing.T) {
	page := layout.Default()
	m, err := RegistrationStops(StopsKnobs, page)
	if err != nil {
		t.Fatalf("knobs: %v", err)
	}
	min, max := m.Bounds()
	r := KnobDiameter / 2
	approx(t, "top knob y", max.Y, page.PageHeight-10+r)
	approx(t, "bottom knob y", min.Y, 10-r)
	approx(t, "left knob x", min.X, page.PageWidth/2-page.PageWidth/3-r)
	approx(t, "right knob x", max.X, page.PageWidth/2+page.PageWidth/3+r)
	approx(t, "knob height", max.Z-min.Z, KnobHeight)
}

func TestParseStopStyle(t *testing.T) {
	if s, err := ParseStopStyle("knobs"); err != nil || s != StopsKnobs {
		t.Fatalf("knobs: %v %v", s, err)
	}
	if s, err := ParseStopStyle("lstops"); err != nil || s != StopsL {
		t.Fatalf("lstops: %v %v", s, err)
	}
	if _, err := ParseStopStyle("magnets"); err == nil {
		t.Fatal("expected an error for an unknown style")
	}
}
