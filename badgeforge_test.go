package badgeforge

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/badgeforge/badgeforge/mesh"
	"github.com/badgeforge/badgeforge/observability"
	"github.com/badgeforge/badgeforge/solid"
)

type recordingLogger struct {
	observability.NopLogger
	warns []string
	infos []string
}

func (l *recordingLogger) Warn(msg string, _ ...observability.Field) {
	l.warns = append(l.warns, msg)
}

func (l *recordingLogger) Info(msg string, _ ...observability.Field) {
	l.infos = append(l.infos, msg)
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "names.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunEndToEnd(t *testing.T) {
	prefix := filepath.Join(t.TempDir(), "badge_")
	csv := writeCSV(t, "line1,line2\nAlice,Engineering\nBob,\nCarol,Ops\n")

	m := New(Options{Prefix: prefix}, observability.NopLogger{})
	if err := m.Run(csv); err != nil {
		t.Fatalf("run: %v", err)
	}

	pdf, err := os.Stat(prefix + "badges.pdf")
	if err != nil || pdf.Size() == 0 {
		t.Fatalf("badges.pdf missing or empty: %v", err)
	}

	plate, err := mesh.ReadFile(prefix + "layout.stl")
	if err != nil {
		t.Fatalf("layout.stl: %v", err)
	}
	if len(plate.Triangles) == 0 || len(plate.Triangles)%3 != 0 {
		t.Fatalf("plate triangle count %d not a multiple of 3 badges", len(plate.Triangles))
	}
	// 3 badges span two rows of the two-column grid
	w, h, _ := plate.Size()
	if w < solid.DefaultBadgeWidth*2 || h < solid.DefaultBadgeHeight*2 {
		t.Fatalf("plate extent %vx%v too small for a 2x2 grid footprint", w, h)
	}

	stops, err := mesh.ReadFile(prefix + "registration.stl")
	if err != nil {
		t.Fatalf("registration.stl: %v", err)
	}
	if len(stops.Triangles) == 0 {
		t.Fatal("registration stops empty")
	}
}

func TestRunEmptyCSVWritesNothing(t *testing.T) {
	dir := t.TempDir()
	prefix := filepath.Join(dir, "badge_")
	csv := writeCSV(t, "line1,line2\n")

	log := &recordingLogger{}
	if err := New(Options{Prefix: prefix}, log).Run(csv); err != nil {
		t.Fatalf("empty csv must not be fatal: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("empty csv produced output files: %v", entries)
	}
	found := false
	for _, msg := range log.infos {
		if strings.Contains(msg, "no valid badge data") {
			found = true
		}
	}
	if !found {
		t.Fatalf("missing 'no valid badge data' message, got %q", log.infos)
	}
}

func TestRunMissingCSVIsFatal(t *testing.T) {
	m := New(Options{Prefix: filepath.Join(t.TempDir(), "x_")}, observability.NopLogger{})
	if err := m.Run(filepath.Join(t.TempDir(), "absent.csv")); err == nil {
		t.Fatal("expected an error for a missing csv file")
	}
}

func TestRunMissingTemplateIsFatal(t *testing.T) {
	csv := writeCSV(t, "line1\nAlice\n")
	m := New(Options{
		Prefix:       filepath.Join(t.TempDir(), "x_"),
		TemplatePath: filepath.Join(t.TempDir(), "absent.stl"),
	}, observability.NopLogger{})
	if err := m.Run(csv); err == nil {
		t.Fatal("expected an error for a missing template")
	}
}

func TestReadCSVSkipsRowsWithoutLine1(t *testing.T) {
	csv := writeCSV(t, "line1,line2\nAlice,Eng\n,orphan\nBob,\n")
	log := &recordingLogger{}
	m := New(Options{}, log)
	specs, err := m.readCSV(csv)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(specs) != 2 {
		t.Fatalf("%d specs, want 2", len(specs))
	}
	if specs[0].Lines[0].Text != "Alice" || specs[1].Lines[0].Text != "Bob" {
		t.Fatalf("unexpected texts: %+v", specs)
	}
	if len(log.warns) != 1 {
		t.Fatalf("%d warnings, want 1 for the skipped row", len(log.warns))
	}
}

func TestReadCSVAppliesLineStyles(t *testing.T) {
	csv := writeCSV(t, "line1,line2,line3\nAlice,Platform,She/Her\n")
	m := New(Options{}, observability.NopLogger{})
	specs, err := m.readCSV(csv)
	if err != nil {
		t.Fatal(err)
	}
	if len(specs) != 1 || len(specs[0].Lines) != 3 {
		t.Fatalf("specs = %+v", specs)
	}
	if specs[0].Lines[0].FontSize != 16 || specs[0].Lines[1].FontSize != 14 || specs[0].Lines[2].FontSize != 12 {
		t.Fatalf("line styles not applied: %+v", specs[0].Lines)
	}
	if specs[0].Lines[2].YPosition != 22 {
		t.Fatalf("line3 y position = %v, want 22", specs[0].Lines[2].YPosition)
	}
	if !specs[0].DrawBorder || specs[0].BorderRadius != 2.0 {
		t.Fatalf("badge options not applied: %+v", specs[0])
	}
}

func TestReadCSVStripsHeaderBOM(t *testing.T) {
	csv := writeCSV(t, "\uFEFFline1,line2\nAlice,Eng\n")
	specs, err := New(Options{}, observability.NopLogger{}).readCSV(csv)
	if err != nil {
		t.Fatal(err)
	}
	if len(specs) != 1 || specs[0].Lines[0].Text != "Alice" {
		t.Fatalf("byte order mark defeated the line1 column: %+v", specs)
	}
}

func TestReadCSVHeaderWithoutLine1(t *testing.T) {
	csv := writeCSV(t, "name,team\nAlice,Eng\n")
	log := &recordingLogger{}
	specs, err := New(Options{}, log).readCSV(csv)
	if err != nil {
		t.Fatal(err)
	}
	if len(specs) != 0 {
		t.Fatalf("specs = %+v, want none", specs)
	}
	if len(log.warns) != 1 {
		t.Fatalf("expected a single header warning, got %q", log.warns)
	}
}

func TestRunTruncatesToCapacity(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("line1\n")
	for i := 0; i < 20; i++ {
		sb.WriteString("Person\n")
	}
	csv := writeCSV(t, sb.String())

	prefix := filepath.Join(t.TempDir(), "badge_")
	log := &recordingLogger{}
	if err := New(Options{Prefix: prefix}, log).Run(csv); err != nil {
		t.Fatalf("run: %v", err)
	}
	truncated := false
	for _, msg := range log.warns {
		if strings.Contains(msg, "truncating") {
			truncated = true
		}
	}
	if !truncated {
		t.Fatalf("no truncation warning for 20 badges, warns = %q", log.warns)
	}
	plate, err := mesh.ReadFile(prefix + "layout.stl")
	if err != nil {
		t.Fatal(err)
	}
	// capacity for 30mm badges on the default sheet is 12
	if len(plate.Triangles)%12 != 0 {
		t.Fatalf("plate triangles %d not divisible by capacity 12", len(plate.Triangles))
	}
}
