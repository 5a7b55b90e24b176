// Package face rasterizes badge faces: up to three centered text lines over
// an optional background image, an optional rounded border, and a final
// horizontal mirror so the artwork reads correctly after transfer printing.
package face

import (
	"fmt"
	"image"
	"image/color"
	"os"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/badgeforge/badgeforge/observability"
	"github.com/badgeforge/badgeforge/units"
)

// DefaultDPI is the print resolution for badge faces.
const DefaultDPI = 300.0

const (
	borderInsetPx  = 2
	borderStrokePx = 2
)

// TextLine is one styled line on a badge face.
type TextLine struct {
	Text      string
	FontName  string  // font file path; a built-in face is used if unreadable
	FontSize  float64 // points
	YPosition float64 // mm from the badge top to the top of the glyphs
}

// Spec describes one badge face. Lines are rendered in order; empty lines
// are omitted entirely.
type Spec struct {
	Lines             []TextLine
	BackgroundImage   string
	BackgroundOpacity float64 // 0..1; 1 is a direct paste
	DrawBorder        bool
	BorderRadius      float64 // mm
}

// Renderer rasterizes badge faces at a fixed physical size and resolution.
// It deduplicates per-asset warnings for the lifetime of one renderer, so a
// fresh renderer per run resets the warning state naturally.
type Renderer struct {
	BadgeWidth  float64 // mm
	BadgeHeight float64 // mm
	DPI         float64

	log    observability.Logger
	warned map[string]struct{}
	faces  map[faceKey]font.Face
}

type faceKey struct {
	name string
	size float64
}

// NewRenderer returns a Renderer for badges of the given physical size.
func NewRenderer(badgeWidth, badgeHeight float64, log observability.Logger) *Renderer {
	if log == nil {
		log = observability.NopLogger{}
	}
	return &Renderer{
		BadgeWidth:  badgeWidth,
		BadgeHeight: badgeHeight,
		DPI:         DefaultDPI,
		log:         log,
		warned:      make(map[string]struct{}),
		faces:       make(map[faceKey]font.Face),
	}
}

// PixelSize returns the face image dimensions in pixels.
func (r *Renderer) PixelSize() (w, h int) {
	return units.MMToPxRound(r.BadgeWidth, r.DPI), units.MMToPxRound(r.BadgeHeight, r.DPI)
}

// Render draws one badge face. The horizontal mirror is the last step,
// applied after background, text and border are all composited.
func (r *Renderer) Render(spec Spec) (image.Image, error) {
	w, h := r.PixelSize()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("bad face size %dx%d px", w, h)
	}
	dc := gg.NewContext(w, h)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	if spec.BackgroundImage != "" {
		r.drawBackground(dc, spec.BackgroundImage, spec.BackgroundOpacity, w, h)
	}

	for _, line := range spec.Lines {
		if line.Text == "" {
			continue
		}
		r.drawLine(dc, line, w)
	}

	if spec.DrawBorder {
		radius := units.MMToPx(spec.BorderRadius, r.DPI)
		dc.SetRGB(0, 0, 0)
		dc.SetLineWidth(borderStrokePx)
		dc.DrawRoundedRectangle(
			borderInsetPx, borderInsetPx,
			float64(w)-2*borderInsetPx-1, float64(h)-2*borderInsetPx-1,
			radius)
		dc.Stroke()
	}

	// Mirror for transfer printing. Must stay the final operation.
	return imaging.FlipH(dc.Image()), nil
}

func (r *Renderer) drawBackground(dc *gg.Context, path string, opacity float64, w, h int) {
	bg, err := imaging.Open(path)
	if err != nil {
		r.warnOnce("load:"+path, "could not load background image, using white",
			observability.String("path", path), observability.Error("err", err))
		return
	}

	if bg.Bounds().Dx() != w || bg.Bounds().Dy() != h {
		r.warnOnce("size:"+path, "background image size mismatch, resizing",
			observability.String("path", path),
			observability.String("have", fmt.Sprintf("%dx%d", bg.Bounds().Dx(), bg.Bounds().Dy())),
			observability.String("want", fmt.Sprintf("%dx%d", w, h)))
		bg = imaging.Resize(bg, w, h, imaging.Lanczos)
	}

	if opacity < 1.0 {
		base := imaging.New(w, h, color.White)
		dc.DrawImage(imaging.Overlay(base, bg, image.Pt(0, 0), opacity), 0, 0)
		return
	}
	// Full opacity is a direct paste, bit-exact for opaque sources.
	dc.DrawImage(bg, 0, 0)
}

func (r *Renderer) drawLine(dc *gg.Context, line TextLine, w int) {
	f := r.face(line.FontName, line.FontSize)
	dc.SetFontFace(f)
	dc.SetRGB(0, 0, 0)

	textWidth, _ := dc.MeasureString(line.Text)
	x := (float64(w) - textWidth) / 2
	// YPosition addresses the top of the glyphs; DrawString wants a baseline.
	ascent := float64(f.Metrics().Ascent) / 64
	y := units.MMToPx(line.YPosition, r.DPI) + ascent
	dc.DrawString(line.Text, x, y)
}

// face loads and caches a font face at the given point size, falling back to
// the built-in face when the file cannot be read or parsed.
func (r *Renderer) face(name string, sizePt float64) font.Face {
	key := faceKey{name: name, size: sizePt}
	if f, ok := r.faces[key]; ok {
		return f
	}

	data, err := os.ReadFile(name)
	if err != nil {
		r.warnOnce("font:"+name, "font not found, using built-in face",
			observability.String("font", name))
		data = goregular.TTF
	}
	parsed, err := opentype.Parse(data)
	if err != nil {
		r.warnOnce("fontparse:"+name, "font unreadable, using built-in face",
			observability.String("font", name), observability.Error("err", err))
		parsed, _ = opentype.Parse(goregular.TTF)
	}
	f, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    sizePt,
		DPI:     r.DPI,
		Hinting: font.HintingFull,
	})
	if err != nil {
		// The built-in face cannot fail to parse; this only guards a
		// degenerate size.
		r.warnOnce(fmt.Sprintf("face:%s:%v", name, sizePt), "could not build font face",
			observability.Error("err", err))
		return basicFace()
	}
	r.faces[key] = f
	return f
}

func basicFace() font.Face {
	parsed, _ := opentype.Parse(goregular.TTF)
	f, _ := opentype.NewFace(parsed, &opentype.FaceOptions{Size: 12, DPI: DefaultDPI})
	return f
}

// warnOnce emits a warning the first time key is seen by this renderer.
func (r *Renderer) warnOnce(key, msg string, fields ...observability.Field) {
	if _, seen := r.warned[key]; seen {
		return
	}
	r.warned[key] = struct{}{}
	r.log.Warn(msg, fields...)
}
