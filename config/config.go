// Package config holds the run configuration: per-line font settings, badge
// face options, and the printer offset correction. A user-supplied JSON file
// is overlaid on the built-in defaults section by section, key by key;
// sections the tool does not know about are retained verbatim.
package config

import (
	"encoding/json"
	"os"

	"github.com/badgeforge/badgeforge/observability"
)

// LineStyle describes one of the up-to-three text lines on a badge face.
type LineStyle struct {
	FontName  string  `json:"font_name"`
	FontSize  float64 `json:"font_size"` // points
	YPosition float64 `json:"y_position"` // mm from the badge top edge
}

// Fonts holds the styles for the three line slots.
type Fonts struct {
	Line1 LineStyle `json:"line1"`
	Line2 LineStyle `json:"line2"`
	Line3 LineStyle `json:"line3"`
}

// BadgeOptions controls the face rendering shared by every badge in a run.
type BadgeOptions struct {
	DrawBorder        bool    `json:"draw_border"`
	BorderRadius      float64 `json:"border_radius"` // mm
	BackgroundImage   string  `json:"background_image"`
	BackgroundOpacity float64 `json:"background_opacity"` // 0..1
}

// PDFOffsets is the uniform printer drift compensation in millimetres. It is
// applied to badge placement in the PDF only; registration marks and the 3D
// outputs deliberately stay on the logical layout.
type PDFOffsets struct {
	X float64 `json:"x_offset"`
	Y float64 `json:"y_offset"`
}

// Config is the full run configuration.
type Config struct {
	Fonts   Fonts
	Badge   BadgeOptions
	Offsets PDFOffsets

	// Extra keeps unknown top-level sections from the user file verbatim.
	Extra map[string]json.RawMessage
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Fonts: Fonts{
			Line1: LineStyle{FontName: "arial.ttf", FontSize: 16, YPosition: 8},
			Line2: LineStyle{FontName: "arial.ttf", FontSize: 14, YPosition: 15},
			Line3: LineStyle{FontName: "arial.ttf", FontSize: 12, YPosition: 22},
		},
		Badge: BadgeOptions{
			DrawBorder:        true,
			BorderRadius:      2.0,
			BackgroundOpacity: 1.0,
		},
	}
}

// Patch structs mirror the config sections with pointer fields so that only
// keys present in the user file override the defaults.

type lineStylePatch struct {
	FontName  *string  `json:"font_name"`
	FontSize  *float64 `json:"font_size"`
	YPosition *float64 `json:"y_position"`
}

type fontsPatch struct {
	Line1 *lineStylePatch `json:"line1"`
	Line2 *lineStylePatch `json:"line2"`
	Line3 *lineStylePatch `json:"line3"`
}

type badgeOptionsPatch struct {
	DrawBorder        *bool    `json:"draw_border"`
	BorderRadius      *float64 `json:"border_radius"`
	BackgroundImage   *string  `json:"background_image"`
	BackgroundOpacity *float64 `json:"background_opacity"`
}

type offsetsPatch struct {
	X *float64 `json:"x_offset"`
	Y *float64 `json:"y_offset"`
}

// Load reads the JSON file at path and overlays it on the defaults. An empty
// path returns the defaults unchanged. A missing or malformed file is a
// warning, not an error: the defaults are used.
func Load(path string, log observability.Logger) Config {
	cfg := Default()
	if path == "" {
		return cfg
	}
	data, err := os.ReadFile(path)
	if err != nil {
		log.Warn("could not read config file, using defaults",
			observability.String("path", path), observability.Error("err", err))
		return cfg
	}
	var sections map[string]json.RawMessage
	if err := json.Unmarshal(data, &sections); err != nil {
		log.Warn("could not parse config file, using defaults",
			observability.String("path", path), observability.Error("err", err))
		return cfg
	}
	for name, raw := range sections {
		switch name {
		case "fonts":
			var p fontsPatch
			if err := json.Unmarshal(raw, &p); err != nil {
				log.Warn("ignoring malformed fonts section", observability.Error("err", err))
				continue
			}
			applyLine(&cfg.Fonts.Line1, p.Line1)
			applyLine(&cfg.Fonts.Line2, p.Line2)
			applyLine(&cfg.Fonts.Line3, p.Line3)
		case "badge_options":
			var p badgeOptionsPatch
			if err := json.Unmarshal(raw, &p); err != nil {
				log.Warn("ignoring malformed badge_options section", observability.Error("err", err))
				continue
			}
			if p.DrawBorder != nil {
				cfg.Badge.DrawBorder = *p.DrawBorder
			}
			if p.BorderRadius != nil {
				cfg.Badge.BorderRadius = *p.BorderRadius
			}
			if p.BackgroundImage != nil {
				cfg.Badge.BackgroundImage = *p.BackgroundImage
			}
			if p.BackgroundOpacity != nil {
				cfg.Badge.BackgroundOpacity = *p.BackgroundOpacity
			}
		case "pdf_offsets":
			var p offsetsPatch
			if err := json.Unmarshal(raw, &p); err != nil {
				log.Warn("ignoring malformed pdf_offsets section", observability.Error("err", err))
				continue
			}
			if p.X != nil {
				cfg.Offsets.X = *p.X
			}
			if p.Y != nil {
				cfg.Offsets.Y = *p.Y
			}
		default:
			if cfg.Extra == nil {
				cfg.Extra = make(map[string]json.RawMessage)
			}
			cfg.Extra[name] = raw
		}
	}
	return cfg
}

func applyLine(dst *LineStyle, p *lineStylePatch) {
	if p == nil {
		return
	}
	if p.FontName != nil {
		dst.FontName = *p.FontName
	}
	if p.FontSize != nil {
		dst.FontSize = *p.FontSize
	}
	if p.YPosition != nil {
		dst.YPosition = *p.YPosition
	}
}

// Line returns the style for line slot n (1-based). Out-of-range slots fall
// back to line 1.
func (f Fonts) Line(n int) LineStyle {
	switch n {
	case 2:
		return f.Line2
	case 3:
		return f.Line3
	default:
		return f.Line1
	}
}
