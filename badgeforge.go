// Package badgeforge turns a CSV of badge text into three physically aligned
// manufacturing artifacts: a printable PDF of mirrored badge faces, an STL of
// badge solids replicated at the PDF positions, and an STL of registration
// stops for assembling the two.
package badgeforge

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"github.com/badgeforge/badgeforge/config"
	"github.com/badgeforge/badgeforge/face"
	"github.com/badgeforge/badgeforge/layout"
	"github.com/badgeforge/badgeforge/mesh"
	"github.com/badgeforge/badgeforge/observability"
	"github.com/badgeforge/badgeforge/sheet"
	"github.com/badgeforge/badgeforge/solid"
)

// DefaultPrefix is prepended to the three output file names.
const DefaultPrefix = "badge_"

// Options configures one run.
type Options struct {
	TemplatePath string // optional STL badge template; empty synthesizes the default shape
	ConfigPath   string // optional JSON configuration
	Prefix       string // output file prefix, DefaultPrefix when empty
	StopStyle    solid.StopStyle
	KeepImages   bool // write each rendered face PNG beside the PDF
}

// Maker orchestrates one badge production run.
type Maker struct {
	opts Options
	cfg  config.Config
	page layout.Config
	log  observability.Logger
}

// New builds a Maker, loading the configuration file if one was given.
func New(opts Options, log observability.Logger) *Maker {
	if log == nil {
		log = observability.NopLogger{}
	}
	if opts.Prefix == "" {
		opts.Prefix = DefaultPrefix
	}
	if opts.StopStyle == "" {
		opts.StopStyle = solid.StopsL
	}
	cfg := config.Load(opts.ConfigPath, log)
	log.Info("using pdf offsets",
		observability.Float64("x_mm", cfg.Offsets.X),
		observability.Float64("y_mm", cfg.Offsets.Y))
	return &Maker{opts: opts, cfg: cfg, page: layout.Default(), log: log}
}

// Run executes the full pipeline for one CSV file. A CSV with no usable rows
// is not an error: nothing is written and Run returns nil.
func (m *Maker) Run(csvPath string) error {
	badge, err := m.loadBadge()
	if err != nil {
		return err
	}
	m.log.Info("badge dimensions",
		observability.Float64("width_mm", badge.Width),
		observability.Float64("height_mm", badge.Height),
		observability.Float64("depth_mm", badge.Depth))
	logMeshStats(m.log, "badge solid", badge.Mesh())

	specs, err := m.readCSV(csvPath)
	if err != nil {
		return err
	}
	if len(specs) == 0 {
		m.log.Info("no valid badge data found in CSV")
		return nil
	}

	slots := m.page.Slots(badge.Width, badge.Height, len(specs))
	if len(slots) == 0 {
		m.log.Warn("no badges fit on the page",
			observability.Float64("badge_height_mm", badge.Height))
		return nil
	}
	if len(specs) > len(slots) {
		last := specs[len(slots)-1]
		m.log.Warn("too many badges for one page, truncating",
			observability.Int("supplied", len(specs)),
			observability.Int("capacity", len(slots)),
			observability.String("last_badge", last.Lines[0].Text))
		specs = specs[:len(slots)]
	}

	faces, err := m.renderFaces(badge, specs)
	if err != nil {
		return err
	}

	assembler := sheet.NewAssembler(m.page, badge.Width, badge.Height,
		m.cfg.Offsets.X, m.cfg.Offsets.Y, m.log)
	pdfPath := m.opts.Prefix + "badges.pdf"
	centers, err := assembler.Build(pdfPath, faces, slots)
	if err != nil {
		return fmt.Errorf("assemble pdf: %w", err)
	}
	m.log.Info("wrote badge sheet",
		observability.String("file", pdfPath),
		observability.Int("badges", len(centers)))

	plate := solid.Replicate(badge.Mesh(), centers, m.page.PageHeight)
	logMeshStats(m.log, "layout plate", plate)
	platePath := m.opts.Prefix + "layout.stl"
	if err := mesh.WriteFile(platePath, plate); err != nil {
		return fmt.Errorf("write layout: %w", err)
	}
	m.log.Info("wrote badge plate", observability.String("file", platePath))

	stops, err := solid.RegistrationStops(m.opts.StopStyle, m.page)
	if err != nil {
		return fmt.Errorf("registration stops: %w", err)
	}
	logMeshStats(m.log, "registration stops", stops)
	stopsPath := m.opts.Prefix + "registration.stl"
	if err := mesh.WriteFile(stopsPath, stops); err != nil {
		return fmt.Errorf("write registration stops: %w", err)
	}
	m.log.Info("wrote registration stops", observability.String("file", stopsPath))

	return nil
}

func (m *Maker) loadBadge() (*solid.Badge, error) {
	if m.opts.TemplatePath != "" {
		m.log.Info("loading badge template",
			observability.String("file", m.opts.TemplatePath))
		return solid.LoadBadge(m.opts.TemplatePath)
	}
	m.log.Info("no template provided, creating default badge shape")
	return solid.NewDefaultBadge()
}

func (m *Maker) renderFaces(badge *solid.Badge, specs []face.Spec) ([]image.Image, error) {
	renderer := face.NewRenderer(badge.Width, badge.Height, m.log)
	faces := make([]image.Image, 0, len(specs))
	for i, spec := range specs {
		img, err := renderer.Render(spec)
		if err != nil {
			return nil, fmt.Errorf("render badge %d: %w", i, err)
		}
		if m.opts.KeepImages {
			path := fmt.Sprintf("%sface_%02d.png", m.opts.Prefix, i)
			if err := imaging.Save(img, path); err != nil {
				m.log.Warn("could not keep face image",
					observability.String("file", path), observability.Error("err", err))
			}
		}
		faces = append(faces, img)
	}
	return faces, nil
}

func logMeshStats(log observability.Logger, what string, m *mesh.Mesh) {
	s := m.ComputeStats()
	log.Debug("mesh built",
		observability.String("mesh", what),
		observability.Int("triangles", s.Triangles),
		observability.Int("vertices", s.Vertices))
}
