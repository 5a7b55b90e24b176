package badgeforge

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/badgeforge/badgeforge/face"
	"github.com/badgeforge/badgeforge/observability"
)

// maxTextLines is the number of text line slots on a badge face.
const maxTextLines = 3

// readCSV ingests badge rows. The header must name a line1 column; line2 and
// line3 are optional. Rows without a line1 value are skipped with a warning.
func (m *Maker) readCSV(path string) ([]face.Spec, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csv file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("csv header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\uFEFF")))
		cols[name] = i
	}
	if _, ok := cols["line1"]; !ok {
		m.log.Warn("csv has no line1 column, no badges to make",
			observability.String("file", path))
		return nil, nil
	}

	var specs []face.Spec
	for rowNum := 1; ; rowNum++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			m.log.Warn("skipping malformed csv row",
				observability.Int("row", rowNum), observability.Error("err", err))
			continue
		}
		if strings.TrimSpace(cell(record, cols["line1"])) == "" {
			m.log.Warn("row missing line1, skipping", observability.Int("row", rowNum))
			continue
		}
		specs = append(specs, m.rowToSpec(record, cols))
	}
	return specs, nil
}

// rowToSpec builds one face spec from a CSV record, applying the per-slot
// font configuration and the run-wide badge options.
func (m *Maker) rowToSpec(record []string, cols map[string]int) face.Spec {
	spec := face.Spec{
		BackgroundImage:   m.cfg.Badge.BackgroundImage,
		BackgroundOpacity: m.cfg.Badge.BackgroundOpacity,
		DrawBorder:        m.cfg.Badge.DrawBorder,
		BorderRadius:      m.cfg.Badge.BorderRadius,
	}
	for slot := 1; slot <= maxTextLines; slot++ {
		idx, ok := cols[fmt.Sprintf("line%d", slot)]
		if !ok {
			continue
		}
		text := strings.TrimSpace(cell(record, idx))
		if text == "" {
			continue
		}
		style := m.cfg.Fonts.Line(slot)
		spec.Lines = append(spec.Lines, face.TextLine{
			Text:      text,
			FontName:  style.FontName,
			FontSize:  style.FontSize,
			YPosition: style.YPosition,
		})
	}
	return spec
}

func cell(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return record[i]
}
