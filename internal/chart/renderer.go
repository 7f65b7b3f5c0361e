package chart

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/j-veylop/catalog-eda/internal/logger"
	"github.com/j-veylop/catalog-eda/internal/models"
)

// ReportFile is the name of the JSON dump written next to the charts.
const ReportFile = "report.json"

// Renderer writes the charts of a report into a directory.
type Renderer struct {
	dir  string
	size Size
}

// NewRenderer creates a renderer writing into dir.
func NewRenderer(dir string) *Renderer {
	return &Renderer{dir: dir, size: DefaultSize}
}

// WithSize overrides the drawing area.
func (r *Renderer) WithSize(s Size) *Renderer {
	r.size = s
	return r
}

// Dir returns the output directory.
func (r *Renderer) Dir() string {
	return r.dir
}

type reportEnvelope struct {
	Report      *models.Report `json:"report"`
	Fingerprint string         `json:"fingerprint"`
}

// Render writes one <name>.txt per chart plus report.json and returns the
// written paths in order.
func (r *Renderer) Render(rep *models.Report) ([]string, error) {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	specs := Specs(rep)
	paths := make([]string, 0, len(specs)+1)
	for _, s := range specs {
		path := filepath.Join(r.dir, s.Name+".txt")
		if err := os.WriteFile(path, []byte(Draw(s, r.size)), 0o644); err != nil {
			return paths, fmt.Errorf("failed to write chart %s: %w", s.Name, err)
		}
		paths = append(paths, path)
	}

	data, err := json.MarshalIndent(reportEnvelope{Report: rep, Fingerprint: rep.Fingerprint}, "", "  ")
	if err != nil {
		return paths, fmt.Errorf("failed to encode report: %w", err)
	}
	path := filepath.Join(r.dir, ReportFile)
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return paths, fmt.Errorf("failed to write report: %w", err)
	}
	paths = append(paths, path)

	logger.Debug("charts rendered", "dir", r.dir, "files", len(paths))
	return paths, nil
}
