// Package report exports a run's outcomes as YAML.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"fiximg/internal/config"
	"fiximg/internal/processor"
)

// Document is the top-level YAML layout.
type Document struct {
	RunID     string        `yaml:"run_id"`
	Timestamp string        `yaml:"timestamp"`
	Mode      string        `yaml:"mode"`
	Config    config.Config `yaml:"config"`
	Totals    Totals        `yaml:"totals"`
	Outcomes  []Entry       `yaml:"outcomes"`
}

// Totals summarizes the outcomes.
type Totals struct {
	Items      int   `yaml:"items"`
	Succeeded  int   `yaml:"succeeded"`
	Failed     int   `yaml:"failed"`
	Collisions int   `yaml:"collisions"`
	BytesSaved int64 `yaml:"bytes_saved"`
}

// Entry is one Outcome.
type Entry struct {
	Path         string `yaml:"path"`
	Kind         string `yaml:"kind"`
	Status       string `yaml:"status"`
	Digest       string `yaml:"digest,omitempty"`
	Destination  string `yaml:"destination,omitempty"`
	InputBytes   int64  `yaml:"input_bytes"`
	OutputBytes  int64  `yaml:"output_bytes,omitempty"`
	MetadataTags int    `yaml:"metadata_tags,omitempty"`
	ErrorClass   string `yaml:"error_class,omitempty"`
	Error        string `yaml:"error,omitempty"`
}

// Build converts a processor report into a Document stamped with a fresh
// run id.
func Build(cfg *config.Config, r processor.Report, now time.Time) Document {
	doc := Document{
		RunID:     uuid.NewString(),
		Timestamp: now.UTC().Format(time.RFC3339),
		Mode:      cfg.Mode().String(),
		Config:    *cfg,
		Totals: Totals{
			Items:      len(r.Outcomes),
			Succeeded:  r.Succeeded(),
			Failed:     len(r.Failures()),
			Collisions: r.Collisions(),
			BytesSaved: r.BytesSaved(),
		},
		Outcomes: make([]Entry, 0, len(r.Outcomes)),
	}

	for _, o := range r.Outcomes {
		e := Entry{
			Path:         o.Path,
			Kind:         o.Kind.String(),
			Status:       "ok",
			Digest:       o.Digest.String(),
			Destination:  o.Destination,
			InputBytes:   o.InputBytes,
			OutputBytes:  o.OutputBytes,
			MetadataTags: o.MetadataTags,
		}
		if !o.OK() {
			e.Status = "failed"
			e.ErrorClass = string(o.Class())
			e.Error = o.Err.Error()
		}
		doc.Outcomes = append(doc.Outcomes, e)
	}
	return doc
}

// Save writes doc to path, creating parent directories.
func Save(path string, doc Document) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	data, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
