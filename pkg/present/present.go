// Package present renders a run report for one output target. The fixer
// never formats output itself.
package present

import (
	"encoding/json"
	"io"
	"os"

	"github.com/glorpus-work/permfix/pkg/errors"
	"github.com/glorpus-work/permfix/pkg/report"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// Presenter renders a report for root to w.
type Presenter interface {
	Render(w io.Writer, root string, r *report.Report) error
}

// New returns the presenter for format. Color only affects text output.
func New(format string, color bool) (Presenter, error) {
	switch format {
	case "", "text":
		return NewText(color), nil
	case "json":
		return JSON{}, nil
	case "yaml":
		return YAML{}, nil
	case "html":
		return HTML{}, nil
	default:
		return nil, errors.ErrInvalidOutputWithDetails(format)
	}
}

// ColorEnabled reports whether colored output should be written to f.
// NO_COLOR and TERM=dumb disable color; otherwise f must be a terminal.
func ColorEnabled(f *os.File) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return f != nil && term.IsTerminal(int(f.Fd()))
}

// document is the serialized form shared by the JSON and YAML presenters.
type document struct {
	Root          string `json:"root" yaml:"root"`
	report.Report `yaml:",inline"`
}

// JSON renders the report as an indented JSON document.
type JSON struct{}

// Render implements Presenter.
func (JSON) Render(w io.Writer, root string, r *report.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(document{Root: root, Report: *r})
}

// YAML renders the report as a YAML document.
type YAML struct{}

// Render implements Presenter.
func (YAML) Render(w io.Writer, root string, r *report.Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(document{Root: root, Report: *r}); err != nil {
		return err
	}
	return enc.Close()
}
