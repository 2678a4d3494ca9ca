package present

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/glorpus-work/permfix/pkg/fsutil"
	"github.com/glorpus-work/permfix/pkg/report"
)

const (
	ruleWidth = 80
	pathWidth = 60
)

var (
	colorGreen  = lipgloss.Color("#50fa7b")
	colorRed    = lipgloss.Color("#ff5555")
	colorYellow = lipgloss.Color("#f1fa8c")
	colorCyan   = lipgloss.Color("#8be9fd")
	colorGray   = lipgloss.Color("#6272a4")
)

// Text renders a human readable summary.
type Text struct {
	header  func(...string) string
	change  func(...string) string
	failure func(...string) string
	dim     func(...string) string
	success func(...string) string
	warn    func(...string) string
}

// NewText returns a text presenter, styled with lipgloss when color is set.
func NewText(color bool) Text {
	if !color {
		plain := func(s ...string) string { return strings.Join(s, " ") }
		return Text{header: plain, change: plain, failure: plain, dim: plain, success: plain, warn: plain}
	}
	return Text{
		header:  lipgloss.NewStyle().Bold(true).Foreground(colorCyan).Render,
		change:  lipgloss.NewStyle().Foreground(colorYellow).Render,
		failure: lipgloss.NewStyle().Foreground(colorRed).Render,
		dim:     lipgloss.NewStyle().Foreground(colorGray).Render,
		success: lipgloss.NewStyle().Bold(true).Foreground(colorGreen).Render,
		warn:    lipgloss.NewStyle().Bold(true).Foreground(colorRed).Render,
	}
}

// Render implements Presenter.
func (t Text) Render(w io.Writer, root string, r *report.Report) error {
	var b strings.Builder

	title := "Target directory: " + root
	if r.DryRun {
		title += " (dry-run, nothing was changed)"
	}
	b.WriteString(t.header(title) + "\n")
	b.WriteString(t.dim(strings.Repeat("-", ruleWidth)) + "\n")

	verb := "set"
	if r.DryRun {
		verb = "would set"
	}
	for _, c := range r.Changes {
		fmt.Fprintf(&b, "-> %-*s %s\n", pathWidth, c.Path,
			t.change(fmt.Sprintf("%s %s (was %s)", verb, fsutil.PermString(c.New), fsutil.PermString(c.Previous))))
	}
	if len(r.Changes) == 0 {
		b.WriteString(t.dim("No permission changes needed.") + "\n")
	}

	if r.HasErrors() {
		b.WriteString("\n" + t.failure(fmt.Sprintf("Errors (%d):", len(r.Errors))) + "\n")
		for _, e := range r.Errors {
			b.WriteString("  " + t.failure(e.Error()) + "\n")
		}
	}

	b.WriteString(t.dim(strings.Repeat("-", ruleWidth)) + "\n")
	s := r.Stats
	fmt.Fprintf(&b, "Directories fixed: %d | Files fixed: %d | Skipped: %d | Errors: %d",
		s.DirectoriesFixed, s.FilesFixed, s.Skipped, s.Errors)
	if s.OwnershipApplied > 0 {
		fmt.Fprintf(&b, " | Ownership: %d", s.OwnershipApplied)
	}
	b.WriteString("\n")
	b.WriteString(t.dim(fmt.Sprintf("Policy: directories %s | files %s | wp-config.php %s",
		fsutil.PermString(fsutil.DirModeDefault), fsutil.PermString(fsutil.FileModeDefault), fsutil.PermString(fsutil.FileModeSecure))) + "\n")

	switch {
	case r.HasErrors():
		b.WriteString(t.warn("Completed with errors.") + "\n")
	case r.DryRun:
		b.WriteString(t.success("Dry-run complete. Run without --dry-run to apply.") + "\n")
	default:
		b.WriteString(t.success("Permissions fixed successfully!") + "\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}
