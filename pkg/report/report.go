// Package report accumulates the outcome of one normalization run.
package report

import (
	"encoding/json"
	"os"

	"github.com/glorpus-work/permfix/pkg/fsutil"
)

// Operation names recorded in ErrorRecord.Op.
const (
	OpChmod = "chmod"
	OpChown = "chown"
	OpList  = "list"
)

// Statistics are monotonically incremented counters for one run.
type Statistics struct {
	DirectoriesFixed int `json:"directories_fixed" yaml:"directories_fixed"`
	FilesFixed       int `json:"files_fixed" yaml:"files_fixed"`
	Skipped          int `json:"skipped" yaml:"skipped"`
	Errors           int `json:"errors" yaml:"errors"`
	OwnershipApplied int `json:"ownership_applied" yaml:"ownership_applied"`
}

// ChangeRecord describes a mode that differed from the policy.
type ChangeRecord struct {
	Path     string
	Previous os.FileMode
	New      os.FileMode
	IsDir    bool
}

type changeDoc struct {
	Path     string `json:"path" yaml:"path"`
	Previous string `json:"previous" yaml:"previous"`
	New      string `json:"new" yaml:"new"`
	IsDir    bool   `json:"is_dir" yaml:"is_dir"`
}

func (c ChangeRecord) doc() changeDoc {
	return changeDoc{
		Path:     c.Path,
		Previous: fsutil.PermString(c.Previous),
		New:      fsutil.PermString(c.New),
		IsDir:    c.IsDir,
	}
}

// MarshalJSON renders modes as octal strings.
func (c ChangeRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.doc())
}

// MarshalYAML renders modes as octal strings.
func (c ChangeRecord) MarshalYAML() (interface{}, error) {
	return c.doc(), nil
}

// ErrorRecord describes a failed operation on one path.
type ErrorRecord struct {
	Path string
	Op   string
	Err  error
}

type errorDoc struct {
	Path  string `json:"path" yaml:"path"`
	Op    string `json:"op" yaml:"op"`
	Error string `json:"error" yaml:"error"`
}

func (e ErrorRecord) doc() errorDoc {
	msg := ""
	if e.Err != nil {
		msg = e.Err.Error()
	}
	return errorDoc{Path: e.Path, Op: e.Op, Error: msg}
}

// Error implements error so records can be joined or logged directly.
func (e ErrorRecord) Error() string {
	return e.Op + " " + e.Path + ": " + e.doc().Error
}

// Unwrap exposes the underlying cause.
func (e ErrorRecord) Unwrap() error {
	return e.Err
}

// MarshalJSON renders the cause as its message.
func (e ErrorRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.doc())
}

// MarshalYAML renders the cause as its message.
func (e ErrorRecord) MarshalYAML() (interface{}, error) {
	return e.doc(), nil
}

// Report is the single structured result of a run. It is purely additive.
type Report struct {
	Stats   Statistics     `json:"statistics" yaml:"statistics"`
	Changes []ChangeRecord `json:"changes" yaml:"changes"`
	Errors  []ErrorRecord  `json:"errors" yaml:"errors"`
	DryRun  bool           `json:"dry_run" yaml:"dry_run"`
}

// New returns an empty report.
func New(dryRun bool) *Report {
	return &Report{
		Changes: []ChangeRecord{},
		Errors:  []ErrorRecord{},
		DryRun:  dryRun,
	}
}

// AddChange records a mode change and bumps the matching fixed counter.
func (r *Report) AddChange(c ChangeRecord) {
	r.Changes = append(r.Changes, c)
	if c.IsDir {
		r.Stats.DirectoriesFixed++
	} else {
		r.Stats.FilesFixed++
	}
}

// AddError records a failed operation and bumps the error counter.
func (r *Report) AddError(path, op string, err error) {
	r.Errors = append(r.Errors, ErrorRecord{Path: path, Op: op, Err: err})
	r.Stats.Errors++
}

// AddSkipped counts an entry that was deliberately left untouched.
func (r *Report) AddSkipped() {
	r.Stats.Skipped++
}

// AddOwnership counts an ownership operation applied (or planned in dry-run).
func (r *Report) AddOwnership() {
	r.Stats.OwnershipApplied++
}

// Fixed returns the number of entries whose mode changed.
func (r *Report) Fixed() int {
	return r.Stats.DirectoriesFixed + r.Stats.FilesFixed
}

// HasErrors reports whether any per-item operation failed.
func (r *Report) HasErrors() bool {
	return len(r.Errors) > 0
}
