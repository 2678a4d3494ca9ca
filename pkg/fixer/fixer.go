// Package fixer runs the permission, special-file and ownership passes over
// a tree and collects the outcome in a report.
package fixer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/glorpus-work/permfix/internal/logger"
	"github.com/glorpus-work/permfix/pkg/classify"
	"github.com/glorpus-work/permfix/pkg/fsutil"
	"github.com/glorpus-work/permfix/pkg/owner"
	"github.com/glorpus-work/permfix/pkg/policy"
	"github.com/glorpus-work/permfix/pkg/report"
	"github.com/glorpus-work/permfix/pkg/walker"
	"github.com/spf13/afero"
)

// specialBits are carried over when the permission bits are rewritten.
const specialBits = os.ModeSetuid | os.ModeSetgid | os.ModeSticky

// New returns a Fixer over fs with default classifier and policy.
func New(fs afero.Fs, hooks Hooks) *Fixer {
	return &Fixer{Fs: fs, Hooks: hooks}
}

func (f *Fixer) fs() afero.Fs {
	if f.Fs == nil {
		return afero.NewOsFs()
	}
	return f.Fs
}

func (f *Fixer) classifier() *classify.Classifier {
	if f.Classifier == nil {
		return classify.Default()
	}
	return f.Classifier
}

func (f *Fixer) policy() *policy.Policy {
	if f.Policy == nil {
		return policy.Default()
	}
	return f.Policy
}

func (f *Fixer) chowner(fs afero.Fs) Chowner {
	if f.Chowner == nil {
		return fs
	}
	return f.Chowner
}

// Run validates root and then runs the generic permission pass, the
// special-file pass and, if requested, the ownership pass. Per-item failures
// end up in the report. The returned error is non-nil only when root is
// invalid (nothing was touched) or ctx was cancelled (the partial report is
// returned with it).
func (f *Fixer) Run(ctx context.Context, root string, opts Options) (*report.Report, error) {
	rep := report.New(opts.DryRun)
	fs := f.fs()
	w := walker.New(fs, f.classifier(), walker.Options{PruneExcluded: opts.PruneExcluded})

	if err := w.Validate(root); err != nil {
		return rep, err
	}

	emit(f.Hooks, Event{Phase: PhaseStart, Path: root, Msg: modeLabel(opts.DryRun)})
	logger.Debug("Starting permission pass", logger.Fields{"root": root, "dry_run": opts.DryRun})
	listFailures := f.applyPermissions(ctx, fs, w, root, opts.DryRun, rep)
	if err := ctx.Err(); err != nil {
		return rep, err
	}

	emit(f.Hooks, Event{Phase: PhaseSpecial, Path: root})
	f.applySpecialFiles(fs, root, opts.DryRun, rep)

	if opts.Owner != nil && (opts.Owner.UID >= 0 || opts.Owner.GID >= 0) {
		emit(f.Hooks, Event{Phase: PhaseOwnership, Path: root, Msg: fmt.Sprintf("uid=%d gid=%d", opts.Owner.UID, opts.Owner.GID)})
		logger.Debug("Starting ownership pass", logger.Fields{"root": root, "uid": opts.Owner.UID, "gid": opts.Owner.GID})
		f.applyOwnership(ctx, f.chowner(fs), w, root, *opts.Owner, opts.DryRun, listFailures, rep)
		if err := ctx.Err(); err != nil {
			return rep, err
		}
	}

	emit(f.Hooks, Event{Phase: PhaseDone, Path: root, Msg: fmt.Sprintf("%d changed, %d errors", rep.Fixed(), rep.Stats.Errors)})
	return rep, nil
}

// applyPermissions is the generic pass. Root-level special files are left
// for applySpecialFiles so each of them yields at most one change. It
// returns the directories that could not be listed.
func (f *Fixer) applyPermissions(ctx context.Context, fs afero.Fs, w *walker.Walker, root string, dryRun bool, rep *report.Report) map[string]struct{} {
	pol := f.policy()
	listFailures := make(map[string]struct{})

	for item, err := range w.Walk(ctx, root) {
		if err != nil {
			listFailures[item.Path] = struct{}{}
			f.recordError(rep, item.Path, report.OpList, err)
			continue
		}
		if item.Skipped() {
			rep.AddSkipped()
			emit(f.Hooks, Event{Phase: PhaseSkip, Path: item.Path, Msg: skipReason(item.Classification)})
			continue
		}
		if pol.IsSpecial(item.Rel, item.IsDir) {
			continue
		}
		f.applyMode(fs, item.Path, item.Info, pol.DesiredMode(item.Rel, item.IsDir), dryRun, rep)
	}
	return listFailures
}

// applySpecialFiles applies the override table to the regular files
// directly under root. Missing files are ignored.
func (f *Fixer) applySpecialFiles(fs afero.Fs, root string, dryRun bool, rep *report.Report) {
	for _, sf := range f.policy().SpecialFiles() {
		path := filepath.Join(root, sf.Name)
		info, err := fsutil.Lstat(fs, path)
		if err != nil {
			if !os.IsNotExist(err) {
				f.recordError(rep, path, report.OpChmod, err)
			}
			continue
		}
		// Symlinks were counted as skipped and directories were handled
		// by the generic pass.
		if !info.Mode().IsRegular() || f.classifier().Excluded(sf.Name) {
			continue
		}
		f.applyMode(fs, path, info, sf.Mode, dryRun, rep)
	}
}

// applyMode compares the current bits with desired and records, and unless
// dryRun applies, the difference.
func (f *Fixer) applyMode(fs afero.Fs, path string, info os.FileInfo, desired os.FileMode, dryRun bool, rep *report.Report) {
	current := fsutil.Perm(info)
	if current == desired {
		return
	}

	if !dryRun {
		if err := fs.Chmod(path, desired|info.Mode()&specialBits); err != nil {
			f.recordError(rep, path, report.OpChmod, err)
			return
		}
	}

	rep.AddChange(report.ChangeRecord{Path: path, Previous: current, New: desired, IsDir: info.IsDir()})
	emit(f.Hooks, Event{Phase: PhaseChange, Path: path, Msg: fsutil.PermString(current) + " -> " + fsutil.PermString(desired)})
}

// applyOwnership walks the tree again and attempts chown on every entry
// that is neither a symlink nor excluded. Current ownership is not compared.
func (f *Fixer) applyOwnership(ctx context.Context, chowner Chowner, w *walker.Walker, root string, ids owner.IDs, dryRun bool, seen map[string]struct{}, rep *report.Report) {
	for item, err := range w.Walk(ctx, root) {
		if err != nil {
			if _, ok := seen[item.Path]; !ok {
				f.recordError(rep, item.Path, report.OpList, err)
			}
			continue
		}
		if item.Skipped() {
			continue
		}
		if !dryRun {
			if err := chowner.Chown(item.Path, ids.UID, ids.GID); err != nil {
				f.recordError(rep, item.Path, report.OpChown, err)
				continue
			}
		}
		rep.AddOwnership()
		emit(f.Hooks, Event{Phase: PhaseChown, Path: item.Path})
	}
}

func (f *Fixer) recordError(rep *report.Report, path, op string, err error) {
	var listErr *walker.ListError
	if errors.As(err, &listErr) {
		err = listErr.Err
	}
	rep.AddError(path, op, err)
	emit(f.Hooks, Event{Phase: PhaseError, Path: path, Msg: op + ": " + err.Error()})
}

func skipReason(c classify.Classification) string {
	if c.IsSymlink {
		return "symlink"
	}
	return "excluded"
}

func modeLabel(dryRun bool) string {
	if dryRun {
		return "dry-run"
	}
	return "apply"
}
