// Package walker traverses a directory tree in pre-order without following
// symbolic links, classifying every entry on the way.
package walker

import (
	"context"
	"fmt"
	"iter"
	"os"
	"path/filepath"

	"github.com/glorpus-work/permfix/pkg/classify"
	"github.com/glorpus-work/permfix/pkg/errors"
	"github.com/glorpus-work/permfix/pkg/fsutil"
	"github.com/spf13/afero"
)

// Item is one visited entry. It is rebuilt on every traversal.
type Item struct {
	// Path is the entry path as seen through the filesystem.
	Path string
	// Rel is the path relative to the walk root.
	Rel  string
	Info os.FileInfo
	classify.Classification
}

// Mode returns the entry's current permission bits.
func (i Item) Mode() os.FileMode {
	return fsutil.Perm(i.Info)
}

// ListError reports a directory whose contents could not be read.
// The subtree below it is not visited.
type ListError struct {
	Path string
	Err  error
}

func (e *ListError) Error() string {
	return fmt.Sprintf("failed to list directory %s: %v", e.Path, e.Err)
}

func (e *ListError) Unwrap() error {
	return e.Err
}

// Options control traversal.
type Options struct {
	// PruneExcluded stops descent into excluded directories. Without it the
	// contents of excluded directories are still yielded, flagged Excluded.
	PruneExcluded bool
}

// Walker produces classified entries below a root.
type Walker struct {
	fs         afero.Fs
	classifier *classify.Classifier
	opts       Options
}

// New creates a Walker over fs. A nil classifier uses classify.Default.
func New(fs afero.Fs, classifier *classify.Classifier, opts Options) *Walker {
	if classifier == nil {
		classifier = classify.Default()
	}
	return &Walker{fs: fs, classifier: classifier, opts: opts}
}

// Validate checks the one unrecoverable precondition: root must exist and
// be a directory. A symlink to a directory is accepted as root.
func (w *Walker) Validate(root string) error {
	if root == "" {
		return errors.ErrInvalidRootWithPath(root, "empty path")
	}
	info, err := w.fs.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.ErrInvalidRootWithPath(root, "does not exist")
		}
		return errors.ErrInvalidRootWithPath(root, err.Error())
	}
	if !info.IsDir() {
		return errors.ErrInvalidRootWithPath(root, "not a directory")
	}
	return nil
}

// Walk returns a lazy pre-order sequence of the entries below root. The
// root itself is not yielded. Entries of one directory come in lexical
// order. A directory that cannot be listed is yielded a second time with a
// *ListError and its siblings are still visited. The sequence stops early
// when ctx is done; callers check ctx.Err() afterwards.
//
// Root must have passed Validate.
func (w *Walker) Walk(ctx context.Context, root string) iter.Seq2[Item, error] {
	return func(yield func(Item, error) bool) {
		info, err := w.fs.Stat(root)
		if err != nil {
			yield(Item{Path: root, Rel: "."}, &ListError{Path: root, Err: err})
			return
		}
		w.walkDir(ctx, Item{Path: root, Rel: ".", Info: info}, yield)
	}
}

// walkDir yields the children of dir, descending depth first. It returns
// false once the consumer or the context asks to stop.
func (w *Walker) walkDir(ctx context.Context, dir Item, yield func(Item, error) bool) bool {
	entries, err := afero.ReadDir(w.fs, dir.Path)
	if err != nil {
		return yield(dir, &ListError{Path: dir.Path, Err: err})
	}

	for _, info := range entries {
		if ctx.Err() != nil {
			return false
		}

		rel := filepath.Join(dir.Rel, info.Name())
		item := Item{
			Path:           filepath.Join(dir.Path, info.Name()),
			Rel:            rel,
			Info:           info,
			Classification: w.classifier.Classify(rel, info),
		}
		if !yield(item, nil) {
			return false
		}

		if !item.IsDir || item.IsSymlink {
			continue
		}
		if item.Excluded && w.opts.PruneExcluded {
			continue
		}
		if !w.walkDir(ctx, item, yield) {
			return false
		}
	}
	return true
}
