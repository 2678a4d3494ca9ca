// Package classify decides, without touching the filesystem, whether a
// walked entry is a directory, a symlink, or excluded by configuration.
package classify

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/glorpus-work/permfix/pkg/errors"
	"github.com/glorpus-work/permfix/pkg/fsutil"
)

// MatchMode selects how exclusion names are compared with a path.
type MatchMode string

const (
	// MatchSegment excludes an entry if any segment of its root-relative
	// path, including its own base name, equals an excluded name.
	MatchSegment MatchMode = "segment"
	// MatchAncestor excludes an entry only if one of its ancestor
	// directories carries an excluded name. The named directory itself is
	// still processed.
	MatchAncestor MatchMode = "ancestor"
)

// DefaultExclusions are skipped unless configuration says otherwise.
var DefaultExclusions = []string{".git", ".svn", ".hg", "node_modules", ".cache"}

// Classification is the result of inspecting one entry.
type Classification struct {
	IsDir     bool
	IsSymlink bool
	Excluded  bool
}

// Skipped reports whether the entry must not be modified.
func (c Classification) Skipped() bool {
	return c.IsSymlink || c.Excluded
}

// Classifier holds an immutable exclusion configuration.
type Classifier struct {
	names    map[string]struct{}
	patterns []string
	mode     MatchMode
}

// Options configure a Classifier.
type Options struct {
	Names    []string
	Patterns []string
	Mode     MatchMode
}

// New validates opts and builds a Classifier. An empty mode means MatchSegment.
func New(opts Options) (*Classifier, error) {
	mode := opts.Mode
	if mode == "" {
		mode = MatchSegment
	}
	if mode != MatchSegment && mode != MatchAncestor {
		return nil, errors.ErrInvalidMatchModeWithDetails(string(mode))
	}

	names := make(map[string]struct{}, len(opts.Names))
	for _, name := range opts.Names {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, errors.ErrEmptyExclusionName
		}
		names[name] = struct{}{}
	}

	patterns := make([]string, 0, len(opts.Patterns))
	for _, p := range opts.Patterns {
		p = filepath.ToSlash(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		if !doublestar.ValidatePattern(p) {
			return nil, errors.Wrapf(errors.ErrInvalidPattern, "%q", p)
		}
		patterns = append(patterns, p)
	}

	return &Classifier{names: names, patterns: patterns, mode: mode}, nil
}

// Default returns a Classifier using DefaultExclusions in segment mode.
func Default() *Classifier {
	c, _ := New(Options{Names: DefaultExclusions})
	return c
}

// Mode returns the configured match mode.
func (c *Classifier) Mode() MatchMode {
	return c.mode
}

// Classify inspects an entry given its root-relative path and its
// non-following file info. The root itself has rel ".".
func (c *Classifier) Classify(rel string, info os.FileInfo) Classification {
	if fsutil.IsSymlink(info) {
		return Classification{IsSymlink: true, Excluded: c.Excluded(rel)}
	}
	return Classification{
		IsDir:    info.IsDir(),
		Excluded: c.Excluded(rel),
	}
}

// Excluded reports whether rel falls under the exclusion configuration.
func (c *Classifier) Excluded(rel string) bool {
	rel = filepath.ToSlash(filepath.Clean(rel))
	if rel == "." || rel == "" {
		return false
	}

	segments := strings.Split(rel, "/")
	checked := segments
	if c.mode == MatchAncestor {
		checked = segments[:len(segments)-1]
	}
	for _, seg := range checked {
		if _, ok := c.names[seg]; ok {
			return true
		}
	}

	return c.matchesPattern(segments)
}

// matchesPattern tests the path and each of its ancestors, so a pattern
// naming a directory excludes everything below it.
func (c *Classifier) matchesPattern(segments []string) bool {
	for _, pattern := range c.patterns {
		for i := len(segments); i > 0; i-- {
			if ok, err := doublestar.Match(pattern, strings.Join(segments[:i], "/")); err == nil && ok {
				return true
			}
		}
	}
	return false
}
