// Package policy maps a classified entry to the permission mode it should carry.
package policy

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/glorpus-work/permfix/pkg/fsutil"
)

// SpecialFile is a root-level file whose mode overrides the generic file policy.
type SpecialFile struct {
	Name string
	Mode os.FileMode
}

// DefaultSpecialFiles is the fixed override table, in processing order.
var DefaultSpecialFiles = []SpecialFile{
	{Name: "wp-config.php", Mode: fsutil.FileModeSecure},
	{Name: ".htaccess", Mode: fsutil.FileModeDefault},
	{Name: "index.php", Mode: fsutil.FileModeDefault},
}

// Policy computes desired modes. The zero value has no special files.
type Policy struct {
	special []SpecialFile
	byName  map[string]os.FileMode
}

// New returns a Policy using the given special file table.
func New(special []SpecialFile) *Policy {
	p := &Policy{
		special: append([]SpecialFile(nil), special...),
		byName:  make(map[string]os.FileMode, len(special)),
	}
	for _, sf := range special {
		p.byName[sf.Name] = sf.Mode.Perm()
	}
	return p
}

// Default returns the WordPress policy: 0755 directories, 0644 files,
// wp-config.php at 0600.
func Default() *Policy {
	return New(DefaultSpecialFiles)
}

// SpecialFiles returns the override table in processing order.
func (p *Policy) SpecialFiles() []SpecialFile {
	return append([]SpecialFile(nil), p.special...)
}

// IsSpecial reports whether the entry at root-relative path rel is covered
// by the override table. Only regular files directly under the root match.
func (p *Policy) IsSpecial(rel string, isDir bool) bool {
	_, ok := p.lookup(rel, isDir)
	return ok
}

// DesiredMode returns the permission bits the entry should have.
func (p *Policy) DesiredMode(rel string, isDir bool) os.FileMode {
	if isDir {
		return fsutil.DirModeDefault
	}
	if mode, ok := p.lookup(rel, isDir); ok {
		return mode
	}
	return fsutil.FileModeDefault
}

func (p *Policy) lookup(rel string, isDir bool) (os.FileMode, bool) {
	if isDir {
		return 0, false
	}
	key, ok := rootKey(rel)
	if !ok {
		return 0, false
	}
	mode, ok := p.byName[key]
	return mode, ok
}

// rootKey returns the cleaned name of rel if it names an entry directly
// under the root.
func rootKey(rel string) (string, bool) {
	rel = filepath.ToSlash(filepath.Clean(rel))
	if rel == "." || rel == "" || strings.Contains(rel, "/") {
		return "", false
	}
	return rel, true
}
