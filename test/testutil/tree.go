// Package testutil builds directory trees with exact modes for tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
)

// Entry describes one path below a tree root. Paths are slash separated and
// relative to the root. Directories end in "/".
type Entry struct {
	Path string
	Mode os.FileMode
}

// Dir returns a directory entry.
func Dir(path string, mode os.FileMode) Entry {
	return Entry{Path: path + "/", Mode: mode}
}

// File returns a regular file entry.
func File(path string, mode os.FileMode) Entry {
	return Entry{Path: path, Mode: mode}
}

// BuildTree creates root and entries on fs, in order, and sets every mode
// explicitly so the umask does not leak into assertions. The root gets
// 0755.
func BuildTree(t *testing.T, fs afero.Fs, root string, entries ...Entry) {
	t.Helper()
	mkdir(t, fs, root, 0o755)

	for _, e := range entries {
		rel := filepath.FromSlash(e.Path)
		path := filepath.Join(root, rel)
		if e.Path[len(e.Path)-1] == '/' {
			mkdir(t, fs, path, e.Mode)
			continue
		}
		if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("Failed to create parent of %s: %v", path, err)
		}
		if err := afero.WriteFile(fs, path, []byte("<?php\n"), e.Mode); err != nil {
			t.Fatalf("Failed to write %s: %v", path, err)
		}
		if err := fs.Chmod(path, e.Mode); err != nil {
			t.Fatalf("Failed to chmod %s: %v", path, err)
		}
	}
}

func mkdir(t *testing.T, fs afero.Fs, path string, mode os.FileMode) {
	t.Helper()
	if err := fs.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("Failed to create %s: %v", path, err)
	}
	if err := fs.Chmod(path, mode); err != nil {
		t.Fatalf("Failed to chmod %s: %v", path, err)
	}
}

// Perm returns the permission bits of path without following symlinks.
func Perm(t *testing.T, fs afero.Fs, path string) os.FileMode {
	t.Helper()
	var info os.FileInfo
	var err error
	if l, ok := fs.(afero.Lstater); ok {
		info, _, err = l.LstatIfPossible(path)
	} else {
		info, err = fs.Stat(path)
	}
	if err != nil {
		t.Fatalf("Failed to stat %s: %v", path, err)
	}
	return info.Mode().Perm()
}

// SetupTestConfig writes content as a config file in a temporary
// directory and returns its path.
func SetupTestConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	return configPath
}
