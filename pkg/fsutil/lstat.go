// Package fsutil provides filesystem helpers shared by the walker and the fixer.
package fsutil

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
)

// Lstat returns file info for path without following a trailing symlink.
// Filesystems that cannot represent symlinks fall back to Stat.
func Lstat(fs afero.Fs, path string) (os.FileInfo, error) {
	if lstater, ok := fs.(afero.Lstater); ok {
		info, _, err := lstater.LstatIfPossible(path)
		return info, err
	}
	return fs.Stat(path)
}

// IsSymlink reports whether info describes a symbolic link.
func IsSymlink(info os.FileInfo) bool {
	return info.Mode()&os.ModeSymlink != 0
}

// Perm returns the nine permission bits of info.
func Perm(info os.FileInfo) os.FileMode {
	return info.Mode().Perm() & ModeMask
}

// PermString renders mode as a four digit octal string, e.g. "0755".
func PermString(mode os.FileMode) string {
	return fmt.Sprintf("%04o", uint32(mode.Perm()))
}
