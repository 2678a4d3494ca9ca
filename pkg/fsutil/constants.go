package fsutil

// Permission modes applied by the normalization policy.
// These follow standard Unix permission conventions.
const (
	// ModeMask selects the nine rwx bits for owner, group and other.
	ModeMask = 0o777

	// Default modes.
	DirModeDefault  = 0o755 // drwxr-xr-x
	FileModeDefault = 0o644 // -rw-r--r--

	// FileModeSecure keeps secrets readable by the owner only.
	FileModeSecure = 0o600 // -rw-------
)
