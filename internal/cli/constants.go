package cli

// Default values for CLI flags and formatted output.
const (
	// DefaultRoot is used when no ROOT argument is given.
	DefaultRoot = "."
	// TabWidth is the width of tabs in formatted output.
	TabWidth = 2
)
