package entities

// ParamSpec is a parameter set read from a file: scalar values plus image
// files to decode before execution.
type ParamSpec struct {
	// Values maps parameter names to their text values.
	Values map[string]string

	// Images maps parameter names to image file paths.
	Images map[string]string

	// Entry names the entry method; empty leaves the choice to the caller.
	Entry string

	// Version is the file format version.
	Version int
}
