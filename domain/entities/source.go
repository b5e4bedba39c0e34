package entities

// Source is a preprocessed script ready for compilation.
type Source struct {
	// Path is the absolute path of the script file.
	Path string

	// Dir is the directory containing the script. Relative dependency
	// modules and relative output paths are resolved against it.
	Dir string

	// Text is the script text. Directive lines are kept verbatim.
	Text string

	// Dependencies lists the resolved #require directives in order of appearance.
	Dependencies []DependencyRef
}

// DependencyRef is a declared dependency module and where it resolved to.
// It is consumed once at compile time.
type DependencyRef struct {
	// Name is the module name as written in the directive.
	Name string

	// File is Name normalized to a module file name (extension appended).
	File string

	// Path is the absolute path of the module next to the script.
	// Empty when the module is left to ambient resolution.
	Path string

	// Local reports whether the module was found in the script directory.
	Local bool
}

// Target returns what the compiler should load: the local path when the
// module sits next to the script, the bare file name otherwise.
func (d DependencyRef) Target() string {
	if d.Local {
		return d.Path
	}
	return d.File
}
