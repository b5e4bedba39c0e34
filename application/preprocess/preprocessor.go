// Package preprocess extracts dependency directives from script source.
//
// A directive is a line containing
//
//	// #require "<module-name>"
//
// The module name is completed with the module extension when it lacks one
// and resolved against the script directory: a file of that name next to the
// script wins, otherwise the bare name is left to ambient resolution at run
// time. The directive is recognised anywhere on a line, including inside
// string literals. Directive lines are kept in the output text; they are
// ordinary comments to the compiler.
package preprocess

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/reglet-dev/scripthost/domain/entities"
)

// DefaultExtension is appended to module names that lack it.
const DefaultExtension = ".wasm"

var requireDirective = regexp.MustCompile(`//\s*#require\s*"(?P<dep>[\w.]*)"`)

type config struct {
	extension string
	statFn    func(string) (os.FileInfo, error)
}

// Option configures a Preprocessor.
type Option func(*config)

// WithExtension sets the module file extension (default ".wasm").
func WithExtension(ext string) Option {
	return func(c *config) {
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		c.extension = ext
	}
}

// Preprocessor scans script source for dependency directives.
type Preprocessor struct {
	cfg config
}

// New creates a Preprocessor.
func New(opts ...Option) *Preprocessor {
	cfg := config{
		extension: DefaultExtension,
		statFn:    os.Stat,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Preprocessor{cfg: cfg}
}

// ProcessFile reads and processes the script at path.
func (p *Preprocessor) ProcessFile(path string) (entities.Source, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return entities.Source{}, fmt.Errorf("failed to resolve script path: %w", err)
	}
	f, err := os.Open(abs)
	if err != nil {
		return entities.Source{}, fmt.Errorf("failed to open script: %w", err)
	}
	defer f.Close()

	return p.Process(abs, f)
}

// Process reads script text from r. path locates the script directory.
func (p *Preprocessor) Process(path string, r io.Reader) (entities.Source, error) {
	src := entities.Source{
		Path: path,
		Dir:  filepath.Dir(path),
	}

	var text strings.Builder
	reader := bufio.NewReader(r)
	for {
		line, err := reader.ReadString('\n')
		if len(line) > 0 {
			text.WriteString(line)
			if dep, ok := p.match(strings.TrimRight(line, "\r\n")); ok {
				src.Dependencies = append(src.Dependencies, p.resolve(src.Dir, dep))
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return entities.Source{}, fmt.Errorf("failed to read script: %w", err)
		}
	}
	src.Text = text.String()

	return src, nil
}

func (p *Preprocessor) match(line string) (string, bool) {
	m := requireDirective.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[requireDirective.SubexpIndex("dep")], true
}

// ModuleFile completes name with ext unless it already ends with it,
// compared case-insensitively.
func ModuleFile(name, ext string) string {
	if strings.HasSuffix(strings.ToLower(name), strings.ToLower(ext)) {
		return name
	}
	return name + ext
}

func (p *Preprocessor) resolve(dir, name string) entities.DependencyRef {
	file := ModuleFile(name, p.cfg.extension)

	ref := entities.DependencyRef{Name: name, File: file}
	local := filepath.Join(dir, file)
	if info, err := p.cfg.statFn(local); err == nil && !info.IsDir() {
		ref.Path = local
		ref.Local = true
	}
	return ref
}
