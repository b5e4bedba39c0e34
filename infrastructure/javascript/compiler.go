package javascript

import (
	"context"
	stdErrors "errors"
	"fmt"
	"log/slog"

	"github.com/dop251/goja"
	"github.com/dop251/goja/ast"
	"github.com/dop251/goja/parser"

	"github.com/reglet-dev/scripthost/application/preprocess"
	"github.com/reglet-dev/scripthost/domain/entities"
	"github.com/reglet-dev/scripthost/domain/errors"
	"github.com/reglet-dev/scripthost/domain/ports"
)

// DefaultMaxCallStackSize bounds script recursion.
const DefaultMaxCallStackSize = 10000

type compilerConfig struct {
	logger       *slog.Logger
	strict       bool
	maxCallStack int
	extension    string
	loader       ports.ModuleLoader
	resolver     ports.ModuleResolver
}

func defaultCompilerConfig() compilerConfig {
	return compilerConfig{
		logger:       slog.Default(),
		maxCallStack: DefaultMaxCallStackSize,
		extension:    preprocess.DefaultExtension,
	}
}

// Option configures a Compiler.
type Option func(*compilerConfig)

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *compilerConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithStrict compiles scripts in strict mode.
func WithStrict(strict bool) Option {
	return func(c *compilerConfig) {
		c.strict = strict
	}
}

// WithMaxCallStackSize bounds the script call stack. Exceeding it aborts the
// running call.
func WithMaxCallStackSize(size int) Option {
	return func(c *compilerConfig) {
		c.maxCallStack = size
	}
}

// WithExtension sets the module file extension used to normalize require names.
func WithExtension(ext string) Option {
	return func(c *compilerConfig) {
		if ext != "" {
			c.extension = ext
		}
	}
}

// WithModuleLoader sets the loader for modules found next to the script.
func WithModuleLoader(loader ports.ModuleLoader) Option {
	return func(c *compilerConfig) {
		c.loader = loader
	}
}

// WithResolver sets the ambient resolver for modules not found next to the script.
func WithResolver(resolver ports.ModuleResolver) Option {
	return func(c *compilerConfig) {
		c.resolver = resolver
	}
}

// Compiler compiles preprocessed scripts into units.
type Compiler struct {
	cfg compilerConfig
}

var _ ports.Compiler = (*Compiler)(nil)

// NewCompiler creates a Compiler.
func NewCompiler(opts ...Option) *Compiler {
	cfg := defaultCompilerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Compiler{cfg: cfg}
}

// Compile parses and compiles src, loads its local dependency modules and
// runs the script's top-level code once.
func (c *Compiler) Compile(ctx context.Context, src entities.Source) (ports.Unit, error) {
	prg, err := parser.ParseFile(nil, src.Path, src.Text, 0)
	if err != nil {
		return nil, compileError(src.Path, err)
	}
	program, err := goja.CompileAST(prg, c.cfg.strict)
	if err != nil {
		return nil, compileError(src.Path, err)
	}

	u, err := newUnit(src, c.cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare runtime: %w", err)
	}

	for _, dep := range src.Dependencies {
		if !dep.Local {
			continue
		}
		if c.cfg.loader == nil {
			return nil, &errors.CompileError{Path: dep.Path, Message: "no module loader configured"}
		}
		m, err := c.cfg.loader.Load(ctx, dep.Path)
		if err != nil {
			return nil, &errors.CompileError{Err: err, Path: dep.Path, Message: err.Error()}
		}
		u.modules.add(dep.File, m)
	}

	if err := u.run(ctx, program, topLevelNames(prg)); err != nil {
		return nil, err
	}

	c.cfg.logger.DebugContext(ctx, "script compiled",
		"path", src.Path,
		"types", len(u.types),
		"dependencies", len(src.Dependencies),
		"strict", c.cfg.strict)
	return u, nil
}

// compileError keeps the first diagnostic only.
func compileError(path string, err error) *errors.CompileError {
	ce := &errors.CompileError{Err: err, Path: path, Message: err.Error()}

	var (
		list   parser.ErrorList
		single *parser.Error
		syntax *goja.CompilerSyntaxError
	)
	switch {
	case stdErrors.As(err, &list) && len(list) > 0:
		first := list[0]
		ce.Message, ce.Line, ce.Column = first.Message, first.Position.Line, first.Position.Column
	case stdErrors.As(err, &single):
		ce.Message, ce.Line, ce.Column = single.Message, single.Position.Line, single.Position.Column
	case stdErrors.As(err, &syntax):
		ce.Message = syntax.Message
		if syntax.File != nil {
			pos := syntax.File.Position(syntax.Offset)
			ce.Line, ce.Column = pos.Line, pos.Column
		}
	}
	return ce
}

// topLevelNames lists the names bound by top-level declarations, in order.
func topLevelNames(prg *ast.Program) []string {
	var names []string
	for _, stmt := range prg.Body {
		switch s := stmt.(type) {
		case *ast.ClassDeclaration:
			if s.Class != nil && s.Class.Name != nil {
				names = append(names, string(s.Class.Name.Name))
			}
		case *ast.FunctionDeclaration:
			if s.Function != nil && s.Function.Name != nil {
				names = append(names, string(s.Function.Name.Name))
			}
		case *ast.VariableStatement:
			names = appendBindings(names, s.List)
		case *ast.LexicalDeclaration:
			names = appendBindings(names, s.List)
		}
	}
	return names
}

func appendBindings(names []string, list []*ast.Binding) []string {
	for _, b := range list {
		if id, ok := b.Target.(*ast.Identifier); ok {
			names = append(names, string(id.Name))
		}
	}
	return names
}
