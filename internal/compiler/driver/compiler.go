package driver

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/conduit-lang/ringgen/compiler/errors"
	"github.com/conduit-lang/ringgen/internal/compiler/ast"
	"github.com/conduit-lang/ringgen/internal/compiler/cache"
	"github.com/conduit-lang/ringgen/internal/compiler/codegen"
	"github.com/conduit-lang/ringgen/internal/compiler/manifest"
	"github.com/conduit-lang/ringgen/internal/compiler/parser"
)

// generatedMarker identifies files written by this tool
var generatedMarker = []byte("// Code generated by ringgen")

// Result is the outcome of compiling one input
type Result struct {
	Source string
	Output string
	// Code is the formatted output; nil when any diagnostic is an error or
	// when the input declares no buffers
	Code        []byte
	Expansions  []*codegen.Expansion
	Diagnostics []errors.CompilerError
}

// HasErrors reports whether any diagnostic is an error
func (r *Result) HasErrors() bool {
	for _, d := range r.Diagnostics {
		if d.IsError() {
			return true
		}
	}
	return false
}

// Compiler compiles templates and manifests into ring buffer implementations
type Compiler struct {
	opts   Options
	logger *zap.Logger
	hasher *cache.FileHasher
}

// New creates a compiler. A nil logger disables logging.
func New(opts Options, logger *zap.Logger) *Compiler {
	if logger == nil {
		logger = zap.NewNop()
	}
	defaults := DefaultOptions()
	if opts.Directive == "" {
		opts.Directive = defaults.Directive
	}
	if opts.Suffix == "" {
		opts.Suffix = defaults.Suffix
	}
	return &Compiler{
		opts:   opts,
		logger: logger,
		hasher: cache.NewFileHasher(),
	}
}

// Options returns the compiler's effective options
func (c *Compiler) Options() Options {
	return c.opts
}

// CompileFile reads and compiles the template at path
func (c *Compiler) CompileFile(path string) *Result {
	src, err := os.ReadFile(path)
	if err != nil {
		return &Result{
			Source: path,
			Diagnostics: []errors.CompilerError{errors.NewCompilerError(
				errors.PhaseParser,
				errors.ErrUnreadableSource,
				fmt.Sprintf("failed to read %s: %v", path, err),
				errors.SourceLocation{File: path},
				errors.Error,
			)},
		}
	}
	return c.CompileSource(path, src)
}

// CompileSource compiles template source. Generated files are skipped.
func (c *Compiler) CompileSource(filename string, src []byte) *Result {
	result := &Result{Source: filename, Output: c.opts.OutputPath(filename)}
	if bytes.HasPrefix(src, generatedMarker) {
		c.logger.Debug("skipping generated file", zap.String("file", filename))
		return result
	}

	file, diags := parser.New(c.opts.Directive).ParseFile(filename, src)
	recovery := errors.NewErrorRecovery().WithSource(string(src))
	if len(diags) > 0 {
		recovery.RecoverMultiple(diags)
		result.Diagnostics = recovery.GetAll()
		return result
	}

	for _, orphan := range file.Orphans {
		recovery.Recover(errors.NewCompilerError(
			errors.PhaseParser,
			errors.ErrOrphanDirective,
			fmt.Sprintf("%s directive is not attached to a type declaration and was ignored", c.opts.Directive),
			orphan.Loc.ErrorLocation(),
			errors.Warning,
		))
	}

	c.compile(result, file, filepath.Base(filename), c.opts.BuildTag, recovery)
	return result
}

// CompileManifest compiles the YAML manifest at path
func (c *Compiler) CompileManifest(path string) *Result {
	data, err := os.ReadFile(path)
	if err != nil {
		return &Result{
			Source: path,
			Diagnostics: []errors.CompilerError{errors.NewCompilerError(
				errors.PhaseManifest,
				errors.ErrUnreadableSource,
				fmt.Sprintf("failed to read %s: %v", path, err),
				errors.SourceLocation{File: path},
				errors.Error,
			)},
		}
	}
	return c.CompileManifestSource(path, data)
}

// CompileManifestSource compiles manifest content read from path
func (c *Compiler) CompileManifestSource(path string, data []byte) *Result {
	result := &Result{Source: path}

	m, diags := manifest.Parse(path, data)
	recovery := errors.NewErrorRecovery().WithSource(string(data))
	if len(diags) > 0 {
		recovery.RecoverMultiple(diags)
		result.Diagnostics = recovery.GetAll()
		return result
	}

	result.Output = m.Output
	// manifests have no template to exclude, so no build tag
	c.compile(result, m.File, filepath.Base(path), "", recovery)
	return result
}

func (c *Compiler) compile(result *Result, file *ast.File, source, buildTag string, recovery *errors.ErrorRecovery) {
	gen := codegen.NewGenerator(codegen.Options{Receiver: c.opts.Receiver})

	for _, decl := range file.Declarations {
		exp, err := expand(gen, decl)
		if err != nil {
			recovery.Recover(toCompilerError(err, decl))
			continue
		}
		c.logger.Debug("expanded declaration",
			zap.String("type", decl.Name),
			zap.Int("capacity", exp.Capacity),
			zap.String("element", exp.Element.Src),
			zap.String("receiver", exp.Receiver),
		)
		result.Expansions = append(result.Expansions, exp)
	}

	if recovery.HasErrors() || len(result.Expansions) == 0 {
		if recovery.HasErrors() {
			result.Expansions = nil
		}
		result.Diagnostics = recovery.GetAll()
		return
	}

	code, err := gen.GenerateFile(codegen.File{
		Package:    file.Package,
		Source:     source,
		BuildTag:   buildTag,
		Imports:    file.Imports,
		Expansions: result.Expansions,
	})
	if err != nil {
		recovery.Recover(toCompilerError(err, nil))
		result.Expansions = nil
	} else {
		result.Code = code
	}
	result.Diagnostics = recovery.GetAll()
}

// Write stores the result's code unless the output already holds it.
// It reports whether the file was written.
func (c *Compiler) Write(r *Result) (bool, error) {
	if r.Code == nil {
		return false, nil
	}

	unchanged, err := c.hasher.Unchanged(r.Output, r.Code)
	if err != nil {
		return false, fmt.Errorf("failed to hash %s: %w", r.Output, err)
	}
	if unchanged {
		c.logger.Info("output unchanged", zap.String("output", r.Output))
		return false, nil
	}

	if err := os.MkdirAll(filepath.Dir(r.Output), 0o755); err != nil {
		return false, fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(r.Output, r.Code, 0o644); err != nil {
		return false, errors.NewCompilerError(
			errors.PhaseCodegen,
			errors.ErrWriteFailed,
			fmt.Sprintf("failed to write %s: %v", r.Output, err),
			errors.SourceLocation{File: r.Source},
			errors.Error,
		)
	}

	c.logger.Info("wrote output",
		zap.String("output", r.Output),
		zap.Int("buffers", len(r.Expansions)),
	)
	return true, nil
}

func toCompilerError(err error, decl *ast.Declaration) errors.CompilerError {
	if ce, ok := errors.AsCompilerError(err); ok {
		return ce
	}
	loc := errors.SourceLocation{}
	if decl != nil {
		loc = decl.NamePos.ErrorLocation()
	}
	return errors.NewCompilerError(errors.PhaseCodegen, errors.ErrFormatFailed, err.Error(), loc, errors.Error)
}
