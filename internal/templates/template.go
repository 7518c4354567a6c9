// Package templates renders starter ring buffer templates for `ringgen new`.
package templates

import (
	"bytes"
	"fmt"
	"go/format"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	strutil "github.com/conduit-lang/ringgen/internal/util/strings"
)

const bufferTemplate = `{{if .BuildTag}}//go:build {{.BuildTag}}

{{end}}package {{.Package}}

// {{.TypeName}} is a fixed-capacity FIFO queue of {{.Element}} values.
//
//{{.Directive}} {{.Capacity}}
type {{.TypeName}}{{if .Generic}}[T any]{{end}} struct {
	data []{{.Element}}
}
`

// BufferTemplate describes a starter template file
type BufferTemplate struct {
	TypeName  string
	Package   string
	Capacity  int
	Element   string
	Generic   bool
	Directive string
	BuildTag  string
}

// Engine is the template rendering engine
type Engine struct {
	tmpl *template.Template
}

// NewEngine creates a new template engine
func NewEngine() *Engine {
	return &Engine{
		tmpl: template.Must(template.New("buffer").Parse(bufferTemplate)),
	}
}

// FileName returns the template's file name, the snake_case type name
func (b *BufferTemplate) FileName() string {
	return strutil.ToSnakeCase(b.TypeName) + ".go"
}

// Validate checks the template fields before rendering
func (b *BufferTemplate) Validate() error {
	if !token.IsIdentifier(b.TypeName) {
		return fmt.Errorf("type name %q is not a valid Go identifier", b.TypeName)
	}
	if !token.IsIdentifier(b.Package) {
		return fmt.Errorf("package name %q is not a valid Go identifier", b.Package)
	}
	if b.Capacity < 1 {
		return fmt.Errorf("capacity must be greater than 0")
	}
	if b.Directive == "" {
		return fmt.Errorf("directive is required")
	}
	if b.Generic {
		if b.Element != "" && b.Element != "T" {
			return fmt.Errorf("generic buffers use T as the element type, got %q", b.Element)
		}
		return nil
	}
	if b.Element == "" {
		return fmt.Errorf("element type is required")
	}
	if _, err := parser.ParseExpr(b.Element); err != nil {
		return fmt.Errorf("element type %q is not a valid Go type: %w", b.Element, err)
	}
	return nil
}

// Render produces the formatted template source
func (e *Engine) Render(b BufferTemplate) ([]byte, error) {
	if b.Generic {
		b.Element = "T"
	}
	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("invalid template: %w", err)
	}

	var buf bytes.Buffer
	if err := e.tmpl.Execute(&buf, b); err != nil {
		return nil, fmt.Errorf("failed to render template: %w", err)
	}

	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("failed to format template: %w", err)
	}
	return src, nil
}

// Write renders b into targetDir. An existing file is only replaced when
// force is set.
func (e *Engine) Write(b BufferTemplate, targetDir string, force bool) (string, error) {
	src, err := e.Render(b)
	if err != nil {
		return "", err
	}

	fullPath, err := targetPath(targetDir, b.FileName())
	if err != nil {
		return "", err
	}

	if !force {
		if _, err := os.Stat(fullPath); err == nil {
			return fullPath, os.ErrExist
		}
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory for %s: %w", fullPath, err)
	}
	if err := os.WriteFile(fullPath, src, 0o644); err != nil {
		return "", fmt.Errorf("failed to write file %s: %w", fullPath, err)
	}
	return fullPath, nil
}

// targetPath joins name onto dir, rejecting names that escape dir
func targetPath(dir, name string) (string, error) {
	name = filepath.Clean(name)
	if filepath.IsAbs(name) {
		return "", fmt.Errorf("invalid target path: %s attempts to write outside %s", name, dir)
	}

	fullPath := filepath.Join(dir, name)
	cleanDir := filepath.Clean(dir) + string(filepath.Separator)
	if !strings.HasPrefix(filepath.Clean(fullPath)+string(filepath.Separator), cleanDir) {
		return "", fmt.Errorf("invalid target path: %s attempts to write outside %s", name, dir)
	}
	return fullPath, nil
}
