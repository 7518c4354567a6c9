package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/conduit-lang/ringgen/internal/compiler/driver"
	"github.com/conduit-lang/ringgen/internal/utils"
)

func newRegenerator(out *bytes.Buffer) *regenerator {
	opts := driver.DefaultOptions()
	return &regenerator{
		compiler: driver.New(opts, nil),
		finder:   utils.TemplateFinder{Directive: opts.Directive, IsOutput: opts.IsOutput},
		logger:   zap.NewNop(),
		out:      out,
		noColor:  true,
	}
}

func TestRegenerator_WritesTemplates(t *testing.T) {
	dir := t.TempDir()
	template := writeTemplate(t, dir, "buffers.go", intBufferTemplate)
	plain := writeTemplate(t, dir, "plain.go", "package queue\n\nfunc broken( {\n")

	var out bytes.Buffer
	require.NoError(t, newRegenerator(&out).run([]string{template, plain}))

	assert.FileExists(t, filepath.Join(dir, "buffers_ring.go"))
	assert.Contains(t, out.String(), "buffers_ring.go")

	out.Reset()
	require.NoError(t, newRegenerator(&out).run([]string{template}))
	assert.Empty(t, out.String())
}

func TestRegenerator_ReportsErrors(t *testing.T) {
	dir := t.TempDir()
	broken := writeTemplate(t, dir, "broken.go", zeroCapacityTemplate)

	var out bytes.Buffer
	err := newRegenerator(&out).run([]string{broken})
	require.Error(t, err)
	assert.Contains(t, out.String(), "E002")
	assert.NoFileExists(t, filepath.Join(dir, "broken_ring.go"))
}

func TestRegenerator_SkipsDeletedFiles(t *testing.T) {
	dir := t.TempDir()
	path := writeTemplate(t, dir, "gone.go", intBufferTemplate)
	require.NoError(t, os.Remove(path))

	var out bytes.Buffer
	assert.NoError(t, newRegenerator(&out).run([]string{path}))
}

func TestNewWatchCommand(t *testing.T) {
	cmd := NewWatchCommand()
	assert.Equal(t, "watch", cmd.Name())
	assert.NotNil(t, cmd.Flags().Lookup("verbose"))
	assert.Error(t, cmd.Args(cmd, []string{"a", "b"}))
}

func TestNewLSPCommand(t *testing.T) {
	cmd := NewLSPCommand()
	assert.Equal(t, "lsp", cmd.Name())
	assert.NotNil(t, cmd.Flags().Lookup("verbose"))
}
