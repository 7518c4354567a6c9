package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WritesTemplate(t *testing.T) {
	dir := t.TempDir()

	stdout, _, err := executeCommand(NewNewCommand(), "IntQueue",
		"--capacity", "8", "--elem", "string", "--package", "queue", "--dir", dir, "--no-color")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Created")

	content, err := os.ReadFile(filepath.Join(dir, "int_queue.go"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "//go:build ringgen")
	assert.Contains(t, string(content), "package queue")
	assert.Contains(t, string(content), "//ringgen:buffer 8")
	assert.Contains(t, string(content), "data []string")
}

func TestNew_RefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	args := []string{"IntQueue", "--package", "queue", "--dir", dir, "--no-color"}

	_, _, err := executeCommand(NewNewCommand(), args...)
	require.NoError(t, err)

	_, stderr, err := executeCommand(NewNewCommand(), args...)
	require.Error(t, err)
	assert.Contains(t, stderr, "already exists")

	_, _, err = executeCommand(NewNewCommand(), append(args, "--force", "--capacity", "32")...)
	require.NoError(t, err)
	content, err := os.ReadFile(filepath.Join(dir, "int_queue.go"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "//ringgen:buffer 32")
}

func TestNew_GenericThenGenerate(t *testing.T) {
	dir := t.TempDir()

	_, _, err := executeCommand(NewNewCommand(), "Window",
		"--generic", "--capacity", "4", "--package", "queue", "--dir", dir, "--no-color")
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(dir, "window.go"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "type Window[T any] struct {")

	_, _, err = executeCommand(NewGenerateCommand(), dir, "--no-color")
	require.NoError(t, err)

	code, err := os.ReadFile(filepath.Join(dir, "window_ring.go"))
	require.NoError(t, err)
	assert.Contains(t, string(code), "func NewWindow[T any]() *Window[T] {")
}

func TestNew_Validation(t *testing.T) {
	dir := t.TempDir()

	_, _, err := executeCommand(NewNewCommand(), "--dir", dir, "--package", "queue")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "type name required")

	_, _, err = executeCommand(NewNewCommand(), "Bad", "--capacity", "0", "--dir", dir, "--package", "queue")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "greater than 0")
}

func TestDefaultPackage(t *testing.T) {
	root := t.TempDir()

	queue := filepath.Join(root, "queue")
	require.NoError(t, os.Mkdir(queue, 0o755))
	assert.Equal(t, "queue", defaultPackage(queue))

	dashed := filepath.Join(root, "my-queue")
	require.NoError(t, os.Mkdir(dashed, 0o755))
	assert.Equal(t, "main", defaultPackage(dashed))
}

func TestValidators(t *testing.T) {
	assert.NoError(t, identValidator("IntQueue"))
	assert.Error(t, identValidator("9lives"))

	assert.NoError(t, capacityValidator("16"))
	assert.Error(t, capacityValidator("0"))
	assert.Error(t, capacityValidator("many"))
}
