package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	require.NoError(t, os.Chdir(tmpDir))
	defer os.Chdir(oldWd)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "_ring.go", cfg.Output.Suffix)
	assert.Equal(t, "ringgen", cfg.Output.BuildTag)
	assert.Equal(t, "", cfg.Generator.Receiver)
	assert.Equal(t, "ringgen:buffer", cfg.Generator.Directive)
	assert.Equal(t, 100*time.Millisecond, cfg.Watch.Debounce)
}

func TestLoadWithConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	configContent := `
output:
  suffix: .ring.go
  build_tag: template
generator:
  receiver: rb
watch:
  debounce: 250ms
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "ringgen.yml"), []byte(configContent), 0o644))

	cfg, err := LoadFrom(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, ".ring.go", cfg.Output.Suffix)
	assert.Equal(t, "template", cfg.Output.BuildTag)
	assert.Equal(t, "rb", cfg.Generator.Receiver)
	assert.Equal(t, "ringgen:buffer", cfg.Generator.Directive)
	assert.Equal(t, 250*time.Millisecond, cfg.Watch.Debounce)

	opts := cfg.DriverOptions()
	assert.Equal(t, ".ring.go", opts.Suffix)
	assert.Equal(t, "template", opts.BuildTag)
	assert.Equal(t, "rb", opts.Receiver)
}

func TestLoadWithEnvironment(t *testing.T) {
	t.Setenv("RINGGEN_OUTPUT_SUFFIX", "_gen.go")
	t.Setenv("RINGGEN_GENERATOR_RECEIVER", "q")

	cfg, err := LoadFrom(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "_gen.go", cfg.Output.Suffix)
	assert.Equal(t, "q", cfg.Generator.Receiver)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{"suffix without .go", "output:\n  suffix: _ring.txt\n", "output.suffix must end in .go"},
		{"bare .go suffix", "output:\n  suffix: .go\n", "must not be just .go"},
		{"empty tag", "output:\n  build_tag: \"\"\n", "output.build_tag must not be empty"},
		{"tag expression", "output:\n  build_tag: a && b\n", "single tag"},
		{"directive with slashes", "generator:\n  directive: //ringgen:buffer\n", "generator.directive"},
		{"malformed yaml", "output: [\n", "failed to read config file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, "ringgen.yml"), []byte(tt.content), 0o644))

			_, err := LoadFrom(dir)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestFindModuleRoot(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "go.mod"), []byte("module example.com/x\n"), 0o644))

	got, err := FindModuleRoot(nested)
	require.NoError(t, err)

	want, _ := filepath.EvalSymlinks(root)
	gotResolved, _ := filepath.EvalSymlinks(got)
	assert.Equal(t, want, gotResolved)
}
