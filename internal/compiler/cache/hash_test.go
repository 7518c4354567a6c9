package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileHasher_HashContent(t *testing.T) {
	hasher := NewFileHasher()

	tests := []struct {
		name     string
		content  []byte
		expected string
	}{
		{
			name:     "empty content",
			content:  []byte(""),
			expected: "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		},
		{
			name:     "simple content",
			content:  []byte("hello world"),
			expected: "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, hasher.HashContent(tt.content))
		})
	}
}

func TestFileHasher_HashFile(t *testing.T) {
	hasher := NewFileHasher()
	path := filepath.Join(t.TempDir(), "buffers_ring.go")
	require.NoError(t, os.WriteFile(path, []byte("hello world"), 0o644))

	got, err := hasher.HashFile(path)
	require.NoError(t, err)
	assert.Equal(t, hasher.HashContent([]byte("hello world")), got)

	_, err = hasher.HashFile(filepath.Join(t.TempDir(), "missing.go"))
	assert.Error(t, err)
}

func TestFileHasher_Unchanged(t *testing.T) {
	hasher := NewFileHasher()
	dir := t.TempDir()
	path := filepath.Join(dir, "buffers_ring.go")

	unchanged, err := hasher.Unchanged(path, []byte("package queue\n"))
	require.NoError(t, err)
	assert.False(t, unchanged, "missing file counts as changed")

	require.NoError(t, os.WriteFile(path, []byte("package queue\n"), 0o644))

	unchanged, err = hasher.Unchanged(path, []byte("package queue\n"))
	require.NoError(t, err)
	assert.True(t, unchanged)

	unchanged, err = hasher.Unchanged(path, []byte("package other\n"))
	require.NoError(t, err)
	assert.False(t, unchanged)
}
