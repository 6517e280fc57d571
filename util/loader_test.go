package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvr-ai/go-pca/images"
)

func TestLoadDirectoryImageFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.png", "a.JPG", "c.webp", "notes.txt", "d.tiff", "e.bmp", "f.gif"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("12345"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.png"), 0o755))

	files, err := LoadDirectoryImageFiles(dir)
	require.NoError(t, err)

	var names []string
	for _, f := range files {
		names = append(names, filepath.Base(f.Path))
		assert.Equal(t, int64(5), f.Size)
	}
	assert.Equal(t, []string{"a.JPG", "b.png", "c.webp", "e.bmp", "f.gif"}, names)
	assert.Equal(t, images.FormatJPEG, files[0].Format)
	assert.Equal(t, images.FormatPNG, files[1].Format)
}

func TestLoadDirectoryImageFilesMissing(t *testing.T) {
	_, err := LoadDirectoryImageFiles(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
