package util

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/nvr-ai/go-pca/images"
)

// ImageFile represents an image file.
type ImageFile struct {
	// Path is the path to the image file.
	Path string
	// Format is the format implied by the file extension.
	Format images.ImageFormat
	// Size is the file size in bytes.
	Size int64
}

// LoadDirectoryImageFiles lists every supported image file in a directory.
//
// Arguments:
// - dir: Directory path containing image files.
//
// Returns:
// - []ImageFile: One entry per supported file, sorted by path. Subdirectories are skipped.
// - error: Error if the directory cannot be read.
func LoadDirectoryImageFiles(dir string) ([]ImageFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []ImageFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		format := images.FormatFromPath(entry.Name())
		if format == images.FormatUnknown {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			return nil, err
		}
		files = append(files, ImageFile{
			Path:   filepath.Join(dir, entry.Name()),
			Format: format,
			Size:   info.Size(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Path < files[j].Path
	})

	return files, nil
}
