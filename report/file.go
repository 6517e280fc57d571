package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// WriteFile writes reports as JSON to path. A ".gz" suffix gzips the file and a ".zst" suffix
// compresses it with zstd; anything else is written as plain JSON.
//
// Arguments:
// - path: Destination file. Missing parent directories are created.
// - reports: The reports to write.
//
// Returns:
// - An error if the file cannot be created, encoded or flushed.
func WriteFile(path string, reports ...Report) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close report file: %w", cerr)
		}
	}()

	var w io.WriteCloser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		w = gzip.NewWriter(f)
	case ".zst":
		zw, err := zstd.NewWriter(f)
		if err != nil {
			return fmt.Errorf("failed to create zstd writer: %w", err)
		}
		w = zw
	default:
		return WriteJSON(f, reports...)
	}

	if err := WriteJSON(w, reports...); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

// ReadFile reads reports written by WriteFile.
func ReadFile(path string) ([]Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open report file: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		gr, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("failed to read gzip report: %w", err)
		}
		defer gr.Close()
		r = gr
	case ".zst":
		zr, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("failed to read zstd report: %w", err)
		}
		defer zr.Close()
		r = zr
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read report file: %w", err)
	}
	return decodeReports(data)
}

// decodeReports accepts both shapes WriteJSON produces: a single object or an array.
func decodeReports(data []byte) ([]Report, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var r Report
		if err := json.Unmarshal(data, &r); err != nil {
			return nil, fmt.Errorf("failed to decode report: %w", err)
		}
		return []Report{r}, nil
	}

	var reports []Report
	if err := json.Unmarshal(data, &reports); err != nil {
		return nil, fmt.Errorf("failed to decode reports: %w", err)
	}
	return reports, nil
}
