package main

import (
	"io"
	"log/slog"
	"strings"

	"github.com/nvr-ai/go-pca/config"
)

// newLogger builds a text or JSON slog logger writing to w.
func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	lvl, err := config.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: lvl}
	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}
