package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/nvr-ai/go-pca/compression"
	"github.com/nvr-ai/go-pca/config"
	"github.com/nvr-ai/go-pca/images"
	"github.com/nvr-ai/go-pca/report"
)

// pipeline loads, compresses and saves images with one configuration.
type pipeline struct {
	cfg        *config.Config
	req        compression.Request
	compressor *compression.Compressor
	logger     *slog.Logger
}

func newPipeline(cfg *config.Config, logger *slog.Logger) (*pipeline, error) {
	req, err := cfg.Request()
	if err != nil {
		return nil, err
	}
	return &pipeline{
		cfg: cfg,
		req: req,
		compressor: compression.NewCompressor(compression.Options{
			Sequential: cfg.Processing.SequentialChannels,
		}),
		logger: logger,
	}, nil
}

// outputPath returns the default destination for input.
func (p *pipeline) outputPath(input string) string {
	return filepath.Join(p.cfg.Output.Dir, p.cfg.Output.Prefix+filepath.Base(input))
}

// run compresses input into output and returns the report.
func (p *pipeline) run(input, output string) (report.Report, error) {
	logger := p.logger.With("source", input)

	if !images.IsSupported(input) {
		return report.Report{}, fmt.Errorf("unsupported input %s: allowed types are png, jpg, jpeg, gif, bmp, webp", input)
	}
	if !images.IsSupported(output) {
		return report.Report{}, fmt.Errorf("unsupported output %s: allowed types are png, jpg, jpeg, gif, bmp, webp", output)
	}

	info, err := os.Stat(input)
	if err != nil {
		return report.Report{}, fmt.Errorf("failed to stat input: %w", err)
	}

	buf, err := images.Load(input)
	if err != nil {
		return report.Report{}, fmt.Errorf("failed to load image: %w", err)
	}

	if maxDim := p.cfg.Processing.MaxDimension; maxDim > 0 {
		resized := images.Downscale(buf, maxDim)
		if resized != buf {
			logger.Debug("downscaled input",
				"from", fmt.Sprintf("%dx%d", buf.Width, buf.Height),
				"to", fmt.Sprintf("%dx%d", resized.Width, resized.Height))
		}
		buf = resized
	}

	res, err := p.compressor.Compress(buf, p.req)
	if err != nil {
		return report.Report{}, fmt.Errorf("failed to compress image: %w", err)
	}
	logger.Debug("compressed",
		"rank", res.Rank,
		"runtime", res.Runtime,
		"information_retained_pct", res.Metrics.InformationRetained)

	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return report.Report{}, fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := images.Save(res.Reconstructed, output, p.cfg.Output.Quality); err != nil {
		return report.Report{}, fmt.Errorf("failed to save compressed image: %w", err)
	}

	r := report.New(input, p.req, res)
	r.Output = output
	r.OriginalBytes = info.Size()
	if out, err := os.Stat(output); err == nil {
		r.CompressedBytes = out.Size()
	}

	logger.Info("compressed image saved",
		"output", output,
		"size_kb", fmt.Sprintf("%.2f", float64(r.CompressedBytes)/1024),
		"psnr", r.PSNR,
		"ssim", r.SSIM)

	return r, nil
}
