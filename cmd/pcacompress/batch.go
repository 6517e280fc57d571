package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/nvr-ai/go-pca/report"
	"github.com/nvr-ai/go-pca/util"
)

func newBatchCmd(global *globalOptions) *cobra.Command {
	var (
		flags   requestFlags
		outDir  string
		workers int
	)

	cmd := &cobra.Command{
		Use:   "batch <dir>",
		Short: "Compress every supported image in a directory",
		Long: `Compress every png, jpg, jpeg, gif, bmp and webp file in a directory.

Images are processed concurrently. A file that fails is reported and the
remaining files are still processed.

Examples:
  pcacompress batch ./photos -p 90
  pcacompress batch ./photos -k 10 --out-dir ./small --workers 4 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := global.cfg
			if cmd.Flags().Changed("out-dir") {
				cfg.Output.Dir = outDir
			}
			if cmd.Flags().Changed("workers") {
				cfg.Processing.Workers = workers
			}
			if err := flags.apply(cmd, cfg); err != nil {
				return err
			}

			p, err := newPipeline(cfg, global.logger)
			if err != nil {
				return err
			}

			files, err := util.LoadDirectoryImageFiles(args[0])
			if err != nil {
				return fmt.Errorf("failed to list images: %w", err)
			}
			if len(files) == 0 {
				global.logger.Warn("no supported images found", "dir", args[0])
			}

			reports := make([]report.Report, len(files))
			errs := make([]error, len(files))

			ctx := cmd.Context()
			var g errgroup.Group
			g.SetLimit(cfg.Processing.Workers)
			for i, f := range files {
				i, f := i, f
				g.Go(func() error {
					if err := ctx.Err(); err != nil {
						errs[i] = err
						reports[i] = report.Failed(f.Path, err)
						return nil
					}
					r, err := p.run(f.Path, p.outputPath(f.Path))
					if err != nil {
						global.logger.Error("compression failed", "source", f.Path, "error", err)
						errs[i] = fmt.Errorf("%s: %w", filepath.Base(f.Path), err)
						reports[i] = report.Failed(f.Path, err)
						return nil
					}
					reports[i] = r
					return nil
				})
			}
			_ = g.Wait()

			summary := report.Summarize(reports)
			global.logger.Info("batch finished",
				"total", summary.Total,
				"failed", summary.Failed,
				"runtime_seconds", summary.TotalRuntimeSeconds,
				"mean_psnr", summary.MeanPSNR)

			if err := flags.writeReports(cmd, reports...); err != nil {
				return err
			}
			if !flags.json {
				if err := report.WriteSummary(cmd.OutOrStdout(), summary); err != nil {
					return err
				}
			}

			if joined := errors.Join(errs...); joined != nil {
				return fmt.Errorf("batch finished with failures: %w", joined)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&outDir, "out-dir", "", "output directory (default: output.dir from config)")
	cmd.Flags().IntVar(&workers, "workers", 0, "number of images compressed at once (default: number of CPUs)")

	return cmd
}
