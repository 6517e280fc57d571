package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/nvr-ai/go-pca/compression"
	"github.com/nvr-ai/go-pca/config"
	"github.com/nvr-ai/go-pca/report"
)

// globalOptions are shared by every subcommand.
type globalOptions struct {
	configPath string
	logLevel   string
	logFormat  string

	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "pcacompress",
		Short: "Compress images with per-channel PCA low-rank approximation",
		Long: `pcacompress replaces each RGB channel of an image with a low-rank PCA
approximation and reports how much of the image survived: information
retained, PSNR, SSIM, MSE and visual degradation.

The compression percentage is the share of principal directions discarded,
not a target file size.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default: ~/.pcacompress/config.yaml)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "", "log format (text, json)")

	cmd.AddCommand(newCompressCmd(opts))
	cmd.AddCommand(newBatchCmd(opts))
	cmd.AddCommand(newConfigCmd(opts))

	return cmd
}

// loader returns the config loader for the --config flag or the home directory default.
func (o *globalOptions) loader() (*config.Loader, error) {
	if o.configPath != "" {
		return config.NewLoaderWithPath(o.configPath), nil
	}
	return config.NewLoader()
}

// load reads the config, applies the logging flags and builds the logger.
func (o *globalOptions) load(cmd *cobra.Command) error {
	loader, err := o.loader()
	if err != nil {
		return err
	}
	cfg, err := loader.Load()
	if err != nil {
		return err
	}

	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	if o.logFormat != "" {
		cfg.Logging.Format = o.logFormat
	}

	logger, err := newLogger(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return err
	}

	o.cfg = cfg
	o.logger = logger
	logger.Debug("configuration loaded", "path", loader.ConfigPath())
	return nil
}

// requestFlags are the compression flags shared by compress and batch.
type requestFlags struct {
	percentage float64
	components int
	quality    int
	maxDim     int
	sequential bool
	json       bool
	reportPath string
}

func (f *requestFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64VarP(&f.percentage, "percentage", "p", 0, "percentage of principal directions to discard (0-100)")
	cmd.Flags().IntVarP(&f.components, "components", "k", 0, "fixed number of principal components to keep")
	cmd.Flags().IntVarP(&f.quality, "quality", "q", 0, "quality hint for jpeg and webp output (0-100)")
	cmd.Flags().IntVar(&f.maxDim, "max-dim", 0, "downscale so the longest side is at most this many pixels (0 = off)")
	cmd.Flags().BoolVar(&f.sequential, "sequential", false, "decompose channels one after another")
	cmd.Flags().BoolVar(&f.json, "json", false, "print the report as JSON")
	cmd.Flags().StringVar(&f.reportPath, "report", "", "also write the JSON report to this file (.gz and .zst are compressed)")
	cmd.MarkFlagsMutuallyExclusive("percentage", "components")
}

// writeReports prints reports to the command output and saves them when --report is set.
func (f *requestFlags) writeReports(cmd *cobra.Command, reports ...report.Report) error {
	var err error
	if f.json {
		err = report.WriteJSON(cmd.OutOrStdout(), reports...)
	} else {
		err = report.WriteText(cmd.OutOrStdout(), reports...)
	}
	if err != nil {
		return err
	}
	if f.reportPath != "" {
		return report.WriteFile(f.reportPath, reports...)
	}
	return nil
}

// apply overlays explicitly set flags on cfg and validates the result.
func (f *requestFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("percentage") {
		cfg.Compression.Mode = compression.ModeNamePercentage
		cfg.Compression.Value = fmt.Sprint(f.percentage)
	}
	if flags.Changed("components") {
		cfg.Compression.Mode = compression.ModeNameFixed
		cfg.Compression.Value = fmt.Sprint(f.components)
	}
	if flags.Changed("quality") {
		cfg.Output.Quality = f.quality
	}
	if flags.Changed("max-dim") {
		cfg.Processing.MaxDimension = f.maxDim
	}
	if flags.Changed("sequential") {
		cfg.Processing.SequentialChannels = f.sequential
	}
	return cfg.Validate()
}
