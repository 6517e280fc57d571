package main

import (
	"github.com/spf13/cobra"
)

func newCompressCmd(global *globalOptions) *cobra.Command {
	var (
		flags  requestFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "compress <image>",
		Short: "Compress a single image",
		Long: `Compress a single image and print its quality report.

Examples:
  pcacompress compress photo.png -p 80
  pcacompress compress photo.jpg -k 25 -o small.jpg --json
  pcacompress compress scan.bmp -p 50 --max-dim 1024`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.apply(cmd, global.cfg); err != nil {
				return err
			}

			p, err := newPipeline(global.cfg, global.logger)
			if err != nil {
				return err
			}

			input := args[0]
			if output == "" {
				output = p.outputPath(input)
			}

			r, err := p.run(input, output)
			if err != nil {
				return err
			}
			return flags.writeReports(cmd, r)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <output.dir>/<output.prefix><name>)")

	return cmd
}
