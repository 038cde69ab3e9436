package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"fiximg/internal/check"
	"fiximg/internal/config"
)

var checkTool string

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify that the external optimizers are installed",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("jpegoptim") {
			cfg.Jpegoptim = checkTool
		}

		path, err := check.Jpegoptim(cfg.Jpegoptim)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "jpegoptim: %s\n", path)
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		if v, err := check.Version(ctx, path); err == nil && v != "" {
			fmt.Fprintf(out, "version:   %s\n", v)
		}
		return nil
	},
}

func init() {
	checkCmd.Flags().StringVar(&checkTool, "jpegoptim", "", "jpegoptim command or path (env "+config.EnvJpegoptim+")")
	rootCmd.AddCommand(checkCmd)
}
