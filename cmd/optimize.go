package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"fiximg/internal/config"
	"fiximg/internal/logging"
	"fiximg/internal/processor"
	"fiximg/internal/report"
	"fiximg/internal/tui"
)

var optimizeFlags runFlags

var optimizeCmd = &cobra.Command{
	Use:     "optimize [flags] <input> [output]",
	Aliases: []string{"run"},
	Short:   "Optimize images into content-addressed files",
	Long: `Optimize every file directly inside <input>. PNG and JPEG files are
re-encoded losslessly; everything else is copied as is. Each result is named
<blake3-digest>.<extension>.

Either give an [output] directory, or use --rename-in-place to rename the
originals inside <input>.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := optimizeFlags.buildConfig(cmd, args, false)
		if err != nil {
			return err
		}

		rep, err := execute(cmd.Context(), cfg, optimizeFlags.plain)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if failures := rep.Failures(); len(failures) > 0 {
			fmt.Fprintln(out, tui.RenderFailures(failures))
		}
		fmt.Fprintln(out, tui.RenderSummary(tui.SummaryRows(rep)))
		if cfg.RenameInPlace {
			fmt.Fprintln(out, "In-place rename complete.")
		} else {
			outPath := cfg.OutputDir
			if abs, absErr := filepath.Abs(outPath); absErr == nil {
				outPath = abs
			}
			fmt.Fprintf(out, "Optimized files written to: %s\n", outPath)
		}

		return finish(cfg, rep)
	},
}

// execute runs the batch, driving the progress view when stdout is a
// terminal.
func execute(ctx context.Context, cfg *config.Config, plain bool) (processor.Report, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	interactive := !plain && isatty.IsTerminal(os.Stdout.Fd())

	log, closeLog, err := newLogger(cfg, interactive)
	if err != nil {
		return processor.Report{}, err
	}
	defer closeLog()

	opts := processor.Options{
		Codecs: processor.NewCodecs(cfg.Jpegoptim),
		Logger: log,
	}

	if !interactive {
		return processor.Run(ctx, cfg, opts, nil)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	updates := make(chan processor.ProgressUpdate, 64)
	program := tea.NewProgram(tui.NewModel(updates))

	uiDone := make(chan struct{})
	go func() {
		defer close(uiDone)
		if _, err := program.Run(); errors.Is(err, tea.ErrInterrupted) {
			cancel()
		}
		// Keep the run unblocked once the view has gone.
		for range updates {
		}
	}()

	rep, err := processor.Run(ctx, cfg, opts, updates)
	close(updates)
	<-uiDone
	return rep, err
}

// newLogger sends logs to the log file if one is set, otherwise to stderr
// unless the progress view owns the terminal.
func newLogger(cfg *config.Config, interactive bool) (*slog.Logger, func() error, error) {
	noop := func() error { return nil }
	var w io.Writer = os.Stderr
	closeFn := noop
	switch {
	case cfg.LogFile != "":
		f, err := logging.OpenFile(cfg.LogFile)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w, closeFn = f, f.Close
	case interactive:
		return logging.Discard(), noop, nil
	}
	log, err := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, Writer: w})
	if err != nil {
		_ = closeFn()
		return nil, nil, err
	}
	return log, closeFn, nil
}

// finish writes the optional report and applies --strict.
func finish(cfg *config.Config, rep processor.Report) error {
	if cfg.ReportPath != "" {
		if err := report.Save(cfg.ReportPath, report.Build(cfg, rep, time.Now())); err != nil {
			return err
		}
	}
	if n := len(rep.Failures()); cfg.Strict && n > 0 {
		return fmt.Errorf("%d of %d files failed", n, len(rep.Outcomes))
	}
	return nil
}

func init() {
	optimizeFlags.register(optimizeCmd)
	rootCmd.AddCommand(optimizeCmd)
}
