package cmd

import (
	"github.com/spf13/cobra"

	"fiximg/internal/check"
	"fiximg/internal/config"
)

// runFlags are shared by optimize and scan. Values are copied onto the
// config only when set on the command line so environment defaults hold.
type runFlags struct {
	renameInPlace bool
	workers       int
	strip         bool
	ignoreCase    bool
	strict        bool
	plain         bool
	jpegoptim     string
	report        string
	logLevel      string
	logFormat     string
	logFile       string
}

func (f *runFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.BoolVarP(&f.renameInPlace, "rename-in-place", "r", false, "rename the input files in place instead of writing to an output directory")
	fs.IntVarP(&f.workers, "workers", "j", 0, "number of files processed at once (default: one per CPU)")
	fs.BoolVar(&f.strip, "strip", false, "strip EXIF/XMP/IPTC and text metadata before optimizing")
	fs.BoolVar(&f.ignoreCase, "ignore-case", false, "match image extensions case-insensitively")
	fs.BoolVar(&f.strict, "strict", false, "exit non-zero if any file fails")
	fs.BoolVar(&f.plain, "plain", false, "disable the interactive progress view")
	fs.StringVar(&f.jpegoptim, "jpegoptim", "", "jpegoptim command or path (env "+config.EnvJpegoptim+")")
	fs.StringVar(&f.report, "report", "", "write a YAML report of every outcome to this path")
	fs.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn, error (env "+config.EnvLogLevel+")")
	fs.StringVar(&f.logFormat, "log-format", "", "log format: text or json (env "+config.EnvLogFormat+")")
	fs.StringVar(&f.logFile, "log-file", "", "append logs to this file")
}

// buildConfig merges defaults, environment and flags, resolves jpegoptim
// and validates the result. The tool is resolved before anything touches
// the input or output directory; both must already exist.
func (f *runFlags) buildConfig(cmd *cobra.Command, args []string, dryRun bool) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	fs := cmd.Flags()
	cfg.InputDir = config.NormalizeDirArg(args[0])
	if len(args) > 1 {
		cfg.OutputDir = config.NormalizeDirArg(args[1])
	}
	cfg.RenameInPlace = f.renameInPlace
	cfg.StripMetadata = f.strip
	cfg.FoldExtensionCase = f.ignoreCase
	cfg.Strict = f.strict
	cfg.DryRun = dryRun
	cfg.ReportPath = f.report
	cfg.LogFile = f.logFile
	if fs.Changed("workers") {
		cfg.Workers = f.workers
	}
	if fs.Changed("jpegoptim") {
		cfg.Jpegoptim = f.jpegoptim
	}
	if fs.Changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if fs.Changed("log-format") {
		cfg.LogFormat = f.logFormat
	}

	tool, err := check.Jpegoptim(cfg.Jpegoptim)
	if err != nil {
		return nil, err
	}
	cfg.Jpegoptim = tool

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
