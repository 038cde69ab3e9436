// Package config holds the run configuration. A Config is built once at
// startup, validated, and then only read.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"fiximg/internal/check"
	"fiximg/internal/placement"
)

// Environment variables consulted by Load.
const (
	EnvJpegoptim = "FIXIMG_JPEGOPTIM"
	EnvWorkers   = "FIXIMG_WORKERS"
	EnvLogLevel  = "FIXIMG_LOG_LEVEL"
	EnvLogFormat = "FIXIMG_LOG_FORMAT"
)

// Config is the immutable description of one run.
type Config struct {
	InputDir      string `yaml:"input_dir" validate:"required,dir"`
	OutputDir     string `yaml:"output_dir,omitempty" validate:"omitempty,dir"`
	RenameInPlace bool   `yaml:"rename_in_place"`

	// Jpegoptim is a command name or path; after pre-flight it is the
	// resolved executable.
	Jpegoptim string `yaml:"jpegoptim" validate:"required"`
	// Workers bounds concurrent items; 0 means one per CPU.
	Workers int `yaml:"workers" validate:"gte=0"`

	StripMetadata     bool `yaml:"strip_metadata"`
	FoldExtensionCase bool `yaml:"fold_extension_case"`
	Strict            bool `yaml:"strict"`
	// DryRun computes digests and destinations but places nothing; no
	// placement target is required.
	DryRun bool `yaml:"dry_run"`

	ReportPath string `yaml:"report_path,omitempty"`
	LogLevel   string `yaml:"log_level" validate:"oneof=debug info warn error"`
	LogFormat  string `yaml:"log_format" validate:"oneof=text json"`
	LogFile    string `yaml:"log_file,omitempty"`
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		Jpegoptim: check.DefaultJpegoptim,
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// Load returns Default overlaid with any FIXIMG_* environment variables.
func Load() (Config, error) {
	cfg := Default()

	if v, ok := os.LookupEnv(EnvJpegoptim); ok && v != "" {
		cfg.Jpegoptim = v
	}
	if v, ok := os.LookupEnv(EnvWorkers); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvWorkers, err)
		}
		cfg.Workers = n
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok && v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v, ok := os.LookupEnv(EnvLogFormat); ok && v != "" {
		cfg.LogFormat = strings.ToLower(v)
	}
	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints and that exactly one placement target
// is selected.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fieldError(verrs[0])
		}
		return err
	}

	switch {
	case c.DryRun:
		return nil
	case c.RenameInPlace && c.OutputDir != "":
		return errors.New("--rename-in-place cannot be used with an output directory")
	case !c.RenameInPlace && c.OutputDir == "":
		return errors.New("an output directory is required unless --rename-in-place is set")
	case c.RenameInPlace && c.StripMetadata:
		return errors.New("--strip has no effect with --rename-in-place: the original file is moved, not rewritten")
	}
	return nil
}

func fieldError(fe validator.FieldError) error {
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s is required", fe.Field())
	case "dir":
		return fmt.Errorf("%s: %q is not a directory", fe.Field(), fe.Value())
	case "oneof":
		return fmt.Errorf("%s must be one of [%s], got %q", fe.Field(), fe.Param(), fe.Value())
	default:
		return fmt.Errorf("%s: invalid value %v (%s)", fe.Field(), fe.Value(), fe.Tag())
	}
}

// Mode is the placement mode selected for the whole run.
func (c *Config) Mode() placement.Mode {
	if c.RenameInPlace {
		return placement.ModeRename
	}
	return placement.ModeCopy
}

// DestDir is where content-addressed files are placed.
func (c *Config) DestDir() string {
	if c.RenameInPlace {
		return c.InputDir
	}
	return c.OutputDir
}

// WorkerCount resolves Workers to a concrete pool size.
func (c *Config) WorkerCount() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.NumCPU()
}

// NormalizeDirArg strips trailing separators from a directory argument,
// leaving a bare root alone.
func NormalizeDirArg(s string) string {
	if s == "" {
		return s
	}
	return filepath.Clean(s)
}
