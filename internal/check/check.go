// Package check resolves the external tools a run depends on before any
// work starts.
package check

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// DefaultJpegoptim is the tool name searched on PATH when none is
// configured.
const DefaultJpegoptim = "jpegoptim"

// ToolNotFoundError means a required executable could not be resolved.
type ToolNotFoundError struct {
	Tool string
	Err  error
}

func (e *ToolNotFoundError) Error() string {
	return fmt.Sprintf("%s not found, please ensure there is a %s on the PATH", e.Tool, e.Tool)
}

func (e *ToolNotFoundError) Unwrap() error {
	return e.Err
}

// Jpegoptim resolves name (a bare command or a path) to an executable.
func Jpegoptim(name string) (string, error) {
	if name == "" {
		name = DefaultJpegoptim
	}
	path, err := exec.LookPath(name)
	if err != nil {
		return "", &ToolNotFoundError{Tool: toolName(name), Err: err}
	}
	return path, nil
}

func toolName(name string) string {
	if runtime.GOOS == "windows" && !strings.HasSuffix(strings.ToLower(name), ".exe") {
		return name + ".exe"
	}
	return name
}

// Version returns the first line of `<path> --version`.
func Version(ctx context.Context, path string) (string, error) {
	out, err := exec.CommandContext(ctx, path, "--version").Output()
	if err != nil {
		return "", err
	}
	line := strings.TrimSpace(string(out))
	if idx := strings.IndexByte(line, '\n'); idx > 0 {
		line = line[:idx]
	}
	return line, nil
}
