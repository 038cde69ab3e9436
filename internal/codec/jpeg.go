package codec

import (
	"bytes"
	"context"
	"errors"
	"os/exec"

	"fiximg/pkg/imgutil"
)

// JPEGOptimizer runs an external jpegoptim once per image. The input is
// written to the process's stdin and the optimized image read from its
// stdout; stderr is discarded. Each call owns its process from start to
// exit.
type JPEGOptimizer struct {
	// Path is the resolved jpegoptim executable.
	Path string
	// Args are passed after --stdin --stdout.
	Args []string
}

// NewJPEGOptimizer returns an optimizer that invokes the tool at path.
func NewJPEGOptimizer(path string) *JPEGOptimizer {
	return &JPEGOptimizer{Path: path}
}

func (o *JPEGOptimizer) Optimize(ctx context.Context, src []byte) ([]byte, error) {
	args := append([]string{"--stdin", "--stdout"}, o.Args...)
	cmd := exec.CommandContext(ctx, o.Path, args...)

	var stdout bytes.Buffer
	cmd.Stdin = bytes.NewReader(src)
	cmd.Stdout = &stdout
	cmd.Stderr = nil

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, jpegErr("jpegoptim exited with status %d", exitErr.ExitCode())
		}
		return nil, &Error{Format: "jpeg", Err: err}
	}

	out := stdout.Bytes()
	if err := checkJPEG(out); err != nil {
		return nil, err
	}
	return out, nil
}

// checkJPEG rejects empty or truncated tool output: a complete JPEG starts
// with SOI and ends with EOI.
func checkJPEG(out []byte) error {
	if len(out) == 0 {
		return jpegErr("jpegoptim produced no output")
	}
	if kind, err := imgutil.Sniff(out); err != nil || kind != imgutil.KindJPEG {
		return jpegErr("jpegoptim output is not a JPEG")
	}
	if !bytes.HasSuffix(out, []byte{0xff, 0xd9}) {
		return jpegErr("jpegoptim output is truncated")
	}
	return nil
}
