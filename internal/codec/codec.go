// Package codec wraps the format-specific lossless re-encoders.
//
// PNG is optimized in process by recompressing the image data stream.
// JPEG is handed to an external jpegoptim binary over stdin/stdout.
// Both are exposed as Optimizers so the batch runner can treat them alike
// and tests can substitute their own.
package codec

import (
	"context"
	"fmt"
)

// Optimizer re-encodes a whole in-memory image. Implementations must not
// retain or modify src.
type Optimizer interface {
	Optimize(ctx context.Context, src []byte) ([]byte, error)
}

// OptimizerFunc adapts a plain function to Optimizer.
type OptimizerFunc func(ctx context.Context, src []byte) ([]byte, error)

func (f OptimizerFunc) Optimize(ctx context.Context, src []byte) ([]byte, error) {
	return f(ctx, src)
}

// Error reports that an optimizer rejected or failed to process its input.
type Error struct {
	Format string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s codec: %v", e.Format, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func pngErr(format string, args ...any) error {
	return &Error{Format: "png", Err: fmt.Errorf(format, args...)}
}

func jpegErr(format string, args ...any) error {
	return &Error{Format: "jpeg", Err: fmt.Errorf(format, args...)}
}
