package processor

import (
	"errors"
	"fmt"

	"fiximg/internal/codec"
	"fiximg/internal/placement"
)

// ErrorClass names the kind of failure an Outcome carries.
type ErrorClass string

const (
	ClassNone      ErrorClass = ""
	ClassCodec     ErrorClass = "codec"
	ClassCollision ErrorClass = "collision"
	ClassIO        ErrorClass = "io"
	ClassUnknown   ErrorClass = "unknown"
)

// IOError is a filesystem failure while reading, writing or renaming.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// Classify maps err to its ErrorClass.
func Classify(err error) ErrorClass {
	if err == nil {
		return ClassNone
	}

	var (
		collision *placement.CollisionError
		codecErr  *codec.Error
		ioErr     *IOError
	)
	switch {
	case errors.As(err, &collision):
		return ClassCollision
	case errors.As(err, &codecErr):
		return ClassCodec
	case errors.As(err, &ioErr):
		return ClassIO
	default:
		return ClassUnknown
	}
}
