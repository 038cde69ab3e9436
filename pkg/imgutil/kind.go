// Package imgutil classifies files into the image kinds the optimizer
// understands.
package imgutil

import (
	"path/filepath"
	"strings"
)

// Kind identifies how a file is optimized.
type Kind int

const (
	KindOther Kind = iota
	KindPNG
	KindJPEG
)

func (k Kind) String() string {
	switch k {
	case KindJPEG:
		return "jpeg"
	case KindPNG:
		return "png"
	default:
		return "other"
	}
}

// MarshalText lets reports render the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Ext returns the extension of path without the leading dot, exactly as
// it appears on disk. A file without an extension yields "".
func Ext(path string) string {
	return strings.TrimPrefix(filepath.Ext(path), ".")
}

// Classify maps a path to a Kind using its extension only. The
// comparison is against the literal lowercase names unless foldCase is
// set. It never fails: unknown and missing extensions are KindOther.
func Classify(path string, foldCase bool) Kind {
	ext := Ext(path)
	if foldCase {
		ext = strings.ToLower(ext)
	}

	switch ext {
	case "png":
		return KindPNG
	case "jpeg", "jpg":
		return KindJPEG
	default:
		return KindOther
	}
}
