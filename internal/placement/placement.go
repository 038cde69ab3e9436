// Package placement puts optimized payloads at their content-addressed
// destination without ever replacing an existing file.
package placement

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"
)

// Mode selects how every item in a run is placed.
type Mode int

const (
	// ModeCopy writes the optimized bytes to a new file in the output
	// directory and leaves the source alone.
	ModeCopy Mode = iota
	// ModeRename moves the source file to its digest name in the input
	// directory.
	ModeRename
)

func (m Mode) String() string {
	switch m {
	case ModeRename:
		return "rename-in-place"
	default:
		return "copy"
	}
}

// MarshalText renders the mode by name in reports.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// CollisionError means the destination already existed when the item
// tried to claim it: an identical payload was already placed.
type CollisionError struct {
	Path string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("destination already exists: %s", e.Path)
}

// Is makes errors.Is(err, fs.ErrExist) hold for collisions.
func (e *CollisionError) Is(target error) bool {
	return target == fs.ErrExist
}

// Request describes one placement.
type Request struct {
	Payload    []byte
	Filename   string
	SourcePath string
}

// Placer places items for one run. The zero value is not usable; build
// one with New.
type Placer struct {
	mode Mode
	dir  string

	// wrap lets tests interpose on the temp-file writer.
	wrap func(io.Writer) io.Writer
}

// New returns a Placer writing into dir. In ModeRename dir is the input
// directory.
func New(mode Mode, dir string) *Placer {
	return &Placer{mode: mode, dir: dir}
}

// Mode reports the configured mode.
func (p *Placer) Mode() Mode {
	return p.mode
}

// Place puts req at dir/req.Filename and returns the destination path.
// A pre-existing destination yields *CollisionError and leaves both the
// destination and the source untouched.
func (p *Placer) Place(req Request) (string, error) {
	dest := filepath.Join(p.dir, req.Filename)

	var err error
	if p.mode == ModeRename {
		err = renameNoReplace(req.SourcePath, dest)
	} else {
		err = p.writeNew(dest, req.Payload)
	}
	if errors.Is(err, fs.ErrExist) {
		return dest, &CollisionError{Path: dest}
	}
	return dest, err
}

// writeNew stages the payload in a temp file next to dest and links it
// into place. link(2) fails if dest exists, so the claim is atomic and a
// failed write never leaves a partial file under the digest name.
func (p *Placer) writeNew(dest string, payload []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(dest), ".fiximg-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	var w io.Writer = tmp
	if p.wrap != nil {
		w = p.wrap(tmp)
	}
	if _, err := w.Write(payload); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}

	err = linkNoReplace(tmp.Name(), dest)
	if linkUnsupported(err) {
		return p.createExclusive(dest, payload)
	}
	return err
}

// createExclusive writes payload with O_EXCL for filesystems without hard
// links. dest is removed again if the write fails.
func (p *Placer) createExclusive(dest string, payload []byte) error {
	f, err := os.OpenFile(dest, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fs.ErrExist
		}
		return err
	}

	var w io.Writer = f
	if p.wrap != nil {
		w = p.wrap(f)
	}
	_, err = w.Write(payload)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(dest)
		return err
	}
	return nil
}

// link is os.Link; tests replace it to simulate filesystems that refuse
// hard links.
var link = os.Link

func linkNoReplace(oldpath, newpath string) error {
	err := link(oldpath, newpath)
	var linkErr *os.LinkError
	if errors.As(err, &linkErr) && errors.Is(linkErr.Err, fs.ErrExist) {
		return fs.ErrExist
	}
	return err
}

func linkUnsupported(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, syscall.EPERM) ||
		errors.Is(err, syscall.ENOTSUP) ||
		errors.Is(err, syscall.EXDEV) ||
		errors.Is(err, errors.ErrUnsupported)
}
