//go:build linux

package placement

import (
	"errors"
	"io/fs"

	"golang.org/x/sys/unix"
)

// renameNoReplace uses renameat2(RENAME_NOREPLACE) and falls back to
// link+unlink on filesystems that do not support the flag.
func renameNoReplace(oldpath, newpath string) error {
	err := unix.Renameat2(unix.AT_FDCWD, oldpath, unix.AT_FDCWD, newpath, unix.RENAME_NOREPLACE)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, unix.EEXIST):
		return fs.ErrExist
	case errors.Is(err, unix.EINVAL), errors.Is(err, unix.ENOSYS):
		return linkThenRemove(oldpath, newpath)
	default:
		return &fs.PathError{Op: "rename", Path: oldpath, Err: err}
	}
}
