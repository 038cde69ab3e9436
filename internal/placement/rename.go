package placement

import "os"

// linkThenRemove moves oldpath to newpath without replacing an existing
// file. If the old name cannot be removed the new link is undone so the
// file stays at its original path only.
func linkThenRemove(oldpath, newpath string) error {
	if err := linkNoReplace(oldpath, newpath); err != nil {
		return err
	}
	if err := os.Remove(oldpath); err != nil {
		_ = os.Remove(newpath)
		return err
	}
	return nil
}
