//go:build !linux

package placement

func renameNoReplace(oldpath, newpath string) error {
	return linkThenRemove(oldpath, newpath)
}
