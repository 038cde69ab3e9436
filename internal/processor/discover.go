package processor

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"fiximg/pkg/imgutil"
)

// Discover lists dir once, non-recursively, and classifies every regular
// file. Subdirectories and special files are skipped. Symlinks are
// followed; a link that cannot be resolved becomes an Item that fails
// with an IOError instead of being dropped. Failing to read dir itself is
// returned as an error.
func Discover(dir string, foldCase bool, log *slog.Logger) ([]Item, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &IOError{Op: "open", Path: dir, Err: err}
	}

	items := make([]Item, 0, len(entries))
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		kind := imgutil.Classify(path, foldCase)

		mode := entry.Type()
		if mode&fs.ModeSymlink != 0 {
			info, err := os.Stat(path)
			if err != nil {
				items = append(items, Item{Path: path, Kind: kind, err: &IOError{Op: "stat", Path: path, Err: err}})
				continue
			}
			mode = info.Mode().Type()
		}

		if !mode.IsRegular() {
			log.Debug("skipping entry", "path", path, "type", mode.String())
			continue
		}
		items = append(items, Item{Path: path, Kind: kind})
	}
	return items, nil
}
