package repo

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Join folds segments onto base.
// It never touches the filesystem.
func Join(base string, segments ...string) string {
	return filepath.Join(append([]string{base}, segments...)...)
}

// ResolveDir computes the directory base/segments...
// and reports whether it exists.
// If the path exists but is not a directory, the error is a *NotDirectoryError.
// If it does not exist and create is true, it is created along with any missing ancestors.
// If it does not exist and create is false, the result is the path and false, with no error.
func ResolveDir(base string, create bool, segments ...string) (string, bool, error) {
	path := Join(base, segments...)

	info, err := os.Stat(path)
	if err == nil {
		if !info.IsDir() {
			return path, false, &NotDirectoryError{Path: path}
		}
		return path, true, nil
	}
	if !os.IsNotExist(err) {
		return path, false, errors.Wrapf(err, "statting %s", path)
	}
	if !create {
		return path, false, nil
	}
	if err = os.MkdirAll(path, 0755); err != nil {
		return path, false, errors.Wrapf(err, "creating %s", path)
	}
	return path, true, nil
}

// ResolveFile is like ResolveDir,
// but applies to the parent of the final segment.
// The boolean reports whether that parent directory exists (or was created);
// the file itself may or may not exist.
func ResolveFile(base string, create bool, segments ...string) (string, bool, error) {
	if len(segments) == 0 {
		return base, false, errors.New("no file name")
	}
	dir, ok, err := ResolveDir(base, create, segments[:len(segments)-1]...)
	if err != nil || !ok {
		return Join(dir, segments[len(segments)-1]), ok, err
	}
	return Join(dir, segments[len(segments)-1]), true, nil
}
