package repo

import (
	"github.com/pkg/errors"
)

// Find looks for a repository at start and then at each of its ancestors,
// opening the nearest one it finds.
// Start is canonicalized first, so relative paths and symlinks are fine.
//
// If the search reaches the filesystem root without finding a repository,
// Find returns ErrCannotFindRepository when required is true,
// and nil, nil otherwise.
func Find(start string, required bool, opts ...Option) (*Repo, error) {
	path, err := canonical(start)
	if err != nil {
		return nil, err
	}
	for {
		_, ok, err := ResolveDir(path, false, MetaDirName)
		if err != nil {
			var nde *NotDirectoryError
			if !errors.As(err, &nde) {
				return nil, err
			}
			// A stray .lit file is not a repository; keep looking.
		}
		if ok {
			return Open(path, opts...)
		}

		parent, err := canonical(Join(path, ".."))
		if err != nil {
			return nil, err
		}
		if parent == path {
			if required {
				return nil, errors.Wrapf(ErrCannotFindRepository, "searching from %s", start)
			}
			return nil, nil
		}
		path = parent
	}
}
