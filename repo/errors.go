package repo

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrCannotFindRepository is returned by Find
// when no ancestor of the starting directory holds a repository.
var ErrCannotFindRepository = errors.New("cannot find lit repository")

// NotDirectoryError is returned when a path that must be a directory is something else.
type NotDirectoryError struct {
	Path string
}

func (e *NotDirectoryError) Error() string {
	return fmt.Sprintf("%s is not a directory", e.Path)
}

// NotEmptyError is returned by Create
// when the target directory has content and force was not given.
type NotEmptyError struct {
	Path string
}

func (e *NotEmptyError) Error() string {
	return fmt.Sprintf("directory %s is not empty", e.Path)
}

// NotRepositoryError is returned by Open
// for a directory with no metadata directory in it.
type NotRepositoryError struct {
	Path string
}

func (e *NotRepositoryError) Error() string {
	return fmt.Sprintf("%s is not a lit repository", e.Path)
}

// MissingConfigFileError is returned by Open
// when the metadata directory has no config file.
type MissingConfigFileError struct {
	Path string
}

func (e *MissingConfigFileError) Error() string {
	return fmt.Sprintf("missing configuration file %s", e.Path)
}

// UnsupportedFormatVersionError is returned by Open
// when core.repositoryformatversion is anything other than FormatVersion.
type UnsupportedFormatVersionError struct {
	Version string
}

func (e *UnsupportedFormatVersionError) Error() string {
	return fmt.Sprintf("unsupported repositoryformatversion %q", e.Version)
}
