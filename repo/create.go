package repo

import (
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Create makes a new repository with its worktree at path.
//
// Path may be absent, in which case it is created,
// or an empty directory.
// A non-empty directory is an error (*NotEmptyError) unless force is true.
// Anything other than a directory is a *NotDirectoryError.
//
// Create lays out objects/, refs/heads/, and refs/tags/ in the metadata directory,
// and writes description, HEAD, and config files.
// Each file is written to a temporary name and renamed into place.
// With force, files that already exist are left alone,
// so re-running Create on a repository repairs it without discarding anything.
func Create(path string, force bool, opts ...Option) (*Repo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrapf(err, "getting absolute path of %s", path)
	}

	info, err := os.Stat(abs)
	switch {
	case os.IsNotExist(err):
		if err = os.MkdirAll(abs, 0755); err != nil {
			return nil, errors.Wrapf(err, "creating %s", abs)
		}

	case err != nil:
		return nil, errors.Wrapf(err, "statting %s", abs)

	case !info.IsDir():
		return nil, &NotDirectoryError{Path: abs}

	case !force:
		infos, err := ioutil.ReadDir(abs)
		if err != nil {
			return nil, errors.Wrapf(err, "reading %s", abs)
		}
		if len(infos) > 0 {
			return nil, &NotEmptyError{Path: abs}
		}
	}

	worktree, err := canonical(abs)
	if err != nil {
		return nil, err
	}
	r := newRepo(worktree, opts...)
	l := r.logger.With(zap.String("worktree", worktree))

	for _, segs := range [][]string{
		{"objects"},
		{"refs", "heads"},
		{"refs", "tags"},
	} {
		dir, _, err := r.Dir(true, segs...)
		if err != nil {
			return nil, err
		}
		l.Info("created directory", zap.String("path", dir))
	}

	conf, err := DefaultConfig()
	if err != nil {
		return nil, err
	}
	confBytes, err := marshalConfig(conf)
	if err != nil {
		return nil, err
	}

	for _, f := range []struct {
		name    string
		content []byte
	}{
		{descriptionName, []byte(defaultDesc)},
		{headName, []byte(defaultHead)},
		{configFileName, confBytes},
	} {
		filename, _, err := r.File(true, f.name)
		if err != nil {
			return nil, err
		}
		wrote, err := writeNewFile(filename, f.content)
		if err != nil {
			return nil, err
		}
		if wrote {
			l.Info("wrote file", zap.String("path", filename))
		} else {
			l.Info("kept existing file", zap.String("path", filename))
		}
	}

	return Open(worktree, opts...)
}

// writeNewFile writes content to filename unless filename already exists.
// It reports whether it wrote.
func writeNewFile(filename string, content []byte) (bool, error) {
	_, err := os.Stat(filename)
	if err == nil {
		return false, nil
	}
	if !os.IsNotExist(err) {
		return false, errors.Wrapf(err, "statting %s", filename)
	}

	dir, base := filepath.Split(filename)
	tmp, err := ioutil.TempFile(dir, "tmp_"+base+"_")
	if err != nil {
		return false, errors.Wrapf(err, "creating temp file for %s", filename)
	}
	tmpname := tmp.Name()
	defer os.Remove(tmpname)

	_, err = tmp.Write(content)
	if err != nil {
		tmp.Close()
		return false, errors.Wrapf(err, "writing %s", tmpname)
	}
	if err = tmp.Close(); err != nil {
		return false, errors.Wrapf(err, "closing %s", tmpname)
	}
	if err = os.Chmod(tmpname, filePerm); err != nil {
		return false, errors.Wrapf(err, "setting permissions on %s", tmpname)
	}
	if err = os.Rename(tmpname, filename); err != nil {
		return false, errors.Wrapf(err, "renaming %s to %s", tmpname, filename)
	}
	return true, nil
}
