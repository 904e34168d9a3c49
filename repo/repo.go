// Package repo locates, creates, and opens lit repositories:
// a worktree directory with a .lit metadata directory at its top.
package repo

import (
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-ini/ini"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/bobg/lit"
	"github.com/bobg/lit/compress"
	"github.com/bobg/lit/store/file"
	"github.com/bobg/lit/store/logging"
	"github.com/bobg/lit/store/lru"
)

// Repo is a handle on an open repository.
type Repo struct {
	worktree string
	metaDir  string
	conf     *ini.File

	files   *file.Store
	objects lit.Store

	logger    *zap.Logger
	c         compress.Compressor
	cacheSize int
}

// Option configures a Repo in Create, Open, and Find.
type Option func(*Repo)

// WithLogger sets the logger for repository operations.
// The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(r *Repo) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithCompressor sets the compressor for loose objects.
// The default is compress.Default.
func WithCompressor(c compress.Compressor) Option {
	return func(r *Repo) {
		if c != nil {
			r.c = c
		}
	}
}

// WithObjectCache keeps up to size recently used frames in memory.
// Zero (the default) disables the cache.
func WithObjectCache(size int) Option {
	return func(r *Repo) {
		r.cacheSize = size
	}
}

func newRepo(worktree string, opts ...Option) *Repo {
	r := &Repo{
		worktree: worktree,
		metaDir:  Join(worktree, MetaDirName),
		logger:   zap.NewNop(),
		c:        compress.Default,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Repo) openObjects() error {
	r.files = file.New(r.Path("objects"), file.WithCompressor(r.c))

	var s lit.Store = r.files
	if r.cacheSize > 0 {
		cached, err := lru.New(s, r.cacheSize)
		if err != nil {
			return errors.Wrap(err, "creating object cache")
		}
		s = cached
	}
	r.objects = logging.New(s, r.logger)
	return nil
}

// Open opens the repository whose worktree is path.
// Path must contain a metadata directory,
// and that must contain a config file
// whose core.repositoryformatversion is FormatVersion.
func Open(path string, opts ...Option) (*Repo, error) {
	worktree, err := canonical(path)
	if err != nil {
		return nil, err
	}
	r := newRepo(worktree, opts...)

	info, err := os.Stat(r.metaDir)
	if os.IsNotExist(err) {
		return nil, &NotRepositoryError{Path: worktree}
	}
	if err != nil {
		return nil, errors.Wrapf(err, "statting %s", r.metaDir)
	}
	if !info.IsDir() {
		return nil, &NotDirectoryError{Path: r.metaDir}
	}

	r.conf, err = loadConfig(r.Path(configFileName))
	if err != nil {
		return nil, err
	}
	if err = r.openObjects(); err != nil {
		return nil, err
	}

	r.logger.Debug("opened repository", zap.String("worktree", worktree))
	return r, nil
}

// Worktree is the absolute path of the repository's working directory.
func (r *Repo) Worktree() string { return r.worktree }

// MetaDir is the absolute path of the repository's metadata directory.
func (r *Repo) MetaDir() string { return r.metaDir }

// Path joins segments onto the metadata directory.
func (r *Repo) Path(segments ...string) string {
	return Join(r.metaDir, segments...)
}

// Dir is ResolveDir relative to the metadata directory.
func (r *Repo) Dir(create bool, segments ...string) (string, bool, error) {
	return ResolveDir(r.metaDir, create, segments...)
}

// File is ResolveFile relative to the metadata directory.
func (r *Repo) File(create bool, segments ...string) (string, bool, error) {
	return ResolveFile(r.metaDir, create, segments...)
}

// Config is the parsed contents of the repository's config file.
func (r *Repo) Config() *ini.File { return r.conf }

// ConfigString is the value of key in section,
// or the empty string if there is none.
func (r *Repo) ConfigString(section, key string) string {
	return r.conf.Section(section).Key(key).String()
}

// ConfigBool parses the value of key in section as a boolean.
func (r *Repo) ConfigBool(section, key string) (bool, error) {
	v, err := r.conf.Section(section).Key(key).Bool()
	return v, errors.Wrapf(err, "parsing %s.%s", section, key)
}

// FormatVersion is the repository's core.repositoryformatversion.
func (r *Repo) FormatVersion() string {
	return r.ConfigString(coreSection, formatVersionKey)
}

// Head is the ref named in HEAD, e.g. refs/heads/master.
// If HEAD is detached, the result is the address it contains.
func (r *Repo) Head() (string, error) {
	b, err := ioutil.ReadFile(r.Path(headName))
	if err != nil {
		return "", errors.Wrap(err, "reading HEAD")
	}
	return strings.TrimPrefix(strings.TrimSpace(string(b)), headRefPrefix), nil
}

// Description is the contents of the repository's description file.
func (r *Repo) Description() (string, error) {
	b, err := ioutil.ReadFile(r.Path(descriptionName))
	return string(b), errors.Wrap(err, "reading description")
}

// Objects is the repository's object store.
func (r *Repo) Objects() lit.Store { return r.objects }

// Files is the loose-object store underneath Objects.
func (r *Repo) Files() *file.Store { return r.files }

// WriteObject stores obj in the repository and returns its address.
func (r *Repo) WriteObject(ctx context.Context, obj lit.Object) (lit.Address, error) {
	return lit.Write(ctx, r.objects, obj)
}

// ReadObject reads the object at addr.
// The error wraps lit.ErrNotFound if there is no such object.
func (r *Repo) ReadObject(ctx context.Context, addr lit.Address) (lit.Object, error) {
	return lit.Read(ctx, r.objects, addr)
}

// Resolve turns a full or abbreviated hex name into an address.
func (r *Repo) Resolve(ctx context.Context, name string) (lit.Address, error) {
	return lit.Resolve(ctx, r.objects, name)
}

func canonical(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrapf(err, "getting absolute path of %s", path)
	}
	res, err := filepath.EvalSymlinks(abs)
	return res, errors.Wrapf(err, "resolving symlinks in %s", abs)
}
