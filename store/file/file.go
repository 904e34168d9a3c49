// Package file implements an object store as a file hierarchy of loose objects.
//
// Each object lives, compressed, at <root>/<first 2 hex digits>/<remaining 38>.
package file

import (
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/bobg/lit"
	"github.com/bobg/lit/compress"
	"github.com/bobg/lit/store"
)

var _ lit.Store = &Store{}

const tmpPrefix = "tmp_obj_"

// Store is a file-based implementation of an object store.
type Store struct {
	root string
	c    compress.Compressor
}

// Option configures a Store.
type Option func(*Store)

// WithCompressor sets the compressor used for objects at rest.
// The default is compress.Default (zlib).
func WithCompressor(c compress.Compressor) Option {
	return func(s *Store) {
		s.c = c
	}
}

// New produces a new Store keeping objects beneath `root`.
func New(root string, opts ...Option) *Store {
	s := &Store{root: root, c: compress.Default}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Root is the directory under which objects are kept.
func (s *Store) Root() string {
	return s.root
}

// Path is the file in which the object with address `addr` is kept.
func (s *Store) Path(addr lit.Address) string {
	dir, file := addr.Fanout()
	return filepath.Join(s.root, dir, file)
}

// Has tells whether the store holds the object with address `addr`.
func (s *Store) Has(_ context.Context, addr lit.Address) (bool, error) {
	path := s.Path(addr)
	_, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, "statting %s", path)
	}
	return true, nil
}

// Get gets the frame with address `addr`.
func (s *Store) Get(_ context.Context, addr lit.Address) ([]byte, error) {
	path := s.Path(addr)
	data, err := ioutil.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, lit.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	frame, err := s.c.Uncompress(data)
	return frame, errors.Wrapf(err, "uncompressing %s", path)
}

// Put adds a frame to the store if it wasn't already present.
// When the object's file already exists, nothing is written.
// A new object is written to a temporary file in its fan-out directory
// and renamed into place,
// so an interrupted Put never leaves a truncated object at its final path.
func (s *Store) Put(_ context.Context, frame []byte) (lit.Address, bool, error) {
	var (
		addr = lit.Digest(frame)
		path = s.Path(addr)
		dir  = filepath.Dir(path)
	)

	_, err := os.Stat(path)
	if err == nil {
		return addr, false, nil
	}
	if !os.IsNotExist(err) {
		return lit.Zero, false, errors.Wrapf(err, "statting %s", path)
	}

	err = os.MkdirAll(dir, 0755)
	if err != nil {
		return lit.Zero, false, errors.Wrapf(err, "ensuring path %s exists", dir)
	}

	data, err := s.c.Compress(frame)
	if err != nil {
		return lit.Zero, false, errors.Wrapf(err, "compressing object %s", addr)
	}

	f, err := ioutil.TempFile(dir, tmpPrefix)
	if err != nil {
		return lit.Zero, false, errors.Wrapf(err, "creating temp file in %s", dir)
	}
	tmpname := f.Name()
	defer os.Remove(tmpname) // no-op after a successful rename

	_, err = f.Write(data)
	if err != nil {
		f.Close()
		return lit.Zero, false, errors.Wrapf(err, "writing data to %s", tmpname)
	}
	err = f.Close()
	if err != nil {
		return lit.Zero, false, errors.Wrapf(err, "closing %s", tmpname)
	}
	err = os.Chmod(tmpname, 0644)
	if err != nil {
		return lit.Zero, false, errors.Wrapf(err, "setting mode of %s", tmpname)
	}

	err = os.Rename(tmpname, path)
	if err != nil {
		return lit.Zero, false, errors.Wrapf(err, "renaming %s to %s", tmpname, path)
	}

	return addr, true, nil
}

// ListAddresses produces all object addresses in the store, in lexicographic order.
func (s *Store) ListAddresses(ctx context.Context, start lit.Address, f func(lit.Address) error) error {
	topLevel, err := ioutil.ReadDir(s.root)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.Wrapf(err, "reading dir %s", s.root)
	}

	startHex := start.String()
	topIndex := sort.Search(len(topLevel), func(n int) bool {
		return topLevel[n].Name() >= startHex[:2]
	})
	for i := topIndex; i < len(topLevel); i++ {
		topInfo := topLevel[i]
		if !topInfo.IsDir() {
			continue
		}
		topName := topInfo.Name()
		if len(topName) != 2 || !isLowerHex(topName) {
			continue
		}

		dir := filepath.Join(s.root, topName)
		objInfos, err := ioutil.ReadDir(dir)
		if err != nil {
			return errors.Wrapf(err, "reading dir %s", dir)
		}

		for _, objInfo := range objInfos {
			name := objInfo.Name()
			if objInfo.IsDir() || strings.HasPrefix(name, tmpPrefix) {
				continue
			}
			full := topName + name
			if full <= startHex {
				continue
			}
			addr, err := lit.AddressFromHex(full)
			if err != nil || !isLowerHex(full) {
				continue
			}

			if err = ctx.Err(); err != nil {
				return err
			}
			err = f(addr)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func isLowerHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !('0' <= c && c <= '9') && !('a' <= c && c <= 'f') {
			return false
		}
	}
	return true
}

func init() {
	store.Register("file", func(_ context.Context, conf map[string]interface{}) (lit.Store, error) {
		root, ok := conf["root"].(string)
		if !ok {
			return nil, errors.New(`missing "root" parameter`)
		}
		var opts []Option
		if name, ok := conf["compressor"].(string); ok {
			level := -1
			if l, ok := conf["level"].(float64); ok {
				level = int(l)
			}
			c, err := compress.ByName(name, level)
			if err != nil {
				return nil, err
			}
			opts = append(opts, WithCompressor(c))
		}
		return New(root, opts...), nil
	})
}
