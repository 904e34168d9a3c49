// Package gcs implements an object store on Google Cloud Storage.
package gcs

import (
	"context"
	"io/ioutil"
	"net/http"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/pkg/errors"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/bobg/lit"
	"github.com/bobg/lit/compress"
	"github.com/bobg/lit/store"
)

var _ lit.Store = &Store{}

// Store is a Google Cloud Storage-based implementation of an object store.
// Each frame is a compressed GCS object named objects/<2 hex>/<38 hex>,
// mirroring the loose-object layout on disk.
type Store struct {
	bucket *storage.BucketHandle
	c      compress.Compressor
}

// New produces a new Store.
func New(bucket *storage.BucketHandle) *Store {
	return &Store{bucket: bucket, c: compress.Default}
}

const namePrefix = "objects/"

// Get gets the frame with address `addr`.
func (s *Store) Get(ctx context.Context, addr lit.Address) ([]byte, error) {
	name := objName(addr)
	r, err := s.bucket.Object(name).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, lit.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading object %s", name)
	}
	defer r.Close()

	data, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, errors.Wrapf(err, "reading contents of object %s", name)
	}
	frame, err := s.c.Uncompress(data)
	return frame, errors.Wrapf(err, "uncompressing object %s", name)
}

// Put adds a frame to the store if it wasn't already present.
// The write is conditional on the object not existing,
// so a concurrent writer of the same frame is not an error.
func (s *Store) Put(ctx context.Context, frame []byte) (lit.Address, bool, error) {
	var (
		addr = lit.Digest(frame)
		name = objName(addr)
	)

	data, err := s.c.Compress(frame)
	if err != nil {
		return lit.Zero, false, errors.Wrapf(err, "compressing object %s", name)
	}

	w := s.bucket.Object(name).If(storage.Conditions{DoesNotExist: true}).NewWriter(ctx)
	_, err = w.Write(data)
	if err != nil {
		w.Close()
		if isPreconditionFailed(err) {
			return addr, false, nil
		}
		return lit.Zero, false, errors.Wrapf(err, "writing object %s", name)
	}
	err = w.Close()
	if isPreconditionFailed(err) {
		return addr, false, nil
	}
	if err != nil {
		return lit.Zero, false, errors.Wrapf(err, "closing object %s", name)
	}
	return addr, true, nil
}

func isPreconditionFailed(err error) bool {
	var e *googleapi.Error
	return errors.As(err, &e) && e.Code == http.StatusPreconditionFailed
}

// ListAddresses produces all addresses in the store, in lexicographic order.
func (s *Store) ListAddresses(ctx context.Context, start lit.Address, f func(lit.Address) error) error {
	if start.IsZero() {
		return s.listAddresses(ctx, "", f)
	}

	// Google Cloud Storage iterators have no API for starting in the middle of a bucket.
	// But they can filter by object-name prefix.
	// So we take (the hex encoding of) `start` and repeatedly compute prefixes for the objects we want.
	// If `start` is e67a, for example, the sequence of generated prefixes is:
	//   e67b e67c e67d e67e e67f
	//   e68 e69 e6a e6b e6c e6d e6e e6f
	//   e7 e8 e9 ea eb ec ed ee ef
	//   f
	return eachHexPrefix(start.String(), false, func(prefix string) error {
		return s.listAddresses(ctx, prefix, f)
	})
}

func (s *Store) listAddresses(ctx context.Context, hexPrefix string, f func(lit.Address) error) error {
	iter := s.bucket.Objects(ctx, &storage.Query{Prefix: namePrefixFor(hexPrefix)})
	for {
		attrs, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "iterating over objects")
		}
		addr, err := addrFromObjName(attrs.Name)
		if err != nil {
			continue
		}
		err = f(addr)
		if err != nil {
			return err
		}
	}
}

func eachHexPrefix(prefix string, incl bool, f func(string) error) error {
	prefix = strings.ToLower(prefix)
	for len(prefix) > 0 {
		end := hexval(prefix[len(prefix)-1])
		if !incl {
			end++
		}
		prefix = prefix[:len(prefix)-1]
		for c := end; c < 16; c++ {
			err := f(prefix + string(hexdigit(c)))
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func hexval(b byte) int {
	switch {
	case '0' <= b && b <= '9':
		return int(b - '0')
	case 'a' <= b && b <= 'f':
		return int(10 + b - 'a')
	case 'A' <= b && b <= 'F':
		return int(10 + b - 'A')
	}
	return 0
}

func hexdigit(n int) byte {
	if n < 10 {
		return byte(n + '0')
	}
	return byte(n - 10 + 'a')
}

func objName(addr lit.Address) string {
	dir, file := addr.Fanout()
	return namePrefix + dir + "/" + file
}

// namePrefixFor maps a prefix of an address's hex form
// to the matching prefix of GCS object names.
func namePrefixFor(hexPrefix string) string {
	if len(hexPrefix) <= 2 {
		return namePrefix + hexPrefix
	}
	return namePrefix + hexPrefix[:2] + "/" + hexPrefix[2:]
}

func addrFromObjName(name string) (lit.Address, error) {
	if !strings.HasPrefix(name, namePrefix) {
		return lit.Zero, errors.Errorf("object name %s lacks prefix %s", name, namePrefix)
	}
	return lit.AddressFromHex(strings.Replace(name[len(namePrefix):], "/", "", 1))
}

func init() {
	store.Register("gcs", func(ctx context.Context, conf map[string]interface{}) (lit.Store, error) {
		var options []option.ClientOption
		creds, ok := conf["creds"].(string)
		if !ok {
			return nil, errors.New(`missing "creds" parameter`)
		}
		bucketName, ok := conf["bucket"].(string)
		if !ok {
			return nil, errors.New(`missing "bucket" parameter`)
		}
		options = append(options, option.WithCredentialsFile(creds))
		c, err := storage.NewClient(ctx, options...)
		if err != nil {
			return nil, errors.Wrap(err, "creating cloud storage client")
		}
		return New(c.Bucket(bucketName)), nil
	})
}
