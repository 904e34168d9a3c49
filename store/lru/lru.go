// Package lru implements an object store that acts as a least-recently-used cache for a nested object store.
package lru

import (
	"context"

	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"

	"github.com/bobg/lit"
	"github.com/bobg/lit/store"
)

var _ lit.Store = &Store{}

// Store implements a memory-based least-recently-used cache for an object store.
// Writes pass through to the underlying store.
type Store struct {
	c *lru.Cache // Address->[]byte
	s lit.Store
}

// New produces a new Store backed by `s` and caching up to `size` frames.
func New(s lit.Store, size int) (*Store, error) {
	c, err := lru.New(size)
	return &Store{s: s, c: c}, errors.Wrap(err, "creating cache")
}

// Get gets the frame with address `addr`.
func (s *Store) Get(ctx context.Context, addr lit.Address) ([]byte, error) {
	if got, ok := s.c.Get(addr); ok {
		return append([]byte(nil), got.([]byte)...), nil
	}
	frame, err := s.s.Get(ctx, addr)
	if err != nil {
		return nil, err
	}
	s.c.Add(addr, append([]byte(nil), frame...))
	return frame, nil
}

// Put adds a frame to the store if it wasn't already present.
func (s *Store) Put(ctx context.Context, frame []byte) (lit.Address, bool, error) {
	addr, added, err := s.s.Put(ctx, frame)
	if err != nil {
		return addr, added, err
	}
	s.c.Add(addr, append([]byte(nil), frame...))
	return addr, added, nil
}

// ListAddresses produces all addresses in the nested store, in lexicographic order.
func (s *Store) ListAddresses(ctx context.Context, start lit.Address, f func(lit.Address) error) error {
	return s.s.ListAddresses(ctx, start, f)
}

// Len is the number of frames currently cached.
func (s *Store) Len() int {
	return s.c.Len()
}

func init() {
	store.Register("lru", func(ctx context.Context, conf map[string]interface{}) (lit.Store, error) {
		var size int
		switch v := conf["size"].(type) {
		case int:
			size = v
		case float64:
			size = int(v)
		default:
			return nil, errors.New(`missing "size" parameter`)
		}
		nested, err := store.Nested(ctx, conf)
		if err != nil {
			return nil, err
		}
		return New(nested, size)
	})
}
