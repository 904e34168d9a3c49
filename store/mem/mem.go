// Package mem implements an in-memory object store.
package mem

import (
	"context"
	"sort"
	"sync"

	"github.com/bobg/lit"
	"github.com/bobg/lit/store"
)

var _ lit.Store = &Store{}

// Store is a memory-based implementation of an object store.
type Store struct {
	mu     sync.Mutex
	frames map[lit.Address][]byte
}

// New produces a new Store.
func New() *Store {
	return &Store{
		frames: make(map[lit.Address][]byte),
	}
}

// Get gets the frame with address `addr`.
func (s *Store) Get(_ context.Context, addr lit.Address) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if f, ok := s.frames[addr]; ok {
		return append([]byte(nil), f...), nil
	}
	return nil, lit.ErrNotFound
}

// Put adds a frame to the store if it wasn't already present.
func (s *Store) Put(_ context.Context, frame []byte) (lit.Address, bool, error) {
	addr := lit.Digest(frame)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.frames[addr]; ok {
		return addr, false, nil
	}
	s.frames[addr] = append([]byte(nil), frame...)
	return addr, true, nil
}

// ListAddresses produces all addresses in the store, in lexicographic order.
func (s *Store) ListAddresses(ctx context.Context, start lit.Address, f func(lit.Address) error) error {
	s.mu.Lock()
	addrs := make([]lit.Address, 0, len(s.frames))
	for addr := range s.frames {
		addrs = append(addrs, addr)
	}
	s.mu.Unlock()

	sort.Slice(addrs, func(i, j int) bool { return addrs[i].Less(addrs[j]) })
	index := sort.Search(len(addrs), func(n int) bool {
		return start.Less(addrs[n])
	})

	for i := index; i < len(addrs); i++ {
		err := f(addrs[i])
		if err != nil {
			return err
		}
	}
	return nil
}

func init() {
	store.Register("mem", func(context.Context, map[string]interface{}) (lit.Store, error) {
		return New(), nil
	})
}
