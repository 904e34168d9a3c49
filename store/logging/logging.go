// Package logging implements a store that delegates everything to a nested store,
// logging operations as they happen.
package logging

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/bobg/lit"
	"github.com/bobg/lit/store"
)

var _ lit.Store = &Store{}

// Store logs each call to a nested store.
type Store struct {
	s lit.Store
	l *zap.Logger
}

// New produces a Store that logs calls to `s` on `l`.
// A nil logger logs nothing.
func New(s lit.Store, l *zap.Logger) *Store {
	if l == nil {
		l = zap.NewNop()
	}
	return &Store{s: s, l: l}
}

func (s *Store) Get(ctx context.Context, addr lit.Address) ([]byte, error) {
	frame, err := s.s.Get(ctx, addr)
	switch {
	case errors.Is(err, lit.ErrNotFound):
		s.l.Debug("get", zap.Stringer("address", addr), zap.Error(err))
	case err != nil:
		s.l.Error("get", zap.Stringer("address", addr), zap.Error(err))
	default:
		s.l.Debug("get", zap.Stringer("address", addr), zap.Int("size", len(frame)))
	}
	return frame, err
}

func (s *Store) ListAddresses(ctx context.Context, start lit.Address, f func(lit.Address) error) error {
	s.l.Debug("list addresses", zap.Stringer("start", start))
	return s.s.ListAddresses(ctx, start, func(addr lit.Address) error {
		err := f(addr)
		if err != nil {
			// The callback's own error, often just a request to stop early.
			s.l.Debug("list addresses callback", zap.Stringer("address", addr), zap.Error(err))
		} else {
			s.l.Debug("list addresses", zap.Stringer("address", addr))
		}
		return err
	})
}

func (s *Store) Put(ctx context.Context, frame []byte) (lit.Address, bool, error) {
	addr, added, err := s.s.Put(ctx, frame)
	if err != nil {
		s.l.Error("put", zap.Error(err))
	} else {
		s.l.Debug("put", zap.Stringer("address", addr), zap.Bool("added", added))
	}
	return addr, added, err
}

func init() {
	store.Register("logging", func(ctx context.Context, conf map[string]interface{}) (lit.Store, error) {
		nested, err := store.Nested(ctx, conf)
		if err != nil {
			return nil, err
		}
		l, err := zap.NewDevelopment()
		if err != nil {
			return nil, err
		}
		return New(nested, l), nil
	})
}
