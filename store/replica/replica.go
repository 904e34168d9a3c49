// Package replica implements an object store that writes through to several nested stores.
package replica

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/bobg/lit"
	"github.com/bobg/lit/store"
)

var _ lit.Store = (*Store)(nil)

// ErrClosed is returned by operations on a Store after Close.
var ErrClosed = errors.New("replica store closed")

// Store is an object store that delegates reads and writes to two sets of nested stores.
// One set is synchronous:
// writes to all of these must succeed before a call to Put returns,
// and an error from any will cause Put to fail.
// The other set is asynchronous:
// a call to Put queues writes on these stores but does not wait for them to finish.
// If any asynchronous write fails,
// the whole Store is put into an error state and further operations fail.
type Store struct {
	sync  []lit.Store
	async []chan<- []byte

	asyncCtx context.Context // canceled when an async writer fails
	done     chan struct{}   // closed when all async writers have exited

	mu     sync.RWMutex // protects closed and err
	closed bool
	err    error
}

// New produces a new Store.
// The set of synchronous stores must be non-empty.
// The set of asynchronous stores may be empty.
// If there are any asynchronous stores,
// goroutines are launched for them,
// and canceling ctx causes those to exit,
// placing the Store in an error state.
//
// Each asynchronous store has a queue of n frames (n must be 1 or greater).
// If one falls that far behind,
// Put blocks until its frame can be queued.
func New(ctx context.Context, syncStores, asyncStores []lit.Store, n int) *Store {
	s := &Store{sync: syncStores}
	if len(asyncStores) == 0 {
		return s
	}

	eg, ctx := errgroup.WithContext(ctx)
	s.asyncCtx = ctx
	s.done = make(chan struct{})

	for _, a := range asyncStores {
		a := a
		frames := make(chan []byte, n)
		s.async = append(s.async, frames)
		eg.Go(func() error {
			return runAsync(ctx, a, frames)
		})
	}

	go func() {
		err := eg.Wait()
		if err != nil {
			s.mu.Lock()
			s.err = err
			s.mu.Unlock()
		}
		close(s.done)
	}()

	return s
}

// runAsync writes queued frames to s until the queue is closed or an error occurs.
func runAsync(ctx context.Context, s lit.Store, frames <-chan []byte) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case frame, ok := <-frames:
			if !ok {
				return nil
			}
			if _, _, err := s.Put(ctx, frame); err != nil {
				return errors.Wrapf(err, "async write of %s", lit.Digest(frame))
			}
		}
	}
}

// Close stops accepting writes,
// waits for the asynchronous stores to drain their queues,
// and returns the first error any of them encountered.
func (s *Store) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	for _, ch := range s.async {
		close(ch)
	}
	s.mu.Unlock()

	if s.done == nil {
		return nil
	}
	<-s.done

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

func (s *Store) checkErr() error {
	if s.closed {
		return ErrClosed
	}
	return errors.Wrap(s.err, "in async-store goroutine")
}

// Put implements lit.Store.Put.
// The frame is stored in all synchronous nested stores.
// An error from any of them causes Put to return an error.
//
// Some nested stores may already have the frame and others may not.
// The `added` result is true if any synchronous store had to add it.
//
// A copy of the frame is queued for each asynchronous nested store.
func (s *Store) Put(ctx context.Context, frame []byte) (lit.Address, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.checkErr(); err != nil {
		return lit.Zero, false, err
	}

	addr := lit.Digest(frame)

	var (
		eg, ctx2 = errgroup.WithContext(ctx)
		addedMu  sync.Mutex
		added    bool
	)
	for _, nested := range s.sync {
		nested := nested
		eg.Go(func() error {
			_, a, err := nested.Put(ctx2, frame)
			if err != nil {
				return err
			}
			if a {
				addedMu.Lock()
				added = true
				addedMu.Unlock()
			}
			return nil
		})
	}

	for _, ch := range s.async {
		select {
		case <-ctx.Done():
			return lit.Zero, false, ctx.Err()
		case <-s.asyncCtx.Done():
			return lit.Zero, false, errors.Wrap(s.asyncCtx.Err(), "async stores stopped")
		case ch <- append([]byte(nil), frame...):
		}
	}

	if err := eg.Wait(); err != nil {
		return lit.Zero, false, err
	}
	return addr, added, nil
}

// Get implements lit.Getter.
// It delegates the request to all of the synchronous stores in s,
// returning the result from the first one to respond without error
// and canceling the request to the others.
// If every synchronous store fails, one of their errors is returned,
// preferring anything other than lit.ErrNotFound.
func (s *Store) Get(ctx context.Context, addr lit.Address) ([]byte, error) {
	s.mu.RLock()
	err := s.checkErr()
	s.mu.RUnlock()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type result struct {
		frame []byte
		err   error
	}
	ch := make(chan result, len(s.sync))
	for _, nested := range s.sync {
		nested := nested
		go func() {
			frame, err := nested.Get(ctx, addr)
			ch <- result{frame: frame, err: err}
		}()
	}

	err = lit.ErrNotFound
	for range s.sync {
		res := <-ch
		if res.err == nil {
			return res.frame, nil
		}
		if !errors.Is(res.err, lit.ErrNotFound) {
			err = res.err
		}
	}
	return nil, err
}

// ListAddresses implements lit.Getter.
// It lists all of the synchronous stores in s concurrently
// and merges the results, so each address appears once, in order.
func (s *Store) ListAddresses(ctx context.Context, start lit.Address, f func(lit.Address) error) error {
	s.mu.RLock()
	err := s.checkErr()
	s.mu.RUnlock()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	eg, ctx := errgroup.WithContext(ctx)

	chans := make([]chan lit.Address, len(s.sync))
	for i, nested := range s.sync {
		i, nested := i, nested
		chans[i] = make(chan lit.Address, 1)
		eg.Go(func() error {
			defer close(chans[i])
			return nested.ListAddresses(ctx, start, func(addr lit.Address) error {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case chans[i] <- addr:
					return nil
				}
			})
		})
	}

	var (
		heads = make([]lit.Address, len(chans))
		live  = make([]bool, len(chans))
	)
	advance := func(i int) {
		heads[i], live[i] = <-chans[i]
	}
	for i := range chans {
		advance(i)
	}

	for {
		best := -1
		for i := range chans {
			if live[i] && (best < 0 || heads[i].Less(heads[best])) {
				best = i
			}
		}
		if best < 0 {
			break
		}
		addr := heads[best]
		if err := f(addr); err != nil {
			return err
		}
		for i := range chans {
			for live[i] && heads[i] == addr {
				advance(i)
			}
		}
	}

	return eg.Wait()
}

func init() {
	store.Register("replica", func(ctx context.Context, conf map[string]interface{}) (lit.Store, error) {
		syncConfs, ok := conf["sync"].([]interface{})
		if !ok || len(syncConfs) == 0 {
			return nil, errors.New(`missing "sync" parameter`)
		}
		syncStores, err := nestedStores(ctx, "sync", syncConfs)
		if err != nil {
			return nil, err
		}

		var asyncStores []lit.Store
		if asyncConfs, ok := conf["async"].([]interface{}); ok {
			asyncStores, err = nestedStores(ctx, "async", asyncConfs)
			if err != nil {
				return nil, err
			}
		}

		queueLen := 10
		if q, ok := conf["queuelen"].(float64); ok && q >= 1 {
			queueLen = int(q)
		}

		return New(ctx, syncStores, asyncStores, queueLen), nil
	})
}

func nestedStores(ctx context.Context, param string, confs []interface{}) ([]lit.Store, error) {
	var result []lit.Store
	for _, c := range confs {
		nested, ok := c.(map[string]interface{})
		if !ok {
			return nil, errors.Errorf(`"%s" item is not an object`, param)
		}
		nestedType, ok := nested["type"].(string)
		if !ok {
			return nil, errors.Errorf(`"%s" item missing "type"`, param)
		}
		s, err := store.Create(ctx, nestedType, nested)
		if err != nil {
			return nil, errors.Wrapf(err, "creating nested %s store", param)
		}
		result = append(result, s)
	}
	return result, nil
}
