package store

import (
	"context"
	"sort"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/bobg/lit"
)

// Sync synchronizes two or more stores.
// It runs ListAddresses on all input stores.
// When an address is found to be in some but not all stores,
// its frame is added to the stores where it's missing.
func Sync(ctx context.Context, stores []lit.Store) error {
	if len(stores) < 2 {
		return nil
	}

	sets := make([]map[lit.Address]struct{}, len(stores))

	eg, ctx2 := errgroup.WithContext(ctx)
	for i, s := range stores {
		i, s := i, s
		eg.Go(func() error {
			set := make(map[lit.Address]struct{})
			err := s.ListAddresses(ctx2, lit.Zero, func(addr lit.Address) error {
				set[addr] = struct{}{}
				return ctx2.Err()
			})
			if err != nil {
				return errors.Wrapf(err, "listing store %d", i)
			}
			sets[i] = set
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	// For each address, the index of one store that has it.
	havers := make(map[lit.Address]int)
	for i, set := range sets {
		for addr := range set {
			if _, ok := havers[addr]; !ok {
				havers[addr] = i
			}
		}
	}

	eg, ctx2 = errgroup.WithContext(ctx)
	for i, s := range stores {
		var missing []lit.Address
		for addr := range havers {
			if _, ok := sets[i][addr]; !ok {
				missing = append(missing, addr)
			}
		}
		if len(missing) == 0 {
			continue
		}
		sort.Slice(missing, func(a, b int) bool { return missing[a].Less(missing[b]) })

		s := s
		eg.Go(func() error {
			for _, addr := range missing {
				frame, err := stores[havers[addr]].Get(ctx2, addr)
				if err != nil {
					return errors.Wrapf(err, "getting frame for %s", addr)
				}
				if _, _, err = s.Put(ctx2, frame); err != nil {
					return errors.Wrapf(err, "storing frame for %s", addr)
				}
			}
			return nil
		})
	}
	return eg.Wait()
}

// Copy adds to dst every object in src that dst lacks.
// It returns the number of objects added.
// Listing src and writing dst proceed concurrently.
func Copy(ctx context.Context, dst lit.Store, src lit.Getter) (int, error) {
	var (
		eg, ctx2 = errgroup.WithContext(ctx)
		ch       = make(chan lit.Address)
		n        int
	)

	eg.Go(func() error {
		defer close(ch)
		return src.ListAddresses(ctx2, lit.Zero, func(addr lit.Address) error {
			select {
			case <-ctx2.Done():
				return ctx2.Err()
			case ch <- addr:
				return nil
			}
		})
	})

	eg.Go(func() error {
		for addr := range ch {
			frame, err := src.Get(ctx2, addr)
			if err != nil {
				return errors.Wrapf(err, "getting frame for %s", addr)
			}
			_, added, err := dst.Put(ctx2, frame)
			if err != nil {
				return errors.Wrapf(err, "storing frame for %s", addr)
			}
			if added {
				n++
			}
		}
		return nil
	})

	err := eg.Wait()
	return n, err
}
