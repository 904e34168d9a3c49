package testutil

import (
	"context"
	"sort"
	"testing"
	"testing/quick"

	"github.com/google/go-cmp/cmp"

	"github.com/bobg/lit"
)

// AllAddresses writes a random set of random blobs to an empty store
// and makes sure that the right set of addresses comes back in a call to ListAddresses.
func AllAddresses(ctx context.Context, t *testing.T, storeFactory func() lit.Store) {
	if err := quick.Check(allAddressesHelper(ctx, t, storeFactory), &quick.Config{MaxCount: 20}); err != nil {
		t.Error(err)
	}
}

func allAddressesHelper(ctx context.Context, t *testing.T, storeFactory func() lit.Store) func([][]byte) bool {
	return func(blobs [][]byte) bool {
		var (
			store = storeFactory()
			want  []lit.Address
		)
		for _, blob := range blobs {
			addr, added, err := store.Put(ctx, lit.Frame(lit.KindBlob, blob))
			if err != nil {
				t.Fatal(err)
			}
			if added {
				want = append(want, addr)
			}
		}
		var got []lit.Address
		err := store.ListAddresses(ctx, lit.Zero, func(a lit.Address) error {
			got = append(got, a)
			return nil
		})
		if err != nil {
			t.Fatal(err)
		}

		if !sort.SliceIsSorted(got, func(i, j int) bool { return got[i].Less(got[j]) }) {
			t.Log("ListAddresses produced addresses out of order")
			return false
		}

		sort.Slice(want, func(i, j int) bool { return want[i].Less(want[j]) })

		if diff := cmp.Diff(want, got); diff != "" {
			t.Logf("mismatch (-want +got):\n%s", diff)
			return false
		}
		return true
	}
}

// ListFrom checks that ListAddresses starts strictly after its start address.
// The store must be empty.
func ListFrom(ctx context.Context, t *testing.T, store lit.Store) {
	var addrs []lit.Address
	for _, s := range []string{"a", "b", "c", "d", "e"} {
		addr, _, err := store.Put(ctx, lit.Frame(lit.KindBlob, []byte(s)))
		if err != nil {
			t.Fatal(err)
		}
		addrs = append(addrs, addr)
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i].Less(addrs[j]) })

	var got []lit.Address
	err := store.ListAddresses(ctx, addrs[1], func(a lit.Address) error {
		got = append(got, a)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(addrs[2:], got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}
