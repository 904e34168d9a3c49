package replica

import (
	"context"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"

	"github.com/bobg/lit"
	"github.com/bobg/lit/store"
	"github.com/bobg/lit/store/mem"
	"github.com/bobg/lit/testutil"
)

func TestReplicaSets(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		m1 = mem.New()
		m2 = mem.New()
		s  = New(ctx, []lit.Store{m1, m2}, nil, 1)
	)

	addr1, err := lit.Write(ctx, m1, lit.Blob("foo"))
	if err != nil {
		t.Fatal(err)
	}
	addr2, err := lit.Write(ctx, m2, lit.Blob("bar"))
	if err != nil {
		t.Fatal(err)
	}
	addr3, err := lit.Write(ctx, s, lit.Blob("baz"))
	if err != nil {
		t.Fatal(err)
	}

	checkReplica(ctx, t, "m1", m1, addr1, addr3)
	checkReplica(ctx, t, "m2", m2, addr2, addr3)
	checkReplica(ctx, t, "replica", s, addr1, addr2, addr3)

	// Reads find objects held by only one nested store.
	for _, addr := range []lit.Address{addr1, addr2} {
		if _, err = lit.Read(ctx, s, addr); err != nil {
			t.Errorf("reading %s: %s", addr, err)
		}
	}
}

func checkReplica(ctx context.Context, t *testing.T, name string, s lit.Getter, want ...lit.Address) {
	t.Run(name, func(t *testing.T) {
		var got []lit.Address
		err := s.ListAddresses(ctx, lit.Zero, func(a lit.Address) error {
			got = append(got, a)
			return nil
		})
		if err != nil {
			t.Fatal(err)
		}
		sort.Slice(want, func(i, j int) bool { return want[i].Less(want[j]) })
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestAllAddresses(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	testutil.AllAddresses(ctx, t, func() lit.Store {
		return New(ctx, []lit.Store{mem.New(), mem.New()}, nil, 1)
	})
}

func TestStore(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	newStore := func() *Store {
		return New(ctx, []lit.Store{mem.New(), mem.New()}, nil, 1)
	}
	testutil.ReadWrite(ctx, t, newStore(), []byte("Ok, this is a blob object"))
	testutil.Dedup(ctx, t, newStore())
	testutil.NotFound(ctx, t, newStore())
	testutil.ListFrom(ctx, t, newStore())
}

func TestAsync(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		primary = mem.New()
		backup  = mem.New()
		s       = New(ctx, []lit.Store{primary}, []lit.Store{backup}, 2)
	)

	var want []lit.Address
	for _, text := range []string{"a", "b", "c", "d", "e"} {
		addr, err := lit.Write(ctx, s, lit.Blob(text))
		if err != nil {
			t.Fatal(err)
		}
		want = append(want, addr)
	}

	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	checkReplica(ctx, t, "backup", backup, want...)

	if _, err := lit.Write(ctx, s, lit.Blob("f")); !errors.Is(err, ErrClosed) {
		t.Errorf("got error %v after Close, want ErrClosed", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close: %s", err)
	}
}

// failing is a store whose writes always fail.
type failing struct {
	*mem.Store
}

var errFail = errors.New("fail")

func (failing) Put(context.Context, []byte) (lit.Address, bool, error) {
	return lit.Zero, false, errFail
}

func TestAsyncError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := New(ctx, []lit.Store{mem.New()}, []lit.Store{failing{mem.New()}}, 1)

	// The first write succeeds; the async failure surfaces at Close.
	if _, err := lit.Write(ctx, s, lit.Blob("a")); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); !errors.Is(err, errFail) {
		t.Errorf("got error %v from Close, want errFail", err)
	}
}

func TestFactory(t *testing.T) {
	ctx := context.Background()
	s, err := store.Create(ctx, "replica", map[string]interface{}{
		"sync": []interface{}{
			map[string]interface{}{"type": "mem"},
			map[string]interface{}{"type": "mem"},
		},
		"async": []interface{}{
			map[string]interface{}{"type": "mem"},
		},
		"queuelen": float64(3),
	})
	if err != nil {
		t.Fatal(err)
	}
	r, ok := s.(*Store)
	if !ok {
		t.Fatalf("got %T, want *Store", s)
	}
	if len(r.sync) != 2 || len(r.async) != 1 {
		t.Errorf("got %d sync and %d async stores", len(r.sync), len(r.async))
	}
	if err = r.Close(); err != nil {
		t.Fatal(err)
	}

	if _, err = store.Create(ctx, "replica", map[string]interface{}{}); err == nil {
		t.Error("got no error for missing sync stores")
	}
}
