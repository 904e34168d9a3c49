package lru

import (
	"context"
	"testing"

	"github.com/pkg/errors"

	"github.com/bobg/lit"
	"github.com/bobg/lit/store/mem"
	"github.com/bobg/lit/testutil"
)

func TestStore(t *testing.T) {
	s, err := New(mem.New(), 1000)
	if err != nil {
		t.Fatal(err)
	}
	testutil.ReadWrite(context.Background(), t, s, []byte("cached blob"))
}

func TestConformance(t *testing.T) {
	ctx := context.Background()
	factory := func() lit.Store {
		s, err := New(mem.New(), 10)
		if err != nil {
			t.Fatal(err)
		}
		return s
	}
	testutil.Dedup(ctx, t, factory())
	testutil.NotFound(ctx, t, factory())
	testutil.Isolated(ctx, t, factory())
	testutil.ListFrom(ctx, t, factory())
	testutil.AllAddresses(ctx, t, factory)
}

// counter counts Gets that reach the nested store.
type counter struct {
	lit.Store
	gets int
}

func (c *counter) Get(ctx context.Context, addr lit.Address) ([]byte, error) {
	c.gets++
	return c.Store.Get(ctx, addr)
}

func TestCacheHits(t *testing.T) {
	ctx := context.Background()
	nested := &counter{Store: mem.New()}

	frame := lit.Frame(lit.KindBlob, []byte("hit me"))
	addr, _, err := nested.Store.Put(ctx, frame)
	if err != nil {
		t.Fatal(err)
	}

	s, err := New(nested, 2)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if _, err = s.Get(ctx, addr); err != nil {
			t.Fatal(err)
		}
	}
	if nested.gets != 1 {
		t.Errorf("nested store saw %d gets, want 1", nested.gets)
	}

	_, err = s.Get(ctx, lit.HashObject(lit.KindBlob, []byte("absent")))
	if !errors.Is(err, lit.ErrNotFound) {
		t.Errorf("got %v, want %v", err, lit.ErrNotFound)
	}
	if s.Len() != 1 {
		t.Errorf("cache holds %d frames, want 1", s.Len())
	}
}
