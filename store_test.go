package lit_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"

	"github.com/bobg/lit"
	"github.com/bobg/lit/store/mem"
)

func TestWriteRead(t *testing.T) {
	ctx := context.Background()
	s := mem.New()

	addr, err := lit.Write(ctx, s, lit.Blob("Ok, this is a blob object"))
	if err != nil {
		t.Fatal(err)
	}
	if addr.String() != "9ca6e1d93dfc2343e4e404a6b742220b148649a0" {
		t.Errorf("got address %s", addr)
	}

	// Writing again is a no-op.
	addr2, err := lit.Write(ctx, s, lit.Blob("Ok, this is a blob object"))
	if err != nil {
		t.Fatal(err)
	}
	if addr2 != addr {
		t.Errorf("second write gave %s, first gave %s", addr2, addr)
	}

	obj, err := lit.Read(ctx, s, addr)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(lit.Object(lit.Blob("Ok, this is a blob object")), obj); diff != "" {
		t.Errorf("object mismatch (-want +got):\n%s", diff)
	}

	_, err = lit.Read(ctx, s, lit.HashObject(lit.KindBlob, []byte("nope")))
	if !errors.Is(err, lit.ErrNotFound) {
		t.Errorf("got error %v, want ErrNotFound", err)
	}
}

// misfiler stores frames but reports the wrong address for them.
type misfiler struct {
	*mem.Store
}

func (m misfiler) Put(ctx context.Context, frame []byte) (lit.Address, bool, error) {
	_, added, err := m.Store.Put(ctx, frame)
	return lit.Zero, added, err
}

func TestWriteMismatch(t *testing.T) {
	_, err := lit.Write(context.Background(), misfiler{mem.New()}, lit.Blob("x"))
	if err == nil {
		t.Error("got no error for wrong address from store")
	}
}

func TestVerify(t *testing.T) {
	ctx := context.Background()
	s := mem.New()

	var good []lit.Address
	for _, text := range []string{"a", "b", "c"} {
		addr, err := lit.Write(ctx, s, lit.Blob(text))
		if err != nil {
			t.Fatal(err)
		}
		good = append(good, addr)
	}
	badAddr, _, err := s.Put(ctx, []byte("blob 9\x00short"))
	if err != nil {
		t.Fatal(err)
	}

	var (
		ok  []lit.Address
		bad []lit.Address
	)
	err = lit.Verify(ctx, s, func(addr lit.Address, err error) error {
		if err != nil {
			var me *lit.MalformedObjectError
			if !errors.As(err, &me) {
				t.Errorf("%s: got error %v, want *MalformedObjectError", addr, err)
			}
			bad = append(bad, addr)
		} else {
			ok = append(ok, addr)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]lit.Address{badAddr}, bad); diff != "" {
		t.Errorf("bad mismatch (-want +got):\n%s", diff)
	}
	if len(ok) != len(good) {
		t.Errorf("got %d good objects, want %d", len(ok), len(good))
	}

	stop := errors.New("stop")
	err = lit.Verify(ctx, s, func(lit.Address, error) error { return stop })
	if !errors.Is(err, stop) {
		t.Errorf("got error %v, want the callback's error", err)
	}
}
