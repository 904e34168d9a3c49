package lit_test

import (
	"context"
	"testing"
	"testing/quick"

	"github.com/pkg/errors"

	. "github.com/bobg/lit"
	"github.com/bobg/lit/store/mem"
)

func TestMulti(t *testing.T) {
	var (
		ctx = context.Background()
		s   = mem.New()
	)

	err := quick.Check(func(yes, no map[string]struct{}) bool {
		objs := make([]Object, 0, len(yes))
		for b := range yes {
			objs = append(objs, Blob(b))
		}

		addedMap, err := WriteMulti(ctx, s, objs)
		if err != nil {
			t.Log(err)
			return false
		}
		if len(addedMap) != len(yes) {
			t.Logf("WriteMulti gave %d addresses for %d objects", len(addedMap), len(yes))
			return false
		}

		addrs := make([]Address, 0, len(addedMap))
		for addr := range addedMap {
			addrs = append(addrs, addr)
		}

		noAddrs := make(map[Address]string)
		for b := range no {
			if _, ok := yes[b]; ok {
				continue
			}
			addr := HashObject(KindBlob, []byte(b))
			if _, err := s.Get(ctx, addr); err == nil {
				// Written in an earlier iteration.
				continue
			}
			noAddrs[addr] = b
			addrs = append(addrs, addr)
		}

		got, err := ReadMulti(ctx, s, addrs)
		if len(noAddrs) == 0 {
			if err != nil {
				t.Log(err)
				return false
			}
		} else {
			var merr MultiErr
			if !errors.As(err, &merr) {
				t.Logf("got error %v, want MultiErr", err)
				return false
			}
			if len(merr) != len(noAddrs) {
				t.Logf("got %d errors, want %d", len(merr), len(noAddrs))
				return false
			}
			for addr, e := range merr {
				if _, ok := noAddrs[addr]; !ok {
					t.Logf("unexpected error for %s", addr)
					return false
				}
				if !errors.Is(e, ErrNotFound) {
					t.Logf("got error %s for %s, want ErrNotFound", e, addr)
					return false
				}
			}
		}

		for addr := range addedMap {
			obj, ok := got[addr]
			if !ok {
				t.Logf("%s missing after ReadMulti", addr)
				return false
			}
			if _, ok := yes[string(obj.Payload())]; !ok {
				t.Logf("%s has unexpected payload %q", addr, obj.Payload())
				return false
			}
		}
		return len(got) == len(addedMap)
	}, nil)
	if err != nil {
		t.Error(err)
	}
}

func TestWriteMultiDuplicates(t *testing.T) {
	ctx := context.Background()
	res, err := WriteMulti(ctx, mem.New(), []Object{Blob("x"), Blob("x")})
	if err != nil {
		t.Fatal(err)
	}
	if len(res) != 1 {
		t.Fatalf("got %d results, want 1", len(res))
	}
	if !res[HashObject(KindBlob, []byte("x"))] {
		t.Error("duplicate write not reported as added")
	}
}
