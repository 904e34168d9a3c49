// Package testutil holds conformance tests shared by the object-store implementations.
package testutil

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/bobg/lit"
)

// ReadWrite permits testing a Store implementation
// by writing some data to it as a blob,
// then reading it back out to make sure it's the same.
func ReadWrite(ctx context.Context, t *testing.T, store lit.Store, data []byte) lit.Address {
	t1 := time.Now()
	addr, err := lit.Write(ctx, store, lit.Blob(data))
	if err != nil {
		t.Fatal(err)
	}
	t.Logf("wrote %d bytes in %s", len(data), time.Since(t1))

	if want := lit.HashObject(lit.KindBlob, data); addr != want {
		t.Fatalf("got address %s, want %s", addr, want)
	}

	t2 := time.Now()
	obj, err := lit.Read(ctx, store, addr)
	if err != nil {
		t.Fatal(err)
	}
	got := obj.Payload()
	t.Logf("read %d bytes in %s", len(got), time.Since(t2))

	if obj.Kind() != lit.KindBlob {
		t.Errorf("got kind %q, want %q", obj.Kind(), lit.KindBlob)
	}
	if len(got) != len(data) {
		t.Errorf("got length %d, want %d", len(got), len(data))
	} else if !bytes.Equal(got, data) {
		for i := 0; i < len(got); i++ {
			if got[i] != data[i] {
				t.Fatalf("mismatch at position %d (of %d)", i, len(got))
			}
		}
	}
	return addr
}

// Dedup checks that putting the same frame twice
// yields the same address both times
// and reports it as added only the first time.
func Dedup(ctx context.Context, t *testing.T, store lit.Store) {
	frame := lit.Frame(lit.KindBlob, []byte("dedup me"))

	addr1, added, err := store.Put(ctx, frame)
	if err != nil {
		t.Fatal(err)
	}
	if !added {
		t.Error("first Put reported added=false")
	}

	addr2, added, err := store.Put(ctx, frame)
	if err != nil {
		t.Fatal(err)
	}
	if added {
		t.Error("second Put reported added=true")
	}
	if addr1 != addr2 {
		t.Errorf("got addresses %s and %s for the same frame", addr1, addr2)
	}
}

// NotFound checks that a store reports a missing address with lit.ErrNotFound.
func NotFound(ctx context.Context, t *testing.T, store lit.Store) {
	addr := lit.HashObject(lit.KindBlob, []byte("never stored"))
	_, err := store.Get(ctx, addr)
	if !errors.Is(err, lit.ErrNotFound) {
		t.Errorf("got error %v, want %v", err, lit.ErrNotFound)
	}
	_, err = lit.Read(ctx, store, addr)
	if !errors.Is(err, lit.ErrNotFound) {
		t.Errorf("Read: got error %v, want %v", err, lit.ErrNotFound)
	}
}

// Isolated checks that changing a frame returned by Get,
// or one passed to Put,
// leaves the stored frame intact.
func Isolated(ctx context.Context, t *testing.T, store lit.Store) {
	frame := lit.Frame(lit.KindBlob, []byte("keep me"))
	want := string(frame)

	addr, _, err := store.Put(ctx, frame)
	if err != nil {
		t.Fatal(err)
	}
	frame[len(frame)-1] = '!'

	for i := 0; i < 2; i++ {
		got, err := store.Get(ctx, addr)
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != want {
			t.Fatalf("get %d: got %q, want %q", i, got, want)
		}
		got[len(got)-1] = '!'
	}
}
