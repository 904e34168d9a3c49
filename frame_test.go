package lit

import (
	"bytes"
	"testing"
	"testing/quick"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
)

func TestFrame(t *testing.T) {
	cases := []struct {
		payload string
		frame   string
		addr    string
	}{
		{"Ok, this is a blob object", "blob 25\x00Ok, this is a blob object", "9ca6e1d93dfc2343e4e404a6b742220b148649a0"},
		{"x", "blob 1\x00x", "c1b0730e0133447badcfd47fd144e254807b06e1"},
		{"", "blob 0\x00", "e69de29bb2d1d6434b8b29ae775ad8c2e48c5391"},
	}
	for _, c := range cases {
		frame, addr := Encode(Blob(c.payload))
		if string(frame) != c.frame {
			t.Errorf("got frame %q, want %q", frame, c.frame)
		}
		if addr.String() != c.addr {
			t.Errorf("got address %s, want %s", addr, c.addr)
		}
		if got := HashObject(KindBlob, []byte(c.payload)); got != addr {
			t.Errorf("HashObject gave %s, Encode gave %s", got, addr)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	f := func(payload []byte) bool {
		frame, addr := Encode(Blob(payload))
		if Digest(frame) != addr {
			return false
		}
		obj, err := Decode(frame, addr)
		if err != nil {
			t.Log(err)
			return false
		}
		if obj.Kind() != KindBlob {
			return false
		}
		return bytes.Equal(obj.Payload(), payload)
	}
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}

func TestDecodeFrameKinds(t *testing.T) {
	kind, payload, err := DecodeFrame([]byte("tree 3\x00abc"), Zero)
	if err != nil {
		t.Fatal(err)
	}
	if kind != "tree" {
		t.Errorf("got kind %q", kind)
	}
	if diff := cmp.Diff([]byte("abc"), payload); diff != "" {
		t.Errorf("payload mismatch (-want +got):\n%s", diff)
	}

	_, err = Decode([]byte("tree 3\x00abc"), Zero)
	var ute *UnknownObjectTypeError
	if !errors.As(err, &ute) {
		t.Fatalf("got error %v, want *UnknownObjectTypeError", err)
	}
	if ute.Kind != "tree" {
		t.Errorf("got kind %q", ute.Kind)
	}
}

func TestDecodeLengths(t *testing.T) {
	for _, frame := range []string{"blob 0\x00", "blob 10\x000123456789"} {
		if _, err := Decode([]byte(frame), Zero); err != nil {
			t.Errorf("decoding %q: %s", frame, err)
		}
	}
}

func TestDecodeCopiesPayload(t *testing.T) {
	frame := []byte("blob 1\x00x")
	obj, err := Decode(frame, Zero)
	if err != nil {
		t.Fatal(err)
	}
	frame[len(frame)-1] = 'y'
	if got := string(obj.Payload()); got != "x" {
		t.Errorf("payload changed with its frame: got %q, want %q", got, "x")
	}
}

func TestMalformed(t *testing.T) {
	cases := []struct {
		name     string
		frame    string
		declared int
	}{
		{"short", "blob 26\x00Ok, this is a blob object", 26},
		{"long", "blob 24\x00Ok, this is a blob object", 24},
		{"no_space", "blob25\x00Ok, this is a blob object", -1},
		{"no_nul", "blob 25 Ok, this is a blob object", -1},
		{"not_a_number", "blob x\x00", -1},
		{"negative", "blob -1\x00", -1},
		{"empty", "", -1},
		{"plus_sign", "blob +1\x00x", -1},
		{"leading_zero", "blob 01\x00x", -1},
		{"zero_padded_zero", "blob 00\x00", -1},
		{"empty_length", "blob \x00", -1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			addr := Digest([]byte(c.frame))
			_, err := Decode([]byte(c.frame), addr)
			var me *MalformedObjectError
			if !errors.As(err, &me) {
				t.Fatalf("got error %v, want *MalformedObjectError", err)
			}
			if me.Declared != c.declared {
				t.Errorf("got declared length %d, want %d", me.Declared, c.declared)
			}
			if me.Address != addr {
				t.Errorf("got address %s, want %s", me.Address, addr)
			}
		})
	}
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("blob")
	if err != nil {
		t.Fatal(err)
	}
	if k != KindBlob {
		t.Errorf("got %q", k)
	}
	if _, err = ParseKind("commit"); err == nil {
		t.Error("got no error for unsupported kind")
	}
}
