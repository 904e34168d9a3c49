package lit

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"

	"github.com/pkg/errors"
)

// Address is the address of an object: the SHA-1 hash of its frame.
type Address [sha1.Size]byte

// Zero is the zero value of an Address.
var Zero Address

// String returns the 40-character lowercase hex form of the address.
func (a Address) String() string {
	return hex.EncodeToString(a[:])
}

// Less reports whether a sorts before other.
func (a Address) Less(other Address) bool {
	return bytes.Compare(a[:], other[:]) < 0
}

// IsZero tells whether a is the zero Address.
func (a Address) IsZero() bool {
	return a == Zero
}

// Fanout splits the hex form of the address into the two-level storage path:
// a directory named by the first two hex digits
// and a file named by the remaining 38.
func (a Address) Fanout() (dir, file string) {
	h := a.String()
	return h[:2], h[2:]
}

// FromHex parses s into a.
// It must be exactly 40 hex digits.
func (a *Address) FromHex(s string) error {
	if len(s) != 2*sha1.Size {
		return errors.Wrapf(ErrInvalidName, "address %q has length %d, want %d", s, len(s), 2*sha1.Size)
	}
	_, err := hex.Decode(a[:], []byte(s))
	return errors.Wrapf(err, "decoding address %q", s)
}

// AddressFromHex parses a 40-hex-digit string into an Address.
func AddressFromHex(s string) (Address, error) {
	var out Address
	err := out.FromHex(s)
	return out, err
}

// AddressFromBytes copies b into an Address.
func AddressFromBytes(b []byte) Address {
	var out Address
	copy(out[:], b)
	return out
}
