package lit

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"strings"

	"github.com/pkg/errors"
)

// MinPrefix is the shortest hex prefix Resolve will look up.
const MinPrefix = 4

var errStop = errors.New("stop")

// Resolve turns an object name into an address.
//
// A full 40-digit address is returned as-is, without consulting s.
// A shorter hex prefix (at least MinPrefix digits) is looked up
// among the addresses in s and must match exactly one of them.
// Symbolic names (branches, tags) are not resolved.
func Resolve(ctx context.Context, s Getter, name string) (Address, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if len(name) == 2*sha1.Size {
		return AddressFromHex(name)
	}
	if len(name) < MinPrefix || len(name) > 2*sha1.Size || !isHex(name) {
		return Zero, errors.Wrapf(ErrInvalidName, "resolving %q", name)
	}

	// Start the scan just before the first address that can have this prefix.
	var start Address
	padded := name + strings.Repeat("0", 2*sha1.Size-len(name))
	if _, err := hex.Decode(start[:], []byte(padded)); err != nil {
		return Zero, errors.Wrapf(err, "decoding prefix %q", name)
	}
	start = predecessor(start)

	var matches []Address
	err := s.ListAddresses(ctx, start, func(addr Address) error {
		if !strings.HasPrefix(addr.String(), name) {
			return errStop
		}
		matches = append(matches, addr)
		if len(matches) > 1 {
			return errStop
		}
		return nil
	})
	if err != nil && !errors.Is(err, errStop) {
		return Zero, errors.Wrapf(err, "scanning for prefix %q", name)
	}

	switch len(matches) {
	case 0:
		return Zero, errors.Wrapf(ErrNotFound, "resolving %q", name)
	case 1:
		return matches[0], nil
	default:
		return Zero, &AmbiguousNameError{Name: name, Matches: matches}
	}
}

// predecessor returns the address immediately before a,
// or Zero if a is Zero.
// ListAddresses is exclusive of its start, so this makes the scan include a itself.
func predecessor(a Address) Address {
	if a.IsZero() {
		return a
	}
	for i := len(a) - 1; i >= 0; i-- {
		if a[i] > 0 {
			a[i]--
			return a
		}
		a[i] = 0xff
	}
	return a
}

func isHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !('0' <= c && c <= '9') && !('a' <= c && c <= 'f') {
			return false
		}
	}
	return true
}
