package lit

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrNotFound is the error returned
	// when a Store is asked for an address it does not hold.
	ErrNotFound = errors.New("not found")

	// ErrInvalidName is the error returned when an object name
	// is neither a full address nor a usable hex prefix.
	ErrInvalidName = errors.New("invalid object name")
)

// MalformedObjectError is returned when a frame's declared length
// disagrees with the number of payload bytes that follow it,
// or when the frame header cannot be parsed at all
// (in which case Declared is -1).
type MalformedObjectError struct {
	Address  Address
	Declared int
}

func (e *MalformedObjectError) Error() string {
	if e.Declared < 0 {
		return fmt.Sprintf("malformed object %s: bad header", e.Address)
	}
	return fmt.Sprintf("malformed object %s: bad length %d", e.Address, e.Declared)
}

// UnknownObjectTypeError is returned when a frame names a kind
// this package does not know how to decode.
type UnknownObjectTypeError struct {
	Kind    Kind
	Address Address
}

func (e *UnknownObjectTypeError) Error() string {
	return fmt.Sprintf("unknown type %q for object %s", e.Kind, e.Address)
}

// AmbiguousNameError is returned by Resolve
// when a short name matches more than one object.
type AmbiguousNameError struct {
	Name    string
	Matches []Address
}

func (e *AmbiguousNameError) Error() string {
	strs := make([]string, 0, len(e.Matches))
	for _, m := range e.Matches {
		strs = append(strs, m.String())
	}
	return fmt.Sprintf("ambiguous object name %q: candidates are %s", e.Name, strings.Join(strs, ", "))
}
