package lit

import (
	"context"

	"github.com/pkg/errors"
)

// Getter is a read-only Store (qv).
type Getter interface {
	// Get gets the frame stored at an address.
	// It returns ErrNotFound if there is none.
	Get(context.Context, Address) ([]byte, error)

	// ListAddresses calls a function for each address in the store in lexicographic order,
	// beginning with the first address _after_ the specified one.
	//
	// If the callback function returns an error,
	// ListAddresses exits with that error.
	ListAddresses(context.Context, Address, func(Address) error) error
}

// Store is an object store.
// It holds frames keyed by their address,
// the SHA-1 hash of the frame.
type Store interface {
	Getter

	// Put adds a frame to the store if it was not already present.
	// It returns the frame's address and a boolean that is true iff the frame had to be added.
	Put(ctx context.Context, frame []byte) (addr Address, added bool, err error)
}

// Write frames obj and adds it to s.
// Writing an object that is already present is a no-op.
func Write(ctx context.Context, s Store, obj Object) (Address, error) {
	frame, addr := Encode(obj)
	got, _, err := s.Put(ctx, frame)
	if err != nil {
		return addr, errors.Wrapf(err, "storing object %s", addr)
	}
	if got != addr {
		return addr, errors.Errorf("store reported address %s for object %s", got, addr)
	}
	return addr, nil
}

// Read gets the object at addr from s and decodes it.
// A missing object is ErrNotFound;
// a corrupt one is a MalformedObjectError or UnknownObjectTypeError.
func Read(ctx context.Context, s Getter, addr Address) (Object, error) {
	frame, err := s.Get(ctx, addr)
	if err != nil {
		return nil, err
	}
	return Decode(frame, addr)
}

// Verify reads and decodes every object in s.
// For each one it calls f with the object's address
// and the decoding error, if any
// (including a frame whose hash does not match its address).
// If f returns an error, Verify stops with that error.
func Verify(ctx context.Context, s Getter, f func(Address, error) error) error {
	return s.ListAddresses(ctx, Zero, func(addr Address) error {
		frame, err := s.Get(ctx, addr)
		if err != nil {
			return errors.Wrapf(err, "getting object %s", addr)
		}
		_, err = Decode(frame, addr)
		if err == nil && Digest(frame) != addr {
			err = errors.Errorf("object %s has hash %s", addr, Digest(frame))
		}
		return f(addr, err)
	})
}
