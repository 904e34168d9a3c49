package lit

import "github.com/pkg/errors"

// Kind is the type tag of an object, as it appears in the object's frame.
type Kind string

// KindBlob is the kind of a Blob.
const KindBlob Kind = "blob"

// Object is an addressable unit of content.
type Object interface {
	Kind() Kind
	Payload() []byte
}

// Blob is user data: the content of a file, stored byte-for-byte.
type Blob []byte

// Kind implements Object.
func (Blob) Kind() Kind { return KindBlob }

// Payload implements Object.
func (b Blob) Payload() []byte { return b }

// ParseKind maps a kind name to a Kind this package can decode.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindBlob:
		return k, nil
	default:
		return "", errors.Errorf("unknown object kind %q", s)
	}
}

// newObject builds the in-memory object for a decoded frame.
// Every kind this package understands must have a case here;
// anything else is an UnknownObjectTypeError.
// The object owns its payload and shares no bytes with the frame.
func newObject(kind Kind, payload []byte, addr Address) (Object, error) {
	switch kind {
	case KindBlob:
		return Blob(append([]byte(nil), payload...)), nil
	default:
		return nil, &UnknownObjectTypeError{Kind: kind, Address: addr}
	}
}
