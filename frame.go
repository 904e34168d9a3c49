package lit

import (
	"bytes"
	"crypto/sha1"
	"strconv"
)

// Frame produces the canonical encoding of an object:
//
//	<kind> SP <decimal payload length> NUL <payload>
//
// The frame, not the payload, is what gets hashed and stored.
func Frame(kind Kind, payload []byte) []byte {
	length := strconv.Itoa(len(payload))
	buf := make([]byte, 0, len(kind)+1+len(length)+1+len(payload))
	buf = append(buf, kind...)
	buf = append(buf, ' ')
	buf = append(buf, length...)
	buf = append(buf, 0)
	return append(buf, payload...)
}

// Digest computes the Address of a frame.
func Digest(frame []byte) Address {
	return sha1.Sum(frame)
}

// Encode frames obj and computes its address.
func Encode(obj Object) ([]byte, Address) {
	frame := Frame(obj.Kind(), obj.Payload())
	return frame, Digest(frame)
}

// HashObject computes the address an object with the given kind and payload would have,
// without storing anything.
func HashObject(kind Kind, payload []byte) Address {
	return Digest(Frame(kind, payload))
}

// DecodeFrame splits a frame into its kind and payload.
// The address is used only for error reporting.
// A declared length that differs from the actual payload length
// is a MalformedObjectError.
func DecodeFrame(frame []byte, addr Address) (Kind, []byte, error) {
	sp := bytes.IndexByte(frame, ' ')
	if sp < 0 {
		return "", nil, &MalformedObjectError{Address: addr, Declared: -1}
	}
	nul := bytes.IndexByte(frame[sp+1:], 0)
	if nul < 0 {
		return "", nil, &MalformedObjectError{Address: addr, Declared: -1}
	}
	nul += sp + 1

	// The length is plain decimal digits with no sign and no leading zero.
	digits := frame[sp+1 : nul]
	if len(digits) == 0 || digits[0] < '0' || digits[0] > '9' || (len(digits) > 1 && digits[0] == '0') {
		return "", nil, &MalformedObjectError{Address: addr, Declared: -1}
	}
	size, err := strconv.Atoi(string(digits))
	if err != nil || size < 0 {
		return "", nil, &MalformedObjectError{Address: addr, Declared: -1}
	}

	payload := frame[nul+1:]
	if size != len(payload) {
		return "", nil, &MalformedObjectError{Address: addr, Declared: size}
	}

	return Kind(frame[:sp]), payload, nil
}

// Decode parses a frame into a typed Object.
func Decode(frame []byte, addr Address) (Object, error) {
	kind, payload, err := DecodeFrame(frame, addr)
	if err != nil {
		return nil, err
	}
	return newObject(kind, payload, addr)
}
