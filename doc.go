// Package lit is a content-addressable object store
// modeled on the loose-object database of a version-control system.
//
// An object is a kind tag and an opaque payload.
// Before it is stored, an object is framed as
//
//	<kind> <length>\0<payload>
//
// and the SHA-1 hash of that frame is the object's address.
// Identical objects always have identical addresses,
// so writing an object twice stores it once.
//
// A Store holds frames keyed by address.
// The file store (in the store/file subpackage) keeps each one
// zlib-compressed at objects/<first 2 hex digits>/<remaining 38>,
// which is the layout used inside a repository's .lit directory
// (see the repo subpackage).
// Other stores keep the same frames in memory, in SQL databases,
// or in a Google Cloud Storage bucket.
//
// SHA-1 collisions are not detected.
// Two different frames with the same hash would be treated as the same object.
package lit
