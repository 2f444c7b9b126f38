// Package storage holds the types shared by every layer of the record
// store: the byte-granular offset space that bytestore, arraystore and
// multistream all address into.
package storage

import "math"

// Offset is a byte position within a ByteStore's logical address space.
type Offset int64

// Invalid is the sentinel Offset denoting "absent". It is the maximum
// representable Offset so that every real offset compares less than it.
const Invalid Offset = math.MaxInt64

// Valid reports whether o is a real offset rather than the Invalid sentinel.
func (o Offset) Valid() bool {
	return o != Invalid
}
