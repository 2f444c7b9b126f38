package multistream

import (
	"github.com/viant/chainstore/storage/recordcodec"
)

// Builder is an ephemeral staging buffer seeded with the raw bytes of a
// head value of type M, to which further trivially-copyable values or raw
// byte slices can be appended before Finalize zero-pads the result to a
// multiple of alignof(M).
//
// The pattern is: reserve the head's size, add values, finalize by padding
// to the head's alignment.
type Builder[M any] struct {
	buf   []byte
	align int
}

// New seeds a Builder with the raw bytes of head.
func New[M any](head M) *Builder[M] {
	b := &Builder[M]{align: int(recordcodec.Align[M]())}
	b.buf = append(b.buf, recordcodec.Encode(&head)...)
	return b
}

// AddBytes appends raw bytes to the staging buffer.
func (b *Builder[M]) AddBytes(data []byte) *Builder[M] {
	b.buf = append(b.buf, data...)
	return b
}

// Size returns the buffer's current length.
func (b *Builder[M]) Size() int { return len(b.buf) }

// Finalize zero-pads the staged payload up to the next multiple of
// alignof(M) and returns it. Size() after Finalize equals the returned
// length, as the spec requires.
func (b *Builder[M]) Finalize() []byte {
	if rem := len(b.buf) % b.align; rem != 0 {
		b.buf = append(b.buf, make([]byte, b.align-rem)...)
	}
	return b.buf
}

// Add appends the raw bytes of a trivially-copyable value of any type to
// the builder. It is a free function, not a method, because Go methods
// cannot carry their own type parameters beyond the receiver's.
func Add[M any, T any](b *Builder[M], v T) *Builder[M] {
	return b.AddBytes(recordcodec.Encode(&v))
}

// AddSlice appends the raw bytes of each element of vs, in order.
func AddSlice[M any, T any](b *Builder[M], vs []T) *Builder[M] {
	for i := range vs {
		Add(b, vs[i])
	}
	return b
}
