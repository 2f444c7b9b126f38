// Package recordcodec provides the zero-copy, native-layout serialization
// shared by arraystore and multistream: a record's on-disk bytes are simply
// its in-memory bytes, reinterpreted rather than marshaled field by field.
// This is the idiomatic-Go stand-in for a reinterpret_cast<const char *>(&t)
// pattern, isolated behind a small set of unsafe primitives so the rest of
// the storage layers never touch unsafe directly.
package recordcodec

import "unsafe"

// Encode returns the raw bytes of *v, aliasing its memory. Callers must not
// retain the slice past v's lifetime unless v is itself backed by
// already-durable storage (e.g. a record freshly read from a mapped
// region).
func Encode[T any](v *T) []byte {
	size := unsafe.Sizeof(*v)
	if size == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(v)), int(size))
}

// Size returns sizeof(T).
func Size[T any]() uintptr {
	var zero T
	return unsafe.Sizeof(zero)
}

// Align returns alignof(T).
func Align[T any]() uintptr {
	var zero T
	return unsafe.Alignof(zero)
}

// View reinterprets raw, len(raw)==sizeof(T) bytes as a *T without copying.
func View[T any](raw []byte) *T {
	return (*T)(unsafe.Pointer(&raw[0]))
}
