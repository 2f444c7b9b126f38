package storage

import "errors"

var (
	// ErrIO is returned when a backing file cannot be opened, mapped,
	// resized, or synchronized. Always wrapped with context via %w.
	ErrIO = errors.New("storage: io error")

	// ErrOutOfBounds is returned when a read or get is issued with an
	// index or offset outside the current logical size. A compliant
	// caller never triggers this; it exists as a safety net, not a
	// recoverable condition.
	ErrOutOfBounds = errors.New("storage: out of bounds")

	// ErrMisalignedWrite is returned by a fixed-size Append or Attach
	// when the data store's write cursor, left by the payloads written
	// before it, is not a multiple of the target type's alignment.
	// AppendVariable and AttachVariable calls are not checked.
	ErrMisalignedWrite = errors.New("storage: misaligned write")

	// ErrCorrupt is returned on open when file sizes are not consistent
	// with the store's invariants (e.g. an array file whose size isn't a
	// multiple of the record size). A multistream index whose offsets
	// point past the data file is not reported this way: opening the
	// store truncates the index to its longest valid prefix instead.
	ErrCorrupt = errors.New("storage: corrupt file")

	// ErrClosed is returned once a store has been closed.
	ErrClosed = errors.New("storage: store closed")

	// ErrReadOnly is returned when a mutating call is made against a
	// store opened without write access.
	ErrReadOnly = errors.New("storage: store is read-only")
)
