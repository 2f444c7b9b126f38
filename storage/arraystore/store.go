// Package arraystore implements the ArrayStore<T> layer: a typed, dense
// array view over a bytestore.Store, where element i occupies bytes
// [i*sizeof(T), (i+1)*sizeof(T)).
package arraystore

import (
	"fmt"

	"github.com/viant/chainstore/storage"
	"github.com/viant/chainstore/storage/bytestore"
	"github.com/viant/chainstore/storage/recordcodec"
)

// Store is a typed view over a byte store interpreting it as a dense array
// of fixed-size records of type T.
type Store[T any] struct {
	bs         *bytestore.Store
	recordSize storage.Offset
}

// Open wraps an already-open byte store as an array of T, validating that
// its logical size is a multiple of sizeof(T). A mismatch is reported as
// storage.ErrCorrupt.
func Open[T any](bs *bytestore.Store) (*Store[T], error) {
	recordSize := storage.Offset(recordcodec.Size[T]())
	if recordSize == 0 {
		return nil, fmt.Errorf("arraystore: zero-sized record type")
	}
	if bs.Size()%recordSize != 0 {
		return nil, fmt.Errorf("arraystore %s: size %d not a multiple of record size %d: %w", bs.Name(), bs.Size(), recordSize, storage.ErrCorrupt)
	}
	return &Store[T]{bs: bs, recordSize: recordSize}, nil
}

// RecordSize returns sizeof(T) as computed for this store.
func (a *Store[T]) RecordSize() storage.Offset { return a.recordSize }

// Len returns the element count (Size()/sizeof(T)).
func (a *Store[T]) Len() int64 {
	return int64(a.bs.Size() / a.recordSize)
}

func (a *Store[T]) pos(i int64) storage.Offset {
	return storage.Offset(i) * a.recordSize
}

// Get returns a typed read handle for element i. The returned pointer
// aliases the store's mapped memory when possible and is invalidated by any
// subsequent mutation (Append, Flush, Truncate, Reload).
func (a *Store[T]) Get(i int64) (*T, error) {
	if i < 0 || i >= a.Len() {
		return nil, fmt.Errorf("arraystore %s: index %d len=%d: %w", a.bs.Name(), i, a.Len(), storage.ErrOutOfBounds)
	}
	raw, err := a.bs.Bytes(a.pos(i), int(a.recordSize))
	if err != nil {
		return nil, err
	}
	return recordcodec.View[T](raw), nil
}

// GetMut is the write-mode counterpart of Get. It returns the same kind of
// handle as Get; mutations through it are only guaranteed to persist when
// the element's bytes are not straddling the on-disk/buffer boundary (the
// rare case produced by Append after a Seek into the middle of the file —
// see bytestore.Store.Bytes). Use Set for a write that is always durable.
func (a *Store[T]) GetMut(i int64) (*T, error) {
	return a.Get(i)
}

// Set overwrites element i in place by seeking the underlying byte store to
// i's position, writing the record, and restoring the write cursor
// afterwards. Unlike GetMut, this is always durable regardless of where i
// falls relative to the on-disk/buffer boundary.
func (a *Store[T]) Set(i int64, v T) error {
	if i < 0 || i >= a.Len() {
		return fmt.Errorf("arraystore %s: index %d len=%d: %w", a.bs.Name(), i, a.Len(), storage.ErrOutOfBounds)
	}
	saved := a.bs.Cursor()
	if err := a.bs.Seek(a.pos(i)); err != nil {
		return err
	}
	if _, err := a.bs.Append(recordcodec.Encode(&v)); err != nil {
		return err
	}
	return a.bs.Seek(saved)
}

// Append appends the raw bytes of value and reports whether the byte
// store's append buffer was flushed as part of this call.
func (a *Store[T]) Append(value T) (bool, error) {
	return a.bs.Append(recordcodec.Encode(&value))
}

// Truncate truncates the underlying byte store to i*sizeof(T).
func (a *Store[T]) Truncate(i int64) error {
	if i < 0 {
		return fmt.Errorf("arraystore %s: truncate %d: %w", a.bs.Name(), i, storage.ErrOutOfBounds)
	}
	return a.bs.Truncate(a.pos(i))
}

// GrowBy extends the store by n zero-filled elements, used by callers that
// plan to write out-of-order into pre-reserved slots.
func (a *Store[T]) GrowBy(n int64) error {
	if n <= 0 {
		return nil
	}
	return a.bs.GrowBy(storage.Offset(n) * a.recordSize)
}

// Seek seeks the underlying byte store to index i's position.
func (a *Store[T]) Seek(i int64) error {
	return a.bs.Seek(a.pos(i))
}

// SeekEnd seeks the underlying byte store to its logical end.
func (a *Store[T]) SeekEnd() { a.bs.SeekEnd() }

// Reload delegates to the underlying byte store.
func (a *Store[T]) Reload() error { return a.bs.Reload() }

// Flush delegates to the underlying byte store.
func (a *Store[T]) Flush() error { return a.bs.Flush() }

// Close delegates to the underlying byte store.
func (a *Store[T]) Close() error { return a.bs.Close() }

// FindAll returns, in order, the indices of every element for which
// predicate returns true.
func (a *Store[T]) FindAll(predicate func(T) bool) ([]int64, error) {
	n := a.Len()
	var out []int64
	for i := int64(0); i < n; i++ {
		v, err := a.Get(i)
		if err != nil {
			return nil, err
		}
		if predicate(*v) {
			out = append(out, i)
		}
	}
	return out, nil
}
