package multistream

import (
	"github.com/viant/chainstore/storage"
	"github.com/viant/chainstore/storage/arraystore"
	"github.com/viant/chainstore/storage/bytestore"
)

// entry3 is the on-disk index record for a three-stream store.
type entry3 = [3]storage.Offset

// Stream3 is a MultiStreamStore<T0,T1,T2>: a primary record plus two
// optional auxiliary streams.
type Stream3[T0, T1, T2 any] struct {
	data  *bytestore.Store
	index *arraystore.Store[entry3]
}

// Open3 opens (or creates) the data and index files at pathPrefix+"_data"
// and pathPrefix+"_index".
func Open3[T0, T1, T2 any](pathPrefix string, writable bool, opts Options) (*Stream3[T0, T1, T2], error) {
	bopts := opts.toBytestoreOptions()
	data, err := bytestore.Open(pathPrefix+"_data", writable, bopts)
	if err != nil {
		return nil, err
	}
	indexBS, err := bytestore.Open(pathPrefix+"_index", writable, bopts)
	if err != nil {
		_ = data.Close()
		return nil, err
	}
	index, err := arraystore.Open[entry3](indexBS)
	if err != nil {
		_ = data.Close()
		_ = indexBS.Close()
		return nil, err
	}
	s := &Stream3[T0, T1, T2]{data: data, index: index}
	if err := s.recover(); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Stream3[T0, T1, T2]) recover() error {
	n := s.index.Len()
	limit := s.data.Size()
	var i int64
	for i = 0; i < n; i++ {
		e, err := s.index.Get(i)
		if err != nil {
			return err
		}
		if !e[0].Valid() || e[0] >= limit {
			break
		}
		if e[1].Valid() && e[1] >= limit {
			break
		}
		if e[2].Valid() && e[2] >= limit {
			break
		}
	}
	if i < n {
		return s.index.Truncate(i)
	}
	return nil
}

// Len returns the number of logical entries.
func (s *Stream3[T0, T1, T2]) Len() int64 { return s.index.Len() }

// Offsets returns the 3-tuple of data offsets for entry k.
func (s *Stream3[T0, T1, T2]) Offsets(k int64) ([3]storage.Offset, error) {
	e, err := s.index.Get(k)
	if err != nil {
		return [3]storage.Offset{}, err
	}
	return *e, nil
}

// Get0 returns the primary payload of entry k.
func (s *Stream3[T0, T1, T2]) Get0(k int64) (*T0, error) {
	e, err := s.index.Get(k)
	if err != nil {
		return nil, err
	}
	return readStream[T0](s.data, e[0])
}

// Get1 returns the stream-1 payload of entry k, or nil if absent.
func (s *Stream3[T0, T1, T2]) Get1(k int64) (*T1, error) {
	e, err := s.index.Get(k)
	if err != nil {
		return nil, err
	}
	return readStream[T1](s.data, e[1])
}

// Get2 returns the stream-2 payload of entry k, or nil if absent.
func (s *Stream3[T0, T1, T2]) Get2(k int64) (*T2, error) {
	e, err := s.index.Get(k)
	if err != nil {
		return nil, err
	}
	return readStream[T2](s.data, e[2])
}

// Append records the data store's cursor as the new entry's stream-0
// offset, writes value, and appends the index tuple with streams 1 and 2
// Invalid.
func (s *Stream3[T0, T1, T2]) Append(value T0) (bool, error) {
	off, flushedData, err := writeRecord(s.data, &value)
	if err != nil {
		return false, err
	}
	flushedIdx, err := s.index.Append(entry3{off, storage.Invalid, storage.Invalid})
	if err != nil {
		return false, err
	}
	return flushedData || flushedIdx, nil
}

// AppendVariable is the variable-length counterpart of Append.
func (s *Stream3[T0, T1, T2]) AppendVariable(builder *Builder[T0]) (bool, error) {
	off, flushedData, err := writePayload(s.data, builder.Finalize())
	if err != nil {
		return false, err
	}
	flushedIdx, err := s.index.Append(entry3{off, storage.Invalid, storage.Invalid})
	if err != nil {
		return false, err
	}
	return flushedData || flushedIdx, nil
}

// Attach1 writes value to the data store and updates entry k's stream-1
// offset to point at it.
func (s *Stream3[T0, T1, T2]) Attach1(k int64, value T1) (bool, error) {
	off, flushed, err := writeRecord(s.data, &value)
	if err != nil {
		return false, err
	}
	if err := s.setStream(k, 1, off); err != nil {
		return false, err
	}
	return flushed, nil
}

// Attach2 writes value to the data store and updates entry k's stream-2
// offset to point at it.
func (s *Stream3[T0, T1, T2]) Attach2(k int64, value T2) (bool, error) {
	off, flushed, err := writeRecord(s.data, &value)
	if err != nil {
		return false, err
	}
	if err := s.setStream(k, 2, off); err != nil {
		return false, err
	}
	return flushed, nil
}

// AttachVariable1 is the variable-length counterpart of Attach1.
func (s *Stream3[T0, T1, T2]) AttachVariable1(k int64, builder *Builder[T1]) (bool, error) {
	off, flushed, err := writePayload(s.data, builder.Finalize())
	if err != nil {
		return false, err
	}
	if err := s.setStream(k, 1, off); err != nil {
		return false, err
	}
	return flushed, nil
}

// AttachVariable2 is the variable-length counterpart of Attach2.
func (s *Stream3[T0, T1, T2]) AttachVariable2(k int64, builder *Builder[T2]) (bool, error) {
	off, flushed, err := writePayload(s.data, builder.Finalize())
	if err != nil {
		return false, err
	}
	if err := s.setStream(k, 2, off); err != nil {
		return false, err
	}
	return flushed, nil
}

func (s *Stream3[T0, T1, T2]) setStream(k int64, streamIndex int, off storage.Offset) error {
	e, err := s.index.Get(k)
	if err != nil {
		return err
	}
	updated := *e
	updated[streamIndex] = off
	return s.index.Set(k, updated)
}

// Truncate drops index entries [k, Len()) and truncates the data store to
// entry k's stream-0 offset, dropping any auxiliary payloads written after
// it.
func (s *Stream3[T0, T1, T2]) Truncate(k int64) error {
	if k >= s.Len() {
		return nil
	}
	offsets, err := s.index.Get(k)
	if err != nil {
		return err
	}
	dataEnd := offsets[0]
	if err := s.index.Truncate(k); err != nil {
		return err
	}
	return s.data.Truncate(dataEnd)
}

// Grow extends both stores by the given zero-filled counts.
func (s *Stream3[T0, T1, T2]) Grow(deltaIndex int64, deltaData storage.Offset) error {
	if err := s.index.GrowBy(deltaIndex); err != nil {
		return err
	}
	return s.data.GrowBy(deltaData)
}

// Seek positions the index store at entry k and the data store at offset o.
func (s *Stream3[T0, T1, T2]) Seek(k int64, o storage.Offset) error {
	if err := s.index.Seek(k); err != nil {
		return err
	}
	return s.data.Seek(o)
}

// Reload propagates to both underlying stores.
func (s *Stream3[T0, T1, T2]) Reload() error {
	if err := s.index.Reload(); err != nil {
		return err
	}
	return s.data.Reload()
}

// Flush propagates to both underlying stores.
func (s *Stream3[T0, T1, T2]) Flush() error {
	if err := s.index.Flush(); err != nil {
		return err
	}
	return s.data.Flush()
}

// Close closes both underlying stores.
func (s *Stream3[T0, T1, T2]) Close() error {
	err := s.index.Close()
	if derr := s.data.Close(); err == nil {
		err = derr
	}
	return err
}
