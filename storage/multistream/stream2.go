package multistream

import (
	"github.com/viant/chainstore/storage"
	"github.com/viant/chainstore/storage/arraystore"
	"github.com/viant/chainstore/storage/bytestore"
)

// entry2 is the on-disk index record for a two-stream store.
type entry2 = [2]storage.Offset

// Stream2 is a MultiStreamStore<T0,T1>: every entry has a primary record
// and an optional (Invalid-or-present) auxiliary stream-1 record.
type Stream2[T0, T1 any] struct {
	data  *bytestore.Store
	index *arraystore.Store[entry2]
}

// Open2 opens (or creates) the data and index files at pathPrefix+"_data"
// and pathPrefix+"_index".
func Open2[T0, T1 any](pathPrefix string, writable bool, opts Options) (*Stream2[T0, T1], error) {
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
	index, err := arraystore.Open[entry2](indexBS)
	if err != nil {
		_ = data.Close()
		_ = indexBS.Close()
		return nil, err
	}
	s := &Stream2[T0, T1]{data: data, index: index}
	if err := s.recover(); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Stream2[T0, T1]) recover() error {
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
	}
	if i < n {
		return s.index.Truncate(i)
	}
	return nil
}

// Len returns the number of logical entries.
func (s *Stream2[T0, T1]) Len() int64 { return s.index.Len() }

// Offsets returns the 2-tuple of data offsets for entry k.
func (s *Stream2[T0, T1]) Offsets(k int64) ([2]storage.Offset, error) {
	e, err := s.index.Get(k)
	if err != nil {
		return [2]storage.Offset{}, err
	}
	return *e, nil
}

// Get0 returns the primary payload of entry k.
func (s *Stream2[T0, T1]) Get0(k int64) (*T0, error) {
	e, err := s.index.Get(k)
	if err != nil {
		return nil, err
	}
	return readStream[T0](s.data, e[0])
}

// Get1 returns the stream-1 payload of entry k, or nil if absent.
func (s *Stream2[T0, T1]) Get1(k int64) (*T1, error) {
	e, err := s.index.Get(k)
	if err != nil {
		return nil, err
	}
	return readStream[T1](s.data, e[1])
}

// Append records the data store's cursor as the new entry's stream-0
// offset, writes value, and appends the index tuple with stream 1 Invalid.
func (s *Stream2[T0, T1]) Append(value T0) (bool, error) {
	off, flushedData, err := writeRecord(s.data, &value)
	if err != nil {
		return false, err
	}
	flushedIdx, err := s.index.Append(entry2{off, storage.Invalid})
	if err != nil {
		return false, err
	}
	return flushedData || flushedIdx, nil
}

// AppendVariable is the variable-length counterpart of Append.
func (s *Stream2[T0, T1]) AppendVariable(builder *Builder[T0]) (bool, error) {
	off, flushedData, err := writePayload(s.data, builder.Finalize())
	if err != nil {
		return false, err
	}
	flushedIdx, err := s.index.Append(entry2{off, storage.Invalid})
	if err != nil {
		return false, err
	}
	return flushedData || flushedIdx, nil
}

// Attach1 writes value to the data store and updates entry k's stream-1
// offset to point at it.
func (s *Stream2[T0, T1]) Attach1(k int64, value T1) (bool, error) {
	off, flushed, err := writeRecord(s.data, &value)
	if err != nil {
		return false, err
	}
	if err := s.setStream1(k, off); err != nil {
		return false, err
	}
	return flushed, nil
}

// AttachVariable1 is the variable-length counterpart of Attach1.
func (s *Stream2[T0, T1]) AttachVariable1(k int64, builder *Builder[T1]) (bool, error) {
	off, flushed, err := writePayload(s.data, builder.Finalize())
	if err != nil {
		return false, err
	}
	if err := s.setStream1(k, off); err != nil {
		return false, err
	}
	return flushed, nil
}

func (s *Stream2[T0, T1]) setStream1(k int64, off storage.Offset) error {
	e, err := s.index.Get(k)
	if err != nil {
		return err
	}
	updated := *e
	updated[1] = off
	return s.index.Set(k, updated)
}

// Truncate drops index entries [k, Len()) and truncates the data store to
// entry k's stream-0 offset, dropping any auxiliary payloads written after
// it.
func (s *Stream2[T0, T1]) Truncate(k int64) error {
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
func (s *Stream2[T0, T1]) Grow(deltaIndex int64, deltaData storage.Offset) error {
	if err := s.index.GrowBy(deltaIndex); err != nil {
		return err
	}
	return s.data.GrowBy(deltaData)
}

// Seek positions the index store at entry k and the data store at offset o.
func (s *Stream2[T0, T1]) Seek(k int64, o storage.Offset) error {
	if err := s.index.Seek(k); err != nil {
		return err
	}
	return s.data.Seek(o)
}

// Reload propagates to both underlying stores.
func (s *Stream2[T0, T1]) Reload() error {
	if err := s.index.Reload(); err != nil {
		return err
	}
	return s.data.Reload()
}

// Flush propagates to both underlying stores.
func (s *Stream2[T0, T1]) Flush() error {
	if err := s.index.Flush(); err != nil {
		return err
	}
	return s.data.Flush()
}

// Close closes both underlying stores.
func (s *Stream2[T0, T1]) Close() error {
	err := s.index.Close()
	if derr := s.data.Close(); err == nil {
		err = derr
	}
	return err
}
