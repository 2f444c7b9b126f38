package multistream

import (
	"github.com/viant/chainstore/storage"
	"github.com/viant/chainstore/storage/arraystore"
	"github.com/viant/chainstore/storage/bytestore"
)

// entry1 is the on-disk index record for a single-stream store: one offset
// into the data file, always valid for a committed entry.
type entry1 = [1]storage.Offset

// Stream1 is a MultiStreamStore<T0>: every logical entry has exactly one
// payload, the primary record.
type Stream1[T0 any] struct {
	data  *bytestore.Store
	index *arraystore.Store[entry1]
}

// Open1 opens (or creates) the data and index files at pathPrefix+"_data"
// and pathPrefix+"_index".
func Open1[T0 any](pathPrefix string, writable bool, opts Options) (*Stream1[T0], error) {
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
	index, err := arraystore.Open[entry1](indexBS)
	if err != nil {
		_ = data.Close()
		_ = indexBS.Close()
		return nil, err
	}
	s := &Stream1[T0]{data: data, index: index}
	if err := s.recover(); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

// recover truncates the index to the longest prefix whose stream-0 offset
// is both valid and within the current data file, discarding any trailing
// entries a crash may have left pointing past the data actually on disk.
func (s *Stream1[T0]) recover() error {
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
	}
	if i < n {
		return s.index.Truncate(i)
	}
	return nil
}

// Len returns the number of logical entries.
func (s *Stream1[T0]) Len() int64 { return s.index.Len() }

// Offsets returns the 1-tuple of data offsets for entry k.
func (s *Stream1[T0]) Offsets(k int64) ([1]storage.Offset, error) {
	e, err := s.index.Get(k)
	if err != nil {
		return [1]storage.Offset{}, err
	}
	return *e, nil
}

// Get returns the primary payload of entry k.
func (s *Stream1[T0]) Get(k int64) (*T0, error) {
	e, err := s.index.Get(k)
	if err != nil {
		return nil, err
	}
	return readStream[T0](s.data, e[0])
}

// Append records the data store's cursor as the new entry's stream-0
// offset, writes value, and appends the index tuple.
func (s *Stream1[T0]) Append(value T0) (bool, error) {
	off, flushedData, err := writeRecord(s.data, &value)
	if err != nil {
		return false, err
	}
	flushedIdx, err := s.index.Append(entry1{off})
	if err != nil {
		return false, err
	}
	return flushedData || flushedIdx, nil
}

// AppendVariable is the variable-length counterpart of Append: builder must
// have been constructed over T0 as its head type.
func (s *Stream1[T0]) AppendVariable(builder *Builder[T0]) (bool, error) {
	off, flushedData, err := writePayload(s.data, builder.Finalize())
	if err != nil {
		return false, err
	}
	flushedIdx, err := s.index.Append(entry1{off})
	if err != nil {
		return false, err
	}
	return flushedData || flushedIdx, nil
}

// Truncate drops index entries [k, Len()) and truncates the data store to
// entry k's stream-0 offset.
func (s *Stream1[T0]) Truncate(k int64) error {
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

// Grow extends both the index and data stores by the given zero-filled
// counts, reserving space for a bulk loader that writes out of order.
func (s *Stream1[T0]) Grow(deltaIndex int64, deltaData storage.Offset) error {
	if err := s.index.GrowBy(deltaIndex); err != nil {
		return err
	}
	return s.data.GrowBy(deltaData)
}

// Seek positions the index store at entry k and the data store at offset o.
func (s *Stream1[T0]) Seek(k int64, o storage.Offset) error {
	if err := s.index.Seek(k); err != nil {
		return err
	}
	return s.data.Seek(o)
}

// Reload propagates to both underlying stores.
func (s *Stream1[T0]) Reload() error {
	if err := s.index.Reload(); err != nil {
		return err
	}
	return s.data.Reload()
}

// Flush propagates to both underlying stores.
func (s *Stream1[T0]) Flush() error {
	if err := s.index.Flush(); err != nil {
		return err
	}
	return s.data.Flush()
}

// Close closes both underlying stores.
func (s *Stream1[T0]) Close() error {
	err := s.index.Close()
	if derr := s.data.Close(); err == nil {
		err = derr
	}
	return err
}
