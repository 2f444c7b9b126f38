// Package bytestore implements the append-only, memory-mapped byte-granular
// store described as the ByteStore layer of the record store: a single
// on-disk file mapped into memory, fronted by an in-memory append buffer
// that lets writers amortize remapping instead of paying for it on every
// small write.
//
// The shape follows github.com/viant/embedius's vectordb/storage/mmapstore
// package: a segment-like struct owning an *os.File and an optional mmap
// view, with reads falling back to ReadAt/WriteAt wherever the mapping is
// unavailable (e.g. on Windows, or when mapping the file fails).
package bytestore

import (
	"errors"
	"fmt"
	"os"

	"github.com/viant/chainstore/storage"
)

// Store is a single ByteStore instance: one backing file, an optional mmap
// view over its on-disk bytes, and (in write mode) an append buffer that
// virtually extends the logical size past what is on disk.
type Store struct {
	name string
	path string

	file     *os.File
	writable bool

	mapped   []byte
	diskSize storage.Offset

	buffer []byte
	cursor storage.Offset

	maxBufferBytes storage.Offset
	closed         bool
}

// Open opens or creates the ByteStore named name. Per the file-naming
// contract, the backing file is name+".dat". If writable is false the store
// never creates the file and any mutating call returns
// storage.ErrReadOnly.
func Open(name string, writable bool, opts Options) (*Store, error) {
	opts.withDefaults()
	s := &Store{
		name:           name,
		path:           name + ".dat",
		writable:       writable,
		maxBufferBytes: opts.MaxBufferBytes,
	}
	if err := s.openFile(); err != nil {
		return nil, err
	}
	if err := s.remap(); err != nil {
		return nil, err
	}
	if writable {
		s.cursor = s.Size()
	}
	return s, nil
}

func (s *Store) openFile() error {
	if s.file != nil {
		_ = s.file.Close()
		s.file = nil
	}
	flags := os.O_RDONLY
	if s.writable {
		flags = os.O_RDWR | os.O_CREATE
	}
	f, err := os.OpenFile(s.path, flags, 0o644)
	if err != nil {
		if !s.writable && errors.Is(err, os.ErrNotExist) {
			// unmapped, empty store; reload() will pick the file up once
			// it appears on disk.
			s.diskSize = 0
			return nil
		}
		return fmt.Errorf("bytestore: open %s: %w: %w", s.path, storage.ErrIO, err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("bytestore: stat %s: %w: %w", s.path, storage.ErrIO, err)
	}
	s.file = f
	s.diskSize = storage.Offset(info.Size())
	return nil
}

func (s *Store) remap() error {
	if s.mapped != nil {
		if err := munmapRegion(s.mapped); err != nil {
			return fmt.Errorf("bytestore: unmap %s: %w: %w", s.path, storage.ErrIO, err)
		}
		s.mapped = nil
	}
	if s.file == nil || s.diskSize == 0 {
		return nil
	}
	b, err := mmapRegion(s.file, int64(s.diskSize), s.writable)
	if err != nil {
		// A mapping failure degrades to the ReadAt/WriteAt fallback path
		// rather than failing the open, matching mmapstore's stance that
		// mapping is an optimization, not a requirement for correctness.
		s.mapped = nil
		return nil
	}
	s.mapped = b
	return nil
}

// Name returns the logical name the store was opened with (without the
// ".dat" suffix).
func (s *Store) Name() string { return s.name }

// Size returns the logical size: on-disk bytes plus unflushed buffer bytes.
func (s *Store) Size() storage.Offset {
	return s.diskSize + storage.Offset(len(s.buffer))
}

// FileSize returns the bytes currently on disk, excluding the buffer.
func (s *Store) FileSize() storage.Offset {
	return s.diskSize
}

// Cursor returns the current write cursor.
func (s *Store) Cursor() storage.Offset {
	return s.cursor
}

// Bytes returns the n logical bytes starting at offset o. When the range
// lies entirely within the mmap view or entirely within the append buffer,
// the returned slice aliases the store's own memory (zero copy); a range
// straddling the mapped/buffer boundary is copied into a fresh slice, since
// the two regions are not contiguous allocations. This straddling case only
// arises when a caller seeks back into the file and writes across the
// on-disk/buffer boundary in a single Append call (see Append).
func (s *Store) Bytes(o storage.Offset, n int) ([]byte, error) {
	if s.closed {
		return nil, fmt.Errorf("bytestore: read %s: %w", s.path, storage.ErrClosed)
	}
	if n == 0 {
		return nil, nil
	}
	if o < 0 || o+storage.Offset(n) > s.Size() {
		return nil, fmt.Errorf("bytestore: read [%d,%d) size=%d: %w", o, o+storage.Offset(n), s.Size(), storage.ErrOutOfBounds)
	}
	end := o + storage.Offset(n)
	switch {
	case end <= s.diskSize:
		if s.mapped != nil {
			return s.mapped[o:end], nil
		}
		buf := make([]byte, n)
		if _, err := s.file.ReadAt(buf, int64(o)); err != nil {
			return nil, fmt.Errorf("bytestore: read %s at %d: %w: %w", s.path, o, storage.ErrIO, err)
		}
		return buf, nil
	case o >= s.diskSize:
		start := o - s.diskSize
		return s.buffer[start : start+storage.Offset(n)], nil
	default:
		out := make([]byte, n)
		mapped := int(s.diskSize - o)
		if s.mapped != nil {
			copy(out, s.mapped[o:s.diskSize])
		} else if _, err := s.file.ReadAt(out[:mapped], int64(o)); err != nil {
			return nil, fmt.Errorf("bytestore: read %s at %d: %w: %w", s.path, o, storage.ErrIO, err)
		}
		copy(out[mapped:], s.buffer[:storage.Offset(n)-storage.Offset(mapped)])
		return out, nil
	}
}

// Append writes data starting at the write cursor, splitting it across up
// to three regions: first overwrite into the existing mapping if the
// cursor is below the on-disk size, then overwrite existing buffer space,
// then extend the buffer. It reports whether the buffer reached
// MaxBufferBytes and was flushed as part of this call.
func (s *Store) Append(data []byte) (bool, error) {
	if s.closed {
		return false, fmt.Errorf("bytestore: append %s: %w", s.path, storage.ErrClosed)
	}
	if !s.writable {
		return false, fmt.Errorf("bytestore: append %s: %w", s.path, storage.ErrReadOnly)
	}
	remaining := data

	if len(remaining) > 0 && s.cursor < s.diskSize {
		n := len(remaining)
		if room := int(s.diskSize - s.cursor); n > room {
			n = room
		}
		if s.mapped != nil {
			copy(s.mapped[s.cursor:s.cursor+storage.Offset(n)], remaining[:n])
		} else if _, err := s.file.WriteAt(remaining[:n], int64(s.cursor)); err != nil {
			return false, fmt.Errorf("bytestore: write %s at %d: %w: %w", s.path, s.cursor, storage.ErrIO, err)
		}
		s.cursor += storage.Offset(n)
		remaining = remaining[n:]
	}

	if len(remaining) > 0 && s.cursor >= s.diskSize && s.cursor < s.diskSize+storage.Offset(len(s.buffer)) {
		bufOff := int(s.cursor - s.diskSize)
		n := copy(s.buffer[bufOff:], remaining)
		s.cursor += storage.Offset(n)
		remaining = remaining[n:]
	}

	if len(remaining) > 0 {
		s.buffer = append(s.buffer, remaining...)
		s.cursor += storage.Offset(len(remaining))
	}

	flushed := false
	if storage.Offset(len(s.buffer)) >= s.maxBufferBytes {
		if err := s.Flush(); err != nil {
			return false, err
		}
		flushed = true
	}
	return flushed, nil
}

// Flush persists the buffer into the backing file and remaps. After Flush,
// the buffer is empty and the mapped size equals the pre-flush logical
// size.
func (s *Store) Flush() error {
	if !s.writable || len(s.buffer) == 0 {
		return nil
	}
	newSize := s.diskSize + storage.Offset(len(s.buffer))
	if err := s.file.Truncate(int64(newSize)); err != nil {
		return fmt.Errorf("bytestore: grow %s to %d: %w: %w", s.path, newSize, storage.ErrIO, err)
	}
	if _, err := s.file.WriteAt(s.buffer, int64(s.diskSize)); err != nil {
		return fmt.Errorf("bytestore: flush %s: %w: %w", s.path, storage.ErrIO, err)
	}
	if err := s.file.Sync(); err != nil {
		return fmt.Errorf("bytestore: sync %s: %w: %w", s.path, storage.ErrIO, err)
	}
	s.diskSize = newSize
	s.buffer = s.buffer[:0]
	return s.remap()
}

// Seek sets the write cursor to o, which must be in [0, Size()].
func (s *Store) Seek(o storage.Offset) error {
	if o < 0 || o > s.Size() {
		return fmt.Errorf("bytestore: seek %s to %d size=%d: %w", s.path, o, s.Size(), storage.ErrOutOfBounds)
	}
	s.cursor = o
	return nil
}

// SeekEnd sets the write cursor to the current logical size.
func (s *Store) SeekEnd() {
	s.cursor = s.Size()
}

// Truncate flushes, then shrinks (or zero-extends) the on-disk file to o
// bytes and remaps. The write cursor is clamped to [0, o].
func (s *Store) Truncate(o storage.Offset) error {
	if o < 0 {
		return fmt.Errorf("bytestore: truncate %s to %d: %w", s.path, o, storage.ErrOutOfBounds)
	}
	if !s.writable {
		return fmt.Errorf("bytestore: truncate %s: %w", s.path, storage.ErrReadOnly)
	}
	if err := s.Flush(); err != nil {
		return err
	}
	if s.file == nil {
		if err := s.openFile(); err != nil {
			return err
		}
	}
	if err := s.file.Truncate(int64(o)); err != nil {
		return fmt.Errorf("bytestore: truncate %s to %d: %w: %w", s.path, o, storage.ErrIO, err)
	}
	s.diskSize = o
	if err := s.remap(); err != nil {
		return err
	}
	if s.cursor > o {
		s.cursor = o
	}
	return nil
}

// GrowBy extends the logical size by n zero bytes, reserving space for
// out-of-order writes without requiring the caller to materialize the zero
// payload itself.
func (s *Store) GrowBy(n storage.Offset) error {
	if n <= 0 {
		return nil
	}
	return s.Truncate(s.Size() + n)
}

// Reload re-syncs to the current on-disk state. In write mode this flushes
// (which also remaps); in read mode it remaps only if the on-disk size
// changed or the file appeared/disappeared.
func (s *Store) Reload() error {
	if s.writable {
		return s.Flush()
	}
	info, err := os.Stat(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if s.file != nil {
				_ = s.file.Close()
				s.file = nil
			}
			if s.mapped != nil {
				_ = munmapRegion(s.mapped)
				s.mapped = nil
			}
			s.diskSize = 0
			return nil
		}
		return fmt.Errorf("bytestore: stat %s: %w: %w", s.path, storage.ErrIO, err)
	}
	if s.file == nil || info.Size() != int64(s.diskSize) {
		if err := s.openFile(); err != nil {
			return err
		}
		return s.remap()
	}
	return nil
}

// Close flushes any pending writes and releases the mapping and file
// handle.
func (s *Store) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	var err error
	if s.writable {
		err = s.Flush()
	}
	if s.mapped != nil {
		if uerr := munmapRegion(s.mapped); uerr != nil && err == nil {
			err = fmt.Errorf("bytestore: unmap %s: %w: %w", s.path, storage.ErrIO, uerr)
		}
		s.mapped = nil
	}
	if s.file != nil {
		if cerr := s.file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("bytestore: close %s: %w: %w", s.path, storage.ErrIO, cerr)
		}
		s.file = nil
	}
	return err
}
