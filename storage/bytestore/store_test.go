package bytestore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/viant/chainstore/storage"
)

func tmpName(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "store")
}

func TestStore_AppendRead(t *testing.T) {
	name := tmpName(t)
	s, err := Open(name, true, Options{})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	data := []byte("hello world")
	if _, err := s.Append(data); err != nil {
		t.Fatalf("append: %v", err)
	}
	got, err := s.Bytes(0, len(data))
	if err != nil {
		t.Fatalf("bytes: %v", err)
	}
	if string(got) != string(data) {
		t.Fatalf("got %q, want %q", got, data)
	}
	if s.Size() != storage.Offset(len(data)) {
		t.Fatalf("size = %d, want %d", s.Size(), len(data))
	}
}

func TestStore_FlushAndReopen(t *testing.T) {
	name := tmpName(t)
	s, err := Open(name, true, Options{})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := s.Append([]byte("first")); err != nil {
		t.Fatalf("append1: %v", err)
	}
	if _, err := s.Append([]byte("second")); err != nil {
		t.Fatalf("append2: %v", err)
	}
	if err := s.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if len(s.buffer) != 0 {
		t.Fatalf("buffer not cleared after flush")
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	s2, err := Open(name, true, Options{})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()
	got, err := s2.Bytes(0, len("firstsecond"))
	if err != nil {
		t.Fatalf("bytes: %v", err)
	}
	if string(got) != "firstsecond" {
		t.Fatalf("got %q", got)
	}
}

func TestStore_CrossBufferFlush(t *testing.T) {
	name := tmpName(t)
	s, err := Open(name, true, Options{MaxBufferBytes: 64})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	const recordSize = 8
	var flushedAt = -1
	for i := 0; i < 20; i++ {
		rec := make([]byte, recordSize)
		for j := range rec {
			rec[j] = byte(i)
		}
		flushed, err := s.Append(rec)
		if err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
		if flushed && flushedAt == -1 {
			flushedAt = i
		}
	}
	if flushedAt == -1 {
		t.Fatalf("expected at least one flush to occur")
	}
	// 64 bytes / 8-byte records = flush triggers once buffer reaches 8 records (64 bytes).
	if flushedAt != 7 {
		t.Fatalf("flush occurred at append %d, want 7", flushedAt)
	}
	for i := 0; i < 20; i++ {
		got, err := s.Bytes(storage.Offset(i*recordSize), recordSize)
		if err != nil {
			t.Fatalf("bytes(%d): %v", i, err)
		}
		for j := range got {
			if got[j] != byte(i) {
				t.Fatalf("record %d corrupted: %v", i, got)
			}
		}
	}
	info, err := os.Stat(name + ".dat")
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() < 8*recordSize {
		t.Fatalf("on-disk size %d too small after flush", info.Size())
	}
}

func TestStore_TruncateAndOverwrite(t *testing.T) {
	name := tmpName(t)
	s, err := Open(name, true, Options{})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	for i := 0; i < 5; i++ {
		if _, err := s.Append([]byte{byte(i + 1)}); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}
	if err := s.Truncate(3); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	if s.Size() != 3 {
		t.Fatalf("size after truncate = %d, want 3", s.Size())
	}
	if err := s.Seek(2); err != nil {
		t.Fatalf("seek: %v", err)
	}
	if _, err := s.Append([]byte{99}); err != nil {
		t.Fatalf("append overwrite: %v", err)
	}
	if s.Size() != 3 {
		t.Fatalf("size after overwrite = %d, want 3", s.Size())
	}
	got, err := s.Bytes(2, 1)
	if err != nil {
		t.Fatalf("bytes: %v", err)
	}
	if got[0] != 99 {
		t.Fatalf("got %d, want 99", got[0])
	}
}

func TestStore_StraddlingAppend(t *testing.T) {
	name := tmpName(t)
	s, err := Open(name, true, Options{MaxBufferBytes: 1 << 30})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	if _, err := s.Append([]byte("0123456789")); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := s.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	// Seek into the middle of the on-disk region and append across the
	// disk/buffer boundary in one call.
	if err := s.Seek(5); err != nil {
		t.Fatalf("seek: %v", err)
	}
	if _, err := s.Append([]byte("ABCDEFGHIJ")); err != nil {
		t.Fatalf("append: %v", err)
	}
	got, err := s.Bytes(0, 15)
	if err != nil {
		t.Fatalf("bytes: %v", err)
	}
	if string(got) != "01234ABCDEFGHIJ" {
		t.Fatalf("got %q", got)
	}
}

func TestStore_ReloadIdempotent(t *testing.T) {
	name := tmpName(t)
	w, err := Open(name, true, Options{})
	if err != nil {
		t.Fatalf("open writer: %v", err)
	}
	if _, err := w.Append([]byte("data")); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	defer w.Close()

	r, err := Open(name, false, Options{})
	if err != nil {
		t.Fatalf("open reader: %v", err)
	}
	defer r.Close()
	sizeBefore := r.Size()
	if err := r.Reload(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if r.Size() != sizeBefore {
		t.Fatalf("reload changed size with no on-disk change: %d != %d", r.Size(), sizeBefore)
	}
}

func TestStore_OutOfBounds(t *testing.T) {
	name := tmpName(t)
	s, err := Open(name, true, Options{})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()
	if _, err := s.Append([]byte("abc")); err != nil {
		t.Fatalf("append: %v", err)
	}
	if _, err := s.Bytes(2, 5); err == nil {
		t.Fatalf("expected out-of-bounds error")
	}
}
