package multistream

import (
	"path/filepath"
	"testing"

	"github.com/viant/chainstore/storage"
)

type primary struct {
	ID    uint64
	Flags uint32
}

type aux struct {
	Len uint32
}

func prefix(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "stream")
}

func TestStream1_AppendGetTruncate(t *testing.T) {
	s, err := Open1[primary](prefix(t), true, Options{})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	for i := 0; i < 5; i++ {
		if _, err := s.Append(primary{ID: uint64(i)}); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}
	if s.Len() != 5 {
		t.Fatalf("len = %d, want 5", s.Len())
	}
	v, err := s.Get(3)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if v.ID != 3 {
		t.Fatalf("get(3).ID = %d, want 3", v.ID)
	}
	if err := s.Truncate(2); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	if s.Len() != 2 {
		t.Fatalf("len after truncate = %d, want 2", s.Len())
	}
}

func TestStream1_ReopenAfterFlush(t *testing.T) {
	p := prefix(t)
	s, err := Open1[primary](p, true, Options{})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := s.Append(primary{ID: uint64(i * 10)}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	if err := s.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	s2, err := Open1[primary](p, true, Options{})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()
	if s2.Len() != 3 {
		t.Fatalf("len after reopen = %d, want 3", s2.Len())
	}
	v, err := s2.Get(2)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if v.ID != 20 {
		t.Fatalf("get(2).ID = %d, want 20", v.ID)
	}
}

func TestStream2_AttachAndAbsence(t *testing.T) {
	s, err := Open2[primary, aux](prefix(t), true, Options{})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	for i := 0; i < 3; i++ {
		if _, err := s.Append(primary{ID: uint64(i)}); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}
	// Entry 1 has no stream-1 payload yet.
	offs, err := s.Offsets(1)
	if err != nil {
		t.Fatalf("offsets: %v", err)
	}
	if offs[1] != storage.Invalid {
		t.Fatalf("expected stream-1 absent before Attach1, got %v", offs[1])
	}
	got1, err := s.Get1(1)
	if err != nil {
		t.Fatalf("get1: %v", err)
	}
	if got1 != nil {
		t.Fatalf("expected nil aux payload before attach, got %+v", got1)
	}

	if _, err := s.Attach1(1, aux{Len: 42}); err != nil {
		t.Fatalf("attach1: %v", err)
	}
	offs, err = s.Offsets(1)
	if err != nil {
		t.Fatalf("offsets: %v", err)
	}
	if offs[1] == storage.Invalid {
		t.Fatalf("expected stream-1 present after Attach1")
	}
	got1, err = s.Get1(1)
	if err != nil {
		t.Fatalf("get1: %v", err)
	}
	if got1 == nil || got1.Len != 42 {
		t.Fatalf("get1 after attach = %+v, want Len=42", got1)
	}

	// Other entries remain untouched.
	for _, i := range []int64{0, 2} {
		v, err := s.Get1(i)
		if err != nil {
			t.Fatalf("get1(%d): %v", i, err)
		}
		if v != nil {
			t.Fatalf("entry %d unexpectedly has stream-1 payload: %+v", i, v)
		}
	}
}

func TestStream2_TruncateDropsAttachments(t *testing.T) {
	s, err := Open2[primary, aux](prefix(t), true, Options{})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	for i := 0; i < 4; i++ {
		if _, err := s.Append(primary{ID: uint64(i)}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	if _, err := s.Attach1(3, aux{Len: 1}); err != nil {
		t.Fatalf("attach1: %v", err)
	}
	offs, err := s.Offsets(3)
	if err != nil {
		t.Fatalf("offsets: %v", err)
	}
	if err := s.Truncate(3); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	if s.Len() != 3 {
		t.Fatalf("len after truncate = %d, want 3", s.Len())
	}
	if s.data.Size() != offs[0] {
		t.Fatalf("data size after truncate = %d, want %d (attachment not dropped)", s.data.Size(), offs[0])
	}
}

func TestStream3_MultipleAuxStreams(t *testing.T) {
	s, err := Open3[primary, aux, aux](prefix(t), true, Options{})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	if _, err := s.Append(primary{ID: 1}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if _, err := s.Attach1(0, aux{Len: 1}); err != nil {
		t.Fatalf("attach1: %v", err)
	}
	if _, err := s.Attach2(0, aux{Len: 2}); err != nil {
		t.Fatalf("attach2: %v", err)
	}

	g1, err := s.Get1(0)
	if err != nil {
		t.Fatalf("get1: %v", err)
	}
	g2, err := s.Get2(0)
	if err != nil {
		t.Fatalf("get2: %v", err)
	}
	if g1 == nil || g1.Len != 1 {
		t.Fatalf("get1 = %+v, want Len=1", g1)
	}
	if g2 == nil || g2.Len != 2 {
		t.Fatalf("get2 = %+v, want Len=2", g2)
	}
}

func TestStream1_VariableLengthAppend(t *testing.T) {
	s, err := Open1[primary](prefix(t), true, Options{})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	b := New(primary{ID: 5})
	Add(b, uint32(100))
	Add(b, uint32(200))
	if _, err := s.AppendVariable(b); err != nil {
		t.Fatalf("append variable: %v", err)
	}
	v, err := s.Get(0)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if v.ID != 5 {
		t.Fatalf("get(0).ID = %d, want 5", v.ID)
	}
}

func TestStream2_CorruptIndexRecoversOnOpen(t *testing.T) {
	p := prefix(t)
	s, err := Open2[primary, aux](p, true, Options{})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := s.Append(primary{ID: uint64(i)}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	if err := s.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	// Simulate a crash after the index recorded an offset beyond what made
	// it to the data file: truncate the data file back, leaving the index
	// pointing past the new end.
	if err := s.data.Truncate(s.data.Size() / 2); err != nil {
		t.Fatalf("truncate data: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	s2, err := Open2[primary, aux](p, true, Options{})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()
	if s2.Len() >= 3 {
		t.Fatalf("expected recovery to drop entries referencing truncated data, len=%d", s2.Len())
	}
}
