package multistream

import "testing"

type head struct {
	A uint32
	B uint32
}

func TestBuilder_FinalizeAlignsToHead(t *testing.T) {
	b := New(head{A: 1, B: 2})
	b.AddBytes([]byte{1, 2, 3})
	out := b.Finalize()
	if len(out)%4 != 0 {
		t.Fatalf("finalize len %d not a multiple of alignof(head)=%d", len(out), 4)
	}
	if b.Size() != len(out) {
		t.Fatalf("Size() = %d after Finalize, want %d", b.Size(), len(out))
	}
}

func TestBuilder_AddAndAddSlice(t *testing.T) {
	b := New(head{A: 9})
	Add(b, uint64(123))
	AddSlice(b, []uint16{1, 2, 3})
	out := b.Finalize()
	minLen := 8 + 8 + 6
	if len(out) < minLen {
		t.Fatalf("finalize len %d too short, want >= %d", len(out), minLen)
	}
}

func TestBuilder_FinalizeNoOpWhenAligned(t *testing.T) {
	b := New(head{})
	before := b.Size()
	out := b.Finalize()
	if len(out) != before {
		t.Fatalf("finalize padded an already-aligned buffer: %d != %d", len(out), before)
	}
}
