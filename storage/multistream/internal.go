// Package multistream implements a multi-stream indexed store: a data byte
// store holding heterogeneous fixed-size and variable-length records, paired with an index
// array store of N-tuples of offsets into it. Stream count is
// monomorphized to 1, 2 and 3, since that covers the observed uses and
// lets the per-stream type list stay compile-time known without variadic
// generics (which Go doesn't have).
package multistream

import (
	"fmt"

	"github.com/viant/chainstore/storage"
	"github.com/viant/chainstore/storage/bytestore"
	"github.com/viant/chainstore/storage/recordcodec"
)

// writeRecord writes the raw bytes of v to bs at the current cursor and
// returns the offset it was written at.
func writeRecord[T any](bs *bytestore.Store, v *T) (storage.Offset, bool, error) {
	if err := checkAlign[T](bs); err != nil {
		return 0, false, err
	}
	off := bs.Cursor()
	flushed, err := bs.Append(recordcodec.Encode(v))
	if err != nil {
		return 0, false, err
	}
	return off, flushed, nil
}

// writePayload writes an already-built (and already alignment-padded)
// variable-length payload, such as the output of a Builder.Finalize call.
func writePayload(bs *bytestore.Store, payload []byte) (storage.Offset, bool, error) {
	off := bs.Cursor()
	flushed, err := bs.Append(payload)
	if err != nil {
		return 0, false, err
	}
	return off, flushed, nil
}

// checkAlign enforces that a fixed-size Attach/Append lands on an
// alignof(T)-aligned offset: the payload already written before the cursor
// must leave it at a multiple of T's alignment.
func checkAlign[T any](bs *bytestore.Store) error {
	align := storage.Offset(recordcodec.Align[T]())
	if align == 0 {
		return nil
	}
	if bs.Cursor()%align != 0 {
		return fmt.Errorf("multistream %s: cursor %d not aligned to %d: %w", bs.Name(), bs.Cursor(), align, storage.ErrMisalignedWrite)
	}
	return nil
}

func readStream[T any](data *bytestore.Store, off storage.Offset) (*T, error) {
	if off == storage.Invalid {
		return nil, nil
	}
	raw, err := data.Bytes(off, int(recordcodec.Size[T]()))
	if err != nil {
		return nil, err
	}
	return recordcodec.View[T](raw), nil
}
