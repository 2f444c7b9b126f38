//go:build windows

package bytestore

import "os"

// mmapRegion has no portable Windows implementation here; the store falls
// back to ReadAt/WriteAt against the file handle (see store.go) whenever no
// mapping is available — mapping is an optimization, not a requirement for
// correctness.
func mmapRegion(f *os.File, size int64, writable bool) ([]byte, error) {
	return nil, nil
}

func munmapRegion(b []byte) error {
	return nil
}
