//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly || solaris || aix

package bytestore

import (
	"os"

	"golang.org/x/sys/unix"
)

// mmapRegion maps the first size bytes of f into memory. Reads and, for a
// writable mapping, in-place writes go straight through this region; only a
// truncate, flush, reload or close ever invalidates it.
func mmapRegion(f *os.File, size int64, writable bool) ([]byte, error) {
	if size == 0 {
		return nil, nil
	}
	prot := unix.PROT_READ
	if writable {
		prot |= unix.PROT_WRITE
	}
	b, err := unix.Mmap(int(f.Fd()), 0, int(size), prot, unix.MAP_SHARED)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// munmapRegion releases a mapping previously returned by mmapRegion.
func munmapRegion(b []byte) error {
	if b == nil {
		return nil
	}
	return unix.Munmap(b)
}
