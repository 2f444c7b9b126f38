package blockrecord

import "github.com/minio/highwayhash"

// hashKey is a fixed 32-byte key, exactly the pattern used for cache
// fingerprints elsewhere in the corpus (indexer/cache.Hash): HighwayHash
// needs a key but this isn't a secret, just a fixed seed.
var hashKey = []byte("0123456789ABCDEF0123456789ABCDEF")

// ContentHash returns a 64-bit HighwayHash digest of data. Callers use this
// to independently verify an auxiliary payload's bytes after Attach,
// orthogonal to whatever checksum (if any) the byte store itself keeps —
// the store layers never interpret record contents, so this lives in the
// domain package instead.
func ContentHash(data []byte) (uint64, error) {
	h, err := highwayhash.New64(hashKey)
	if err != nil {
		return 0, err
	}
	if _, err := h.Write(data); err != nil {
		return 0, err
	}
	return h.Sum64(), nil
}
