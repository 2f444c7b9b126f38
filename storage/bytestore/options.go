package bytestore

import "github.com/viant/chainstore/storage"

// defaultMaxBufferBytes is the append-buffer threshold used when a caller
// doesn't set one: 50MB of unflushed writes before Append triggers an
// automatic Flush.
const defaultMaxBufferBytes storage.Offset = 50_000_000

// Options configures a Store.
type Options struct {
	// MaxBufferBytes is the append-buffer threshold at which Append
	// triggers an automatic Flush. Zero means "use the default".
	MaxBufferBytes storage.Offset
}

func (o *Options) withDefaults() {
	if o.MaxBufferBytes <= 0 {
		o.MaxBufferBytes = defaultMaxBufferBytes
	}
}
