package multistream

import (
	"github.com/viant/chainstore/storage"
	"github.com/viant/chainstore/storage/bytestore"
)

// Options configures the data and index byte stores underlying a
// Stream1/2/3. Both files share the same buffer threshold.
type Options struct {
	MaxBufferBytes storage.Offset
}

func (o Options) toBytestoreOptions() bytestore.Options {
	return bytestore.Options{MaxBufferBytes: o.MaxBufferBytes}
}
