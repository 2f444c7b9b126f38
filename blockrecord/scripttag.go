package blockrecord

import (
	"sort"

	"github.com/viant/bintly"

	"github.com/viant/chainstore/storage"
	"github.com/viant/chainstore/storage/bytestore"
	"github.com/viant/chainstore/storage/multistream"
	"github.com/viant/chainstore/storage/recordcodec"
)

// ScriptTagHead is the fixed head of a variable-length auxiliary stream
// produced by script-type inference: a set of key/value annotations about a
// transaction's output script (e.g. "type"->"p2wsh", "multisig_m"->"2").
// The annotation map itself is encoded with bintly, a binary codec for
// heterogeneous maps, and stored as the builder's variable tail; the head
// only carries enough to decode that tail back out.
type ScriptTagHead struct {
	Kind       uint32
	TagCount   uint32
	PayloadLen uint32
}

// NewScriptTagBuilder bintly-encodes tags and returns a
// multistream.Builder[ScriptTagHead] ready for AttachVariable/AppendVariable.
// The fixed head (Kind/TagCount/PayloadLen) keeps the native-layout,
// zero-copy guarantee for T0..Tn-1; only the tail is bintly's wire format.
func NewScriptTagBuilder(kind uint32, tags map[string]string) (*multistream.Builder[ScriptTagHead], error) {
	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	writers := bintly.NewWriters()
	w := writers.Get()
	defer writers.Put(w)

	w.Int(len(keys))
	for _, k := range keys {
		w.String(k)
		w.String(tags[k])
	}
	payload := append([]byte(nil), w.Bytes()...)

	head := ScriptTagHead{
		Kind:       kind,
		TagCount:   uint32(len(keys)),
		PayloadLen: uint32(len(payload)),
	}
	b := multistream.New(head)
	b.AddBytes(payload)
	return b, nil
}

// DecodeScriptTags reads the head at offset in data and bintly-decodes its
// variable tail back into a tag map.
func DecodeScriptTags(data *bytestore.Store, offset storage.Offset) (ScriptTagHead, map[string]string, error) {
	headSize := int(recordcodec.Size[ScriptTagHead]())
	headRaw, err := data.Bytes(offset, headSize)
	if err != nil {
		return ScriptTagHead{}, nil, err
	}
	head := *recordcodec.View[ScriptTagHead](headRaw)

	tailOff := offset + storage.Offset(headSize)
	tailRaw, err := data.Bytes(tailOff, int(head.PayloadLen))
	if err != nil {
		return head, nil, err
	}

	readers := bintly.NewReaders()
	r := readers.Get()
	defer readers.Put(r)
	_ = r.FromBytes(tailRaw)

	var count int
	r.Int(&count)
	tags := make(map[string]string, count)
	for i := 0; i < count; i++ {
		var k, v string
		r.String(&k)
		r.String(&v)
		tags[k] = v
	}
	return head, tags, nil
}
