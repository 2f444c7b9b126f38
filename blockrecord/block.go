// Package blockrecord supplies the concrete record types used to exercise
// the three storage layers: a fixed-size block descriptor (the T0 of a
// multistream.Stream2/3) and a variable-length script-tag annotation (an
// auxiliary stream), modeled on blockchain-analysis field shapes such as a
// block's coinbase offset and transaction/input/output counts.
package blockrecord

// BlockDescriptor is the fixed-size primary record for one block. Its
// layout is platform-native: the store treats it as sizeof(BlockDescriptor)
// opaque, alignment-correct bytes and never interprets its fields.
type BlockDescriptor struct {
	Hash           [32]byte
	CoinbaseOffset uint64
	FirstTxIndex   uint32
	TxCount        uint32
	InputCount     uint32
	OutputCount    uint32
	Height         uint32
	Version        int32
	Timestamp      uint32
	Bits           uint32
	Nonce          uint32
	RealSize       uint32
	BaseSize       uint32
}
