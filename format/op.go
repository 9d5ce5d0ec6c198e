package format

import (
	"encoding/binary"

	"github.com/dot5enko/snapshot-cow/bits"
)

// operation kinds; numbering is shared with the legacy v2 stream,
// the gap at 3..4 belongs to v2-only record kinds
const (
	CowCopyOp    uint8 = 0
	CowReplaceOp uint8 = 1
	CowZeroOp    uint8 = 2
	CowXorOp     uint8 = 5
)

// compression tags stored in the header; 2 belongs to brotli
// which this writer does not produce
const (
	CompressNone uint32 = 0
	CompressGz   uint32 = 1
	CompressLz4  uint32 = 3
	CompressZstd uint32 = 4
)

const OperationSize uint16 = 1 + 2 + 4 + 8

// CowOperation describes one block-level change. Source meaning depends
// on Type: source block index for copy, payload region byte offset for
// replace, base device byte position for xor, unused for zero.
type CowOperation struct {
	Type       uint8
	DataLength uint16
	NewBlock   uint32
	Source     uint64
}

func (op *CowOperation) WriteTo(writer *bits.BitWriter) (int, error) {

	start := writer.Position()

	writer.WriteByte(op.Type)
	writer.PutUint16(op.DataLength)
	writer.PutUint32(op.NewBlock)
	writer.PutUint64(op.Source)

	return writer.Position() - start, nil
}

func (op *CowOperation) FromBytes(input []byte) error {

	reader := bits.NewBinReader(input, binary.LittleEndian)

	typeRaw, err := reader.ReadU8()
	if err != nil {
		return err
	}

	op.Type = typeRaw
	op.DataLength = reader.MustReadU16()
	op.NewBlock = reader.MustReadU32()
	op.Source = reader.MustReadU64()

	return nil
}

// EncodeOps serializes a batch of operations into one contiguous buffer
// laid out exactly as the on-disk operation table expects.
func EncodeOps(ops []CowOperation) []byte {

	buf := make([]byte, len(ops)*int(OperationSize))
	writer := bits.NewEncodeBuffer(buf, binary.LittleEndian)

	for i := range ops {
		ops[i].WriteTo(&writer)
	}

	return writer.Bytes()
}
