package format

import (
	"encoding/binary"
	"fmt"

	"github.com/dot5enko/snapshot-cow/bits"
)

const CowMagicNumber uint64 = 0x436f77634f572121

const (
	CowVersionMajor uint16 = 3
	CowVersionMinor uint16 = 0
)

// on-disk header is over-allocated, the tail past HeaderSizeUsed is reserved
const TotalHeaderSize uint64 = 128
const HeaderSizeUsed uint64 = 8 + 2 + 2 + 2 + 2 + 2 + 4 + 8 + 4 + 4 + 8 + 8 + 4 + 8 + 4 + 4
const ReservedSize uint64 = TotalHeaderSize - HeaderSizeUsed

// scratch region size used when a session asks for scratch space
const BufferRegionDefaultSize uint32 = 2 * 1024 * 1024

const NumResumePoints uint32 = 4

type CowHeader struct {
	Magic        uint64
	MajorVersion uint16
	MinorVersion uint16

	// bytes of this struct actually written at offset 0,
	// always within [HeaderSizeUsed, TotalHeaderSize]
	HeaderSize uint16

	// legacy v2 field, always zero for v3 images
	FooterSize uint16

	OpSize    uint16
	BlockSize uint32

	NumMergeOps uint64
	ClusterOps  uint32

	// scratch region size, zero when no scratch space was requested
	BufferSize uint32

	OpCount    uint64
	OpCountMax uint64

	CompressionAlgorithm uint32

	SequenceDataCount uint64

	ResumePointCount uint32
	ResumePointMax   uint32
}

// NewHeader returns a header in its fresh-session default state.
func NewHeader(blockSize uint32, numMergeOps uint64, scratchSpace bool) CowHeader {

	header := CowHeader{
		Magic:        CowMagicNumber,
		MajorVersion: CowVersionMajor,
		MinorVersion: CowVersionMinor,
		HeaderSize:   uint16(TotalHeaderSize),
		FooterSize:   0,
		OpSize:       OperationSize,
		BlockSize:    blockSize,
		NumMergeOps:  numMergeOps,
		ClusterOps:   0,

		SequenceDataCount: 0,
		ResumePointCount:  0,
		ResumePointMax:    NumResumePoints,
		OpCount:           0,
		OpCountMax:        0,

		CompressionAlgorithm: CompressNone,
	}

	if scratchSpace {
		header.BufferSize = BufferRegionDefaultSize
	}

	return header
}

func (header *CowHeader) WriteTo(writer *bits.BitWriter) (int, error) {

	start := writer.Position()

	writer.PutUint64(header.Magic)
	writer.PutUint16(header.MajorVersion)
	writer.PutUint16(header.MinorVersion)
	writer.PutUint16(header.HeaderSize)
	writer.PutUint16(header.FooterSize)
	writer.PutUint16(header.OpSize)
	writer.PutUint32(header.BlockSize)
	writer.PutUint64(header.NumMergeOps)
	writer.PutUint32(header.ClusterOps)
	writer.PutUint32(header.BufferSize)
	writer.PutUint64(header.OpCount)
	writer.PutUint64(header.OpCountMax)
	writer.PutUint32(header.CompressionAlgorithm)
	writer.PutUint64(header.SequenceDataCount)
	writer.PutUint32(header.ResumePointCount)
	writer.PutUint32(header.ResumePointMax)

	writer.EmptyBytes(int(ReservedSize))

	return writer.Position() - start, nil
}

func (header *CowHeader) FromBytes(input []byte) (topErr error) {

	reader := bits.NewBinReader(input, binary.LittleEndian)

	header.Magic, topErr = reader.ReadU64()
	if topErr != nil {
		return fmt.Errorf("unable to decode header magic: %s", topErr.Error())
	}

	if header.Magic != CowMagicNumber {
		return fmt.Errorf("bad magic number: %x", header.Magic)
	}

	header.MajorVersion = reader.MustReadU16()
	header.MinorVersion = reader.MustReadU16()

	if header.MajorVersion != CowVersionMajor {
		return fmt.Errorf("unsupported major version: %d, supported: %d", header.MajorVersion, CowVersionMajor)
	}

	header.HeaderSize = reader.MustReadU16()
	header.FooterSize = reader.MustReadU16()
	header.OpSize = reader.MustReadU16()
	header.BlockSize = reader.MustReadU32()
	header.NumMergeOps = reader.MustReadU64()
	header.ClusterOps = reader.MustReadU32()
	header.BufferSize = reader.MustReadU32()
	header.OpCount = reader.MustReadU64()
	header.OpCountMax = reader.MustReadU64()
	header.CompressionAlgorithm = reader.MustReadU32()
	header.SequenceDataCount = reader.MustReadU64()
	header.ResumePointCount = reader.MustReadU32()
	header.ResumePointMax = reader.MustReadU32()

	return nil
}
