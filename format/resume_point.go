package format

import (
	"encoding/binary"

	"github.com/dot5enko/snapshot-cow/bits"
)

const ResumePointSize uint64 = 8 + 4

// ResumePoint pairs a caller-chosen label with the operation count
// committed when the label was emitted.
type ResumePoint struct {
	Label   uint64
	OpIndex uint32
}

func (rp *ResumePoint) WriteTo(writer *bits.BitWriter) (int, error) {

	start := writer.Position()

	writer.PutUint64(rp.Label)
	writer.PutUint32(rp.OpIndex)

	return writer.Position() - start, nil
}

func (rp *ResumePoint) FromBytes(input []byte) error {

	reader := bits.NewBinReader(input, binary.LittleEndian)

	label, err := reader.ReadU64()
	if err != nil {
		return err
	}

	rp.Label = label
	rp.OpIndex = reader.MustReadU32()

	return nil
}

// EncodeResumePoints serializes the live resume point list, the on-disk
// table is rewritten wholesale on every label emission.
func EncodeResumePoints(points []ResumePoint) []byte {

	buf := make([]byte, len(points)*int(ResumePointSize))
	writer := bits.NewEncodeBuffer(buf, binary.LittleEndian)

	for i := range points {
		points[i].WriteTo(&writer)
	}

	return writer.Bytes()
}
