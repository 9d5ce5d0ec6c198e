package writer

import (
	"encoding/binary"
	"fmt"

	"github.com/dot5enko/snapshot-cow/bits"
	"github.com/dot5enko/snapshot-cow/format"
)

// EmitLabel durably checkpoints the current committed operation count
// under the given label. Everything written after the most recent label
// is physically present but not resumable.
func (w *CowWriter) EmitLabel(label uint64) error {

	// drop every point at or past this label so a retried emission can
	// never leave two conflicting entries for overlapping progress
	kept := w.resumePoints[:0]
	for _, point := range w.resumePoints {
		if point.Label < label {
			kept = append(kept, point)
		}
	}
	w.resumePoints = kept

	w.resumePoints = append(w.resumePoints, format.ResumePoint{
		Label:   label,
		OpIndex: uint32(w.header.OpCount),
	})

	// oldest points go first once the table is full
	for uint32(len(w.resumePoints)) > w.header.ResumePointMax {
		w.resumePoints = w.resumePoints[1:]
	}

	w.header.ResumePointCount = uint32(len(w.resumePoints))

	if w.estimating {
		return nil
	}

	encoded := format.EncodeResumePoints(w.resumePoints)

	writeErr := w.file.WriteAt(encoded, int(format.GetResumeOffset(&w.header)), len(encoded))
	if writeErr != nil {
		return fmt.Errorf("writing resume buffer failed: %s", writeErr.Error())
	}

	return w.Finalize()
}

// EmitSequenceData records ancillary merge-ordering metadata. The sequence
// table sits between the resume point table and the operation table, so
// it has to be emitted before the first operation of a session.
func (w *CowWriter) EmitSequenceData(data []uint32) error {

	oldCount := w.header.SequenceDataCount
	w.header.SequenceDataCount = uint64(len(data))

	// table growth shifts every region behind it
	w.nextDataPos += (w.header.SequenceDataCount - oldCount) * 4

	if w.estimating {
		return nil
	}

	buf := make([]byte, len(data)*4)
	encoder := bits.NewEncodeBuffer(buf, binary.LittleEndian)
	for _, value := range data {
		encoder.PutUint32(value)
	}

	writeErr := w.file.WriteAt(encoder.Bytes(), int(format.GetSequenceOffset(&w.header)), len(buf))
	if writeErr != nil {
		return fmt.Errorf("writing sequence buffer failed: %s", writeErr.Error())
	}

	return nil
}
