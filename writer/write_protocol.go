package writer

import (
	"fmt"

	"github.com/dot5enko/snapshot-cow/format"
)

// writeOperation is the single choke point appending operation records
// and payload bytes. Both the estimation and the real path advance the
// same two counters so the size math can never diverge between them.
func (w *CowWriter) writeOperation(ops []format.CowOperation, data []byte) error {

	if w.estimating {
		w.header.OpCount += uint64(len(ops))
		if w.header.OpCount > w.header.OpCountMax {
			// growing the table capacity pushes the payload region
			// forward by the extra table bytes
			w.nextDataPos += (w.header.OpCount - w.header.OpCountMax) * uint64(format.OperationSize)
			w.header.OpCountMax = w.header.OpCount
		}
		w.nextDataPos += uint64(len(data))
		return nil
	}

	if w.header.OpCount+uint64(len(ops)) > w.header.OpCountMax {
		return fmt.Errorf("current op count %d, attempting to write %d ops will exceed the max of %d",
			w.header.OpCount, len(ops), w.header.OpCountMax)
	}

	offset := format.GetOpOffset(w.header.OpCount, &w.header)
	encoded := format.EncodeOps(ops)

	if writeErr := w.file.WriteAt(encoded, int(offset), len(encoded)); writeErr != nil {
		return fmt.Errorf("write failed for %d ops at %d: %s", len(ops), offset, writeErr.Error())
	}

	if len(data) > 0 {
		if writeErr := w.file.WriteAt(data, int(w.nextDataPos), len(data)); writeErr != nil {
			return fmt.Errorf("write failed for data of size %d at offset %d: %s", len(data), w.nextDataPos, writeErr.Error())
		}
	}

	// counters move only after both writes landed
	w.header.OpCount += uint64(len(ops))
	w.nextDataPos += uint64(len(data))

	return nil
}

func (w *CowWriter) writeSingleOperation(op format.CowOperation, data []byte) error {
	return w.writeOperation([]format.CowOperation{op}, data)
}
