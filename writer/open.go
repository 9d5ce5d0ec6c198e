package writer

import (
	"fmt"
	"log"
	"math"

	"github.com/dot5enko/snapshot-cow/format"
	"github.com/dot5enko/snapshot-cow/parser"
)

// Initialize opens a fresh session: pins the file layout with a
// placeholder header, zero-fills the scratch region if one was requested
// and positions the payload cursor past the operation table.
func (w *CowWriter) Initialize() error {

	if err := w.parseOptions(); err != nil {
		return err
	}

	return w.openForWrite()
}

// InitializeAppend resumes a session from an existing file at a
// previously emitted label. The on-disk header governs all layout math
// from here on, caller options for block size and capacities are
// overridden by it.
func (w *CowWriter) InitializeAppend(label uint64) error {

	if err := w.parseOptions(); err != nil {
		return err
	}

	return w.openForAppend(label)
}

func (w *CowWriter) openForWrite() error {

	// data length limit inherited from the legacy operation record
	if w.header.BlockSize > math.MaxUint16 {
		return fmt.Errorf("block size is too large: %d", w.header.BlockSize)
	}

	w.resumePoints = w.resumePoints[:0]

	if w.estimating {
		w.nextDataPos = format.GetDataOffset(&w.header)
		return nil
	}

	// header fields are not final yet, this write only pins the layout
	if writeErr := w.writeHeader(); writeErr != nil {
		return fmt.Errorf("header write failed: %s", writeErr.Error())
	}

	if w.options.ScratchSpace {
		scratchErr := w.file.FillZeroes(int(w.header.HeaderSize), int(w.header.BufferSize))
		if scratchErr != nil {
			return fmt.Errorf("writing scratch space failed: %s", scratchErr.Error())
		}
	}

	if syncErr := w.file.Sync(); syncErr != nil {
		return fmt.Errorf("header sync failed: %s", syncErr.Error())
	}

	w.nextDataPos = format.GetDataOffset(&w.header)

	log.Printf(" >> opened cow session %s [block size %d, %s]", w.sessionId.String(), w.header.BlockSize, w.options.Compression)

	return nil
}

func (w *CowWriter) openForAppend(label uint64) error {

	if w.estimating {
		return fmt.Errorf("cannot resume an estimation session")
	}

	header, headerErr := parser.ReadCowHeader(w.file)
	if headerErr != nil {
		return headerErr
	}

	w.header = header

	parsed, parseErr := parser.Parse(w.file, &w.header, label)
	if parseErr != nil {
		return fmt.Errorf("unable to parse with given label %d: %s", label, parseErr.Error())
	}

	w.resumePoints = parsed.ResumePoints
	w.options.BlockSize = w.header.BlockSize

	// payload is append only, so replaying recovered lengths lands the
	// cursor exactly where the next payload byte belongs
	w.nextDataPos = format.GetDataOffset(&w.header)
	for i := range parsed.Ops {
		w.nextDataPos += uint64(parsed.Ops[i].DataLength)
	}

	w.header.OpCount = uint64(len(parsed.Ops))

	log.Printf(" >> resumed cow session %s at label %d [%d ops committed]", w.sessionId.String(), label, w.header.OpCount)

	return nil
}
