package writer

import (
	"encoding/binary"
	"fmt"

	"github.com/dot5enko/snapshot-cow/bits"
	"github.com/dot5enko/snapshot-cow/format"
)

func (w *CowWriter) encodeHeaderInto(buf []byte) []byte {

	encoder := bits.NewEncodeBuffer(buf, binary.LittleEndian)
	w.header.WriteTo(&encoder)

	return encoder.Bytes()
}

func (w *CowWriter) writeHeader() error {

	buf, id := w.headerBuffers.Get()
	defer w.headerBuffers.Return(id)

	encoded := w.encodeHeaderInto(buf)

	return w.file.WriteAt(encoded, 0, len(encoded))
}

// Finalize rewrites the header prefix at offset 0 and makes it durable.
// A declared header size outside [HeaderSizeUsed, TotalHeaderSize] means
// the compiled-in layout disagrees with the file, which is not a runtime
// condition a caller can handle.
func (w *CowWriter) Finalize() error {

	if uint64(w.header.HeaderSize) < format.HeaderSizeUsed || uint64(w.header.HeaderSize) > format.TotalHeaderSize {
		panic(fmt.Sprintf("declared header size %d outside [%d, %d]",
			w.header.HeaderSize, format.HeaderSizeUsed, format.TotalHeaderSize))
	}

	if w.estimating {
		return nil
	}

	buf, id := w.headerBuffers.Get()
	defer w.headerBuffers.Return(id)

	encoded := w.encodeHeaderInto(buf)

	writeErr := w.file.WriteAt(encoded, 0, int(w.header.HeaderSize))
	if writeErr != nil {
		return fmt.Errorf("header rewrite failed: %s", writeErr.Error())
	}

	return w.file.Sync()
}
