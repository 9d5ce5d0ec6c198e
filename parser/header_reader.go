package parser

import (
	"fmt"

	"github.com/dot5enko/snapshot-cow/format"
	"github.com/dot5enko/snapshot-cow/io"
)

// ReadCowHeader reads and validates the header record at offset 0.
func ReadCowHeader(file *io.FileReader) (header format.CowHeader, topErr error) {

	buf := make([]byte, format.HeaderSizeUsed)

	topErr = file.ReadAt(buf, 0, len(buf))
	if topErr != nil {
		return header, fmt.Errorf("unable to read cow header: %s", topErr.Error())
	}

	topErr = header.FromBytes(buf)
	if topErr != nil {
		return header, fmt.Errorf("unable to decode cow header: %s", topErr.Error())
	}

	return header, nil
}
