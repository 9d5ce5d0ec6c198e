package compression

import (
	"bytes"
	"fmt"

	"github.com/klauspost/compress/zlib"
)

type gzCompressor struct {
	level int
}

func newGzCompressor(level uint32) (*gzCompressor, error) {

	if level > zlib.BestCompression {
		return nil, fmt.Errorf("gz compression level out of range: %d", level)
	}

	return &gzCompressor{level: int(level)}, nil
}

func (c *gzCompressor) Compress(data []byte) ([]byte, error) {

	var output bytes.Buffer

	zw, err := zlib.NewWriterLevel(&output, c.level)
	if err != nil {
		return nil, err
	}

	if _, err = zw.Write(data); err != nil {
		zw.Close()
		return nil, err
	}

	if err = zw.Close(); err != nil {
		return nil, err
	}

	return output.Bytes(), nil
}
