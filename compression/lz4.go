package compression

import (
	"github.com/pierrec/lz4/v4"
)

type lz4Compressor struct {
	level     uint32
	blockSize uint32
}

func newLz4Compressor(level uint32, blockSize uint32) *lz4Compressor {
	return &lz4Compressor{level: level, blockSize: blockSize}
}

func (c *lz4Compressor) Compress(data []byte) ([]byte, error) {

	dst := make([]byte, lz4.CompressBlockBound(len(data)))

	// lz4 block compression has no level knob, c.level is accepted for
	// spec-string compatibility and ignored
	var compactor lz4.Compressor
	n, err := compactor.CompressBlock(data, dst)

	if err != nil {
		return nil, err
	}

	if n == 0 {
		// incompressible block, hand the input back so the caller
		// falls through to the raw path
		return data, nil
	}

	return dst[:n], nil
}
