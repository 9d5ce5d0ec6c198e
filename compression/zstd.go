package compression

import (
	"github.com/klauspost/compress/zstd"
)

type zstdCompressor struct {
	encoder *zstd.Encoder
}

func newZstdCompressor(level uint32) (*zstdCompressor, error) {

	encoder, err := zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(int(level))),
		zstd.WithEncoderConcurrency(1),
	)
	if err != nil {
		return nil, err
	}

	return &zstdCompressor{encoder: encoder}, nil
}

func (c *zstdCompressor) Compress(data []byte) ([]byte, error) {
	// EncodeAll is safe for concurrent use on a shared encoder
	return c.encoder.EncodeAll(data, nil), nil
}
