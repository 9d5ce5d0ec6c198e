package compression

import (
	"fmt"

	"golang.org/x/sync/errgroup"
)

// CompressBlocks runs the codec over every block of data concurrently and
// returns the results in block order. data length must be a multiple of
// blockSize. Result slices alias either freshly allocated buffers or the
// input (for incompressible blocks), never each other.
func CompressBlocks(c Compressor, data []byte, blockSize uint32, threads int) ([][]byte, error) {

	if len(data)%int(blockSize) != 0 {
		return nil, fmt.Errorf("data size %d is not a multiple of block size %d", len(data), blockSize)
	}

	numBlocks := len(data) / int(blockSize)
	results := make([][]byte, numBlocks)

	if threads < 1 {
		threads = 1
	}

	var group errgroup.Group
	group.SetLimit(threads)

	for i := 0; i < numBlocks; i++ {
		block := data[i*int(blockSize) : (i+1)*int(blockSize)]
		idx := i

		group.Go(func() error {
			compressed, err := c.Compress(block)
			if err != nil {
				return fmt.Errorf("compressing block %d: %s", idx, err.Error())
			}
			results[idx] = compressed
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
