package compression

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dot5enko/snapshot-cow/format"
)

// Compressor squeezes one fixed-size block into fewer bytes. The returned
// slice may be as large as (or larger than) the input, callers apply the
// keep-smaller rule themselves. Compress must be safe to call from
// multiple goroutines at once.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

type Config struct {
	Algorithm uint32
	Level     uint32
}

var algorithmNames = map[string]uint32{
	"none": format.CompressNone,
	"gz":   format.CompressGz,
	"lz4":  format.CompressLz4,
	"zstd": format.CompressZstd,
}

func AlgorithmName(tag uint32) string {
	for name, t := range algorithmNames {
		if t == tag {
			return name
		}
	}
	return fmt.Sprintf("unknown(%d)", tag)
}

func DefaultCompressionLevel(algorithm uint32) uint32 {
	switch algorithm {
	case format.CompressGz:
		return 9
	case format.CompressZstd:
		return 3
	default:
		return 0
	}
}

// ParseSpec parses an "algorithm" or "algorithm,level" specification.
func ParseSpec(spec string) (Config, error) {

	result := Config{}

	parts := strings.Split(spec, ",")
	if len(parts) > 2 {
		return result, fmt.Errorf("failed to parse compression parameters: invalid argument count: %d in %q", len(parts), spec)
	}

	algorithm, known := algorithmNames[parts[0]]
	if !known {
		return result, fmt.Errorf("unrecognized compression: %q", parts[0])
	}

	result.Algorithm = algorithm

	if len(parts) > 1 {
		level, parseErr := strconv.ParseUint(parts[1], 10, 32)
		if parseErr != nil {
			return result, fmt.Errorf("failed to parse compression level %q: %s", parts[1], parseErr.Error())
		}
		result.Level = uint32(level)
	} else {
		result.Level = DefaultCompressionLevel(algorithm)
	}

	return result, nil
}

// NewCompressor builds the codec for a session. Returns nil for
// format.CompressNone, payload is then always stored raw.
func NewCompressor(config Config, blockSize uint32) (Compressor, error) {

	switch config.Algorithm {
	case format.CompressNone:
		return nil, nil
	case format.CompressGz:
		return newGzCompressor(config.Level)
	case format.CompressLz4:
		return newLz4Compressor(config.Level, blockSize), nil
	case format.CompressZstd:
		return newZstdCompressor(config.Level)
	default:
		return nil, fmt.Errorf("no compressor backend for algorithm tag %d", config.Algorithm)
	}
}
