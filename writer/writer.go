package writer

import (
	"fmt"
	"log"

	"github.com/dot5enko/snapshot-cow/cache"
	"github.com/dot5enko/snapshot-cow/compression"
	"github.com/dot5enko/snapshot-cow/format"
	"github.com/dot5enko/snapshot-cow/io"
	"github.com/google/uuid"
)

type Options struct {
	// bytes per logical block, must fit the legacy 16 bit data length field
	BlockSize uint32

	NumMergeOps uint64

	// "algorithm" or "algorithm,level", empty means "none"
	Compression string

	// capacity of the operation table, fixed for real sessions;
	// estimation sessions grow it on demand
	OpCountMax uint64

	ScratchSpace bool

	CompressThreads int
}

// CowWriter drives one writer session over a single snapshot file. Not
// safe for concurrent use, exactly one caller owns a session.
type CowWriter struct {
	options Options
	header  format.CowHeader

	// nil file puts the session into estimation mode: all counters
	// advance as usual but nothing is written anywhere
	file *io.FileReader

	sessionId uuid.UUID

	compression compression.Config
	compressor  compression.Compressor

	resumePoints []format.ResumePoint

	// scratch buffers for header serialization on the finalize path
	headerBuffers *cache.FixedSizeBufferPool

	nextDataPos uint64
	estimating  bool
}

func New(options Options, file *io.FileReader) *CowWriter {

	w := &CowWriter{
		options:   options,
		file:      file,
		sessionId: uuid.New(),

		estimating: file == nil,
	}

	w.headerBuffers = cache.NewFixedSizeBufferPool(2, int(format.TotalHeaderSize))
	w.header = format.NewHeader(options.BlockSize, options.NumMergeOps, options.ScratchSpace)

	return w
}

func (w *CowWriter) parseOptions() error {

	if w.options.CompressThreads < 1 {
		w.options.CompressThreads = 1
	}

	spec := w.options.Compression
	if spec == "" {
		spec = "none"
	}

	config, parseErr := compression.ParseSpec(spec)
	if parseErr != nil {
		return parseErr
	}

	w.compression = config
	w.header.CompressionAlgorithm = config.Algorithm
	w.header.OpCountMax = w.options.OpCountMax

	if config.Algorithm != format.CompressNone {
		compressor, compErr := compression.NewCompressor(config, w.header.BlockSize)
		if compErr != nil {
			return fmt.Errorf("unable to create %s compressor: %s", compression.AlgorithmName(config.Algorithm), compErr.Error())
		}
		w.compressor = compressor
	}

	return nil
}

// GetCowSize reports the next free payload offset, which is the total
// file size if the session ended now.
func (w *CowWriter) GetCowSize() uint64 {
	return w.nextDataPos
}

func (w *CowWriter) OpCount() uint64 {
	return w.header.OpCount
}

func (w *CowWriter) Header() format.CowHeader {
	return w.header
}

func (w *CowWriter) ResumePoints() []format.ResumePoint {
	return w.resumePoints
}

func (w *CowWriter) Close() error {
	if w.file == nil {
		return nil
	}

	log.Printf(" >> closing cow session %s [%d ops, %d bytes]", w.sessionId.String(), w.header.OpCount, w.nextDataPos)

	return w.file.Close()
}
