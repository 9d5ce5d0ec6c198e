package writer

import (
	"fmt"
	"log"

	"github.com/dot5enko/snapshot-cow/compression"
	"github.com/dot5enko/snapshot-cow/format"
)

func (w *CowWriter) EmitCopy(newBlock, oldBlock, numBlocks uint64) error {

	ops := make([]format.CowOperation, numBlocks)
	for i := uint64(0); i < numBlocks; i++ {
		op := &ops[i]
		op.Type = format.CowCopyOp
		op.NewBlock = uint32(newBlock + i)
		op.Source = oldBlock + i
	}

	return w.writeOperation(ops, nil)
}

func (w *CowWriter) EmitRawBlocks(newBlockStart uint64, data []byte) error {
	return w.emitBlocks(newBlockStart, data, 0, 0, format.CowReplaceOp)
}

func (w *CowWriter) EmitXorBlocks(newBlockStart uint64, data []byte, oldBlock uint64, offset uint16) error {
	return w.emitBlocks(newBlockStart, data, oldBlock, offset, format.CowXorOp)
}

func (w *CowWriter) EmitZeroBlocks(newBlockStart uint64, numBlocks uint64) error {

	ops := make([]format.CowOperation, numBlocks)
	for i := uint64(0); i < numBlocks; i++ {
		op := &ops[i]
		op.Type = format.CowZeroOp
		op.NewBlock = uint32(newBlockStart + i)
	}

	return w.writeOperation(ops, nil)
}

func (w *CowWriter) emitBlocks(newBlockStart uint64, data []byte, oldBlock uint64, offset uint16, opType uint8) error {

	if w.compression.Algorithm != format.CompressNone && w.compressor == nil {
		return fmt.Errorf("compression algorithm is %s but compressor is uninitialized",
			compression.AlgorithmName(w.compression.Algorithm))
	}

	blockSize := uint64(w.header.BlockSize)
	numBlocks := uint64(len(data)) / blockSize

	if w.compression.Algorithm == format.CompressNone {
		ops := make([]format.CowOperation, numBlocks)
		for i := uint64(0); i < numBlocks; i++ {
			op := &ops[i]
			op.Type = opType
			op.NewBlock = uint32(newBlockStart + i)

			if opType == format.CowXorOp {
				op.Source = (oldBlock+i)*blockSize + uint64(offset)
			} else {
				op.Source = w.nextDataPos + blockSize*i
			}
			op.DataLength = uint16(blockSize)
		}
		return w.writeOperation(ops, data[:numBlocks*blockSize])
	}

	compressed, compressErr := w.compressBatch(data[:numBlocks*blockSize])
	if compressErr != nil {
		return compressErr
	}

	savedOpCount := w.header.OpCount
	savedDataPos := w.nextDataPos

	for i := uint64(0); i < numBlocks; i++ {
		block := data[blockSize*i : blockSize*(i+1)]

		op := format.CowOperation{}
		op.Type = opType
		op.NewBlock = uint32(newBlockStart + i)

		if opType == format.CowXorOp {
			op.Source = (oldBlock+i)*blockSize + uint64(offset)
		} else {
			op.Source = w.nextDataPos
		}

		// keep the compressed bytes only when strictly smaller,
		// decided per block so a batch may mix both forms
		outData := block
		op.DataLength = uint16(blockSize)

		if uint64(len(compressed[i])) < blockSize {
			outData = compressed[i]
			op.DataLength = uint16(len(compressed[i]))
		}

		if writeErr := w.writeSingleOperation(op, outData); writeErr != nil {
			log.Printf("emit blocks with compression: write failed. new block: %d compression: %s",
				newBlockStart, compression.AlgorithmName(w.compression.Algorithm))

			// leave no partial batch visible
			w.header.OpCount = savedOpCount
			w.nextDataPos = savedDataPos

			return writeErr
		}
	}

	return nil
}

func (w *CowWriter) compressBatch(data []byte) ([][]byte, error) {
	return compression.CompressBlocks(w.compressor, data, w.header.BlockSize, w.options.CompressThreads)
}
