package bits

import (
	"encoding/binary"
	"errors"
)

var (
	ErrReadPastEnd = errors.New("read past end of buffer")
)

// BinReader decodes fixed-layout records from an in-memory byte slice.
type BinReader struct {
	data  []byte
	pos   int
	order binary.ByteOrder
}

func NewBinReader(data []byte, order binary.ByteOrder) *BinReader {
	return &BinReader{data: data, order: order}
}

func (r *BinReader) Position() int {
	return r.pos
}

func (r *BinReader) Remaining() int {
	return len(r.data) - r.pos
}

func (r *BinReader) ensure(n int) error {
	if r.pos+n > len(r.data) {
		return ErrReadPastEnd
	}
	return nil
}

func (r *BinReader) ReadU8() (uint8, error) {
	if err := r.ensure(1); err != nil {
		return 0, err
	}

	v := r.data[r.pos]
	r.pos++

	return v, nil
}

func (r *BinReader) ReadU16() (uint16, error) {
	if err := r.ensure(2); err != nil {
		return 0, err
	}

	v := r.order.Uint16(r.data[r.pos:])
	r.pos += 2

	return v, nil
}

func (r *BinReader) ReadU32() (uint32, error) {
	if err := r.ensure(4); err != nil {
		return 0, err
	}

	v := r.order.Uint32(r.data[r.pos:])
	r.pos += 4

	return v, nil
}

func (r *BinReader) ReadU64() (uint64, error) {
	if err := r.ensure(8); err != nil {
		return 0, err
	}

	v := r.order.Uint64(r.data[r.pos:])
	r.pos += 8

	return v, nil
}

func (r *BinReader) MustReadU16() uint16 {
	v, err := r.ReadU16()
	if err != nil {
		panic(err)
	}
	return v
}

func (r *BinReader) MustReadU32() uint32 {
	v, err := r.ReadU32()
	if err != nil {
		panic(err)
	}
	return v
}

func (r *BinReader) MustReadU64() uint64 {
	v, err := r.ReadU64()
	if err != nil {
		panic(err)
	}
	return v
}

func (r *BinReader) Skip(n int) error {
	if err := r.ensure(n); err != nil {
		return err
	}
	r.pos += n
	return nil
}

func (r *BinReader) ReadBytes(n int, out []byte) error {
	if err := r.ensure(n); err != nil {
		return err
	}

	copy(out[:n], r.data[r.pos:])
	r.pos += n

	return nil
}
