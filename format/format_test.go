package format

import (
	"encoding/binary"
	"testing"

	"github.com/dot5enko/snapshot-cow/bits"
)

func TestHeaderRoundTrip(t *testing.T) {

	header := NewHeader(4096, 1, true)
	header.OpCount = 17
	header.OpCountMax = 100
	header.CompressionAlgorithm = CompressLz4
	header.SequenceDataCount = 3
	header.ResumePointCount = 2

	buf := make([]byte, TotalHeaderSize)
	writer := bits.NewEncodeBuffer(buf, binary.LittleEndian)

	written, err := header.WriteTo(&writer)
	if err != nil {
		t.Fatalf("unable to serialize header: %s", err.Error())
	}

	if written != int(TotalHeaderSize) {
		t.Errorf("expected %d serialized bytes but got %d", TotalHeaderSize, written)
	}

	decoded := CowHeader{}
	if err := decoded.FromBytes(buf); err != nil {
		t.Fatalf("unable to decode header: %s", err.Error())
	}

	if decoded != header {
		t.Errorf("decoded header differs from written one:\n%+v\n%+v", decoded, header)
	}
}

func TestHeaderDecodesFromUsedPrefix(t *testing.T) {

	header := NewHeader(4096, 0, false)
	header.OpCountMax = 55

	buf := make([]byte, TotalHeaderSize)
	writer := bits.NewEncodeBuffer(buf, binary.LittleEndian)

	header.WriteTo(&writer)

	// resume-path readers fetch only the used prefix
	decoded := CowHeader{}
	if err := decoded.FromBytes(buf[:HeaderSizeUsed]); err != nil {
		t.Fatalf("unable to decode header from used prefix: %s", err.Error())
	}

	if decoded != header {
		t.Errorf("prefix decode differs from original")
	}

	if HeaderSizeUsed+ReservedSize != TotalHeaderSize {
		t.Errorf("header size constants disagree: %d + %d != %d", HeaderSizeUsed, ReservedSize, TotalHeaderSize)
	}
}

func TestHeaderRejectsBadMagic(t *testing.T) {

	buf := make([]byte, TotalHeaderSize)

	decoded := CowHeader{}
	if err := decoded.FromBytes(buf); err == nil {
		t.Errorf("expected decode failure on zeroed magic")
	}
}

func TestOperationRoundTrip(t *testing.T) {

	op := CowOperation{
		Type:       CowXorOp,
		DataLength: 913,
		NewBlock:   42,
		Source:     42*4096 + 17,
	}

	encoded := EncodeOps([]CowOperation{op})

	if len(encoded) != int(OperationSize) {
		t.Fatalf("expected %d bytes per op but got %d", OperationSize, len(encoded))
	}

	decoded := CowOperation{}
	if err := decoded.FromBytes(encoded); err != nil {
		t.Fatalf("unable to decode op: %s", err.Error())
	}

	if decoded != op {
		t.Errorf("decoded op differs: %+v vs %+v", decoded, op)
	}
}

func TestResumePointRoundTrip(t *testing.T) {

	points := []ResumePoint{{Label: 7, OpIndex: 120}, {Label: 9, OpIndex: 300}}

	encoded := EncodeResumePoints(points)
	if len(encoded) != 2*int(ResumePointSize) {
		t.Fatalf("expected %d bytes but got %d", 2*ResumePointSize, len(encoded))
	}

	for i := range points {
		decoded := ResumePoint{}
		if err := decoded.FromBytes(encoded[i*int(ResumePointSize):]); err != nil {
			t.Fatalf("unable to decode resume point %d: %s", i, err.Error())
		}
		if decoded != points[i] {
			t.Errorf("decoded point %d differs: %+v vs %+v", i, decoded, points[i])
		}
	}
}

func TestRegionOffsets(t *testing.T) {

	header := NewHeader(4096, 0, false)
	header.OpCountMax = 10

	resume := GetResumeOffset(&header)
	if resume != uint64(header.HeaderSize) {
		t.Errorf("resume table should start right after the header: %d vs %d", resume, header.HeaderSize)
	}

	sequence := GetSequenceOffset(&header)
	if sequence != resume+uint64(header.ResumePointMax)*ResumePointSize {
		t.Errorf("sequence table offset off: %d", sequence)
	}

	if GetOpOffset(0, &header) != sequence {
		t.Errorf("op table should start at sequence offset with no sequence data")
	}

	if GetDataOffset(&header) != GetOpOffset(header.OpCountMax, &header) {
		t.Errorf("payload region must start right past the full op table")
	}

	// scratch region pushes every region forward
	withScratch := NewHeader(4096, 0, true)
	withScratch.OpCountMax = 10

	if GetResumeOffset(&withScratch) != uint64(withScratch.HeaderSize)+uint64(BufferRegionDefaultSize) {
		t.Errorf("scratch region not accounted for in resume offset")
	}

	// sequence data pushes the op table and payload forward
	header.SequenceDataCount = 5
	if GetOpOffset(0, &header) != sequence+5*4 {
		t.Errorf("sequence data not accounted for in op offset")
	}
}
