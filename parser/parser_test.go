package parser

import (
	"encoding/binary"
	"path/filepath"
	"testing"

	"github.com/dot5enko/snapshot-cow/bits"
	"github.com/dot5enko/snapshot-cow/format"
	cowio "github.com/dot5enko/snapshot-cow/io"
)

// lays down a minimal file by hand: header, one resume point, two ops
func writeFixtureFile(t *testing.T, path string) format.CowHeader {

	t.Helper()

	header := format.NewHeader(4096, 0, false)
	header.OpCountMax = 4
	header.OpCount = 2
	header.ResumePointCount = 1

	file := cowio.NewFileReader(path)
	if err := file.Open(false); err != nil {
		t.Fatalf("unable to open fixture file: %s", err.Error())
	}
	defer file.Close()

	headerBuf := make([]byte, format.TotalHeaderSize)
	encoder := bits.NewEncodeBuffer(headerBuf, binary.LittleEndian)
	header.WriteTo(&encoder)

	if err := file.WriteAt(headerBuf, 0, len(headerBuf)); err != nil {
		t.Fatalf("unable to write fixture header: %s", err.Error())
	}

	points := format.EncodeResumePoints([]format.ResumePoint{{Label: 11, OpIndex: 2}})
	if err := file.WriteAt(points, int(format.GetResumeOffset(&header)), len(points)); err != nil {
		t.Fatalf("unable to write fixture resume points: %s", err.Error())
	}

	ops := format.EncodeOps([]format.CowOperation{
		{Type: format.CowCopyOp, NewBlock: 1, Source: 9},
		{Type: format.CowZeroOp, NewBlock: 2},
	})
	if err := file.WriteAt(ops, int(format.GetOpOffset(0, &header)), len(ops)); err != nil {
		t.Fatalf("unable to write fixture ops: %s", err.Error())
	}

	return header
}

func TestParseRecoversCommittedPrefix(t *testing.T) {

	path := filepath.Join(t.TempDir(), "fixture.cow")
	written := writeFixtureFile(t, path)

	file := cowio.NewFileReader(path)
	if err := file.Open(true); err != nil {
		t.Fatalf("unable to open fixture: %s", err.Error())
	}
	defer file.Close()

	header, headerErr := ReadCowHeader(file)
	if headerErr != nil {
		t.Fatalf("unable to read header: %s", headerErr.Error())
	}

	if header != written {
		t.Fatalf("header read back differs:\n%+v\n%+v", header, written)
	}

	parsed, parseErr := Parse(file, &header, 11)
	if parseErr != nil {
		t.Fatalf("parse failed: %s", parseErr.Error())
	}

	if len(parsed.Ops) != 2 {
		t.Fatalf("expected 2 ops, got %d", len(parsed.Ops))
	}

	if parsed.Ops[0].Type != format.CowCopyOp || parsed.Ops[0].Source != 9 {
		t.Errorf("first op malformed: %+v", parsed.Ops[0])
	}

	if len(parsed.ResumePoints) != 1 || parsed.ResumePoints[0].Label != 11 {
		t.Errorf("resume points malformed: %+v", parsed.ResumePoints)
	}
}

func TestParseUnknownLabel(t *testing.T) {

	path := filepath.Join(t.TempDir(), "fixture.cow")
	writeFixtureFile(t, path)

	file := cowio.NewFileReader(path)
	if err := file.Open(true); err != nil {
		t.Fatalf("unable to open fixture: %s", err.Error())
	}
	defer file.Close()

	header, headerErr := ReadCowHeader(file)
	if headerErr != nil {
		t.Fatalf("unable to read header: %s", headerErr.Error())
	}

	if _, parseErr := Parse(file, &header, 12); parseErr == nil {
		t.Errorf("expected failure for label with no resume point")
	}
}

func TestReadHeaderOnTruncatedFile(t *testing.T) {

	path := filepath.Join(t.TempDir(), "short.cow")

	file := cowio.NewFileReader(path)
	if err := file.Open(false); err != nil {
		t.Fatalf("unable to open file: %s", err.Error())
	}
	defer file.Close()

	if err := file.WriteAt([]byte{1, 2, 3}, 0, 3); err != nil {
		t.Fatalf("unable to write: %s", err.Error())
	}

	if _, headerErr := ReadCowHeader(file); headerErr == nil {
		t.Errorf("expected failure reading header from truncated file")
	}
}
