package parser

import (
	"fmt"

	"github.com/dot5enko/snapshot-cow/format"
	"github.com/dot5enko/snapshot-cow/io"
)

// ParseResult is the state a resumed writer session adopts: the persisted
// resume point list and the operation prefix committed at the given label.
type ParseResult struct {
	Ops          []format.CowOperation
	ResumePoints []format.ResumePoint
}

// Parse validates that label was durably checkpointed in the file and
// reconstructs the operation stream up to it. Operations physically present
// past the label's committed count are ignored, they were never
// checkpointed.
func Parse(file *io.FileReader, header *format.CowHeader, label uint64) (*ParseResult, error) {

	points, pointsErr := readResumePoints(file, header)
	if pointsErr != nil {
		return nil, pointsErr
	}

	found := false
	var opCount uint32

	for _, point := range points {
		if point.Label == label {
			opCount = point.OpIndex
			found = true
			break
		}
	}

	if !found {
		return nil, fmt.Errorf("label %d has no resume point in file", label)
	}

	ops, opsErr := readOps(file, header, uint64(opCount))
	if opsErr != nil {
		return nil, opsErr
	}

	return &ParseResult{Ops: ops, ResumePoints: points}, nil
}

func readResumePoints(file *io.FileReader, header *format.CowHeader) ([]format.ResumePoint, error) {

	count := int(header.ResumePointCount)
	if count > int(header.ResumePointMax) {
		return nil, fmt.Errorf("resume point count %d exceeds table capacity %d", count, header.ResumePointMax)
	}

	points := make([]format.ResumePoint, count)
	if count == 0 {
		return points, nil
	}

	buf := make([]byte, count*int(format.ResumePointSize))

	readErr := file.ReadAt(buf, int(format.GetResumeOffset(header)), len(buf))
	if readErr != nil {
		return nil, fmt.Errorf("unable to read resume point table: %s", readErr.Error())
	}

	for i := 0; i < count; i++ {
		entry := buf[i*int(format.ResumePointSize):]
		if decodeErr := points[i].FromBytes(entry); decodeErr != nil {
			return nil, fmt.Errorf("unable to decode resume point %d: %s", i, decodeErr.Error())
		}
	}

	return points, nil
}

func readOps(file *io.FileReader, header *format.CowHeader, count uint64) ([]format.CowOperation, error) {

	if count > header.OpCountMax {
		return nil, fmt.Errorf("committed op count %d exceeds table capacity %d", count, header.OpCountMax)
	}

	ops := make([]format.CowOperation, count)
	if count == 0 {
		return ops, nil
	}

	buf := make([]byte, count*uint64(format.OperationSize))

	readErr := file.ReadAt(buf, int(format.GetOpOffset(0, header)), len(buf))
	if readErr != nil {
		return nil, fmt.Errorf("unable to read operation table: %s", readErr.Error())
	}

	for i := uint64(0); i < count; i++ {
		entry := buf[i*uint64(format.OperationSize):]
		if decodeErr := ops[i].FromBytes(entry); decodeErr != nil {
			return nil, fmt.Errorf("unable to decode operation %d: %s", i, decodeErr.Error())
		}
	}

	return ops, nil
}
