package format

// Region offsets are pure functions of header fields so the fresh-open and
// resume-open paths always agree on the file layout:
//
// *--------------------------------*
// | header (TotalHeaderSize)       |
// *--------------------------------*
// | scratch region (BufferSize)    |
// *--------------------------------*
// | resume point table             |
// *--------------------------------*
// | sequence data                  |
// *--------------------------------*
// | operation table (OpCountMax)   |
// *--------------------------------*
// | payload data, append only      |
// *--------------------------------*

func GetResumeOffset(header *CowHeader) uint64 {
	return uint64(header.HeaderSize) + uint64(header.BufferSize)
}

func GetSequenceOffset(header *CowHeader) uint64 {
	return GetResumeOffset(header) + uint64(header.ResumePointMax)*ResumePointSize
}

func GetOpOffset(opIndex uint64, header *CowHeader) uint64 {
	return GetSequenceOffset(header) + header.SequenceDataCount*4 + opIndex*uint64(OperationSize)
}

func GetDataOffset(header *CowHeader) uint64 {
	return GetOpOffset(header.OpCountMax, header)
}
